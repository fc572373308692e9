package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sabbirahmed/eventhub-backend/internal/apperror"
	"github.com/sabbirahmed/eventhub-backend/internal/models"
	"github.com/sabbirahmed/eventhub-backend/internal/query"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Event{}))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := models.User{
		Name:     "Test User",
		Email:    email,
		Password: "$2a$10$notarealhashnotarealhashnotarealhashnotarealha",
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createTestEvent(t *testing.T, db *gorm.DB, creator uuid.UUID, title string, dateTime time.Time) *models.Event {
	t.Helper()

	event := models.Event{
		Title:       title,
		Name:        "Organizer",
		DateTime:    dateTime,
		Location:    "Dhaka",
		Description: "description of " + title,
		CreatedBy:   creator,
	}
	require.NoError(t, db.Create(&event).Error)
	return &event
}

func Test_EventService_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db)
	creator := createTestUser(t, db, "creator@example.com")

	input := CreateEventInput{
		Title:       "Go Meetup",
		Name:        "Gopher Club",
		DateTime:    time.Now().Add(48 * time.Hour).Truncate(time.Second),
		Location:    "Banani",
		Description: "Monthly community meetup",
	}

	created, err := svc.Create(creator.ID, input)
	require.NoError(t, err)
	assert.Equal(t, creator.ID, created.CreatedBy)
	assert.Equal(t, 0, created.AttendeeCount)

	got, err := svc.Get(created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, input.Title, got.Title)
	assert.Equal(t, input.Name, got.Name)
	assert.Equal(t, input.Location, got.Location)
	assert.Equal(t, input.Description, got.Description)
	assert.True(t, input.DateTime.Equal(got.DateTime))
	require.NotNil(t, got.Creator)
	assert.Equal(t, creator.Email, got.Creator.Email)
}

func Test_EventService_Get_Errors(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db)

	_, err := svc.Get("not-a-uuid")
	assert.Equal(t, apperror.KindBadRequest, apperror.KindOf(err))

	_, err = svc.Get(uuid.NewString())
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func Test_EventService_Update(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db)
	creator := createTestUser(t, db, "creator@example.com")
	stranger := createTestUser(t, db, "stranger@example.com")
	event := createTestEvent(t, db, creator.ID, "Original", time.Now().Add(24*time.Hour))

	newTitle := "Renamed"

	t.Run("non_creator_is_forbidden", func(t *testing.T) {
		_, err := svc.Update(event.ID.String(), stranger.ID, UpdateEventInput{Title: &newTitle})
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	})

	t.Run("creator_applies_partial_update", func(t *testing.T) {
		updated, err := svc.Update(event.ID.String(), creator.ID, UpdateEventInput{Title: &newTitle})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Title)
		// Untouched fields survive.
		assert.Equal(t, event.Location, updated.Location)
	})

	t.Run("missing_event_is_not_found", func(t *testing.T) {
		_, err := svc.Update(uuid.NewString(), creator.ID, UpdateEventInput{Title: &newTitle})
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})
}

func Test_EventService_Delete(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db)
	creator := createTestUser(t, db, "creator@example.com")
	stranger := createTestUser(t, db, "stranger@example.com")
	event := createTestEvent(t, db, creator.ID, "Doomed", time.Now().Add(24*time.Hour))

	err := svc.Delete(event.ID.String(), stranger.ID)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	require.NoError(t, svc.Delete(event.ID.String(), creator.ID))

	_, err = svc.Get(event.ID.String())
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func Test_EventService_Join(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db)
	creator := createTestUser(t, db, "creator@example.com")
	attendee := createTestUser(t, db, "attendee@example.com")
	event := createTestEvent(t, db, creator.ID, "Joinable", time.Now().Add(24*time.Hour))

	joined, err := svc.Join(event.ID.String(), attendee.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, joined.AttendeeCount)

	// Same actor again: rejected, and the count moved exactly once in total.
	_, err = svc.Join(event.ID.String(), attendee.ID)
	assert.Equal(t, apperror.KindBadRequest, apperror.KindOf(err))

	current, err := svc.Get(event.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, current.AttendeeCount)

	_, err = svc.Join(uuid.NewString(), attendee.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func Test_EventService_List(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db)
	creator := createTestUser(t, db, "creator@example.com")

	base := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		createTestEvent(t, db, creator.ID, fmt.Sprintf("Event %d", i), base.AddDate(0, 0, i*7))
	}

	t.Run("default_sort_is_schedule_descending", func(t *testing.T) {
		events, meta, err := svc.List(query.Params{})
		require.NoError(t, err)
		require.Len(t, events, 5)
		assert.Equal(t, int64(5), meta.Total)
		for i := 1; i < len(events); i++ {
			assert.False(t, events[i-1].DateTime.Before(events[i].DateTime))
		}
	})

	t.Run("search_term_narrows_results_and_total", func(t *testing.T) {
		events, meta, err := svc.List(query.Params{"searchTerm": "event 3"})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "Event 3", events[0].Title)
		assert.Equal(t, int64(1), meta.Total)
	})

	t.Run("date_range_filters_on_schedule", func(t *testing.T) {
		events, meta, err := svc.List(query.Params{
			"startDate": "2025-06-08",
			"endDate":   "2025-06-22",
		})
		require.NoError(t, err)
		assert.Len(t, events, 2)
		assert.Equal(t, int64(2), meta.Total)
	})

	t.Run("pagination_window", func(t *testing.T) {
		events, meta, err := svc.List(query.Params{"page": "2", "limit": "2", "sort": "dateTime"})
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, "Event 2", events[0].Title)
		assert.Equal(t, int64(5), meta.Total)
		assert.Equal(t, 3, meta.TotalPage)
	})
}

func Test_EventService_List_FilterByToday(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db)
	creator := createTestUser(t, db, "creator@example.com")

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	createTestEvent(t, db, creator.ID, "Late last night", midnight.Add(-time.Second))
	createTestEvent(t, db, creator.ID, "First thing today", midnight)
	createTestEvent(t, db, creator.ID, "Later today", midnight.Add(13*time.Hour))
	createTestEvent(t, db, creator.ID, "Tomorrow afternoon", midnight.Add(36*time.Hour))

	events, meta, err := svc.List(query.Params{"filterBy": "today"})
	require.NoError(t, err)

	titles := make([]string, 0, len(events))
	for _, e := range events {
		titles = append(titles, e.Title)
	}
	assert.ElementsMatch(t, []string{"First thing today", "Later today"}, titles)
	assert.Equal(t, int64(2), meta.Total)
}

func Test_EventService_ListMine(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	createTestEvent(t, db, alice.ID, "Alice One", time.Now().Add(24*time.Hour))
	createTestEvent(t, db, alice.ID, "Alice Two", time.Now().Add(48*time.Hour))
	createTestEvent(t, db, bob.ID, "Bob One", time.Now().Add(24*time.Hour))

	events, meta, err := svc.ListMine(alice.ID, query.Params{})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, int64(2), meta.Total)
	for _, e := range events {
		assert.Equal(t, alice.ID, e.CreatedBy)
	}
}

func Test_EventService_ListJoined(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db)
	creator := createTestUser(t, db, "creator@example.com")
	attendee := createTestUser(t, db, "attendee@example.com")

	joinable := createTestEvent(t, db, creator.ID, "Joined by attendee", time.Now().Add(24*time.Hour))
	createTestEvent(t, db, creator.ID, "Not joined", time.Now().Add(48*time.Hour))

	_, err := svc.Join(joinable.ID.String(), attendee.ID)
	require.NoError(t, err)

	events, meta, err := svc.ListJoined(attendee.ID, query.Params{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Joined by attendee", events[0].Title)
	assert.Equal(t, int64(1), meta.Total)

	none, meta, err := svc.ListJoined(creator.ID, query.Params{})
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.Equal(t, int64(0), meta.Total)
}
