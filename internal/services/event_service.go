package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sabbirahmed/eventhub-backend/internal/apperror"
	"github.com/sabbirahmed/eventhub-backend/internal/models"
	"github.com/sabbirahmed/eventhub-backend/internal/query"
)

var eventQueryOptions = query.Options{
	Columns: map[string]string{
		"id":            "id",
		"title":         "title",
		"name":          "name",
		"dateTime":      "date_time",
		"location":      "location",
		"description":   "description",
		"attendeeCount": "attendee_count",
		"createdBy":     "created_by",
		"createdAt":     "created_at",
		"updatedAt":     "updated_at",
	},
	DateColumn:  "date_time",
	DefaultSort: "-createdAt",
}

var eventSearchFields = []string{"title", "description", "location"}

type CreateEventInput struct {
	Title       string
	Name        string
	DateTime    time.Time
	Location    string
	Description string
}

type UpdateEventInput struct {
	Title       *string
	Name        *string
	DateTime    *time.Time
	Location    *string
	Description *string
}

type EventService struct {
	db *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{db: db}
}

// Create persists a new event. The creator is always the authenticated
// actor, never taken from the payload.
func (s *EventService) Create(creatorID uuid.UUID, input CreateEventInput) (*models.Event, error) {
	event := models.Event{
		Title:       input.Title,
		Name:        input.Name,
		DateTime:    input.DateTime,
		Location:    input.Location,
		Description: input.Description,
		CreatedBy:   creatorID,
	}

	if err := s.db.Create(&event).Error; err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "Failed to create event.", err)
	}

	return s.findByID(event.ID)
}

func (s *EventService) Get(eventID string) (*models.Event, error) {
	id, err := parseEventID(eventID)
	if err != nil {
		return nil, err
	}
	return s.findByID(id)
}

// Update applies a partial update. Only the creator may modify an event.
func (s *EventService) Update(eventID string, actorID uuid.UUID, input UpdateEventInput) (*models.Event, error) {
	id, err := parseEventID(eventID)
	if err != nil {
		return nil, err
	}

	event, err := s.fetch(id)
	if err != nil {
		return nil, err
	}
	if event.CreatedBy != actorID {
		return nil, apperror.Forbidden("You are not authorized to update this event")
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.DateTime != nil {
		updates["date_time"] = *input.DateTime
	}
	if input.Location != nil {
		updates["location"] = *input.Location
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}

	if len(updates) > 0 {
		if err := s.db.Model(event).Updates(updates).Error; err != nil {
			return nil, apperror.Wrap(apperror.KindInternal, "Failed to update event.", err)
		}
	}

	return s.findByID(id)
}

// Delete removes an event. Only the creator may delete it.
func (s *EventService) Delete(eventID string, actorID uuid.UUID) error {
	id, err := parseEventID(eventID)
	if err != nil {
		return err
	}

	event, err := s.fetch(id)
	if err != nil {
		return err
	}
	if event.CreatedBy != actorID {
		return apperror.Forbidden("You are not authorized to delete this event")
	}

	if err := s.db.Delete(event).Error; err != nil {
		return apperror.Wrap(apperror.KindInternal, "Failed to delete event.", err)
	}
	return nil
}

// Join records the actor as an attendee, at most once per identity. The
// membership insert and the attendee_count increment happen in one
// transaction; the composite key on event_attendees rejects a concurrent
// duplicate join that slips past the pre-check.
func (s *EventService) Join(eventID string, actorID uuid.UUID) (*models.Event, error) {
	id, err := parseEventID(eventID)
	if err != nil {
		return nil, err
	}

	if _, err := s.fetch(id); err != nil {
		return nil, err
	}

	var joined int64
	if err := s.db.Table("event_attendees").
		Where("event_id = ? AND user_id = ?", id, actorID).
		Count(&joined).Error; err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "Error checking attendance.", err)
	}
	if joined > 0 {
		return nil, apperror.BadRequest("You have already joined this event")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			"INSERT INTO event_attendees (event_id, user_id) VALUES (?, ?)", id, actorID,
		).Error; err != nil {
			return err
		}
		return tx.Model(&models.Event{}).Where("id = ?", id).
			UpdateColumn("attendee_count", gorm.Expr("attendee_count + 1")).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.BadRequest("You have already joined this event")
		}
		return nil, apperror.Wrap(apperror.KindInternal, "Failed to join event.", err)
	}

	return s.findByID(id)
}

// List returns events matching the query description, with pagination
// metadata computed from the same predicate.
func (s *EventService) List(params query.Params) ([]models.Event, query.Meta, error) {
	return s.list(s.db.Model(&models.Event{}), params)
}

// ListMine scopes the listing to events the actor created. The constraint is
// merged into the description so it flows through the same filter the count
// uses.
func (s *EventService) ListMine(actorID uuid.UUID, params query.Params) ([]models.Event, query.Meta, error) {
	scoped := params.Clone()
	scoped["createdBy"] = actorID.String()
	return s.list(s.db.Model(&models.Event{}), scoped)
}

// ListJoined scopes the listing to events whose membership set contains the
// actor.
func (s *EventService) ListJoined(actorID uuid.UUID, params query.Params) ([]models.Event, query.Meta, error) {
	base := s.db.Model(&models.Event{}).
		Joins("JOIN event_attendees ON event_attendees.event_id = events.id").
		Where("event_attendees.user_id = ?", actorID)
	return s.list(base, params)
}

func (s *EventService) list(base *gorm.DB, params query.Params) ([]models.Event, query.Meta, error) {
	translated := applyPeriodFilter(params, time.Now())

	// Listings order by schedule, not insertion: override the translator's
	// generic default before delegating.
	if translated["sort"] == "" {
		translated["sort"] = "-dateTime"
	}

	builder := query.New(preloadCreator(base), translated, eventQueryOptions).
		Search(eventSearchFields...).
		Filter().
		Sort().
		Paginate().
		Fields()

	var events []models.Event
	if err := builder.Find(&events); err != nil {
		return nil, query.Meta{}, apperror.Wrap(apperror.KindInternal, "Error retrieving events.", err)
	}

	meta, err := builder.CountTotal()
	if err != nil {
		return nil, query.Meta{}, apperror.Wrap(apperror.KindInternal, "Error counting events.", err)
	}

	return events, meta, nil
}

func (s *EventService) findByID(id uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := preloadCreator(s.db).Where("id = ?", id).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Event not found")
		}
		return nil, apperror.Wrap(apperror.KindInternal, "Error retrieving event.", err)
	}
	return &event, nil
}

// fetch loads an event without expansions, for ownership checks and writes.
func (s *EventService) fetch(id uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := s.db.Where("id = ?", id).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Event not found")
		}
		return nil, apperror.Wrap(apperror.KindInternal, "Error retrieving event.", err)
	}
	return &event, nil
}

func preloadCreator(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Creator", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "name", "email", "photo_url")
	})
}

func parseEventID(eventID string) (uuid.UUID, error) {
	id, err := uuid.Parse(eventID)
	if err != nil {
		return uuid.Nil, apperror.BadRequest("Invalid event ID")
	}
	return id, nil
}
