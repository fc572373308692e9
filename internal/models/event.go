package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Event struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Title         string    `gorm:"not null" json:"title"`
	Name          string    `gorm:"not null" json:"name"`
	DateTime      time.Time `gorm:"not null;index" json:"dateTime"`
	Location      string    `gorm:"not null" json:"location"`
	Description   string    `gorm:"not null" json:"description"`
	AttendeeCount int       `gorm:"not null;default:0" json:"attendeeCount"`
	CreatedBy     uuid.UUID `gorm:"type:uuid;not null;index" json:"createdBy"`
	Creator       *User     `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Attendees     []User    `gorm:"many2many:event_attendees" json:"attendees,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (event *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return
}
