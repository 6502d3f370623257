package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RSVPStatus represents the status of an RSVP. Admission always produces
// CONFIRMED; PENDING and CANCELLED are defined for future status transitions
// but no flow creates them yet.
type RSVPStatus string

const (
	RSVPStatusPending   RSVPStatus = "PENDING"
	RSVPStatusConfirmed RSVPStatus = "CONFIRMED"
	RSVPStatusCancelled RSVPStatus = "CANCELLED"
)

// RSVP represents one attendee registration for an event. The composite
// unique index on (event_id, email) enforces at most one RSVP per email per
// event at the datastore level.
type RSVP struct {
	ID        uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	EventID   uuid.UUID  `json:"eventId" gorm:"type:char(36);not null;uniqueIndex:idx_event_email"`
	Name      string     `json:"name" gorm:"size:255;not null"`
	Email     string     `json:"email" gorm:"size:255;not null;uniqueIndex:idx_event_email"`
	Phone     string     `json:"phone,omitempty" gorm:"size:50"`
	Message   string     `json:"message,omitempty" gorm:"type:text"`
	Status    RSVPStatus `json:"status" gorm:"type:varchar(20);not null;default:'CONFIRMED';index"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`

	// Relations
	Event *Event `json:"-" gorm:"foreignKey:EventID"`
}

// BeforeCreate sets UUID before creating the record.
func (r *RSVP) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
