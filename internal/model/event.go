package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustomFieldType enumerates the input types an organizer can attach to an
// event's RSVP form.
type CustomFieldType string

const (
	CustomFieldText     CustomFieldType = "text"
	CustomFieldEmail    CustomFieldType = "email"
	CustomFieldNumber   CustomFieldType = "number"
	CustomFieldTextarea CustomFieldType = "textarea"
)

// CustomField is one organizer-defined RSVP form field.
type CustomField struct {
	ID       string          `json:"id"`
	Label    string          `json:"label"`
	Type     CustomFieldType `json:"type"`
	Required bool            `json:"required"`
}

// CustomFields is stored as a JSON column.
type CustomFields []CustomField

// Value implements driver.Valuer.
func (f CustomFields) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}
	return json.Marshal(f)
}

// Scan implements sql.Scanner.
func (f *CustomFields) Scan(value interface{}) error {
	if value == nil {
		*f = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported custom fields type %T", value)
	}
	return json.Unmarshal(data, f)
}

// Event represents an organizer-owned event.
type Event struct {
	ID           uuid.UUID    `json:"id" gorm:"type:char(36);primaryKey"`
	Title        string       `json:"title" gorm:"size:255;not null"`
	Description  string       `json:"description,omitempty" gorm:"type:text"`
	Location     string       `json:"location" gorm:"size:255;not null"`
	StartDate    time.Time    `json:"startDate" gorm:"not null;index"`
	EndDate      *time.Time   `json:"endDate,omitempty"`
	IsPublic     bool         `json:"isPublic" gorm:"default:true;index"`
	MaxAttendees *int         `json:"maxAttendees,omitempty"`
	CustomFields CustomFields `json:"customFields,omitempty" gorm:"type:json"`
	Views        int          `json:"views" gorm:"not null;default:0"`
	CreatorID    uuid.UUID    `json:"creatorId" gorm:"type:char(36);not null;index"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`

	// Relations
	Creator *User  `json:"creator,omitempty" gorm:"foreignKey:CreatorID"`
	RSVPs   []RSVP `json:"rsvps,omitempty" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`

	// RSVPCount is computed on read, not stored.
	RSVPCount int64 `json:"rsvpCount" gorm:"-"`
}

// BeforeCreate sets UUID before creating the record.
func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
