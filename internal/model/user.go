package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role represents the access level of a registered user.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleStaff      Role = "STAFF"
	RoleEventOwner Role = "EVENT_OWNER"
)

// User represents a registered organizer account. Attendees are not users;
// they RSVP by email only.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name         string    `json:"name,omitempty" gorm:"size:255"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         Role      `json:"role" gorm:"type:varchar(20);not null;default:'EVENT_OWNER';index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Events []Event `json:"events,omitempty" gorm:"foreignKey:CreatorID"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
