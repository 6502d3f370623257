package service

import (
	"context"
	goerrors "errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"eventease/internal/errors"
	"eventease/internal/model"
	"eventease/internal/repository"
)

// emailPattern matches a single-@, has-a-dot-after-@ address shape.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Attendee carries the caller-supplied RSVP fields. Attendees need no
// account; the email is the natural key.
type Attendee struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// RSVPService admits attendees to events.
type RSVPService interface {
	Admit(ctx context.Context, eventID uuid.UUID, attendee Attendee) (*model.RSVP, error)
}

type rsvpService struct {
	rsvpRepo repository.RSVPRepository
	// Mutex map for per-event admission serialization within this process.
	eventMutexes sync.Map
}

// NewRSVPService creates a new RSVP admission service.
func NewRSVPService(rsvpRepo repository.RSVPRepository) RSVPService {
	return &rsvpService{rsvpRepo: rsvpRepo}
}

// getMutex returns a mutex for a specific event ID.
func (s *rsvpService) getMutex(eventID uuid.UUID) *sync.Mutex {
	key := eventID.String()
	value, _ := s.eventMutexes.LoadOrStore(key, &sync.Mutex{})
	return value.(*sync.Mutex)
}

// Admit runs the admission pipeline and creates a CONFIRMED RSVP. Checks run
// in a fixed order; the first failure determines the error the caller sees:
//
//  1. name and email present
//  2. email well-formed
//  3. event exists
//  4. event is public
//  5. event has not started
//  6. capacity not reached
//  7. no prior RSVP for this email
//
// Steps 3-7 and the insert execute inside one transaction with the event row
// locked, serialized per event by a local mutex, so the attendee cap and the
// one-RSVP-per-email rule hold under concurrent admissions. The composite
// unique index backstops duplicates across processes. Nothing is written when
// any step fails.
func (s *rsvpService) Admit(ctx context.Context, eventID uuid.UUID, attendee Attendee) (*model.RSVP, error) {
	if attendee.Name == "" || attendee.Email == "" {
		return nil, errors.ErrNameEmailRequired
	}
	if !emailPattern.MatchString(attendee.Email) {
		return nil, errors.ErrInvalidEmail
	}

	mutex := s.getMutex(eventID)
	mutex.Lock()
	defer mutex.Unlock()

	rsvp := &model.RSVP{
		EventID: eventID,
		Name:    attendee.Name,
		Email:   attendee.Email,
		Phone:   attendee.Phone,
		Message: attendee.Message,
		Status:  model.RSVPStatusConfirmed,
	}

	err := s.rsvpRepo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.RSVPRepository) error {
		event, err := txRepo.FindEventForUpdate(ctx, eventID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrEventNotFound
			}
			return fmt.Errorf("find event: %w", err)
		}

		if !event.IsPublic {
			return errors.ErrEventNotPublic
		}

		if time.Now().After(event.StartDate) {
			return errors.ErrRSVPClosed
		}

		if event.MaxAttendees != nil {
			count, err := txRepo.CountConfirmedByEvent(ctx, eventID)
			if err != nil {
				return fmt.Errorf("count rsvps: %w", err)
			}
			if count >= int64(*event.MaxAttendees) {
				return errors.ErrEventFull
			}
		}

		if _, err := txRepo.FindByEventAndEmail(ctx, eventID, attendee.Email); err == nil {
			return errors.ErrDuplicateRSVP
		} else if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("check existing rsvp: %w", err)
		}

		if err := txRepo.Create(ctx, rsvp); err != nil {
			if goerrors.Is(err, gorm.ErrDuplicatedKey) {
				return errors.ErrDuplicateRSVP
			}
			return fmt.Errorf("create rsvp: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return rsvp, nil
}
