package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"eventease/internal/auth"
	"eventease/internal/cache"
	"eventease/internal/errors"
	"eventease/internal/model"
	"eventease/internal/policy"
	"eventease/internal/repository"
)

const eventCacheTTL = 5 * time.Minute

// CreateEventInput carries the fields an organizer supplies at creation.
type CreateEventInput struct {
	Title        string
	Description  string
	Location     string
	StartDate    time.Time
	EndDate      *time.Time
	IsPublic     *bool
	MaxAttendees *int
	CustomFields model.CustomFields
}

// UpdateEventInput carries a partial update; nil fields are left untouched.
type UpdateEventInput struct {
	Title        *string
	Description  *string
	Location     *string
	StartDate    *time.Time
	EndDate      *time.Time
	IsPublic     *bool
	MaxAttendees *int
	CustomFields model.CustomFields
}

// EventService handles event CRUD and visibility.
type EventService interface {
	Create(ctx context.Context, creatorID uuid.UUID, input CreateEventInput) (*model.Event, error)
	ListForCreator(ctx context.Context, creatorID uuid.UUID) ([]model.Event, error)
	Get(ctx context.Context, id uuid.UUID, identity *auth.Identity) (*model.Event, error)
	Update(ctx context.Context, id uuid.UUID, identity *auth.Identity, input UpdateEventInput) (*model.Event, error)
	Delete(ctx context.Context, id uuid.UUID, identity *auth.Identity) error
}

type eventService struct {
	eventRepo repository.EventRepository
	rsvpRepo  repository.RSVPRepository
	access    *policy.Access
	cache     *cache.Client
}

// NewEventService creates a new event service.
func NewEventService(
	eventRepo repository.EventRepository,
	rsvpRepo repository.RSVPRepository,
	access *policy.Access,
	cache *cache.Client,
) EventService {
	return &eventService{
		eventRepo: eventRepo,
		rsvpRepo:  rsvpRepo,
		access:    access,
		cache:     cache,
	}
}

func (s *eventService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("event:%s", id.String())
}

// Create validates dates and persists a new event for the creator.
func (s *eventService) Create(ctx context.Context, creatorID uuid.UUID, input CreateEventInput) (*model.Event, error) {
	if !input.StartDate.After(time.Now()) {
		return nil, errors.ErrStartDateNotFuture
	}
	if input.EndDate != nil && !input.EndDate.After(input.StartDate) {
		return nil, errors.ErrEndBeforeStart
	}

	isPublic := true
	if input.IsPublic != nil {
		isPublic = *input.IsPublic
	}

	event := &model.Event{
		Title:        input.Title,
		Description:  input.Description,
		Location:     input.Location,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		IsPublic:     isPublic,
		MaxAttendees: input.MaxAttendees,
		CustomFields: input.CustomFields,
		CreatorID:    creatorID,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	return event, nil
}

// ListForCreator returns the caller's own events with confirmed RSVP counts.
// There is no cross-tenant listing.
func (s *eventService) ListForCreator(ctx context.Context, creatorID uuid.UUID) ([]model.Event, error) {
	events, err := s.eventRepo.ListByCreator(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(events))
	for _, event := range events {
		ids = append(ids, event.ID)
	}

	counts, err := s.rsvpRepo.CountConfirmedByEvents(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count rsvps: %w", err)
	}
	for i := range events {
		events[i].RSVPCount = counts[events[i].ID]
	}

	return events, nil
}

// Get returns an event the caller is allowed to see. Private events answer
// not-found for everyone but their creator. Non-creator reads bump the view
// counter best-effort, after visibility is confirmed; denied requests never
// count. The attendee list is attached only for authenticated callers.
func (s *eventService) Get(ctx context.Context, id uuid.UUID, identity *auth.Identity) (*model.Event, error) {
	event, err := s.findCached(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrEventNotFound
		}
		return nil, fmt.Errorf("find event: %w", err)
	}

	if !s.access.CanView(event, identity) {
		return nil, errors.ErrEventNotFound
	}

	if s.access.ShouldCountView(event, identity) {
		// Best-effort; a lost increment must not fail the read.
		_ = s.eventRepo.IncrementViews(ctx, id)
	}

	count, err := s.rsvpRepo.CountConfirmedByEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count rsvps: %w", err)
	}
	event.RSVPCount = count

	if identity != nil {
		rsvps, err := s.rsvpRepo.ListByEvent(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("list rsvps: %w", err)
		}
		event.RSVPs = rsvps
	}

	return event, nil
}

// Update applies a partial update. Callers who may not mutate the event get
// the same not-found answer as callers who cannot see it.
func (s *eventService) Update(ctx context.Context, id uuid.UUID, identity *auth.Identity, input UpdateEventInput) (*model.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrEventNotFound
		}
		return nil, fmt.Errorf("find event: %w", err)
	}

	if !s.access.CanMutate(event, identity) {
		return nil, errors.ErrEventNotFound
	}

	if input.Title != nil {
		event.Title = *input.Title
	}
	if input.Description != nil {
		event.Description = *input.Description
	}
	if input.Location != nil {
		event.Location = *input.Location
	}
	if input.StartDate != nil {
		event.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		event.EndDate = input.EndDate
	}
	if input.IsPublic != nil {
		event.IsPublic = *input.IsPublic
	}
	if input.MaxAttendees != nil {
		event.MaxAttendees = input.MaxAttendees
	}
	if input.CustomFields != nil {
		event.CustomFields = input.CustomFields
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))

	return event, nil
}

// Delete removes an event owned by the caller.
func (s *eventService) Delete(ctx context.Context, id uuid.UUID, identity *auth.Identity) error {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrEventNotFound
		}
		return fmt.Errorf("find event: %w", err)
	}

	if !s.access.CanMutate(event, identity) {
		return errors.ErrEventNotFound
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))

	return nil
}

// findCached reads an event through the cache. Cached records may carry a
// slightly stale view counter; that is acceptable for a display metric.
func (s *eventService) findCached(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Event
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(event); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, eventCacheTTL)
	}

	return event, nil
}
