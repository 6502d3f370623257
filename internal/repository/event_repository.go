package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"eventease/internal/model"
)

// EventRepository defines event persistence operations.
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	Update(ctx context.Context, event *model.Event) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error)
	FindByIDWithRSVPs(ctx context.Context, id uuid.UUID) (*model.Event, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]model.Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository.
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

// Create creates a new event.
func (r *eventRepository) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// Update updates an existing event.
func (r *eventRepository) Update(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

// FindByID finds an event by ID.
func (r *eventRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	var event model.Event
	if err := r.db.WithContext(ctx).Preload("Creator").
		Where("id = ?", id).First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// FindByIDWithRSVPs finds an event by ID including its attendee list.
func (r *eventRepository) FindByIDWithRSVPs(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	var event model.Event
	if err := r.db.WithContext(ctx).Preload("Creator").Preload("RSVPs").
		Where("id = ?", id).First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// ListByCreator lists all events owned by the creator, newest first.
func (r *eventRepository) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]model.Event, error) {
	var events []model.Event
	if err := r.db.WithContext(ctx).Where("creator_id = ?", creatorID).
		Order("created_at DESC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// Delete removes an event and, via the FK constraint, its RSVPs.
func (r *eventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Event{}).Error
}

// IncrementViews bumps the view counter without read-modify-write. Lost
// increments under race are tolerated; it is a display metric.
func (r *eventRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Event{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}
