package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"eventease/internal/model"
)

// RSVPRepository defines RSVP persistence operations. The admission engine
// runs its capacity and duplicate checks through a transaction-scoped
// instance obtained from WithTransaction.
type RSVPRepository interface {
	Create(ctx context.Context, rsvp *model.RSVP) error
	FindByEventAndEmail(ctx context.Context, eventID uuid.UUID, email string) (*model.RSVP, error)
	CountConfirmedByEvent(ctx context.Context, eventID uuid.UUID) (int64, error)
	CountConfirmedByEvents(ctx context.Context, eventIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]model.RSVP, error)
	// FindEventForUpdate locks the event row so concurrent admissions for the
	// same event serialize on the database. Only meaningful inside a
	// transaction.
	FindEventForUpdate(ctx context.Context, eventID uuid.UUID) (*model.Event, error)
	// WithTransaction executes fn against a transaction-scoped repository.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo RSVPRepository) error) error
}

type rsvpRepository struct {
	db *gorm.DB
}

// NewRSVPRepository creates a new RSVP repository.
func NewRSVPRepository(db *gorm.DB) RSVPRepository {
	return &rsvpRepository{db: db}
}

// Create creates a new RSVP. The (event_id, email) unique index turns
// concurrent duplicate inserts into gorm.ErrDuplicatedKey.
func (r *rsvpRepository) Create(ctx context.Context, rsvp *model.RSVP) error {
	return r.db.WithContext(ctx).Create(rsvp).Error
}

// FindByEventAndEmail finds an RSVP by its natural key.
func (r *rsvpRepository) FindByEventAndEmail(ctx context.Context, eventID uuid.UUID, email string) (*model.RSVP, error) {
	var rsvp model.RSVP
	if err := r.db.WithContext(ctx).
		Where("event_id = ? AND email = ?", eventID, email).
		First(&rsvp).Error; err != nil {
		return nil, err
	}
	return &rsvp, nil
}

// CountConfirmedByEvent counts confirmed RSVPs for one event.
func (r *rsvpRepository) CountConfirmedByEvent(ctx context.Context, eventID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.RSVP{}).
		Where("event_id = ? AND status = ?", eventID, model.RSVPStatusConfirmed).
		Count(&count).Error
	return count, err
}

// CountConfirmedByEvents counts confirmed RSVPs for a batch of events.
func (r *rsvpRepository) CountConfirmedByEvents(ctx context.Context, eventIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(eventIDs))
	if len(eventIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		EventID uuid.UUID
		Count   int64
	}
	err := r.db.WithContext(ctx).Model(&model.RSVP{}).
		Select("event_id, COUNT(*) as count").
		Where("event_id IN ? AND status = ?", eventIDs, model.RSVPStatusConfirmed).
		Group("event_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.EventID] = row.Count
	}
	return counts, nil
}

// ListByEvent lists RSVPs for an event, oldest first.
func (r *rsvpRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]model.RSVP, error) {
	var rsvps []model.RSVP
	if err := r.db.WithContext(ctx).Where("event_id = ?", eventID).
		Order("created_at ASC").Find(&rsvps).Error; err != nil {
		return nil, err
	}
	return rsvps, nil
}

// FindEventForUpdate finds an event by ID with a row-level lock.
func (r *rsvpRepository) FindEventForUpdate(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	var event model.Event
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", eventID).First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// WithTransaction executes a function within a database transaction.
func (r *rsvpRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo RSVPRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &rsvpRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
