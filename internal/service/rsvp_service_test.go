package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"eventease/internal/errors"
	"eventease/internal/model"
	"eventease/internal/repository"
)

// MockRSVPRepository is a mock implementation of RSVPRepository.
type MockRSVPRepository struct {
	mock.Mock
}

func (m *MockRSVPRepository) Create(ctx context.Context, rsvp *model.RSVP) error {
	args := m.Called(ctx, rsvp)
	return args.Error(0)
}

func (m *MockRSVPRepository) FindByEventAndEmail(ctx context.Context, eventID uuid.UUID, email string) (*model.RSVP, error) {
	args := m.Called(ctx, eventID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RSVP), args.Error(1)
}

func (m *MockRSVPRepository) CountConfirmedByEvent(ctx context.Context, eventID uuid.UUID) (int64, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRSVPRepository) CountConfirmedByEvents(ctx context.Context, eventIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	args := m.Called(ctx, eventIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]int64), args.Error(1)
}

func (m *MockRSVPRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]model.RSVP, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RSVP), args.Error(1)
}

func (m *MockRSVPRepository) FindEventForUpdate(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

// WithTransaction runs fn against the mock itself so expectations set on the
// mock cover the transactional calls too.
func (m *MockRSVPRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.RSVPRepository) error) error {
	return fn(ctx, m)
}

func futureEvent(id uuid.UUID, public bool, maxAttendees *int) *model.Event {
	return &model.Event{
		ID:           id,
		Title:        "Test Event",
		IsPublic:     public,
		StartDate:    time.Now().Add(24 * time.Hour),
		MaxAttendees: maxAttendees,
	}
}

func TestRSVPService_Admit(t *testing.T) {
	eventID := uuid.New()
	capTen := 10

	tests := []struct {
		name          string
		attendee      Attendee
		setupMock     func(*MockRSVPRepository)
		expectedError error
	}{
		{
			name:          "missing name",
			attendee:      Attendee{Email: "jane@example.com"},
			setupMock:     func(m *MockRSVPRepository) {},
			expectedError: errors.ErrNameEmailRequired,
		},
		{
			name:          "missing email",
			attendee:      Attendee{Name: "Jane"},
			setupMock:     func(m *MockRSVPRepository) {},
			expectedError: errors.ErrNameEmailRequired,
		},
		{
			name:          "malformed email",
			attendee:      Attendee{Name: "Jane", Email: "not-an-email"},
			setupMock:     func(m *MockRSVPRepository) {},
			expectedError: errors.ErrInvalidEmail,
		},
		{
			name:          "email without domain dot",
			attendee:      Attendee{Name: "Jane", Email: "jane@example"},
			setupMock:     func(m *MockRSVPRepository) {},
			expectedError: errors.ErrInvalidEmail,
		},
		{
			name:     "event not found",
			attendee: Attendee{Name: "Jane", Email: "jane@example.com"},
			setupMock: func(m *MockRSVPRepository) {
				m.On("FindEventForUpdate", mock.Anything, eventID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: errors.ErrEventNotFound,
		},
		{
			// Private wins over every later check, even on a past event.
			name:     "private event",
			attendee: Attendee{Name: "Jane", Email: "jane@example.com"},
			setupMock: func(m *MockRSVPRepository) {
				event := futureEvent(eventID, false, &capTen)
				event.StartDate = time.Now().Add(-time.Hour)
				m.On("FindEventForUpdate", mock.Anything, eventID).Return(event, nil)
			},
			expectedError: errors.ErrEventNotPublic,
		},
		{
			name:     "event already started",
			attendee: Attendee{Name: "Jane", Email: "jane@example.com"},
			setupMock: func(m *MockRSVPRepository) {
				event := futureEvent(eventID, true, &capTen)
				event.StartDate = time.Now().Add(-time.Hour)
				m.On("FindEventForUpdate", mock.Anything, eventID).Return(event, nil)
			},
			expectedError: errors.ErrRSVPClosed,
		},
		{
			name:     "event at capacity",
			attendee: Attendee{Name: "Jane", Email: "jane@example.com"},
			setupMock: func(m *MockRSVPRepository) {
				m.On("FindEventForUpdate", mock.Anything, eventID).Return(futureEvent(eventID, true, &capTen), nil)
				m.On("CountConfirmedByEvent", mock.Anything, eventID).Return(int64(10), nil)
			},
			expectedError: errors.ErrEventFull,
		},
		{
			name:     "duplicate rsvp",
			attendee: Attendee{Name: "Jane", Email: "jane@example.com"},
			setupMock: func(m *MockRSVPRepository) {
				m.On("FindEventForUpdate", mock.Anything, eventID).Return(futureEvent(eventID, true, &capTen), nil)
				m.On("CountConfirmedByEvent", mock.Anything, eventID).Return(int64(3), nil)
				m.On("FindByEventAndEmail", mock.Anything, eventID, "jane@example.com").Return(&model.RSVP{Email: "jane@example.com"}, nil)
			},
			expectedError: errors.ErrDuplicateRSVP,
		},
		{
			// Unique index catches the race the pre-check missed.
			name:     "duplicate caught by unique index",
			attendee: Attendee{Name: "Jane", Email: "jane@example.com"},
			setupMock: func(m *MockRSVPRepository) {
				m.On("FindEventForUpdate", mock.Anything, eventID).Return(futureEvent(eventID, true, &capTen), nil)
				m.On("CountConfirmedByEvent", mock.Anything, eventID).Return(int64(3), nil)
				m.On("FindByEventAndEmail", mock.Anything, eventID, "jane@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.RSVP")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: errors.ErrDuplicateRSVP,
		},
		{
			name:     "successful admission",
			attendee: Attendee{Name: "Jane", Email: "jane@example.com", Phone: "+1 555 0100", Message: "See you there"},
			setupMock: func(m *MockRSVPRepository) {
				m.On("FindEventForUpdate", mock.Anything, eventID).Return(futureEvent(eventID, true, &capTen), nil)
				m.On("CountConfirmedByEvent", mock.Anything, eventID).Return(int64(3), nil)
				m.On("FindByEventAndEmail", mock.Anything, eventID, "jane@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.RSVP")).Return(nil)
			},
			expectedError: nil,
		},
		{
			// nil MaxAttendees means unlimited; no capacity count happens.
			name:     "unlimited capacity skips count",
			attendee: Attendee{Name: "Jane", Email: "jane@example.com"},
			setupMock: func(m *MockRSVPRepository) {
				m.On("FindEventForUpdate", mock.Anything, eventID).Return(futureEvent(eventID, true, nil), nil)
				m.On("FindByEventAndEmail", mock.Anything, eventID, "jane@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.RSVP")).Return(nil)
			},
			expectedError: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRSVPRepository)
			tt.setupMock(mockRepo)

			service := NewRSVPService(mockRepo)
			rsvp, err := service.Admit(context.Background(), eventID, tt.attendee)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, rsvp)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, rsvp)
				assert.Equal(t, eventID, rsvp.EventID)
				assert.Equal(t, tt.attendee.Name, rsvp.Name)
				assert.Equal(t, tt.attendee.Email, rsvp.Email)
				assert.Equal(t, model.RSVPStatusConfirmed, rsvp.Status)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

// memoryRSVPRepository is a stateful in-memory repository used to exercise the
// admission engine under concurrency. The service's per-event mutex is what
// keeps check-then-insert atomic here, same as in production.
type memoryRSVPRepository struct {
	mu     sync.Mutex
	event  *model.Event
	byMail map[string]*model.RSVP
}

func newMemoryRSVPRepository(event *model.Event) *memoryRSVPRepository {
	return &memoryRSVPRepository{event: event, byMail: make(map[string]*model.RSVP)}
}

func (r *memoryRSVPRepository) Create(ctx context.Context, rsvp *model.RSVP) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byMail[rsvp.Email]; ok {
		return gorm.ErrDuplicatedKey
	}
	r.byMail[rsvp.Email] = rsvp
	return nil
}

func (r *memoryRSVPRepository) FindByEventAndEmail(ctx context.Context, eventID uuid.UUID, email string) (*model.RSVP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rsvp, ok := r.byMail[email]; ok {
		return rsvp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryRSVPRepository) CountConfirmedByEvent(ctx context.Context, eventID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byMail)), nil
}

func (r *memoryRSVPRepository) CountConfirmedByEvents(ctx context.Context, eventIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	count, _ := r.CountConfirmedByEvent(ctx, r.event.ID)
	return map[uuid.UUID]int64{r.event.ID: count}, nil
}

func (r *memoryRSVPRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]model.RSVP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.RSVP, 0, len(r.byMail))
	for _, rsvp := range r.byMail {
		out = append(out, *rsvp)
	}
	return out, nil
}

func (r *memoryRSVPRepository) FindEventForUpdate(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	if eventID != r.event.ID {
		return nil, gorm.ErrRecordNotFound
	}
	return r.event, nil
}

func (r *memoryRSVPRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.RSVPRepository) error) error {
	return fn(ctx, r)
}

func TestRSVPService_Admit_ConcurrentCapacity(t *testing.T) {
	maxAttendees := 5
	event := futureEvent(uuid.New(), true, &maxAttendees)
	repo := newMemoryRSVPRepository(event)
	service := NewRSVPService(repo)

	const attempts = 50
	var wg sync.WaitGroup
	results := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, results[n] = service.Admit(context.Background(), event.ID, Attendee{
				Name:  "Attendee",
				Email: uuid.NewString() + "@example.com",
			})
		}(i)
	}
	wg.Wait()

	admitted := 0
	rejected := 0
	for _, err := range results {
		switch err {
		case nil:
			admitted++
		case errors.ErrEventFull:
			rejected++
		default:
			t.Fatalf("unexpected admission error: %v", err)
		}
	}

	assert.Equal(t, maxAttendees, admitted)
	assert.Equal(t, attempts-maxAttendees, rejected)

	count, err := repo.CountConfirmedByEvent(context.Background(), event.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(maxAttendees), count)
}

func TestRSVPService_Admit_ConcurrentDuplicate(t *testing.T) {
	event := futureEvent(uuid.New(), true, nil)
	repo := newMemoryRSVPRepository(event)
	service := NewRSVPService(repo)

	const attempts = 20
	var wg sync.WaitGroup
	results := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, results[n] = service.Admit(context.Background(), event.ID, Attendee{
				Name:  "Jane",
				Email: "jane@example.com",
			})
		}(i)
	}
	wg.Wait()

	admitted := 0
	for _, err := range results {
		if err == nil {
			admitted++
		} else {
			assert.Equal(t, errors.ErrDuplicateRSVP, err)
		}
	}
	assert.Equal(t, 1, admitted)
}
