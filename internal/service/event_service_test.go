package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"eventease/internal/auth"
	"eventease/internal/errors"
	"eventease/internal/model"
	"eventease/internal/policy"
)

// MockEventRepository is a mock implementation of EventRepository.
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, event *model.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) Update(ctx context.Context, event *model.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventRepository) FindByIDWithRSVPs(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventRepository) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]model.Event, error) {
	args := m.Called(ctx, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Event), args.Error(1)
}

func (m *MockEventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEventRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestEventService(eventRepo *MockEventRepository, rsvpRepo *MockRSVPRepository) EventService {
	// nil cache is fail-safe: every read is a miss, every write a no-op.
	return NewEventService(eventRepo, rsvpRepo, policy.NewAccess(false, false), nil)
}

func identityFor(userID uuid.UUID, role model.Role) *auth.Identity {
	return &auth.Identity{UserID: userID, Email: "caller@example.com", Role: role}
}

func TestEventService_Create(t *testing.T) {
	creatorID := uuid.New()
	future := time.Now().Add(48 * time.Hour)
	past := time.Now().Add(-time.Hour)
	beforeStart := future.Add(-time.Hour)
	afterStart := future.Add(3 * time.Hour)
	falseVal := false

	tests := []struct {
		name          string
		input         CreateEventInput
		setupMock     func(*MockEventRepository)
		expectedError error
		check         func(*testing.T, *model.Event)
	}{
		{
			name:  "start date in the past",
			input: CreateEventInput{Title: "Past", Location: "HQ", StartDate: past},
			setupMock: func(m *MockEventRepository) {
			},
			expectedError: errors.ErrStartDateNotFuture,
		},
		{
			name:  "end date before start date",
			input: CreateEventInput{Title: "Backwards", Location: "HQ", StartDate: future, EndDate: &beforeStart},
			setupMock: func(m *MockEventRepository) {
			},
			expectedError: errors.ErrEndBeforeStart,
		},
		{
			name:  "defaults to public",
			input: CreateEventInput{Title: "Launch", Location: "HQ", StartDate: future},
			setupMock: func(m *MockEventRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.Event")).Return(nil)
			},
			check: func(t *testing.T, event *model.Event) {
				assert.True(t, event.IsPublic)
				assert.Equal(t, creatorID, event.CreatorID)
			},
		},
		{
			name:  "explicit private",
			input: CreateEventInput{Title: "Offsite", Location: "HQ", StartDate: future, EndDate: &afterStart, IsPublic: &falseVal},
			setupMock: func(m *MockEventRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.Event")).Return(nil)
			},
			check: func(t *testing.T, event *model.Event) {
				assert.False(t, event.IsPublic)
				assert.Equal(t, afterStart, *event.EndDate)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockEventRepository)
			tt.setupMock(mockRepo)

			service := newTestEventService(mockRepo, new(MockRSVPRepository))
			event, err := service.Create(context.Background(), creatorID, tt.input)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, event)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, event)
				if tt.check != nil {
					tt.check(t, event)
				}
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestEventService_ListForCreator(t *testing.T) {
	creatorID := uuid.New()
	eventA := uuid.New()
	eventB := uuid.New()

	mockEvents := new(MockEventRepository)
	mockEvents.On("ListByCreator", mock.Anything, creatorID).Return([]model.Event{
		{ID: eventA, Title: "A"},
		{ID: eventB, Title: "B"},
	}, nil)

	mockRSVPs := new(MockRSVPRepository)
	mockRSVPs.On("CountConfirmedByEvents", mock.Anything, []uuid.UUID{eventA, eventB}).Return(map[uuid.UUID]int64{
		eventA: 7,
	}, nil)

	service := newTestEventService(mockEvents, mockRSVPs)
	events, err := service.ListForCreator(context.Background(), creatorID)

	assert.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Equal(t, int64(7), events[0].RSVPCount)
	assert.Equal(t, int64(0), events[1].RSVPCount)
	mockEvents.AssertExpectations(t)
	mockRSVPs.AssertExpectations(t)
}

func TestEventService_Get(t *testing.T) {
	creatorID := uuid.New()
	strangerID := uuid.New()
	eventID := uuid.New()

	publicEvent := func() *model.Event {
		return &model.Event{ID: eventID, Title: "Public", IsPublic: true, CreatorID: creatorID}
	}
	privateEvent := func() *model.Event {
		return &model.Event{ID: eventID, Title: "Private", IsPublic: false, CreatorID: creatorID}
	}

	tests := []struct {
		name          string
		identity      *auth.Identity
		setupMock     func(*MockEventRepository, *MockRSVPRepository)
		expectedError error
		check         func(*testing.T, *model.Event)
	}{
		{
			name:     "missing event",
			identity: nil,
			setupMock: func(mEvents *MockEventRepository, mRSVPs *MockRSVPRepository) {
				mEvents.On("FindByID", mock.Anything, eventID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: errors.ErrEventNotFound,
		},
		{
			// Private events answer not-found, not forbidden, and the denied
			// read never reaches the view counter.
			name:     "private event hidden from anonymous",
			identity: nil,
			setupMock: func(mEvents *MockEventRepository, mRSVPs *MockRSVPRepository) {
				mEvents.On("FindByID", mock.Anything, eventID).Return(privateEvent(), nil)
			},
			expectedError: errors.ErrEventNotFound,
		},
		{
			name:     "private event hidden from other user",
			identity: identityFor(strangerID, model.RoleEventOwner),
			setupMock: func(mEvents *MockEventRepository, mRSVPs *MockRSVPRepository) {
				mEvents.On("FindByID", mock.Anything, eventID).Return(privateEvent(), nil)
			},
			expectedError: errors.ErrEventNotFound,
		},
		{
			// Creator reads succeed without bumping the counter.
			name:     "creator read does not count a view",
			identity: identityFor(creatorID, model.RoleEventOwner),
			setupMock: func(mEvents *MockEventRepository, mRSVPs *MockRSVPRepository) {
				mEvents.On("FindByID", mock.Anything, eventID).Return(privateEvent(), nil)
				mRSVPs.On("CountConfirmedByEvent", mock.Anything, eventID).Return(int64(2), nil)
				mRSVPs.On("ListByEvent", mock.Anything, eventID).Return([]model.RSVP{{Email: "jane@example.com"}}, nil)
			},
			check: func(t *testing.T, event *model.Event) {
				assert.Equal(t, int64(2), event.RSVPCount)
				assert.Len(t, event.RSVPs, 1)
			},
		},
		{
			// Anonymous public read counts a view and gets no attendee list.
			name:     "anonymous read counts a view",
			identity: nil,
			setupMock: func(mEvents *MockEventRepository, mRSVPs *MockRSVPRepository) {
				mEvents.On("FindByID", mock.Anything, eventID).Return(publicEvent(), nil)
				mEvents.On("IncrementViews", mock.Anything, eventID).Return(nil)
				mRSVPs.On("CountConfirmedByEvent", mock.Anything, eventID).Return(int64(5), nil)
			},
			check: func(t *testing.T, event *model.Event) {
				assert.Equal(t, int64(5), event.RSVPCount)
				assert.Empty(t, event.RSVPs)
			},
		},
		{
			name:     "authenticated non-creator read counts and lists attendees",
			identity: identityFor(strangerID, model.RoleEventOwner),
			setupMock: func(mEvents *MockEventRepository, mRSVPs *MockRSVPRepository) {
				mEvents.On("FindByID", mock.Anything, eventID).Return(publicEvent(), nil)
				mEvents.On("IncrementViews", mock.Anything, eventID).Return(nil)
				mRSVPs.On("CountConfirmedByEvent", mock.Anything, eventID).Return(int64(1), nil)
				mRSVPs.On("ListByEvent", mock.Anything, eventID).Return([]model.RSVP{}, nil)
			},
			check: func(t *testing.T, event *model.Event) {
				assert.Equal(t, int64(1), event.RSVPCount)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockEvents := new(MockEventRepository)
			mockRSVPs := new(MockRSVPRepository)
			tt.setupMock(mockEvents, mockRSVPs)

			service := newTestEventService(mockEvents, mockRSVPs)
			event, err := service.Get(context.Background(), eventID, tt.identity)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, event)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, event)
				if tt.check != nil {
					tt.check(t, event)
				}
			}

			mockEvents.AssertExpectations(t)
			mockRSVPs.AssertExpectations(t)
		})
	}
}

func TestEventService_Get_PrivilegedViewFlag(t *testing.T) {
	creatorID := uuid.New()
	eventID := uuid.New()
	admin := identityFor(uuid.New(), model.RoleAdmin)
	private := &model.Event{ID: eventID, IsPublic: false, CreatorID: creatorID}

	t.Run("flag off hides private events from admins", func(t *testing.T) {
		mockEvents := new(MockEventRepository)
		mockEvents.On("FindByID", mock.Anything, eventID).Return(private, nil)

		service := NewEventService(mockEvents, new(MockRSVPRepository), policy.NewAccess(false, false), nil)
		_, err := service.Get(context.Background(), eventID, admin)
		assert.Equal(t, errors.ErrEventNotFound, err)
	})

	t.Run("flag on lets admins view private events", func(t *testing.T) {
		mockEvents := new(MockEventRepository)
		mockEvents.On("FindByID", mock.Anything, eventID).Return(private, nil)
		mockEvents.On("IncrementViews", mock.Anything, eventID).Return(nil)
		mockRSVPs := new(MockRSVPRepository)
		mockRSVPs.On("CountConfirmedByEvent", mock.Anything, eventID).Return(int64(0), nil)
		mockRSVPs.On("ListByEvent", mock.Anything, eventID).Return([]model.RSVP{}, nil)

		service := NewEventService(mockEvents, mockRSVPs, policy.NewAccess(true, false), nil)
		event, err := service.Get(context.Background(), eventID, admin)
		assert.NoError(t, err)
		assert.NotNil(t, event)
	})
}

func TestEventService_Update(t *testing.T) {
	creatorID := uuid.New()
	strangerID := uuid.New()
	eventID := uuid.New()
	newTitle := "Renamed"

	t.Run("non-owner gets not found", func(t *testing.T) {
		mockEvents := new(MockEventRepository)
		mockEvents.On("FindByID", mock.Anything, eventID).Return(&model.Event{ID: eventID, CreatorID: creatorID, IsPublic: true}, nil)

		service := newTestEventService(mockEvents, new(MockRSVPRepository))
		event, err := service.Update(context.Background(), eventID, identityFor(strangerID, model.RoleEventOwner), UpdateEventInput{Title: &newTitle})

		assert.Equal(t, errors.ErrEventNotFound, err)
		assert.Nil(t, event)
		mockEvents.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("owner applies partial update", func(t *testing.T) {
		existing := &model.Event{ID: eventID, CreatorID: creatorID, Title: "Old", Location: "HQ", IsPublic: true}
		mockEvents := new(MockEventRepository)
		mockEvents.On("FindByID", mock.Anything, eventID).Return(existing, nil)
		mockEvents.On("Update", mock.Anything, existing).Return(nil)

		service := newTestEventService(mockEvents, new(MockRSVPRepository))
		event, err := service.Update(context.Background(), eventID, identityFor(creatorID, model.RoleEventOwner), UpdateEventInput{Title: &newTitle})

		assert.NoError(t, err)
		assert.Equal(t, "Renamed", event.Title)
		assert.Equal(t, "HQ", event.Location)
		mockEvents.AssertExpectations(t)
	})
}

func TestEventService_Delete(t *testing.T) {
	creatorID := uuid.New()
	eventID := uuid.New()

	t.Run("anonymous gets not found", func(t *testing.T) {
		mockEvents := new(MockEventRepository)
		mockEvents.On("FindByID", mock.Anything, eventID).Return(&model.Event{ID: eventID, CreatorID: creatorID, IsPublic: true}, nil)

		service := newTestEventService(mockEvents, new(MockRSVPRepository))
		err := service.Delete(context.Background(), eventID, nil)

		assert.Equal(t, errors.ErrEventNotFound, err)
		mockEvents.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("owner deletes", func(t *testing.T) {
		mockEvents := new(MockEventRepository)
		mockEvents.On("FindByID", mock.Anything, eventID).Return(&model.Event{ID: eventID, CreatorID: creatorID}, nil)
		mockEvents.On("Delete", mock.Anything, eventID).Return(nil)

		service := newTestEventService(mockEvents, new(MockRSVPRepository))
		err := service.Delete(context.Background(), eventID, identityFor(creatorID, model.RoleEventOwner))

		assert.NoError(t, err)
		mockEvents.AssertExpectations(t)
	})
}
