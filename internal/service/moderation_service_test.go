package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/medreview-console/internal/domain"
	"github.com/spec-kit/medreview-console/internal/events"
	"github.com/spec-kit/medreview-console/internal/repository"
	apperrors "github.com/spec-kit/medreview-console/pkg/util"
)

type mockReviewRepo struct {
	mock.Mock
}

func (m *mockReviewRepo) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *mockReviewRepo) ListWithFilter(ctx context.Context, filter repository.ReviewFilter) ([]repository.ReviewWithDoctor, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.ReviewWithDoctor), args.Error(1)
}

func (m *mockReviewRepo) UpdateStatus(ctx context.Context, id string, status domain.ReviewStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockReviewRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockReviewRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockReviewRepo) CountByStatus(ctx context.Context, status domain.ReviewStatus) (int, error) {
	args := m.Called(ctx, status)
	return args.Int(0), args.Error(1)
}

func (m *mockReviewRepo) CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	args := m.Called(ctx, from, to)
	return args.Int(0), args.Error(1)
}

func (m *mockReviewRepo) ListCreatedSince(ctx context.Context, since time.Time) ([]repository.StatusStamp, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.StatusStamp), args.Error(1)
}

func (m *mockReviewRepo) ListApprovedRatingsSince(ctx context.Context, since time.Time) ([]repository.RatingStamp, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.RatingStamp), args.Error(1)
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func newRecordingDispatcher() *recordingDispatcher {
	return &recordingDispatcher{}
}

func (d *recordingDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {}

func moderatorAccount() *domain.Account {
	return &domain.Account{ID: "mod-1", Role: domain.RoleModerator, Status: domain.AccountStatusActive}
}

func pendingReview(id string) *domain.Review {
	return &domain.Review{ID: id, DoctorID: "doc-1", Rating: 4, Status: domain.ReviewStatusPending}
}

func TestSetStatusApprovesPendingReview(t *testing.T) {
	repo := new(mockReviewRepo)
	dispatcher := newRecordingDispatcher()
	svc := NewModerationService(ModerationDependencies{ReviewRepo: repo, Dispatcher: dispatcher})

	repo.On("GetByID", mock.Anything, "rev-1").Return(pendingReview("rev-1"), nil)
	repo.On("UpdateStatus", mock.Anything, "rev-1", domain.ReviewStatusApproved).Return(nil)

	err := svc.SetStatus(context.Background(), moderatorAccount(), "rev-1", domain.ReviewStatusApproved)
	require.NoError(t, err)
	repo.AssertExpectations(t)

	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, events.EventReviewStatusChanged, dispatcher.events[0].Type)
	payload := dispatcher.events[0].Payload.(events.ReviewStatusChangedPayload)
	assert.Equal(t, domain.ReviewStatusPending, payload.OldStatus)
	assert.Equal(t, domain.ReviewStatusApproved, payload.NewStatus)
}

func TestSetStatusIdempotentWhenAlreadyInTarget(t *testing.T) {
	repo := new(mockReviewRepo)
	dispatcher := newRecordingDispatcher()
	svc := NewModerationService(ModerationDependencies{ReviewRepo: repo, Dispatcher: dispatcher})

	approved := pendingReview("rev-1")
	approved.Status = domain.ReviewStatusApproved
	repo.On("GetByID", mock.Anything, "rev-1").Return(approved, nil)

	err := svc.SetStatus(context.Background(), moderatorAccount(), "rev-1", domain.ReviewStatusApproved)
	require.NoError(t, err)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, dispatcher.events)
}

func TestSetStatusRejectsPendingTarget(t *testing.T) {
	repo := new(mockReviewRepo)
	svc := NewModerationService(ModerationDependencies{ReviewRepo: repo, Dispatcher: newRecordingDispatcher()})

	err := svc.SetStatus(context.Background(), moderatorAccount(), "rev-1", domain.ReviewStatusPending)
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestSetStatusNotFound(t *testing.T) {
	repo := new(mockReviewRepo)
	svc := NewModerationService(ModerationDependencies{ReviewRepo: repo, Dispatcher: newRecordingDispatcher()})

	repo.On("GetByID", mock.Anything, "missing").Return(nil, pgx.ErrNoRows)

	err := svc.SetStatus(context.Background(), moderatorAccount(), "missing", domain.ReviewStatusRejected)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestSetStatusForbiddenForRegularUser(t *testing.T) {
	repo := new(mockReviewRepo)
	svc := NewModerationService(ModerationDependencies{ReviewRepo: repo, Dispatcher: newRecordingDispatcher()})

	actor := &domain.Account{ID: "u-1", Role: domain.RoleUser}
	err := svc.SetStatus(context.Background(), actor, "rev-1", domain.ReviewStatusApproved)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestBulkSetStatusCollectsPerItemOutcomes(t *testing.T) {
	repo := new(mockReviewRepo)
	dispatcher := newRecordingDispatcher()
	svc := NewModerationService(ModerationDependencies{ReviewRepo: repo, Dispatcher: dispatcher})

	repo.On("GetByID", mock.Anything, "a").Return(pendingReview("a"), nil)
	repo.On("GetByID", mock.Anything, "b").Return(nil, pgx.ErrNoRows)
	repo.On("GetByID", mock.Anything, "c").Return(pendingReview("c"), nil)
	repo.On("UpdateStatus", mock.Anything, "a", domain.ReviewStatusApproved).Return(nil)
	repo.On("UpdateStatus", mock.Anything, "c", domain.ReviewStatusApproved).Return(nil)

	outcomes, err := svc.BulkSetStatus(context.Background(), moderatorAccount(), []string{"a", "b", "c"}, domain.ReviewStatusApproved)
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	// outcomes follow the request order even with concurrent processing
	assert.Equal(t, "a", outcomes[0].ID)
	assert.NoError(t, outcomes[0].Err)
	assert.Equal(t, "b", outcomes[1].ID)
	require.Error(t, outcomes[1].Err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(outcomes[1].Err).Code)
	assert.Equal(t, "c", outcomes[2].ID)
	assert.NoError(t, outcomes[2].Err)

	// the surviving items were persisted despite the middle failure
	repo.AssertCalled(t, "UpdateStatus", mock.Anything, "a", domain.ReviewStatusApproved)
	repo.AssertCalled(t, "UpdateStatus", mock.Anything, "c", domain.ReviewStatusApproved)

	partial := PartialFailure(outcomes)
	require.Error(t, partial)
	domainErr := apperrors.ToDomainError(partial)
	assert.Equal(t, "PARTIAL_FAILURE", domainErr.Code)
}

func TestBulkSetStatusAllSucceedYieldsNoPartialFailure(t *testing.T) {
	repo := new(mockReviewRepo)
	svc := NewModerationService(ModerationDependencies{ReviewRepo: repo, Dispatcher: newRecordingDispatcher()})

	repo.On("GetByID", mock.Anything, "a").Return(pendingReview("a"), nil)
	repo.On("GetByID", mock.Anything, "b").Return(pendingReview("b"), nil)
	repo.On("UpdateStatus", mock.Anything, mock.Anything, domain.ReviewStatusRejected).Return(nil)

	outcomes, err := svc.BulkSetStatus(context.Background(), moderatorAccount(), []string{"a", "b"}, domain.ReviewStatusRejected)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.NoError(t, PartialFailure(outcomes))
}

func TestDeletePublishesLastStatus(t *testing.T) {
	repo := new(mockReviewRepo)
	dispatcher := newRecordingDispatcher()
	svc := NewModerationService(ModerationDependencies{ReviewRepo: repo, Dispatcher: dispatcher})

	approved := pendingReview("rev-9")
	approved.Status = domain.ReviewStatusApproved
	repo.On("GetByID", mock.Anything, "rev-9").Return(approved, nil)
	repo.On("Delete", mock.Anything, "rev-9").Return(nil)

	err := svc.Delete(context.Background(), moderatorAccount(), "rev-9")
	require.NoError(t, err)

	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, events.EventReviewDeleted, dispatcher.events[0].Type)
	payload := dispatcher.events[0].Payload.(events.ReviewDeletedPayload)
	assert.Equal(t, domain.ReviewStatusApproved, payload.LastStatus)
	assert.Equal(t, "doc-1", payload.DoctorID)
}

func TestDeleteNotFound(t *testing.T) {
	repo := new(mockReviewRepo)
	svc := NewModerationService(ModerationDependencies{ReviewRepo: repo, Dispatcher: newRecordingDispatcher()})

	repo.On("GetByID", mock.Anything, "missing").Return(nil, pgx.ErrNoRows)

	err := svc.Delete(context.Background(), moderatorAccount(), "missing")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}
