package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/medreview-console/internal/domain"
	"github.com/spec-kit/medreview-console/internal/events"
)

type mockDoctorRepo struct {
	mock.Mock
}

func (m *mockDoctorRepo) Create(ctx context.Context, doctor *domain.Doctor) error {
	return m.Called(ctx, doctor).Error(0)
}

func (m *mockDoctorRepo) Update(ctx context.Context, doctor *domain.Doctor) error {
	return m.Called(ctx, doctor).Error(0)
}

func (m *mockDoctorRepo) GetByID(ctx context.Context, id string) (*domain.Doctor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Doctor), args.Error(1)
}

func (m *mockDoctorRepo) List(ctx context.Context) ([]domain.Doctor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Doctor), args.Error(1)
}

func (m *mockDoctorRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockDoctorRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockDoctorRepo) RecomputeAggregates(ctx context.Context, doctorID string) error {
	return m.Called(ctx, doctorID).Error(0)
}

func newDoctorService(repo *mockDoctorRepo, dispatcher events.Dispatcher) *DoctorService {
	return NewDoctorService(DoctorDependencies{
		DoctorRepo: repo,
		Dispatcher: dispatcher,
		Logger:     zap.NewNop(),
	})
}

func TestApprovalTriggersAggregateRecompute(t *testing.T) {
	repo := new(mockDoctorRepo)
	dispatcher := events.NewInMemoryDispatcher()
	svc := newDoctorService(repo, dispatcher)
	svc.RegisterHandlers()

	repo.On("RecomputeAggregates", mock.Anything, "doc-1").Return(nil)

	err := dispatcher.Publish(context.Background(), events.Event{
		Type: events.EventReviewStatusChanged,
		Payload: events.ReviewStatusChangedPayload{
			DoctorID:  "doc-1",
			OldStatus: domain.ReviewStatusPending,
			NewStatus: domain.ReviewStatusApproved,
		},
	})
	require.NoError(t, err)
	repo.AssertCalled(t, "RecomputeAggregates", mock.Anything, "doc-1")
}

func TestPendingToRejectedSkipsRecompute(t *testing.T) {
	repo := new(mockDoctorRepo)
	dispatcher := events.NewInMemoryDispatcher()
	svc := newDoctorService(repo, dispatcher)
	svc.RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{
		Type: events.EventReviewStatusChanged,
		Payload: events.ReviewStatusChangedPayload{
			DoctorID:  "doc-1",
			OldStatus: domain.ReviewStatusPending,
			NewStatus: domain.ReviewStatusRejected,
		},
	})
	require.NoError(t, err)
	repo.AssertNotCalled(t, "RecomputeAggregates", mock.Anything, mock.Anything)
}

func TestDeletedApprovedReviewTriggersRecompute(t *testing.T) {
	repo := new(mockDoctorRepo)
	dispatcher := events.NewInMemoryDispatcher()
	svc := newDoctorService(repo, dispatcher)
	svc.RegisterHandlers()

	repo.On("RecomputeAggregates", mock.Anything, "doc-2").Return(nil)

	err := dispatcher.Publish(context.Background(), events.Event{
		Type: events.EventReviewDeleted,
		Payload: events.ReviewDeletedPayload{
			DoctorID:   "doc-2",
			LastStatus: domain.ReviewStatusApproved,
		},
	})
	require.NoError(t, err)
	repo.AssertCalled(t, "RecomputeAggregates", mock.Anything, "doc-2")
}

func TestDeletedPendingReviewSkipsRecompute(t *testing.T) {
	repo := new(mockDoctorRepo)
	dispatcher := events.NewInMemoryDispatcher()
	svc := newDoctorService(repo, dispatcher)
	svc.RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{
		Type: events.EventReviewDeleted,
		Payload: events.ReviewDeletedPayload{
			DoctorID:   "doc-2",
			LastStatus: domain.ReviewStatusPending,
		},
	})
	require.NoError(t, err)
	repo.AssertNotCalled(t, "RecomputeAggregates", mock.Anything, mock.Anything)
}

func TestCreateDoctorRequiresName(t *testing.T) {
	repo := new(mockDoctorRepo)
	svc := newDoctorService(repo, newRecordingDispatcher())

	_, err := svc.Create(context.Background(), adminAccount("adm-1"), "   ", "Cardiology")
	require.Error(t, err)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateDoctorForbiddenForModerator(t *testing.T) {
	repo := new(mockDoctorRepo)
	svc := newDoctorService(repo, newRecordingDispatcher())

	actor := &domain.Account{ID: "mod-1", Role: domain.RoleModerator}
	_, err := svc.Create(context.Background(), actor, "Dr. Example", "Cardiology")
	require.Error(t, err)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestListDoctorsAllowedForAnyOperator(t *testing.T) {
	repo := new(mockDoctorRepo)
	svc := newDoctorService(repo, newRecordingDispatcher())

	repo.On("List", mock.Anything).Return([]domain.Doctor{{ID: "doc-1", Name: "Dr. Example"}}, nil)

	actor := &domain.Account{ID: "mod-1", Role: domain.RoleModerator}
	doctors, err := svc.List(context.Background(), actor)
	require.NoError(t, err)
	assert.Len(t, doctors, 1)
}
