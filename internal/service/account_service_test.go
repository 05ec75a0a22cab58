package service

import (
	"context"
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

type mockAccountRepo struct {
	mock.Mock
}

func (m *mockAccountRepo) Create(ctx context.Context, account *domain.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *mockAccountRepo) Update(ctx context.Context, account *domain.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *mockAccountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockAccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *mockAccountRepo) ListWithFilter(ctx context.Context, filter repository.AccountFilter) ([]domain.Account, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *mockAccountRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockAccountRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockAccountRepo) Stats(ctx context.Context, recentSince time.Time) (*repository.AccountStats, error) {
	args := m.Called(ctx, recentSince)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.AccountStats), args.Error(1)
}

func (m *mockAccountRepo) ListCreatedSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]time.Time), args.Error(1)
}

func adminAccount(id string) *domain.Account {
	return &domain.Account{ID: id, Role: domain.RoleAdmin, Status: domain.AccountStatusActive}
}

func newAccountService(repo *mockAccountRepo, dispatcher events.Dispatcher) *AccountService {
	return NewAccountService(AccountDependencies{
		AccountRepo: repo,
		Dispatcher:  dispatcher,
		BcryptCost:  4,
	})
}

func TestSetAccountStatusSuspendsTarget(t *testing.T) {
	repo := new(mockAccountRepo)
	dispatcher := newRecordingDispatcher()
	svc := newAccountService(repo, dispatcher)

	target := &domain.Account{ID: "u-1", Role: domain.RoleUser, Status: domain.AccountStatusActive}
	repo.On("GetByID", mock.Anything, "u-1").Return(target, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	updated, err := svc.SetStatus(context.Background(), adminAccount("adm-1"), "u-1", domain.AccountStatusSuspended)
	require.NoError(t, err)
	assert.Equal(t, domain.AccountStatusSuspended, updated.Status)

	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, events.EventAccountStatusChanged, dispatcher.events[0].Type)
}

func TestSetAccountStatusIdempotent(t *testing.T) {
	repo := new(mockAccountRepo)
	dispatcher := newRecordingDispatcher()
	svc := newAccountService(repo, dispatcher)

	target := &domain.Account{ID: "u-1", Role: domain.RoleUser, Status: domain.AccountStatusSuspended}
	repo.On("GetByID", mock.Anything, "u-1").Return(target, nil)

	updated, err := svc.SetStatus(context.Background(), adminAccount("adm-1"), "u-1", domain.AccountStatusSuspended)
	require.NoError(t, err)
	assert.Equal(t, domain.AccountStatusSuspended, updated.Status)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	assert.Empty(t, dispatcher.events)
}

func TestSetAccountStatusRejectsSelf(t *testing.T) {
	repo := new(mockAccountRepo)
	svc := newAccountService(repo, newRecordingDispatcher())

	actor := adminAccount("adm-1")
	repo.On("GetByID", mock.Anything, "adm-1").Return(actor, nil)

	_, err := svc.SetStatus(context.Background(), actor, "adm-1", domain.AccountStatusSuspended)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
}

func TestSetAccountStatusAdminCannotSuspendAdmin(t *testing.T) {
	repo := new(mockAccountRepo)
	svc := newAccountService(repo, newRecordingDispatcher())

	target := adminAccount("adm-2")
	repo.On("GetByID", mock.Anything, "adm-2").Return(target, nil)

	_, err := svc.SetStatus(context.Background(), adminAccount("adm-1"), "adm-2", domain.AccountStatusSuspended)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestSetAccountStatusOwnerOnOwnerAllowed(t *testing.T) {
	repo := new(mockAccountRepo)
	svc := newAccountService(repo, newRecordingDispatcher())

	target := &domain.Account{ID: "own-2", Role: domain.RoleOwner, Status: domain.AccountStatusActive}
	repo.On("GetByID", mock.Anything, "own-2").Return(target, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	actor := &domain.Account{ID: "own-1", Role: domain.RoleOwner, Status: domain.AccountStatusActive}
	updated, err := svc.SetStatus(context.Background(), actor, "own-2", domain.AccountStatusSuspended)
	require.NoError(t, err)
	assert.Equal(t, domain.AccountStatusSuspended, updated.Status)
}

func TestDeleteAccountAdminCannotDeleteUser(t *testing.T) {
	repo := new(mockAccountRepo)
	svc := newAccountService(repo, newRecordingDispatcher())

	target := &domain.Account{ID: "u-1", Role: domain.RoleUser}
	repo.On("GetByID", mock.Anything, "u-1").Return(target, nil)

	err := svc.Delete(context.Background(), adminAccount("adm-1"), "u-1")
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteAccountAdminCanDeleteModerator(t *testing.T) {
	repo := new(mockAccountRepo)
	dispatcher := newRecordingDispatcher()
	svc := newAccountService(repo, dispatcher)

	target := &domain.Account{ID: "mod-1", Role: domain.RoleModerator}
	repo.On("GetByID", mock.Anything, "mod-1").Return(target, nil)
	repo.On("Delete", mock.Anything, "mod-1").Return(nil)

	err := svc.Delete(context.Background(), adminAccount("adm-1"), "mod-1")
	require.NoError(t, err)
	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, events.EventAccountDeleted, dispatcher.events[0].Type)
}

func TestDeleteAccountNotFound(t *testing.T) {
	repo := new(mockAccountRepo)
	svc := newAccountService(repo, newRecordingDispatcher())

	repo.On("GetByID", mock.Anything, "missing").Return(nil, pgx.ErrNoRows)

	err := svc.Delete(context.Background(), adminAccount("adm-1"), "missing")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestCreateAccountRejectsDuplicateEmail(t *testing.T) {
	repo := new(mockAccountRepo)
	svc := newAccountService(repo, newRecordingDispatcher())

	existing := &domain.Account{ID: "u-1", Email: "taken@example.com"}
	repo.On("GetByEmail", mock.Anything, "taken@example.com").Return(existing, nil)

	_, err := svc.Create(context.Background(), adminAccount("adm-1"), "Taken@Example.com", "Someone", "password123", domain.RoleUser)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestCreateAccountOwnerRoleReservedToOwners(t *testing.T) {
	repo := new(mockAccountRepo)
	svc := newAccountService(repo, newRecordingDispatcher())

	_, err := svc.Create(context.Background(), adminAccount("adm-1"), "new@example.com", "New Owner", "password123", domain.RoleOwner)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestChangeRoleRejectsOwnRole(t *testing.T) {
	repo := new(mockAccountRepo)
	svc := newAccountService(repo, newRecordingDispatcher())

	_, err := svc.ChangeRole(context.Background(), adminAccount("adm-1"), "adm-1", domain.RoleUser)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
}

func TestChangeRolePublishesEvent(t *testing.T) {
	repo := new(mockAccountRepo)
	dispatcher := newRecordingDispatcher()
	svc := newAccountService(repo, dispatcher)

	target := &domain.Account{ID: "u-1", Role: domain.RoleUser}
	repo.On("GetByID", mock.Anything, "u-1").Return(target, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	updated, err := svc.ChangeRole(context.Background(), adminAccount("adm-1"), "u-1", domain.RoleModerator)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleModerator, updated.Role)

	require.Len(t, dispatcher.events, 1)
	payload := dispatcher.events[0].Payload.(events.AccountRoleChangedPayload)
	assert.Equal(t, domain.RoleUser, payload.OldRole)
	assert.Equal(t, domain.RoleModerator, payload.NewRole)
}

func TestListForbiddenForModerator(t *testing.T) {
	repo := new(mockAccountRepo)
	svc := newAccountService(repo, newRecordingDispatcher())

	actor := &domain.Account{ID: "mod-1", Role: domain.RoleModerator}
	_, err := svc.List(context.Background(), actor, repository.AccountFilter{})
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
}
