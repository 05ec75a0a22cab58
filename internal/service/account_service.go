package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/medreview-console/internal/auth"
	"github.com/spec-kit/medreview-console/internal/authz"
	"github.com/spec-kit/medreview-console/internal/domain"
	"github.com/spec-kit/medreview-console/internal/events"
	"github.com/spec-kit/medreview-console/internal/repository"
	apperrors "github.com/spec-kit/medreview-console/pkg/util"
)

// AccountService administers platform accounts: listing, creation,
// suspension and deletion. Suspension and deletion decisions go through
// the authz predicates on every call; the actor's role is never cached.
type AccountService struct {
	accounts   repository.AccountRepository
	dispatcher events.Dispatcher
	bcryptCost int
}

// AccountDependencies bundles requirements for the service.
type AccountDependencies struct {
	AccountRepo repository.AccountRepository
	Dispatcher  events.Dispatcher
	BcryptCost  int
}

// NewAccountService constructs the service.
func NewAccountService(deps AccountDependencies) *AccountService {
	return &AccountService{
		accounts:   deps.AccountRepo,
		dispatcher: deps.Dispatcher,
		bcryptCost: deps.BcryptCost,
	}
}

// List returns accounts matching the filter.
func (s *AccountService) List(ctx context.Context, actor *domain.Account, filter repository.AccountFilter) ([]domain.Account, error) {
	if err := requireUserManager(actor); err != nil {
		return nil, err
	}
	return s.accounts.ListWithFilter(ctx, filter)
}

// Stats returns the user-management card numbers; "recent" counts accounts
// created within the last seven days.
func (s *AccountService) Stats(ctx context.Context, actor *domain.Account) (*repository.AccountStats, error) {
	if err := requireUserManager(actor); err != nil {
		return nil, err
	}
	return s.accounts.Stats(ctx, time.Now().AddDate(0, 0, -7))
}

// Create adds a new account with the given role.
func (s *AccountService) Create(ctx context.Context, actor *domain.Account, email, fullName, password string, role domain.Role) (*domain.Account, error) {
	if err := requireUserManager(actor); err != nil {
		return nil, err
	}
	if role == domain.RoleOwner && actor.Role != domain.RoleOwner {
		return nil, apperrors.NewForbidden("only an owner may create owner accounts")
	}

	email = strings.TrimSpace(strings.ToLower(email))
	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	account := &domain.Account{
		Email:        email,
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: hash,
		Role:         role,
		Status:       domain.AccountStatusActive,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, apperrors.MapError(err)
	}

	publishEvent(ctx, s.dispatcher, actor, events.Event{
		Type:      events.EventAccountCreated,
		SubjectID: account.ID,
		Payload:   events.AccountCreatedPayload{Role: account.Role},
	})
	return account, nil
}

// SetStatus suspends or reactivates the target account. The suspension
// capability also covers reactivation; no actor may act on themselves.
func (s *AccountService) SetStatus(ctx context.Context, actor *domain.Account, targetID string, newStatus domain.AccountStatus) (*domain.Account, error) {
	target, err := s.accounts.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("account", map[string]any{"id": targetID})
		}
		return nil, apperrors.MapError(err)
	}

	if actor == nil || !authz.CanSuspendUser(actor.Role, target.Role, actor.ID == target.ID) {
		return nil, apperrors.NewForbidden("not allowed to change this account's status")
	}
	if target.Status == newStatus {
		return target, nil
	}

	oldStatus := target.Status
	target.Status = newStatus
	if err := s.accounts.Update(ctx, target); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("account", map[string]any{"id": targetID})
		}
		return nil, apperrors.MapError(err)
	}

	publishEvent(ctx, s.dispatcher, actor, events.Event{
		Type:      events.EventAccountStatusChanged,
		SubjectID: target.ID,
		Payload: events.AccountStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
		},
	})
	return target, nil
}

// Delete removes the target account permanently. Irreversible, so the
// capability set is tighter than suspension (see authz.CanDeleteUser).
func (s *AccountService) Delete(ctx context.Context, actor *domain.Account, targetID string) error {
	target, err := s.accounts.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("account", map[string]any{"id": targetID})
		}
		return apperrors.MapError(err)
	}

	if actor == nil || !authz.CanDeleteUser(actor.Role, target.Role, actor.ID == target.ID) {
		return apperrors.NewForbidden("not allowed to delete this account")
	}

	if err := s.accounts.Delete(ctx, targetID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("account", map[string]any{"id": targetID})
		}
		return apperrors.MapError(err)
	}

	publishEvent(ctx, s.dispatcher, actor, events.Event{
		Type:      events.EventAccountDeleted,
		SubjectID: targetID,
	})
	return nil
}

// ChangeRole moves the target to a new role. Changing one's own role is
// rejected so an operator cannot lock themselves out; granting owner is
// reserved to owners.
func (s *AccountService) ChangeRole(ctx context.Context, actor *domain.Account, targetID string, newRole domain.Role) (*domain.Account, error) {
	if err := requireUserManager(actor); err != nil {
		return nil, err
	}
	if actor.ID == targetID {
		return nil, apperrors.NewForbidden("cannot change own role")
	}
	if newRole == domain.RoleOwner && actor.Role != domain.RoleOwner {
		return nil, apperrors.NewForbidden("only an owner may grant the owner role")
	}

	target, err := s.accounts.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("account", map[string]any{"id": targetID})
		}
		return nil, apperrors.MapError(err)
	}
	if target.Role == newRole {
		return target, nil
	}

	oldRole := target.Role
	target.Role = newRole
	if err := s.accounts.Update(ctx, target); err != nil {
		return nil, apperrors.MapError(err)
	}

	publishEvent(ctx, s.dispatcher, actor, events.Event{
		Type:      events.EventAccountRoleChanged,
		SubjectID: target.ID,
		Payload: events.AccountRoleChangedPayload{
			OldRole: oldRole,
			NewRole: newRole,
		},
	})
	return target, nil
}

func requireUserManager(actor *domain.Account) error {
	if actor == nil || !authz.CanManageUsers(actor.Role) {
		return apperrors.NewForbidden("user management capability required")
	}
	return nil
}
