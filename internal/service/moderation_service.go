package service

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/medreview-console/internal/authz"
	"github.com/spec-kit/medreview-console/internal/domain"
	"github.com/spec-kit/medreview-console/internal/events"
	"github.com/spec-kit/medreview-console/internal/observability"
	"github.com/spec-kit/medreview-console/internal/repository"
	apperrors "github.com/spec-kit/medreview-console/pkg/util"
)

// ModerationService runs the review moderation workflow. Routes gate on
// the manage-reviews capability before calling in; the service re-checks
// defensively so a miswired caller cannot bypass authorization.
type ModerationService struct {
	reviews    repository.ReviewRepository
	dispatcher events.Dispatcher
}

// ModerationDependencies bundles requirements for the service.
type ModerationDependencies struct {
	ReviewRepo repository.ReviewRepository
	Dispatcher events.Dispatcher
}

// BulkOutcome reports the result of one item within a bulk action.
type BulkOutcome struct {
	ID  string
	Err error
}

// NewModerationService constructs the service.
func NewModerationService(deps ModerationDependencies) *ModerationService {
	return &ModerationService{
		reviews:    deps.ReviewRepo,
		dispatcher: deps.Dispatcher,
	}
}

// ListReviews returns reviews joined with doctor info for the console.
func (s *ModerationService) ListReviews(ctx context.Context, actor *domain.Account, filter repository.ReviewFilter) ([]repository.ReviewWithDoctor, error) {
	if err := requireReviewManager(actor); err != nil {
		return nil, err
	}
	return s.reviews.ListWithFilter(ctx, filter)
}

// SetStatus transitions a single review to newStatus. Transitioning to the
// status the review already holds succeeds without observable change.
// There is no transition back to pending.
func (s *ModerationService) SetStatus(ctx context.Context, actor *domain.Account, reviewID string, newStatus domain.ReviewStatus) error {
	if err := requireReviewManager(actor); err != nil {
		return err
	}
	if newStatus != domain.ReviewStatusApproved && newStatus != domain.ReviewStatusRejected {
		return apperrors.NewValidationError("invalid target status", map[string]any{"status": newStatus})
	}

	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			observability.ObserveModerationTransition(string(newStatus), "not_found")
			return apperrors.NewNotFound("review", map[string]any{"id": reviewID})
		}
		return apperrors.MapError(err)
	}
	if review.Status == newStatus {
		observability.ObserveModerationTransition(string(newStatus), "noop")
		return nil
	}

	if err := s.reviews.UpdateStatus(ctx, reviewID, newStatus); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// vanished between read and write
			observability.ObserveModerationTransition(string(newStatus), "not_found")
			return apperrors.NewNotFound("review", map[string]any{"id": reviewID})
		}
		return apperrors.MapError(err)
	}

	observability.ObserveModerationTransition(string(newStatus), "ok")
	publishEvent(ctx, s.dispatcher, actor, events.Event{
		Type:      events.EventReviewStatusChanged,
		SubjectID: reviewID,
		Payload: events.ReviewStatusChangedPayload{
			DoctorID:  review.DoctorID,
			OldStatus: review.Status,
			NewStatus: newStatus,
		},
	})
	return nil
}

// BulkSetStatus applies SetStatus to each id independently and
// concurrently. One failing item never prevents the others from being
// attempted; the caller receives the full outcome set in input order.
func (s *ModerationService) BulkSetStatus(ctx context.Context, actor *domain.Account, reviewIDs []string, newStatus domain.ReviewStatus) ([]BulkOutcome, error) {
	if err := requireReviewManager(actor); err != nil {
		return nil, err
	}
	if newStatus != domain.ReviewStatusApproved && newStatus != domain.ReviewStatusRejected {
		return nil, apperrors.NewValidationError("invalid target status", map[string]any{"status": newStatus})
	}

	outcomes := make([]BulkOutcome, len(reviewIDs))
	var wg sync.WaitGroup
	for i, id := range reviewIDs {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			err := s.SetStatus(ctx, actor, id, newStatus)
			outcomes[i] = BulkOutcome{ID: id, Err: err}
			if err != nil {
				observability.ObserveBulkOutcome("failed")
			} else {
				observability.ObserveBulkOutcome("ok")
			}
		}(i, id)
	}
	wg.Wait()
	return outcomes, nil
}

// Delete removes a review permanently. Not reversible.
func (s *ModerationService) Delete(ctx context.Context, actor *domain.Account, reviewID string) error {
	if err := requireReviewManager(actor); err != nil {
		return err
	}

	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("review", map[string]any{"id": reviewID})
		}
		return apperrors.MapError(err)
	}

	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("review", map[string]any{"id": reviewID})
		}
		return apperrors.MapError(err)
	}

	publishEvent(ctx, s.dispatcher, actor, events.Event{
		Type:      events.EventReviewDeleted,
		SubjectID: reviewID,
		Payload: events.ReviewDeletedPayload{
			DoctorID:   review.DoctorID,
			LastStatus: review.Status,
		},
	})
	return nil
}

// PartialFailure converts mixed bulk outcomes into a PARTIAL_FAILURE error
// naming each failed id. Returns nil when every item succeeded.
func PartialFailure(outcomes []BulkOutcome) error {
	failed := map[string]string{}
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			failed[outcome.ID] = outcome.Err.Error()
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return apperrors.NewPartialFailure("some reviews could not be updated", failed)
}

func requireReviewManager(actor *domain.Account) error {
	if actor == nil || !authz.CanManageReviews(actor.Role) {
		return apperrors.NewForbidden("review management capability required")
	}
	return nil
}

