package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/medreview-console/internal/domain"
	"github.com/spec-kit/medreview-console/internal/events"
	"github.com/spec-kit/medreview-console/internal/repository"
	apperrors "github.com/spec-kit/medreview-console/pkg/util"
)

// DoctorService manages doctor records and keeps their review aggregates
// current. The aggregate recomputation runs as an event subscriber so the
// moderation workflow never writes doctor rows itself.
type DoctorService struct {
	doctors    repository.DoctorRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// DoctorDependencies bundles requirements for the service.
type DoctorDependencies struct {
	DoctorRepo repository.DoctorRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewDoctorService constructs the service.
func NewDoctorService(deps DoctorDependencies) *DoctorService {
	return &DoctorService{
		doctors:    deps.DoctorRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// RegisterHandlers subscribes the aggregate recomputation to moderation
// events. A transition to or from approved, or removal of a review,
// changes what counts toward average_rating and total_reviews.
func (s *DoctorService) RegisterHandlers() {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Subscribe(events.EventReviewStatusChanged, s.handleReviewStatusChanged)
	s.dispatcher.Subscribe(events.EventReviewDeleted, s.handleReviewDeleted)
}

func (s *DoctorService) handleReviewStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ReviewStatusChangedPayload)
	if !ok {
		return nil
	}
	if payload.OldStatus != domain.ReviewStatusApproved && payload.NewStatus != domain.ReviewStatusApproved {
		return nil
	}
	if err := s.doctors.RecomputeAggregates(ctx, payload.DoctorID); err != nil {
		s.logger.Error("recompute doctor aggregates", zap.String("doctor_id", payload.DoctorID), zap.Error(err))
		return err
	}
	return nil
}

func (s *DoctorService) handleReviewDeleted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ReviewDeletedPayload)
	if !ok {
		return nil
	}
	if payload.LastStatus != domain.ReviewStatusApproved {
		return nil
	}
	if err := s.doctors.RecomputeAggregates(ctx, payload.DoctorID); err != nil {
		s.logger.Error("recompute doctor aggregates", zap.String("doctor_id", payload.DoctorID), zap.Error(err))
		return err
	}
	return nil
}

// List returns all doctors for the console.
func (s *DoctorService) List(ctx context.Context, actor *domain.Account) ([]domain.Doctor, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return s.doctors.List(ctx)
}

// Create adds a doctor record.
func (s *DoctorService) Create(ctx context.Context, actor *domain.Account, name, specialty string) (*domain.Doctor, error) {
	if err := requireUserManager(actor); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("doctor name required", nil)
	}

	doctor := &domain.Doctor{Name: name, Specialty: strings.TrimSpace(specialty)}
	if err := s.doctors.Create(ctx, doctor); err != nil {
		return nil, apperrors.MapError(err)
	}

	publishEvent(ctx, s.dispatcher, actor, events.Event{
		Type:      events.EventDoctorChanged,
		SubjectID: doctor.ID,
		Payload:   events.DoctorChangedPayload{},
	})
	return doctor, nil
}

// Update modifies doctor metadata. Aggregate fields are never written here.
func (s *DoctorService) Update(ctx context.Context, actor *domain.Account, id, name, specialty string) (*domain.Doctor, error) {
	if err := requireUserManager(actor); err != nil {
		return nil, err
	}

	doctor, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("doctor", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}

	if name = strings.TrimSpace(name); name != "" {
		doctor.Name = name
	}
	doctor.Specialty = strings.TrimSpace(specialty)
	if err := s.doctors.Update(ctx, doctor); err != nil {
		return nil, apperrors.MapError(err)
	}

	publishEvent(ctx, s.dispatcher, actor, events.Event{
		Type:      events.EventDoctorChanged,
		SubjectID: doctor.ID,
		Payload:   events.DoctorChangedPayload{},
	})
	return doctor, nil
}

// Delete removes a doctor and, via cascade, their reviews.
func (s *DoctorService) Delete(ctx context.Context, actor *domain.Account, id string) error {
	if err := requireUserManager(actor); err != nil {
		return err
	}
	if err := s.doctors.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("doctor", map[string]any{"id": id})
		}
		return apperrors.MapError(err)
	}

	publishEvent(ctx, s.dispatcher, actor, events.Event{
		Type:      events.EventDoctorChanged,
		SubjectID: id,
		Payload:   events.DoctorChangedPayload{Deleted: true},
	})
	return nil
}
