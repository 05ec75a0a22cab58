package service

import (
	"context"
	"io"
	"time"

	"github.com/spec-kit/medreview-console/internal/analytics"
	"github.com/spec-kit/medreview-console/internal/domain"
	"github.com/spec-kit/medreview-console/internal/repository"
	apperrors "github.com/spec-kit/medreview-console/pkg/util"
)

// AnalyticsService assembles the dashboard report. All arithmetic lives in
// the analytics package; this layer only fetches and adapts repository rows.
type AnalyticsService struct {
	reviews  repository.ReviewRepository
	accounts repository.AccountRepository
	doctors  repository.DoctorRepository
	now      func() time.Time
}

// AnalyticsDependencies bundles requirements for the service. Now is
// optional and defaults to time.Now; tests inject a fixed clock.
type AnalyticsDependencies struct {
	ReviewRepo  repository.ReviewRepository
	AccountRepo repository.AccountRepository
	DoctorRepo  repository.DoctorRepository
	Now         func() time.Time
}

// NewAnalyticsService constructs the service.
func NewAnalyticsService(deps AnalyticsDependencies) *AnalyticsService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &AnalyticsService{
		reviews:  deps.ReviewRepo,
		accounts: deps.AccountRepo,
		doctors:  deps.DoctorRepo,
		now:      now,
	}
}

// BuildDashboard fetches the raw records for the window ending now and
// computes the full report.
func (s *AnalyticsService) BuildDashboard(ctx context.Context, actor *domain.Account, days int) (*analytics.Report, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if days <= 0 {
		return nil, apperrors.NewValidationError("window must be positive", map[string]any{"days": days})
	}

	now := s.now()
	since := now.AddDate(0, 0, -days)

	totalReviews, err := s.reviews.Count(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	pendingReviews, err := s.reviews.CountByStatus(ctx, domain.ReviewStatusPending)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	approvedReviews, err := s.reviews.CountByStatus(ctx, domain.ReviewStatusApproved)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	totalUsers, err := s.accounts.Count(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	doctors, err := s.doctors.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	doctorStats := make([]analytics.DoctorStats, 0, len(doctors))
	for _, doctor := range doctors {
		doctorStats = append(doctorStats, analytics.DoctorStats{
			ID:            doctor.ID,
			Name:          doctor.Name,
			AverageRating: doctor.AverageRating,
			TotalReviews:  doctor.TotalReviews,
		})
	}

	currentWeek, err := s.reviews.CountCreatedBetween(ctx, now.AddDate(0, 0, -7), now)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	previousWeek, err := s.reviews.CountCreatedBetween(ctx, now.AddDate(0, 0, -14), now.AddDate(0, 0, -7))
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	stamps, err := s.reviews.ListCreatedSince(ctx, since)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	records := make([]analytics.ReviewRecord, 0, len(stamps))
	for _, stamp := range stamps {
		records = append(records, analytics.ReviewRecord{Status: stamp.Status, CreatedAt: stamp.CreatedAt})
	}

	ratingStamps, err := s.reviews.ListApprovedRatingsSince(ctx, since)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	ratings := make([]analytics.RatedReview, 0, len(ratingStamps))
	for _, stamp := range ratingStamps {
		ratings = append(ratings, analytics.RatedReview{Rating: stamp.Rating, CreatedAt: stamp.CreatedAt})
	}

	signupTimes, err := s.accounts.ListCreatedSince(ctx, since)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	signups := make([]analytics.Signup, 0, len(signupTimes))
	for _, created := range signupTimes {
		signups = append(signups, analytics.Signup{CreatedAt: created})
	}

	report := analytics.BuildReport(now, days, analytics.ReportInput{
		Summary: analytics.SummaryInput{
			TotalDoctors:        len(doctors),
			TotalReviews:        totalReviews,
			TotalUsers:          totalUsers,
			PendingReviews:      pendingReviews,
			ApprovedReviews:     approvedReviews,
			Doctors:             doctorStats,
			CurrentWeekReviews:  currentWeek,
			PreviousWeekReviews: previousWeek,
		},
		Reviews: records,
		Ratings: ratings,
		Signups: signups,
	})
	return &report, nil
}

// ExportCSV writes the report for the window as CSV. Equal data always
// yields byte-identical output.
func (s *AnalyticsService) ExportCSV(ctx context.Context, actor *domain.Account, days int, w io.Writer) error {
	report, err := s.BuildDashboard(ctx, actor, days)
	if err != nil {
		return err
	}
	if err := analytics.WriteCSV(w, *report); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}
