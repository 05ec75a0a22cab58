package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/medreview-console/internal/domain"
	"github.com/spec-kit/medreview-console/internal/repository"
	apperrors "github.com/spec-kit/medreview-console/pkg/util"
)

func fixedClock() time.Time {
	return time.Date(2025, time.March, 15, 14, 30, 0, 0, time.UTC)
}

func newAnalyticsFixture(t *testing.T) (*AnalyticsService, *mockReviewRepo, *mockAccountRepo, *mockDoctorRepo) {
	t.Helper()
	reviews := new(mockReviewRepo)
	accounts := new(mockAccountRepo)
	doctors := new(mockDoctorRepo)
	svc := NewAnalyticsService(AnalyticsDependencies{
		ReviewRepo:  reviews,
		AccountRepo: accounts,
		DoctorRepo:  doctors,
		Now:         fixedClock,
	})
	return svc, reviews, accounts, doctors
}

func stubAnalyticsRepos(reviews *mockReviewRepo, accounts *mockAccountRepo, doctors *mockDoctorRepo) {
	reviews.On("Count", mock.Anything).Return(10, nil)
	reviews.On("CountByStatus", mock.Anything, domain.ReviewStatusPending).Return(3, nil)
	reviews.On("CountByStatus", mock.Anything, domain.ReviewStatusApproved).Return(6, nil)
	accounts.On("Count", mock.Anything).Return(4, nil)
	doctors.On("List", mock.Anything).Return([]domain.Doctor{
		{ID: "doc-1", Name: "Dr. A", AverageRating: 4.5, TotalReviews: 6},
		{ID: "doc-2", Name: "Dr. B", AverageRating: 3.5, TotalReviews: 0},
	}, nil)

	now := fixedClock()
	reviews.On("CountCreatedBetween", mock.Anything, now.AddDate(0, 0, -7), now).Return(6, nil)
	reviews.On("CountCreatedBetween", mock.Anything, now.AddDate(0, 0, -14), now.AddDate(0, 0, -7)).Return(4, nil)

	reviews.On("ListCreatedSince", mock.Anything, mock.Anything).Return([]repository.StatusStamp{
		{Status: domain.ReviewStatusApproved, CreatedAt: now.Add(-2 * time.Hour)},
		{Status: domain.ReviewStatusPending, CreatedAt: now.Add(-26 * time.Hour)},
	}, nil)
	reviews.On("ListApprovedRatingsSince", mock.Anything, mock.Anything).Return([]repository.RatingStamp{
		{Rating: 5, CreatedAt: now.Add(-2 * time.Hour)},
		{Rating: 4, CreatedAt: now.Add(-26 * time.Hour)},
	}, nil)
	accounts.On("ListCreatedSince", mock.Anything, mock.Anything).Return([]time.Time{
		now.Add(-3 * time.Hour),
	}, nil)
}

func TestBuildDashboardAssemblesReport(t *testing.T) {
	svc, reviews, accounts, doctors := newAnalyticsFixture(t)
	stubAnalyticsRepos(reviews, accounts, doctors)

	report, err := svc.BuildDashboard(context.Background(), adminAccount("adm-1"), 7)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Summary.TotalDoctors)
	assert.Equal(t, 10, report.Summary.TotalReviews)
	assert.Equal(t, 4, report.Summary.TotalUsers)
	assert.Equal(t, "60.0", report.Summary.ApprovalRate)
	assert.Equal(t, 50.0, report.Summary.ReviewsTrend.Value)
	assert.True(t, report.Summary.ReviewsTrend.IsPositive)

	// only doctors with reviews rank
	require.Len(t, report.Summary.TopDoctors, 1)
	assert.Equal(t, "doc-1", report.Summary.TopDoctors[0].ID)

	require.Len(t, report.ReviewsTimeline, 7)
	last := report.ReviewsTimeline[6]
	assert.Equal(t, "Mar 15", last.Date)
	assert.Equal(t, 1, last.Total)
	assert.Equal(t, 1, last.Approved)

	require.Len(t, report.RatingsDistribution, 5)
	assert.Equal(t, 1, report.RatingsDistribution[4].Count)
	assert.Equal(t, 1, report.RatingsDistribution[3].Count)

	require.Len(t, report.UserRegistrations, 7)
	assert.Equal(t, 1, report.UserRegistrations[6].Count)
}

func TestBuildDashboardRejectsNonPositiveWindow(t *testing.T) {
	svc, _, _, _ := newAnalyticsFixture(t)

	_, err := svc.BuildDashboard(context.Background(), adminAccount("adm-1"), 0)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestBuildDashboardRequiresActor(t *testing.T) {
	svc, _, _, _ := newAnalyticsFixture(t)

	_, err := svc.BuildDashboard(context.Background(), nil, 7)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(err).Code)
}

func TestExportCSVIsReproducible(t *testing.T) {
	svc, reviews, accounts, doctors := newAnalyticsFixture(t)
	stubAnalyticsRepos(reviews, accounts, doctors)

	var first, second bytes.Buffer
	require.NoError(t, svc.ExportCSV(context.Background(), adminAccount("adm-1"), 7, &first))
	require.NoError(t, svc.ExportCSV(context.Background(), adminAccount("adm-1"), 7, &second))

	assert.Equal(t, first.Bytes(), second.Bytes())
	assert.True(t, strings.HasPrefix(first.String(), "Metric,Value,Description"))
}
