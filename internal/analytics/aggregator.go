// Package analytics turns raw time-stamped records into display-ready
// series and summary statistics. Everything here is a pure transformation
// over inputs already fetched by the caller; no I/O.
package analytics

import (
	"sort"
	"strconv"
	"time"

	"github.com/spec-kit/medreview-console/internal/domain"
)

const (
	// topDoctorsLimit caps the ranking length.
	topDoctorsLimit = 5
	// registrationsMaxDays caps the registrations series even for wider windows.
	registrationsMaxDays = 30
	// trendWindowDays is the comparison window for the reviews trend.
	trendWindowDays = 7

	dateLayout = "Jan 02"
)

// ReviewRecord is a review reduced to the fields bucketing needs.
type ReviewRecord struct {
	Status    domain.ReviewStatus
	CreatedAt time.Time
}

// RatedReview is an approved review reduced to rating and timestamp.
type RatedReview struct {
	Rating    int
	CreatedAt time.Time
}

// Signup is an account creation timestamp.
type Signup struct {
	CreatedAt time.Time
}

// DoctorStats carries the stored aggregates read from a doctor record.
type DoctorStats struct {
	ID            string
	Name          string
	AverageRating float64
	TotalReviews  int
}

// TimelineBucket is one calendar day of review activity.
type TimelineBucket struct {
	Date     string
	Total    int
	Pending  int
	Approved int
}

// RegistrationBucket is one calendar day of signups.
type RegistrationBucket struct {
	Date  string
	Count int
}

// RatingBucket counts approved reviews carrying one rating value.
type RatingBucket struct {
	Rating int
	Count  int
}

// Trend is a percentage change between two consecutive equal windows.
// Value carries the magnitude; IsPositive carries the sign so a display
// layer can pick an indicator independently.
type Trend struct {
	Value      float64
	IsPositive bool
}

// Summary bundles the dashboard headline statistics. Rates are formatted
// to one decimal place with locale-independent rendering.
type Summary struct {
	TotalDoctors    int
	TotalReviews    int
	TotalUsers      int
	PendingReviews  int
	ApprovedReviews int
	AverageRating   string
	ActivityRate    string
	ApprovalRate    string
	ReviewsTrend    Trend
	TopDoctors      []DoctorStats
}

// SummaryInput holds the raw counts and records a summary is built from.
type SummaryInput struct {
	TotalDoctors        int
	TotalReviews        int
	TotalUsers          int
	PendingReviews      int
	ApprovedReviews     int
	Doctors             []DoctorStats
	CurrentWeekReviews  int
	PreviousWeekReviews int
}

// Report is the full dashboard payload for one window.
type Report struct {
	Summary             Summary
	ReviewsTimeline     []TimelineBucket
	RatingsDistribution []RatingBucket
	UserRegistrations   []RegistrationBucket
}

// ReportInput bundles the raw collections for BuildReport. Each collection
// is expected to be pre-filtered to createdAt >= now - days; missing or
// empty collections are valid and produce zero-filled series.
type ReportInput struct {
	Summary SummaryInput
	Reviews []ReviewRecord
	Ratings []RatedReview
	Signups []Signup
}

// BuildReport computes the complete report for the window ending at now.
func BuildReport(now time.Time, days int, in ReportInput) Report {
	return Report{
		Summary:             BuildSummary(in.Summary),
		ReviewsTimeline:     ReviewsTimeline(now, days, in.Reviews),
		RatingsDistribution: RatingsDistribution(in.Ratings),
		UserRegistrations:   UserRegistrations(now, days, in.Signups),
	}
}

// ReviewsTimeline buckets reviews into one entry per calendar day for the
// last days days, oldest first. Days without records still appear with
// zero counts. Bucketing uses calendar days in now's location.
func ReviewsTimeline(now time.Time, days int, reviews []ReviewRecord) []TimelineBucket {
	buckets := make([]TimelineBucket, 0, days)
	for i := 0; i < days; i++ {
		day := now.AddDate(0, 0, -(days - 1 - i))
		start := startOfDay(day)
		end := start.AddDate(0, 0, 1)

		bucket := TimelineBucket{Date: start.Format(dateLayout)}
		for _, review := range reviews {
			if review.CreatedAt.Before(start) || !review.CreatedAt.Before(end) {
				continue
			}
			bucket.Total++
			switch review.Status {
			case domain.ReviewStatusPending:
				bucket.Pending++
			case domain.ReviewStatusApproved:
				bucket.Approved++
			}
		}
		buckets = append(buckets, bucket)
	}
	return buckets
}

// RatingsDistribution counts approved reviews per rating value. The result
// always has exactly five entries, ratings 1..5 ascending.
func RatingsDistribution(reviews []RatedReview) []RatingBucket {
	buckets := make([]RatingBucket, 5)
	for i := range buckets {
		buckets[i].Rating = i + 1
	}
	for _, review := range reviews {
		if !domain.ValidRating(review.Rating) {
			continue
		}
		buckets[review.Rating-1].Count++
	}
	return buckets
}

// UserRegistrations buckets signups per calendar day like ReviewsTimeline
// but caps the series at 30 days regardless of the requested window.
func UserRegistrations(now time.Time, days int, signups []Signup) []RegistrationBucket {
	if days > registrationsMaxDays {
		days = registrationsMaxDays
	}
	buckets := make([]RegistrationBucket, 0, days)
	for i := 0; i < days; i++ {
		day := now.AddDate(0, 0, -(days - 1 - i))
		start := startOfDay(day)
		end := start.AddDate(0, 0, 1)

		bucket := RegistrationBucket{Date: start.Format(dateLayout)}
		for _, signup := range signups {
			if !signup.CreatedAt.Before(start) && signup.CreatedAt.Before(end) {
				bucket.Count++
			}
		}
		buckets = append(buckets, bucket)
	}
	return buckets
}

// BuildSummary computes the headline statistics. Denominators are floored
// at one so rates never divide by zero.
func BuildSummary(in SummaryInput) Summary {
	var totalRating float64
	for _, doctor := range in.Doctors {
		totalRating += doctor.AverageRating
	}
	avgRating := 0.0
	if len(in.Doctors) > 0 {
		avgRating = totalRating / float64(len(in.Doctors))
	}

	users := in.TotalUsers
	if users < 1 {
		users = 1
	}
	activityRate := float64(in.TotalReviews) / float64(users)

	approvalRate := "0"
	if in.ApprovedReviews > 0 && in.TotalReviews > 0 {
		approvalRate = formatRate(100 * float64(in.ApprovedReviews) / float64(in.TotalReviews))
	}

	return Summary{
		TotalDoctors:    in.TotalDoctors,
		TotalReviews:    in.TotalReviews,
		TotalUsers:      in.TotalUsers,
		PendingReviews:  in.PendingReviews,
		ApprovedReviews: in.ApprovedReviews,
		AverageRating:   formatRate(avgRating),
		ActivityRate:    formatRate(activityRate),
		ApprovalRate:    approvalRate,
		ReviewsTrend:    ReviewsTrend(in.CurrentWeekReviews, in.PreviousWeekReviews),
		TopDoctors:      TopDoctors(in.Doctors),
	}
}

// ReviewsTrend computes the percentage change between the most recent
// seven-day window and the one before it. A zero previous window yields a
// zero, positive trend regardless of the current count.
func ReviewsTrend(current, previous int) Trend {
	if previous == 0 {
		return Trend{Value: 0, IsPositive: true}
	}
	change := 100 * float64(current-previous) / float64(previous)
	value := change
	if value < 0 {
		value = -value
	}
	return Trend{Value: value, IsPositive: change >= 0}
}

// TopDoctors ranks doctors with at least one review by average rating,
// descending, ties kept in input order, truncated to five.
func TopDoctors(doctors []DoctorStats) []DoctorStats {
	ranked := make([]DoctorStats, 0, len(doctors))
	for _, doctor := range doctors {
		if doctor.TotalReviews > 0 {
			ranked = append(ranked, doctor)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AverageRating > ranked[j].AverageRating
	})
	if len(ranked) > topDoctorsLimit {
		ranked = ranked[:topDoctorsLimit]
	}
	return ranked
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func formatRate(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
