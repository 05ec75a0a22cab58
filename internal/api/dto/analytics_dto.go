package dto

import "github.com/spec-kit/medreview-console/internal/analytics"

// TrendResponse carries magnitude and direction separately so the console
// can render the indicator without re-deriving the sign.
type TrendResponse struct {
	Value      float64 `json:"value"`
	IsPositive bool    `json:"is_positive"`
}

// TopDoctorResponse is one entry of the top-doctors ranking.
type TopDoctorResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int     `json:"total_reviews"`
}

// AnalyticsSummaryResponse holds the headline numbers. Rates are
// pre-formatted strings with one decimal place.
type AnalyticsSummaryResponse struct {
	TotalDoctors    int                 `json:"total_doctors"`
	TotalReviews    int                 `json:"total_reviews"`
	TotalUsers      int                 `json:"total_users"`
	PendingReviews  int                 `json:"pending_reviews"`
	ApprovedReviews int                 `json:"approved_reviews"`
	AverageRating   string              `json:"average_rating"`
	ActivityRate    string              `json:"activity_rate"`
	ApprovalRate    string              `json:"approval_rate"`
	ReviewsTrend    TrendResponse       `json:"reviews_trend"`
	TopDoctors      []TopDoctorResponse `json:"top_doctors"`
}

// TimelineBucketResponse is one calendar day of review activity.
type TimelineBucketResponse struct {
	Date     string `json:"date"`
	Total    int    `json:"total"`
	Pending  int    `json:"pending"`
	Approved int    `json:"approved"`
}

// RatingBucketResponse is one rating value's count.
type RatingBucketResponse struct {
	Rating int `json:"rating"`
	Count  int `json:"count"`
}

// RegistrationBucketResponse is one calendar day of signups.
type RegistrationBucketResponse struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// AnalyticsReportResponse is the full dashboard payload.
type AnalyticsReportResponse struct {
	Summary             AnalyticsSummaryResponse     `json:"summary"`
	ReviewsTimeline     []TimelineBucketResponse     `json:"reviews_timeline"`
	RatingsDistribution []RatingBucketResponse       `json:"ratings_distribution"`
	UserRegistrations   []RegistrationBucketResponse `json:"user_registrations"`
}

// AnalyticsReport maps the computed report into the wire shape.
func AnalyticsReport(report analytics.Report) AnalyticsReportResponse {
	topDoctors := make([]TopDoctorResponse, 0, len(report.Summary.TopDoctors))
	for _, doctor := range report.Summary.TopDoctors {
		topDoctors = append(topDoctors, TopDoctorResponse{
			ID:            doctor.ID,
			Name:          doctor.Name,
			AverageRating: doctor.AverageRating,
			TotalReviews:  doctor.TotalReviews,
		})
	}

	timeline := make([]TimelineBucketResponse, 0, len(report.ReviewsTimeline))
	for _, bucket := range report.ReviewsTimeline {
		timeline = append(timeline, TimelineBucketResponse{
			Date:     bucket.Date,
			Total:    bucket.Total,
			Pending:  bucket.Pending,
			Approved: bucket.Approved,
		})
	}

	ratings := make([]RatingBucketResponse, 0, len(report.RatingsDistribution))
	for _, bucket := range report.RatingsDistribution {
		ratings = append(ratings, RatingBucketResponse{Rating: bucket.Rating, Count: bucket.Count})
	}

	registrations := make([]RegistrationBucketResponse, 0, len(report.UserRegistrations))
	for _, bucket := range report.UserRegistrations {
		registrations = append(registrations, RegistrationBucketResponse{Date: bucket.Date, Count: bucket.Count})
	}

	return AnalyticsReportResponse{
		Summary: AnalyticsSummaryResponse{
			TotalDoctors:    report.Summary.TotalDoctors,
			TotalReviews:    report.Summary.TotalReviews,
			TotalUsers:      report.Summary.TotalUsers,
			PendingReviews:  report.Summary.PendingReviews,
			ApprovedReviews: report.Summary.ApprovedReviews,
			AverageRating:   report.Summary.AverageRating,
			ActivityRate:    report.Summary.ActivityRate,
			ApprovalRate:    report.Summary.ApprovalRate,
			ReviewsTrend: TrendResponse{
				Value:      report.Summary.ReviewsTrend.Value,
				IsPositive: report.Summary.ReviewsTrend.IsPositive,
			},
			TopDoctors: topDoctors,
		},
		ReviewsTimeline:     timeline,
		RatingsDistribution: ratings,
		UserRegistrations:   registrations,
	}
}
