package dto

import (
	"time"

	"github.com/spec-kit/medreview-console/internal/domain"
)

// ReviewListQuery captures moderation list filters.
type ReviewListQuery struct {
	Statuses []domain.ReviewStatus
	DoctorID *string
	Search   *string
	Page     int
	PageSize int
}

// ReviewResponse is one row of the moderation queue.
type ReviewResponse struct {
	ID              string              `json:"id"`
	DoctorID        string              `json:"doctor_id"`
	DoctorName      string              `json:"doctor_name"`
	DoctorSpecialty string              `json:"doctor_specialty"`
	PatientName     string              `json:"patient_name"`
	Email           string              `json:"email"`
	Rating          int                 `json:"rating"`
	Text            string              `json:"text"`
	Status          domain.ReviewStatus `json:"status"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// SetReviewStatusRequest payload.
type SetReviewStatusRequest struct {
	Status domain.ReviewStatus `json:"status"`
}

// BulkSetStatusRequest payload.
type BulkSetStatusRequest struct {
	ReviewIDs []string            `json:"review_ids"`
	Status    domain.ReviewStatus `json:"status"`
}

// BulkItemOutcome reports one item of a bulk action.
type BulkItemOutcome struct {
	ID    string `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// BulkSetStatusResponse lists per-item outcomes in request order.
type BulkSetStatusResponse struct {
	Outcomes  []BulkItemOutcome `json:"outcomes"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
}
