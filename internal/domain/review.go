package domain

import (
	"fmt"
	"time"
)

// ReviewStatus enumerates moderation states for patient reviews.
// Deletion removes the record entirely and is not a status value.
type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

// ParseReviewStatus validates a raw status value.
func ParseReviewStatus(raw string) (ReviewStatus, error) {
	switch ReviewStatus(raw) {
	case ReviewStatusPending, ReviewStatusApproved, ReviewStatusRejected:
		return ReviewStatus(raw), nil
	}
	return "", fmt.Errorf("unknown review status %q", raw)
}

// ValidRating reports whether a rating is within the 1..5 scale.
func ValidRating(rating int) bool {
	return rating >= 1 && rating <= 5
}

// Review is a patient review of a doctor. Created in state pending by the
// public submission flow; mutated only through moderation.
type Review struct {
	ID          string
	DoctorID    string
	PatientName string
	Email       string
	Rating      int
	Text        string
	Status      ReviewStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
