package domain

import "time"

// Doctor carries the aggregate rating fields recomputed whenever a
// review's status moves to or from approved.
type Doctor struct {
	ID            string
	Name          string
	Specialty     string
	AverageRating float64
	TotalReviews  int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
