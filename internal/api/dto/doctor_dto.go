package dto

import "time"

// CreateDoctorRequest payload.
type CreateDoctorRequest struct {
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
}

// UpdateDoctorRequest payload.
type UpdateDoctorRequest struct {
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
}

// DoctorResponse is one doctor row with its stored review aggregates.
type DoctorResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Specialty     string    `json:"specialty"`
	AverageRating float64   `json:"average_rating"`
	TotalReviews  int       `json:"total_reviews"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
