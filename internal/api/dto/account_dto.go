package dto

import (
	"time"

	"github.com/spec-kit/medreview-console/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token and the operator's profile.
type LoginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Account   AccountResponse `json:"account"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// CreateAccountRequest payload.
type CreateAccountRequest struct {
	Email    string      `json:"email"`
	FullName string      `json:"full_name"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

// SetAccountStatusRequest payload.
type SetAccountStatusRequest struct {
	Status domain.AccountStatus `json:"status"`
}

// ChangeRoleRequest payload.
type ChangeRoleRequest struct {
	Role domain.Role `json:"role"`
}

// AccountListQuery captures account list filters.
type AccountListQuery struct {
	Role     *domain.Role
	Search   *string
	Page     int
	PageSize int
}

// AccountResponse is one account row. The password hash never leaves the
// service layer.
type AccountResponse struct {
	ID        string               `json:"id"`
	Email     string               `json:"email"`
	FullName  string               `json:"full_name"`
	Role      domain.Role          `json:"role"`
	Status    domain.AccountStatus `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// AccountStatsResponse holds the user-management card numbers.
type AccountStatsResponse struct {
	Total      int `json:"total"`
	Admins     int `json:"admins"`
	Moderators int `json:"moderators"`
	Recent     int `json:"recent"`
}
