package domain

import (
	"fmt"
	"time"
)

// AccountStatus represents lifecycle states for a console account.
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "active"
	AccountStatusSuspended AccountStatus = "suspended"
)

// ParseAccountStatus validates a raw status value.
func ParseAccountStatus(raw string) (AccountStatus, error) {
	switch AccountStatus(raw) {
	case AccountStatusActive, AccountStatusSuspended:
		return AccountStatus(raw), nil
	}
	return "", fmt.Errorf("unknown account status %q", raw)
}

// Account is the domain model for platform user accounts, including
// operators. Deletion is terminal; suspension is reversible.
type Account struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string
	Role         Role
	Status       AccountStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
