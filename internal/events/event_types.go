package events

import (
	"time"

	"github.com/spec-kit/medreview-console/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventReviewStatusChanged  EventType = "review_status_changed"
	EventReviewDeleted        EventType = "review_deleted"
	EventAccountCreated       EventType = "account_created"
	EventAccountStatusChanged EventType = "account_status_changed"
	EventAccountRoleChanged   EventType = "account_role_changed"
	EventAccountDeleted       EventType = "account_deleted"
	EventDoctorChanged        EventType = "doctor_changed"
)

// Actor identifies the operator behind an event.
type Actor struct {
	AccountID string      `json:"account_id"`
	Role      domain.Role `json:"role"`
}

// Event represents a domain event emitted by services. Subscribers use it
// both for doctor aggregate recomputation and as the "this logical dataset
// changed" signal the query cache layer observes.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ReviewStatusChangedPayload payload.
type ReviewStatusChangedPayload struct {
	DoctorID  string              `json:"doctor_id"`
	OldStatus domain.ReviewStatus `json:"old_status"`
	NewStatus domain.ReviewStatus `json:"new_status"`
}

// ReviewDeletedPayload payload.
type ReviewDeletedPayload struct {
	DoctorID   string              `json:"doctor_id"`
	LastStatus domain.ReviewStatus `json:"last_status"`
}

// AccountStatusChangedPayload payload.
type AccountStatusChangedPayload struct {
	OldStatus domain.AccountStatus `json:"old_status"`
	NewStatus domain.AccountStatus `json:"new_status"`
}

// AccountRoleChangedPayload payload.
type AccountRoleChangedPayload struct {
	OldRole domain.Role `json:"old_role"`
	NewRole domain.Role `json:"new_role"`
}

// AccountCreatedPayload payload.
type AccountCreatedPayload struct {
	Role domain.Role `json:"role"`
}

// DoctorChangedPayload payload.
type DoctorChangedPayload struct {
	Deleted bool `json:"deleted"`
}
