package domain

import (
	"context"
	"time"
)

// Activity action tags recorded in the audit trail.
const (
	ActionUserSignup       = "user.signup"
	ActionUserLogin        = "user.login"
	ActionEventCreate      = "event.create"
	ActionEventUpdate      = "event.update"
	ActionEventDelete      = "event.delete"
	ActionEventStatus      = "event.status"
	ActionEventRegister    = "event.register"
	ActionEventCancel      = "event.cancel_registration"
	ActionEventAttendance  = "event.attendance"
	ActionCertificateIssue = "certificate.issue"
)

// ActivityEntry is one append-only audit record of a user action.
// swagger:model ActivityEntry
type ActivityEntry struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`

	// Display fields joined in for the dashboard feed.
	Username string `json:"username,omitempty"`
	Name     string `json:"name,omitempty"`
}

// ActivityRepository defines storage for the append-only activity log.
type ActivityRepository interface {
	Insert(ctx context.Context, userID, action, description string) error
	ListRecent(ctx context.Context, limit int) ([]*ActivityEntry, error)
}

// ActivityLogger records user actions. Implementations must never fail the
// calling operation; logging errors are reported out-of-band.
type ActivityLogger interface {
	LogActivity(ctx context.Context, userID, action, description string)
}
