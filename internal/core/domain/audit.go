package domain

import "time"

// AuthEventType classifies an entry of the authentication audit trail.
type AuthEventType string

const (
	AuthEventRegistered   AuthEventType = "registered"
	AuthEventLoginSuccess AuthEventType = "login_success"
	AuthEventLoginFailure AuthEventType = "login_failure"
	AuthEventRolesChanged AuthEventType = "roles_changed"
)

// AuthEvent records something that happened to an account.
type AuthEvent struct {
	ID         string        `json:"id"`
	Type       AuthEventType `json:"type"`
	Username   string        `json:"username"`
	Success    bool          `json:"success"`
	Detail     string        `json:"detail,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}
