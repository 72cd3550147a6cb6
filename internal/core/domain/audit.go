package domain

import "time"

// AuditOutcome records whether an audited action went through.
type AuditOutcome string

const (
	AuditAllowed AuditOutcome = "allowed"
	AuditDenied  AuditOutcome = "denied"
)

// AuditEvent is an append-only record of an authorization decision on a
// mutating operation.
type AuditEvent struct {
	ActorID    string       `json:"actor_id"`
	ActorRole  Role         `json:"actor_role"`
	Action     string       `json:"action"`
	Resource   string       `json:"resource"`
	ResourceID string       `json:"resource_id,omitempty"`
	Outcome    AuditOutcome `json:"outcome"`
	Reason     string       `json:"reason,omitempty"`
	At         time.Time    `json:"at"`
}
