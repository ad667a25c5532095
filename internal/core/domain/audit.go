package domain

import "time"

// AuditAction names a recorded change.
type AuditAction string

const (
	AuditWorkmanCreated AuditAction = "workman.created"
	AuditWorkmanUpdated AuditAction = "workman.updated"
	AuditWorkmanDeleted AuditAction = "workman.deleted"
	AuditClockIn        AuditAction = "workman.clock_in"
	AuditClockOut       AuditAction = "workman.clock_out"
	AuditTokenIssued    AuditAction = "user.token_issued"
	AuditTokenRevoked   AuditAction = "user.token_revoked"
	AuditUserCreated    AuditAction = "user.created"
	AuditUserUpdated    AuditAction = "user.updated"
	AuditUserDeleted    AuditAction = "user.deleted"
	AuditLoginFailed    AuditAction = "user.login_failed"
)

// AuditEvent is an append-only record of who did what.
type AuditEvent struct {
	ID         string            `json:"id"`
	Action     AuditAction       `json:"action"`
	Actor      string            `json:"actor"`
	TRN        string            `json:"trn,omitempty"`
	UserID     int64             `json:"user_id,omitempty"`
	Details    map[string]string `json:"details,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}
