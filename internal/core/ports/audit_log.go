package ports

import (
	"context"

	"github.com/sitecrew/timeclock/internal/core/domain"
)

// AuditFilter narrows an audit listing. Zero values mean no filter.
type AuditFilter struct {
	TRN   string
	Limit int
}

// AuditLog persists the append-only audit trail.
type AuditLog interface {
	Record(ctx context.Context, event *domain.AuditEvent) error
	// List returns the newest events first.
	List(ctx context.Context, filter AuditFilter) ([]domain.AuditEvent, error)
}
