package service

import (
	"context"

	"github.com/sitecrew/timeclock/internal/core/domain"
	"github.com/sitecrew/timeclock/internal/core/ports"
)

// NopAuditLog discards audit events. Used when no audit store is configured.
type NopAuditLog struct{}

func (NopAuditLog) Record(context.Context, *domain.AuditEvent) error { return nil }

func (NopAuditLog) List(context.Context, ports.AuditFilter) ([]domain.AuditEvent, error) {
	return nil, nil
}

// NopThrottle never blocks a login.
type NopThrottle struct{}

func (NopThrottle) Blocked(context.Context, string) (bool, error) { return false, nil }
func (NopThrottle) RegisterFailure(context.Context, string) error { return nil }
func (NopThrottle) Reset(context.Context, string) error           { return nil }
