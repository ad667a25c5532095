package service

import (
	"context"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"

	"github.com/sitecrew/timeclock/internal/core/domain"
	"github.com/sitecrew/timeclock/internal/core/ports"
)

// auditor stamps and stores audit events. A failed write is logged and
// never fails the calling operation.
type auditor struct {
	log    ports.AuditLog
	clock  clockwork.Clock
	logger zerolog.Logger
}

func newAuditor(log ports.AuditLog, clock clockwork.Clock, logger zerolog.Logger) *auditor {
	if log == nil {
		log = NopAuditLog{}
	}
	return &auditor{log: log, clock: clock, logger: logger}
}

func (a *auditor) record(ctx context.Context, ev domain.AuditEvent) {
	ev.ID = ksuid.New().String()
	ev.OccurredAt = a.clock.Now().UTC()
	if err := a.log.Record(ctx, &ev); err != nil {
		a.logger.Warn().Err(err).Str("action", string(ev.Action)).Str("trn", ev.TRN).Msg("failed to record audit event")
	}
}
