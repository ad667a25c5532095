package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/sitecrew/timeclock/internal/core/authz"
	"github.com/sitecrew/timeclock/internal/core/domain"
	"github.com/sitecrew/timeclock/internal/core/ports"
)

// ClockService implements the clock-in / clock-out lifecycle.
type ClockService struct {
	workmen ports.WorkmanRepository
	entries ports.TimeEntryRepository
	tx      ports.TxManager
	audit   *auditor
	clock   clockwork.Clock
	logger  zerolog.Logger
}

func NewClockService(
	workmen ports.WorkmanRepository,
	entries ports.TimeEntryRepository,
	tx ports.TxManager,
	audit ports.AuditLog,
	clock clockwork.Clock,
	logger zerolog.Logger,
) *ClockService {
	return &ClockService{
		workmen: workmen,
		entries: entries,
		tx:      tx,
		audit:   newAuditor(audit, clock, logger),
		clock:   clock,
		logger:  logger,
	}
}

// now is truncated to the precision the store keeps.
func (s *ClockService) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Microsecond)
}

// ClockIn opens a session for trn. The workman row lock serializes
// concurrent calls; the open-entry unique index catches anything that slips
// past it.
func (s *ClockService) ClockIn(ctx context.Context, actor *domain.User, trn, notes string) (*domain.TimeEntry, error) {
	if err := authz.Require(actor, authz.ClockWorkmen); err != nil {
		return nil, err
	}

	var entry *domain.TimeEntry
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.workmen.LockByTRN(ctx, trn); err != nil {
			return err
		}
		open, err := s.entries.FindOpen(ctx, trn)
		if err != nil {
			return err
		}
		if open != nil {
			return domain.ErrAlreadyClockedIn
		}

		e := &domain.TimeEntry{
			WorkmanTRN: trn,
			ClockIn:    s.now(),
			Notes:      strings.TrimSpace(notes),
		}
		if err := s.entries.Create(ctx, e); err != nil {
			if errors.Is(err, domain.ErrOpenEntryExists) {
				return domain.ErrAlreadyClockedIn
			}
			return err
		}
		entry = e
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			s.logger.Info().Str("trn", trn).Str("actor", actor.Username).Msg("clock in rejected: already clocked in")
		}
		return nil, wrap("clock in", err)
	}

	s.audit.record(ctx, domain.AuditEvent{
		Action:  domain.AuditClockIn,
		Actor:   actor.Username,
		TRN:     trn,
		Details: notesDetails(entry.Notes),
	})
	s.logger.Info().Str("trn", trn).Int64("entry_id", entry.ID).Str("actor", actor.Username).Msg("clocked in")
	return entry, nil
}

// ClockOut closes the open session of trn and appends notes to it.
func (s *ClockService) ClockOut(ctx context.Context, actor *domain.User, trn, notes string) (*domain.TimeEntry, error) {
	if err := authz.Require(actor, authz.ClockWorkmen); err != nil {
		return nil, err
	}

	var entry *domain.TimeEntry
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.workmen.LockByTRN(ctx, trn); err != nil {
			return err
		}
		open, err := s.entries.FindOpen(ctx, trn)
		if err != nil {
			return err
		}
		if open == nil {
			return domain.ErrNotClockedIn
		}

		out := s.now()
		merged := domain.AppendNotes(open.Notes, notes)
		if err := s.entries.Close(ctx, open.ID, out, merged); err != nil {
			return err
		}
		open.ClockOut = &out
		open.Notes = merged
		entry = open
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			s.logger.Info().Str("trn", trn).Str("actor", actor.Username).Msg("clock out rejected: not clocked in")
		}
		return nil, wrap("clock out", err)
	}

	hours, _ := entry.DurationHours()
	s.audit.record(ctx, domain.AuditEvent{
		Action:  domain.AuditClockOut,
		Actor:   actor.Username,
		TRN:     trn,
		Details: notesDetails(strings.TrimSpace(notes)),
	})
	s.logger.Info().Str("trn", trn).Int64("entry_id", entry.ID).Float64("hours", hours).Str("actor", actor.Username).Msg("clocked out")
	return entry, nil
}

func notesDetails(notes string) map[string]string {
	if notes == "" {
		return nil
	}
	return map[string]string{"notes": notes}
}

func (s *ClockService) Status(ctx context.Context, actor *domain.User, trn string) (domain.WorkmanStatus, error) {
	if err := authz.Authenticated(actor); err != nil {
		return "", err
	}
	if _, err := s.workmen.FindByTRN(ctx, trn); err != nil {
		return "", wrap("status", err)
	}
	latest, err := s.entries.Latest(ctx, trn)
	if err != nil {
		return "", wrap("status", err)
	}
	return domain.StatusOf(latest), nil
}

// LatestOpenEntry returns nil when the workman is clocked out.
func (s *ClockService) LatestOpenEntry(ctx context.Context, actor *domain.User, trn string) (*domain.TimeEntry, error) {
	if err := authz.Authenticated(actor); err != nil {
		return nil, err
	}
	if _, err := s.workmen.FindByTRN(ctx, trn); err != nil {
		return nil, wrap("latest open entry", err)
	}
	e, err := s.entries.FindOpen(ctx, trn)
	return e, wrap("latest open entry", err)
}

// LatestClosedEntry returns nil when the workman never clocked out.
func (s *ClockService) LatestClosedEntry(ctx context.Context, actor *domain.User, trn string) (*domain.TimeEntry, error) {
	if err := authz.Authenticated(actor); err != nil {
		return nil, err
	}
	if _, err := s.workmen.FindByTRN(ctx, trn); err != nil {
		return nil, wrap("latest closed entry", err)
	}
	e, err := s.entries.LatestClosed(ctx, trn)
	return e, wrap("latest closed entry", err)
}

func (s *ClockService) History(ctx context.Context, actor *domain.User, trn string) (*ports.TimeHistory, error) {
	if err := authz.Authenticated(actor); err != nil {
		return nil, err
	}
	w, err := s.workmen.FindByTRN(ctx, trn)
	if err != nil {
		return nil, wrap("history", err)
	}
	entries, err := s.entries.ListByWorkman(ctx, trn)
	if err != nil {
		return nil, wrap("history", err)
	}
	if entries == nil {
		entries = []domain.TimeEntry{}
	}
	return &ports.TimeHistory{
		Workman: *w,
		Entries: entries,
		Summary: domain.Aggregate(entries),
	}, nil
}
