package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/sitecrew/timeclock/internal/core/authz"
	"github.com/sitecrew/timeclock/internal/core/domain"
	"github.com/sitecrew/timeclock/internal/core/ports"
)

// WorkmanService implements the workman registry.
type WorkmanService struct {
	workmen ports.WorkmanRepository
	entries ports.TimeEntryRepository
	tx      ports.TxManager
	audit   *auditor
	clock   clockwork.Clock
	logger  zerolog.Logger
}

func NewWorkmanService(
	workmen ports.WorkmanRepository,
	entries ports.TimeEntryRepository,
	tx ports.TxManager,
	audit ports.AuditLog,
	clock clockwork.Clock,
	logger zerolog.Logger,
) *WorkmanService {
	return &WorkmanService{
		workmen: workmen,
		entries: entries,
		tx:      tx,
		audit:   newAuditor(audit, clock, logger),
		clock:   clock,
		logger:  logger,
	}
}

func checkField(field, value string, max int) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", domain.Required(field)
	}
	if utf8.RuneCountInString(value) > max {
		return "", &domain.ValidationError{Field: field, Reason: fmt.Sprintf("must be at most %d characters", max)}
	}
	return value, nil
}

func (s *WorkmanService) Create(ctx context.Context, actor *domain.User, in ports.CreateWorkmanInput) (*domain.Workman, error) {
	if err := authz.Require(actor, authz.ManageWorkmen); err != nil {
		return nil, err
	}

	w := &domain.Workman{}
	var err error
	if w.TRN, err = checkField("trn", in.TRN, domain.MaxTRNLength); err != nil {
		return nil, err
	}
	if w.Name, err = checkField("name", in.Name, domain.MaxFieldLength); err != nil {
		return nil, err
	}
	if w.Company, err = checkField("company", in.Company, domain.MaxFieldLength); err != nil {
		return nil, err
	}
	if w.Location, err = checkField("location", in.Location, domain.MaxFieldLength); err != nil {
		return nil, err
	}
	now := s.clock.Now().UTC()
	w.CreatedAt, w.UpdatedAt = now, now

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.workmen.Create(ctx, w)
	})
	if err != nil {
		return nil, wrap("create workman", err)
	}

	s.audit.record(ctx, domain.AuditEvent{
		Action: domain.AuditWorkmanCreated,
		Actor:  actor.Username,
		TRN:    w.TRN,
		Details: map[string]string{
			"name":     w.Name,
			"company":  w.Company,
			"location": w.Location,
		},
	})
	s.logger.Info().Str("trn", w.TRN).Str("actor", actor.Username).Msg("workman registered")
	return w, nil
}

// Update applies the supplied fields. The TRN never changes.
func (s *WorkmanService) Update(ctx context.Context, actor *domain.User, trn string, patch domain.WorkmanPatch) (*domain.Workman, error) {
	if err := authz.Require(actor, authz.ManageWorkmen); err != nil {
		return nil, err
	}

	changes := map[string]string{}
	apply := func(field string, v *string, dst *string) error {
		if v == nil {
			return nil
		}
		clean, err := checkField(field, *v, domain.MaxFieldLength)
		if err != nil {
			return err
		}
		if clean != *dst {
			changes[field] = clean
		}
		*dst = clean
		return nil
	}

	var updated *domain.Workman
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		w, err := s.workmen.LockByTRN(ctx, trn)
		if err != nil {
			return err
		}
		if err := apply("name", patch.Name, &w.Name); err != nil {
			return err
		}
		if err := apply("company", patch.Company, &w.Company); err != nil {
			return err
		}
		if err := apply("location", patch.Location, &w.Location); err != nil {
			return err
		}
		w.UpdatedAt = s.clock.Now().UTC()
		if err := s.workmen.Update(ctx, w); err != nil {
			return err
		}
		updated = w
		return nil
	})
	if err != nil {
		return nil, wrap("update workman", err)
	}

	s.audit.record(ctx, domain.AuditEvent{
		Action:  domain.AuditWorkmanUpdated,
		Actor:   actor.Username,
		TRN:     trn,
		Details: changes,
	})
	s.logger.Info().Str("trn", trn).Str("actor", actor.Username).Int("changed_fields", len(changes)).Msg("workman updated")
	return updated, nil
}

// Delete removes the workman and its time entries in one transaction.
func (s *WorkmanService) Delete(ctx context.Context, actor *domain.User, trn string) error {
	if err := authz.Require(actor, authz.ManageWorkmen); err != nil {
		return err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.workmen.LockByTRN(ctx, trn); err != nil {
			return err
		}
		if err := s.entries.DeleteByWorkman(ctx, trn); err != nil {
			return err
		}
		return s.workmen.Delete(ctx, trn)
	})
	if err != nil {
		return wrap("delete workman", err)
	}

	s.audit.record(ctx, domain.AuditEvent{Action: domain.AuditWorkmanDeleted, Actor: actor.Username, TRN: trn})
	s.logger.Info().Str("trn", trn).Str("actor", actor.Username).Msg("workman deleted")
	return nil
}

func (s *WorkmanService) Get(ctx context.Context, actor *domain.User, trn string) (*ports.WorkmanDetail, error) {
	if err := authz.Authenticated(actor); err != nil {
		return nil, err
	}
	w, err := s.workmen.FindByTRN(ctx, trn)
	if err != nil {
		return nil, wrap("get workman", err)
	}
	latest, err := s.entries.Latest(ctx, trn)
	if err != nil {
		return nil, wrap("get workman", err)
	}
	open, err := s.entries.FindOpen(ctx, trn)
	if err != nil {
		return nil, wrap("get workman", err)
	}
	closed, err := s.entries.LatestClosed(ctx, trn)
	if err != nil {
		return nil, wrap("get workman", err)
	}

	detail := &ports.WorkmanDetail{
		WorkmanView: ports.WorkmanView{Workman: *w, Status: domain.StatusOf(latest)},
	}
	if open != nil {
		in := open.ClockIn
		detail.LatestClockIn = &in
	}
	if closed != nil {
		detail.LatestClockOut = closed.ClockOut
	}
	return detail, nil
}

func (s *WorkmanService) Search(ctx context.Context, actor *domain.User, query string) ([]ports.WorkmanView, error) {
	if err := authz.Authenticated(actor); err != nil {
		return nil, err
	}
	workmen, err := s.workmen.Search(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, wrap("search workmen", err)
	}
	return s.withStatus(ctx, workmen)
}

func (s *WorkmanService) Locations(ctx context.Context, actor *domain.User) ([]ports.LocationGroup, error) {
	if err := authz.Authenticated(actor); err != nil {
		return nil, err
	}
	workmen, err := s.workmen.Search(ctx, "")
	if err != nil {
		return nil, wrap("locations", err)
	}
	views, err := s.withStatus(ctx, workmen)
	if err != nil {
		return nil, err
	}

	byLocation := map[string][]ports.WorkmanView{}
	for _, v := range views {
		byLocation[v.Location] = append(byLocation[v.Location], v)
	}
	groups := make([]ports.LocationGroup, 0, len(byLocation))
	for loc, members := range byLocation {
		slices.SortStableFunc(members, func(a, b ports.WorkmanView) int {
			return strings.Compare(a.Name, b.Name)
		})
		groups = append(groups, ports.LocationGroup{Location: loc, Workmen: members})
	}
	slices.SortFunc(groups, func(a, b ports.LocationGroup) int {
		return strings.Compare(a.Location, b.Location)
	})
	return groups, nil
}

func (s *WorkmanService) withStatus(ctx context.Context, workmen []domain.Workman) ([]ports.WorkmanView, error) {
	views := make([]ports.WorkmanView, 0, len(workmen))
	if len(workmen) == 0 {
		return views, nil
	}
	trns := make([]string, len(workmen))
	for i, w := range workmen {
		trns[i] = w.TRN
	}
	statuses, err := s.workmen.Statuses(ctx, trns)
	if err != nil {
		return nil, wrap("workman statuses", err)
	}
	for _, w := range workmen {
		status, ok := statuses[w.TRN]
		if !ok {
			status = domain.StatusClockedOut
		}
		views = append(views, ports.WorkmanView{Workman: w, Status: status})
	}
	return views, nil
}
