package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/sitecrew/timeclock/internal/core/authz"
	"github.com/sitecrew/timeclock/internal/core/domain"
	"github.com/sitecrew/timeclock/internal/core/ports"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// UserService implements account administration.
type UserService struct {
	users    ports.UserRepository
	tx       ports.TxManager
	auditLog ports.AuditLog
	audit    *auditor
	clock    clockwork.Clock
	logger   zerolog.Logger
}

func NewUserService(
	users ports.UserRepository,
	tx ports.TxManager,
	audit ports.AuditLog,
	clock clockwork.Clock,
	logger zerolog.Logger,
) *UserService {
	a := newAuditor(audit, clock, logger)
	return &UserService{
		users:    users,
		tx:       tx,
		auditLog: a.log,
		audit:    a,
		clock:    clock,
		logger:   logger,
	}
}

func (s *UserService) List(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	if err := authz.Require(actor, authz.Admin); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	return users, wrap("list users", err)
}

func (s *UserService) Get(ctx context.Context, actor *domain.User, id int64) (*domain.User, error) {
	if err := authz.Require(actor, authz.Admin); err != nil {
		return nil, err
	}
	u, err := s.users.FindByID(ctx, id)
	return u, wrap("get user", err)
}

func (s *UserService) Create(ctx context.Context, actor *domain.User, in ports.CreateUserInput) (*domain.User, error) {
	if err := authz.Require(actor, authz.Admin); err != nil {
		return nil, err
	}
	role := domain.RoleEmployee
	if in.Role != "" {
		r, err := domain.ParseRole(in.Role)
		if err != nil {
			return nil, err
		}
		role = r
	}
	user, err := newAccount(in.Username, in.Email, in.Password, role)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.users.Create(ctx, user)
	})
	if err != nil {
		return nil, wrap("create user", err)
	}

	s.audit.record(ctx, domain.AuditEvent{
		Action:  domain.AuditUserCreated,
		Actor:   actor.Username,
		UserID:  user.ID,
		Details: map[string]string{"role": string(role), "username": user.Username},
	})
	s.logger.Info().Int64("user_id", user.ID).Str("role", string(role)).Str("actor", actor.Username).Msg("user created")
	return user, nil
}

func (s *UserService) Update(ctx context.Context, actor *domain.User, id int64, patch domain.UserPatch) (*domain.User, error) {
	if err := authz.Require(actor, authz.Admin); err != nil {
		return nil, err
	}

	changes := map[string]string{}
	var updated *domain.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		u, err := s.users.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if patch.Username != nil {
			name := strings.TrimSpace(*patch.Username)
			if err := validateUsername(name); err != nil {
				return err
			}
			if name != u.Username {
				changes["username"] = name
			}
			u.Username = name
		}
		if patch.Email != nil {
			email := strings.TrimSpace(*patch.Email)
			if err := validateEmail(email); err != nil {
				return err
			}
			if email != u.Email {
				changes["email"] = email
			}
			u.Email = email
		}
		if patch.Role != nil {
			if _, err := domain.ParseRole(string(*patch.Role)); err != nil {
				return err
			}
			if *patch.Role != u.Role {
				changes["role"] = string(*patch.Role)
			}
			u.Role = *patch.Role
		}
		if patch.IsActive != nil {
			if *patch.IsActive != u.IsActive {
				changes["is_active"] = strconv.FormatBool(*patch.IsActive)
			}
			u.IsActive = *patch.IsActive
		}
		if patch.Password != nil && *patch.Password != "" {
			if err := validatePassword(*patch.Password); err != nil {
				return err
			}
			hash, err := hashPassword(*patch.Password)
			if err != nil {
				return err
			}
			u.PasswordHash = hash
			changes["password"] = "changed"
		}
		u.UpdatedAt = s.clock.Now().UTC()
		if err := s.users.Update(ctx, u); err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, wrap("update user", err)
	}

	s.audit.record(ctx, domain.AuditEvent{
		Action:  domain.AuditUserUpdated,
		Actor:   actor.Username,
		UserID:  id,
		Details: changes,
	})
	s.logger.Info().Int64("user_id", id).Str("actor", actor.Username).Msg("user updated")
	return updated, nil
}

// Delete removes an account other than the actor's own.
func (s *UserService) Delete(ctx context.Context, actor *domain.User, id int64) error {
	if err := authz.Require(actor, authz.Admin); err != nil {
		return err
	}
	if id == actor.ID {
		return domain.ErrCannotDeleteSelf
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.users.Delete(ctx, id)
	})
	if err != nil {
		return wrap("delete user", err)
	}

	s.audit.record(ctx, domain.AuditEvent{Action: domain.AuditUserDeleted, Actor: actor.Username, UserID: id})
	s.logger.Info().Int64("user_id", id).Str("actor", actor.Username).Msg("user deleted")
	return nil
}

// IssueTokenFor replaces the token of user id and returns the raw value.
func (s *UserService) IssueTokenFor(ctx context.Context, actor *domain.User, id int64) (string, error) {
	if err := authz.Require(actor, authz.Admin); err != nil {
		return "", err
	}
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return "", wrap("issue token", err)
	}
	raw, _, err := issueToken(ctx, s.users, s.tx, s.logger, id)
	if err != nil {
		return "", wrap("issue token", err)
	}

	s.audit.record(ctx, domain.AuditEvent{Action: domain.AuditTokenIssued, Actor: actor.Username, UserID: id})
	s.logger.Info().Int64("user_id", id).Str("actor", actor.Username).Msg("api token issued")
	return raw, nil
}

// RevokeTokenFor fails with domain.ErrNoActiveToken when none is issued.
func (s *UserService) RevokeTokenFor(ctx context.Context, actor *domain.User, id int64) error {
	if err := authz.Require(actor, authz.Admin); err != nil {
		return err
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return wrap("revoke token", err)
	}
	if !u.HasToken() {
		return domain.ErrNoActiveToken
	}
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.users.SetTokenDigest(ctx, id, "")
	})
	if err != nil {
		return wrap("revoke token", err)
	}

	s.audit.record(ctx, domain.AuditEvent{Action: domain.AuditTokenRevoked, Actor: actor.Username, UserID: id})
	s.logger.Info().Int64("user_id", id).Str("actor", actor.Username).Msg("api token revoked")
	return nil
}

func (s *UserService) Audit(ctx context.Context, actor *domain.User, filter ports.AuditFilter) ([]domain.AuditEvent, error) {
	if err := authz.Require(actor, authz.Admin); err != nil {
		return nil, err
	}
	switch {
	case filter.Limit <= 0:
		filter.Limit = defaultAuditLimit
	case filter.Limit > maxAuditLimit:
		filter.Limit = maxAuditLimit
	}
	filter.TRN = strings.TrimSpace(filter.TRN)
	events, err := s.auditLog.List(ctx, filter)
	if err != nil {
		return nil, wrap("list audit events", err)
	}
	if events == nil {
		events = []domain.AuditEvent{}
	}
	return events, nil
}
