package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/sitecrew/timeclock/internal/core/domain"
	"github.com/sitecrew/timeclock/internal/core/ports"
)

// IdentityService implements login, registration and API token handling.
type IdentityService struct {
	users    ports.UserRepository
	tx       ports.TxManager
	throttle ports.LoginThrottle
	audit    *auditor
	clock    clockwork.Clock
	logger   zerolog.Logger
}

func NewIdentityService(
	users ports.UserRepository,
	tx ports.TxManager,
	throttle ports.LoginThrottle,
	audit ports.AuditLog,
	clock clockwork.Clock,
	logger zerolog.Logger,
) *IdentityService {
	if throttle == nil {
		throttle = NopThrottle{}
	}
	return &IdentityService{
		users:    users,
		tx:       tx,
		throttle: throttle,
		audit:    newAuditor(audit, clock, logger),
		clock:    clock,
		logger:   logger,
	}
}

// Authenticate verifies the password of an active account. Repeated failures
// for one username are throttled when a throttle is configured; throttle
// outages never block a login.
func (s *IdentityService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	blocked, err := s.throttle.Blocked(ctx, username)
	if err != nil {
		s.logger.Warn().Err(err).Str("username", username).Msg("login throttle check failed, allowing attempt")
	} else if blocked {
		return nil, domain.ErrTooManyAttempts
	}

	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		burnPasswordCheck(password)
		s.loginFailed(ctx, username)
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, wrap("authenticate", err)
	}

	if !checkPassword(user.PasswordHash, password) {
		s.loginFailed(ctx, username)
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrAccountDeactivated
	}

	if err := s.throttle.Reset(ctx, username); err != nil {
		s.logger.Warn().Err(err).Str("username", username).Msg("failed to reset login throttle")
	}
	return user, nil
}

func (s *IdentityService) loginFailed(ctx context.Context, username string) {
	if err := s.throttle.RegisterFailure(ctx, username); err != nil {
		s.logger.Warn().Err(err).Str("username", username).Msg("failed to register login failure")
	}
	s.audit.record(ctx, domain.AuditEvent{Action: domain.AuditLoginFailed, Actor: username})
}

func (s *IdentityService) IssueToken(ctx context.Context, user *domain.User) (string, error) {
	if user == nil {
		return "", domain.ErrUnauthenticated
	}
	raw, digest, err := issueToken(ctx, s.users, s.tx, s.logger, user.ID)
	if err != nil {
		return "", wrap("issue token", err)
	}
	user.TokenDigest = digest

	s.audit.record(ctx, domain.AuditEvent{Action: domain.AuditTokenIssued, Actor: user.Username, UserID: user.ID})
	s.logger.Info().Int64("user_id", user.ID).Msg("api token issued")
	return raw, nil
}

func (s *IdentityService) RevokeToken(ctx context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrUnauthenticated
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.users.SetTokenDigest(ctx, user.ID, "")
	})
	if err != nil {
		return wrap("revoke token", err)
	}
	user.TokenDigest = ""

	s.audit.record(ctx, domain.AuditEvent{Action: domain.AuditTokenRevoked, Actor: user.Username, UserID: user.ID})
	s.logger.Info().Int64("user_id", user.ID).Msg("api token revoked")
	return nil
}

func (s *IdentityService) FindByToken(ctx context.Context, token string) (*domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}
	user, err := s.users.FindByTokenDigest(ctx, HashToken(token))
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrUnauthenticated
	}
	if err != nil {
		return nil, wrap("find by token", err)
	}
	if !user.IsActive {
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}

func (s *IdentityService) FindActive(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrUnauthenticated
	}
	if err != nil {
		return nil, wrap("find user", err)
	}
	if !user.IsActive {
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}

// Register creates a self-service employee account.
func (s *IdentityService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	user, err := newAccount(in.Username, in.Email, in.Password, domain.RoleEmployee)
	if err != nil {
		return nil, err
	}
	if err := s.create(ctx, user); err != nil {
		return nil, wrap("register", err)
	}

	s.audit.record(ctx, domain.AuditEvent{
		Action:  domain.AuditUserCreated,
		Actor:   user.Username,
		UserID:  user.ID,
		Details: map[string]string{"role": string(user.Role), "via": "register"},
	})
	s.logger.Info().Str("username", user.Username).Msg("user registered")
	return user, nil
}

func (s *IdentityService) EnsureAdmin(ctx context.Context, username, email, password string) (bool, error) {
	username = strings.TrimSpace(username)
	_, err := s.users.FindByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return false, wrap("ensure admin", err)
	}

	user, err := newAccount(username, email, password, domain.RoleAdmin)
	if err != nil {
		return false, err
	}
	if err := s.create(ctx, user); err != nil {
		return false, wrap("ensure admin", err)
	}
	s.audit.record(ctx, domain.AuditEvent{
		Action:  domain.AuditUserCreated,
		Actor:   "system",
		UserID:  user.ID,
		Details: map[string]string{"role": string(user.Role), "via": "bootstrap"},
	})
	s.logger.Info().Str("username", user.Username).Msg("bootstrap admin created")
	return true, nil
}

func (s *IdentityService) create(ctx context.Context, user *domain.User) error {
	now := s.clock.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.users.Create(ctx, user)
	})
}
