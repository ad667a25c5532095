package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sitecrew/timeclock/internal/core/domain"
	"github.com/sitecrew/timeclock/internal/core/ports"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 80
	maxEmailLength    = 120
	minPasswordLength = 6

	tokenBytes        = 32
	tokenIssueRetries = 3
)

// bcryptCost is lowered by tests.
var bcryptCost = bcrypt.DefaultCost

var validate = validator.New()

var (
	dummyOnce sync.Once
	dummyHash []byte
)

func hashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// burnPasswordCheck spends one bcrypt comparison so an unknown username
// takes as long as a wrong password.
func burnPasswordCheck(plain string) {
	dummyOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcryptCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plain))
}

func validateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	switch {
	case n == 0:
		return domain.Required("username")
	case n < minUsernameLength || n > maxUsernameLength:
		return &domain.ValidationError{Field: "username", Reason: fmt.Sprintf("must be between %d and %d characters", minUsernameLength, maxUsernameLength)}
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return domain.Required("email")
	}
	if utf8.RuneCountInString(email) > maxEmailLength {
		return &domain.ValidationError{Field: "email", Reason: fmt.Sprintf("must be at most %d characters", maxEmailLength)}
	}
	if validate.Var(email, "email") != nil {
		return &domain.ValidationError{Field: "email", Reason: "must be a valid email address"}
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return domain.Required("password")
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return &domain.ValidationError{Field: "password", Reason: fmt.Sprintf("must be at least %d characters", minPasswordLength)}
	}
	return nil
}

// newAccount validates the credentials and builds an active account with a
// hashed password.
func newAccount(username, email, password string, role domain.Role) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}, nil
}

// HashToken returns the stored form of a raw API token.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func newRawToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// issueToken generates a fresh token for userID and stores its digest,
// regenerating on the unlikely digest collision.
func issueToken(ctx context.Context, users ports.UserRepository, tx ports.TxManager, logger zerolog.Logger, userID int64) (raw, digest string, err error) {
	for attempt := 1; attempt <= tokenIssueRetries; attempt++ {
		raw, err = newRawToken()
		if err != nil {
			return "", "", fmt.Errorf("generate token: %w", err)
		}
		digest = HashToken(raw)
		err = tx.WithinTx(ctx, func(ctx context.Context) error {
			return users.SetTokenDigest(ctx, userID, digest)
		})
		if errors.Is(err, domain.ErrTokenConflict) {
			logger.Warn().Int64("user_id", userID).Int("attempt", attempt).Msg("api token collision, regenerating")
			continue
		}
		if err != nil {
			return "", "", err
		}
		return raw, digest, nil
	}
	return "", "", domain.ErrTokenConflict
}
