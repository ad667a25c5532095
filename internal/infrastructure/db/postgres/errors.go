package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/sitecrew/timeclock/internal/core/domain"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Constraint names declared in the migrations.
var uniqueConstraints = map[string]error{
	"time_entries_one_open_per_workman": domain.ErrOpenEntryExists,
	"users_api_token_key":               domain.ErrTokenConflict,
	"users_username_key":                domain.ErrUserExists,
	"users_email_key":                   domain.ErrUserExists,
	"workmen_pkey":                      domain.ErrWorkmanExists,
}

// translate maps driver errors onto domain errors. notFound is returned for
// gorm.ErrRecordNotFound; other errors are wrapped with op.
func translate(op string, err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) && notFound != nil {
		return notFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			if mapped, ok := uniqueConstraints[pgErr.ConstraintName]; ok {
				return mapped
			}
			return fmt.Errorf("%s: %w", op, domain.ErrDuplicateKey)
		case pgForeignKeyViolation:
			if pgErr.ConstraintName == "time_entries_workman_trn_fkey" {
				return domain.ErrWorkmanNotFound
			}
			return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
