package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/sitecrew/timeclock/internal/core/domain"
)

func TestTranslate(t *testing.T) {
	unique := func(constraint string) error {
		return fmt.Errorf("exec: %w", &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: constraint})
	}
	tests := []struct {
		name     string
		err      error
		notFound error
		want     error
	}{
		{"nil", nil, nil, nil},
		{"record not found", gorm.ErrRecordNotFound, domain.ErrWorkmanNotFound, domain.ErrWorkmanNotFound},
		{"open entry index", unique("time_entries_one_open_per_workman"), nil, domain.ErrOpenEntryExists},
		{"token collision", unique("users_api_token_key"), nil, domain.ErrTokenConflict},
		{"username taken", unique("users_username_key"), nil, domain.ErrUserExists},
		{"email taken", unique("users_email_key"), nil, domain.ErrUserExists},
		{"trn taken", unique("workmen_pkey"), nil, domain.ErrWorkmanExists},
		{"unknown unique", unique("something_else"), nil, domain.ErrDuplicateKey},
		{"workman fk", &pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: "time_entries_workman_trn_fkey"}, nil, domain.ErrWorkmanNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translate("op", tt.err, tt.notFound)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("expected nil, got %v", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestTranslate_WrapsUnknownErrors(t *testing.T) {
	cause := errors.New("connection reset")
	got := translate("find workman", cause, domain.ErrWorkmanNotFound)
	if !errors.Is(got, cause) || got.Error() != "find workman: connection reset" {
		t.Fatalf("unexpected %v", got)
	}
	if errors.Is(got, domain.ErrNotFound) {
		t.Fatalf("infrastructure errors must not look like domain errors")
	}
}
