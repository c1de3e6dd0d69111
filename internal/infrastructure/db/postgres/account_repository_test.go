package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taskhive/task-tracker/internal/core/domain"
)

func TestMapUniqueViolation(t *testing.T) {
	wrapped := errors.New("insert account: underlying")

	cases := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "email constraint",
			err:  &pgconn.PgError{Code: uniqueViolation, ConstraintName: "accounts_email_key"},
			want: domain.ErrDuplicateEmail,
		},
		{
			name: "username constraint",
			err:  &pgconn.PgError{Code: uniqueViolation, ConstraintName: "accounts_username_key"},
			want: domain.ErrDuplicateUsername,
		},
		{
			name: "unknown constraint passes through",
			err:  &pgconn.PgError{Code: uniqueViolation, ConstraintName: "tasks_pkey"},
			want: wrapped,
		},
		{
			name: "other pg error passes through",
			err:  &pgconn.PgError{Code: "23503", ConstraintName: "accounts_email_key"},
			want: wrapped,
		},
		{
			name: "non-pg error passes through",
			err:  errors.New("connection reset"),
			want: wrapped,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := mapUniqueViolation(tc.err, wrapped); !errors.Is(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestMapUniqueViolation_WrappedPgError(t *testing.T) {
	// The pool wraps driver errors; errors.As must still find the PgError.
	inner := &pgconn.PgError{Code: uniqueViolation, ConstraintName: "accounts_email_key"}
	err := errors.Join(errors.New("exec failed"), inner)

	if got := mapUniqueViolation(err, err); !errors.Is(got, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail through a wrapped error, got %v", got)
	}
}
