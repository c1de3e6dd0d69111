package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskhive/task-tracker/internal/core/domain"
	"github.com/taskhive/task-tracker/internal/core/ports"
)

const uniqueViolation = "23505"

const accountColumns = `id, first_name, last_name, username, email, password_hash, is_active, role, avatar, created_at, updated_at`

// AccountRepository implements ports.AccountRepository on pgx. Each call
// acquires a connection from the pool for its own duration; there is no
// shared session across requests.
type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	return r.findBy(ctx, "id", id)
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findBy(ctx, "email", email)
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.findBy(ctx, "username", username)
}

func (r *AccountRepository) findBy(ctx context.Context, column string, value any) (*domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE %s = $1`, accountColumns, column)

	account, err := scanAccount(r.pool.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account by %s: %w", column, err)
	}
	return account, nil
}

func (r *AccountRepository) Insert(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	query := `
		INSERT INTO accounts (first_name, last_name, username, email, password_hash, is_active, role, avatar)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + accountColumns

	created, err := scanAccount(r.pool.QueryRow(ctx, query,
		account.FirstName, account.LastName, account.Username, account.Email,
		account.PasswordHash, account.Active, account.Role, account.Avatar,
	))
	if err != nil {
		return nil, mapUniqueViolation(err, fmt.Errorf("insert account: %w", err))
	}
	return created, nil
}

func (r *AccountRepository) UpdateFields(ctx context.Context, id int64, patch ports.AccountPatch) error {
	sets := []string{"updated_at = now()"}
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.FirstName != nil {
		add("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		add("last_name", *patch.LastName)
	}
	if patch.Username != nil {
		add("username", *patch.Username)
	}
	if patch.Avatar != nil {
		add("avatar", *patch.Avatar)
	}
	if patch.PasswordHash != nil {
		add("password_hash", *patch.PasswordHash)
	}
	if patch.Role != nil {
		add("role", *patch.Role)
	}

	query := fmt.Sprintf(`UPDATE accounts SET %s WHERE id = $1`, strings.Join(sets, ", "))
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return mapUniqueViolation(err, fmt.Errorf("update account: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE accounts SET is_active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("set account active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) List(ctx context.Context, offset, limit int) ([]*domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts ORDER BY id OFFSET $1 LIMIT $2`, accountColumns)

	rows, err := r.pool.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("list accounts: %w", err)
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.ID, &a.FirstName, &a.LastName, &a.Username, &a.Email,
		&a.PasswordHash, &a.Active, &a.Role, &a.Avatar,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// mapUniqueViolation translates a 23505 on the email or username constraint
// into the matching domain error; any other error passes through as wrapped.
// The service pre-checks uniqueness, but two concurrent registrations can
// still race past it — the constraint is the source of truth.
func mapUniqueViolation(err error, wrapped error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		switch pgErr.ConstraintName {
		case "accounts_email_key":
			return domain.ErrDuplicateEmail
		case "accounts_username_key":
			return domain.ErrDuplicateUsername
		}
	}
	return wrapped
}
