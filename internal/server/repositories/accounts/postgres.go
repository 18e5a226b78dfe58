// Package accounts provides the PostgreSQL-backed account repository.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lifememo/navi/internal/common"
	"github.com/lifememo/navi/internal/dbx"
	"github.com/lifememo/navi/internal/server/models"
)

const uniqueViolation = "23505"

// PostgresRepository implements account storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts account and fills in its ID and CreatedAt. A duplicate email
// yields common.ErrAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	query := `
		INSERT INTO accounts (name, age, email, password_hash, category, trial_expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	var expires sql.NullTime
	if !account.TrialExpiresAt.IsZero() {
		expires = sql.NullTime{Time: account.TrialExpiresAt, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query,
		account.Name, account.Age, account.Email, account.PasswordHash, string(account.Category), expires,
	).Scan(&account.ID, &account.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("email %w", common.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return account, nil
}

const selectAccount = `SELECT id, name, age, email, password_hash, category, trial_expires_at, created_at FROM accounts`

func scanAccount(row *sql.Row) (*models.Account, error) {
	a := &models.Account{}
	var expires sql.NullTime
	err := row.Scan(&a.ID, &a.Name, &a.Age, &a.Email, &a.PasswordHash, &a.Category, &expires, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if expires.Valid {
		a.TrialExpiresAt = expires.Time
	}
	return a, nil
}

// GetByEmail returns the account with the given email or common.ErrNotFound.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return scanAccount(r.db.QueryRowContext(ctx, selectAccount+` WHERE email = $1`, email))
}

// GetByID returns the account with the given id or common.ErrNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	return scanAccount(r.db.QueryRowContext(ctx, selectAccount+` WHERE id = $1`, id))
}

// List returns all accounts, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.AccountSummary, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, email, created_at FROM accounts ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to select accounts: %w", err)
	}
	defer rows.Close()

	result := []*models.AccountSummary{}
	for rows.Next() {
		var item models.AccountSummary
		if err := rows.Scan(&item.ID, &item.Name, &item.Email, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes the account row. Child rows must already be gone.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
