package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"crew-match/internal/database"
	"crew-match/internal/domain/account"
)

type PostgresAccountRepository struct {
	db database.DB
}

func NewPostgresAccountRepository(db database.DB) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

func (r *PostgresAccountRepository) Create(ctx context.Context, a account.Account) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO accounts (id, email, password_hash, role) VALUES ($1,$2,$3,$4)`,
		a.ID, a.Email, a.PasswordHash, a.Role,
	)
	return err
}

func (r *PostgresAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (account.Account, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, email, password_hash, COALESCE(role,'candidate'), created_at FROM accounts WHERE id = $1`, id)
	return scanAccount(row)
}

func (r *PostgresAccountRepository) GetByEmail(ctx context.Context, email string) (account.Account, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, email, password_hash, COALESCE(role,'candidate'), created_at FROM accounts WHERE email = $1`, email)
	return scanAccount(row)
}

func (r *PostgresAccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE email = $1)`, email)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func scanAccount(row rowScanner) (account.Account, error) {
	var a account.Account
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return account.Account{}, account.ErrNotFound
		}
		return account.Account{}, err
	}
	return a, nil
}
