package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AccountRepository handles account database operations.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// Create inserts a new account and returns it with its assigned ID.
// Returns ErrDuplicate if the username is already taken.
func (r *AccountRepository) Create(ctx context.Context, username, passwordHash string) (*Account, error) {
	query := `
		INSERT INTO accounts (username, password_hash, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, username, password_hash, created_at
	`
	var account Account
	err := r.pool.QueryRow(ctx, query, username, passwordHash).Scan(
		&account.ID,
		&account.Username,
		&account.PasswordHash,
		&account.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting account: %w", mapError(err))
	}
	return &account, nil
}

// GetByUsername retrieves an account by its exact (case-sensitive) username.
func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*Account, error) {
	query := `
		SELECT id, username, password_hash, created_at
		FROM accounts
		WHERE username = $1
	`
	var account Account
	err := r.pool.QueryRow(ctx, query, username).Scan(
		&account.ID,
		&account.Username,
		&account.PasswordHash,
		&account.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying account: %w", err)
	}
	return &account, nil
}
