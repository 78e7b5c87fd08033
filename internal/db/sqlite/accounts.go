package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/justestif/vofo-music/internal/db"
)

// AccountRepository handles account database operations.
type AccountRepository struct {
	db *sql.DB
}

// Create inserts a new account and returns it with its assigned ID.
// Returns db.ErrDuplicate if the username is already taken.
func (r *AccountRepository) Create(ctx context.Context, username, passwordHash string) (*db.Account, error) {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (username, password_hash, created_at) VALUES (?, ?, ?)`,
		username, passwordHash, now,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting account: %w", mapError(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading account id: %w", err)
	}

	return &db.Account{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
	}, nil
}

// GetByUsername retrieves an account by its exact (case-sensitive) username.
func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*db.Account, error) {
	query := `
		SELECT id, username, password_hash, created_at
		FROM accounts
		WHERE username = ?
	`
	var account db.Account
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&account.ID,
		&account.Username,
		&account.PasswordHash,
		&account.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying account: %w", err)
	}
	return &account, nil
}
