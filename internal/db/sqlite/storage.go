// Package sqlite implements the account and likes store on SQLite.
// It mirrors the PostgreSQL store in package db and is used for local
// development and tests.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/pressly/goose/v3"
	sqlitedriver "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/justestif/vofo-music/internal/db"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// URLScheme prefixes database URLs that select this store.
const URLScheme = "sqlite:"

// Storage is a SQLite-backed store.
type Storage struct {
	db *sql.DB
}

// PathFromURL extracts the database path from a sqlite: URL.
// "sqlite:///var/data/vofo.db" yields "/var/data/vofo.db" and
// "sqlite::memory:" yields ":memory:". The second result reports whether the
// URL uses the sqlite scheme at all.
func PathFromURL(databaseURL string) (string, bool) {
	if !strings.HasPrefix(databaseURL, URLScheme) {
		return "", false
	}
	path := strings.TrimPrefix(databaseURL, URLScheme)
	if strings.HasPrefix(path, "//") {
		path = strings.TrimPrefix(path, "//")
	}
	return path, path != ""
}

// pragmas are applied by the driver to every new connection.
var pragmas = []string{
	"journal_mode(WAL)",
	"foreign_keys(1)",
	"busy_timeout(5000)",
}

// dsn appends the connection pragmas to path.
func dsn(path string) string {
	params := make([]string, len(pragmas))
	for i, p := range pragmas {
		params[i] = "_pragma=" + p
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join(params, "&")
}

// New opens the SQLite database at path.
// Use ":memory:" for an in-memory database.
func New(ctx context.Context, path string) (*Storage, error) {
	sqlDB, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// One writer at a time; an in-memory database also lives on a single connection.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &Storage{db: sqlDB}, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("pinging database: %w", err)
	}
	return nil
}

// Accounts returns the account repository.
func (s *Storage) Accounts() db.AccountStore {
	return &AccountRepository{db: s.db}
}

// Likes returns the liked track repository.
func (s *Storage) Likes() db.LikeStore {
	return &LikeRepository{db: s.db}
}

// Migrate applies all pending schema migrations.
func (s *Storage) Migrate(ctx context.Context) error {
	migrations, err := fs.Sub(migrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("opening migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, s.db, migrations)
	if err != nil {
		return fmt.Errorf("creating migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

// mapError translates constraint violations into the db sentinel errors.
func mapError(err error) error {
	var sqliteErr *sqlitedriver.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return fmt.Errorf("%w: %s", db.ErrDuplicate, sqliteErr.Error())
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return fmt.Errorf("%w: %s", db.ErrForeignKey, sqliteErr.Error())
	}
	return err
}
