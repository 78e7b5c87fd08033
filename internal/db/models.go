package db

import (
	"context"
	"time"
)

// Account represents a registered user.
type Account struct {
	ID           int64
	Username     string
	PasswordHash string // bcrypt, never the plaintext
	CreatedAt    time.Time
}

// LikedTrack represents a catalog track an account has liked.
// Title, Artist and ThumbnailURL are a snapshot taken when the like was recorded.
type LikedTrack struct {
	ID           int64
	AccountID    int64
	TrackID      string
	Title        string
	Artist       string
	ThumbnailURL string
	LikedAt      time.Time
}

// AccountStore persists accounts. Both the PostgreSQL and SQLite stores
// return one from Accounts.
type AccountStore interface {
	Create(ctx context.Context, username, passwordHash string) (*Account, error)
	GetByUsername(ctx context.Context, username string) (*Account, error)
}

// LikeStore persists liked tracks.
type LikeStore interface {
	Toggle(ctx context.Context, track *LikedTrack) (bool, error)
	List(ctx context.Context, accountID int64) ([]LikedTrack, error)
}
