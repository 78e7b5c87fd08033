// Package library implements accounts and per-account liked tracks.
package library

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/justestif/vofo-music/internal/db"
)

// LikeState is the state of an (account, track) pair after a toggle.
type LikeState string

// Like states.
const (
	Liked   LikeState = "liked"
	Unliked LikeState = "unliked"
)

// Identity is the public identity of an authenticated account.
type Identity struct {
	AccountID int64
	Username  string
}

// Like is a liked track with its metadata snapshot.
type Like struct {
	AccountID    int64
	TrackID      string
	Title        string
	Artist       string
	ThumbnailURL string
}

// Service handles registration, authentication and liked tracks.
type Service struct {
	connector  *Connector
	bcryptCost int
}

// Option configures a Service.
type Option func(*Service)

// WithBcryptCost sets the bcrypt cost used for new password hashes.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		s.bcryptCost = cost
	}
}

// NewService creates a Service backed by the connector's store.
func NewService(connector *Connector, opts ...Option) *Service {
	s := &Service{
		connector:  connector,
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a new account.
// Returns ErrInvalidInput for an empty username or password and
// ErrDuplicateUsername if the username is already registered.
func (s *Service) Register(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("%w: username and password required", ErrInvalidInput)
	}

	store, err := s.connector.Store(ctx)
	if err != nil {
		return err
	}

	hash, err := HashPassword(password, s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return fmt.Errorf("%w: password too long", ErrInvalidInput)
	}
	if err != nil {
		return err
	}

	if _, err := store.Accounts().Create(ctx, username, hash); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("creating account: %w", err)
	}
	return nil
}

// Authenticate verifies a username and password.
// An unknown username and a wrong password both return ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*Identity, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password required", ErrInvalidInput)
	}

	store, err := s.connector.Store(ctx)
	if err != nil {
		return nil, err
	}

	account, err := store.Accounts().GetByUsername(ctx, username)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("looking up account: %w", err)
	}

	if !CheckPassword(account.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return &Identity{AccountID: account.ID, Username: account.Username}, nil
}

// ToggleLike flips the liked state of (like.AccountID, like.TrackID).
// When the pair becomes liked, the metadata in like is stored as its snapshot.
func (s *Service) ToggleLike(ctx context.Context, like Like) (LikeState, error) {
	if like.AccountID <= 0 || like.TrackID == "" {
		return "", fmt.Errorf("%w: user id and song id required", ErrInvalidInput)
	}

	store, err := s.connector.Store(ctx)
	if err != nil {
		return "", err
	}

	liked, err := store.Likes().Toggle(ctx, &db.LikedTrack{
		AccountID:    like.AccountID,
		TrackID:      like.TrackID,
		Title:        like.Title,
		Artist:       like.Artist,
		ThumbnailURL: like.ThumbnailURL,
	})
	if errors.Is(err, db.ErrForeignKey) {
		return "", ErrAccountNotFound
	}
	if err != nil {
		return "", fmt.Errorf("toggling like: %w", err)
	}

	if liked {
		return Liked, nil
	}
	return Unliked, nil
}

// ListLikes returns every track liked by the account. The result is never nil.
func (s *Service) ListLikes(ctx context.Context, accountID int64) ([]Like, error) {
	store, err := s.connector.Store(ctx)
	if err != nil {
		return nil, err
	}

	tracks, err := store.Likes().List(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("listing likes: %w", err)
	}

	likes := make([]Like, len(tracks))
	for i, t := range tracks {
		likes[i] = Like{
			AccountID:    t.AccountID,
			TrackID:      t.TrackID,
			Title:        t.Title,
			Artist:       t.Artist,
			ThumbnailURL: t.ThumbnailURL,
		}
	}
	return likes, nil
}

// Check reports whether the underlying store is reachable.
func (s *Service) Check(ctx context.Context) error {
	return s.connector.Check(ctx)
}
