package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justestif/vofo-music/internal/db"
)

func setupTestStorage(t *testing.T) *Storage {
	t.Helper()

	ctx := context.Background()
	s, err := New(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Migrate(ctx))
	return s
}

func TestPathFromURL(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		want   string
		wantOK bool
	}{
		{name: "absolute path", url: "sqlite:///var/data/vofo.db", want: "/var/data/vofo.db", wantOK: true},
		{name: "relative path", url: "sqlite:vofo.db", want: "vofo.db", wantOK: true},
		{name: "memory", url: "sqlite::memory:", want: ":memory:", wantOK: true},
		{name: "empty path", url: "sqlite:", want: "", wantOK: false},
		{name: "postgres url", url: "postgres://localhost/app", want: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PathFromURL(tt.url)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStorage_Migrate_Idempotent(t *testing.T) {
	s := setupTestStorage(t)
	require.NoError(t, s.Migrate(context.Background()))
	require.NoError(t, s.Ping(context.Background()))
}

func TestStorage_CreateAccount(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	alice, err := s.Accounts().Create(ctx, "alice", "hash-a")
	require.NoError(t, err)
	assert.Positive(t, alice.ID)

	bob, err := s.Accounts().Create(ctx, "bob", "hash-b")
	require.NoError(t, err)
	assert.NotEqual(t, alice.ID, bob.ID)

	got, err := s.Accounts().GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)
	assert.Equal(t, "hash-a", got.PasswordHash)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestStorage_CreateAccount_DuplicateUsername(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	_, err := s.Accounts().Create(ctx, "duplicate", "hash1")
	require.NoError(t, err)

	_, err = s.Accounts().Create(ctx, "duplicate", "hash2")
	assert.ErrorIs(t, err, db.ErrDuplicate)

	// Usernames are case-sensitive.
	_, err = s.Accounts().Create(ctx, "Duplicate", "hash3")
	assert.NoError(t, err)
}

func TestStorage_AccountByUsername_NotFound(t *testing.T) {
	s := setupTestStorage(t)

	_, err := s.Accounts().GetByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestStorage_ToggleLike(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	account, err := s.Accounts().Create(ctx, "alice", "hash")
	require.NoError(t, err)

	track := &db.LikedTrack{
		AccountID:    account.ID,
		TrackID:      "vid1",
		Title:        "Song",
		Artist:       "Artist",
		ThumbnailURL: "http://img/1",
	}

	for i, want := range []bool{true, false, true, false} {
		liked, err := s.Likes().Toggle(ctx, track)
		require.NoError(t, err)
		assert.Equal(t, want, liked, "toggle #%d", i+1)
	}

	likes, err := s.Likes().List(ctx, account.ID)
	require.NoError(t, err)
	assert.Empty(t, likes)
	assert.NotNil(t, likes)
}

func TestStorage_ToggleLike_UnknownAccount(t *testing.T) {
	s := setupTestStorage(t)

	_, err := s.Likes().Toggle(context.Background(), &db.LikedTrack{AccountID: 404, TrackID: "vid"})
	assert.ErrorIs(t, err, db.ErrForeignKey)
}

func TestDSN(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{":memory:", ":memory:?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"},
		{"file:vofo.db?mode=rwc", "file:vofo.db?mode=rwc&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, dsn(tt.path))
	}
}

func TestStorage_ForeignKeysOnFreshConnections(t *testing.T) {
	ctx := context.Background()
	s, err := New(ctx, filepath.Join(t.TempDir(), "vofo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(ctx))

	// Every statement below runs on a newly opened connection.
	s.db.SetMaxIdleConns(0)

	for range 3 {
		_, err := s.Likes().Toggle(ctx, &db.LikedTrack{AccountID: 404, TrackID: "vid"})
		assert.ErrorIs(t, err, db.ErrForeignKey)
	}
}

func TestStorage_ListLikes(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	alice, err := s.Accounts().Create(ctx, "alice", "hash")
	require.NoError(t, err)
	bob, err := s.Accounts().Create(ctx, "bob", "hash")
	require.NoError(t, err)

	for _, like := range []*db.LikedTrack{
		{AccountID: alice.ID, TrackID: "t1", Title: "One"},
		{AccountID: alice.ID, TrackID: "t2", Title: "Two"},
		{AccountID: bob.ID, TrackID: "t3", Title: "Three"},
	} {
		_, err := s.Likes().Toggle(ctx, like)
		require.NoError(t, err)
	}

	likes, err := s.Likes().List(ctx, alice.ID)
	require.NoError(t, err)

	ids := make([]string, len(likes))
	for i, l := range likes {
		ids[i] = l.TrackID
		assert.Equal(t, alice.ID, l.AccountID)
		assert.False(t, l.LikedAt.IsZero())
	}
	assert.ElementsMatch(t, []string{"t1", "t2"}, ids)
}

func TestStorage_ToggleLike_Concurrent(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	account, err := s.Accounts().Create(ctx, "racer", "hash")
	require.NoError(t, err)

	const toggles = 10
	var wg sync.WaitGroup
	for range toggles {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Likes().Toggle(ctx, &db.LikedTrack{AccountID: account.ID, TrackID: "race"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Toggles are serialized, so an even number of them ends unliked.
	likes, err := s.Likes().List(ctx, account.ID)
	require.NoError(t, err)
	assert.Empty(t, likes)
}
