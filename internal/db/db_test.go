package db

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB connects to the database named by TEST_DATABASE_URL.
// Tests are skipped when it is unset.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	database, err := New(ctx, databaseURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, database.Migrate(ctx))
	return database
}

func createTestAccount(t *testing.T, database *DB) *Account {
	t.Helper()
	account, err := database.Accounts().Create(context.Background(), "user-"+uuid.NewString(), "hash")
	require.NoError(t, err)
	return account
}

func TestDB_CreateAccount_Duplicate(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	username := "dup-" + uuid.NewString()
	first, err := database.Accounts().Create(ctx, username, "hash1")
	require.NoError(t, err)
	assert.Positive(t, first.ID)

	_, err = database.Accounts().Create(ctx, username, "hash2")
	assert.ErrorIs(t, err, ErrDuplicate)

	got, err := database.Accounts().GetByUsername(ctx, username)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "hash1", got.PasswordHash)
}

func TestDB_AccountByUsername_NotFound(t *testing.T) {
	database := setupTestDB(t)

	_, err := database.Accounts().GetByUsername(context.Background(), "missing-"+uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDB_ToggleLike(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	account := createTestAccount(t, database)

	track := &LikedTrack{AccountID: account.ID, TrackID: "vid1", Title: "Song", Artist: "Artist", ThumbnailURL: "http://img/1"}

	for i, want := range []bool{true, false, true} {
		liked, err := database.Likes().Toggle(ctx, track)
		require.NoError(t, err)
		assert.Equal(t, want, liked, "toggle #%d", i+1)
	}

	likes, err := database.Likes().List(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.Equal(t, "vid1", likes[0].TrackID)
	assert.Equal(t, "http://img/1", likes[0].ThumbnailURL)
}

func TestDB_ToggleLike_UnknownAccount(t *testing.T) {
	database := setupTestDB(t)

	_, err := database.Likes().Toggle(context.Background(), &LikedTrack{AccountID: -1, TrackID: "vid"})
	assert.True(t, errors.Is(err, ErrForeignKey), "got %v", err)
}

func TestDB_ToggleLike_Concurrent(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	account := createTestAccount(t, database)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := database.Likes().Toggle(ctx, &LikedTrack{AccountID: account.ID, TrackID: "race"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	likes, err := database.Likes().List(ctx, account.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(likes), 1)
}
