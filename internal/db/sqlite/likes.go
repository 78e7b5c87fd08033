package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/justestif/vofo-music/internal/db"
)

// LikeRepository handles liked track database operations.
type LikeRepository struct {
	db *sql.DB
}

// Toggle flips the liked state of (AccountID, TrackID) and reports whether
// the pair is liked afterwards.
func (r *LikeRepository) Toggle(ctx context.Context, track *db.LikedTrack) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	result, err := tx.ExecContext(ctx,
		`DELETE FROM liked_tracks WHERE account_id = ? AND track_id = ?`,
		track.AccountID, track.TrackID,
	)
	if err != nil {
		return false, fmt.Errorf("deleting like: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading deleted rows: %w", err)
	}

	liked := deleted == 0
	if liked {
		query := `
			INSERT INTO liked_tracks (account_id, track_id, title, artist, thumbnail_url, liked_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (account_id, track_id) DO NOTHING
		`
		_, err := tx.ExecContext(ctx, query,
			track.AccountID,
			track.TrackID,
			track.Title,
			track.Artist,
			track.ThumbnailURL,
			time.Now().UTC(),
		)
		if err != nil {
			return false, fmt.Errorf("inserting like: %w", mapError(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing like toggle: %w", mapError(err))
	}
	return liked, nil
}

// List retrieves all liked tracks for an account, most recent first.
func (r *LikeRepository) List(ctx context.Context, accountID int64) ([]db.LikedTrack, error) {
	query := `
		SELECT id, account_id, track_id, title, artist, thumbnail_url, liked_at
		FROM liked_tracks
		WHERE account_id = ?
		ORDER BY liked_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("querying likes: %w", err)
	}
	defer rows.Close()

	tracks := []db.LikedTrack{}
	for rows.Next() {
		var track db.LikedTrack
		if err := rows.Scan(
			&track.ID,
			&track.AccountID,
			&track.TrackID,
			&track.Title,
			&track.Artist,
			&track.ThumbnailURL,
			&track.LikedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning like: %w", err)
		}
		tracks = append(tracks, track)
	}
	return tracks, rows.Err()
}
