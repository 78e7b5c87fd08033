package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LikeRepository handles liked track database operations.
type LikeRepository struct {
	pool *pgxpool.Pool
}

// Toggle flips the liked state of (AccountID, TrackID).
// An existing row is deleted and false is returned; otherwise the snapshot is
// inserted and true is returned. Both steps run in one transaction and rely on
// the (account_id, track_id) unique constraint, so concurrent toggles can never
// leave two rows for the same pair.
func (r *LikeRepository) Toggle(ctx context.Context, track *LikedTrack) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	result, err := tx.Exec(ctx,
		`DELETE FROM liked_tracks WHERE account_id = $1 AND track_id = $2`,
		track.AccountID, track.TrackID,
	)
	if err != nil {
		return false, fmt.Errorf("deleting like: %w", err)
	}

	liked := result.RowsAffected() == 0
	if liked {
		query := `
			INSERT INTO liked_tracks (account_id, track_id, title, artist, thumbnail_url, liked_at)
			VALUES ($1, $2, $3, $4, $5, NOW())
			ON CONFLICT (account_id, track_id) DO NOTHING
		`
		_, err := tx.Exec(ctx, query,
			track.AccountID,
			track.TrackID,
			track.Title,
			track.Artist,
			track.ThumbnailURL,
		)
		if err != nil {
			return false, fmt.Errorf("inserting like: %w", mapError(err))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("committing like toggle: %w", mapError(err))
	}
	return liked, nil
}

// List retrieves all liked tracks for an account, most recent first.
func (r *LikeRepository) List(ctx context.Context, accountID int64) ([]LikedTrack, error) {
	query := `
		SELECT id, account_id, track_id, title, artist, thumbnail_url, liked_at
		FROM liked_tracks
		WHERE account_id = $1
		ORDER BY liked_at DESC, id DESC
	`
	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("querying likes: %w", err)
	}
	defer rows.Close()

	tracks := []LikedTrack{}
	for rows.Next() {
		var track LikedTrack
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
