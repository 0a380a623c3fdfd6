package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/loekvdlooilionx/votejam/internal/models"
)

const trackColumns = `seq, id, group_week_id, catalog_id, title, artist,
	COALESCE(album, ''), COALESCE(artwork_url, ''), COALESCE(preview_url, ''),
	added_by, added_at`

func scanTrack(row rowScanner) (*models.Track, error) {
	track := &models.Track{}
	err := row.Scan(
		&track.Seq,
		&track.ID,
		&track.GroupWeekID,
		&track.CatalogID,
		&track.Title,
		&track.Artist,
		&track.Album,
		&track.ArtworkURL,
		&track.PreviewURL,
		&track.AddedBy,
		&track.AddedAt,
	)
	return track, err
}

// InsertTrack inserts a track if its week is active at insert time.
// The week check and the insert are one statement, so a week closed
// concurrently can never receive a track.
func (s *SQLiteStore) InsertTrack(ctx context.Context, track *models.Track) error {
	if track.ID == "" {
		track.ID = uuid.New().String()
	}
	if track.AddedAt == 0 {
		track.AddedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("begin transaction", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO tracks (id, group_week_id, catalog_id, title, artist, album,
		                    artwork_url, preview_url, added_by, added_at)
		SELECT ?, id, ?, ?, ?, ?, ?, ?, ?, ?
		FROM group_weeks
		WHERE id = ? AND is_active = 1
	`,
		track.ID,
		track.CatalogID,
		track.Title,
		track.Artist,
		nullable(track.Album),
		nullable(track.ArtworkURL),
		nullable(track.PreviewURL),
		track.AddedBy,
		track.AddedAt,
		track.GroupWeekID,
	)
	if isUniqueViolation(err) {
		return models.ErrDuplicateTrack
	}
	if err != nil {
		return unavailable("insert track", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return unavailable("read affected rows", err)
	}
	if n == 0 {
		var exists int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM group_weeks WHERE id = ?`, track.GroupWeekID,
		).Scan(&exists); err != nil {
			return unavailable("look up week", err)
		}
		if exists == 0 {
			return models.ErrWeekNotFound
		}
		return models.ErrInactiveWeek
	}

	seq, err := result.LastInsertId()
	if err != nil {
		return unavailable("read track sequence", err)
	}

	if err := tx.Commit(); err != nil {
		return unavailable("commit transaction", err)
	}

	track.Seq = seq
	return nil
}

// GetTrack retrieves a track by ID. Returns models.ErrTrackNotFound when absent.
func (s *SQLiteStore) GetTrack(ctx context.Context, trackID string) (*models.Track, error) {
	track, err := scanTrack(s.db.QueryRowContext(ctx,
		`SELECT `+trackColumns+` FROM tracks WHERE id = ?`, trackID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrTrackNotFound
	}
	if err != nil {
		return nil, unavailable("get track", err)
	}
	return track, nil
}

// ListTracksByWeek returns the week's tracks in submission order.
func (s *SQLiteStore) ListTracksByWeek(ctx context.Context, weekID string) ([]*models.Track, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+trackColumns+` FROM tracks WHERE group_week_id = ? ORDER BY added_at, seq`, weekID)
	if err != nil {
		return nil, unavailable("list tracks", err)
	}
	defer rows.Close()

	var tracks []*models.Track
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan track: %w", err)
		}
		tracks = append(tracks, track)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate tracks", err)
	}
	return tracks, nil
}
