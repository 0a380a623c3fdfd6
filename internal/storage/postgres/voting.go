package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/loekvdlooilionx/votejam/internal/models"
)

func (s *PostgresStore) ActivateWeek(ctx context.Context, week *models.GroupWeek) (string, error) {
	if week.ID == "" {
		week.ID = uuid.New().String()
	}
	if week.CreatedAt == 0 {
		week.CreatedAt = time.Now().Unix()
	}
	week.IsActive = true

	var previous string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var group groupRow
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", week.GroupID).
			First(&group).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrGroupNotFound
			}
			return err
		}

		var active []weekRow
		if err := tx.Where("group_id = ? AND is_active", week.GroupID).Find(&active).Error; err != nil {
			return err
		}
		for _, w := range active {
			if err := tx.Model(&weekRow{}).Where("id = ?", w.ID).Update("is_active", false).Error; err != nil {
				return err
			}
			previous = w.ID
		}

		row := weekRowFromModel(week)
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return models.ErrConflict
			}
			return err
		}
		return nil
	})
	if err != nil {
		return "", s.fail("activate week", err, "group_id", week.GroupID)
	}
	return previous, nil
}

func (s *PostgresStore) DeactivateWeek(ctx context.Context, groupID, weekID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row weekRow
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND group_id = ?", weekID, groupID).
			First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrWeekNotFound
			}
			return err
		}
		if !row.IsActive {
			return models.ErrInactiveWeek
		}
		return tx.Model(&weekRow{}).Where("id = ?", weekID).Update("is_active", false).Error
	})
	if err != nil {
		return s.fail("deactivate week", err, "week_id", weekID)
	}
	return nil
}

func (s *PostgresStore) GetActiveWeek(ctx context.Context, groupID string) (*models.GroupWeek, error) {
	var rows []weekRow
	err := s.db.WithContext(ctx).Where("group_id = ? AND is_active", groupID).Limit(1).Find(&rows).Error
	if err != nil {
		return nil, s.fail("get active week", err, "group_id", groupID)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toModel(), nil
}

func (s *PostgresStore) GetWeek(ctx context.Context, weekID string) (*models.GroupWeek, error) {
	var row weekRow
	err := s.db.WithContext(ctx).Where("id = ?", weekID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrWeekNotFound
	}
	if err != nil {
		return nil, s.fail("get week", err, "week_id", weekID)
	}
	return row.toModel(), nil
}

func (s *PostgresStore) ListWeeks(ctx context.Context, groupID string) ([]*models.GroupWeek, error) {
	var rows []weekRow
	err := s.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at DESC, seq DESC").
		Find(&rows).Error
	if err != nil {
		return nil, s.fail("list weeks", err, "group_id", groupID)
	}

	weeks := make([]*models.GroupWeek, 0, len(rows))
	for _, row := range rows {
		weeks = append(weeks, row.toModel())
	}
	return weeks, nil
}

// lockActiveWeek takes a share lock on the week row and reports
// models.ErrInactiveWeek when the week is closed.
func lockActiveWeek(tx *gorm.DB, weekID string) error {
	var week weekRow
	err := tx.Clauses(clause.Locking{Strength: "SHARE"}).Where("id = ?", weekID).First(&week).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrWeekNotFound
	}
	if err != nil {
		return err
	}
	if !week.IsActive {
		return models.ErrInactiveWeek
	}
	return nil
}

func (s *PostgresStore) InsertTrack(ctx context.Context, track *models.Track) error {
	if track.ID == "" {
		track.ID = uuid.New().String()
	}
	if track.AddedAt == 0 {
		track.AddedAt = time.Now().Unix()
	}

	var seq int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockActiveWeek(tx, track.GroupWeekID); err != nil {
			return err
		}
		err := tx.Raw(`
			INSERT INTO tracks (id, group_week_id, catalog_id, title, artist, album,
			                    artwork_url, preview_url, added_by, added_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING seq
		`,
			track.ID, track.GroupWeekID, track.CatalogID, track.Title, track.Artist,
			track.Album, track.ArtworkURL, track.PreviewURL, track.AddedBy, track.AddedAt,
		).Scan(&seq).Error
		if isUniqueViolation(err) {
			return models.ErrDuplicateTrack
		}
		return err
	})
	if err != nil {
		return s.fail("insert track", err, "week_id", track.GroupWeekID)
	}
	track.Seq = seq
	return nil
}

func (s *PostgresStore) GetTrack(ctx context.Context, trackID string) (*models.Track, error) {
	var row trackRow
	err := s.db.WithContext(ctx).Where("id = ?", trackID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrTrackNotFound
	}
	if err != nil {
		return nil, s.fail("get track", err, "track_id", trackID)
	}
	return row.toModel(), nil
}

func (s *PostgresStore) ListTracksByWeek(ctx context.Context, weekID string) ([]*models.Track, error) {
	var rows []trackRow
	err := s.db.WithContext(ctx).
		Where("group_week_id = ?", weekID).
		Order("added_at ASC, seq ASC").
		Find(&rows).Error
	if err != nil {
		return nil, s.fail("list tracks", err, "week_id", weekID)
	}

	tracks := make([]*models.Track, 0, len(rows))
	for _, row := range rows {
		tracks = append(tracks, row.toModel())
	}
	return tracks, nil
}

func (s *PostgresStore) InsertVote(ctx context.Context, vote *models.Vote, maxCoins int) error {
	if vote.ID == "" {
		vote.ID = uuid.New().String()
	}
	if vote.VotedAt == 0 {
		vote.VotedAt = time.Now().Unix()
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var track trackRow
		if err := tx.Where("id = ?", vote.TrackID).First(&track).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrTrackNotFound
			}
			return err
		}
		if track.GroupWeekID != vote.GroupWeekID {
			return models.ErrTrackNotInWeek
		}
		if err := lockActiveWeek(tx, vote.GroupWeekID); err != nil {
			return err
		}

		key := vote.GroupWeekID + ":" + vote.UserID
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtextextended(?, 0))", key).Error; err != nil {
			return err
		}

		var spent int
		if err := tx.Raw(
			"SELECT COALESCE(SUM(coins_spent), 0) FROM votes WHERE user_id = ? AND group_week_id = ?",
			vote.UserID, vote.GroupWeekID,
		).Scan(&spent).Error; err != nil {
			return err
		}
		if spent+vote.CoinsSpent > maxCoins {
			return models.ErrBudgetExceeded
		}

		row := voteRow{
			ID:          vote.ID,
			TrackID:     vote.TrackID,
			UserID:      vote.UserID,
			GroupWeekID: vote.GroupWeekID,
			CoinsSpent:  vote.CoinsSpent,
			VotedAt:     vote.VotedAt,
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		return s.fail("insert vote", err, "week_id", vote.GroupWeekID, "user_id", vote.UserID)
	}
	return nil
}

func (s *PostgresStore) CoinsSpent(ctx context.Context, userID, weekID string) (int, error) {
	var spent int
	err := s.db.WithContext(ctx).
		Raw("SELECT COALESCE(SUM(coins_spent), 0) FROM votes WHERE user_id = ? AND group_week_id = ?", userID, weekID).
		Scan(&spent).Error
	if err != nil {
		return 0, s.fail("sum coins", err, "week_id", weekID, "user_id", userID)
	}
	return spent, nil
}

func (s *PostgresStore) ListVotesByWeek(ctx context.Context, weekID string) ([]*models.Vote, error) {
	var rows []voteRow
	err := s.db.WithContext(ctx).
		Where("group_week_id = ?", weekID).
		Order("seq ASC").
		Find(&rows).Error
	if err != nil {
		return nil, s.fail("list votes", err, "week_id", weekID)
	}

	votes := make([]*models.Vote, 0, len(rows))
	for _, row := range rows {
		votes = append(votes, row.toModel())
	}
	return votes, nil
}
