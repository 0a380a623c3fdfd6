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

// InsertVote records a vote if, at insert time, the track belongs to the
// vote's week, the week is active, and the user's spend plus the new coins
// stays within maxCoins. All three checks are part of the INSERT itself.
func (s *SQLiteStore) InsertVote(ctx context.Context, vote *models.Vote, maxCoins int) error {
	if vote.ID == "" {
		vote.ID = uuid.New().String()
	}
	if vote.VotedAt == 0 {
		vote.VotedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("begin transaction", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO votes (id, track_id, user_id, group_week_id, coins_spent, voted_at)
		SELECT ?, t.id, ?, t.group_week_id, ?, ?
		FROM tracks t
		JOIN group_weeks w ON w.id = t.group_week_id
		WHERE t.id = ?
		  AND t.group_week_id = ?
		  AND w.is_active = 1
		  AND (SELECT COALESCE(SUM(coins_spent), 0) FROM votes
		       WHERE user_id = ? AND group_week_id = ?) + ? <= ?
	`,
		vote.ID, vote.UserID, vote.CoinsSpent, vote.VotedAt,
		vote.TrackID, vote.GroupWeekID,
		vote.UserID, vote.GroupWeekID, vote.CoinsSpent, maxCoins,
	)
	if err != nil {
		return unavailable("insert vote", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return unavailable("read affected rows", err)
	}
	if n == 0 {
		return rejectedVote(ctx, tx, vote)
	}

	if err := tx.Commit(); err != nil {
		return unavailable("commit transaction", err)
	}
	return nil
}

// rejectedVote explains why the conditional insert matched no rows.
// It runs inside the same transaction so it sees the state the insert saw.
func rejectedVote(ctx context.Context, tx *sql.Tx, vote *models.Vote) error {
	var weekID string
	err := tx.QueryRowContext(ctx, `SELECT group_week_id FROM tracks WHERE id = ?`, vote.TrackID).Scan(&weekID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrTrackNotFound
	}
	if err != nil {
		return unavailable("look up track", err)
	}
	if weekID != vote.GroupWeekID {
		return models.ErrTrackNotInWeek
	}

	var active int
	err = tx.QueryRowContext(ctx, `SELECT is_active FROM group_weeks WHERE id = ?`, weekID).Scan(&active)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrWeekNotFound
	}
	if err != nil {
		return unavailable("look up week", err)
	}
	if active != 1 {
		return models.ErrInactiveWeek
	}

	return models.ErrBudgetExceeded
}

// CoinsSpent sums the coins a user has spent in a week.
func (s *SQLiteStore) CoinsSpent(ctx context.Context, userID, weekID string) (int, error) {
	var spent int
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(coins_spent), 0) FROM votes
		WHERE user_id = ? AND group_week_id = ?
	`, userID, weekID).Scan(&spent)
	if err != nil {
		return 0, unavailable("sum coins", err)
	}
	return spent, nil
}

// ListVotesByWeek returns all votes of a week in cast order.
func (s *SQLiteStore) ListVotesByWeek(ctx context.Context, weekID string) ([]*models.Vote, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, track_id, user_id, group_week_id, coins_spent, voted_at
		FROM votes
		WHERE group_week_id = ?
		ORDER BY seq
	`, weekID)
	if err != nil {
		return nil, unavailable("list votes", err)
	}
	defer rows.Close()

	var votes []*models.Vote
	for rows.Next() {
		vote := &models.Vote{}
		if err := rows.Scan(
			&vote.ID,
			&vote.TrackID,
			&vote.UserID,
			&vote.GroupWeekID,
			&vote.CoinsSpent,
			&vote.VotedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, vote)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate votes", err)
	}
	return votes, nil
}
