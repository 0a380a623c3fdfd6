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

const weekColumns = `id, group_id, week_number, year, week_start, week_end, is_active, created_at`

func scanWeek(row rowScanner) (*models.GroupWeek, error) {
	week := &models.GroupWeek{}
	var active int
	err := row.Scan(
		&week.ID,
		&week.GroupID,
		&week.WeekNumber,
		&week.Year,
		&week.WeekStart,
		&week.WeekEnd,
		&active,
		&week.CreatedAt,
	)
	week.IsActive = active == 1
	return week, err
}

// ActivateWeek deactivates the group's active week and inserts week as the
// new active one inside a single IMMEDIATE transaction. The partial unique
// index on (group_id) WHERE is_active = 1 rejects any interleaving that
// slips past the lock; that surfaces as models.ErrConflict.
func (s *SQLiteStore) ActivateWeek(ctx context.Context, week *models.GroupWeek) (string, error) {
	if week.ID == "" {
		week.ID = uuid.New().String()
	}
	if week.CreatedAt == 0 {
		week.CreatedAt = time.Now().Unix()
	}
	week.IsActive = true

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", unavailable("begin transaction", err)
	}
	defer tx.Rollback()

	var previous string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM group_weeks WHERE group_id = ? AND is_active = 1`, week.GroupID,
	).Scan(&previous)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", unavailable("read active week", err)
	}

	if previous != "" {
		if _, err := tx.ExecContext(ctx,
			`UPDATE group_weeks SET is_active = 0 WHERE id = ?`, previous,
		); err != nil {
			return "", unavailable("deactivate week", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO group_weeks (id, group_id, week_number, year, week_start, week_end, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 1, ?)
	`, week.ID, week.GroupID, week.WeekNumber, week.Year, week.WeekStart, week.WeekEnd, week.CreatedAt)
	switch {
	case isUniqueViolation(err):
		return "", models.ErrConflict
	case isForeignKeyViolation(err):
		return "", models.ErrGroupNotFound
	case err != nil:
		return "", unavailable("insert week", err)
	}

	if err := tx.Commit(); err != nil {
		return "", unavailable("commit transaction", err)
	}

	return previous, nil
}

// DeactivateWeek clears the active flag on one of the group's weeks.
func (s *SQLiteStore) DeactivateWeek(ctx context.Context, groupID, weekID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("begin transaction", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE group_weeks SET is_active = 0
		WHERE id = ? AND group_id = ? AND is_active = 1
	`, weekID, groupID)
	if err != nil {
		return unavailable("deactivate week", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return unavailable("read affected rows", err)
	}

	if n == 0 {
		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM group_weeks WHERE id = ? AND group_id = ?`, weekID, groupID,
		).Scan(&exists)
		if err != nil {
			return unavailable("look up week", err)
		}
		if exists == 0 {
			return models.ErrWeekNotFound
		}
		return models.ErrInactiveWeek
	}

	if err := tx.Commit(); err != nil {
		return unavailable("commit transaction", err)
	}
	return nil
}

// GetActiveWeek returns the group's active week, or nil if there is none.
func (s *SQLiteStore) GetActiveWeek(ctx context.Context, groupID string) (*models.GroupWeek, error) {
	week, err := scanWeek(s.db.QueryRowContext(ctx,
		`SELECT `+weekColumns+` FROM group_weeks WHERE group_id = ? AND is_active = 1`, groupID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable("get active week", err)
	}
	return week, nil
}

// GetWeek retrieves a week by ID. Returns models.ErrWeekNotFound when absent.
func (s *SQLiteStore) GetWeek(ctx context.Context, weekID string) (*models.GroupWeek, error) {
	week, err := scanWeek(s.db.QueryRowContext(ctx,
		`SELECT `+weekColumns+` FROM group_weeks WHERE id = ?`, weekID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrWeekNotFound
	}
	if err != nil {
		return nil, unavailable("get week", err)
	}
	return week, nil
}

// ListWeeks returns all weeks of a group, newest first.
func (s *SQLiteStore) ListWeeks(ctx context.Context, groupID string) ([]*models.GroupWeek, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+weekColumns+` FROM group_weeks WHERE group_id = ? ORDER BY created_at DESC, rowid DESC`,
		groupID)
	if err != nil {
		return nil, unavailable("list weeks", err)
	}
	defer rows.Close()

	var weeks []*models.GroupWeek
	for rows.Next() {
		week, err := scanWeek(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan week: %w", err)
		}
		weeks = append(weeks, week)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate weeks", err)
	}
	return weeks, nil
}
