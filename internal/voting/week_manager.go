package voting

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/loekvdlooilionx/votejam/internal/metrics"
	"github.com/loekvdlooilionx/votejam/internal/models"
	"github.com/loekvdlooilionx/votejam/internal/storage"
)

// WeekManager controls the voting week lifecycle of groups.
type WeekManager struct {
	store   storage.WeekStore
	metrics *metrics.Metrics
}

func NewWeekManager(store storage.WeekStore, m *metrics.Metrics) *WeekManager {
	return &WeekManager{store: store, metrics: m}
}

// ActiveWeek returns the group's active week, or nil when none is active.
func (w *WeekManager) ActiveWeek(ctx context.Context, groupID string) (*models.GroupWeek, error) {
	week, err := w.store.GetActiveWeek(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active week: %w", err)
	}
	return week, nil
}

// requireActiveWeek is ActiveWeek with models.ErrNoActiveWeek in place of nil.
func (w *WeekManager) requireActiveWeek(ctx context.Context, groupID string) (*models.GroupWeek, error) {
	week, err := w.ActiveWeek(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if week == nil {
		return nil, models.ErrNoActiveWeek
	}
	return week, nil
}

// StartNewWeek activates a new week for the group, deactivating the
// current one in the same transaction.
func (w *WeekManager) StartNewWeek(ctx context.Context, groupID string, weekNumber, year int, start, end time.Time) (*models.GroupWeek, error) {
	switch {
	case groupID == "":
		return nil, models.InvalidInput("group id is required")
	case weekNumber < 1 || weekNumber > 53:
		return nil, models.InvalidInput("week number %d out of range 1..53", weekNumber)
	case year <= 0:
		return nil, models.InvalidInput("year must be positive")
	case !start.Before(end):
		return nil, models.InvalidInput("week start must be before week end")
	}

	week := &models.GroupWeek{
		GroupID:    groupID,
		WeekNumber: weekNumber,
		Year:       year,
		WeekStart:  start.Unix(),
		WeekEnd:    end.Unix(),
	}

	previous, err := w.store.ActivateWeek(ctx, week)
	if err != nil {
		return nil, fmt.Errorf("failed to activate week: %w", err)
	}

	w.metrics.WeekStarted()
	slog.Info("Voting week started",
		"group_id", groupID,
		"week_id", week.ID,
		"week", weekNumber,
		"year", year,
		"deactivated_week_id", previous,
	)
	return week, nil
}

// CloseWeek ends the active week without starting a new one.
func (w *WeekManager) CloseWeek(ctx context.Context, groupID string) (*models.GroupWeek, error) {
	week, err := w.requireActiveWeek(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if err := w.store.DeactivateWeek(ctx, groupID, week.ID); err != nil {
		return nil, fmt.Errorf("failed to close week: %w", err)
	}
	week.IsActive = false

	w.metrics.WeekClosed()
	slog.Info("Voting week closed", "group_id", groupID, "week_id", week.ID)
	return week, nil
}

// Weeks lists the group's weeks, newest first.
func (w *WeekManager) Weeks(ctx context.Context, groupID string) ([]*models.GroupWeek, error) {
	weeks, err := w.store.ListWeeks(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list weeks: %w", err)
	}
	return weeks, nil
}

// ISOWeekBounds returns the ISO week containing t and its Monday-to-Monday
// bounds in UTC.
func ISOWeekBounds(t time.Time) (week, year int, start, end time.Time) {
	t = t.UTC()
	year, week = t.ISOWeek()
	sinceMonday := (int(t.Weekday()) + 6) % 7
	start = time.Date(t.Year(), t.Month(), t.Day()-sinceMonday, 0, 0, 0, 0, time.UTC)
	return week, year, start, start.AddDate(0, 0, 7)
}
