package voting

import (
	"context"
	"errors"
	"fmt"

	"github.com/loekvdlooilionx/votejam/internal/metrics"
	"github.com/loekvdlooilionx/votejam/internal/models"
	"github.com/loekvdlooilionx/votejam/internal/storage"
)

// VoteLedger records coin allocations. Votes cannot be retracted.
type VoteLedger struct {
	store    storage.VoteStore
	maxCoins int
	metrics  *metrics.Metrics
}

func NewVoteLedger(store storage.VoteStore, m *metrics.Metrics) *VoteLedger {
	return &VoteLedger{store: store, maxCoins: models.MaxCoins, metrics: m}
}

// CastVote spends coins on a track of the given week. The membership of
// the track in the week, the week being active and the budget are all
// checked by the store in the same transaction as the insert.
func (l *VoteLedger) CastVote(ctx context.Context, weekID, trackID, userID string, coins int) (*models.Vote, error) {
	if coins < 1 {
		l.metrics.VoteRejected(metrics.ReasonInvalid)
		return nil, models.InvalidInput("coins must be at least 1, got %d", coins)
	}
	if weekID == "" || trackID == "" || userID == "" {
		l.metrics.VoteRejected(metrics.ReasonInvalid)
		return nil, models.InvalidInput("week, track and user are required")
	}

	vote := &models.Vote{
		TrackID:     trackID,
		UserID:      userID,
		GroupWeekID: weekID,
		CoinsSpent:  coins,
	}
	if err := l.store.InsertVote(ctx, vote, l.maxCoins); err != nil {
		l.metrics.VoteRejected(rejectionReason(err))
		return nil, fmt.Errorf("failed to cast vote: %w", err)
	}

	l.metrics.VoteCast()
	return vote, nil
}

// CurrentSpent returns the coins the user has spent in the week.
func (l *VoteLedger) CurrentSpent(ctx context.Context, userID, weekID string) (int, error) {
	spent, err := l.store.CoinsSpent(ctx, userID, weekID)
	if err != nil {
		return 0, fmt.Errorf("failed to read coins spent: %w", err)
	}
	return spent, nil
}

// Budget returns the user's spent and remaining coins in the week.
func (l *VoteLedger) Budget(ctx context.Context, userID, weekID string) (models.Budget, error) {
	spent, err := l.CurrentSpent(ctx, userID, weekID)
	if err != nil {
		return models.Budget{}, err
	}
	return models.NewBudget(spent), nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, models.ErrBudgetExceeded):
		return metrics.ReasonBudget
	case errors.Is(err, models.ErrTrackNotInWeek):
		return metrics.ReasonTrackNotIn
	case errors.Is(err, models.ErrInactiveWeek):
		return metrics.ReasonInactive
	case errors.Is(err, models.ErrTrackNotFound), errors.Is(err, models.ErrWeekNotFound):
		return metrics.ReasonTrackAbsent
	default:
		return metrics.ReasonStore
	}
}
