package voting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/loekvdlooilionx/votejam/internal/metrics"
	"github.com/loekvdlooilionx/votejam/internal/models"
	"github.com/loekvdlooilionx/votejam/internal/storage"
)

// Membership resolves a user's role in a group.
// It returns models.ErrNotMember when the user does not belong to the group.
type Membership interface {
	GetGroupMember(ctx context.Context, groupID, userID string) (*models.GroupMember, error)
}

// Catalog searches the external track catalog.
type Catalog interface {
	Search(ctx context.Context, query string) ([]models.CatalogTrack, error)
}

// SessionConfig tunes session behavior.
type SessionConfig struct {
	// AutoVote spends one coin on a freshly submitted track on behalf of
	// its submitter, when the submitter has coins left.
	AutoVote bool

	// Metrics may be nil.
	Metrics *metrics.Metrics
}

// Session answers what a user can do in a group and performs it.
type Session struct {
	weeks   *WeekManager
	tracks  *TrackRegistry
	ledger  *VoteLedger
	ranking *RankingEngine
	members Membership
	catalog Catalog
	cfg     SessionConfig
}

// NewSession wires the voting components onto one store.
func NewSession(store storage.Store, catalog Catalog, cfg SessionConfig) *Session {
	return &Session{
		weeks:   NewWeekManager(store, cfg.Metrics),
		tracks:  NewTrackRegistry(store, cfg.Metrics),
		ledger:  NewVoteLedger(store, cfg.Metrics),
		ranking: NewRankingEngine(store, store, nil),
		members: store,
		catalog: catalog,
		cfg:     cfg,
	}
}

// AddTrackResult reports a submission and what happened with the auto-vote.
type AddTrackResult struct {
	Track     *models.Track
	AutoVoted bool
	Budget    models.Budget
}

// VoteResult is a cast vote with the voter's budget afterwards.
type VoteResult struct {
	Vote   *models.Vote
	Budget models.Budget
}

// StandingsResult is the ranked view of a group's active week.
// Week is nil when the group has no active week.
type StandingsResult struct {
	Week      *models.GroupWeek
	Standings []models.Standing
	Budget    models.Budget
}

func (s *Session) requireMember(ctx context.Context, groupID, userID string) (*models.GroupMember, error) {
	member, err := s.members.GetGroupMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	return member, nil
}

func (s *Session) requireAdmin(ctx context.Context, groupID, userID string) error {
	member, err := s.requireMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !member.IsAdmin() {
		return models.ErrNotAdmin
	}
	return nil
}

// AddTrack submits a catalog track into the group's active week.
//
// With auto-vote on, one coin is then cast on the track for the submitter.
// Running out of coins is not an error; any other auto-vote failure is
// returned together with the created track.
func (s *Session) AddTrack(ctx context.Context, groupID, userID string, ct models.CatalogTrack) (*AddTrackResult, error) {
	if _, err := s.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	week, err := s.weeks.requireActiveWeek(ctx, groupID)
	if err != nil {
		return nil, err
	}

	track, err := s.tracks.Submit(ctx, week, ct, userID)
	if err != nil {
		return nil, err
	}
	slog.Info("Track submitted",
		"group_id", groupID,
		"week_id", week.ID,
		"track_id", track.ID,
		"user_id", userID,
	)

	result := &AddTrackResult{Track: track}
	spent, err := s.ledger.CurrentSpent(ctx, userID, week.ID)
	if err != nil {
		return result, err
	}

	if s.cfg.AutoVote && spent < models.MaxCoins {
		_, err := s.ledger.CastVote(ctx, week.ID, track.ID, userID, 1)
		switch {
		case err == nil:
			result.AutoVoted = true
			spent++
			s.cfg.Metrics.AutoVoted()
		case errors.Is(err, models.ErrBudgetExceeded):
			// A concurrent vote took the last coin.
			spent = models.MaxCoins
		default:
			result.Budget = models.NewBudget(spent)
			return result, fmt.Errorf("auto-vote: %w", err)
		}
	}

	result.Budget = models.NewBudget(spent)
	return result, nil
}

// CastVote spends one coin of userID on trackID in the group's active week.
func (s *Session) CastVote(ctx context.Context, groupID, userID, trackID string) (*VoteResult, error) {
	if _, err := s.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	week, err := s.weeks.requireActiveWeek(ctx, groupID)
	if err != nil {
		return nil, err
	}

	vote, err := s.ledger.CastVote(ctx, week.ID, trackID, userID, 1)
	if err != nil {
		return nil, err
	}
	slog.Info("Vote cast",
		"group_id", groupID,
		"week_id", week.ID,
		"track_id", trackID,
		"user_id", userID,
	)

	budget, err := s.ledger.Budget(ctx, userID, week.ID)
	if err != nil {
		return nil, err
	}
	return &VoteResult{Vote: vote, Budget: budget}, nil
}

// Standings ranks the active week's tracks for viewerID.
func (s *Session) Standings(ctx context.Context, groupID, viewerID string) (*StandingsResult, error) {
	if _, err := s.requireMember(ctx, groupID, viewerID); err != nil {
		return nil, err
	}
	week, err := s.weeks.ActiveWeek(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if week == nil {
		return &StandingsResult{Budget: models.NewBudget(0)}, nil
	}

	standings, err := s.ranking.Standings(ctx, week.ID)
	if err != nil {
		return nil, err
	}
	budget, err := s.ledger.Budget(ctx, viewerID, week.ID)
	if err != nil {
		return nil, err
	}
	return &StandingsResult{Week: week, Standings: standings, Budget: budget}, nil
}

// UnvotedTracks lists the active week's tracks nobody voted for. Admin only.
func (s *Session) UnvotedTracks(ctx context.Context, groupID, userID string) ([]*models.Track, error) {
	if err := s.requireAdmin(ctx, groupID, userID); err != nil {
		return nil, err
	}
	week, err := s.weeks.requireActiveWeek(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return s.ranking.Unvoted(ctx, week.ID)
}

// StartNewWeek replaces the group's active week. Admin only.
func (s *Session) StartNewWeek(ctx context.Context, groupID, userID string, weekNumber, year int, start, end time.Time) (*models.GroupWeek, error) {
	if err := s.requireAdmin(ctx, groupID, userID); err != nil {
		return nil, err
	}
	return s.weeks.StartNewWeek(ctx, groupID, weekNumber, year, start, end)
}

// CloseWeek ends the group's active week. Admin only.
func (s *Session) CloseWeek(ctx context.Context, groupID, userID string) (*models.GroupWeek, error) {
	if err := s.requireAdmin(ctx, groupID, userID); err != nil {
		return nil, err
	}
	return s.weeks.CloseWeek(ctx, groupID)
}

// ActiveWeek returns the group's active week, or nil.
func (s *Session) ActiveWeek(ctx context.Context, groupID, userID string) (*models.GroupWeek, error) {
	if _, err := s.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	return s.weeks.ActiveWeek(ctx, groupID)
}

// Weeks lists the group's weeks, newest first.
func (s *Session) Weeks(ctx context.Context, groupID, userID string) ([]*models.GroupWeek, error) {
	if _, err := s.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	return s.weeks.Weeks(ctx, groupID)
}

// Coins returns the user's budget in the group's active week.
func (s *Session) Coins(ctx context.Context, groupID, userID string) (*models.GroupWeek, models.Budget, error) {
	if _, err := s.requireMember(ctx, groupID, userID); err != nil {
		return nil, models.Budget{}, err
	}
	week, err := s.weeks.requireActiveWeek(ctx, groupID)
	if err != nil {
		return nil, models.Budget{}, err
	}
	budget, err := s.ledger.Budget(ctx, userID, week.ID)
	if err != nil {
		return nil, models.Budget{}, err
	}
	return week, budget, nil
}

// SearchCatalog looks up candidate tracks for submission.
func (s *Session) SearchCatalog(ctx context.Context, query string) ([]models.CatalogTrack, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.InvalidInput("search query is required")
	}
	if s.catalog == nil {
		return nil, models.ErrCatalogUnavailable
	}
	return s.catalog.Search(ctx, query)
}
