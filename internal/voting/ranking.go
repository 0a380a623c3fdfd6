package voting

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/loekvdlooilionx/votejam/internal/models"
)

// Comparator orders two standings; negative means a ranks above b.
type Comparator func(a, b *models.Standing) int

// ByCoinsThenSubmission ranks by coins received, most first. Ties go to
// the track submitted earlier, by AddedAt and then by store sequence.
func ByCoinsThenSubmission(a, b *models.Standing) int {
	if c := cmp.Compare(b.VoteCount, a.VoteCount); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Track.AddedAt, b.Track.AddedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.Track.Seq, b.Track.Seq)
}

// RankingSource is the read side of the store the ranking engine needs.
type RankingSource interface {
	ListTracksByWeek(ctx context.Context, weekID string) ([]*models.Track, error)
	ListVotesByWeek(ctx context.Context, weekID string) ([]*models.Vote, error)
}

// ProfileSource resolves voter attribution.
type ProfileSource interface {
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
}

// RankingEngine derives standings from the votes of a week.
// Nothing it computes is stored.
type RankingEngine struct {
	source   RankingSource
	profiles ProfileSource
	compare  Comparator
}

// NewRankingEngine builds an engine. A nil compare uses ByCoinsThenSubmission;
// a nil profiles leaves voters with only their user IDs.
func NewRankingEngine(source RankingSource, profiles ProfileSource, compare Comparator) *RankingEngine {
	if compare == nil {
		compare = ByCoinsThenSubmission
	}
	return &RankingEngine{source: source, profiles: profiles, compare: compare}
}

type tally struct {
	coins  int
	voters []string
	byUser map[string]int
}

// Standings returns the week's tracks that received at least one coin,
// best first.
func (r *RankingEngine) Standings(ctx context.Context, weekID string) ([]models.Standing, error) {
	tracks, err := r.source.ListTracksByWeek(ctx, weekID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks: %w", err)
	}
	votes, err := r.source.ListVotesByWeek(ctx, weekID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}

	tallies := make(map[string]*tally, len(tracks))
	for _, t := range tracks {
		tallies[t.ID] = &tally{byUser: make(map[string]int)}
	}

	var userIDs []string
	seenUser := make(map[string]bool)
	for _, v := range votes {
		t, ok := tallies[v.TrackID]
		if !ok {
			continue
		}
		t.coins += v.CoinsSpent
		if _, ok := t.byUser[v.UserID]; !ok {
			t.voters = append(t.voters, v.UserID)
		}
		t.byUser[v.UserID] += v.CoinsSpent
		if !seenUser[v.UserID] {
			seenUser[v.UserID] = true
			userIDs = append(userIDs, v.UserID)
		}
	}

	profiles := r.lookupProfiles(ctx, userIDs)

	standings := make([]models.Standing, 0, len(tracks))
	for _, t := range tracks {
		tl := tallies[t.ID]
		if tl.coins == 0 {
			continue
		}
		voters := make([]models.Voter, 0, len(tl.voters))
		for _, userID := range tl.voters {
			voters = append(voters, models.Voter{
				Profile:    profiles[userID],
				CoinsSpent: tl.byUser[userID],
			})
		}
		standings = append(standings, models.Standing{
			Track:     *t,
			VoteCount: tl.coins,
			Voters:    voters,
		})
	}

	slices.SortStableFunc(standings, func(a, b models.Standing) int {
		return r.compare(&a, &b)
	})
	return standings, nil
}

// lookupProfiles never fails; unknown users keep a bare profile.
func (r *RankingEngine) lookupProfiles(ctx context.Context, userIDs []string) map[string]models.Profile {
	profiles := make(map[string]models.Profile, len(userIDs))
	for _, id := range userIDs {
		profiles[id] = models.Profile{UserID: id}
	}
	if r.profiles == nil || len(userIDs) == 0 {
		return profiles
	}

	users, err := r.profiles.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		slog.Warn("Voter profiles unavailable", "error", err)
		return profiles
	}
	for id, u := range users {
		profiles[id] = u.Profile()
	}
	return profiles
}

// Unvoted returns the week's tracks without any coins, in submission order.
func (r *RankingEngine) Unvoted(ctx context.Context, weekID string) ([]*models.Track, error) {
	tracks, err := r.source.ListTracksByWeek(ctx, weekID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks: %w", err)
	}
	votes, err := r.source.ListVotesByWeek(ctx, weekID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}

	voted := make(map[string]bool, len(votes))
	for _, v := range votes {
		voted[v.TrackID] = true
	}

	var unvoted []*models.Track
	for _, t := range tracks {
		if !voted[t.ID] {
			unvoted = append(unvoted, t)
		}
	}
	return unvoted, nil
}
