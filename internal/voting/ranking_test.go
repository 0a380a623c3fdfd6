package voting

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/loekvdlooilionx/votejam/internal/models"
)

func TestByCoinsThenSubmission(t *testing.T) {
	standing := func(votes int, addedAt, seq int64) *models.Standing {
		return &models.Standing{VoteCount: votes, Track: models.Track{AddedAt: addedAt, Seq: seq}}
	}

	tests := []struct {
		name string
		a, b *models.Standing
		want int
	}{
		{"more coins first", standing(3, 50, 5), standing(1, 10, 1), -1},
		{"fewer coins last", standing(1, 10, 1), standing(3, 50, 5), 1},
		{"tie goes to earlier submission", standing(2, 10, 9), standing(2, 20, 1), -1},
		{"same second uses sequence", standing(2, 10, 2), standing(2, 10, 1), 1},
		{"identical", standing(2, 10, 1), standing(2, 10, 1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ByCoinsThenSubmission(tt.a, tt.b); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStandingsOrder(t *testing.T) {
	s, groupID := newTestSession(t, false)
	ctx := context.Background()
	startWeek(t, s, groupID, 1)

	a := addTrack(t, s, groupID, "alice", "dz-a")
	b := addTrack(t, s, groupID, "bob", "dz-b")
	c := addTrack(t, s, groupID, "alice", "dz-c")

	for _, v := range []struct{ user, track string }{
		{"alice", b.ID},
		{"bob", a.ID},
		{"alice", a.ID},
		{"bob", b.ID},
	} {
		if _, err := s.CastVote(ctx, groupID, v.user, v.track); err != nil {
			t.Fatalf("CastVote failed: %v", err)
		}
	}

	result, err := s.Standings(ctx, groupID, "alice")
	if err != nil {
		t.Fatalf("Standings failed: %v", err)
	}

	if len(result.Standings) != 2 {
		t.Fatalf("Expected 2 ranked tracks, got %d", len(result.Standings))
	}
	if result.Standings[0].Track.ID != a.ID || result.Standings[1].Track.ID != b.ID {
		t.Errorf("Expected [A, B], got [%s, %s]", result.Standings[0].Track.CatalogID, result.Standings[1].Track.CatalogID)
	}
	for _, st := range result.Standings {
		if st.VoteCount != 2 {
			t.Errorf("Expected 2 coins on %s, got %d", st.Track.CatalogID, st.VoteCount)
		}
		if len(st.Voters) != 2 {
			t.Errorf("Expected 2 voters on %s, got %d", st.Track.CatalogID, len(st.Voters))
		}
	}
	if name := result.Standings[0].Voters[0].Profile.DisplayName; name != "Bob" {
		t.Errorf("Expected first voter on A to be Bob, got %q", name)
	}
	if result.Budget.Spent != 2 || result.Budget.Remaining != 1 {
		t.Errorf("Expected viewer budget 2/1, got %+v", result.Budget)
	}

	unvoted, err := s.UnvotedTracks(ctx, groupID, "admin")
	if err != nil {
		t.Fatalf("UnvotedTracks failed: %v", err)
	}
	if len(unvoted) != 1 || unvoted[0].ID != c.ID {
		t.Errorf("Expected only C unvoted, got %+v", unvoted)
	}
}

func TestStandingsIdempotent(t *testing.T) {
	s, groupID := newTestSession(t, true)
	ctx := context.Background()
	startWeek(t, s, groupID, 1)

	addTrack(t, s, groupID, "alice", "dz-1")
	track := addTrack(t, s, groupID, "bob", "dz-2")
	if _, err := s.CastVote(ctx, groupID, "alice", track.ID); err != nil {
		t.Fatalf("CastVote failed: %v", err)
	}

	first, err := s.Standings(ctx, groupID, "bob")
	if err != nil {
		t.Fatalf("Standings failed: %v", err)
	}
	second, err := s.Standings(ctx, groupID, "bob")
	if err != nil {
		t.Fatalf("Standings failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical standings, got\n%+v\n%+v", first, second)
	}
}

type staticSource struct {
	tracks []*models.Track
	votes  []*models.Vote
}

func (s staticSource) ListTracksByWeek(ctx context.Context, weekID string) ([]*models.Track, error) {
	return s.tracks, nil
}

func (s staticSource) ListVotesByWeek(ctx context.Context, weekID string) ([]*models.Vote, error) {
	return s.votes, nil
}

type failingProfiles struct{}

func (failingProfiles) GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	return nil, errors.New("connection refused")
}

func TestRankingEngineAggregation(t *testing.T) {
	source := staticSource{
		tracks: []*models.Track{
			{ID: "t1", AddedAt: 10, Seq: 1},
			{ID: "t2", AddedAt: 10, Seq: 2},
		},
		votes: []*models.Vote{
			{TrackID: "t2", UserID: "u1", CoinsSpent: 1},
			{TrackID: "t2", UserID: "u1", CoinsSpent: 1},
			{TrackID: "t1", UserID: "u2", CoinsSpent: 1},
			{TrackID: "ghost", UserID: "u3", CoinsSpent: 3},
		},
	}

	engine := NewRankingEngine(source, failingProfiles{}, nil)
	standings, err := engine.Standings(context.Background(), "w")
	if err != nil {
		t.Fatalf("Standings failed: %v", err)
	}

	if len(standings) != 2 {
		t.Fatalf("Expected votes on unknown tracks to be ignored, got %d standings", len(standings))
	}
	top := standings[0]
	if top.Track.ID != "t2" || top.VoteCount != 2 {
		t.Errorf("Expected t2 with 2 coins first, got %s with %d", top.Track.ID, top.VoteCount)
	}
	if len(top.Voters) != 1 || top.Voters[0].CoinsSpent != 2 || top.Voters[0].Profile.UserID != "u1" {
		t.Errorf("Expected u1 grouped with 2 coins, got %+v", top.Voters)
	}

	reversed := NewRankingEngine(source, nil, func(a, b *models.Standing) int {
		return -ByCoinsThenSubmission(a, b)
	})
	standings, err = reversed.Standings(context.Background(), "w")
	if err != nil {
		t.Fatalf("Standings failed: %v", err)
	}
	if standings[0].Track.ID != "t1" {
		t.Errorf("Expected custom comparator to reverse order, got %s first", standings[0].Track.ID)
	}
}
