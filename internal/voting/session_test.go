package voting

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"

	"github.com/loekvdlooilionx/votejam/internal/models"
	"github.com/loekvdlooilionx/votejam/internal/storage/sqlite"
)

var (
	weekStart = time.Date(2026, time.October, 12, 0, 0, 0, 0, time.UTC)
	weekEnd   = weekStart.Add(7 * 24 * time.Hour)
)

type fakeCatalog struct {
	tracks []models.CatalogTrack
	err    error
	calls  int
}

func (f *fakeCatalog) Search(ctx context.Context, query string) ([]models.CatalogTrack, error) {
	f.calls++
	return f.tracks, f.err
}

func catalogTrack(id string) models.CatalogTrack {
	return models.CatalogTrack{
		CatalogID:  id,
		Title:      "Song " + id,
		Artists:    []string{"Band"},
		AlbumName:  "Album",
		ArtworkURL: "https://img.example.com/" + id + ".jpg",
	}
}

func openStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "voting.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return store
}

// seedGroup creates an admin and two members, alice and bob.
func seedGroup(t *testing.T, store *sqlite.SQLiteStore) string {
	t.Helper()
	ctx := context.Background()

	for _, u := range []*models.User{
		{ID: "admin", Email: "admin@example.com", DisplayName: "Admin", PasswordHash: "x", CreatedAt: 1, UpdatedAt: 1},
		{ID: "alice", Email: "alice@example.com", DisplayName: "Alice", PasswordHash: "x", CreatedAt: 1, UpdatedAt: 1},
		{ID: "bob", Email: "bob@example.com", DisplayName: "Bob", PasswordHash: "x", CreatedAt: 1, UpdatedAt: 1},
	} {
		if err := store.CreateUser(ctx, u); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
	}

	group := &models.Group{Name: "Jams", InviteCode: "JAMS2026", CreatedBy: "admin"}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	for _, id := range []string{"alice", "bob"} {
		if err := store.AddGroupMember(ctx, &models.GroupMember{GroupID: group.ID, UserID: id, Role: models.RoleMember}); err != nil {
			t.Fatalf("AddGroupMember failed: %v", err)
		}
	}
	return group.ID
}

func newTestSession(t *testing.T, autoVote bool) (*Session, string) {
	t.Helper()
	store := openStore(t)
	t.Cleanup(func() { store.Close() })
	groupID := seedGroup(t, store)
	return NewSession(store, &fakeCatalog{}, SessionConfig{AutoVote: autoVote}), groupID
}

func startWeek(t *testing.T, s *Session, groupID string, number int) *models.GroupWeek {
	t.Helper()
	week, err := s.StartNewWeek(context.Background(), groupID, "admin", number, 2026, weekStart, weekEnd)
	if err != nil {
		t.Fatalf("StartNewWeek failed: %v", err)
	}
	return week
}

func addTrack(t *testing.T, s *Session, groupID, userID, catalogID string) *models.Track {
	t.Helper()
	result, err := s.AddTrack(context.Background(), groupID, userID, catalogTrack(catalogID))
	if err != nil {
		t.Fatalf("AddTrack failed: %v", err)
	}
	return result.Track
}

func TestConcurrentVotesRespectBudget(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := openStore(t)
	defer store.Close()

	groupID := seedGroup(t, store)
	s := NewSession(store, nil, SessionConfig{})
	ctx := context.Background()

	startWeek(t, s, groupID, 42)
	a := addTrack(t, s, groupID, "bob", "dz-a")
	b := addTrack(t, s, groupID, "bob", "dz-b")

	var accepted atomic.Int32
	var g errgroup.Group
	for i := 0; i < 12; i++ {
		trackID := a.ID
		if i%2 == 1 {
			trackID = b.ID
		}
		g.Go(func() error {
			_, err := s.CastVote(ctx, groupID, "alice", trackID)
			switch {
			case err == nil:
				accepted.Add(1)
			case errors.Is(err, models.ErrBudgetExceeded):
			default:
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("CastVote failed: %v", err)
	}

	if got := accepted.Load(); got != models.MaxCoins {
		t.Errorf("Expected %d accepted votes, got %d", models.MaxCoins, got)
	}

	_, budget, err := s.Coins(ctx, groupID, "alice")
	if err != nil {
		t.Fatalf("Coins failed: %v", err)
	}
	if budget.Spent != models.MaxCoins || budget.Remaining != 0 {
		t.Errorf("Expected budget 3/0, got %+v", budget)
	}
}

func TestDuplicateSubmission(t *testing.T) {
	s, groupID := newTestSession(t, false)
	ctx := context.Background()
	startWeek(t, s, groupID, 1)

	first := addTrack(t, s, groupID, "alice", "dz-1")

	_, err := s.AddTrack(ctx, groupID, "bob", catalogTrack("dz-1"))
	if !errors.Is(err, models.ErrDuplicateTrack) {
		t.Fatalf("Expected ErrDuplicateTrack, got %v", err)
	}

	tracks, err := s.tracks.Tracks(ctx, first.GroupWeekID)
	if err != nil {
		t.Fatalf("Tracks failed: %v", err)
	}
	if len(tracks) != 1 || tracks[0].ID != first.ID || tracks[0].AddedBy != "alice" {
		t.Errorf("Expected the first submission to be untouched, got %+v", tracks)
	}
}

func TestStartNewWeekDeactivatesPrevious(t *testing.T) {
	s, groupID := newTestSession(t, false)
	ctx := context.Background()

	first := startWeek(t, s, groupID, 1)
	second := startWeek(t, s, groupID, 2)

	weeks, err := s.Weeks(ctx, groupID, "alice")
	if err != nil {
		t.Fatalf("Weeks failed: %v", err)
	}
	if len(weeks) != 2 {
		t.Fatalf("Expected 2 weeks, got %d", len(weeks))
	}
	for _, w := range weeks {
		switch w.ID {
		case first.ID:
			if w.IsActive {
				t.Errorf("Expected week 1 to be deactivated")
			}
		case second.ID:
			if !w.IsActive {
				t.Errorf("Expected week 2 to be active")
			}
		}
	}

	active, err := s.ActiveWeek(ctx, groupID, "bob")
	if err != nil {
		t.Fatalf("ActiveWeek failed: %v", err)
	}
	if active == nil || active.ID != second.ID {
		t.Errorf("Expected week 2 active, got %+v", active)
	}
}

func TestStartNewWeekValidation(t *testing.T) {
	s, groupID := newTestSession(t, false)
	ctx := context.Background()

	tests := []struct {
		name   string
		number int
		year   int
		start  time.Time
		end    time.Time
	}{
		{"week zero", 0, 2026, weekStart, weekEnd},
		{"week 54", 54, 2026, weekStart, weekEnd},
		{"year zero", 1, 0, weekStart, weekEnd},
		{"empty range", 1, 2026, weekStart, weekStart},
		{"reversed range", 1, 2026, weekEnd, weekStart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.StartNewWeek(ctx, groupID, "admin", tt.number, tt.year, tt.start, tt.end)
			if !errors.Is(err, models.ErrInvalidInput) {
				t.Errorf("Expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestCrossWeekVote(t *testing.T) {
	s, groupID := newTestSession(t, false)
	ctx := context.Background()

	startWeek(t, s, groupID, 1)
	old := addTrack(t, s, groupID, "alice", "dz-old")
	current := startWeek(t, s, groupID, 2)

	_, err := s.CastVote(ctx, groupID, "bob", old.ID)
	if !errors.Is(err, models.ErrTrackNotInWeek) {
		t.Errorf("Expected ErrTrackNotInWeek, got %v", err)
	}

	_, err = s.ledger.CastVote(ctx, current.ID, old.ID, "bob", 1)
	if !errors.Is(err, models.ErrTrackNotInWeek) {
		t.Errorf("Expected ErrTrackNotInWeek from ledger, got %v", err)
	}

	spent, err := s.ledger.CurrentSpent(ctx, "bob", current.ID)
	if err != nil {
		t.Fatalf("CurrentSpent failed: %v", err)
	}
	if spent != 0 {
		t.Errorf("Expected no coins spent, got %d", spent)
	}
}

func TestVoteLedgerRejectsNonPositiveCoins(t *testing.T) {
	s, groupID := newTestSession(t, false)
	week := startWeek(t, s, groupID, 1)
	track := addTrack(t, s, groupID, "alice", "dz-1")

	for _, coins := range []int{0, -1} {
		if _, err := s.ledger.CastVote(context.Background(), week.ID, track.ID, "bob", coins); !errors.Is(err, models.ErrInvalidInput) {
			t.Errorf("coins=%d: expected ErrInvalidInput, got %v", coins, err)
		}
	}
}

func TestAutoVote(t *testing.T) {
	s, groupID := newTestSession(t, true)
	ctx := context.Background()
	startWeek(t, s, groupID, 1)

	t.Run("spends one coin on the new track", func(t *testing.T) {
		result, err := s.AddTrack(ctx, groupID, "alice", catalogTrack("dz-1"))
		if err != nil {
			t.Fatalf("AddTrack failed: %v", err)
		}
		if !result.AutoVoted {
			t.Errorf("Expected auto-vote")
		}
		if result.Budget.Spent != 1 || result.Budget.Remaining != 2 {
			t.Errorf("Expected budget 1/2, got %+v", result.Budget)
		}

		for i := 0; i < 2; i++ {
			if _, err := s.CastVote(ctx, groupID, "alice", result.Track.ID); err != nil {
				t.Fatalf("CastVote failed: %v", err)
			}
		}
	})

	t.Run("no coins left still creates the track", func(t *testing.T) {
		result, err := s.AddTrack(ctx, groupID, "alice", catalogTrack("dz-2"))
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if result.Track == nil || result.Track.ID == "" {
			t.Fatalf("Expected track to be created")
		}
		if result.AutoVoted {
			t.Errorf("Expected no auto-vote")
		}
		if result.Budget.Remaining != 0 {
			t.Errorf("Expected 0 coins remaining, got %d", result.Budget.Remaining)
		}

		unvoted, err := s.UnvotedTracks(ctx, groupID, "admin")
		if err != nil {
			t.Fatalf("UnvotedTracks failed: %v", err)
		}
		if len(unvoted) != 1 || unvoted[0].ID != result.Track.ID {
			t.Errorf("Expected new track to have no votes, got %+v", unvoted)
		}
	})
}

func TestNoActiveWeek(t *testing.T) {
	s, groupID := newTestSession(t, true)
	ctx := context.Background()

	standings, err := s.Standings(ctx, groupID, "alice")
	if err != nil {
		t.Fatalf("Standings failed: %v", err)
	}
	if standings.Week != nil || len(standings.Standings) != 0 {
		t.Errorf("Expected empty result without a week, got %+v", standings)
	}

	_, err = s.AddTrack(ctx, groupID, "alice", catalogTrack("dz-1"))
	if !errors.Is(err, models.ErrNoActiveWeek) || !errors.Is(err, models.ErrInactiveWeek) {
		t.Errorf("Expected ErrNoActiveWeek, got %v", err)
	}

	if _, err := s.CastVote(ctx, groupID, "alice", "any"); !errors.Is(err, models.ErrNoActiveWeek) {
		t.Errorf("Expected ErrNoActiveWeek, got %v", err)
	}
	if _, _, err := s.Coins(ctx, groupID, "alice"); !errors.Is(err, models.ErrNoActiveWeek) {
		t.Errorf("Expected ErrNoActiveWeek, got %v", err)
	}
}

func TestCloseWeek(t *testing.T) {
	s, groupID := newTestSession(t, false)
	ctx := context.Background()
	startWeek(t, s, groupID, 1)
	track := addTrack(t, s, groupID, "alice", "dz-1")

	closed, err := s.CloseWeek(ctx, groupID, "admin")
	if err != nil {
		t.Fatalf("CloseWeek failed: %v", err)
	}
	if closed.IsActive {
		t.Errorf("Expected closed week to be inactive")
	}

	if _, err := s.CastVote(ctx, groupID, "bob", track.ID); !errors.Is(err, models.ErrInactiveWeek) {
		t.Errorf("Expected ErrInactiveWeek, got %v", err)
	}
	if _, err := s.CloseWeek(ctx, groupID, "admin"); !errors.Is(err, models.ErrNoActiveWeek) {
		t.Errorf("Expected ErrNoActiveWeek, got %v", err)
	}
	if err := s.weeks.store.DeactivateWeek(ctx, groupID, closed.ID); !errors.Is(err, models.ErrInactiveWeek) {
		t.Errorf("Expected ErrInactiveWeek from store, got %v", err)
	}
	if _, err := s.tracks.Submit(ctx, closed, catalogTrack("dz-2"), "alice"); !errors.Is(err, models.ErrInactiveWeek) {
		t.Errorf("Expected ErrInactiveWeek from registry, got %v", err)
	}
}

func TestRoleGates(t *testing.T) {
	s, groupID := newTestSession(t, false)
	ctx := context.Background()

	if _, err := s.StartNewWeek(ctx, groupID, "alice", 1, 2026, weekStart, weekEnd); !errors.Is(err, models.ErrNotAdmin) {
		t.Errorf("Expected ErrNotAdmin, got %v", err)
	}
	if _, err := s.StartNewWeek(ctx, groupID, "stranger", 1, 2026, weekStart, weekEnd); !errors.Is(err, models.ErrNotMember) {
		t.Errorf("Expected ErrNotMember, got %v", err)
	}

	startWeek(t, s, groupID, 1)

	if _, err := s.CloseWeek(ctx, groupID, "bob"); !errors.Is(err, models.ErrNotAdmin) {
		t.Errorf("Expected ErrNotAdmin, got %v", err)
	}
	if _, err := s.UnvotedTracks(ctx, groupID, "bob"); !errors.Is(err, models.ErrNotAdmin) {
		t.Errorf("Expected ErrNotAdmin, got %v", err)
	}
	if _, err := s.Standings(ctx, groupID, "stranger"); !errors.Is(err, models.ErrNotMember) {
		t.Errorf("Expected ErrNotMember, got %v", err)
	}
	if _, err := s.AddTrack(ctx, groupID, "stranger", catalogTrack("dz-1")); !errors.Is(err, models.ErrNotMember) {
		t.Errorf("Expected ErrNotMember, got %v", err)
	}
}

func TestSubmitValidation(t *testing.T) {
	s, groupID := newTestSession(t, false)
	week := startWeek(t, s, groupID, 1)

	tests := []struct {
		name  string
		track models.CatalogTrack
	}{
		{"missing catalog id", models.CatalogTrack{Title: "T", Artists: []string{"A"}}},
		{"missing title", models.CatalogTrack{CatalogID: "1", Artists: []string{"A"}}},
		{"missing artist", models.CatalogTrack{CatalogID: "1", Title: "T"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.tracks.Submit(context.Background(), week, tt.track, "alice")
			if !errors.Is(err, models.ErrInvalidInput) {
				t.Errorf("Expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestSearchCatalog(t *testing.T) {
	ctx := context.Background()
	catalog := &fakeCatalog{tracks: []models.CatalogTrack{catalogTrack("dz-1")}}
	s := &Session{catalog: catalog}

	if _, err := s.SearchCatalog(ctx, "   "); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
	if catalog.calls != 0 {
		t.Errorf("Expected blank query not to reach the catalog")
	}

	results, err := s.SearchCatalog(ctx, "daft punk")
	if err != nil {
		t.Fatalf("SearchCatalog failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("Expected 1 result, got %d", len(results))
	}

	catalog.err = models.ErrCatalogUnavailable
	if _, err := s.SearchCatalog(ctx, "daft punk"); !errors.Is(err, models.ErrCatalogUnavailable) {
		t.Errorf("Expected ErrCatalogUnavailable, got %v", err)
	}

	empty := &Session{}
	if _, err := empty.SearchCatalog(ctx, "daft punk"); !errors.Is(err, models.ErrCatalogUnavailable) {
		t.Errorf("Expected ErrCatalogUnavailable without a catalog, got %v", err)
	}
}
