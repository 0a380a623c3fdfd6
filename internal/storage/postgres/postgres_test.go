package postgres

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/loekvdlooilionx/votejam/internal/models"
)

// newTestStore connects to the database named by VOTEJAM_TEST_POSTGRES_DSN.
func newTestStore(t *testing.T) *PostgresStore {
	t.Helper()
	dsn := os.Getenv("VOTEJAM_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("VOTEJAM_TEST_POSTGRES_DSN not set")
	}
	store, err := New(dsn, nil)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func uniqueCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}

func TestPostgresVotingFlow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{Name: "Jams", InviteCode: uniqueCode(), CreatedBy: "admin-" + uuid.New().String()}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	t.Cleanup(func() { store.DeleteGroup(context.Background(), group.ID) })

	first := &models.GroupWeek{GroupID: group.ID, WeekNumber: 1, Year: 2026, WeekStart: 1, WeekEnd: 2}
	if _, err := store.ActivateWeek(ctx, first); err != nil {
		t.Fatalf("ActivateWeek failed: %v", err)
	}
	week := &models.GroupWeek{GroupID: group.ID, WeekNumber: 2, Year: 2026, WeekStart: 3, WeekEnd: 4}
	previous, err := store.ActivateWeek(ctx, week)
	if err != nil {
		t.Fatalf("ActivateWeek failed: %v", err)
	}
	if previous != first.ID {
		t.Errorf("Expected deactivated %s, got %q", first.ID, previous)
	}

	track := &models.Track{GroupWeekID: week.ID, CatalogID: "dz-1", Title: "Song", Artist: "Band", AddedBy: group.CreatedBy}
	if err := store.InsertTrack(ctx, track); err != nil {
		t.Fatalf("InsertTrack failed: %v", err)
	}
	if track.Seq == 0 {
		t.Errorf("Expected seq to be assigned")
	}

	t.Run("duplicate track", func(t *testing.T) {
		dup := &models.Track{GroupWeekID: week.ID, CatalogID: "dz-1", Title: "Song", Artist: "Band", AddedBy: "x"}
		if err := store.InsertTrack(ctx, dup); !errors.Is(err, models.ErrDuplicateTrack) {
			t.Errorf("Expected ErrDuplicateTrack, got %v", err)
		}
	})

	t.Run("inactive week rejects tracks", func(t *testing.T) {
		late := &models.Track{GroupWeekID: first.ID, CatalogID: "dz-2", Title: "Song", Artist: "Band", AddedBy: "x"}
		if err := store.InsertTrack(ctx, late); !errors.Is(err, models.ErrInactiveWeek) {
			t.Errorf("Expected ErrInactiveWeek, got %v", err)
		}
	})

	t.Run("concurrent votes never exceed budget", func(t *testing.T) {
		var accepted atomic.Int32
		var g errgroup.Group
		for i := 0; i < 10; i++ {
			g.Go(func() error {
				err := store.InsertVote(ctx, &models.Vote{TrackID: track.ID, UserID: "carol", GroupWeekID: week.ID, CoinsSpent: 1}, models.MaxCoins)
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
			t.Fatalf("InsertVote failed: %v", err)
		}
		if got := accepted.Load(); got != models.MaxCoins {
			t.Errorf("Expected %d accepted votes, got %d", models.MaxCoins, got)
		}
		spent, err := store.CoinsSpent(ctx, "carol", week.ID)
		if err != nil {
			t.Fatalf("CoinsSpent failed: %v", err)
		}
		if spent != models.MaxCoins {
			t.Errorf("Expected %d coins spent, got %d", models.MaxCoins, spent)
		}
	})

	t.Run("closing the week", func(t *testing.T) {
		if err := store.DeactivateWeek(ctx, group.ID, week.ID); err != nil {
			t.Fatalf("DeactivateWeek failed: %v", err)
		}
		err := store.InsertVote(ctx, &models.Vote{TrackID: track.ID, UserID: "dave", GroupWeekID: week.ID, CoinsSpent: 1}, models.MaxCoins)
		if !errors.Is(err, models.ErrInactiveWeek) {
			t.Errorf("Expected ErrInactiveWeek, got %v", err)
		}
	})
}
