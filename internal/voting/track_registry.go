package voting

import (
	"context"
	"fmt"
	"strings"

	"github.com/loekvdlooilionx/votejam/internal/metrics"
	"github.com/loekvdlooilionx/votejam/internal/models"
	"github.com/loekvdlooilionx/votejam/internal/storage"
)

// TrackRegistry holds the tracks submitted into weeks.
type TrackRegistry struct {
	store   storage.TrackStore
	metrics *metrics.Metrics
}

func NewTrackRegistry(store storage.TrackStore, m *metrics.Metrics) *TrackRegistry {
	return &TrackRegistry{store: store, metrics: m}
}

// Submit attaches a catalog track to week. The store rejects the insert
// with models.ErrDuplicateTrack if the catalog id is already in the week,
// and with models.ErrInactiveWeek if the week closed in the meantime.
func (r *TrackRegistry) Submit(ctx context.Context, week *models.GroupWeek, ct models.CatalogTrack, submitterID string) (*models.Track, error) {
	if week == nil {
		return nil, models.ErrNoActiveWeek
	}
	if !week.IsActive {
		return nil, models.ErrInactiveWeek
	}

	track := &models.Track{
		GroupWeekID: week.ID,
		CatalogID:   strings.TrimSpace(ct.CatalogID),
		Title:       strings.TrimSpace(ct.Title),
		Artist:      strings.TrimSpace(ct.ArtistLine()),
		Album:       ct.AlbumName,
		ArtworkURL:  ct.ArtworkURL,
		PreviewURL:  ct.PreviewURL,
		AddedBy:     submitterID,
	}
	switch {
	case track.CatalogID == "":
		return nil, models.InvalidInput("catalog id is required")
	case track.Title == "":
		return nil, models.InvalidInput("track title is required")
	case track.Artist == "":
		return nil, models.InvalidInput("track artist is required")
	case submitterID == "":
		return nil, models.InvalidInput("submitter is required")
	}

	if err := r.store.InsertTrack(ctx, track); err != nil {
		return nil, fmt.Errorf("failed to submit track: %w", err)
	}

	r.metrics.TrackSubmitted()
	return track, nil
}

// Tracks returns the week's tracks in submission order.
func (r *TrackRegistry) Tracks(ctx context.Context, weekID string) ([]*models.Track, error) {
	tracks, err := r.store.ListTracksByWeek(ctx, weekID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks: %w", err)
	}
	return tracks, nil
}
