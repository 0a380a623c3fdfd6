package models

import "strings"

// CatalogTrack is a candidate track returned by the external catalog search.
type CatalogTrack struct {
	// CatalogID is the catalog's identifier for the track.
	CatalogID string

	Title      string
	Artists    []string
	AlbumName  string
	ArtworkURL string

	// PreviewURL is empty when the catalog has no preview audio.
	PreviewURL string
}

// ArtistLine joins the artists the way they are stored on a Track.
func (c CatalogTrack) ArtistLine() string {
	return strings.Join(c.Artists, ", ")
}

// Track is a catalog track submitted into a week.
// (GroupWeekID, CatalogID) is unique; tracks are immutable once created.
type Track struct {
	ID          string
	GroupWeekID string
	CatalogID   string
	Title       string
	Artist      string
	Album       string
	ArtworkURL  string
	PreviewURL  string

	// AddedBy is the submitter's user ID.
	AddedBy string

	// AddedAt is the Unix timestamp of the submission.
	AddedAt int64

	// Seq is assigned by the store and increases with every submission.
	// It orders tracks that share an AddedAt second.
	Seq int64
}
