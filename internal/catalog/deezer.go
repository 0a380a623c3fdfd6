// Package catalog searches the public Deezer catalog for tracks.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/sync/singleflight"

	"github.com/loekvdlooilionx/votejam/internal/metrics"
	"github.com/loekvdlooilionx/votejam/internal/models"
)

const (
	DefaultBaseURL = "https://api.deezer.com"
	DefaultLimit   = 10
	DefaultTimeout = 5 * time.Second
)

// Config configures a Deezer client. Zero values fall back to defaults.
type Config struct {
	BaseURL string
	Limit   int

	// Timeout bounds one search including retries.
	Timeout time.Duration

	// Retries is the number of extra attempts on 5xx and transport errors.
	Retries   int
	RetryWait time.Duration

	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// Deezer is a catalog gateway backed by the Deezer search API.
// Concurrent searches for the same query share one upstream request.
type Deezer struct {
	baseURL string
	limit   int
	timeout time.Duration
	client  *retryablehttp.Client
	metrics *metrics.Metrics
	flight  singleflight.Group
}

func NewDeezer(cfg Config) *Deezer {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	client := retryablehttp.NewClient()
	client.RetryMax = cfg.Retries
	if cfg.RetryWait > 0 {
		client.RetryWaitMin = cfg.RetryWait
		client.RetryWaitMax = 4 * cfg.RetryWait
	}
	client.Logger = cfg.Logger.With("component", "catalog")
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Deezer{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		limit:   cfg.Limit,
		timeout: cfg.Timeout,
		client:  client,
		metrics: cfg.Metrics,
	}
}

type searchResponse struct {
	Data  []deezerTrack `json:"data"`
	Error *deezerError  `json:"error,omitempty"`
}

type deezerTrack struct {
	ID      json.Number `json:"id"`
	Title   string      `json:"title"`
	Preview string      `json:"preview"`
	Artist  struct {
		Name string `json:"name"`
	} `json:"artist"`
	Album struct {
		Title       string `json:"title"`
		CoverMedium string `json:"cover_medium"`
	} `json:"album"`
}

type deezerError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// Search returns candidate tracks for a free-text query, in catalog order.
func (d *Deezer) Search(ctx context.Context, query string) ([]models.CatalogTrack, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.InvalidInput("search query is required")
	}

	key := strings.ToLower(query)
	ch := d.flight.DoChan(key, func() (any, error) {
		// Detached so one caller giving up does not fail the others.
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()
		return d.fetch(fetchCtx, query)
	})

	select {
	case <-ctx.Done():
		d.metrics.CatalogSearch(metrics.OutcomeError)
		return nil, fmt.Errorf("%w: %w", models.ErrCatalogUnavailable, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			d.metrics.CatalogSearch(metrics.OutcomeError)
			return nil, res.Err
		}
		tracks := slices.Clone(res.Val.([]models.CatalogTrack))
		if len(tracks) == 0 {
			d.metrics.CatalogSearch(metrics.OutcomeEmpty)
		} else {
			d.metrics.CatalogSearch(metrics.OutcomeOK)
		}
		return tracks, nil
	}
}

func (d *Deezer) fetch(ctx context.Context, query string) ([]models.CatalogTrack, error) {
	endpoint := d.baseURL + "/search?" + url.Values{
		"q":     {query},
		"limit": {strconv.Itoa(d.limit)},
	}.Encode()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrCatalogUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: upstream status %d", models.ErrCatalogUnavailable, resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", models.ErrCatalogUnavailable, err)
	}
	if body.Error != nil {
		return nil, fmt.Errorf("%w: %s (%d)", models.ErrCatalogUnavailable, body.Error.Message, body.Error.Code)
	}

	tracks := make([]models.CatalogTrack, 0, len(body.Data))
	for _, t := range body.Data {
		tracks = append(tracks, t.toCatalogTrack())
	}
	return tracks, nil
}

func (t deezerTrack) toCatalogTrack() models.CatalogTrack {
	ct := models.CatalogTrack{
		CatalogID:  t.ID.String(),
		Title:      t.Title,
		AlbumName:  t.Album.Title,
		ArtworkURL: t.Album.CoverMedium,
		PreviewURL: t.Preview,
	}
	if t.Artist.Name != "" {
		ct.Artists = []string{t.Artist.Name}
	}
	return ct
}
