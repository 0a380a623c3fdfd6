// Package metrics holds the Prometheus collectors for the voting service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Rejection reasons recorded by VoteRejected.
const (
	ReasonBudget      = "budget_exceeded"
	ReasonInactive    = "inactive_week"
	ReasonTrackNotIn  = "track_not_in_week"
	ReasonTrackAbsent = "track_not_found"
	ReasonInvalid     = "invalid_input"
	ReasonStore       = "store_unavailable"
)

// Catalog search outcomes recorded by CatalogSearch.
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// Metrics groups the service's collectors. A nil *Metrics is valid and
// records nothing, so components can run without a registry in tests.
type Metrics struct {
	votesCast       prometheus.Counter
	voteRejections  *prometheus.CounterVec
	tracksSubmitted prometheus.Counter
	autoVotes       prometheus.Counter
	weeksStarted    prometheus.Counter
	weeksClosed     prometheus.Counter
	catalogSearches *prometheus.CounterVec
	rpcDuration     *prometheus.HistogramVec
}

// New registers all collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{}

	m.votesCast = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "votejam_votes_cast_total",
			Help: "votes accepted by the ledger",
		},
	)
	m.voteRejections = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "votejam_vote_rejections_total",
			Help: "votes rejected by the ledger, by reason",
		},
		[]string{"reason"},
	)
	m.tracksSubmitted = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "votejam_tracks_submitted_total",
			Help: "tracks added to an active week",
		},
	)
	m.autoVotes = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "votejam_auto_votes_total",
			Help: "coins spent automatically on a submitter's own track",
		},
	)
	m.weeksStarted = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "votejam_weeks_started_total",
			Help: "voting weeks activated",
		},
	)
	m.weeksClosed = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "votejam_weeks_closed_total",
			Help: "voting weeks closed without a successor",
		},
	)
	m.catalogSearches = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "votejam_catalog_searches_total",
			Help: "catalog searches, by outcome",
		},
		[]string{"outcome"},
	)
	m.rpcDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "votejam_rpc_duration_seconds",
			Help:    "RPC handling latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"procedure", "code"},
	)

	return m
}

func (m *Metrics) VoteCast() {
	if m == nil {
		return
	}
	m.votesCast.Inc()
}

func (m *Metrics) VoteRejected(reason string) {
	if m == nil {
		return
	}
	m.voteRejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) TrackSubmitted() {
	if m == nil {
		return
	}
	m.tracksSubmitted.Inc()
}

func (m *Metrics) AutoVoted() {
	if m == nil {
		return
	}
	m.autoVotes.Inc()
}

func (m *Metrics) WeekStarted() {
	if m == nil {
		return
	}
	m.weeksStarted.Inc()
}

func (m *Metrics) WeekClosed() {
	if m == nil {
		return
	}
	m.weeksClosed.Inc()
}

func (m *Metrics) CatalogSearch(outcome string) {
	if m == nil {
		return
	}
	m.catalogSearches.WithLabelValues(outcome).Inc()
}

// ObserveRPC records how long a procedure took and the code it returned.
func (m *Metrics) ObserveRPC(procedure, code string, seconds float64) {
	if m == nil {
		return
	}
	m.rpcDuration.WithLabelValues(procedure, code).Observe(seconds)
}
