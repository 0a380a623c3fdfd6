package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.VoteCast()
	m.VoteCast()
	m.VoteRejected(ReasonBudget)
	m.TrackSubmitted()
	m.AutoVoted()
	m.WeekStarted()
	m.WeekClosed()
	m.CatalogSearch(OutcomeOK)
	m.CatalogSearch(OutcomeError)
	m.CatalogSearch(OutcomeError)

	if got := testutil.ToFloat64(m.votesCast); got != 2 {
		t.Errorf("votes cast = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.voteRejections.WithLabelValues(ReasonBudget)); got != 1 {
		t.Errorf("budget rejections = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.catalogSearches.WithLabelValues(OutcomeError)); got != 2 {
		t.Errorf("catalog errors = %v, want 2", got)
	}
	for name, c := range map[string]prometheus.Counter{
		"tracks": m.tracksSubmitted,
		"auto":   m.autoVotes,
		"start":  m.weeksStarted,
		"close":  m.weeksClosed,
	} {
		if got := testutil.ToFloat64(c); got != 1 {
			t.Errorf("%s = %v, want 1", name, got)
		}
	}
}

func TestRPCHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRPC("/votejam.v1.VotingService/CastVote", "ok", 0.01)

	if got := testutil.CollectAndCount(m.rpcDuration); got != 1 {
		t.Errorf("histogram series = %d, want 1", got)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.VoteCast()
	m.VoteRejected(ReasonInvalid)
	m.TrackSubmitted()
	m.AutoVoted()
	m.WeekStarted()
	m.WeekClosed()
	m.CatalogSearch(OutcomeEmpty)
	m.ObserveRPC("p", "ok", 1)
}
