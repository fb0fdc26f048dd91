package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ajuan"

var (
	SubmissionMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "submission_mutations_total",
		Help:      "Submission mutations by operation and outcome.",
	}, []string{"op", "outcome"})

	FeedSignals = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feed_signals_total",
		Help:      "Change notifications received, by feed driver.",
	}, []string{"driver"})

	DashboardRecomputes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dashboard_recomputes_total",
		Help:      "Dashboard reloads by outcome.",
	}, []string{"outcome"})

	DashboardReloadSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "dashboard_reload_seconds",
		Help:      "Time spent fetching the working set.",
		Buckets:   prometheus.DefBuckets,
	})

	SSEClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sse_clients",
		Help:      "Connected dashboard stream clients.",
	})
)

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

func Outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}
