// Package metrics exposes application metrics collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetchAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chainsync",
		Subsystem: "fetch_client",
		Name:      "attempts_total",
		Help:      "Count of HTTP fetch attempts.",
	}, []string{"method", "outcome"})
	fetchAttemptDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "chainsync",
		Subsystem: "fetch_client",
		Name:      "attempt_duration_seconds",
		Help:      "Duration of HTTP fetch attempts.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "outcome"})
)

// FetchClient tracks metrics for HTTP fetch attempts.
type FetchClient struct{}

// NewFetchClient constructs a metrics collector for the fetch client.
func NewFetchClient() *FetchClient {
	return &FetchClient{}
}

// ObserveAttempt records a single fetch attempt outcome and duration.
func (m FetchClient) ObserveAttempt(method, outcome string, started time.Time) {
	fetchAttemptsTotal.WithLabelValues(method, outcome).Inc()
	fetchAttemptDuration.WithLabelValues(method, outcome).Observe(time.Since(started).Seconds())
}
