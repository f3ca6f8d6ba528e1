package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	providerRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chainsync",
		Subsystem: "provider",
		Name:      "operations_total",
		Help:      "Count of upstream provider operations.",
	}, []string{"provider", "operation", "status"})
	providerRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "chainsync",
		Subsystem: "provider",
		Name:      "operation_duration_seconds",
		Help:      "Duration of upstream provider operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"provider", "operation", "status"})
)

// Provider tracks metrics for upstream data vendor calls.
type Provider struct{}

// NewProvider constructs a metrics collector for provider operations.
func NewProvider() *Provider {
	return &Provider{}
}

// Observe records a single provider operation outcome and duration.
func (m Provider) Observe(provider, operation string, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}

	providerRequestsTotal.WithLabelValues(provider, operation, status).Inc()
	providerRequestDuration.WithLabelValues(provider, operation, status).Observe(time.Since(started).Seconds())
}
