package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ingesterBlocksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chainsync",
		Subsystem: "ingester",
		Name:      "blocks_total",
		Help:      "Count of block sync attempts.",
	}, []string{"status"})
	ingesterBlockDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "chainsync",
		Subsystem: "ingester",
		Name:      "block_duration_seconds",
		Help:      "Duration of syncing a single block.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12), // 0.1s..~3.4min
	}, []string{"status"})

	ingesterWindowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chainsync",
		Subsystem: "ingester",
		Name:      "windows_total",
		Help:      "Count of processed transaction windows.",
	}, []string{"provider", "status"})
	ingesterWindowTxs = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "chainsync",
		Subsystem: "ingester",
		Name:      "window_transactions",
		Help:      "Number of transactions persisted per window.",
		Buckets:   prometheus.LinearBuckets(0, 5, 6), // 0..25
	}, []string{"provider"})
)

// Ingester tracks metrics for the block ingestion pipeline.
type Ingester struct{}

// NewIngester constructs a metrics collector for the ingester.
func NewIngester() *Ingester {
	return &Ingester{}
}

// ObserveBlock records a block sync attempt outcome and duration.
func (m Ingester) ObserveBlock(err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}

	ingesterBlocksTotal.WithLabelValues(status).Inc()
	ingesterBlockDuration.WithLabelValues(status).Observe(time.Since(started).Seconds())
}

// ObserveWindow records one transaction window outcome and its persisted size.
func (m Ingester) ObserveWindow(provider string, err error, persisted int) {
	status := "success"
	if err != nil {
		status = "error"
	}

	ingesterWindowsTotal.WithLabelValues(provider, status).Inc()
	if err == nil {
		ingesterWindowTxs.WithLabelValues(provider).Observe(float64(persisted))
	}
}
