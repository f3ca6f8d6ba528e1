package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pgRepoRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chainsync",
		Subsystem: "postgres_repository",
		Name:      "operations_total",
		Help:      "Count of Postgres repository operations.",
	}, []string{"operation", "status"})
	pgRepoRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "chainsync",
		Subsystem: "postgres_repository",
		Name:      "operation_duration_seconds",
		Help:      "Duration of Postgres repository operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "status"})
)

// PostgresRepository tracks metrics for repository queries.
type PostgresRepository struct{}

// NewPostgresRepository constructs a metrics collector for the repository.
func NewPostgresRepository() *PostgresRepository {
	return &PostgresRepository{}
}

// Observe records a single repository operation outcome and duration.
func (m PostgresRepository) Observe(operation string, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}

	pgRepoRequestsTotal.WithLabelValues(operation, status).Inc()
	pgRepoRequestDuration.WithLabelValues(operation, status).Observe(time.Since(started).Seconds())
}
