// Package postgres persists the canonical chain data. One exported method per
// query; every write is idempotent so an interrupted run can be repeated.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/satstream/chainsync/internal/clock"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}
)

const (
	connectAttempts = 5
	connectDelay    = 2 * time.Second
)

type Repository struct {
	pool    *pgxpool.Pool
	metrics Metrics
	logger  *zap.Logger
}

// NewRepository opens a connection pool against the DSN. A cold database is
// given a few chances to come up before the error is returned.
func NewRepository(ctx context.Context, dsn string, metrics Metrics, logger *zap.Logger) (*Repository, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	var pool *pgxpool.Pool
	for attempt := 0; attempt < connectAttempts; attempt++ {
		pool, err = pgxpool.NewWithConfig(ctx, config)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				break
			}
			pool.Close()
			pool = nil
		}

		if attempt == connectAttempts-1 {
			return nil, fmt.Errorf("connect postgres after %d attempts: %w", connectAttempts, err)
		}
		logger.Warn("postgres connection failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", connectDelay),
			zap.Error(err),
		)
		if sleepErr := clock.SleepWithContext(ctx, connectDelay); sleepErr != nil {
			return nil, sleepErr
		}
	}

	return &Repository{pool: pool, metrics: metrics, logger: logger}, nil
}

// Close releases the connection pool.
func (r *Repository) Close() {
	if r.pool != nil {
		r.pool.Close()
	}
}

// Ping checks database reachability.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
