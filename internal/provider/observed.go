package provider

import (
	"context"
	"time"

	"github.com/satstream/chainsync/internal/model"
)

type (
	// Metrics records the outcome of provider operations.
	Metrics interface {
		Observe(provider, operation string, err error, started time.Time)
	}
)

// Observed instruments a provider with per-operation metrics.
type Observed struct {
	inner   Provider
	metrics Metrics
}

// NewObserved wraps a provider with metrics instrumentation.
func NewObserved(inner Provider, metrics Metrics) *Observed {
	return &Observed{inner: inner, metrics: metrics}
}

func (o *Observed) Name() string { return o.inner.Name() }

func (o *Observed) RateLimit() int { return o.inner.RateLimit() }

func (o *Observed) LatestBlocks(ctx context.Context, count int) (headers []model.BlockHeader, err error) {
	started := time.Now()
	defer func() {
		o.metrics.Observe(o.inner.Name(), "latest_blocks", err, started)
	}()
	return o.inner.LatestBlocks(ctx, count)
}

func (o *Observed) BlockTransactions(ctx context.Context, blockHash string, startIndex int) (txs []model.Transaction, err error) {
	started := time.Now()
	defer func() {
		o.metrics.Observe(o.inner.Name(), "block_transactions", err, started)
	}()
	return o.inner.BlockTransactions(ctx, blockHash, startIndex)
}
