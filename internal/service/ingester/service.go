// Package ingester drives block ingestion: latest headers from a header
// source, then per block a bounded worker pool fetching fixed-size transaction
// windows from the provider pool and handing them to storage. Every write is
// idempotent, so a failed window is simply left for the next run.
package ingester

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/satstream/chainsync/internal/fetch"
	"github.com/satstream/chainsync/internal/model"
	"github.com/satstream/chainsync/internal/provider"
	"github.com/satstream/chainsync/pkg/workerpool"
)

// Config tunes one ingestion run.
type Config struct {
	// WorkerCount bounds the per-block window fetch concurrency.
	WorkerCount int
	// BlockCount is how many of the latest blocks to sync.
	BlockCount int
	// FetchRatio is the percentage of each block's declared transaction count
	// to ingest. 100 ingests the whole block.
	FetchRatio int
}

type Service struct {
	logger      *zap.Logger
	repo        Repository
	pool        ProviderPool
	headers     HeaderSource
	metrics     Metrics
	workerCount int
	blockCount  int
	fetchRatio  int
}

func NewService(
	repo Repository,
	pool ProviderPool,
	headers HeaderSource,
	metrics Metrics,
	cfg Config,
	logger *zap.Logger,
) (*Service, error) {
	if repo == nil {
		return nil, errors.New("repository is required")
	}
	if pool == nil {
		return nil, errors.New("provider pool is required")
	}
	if headers == nil {
		return nil, errors.New("header source is required")
	}
	if metrics == nil {
		return nil, errors.New("ingester metrics is required")
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = defaultWorkerCount
	}
	if cfg.BlockCount <= 0 {
		cfg.BlockCount = defaultBlockCount
	}
	if cfg.FetchRatio <= 0 || cfg.FetchRatio > 100 {
		cfg.FetchRatio = defaultFetchRatio
	}

	return &Service{
		logger:      logger,
		repo:        repo,
		pool:        pool,
		headers:     headers,
		metrics:     metrics,
		workerCount: cfg.WorkerCount,
		blockCount:  cfg.BlockCount,
		fetchRatio:  cfg.FetchRatio,
	}, nil
}

// Run syncs the latest blocks sequentially. A block that fails to sync is
// logged and skipped; a header source returning nothing aborts the run.
func (s *Service) Run(ctx context.Context) error {
	headers, err := s.headers.LatestBlocks(ctx, s.blockCount)
	if err != nil {
		return fmt.Errorf("fetch latest blocks: %w", err)
	}
	if len(headers) == 0 {
		return errors.New("header source returned no blocks")
	}

	for _, header := range headers {
		if err := ctx.Err(); err != nil {
			return err
		}

		started := time.Now()
		err := s.SyncBlock(ctx, header)
		s.metrics.ObserveBlock(err, started)
		if err != nil {
			s.logger.Error("block sync failed",
				zap.String("block", header.Hash),
				zap.Int64("height", header.Height),
				zap.Error(err),
			)
		}
	}
	return nil
}

// windowOutcome is one window's result; start indexes are only used for
// diagnostics since writes carry their own absolute positions.
type windowOutcome struct {
	start    int
	provider string
	stored   int
	err      error
}

// SyncBlock ingests one block: skip when already complete, store the header,
// then fetch and persist windows of transactions concurrently. Window failures
// are tolerated; the resulting totals are a lower bound on true progress.
func (s *Service) SyncBlock(ctx context.Context, header model.BlockHeader) error {
	logger := s.logger.With(
		zap.String("block", header.Hash),
		zap.Int64("height", header.Height),
	)

	if err := header.Validate(); err != nil {
		return fmt.Errorf("invalid block header: %w", err)
	}

	synced, err := s.repo.IsBlockFullySynced(ctx, header.Hash, header.TxCount)
	if err != nil {
		return fmt.Errorf("check block sync state: %w", err)
	}
	if synced {
		logger.Info("block already fully synced, skipping")
		return nil
	}

	if err := s.repo.InsertBlockHeader(ctx, header); err != nil {
		return fmt.Errorf("store block header: %w", err)
	}

	txsToFetch := header.TxCount * s.fetchRatio / 100
	starts := windowStarts(txsToFetch)
	logger.Info("syncing block",
		zap.Int("tx_count", header.TxCount),
		zap.Int("txs_to_fetch", txsToFetch),
		zap.Int("windows", len(starts)),
	)

	outcomes := workerpool.Collect(ctx, s.workerCount, starts,
		func(ctx context.Context, start int) windowOutcome {
			return s.syncWindow(ctx, header.Hash, start)
		})

	var stored, failed int
	for _, outcome := range outcomes {
		s.metrics.ObserveWindow(outcome.provider, outcome.err, outcome.stored)
		if outcome.err != nil {
			failed++
			logger.Warn("window failed",
				zap.Int("start", outcome.start),
				zap.String("provider", outcome.provider),
				zap.Error(outcome.err),
			)
			continue
		}
		stored += outcome.stored
	}

	logger.Info("block sync finished",
		zap.Int("stored", stored),
		zap.Int("windows", len(starts)),
		zap.Int("failed_windows", failed),
	)
	return nil
}

// syncWindow fetches one window through the next pooled provider and persists
// it. A fetch failure, or an empty result inside the expected range, cools the
// provider down and yields a zero-count outcome; the window is not retried
// within this run.
func (s *Service) syncWindow(ctx context.Context, blockHash string, start int) windowOutcome {
	p := s.pool.Next()
	name := p.Name()

	txs, err := p.BlockTransactions(ctx, blockHash, start)
	if err == nil && len(txs) == 0 {
		err = fmt.Errorf("provider %s returned no transactions at %d: %w", name, start, fetch.ErrNoData)
	}
	if err != nil {
		s.pool.ReportRateLimit(name, providerCooldown)
		return windowOutcome{start: start, provider: name, err: err}
	}

	stored, err := s.repo.InsertTransactionBatch(ctx, blockHash, start, txs)
	if err != nil {
		return windowOutcome{start: start, provider: name, err: fmt.Errorf("persist window at %d: %w", start, err)}
	}
	return windowOutcome{start: start, provider: name, stored: stored}
}

// windowStarts partitions [0, total) into fixed-size windows and returns the
// start index of each.
func windowStarts(total int) []int {
	if total <= 0 {
		return nil
	}
	starts := make([]int, 0, (total+provider.BatchSize-1)/provider.BatchSize)
	for start := 0; start < total; start += provider.BatchSize {
		starts = append(starts, start)
	}
	return starts
}
