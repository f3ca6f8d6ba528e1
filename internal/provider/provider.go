// Package provider abstracts the upstream blockchain data vendors behind one
// capability: list the latest block headers and page through a block's
// transactions in fixed-size windows. Each implementation translates its
// vendor's JSON into the canonical model.
package provider

import (
	"context"

	"github.com/satstream/chainsync/internal/model"
)

// BatchSize is the number of transactions a provider returns per window.
// Callers pass a zero-based start index and receive at most BatchSize
// transactions, fewer at the tail of a block.
const BatchSize = 25

// Provider is one upstream data vendor.
type Provider interface {
	// Name is the stable identifier used for pool cooldowns and metrics.
	Name() string
	// RateLimit is the vendor's informational requests-per-minute budget.
	RateLimit() int
	// LatestBlocks returns up to count block headers, newest first. Vendors
	// without a usable headers endpoint return an empty slice.
	LatestBlocks(ctx context.Context, count int) ([]model.BlockHeader, error)
	// BlockTransactions returns the window of canonical transactions starting
	// at startIndex. Data absence surfaces as an error wrapping
	// fetch.ErrNoData, not as a panic or a nil-vs-empty convention.
	BlockTransactions(ctx context.Context, blockHash string, startIndex int) ([]model.Transaction, error)
}
