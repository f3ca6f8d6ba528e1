package ingester

import (
	"context"
	"time"

	"github.com/satstream/chainsync/internal/model"
	"github.com/satstream/chainsync/internal/provider"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	HeaderSource interface {
		LatestBlocks(ctx context.Context, count int) ([]model.BlockHeader, error)
	}
	ProviderPool interface {
		Next() provider.Provider
		ReportRateLimit(name string, retryAfter time.Duration)
	}
	Repository interface {
		InsertBlockHeader(ctx context.Context, header model.BlockHeader) error
		InsertTransactionBatch(ctx context.Context, blockHash string, baseIndex int, txs []model.Transaction) (int, error)
		IsBlockFullySynced(ctx context.Context, blockHash string, declaredTxCount int) (bool, error)
	}
	Metrics interface {
		ObserveBlock(err error, started time.Time)
		ObserveWindow(provider string, err error, persisted int)
	}
)
