package provider

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/ratelimit"

	"github.com/satstream/chainsync/internal/fetch"
	"github.com/satstream/chainsync/internal/model"
)

// Esplora fetches from any Esplora-compatible REST API. The upstream already
// speaks the canonical schema, so no field translation is needed; pagination
// is native via the /block/{hash}/txs/{start} endpoint.
type Esplora struct {
	name      string
	baseURL   string
	rateLimit int
	client    *fetch.Client
	limiter   ratelimit.Limiter
}

// NewEsplora builds a provider for an Esplora-compatible endpoint. rateLimit
// is the vendor's requests-per-minute budget and also drives the local
// request throttle.
func NewEsplora(name, baseURL string, rateLimit int, client *fetch.Client) *Esplora {
	return &Esplora{
		name:      name,
		baseURL:   baseURL,
		rateLimit: rateLimit,
		client:    client,
		limiter:   ratelimit.New(rateLimit, ratelimit.Per(time.Minute)),
	}
}

// NewBlockstream returns the blockstream.info instance.
func NewBlockstream(client *fetch.Client) *Esplora {
	return NewEsplora("blockstream", "https://blockstream.info/api", 600, client)
}

// NewMempool returns the mempool.space instance.
func NewMempool(client *fetch.Client) *Esplora {
	return NewEsplora("mempool", "https://mempool.space/api", 600, client)
}

// NewEmzy returns the mempool.emzy.de instance.
func NewEmzy(client *fetch.Client) *Esplora {
	return NewEsplora("emzy", "https://mempool.emzy.de/api", 600, client)
}

func (p *Esplora) Name() string { return p.name }

func (p *Esplora) RateLimit() int { return p.rateLimit }

// LatestBlocks fetches the latest headers, newest first.
func (p *Esplora) LatestBlocks(ctx context.Context, count int) ([]model.BlockHeader, error) {
	p.limiter.Take()

	var headers []model.BlockHeader
	if err := p.client.GetJSON(ctx, p.baseURL+"/blocks", &headers); err != nil {
		return nil, fmt.Errorf("%s latest blocks: %w", p.name, err)
	}
	if len(headers) > count {
		headers = headers[:count]
	}
	return headers, nil
}

// BlockTransactions fetches one window of transactions.
func (p *Esplora) BlockTransactions(ctx context.Context, blockHash string, startIndex int) ([]model.Transaction, error) {
	p.limiter.Take()

	url := fmt.Sprintf("%s/block/%s/txs/%d", p.baseURL, blockHash, startIndex)
	var txs []model.Transaction
	if err := p.client.GetJSON(ctx, url, &txs); err != nil {
		return nil, fmt.Errorf("%s block %s txs at %d: %w", p.name, blockHash, startIndex, err)
	}
	return txs, nil
}
