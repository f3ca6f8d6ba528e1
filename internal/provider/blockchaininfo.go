package provider

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/ratelimit"
	"go.uber.org/zap"

	"github.com/satstream/chainsync/internal/fetch"
	"github.com/satstream/chainsync/internal/model"
	"github.com/satstream/chainsync/internal/script"
)

// BlockchainInfo fetches from the blockchain.info legacy API. The vendor has
// no windowed transaction endpoint, so the full block dump is fetched once
// per hash, cached and sliced client-side. Cache population is guarded per
// block hash: concurrent window requests for the same block trigger exactly
// one upstream fetch, and a failed fetch is not cached so a later window can
// retry it.
type BlockchainInfo struct {
	baseURL string
	client  *fetch.Client
	decoder *script.Decoder
	limiter ratelimit.Limiter
	logger  *zap.Logger

	mu    sync.Mutex
	cache map[string]*blockEntry
}

type blockEntry struct {
	ready chan struct{}
	txs   []model.Transaction
	err   error
}

const blockchainInfoRateLimit = 1000

// NewBlockchainInfo builds the blockchain.info provider. decoder fills the
// script disassembly, type and address fields the legacy schema omits; it may
// be nil, in which case those fields stay absent.
func NewBlockchainInfo(client *fetch.Client, decoder *script.Decoder, logger *zap.Logger) *BlockchainInfo {
	return &BlockchainInfo{
		baseURL: "https://blockchain.info",
		client:  client,
		decoder: decoder,
		limiter: ratelimit.New(blockchainInfoRateLimit, ratelimit.Per(time.Minute)),
		logger:  logger,
		cache:   make(map[string]*blockEntry),
	}
}

func (p *BlockchainInfo) Name() string { return "blockchain_info" }

func (p *BlockchainInfo) RateLimit() int { return blockchainInfoRateLimit }

// LatestBlocks returns no headers: the vendor has no endpoint compatible with
// the latest-blocks contract, so this provider serves transaction windows only.
func (p *BlockchainInfo) LatestBlocks(_ context.Context, _ int) ([]model.BlockHeader, error) {
	return []model.BlockHeader{}, nil
}

// BlockTransactions slices one window out of the cached full-block dump.
func (p *BlockchainInfo) BlockTransactions(ctx context.Context, blockHash string, startIndex int) ([]model.Transaction, error) {
	txs, err := p.blockTxs(ctx, blockHash)
	if err != nil {
		return nil, err
	}

	if startIndex >= len(txs) {
		return []model.Transaction{}, nil
	}
	end := startIndex + BatchSize
	if end > len(txs) {
		end = len(txs)
	}
	return txs[startIndex:end], nil
}

// blockTxs returns the translated transactions of a block, fetching the dump
// at most once per hash across concurrent callers.
func (p *BlockchainInfo) blockTxs(ctx context.Context, blockHash string) ([]model.Transaction, error) {
	p.mu.Lock()
	entry, ok := p.cache[blockHash]
	if ok {
		p.mu.Unlock()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-entry.ready:
		}
		return entry.txs, entry.err
	}

	entry = &blockEntry{ready: make(chan struct{})}
	p.cache[blockHash] = entry
	p.mu.Unlock()

	entry.txs, entry.err = p.fetchBlock(ctx, blockHash)
	if entry.err != nil {
		// Drop the failed entry so a later window retries the fetch.
		p.mu.Lock()
		delete(p.cache, blockHash)
		p.mu.Unlock()
	}
	close(entry.ready)
	return entry.txs, entry.err
}

func (p *BlockchainInfo) fetchBlock(ctx context.Context, blockHash string) ([]model.Transaction, error) {
	p.limiter.Take()

	var raw biBlock
	if err := p.client.GetJSON(ctx, p.baseURL+"/rawblock/"+blockHash, &raw); err != nil {
		return nil, fmt.Errorf("blockchain_info rawblock %s: %w", blockHash, err)
	}
	if len(raw.Tx) == 0 {
		return nil, fmt.Errorf("blockchain_info rawblock %s: empty transaction list: %w", blockHash, fetch.ErrNoData)
	}

	txs := make([]model.Transaction, 0, len(raw.Tx))
	for _, tx := range raw.Tx {
		txs = append(txs, p.translate(tx, blockHash))
	}
	return txs, nil
}

// blockchain.info rawblock schema.
type (
	biBlock struct {
		Tx []biTx `json:"tx"`
	}
	biTx struct {
		Hash        string     `json:"hash"`
		Ver         int64      `json:"ver"`
		LockTime    int64      `json:"lock_time"`
		Size        int64      `json:"size"`
		Weight      int64      `json:"weight"`
		BlockHeight int64      `json:"block_height"`
		Inputs      []biInput  `json:"inputs"`
		Out         []biOutput `json:"out"`
	}
	biInput struct {
		Sequence int64      `json:"sequence"`
		Script   string     `json:"script"`
		PrevOut  *biPrevOut `json:"prev_out"`
	}
	biPrevOut struct {
		N      *int64 `json:"n"`
		Value  int64  `json:"value"`
		Script string `json:"script"`
	}
	biOutput struct {
		Value  int64   `json:"value"`
		Script string  `json:"script"`
		Addr   *string `json:"addr"`
	}
)

// translate maps the legacy schema onto the canonical model. The vendor does
// not expose the previous transaction id in this view, so input txids stay
// nil; script metadata missing upstream is derived locally where a decoder is
// available.
func (p *BlockchainInfo) translate(tx biTx, blockHash string) model.Transaction {
	vin := make([]model.Input, 0, len(tx.Inputs))
	for _, in := range tx.Inputs {
		input := model.Input{
			ScriptSig:  in.Script,
			Sequence:   in.Sequence,
			IsCoinbase: in.PrevOut == nil,
		}
		if in.PrevOut != nil {
			input.Vout = in.PrevOut.N
			input.Prevout = &model.Prevout{
				Value:        in.PrevOut.Value,
				ScriptPubKey: in.PrevOut.Script,
			}
		}
		if p.decoder != nil && in.Script != "" {
			asm, err := p.decoder.Disasm(in.Script)
			if err != nil {
				p.logger.Debug("scriptsig disasm failed",
					zap.String("txid", tx.Hash), zap.Error(err))
			} else {
				input.ScriptSigAsm = asm
			}
		}
		vin = append(vin, input)
	}

	vout := make([]model.Output, 0, len(tx.Out))
	for _, out := range tx.Out {
		output := model.Output{
			Value:               out.Value,
			ScriptPubKey:        out.Script,
			ScriptPubKeyAddress: out.Addr,
		}
		if p.decoder != nil && out.Script != "" {
			decoded, err := p.decoder.DecodeOutput(out.Script)
			if err != nil {
				p.logger.Debug("scriptpubkey decode failed",
					zap.String("txid", tx.Hash), zap.Error(err))
			} else {
				output.ScriptPubKeyAsm = decoded.Asm
				output.ScriptPubKeyType = decoded.Type
				if output.ScriptPubKeyAddress == nil {
					output.ScriptPubKeyAddress = decoded.Address
				}
			}
		}
		vout = append(vout, output)
	}

	return model.Transaction{
		TxID:     tx.Hash,
		Version:  tx.Ver,
		Locktime: tx.LockTime,
		Size:     tx.Size,
		Weight:   tx.Weight,
		Vin:      vin,
		Vout:     vout,
		Status: model.Status{
			Confirmed:   true,
			BlockHeight: tx.BlockHeight,
			BlockHash:   blockHash,
		},
	}
}
