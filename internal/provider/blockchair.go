package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/ratelimit"

	"github.com/satstream/chainsync/internal/fetch"
	"github.com/satstream/chainsync/internal/model"
)

// Blockchair fetches from api.blockchair.com. The vendor has no single
// windowed endpoint, so a window costs two requests: the block dashboard for
// the ordered txid list, then a batched transaction dashboard for the details.
type Blockchair struct {
	baseURL string
	client  *fetch.Client
	limiter ratelimit.Limiter
}

const blockchairRateLimit = 600

const blockchairTimeLayout = "2006-01-02 15:04:05"

// NewBlockchair builds the blockchair.com provider.
func NewBlockchair(client *fetch.Client) *Blockchair {
	return &Blockchair{
		baseURL: "https://api.blockchair.com/bitcoin",
		client:  client,
		limiter: ratelimit.New(blockchairRateLimit, ratelimit.Per(time.Minute)),
	}
}

func (p *Blockchair) Name() string { return "blockchair" }

func (p *Blockchair) RateLimit() int { return blockchairRateLimit }

type (
	bcBlocksResponse struct {
		Data []bcBlock `json:"data"`
	}
	bcBlock struct {
		Hash             string `json:"hash"`
		ID               int64  `json:"id"` // Blockchair uses id for height
		Time             string `json:"time"`
		TransactionCount int    `json:"transaction_count"`
		Version          int64  `json:"version"`
		MerkleRoot       string `json:"merkle_root"`
		Bits             int64  `json:"bits"`
		Nonce            int64  `json:"nonce"`
	}
	bcBlockDashboard struct {
		Data map[string]struct {
			Transactions []string `json:"transactions"`
		} `json:"data"`
	}
	bcTxDashboard struct {
		Data map[string]bcTxDetail `json:"data"`
	}
	bcTxDetail struct {
		Transaction bcTransaction `json:"transaction"`
		Inputs      []bcInput     `json:"inputs"`
		Outputs     []bcOutput    `json:"outputs"`
	}
	bcTransaction struct {
		BlockID  int64 `json:"block_id"`
		Version  int64 `json:"version"`
		LockTime int64 `json:"lock_time"`
		Size     int64 `json:"size"`
		Weight   int64 `json:"weight"`
	}
	bcInput struct {
		SpendingTransactionHash *string `json:"spending_transaction_hash"`
		SpendingOutputIndex     *int64  `json:"spending_output_index"`
		Value                   int64   `json:"value"`
		Recipient               string  `json:"recipient"`
		ScriptHex               string  `json:"script_hex"`
		Sequence                int64   `json:"sequence"`
		IsFromCoinbase          bool    `json:"is_from_coinbase"`
	}
	bcOutput struct {
		Value     int64   `json:"value"`
		ScriptHex string  `json:"script_hex"`
		Recipient *string `json:"recipient"`
	}
)

// LatestBlocks fetches the latest headers from the blocks listing.
func (p *Blockchair) LatestBlocks(ctx context.Context, count int) ([]model.BlockHeader, error) {
	p.limiter.Take()

	var resp bcBlocksResponse
	url := fmt.Sprintf("%s/blocks?limit=%d", p.baseURL, count)
	if err := p.client.GetJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("blockchair blocks: %w", err)
	}

	headers := make([]model.BlockHeader, 0, len(resp.Data))
	for _, b := range resp.Data {
		ts, err := time.ParseInLocation(blockchairTimeLayout, b.Time, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("blockchair block %s time %q: %w", b.Hash, b.Time, err)
		}
		headers = append(headers, model.BlockHeader{
			Hash:       b.Hash,
			Height:     b.ID,
			Timestamp:  ts.Unix(),
			TxCount:    b.TransactionCount,
			Version:    b.Version,
			MerkleRoot: b.MerkleRoot,
			Bits:       b.Bits,
			Nonce:      b.Nonce,
			// The listing view does not carry the previous block hash.
		})
	}
	return headers, nil
}

// BlockTransactions fetches one window through the two-step dashboards flow.
func (p *Blockchair) BlockTransactions(ctx context.Context, blockHash string, startIndex int) ([]model.Transaction, error) {
	p.limiter.Take()

	var dashboard bcBlockDashboard
	url := fmt.Sprintf("%s/dashboards/block/%s", p.baseURL, blockHash)
	if err := p.client.GetJSON(ctx, url, &dashboard); err != nil {
		return nil, fmt.Errorf("blockchair block dashboard %s: %w", blockHash, err)
	}
	entry, ok := dashboard.Data[blockHash]
	if !ok {
		return nil, fmt.Errorf("blockchair block dashboard %s: block missing from response: %w", blockHash, fetch.ErrNoData)
	}

	txids := entry.Transactions
	if startIndex >= len(txids) {
		return []model.Transaction{}, nil
	}
	end := startIndex + BatchSize
	if end > len(txids) {
		end = len(txids)
	}
	window := txids[startIndex:end]

	p.limiter.Take()
	var details bcTxDashboard
	url = fmt.Sprintf("%s/dashboards/transactions/%s", p.baseURL, strings.Join(window, ","))
	if err := p.client.GetJSON(ctx, url, &details); err != nil {
		return nil, fmt.Errorf("blockchair tx dashboard: %w", err)
	}

	txs := make([]model.Transaction, 0, len(window))
	for _, txid := range window {
		detail, ok := details.Data[txid]
		if !ok {
			continue
		}
		txs = append(txs, translateBlockchair(txid, blockHash, detail))
	}
	return txs, nil
}

func translateBlockchair(txid, blockHash string, detail bcTxDetail) model.Transaction {
	vin := make([]model.Input, 0, len(detail.Inputs))
	for _, in := range detail.Inputs {
		vin = append(vin, model.Input{
			TxID: in.SpendingTransactionHash,
			Vout: in.SpendingOutputIndex,
			Prevout: &model.Prevout{
				Value: in.Value,
				// The dashboard exposes the recipient, not the script, for
				// the spent output; the script hex below is the unlocking
				// script of this input.
			},
			ScriptSig:  in.ScriptHex,
			Sequence:   in.Sequence,
			IsCoinbase: in.IsFromCoinbase,
		})
	}

	vout := make([]model.Output, 0, len(detail.Outputs))
	for _, out := range detail.Outputs {
		vout = append(vout, model.Output{
			Value:               out.Value,
			ScriptPubKey:        out.ScriptHex,
			ScriptPubKeyAddress: out.Recipient,
		})
	}

	return model.Transaction{
		TxID:     txid,
		Version:  detail.Transaction.Version,
		Locktime: detail.Transaction.LockTime,
		Size:     detail.Transaction.Size,
		Weight:   detail.Transaction.Weight,
		Vin:      vin,
		Vout:     vout,
		Status: model.Status{
			Confirmed:   true,
			BlockHeight: detail.Transaction.BlockID,
			BlockHash:   blockHash,
		},
	}
}
