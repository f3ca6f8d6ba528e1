// Package model defines the canonical block and transaction shapes shared by
// all providers and the storage layer. The JSON tags follow the Esplora API
// schema; providers with other upstream formats translate into these types.
package model

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// BlockHeader is a block summary as returned by a provider's latest-blocks
// endpoint. Created once per distinct hash, never mutated.
type BlockHeader struct {
	Hash              string `json:"id"`
	PreviousBlockHash string `json:"previousblockhash,omitempty"`
	Height            int64  `json:"height"`
	Version           int64  `json:"version"`
	MerkleRoot        string `json:"merkle_root"`
	Timestamp         int64  `json:"timestamp"`
	Bits              int64  `json:"bits"`
	Nonce             int64  `json:"nonce"`
	TxCount           int    `json:"tx_count"`
}

// Validate checks that the header carries a well-formed block hash and, when
// present, merkle root. Vendor responses are untrusted input.
func (h BlockHeader) Validate() error {
	if _, err := chainhash.NewHashFromStr(h.Hash); err != nil {
		return fmt.Errorf("block hash %q: %w", h.Hash, err)
	}
	if h.MerkleRoot != "" {
		if _, err := chainhash.NewHashFromStr(h.MerkleRoot); err != nil {
			return fmt.Errorf("merkle root %q: %w", h.MerkleRoot, err)
		}
	}
	if h.Height < 0 {
		return fmt.Errorf("negative block height %d", h.Height)
	}
	return nil
}
