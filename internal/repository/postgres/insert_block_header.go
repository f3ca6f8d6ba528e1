package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/satstream/chainsync/internal/model"
)

// InsertBlockHeader stores one block header. A header that is already present
// is left untouched, so re-syncing a block is safe.
func (r *Repository) InsertBlockHeader(ctx context.Context, header model.BlockHeader) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_block_header", err, start)
	}()

	const query = `
INSERT INTO bitcoin_blocks (
	block_hash,
	previous_block_hash,
	height,
	version,
	merkle_root,
	timestamp,
	bits,
	nonce,
	tx_count
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (block_hash) DO NOTHING`

	_, err = r.pool.Exec(ctx, query,
		header.Hash,
		header.PreviousBlockHash,
		header.Height,
		header.Version,
		header.MerkleRoot,
		header.Timestamp,
		header.Bits,
		header.Nonce,
		header.TxCount,
	)
	if err != nil {
		err = fmt.Errorf("insert block header %s: %w", header.Hash, err)
		return err
	}
	return nil
}
