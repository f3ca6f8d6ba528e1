package postgres

import (
	"context"
	"fmt"
	"time"
)

// IsBlockFullySynced reports whether the stored transaction count for a block
// has reached the declared total from its header.
func (r *Repository) IsBlockFullySynced(ctx context.Context, blockHash string, declaredTxCount int) (bool, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("is_block_fully_synced", err, start)
	}()

	const query = `
SELECT COUNT(*)
FROM bitcoin_transactions
WHERE block_hash = $1`

	var count int
	if err = r.pool.QueryRow(ctx, query, blockHash).Scan(&count); err != nil {
		err = fmt.Errorf("count transactions for block %s: %w", blockHash, err)
		return false, err
	}
	return count >= declaredTxCount, nil
}
