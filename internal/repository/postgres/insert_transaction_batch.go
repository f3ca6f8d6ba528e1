package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/satstream/chainsync/internal/model"
	"github.com/satstream/chainsync/pkg/safe"
)

// InsertTransactionBatch stores one window of transactions with their outputs,
// inputs and witnesses in a single database transaction. baseIndex is the
// window's offset within the block; each transaction's position is recorded as
// baseIndex plus its offset in the slice. Every statement is a no-op for rows
// already present, so replaying a window cannot duplicate data. Returns the
// number of transactions processed.
func (r *Repository) InsertTransactionBatch(ctx context.Context, blockHash string, baseIndex int, txs []model.Transaction) (int, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_transaction_batch", err, start)
	}()

	if len(txs) == 0 {
		return 0, nil
	}

	dbTx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction batch: %w", err)
	}
	defer dbTx.Rollback(ctx)

	for i, tx := range txs {
		var txIndex int32
		txIndex, err = safe.Int32(baseIndex + i)
		if err != nil {
			return 0, fmt.Errorf("transaction index for %s: %w", tx.TxID, err)
		}
		if err = r.insertTransaction(ctx, dbTx, blockHash, txIndex, tx); err != nil {
			return 0, err
		}
	}

	if err = dbTx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit transaction batch: %w", err)
	}
	return len(txs), nil
}

func (r *Repository) insertTransaction(ctx context.Context, dbTx pgx.Tx, blockHash string, txIndex int32, tx model.Transaction) error {
	const insertTx = `
INSERT INTO bitcoin_transactions (
	txid,
	block_hash,
	block_height,
	tx_index,
	version,
	locktime,
	size,
	weight,
	is_coinbase
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (txid) DO NOTHING`

	if _, err := dbTx.Exec(ctx, insertTx,
		tx.TxID,
		blockHash,
		tx.Status.BlockHeight,
		txIndex,
		tx.Version,
		tx.Locktime,
		tx.Size,
		tx.Weight,
		tx.IsCoinbase(),
	); err != nil {
		return fmt.Errorf("insert transaction %s: %w", tx.TxID, err)
	}

	const insertOutput = `
INSERT INTO bitcoin_outputs (
	txid,
	output_index,
	value,
	script_pubkey,
	script_pubkey_asm,
	script_pubkey_type,
	address
) VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT DO NOTHING`

	for n, vout := range tx.Vout {
		outputIndex, err := safe.Int32(n)
		if err != nil {
			return fmt.Errorf("output index for %s: %w", tx.TxID, err)
		}
		if _, err := dbTx.Exec(ctx, insertOutput,
			tx.TxID,
			outputIndex,
			vout.Value,
			vout.ScriptPubKey,
			vout.ScriptPubKeyAsm,
			vout.ScriptPubKeyType,
			vout.ScriptPubKeyAddress,
		); err != nil {
			return fmt.Errorf("insert output %s:%d: %w", tx.TxID, n, err)
		}
	}

	const insertInput = `
INSERT INTO bitcoin_inputs (
	txid,
	input_index,
	prev_txid,
	prev_vout,
	script_sig,
	script_sig_asm,
	sequence,
	is_coinbase
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT DO NOTHING`

	const insertWitness = `
INSERT INTO bitcoin_witnesses (
	txid,
	input_index,
	witness_index,
	witness
) VALUES ($1, $2, $3, $4)
ON CONFLICT DO NOTHING`

	for n, vin := range tx.Vin {
		inputIndex, err := safe.Int32(n)
		if err != nil {
			return fmt.Errorf("input index for %s: %w", tx.TxID, err)
		}
		if _, err := dbTx.Exec(ctx, insertInput,
			tx.TxID,
			inputIndex,
			vin.TxID,
			vin.Vout,
			vin.ScriptSig,
			vin.ScriptSigAsm,
			vin.Sequence,
			vin.IsCoinbase,
		); err != nil {
			return fmt.Errorf("insert input %s:%d: %w", tx.TxID, n, err)
		}

		for w, witness := range vin.Witness {
			witnessIndex, err := safe.Int32(w)
			if err != nil {
				return fmt.Errorf("witness index for %s: %w", tx.TxID, err)
			}
			if _, err := dbTx.Exec(ctx, insertWitness,
				tx.TxID,
				inputIndex,
				witnessIndex,
				witness,
			); err != nil {
				return fmt.Errorf("insert witness %s:%d:%d: %w", tx.TxID, n, w, err)
			}
		}
	}
	return nil
}
