// Package ledger implements the blockchain ledger engine: the in-memory
// data model and state-transition rules that accept or reject a new
// block, admit or reject a new transaction into the mempool, maintain
// the set of unspent outputs, and retarget proof-of-work difficulty.
package ledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/arejula27/ledgerchain/pkg/block"
	"github.com/arejula27/ledgerchain/pkg/tx"
	"github.com/arejula27/ledgerchain/pkg/types"
	"github.com/arejula27/ledgerchain/pkg/u256"
	"github.com/rs/zerolog"
)

// utxoEntry is a single entry in the UTXO set: the output itself, and
// whether some mempool transaction currently has a soft reservation on
// it.
type utxoEntry struct {
	marked bool
	output tx.TransactionOutput
}

// mempoolEntry is a pending transaction together with the time it was
// admitted, used by CleanupMempool to expire stale entries.
type mempoolEntry struct {
	admittedAt time.Time
	tx         *tx.Transaction
}

// Engine is the sole mutator of the chain, UTXO set, target, and
// mempool. All operations are linearizable: reads take a shared lock,
// writes take an exclusive one. The zero value is not usable; use New.
type Engine struct {
	mu sync.RWMutex

	blocks  []*block.Block
	utxos   map[types.Hash]*utxoEntry
	target  u256.U256
	mempool []*mempoolEntry

	log zerolog.Logger
}

// New returns an empty engine with the target initialized to MinTarget.
func New(log zerolog.Logger) *Engine {
	return &Engine{
		utxos:  make(map[types.Hash]*utxoEntry),
		target: MinTarget,
		log:    log.With().Str("component", "ledger").Logger(),
	}
}

// Restore rebuilds an engine from a previously persisted chain: the
// accepted blocks in order and the target they left behind. The
// mempool is never persisted, matching the engine's lifecycle
// contract, so callers must follow with RebuildUTXOs to repopulate the
// UTXO set from the restored blocks.
func Restore(log zerolog.Logger, blocks []*block.Block, target u256.U256) *Engine {
	e := New(log)
	e.blocks = blocks
	e.target = target
	return e
}

// Height returns the number of accepted blocks.
func (e *Engine) Height() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return uint64(len(e.blocks))
}

// Target returns the current proof-of-work target.
func (e *Engine) Target() u256.U256 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.target
}

// Blocks returns a snapshot of the accepted blocks in chain order. The
// returned slice is a copy; mutating it does not affect the engine.
func (e *Engine) Blocks() []*block.Block {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*block.Block, len(e.blocks))
	copy(out, e.blocks)
	return out
}

// UTXOs returns a snapshot of the unspent output set, keyed by output
// hash. The snapshot holds the outputs only; whether each is currently
// reserved by the mempool is not included.
func (e *Engine) UTXOs() map[types.Hash]tx.TransactionOutput {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[types.Hash]tx.TransactionOutput, len(e.utxos))
	for h, entry := range e.utxos {
		out[h] = entry.output
	}
	return out
}

// Mempool returns a snapshot of pending transactions, ordered as the
// engine currently holds them (by descending miner fee).
func (e *Engine) Mempool() []*tx.Transaction {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*tx.Transaction, len(e.mempool))
	for i, m := range e.mempool {
		out[i] = m.tx
	}
	return out
}

// reject logs a structured warning for a rejected block or transaction —
// the hash of the thing that failed and the error it failed with — and
// returns err unchanged, so every rejection path stays observable per
// §7's logging contract.
func (e *Engine) reject(hash types.Hash, err error) error {
	e.log.Warn().Str("hash", hash.String()).Err(err).Msg("rejected")
	return err
}

// AddBlock validates and appends a block extending the current tip.
//
// The genesis case (empty chain) requires a zero prev_block_hash, a
// matching Merkle root, and a first transaction with no inputs and at
// least one output; target, timestamp, and reward amount are not
// checked. Every later block must chain to the tip, meet
// its own target, commit the correct Merkle root, carry a timestamp
// strictly after the tip's, and pass transaction verification. On
// success the UTXO set is updated incrementally (outputs spent by the
// block's inputs are removed, its new outputs are inserted), mempool
// entries for transactions the block includes are dropped, and the target
// is retargeted if this block completes a retargeting interval.
func (e *Engine) AddBlock(b *block.Block) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.blocks) == 0 {
		if b.Header.PrevBlockHash != types.ZeroHash {
			return e.reject(b.Hash(), fmt.Errorf("%w: genesis prev_block_hash must be zero", ErrInvalidBlock))
		}
		if !b.VerifyMerkleRoot() {
			return e.reject(b.Hash(), fmt.Errorf("%w: genesis merkle root does not match transactions", ErrInvalidMerkleRoot))
		}
		if len(b.Transactions) == 0 {
			return e.reject(b.Hash(), fmt.Errorf("%w: genesis block has no transactions", ErrInvalidBlock))
		}
		coinbase := b.Transactions[0]
		if len(coinbase.Inputs) != 0 || len(coinbase.Outputs) == 0 {
			return e.reject(b.Hash(), fmt.Errorf("%w: genesis coinbase must have no inputs and at least one output", ErrInvalidTransaction))
		}
		// Target, timestamp monotonicity, and coinbase reward amount are
		// intentionally not checked here: genesis has no predecessor to
		// compare against and bootstraps the chain by construction.
	} else {
		tip := e.blocks[len(e.blocks)-1]

		if b.Header.PrevBlockHash != tip.Hash() {
			return e.reject(b.Hash(), fmt.Errorf("%w: prev_block_hash does not match tip", ErrInvalidBlock))
		}
		if !b.Hash().MatchesTarget(b.Header.Target) {
			return e.reject(b.Hash(), fmt.Errorf("%w: block hash does not meet its target", ErrInvalidBlock))
		}
		if !b.VerifyMerkleRoot() {
			return e.reject(b.Hash(), fmt.Errorf("%w: merkle root does not match transactions", ErrInvalidMerkleRoot))
		}
		if b.Header.Timestamp <= tip.Header.Timestamp {
			return e.reject(b.Hash(), fmt.Errorf("%w: timestamp does not advance past tip", ErrInvalidBlock))
		}
		if err := e.verifyTransactions(b, uint64(len(e.blocks))); err != nil {
			return e.reject(b.Hash(), err)
		}
	}

	included := make(map[types.Hash]struct{}, len(b.Transactions))
	for _, t := range b.Transactions {
		included[t.Hash()] = struct{}{}

		for _, in := range t.Inputs {
			delete(e.utxos, in.PrevTransactionOutputHash)
		}
		for _, out := range t.Outputs {
			e.utxos[out.Hash()] = &utxoEntry{output: out}
		}
	}

	kept := e.mempool[:0]
	for _, m := range e.mempool {
		if _, gone := included[m.tx.Hash()]; !gone {
			kept = append(kept, m)
		}
	}
	e.mempool = kept

	e.blocks = append(e.blocks, b)
	e.target = e.tryAdjustTargetLocked()

	e.log.Info().
		Uint64("height", uint64(len(e.blocks))).
		Str("block", b.Hash().String()).
		Int("txs", len(b.Transactions)).
		Msg("accepted block")
	return nil
}

// verifyTransactions runs §4.1.2: a coinbase reward/fee check against
// transactions[0], and per-transaction input/signature/conservation
// checks across the whole block (including the coinbase, for which the
// input loop is a no-op).
func (e *Engine) verifyTransactions(b *block.Block, predictedHeight uint64) error {
	if len(b.Transactions) == 0 {
		return fmt.Errorf("%w: block has no transactions", ErrInvalidBlock)
	}

	for _, t := range b.Transactions {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidTransaction, err)
		}
	}

	coinbase := b.Transactions[0]
	if len(coinbase.Inputs) != 0 {
		return fmt.Errorf("%w: coinbase transaction must have no inputs", ErrInvalidTransaction)
	}
	if len(coinbase.Outputs) == 0 {
		return fmt.Errorf("%w: coinbase transaction must have outputs", ErrInvalidTransaction)
	}

	var nonCoinbaseInputValue, nonCoinbaseOutputValue uint64
	for _, t := range b.Transactions[1:] {
		for _, in := range t.Inputs {
			entry, ok := e.utxos[in.PrevTransactionOutputHash]
			if !ok {
				return fmt.Errorf("%w: input references unknown output", ErrInvalidTransaction)
			}
			nonCoinbaseInputValue += entry.output.Value
		}
		nonCoinbaseOutputValue += t.TotalOutputValue()
	}
	minerFees := nonCoinbaseInputValue - nonCoinbaseOutputValue

	blockReward := uint64(InitialReward*SatoshiPerUnit) >> (predictedHeight / HalvingInterval)
	if coinbase.TotalOutputValue() != blockReward+minerFees {
		return fmt.Errorf("%w: coinbase reward does not match block_reward + fees", ErrInvalidTransaction)
	}

	seenInputs := make(map[types.Hash]struct{})
	for _, t := range b.Transactions {
		var inputValue uint64
		for _, in := range t.Inputs {
			if _, dup := seenInputs[in.PrevTransactionOutputHash]; dup {
				return fmt.Errorf("%w: input spent twice within block", ErrInvalidTransaction)
			}
			seenInputs[in.PrevTransactionOutputHash] = struct{}{}

			entry, ok := e.utxos[in.PrevTransactionOutputHash]
			if !ok {
				return fmt.Errorf("%w: input references unknown output", ErrInvalidTransaction)
			}
			if !in.Signature.Verify(in.PrevTransactionOutputHash, entry.output.PubKey) {
				return fmt.Errorf("%w: input signature does not verify", ErrInvalidSignature)
			}
			inputValue += entry.output.Value
		}
		if inputValue < t.TotalOutputValue() {
			return fmt.Errorf("%w: outputs exceed inputs", ErrInvalidTransaction)
		}
	}
	return nil
}

// RebuildUTXOs resets the UTXO set to empty and replays every block in
// order, used to restore utxos after loading a persisted chain.
func (e *Engine) RebuildUTXOs() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.utxos = make(map[types.Hash]*utxoEntry)
	for _, b := range e.blocks {
		for _, t := range b.Transactions {
			for _, in := range t.Inputs {
				delete(e.utxos, in.PrevTransactionOutputHash)
			}
			for _, out := range t.Outputs {
				e.utxos[out.Hash()] = &utxoEntry{output: out}
			}
		}
	}
}

// tryAdjustTargetLocked implements §4.1.4; caller must hold e.mu.
func (e *Engine) tryAdjustTargetLocked() u256.U256 {
	n := len(e.blocks)
	if n == 0 || n%DifficultyUpdateInterval != 0 {
		return e.target
	}
	start := e.blocks[n-DifficultyUpdateInterval].Header.Timestamp
	end := e.blocks[n-1].Header.Timestamp
	newTarget := tryAdjustTarget(e.target, end-start)

	e.log.Info().
		Str("old_target", e.target.String()).
		Str("new_target", newTarget.String()).
		Msg("retargeted difficulty")
	return newTarget
}

// AddToMempool admits a non-coinbase transaction to the pending pool.
// See §4.1.5: existing reservations on referenced UTXOs are resolved by
// evicting the mempool transaction that produced them (or just
// unmarking, if that output came from a confirmed block), values must
// conserve, and the pool is kept sorted by descending miner fee.
func (e *Engine) AddToMempool(t *tx.Transaction) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := t.Validate(); err != nil {
		return e.reject(t.Hash(), fmt.Errorf("%w: %v", ErrInvalidTransaction, err))
	}

	// Validate already rejects a transaction that spends the same output
	// twice, so only existence needs checking here.
	for _, in := range t.Inputs {
		if _, ok := e.utxos[in.PrevTransactionOutputHash]; !ok {
			return e.reject(t.Hash(), fmt.Errorf("%w: input references unknown output", ErrInvalidTransaction))
		}
	}

	for _, in := range t.Inputs {
		entry := e.utxos[in.PrevTransactionOutputHash]
		if !entry.marked {
			continue
		}
		if idx, producer := e.findMempoolProducer(in.PrevTransactionOutputHash); producer != nil {
			for _, producerInput := range producer.tx.Inputs {
				if e2 := e.utxos[producerInput.PrevTransactionOutputHash]; e2 != nil {
					e2.marked = false
				}
			}
			e.mempool = append(e.mempool[:idx], e.mempool[idx+1:]...)
		} else {
			entry.marked = false
		}
	}

	var inputValue, outputValue uint64
	for _, in := range t.Inputs {
		inputValue += e.utxos[in.PrevTransactionOutputHash].output.Value
	}
	outputValue = t.TotalOutputValue()
	if inputValue < outputValue {
		return e.reject(t.Hash(), fmt.Errorf("%w: outputs exceed inputs", ErrInvalidTransaction))
	}

	for _, in := range t.Inputs {
		e.utxos[in.PrevTransactionOutputHash].marked = true
	}

	e.mempool = append(e.mempool, &mempoolEntry{admittedAt: time.Now(), tx: t})
	e.sortMempoolByFeeLocked()

	e.log.Info().Str("tx", t.Hash().String()).Msg("admitted transaction to mempool")
	return nil
}

// findMempoolProducer searches the mempool for a pending transaction
// whose outputs include outputHash, returning its index.
func (e *Engine) findMempoolProducer(outputHash types.Hash) (int, *mempoolEntry) {
	for i, m := range e.mempool {
		for _, out := range m.tx.Outputs {
			if out.Hash() == outputHash {
				return i, m
			}
		}
	}
	return -1, nil
}

// sortMempoolByFeeLocked orders the mempool by descending miner fee;
// caller must hold e.mu.
func (e *Engine) sortMempoolByFeeLocked() {
	fee := func(m *mempoolEntry) uint64 {
		var in uint64
		for _, input := range m.tx.Inputs {
			in += e.utxos[input.PrevTransactionOutputHash].output.Value
		}
		return in - m.tx.TotalOutputValue()
	}
	// Simple insertion sort: the mempool is expected to stay small in
	// this single-process engine. Fees are recomputed on every
	// comparison.
	for i := 1; i < len(e.mempool); i++ {
		j := i
		for j > 0 && fee(e.mempool[j-1]) < fee(e.mempool[j]) {
			e.mempool[j-1], e.mempool[j] = e.mempool[j], e.mempool[j-1]
			j--
		}
	}
}

// CleanupMempool drops every mempool entry older than
// MaxMempoolTransactionAge seconds, unconditionally unmarking every
// UTXO it had reserved.
func (e *Engine) CleanupMempool() {
	e.mu.Lock()
	defer e.mu.Unlock()

	cutoff := time.Now().Add(-MaxMempoolTransactionAge * time.Second)
	kept := e.mempool[:0]
	for _, m := range e.mempool {
		if m.admittedAt.Before(cutoff) {
			for _, in := range m.tx.Inputs {
				if entry := e.utxos[in.PrevTransactionOutputHash]; entry != nil {
					entry.marked = false
				}
			}
			continue
		}
		kept = append(kept, m)
	}
	e.mempool = kept
}
