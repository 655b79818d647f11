package tx

import (
	"errors"
	"fmt"

	"github.com/arejula27/ledgerchain/pkg/types"
)

// Structural validation errors that do not require UTXO set access.
var (
	ErrNoOutputs      = errors.New("transaction has no outputs")
	ErrDuplicateInput = errors.New("duplicate input within transaction")
)

// Validate checks structure that can be verified from the transaction
// alone: a coinbase transaction (no inputs) must still mint at least one
// output, and no transaction may reference the same prior output twice.
// UTXO existence, signature verification, and value conservation are the
// ledger engine's responsibility, since they require chain state.
func (t *Transaction) Validate() error {
	if len(t.Outputs) == 0 {
		return ErrNoOutputs
	}

	seen := make(map[types.Hash]struct{}, len(t.Inputs))
	for i, in := range t.Inputs {
		if _, dup := seen[in.PrevTransactionOutputHash]; dup {
			return fmt.Errorf("input %d: %w", i, ErrDuplicateInput)
		}
		seen[in.PrevTransactionOutputHash] = struct{}{}
	}
	return nil
}
