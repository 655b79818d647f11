// Package tx defines the transaction model: inputs that spend a prior
// output by its content hash, and outputs that mint a new one.
package tx

import (
	"github.com/arejula27/ledgerchain/pkg/crypto"
	"github.com/arejula27/ledgerchain/pkg/types"
	"github.com/google/uuid"
)

// Transaction moves value from a set of previously unspent outputs to a
// set of new ones. A coinbase transaction has no inputs.
type Transaction struct {
	Inputs  []TransactionInput  `cbor:"inputs"`
	Outputs []TransactionOutput `cbor:"outputs"`
}

// TransactionInput references a previously unspent output by its content
// hash and proves the right to spend it with a signature over that hash.
type TransactionInput struct {
	PrevTransactionOutputHash types.Hash      `cbor:"prev_transaction_output_hash"`
	Signature                 crypto.Signature `cbor:"signature"`
}

// OutputID disambiguates two outputs that would otherwise be identical
// in (value, pubkey), so they hash differently and don't collide in the
// UTXO map. It carries no meaning beyond uniqueness.
type OutputID [16]byte

// newOutputID generates a fresh random identifier.
func newOutputID() OutputID {
	return OutputID(uuid.New())
}

// String returns the canonical UUID string form.
func (id OutputID) String() string {
	return uuid.UUID(id).String()
}

// MarshalCBOR encodes the identifier as a compact byte string.
func (id OutputID) MarshalCBOR() ([]byte, error) {
	return crypto.Marshal(id[:])
}

// UnmarshalCBOR decodes an identifier from its byte string form.
func (id *OutputID) UnmarshalCBOR(data []byte) error {
	var b []byte
	if err := crypto.Unmarshal(data, &b); err != nil {
		return err
	}
	copy(id[:], b)
	return nil
}

// TransactionOutput is a unit of value bound to a single public key. Its
// identity (and its UTXO key) is its content hash.
type TransactionOutput struct {
	Value    uint64          `cbor:"value"`
	UniqueID OutputID        `cbor:"unique_id"`
	PubKey   crypto.PublicKey `cbor:"pubkey"`
}

// NewOutput constructs an output with a fresh unique identifier.
func NewOutput(value uint64, pubKey crypto.PublicKey) TransactionOutput {
	return TransactionOutput{
		Value:    value,
		UniqueID: newOutputID(),
		PubKey:   pubKey,
	}
}

// Hash returns the output's content hash, the key it is indexed under in
// the UTXO set.
func (o TransactionOutput) Hash() types.Hash {
	return crypto.Hash(o)
}

// SignInput builds a TransactionInput spending the output identified by
// prevOutputHash, signed by priv.
func SignInput(prevOutputHash types.Hash, priv *crypto.PrivateKey) TransactionInput {
	return TransactionInput{
		PrevTransactionOutputHash: prevOutputHash,
		Signature:                 priv.Sign(prevOutputHash),
	}
}

// Hash returns the transaction's content hash, its identity.
func (t *Transaction) Hash() types.Hash {
	return crypto.Hash(t)
}

// IsCoinbase reports whether t has no inputs, i.e. it mints new value
// rather than spending existing outputs.
func (t *Transaction) IsCoinbase() bool {
	return len(t.Inputs) == 0
}

// TotalOutputValue sums the transaction's output values.
func (t *Transaction) TotalOutputValue() uint64 {
	var total uint64
	for _, out := range t.Outputs {
		total += out.Value
	}
	return total
}
