package block

import (
	"testing"

	"github.com/arejula27/ledgerchain/pkg/crypto"
	"github.com/arejula27/ledgerchain/pkg/tx"
	"github.com/arejula27/ledgerchain/pkg/types"
)

func newTxWithValue(t *testing.T, value uint64) *tx.Transaction {
	t.Helper()
	priv, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	return &tx.Transaction{Outputs: []tx.TransactionOutput{tx.NewOutput(value, priv.PublicKey())}}
}

func TestMerkleRootEmpty(t *testing.T) {
	if got := MerkleRoot(nil); got != types.ZeroHash {
		t.Fatalf("expected zero hash for empty transaction list, got %s", got)
	}
}

func TestMerkleRootSingle(t *testing.T) {
	transaction := newTxWithValue(t, 10)
	if got := MerkleRoot([]*tx.Transaction{transaction}); got != transaction.Hash() {
		t.Fatal("single-transaction root should equal that transaction's hash")
	}
}

func TestMerkleRootDeterministic(t *testing.T) {
	txs := []*tx.Transaction{newTxWithValue(t, 1), newTxWithValue(t, 2), newTxWithValue(t, 3)}
	a := MerkleRoot(txs)
	b := MerkleRoot(txs)
	if a != b {
		t.Fatal("Merkle root must be deterministic for the same transaction set")
	}
}

func TestMerkleRootChangesOnSwap(t *testing.T) {
	t1, t2, t3 := newTxWithValue(t, 1), newTxWithValue(t, 2), newTxWithValue(t, 3)
	a := MerkleRoot([]*tx.Transaction{t1, t2, t3})
	b := MerkleRoot([]*tx.Transaction{t2, t1, t3})
	if a == b {
		t.Fatal("reordering transactions should change the Merkle root")
	}
}

func TestMerkleRootOddDuplicatesLast(t *testing.T) {
	t1, t2, t3 := newTxWithValue(t, 1), newTxWithValue(t, 2), newTxWithValue(t, 3)
	odd := MerkleRoot([]*tx.Transaction{t1, t2, t3})
	evenDup := MerkleRoot([]*tx.Transaction{t1, t2, t3, t3})
	if odd != evenDup {
		t.Fatal("odd-length level should duplicate its last leaf to match explicit duplication")
	}
}
