package block

import (
	"github.com/arejula27/ledgerchain/pkg/tx"
	"github.com/arejula27/ledgerchain/pkg/types"
	"github.com/arejula27/ledgerchain/pkg/u256"
)

// Block pairs a header with the ordered transactions it commits to. By
// convention the first transaction is the coinbase.
type Block struct {
	Header       Header             `cbor:"header"`
	Transactions []*tx.Transaction `cbor:"transactions"`
}

// New builds a block whose header's Merkle root is computed from txs.
func New(prevBlockHash types.Hash, target u256.U256, txs []*tx.Transaction) *Block {
	return &Block{
		Header:       NewHeader(prevBlockHash, MerkleRoot(txs), target),
		Transactions: txs,
	}
}

// Hash returns the header's content hash, the block's identity.
func (b *Block) Hash() types.Hash {
	return b.Header.Hash()
}

// Coinbase returns the block's coinbase transaction, the first one, or
// nil if the block has no transactions.
func (b *Block) Coinbase() *tx.Transaction {
	if len(b.Transactions) == 0 {
		return nil
	}
	return b.Transactions[0]
}

// VerifyMerkleRoot reports whether the header's committed root matches
// the root recomputed from the block's transactions.
func (b *Block) VerifyMerkleRoot() bool {
	return b.Header.MerkleRoot == MerkleRoot(b.Transactions)
}
