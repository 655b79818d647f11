package block

import (
	"github.com/arejula27/ledgerchain/pkg/crypto"
	"github.com/arejula27/ledgerchain/pkg/tx"
	"github.com/arejula27/ledgerchain/pkg/types"
)

// MerkleRoot computes the root commitment over txs. A block with no
// transactions commits to the zero hash; a single transaction commits to
// its own hash. Otherwise leaves are paired and hashed up level by level;
// an odd leaf at any level is duplicated to pair with itself.
func MerkleRoot(txs []*tx.Transaction) types.Hash {
	if len(txs) == 0 {
		return types.ZeroHash
	}

	level := make([]types.Hash, len(txs))
	for i, t := range txs {
		level[i] = t.Hash()
	}

	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}
		next := make([]types.Hash, len(level)/2)
		for i := range next {
			next[i] = crypto.HashConcat(level[2*i], level[2*i+1])
		}
		level = next
	}
	return level[0]
}
