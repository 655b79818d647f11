// Package block defines the block header, the block itself, and the
// Merkle commitment over its transactions.
package block

import (
	"time"

	"github.com/arejula27/ledgerchain/pkg/crypto"
	"github.com/arejula27/ledgerchain/pkg/types"
	"github.com/arejula27/ledgerchain/pkg/u256"
)

// Header is the data a header hash must meet the target over: the prior
// block's hash, the Merkle commitment, a second-precision timestamp, the
// proof-of-work target, and the nonce a miner searches over.
type Header struct {
	Nonce         uint64     `cbor:"nonce"`
	PrevBlockHash types.Hash `cbor:"prev_block_hash"`
	Timestamp     int64      `cbor:"timestamp"` // Unix seconds, UTC.
	MerkleRoot    types.Hash `cbor:"merkle_root"`
	Target        u256.U256  `cbor:"target"`
}

// NewHeader constructs a header stamped with the current time.
func NewHeader(prevBlockHash, merkleRoot types.Hash, target u256.U256) Header {
	return Header{
		PrevBlockHash: prevBlockHash,
		Timestamp:     time.Now().UTC().Unix(),
		MerkleRoot:    merkleRoot,
		Target:        target,
	}
}

// Time returns the header's timestamp as a UTC time.Time.
func (h *Header) Time() time.Time {
	return time.Unix(h.Timestamp, 0).UTC()
}

// Hash computes the header's content hash — the value that must meet
// Target for the block to be valid proof of work.
func (h *Header) Hash() types.Hash {
	return crypto.Hash(h)
}

// mine attempts up to steps nonce values, mutating h.Nonce to the first
// one whose header hash meets h.Target. Returns true on success. This is
// the miner's external collaborator contract (spec §4.3) — the ledger
// engine itself never calls this; it only validates the result.
func (h *Header) mine(steps uint64) bool {
	for i := uint64(0); i < steps; i++ {
		if h.Hash().MatchesTarget(h.Target) {
			return true
		}
		h.Nonce++
	}
	return false
}

// Mine is the exported form of mine, used by miner front-ends (outside
// this core) to search for a winning nonce.
func (h *Header) Mine(steps uint64) bool {
	return h.mine(steps)
}
