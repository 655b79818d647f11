// Package types defines the core content-addressed primitive type shared
// across the ledger: the hash, which is compared against a 256-bit
// proof-of-work target (u256.U256).
package types

import (
	"encoding/hex"
	"fmt"

	"github.com/arejula27/ledgerchain/pkg/u256"
)

// HashSize is the length of a hash in bytes.
const HashSize = 32

// Hash is a 32-byte SHA-256 digest, big-endian for hashing and Merkle
// concatenation (spec's as_bytes ambiguity is resolved by always using
// big-endian, consistently, everywhere a Hash is turned into bytes).
type Hash [HashSize]byte

// ZeroHash is the all-zero hash, used as the genesis block's parent hash
// and as the Merkle root of an empty transaction list.
var ZeroHash = Hash{}

// IsZero reports whether h is the all-zero hash.
func (h Hash) IsZero() bool {
	return h == ZeroHash
}

// String returns the hex-encoded hash.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Bytes returns the big-endian byte representation.
func (h Hash) Bytes() []byte {
	b := make([]byte, HashSize)
	copy(b, h[:])
	return b
}

// AsU256 interprets the hash as a big-endian 256-bit magnitude, for
// comparison against a proof-of-work target.
func (h Hash) AsU256() u256.U256 {
	return u256.MustFromBigEndian(h[:])
}

// MatchesTarget reports whether h, read as a 256-bit magnitude, is less
// than or equal to target. Lower target values mean a block is harder to
// mine.
func (h Hash) MatchesTarget(target u256.U256) bool {
	return h.AsU256().Cmp(target) <= 0
}

// HexToHash parses a 64-character hex string into a Hash.
func HexToHash(s string) (Hash, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, fmt.Errorf("invalid hash hex: %w", err)
	}
	if len(b) != HashSize {
		return Hash{}, fmt.Errorf("hash must be %d bytes, got %d", HashSize, len(b))
	}
	var h Hash
	copy(h[:], b)
	return h, nil
}

// MarshalCBOR encodes the hash as a compact CBOR byte string rather than
// the default fixed-size array encoding, so it matches the wire framing
// and on-disk encoding used for every other content-addressed value.
func (h Hash) MarshalCBOR() ([]byte, error) {
	return cborMarshalBytes(h[:])
}

// UnmarshalCBOR decodes a CBOR byte string into the hash.
func (h *Hash) UnmarshalCBOR(data []byte) error {
	b, err := cborUnmarshalBytes(data, HashSize)
	if err != nil {
		return fmt.Errorf("hash: %w", err)
	}
	copy(h[:], b)
	return nil
}
