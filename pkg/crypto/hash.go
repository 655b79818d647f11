// Package crypto provides the cryptographic primitives the ledger engine
// depends on: content hashing and secp256k1 signing/verification.
package crypto

import (
	"crypto/sha256"

	"github.com/arejula27/ledgerchain/pkg/types"
	"github.com/fxamacker/cbor/v2"
)

// canonicalEncMode is the deterministic CBOR encoding used for every hash
// input, persisted artifact, and wire message: sorted map keys, no
// indefinite-length items. Two equal values always produce identical
// bytes, which is the property Hash and the persistence façade both rely
// on.
var canonicalEncMode = func() cbor.EncMode {
	mode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return mode
}()

// Marshal encodes v using the canonical encoding shared by hashing,
// persistence, and wire framing.
func Marshal(v any) ([]byte, error) {
	return canonicalEncMode.Marshal(v)
}

// Unmarshal decodes data produced by Marshal into v.
func Unmarshal(data []byte, v any) error {
	return cbor.Unmarshal(data, v)
}

// Hash computes the content hash of v: canonical CBOR encoding followed by
// SHA-256. Two values with the same canonical encoding hash identically.
//
// Marshaling a value of one of this package's own types never fails; a
// failure here means a caller passed something CBOR cannot represent
// (e.g. a channel or function), which is a programming error.
func Hash(v any) types.Hash {
	b, err := Marshal(v)
	if err != nil {
		panic("crypto: failed to canonically encode value for hashing: " + err.Error())
	}
	return sha256.Sum256(b)
}

// HashConcat hashes the big-endian concatenation of two hashes. Used to
// build Merkle tree interior nodes.
func HashConcat(a, b types.Hash) types.Hash {
	var buf [2 * types.HashSize]byte
	copy(buf[:types.HashSize], a[:])
	copy(buf[types.HashSize:], b[:])
	return sha256.Sum256(buf[:])
}
