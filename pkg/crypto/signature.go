package crypto

import (
	"encoding/pem"
	"errors"
	"fmt"
	"io"

	"github.com/arejula27/ledgerchain/pkg/types"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// compressedPubKeySize is the length of a secp256k1 public key in
// compressed point encoding.
const compressedPubKeySize = 33

// publicKeyPEMType labels the PEM block written to disk for public
// keys. Private keys are NOT PEM-encoded (spec: "PrivateKey is
// serialized as raw scalar bytes"); only PublicKey gets a PEM form.
const publicKeyPEMType = "SECP256K1 PUBLIC KEY"

// ErrInvalidSignature names a signature that fails to parse or verify
// against the claimed hash and public key. Verify reports that outcome
// as a bool; no function in this package returns this error.
var ErrInvalidSignature = errors.New("invalid signature")

// PrivateKey wraps a secp256k1 private key.
type PrivateKey struct {
	key *secp256k1.PrivateKey
}

// PublicKey wraps a secp256k1 public key, compared and serialized via its
// compressed point encoding.
type PublicKey struct {
	key *secp256k1.PublicKey
}

// Signature wraps a DER-encoded ECDSA signature over a 32-byte hash.
type Signature struct {
	der []byte
}

// GenerateKey creates a new random private key.
func GenerateKey() (*PrivateKey, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return &PrivateKey{key: key}, nil
}

// PrivateKeyFromBytes constructs a PrivateKey from its 32-byte scalar.
func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("private key must be 32 bytes, got %d", len(b))
	}
	return &PrivateKey{key: secp256k1.PrivKeyFromBytes(b)}, nil
}

// Bytes returns the raw 32-byte scalar, the on-disk serialization of a
// private key.
func (pk *PrivateKey) Bytes() []byte {
	return pk.key.Serialize()
}

// PublicKey derives the corresponding public key.
func (pk *PrivateKey) PublicKey() PublicKey {
	return PublicKey{key: pk.key.PubKey()}
}

// Sign produces an ECDSA signature over hash.
func (pk *PrivateKey) Sign(hash types.Hash) Signature {
	sig := ecdsa.Sign(pk.key, hash[:])
	return Signature{der: sig.Serialize()}
}

// Verify checks sig against hash and the public key that supposedly
// produced it.
func (sig Signature) Verify(hash types.Hash, pub PublicKey) bool {
	if pub.key == nil || len(sig.der) == 0 {
		return false
	}
	parsed, err := ecdsa.ParseDERSignature(sig.der)
	if err != nil {
		return false
	}
	return parsed.Verify(hash[:], pub.key)
}

// Bytes returns the DER-encoded signature, the form used inside hashes
// and over the wire.
func (sig Signature) Bytes() []byte {
	return sig.der
}

// SignatureFromBytes reconstructs a Signature from its DER encoding.
func SignatureFromBytes(b []byte) Signature {
	return Signature{der: append([]byte(nil), b...)}
}

// Bytes returns the 33-byte compressed point encoding, the form used
// inside hashes and over the wire.
func (pub PublicKey) Bytes() []byte {
	if pub.key == nil {
		return nil
	}
	return pub.key.SerializeCompressed()
}

// PublicKeyFromBytes parses a 33-byte compressed point encoding.
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	if len(b) != compressedPubKeySize {
		return PublicKey{}, fmt.Errorf("public key must be %d bytes, got %d", compressedPubKeySize, len(b))
	}
	key, err := secp256k1.ParsePubKey(b)
	if err != nil {
		return PublicKey{}, fmt.Errorf("parse public key: %w", err)
	}
	return PublicKey{key: key}, nil
}

// Equal reports whether two public keys are the same point.
func (pub PublicKey) Equal(other PublicKey) bool {
	if pub.key == nil || other.key == nil {
		return pub.key == other.key
	}
	return pub.key.IsEqual(other.key)
}

// SavePEM writes the public key to w as a PEM block, the on-disk form
// named by the spec.
func (pub PublicKey) SavePEM(w io.Writer) error {
	block := &pem.Block{
		Type:  publicKeyPEMType,
		Bytes: pub.Bytes(),
	}
	return pem.Encode(w, block)
}

// LoadPublicKeyPEM reads a PEM-encoded public key written by SavePEM.
func LoadPublicKeyPEM(data []byte) (PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return PublicKey{}, fmt.Errorf("no PEM block found")
	}
	return PublicKeyFromBytes(block.Bytes)
}

// MarshalCBOR encodes the public key as its compressed point bytes, the
// form used inside hashes and over the wire.
func (pub PublicKey) MarshalCBOR() ([]byte, error) {
	return Marshal(pub.Bytes())
}

// UnmarshalCBOR decodes a public key from its compressed point bytes.
func (pub *PublicKey) UnmarshalCBOR(data []byte) error {
	var b []byte
	if err := Unmarshal(data, &b); err != nil {
		return fmt.Errorf("public key: %w", err)
	}
	if len(b) == 0 {
		*pub = PublicKey{}
		return nil
	}
	parsed, err := PublicKeyFromBytes(b)
	if err != nil {
		return err
	}
	*pub = parsed
	return nil
}

// MarshalCBOR encodes the signature as its DER bytes.
func (sig Signature) MarshalCBOR() ([]byte, error) {
	return Marshal(sig.der)
}

// UnmarshalCBOR decodes a signature from its DER bytes.
func (sig *Signature) UnmarshalCBOR(data []byte) error {
	var b []byte
	if err := Unmarshal(data, &b); err != nil {
		return fmt.Errorf("signature: %w", err)
	}
	sig.der = b
	return nil
}
