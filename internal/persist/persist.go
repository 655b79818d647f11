// Package persist is the persistence façade: each artifact (block,
// transaction, blockchain, keypair) is a single byte stream, following
// the teacher's storage package in spirit (a small, direct Go
// interface with no hidden magic) but adapted to spec.md's
// flat-stream-per-artifact layout rather than a key-value store.
//
// The blockchain, block, and transaction forms all use the canonical
// CBOR encoding from pkg/crypto; public keys are stored in PEM text
// form, matching spec.md §6. Private keys are stored as raw binary,
// never CBOR-wrapped.
package persist

import (
	"fmt"
	"io"
	"os"

	"github.com/arejula27/ledgerchain/internal/ledger"
	"github.com/arejula27/ledgerchain/pkg/block"
	"github.com/arejula27/ledgerchain/pkg/crypto"
	"github.com/arejula27/ledgerchain/pkg/tx"
	"github.com/arejula27/ledgerchain/pkg/u256"
	"github.com/rs/zerolog"
)

// SaveBlock canonically encodes b and writes it to w.
func SaveBlock(w io.Writer, b *block.Block) error {
	return saveCBOR(w, b)
}

// LoadBlock decodes a block previously written by SaveBlock.
func LoadBlock(r io.Reader) (*block.Block, error) {
	var b block.Block
	if err := loadCBOR(r, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// SaveTransaction canonically encodes t and writes it to w.
func SaveTransaction(w io.Writer, t *tx.Transaction) error {
	return saveCBOR(w, t)
}

// LoadTransaction decodes a transaction previously written by
// SaveTransaction.
func LoadTransaction(r io.Reader) (*tx.Transaction, error) {
	var t tx.Transaction
	if err := loadCBOR(r, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// SavePrivateKey writes priv's raw binary form to w.
func SavePrivateKey(w io.Writer, priv *crypto.PrivateKey) error {
	if _, err := w.Write(priv.Bytes()); err != nil {
		return fmt.Errorf("persist: write private key: %w: %w", ledger.ErrIO, err)
	}
	return nil
}

// LoadPrivateKey reads a private key previously written by
// SavePrivateKey.
func LoadPrivateKey(r io.Reader) (*crypto.PrivateKey, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("persist: read private key: %w: %w", ledger.ErrIO, err)
	}
	priv, err := crypto.PrivateKeyFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("persist: decode private key: %w: %w", ledger.ErrIO, err)
	}
	return priv, nil
}

// SavePublicKey writes pub's PEM text form to w.
func SavePublicKey(w io.Writer, pub crypto.PublicKey) error {
	if err := pub.SavePEM(w); err != nil {
		return fmt.Errorf("persist: write public key: %w: %w", ledger.ErrIO, err)
	}
	return nil
}

// LoadPublicKey reads a PEM-encoded public key previously written by
// SavePublicKey.
func LoadPublicKey(r io.Reader) (crypto.PublicKey, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return crypto.PublicKey{}, fmt.Errorf("persist: read public key: %w: %w", ledger.ErrIO, err)
	}
	pub, err := crypto.LoadPublicKeyPEM(data)
	if err != nil {
		return crypto.PublicKey{}, fmt.Errorf("persist: decode public key: %w: %w", ledger.ErrIO, err)
	}
	return pub, nil
}

// chainSnapshot is the on-disk form of a Blockchain: the accepted
// blocks and the target they left the chain at. The mempool is
// deliberately excluded — it does not persist, per the engine's
// lifecycle contract.
type chainSnapshot struct {
	Blocks []*block.Block `cbor:"blocks"`
	Target u256.U256      `cbor:"target"`
}

// SaveChain canonically encodes the engine's accepted blocks and
// target and writes them to w.
func SaveChain(w io.Writer, e *ledger.Engine) error {
	return saveCBOR(w, chainSnapshot{Blocks: e.Blocks(), Target: e.Target()})
}

// LoadChain decodes a chain previously written by SaveChain and
// rebuilds its UTXO set by replaying the restored blocks.
func LoadChain(r io.Reader, log zerolog.Logger) (*ledger.Engine, error) {
	var snap chainSnapshot
	if err := loadCBOR(r, &snap); err != nil {
		return nil, err
	}
	e := ledger.Restore(log, snap.Blocks, snap.Target)
	e.RebuildUTXOs()
	return e, nil
}

func saveCBOR(w io.Writer, v any) error {
	data, err := crypto.Marshal(v)
	if err != nil {
		return fmt.Errorf("persist: encode: %w: %w", ledger.ErrIO, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("persist: write: %w: %w", ledger.ErrIO, err)
	}
	return nil
}

func loadCBOR(r io.Reader, v any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("persist: read: %w: %w", ledger.ErrIO, err)
	}
	if err := crypto.Unmarshal(data, v); err != nil {
		return fmt.Errorf("persist: decode: %w: %w", ledger.ErrIO, err)
	}
	return nil
}

// SaveToFile is a convenience wrapper that opens path for writing
// (truncating any existing content) and calls save with the resulting
// file.
func SaveToFile(path string, save func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("persist: create %s: %w: %w", path, ledger.ErrIO, err)
	}
	defer f.Close()
	return save(f)
}

// LoadFromFile is a convenience wrapper that opens path for reading and
// calls load with the resulting file.
func LoadFromFile(path string, load func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("persist: open %s: %w: %w", path, ledger.ErrIO, err)
	}
	defer f.Close()
	return load(f)
}
