package persist

import (
	"bytes"
	"errors"
	"testing"

	"github.com/arejula27/ledgerchain/internal/ledger"
	"github.com/arejula27/ledgerchain/pkg/block"
	"github.com/arejula27/ledgerchain/pkg/crypto"
	"github.com/arejula27/ledgerchain/pkg/tx"
	"github.com/arejula27/ledgerchain/pkg/types"
	"github.com/arejula27/ledgerchain/pkg/u256"
	"github.com/rs/zerolog"
)

func maxTarget() [32]byte {
	var b [32]byte
	for i := range b {
		b[i] = 0xff
	}
	return b
}

func TestPrivateKeyRoundTrip(t *testing.T) {
	priv, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	var buf bytes.Buffer
	if err := SavePrivateKey(&buf, priv); err != nil {
		t.Fatalf("SavePrivateKey: %v", err)
	}
	restored, err := LoadPrivateKey(&buf)
	if err != nil {
		t.Fatalf("LoadPrivateKey: %v", err)
	}
	if !priv.PublicKey().Equal(restored.PublicKey()) {
		t.Fatal("restored private key derives a different public key")
	}
}

func TestPublicKeyRoundTrip(t *testing.T) {
	priv, _ := crypto.GenerateKey()
	pub := priv.PublicKey()

	var buf bytes.Buffer
	if err := SavePublicKey(&buf, pub); err != nil {
		t.Fatalf("SavePublicKey: %v", err)
	}
	restored, err := LoadPublicKey(&buf)
	if err != nil {
		t.Fatalf("LoadPublicKey: %v", err)
	}
	if !pub.Equal(restored) {
		t.Fatal("restored public key does not match original")
	}
}

func TestTransactionRoundTrip(t *testing.T) {
	priv, _ := crypto.GenerateKey()
	transaction := &tx.Transaction{Outputs: []tx.TransactionOutput{tx.NewOutput(10, priv.PublicKey())}}

	var buf bytes.Buffer
	if err := SaveTransaction(&buf, transaction); err != nil {
		t.Fatalf("SaveTransaction: %v", err)
	}
	restored, err := LoadTransaction(&buf)
	if err != nil {
		t.Fatalf("LoadTransaction: %v", err)
	}
	if restored.Hash() != transaction.Hash() {
		t.Fatal("restored transaction hash changed")
	}
}

func TestBlockRoundTrip(t *testing.T) {
	priv, _ := crypto.GenerateKey()
	coinbase := &tx.Transaction{Outputs: []tx.TransactionOutput{tx.NewOutput(1, priv.PublicKey())}}
	target := maxTarget()
	b := block.New(types.ZeroHash, u256.MustFromBigEndian(target[:]), []*tx.Transaction{coinbase})

	var buf bytes.Buffer
	if err := SaveBlock(&buf, b); err != nil {
		t.Fatalf("SaveBlock: %v", err)
	}
	restored, err := LoadBlock(&buf)
	if err != nil {
		t.Fatalf("LoadBlock: %v", err)
	}
	if restored.Hash() != b.Hash() {
		t.Fatal("restored block hash changed")
	}
}

func TestLoadTransactionRejectsMalformedDataAsIoError(t *testing.T) {
	buf := bytes.NewBufferString("not cbor")
	if _, err := LoadTransaction(buf); !errors.Is(err, ledger.ErrIO) {
		t.Fatalf("expected errors.Is(err, ledger.ErrIO), got %v", err)
	}
}

func TestChainRoundTripRebuildsUTXOs(t *testing.T) {
	log := zerolog.Nop()
	e := ledger.New(log)

	priv, _ := crypto.GenerateKey()
	coinbase := &tx.Transaction{Outputs: []tx.TransactionOutput{tx.NewOutput(ledger.InitialReward*ledger.SatoshiPerUnit, priv.PublicKey())}}
	mt := maxTarget()
	genesis := block.New(types.ZeroHash, u256.MustFromBigEndian(mt[:]), []*tx.Transaction{coinbase})
	if !genesis.Header.Mine(10) {
		t.Fatal("failed to mine genesis")
	}
	if err := e.AddBlock(genesis); err != nil {
		t.Fatalf("AddBlock: %v", err)
	}

	var buf bytes.Buffer
	if err := SaveChain(&buf, e); err != nil {
		t.Fatalf("SaveChain: %v", err)
	}

	restored, err := LoadChain(&buf, log)
	if err != nil {
		t.Fatalf("LoadChain: %v", err)
	}
	if restored.Height() != 1 {
		t.Fatalf("expected restored height 1, got %d", restored.Height())
	}
	if len(restored.UTXOs()) != 1 {
		t.Fatalf("expected 1 UTXO after rebuild, got %d", len(restored.UTXOs()))
	}
}
