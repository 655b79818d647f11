package tx

import (
	"testing"

	"github.com/arejula27/ledgerchain/pkg/crypto"
)

func newTestKey(t *testing.T) *crypto.PrivateKey {
	t.Helper()
	priv, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	return priv
}

func TestOutputUniqueIDMakesHashesDistinct(t *testing.T) {
	priv := newTestKey(t)
	pub := priv.PublicKey()

	a := NewOutput(100, pub)
	b := NewOutput(100, pub)

	if a.Hash() == b.Hash() {
		t.Fatal("two outputs with identical (value, pubkey) must still hash differently")
	}
}

func TestTransactionHashDeterministic(t *testing.T) {
	priv := newTestKey(t)
	pub := priv.PublicKey()
	out := NewOutput(50, pub)
	transaction := &Transaction{Outputs: []TransactionOutput{out}}

	h1 := transaction.Hash()
	h2 := transaction.Hash()
	if h1 != h2 {
		t.Fatal("hashing the same transaction twice produced different hashes")
	}
}

func TestCoinbaseHasNoInputs(t *testing.T) {
	priv := newTestKey(t)
	coinbase := &Transaction{Outputs: []TransactionOutput{NewOutput(1, priv.PublicKey())}}
	if !coinbase.IsCoinbase() {
		t.Fatal("transaction with no inputs should be a coinbase")
	}
}

func TestValidateRejectsNoOutputs(t *testing.T) {
	transaction := &Transaction{}
	if err := transaction.Validate(); err == nil {
		t.Fatal("expected error for transaction with no outputs")
	}
}

func TestValidateRejectsDuplicateInput(t *testing.T) {
	priv := newTestKey(t)
	out := NewOutput(10, priv.PublicKey())
	prevHash := out.Hash()
	input := SignInput(prevHash, priv)

	transaction := &Transaction{
		Inputs:  []TransactionInput{input, input},
		Outputs: []TransactionOutput{NewOutput(5, priv.PublicKey())},
	}
	if err := transaction.Validate(); err == nil {
		t.Fatal("expected error for duplicate input")
	}
}

func TestSignInputVerifies(t *testing.T) {
	priv := newTestKey(t)
	out := NewOutput(10, priv.PublicKey())
	prevHash := out.Hash()
	input := SignInput(prevHash, priv)

	if !input.Signature.Verify(prevHash, priv.PublicKey()) {
		t.Fatal("expected signed input to verify against the signing key")
	}
}
