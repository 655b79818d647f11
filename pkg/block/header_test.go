package block

import (
	"testing"

	"github.com/arejula27/ledgerchain/pkg/types"
	"github.com/arejula27/ledgerchain/pkg/u256"
)

func TestHeaderHashDeterministic(t *testing.T) {
	h := NewHeader(types.ZeroHash, types.ZeroHash, u256.MustFromBigEndian(maxTargetBytes()))
	a := h.Hash()
	b := h.Hash()
	if a != b {
		t.Fatal("hashing the same header twice produced different hashes")
	}
}

func TestMineFindsNonceUnderLooseTarget(t *testing.T) {
	h := NewHeader(types.ZeroHash, types.ZeroHash, u256.MustFromBigEndian(maxTargetBytes()))
	if !h.Mine(1000) {
		t.Fatal("expected mining against the loosest possible target to succeed immediately")
	}
}

func TestMineFailsUnderImpossibleTarget(t *testing.T) {
	h := NewHeader(types.ZeroHash, types.ZeroHash, u256.Zero())
	if h.Mine(100) {
		t.Fatal("mining against a zero target should never succeed")
	}
}

func maxTargetBytes() []byte {
	b := make([]byte, 32)
	for i := range b {
		b[i] = 0xff
	}
	return b
}
