// Command blockgen writes a single-transaction block template (a
// coinbase paying a freshly generated key, chained from the zero hash,
// at the loosest allowed target) to the given path, mirroring the
// original block_gen tool.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/arejula27/ledgerchain/internal/ledger"
	"github.com/arejula27/ledgerchain/internal/persist"
	"github.com/arejula27/ledgerchain/pkg/block"
	"github.com/arejula27/ledgerchain/pkg/crypto"
	"github.com/arejula27/ledgerchain/pkg/tx"
	"github.com/arejula27/ledgerchain/pkg/types"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: blockgen <block_file>")
		os.Exit(1)
	}
	path := os.Args[1]

	priv, err := crypto.GenerateKey()
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate key: %v\n", err)
		os.Exit(1)
	}

	transactions := []*tx.Transaction{{
		Outputs: []tx.TransactionOutput{
			tx.NewOutput(ledger.InitialReward*ledger.SatoshiPerUnit, priv.PublicKey()),
		},
	}}

	b := block.New(types.ZeroHash, ledger.MinTarget, transactions)

	if err := persist.SaveToFile(path, func(w io.Writer) error {
		return persist.SaveBlock(w, b)
	}); err != nil {
		fmt.Fprintf(os.Stderr, "save block: %v\n", err)
		os.Exit(1)
	}
}
