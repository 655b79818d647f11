// Command txgen writes a single coinbase-shaped transaction (no inputs,
// one output paying a freshly generated key the full block reward) to
// the given path, mirroring the original tx_gen tool.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/arejula27/ledgerchain/internal/ledger"
	"github.com/arejula27/ledgerchain/internal/persist"
	"github.com/arejula27/ledgerchain/pkg/crypto"
	"github.com/arejula27/ledgerchain/pkg/tx"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: txgen <tx_file>")
		os.Exit(1)
	}
	path := os.Args[1]

	priv, err := crypto.GenerateKey()
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate key: %v\n", err)
		os.Exit(1)
	}

	transaction := &tx.Transaction{
		Outputs: []tx.TransactionOutput{
			tx.NewOutput(ledger.InitialReward*ledger.SatoshiPerUnit, priv.PublicKey()),
		},
	}

	if err := persist.SaveToFile(path, func(w io.Writer) error {
		return persist.SaveTransaction(w, transaction)
	}); err != nil {
		fmt.Fprintf(os.Stderr, "save transaction: %v\n", err)
		os.Exit(1)
	}
}
