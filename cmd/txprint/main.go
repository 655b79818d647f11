// Command txprint loads a transaction from a file and prints it,
// mirroring the original tx_print tool.
package main

import (
	"fmt"
	"os"

	"github.com/arejula27/ledgerchain/internal/persist"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: txprint <tx_file>")
		os.Exit(1)
	}
	path := os.Args[1]

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open %s: %v\n", path, err)
		os.Exit(1)
	}
	defer f.Close()

	transaction, err := persist.LoadTransaction(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load transaction: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Transaction %s\n", transaction.Hash())
	fmt.Printf("  coinbase: %v\n", transaction.IsCoinbase())
	for i, in := range transaction.Inputs {
		fmt.Printf("  input[%d]: spends %s\n", i, in.PrevTransactionOutputHash)
	}
	for i, out := range transaction.Outputs {
		fmt.Printf("  output[%d]: %d to %x\n", i, out.Value, out.PubKey.Bytes())
	}
}
