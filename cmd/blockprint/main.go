// Command blockprint loads a block from a file and prints its header
// and transaction summary, mirroring the original block_print tool.
package main

import (
	"fmt"
	"os"

	"github.com/arejula27/ledgerchain/internal/persist"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: blockprint <block_file>")
		os.Exit(1)
	}
	path := os.Args[1]

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open %s: %v\n", path, err)
		os.Exit(1)
	}
	defer f.Close()

	b, err := persist.LoadBlock(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load block: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Block %s\n", b.Hash())
	fmt.Printf("  prev_block_hash: %s\n", b.Header.PrevBlockHash)
	fmt.Printf("  merkle_root:     %s\n", b.Header.MerkleRoot)
	fmt.Printf("  target:          %s\n", b.Header.Target)
	fmt.Printf("  nonce:           %d\n", b.Header.Nonce)
	fmt.Printf("  timestamp:       %s\n", b.Header.Time())
	fmt.Printf("  transactions:    %d\n", len(b.Transactions))
	for i, t := range b.Transactions {
		fmt.Printf("    [%d] %s (coinbase=%v, outputs=%d)\n", i, t.Hash(), t.IsCoinbase(), len(t.Outputs))
	}
}
