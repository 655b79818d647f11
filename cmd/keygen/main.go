// Command keygen generates a secp256k1 keypair and saves it as
// <name>priv.cbor (private key, raw binary) and <name>.pub.pem (public
// key, PEM text), mirroring the original key_gen tool.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/arejula27/ledgerchain/internal/persist"
	"github.com/arejula27/ledgerchain/pkg/crypto"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "please provide a name")
		os.Exit(1)
	}
	name := os.Args[1]

	priv, err := crypto.GenerateKey()
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate key: %v\n", err)
		os.Exit(1)
	}

	privPath := name + "priv.cbor"
	pubPath := name + ".pub.pem"

	if err := persist.SaveToFile(privPath, func(w io.Writer) error {
		return persist.SavePrivateKey(w, priv)
	}); err != nil {
		fmt.Fprintf(os.Stderr, "save private key: %v\n", err)
		os.Exit(1)
	}
	if err := persist.SaveToFile(pubPath, func(w io.Writer) error {
		return persist.SavePublicKey(w, priv.PublicKey())
	}); err != nil {
		fmt.Fprintf(os.Stderr, "save public key: %v\n", err)
		os.Exit(1)
	}
}
