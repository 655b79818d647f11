// Package config parses the node CLI surface: a listen port, the path
// to the persisted blockchain file, and a positional list of peers to
// dial on startup.
package config

import (
	"flag"
	"fmt"
	"os"
)

const (
	// DefaultPort is the node's default TCP listen port.
	DefaultPort = 9000
	// DefaultBlockchainFile is the default path of the persisted chain.
	DefaultBlockchainFile = "./blockchain.cbor"
)

// Config holds the parsed node configuration.
type Config struct {
	Port           int
	BlockchainFile string
	Peers          []string

	LogLevel string
	LogJSON  bool
}

// Parse parses args (excluding the program name, i.e. os.Args[1:]) into
// a Config. Exit codes follow spec.md §6: 0 on success, 1 on an
// argument error.
func Parse(args []string) (*Config, error) {
	fs := flag.NewFlagSet("ledgerchain-node", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs)
	}

	cfg := &Config{}
	fs.IntVar(&cfg.Port, "port", DefaultPort, "TCP listen port")
	fs.StringVar(&cfg.BlockchainFile, "blockchain-file", DefaultBlockchainFile, "path to the persisted blockchain")
	fs.StringVar(&cfg.LogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	fs.BoolVar(&cfg.LogJSON, "log-json", false, "output logs as JSON")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.Peers = fs.Args()
	return cfg, nil
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintln(os.Stderr, "Usage: ledgerchain-node [options] [peer-address ...]")
	fs.PrintDefaults()
}
