// Command node loads (or initializes) a blockchain file and starts the
// ledger engine, ready for network handlers to attach. Listening for
// peer connections and dispatching wire messages is outside this
// core's scope; this entry point stops at bringing the engine up and
// logging its state.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/arejula27/ledgerchain/config"
	"github.com/arejula27/ledgerchain/internal/ledger"
	"github.com/arejula27/ledgerchain/internal/log"
	"github.com/arejula27/ledgerchain/internal/persist"
)

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		os.Exit(1)
	}

	if initErr := log.Init(cfg.LogLevel, cfg.LogJSON, ""); initErr != nil {
		fmt.Fprintf(os.Stderr, "init logging: %v\n", initErr)
		os.Exit(1)
	}

	engine, err := loadOrInit(cfg.BlockchainFile)
	if err != nil {
		log.CLI.Error().Err(err).Str("file", cfg.BlockchainFile).Msg("failed to load blockchain")
		os.Exit(1)
	}

	log.CLI.Info().
		Int("port", cfg.Port).
		Uint64("height", engine.Height()).
		Str("target", engine.Target().String()).
		Strs("peers", cfg.Peers).
		Msg("ledger engine ready")
}

// loadOrInit loads a persisted blockchain from path, or returns a fresh
// empty engine if no file exists yet.
func loadOrInit(path string) (*ledger.Engine, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return ledger.New(log.Logger), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	engine, err := persist.LoadChain(f, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("load chain: %w", err)
	}
	return engine, nil
}
