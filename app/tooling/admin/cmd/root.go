// Package cmd contains the admin commands for working with ledger chains
// offline.
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ardanlabs/powledger/foundation/blockchain/ledger"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var difficulty int

func init() {
	rootCmd.PersistentFlags().IntVarP(&difficulty, "difficulty", "d", ledger.DefaultDifficulty, "Number of leading zero hex characters the puzzle requires.")
}

var rootCmd = &cobra.Command{
	Use:           "admin",
	Short:         "Proof of work ledger tooling",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command specified on the command line.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

// =============================================================================

// commandContext returns the command's context, or a background context when
// the command runs outside of Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// readChain reads a chain from the file, or stdin when the path is "-". It
// accepts the output of the list endpoint or a bare array of blocks.
func readChain(path string) ([]ledger.Block, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}

	var doc struct {
		Chain []ledger.Block `json:"chain"`
	}
	if err := json.Unmarshal(data, &doc); err == nil && doc.Chain != nil {
		return doc.Chain, nil
	}

	var chain []ledger.Block
	if err := json.Unmarshal(data, &chain); err != nil {
		return nil, fmt.Errorf("decoding chain: %w", err)
	}

	return chain, nil
}

// readBlock reads a single block from the file, or stdin when the path is "-".
func readBlock(path string) (ledger.Block, error) {
	data, err := readInput(path)
	if err != nil {
		return ledger.Block{}, err
	}

	var block ledger.Block
	if err := json.Unmarshal(data, &block); err != nil {
		return ledger.Block{}, fmt.Errorf("decoding block: %w", err)
	}

	return block, nil
}

func readInput(path string) ([]byte, error) {
	switch path {
	case "":
		return nil, errors.New("no input file specified")
	case "-":
		return io.ReadAll(os.Stdin)
	}

	return os.ReadFile(path)
}
