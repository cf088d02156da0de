package cmd

import (
	"github.com/ardanlabs/powledger/foundation/blockchain/ledger"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var blockFile string

var hashCmd = &cobra.Command{
	Use:   "hash",
	Short: "Print the canonical encoding and hash of a block",
	RunE:  hashRun,
}

func init() {
	rootCmd.AddCommand(hashCmd)
	hashCmd.Flags().StringVarP(&blockFile, "file", "f", "-", "Path to a JSON block, - for stdin.")
}

func hashRun(cmd *cobra.Command, args []string) error {
	block, err := readBlock(blockFile)
	if err != nil {
		return err
	}

	pterm.Info.Printfln("encoding: %s", ledger.CanonicalEncode(block))
	pterm.Info.Printfln("hash:     %s", block.Hash())

	return nil
}
