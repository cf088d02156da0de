package cmd

import (
	"github.com/ardanlabs/powledger/foundation/blockchain/ledger"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var chainFile string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a chain written by the list endpoint or the mine command",
	RunE:  validateRun,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVarP(&chainFile, "file", "f", "-", "Path to a JSON chain, - for stdin.")
}

func validateRun(cmd *cobra.Command, args []string) error {
	chain, err := readChain(chainFile)
	if err != nil {
		return err
	}

	if err := ledger.ValidateChain(chain, difficulty); err != nil {
		return err
	}

	pterm.Success.Printfln("chain of %d blocks is valid", len(chain))

	return nil
}
