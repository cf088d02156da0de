package cmd

import (
	"context"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/ledger"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	previousProof int64
	maxAttempts   uint64
	timeout       time.Duration
)

var powCmd = &cobra.Command{
	Use:   "pow",
	Short: "Find the proof that solves the puzzle for a previous proof",
	RunE:  powRun,
}

func init() {
	rootCmd.AddCommand(powCmd)
	powCmd.Flags().Int64VarP(&previousProof, "previous", "p", ledger.GenesisProof, "Proof of the previous block.")
	powCmd.Flags().Uint64Var(&maxAttempts, "max-attempts", 0, "Candidates to try before giving up, 0 for no limit.")
	powCmd.Flags().DurationVar(&timeout, "timeout", 0, "Time to search before giving up, 0 for no limit.")
}

func powRun(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	spinner, _ := pterm.DefaultSpinner.Start("Searching for a proof...")

	t := time.Now()
	proof, err := ledger.ProofOfWork(ctx, previousProof, ledger.Search{
		Difficulty:  difficulty,
		MaxAttempts: maxAttempts,
	})
	if err != nil {
		spinner.Fail(err.Error())
		return err
	}

	spinner.Success(pterm.Sprintf("Found proof %d in %v", proof, time.Since(t)))

	pterm.Info.Printfln("input: %s", ledger.PuzzleInput(previousProof, proof))
	pterm.Info.Printfln("hash:  %s", ledger.PuzzleHash(previousProof, proof))

	return nil
}
