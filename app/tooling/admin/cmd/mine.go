package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/ardanlabs/powledger/foundation/blockchain/ledger"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	blocks  int
	outFile string
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Mine a fresh in memory chain and print it",
	RunE:  mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
	mineCmd.Flags().IntVarP(&blocks, "blocks", "n", 3, "Number of blocks to mine after genesis.")
	mineCmd.Flags().StringVarP(&outFile, "out", "o", "", "Write the chain as JSON to this path.")
}

func mineRun(cmd *cobra.Command, args []string) error {
	lgr, err := ledger.New(ledger.Config{Difficulty: difficulty})
	if err != nil {
		return err
	}

	for i := 0; i < blocks; i++ {
		spinner, _ := pterm.DefaultSpinner.Start(pterm.Sprintf("Mining block %d...", i+2))

		if _, err := lgr.Mine(commandContext(cmd)); err != nil {
			spinner.Fail(err.Error())
			return err
		}

		spinner.Success(pterm.Sprintf("Mined block %d", i+2))
	}

	chain := lgr.Blocks()

	data := pterm.TableData{{"Index", "Proof", "Previous Hash", "Hash"}}
	for _, b := range chain {
		data = append(data, []string{strconv.FormatInt(b.Index, 10), strconv.FormatInt(b.Proof, 10), b.PreviousHash, b.Hash()})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}

	if outFile == "" {
		return nil
	}

	doc := struct {
		Length int            `json:"length"`
		Chain  []ledger.Block `json:"chain"`
	}{
		Length: len(chain),
		Chain:  chain,
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(outFile, out, 0600); err != nil {
		return fmt.Errorf("writing chain: %w", err)
	}

	pterm.Info.Printfln("chain written to %s", outFile)

	return nil
}
