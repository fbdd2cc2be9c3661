package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PalletStack/internal/engine"
	"github.com/piwi3910/PalletStack/internal/formula"
	"github.com/piwi3910/PalletStack/internal/logging"
)

// parseCommand checks formulas and prints their canonical form and origin.
func (c *CLI) parseCommand() *cobra.Command {
	var geo geometryOpts

	cmd := &cobra.Command{
		Use:   "parse FORMULA...",
		Short: "Check box formulas and print their canonical form",
		Long: `Check box formulas of the form "<O>;<x>;<y>;<group>" and print the
canonical form together with the box origin for the given box size.

Example:
  palletctl parse "V;2L;W;" "H;l+w;;top" -L 400 -W 300`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.FromContext(cmd.Context())
			_, box, _, err := geo.resolve(c.config(), c.presetsPath)
			if err != nil {
				return err
			}

			var rows [][]string
			failed := 0
			for _, s := range args {
				f, err := formula.Parse(s)
				if err != nil {
					logger.Error("invalid formula", "formula", s, "err", err)
					failed++
					continue
				}
				it, err := engine.EvaluateFormula(s, box)
				if err != nil {
					logger.Error("evaluate", "formula", s, "err", err)
					failed++
					continue
				}
				rows = append(rows, []string{s, formula.Format(f), f.Orientation.String(), mm(it.StartX), mm(it.StartY), f.Group})
			}
			if len(rows) > 0 {
				printTable(cmd.OutOrStdout(), []string{"Input", "Canonical", "Orient", "X", "Y", "Group"}, rows)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d formulas are invalid", failed, len(args))
			}
			return nil
		},
	}

	geo.addFlags(cmd)
	return cmd
}
