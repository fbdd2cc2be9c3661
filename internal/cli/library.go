package cli

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PalletStack/internal/engine"
	"github.com/piwi3910/PalletStack/internal/model"
	"github.com/piwi3910/PalletStack/internal/project"
)

// validateCommand checks every pattern file of the library.
func (c *CLI) validateCommand() *cobra.Command {
	var geo geometryOpts

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the pattern library for schema and formula errors",
		Long: `Load every pattern of the library, report files that fail the pattern
schema, formulas that do not parse and patterns whose boxes collide for the
configured box and pallet.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config()
			dir := c.libDir(cfg)
			res, err := project.LoadLibrary(dir)
			if err != nil {
				return fmt.Errorf("load library %s: %w", dir, err)
			}
			pallet, box, _, err := geo.resolve(cfg, c.presetsPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printTitle(out, "Library "+dir)
			for _, e := range res.Errors {
				printError(out, "%s", e)
			}
			for _, w := range res.Warnings {
				printWarning(out, "%s", w)
			}

			problems := len(res.Errors) + len(res.Warnings)
			for _, name := range res.Library.Names() {
				items, _ := engine.EvaluateDefinition(res.Library[name], box)
				pm := engine.NewPatternModel(pallet, box, items)
				if cfg.CollisionTolerance > 0 {
					pm.SetTolerance(cfg.CollisionTolerance)
				}
				display := model.Pattern(pm.LayoutAndDraw(false, nil))
				if n := display.CollisionCount(); n > 0 {
					printWarning(out, "%s: %d of %d boxes collide", name, n, len(display))
					problems++
					continue
				}
				printSuccess(out, "%s: %d boxes", name, len(display))
			}

			if problems > 0 {
				return fmt.Errorf("%d problems in %d pattern files", problems, len(res.Library)+len(res.Errors))
			}
			return nil
		},
	}

	geo.addFlags(cmd)
	return cmd
}

// presetsCommand lists the pallet and box preset catalog.
func (c *CLI) presetsCommand() *cobra.Command {
	var (
		file  string
		merge bool
	)

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List pallet and box presets",
		Long: `List the pallet and box preset catalog. --file reads a JSON or TOML
catalog instead; with --merge its presets are added to the saved catalog.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.presetsPath
			inv, err := project.LoadInventory(path)
			if err != nil {
				return fmt.Errorf("load presets: %w", err)
			}

			if file != "" {
				if merge {
					inv, err = project.ImportInventory(file, inv)
					if err == nil {
						err = project.SaveInventory(path, inv)
					}
				} else if filepath.Ext(file) == ".toml" {
					inv, err = project.LoadInventoryTOML(file)
				} else {
					inv, err = project.ImportInventory(file, model.Inventory{})
				}
				if err != nil {
					return fmt.Errorf("read presets %s: %w", file, err)
				}
			}

			out := cmd.OutOrStdout()
			printTitle(out, "Pallets")
			rows := make([][]string, 0, len(inv.Pallets))
			for _, p := range inv.Pallets {
				rows = append(rows, []string{p.Name, mm(p.Length), mm(p.Width)})
			}
			printTable(out, []string{"Name", "Length", "Width"}, rows)

			printTitle(out, "Boxes")
			rows = make([][]string, 0, len(inv.Boxes))
			for _, b := range inv.Boxes {
				rows = append(rows, []string{b.Name, mm(b.Length), mm(b.Width), mm(b.Height), formatSides(b.Labels)})
			}
			printTable(out, []string{"Name", "Length", "Width", "Height", "Labels"}, rows)
			printDetail(out, "%s pallets, %s boxes", strconv.Itoa(len(inv.Pallets)), strconv.Itoa(len(inv.Boxes)))
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "read presets from a JSON or TOML file")
	cmd.Flags().BoolVar(&merge, "merge", false, "merge --file into the saved catalog")
	return cmd
}
