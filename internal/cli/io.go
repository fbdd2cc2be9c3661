package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PalletStack/internal/engine"
	"github.com/piwi3910/PalletStack/internal/export"
	"github.com/piwi3910/PalletStack/internal/importer"
	"github.com/piwi3910/PalletStack/internal/logging"
	"github.com/piwi3910/PalletStack/internal/model"
	"github.com/piwi3910/PalletStack/internal/project"
)

// importCommand reads a formula table or a DXF drawing into the library.
func (c *CLI) importCommand() *cobra.Command {
	var (
		geo    geometryOpts
		name   string
		sheet  string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a pattern from CSV, XLSX or DXF",
		Long: `Import a pattern into the library. CSV and XLSX files hold one box per
row (BoxOrient, BoxXFormula, BoxYFormula, BoxGroup or a single formula
column). DXF files hold one closed rectangle per box; each rectangle is
matched to the box size and turned into a formula.

The pattern is named after the file unless --name is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.FromContext(cmd.Context())
			cfg := c.config()
			path := args[0]

			var res importer.ImportResult
			switch ext := strings.ToLower(filepath.Ext(path)); ext {
			case ".csv", ".txt", ".tsv":
				res = importer.ImportCSV(path)
			case ".xlsx", ".xlsm":
				res = importer.ImportExcelSheet(path, sheet)
			case ".dxf":
				_, box, _, err := geo.resolve(cfg, c.presetsPath)
				if err != nil {
					return err
				}
				res = importer.ImportDXF(path, box)
			default:
				return model.NewError(model.CodeInvalidInput, "unsupported file type %q", ext)
			}

			out := cmd.OutOrStdout()
			for _, w := range res.Warnings {
				printWarning(out, "%s", w)
			}
			for _, e := range res.Errors {
				printError(out, "%s", e)
			}
			if res.Definition.Len() == 0 {
				return fmt.Errorf("no boxes imported from %s", filepath.Base(path))
			}

			if name == "" {
				base := filepath.Base(path)
				name = strings.TrimSuffix(base, filepath.Ext(base))
			}
			if dryRun {
				for _, f := range res.Definition.Formulas() {
					fmt.Fprintln(out, f)
				}
				return nil
			}

			saved, err := project.SaveDefinition(c.libDir(cfg), name, res.Definition)
			if err != nil {
				return fmt.Errorf("save pattern: %w", err)
			}
			logger.Info("pattern imported", "name", name, "boxes", res.Definition.Len(), "path", saved)
			printSuccess(out, "Imported %d boxes as %q", res.Definition.Len(), name)
			return nil
		},
	}

	geo.addFlags(cmd)
	cmd.Flags().StringVarP(&name, "name", "n", "", "pattern name (default: file name)")
	cmd.Flags().StringVar(&sheet, "sheet", "", "worksheet to read from an XLSX file (default: first)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the imported formulas without saving")
	return cmd
}

// exportCommand writes reports and drawings for a set of layer patterns.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		geo    geometryOpts
		output string
		odd    string
		even   string
		top    string
	)

	cmd := &cobra.Command{
		Use:   "export FORMAT",
		Short: "Export layers as pdf, labels, dxf or the library as xlsx",
		Long: `Export the layers given by --odd, --even and --top:

  pdf     one page per layer plus a summary page
  labels  a sheet of box labels with QR codes
  dxf     pallet outline and one DXF layer per pallet layer
  xlsx    every library pattern as a worksheet (layers not needed)`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"pdf", "labels", "dxf", "xlsx"},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.FromContext(cmd.Context())
			cfg := c.config()
			format := strings.ToLower(args[0])

			lib, err := c.loadLibrary(cfg)
			if err != nil {
				return err
			}
			if output == "" {
				output = defaultExportName(format)
			}

			if format == "xlsx" {
				sheets, err := export.ExportLibraryXLSX(output, lib)
				if err != nil {
					return err
				}
				logger.Info("library exported", "path", output, "sheets", len(sheets))
				printSuccess(cmd.OutOrStdout(), "Wrote %d patterns to %s", len(sheets), output)
				return nil
			}

			s, err := c.newSession(cfg, lib, geo)
			if err != nil {
				return err
			}
			assigned := map[model.Layer]string{model.LayerOdd: odd, model.LayerEven: even, model.LayerTop: top}
			for _, layer := range model.AllLayers {
				if assigned[layer] == "" {
					continue
				}
				ls, err := s.ApplyPattern(layer, assigned[layer])
				if err != nil {
					return err
				}
				if ls.Rejected != nil {
					logger.Warn("slots rejected", "layer", layer, "slots", engine.RejectedSlots(ls.Rejected))
				}
			}

			switch format {
			case "pdf":
				err = export.ExportPDF(output, s)
			case "labels":
				err = export.ExportLabels(output, s)
			case "dxf":
				err = export.ExportDXF(output, s)
			default:
				return model.NewError(model.CodeInvalidInput, "unknown export format %q", format)
			}
			if err != nil {
				return err
			}
			logger.Info("exported", "format", format, "path", output)
			printSuccess(cmd.OutOrStdout(), "Wrote %s", output)
			return nil
		},
	}

	geo.addFlags(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: pallet.<format>)")
	cmd.Flags().StringVar(&odd, "odd", "", "pattern for the odd layers")
	cmd.Flags().StringVar(&even, "even", "", "pattern for the even layers")
	cmd.Flags().StringVar(&top, "top", "", "pattern for the top layer")
	return cmd
}

func defaultExportName(format string) string {
	switch format {
	case "labels":
		return "pallet-labels.pdf"
	default:
		return "pallet." + format
	}
}
