package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PalletStack/internal/engine"
	"github.com/piwi3910/PalletStack/internal/logging"
	"github.com/piwi3910/PalletStack/internal/model"
	"github.com/piwi3910/PalletStack/internal/project"
)

// layoutReport is the JSON form of an evaluated layer.
type layoutReport struct {
	Pattern    string       `json:"pattern,omitempty"`
	Pallet     model.Pallet `json:"pallet"`
	Box        model.Box    `json:"box"`
	Items      []model.Item `json:"items"`
	Rejected   []int        `json:"rejected_slots,omitempty"`
	Colliding  int          `json:"colliding"`
	Efficiency float64      `json:"efficiency"`
	Bounds     model.Rect   `json:"bounds"`
}

// definitionFor returns the named library pattern, or an ad-hoc definition
// built from formulas when no name is given.
func (c *CLI) definitionFor(cfg model.AppConfig, args, formulas []string) (string, model.PatternDefinition, error) {
	if len(args) == 0 {
		if len(formulas) == 0 {
			return "", model.PatternDefinition{}, model.NewError(model.CodeInvalidInput, "give a pattern name or --formula")
		}
		return "", model.NewPatternDefinition(formulas...), nil
	}
	lib, err := c.loadLibrary(cfg)
	if err != nil {
		return "", model.PatternDefinition{}, err
	}
	def, ok := lib.Find(args[0])
	if !ok {
		return args[0], def, model.NewError(model.CodePatternNotFound, "pattern %q not found", args[0])
	}
	return args[0], def, nil
}

// layoutCommand evaluates a pattern and reports its layer.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		geo      geometryOpts
		formulas []string
		asJSON   bool
		strict   bool
	)

	cmd := &cobra.Command{
		Use:   "layout [PATTERN]",
		Short: "Evaluate a pattern and report box positions, collisions and labels",
		Long: `Evaluate a library pattern (or formulas given with --formula) for a box
and pallet, then report every box position, colliding boxes, outer sides
and the label faces that end up readable from outside the layer.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.FromContext(cmd.Context())
			cfg := c.config()
			pallet, box, labels, err := geo.resolve(cfg, c.presetsPath)
			if err != nil {
				return err
			}
			name, def, err := c.definitionFor(cfg, args, formulas)
			if err != nil {
				return err
			}

			items, evalErr := engine.EvaluateDefinition(def, box)
			if items == nil && evalErr != nil {
				return evalErr
			}
			rejected := engine.RejectedSlots(evalErr)
			if len(rejected) > 0 {
				logger.Warn("slots rejected", "slots", rejected, "err", evalErr)
			}

			pm := engine.NewPatternModel(pallet, box, items)
			pm.SetLogger(logger)
			if cfg.CollisionTolerance > 0 {
				pm.SetTolerance(cfg.CollisionTolerance)
			}
			pm.SetLabels(labels)
			display := model.Pattern(pm.LayoutAndDraw(geo.centered, nil))

			report := layoutReport{
				Pattern:    name,
				Pallet:     pallet,
				Box:        box,
				Items:      display,
				Rejected:   rejected,
				Colliding:  display.CollisionCount(),
				Efficiency: display.Efficiency(pallet),
				Bounds:     display.Bounds(),
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				printLayout(cmd, report)
			}

			if strict && (report.Colliding > 0 || len(rejected) > 0) {
				return fmt.Errorf("%d colliding boxes, %d rejected slots", report.Colliding, len(rejected))
			}
			return nil
		},
	}

	geo.addFlags(cmd)
	cmd.Flags().StringArrayVarP(&formulas, "formula", "f", nil, "formula to lay out (repeatable) instead of a library pattern")
	cmd.Flags().BoolVar(&asJSON, "json", false, "write the layer as JSON")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when boxes collide or slots are rejected")
	return cmd
}

func printLayout(cmd *cobra.Command, r layoutReport) {
	out := cmd.OutOrStdout()
	title := "Layer"
	if r.Pattern != "" {
		title = "Pattern " + r.Pattern
	}
	printTitle(out, title)

	rows := make([][]string, 0, len(r.Items))
	for _, it := range r.Items {
		flag := ""
		if it.Colliding {
			flag = iconError
		}
		rows = append(rows, []string{
			strconv.Itoa(it.Slot + 1),
			it.Orientation.Code(),
			mm(it.StartX),
			mm(it.StartY),
			it.Formula,
			formatSides(it.OuterSides),
			formatSides(it.ExposedLabels),
			strconv.Itoa(it.LabelRotation),
			flag,
		})
	}
	printTable(out, []string{"#", "O", "X", "Y", "Formula", "Outer", "Labels", "Turn", "Hit"}, rows)

	printKeyValue(out, "Pallet", fmt.Sprintf("%s x %s mm", mm(r.Pallet.Length), mm(r.Pallet.Width)))
	printKeyValue(out, "Box", fmt.Sprintf("%s x %s x %s mm", mm(r.Box.Length), mm(r.Box.Width), mm(r.Box.Height)))
	printKeyValue(out, "Boxes", strconv.Itoa(len(r.Items)))
	printKeyValue(out, "Fill", fmt.Sprintf("%.1f%%", r.Efficiency))
	printKeyValue(out, "Bounds", fmt.Sprintf("%s x %s mm", mm(r.Bounds.Length), mm(r.Bounds.Width)))

	if r.Colliding > 0 {
		printWarning(out, "%d boxes collide", r.Colliding)
	}
	for _, slot := range r.Rejected {
		printWarning(out, "slot %d rejected", slot+1)
	}
}

// placeCommand finds the next free slot for a box on a pattern.
func (c *CLI) placeCommand() *cobra.Command {
	var (
		geo       geometryOpts
		orient    string
		direction string
		maxCand   int
		save      bool
	)

	cmd := &cobra.Command{
		Use:   "place PATTERN",
		Short: "Find the next free slot for a box and print its formula",
		Long: `Scan the pallet for the first free slot of a box with the given
orientation, next to the boxes of PATTERN. With --save the formula is
appended to the pattern in the library.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.FromContext(cmd.Context())
			cfg := c.config()
			pallet, box, _, err := geo.resolve(cfg, c.presetsPath)
			if err != nil {
				return err
			}
			o, ok := model.ParseOrientation(orient)
			if !ok {
				return model.NewError(model.CodeInvalidInput, "unknown orientation %q", orient)
			}
			if direction == "" {
				direction = cfg.SearchDirection
			}
			dir, ok := engine.ParseDirection(direction)
			if !ok {
				return model.NewError(model.CodeInvalidInput, "unknown direction %q", direction)
			}
			if !cmd.Flags().Changed("max-candidates") {
				maxCand = cfg.MaxSearchCandidates
			}

			name, def, err := c.definitionFor(cfg, args, nil)
			if err != nil {
				return err
			}
			items, evalErr := engine.EvaluateDefinition(def, box)
			if items == nil && evalErr != nil {
				return evalErr
			}

			pl, found, err := engine.FindPlacement(engine.PlacementRequest{
				Orientation:   o,
				Box:           box,
				Pallet:        pallet,
				Occupied:      items,
				Direction:     dir,
				MaxCandidates: maxCand,
			})
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("no free slot for a %s box on %q", o, name)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, pl.Formula)
			printDetail(out, "at x=%s y=%s", mm(pl.X), mm(pl.Y))

			if save {
				def.Append(pl.Formula)
				path, err := project.SaveDefinition(c.libDir(cfg), name, def)
				if err != nil {
					return fmt.Errorf("save pattern: %w", err)
				}
				logger.Info("pattern updated", "path", path, "boxes", def.Len())
			}
			return nil
		},
	}

	geo.addFlags(cmd)
	cmd.Flags().StringVarP(&orient, "orient", "o", "H", "box orientation: H or V")
	cmd.Flags().StringVar(&direction, "direction", "", "scan order: x (rows first) or y (columns first)")
	cmd.Flags().IntVar(&maxCand, "max-candidates", 0, "stop after this many candidates, 0 = whole grid")
	cmd.Flags().BoolVar(&save, "save", false, "append the formula to the pattern")
	return cmd
}

// synthCommand writes the formula for a box at an explicit position.
func (c *CLI) synthCommand() *cobra.Command {
	var (
		geo    geometryOpts
		orient string
		x, y   float64
	)

	cmd := &cobra.Command{
		Use:   "synth [PATTERN]",
		Short: "Write the formula for a box at a given position",
		Long: `Express a box origin (x, y) in box lengths and widths. When PATTERN is
given its boxes act as neighbours and steer the choice between equivalent
formulas.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config()
			_, box, _, err := geo.resolve(cfg, c.presetsPath)
			if err != nil {
				return err
			}
			o, ok := model.ParseOrientation(orient)
			if !ok {
				return model.NewError(model.CodeInvalidInput, "unknown orientation %q", orient)
			}

			var neighbours []model.Item
			if len(args) > 0 {
				_, def, err := c.definitionFor(cfg, args, nil)
				if err != nil {
					return err
				}
				neighbours, _ = engine.EvaluateDefinition(def, box)
			}

			f, err := engine.Synthesize(x, y, o, box, neighbours)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), f)
			return nil
		},
	}

	geo.addFlags(cmd)
	cmd.Flags().StringVarP(&orient, "orient", "o", "H", "box orientation: H or V")
	cmd.Flags().Float64Var(&x, "x", 0, "box origin along the pallet length (mm)")
	cmd.Flags().Float64Var(&y, "y", 0, "box origin along the pallet width (mm)")
	return cmd
}
