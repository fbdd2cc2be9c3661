// Package cli implements the palletctl command-line interface.
//
// The commands work on the same pattern library directory as the desktop
// editor:
//   - parse: check formulas and print their canonical form
//   - layout: evaluate a pattern and report positions, collisions and labels
//   - place, synth: find the next free slot or write the formula for a position
//   - import, export: move patterns between the library and CSV, XLSX, DXF, PDF
//   - validate, presets: inspect the library and the pallet/box preset catalog
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// passed to commands through the command context.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/PalletStack/internal/engine"
	"github.com/piwi3910/PalletStack/internal/logging"
	"github.com/piwi3910/PalletStack/internal/model"
	"github.com/piwi3910/PalletStack/internal/project"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath  string
	libraryDir  string
	presetsPath string
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: logging.New(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "palletctl",
		Short: "palletctl evaluates and edits pallet box patterns",
		Long: `palletctl works with pallet box patterns written as formulas over the
box length L and width W, e.g. "V;2L;W;". Patterns live in a library
directory with one JSON file per pattern.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(logging.WithLogger(cmd.Context(), c.Logger))
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", project.DefaultConfigPath(), "application config file")
	root.PersistentFlags().StringVar(&c.libraryDir, "library", "", "pattern library directory (default: from config)")
	root.PersistentFlags().StringVar(&c.presetsPath, "presets", project.DefaultInventoryPath(), "pallet and box preset catalog")

	root.AddCommand(c.parseCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.placeCommand())
	root.AddCommand(c.synthCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.presetsCommand())

	return root
}

// config loads the application config, falling back to defaults.
func (c *CLI) config() model.AppConfig {
	cfg, err := project.LoadAppConfig(c.configPath)
	if err != nil {
		c.Logger.Warn("config not loaded, using defaults", "path", c.configPath, "err", err)
		return model.DefaultAppConfig()
	}
	return cfg
}

func (c *CLI) libDir(cfg model.AppConfig) string {
	if c.libraryDir != "" {
		return c.libraryDir
	}
	return project.LibraryDirFor(cfg)
}

// loadLibrary reads the pattern library and logs the files it skipped.
func (c *CLI) loadLibrary(cfg model.AppConfig) (model.PatternLibrary, error) {
	dir := c.libDir(cfg)
	res, err := project.LoadLibrary(dir)
	if err != nil {
		return nil, fmt.Errorf("load library %s: %w", dir, err)
	}
	for _, e := range res.Errors {
		c.Logger.Warn("pattern skipped", "err", e)
	}
	for _, w := range res.Warnings {
		c.Logger.Warn("pattern has bad formulas", "err", w)
	}
	c.Logger.Debug("library loaded", "dir", dir, "patterns", len(res.Library))
	return res.Library, nil
}

// geometryOpts are the pallet, box and label flags shared by several commands.
// Zero dimensions fall back to the config defaults.
type geometryOpts struct {
	palletLength float64
	palletWidth  float64
	boxLength    float64
	boxWidth     float64
	boxHeight    float64
	labels       string
	palletPreset string
	boxPreset    string
	centered     bool
}

func (o *geometryOpts) addFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&o.palletLength, "pallet-length", 0, "pallet length in mm")
	cmd.Flags().Float64Var(&o.palletWidth, "pallet-width", 0, "pallet width in mm")
	cmd.Flags().Float64VarP(&o.boxLength, "length", "L", 0, "box length in mm")
	cmd.Flags().Float64VarP(&o.boxWidth, "width", "W", 0, "box width in mm")
	cmd.Flags().Float64Var(&o.boxHeight, "height", 0, "box height in mm")
	cmd.Flags().StringVar(&o.labels, "labels", "", "labelled box faces, e.g. front,back (default: from config)")
	cmd.Flags().StringVar(&o.palletPreset, "pallet-preset", "", "use a named pallet preset")
	cmd.Flags().StringVar(&o.boxPreset, "box-preset", "", "use a named box preset")
	cmd.Flags().BoolVar(&o.centered, "center", true, "center the pattern on the pallet")
}

// resolve builds the pallet, box and label faces from presets, flags and cfg.
func (o *geometryOpts) resolve(cfg model.AppConfig, presetsPath string) (model.Pallet, model.Box, model.Sides, error) {
	pallet := cfg.DefaultPallet()
	box := cfg.DefaultBox()
	labels := cfg.DefaultLabelSides

	if o.palletPreset != "" || o.boxPreset != "" {
		inv, err := project.LoadInventory(presetsPath)
		if err != nil {
			return pallet, box, labels, fmt.Errorf("load presets: %w", err)
		}
		if o.palletPreset != "" {
			pp := inv.FindPalletByName(o.palletPreset)
			if pp == nil {
				return pallet, box, labels, model.NewError(model.CodeInvalidInput, "pallet preset %q not found", o.palletPreset)
			}
			pallet = pp.Pallet()
		}
		if o.boxPreset != "" {
			bp := inv.FindBoxByName(o.boxPreset)
			if bp == nil {
				return pallet, box, labels, model.NewError(model.CodeInvalidInput, "box preset %q not found", o.boxPreset)
			}
			box = bp.Box()
			if bp.Labels.Count() > 0 {
				labels = bp.Labels
			}
		}
	}

	if o.palletLength > 0 {
		pallet.Length = o.palletLength
	}
	if o.palletWidth > 0 {
		pallet.Width = o.palletWidth
	}
	if o.boxLength > 0 {
		box.Length = o.boxLength
	}
	if o.boxWidth > 0 {
		box.Width = o.boxWidth
	}
	if o.boxHeight > 0 {
		box.Height = o.boxHeight
	}
	if o.labels != "" {
		s, err := parseSides(o.labels)
		if err != nil {
			return pallet, box, labels, err
		}
		labels = s
	}

	if err := pallet.Validate(); err != nil {
		return pallet, box, labels, err
	}
	if err := box.Validate(); err != nil {
		return pallet, box, labels, err
	}
	return pallet, box, labels, nil
}

// parseSides reads a comma-separated side list. "none" clears every side
// and "all" sets every side.
func parseSides(s string) (model.Sides, error) {
	var out model.Sides
	for _, part := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "":
		case "none":
			out = model.Sides{}
		case "all":
			out = model.AllSides()
		case "back":
			out[model.SideBack] = true
		case "right":
			out[model.SideRight] = true
		case "front":
			out[model.SideFront] = true
		case "left":
			out[model.SideLeft] = true
		default:
			return out, model.NewError(model.CodeInvalidInput, "unknown side %q", part)
		}
	}
	return out, nil
}

func formatSides(s model.Sides) string {
	var names []string
	for side := model.SideBack; side <= model.SideLeft; side++ {
		if s[side] {
			names = append(names, side.String())
		}
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ",")
}

// newSession creates an engine session from cfg and the resolved geometry.
func (c *CLI) newSession(cfg model.AppConfig, lib model.PatternLibrary, o geometryOpts) (*engine.Session, error) {
	pallet, box, labels, err := o.resolve(cfg, c.presetsPath)
	if err != nil {
		return nil, err
	}
	s := engine.NewSessionFromConfig(cfg, lib)
	s.SetLogger(c.Logger)
	s.Pallet = pallet
	s.Box = box
	s.Labels = labels
	s.Centered = o.centered
	return s, nil
}
