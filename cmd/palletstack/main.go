// PalletStack: pallet box pattern editor.
//
// A cross-platform desktop application for designing box stacking patterns
// as formulas, checking them for collisions and exporting reports, labels
// and CAD drawings.
//
// Build:
//   go build -o palletstack ./cmd/palletstack
//
// Using fyne-cross for packaged builds:
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	fynetooltip "github.com/dweymouth/fyne-tooltip"

	"github.com/piwi3910/PalletStack/internal/logging"
	"github.com/piwi3910/PalletStack/internal/model"
	"github.com/piwi3910/PalletStack/internal/project"
	"github.com/piwi3910/PalletStack/internal/ui"
)

func main() {
	cfg, cfgErr := project.LoadAppConfig(project.DefaultConfigPath())
	if cfgErr != nil {
		cfg = model.DefaultAppConfig()
	}

	logger, closer := logging.Setup(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	defer closer.Close()
	if cfgErr != nil {
		logger.Warn("config not loaded, using defaults", "err", cfgErr)
	}

	libDir := project.LibraryDirFor(cfg)
	res, err := project.LoadLibrary(libDir)
	if err != nil {
		logger.Error("loading pattern library", "dir", libDir, "err", err)
	}
	for _, e := range res.Errors {
		logger.Warn("pattern skipped", "err", e)
	}
	for _, w := range res.Warnings {
		logger.Warn("pattern has bad formulas", "err", w)
	}
	logger.Info("starting", "library", libDir, "patterns", len(res.Library))

	application := app.NewWithID("com.piwi3910.palletstack")
	application.Settings().SetTheme(ui.ThemeForName(cfg.Theme))

	window := application.NewWindow("PalletStack: Pallet Box Pattern Editor")

	appUI := ui.NewApp(application, window, cfg, res.Library, logger)
	appUI.SetupMenus()
	window.SetContent(fynetooltip.AddWindowToolTipLayer(appUI.Build(), window.Canvas()))
	window.Resize(fyne.NewSize(1400, 800))
	window.CenterOnScreen()
	window.ShowAndRun()
}
