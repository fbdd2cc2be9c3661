package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/PalletStack/internal/engine"
	"github.com/piwi3910/PalletStack/internal/model"
	"github.com/piwi3910/PalletStack/internal/project"
)

// showSettingsDialog displays the application settings editor.
func (a *App) showSettingsDialog() {
	cfg := a.config

	// Helper to create a float entry bound to a pointer
	floatEntry := func(val *float64) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(strconv.FormatFloat(*val, 'f', -1, 64))
		e.OnChanged = func(text string) {
			if v, err := strconv.ParseFloat(text, 64); err == nil {
				*val = v
			}
		}
		return e
	}

	intEntry := func(val *int) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(fmt.Sprintf("%d", *val))
		e.OnChanged = func(text string) {
			if v, err := strconv.Atoi(text); err == nil {
				*val = v
			}
		}
		return e
	}

	themeSelect := widget.NewSelect([]string{"system", "light", "dark"}, func(selected string) {
		cfg.Theme = selected
	})
	themeSelect.SetSelected(cfg.Theme)

	directionSelect := widget.NewSelect([]string{engine.DirectionX.String(), engine.DirectionY.String()}, func(selected string) {
		cfg.SearchDirection = selected
	})
	directionSelect.SetSelected(cfg.SearchDirection)

	logSelect := widget.NewSelect([]string{"debug", "info", "warn", "error"}, func(selected string) {
		cfg.LogLevel = selected
	})
	logSelect.SetSelected(cfg.LogLevel)

	centerCheck := widget.NewCheck("Center pattern on pallet", func(on bool) {
		cfg.CenterPattern = on
	})
	centerCheck.SetChecked(cfg.CenterPattern)

	libraryEntry := widget.NewEntry()
	libraryEntry.SetText(cfg.LibraryDir)
	libraryEntry.SetPlaceHolder(project.LibraryDirFor(model.AppConfig{}))
	libraryEntry.OnChanged = func(text string) {
		cfg.LibraryDir = text
	}

	formItems := []*widget.FormItem{
		widget.NewFormItem("Theme", themeSelect),
		widget.NewFormItem("Log Level", logSelect),
		widget.NewFormItem("Library Directory", libraryEntry),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Default Pallet Length (mm)", floatEntry(&cfg.DefaultPalletLength)),
		widget.NewFormItem("Default Pallet Width (mm)", floatEntry(&cfg.DefaultPalletWidth)),
		widget.NewFormItem("Default Box Length (mm)", floatEntry(&cfg.DefaultBoxLength)),
		widget.NewFormItem("Default Box Width (mm)", floatEntry(&cfg.DefaultBoxWidth)),
		widget.NewFormItem("Default Box Height (mm)", floatEntry(&cfg.DefaultBoxHeight)),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Collision Tolerance (mm, max 0.1)", floatEntry(&cfg.CollisionTolerance)),
		widget.NewFormItem("Search Direction", directionSelect),
		widget.NewFormItem("Max Search Candidates (0=all)", intEntry(&cfg.MaxSearchCandidates)),
		widget.NewFormItem("", centerCheck),
	}

	d := dialog.NewForm("Settings", "Save", "Cancel", formItems,
		func(ok bool) {
			if !ok {
				return
			}
			a.config = cfg
			a.applyConfig()
			if err := a.saveConfig(); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save settings: %w", err), a.window)
			} else {
				dialog.ShowInformation("Settings Saved", "Application settings have been saved.", a.window)
			}
		},
		a.window,
	)
	d.Resize(fyne.NewSize(500, 600))
	d.Show()
}

// applyConfig pushes the editor settings into the running session.
func (a *App) applyConfig() {
	s := a.session
	if a.config.CollisionTolerance > 0 {
		s.Tolerance = engine.ClampTolerance(a.config.CollisionTolerance)
	}
	if d, ok := engine.ParseDirection(a.config.SearchDirection); ok {
		s.Direction = d
	}
	s.MaxCandidates = a.config.MaxSearchCandidates
	s.Centered = a.config.CenterPattern
	a.libDir = project.LibraryDirFor(a.config)
	if a.app != nil {
		a.app.Settings().SetTheme(ThemeForName(a.config.Theme))
	}
	if err := s.SetBox(s.Box); err != nil {
		a.logger.Warn("re-evaluating layers", "err", err)
	}
	a.refresh()
}

// saveConfig persists the current app config to disk.
func (a *App) saveConfig() error {
	return project.SaveAppConfig(a.configPath, a.config)
}
