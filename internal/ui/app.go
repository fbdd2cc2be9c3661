package ui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/charmbracelet/log"

	"github.com/piwi3910/PalletStack/internal/engine"
	"github.com/piwi3910/PalletStack/internal/export"
	"github.com/piwi3910/PalletStack/internal/formula"
	"github.com/piwi3910/PalletStack/internal/importer"
	"github.com/piwi3910/PalletStack/internal/logging"
	"github.com/piwi3910/PalletStack/internal/model"
	"github.com/piwi3910/PalletStack/internal/project"
	"github.com/piwi3910/PalletStack/internal/ui/widgets"
)

const maxRecentPatterns = 10

// App holds all application state and UI references.
type App struct {
	app     fyne.App
	window  fyne.Window
	session *engine.Session
	history *History
	logger  *log.Logger

	config        model.AppConfig
	configPath    string
	libDir        string
	inventory     model.Inventory
	inventoryPath string

	layer model.Layer

	// UI references for dynamic updates
	canvas        *widgets.PatternCanvas
	patternSelect *widget.Select
	formulaList   *fyne.Container
	statsLabel    *widget.Label
	statusLabel   *widget.Label
	labelChecks   [4]*widget.Check
}

// NewApp creates the editor over a loaded pattern library.
func NewApp(application fyne.App, window fyne.Window, cfg model.AppConfig, lib model.PatternLibrary, logger *log.Logger) *App {
	logger = logging.OrDiscard(logger)
	inv, err := project.LoadInventory(project.DefaultInventoryPath())
	if err != nil {
		logger.Warn("inventory not loaded, using defaults", "err", err)
		inv = model.DefaultInventory()
	}
	a := newApp(application, window, cfg, lib, inv, logger)
	a.configPath = project.DefaultConfigPath()
	a.inventoryPath = project.DefaultInventoryPath()
	return a
}

func newApp(application fyne.App, window fyne.Window, cfg model.AppConfig, lib model.PatternLibrary, inv model.Inventory, logger *log.Logger) *App {
	logger = logging.OrDiscard(logger)
	s := engine.NewSessionFromConfig(cfg, lib)
	s.SetLogger(logger)
	return &App{
		app:       application,
		window:    window,
		session:   s,
		history:   NewHistory(),
		logger:    logger,
		config:    cfg,
		libDir:    project.LibraryDirFor(cfg),
		inventory: inv,
		layer:     model.LayerOdd,
	}
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Pattern...", func() {
			a.showNewPatternDialog()
		}),
		fyne.NewMenuItem("Open Library...", func() {
			a.openLibrary()
		}),
		fyne.NewMenuItem("Save Library", func() {
			a.saveLibrary()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Pattern from CSV...", func() {
			a.importCSV()
		}),
		fyne.NewMenuItem("Import Pattern from Excel...", func() {
			a.importExcel()
		}),
		fyne.NewMenuItem("Import Pattern from DXF...", func() {
			a.importDXF()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PDF Report...", func() {
			a.exportFile("pallet-report.pdf", func(path string) error {
				return export.ExportPDF(path, a.session)
			})
		}),
		fyne.NewMenuItem("Export Box Labels...", func() {
			a.exportFile("box-labels.pdf", func(path string) error {
				return export.ExportLabels(path, a.session)
			})
		}),
		fyne.NewMenuItem("Export Library to Excel...", func() {
			a.exportFile("patterns.xlsx", func(path string) error {
				_, err := export.ExportLibraryXLSX(path, a.session.Library)
				return err
			})
		}),
		fyne.NewMenuItem("Export Layers to DXF...", func() {
			a.exportFile("pallet.dxf", func(path string) error {
				return export.ExportDXF(path, a.session)
			})
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			a.window.Close()
		}),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", func() {
			a.undo()
		}),
		fyne.NewMenuItem("Redo", func() {
			a.redo()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Add Horizontal Box", func() {
			a.addBox(model.Horizontal)
		}),
		fyne.NewMenuItem("Add Vertical Box", func() {
			a.addBox(model.Vertical)
		}),
		fyne.NewMenuItem("Remove Selected Box", func() {
			a.removeSelected()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Clear Layer", func() {
			a.clearLayer()
		}),
	)

	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Pallet & Box Presets...", func() {
			a.showPresetInventoryDialog()
		}),
		fyne.NewMenuItem("Settings...", func() {
			a.showSettingsDialog()
		}),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("Formula Syntax", func() {
			a.showFormulaHelp()
		}),
		fyne.NewMenuItem("About", func() {
			a.showAboutDialog()
		}),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, toolsMenu, helpMenu))
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About PalletStack",
		"PalletStack: Pallet Box Pattern Editor\n\n"+
			"Design box stacking patterns as formulas over the box\n"+
			"length and width, check them for collisions and export\n"+
			"reports, labels and CAD drawings.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

func (a *App) showFormulaHelp() {
	text := "A box is written as O;X;Y;GROUP\n\n" +
		"O      H (length along pallet X) or V (rotated)\n" +
		"X, Y   sums of box lengths and widths, e.g. 2L+W or 1l+0w\n" +
		"GROUP  optional free text\n\n" +
		"Empty X or Y means 0. Examples:\n" +
		"  H;;;        box in the corner\n" +
		"  V;2L;;      rotated box after two lengths\n" +
		"  H;L;W;top   one length across, one width up"
	lbl := widget.NewLabel(text)
	lbl.TextStyle = fyne.TextStyle{Monospace: true}
	dialog.ShowCustom("Formula Syntax", "Close", lbl, a.window)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	a.statsLabel = widget.NewLabel("")
	a.statusLabel = widget.NewLabel("")
	a.formulaList = container.NewVBox()

	a.canvas = widgets.NewPatternCanvas(nil, 560, 640)
	a.canvas.OnSelect = func(index int, it model.Item) {
		a.setStatus(fmt.Sprintf("Selected box %d (%s). Tap a new position to move it.", it.Slot+1, it.Formula))
	}
	a.canvas.OnMove = a.moveSelected

	center := container.NewBorder(
		a.buildToolbar(), a.statusLabel, nil, nil,
		container.NewScroll(container.NewCenter(a.canvas)),
	)

	split := container.NewHSplit(a.buildSidebar(), center)
	split.Offset = 0.28
	right := container.NewBorder(
		widget.NewLabelWithStyle("Formulas", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		a.statsLabel, nil, nil,
		container.NewVScroll(a.formulaList),
	)
	root := container.NewHSplit(split, right)
	root.Offset = 0.75

	a.refresh()
	return root
}

// ─── Toolbar ───────────────────────────────────────────────

func (a *App) buildToolbar() fyne.CanvasObject {
	return container.NewHBox(
		newIconButtonWithTooltip(theme.ContentAddIcon(), "Add horizontal box", func() {
			a.addBox(model.Horizontal)
		}),
		newIconButtonWithTooltip(theme.ViewRefreshIcon(), "Add vertical box", func() {
			a.addBox(model.Vertical)
		}),
		newIconButtonWithTooltip(theme.DeleteIcon(), "Remove selected box", func() {
			a.removeSelected()
		}),
		widget.NewSeparator(),
		newIconButtonWithTooltip(theme.ContentUndoIcon(), "Undo", func() {
			a.undo()
		}),
		newIconButtonWithTooltip(theme.ContentRedoIcon(), "Redo", func() {
			a.redo()
		}),
		layout.NewSpacer(),
		newIconButtonWithTooltip(theme.DocumentSaveIcon(), "Save library", func() {
			a.saveLibrary()
		}),
	)
}

// ─── Sidebar ───────────────────────────────────────────────

func (a *App) buildSidebar() fyne.CanvasObject {
	layerNames := make([]string, len(model.AllLayers))
	for i, l := range model.AllLayers {
		layerNames[i] = string(l)
	}
	layerSelect := widget.NewSelect(layerNames, func(selected string) {
		if l, ok := model.ParseLayer(selected); ok {
			a.layer = l
			a.refresh()
		}
	})
	layerSelect.SetSelected(string(a.layer))

	a.patternSelect = widget.NewSelect(a.session.Library.Names(), nil)
	applyBtn := widget.NewButtonWithIcon("Apply", theme.ConfirmIcon(), func() {
		a.applyPattern(a.patternSelect.Selected)
	})

	layerCard := widget.NewCard("Layer", "",
		container.NewVBox(
			container.NewGridWithColumns(2,
				widget.NewLabel("Layer"), layerSelect,
				widget.NewLabel("Pattern"), a.patternSelect,
			),
			container.NewHBox(applyBtn,
				widget.NewButtonWithIcon("New", theme.DocumentCreateIcon(), func() { a.showNewPatternDialog() }),
				widget.NewButtonWithIcon("Clear", theme.ContentClearIcon(), func() { a.clearLayer() }),
			),
		))

	return container.NewVScroll(container.NewVBox(
		layerCard,
		a.buildBoxCard(),
		a.buildPalletCard(),
		a.buildLabelCard(),
	))
}

func (a *App) buildBoxCard() fyne.CanvasObject {
	lengthEntry := widget.NewEntry()
	widthEntry := widget.NewEntry()
	heightEntry := widget.NewEntry()
	fill := func(b model.Box) {
		lengthEntry.SetText(formatMM(b.Length))
		widthEntry.SetText(formatMM(b.Width))
		heightEntry.SetText(formatMM(b.Height))
	}
	fill(a.session.Box)

	presets := widget.NewSelect(a.inventory.BoxNames(), func(name string) {
		if bp := a.inventory.FindBoxByName(name); bp != nil {
			fill(bp.Box())
		}
	})
	presets.PlaceHolder = "Preset..."

	apply := widget.NewButtonWithIcon("Apply Box", theme.ConfirmIcon(), func() {
		l, errL := strconv.ParseFloat(lengthEntry.Text, 64)
		w, errW := strconv.ParseFloat(widthEntry.Text, 64)
		h, errH := strconv.ParseFloat(heightEntry.Text, 64)
		if err := errors.Join(errL, errW, errH); err != nil {
			dialog.ShowError(fmt.Errorf("box dimensions must be numbers"), a.window)
			return
		}
		a.edit("Change Box", func() error {
			return a.session.SetBox(model.NewBox(l, w, h))
		})
	})

	return widget.NewCard("Box", "",
		container.NewVBox(
			presets,
			container.NewGridWithColumns(2,
				widget.NewLabel("Length (mm)"), lengthEntry,
				widget.NewLabel("Width (mm)"), widthEntry,
				widget.NewLabel("Height (mm)"), heightEntry,
			),
			apply,
		))
}

func (a *App) buildPalletCard() fyne.CanvasObject {
	lengthEntry := widget.NewEntry()
	widthEntry := widget.NewEntry()
	fill := func(p model.Pallet) {
		lengthEntry.SetText(formatMM(p.Length))
		widthEntry.SetText(formatMM(p.Width))
	}
	fill(a.session.Pallet)

	presets := widget.NewSelect(a.inventory.PalletNames(), func(name string) {
		if pp := a.inventory.FindPalletByName(name); pp != nil {
			fill(pp.Pallet())
		}
	})
	presets.PlaceHolder = "Preset..."

	apply := widget.NewButtonWithIcon("Apply Pallet", theme.ConfirmIcon(), func() {
		l, errL := strconv.ParseFloat(lengthEntry.Text, 64)
		w, errW := strconv.ParseFloat(widthEntry.Text, 64)
		if errL != nil || errW != nil {
			dialog.ShowError(fmt.Errorf("pallet dimensions must be numbers"), a.window)
			return
		}
		a.edit("Change Pallet", func() error {
			return a.session.SetPallet(model.NewPallet(l, w))
		})
	})

	return widget.NewCard("Pallet", "",
		container.NewVBox(
			presets,
			container.NewGridWithColumns(2,
				widget.NewLabel("Length (mm)"), lengthEntry,
				widget.NewLabel("Width (mm)"), widthEntry,
			),
			apply,
		))
}

func (a *App) buildLabelCard() fyne.CanvasObject {
	grid := container.NewGridWithColumns(2)
	for side := model.SideBack; side <= model.SideLeft; side++ {
		sd := side
		chk := widget.NewCheck(sd.String(), func(on bool) {
			if a.session.Labels[sd] == on {
				return
			}
			labels := a.session.Labels
			labels[sd] = on
			a.edit("Change Labels", func() error {
				a.session.SetLabels(labels)
				return nil
			})
		})
		chk.SetChecked(a.session.Labels[sd])
		a.labelChecks[sd] = chk
		grid.Add(chk)
	}
	return widget.NewCard("Labelled Faces", "Orange edges mark labels readable from outside", grid)
}

// ─── Formula Panel ─────────────────────────────────────────

func (a *App) refreshFormulaList() {
	a.formulaList.RemoveAll()

	ls, ok := a.session.Layer(a.layer)
	if !ok {
		a.formulaList.Add(widget.NewLabel("No pattern on this layer."))
		return
	}
	def := a.session.Library[ls.Pattern]
	rejected := map[int]bool{}
	for _, slot := range engine.RejectedSlots(ls.Rejected) {
		rejected[slot] = true
	}

	for i, e := range def.PatternDefinition {
		idx := i
		text := fmt.Sprintf("%d. %s", idx+1, e.Formula())
		if rejected[idx] {
			text += "  (rejected)"
		}
		row := container.NewBorder(nil, nil, nil,
			container.NewHBox(
				widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), func() {
					a.showEditFormulaDialog(ls.Pattern, idx)
				}),
				widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
					a.removeFormula(ls.Pattern, idx)
				}),
			),
			widget.NewLabel(text),
		)
		a.formulaList.Add(row)
	}
	a.formulaList.Add(widget.NewButtonWithIcon("Add Formula", theme.ContentAddIcon(), func() {
		a.showEditFormulaDialog(ls.Pattern, -1)
	}))
}

// showEditFormulaDialog edits slot idx of a pattern, or appends when idx < 0.
func (a *App) showEditFormulaDialog(pattern string, idx int) {
	def := a.session.Library[pattern].Clone()

	entry := widget.NewEntry()
	entry.SetPlaceHolder("H;L;W;group")
	title, confirm := "Add Formula", "Add"
	if idx >= 0 && idx < def.Len() {
		entry.SetText(def.PatternDefinition[idx].Formula())
		title, confirm = "Edit Formula", "Save"
	}

	form := dialog.NewForm(title, confirm, "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Formula", entry)},
		func(ok bool) {
			if !ok {
				return
			}
			f, err := formula.Parse(entry.Text)
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			canonical := formula.Format(f)
			if idx >= 0 && idx < def.Len() {
				def.PatternDefinition[idx] = model.EntryFromFormula(canonical)
			} else {
				def.Append(canonical)
			}
			a.edit(title, func() error {
				return a.session.SetDefinition(pattern, def)
			})
		},
		a.window,
	)
	form.Resize(fyne.NewSize(420, 160))
	form.Show()
}

func (a *App) removeFormula(pattern string, idx int) {
	def := a.session.Library[pattern].Clone()
	if !def.RemoveAt(idx) {
		return
	}
	a.edit("Remove Formula", func() error {
		return a.session.SetDefinition(pattern, def)
	})
}

// ─── Editing ───────────────────────────────────────────────

// edit records an undo snapshot, runs fn and redraws. The snapshot is
// dropped again when fn fails.
func (a *App) edit(label string, fn func() error) {
	snap := MakeSnapshot(a.session, label)
	if err := fn(); err != nil {
		if restoreErr := RestoreSnapshot(a.session, snap); restoreErr != nil {
			a.logger.Error("restoring after failed edit", "label", label, "err", restoreErr)
		}
		dialog.ShowError(err, a.window)
		a.refresh()
		return
	}
	a.history.Push(snap)
	a.logger.Debug("edit", "label", label)
	a.refresh()
}

func (a *App) applyPattern(name string) {
	if name == "" {
		dialog.ShowInformation("No Pattern", "Select a pattern first.", a.window)
		return
	}
	a.edit("Apply Pattern", func() error {
		ls, err := a.session.ApplyPattern(a.layer, name)
		if err != nil {
			return err
		}
		if ls.Rejected != nil {
			a.setStatus(fmt.Sprintf("Some slots were rejected: %v", ls.Rejected))
		}
		a.config.AddRecentPattern(name, maxRecentPatterns)
		return nil
	})
}

func (a *App) clearLayer() {
	if _, ok := a.session.Layer(a.layer); !ok {
		return
	}
	a.edit("Clear Layer", func() error {
		a.session.ClearLayer(a.layer)
		return nil
	})
}

func (a *App) addBox(o model.Orientation) {
	if _, ok := a.session.Layer(a.layer); !ok {
		dialog.ShowInformation("No Pattern", "Apply a pattern to this layer first.", a.window)
		return
	}
	snap := MakeSnapshot(a.session, "Add Box")
	pl, found, err := a.session.AddBox(a.layer, o)
	switch {
	case err != nil:
		dialog.ShowError(err, a.window)
	case !found:
		a.setStatus(fmt.Sprintf("No free slot for a %s box.", strings.ToLower(o.String())))
	default:
		a.history.Push(snap)
		a.setStatus(fmt.Sprintf("Added %s at (%s, %s).", pl.Formula, formatMM(pl.X), formatMM(pl.Y)))
	}
	a.refresh()
}

func (a *App) removeSelected() {
	snap := MakeSnapshot(a.session, "Remove Box")
	slot, ok, err := a.session.RemoveSelected(a.layer)
	switch {
	case err != nil:
		dialog.ShowError(err, a.window)
	case !ok:
		a.setStatus("Select a box to remove.")
	default:
		a.history.Push(snap)
		a.setStatus(fmt.Sprintf("Removed box %d.", slot+1))
	}
	a.refresh()
}

func (a *App) moveSelected(p model.Point2D) {
	snap := MakeSnapshot(a.session, "Move Box")
	moved, ok, err := a.session.MoveSelected(a.layer, p)
	switch {
	case err != nil:
		dialog.ShowError(err, a.window)
	case !ok:
		a.setStatus("The box cannot be placed there.")
	default:
		a.history.Push(snap)
		a.setStatus(fmt.Sprintf("Moved box %d to %s.", moved.Slot+1, moved.Formula))
	}
	a.refresh()
}

func (a *App) undo() {
	snap, ok := a.history.Undo(MakeSnapshot(a.session, "Redo"))
	if !ok {
		return
	}
	a.restore(snap)
	a.setStatus("Undid " + snap.Label)
}

func (a *App) redo() {
	snap, ok := a.history.Redo(MakeSnapshot(a.session, "Undo"))
	if !ok {
		return
	}
	a.restore(snap)
}

func (a *App) restore(snap Snapshot) {
	if err := RestoreSnapshot(a.session, snap); err != nil {
		dialog.ShowError(err, a.window)
	}
	a.refresh()
}

// ─── Refresh ───────────────────────────────────────────────

func (a *App) refresh() {
	if a.canvas == nil {
		return
	}
	ls, ok := a.session.Layer(a.layer)
	if ok {
		a.canvas.SetModel(ls.Model)
	} else {
		a.canvas.SetModel(nil)
	}

	names := a.session.Library.Names()
	a.patternSelect.Options = names
	if ok {
		a.patternSelect.Selected = ls.Pattern
	}
	a.patternSelect.Refresh()

	for side, chk := range a.labelChecks {
		if chk != nil && chk.Checked != a.session.Labels[side] {
			chk.SetChecked(a.session.Labels[side])
		}
	}

	st := a.session.Stats(a.layer)
	a.statsLabel.SetText(fmt.Sprintf("Boxes: %d   Colliding: %d   Fill: %.1f%%",
		st.Boxes, st.Colliding, st.Efficiency))
	a.refreshFormulaList()
}

func (a *App) setStatus(msg string) {
	if a.statusLabel != nil {
		a.statusLabel.SetText(msg)
	}
}

// ─── Library ───────────────────────────────────────────────

func (a *App) showNewPatternDialog() {
	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("Pattern name")

	form := dialog.NewForm("New Pattern", "Create", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Name", nameEntry)},
		func(ok bool) {
			if !ok {
				return
			}
			name := strings.TrimSpace(nameEntry.Text)
			if name == "" {
				dialog.ShowError(fmt.Errorf("pattern name is required"), a.window)
				return
			}
			if _, exists := a.session.Library.Find(name); exists {
				dialog.ShowError(fmt.Errorf("pattern %q already exists", name), a.window)
				return
			}
			a.edit("New Pattern", func() error {
				if err := a.session.SetDefinition(name, model.NewPatternDefinition("H;;;")); err != nil {
					return err
				}
				_, err := a.session.ApplyPattern(a.layer, name)
				return err
			})
		},
		a.window,
	)
	form.Resize(fyne.NewSize(380, 150))
	form.Show()
}

func (a *App) saveLibrary() {
	if err := project.SaveLibrary(a.libDir, a.session.Library); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save library: %w", err), a.window)
		return
	}
	a.logger.Info("library saved", "dir", a.libDir, "patterns", len(a.session.Library))
	a.setStatus(fmt.Sprintf("Saved %d patterns to %s", len(a.session.Library), a.libDir))
}

func (a *App) openLibrary() {
	d := dialog.NewFolderOpen(func(dir fyne.ListableURI, err error) {
		if err != nil || dir == nil {
			return
		}
		res, err := project.LoadLibrary(dir.Path())
		if err != nil {
			dialog.ShowError(fmt.Errorf("failed to open library: %w", err), a.window)
			return
		}

		a.libDir = dir.Path()
		a.session.Library = res.Library
		for _, l := range model.AllLayers {
			a.session.ClearLayer(l)
		}
		a.history.Clear()
		a.refresh()

		if problems := append(res.Errors, res.Warnings...); len(problems) > 0 {
			dialog.ShowInformation("Library Loaded With Problems",
				fmt.Sprintf("Loaded %d patterns.\n\n%s", len(res.Library), strings.Join(problems, "\n")),
				a.window)
		}
	}, a.window)
	d.Show()
}

// ─── Import / Export ───────────────────────────────────────

func (a *App) importCSV() {
	a.openFile(func(path string) {
		a.handleImportResult(patternNameFromPath(path), importer.ImportCSV(path))
	})
}

func (a *App) importExcel() {
	a.openFile(func(path string) {
		a.handleImportResult(patternNameFromPath(path), importer.ImportExcel(path))
	})
}

func (a *App) importDXF() {
	a.openFile(func(path string) {
		a.handleImportResult(patternNameFromPath(path), importer.ImportDXF(path, a.session.Box))
	})
}

func (a *App) openFile(fn func(path string)) {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()
		fn(path)
	}, a.window)
	d.Show()
}

func (a *App) handleImportResult(name string, result importer.ImportResult) {
	if len(result.Errors) > 0 && result.Definition.Len() == 0 {
		dialog.ShowError(fmt.Errorf("import failed:\n%s", strings.Join(result.Errors, "\n")), a.window)
		return
	}

	if _, exists := a.session.Library.Find(name); exists {
		name = uniquePatternName(a.session.Library, name)
	}
	a.edit("Import Pattern", func() error {
		return a.session.SetDefinition(name, result.Definition)
	})
	a.logger.Info("pattern imported", "name", name, "boxes", result.Definition.Len(),
		"errors", len(result.Errors), "warnings", len(result.Warnings))

	var msg strings.Builder
	fmt.Fprintf(&msg, "Imported %d boxes as pattern %q.", result.Definition.Len(), name)
	if len(result.Warnings) > 0 {
		msg.WriteString("\n\nWarnings:\n")
		msg.WriteString(strings.Join(result.Warnings, "\n"))
	}
	if len(result.Errors) > 0 {
		msg.WriteString("\n\nSkipped rows:\n")
		msg.WriteString(strings.Join(result.Errors, "\n"))
	}
	dialog.ShowInformation("Import Complete", msg.String(), a.window)
}

func (a *App) exportFile(defaultName string, write func(path string) error) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		if err := write(path); err != nil {
			dialog.ShowError(fmt.Errorf("export failed: %w", err), a.window)
			return
		}
		a.logger.Info("exported", "path", path)
		a.setStatus("Exported " + path)
	}, a.window)
	d.SetFileName(defaultName)
	d.Show()
}

func patternNameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func uniquePatternName(lib model.PatternLibrary, name string) string {
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", name, i)
		if _, exists := lib.Find(candidate); !exists {
			return candidate
		}
	}
}

func formatMM(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
