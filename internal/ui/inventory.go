package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/PalletStack/internal/model"
	"github.com/piwi3910/PalletStack/internal/project"
)

// ─── Preset Inventory Dialog ───────────────────────────────

func (a *App) showPresetInventoryDialog() {
	palletList := container.NewVBox()
	boxList := container.NewVBox()
	var refreshLists func()

	bold := func(s string) *widget.Label {
		return widget.NewLabelWithStyle(s, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	}

	refreshLists = func() {
		palletList.RemoveAll()
		palletList.Add(container.NewGridWithColumns(5,
			bold("Name"), bold("Length"), bold("Width"), bold(""), bold("")))
		palletList.Add(widget.NewSeparator())
		for i := range a.inventory.Pallets {
			idx := i
			p := a.inventory.Pallets[idx]
			palletList.Add(container.NewGridWithColumns(5,
				widget.NewLabel(p.Name),
				widget.NewLabel(fmt.Sprintf("%s mm", formatMM(p.Length))),
				widget.NewLabel(fmt.Sprintf("%s mm", formatMM(p.Width))),
				widget.NewButtonWithIcon("", theme.MediaPlayIcon(), func() {
					a.edit("Use Pallet Preset", func() error {
						return a.session.SetPallet(p.Pallet())
					})
				}),
				widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
					a.inventory.Pallets = append(a.inventory.Pallets[:idx], a.inventory.Pallets[idx+1:]...)
					a.saveInventory()
					refreshLists()
				}),
			))
		}

		boxList.RemoveAll()
		boxList.Add(container.NewGridWithColumns(6,
			bold("Name"), bold("Length"), bold("Width"), bold("Height"), bold(""), bold("")))
		boxList.Add(widget.NewSeparator())
		for i := range a.inventory.Boxes {
			idx := i
			b := a.inventory.Boxes[idx]
			boxList.Add(container.NewGridWithColumns(6,
				widget.NewLabel(b.Name),
				widget.NewLabel(formatMM(b.Length)),
				widget.NewLabel(formatMM(b.Width)),
				widget.NewLabel(formatMM(b.Height)),
				widget.NewButtonWithIcon("", theme.MediaPlayIcon(), func() {
					a.edit("Use Box Preset", func() error {
						if b.Labels.Count() > 0 {
							a.session.SetLabels(b.Labels)
						}
						return a.session.SetBox(b.Box())
					})
				}),
				widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
					a.inventory.Boxes = append(a.inventory.Boxes[:idx], a.inventory.Boxes[idx+1:]...)
					a.saveInventory()
					refreshLists()
				}),
			))
		}
	}

	refreshLists()

	addPalletBtn := widget.NewButtonWithIcon("Add Pallet", theme.ContentAddIcon(), func() {
		a.showAddPalletPresetDialog(refreshLists)
	})
	addBoxBtn := widget.NewButtonWithIcon("Add Box", theme.ContentAddIcon(), func() {
		a.showAddBoxPresetDialog(refreshLists)
	})
	importBtn := widget.NewButtonWithIcon("Import...", theme.FolderOpenIcon(), func() {
		a.importInventory(refreshLists)
	})
	exportBtn := widget.NewButtonWithIcon("Export...", theme.DocumentSaveIcon(), func() {
		a.exportInventory()
	})

	toolbar := container.NewHBox(addPalletBtn, addBoxBtn, layout.NewSpacer(), importBtn, exportBtn)
	tabs := container.NewAppTabs(
		container.NewTabItem("Pallets", container.NewVScroll(palletList)),
		container.NewTabItem("Boxes", container.NewVScroll(boxList)),
	)

	d := dialog.NewCustom("Pallet & Box Presets", "Close", container.NewBorder(toolbar, nil, nil, nil, tabs), a.window)
	d.Resize(fyne.NewSize(700, 500))
	d.Show()
}

func (a *App) showAddPalletPresetDialog(onDone func()) {
	nameEntry := widget.NewEntry()
	nameEntry.SetText(fmt.Sprintf("Pallet %sx%s", formatMM(a.session.Pallet.Length), formatMM(a.session.Pallet.Width)))
	lengthEntry := widget.NewEntry()
	lengthEntry.SetText(formatMM(a.session.Pallet.Length))
	widthEntry := widget.NewEntry()
	widthEntry.SetText(formatMM(a.session.Pallet.Width))

	form := dialog.NewForm("Add Pallet Preset", "Add", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Length (mm)", lengthEntry),
			widget.NewFormItem("Width (mm)", widthEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			length, _ := strconv.ParseFloat(lengthEntry.Text, 64)
			width, _ := strconv.ParseFloat(widthEntry.Text, 64)
			preset := model.NewPalletPreset(nameEntry.Text, length, width)
			if err := preset.Pallet().Validate(); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			a.inventory.Pallets = append(a.inventory.Pallets, preset)
			a.saveInventory()
			onDone()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 250))
	form.Show()
}

func (a *App) showAddBoxPresetDialog(onDone func()) {
	box := a.session.Box
	nameEntry := widget.NewEntry()
	nameEntry.SetText(fmt.Sprintf("Carton %sx%s", formatMM(box.Length), formatMM(box.Width)))
	lengthEntry := widget.NewEntry()
	lengthEntry.SetText(formatMM(box.Length))
	widthEntry := widget.NewEntry()
	widthEntry.SetText(formatMM(box.Width))
	heightEntry := widget.NewEntry()
	heightEntry.SetText(formatMM(box.Height))
	keepLabels := widget.NewCheck("Store current labelled faces", nil)
	keepLabels.SetChecked(true)

	form := dialog.NewForm("Add Box Preset", "Add", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Length (mm)", lengthEntry),
			widget.NewFormItem("Width (mm)", widthEntry),
			widget.NewFormItem("Height (mm)", heightEntry),
			widget.NewFormItem("", keepLabels),
		},
		func(ok bool) {
			if !ok {
				return
			}
			length, _ := strconv.ParseFloat(lengthEntry.Text, 64)
			width, _ := strconv.ParseFloat(widthEntry.Text, 64)
			height, _ := strconv.ParseFloat(heightEntry.Text, 64)
			preset := model.NewBoxPreset(nameEntry.Text, length, width, height)
			if err := preset.Box().Validate(); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			if keepLabels.Checked {
				preset.Labels = a.session.Labels
			}
			a.inventory.Boxes = append(a.inventory.Boxes, preset)
			a.saveInventory()
			onDone()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 320))
	form.Show()
}

// importInventory merges presets from a JSON or TOML file.
func (a *App) importInventory(onDone func()) {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		merged, err := project.ImportInventory(reader.URI().Path(), a.inventory)
		if err != nil {
			dialog.ShowError(fmt.Errorf("failed to import presets: %w", err), a.window)
			return
		}
		a.inventory = merged
		a.saveInventory()
		onDone()
	}, a.window)
	d.Show()
}

func (a *App) exportInventory() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		if err := project.SaveInventory(path, a.inventory); err != nil {
			dialog.ShowError(fmt.Errorf("failed to export presets: %w", err), a.window)
			return
		}
		dialog.ShowInformation("Export Complete", fmt.Sprintf("Presets exported to:\n%s", path), a.window)
	}, a.window)
	d.SetFileName("palletstack-presets.json")
	d.Show()
}

func (a *App) saveInventory() {
	if a.inventoryPath == "" {
		return
	}
	if err := project.SaveInventory(a.inventoryPath, a.inventory); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save presets: %w", err), a.window)
	}
}
