package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/PalletStack/internal/model"
)

var formulaHeader = []interface{}{"BoxOrient", "BoxXFormula", "BoxYFormula", "BoxGroup"}

// ExportLibraryXLSX writes a pattern library to an Excel workbook with one
// sheet per pattern. Sheets use the formula-table columns read back by the
// importer. It returns the sheet name chosen for each pattern, since Excel
// limits sheet names to 31 characters.
func ExportLibraryXLSX(path string, lib model.PatternLibrary) (map[string]string, error) {
	names := lib.Names()
	if len(names) == 0 {
		return nil, fmt.Errorf("no patterns to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	first := f.GetSheetName(0)
	sheets := make(map[string]string, len(names))
	used := make(map[string]bool, len(names))

	for i, name := range names {
		sheet := sheetName(name, used)
		used[strings.ToLower(sheet)] = true
		sheets[name] = sheet

		if i == 0 {
			if err := f.SetSheetName(first, sheet); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("add sheet %q: %w", sheet, err)
		}

		if err := writeDefinition(f, sheet, lib[name]); err != nil {
			return nil, fmt.Errorf("pattern %q: %w", name, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return nil, fmt.Errorf("save workbook: %w", err)
	}
	return sheets, nil
}

func writeDefinition(f *excelize.File, sheet string, def model.PatternDefinition) error {
	if err := f.SetSheetRow(sheet, "A1", &formulaHeader); err != nil {
		return err
	}
	for i, e := range def.PatternDefinition {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{e.BoxOrient, e.BoxXFormula, e.BoxYFormula, e.BoxGroup}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheet, "A", "D", 16)
}

// sheetName maps a pattern name to a unique valid Excel sheet name.
func sheetName(name string, used map[string]bool) string {
	clean := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, name)
	clean = strings.Trim(clean, "'")
	if clean == "" {
		clean = "pattern"
	}
	if len([]rune(clean)) > 31 {
		clean = string([]rune(clean)[:31])
	}

	candidate := clean
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf("~%d", n)
		base := []rune(clean)
		if len(base)+len(suffix) > 31 {
			base = base[:31-len(suffix)]
		}
		candidate = string(base) + suffix
	}
	return candidate
}
