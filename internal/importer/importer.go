// Package importer reads pattern formula tables from CSV and Excel files and
// rectangle drawings from DXF files. It supports automatic delimiter
// detection and case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/PalletStack/internal/formula"
	"github.com/piwi3910/PalletStack/internal/model"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Definition model.PatternDefinition
	Errors     []string
	Warnings   []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
// Formula is set when the table carries whole formula strings in one column.
type ColumnMapping struct {
	Orient  int
	X       int
	Y       int
	Group   int
	Formula int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"orient":  {"boxorient", "orient", "orientation", "o", "rotation"},
	"x":       {"boxxformula", "x", "x formula", "xformula", "x offset"},
	"y":       {"boxyformula", "y", "y formula", "yformula", "y offset"},
	"group":   {"boxgroup", "group", "grp", "label"},
	"formula": {"formula", "box formula", "boxformula"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, tab and pipe. Semicolons are never a field delimiter
// because formulas use them.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or a default
// positional mapping (orient, x, y, group) and false otherwise.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Orient: -1, X: -1, Y: -1, Group: -1, Formula: -1}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch role {
				case "orient":
					setOnce(&mapping.Orient, i)
				case "x":
					setOnce(&mapping.X, i)
				case "y":
					setOnce(&mapping.Y, i)
				case "group":
					setOnce(&mapping.Group, i)
				case "formula":
					setOnce(&mapping.Formula, i)
				}
			}
		}
	}

	if !isHeader {
		return positionalMapping(row), false
	}
	return mapping, true
}

func positionalMapping(row []string) ColumnMapping {
	if len(row) == 1 || (len(row) > 0 && strings.Contains(row[0], ";")) {
		return ColumnMapping{Orient: -1, X: -1, Y: -1, Group: -1, Formula: 0}
	}
	return ColumnMapping{Orient: 0, X: 1, Y: 2, Group: 3, Formula: -1}
}

func setOnce(dst *int, i int) {
	if *dst == -1 {
		*dst = i
	}
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow builds and validates the formula of one row.
// Returns the formula, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (string, string, string) {
	var f string
	if mapping.Formula >= 0 {
		f = getCell(row, mapping.Formula)
		if f == "" {
			return "", fmt.Sprintf("%s: Missing formula", rowLabel), ""
		}
		if strings.Count(f, ";") == 2 {
			f += ";"
		}
	} else {
		orient := getCell(row, mapping.Orient)
		if orient == "" {
			return "", fmt.Sprintf("%s: Missing orientation", rowLabel), ""
		}
		f = strings.Join([]string{orient, getCell(row, mapping.X), getCell(row, mapping.Y), getCell(row, mapping.Group)}, ";")
	}

	parsed, err := formula.Parse(f)
	if err != nil {
		return "", fmt.Sprintf("%s: Invalid formula '%s': %v", rowLabel, f, err), ""
	}

	var warning string
	if parsed.XLength < 0 || parsed.XWidth < 0 || parsed.YLength < 0 || parsed.YWidth < 0 {
		warning = fmt.Sprintf("%s: Negative offset in '%s'", rowLabel, f)
	}
	return f, "", warning
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports a pattern from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{'\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	records, err := readCSV(bytes.NewReader(data), delimiter)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}
	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports a pattern from a CSV reader with a specific delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	records, err := readCSV(reader, delimiter)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}
	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

func readCSV(r io.Reader, delimiter rune) ([][]string, error) {
	csvReader := csv.NewReader(r)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1
	return csvReader.ReadAll()
}

// ImportExcel imports a pattern from the first sheet of an Excel file.
func ImportExcel(path string) ImportResult {
	return ImportExcelSheet(path, "")
}

// ImportExcelSheet imports a pattern from the named sheet, or the first
// sheet when sheet is empty.
func ImportExcelSheet(path, sheet string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}
	if sheet == "" {
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// ExcelSheets lists the sheet names of an Excel file, one pattern per sheet.
func ExcelSheets(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Definition: model.PatternDefinition{PatternDefinition: []model.PatternEntry{}},
		Warnings:   initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		if mapping.Formula == -1 {
			missing := []string{}
			if mapping.Orient == -1 {
				missing = append(missing, "BoxOrient")
			}
			if mapping.X == -1 {
				missing = append(missing, "BoxXFormula")
			}
			if mapping.Y == -1 {
				missing = append(missing, "BoxYFormula")
			}
			if len(missing) > 0 {
				result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
				return result
			}
		}
	} else if mapping.Formula == -1 {
		// An unrecognised header still has no orientation in its first cell.
		if _, ok := model.ParseOrientation(getCell(rows[0], 0)); !ok {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		f, errMsg, warning := parseRow(row, mapping, rowLabel)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}

		result.Definition.Append(f)
	}

	return result
}
