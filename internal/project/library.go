package project

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/piwi3910/PalletStack/internal/formula"
	"github.com/piwi3910/PalletStack/internal/model"
)

//go:embed schema/pattern.schema.json
var patternSchema []byte

var patternSchemaLoader = gojsonschema.NewBytesLoader(patternSchema)

// PatternFileExt is the extension of pattern library files.
const PatternFileExt = ".json"

// ValidateDefinitionJSON checks a pattern file against the library schema
// and then parses every formula. All problems are reported together.
func ValidateDefinitionJSON(data []byte) (model.PatternDefinition, error) {
	result, err := gojsonschema.Validate(patternSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return model.PatternDefinition{}, model.WrapError(model.CodeInvalidPattern, err, "pattern is not valid JSON")
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return model.PatternDefinition{}, model.NewError(model.CodeInvalidPattern, "%s", strings.Join(msgs, "; "))
	}

	var def model.PatternDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return model.PatternDefinition{}, model.WrapError(model.CodeInvalidPattern, err, "decode pattern")
	}
	return def, ValidateDefinition(def)
}

// ValidateDefinition parses every formula of a definition and joins the failures.
func ValidateDefinition(def model.PatternDefinition) error {
	var errs []error
	for i, f := range def.Formulas() {
		if _, err := formula.Parse(f); err != nil {
			errs = append(errs, fmt.Errorf("entry %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// LoadDefinition reads and validates one pattern file.
func LoadDefinition(path string) (model.PatternDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.PatternDefinition{}, err
	}
	def, err := ValidateDefinitionJSON(data)
	if err != nil {
		return def, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return def, nil
}

// SaveDefinition writes a pattern as <dir>/<name>.json.
func SaveDefinition(dir, name string, def model.PatternDefinition) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	if def.PatternDefinition == nil {
		def.PatternDefinition = []model.PatternEntry{}
	}
	path := filepath.Join(dir, name+PatternFileExt)
	return path, writeJSON(path, def)
}

// DeleteDefinition removes <dir>/<name>.json.
func DeleteDefinition(dir, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(dir, name+PatternFileExt))
	if os.IsNotExist(err) {
		return model.NewError(model.CodePatternNotFound, "pattern %q not found", name)
	}
	return err
}

// LibraryLoadResult holds the loaded library, the files that were skipped
// (Errors) and the files loaded with unparseable formulas (Warnings).
type LibraryLoadResult struct {
	Library  model.PatternLibrary
	Errors   []string
	Warnings []string
}

// LoadLibrary reads every *.json file in dir as a pattern; the file name
// without extension is the pattern name. Files that fail the schema are
// skipped. Files with bad formulas are kept, since evaluation rejects only
// the bad slots. A missing directory yields an empty library.
func LoadLibrary(dir string) (LibraryLoadResult, error) {
	res := LibraryLoadResult{Library: model.PatternLibrary{}}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return res, nil
		}
		return res, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), PatternFileExt) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, n := range names {
		def, err := LoadDefinition(filepath.Join(dir, n))
		switch {
		case err == nil:
		case model.HasCode(err, model.CodeFormulaParse):
			res.Warnings = append(res.Warnings, err.Error())
		default:
			res.Errors = append(res.Errors, err.Error())
			continue
		}
		res.Library[strings.TrimSuffix(n, filepath.Ext(n))] = def
	}
	return res, nil
}

// SaveLibrary writes every pattern of lib to dir.
func SaveLibrary(dir string, lib model.PatternLibrary) error {
	for _, name := range lib.Names() {
		if _, err := SaveDefinition(dir, name, lib[name]); err != nil {
			return fmt.Errorf("save pattern %q: %w", name, err)
		}
	}
	return nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return model.NewError(model.CodeInvalidInput, "invalid pattern name %q", name)
	}
	return nil
}
