package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PalletStack/internal/model"
)

const eur4JSON = `{
  "PatternDefinition": [
    {"BoxOrient": "H", "BoxXFormula": "", "BoxYFormula": "", "BoxGroup": ""},
    {"BoxOrient": "H", "BoxXFormula": "L", "BoxYFormula": "", "BoxGroup": ""},
    {"BoxOrient": "V", "BoxXFormula": "2L", "BoxYFormula": "", "BoxGroup": "right"},
    {"BoxOrient": "H", "BoxXFormula": "", "BoxYFormula": "W", "BoxGroup": ""}
  ]
}`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestValidateDefinitionJSON(t *testing.T) {
	def, err := ValidateDefinitionJSON([]byte(eur4JSON))
	require.NoError(t, err)
	assert.Equal(t, 4, def.Len())
	assert.Equal(t, "V;2L;;right", def.Formulas()[2])
}

func TestValidateDefinitionJSON_SchemaErrors(t *testing.T) {
	cases := map[string]string{
		"not json":        `{`,
		"missing root":    `{"Patterns": []}`,
		"bad orientation": `{"PatternDefinition": [{"BoxOrient": "X", "BoxXFormula": "", "BoxYFormula": ""}]}`,
		"missing field":   `{"PatternDefinition": [{"BoxOrient": "H"}]}`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ValidateDefinitionJSON([]byte(in))
			require.Error(t, err)
			assert.Equal(t, model.CodeInvalidPattern, model.ErrorCode(err))
		})
	}
}

func TestValidateDefinitionJSON_FormulaErrors(t *testing.T) {
	in := `{"PatternDefinition": [
		{"BoxOrient": "H", "BoxXFormula": "2Q", "BoxYFormula": ""},
		{"BoxOrient": "H", "BoxXFormula": "L", "BoxYFormula": ""}
	]}`
	def, err := ValidateDefinitionJSON([]byte(in))
	require.Error(t, err)
	assert.True(t, model.HasCode(err, model.CodeFormulaParse))
	assert.Contains(t, err.Error(), "entry 0")
	assert.Equal(t, 2, def.Len(), "the definition is still returned")
}

func TestLoadLibrary(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "eur-4.json", eur4JSON)
	writeFile(t, dir, "broken.json", `{"nope": true}`)
	writeFile(t, dir, "typo.json", `{"PatternDefinition": [{"BoxOrient": "H", "BoxXFormula": "3", "BoxYFormula": ""}]}`)
	writeFile(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0755))

	res, err := LoadLibrary(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"eur-4", "typo"}, res.Library.Names())
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "broken.json")
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "typo.json")
}

func TestLoadLibrary_MissingDir(t *testing.T) {
	res, err := LoadLibrary(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Empty(t, res.Library)
}

func TestSaveAndLoadLibrary(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "patterns")
	lib := model.PatternLibrary{
		"row":   model.NewPatternDefinition("H;;;", "H;L;;"),
		"empty": {},
	}
	require.NoError(t, SaveLibrary(dir, lib))

	res, err := LoadLibrary(dir)
	require.NoError(t, err)
	assert.Empty(t, res.Errors)
	assert.Equal(t, []string{"H;;;", "H;L;;"}, res.Library["row"].Formulas())
	assert.Equal(t, 0, res.Library["empty"].Len())
}

func TestSaveDefinition_InvalidName(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"", " ", "../escape", `a\b`, ".."} {
		_, err := SaveDefinition(dir, name, model.NewPatternDefinition("H;;;"))
		assert.Equal(t, model.CodeInvalidInput, model.ErrorCode(err), name)
	}
}

func TestDeleteDefinition(t *testing.T) {
	dir := t.TempDir()
	_, err := SaveDefinition(dir, "row", model.NewPatternDefinition("H;;;"))
	require.NoError(t, err)

	require.NoError(t, DeleteDefinition(dir, "row"))
	err = DeleteDefinition(dir, "row")
	assert.Equal(t, model.CodePatternNotFound, model.ErrorCode(err))
}
