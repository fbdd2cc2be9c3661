package model

import (
	"sort"
	"strings"
)

// PatternEntry is one item of a pattern definition as stored in the library JSON.
type PatternEntry struct {
	BoxOrient   string `json:"BoxOrient"`
	BoxXFormula string `json:"BoxXFormula"`
	BoxYFormula string `json:"BoxYFormula"`
	BoxGroup    string `json:"BoxGroup"`
}

// Formula joins the entry's fields into the "<O>;<x>;<y>;<group>" formula string.
func (e PatternEntry) Formula() string {
	return strings.Join([]string{e.BoxOrient, e.BoxXFormula, e.BoxYFormula, e.BoxGroup}, ";")
}

// EntryFromFormula splits a formula string into its library fields without
// validating the sub-formulas.
func EntryFromFormula(formula string) PatternEntry {
	fields := strings.Split(formula, ";")
	get := func(i int) string {
		if i < len(fields) {
			return strings.TrimSpace(fields[i])
		}
		return ""
	}
	return PatternEntry{
		BoxOrient:   get(0),
		BoxXFormula: get(1),
		BoxYFormula: get(2),
		BoxGroup:    get(3),
	}
}

// PatternDefinition is the content of one pattern-library file.
type PatternDefinition struct {
	PatternDefinition []PatternEntry `json:"PatternDefinition"`
}

// NewPatternDefinition builds a definition from formula strings.
func NewPatternDefinition(formulas ...string) PatternDefinition {
	def := PatternDefinition{PatternDefinition: []PatternEntry{}}
	for _, f := range formulas {
		def.PatternDefinition = append(def.PatternDefinition, EntryFromFormula(f))
	}
	return def
}

// Formulas returns the formula string of every entry, in order.
func (d PatternDefinition) Formulas() []string {
	out := make([]string, len(d.PatternDefinition))
	for i, e := range d.PatternDefinition {
		out[i] = e.Formula()
	}
	return out
}

// Len returns the number of entries.
func (d PatternDefinition) Len() int {
	return len(d.PatternDefinition)
}

// Append adds a formula as a new entry.
func (d *PatternDefinition) Append(formula string) {
	d.PatternDefinition = append(d.PatternDefinition, EntryFromFormula(formula))
}

// RemoveAt deletes the entry at index i. Returns false if i is out of range.
func (d *PatternDefinition) RemoveAt(i int) bool {
	if i < 0 || i >= len(d.PatternDefinition) {
		return false
	}
	d.PatternDefinition = append(d.PatternDefinition[:i], d.PatternDefinition[i+1:]...)
	return true
}

// Clone returns a deep copy of the definition.
func (d PatternDefinition) Clone() PatternDefinition {
	cp := make([]PatternEntry, len(d.PatternDefinition))
	copy(cp, d.PatternDefinition)
	return PatternDefinition{PatternDefinition: cp}
}

// PatternLibrary maps pattern display names to their definitions.
type PatternLibrary map[string]PatternDefinition

// Names returns the pattern names sorted alphabetically for UI dropdowns.
func (l PatternLibrary) Names() []string {
	names := make([]string, 0, len(l))
	for n := range l {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Find returns the definition with the given name.
func (l PatternLibrary) Find(name string) (PatternDefinition, bool) {
	d, ok := l[name]
	return d, ok
}
