// Package formula parses and formats the box formula notation used by
// pattern libraries: "<O>;<x formula>;<y formula>;<group>".
package formula

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/piwi3910/PalletStack/internal/model"
)

// Axis is the box dimension a term multiplies.
type Axis int

const (
	AxisLength Axis = iota // L
	AxisWidth              // W
)

func (a Axis) String() string {
	if a == AxisWidth {
		return "W"
	}
	return "L"
}

// TermKind classifies how a term was written.
type TermKind int

const (
	TermLiteral       TermKind = iota // bare L or W
	TermSignedLiteral                 // +L, -W
	TermCoefficient                   // 2L, -0.5W
)

// Term is one parsed summand of a sub-formula.
type Term struct {
	Kind  TermKind
	Axis  Axis
	Value float64
}

// Counts is the number of box lengths and widths a sub-formula adds up to.
type Counts struct {
	Length float64
	Width  float64
}

func (c Counts) add(t Term) Counts {
	if t.Axis == AxisWidth {
		c.Width += t.Value
	} else {
		c.Length += t.Value
	}
	return c
}

var termRe = regexp.MustCompile(`^([+-]?)(\d*(?:\.\d+)?)([LW])$`)

// ParseTerm parses a single term such as "L", "-W" or "2.5L".
func ParseTerm(s string) (Term, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	m := termRe.FindStringSubmatch(s)
	if m == nil {
		return Term{}, model.NewError(model.CodeFormulaParse, "malformed term %q", s)
	}

	axis := AxisLength
	if m[3] == "W" {
		axis = AxisWidth
	}

	sign := 1.0
	if m[1] == "-" {
		sign = -1.0
	}

	if m[2] == "" {
		kind := TermLiteral
		if m[1] != "" {
			kind = TermSignedLiteral
		}
		return Term{Kind: kind, Axis: axis, Value: sign}, nil
	}

	v, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return Term{}, model.WrapError(model.CodeFormulaParse, err, "invalid coefficient in term %q", s)
	}
	return Term{Kind: TermCoefficient, Axis: axis, Value: sign * v}, nil
}

// SplitTerms splits a sub-formula into at most two terms. The second term
// keeps the sign character that separated it from the first.
func SplitTerms(sub string) ([]string, error) {
	sub = strings.ToUpper(strings.TrimSpace(sub))
	if sub == "" {
		return nil, nil
	}

	idx := strings.IndexAny(sub[1:], "+-")
	if idx < 0 {
		return []string{sub}, nil
	}
	idx++

	first, second := sub[:idx], sub[idx:]
	if strings.ContainsAny(second[1:], "+-") {
		return nil, model.NewError(model.CodeFormulaParse, "sub-formula %q has more than two terms", sub)
	}
	return []string{first, second}, nil
}

// ParseSubFormula resolves an X or Y sub-formula into length and width counts.
// An empty sub-formula counts as zero.
func ParseSubFormula(sub string) (Counts, error) {
	parts, err := SplitTerms(sub)
	if err != nil {
		return Counts{}, err
	}

	var c Counts
	for _, p := range parts {
		t, err := ParseTerm(p)
		if err != nil {
			return Counts{}, err
		}
		c = c.add(t)
	}
	return c, nil
}

// Parse parses a full formula string into a BoxFormula. The fourth field
// is kept as the group label and otherwise ignored.
func Parse(s string) (model.BoxFormula, error) {
	fields := strings.Split(strings.ToUpper(s), ";")
	if len(fields) < 3 {
		return model.BoxFormula{}, model.NewError(model.CodeFormulaParse,
			"formula %q needs at least 3 fields, got %d", s, len(fields))
	}

	code := strings.TrimSpace(fields[0])
	if code == "" {
		return model.BoxFormula{}, model.NewError(model.CodeFormulaParse, "formula %q has no orientation", s)
	}
	orient, ok := model.ParseOrientation(code)
	if !ok || len(code) != 1 {
		return model.BoxFormula{}, model.NewError(model.CodeFormulaParse, "formula %q has unknown orientation %q", s, code)
	}

	x, err := ParseSubFormula(fields[1])
	if err != nil {
		return model.BoxFormula{}, model.WrapError(model.CodeFormulaParse, err, "x sub-formula of %q", s)
	}
	y, err := ParseSubFormula(fields[2])
	if err != nil {
		return model.BoxFormula{}, model.WrapError(model.CodeFormulaParse, err, "y sub-formula of %q", s)
	}

	f := model.BoxFormula{
		Orientation: orient,
		XLength:     x.Length,
		XWidth:      x.Width,
		YLength:     y.Length,
		YWidth:      y.Width,
	}
	if len(fields) > 3 {
		// Group is free text; recover its original case.
		orig := strings.Split(s, ";")
		f.Group = strings.TrimSpace(orig[3])
	}
	return f, nil
}

// Format writes a BoxFormula in the canonical "<O>;<a>l+<b>w;<a>l+<b>w;<group>" form.
func Format(f model.BoxFormula) string {
	return fmt.Sprintf("%s;%s;%s;%s", f.Orientation.Code(),
		FormatAxis(f.XLength, f.XWidth), FormatAxis(f.YLength, f.YWidth), f.Group)
}

// FormatAxis writes one sub-formula as "<a>l+<b>w" (or "<a>l-<b>w" for a negative b).
func FormatAxis(lengths, widths float64) string {
	sign := "+"
	if widths < 0 {
		sign = "-"
		widths = -widths
	}
	return formatNumber(lengths) + "l" + sign + formatNumber(widths) + "w"
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
