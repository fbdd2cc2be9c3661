package engine

import (
	"errors"
	"fmt"

	"github.com/piwi3910/PalletStack/internal/formula"
	"github.com/piwi3910/PalletStack/internal/model"
)

// EvaluateFormula turns one formula into an item: the origin is
// a·length + b·width on each axis and the footprint follows the orientation.
func EvaluateFormula(s string, box model.Box) (model.Item, error) {
	f, err := formula.Parse(s)
	if err != nil {
		return model.Item{}, err
	}
	x, y := f.Offset(box)
	dx, dy := box.Extents(f.Orientation)

	it := model.NewItem(f.Orientation, x, y, dx, dy)
	it.Formula = s
	return it, nil
}

// SlotError reports a formula slot that could not be evaluated.
type SlotError struct {
	Slot    int
	Formula string
	Err     error
}

func (e *SlotError) Error() string {
	return fmt.Sprintf("slot %d (%q): %v", e.Slot, e.Formula, e.Err)
}

func (e *SlotError) Unwrap() error {
	return e.Err
}

// Evaluate turns an ordered formula list into items. A slot that fails to
// evaluate is left out and reported in the joined error; the remaining items
// are still returned. An invalid box fails the whole call.
func Evaluate(formulas []string, box model.Box) ([]model.Item, error) {
	if err := box.Validate(); err != nil {
		return nil, err
	}

	items := make([]model.Item, 0, len(formulas))
	var errs []error
	for i, s := range formulas {
		it, err := EvaluateFormula(s, box)
		if err != nil {
			errs = append(errs, &SlotError{Slot: i, Formula: s, Err: err})
			continue
		}
		it.Slot = i
		items = append(items, it)
	}
	return items, errors.Join(errs...)
}

// EvaluateDefinition evaluates every entry of a library definition.
func EvaluateDefinition(def model.PatternDefinition, box model.Box) ([]model.Item, error) {
	return Evaluate(def.Formulas(), box)
}

// RejectedSlots lists the slots reported in an Evaluate error.
func RejectedSlots(err error) []int {
	var errs []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	} else if err != nil {
		errs = []error{err}
	}

	var slots []int
	for _, e := range errs {
		var se *SlotError
		if errors.As(e, &se) {
			slots = append(slots, se.Slot)
		}
	}
	return slots
}
