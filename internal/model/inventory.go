package model

import "github.com/google/uuid"

// PalletPreset represents a reusable pallet definition.
type PalletPreset struct {
	ID     string  `json:"id" toml:"id"`
	Name   string  `json:"name" toml:"name"`
	Length float64 `json:"length" toml:"length"`
	Width  float64 `json:"width" toml:"width"`
}

// NewPalletPreset creates a new PalletPreset with a generated ID.
func NewPalletPreset(name string, length, width float64) PalletPreset {
	return PalletPreset{
		ID:     uuid.New().String()[:8],
		Name:   name,
		Length: length,
		Width:  width,
	}
}

// Pallet converts the preset into a Pallet.
func (pp PalletPreset) Pallet() Pallet {
	return NewPallet(pp.Length, pp.Width)
}

// BoxPreset represents a reusable carton definition.
type BoxPreset struct {
	ID     string  `json:"id" toml:"id"`
	Name   string  `json:"name" toml:"name"`
	Length float64 `json:"length" toml:"length"`
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
	Labels Sides   `json:"labels" toml:"labels"` // Faces carrying a label, in box frame
}

// NewBoxPreset creates a new BoxPreset with a generated ID.
func NewBoxPreset(name string, length, width, height float64) BoxPreset {
	return BoxPreset{
		ID:     uuid.New().String()[:8],
		Name:   name,
		Length: length,
		Width:  width,
		Height: height,
	}
}

// Box converts the preset into a Box.
func (bp BoxPreset) Box() Box {
	return NewBox(bp.Length, bp.Width, bp.Height)
}

// Inventory holds the user's saved pallet and box presets.
type Inventory struct {
	Pallets []PalletPreset `json:"pallets" toml:"pallets"`
	Boxes   []BoxPreset    `json:"boxes" toml:"boxes"`
}

// DefaultInventory returns an inventory populated with common pallet standards.
func DefaultInventory() Inventory {
	return Inventory{
		Pallets: []PalletPreset{
			NewPalletPreset("EUR 1200x800", 1200, 800),
			NewPalletPreset("EUR 2 1200x1000", 1200, 1000),
			NewPalletPreset("Half EUR 800x600", 800, 600),
			NewPalletPreset("GMA 48\"x40\" (1219x1016)", 1219, 1016),
			NewPalletPreset("ISO 1100x1100", 1100, 1100),
		},
		Boxes: []BoxPreset{
			NewBoxPreset("Carton 300x200", 300, 200, 150),
			NewBoxPreset("Carton 400x300", 400, 300, 200),
			NewBoxPreset("Carton 600x400", 600, 400, 300),
			NewBoxPreset("Tray 400x200", 400, 200, 100),
		},
	}
}

// FindPalletByName returns a pointer to the first pallet preset with the given name, or nil.
func (inv *Inventory) FindPalletByName(name string) *PalletPreset {
	for i := range inv.Pallets {
		if inv.Pallets[i].Name == name {
			return &inv.Pallets[i]
		}
	}
	return nil
}

// FindBoxByName returns a pointer to the first box preset with the given name, or nil.
func (inv *Inventory) FindBoxByName(name string) *BoxPreset {
	for i := range inv.Boxes {
		if inv.Boxes[i].Name == name {
			return &inv.Boxes[i]
		}
	}
	return nil
}

// PalletNames returns a list of pallet preset names for UI dropdowns.
func (inv *Inventory) PalletNames() []string {
	names := make([]string, len(inv.Pallets))
	for i, p := range inv.Pallets {
		names[i] = p.Name
	}
	return names
}

// BoxNames returns a list of box preset names for UI dropdowns.
func (inv *Inventory) BoxNames() []string {
	names := make([]string, len(inv.Boxes))
	for i, b := range inv.Boxes {
		names[i] = b.Name
	}
	return names
}
