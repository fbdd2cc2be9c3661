package model

import (
	"testing"
)

func TestDefaultInventoryHasPresets(t *testing.T) {
	inv := DefaultInventory()
	if len(inv.Pallets) == 0 {
		t.Fatal("expected default pallet presets")
	}
	if len(inv.Boxes) == 0 {
		t.Fatal("expected default box presets")
	}
	for _, p := range inv.Pallets {
		if err := p.Pallet().Validate(); err != nil {
			t.Errorf("preset %q is invalid: %v", p.Name, err)
		}
		if len(p.ID) != 8 {
			t.Errorf("expected 8-char ID, got %q", p.ID)
		}
	}
}

func TestFindPalletByName(t *testing.T) {
	inv := DefaultInventory()
	p := inv.FindPalletByName("EUR 1200x800")
	if p == nil {
		t.Fatal("expected to find EUR pallet")
	}
	if p.Length != 1200 || p.Width != 800 {
		t.Errorf("expected 1200x800, got %.0fx%.0f", p.Length, p.Width)
	}
	if inv.FindPalletByName("nope") != nil {
		t.Error("expected nil for unknown pallet")
	}
}

func TestFindBoxByName(t *testing.T) {
	inv := DefaultInventory()
	b := inv.FindBoxByName("Carton 300x200")
	if b == nil {
		t.Fatal("expected to find carton preset")
	}
	box := b.Box()
	if box.Length != 300 || box.Width != 200 || box.Height != 150 {
		t.Errorf("unexpected box %+v", box)
	}
}

func TestInventoryNames(t *testing.T) {
	inv := DefaultInventory()
	if len(inv.PalletNames()) != len(inv.Pallets) {
		t.Error("pallet names length mismatch")
	}
	if len(inv.BoxNames()) != len(inv.Boxes) {
		t.Error("box names length mismatch")
	}
}
