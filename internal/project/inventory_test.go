package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/PalletStack/internal/model"
)

func TestDefaultInventoryPath(t *testing.T) {
	path := DefaultInventoryPath()
	if filepath.Base(path) != "inventory.json" {
		t.Errorf("expected filename inventory.json, got %s", filepath.Base(path))
	}
	if dir := filepath.Base(filepath.Dir(path)); dir != ".palletstack" {
		t.Errorf("expected parent dir .palletstack, got %s", dir)
	}
}

func TestSaveAndLoadInventory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")

	box := model.NewBoxPreset("Test Carton", 400, 300, 250)
	box.Labels = model.Sides{false, false, true, false}
	inv := model.Inventory{
		Pallets: []model.PalletPreset{model.NewPalletPreset("Test Pallet", 1200, 1000)},
		Boxes:   []model.BoxPreset{box},
	}

	if err := SaveInventory(path, inv); err != nil {
		t.Fatalf("SaveInventory failed: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("inventory file was not created")
	}

	loaded, err := LoadInventory(path)
	if err != nil {
		t.Fatalf("LoadInventory failed: %v", err)
	}
	if len(loaded.Pallets) != 1 || loaded.Pallets[0].Width != 1000 {
		t.Errorf("unexpected pallets: %+v", loaded.Pallets)
	}
	if len(loaded.Boxes) != 1 || loaded.Boxes[0].Name != "Test Carton" {
		t.Errorf("unexpected boxes: %+v", loaded.Boxes)
	}
	if !loaded.Boxes[0].Labels[model.SideFront] {
		t.Error("expected front label flag to survive the round trip")
	}
}

func TestLoadInventoryCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "inventory.json")

	inv, err := LoadInventory(path)
	if err != nil {
		t.Fatalf("LoadInventory failed: %v", err)
	}
	if len(inv.Pallets) == 0 || len(inv.Boxes) == 0 {
		t.Error("expected default presets")
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected default inventory to be written: %v", err)
	}
}

const presetTOML = `
[[pallets]]
name = "Block 1000x600"
length = 1000
width = 600

[[boxes]]
id = "crate01"
name = "Crate"
length = 500
width = 250
height = 300
labels = [false, true, false, false]
`

func TestLoadInventoryTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.toml")
	if err := os.WriteFile(path, []byte(presetTOML), 0644); err != nil {
		t.Fatal(err)
	}

	inv, err := LoadInventoryTOML(path)
	if err != nil {
		t.Fatalf("LoadInventoryTOML failed: %v", err)
	}
	if len(inv.Pallets) != 1 || inv.Pallets[0].Length != 1000 {
		t.Fatalf("unexpected pallets: %+v", inv.Pallets)
	}
	if inv.Pallets[0].ID == "" {
		t.Error("expected a generated pallet ID")
	}
	if len(inv.Boxes) != 1 || inv.Boxes[0].ID != "crate01" {
		t.Fatalf("unexpected boxes: %+v", inv.Boxes)
	}
	if !inv.Boxes[0].Labels[model.SideRight] {
		t.Error("expected right label flag")
	}
}

func TestLoadInventoryTOMLInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[[pallets]\nname="), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadInventoryTOML(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestImportInventoryMergesAndSkipsDuplicates(t *testing.T) {
	dir := t.TempDir()
	existing := model.DefaultInventory()
	before := len(existing.Pallets)

	jsonPath := filepath.Join(dir, "more.json")
	extra := model.Inventory{
		Pallets: []model.PalletPreset{existing.Pallets[0], model.NewPalletPreset("New", 900, 900)},
	}
	if err := SaveInventory(jsonPath, extra); err != nil {
		t.Fatal(err)
	}

	merged, err := ImportInventory(jsonPath, existing)
	if err != nil {
		t.Fatalf("ImportInventory failed: %v", err)
	}
	if len(merged.Pallets) != before+1 {
		t.Errorf("expected %d pallets after merge, got %d", before+1, len(merged.Pallets))
	}

	tomlPath := filepath.Join(dir, "presets.toml")
	if err := os.WriteFile(tomlPath, []byte(presetTOML), 0644); err != nil {
		t.Fatal(err)
	}
	merged, err = ImportInventory(tomlPath, merged)
	if err != nil {
		t.Fatalf("ImportInventory (toml) failed: %v", err)
	}
	if merged.FindBoxByName("Crate") == nil {
		t.Error("expected TOML box to be merged")
	}
}
