package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/piwi3910/PalletStack/internal/model"
)

// DefaultInventoryPath returns the default file path for the inventory file.
// This is located at ~/.palletstack/inventory.json.
func DefaultInventoryPath() string {
	return filepath.Join(DefaultConfigDir(), "inventory.json")
}

// SaveInventory writes the inventory to the specified JSON file.
// It creates parent directories if they do not exist.
func SaveInventory(path string, inv model.Inventory) error {
	return writeJSON(path, inv)
}

// LoadInventory reads the inventory from the specified JSON file.
// If the file does not exist, it returns the default inventory and saves it.
func LoadInventory(path string) (model.Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			inv := model.DefaultInventory()
			if saveErr := SaveInventory(path, inv); saveErr != nil {
				return inv, saveErr
			}
			return inv, nil
		}
		return model.Inventory{}, err
	}
	var inv model.Inventory
	if err := json.Unmarshal(data, &inv); err != nil {
		return model.Inventory{}, err
	}
	return inv, nil
}

// LoadInventoryTOML reads pallet and box presets from a TOML file:
//
//	[[pallets]]
//	name = "EUR 1200x800"
//	length = 1200
//	width = 800
//
//	[[boxes]]
//	name = "Carton 300x200"
//	length = 300
//	width = 200
//	height = 150
//
// Presets without an id get one generated.
func LoadInventoryTOML(path string) (model.Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Inventory{}, err
	}
	var inv model.Inventory
	if err := toml.Unmarshal(data, &inv); err != nil {
		return model.Inventory{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	for i := range inv.Pallets {
		if inv.Pallets[i].ID == "" {
			inv.Pallets[i].ID = model.NewPalletPreset("", 0, 0).ID
		}
	}
	for i := range inv.Boxes {
		if inv.Boxes[i].ID == "" {
			inv.Boxes[i].ID = model.NewBoxPreset("", 0, 0, 0).ID
		}
	}
	return inv, nil
}

// ImportInventory merges presets from a JSON or TOML file (chosen by
// extension) into existing. Duplicate IDs are skipped.
func ImportInventory(path string, existing model.Inventory) (model.Inventory, error) {
	var imported model.Inventory
	var err error
	if filepath.Ext(path) == ".toml" {
		imported, err = LoadInventoryTOML(path)
	} else {
		var data []byte
		data, err = os.ReadFile(path)
		if err == nil {
			err = json.Unmarshal(data, &imported)
		}
	}
	if err != nil {
		return existing, err
	}

	palletIDs := make(map[string]bool, len(existing.Pallets))
	for _, p := range existing.Pallets {
		palletIDs[p.ID] = true
	}
	boxIDs := make(map[string]bool, len(existing.Boxes))
	for _, b := range existing.Boxes {
		boxIDs[b.ID] = true
	}

	for _, p := range imported.Pallets {
		if !palletIDs[p.ID] {
			existing.Pallets = append(existing.Pallets, p)
			palletIDs[p.ID] = true
		}
	}
	for _, b := range imported.Boxes {
		if !boxIDs[b.ID] {
			existing.Boxes = append(existing.Boxes, b)
			boxIDs[b.ID] = true
		}
	}
	return existing, nil
}
