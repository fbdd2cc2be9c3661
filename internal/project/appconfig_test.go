package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/PalletStack/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultBoxLength = 400
	cfg.Theme = "dark"
	cfg.SearchDirection = "y"
	cfg.RecentPatterns = []string{"eur-9", "eur-12"}

	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}

	if loaded.DefaultBoxLength != 400 {
		t.Errorf("expected DefaultBoxLength=400, got %f", loaded.DefaultBoxLength)
	}
	if loaded.Theme != "dark" {
		t.Errorf("expected Theme=dark, got %s", loaded.Theme)
	}
	if loaded.SearchDirection != "y" {
		t.Errorf("expected SearchDirection=y, got %s", loaded.SearchDirection)
	}
	if len(loaded.RecentPatterns) != 2 {
		t.Errorf("expected 2 recent patterns, got %d", len(loaded.RecentPatterns))
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}

	defaults := model.DefaultAppConfig()
	if cfg.CollisionTolerance != defaults.CollisionTolerance {
		t.Errorf("expected default tolerance %f, got %f", defaults.CollisionTolerance, cfg.CollisionTolerance)
	}
	if cfg.Theme != "system" {
		t.Errorf("expected theme=system, got %s", cfg.Theme)
	}
}

func TestLoadAppConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"theme":"light"}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.Theme != "light" {
		t.Errorf("expected theme=light, got %s", cfg.Theme)
	}
	if cfg.DefaultPalletLength != 1200 {
		t.Errorf("expected default pallet length 1200, got %f", cfg.DefaultPalletLength)
	}
	if cfg.RecentPatterns == nil {
		t.Error("RecentPatterns should never be nil")
	}
}

func TestLoadAppConfigInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadAppConfig(path); err == nil {
		t.Error("expected an error for invalid JSON")
	}
}

func TestLibraryDirFor(t *testing.T) {
	cfg := model.DefaultAppConfig()
	if got := LibraryDirFor(cfg); filepath.Base(got) != "patterns" {
		t.Errorf("expected default library dir to end in patterns, got %s", got)
	}
	cfg.LibraryDir = "/srv/patterns"
	if got := LibraryDirFor(cfg); got != "/srv/patterns" {
		t.Errorf("expected configured dir, got %s", got)
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()
	if filepath.Base(path) != "config.json" {
		t.Errorf("expected config.json, got %s", filepath.Base(path))
	}
	if filepath.Base(filepath.Dir(path)) != ".palletstack" {
		t.Errorf("expected parent dir .palletstack, got %s", filepath.Dir(path))
	}
}
