package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("GRIDCORE_ADDR", "")
	t.Setenv("GRIDCORE_LOG_PATH", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Setenv("GRIDCORE_ADDR", "")
	t.Setenv("GRIDCORE_LOG_PATH", "")

	path := filepath.Join(t.TempDir(), "gridcore.toml")
	content := `
[diff]
max_rows = 50

[server]
addr = "127.0.0.1:9000"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Diff.MaxRows != 50 {
		t.Errorf("Expected max_rows 50, got %d", cfg.Diff.MaxRows)
	}
	if cfg.Diff.MaxCols != DefaultConfig().Diff.MaxCols {
		t.Errorf("Expected default max_cols, got %d", cfg.Diff.MaxCols)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Expected addr 127.0.0.1:9000, got %q", cfg.Server.Addr)
	}
	if cfg.Formula.MaxDepth != DefaultConfig().Formula.MaxDepth {
		t.Errorf("Expected default max_depth, got %d", cfg.Formula.MaxDepth)
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[diff\nmax_rows = "), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Expected error for invalid TOML")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GRIDCORE_ADDR", ":7000")
	t.Setenv("GRIDCORE_LOG_PATH", "/tmp/gridcore.log")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Addr != ":7000" || cfg.Log.Path != "/tmp/gridcore.log" {
		t.Errorf("Expected env overrides, got %+v", cfg)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("GRIDCORE_ADDR", "")
	t.Setenv("GRIDCORE_LOG_PATH", "")

	cfg := DefaultConfig()
	cfg.Diff.MaxCols = 52
	cfg.Formula.MaxDepth = 64
	cfg.Server.DevMode = true
	cfg.Log.Path = "gridcore.log"

	path := filepath.Join(t.TempDir(), "gridcore.toml")
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("Round trip mismatch: saved %+v, loaded %+v", cfg, loaded)
	}

	if opts := loaded.DiffOptions(); opts.MaxCols != 52 {
		t.Errorf("Expected DiffOptions max cols 52, got %d", opts.MaxCols)
	}
	if e := loaded.Engine(); e.MaxDepth != 64 {
		t.Errorf("Expected engine depth 64, got %d", e.MaxDepth)
	}
}
