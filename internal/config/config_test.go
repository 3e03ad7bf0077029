package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mesh.Cells != DefaultCells {
		t.Errorf("expected %d cells, got %d", DefaultCells, cfg.Mesh.Cells)
	}
	if cfg.Solver.Tolerance <= 0 {
		t.Error("tolerance should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no cells", func(c *Config) { c.Mesh.Cells = 0 }},
		{"zero length", func(c *Config) { c.Mesh.Length = 0 }},
		{"zero rho", func(c *Config) { c.Medium.Rho = 0 }},
		{"negative c", func(c *Config) { c.Medium.C = -1 }},
		{"negative damping", func(c *Config) { c.Medium.Damping = -0.1 }},
		{"negative nev", func(c *Config) { c.Solver.Nev = -1 }},
		{"zero tolerance", func(c *Config) { c.Solver.Tolerance = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := GetPreset("damped")
	cfg.Target = FromComplex(22 - 3i)
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Target.Value() != 22-3i {
		t.Errorf("expected target 22-3i, got %v", loaded.Target.Value())
	}
	if loaded.Medium.Damping != 0.5 {
		t.Errorf("expected damping 0.5, got %f", loaded.Medium.Damping)
	}
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := "name: partial\nmesh:\n  cells: 8\ntarget:\n  re: 4\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Mesh.Cells != 8 {
		t.Errorf("expected 8 cells, got %d", cfg.Mesh.Cells)
	}
	if cfg.Mesh.Length != DefaultLength {
		t.Errorf("expected default length, got %f", cfg.Mesh.Length)
	}
	if cfg.Target.Value() != 4 {
		t.Errorf("expected target 4, got %v", cfg.Target.Value())
	}
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("medium:\n  rho: -2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("unit")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Mesh.Cells != 5 {
		t.Errorf("expected 5 cells, got %d", cfg.Mesh.Cells)
	}

	cfg.Mesh.Cells = 99
	if Presets["unit"].Mesh.Cells != 5 {
		t.Error("GetPreset returned a shared pointer")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsAreValid(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for i, name := range names {
		if i > 0 && names[i-1] > name {
			t.Errorf("presets not sorted: %v", names)
		}
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}
