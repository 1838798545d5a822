package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultEnablesParameterTieBreak(t *testing.T) {
	cfg := Default()
	if !cfg.ParameterTieBreak {
		t.Fatalf("Default().ParameterTieBreak = false, want true")
	}
	if cfg.MaxConcurrentUnits != 0 {
		t.Fatalf("Default().MaxConcurrentUnits = %d, want 0 (unbounded)", cfg.MaxConcurrentUnits)
	}
}

func TestLoadAppliesOverridesOnTopOfDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nullinfer.yaml")
	if err := os.WriteFile(path, []byte("maxConcurrentUnits: 4\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned an error: %v", err)
	}
	if cfg.MaxConcurrentUnits != 4 {
		t.Fatalf("MaxConcurrentUnits = %d, want 4", cfg.MaxConcurrentUnits)
	}
	if !cfg.ParameterTieBreak {
		t.Fatalf("ParameterTieBreak = false, want true (Default's value, since the file never set it)")
	}
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("Load of a nonexistent path must return an error")
	}
}
