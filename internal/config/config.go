// Package config holds the engine's own tuning knobs and version
// constants.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Version is the current nullinfer version. Set at build time via
// -ldflags.
var Version = "0.1.0"

const SourceFileExt = ".go"

// Config is the set of engine knobs a caller can override. The zero value
// is not Default: it leaves ParameterTieBreak off.
type Config struct {
	// ParameterTieBreak enables spec §4.5 step 4 (biasing an undetermined
	// parameter toward Nullable rather than leaving the closed-world
	// default to force it NonNull). Disabling it is useful for comparing
	// against a stricter, no-tie-break baseline.
	ParameterTieBreak bool `yaml:"parameterTieBreak"`

	// MaxConcurrentUnits caps how many translation units internal/engine
	// builds or edge-builds at once; 0 means unbounded (errgroup's default).
	MaxConcurrentUnits int `yaml:"maxConcurrentUnits"`
}

// Default returns the engine's default configuration.
func Default() Config {
	return Config{ParameterTieBreak: true}
}

// Load reads and parses a YAML config file, applying its values on top of
// Default for any field the file omits.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}
