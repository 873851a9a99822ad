// Package config loads CLI configuration from a TOML file. A missing
// file is not an error; callers get the defaults back.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the domtree CLI settings.
type Config struct {
	Render RenderConfig `toml:"render"`
	Watch  WatchConfig  `toml:"watch"`
}

// RenderConfig controls markup output.
type RenderConfig struct {
	Indent   string `toml:"indent"`
	Compact  bool   `toml:"compact"`
	MaxDepth int    `toml:"max_depth"`
}

// WatchConfig controls snapshot-file watching.
type WatchConfig struct {
	DebounceMS int `toml:"debounce_ms"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Render: RenderConfig{Indent: "  "},
		Watch:  WatchConfig{DebounceMS: 100},
	}
}

// Debounce returns the watch debounce as a duration.
func (c Config) Debounce() time.Duration {
	if c.Watch.DebounceMS <= 0 {
		return 100 * time.Millisecond
	}
	return time.Duration(c.Watch.DebounceMS) * time.Millisecond
}

// Load reads the config at path, layered over the defaults. A
// nonexistent path yields the defaults with no error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}
