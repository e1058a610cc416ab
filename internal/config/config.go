// Package config loads routetrack settings: defaults, then config.yaml, then
// ROUTETRACK_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"route-tracker/internal/store"
)

const EnvPrefix = "ROUTETRACK_"

// ConfigDir is $ROUTETRACK_CONFIG_DIR, or ~/.routetrack.
func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.routetrack).
	if v := strings.TrimSpace(os.Getenv(EnvPrefix + "CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".routetrack"), nil
}

func DefaultPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// envKey maps ROUTETRACK_VIEWPORT__MAX_SCALE to viewport.max_scale.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Load reads configuration from the given YAML file, then overlays environment
// variable overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if cfg.Datasets == nil {
		cfg.Datasets = map[string]Dataset{}
	}
	return cfg, nil
}

// Save writes the configuration to path, creating its directory.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validBackends = map[string]bool{
	store.BackendSQLite: true,
	store.BackendJSON:   true,
	store.BackendMemory: true,
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if !validBackends[c.Backend] {
		return fmt.Errorf("invalid backend %q: must be one of sqlite, json, memory", c.Backend)
	}
	if c.LogLevel != "" && !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log_level %q: must be one of debug, info, warn, error", c.LogLevel)
	}
	if err := c.Viewport.Limits().Validate(); err != nil {
		return err
	}
	if c.Viewport.DebounceMS < 0 {
		return errors.New("viewport.debounce_ms must be non-negative")
	}
	if c.HighlightMS < 0 {
		return errors.New("highlight_ms must be non-negative")
	}
	switch c.TUI.Glyphs {
	case "", "unicode", "ascii":
	default:
		return fmt.Errorf("invalid tui.glyphs %q: must be unicode or ascii", c.TUI.Glyphs)
	}
	for name, d := range c.Datasets {
		if err := validateName(name); err != nil {
			return err
		}
		if strings.TrimSpace(d.Path) == "" {
			return fmt.Errorf("dataset %q: path is required", name)
		}
	}
	if c.Current != "" {
		if _, ok := c.Datasets[c.Current]; !ok {
			return fmt.Errorf("current dataset %q: %w", c.Current, ErrUnknownDataset)
		}
	}
	return nil
}

// ResolveDataDir returns DataDir, defaulting to <config dir>/data.
func (c *Config) ResolveDataDir() (string, error) {
	if strings.TrimSpace(c.DataDir) != "" {
		return c.DataDir, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "data"), nil
}
