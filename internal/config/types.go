package config

import (
	"time"

	"route-tracker/internal/viewport"
)

// Config is the top-level routetrack configuration, stored as config.yaml in the
// config dir.
type Config struct {
	DataDir     string             `yaml:"data_dir,omitempty" koanf:"data_dir"`
	Backend     string             `yaml:"backend" koanf:"backend"`
	LogLevel    string             `yaml:"log_level" koanf:"log_level"`
	Current     string             `yaml:"current,omitempty" koanf:"current"`
	Datasets    map[string]Dataset `yaml:"datasets,omitempty" koanf:"datasets"`
	Viewport    ViewportConfig     `yaml:"viewport" koanf:"viewport"`
	HighlightMS int                `yaml:"highlight_ms" koanf:"highlight_ms"`
	TUI         TUIConfig          `yaml:"tui" koanf:"tui"`
}

// Dataset is one registered route file. Namespace and Milestone override the values
// carried by the file itself.
type Dataset struct {
	Path      string `yaml:"path" koanf:"path"`
	Namespace string `yaml:"namespace,omitempty" koanf:"namespace"`
	Milestone string `yaml:"milestone,omitempty" koanf:"milestone"`
}

type ViewportConfig struct {
	MinScale     float64 `yaml:"min_scale" koanf:"min_scale"`
	MaxScale     float64 `yaml:"max_scale" koanf:"max_scale"`
	InitialScale float64 `yaml:"initial_scale" koanf:"initial_scale"`
	WheelStep    float64 `yaml:"wheel_step" koanf:"wheel_step"`
	DebounceMS   int     `yaml:"debounce_ms" koanf:"debounce_ms"`
}

func (v ViewportConfig) Limits() viewport.Limits {
	return viewport.Limits{Min: v.MinScale, Max: v.MaxScale, Initial: v.InitialScale, WheelStep: v.WheelStep}
}

func (v ViewportConfig) Debounce() time.Duration {
	return time.Duration(v.DebounceMS) * time.Millisecond
}

type TUIConfig struct {
	// Glyphs selects "unicode" or "ascii" markers.
	Glyphs string `yaml:"glyphs,omitempty" koanf:"glyphs"`
}

func (c *Config) Highlight() time.Duration {
	return time.Duration(c.HighlightMS) * time.Millisecond
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	lim := viewport.DefaultLimits()
	return &Config{
		Backend:  "sqlite",
		LogLevel: "info",
		Datasets: map[string]Dataset{},
		Viewport: ViewportConfig{
			MinScale:     lim.Min,
			MaxScale:     lim.Max,
			InitialScale: lim.Initial,
			WheelStep:    lim.WheelStep,
			DebounceMS:   int(viewport.DefaultDebounce / time.Millisecond),
		},
		HighlightMS: 1500,
	}
}
