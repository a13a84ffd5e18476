package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"runtime"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/chartink/internal/analyzer"
)

// Config holds runtime configuration for analysis and reporting.
// Fields may be loaded from a YAML file and overridden by command-line flags.
type Config struct {
	Background string     `yaml:"background"`
	Threshold  float64    `yaml:"threshold"`
	Wand       WandConfig `yaml:"wand"`

	Workers          int      `yaml:"workers"`
	DPI              int      `yaml:"dpi"`
	OutputDir        string   `yaml:"output_dir"`
	Formats          []string `yaml:"formats"`
	ReferenceLibrary string   `yaml:"reference_library"`
	LogLevel         string   `yaml:"log_level"`
	ShowStats        bool     `yaml:"show_stats"`
	BuildVersion     string   `yaml:"-"`
}

// WandConfig tunes the magic-wand region grower.
type WandConfig struct {
	Tolerance float64 `yaml:"tolerance"`
	MinPixels int     `yaml:"min_pixels"`
	Padding   int     `yaml:"padding"`
}

// Supported report formats.
var Formats = []string{"json", "yaml", "csv"}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Background: "#ffffff",
		Threshold:  analyzer.DefaultThreshold,
		Wand: WandConfig{
			Tolerance: 32,
			MinPixels: 10,
			Padding:   2,
		},
		Workers:   runtime.NumCPU(),
		DPI:       150,
		OutputDir: "output",
		Formats:   []string{"json", "csv"},
		LogLevel:  "info",
	}
}

// Validate normalizes values and rejects the ones that cannot be repaired.
func (c *Config) Validate() error {
	if c.Background == "" {
		c.Background = "#ffffff"
	}
	if _, err := ParseColor(c.Background); err != nil {
		return fmt.Errorf("background: %w", err)
	}
	if c.Threshold < 0 || math.IsNaN(c.Threshold) {
		return fmt.Errorf("threshold must not be negative, got %v", c.Threshold)
	}
	if c.Wand.Tolerance < 0 || math.IsNaN(c.Wand.Tolerance) {
		return fmt.Errorf("wand tolerance must not be negative, got %v", c.Wand.Tolerance)
	}
	if c.Wand.MinPixels <= 0 {
		c.Wand.MinPixels = 10
	}
	if c.Wand.Padding < 0 {
		c.Wand.Padding = 2
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.DPI <= 0 {
		c.DPI = 150
	}
	if len(c.Formats) == 0 {
		c.Formats = []string{"json"}
	}
	for i, f := range c.Formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if !isFormat(f) {
			return fmt.Errorf("unknown report format %q", f)
		}
		c.Formats[i] = f
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Classifier builds the ink classifier described by the config.
func (c *Config) Classifier() (analyzer.InkClassifier, error) {
	bg, err := ParseColor(c.Background)
	if err != nil {
		return analyzer.InkClassifier{}, err
	}
	return analyzer.InkClassifier{Background: bg, Threshold: c.Threshold}, nil
}

// Grower builds the region grower described by the config.
func (c *Config) Grower() *analyzer.RegionGrower {
	return &analyzer.RegionGrower{MinPixels: c.Wand.MinPixels, Padding: c.Wand.Padding}
}

// Load reads configuration from a YAML file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return cfg, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to the given path in YAML format.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ParseColor parses a "#rrggbb" or "#rgb" hex colour.
func ParseColor(s string) (analyzer.Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return analyzer.Color{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return analyzer.Color{R: r, G: g, B: b}, nil
}

// FormatColor renders c as "#rrggbb".
func FormatColor(c analyzer.Color) string {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex()
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level: %w", err)
	}
	return l, nil
}

func isFormat(f string) bool {
	for _, v := range Formats {
		if v == f {
			return true
		}
	}
	return false
}
