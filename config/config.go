// Package config provides configuration loading and management for ruledoc.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/ruledoc/export"
)

// Config represents the complete ruledoc configuration
type Config struct {
	Input  InputConfig  `yaml:"input"`
	Output OutputConfig `yaml:"output"`
	Docs   DocsConfig   `yaml:"docs"`
	Watch  WatchConfig  `yaml:"watch"`
}

// InputConfig locates the documentation and metadata sources
type InputConfig struct {
	// AptDir is the directory holding the APT rule documentation
	AptDir string `yaml:"apt_dir"`
	// Patterns select documentation files under AptDir (doublestar globs)
	Patterns []string `yaml:"patterns"`
	// Messages is the properties file with base HTML descriptions (optional)
	Messages string `yaml:"messages"`
	// Catalog is the YAML list of checks to document
	Catalog string `yaml:"catalog"`
	// Sources is a Java source root scanned for priorities and defaults (optional)
	Sources string `yaml:"sources"`
}

// OutputConfig configures the generated artifacts
type OutputConfig struct {
	// Dir is the output directory (default: target/results)
	Dir string `yaml:"dir"`
	// Format is "xml" or "json-html"
	Format string `yaml:"format"`
	// Markdown adds a .md rendering per rule in json-html mode
	Markdown bool `yaml:"markdown"`
	// MetricsFile receives run tallies in Prometheus text format (optional)
	MetricsFile string `yaml:"metrics_file"`
}

// DocsConfig configures description rendering
type DocsConfig struct {
	// BaseURL resolves relative documentation links
	BaseURL string `yaml:"base_url"`
}

// WatchConfig configures watch mode
type WatchConfig struct {
	// Debounce is how long to wait for more changes before regenerating
	Debounce time.Duration `yaml:"debounce"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			AptDir:   "src/site/apt",
			Patterns: []string{"codenarc-rules-*.apt"},
			Catalog:  "codenarc-catalog.yaml",
		},
		Output: OutputConfig{
			Dir:    filepath.Join("target", "results"),
			Format: string(export.FormatXML),
		},
		Docs: DocsConfig{
			BaseURL: "http://codenarc.sourceforge.net/",
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Input.AptDir == "" {
		return fmt.Errorf("input.apt_dir is required")
	}
	if len(c.Input.Patterns) == 0 {
		return fmt.Errorf("input.patterns must list at least one pattern")
	}
	for _, p := range c.Input.Patterns {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("input.patterns must not contain empty patterns")
		}
	}
	if c.Input.Catalog == "" {
		return fmt.Errorf("input.catalog is required")
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir is required")
	}
	format, err := export.ParseFormat(c.Output.Format)
	if err != nil {
		return fmt.Errorf("output.format: %w", err)
	}
	if c.Output.Markdown && format != export.FormatJSONHTML {
		return fmt.Errorf("output.markdown requires format %s", export.FormatJSONHTML)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	return nil
}

// Format returns the parsed output format
func (c *Config) Format() export.Format {
	f, err := export.ParseFormat(c.Output.Format)
	if err != nil {
		return export.FormatXML
	}
	return f
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Input
	if other.Input.AptDir != "" {
		c.Input.AptDir = other.Input.AptDir
	}
	if len(other.Input.Patterns) > 0 {
		c.Input.Patterns = other.Input.Patterns
	}
	if other.Input.Messages != "" {
		c.Input.Messages = other.Input.Messages
	}
	if other.Input.Catalog != "" {
		c.Input.Catalog = other.Input.Catalog
	}
	if other.Input.Sources != "" {
		c.Input.Sources = other.Input.Sources
	}

	// Output
	if other.Output.Dir != "" {
		c.Output.Dir = other.Output.Dir
	}
	if other.Output.Format != "" {
		c.Output.Format = other.Output.Format
	}
	if other.Output.Markdown {
		c.Output.Markdown = true
	}
	if other.Output.MetricsFile != "" {
		c.Output.MetricsFile = other.Output.MetricsFile
	}

	// Docs
	if other.Docs.BaseURL != "" {
		c.Docs.BaseURL = other.Docs.BaseURL
	}

	// Watch
	if other.Watch.Debounce != 0 {
		c.Watch.Debounce = other.Watch.Debounce
	}
}
