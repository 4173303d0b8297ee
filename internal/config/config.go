package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dshills/aditor/internal/dispatcher"
	"github.com/dshills/aditor/internal/document/record"
	"github.com/dshills/aditor/internal/document/schema"
	"github.com/dshills/aditor/internal/logging"
)

// Config is the full aditor configuration.
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Editor EditorConfig `mapstructure:"editor"`
	Schema SchemaConfig `mapstructure:"schema"`
	Store  StoreConfig  `mapstructure:"store"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// EditorConfig configures the engine and input handling.
type EditorConfig struct {
	// CompositionDelay is how long input waits after composition end
	// before inserting the composed text.
	CompositionDelay  time.Duration `mapstructure:"composition_delay"`
	TextNode          string        `mapstructure:"text_node"`
	RecoverPanics     bool          `mapstructure:"recover_panics"`
	ValidatePositions bool          `mapstructure:"validate_positions"`
	Metrics           bool          `mapstructure:"metrics"`
	MaxSelections     int           `mapstructure:"max_selections"`
}

// SchemaConfig holds extra nesting rules, parent name to child names.
type SchemaConfig struct {
	Rules map[string][]string `mapstructure:"rules"`
}

// StoreConfig configures document files.
type StoreConfig struct {
	// Format is the default record format for files without a known
	// extension: json, yaml or toml.
	Format        string        `mapstructure:"format"`
	WatchDebounce time.Duration `mapstructure:"watch_debounce"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Editor: EditorConfig{
			CompositionDelay:  20 * time.Millisecond,
			TextNode:          "text",
			RecoverPanics:     true,
			ValidatePositions: true,
		},
		Schema: SchemaConfig{Rules: map[string][]string{}},
		Store: StoreConfig{
			Format:        string(record.FormatJSON),
			WatchDebounce: 100 * time.Millisecond,
		},
	}
}

// Validate reports every out-of-range value.
func (c *Config) Validate() error {
	var problems []string
	if c.Editor.CompositionDelay < 0 {
		problems = append(problems, "editor.composition_delay must not be negative")
	}
	if strings.TrimSpace(c.Editor.TextNode) == "" {
		problems = append(problems, "editor.text_node must not be empty")
	}
	if c.Editor.MaxSelections < 0 {
		problems = append(problems, "editor.max_selections must not be negative")
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("log.format %q is not console or json", c.Log.Format))
	}
	if _, err := record.ParseFormat(c.Store.Format); err != nil {
		problems = append(problems, fmt.Sprintf("store.format: %v", err))
	}
	if c.Store.WatchDebounce < 0 {
		problems = append(problems, "store.watch_debounce must not be negative")
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// Logging returns the logger configuration, writing to stderr.
func (c *Config) Logging() logging.Config {
	return logging.Config{
		Level:      logging.ParseLogLevel(c.Log.Level),
		Format:     c.Log.Format,
		Output:     os.Stderr,
		File:       c.Log.File,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAgeDays: c.Log.MaxAgeDays,
		Compress:   c.Log.Compress,
	}
}

// Dispatcher returns the dispatcher configuration.
func (c *Config) Dispatcher() dispatcher.Config {
	d := dispatcher.DefaultConfig().
		WithPanicRecovery(c.Editor.RecoverPanics).
		WithValidation(c.Editor.ValidatePositions).
		WithMaxSelections(c.Editor.MaxSelections)
	if c.Editor.Metrics {
		d = d.WithMetrics()
	}
	return d
}

// NestingRules returns the built-in rules extended by the configured ones.
func (c *Config) NestingRules() *schema.Schema {
	s := schema.Default()
	for parent, children := range c.Schema.Rules {
		s.Allow(parent, children...)
	}
	return s
}
