// Package config handles loading deadstore configuration from files.
//
// Configuration can be specified in deadstore.json, .deadstorerc,
// .deadstorerc.json, deadstore.toml, deadstore.yaml or deadstore.yml.
// The config file is searched for in the current directory and parent
// directories; the format follows the file extension, JSON otherwise.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/HugoDaniel/deadstore/internal/diagnostic"
	"github.com/HugoDaniel/deadstore/pkg/api"
)

// Config represents the configuration file structure.
// All fields are optional and will use default values if not specified.
type Config struct {
	// Format selects the report format: text, json or yaml
	Format *string `json:"format,omitempty" toml:"format" yaml:"format,omitempty"`

	// Color enables styled terminal output (default true)
	Color *bool `json:"color,omitempty" toml:"color" yaml:"color,omitempty"`

	// SortByLine orders dead stores by source position (default true)
	SortByLine *bool `json:"sortByLine,omitempty" toml:"sortByLine" yaml:"sortByLine,omitempty"`

	// FailOnDeadStore makes the check command exit with status 1 when
	// any dead store is found
	FailOnDeadStore *bool `json:"failOnDeadStore,omitempty" toml:"failOnDeadStore" yaml:"failOnDeadStore,omitempty"`

	// ShowSource prints the source line under each text diagnostic (default true)
	ShowSource *bool `json:"showSource,omitempty" toml:"showSource" yaml:"showSource,omitempty"`

	// Indent is the number of spaces per level for the fmt command
	Indent *int `json:"indent,omitempty" toml:"indent" yaml:"indent,omitempty"`

	// Rules overrides diagnostic severities by code, e.g. {"W0001": "error"}
	Rules map[string]string `json:"rules,omitempty" toml:"rules" yaml:"rules,omitempty"`
}

// ConfigFileNames are the names searched for config files, in order of preference.
var ConfigFileNames = []string{
	"deadstore.json",
	".deadstorerc",
	".deadstorerc.json",
	"deadstore.toml",
	"deadstore.yaml",
	"deadstore.yml",
}

// Formats accepted for Config.Format.
var Formats = []string{"text", "json", "yaml"}

// Load searches for a config file starting from the given directory
// and walking up to parent directories. Returns nil if no config file is found.
func Load(startDir string) (*Config, string, error) {
	dir := startDir
	for {
		for _, name := range ConfigFileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				cfg, err := LoadFile(path)
				return cfg, path, err
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, "", nil
		}
		dir = parent
	}
}

// LoadFile loads and validates configuration from a specific file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return &cfg, nil
}

// Validate checks field values that the decoders cannot.
func (c *Config) Validate() error {
	if c.Format != nil && !ValidFormat(*c.Format) {
		return fmt.Errorf("unknown format %q (want one of %s)", *c.Format, strings.Join(Formats, ", "))
	}
	if c.Indent != nil && (*c.Indent < 1 || *c.Indent > 16) {
		return fmt.Errorf("indent must be between 1 and 16, got %d", *c.Indent)
	}
	for code, severity := range c.Rules {
		if _, err := diagnostic.ParseSeverity(severity); err != nil {
			return fmt.Errorf("rule %s: %w", code, err)
		}
	}
	return nil
}

// ValidFormat reports whether format is one of Formats.
func ValidFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Options are the resolved settings used by the CLI.
type Options struct {
	Format          string
	Color           bool
	SortByLine      bool
	FailOnDeadStore bool
	ShowSource      bool
	Indent          int
	Rules           map[diagnostic.DiagnosticCode]diagnostic.Severity
}

// DefaultOptions returns the settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Format:     "text",
		Color:      true,
		SortByLine: true,
		ShowSource: true,
		Indent:     4,
	}
}

// ToOptions converts a Config to Options, using defaults for unset fields.
// A nil Config yields the defaults.
func (c *Config) ToOptions() Options {
	opts := DefaultOptions()
	if c == nil {
		return opts
	}

	if c.Format != nil {
		opts.Format = *c.Format
	}
	if c.Color != nil {
		opts.Color = *c.Color
	}
	if c.SortByLine != nil {
		opts.SortByLine = *c.SortByLine
	}
	if c.FailOnDeadStore != nil {
		opts.FailOnDeadStore = *c.FailOnDeadStore
	}
	if c.ShowSource != nil {
		opts.ShowSource = *c.ShowSource
	}
	if c.Indent != nil {
		opts.Indent = *c.Indent
	}
	if len(c.Rules) > 0 {
		opts.Rules = make(map[diagnostic.DiagnosticCode]diagnostic.Severity, len(c.Rules))
		for code, name := range c.Rules {
			// Validated on load
			severity, _ := diagnostic.ParseSeverity(name)
			opts.Rules[diagnostic.DiagnosticCode(strings.ToUpper(code))] = severity
		}
	}

	return opts
}

// MergeOptions holds CLI flags. Zero values mean not specified on the CLI.
type MergeOptions struct {
	Format   string
	NoColor  bool
	Unsorted bool
	Fail     bool
	Indent   int
}

// Merge merges CLI options with config file options.
// CLI options override config file options when specified.
func (c *Config) Merge(cli MergeOptions) Options {
	opts := c.ToOptions()

	if cli.Format != "" {
		opts.Format = cli.Format
	}
	if cli.NoColor {
		opts.Color = false
	}
	if cli.Unsorted {
		opts.SortByLine = false
	}
	if cli.Fail {
		opts.FailOnDeadStore = true
	}
	if cli.Indent > 0 {
		opts.Indent = cli.Indent
	}

	return opts
}

// APIOptions returns the analysis settings for these options.
func (o Options) APIOptions(logger *log.Logger) api.Options {
	opts := api.Options{Unsorted: !o.SortByLine, Logger: logger}
	if len(o.Rules) > 0 {
		opts.Rules = make(map[string]string, len(o.Rules))
		for code, severity := range o.Rules {
			opts.Rules[string(code)] = severity.String()
		}
	}
	return opts
}
