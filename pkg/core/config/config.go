// ============================================================================
// hl7view - HL7 v2 Message Inspector
// ============================================================================
//
// Package:     config
// Description: TOML configuration for parser, mapping and report settings
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	mdwerror "github.com/msto63/hl7view/foundation/core/error"
)

// EnvConfigPath names the environment variable holding the config path
const EnvConfigPath = "HL7VIEW_CONFIG"

// Config holds the complete application configuration
type Config struct {
	General GeneralConfig `toml:"general"`
	Parser  ParserConfig  `toml:"parser"`
	Mapping MappingConfig `toml:"mapping"`
	Report  ReportConfig  `toml:"report"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Name      string `toml:"name"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
	Locale    string `toml:"locale"`
}

// ParserConfig holds the default delimiters and decoding switches
type ParserConfig struct {
	FieldSeparator        string `toml:"field_separator"`
	ComponentSeparator    string `toml:"component_separator"`
	RepetitionSeparator   string `toml:"repetition_separator"`
	EscapeCharacter       string `toml:"escape_character"`
	SubcomponentSeparator string `toml:"subcomponent_separator"`
	DetectEncoding        *bool  `toml:"detect_encoding"`
	StripMLLP             *bool  `toml:"strip_mllp"`
}

// MappingConfig holds mapping file settings
type MappingConfig struct {
	File     string   `toml:"file"`
	Section  string   `toml:"section"`
	Watch    bool     `toml:"watch"`
	Debounce Duration `toml:"debounce"`
}

// ReportConfig holds report formatting settings
type ReportConfig struct {
	Decimals        int           `toml:"decimals"`
	NullToken       string        `toml:"null_token"`
	TimestampLayout string        `toml:"timestamp_layout"`
	EscapeText      *bool         `toml:"escape_text"`
	Groups          []GroupSource `toml:"group"`
}

// GroupSource is one step of the group name fallback chain
type GroupSource struct {
	Key  string `toml:"key"`
	Path string `toml:"path"`
}

// Duration wraps time.Duration for TOML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML file
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, mdwerror.New("config file not found").
			WithCode(mdwerror.CodeMissingConfig).
			WithOperation("config.Load").
			WithDetail("path", path)
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, mdwerror.Wrap(err, "failed to parse config").
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("config.Load").
			WithDetail("path", path)
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// DefaultPaths returns the locations searched when no path is given
func DefaultPaths() []string {
	paths := []string{
		"./configs/hl7view.toml",
		"./hl7view.toml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "hl7view", "hl7view.toml"))
	}
	return paths
}

// LoadFromEnv loads configuration from HL7VIEW_CONFIG or the default
// locations. Unlike Load it falls back to Default when no file exists.
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return Load(path)
	}

	for _, p := range DefaultPaths() {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}

	return Default(), nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.Name == "" {
		c.General.Name = "hl7view"
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "warn"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "text"
	}
	if c.General.Locale == "" {
		c.General.Locale = "en"
	}

	// Parser
	if c.Parser.FieldSeparator == "" {
		c.Parser.FieldSeparator = "|"
	}
	if c.Parser.ComponentSeparator == "" {
		c.Parser.ComponentSeparator = "^"
	}
	if c.Parser.RepetitionSeparator == "" {
		c.Parser.RepetitionSeparator = "~"
	}
	if c.Parser.EscapeCharacter == "" {
		c.Parser.EscapeCharacter = `\`
	}
	if c.Parser.SubcomponentSeparator == "" {
		c.Parser.SubcomponentSeparator = "&"
	}
	if c.Parser.DetectEncoding == nil {
		c.Parser.DetectEncoding = boolPtr(true)
	}
	if c.Parser.StripMLLP == nil {
		c.Parser.StripMLLP = boolPtr(true)
	}

	// Mapping
	if c.Mapping.Section == "" {
		c.Mapping.Section = "Mapping"
	}
	if c.Mapping.Debounce.Duration == 0 {
		c.Mapping.Debounce.Duration = 200 * time.Millisecond
	}

	// Report
	if c.Report.Decimals == 0 {
		c.Report.Decimals = 6
	}
	if c.Report.NullToken == "" {
		c.Report.NullToken = "<null>"
	}
	if c.Report.TimestampLayout == "" {
		c.Report.TimestampLayout = "2006/01/02 15:04:05"
	}
	if c.Report.EscapeText == nil {
		c.Report.EscapeText = boolPtr(true)
	}
	if len(c.Report.Groups) == 0 {
		c.Report.Groups = []GroupSource{
			{Key: "GroupName", Path: "/MSH-8"},
			{Key: "GroupFromMessageType", Path: "/MSH-9-1"},
		}
	}
}

// expandEnvVars expands environment variables in path values
func (c *Config) expandEnvVars() {
	c.Mapping.File = os.ExpandEnv(c.Mapping.File)
}

// Validate checks values that defaults cannot repair
func (c *Config) Validate() error {
	separators := map[string]string{
		"field_separator":        c.Parser.FieldSeparator,
		"component_separator":    c.Parser.ComponentSeparator,
		"repetition_separator":   c.Parser.RepetitionSeparator,
		"escape_character":       c.Parser.EscapeCharacter,
		"subcomponent_separator": c.Parser.SubcomponentSeparator,
	}
	for key, value := range separators {
		if len(value) != 1 {
			return mdwerror.New("separator must be a single character").
				WithCode(mdwerror.CodeInvalidConfig).
				WithOperation("config.Validate").
				WithDetail("key", "parser."+key).
				WithDetail("value", value)
		}
	}

	if c.Report.Decimals < 0 || c.Report.Decimals > 15 {
		return mdwerror.New("report decimals out of range").
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("config.Validate").
			WithDetail("decimals", c.Report.Decimals)
	}

	for i, g := range c.Report.Groups {
		if g.Path == "" {
			return mdwerror.New("report group entry needs a path").
				WithCode(mdwerror.CodeInvalidConfig).
				WithOperation("config.Validate").
				WithDetail("index", i)
		}
	}
	return nil
}

func boolPtr(b bool) *bool {
	return &b
}
