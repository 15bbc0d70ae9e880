package service

import (
	"time"

	"github.com/msto63/hl7view/internal/hl7/mapping"
	"github.com/msto63/hl7view/internal/hl7/message"
	"github.com/msto63/hl7view/internal/hl7/report"
	"github.com/msto63/hl7view/pkg/core/config"
	"github.com/msto63/hl7view/pkg/core/logging"
)

// Config holds service configuration
type Config struct {
	// Decoder options
	Decoder message.Options

	// Mapping loader and hot reload settings
	Loader   mapping.Loader
	Debounce time.Duration

	// Report layout and rendering
	Schema report.Schema
	Report report.Options

	// Locale for captions and feedback, "" for English
	Locale string

	// Logger; nil creates a default "hl7" logger
	Logger *logging.Logger
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Decoder:  message.DefaultOptions(),
		Loader:   mapping.Loader{Section: mapping.DefaultSection},
		Debounce: mapping.DefaultDebounce,
		Schema:   report.DefaultSchema(),
		Report:   report.DefaultOptions(),
	}
}

// FromConfig converts the application configuration
func FromConfig(cfg *config.Config) (Config, error) {
	c := DefaultConfig()

	d := message.FromStrings(
		cfg.Parser.FieldSeparator,
		cfg.Parser.ComponentSeparator,
		cfg.Parser.RepetitionSeparator,
		cfg.Parser.EscapeCharacter,
		cfg.Parser.SubcomponentSeparator,
	)
	if err := d.Validate(); err != nil {
		return Config{}, err
	}
	c.Decoder = message.Options{
		Delimiters:     d,
		DetectEncoding: cfg.Parser.DetectEncoding == nil || *cfg.Parser.DetectEncoding,
		StripMLLP:      cfg.Parser.StripMLLP == nil || *cfg.Parser.StripMLLP,
	}

	c.Loader = mapping.Loader{Section: cfg.Mapping.Section}
	if cfg.Mapping.Debounce.Duration > 0 {
		c.Debounce = cfg.Mapping.Debounce.Duration
	}

	if len(cfg.Report.Groups) > 0 {
		policy := make(report.GroupPolicy, 0, len(cfg.Report.Groups))
		for _, g := range cfg.Report.Groups {
			policy = append(policy, report.Source{Key: g.Key, Path: g.Path})
		}
		c.Schema = c.Schema.WithGroup(policy)
	}

	c.Report = report.Options{
		Decimals:        cfg.Report.Decimals,
		NullToken:       cfg.Report.NullToken,
		TimestampLayout: cfg.Report.TimestampLayout,
		EscapeText:      cfg.Report.EscapeText == nil || *cfg.Report.EscapeText,
	}

	c.Locale = cfg.General.Locale
	return c, nil
}
