package report

import (
	"fmt"
	"strings"

	"github.com/msto63/hl7view/internal/hl7/coerce"
	"github.com/msto63/hl7view/internal/hl7/mapping"
	"github.com/msto63/hl7view/internal/hl7/message"
	"github.com/msto63/hl7view/internal/hl7/resolve"
	"github.com/msto63/hl7view/pkg/core/logging"
)

// Indentation of report lines
const (
	rowIndent   = "     "
	tableIndent = "   "
)

// Translator supplies localized captions. *i18n.Manager satisfies it.
type Translator interface {
	TWithFallback(key string, fallbackMsg string, data ...map[string]interface{}) string
}

// Options control rendering
type Options struct {
	// Decimals for Number rows
	Decimals int
	// NullToken replaces invalid timestamps
	NullToken string
	// TimestampLayout is a Go time layout for Timestamp rows
	TimestampLayout string
	// EscapeText doubles single quotes inside Text and Unescaped rows
	EscapeText bool
	// Translator localizes trailer captions; nil keeps the schema's
	Translator Translator
}

// DefaultOptions returns six decimals, "<null>", "yyyy/mm/dd hh:mm:ss" and
// quote escaping
func DefaultOptions() Options {
	return Options{
		Decimals:        coerce.NumberDecimals,
		NullToken:       coerce.NullToken,
		TimestampLayout: coerce.DisplayLayout,
		EscapeText:      true,
	}
}

// Value is an evaluated row
type Value struct {
	Name string `json:"name" yaml:"name"`
	Kind Kind   `json:"kind" yaml:"kind"`
	// Raw is the resolved field text before coercion
	Raw string `json:"raw" yaml:"raw"`
	// Display is the rendered right-hand side
	Display string `json:"display" yaml:"display"`
}

// Line renders the value as a report line
func (v Value) Line() string {
	return rowIndent + v.Name + " = " + v.Display
}

// Formatter renders reports for one schema
type Formatter struct {
	schema Schema
	opts   Options
	logger *logging.Logger
}

// NewFormatter creates a formatter. Zero-valued options fall back to
// DefaultOptions field by field, except EscapeText.
func NewFormatter(schema Schema, opts Options) *Formatter {
	def := DefaultOptions()
	if opts.Decimals <= 0 {
		opts.Decimals = def.Decimals
	}
	if opts.NullToken == "" {
		opts.NullToken = def.NullToken
	}
	if opts.TimestampLayout == "" {
		opts.TimestampLayout = def.TimestampLayout
	}
	return &Formatter{schema: schema, opts: opts, logger: logging.NewNop()}
}

// WithLogger sets the formatter logger
func (f *Formatter) WithLogger(l *logging.Logger) *Formatter {
	if l != nil {
		f.logger = l
	}
	return f
}

// WithTranslator returns a copy that localizes captions with t
func (f *Formatter) WithTranslator(t Translator) *Formatter {
	c := *f
	c.opts.Translator = t
	return &c
}

// Schema returns the formatter schema
func (f *Formatter) Schema() Schema {
	return f.schema
}

// Format renders msg with the default schema and options
func Format(msg *message.Message, table *mapping.Table) string {
	return NewFormatter(DefaultSchema(), DefaultOptions()).Format(msg, table)
}

// Format renders the complete report, one line per row, each line
// terminated by "\n"
func (f *Formatter) Format(msg *message.Message, table *mapping.Table) string {
	r := resolve.New(msg, table).WithLogger(f.logger)

	var b strings.Builder
	fmt.Fprintf(&b, "Group '%s'\n", f.Group(r))

	for _, v := range f.evaluate(r) {
		b.WriteString(v.Line())
		b.WriteByte('\n')
	}

	for _, t := range f.schema.Trailer {
		fmt.Fprintf(&b, "%sTable %s - %s\n", tableIndent, t.Name, f.caption(t))
	}
	b.WriteString(tableIndent + "Row 0\n")
	fmt.Fprintf(&b, "%sNote = '%s'\n", rowIndent, f.schema.Note)

	f.logger.Debug("report formatted", "rows", len(f.schema.Rows), "mappings", table.Len())
	return b.String()
}

// Values evaluates every row without rendering the report frame
func (f *Formatter) Values(msg *message.Message, table *mapping.Table) []Value {
	return f.evaluate(resolve.New(msg, table).WithLogger(f.logger))
}

// Group resolves the group name: the first source with a non-blank value,
// outer quotes stripped and single quotes doubled
func (f *Formatter) Group(r *resolve.Resolver) string {
	var raw string
	for _, src := range f.schema.Group {
		if raw = value(r, src); strings.TrimSpace(raw) != "" {
			break
		}
	}
	return coerce.EscapeSingleQuotes(coerce.StripOuterQuotes(raw))
}

func (f *Formatter) evaluate(r *resolve.Resolver) []Value {
	values := make([]Value, 0, len(f.schema.Rows))
	for _, row := range f.schema.Rows {
		raw := f.resolveRow(r, row)
		values = append(values, Value{
			Name:    row.Name,
			Kind:    row.Kind,
			Raw:     raw,
			Display: f.render(row.Kind, raw),
		})
	}
	return values
}

func (f *Formatter) resolveRow(r *resolve.Resolver, row Row) string {
	switch len(row.Sources) {
	case 0:
		return ""
	case 1:
		return value(r, row.Sources[0])
	}
	candidates := make([]string, len(row.Sources))
	for i, src := range row.Sources {
		candidates[i] = value(r, src)
	}
	return coerce.FirstNonEmpty(candidates...)
}

func value(r *resolve.Resolver, src Source) string {
	if src.Key == "" {
		return r.Get(src.Path)
	}
	return r.Mapped(src.Key, src.Path)
}

func (f *Formatter) render(kind Kind, raw string) string {
	switch kind {
	case Number:
		return coerce.FormatNumber(coerce.ParseNumberOrDefault(raw, 0), f.opts.Decimals)
	case Timestamp:
		return coerce.ParseTimestamp(raw).Format(f.opts.TimestampLayout, f.opts.NullToken)
	case Unescaped:
		return f.quote(coerce.Unescape(raw))
	default:
		return f.quote(raw)
	}
}

func (f *Formatter) quote(s string) string {
	if f.opts.EscapeText {
		s = coerce.EscapeSingleQuotes(s)
	}
	return "'" + s + "'"
}

func (f *Formatter) caption(t TrailerTable) string {
	if f.opts.Translator == nil || t.CaptionKey == "" {
		return t.Caption
	}
	return f.opts.Translator.TWithFallback(t.CaptionKey, t.Caption)
}
