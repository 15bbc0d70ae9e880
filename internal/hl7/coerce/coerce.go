// Package coerce turns raw HL7 field text into typed report values.
// Every function is total: bad input yields a default, never an error.
package coerce

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/msto63/hl7view/foundation/utils/stringx"
)

// Timestamp layouts accepted by ParseTimestamp
const (
	LayoutDateTime = "20060102150405"
	LayoutDate     = "20060102"
)

// Report defaults for timestamps and numbers
const (
	DisplayLayout  = "2006/01/02 15:04:05"
	NullToken      = "<null>"
	NumberDecimals = 6
)

// Timestamp is an optional point in time. Time zone offsets in the source
// are not supported; parsed values are UTC.
type Timestamp struct {
	time.Time
	Valid bool
}

// ParseTimestamp accepts exactly YYYYMMDDHHMMSS or YYYYMMDD after trimming.
// Anything else, including blank input, gives an invalid Timestamp.
func ParseTimestamp(s string) Timestamp {
	s = strings.TrimSpace(s)
	if !allDigits(s) {
		return Timestamp{}
	}

	var layout string
	switch len(s) {
	case len(LayoutDateTime):
		layout = LayoutDateTime
	case len(LayoutDate):
		layout = LayoutDate
	default:
		return Timestamp{}
	}

	t, err := time.Parse(layout, s)
	if err != nil {
		return Timestamp{}
	}
	return Timestamp{Time: t, Valid: true}
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Format renders the timestamp with layout, or null when invalid
func (ts Timestamp) Format(layout, null string) string {
	if !ts.Valid {
		return null
	}
	return ts.Time.Format(layout)
}

// String renders like FormatNullableTimestamp
func (ts Timestamp) String() string {
	return FormatNullableTimestamp(ts)
}

// FormatNullableTimestamp renders "yyyy/mm/dd hh:mm:ss" or "<null>"
func FormatNullableTimestamp(ts Timestamp) string {
	return ts.Format(DisplayLayout, NullToken)
}

// ParseNumberOrDefault parses a decimal number with '.' as the decimal
// point. Surrounding whitespace, a leading sign, ',' group separators and
// an exponent are allowed. Blank or unparsable input returns def.
func ParseNumberOrDefault(s string, def float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	if strings.ContainsAny(s, "xX_pP") {
		return def
	}
	s = strings.ReplaceAll(s, ",", "")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

// FormatNumber renders v with a fixed number of decimals
func FormatNumber(v float64, decimals int) string {
	if decimals < 0 {
		decimals = NumberDecimals
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

var unescapeSequences = []struct{ from, to string }{
	{`\F\`, "|"},
	{`\S\`, "^"},
	{`\T\`, "&"},
	{`\R\`, "~"},
	{`\E\`, `\`},
}

// Unescape replaces the five standard escape sequences. The replacements
// run one after another over the whole string, \E\ last.
func Unescape(s string) string {
	if s == "" {
		return s
	}
	for _, seq := range unescapeSequences {
		s = strings.ReplaceAll(s, seq.from, seq.to)
	}
	return s
}

// FirstNonEmpty returns the first value that is not blank, or ""
func FirstNonEmpty(values ...string) string {
	return stringx.FirstNonBlank(values...)
}

// StripOuterQuotes trims s and removes one layer of matching single or
// double quotes
func StripOuterQuotes(s string) string {
	s = strings.TrimSpace(s)
	return StripQuotePair(s)
}

// StripQuotePair removes one layer of matching quotes without trimming
func StripQuotePair(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if first == last && (first == '\'' || first == '"') {
		return s[1 : len(s)-1]
	}
	return s
}

// EscapeSingleQuotes doubles every single quote
func EscapeSingleQuotes(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
