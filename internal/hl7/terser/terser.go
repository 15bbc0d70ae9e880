package terser

import (
	"strings"

	"github.com/msto63/hl7view/internal/hl7/message"
)

// Outcome classifies a lookup
type Outcome int

const (
	// Absent means the path is valid but addresses nothing or an empty value
	Absent Outcome = iota
	// Found means a non-empty value was read
	Found
	// Malformed means the path could not be parsed
	Malformed
)

// String returns the outcome name
func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case Absent:
		return "absent"
	case Malformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Result is the value read for a path. Value is "" unless Outcome is Found.
type Result struct {
	Value   string
	Outcome Outcome
	Err     error
}

// Found reports whether the lookup produced a non-empty value
func (r Result) Found() bool {
	return r.Outcome == Found
}

func absent() Result {
	return Result{Outcome: Absent}
}

// Get parses spec and looks it up in m
func Get(m *message.Message, spec string) Result {
	p, err := Parse(spec)
	if err != nil {
		return Result{Outcome: Malformed, Err: err}
	}
	return Lookup(m, p)
}

// Lookup reads the value p addresses. Values are returned as they appear
// in the message, escape sequences included. MSH-1 is the field separator
// and MSH-2 the encoding characters, which are not split further.
func Lookup(m *message.Message, p Path) Result {
	if m == nil {
		return absent()
	}
	seg, ok := m.Segment(p.Segment, p.SegmentRep+1)
	if !ok {
		return absent()
	}
	d := m.Delimiters

	slot := p.Field
	if seg.ID == "MSH" {
		switch p.Field {
		case 1:
			return whole(string(d.Field), p)
		case 2:
			return whole(seg.Value(1), p)
		}
		slot = p.Field - 1
	}

	f, ok := seg.Field(slot)
	if !ok {
		return absent()
	}

	value, ok := pick(f.Value, d.Repetition, p.FieldRep)
	if !ok {
		return absent()
	}
	if value, ok = pick(value, d.Component, first(p.Component)-1); !ok {
		return absent()
	}
	if value, ok = pick(value, d.Subcomponent, first(p.Subcomponent)-1); !ok {
		return absent()
	}
	return found(value)
}

// whole serves values that are never split: only the first repetition,
// component and subcomponent exist
func whole(value string, p Path) Result {
	if p.FieldRep > 0 || first(p.Component) > 1 || first(p.Subcomponent) > 1 {
		return absent()
	}
	return found(value)
}

func found(value string) Result {
	if value == "" {
		return absent()
	}
	return Result{Value: value, Outcome: Found}
}

func pick(s string, sep byte, i int) (string, bool) {
	parts := strings.Split(s, string(sep))
	if i < 0 || i >= len(parts) {
		return "", false
	}
	return parts[i], true
}

func first(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
