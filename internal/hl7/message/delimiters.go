package message

import (
	"fmt"
)

// Delimiters are the five encoding characters of a pipe encoded message
type Delimiters struct {
	Field        byte
	Component    byte
	Repetition   byte
	Escape       byte
	Subcomponent byte
}

// DefaultDelimiters is the standard "|^~\&" set
var DefaultDelimiters = Delimiters{
	Field:        '|',
	Component:    '^',
	Repetition:   '~',
	Escape:       '\\',
	Subcomponent: '&',
}

// EncodingCharacters returns the MSH-2 representation, e.g. "^~\&"
func (d Delimiters) EncodingCharacters() string {
	return string([]byte{d.Component, d.Repetition, d.Escape, d.Subcomponent})
}

// Validate reports zero or duplicate delimiter characters
func (d Delimiters) Validate() error {
	chars := []byte{d.Field, d.Component, d.Repetition, d.Escape, d.Subcomponent}
	seen := make(map[byte]bool, len(chars))
	for _, c := range chars {
		if c == 0 {
			return fmt.Errorf("delimiter not set in %q", string(chars))
		}
		if seen[c] {
			return fmt.Errorf("duplicate delimiter %q in %q", c, string(chars))
		}
		seen[c] = true
	}
	return nil
}

// FromStrings builds delimiters from single character strings. Empty or
// longer strings keep the default for that position.
func FromStrings(field, component, repetition, escape, subcomponent string) Delimiters {
	pick := func(s string, def byte) byte {
		if len(s) == 1 {
			return s[0]
		}
		return def
	}
	return Delimiters{
		Field:        pick(field, DefaultDelimiters.Field),
		Component:    pick(component, DefaultDelimiters.Component),
		Repetition:   pick(repetition, DefaultDelimiters.Repetition),
		Escape:       pick(escape, DefaultDelimiters.Escape),
		Subcomponent: pick(subcomponent, DefaultDelimiters.Subcomponent),
	}
}

// detectDelimiters reads the field separator and MSH-2 from a header line.
// Characters MSH-2 does not supply keep the values of base. A header whose
// fourth character cannot be a separator leaves base untouched.
func detectDelimiters(line string, base Delimiters) Delimiters {
	if len(line) < 4 || line[:3] != "MSH" || !separatorCandidate(line[3]) {
		return base
	}

	d := base
	d.Field = line[3]

	enc := line[4:]
	for i := 0; i < len(enc); i++ {
		if enc[i] == d.Field {
			enc = enc[:i]
			break
		}
	}

	targets := []*byte{&d.Component, &d.Repetition, &d.Escape, &d.Subcomponent}
	for i := 0; i < len(enc) && i < len(targets); i++ {
		*targets[i] = enc[i]
	}

	if d.Validate() != nil {
		return base
	}
	return d
}

// separatorCandidate rejects control characters, whitespace, letters, digits
// and non-ASCII bytes
func separatorCandidate(c byte) bool {
	switch {
	case c <= ' ' || c >= 0x7f:
		return false
	case c >= '0' && c <= '9', c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z':
		return false
	}
	return true
}
