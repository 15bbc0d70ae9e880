// ============================================================================
// hl7view - HL7 v2 Message Inspector
// ============================================================================
//
// Package:     terser
// Description: Path expressions addressing a single value in a decoded
//              message, in the /SEG(n)-F(r)-C-S notation
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package terser

import (
	"strconv"
	"strings"

	mdwerror "github.com/msto63/hl7view/foundation/core/error"
)

// Path addresses one value. Repetition indices are 0-based, field,
// component and subcomponent numbers 1-based. A zero Component or
// Subcomponent means the first one.
type Path struct {
	Segment      string
	SegmentRep   int
	Field        int
	FieldRep     int
	Component    int
	Subcomponent int

	// Raw is the expression as given to Parse
	Raw string
}

// Parse reads a path such as "/PID-5-1", "PID(1)-3(2)-1" or
// "/PATIENT/PID-5". Group prefixes and a leading "/" or "/." are dropped.
func Parse(spec string) (Path, error) {
	p := Path{Raw: spec}

	s := strings.TrimSpace(spec)
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimPrefix(s, ".")
	if s == "" {
		return p, invalid(spec, "empty path")
	}

	parts := strings.Split(s, "-")
	if len(parts) < 2 {
		return p, invalid(spec, "missing field number")
	}
	if len(parts) > 4 {
		return p, invalid(spec, "too many path elements")
	}

	name, rep, err := splitRepetition(parts[0])
	if err != nil {
		return p, invalid(spec, err.Error())
	}
	if !validSegmentID(name) {
		return p, invalid(spec, "segment id must be three letters or digits")
	}
	p.Segment, p.SegmentRep = name, rep

	field, rep, err := splitRepetition(parts[1])
	if err != nil {
		return p, invalid(spec, err.Error())
	}
	if p.Field, err = position(field, "field"); err != nil {
		return p, invalid(spec, err.Error())
	}
	p.FieldRep = rep

	if len(parts) > 2 {
		if p.Component, err = position(parts[2], "component"); err != nil {
			return p, invalid(spec, err.Error())
		}
	}
	if len(parts) > 3 {
		if p.Subcomponent, err = position(parts[3], "subcomponent"); err != nil {
			return p, invalid(spec, err.Error())
		}
	}

	return p, nil
}

// MustParse is Parse for paths known at compile time
func MustParse(spec string) Path {
	p, err := Parse(spec)
	if err != nil {
		panic(err)
	}
	return p
}

// String renders the canonical form, e.g. "/PID(1)-3(2)-1"
func (p Path) String() string {
	var b strings.Builder
	b.WriteString("/")
	b.WriteString(p.Segment)
	if p.SegmentRep > 0 {
		b.WriteString("(" + strconv.Itoa(p.SegmentRep) + ")")
	}
	b.WriteString("-" + strconv.Itoa(p.Field))
	if p.FieldRep > 0 {
		b.WriteString("(" + strconv.Itoa(p.FieldRep) + ")")
	}
	if p.Component > 0 {
		b.WriteString("-" + strconv.Itoa(p.Component))
	}
	if p.Subcomponent > 0 {
		b.WriteString("-" + strconv.Itoa(p.Subcomponent))
	}
	return b.String()
}

// splitRepetition separates "PID(2)" into "PID" and 2
func splitRepetition(s string) (string, int, error) {
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return s, 0, nil
	}
	if !strings.HasSuffix(s, ")") {
		return "", 0, errorf("unterminated repetition in %q", s)
	}
	n, err := strconv.Atoi(s[open+1 : len(s)-1])
	if err != nil || n < 0 {
		return "", 0, errorf("bad repetition in %q", s)
	}
	return s[:open], n, nil
}

func position(s, what string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, errorf("%s number must be a positive integer, got %q", what, s)
	}
	return n, nil
}

func validSegmentID(s string) bool {
	if len(s) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		c := s[i]
		if !(c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}

func errorf(format string, args ...interface{}) error {
	return mdwerror.Newf(format, args...)
}

func invalid(spec, reason string) error {
	return mdwerror.New("invalid path "+strconv.Quote(spec)+": "+reason).
		WithCode(mdwerror.CodeInvalidPath).
		WithOperation("terser.Parse").
		WithDetail("path", spec)
}
