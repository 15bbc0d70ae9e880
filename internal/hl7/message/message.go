// ============================================================================
// hl7view - HL7 v2 Message Inspector
// ============================================================================
//
// Package:     message
// Description: Decodes pipe encoded HL7 v2 text into segments, fields,
//              components and subcomponents
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package message

import (
	"strings"

	mdwerror "github.com/msto63/hl7view/foundation/core/error"
	"github.com/msto63/hl7view/foundation/utils/stringx"
)

// SegmentSeparator terminates every segment after line ending normalization
const SegmentSeparator = "\r"

// Message is a decoded message. Segments keep their input order.
type Message struct {
	// Raw is the input after MLLP stripping and line ending normalization;
	// Locate and Search offsets refer to it.
	Raw        string
	Delimiters Delimiters
	Segments   []*Segment

	// Skipped counts non-empty lines that did not qualify as segments
	Skipped int

	index map[string][]*Segment
	names []string
	nodes map[NodeKey]NodeInfo
}

// Segment is one accepted line. Fields[0] holds the segment id, so field n
// of a non-MSH segment is Fields[n].
type Segment struct {
	ID         string
	Occurrence int
	Raw        string
	Fields     []Field
}

// Field is a raw field value and its components. A field without a
// component separator has exactly one component equal to itself.
type Field struct {
	Value      string
	Components []Component
}

// Component is a raw component value. Subcomponents is nil unless the
// value splits into more than one part.
type Component struct {
	Value         string
	Subcomponents []string
}

// Options control decoding
type Options struct {
	// Delimiters used when detection is off or finds no MSH header
	Delimiters Delimiters
	// DetectEncoding reads delimiters from a leading MSH segment
	DetectEncoding bool
	// StripMLLP removes block framing before decoding
	StripMLLP bool
}

// DefaultOptions returns standard delimiters with detection and MLLP
// stripping enabled
func DefaultOptions() Options {
	return Options{
		Delimiters:     DefaultDelimiters,
		DetectEncoding: true,
		StripMLLP:      true,
	}
}

// Decoder turns message text into a Message
type Decoder struct {
	opts Options
}

// NewDecoder creates a decoder. Invalid delimiters fall back to the defaults.
func NewDecoder(opts Options) *Decoder {
	if opts.Delimiters.Validate() != nil {
		opts.Delimiters = DefaultDelimiters
	}
	return &Decoder{opts: opts}
}

// Options returns the decoder options
func (d *Decoder) Options() Options {
	return d.opts
}

// Decode decodes text with DefaultOptions
func Decode(text string) (*Message, error) {
	return NewDecoder(DefaultOptions()).Decode(text)
}

// Decode splits text into segments. Lines whose fourth character is not the
// field separator are dropped. Only blank input is an error.
func (d *Decoder) Decode(text string) (*Message, error) {
	if d.opts.StripMLLP {
		text = StripMLLP(text)
	}

	if stringx.IsBlank(text) {
		return nil, mdwerror.New("HL7 message is empty").
			WithCode(mdwerror.CodeEmptyMessage).
			WithOperation("message.Decode")
	}

	normalized := stringx.NormalizeLineEndings(text, SegmentSeparator)
	lines := strings.Split(normalized, SegmentSeparator)

	delims := d.opts.Delimiters
	if d.opts.DetectEncoding {
		for _, line := range lines {
			if line != "" {
				delims = detectDelimiters(line, delims)
				break
			}
		}
	}

	m := &Message{
		Raw:        normalized,
		Delimiters: delims,
		index:      make(map[string][]*Segment),
		nodes:      make(map[NodeKey]NodeInfo),
	}

	offset := 0
	for _, line := range lines {
		lineOffset := offset
		offset += len(line) + len(SegmentSeparator)

		if line == "" {
			continue
		}
		id, ok := segmentID(line, delims.Field)
		if !ok {
			m.Skipped++
			continue
		}

		seg := decodeSegment(id, line, delims)
		m.add(seg, lineOffset)
	}

	return m, nil
}

func (m *Message) add(seg *Segment, offset int) {
	if _, ok := m.index[seg.ID]; !ok {
		m.names = append(m.names, seg.ID)
	}
	m.index[seg.ID] = append(m.index[seg.ID], seg)
	seg.Occurrence = len(m.index[seg.ID])
	m.Segments = append(m.Segments, seg)

	m.nodes[NodeKey{SegmentID: seg.ID, Occurrence: seg.Occurrence}] = NodeInfo{
		Line:     seg.Raw,
		Position: len(m.Segments) - 1,
		Offset:   offset,
	}
}

// segmentID returns the first three characters of line when the fourth one
// is the field separator. Characters are counted as runes.
func segmentID(line string, field byte) (string, bool) {
	n := 0
	for i := range line {
		if n == 3 {
			return line[:i], line[i] == field
		}
		n++
	}
	return "", false
}

func decodeSegment(id, line string, d Delimiters) *Segment {
	seg := &Segment{
		ID:  id,
		Raw: line,
	}

	values := strings.Split(line, string(d.Field))
	seg.Fields = make([]Field, len(values))
	for i, v := range values {
		// MSH-2 holds the encoding characters themselves
		if seg.ID == "MSH" && i == 1 {
			seg.Fields[i] = Field{Value: v, Components: []Component{{Value: v}}}
			continue
		}
		seg.Fields[i] = decodeField(v, d)
	}
	return seg
}

func decodeField(value string, d Delimiters) Field {
	parts := strings.Split(value, string(d.Component))
	f := Field{Value: value, Components: make([]Component, len(parts))}
	for i, p := range parts {
		f.Components[i] = Component{Value: p}
		if subs := strings.Split(p, string(d.Subcomponent)); len(subs) > 1 {
			f.Components[i].Subcomponents = subs
		}
	}
	return f
}

// Names returns the distinct segment ids in order of first appearance
func (m *Message) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// All returns every segment with the given id in message order
func (m *Message) All(id string) []*Segment {
	segs := m.index[id]
	out := make([]*Segment, len(segs))
	copy(out, segs)
	return out
}

// Count returns how many segments carry the given id
func (m *Message) Count(id string) int {
	return len(m.index[id])
}

// Segment returns the n-th (1-based) segment with the given id
func (m *Message) Segment(id string, occurrence int) (*Segment, bool) {
	segs := m.index[id]
	if occurrence < 1 || occurrence > len(segs) {
		return nil, false
	}
	return segs[occurrence-1], true
}

// Field returns raw slot n; for MSH slot n holds field n+1
func (s *Segment) Field(n int) (Field, bool) {
	if n < 0 || n >= len(s.Fields) {
		return Field{}, false
	}
	return s.Fields[n], true
}

// FieldCount returns the number of fields after the segment id
func (s *Segment) FieldCount() int {
	return len(s.Fields) - 1
}

// Value returns the raw slot value, or "" when out of range
func (s *Segment) Value(n int) string {
	f, _ := s.Field(n)
	return f.Value
}

// Component returns component c (1-based), or "" when out of range
func (f Field) Component(c int) string {
	if c < 1 || c > len(f.Components) {
		return ""
	}
	return f.Components[c-1].Value
}

// Subcomponent returns subcomponent s (1-based). A component without
// subcomponents is its own first subcomponent.
func (c Component) Subcomponent(s int) string {
	if len(c.Subcomponents) == 0 {
		if s == 1 {
			return c.Value
		}
		return ""
	}
	if s < 1 || s > len(c.Subcomponents) {
		return ""
	}
	return c.Subcomponents[s-1]
}
