package message

import (
	"fmt"
	"strings"

	"github.com/msto63/hl7view/foundation/utils/stringx"
)

// NodeKey identifies a segment by id and 1-based occurrence
type NodeKey struct {
	SegmentID  string `json:"segment" yaml:"segment"`
	Occurrence int    `json:"occurrence" yaml:"occurrence"`
}

// String renders the key as "PID[2]"
func (k NodeKey) String() string {
	return fmt.Sprintf("%s[%d]", k.SegmentID, k.Occurrence)
}

// NodeInfo is the side table entry for a segment
type NodeInfo struct {
	Line     string
	Position int // index into Message.Segments
	Offset   int // byte offset of the line in Message.Raw
}

// Span is a byte range within Message.Raw
type Span struct {
	Offset int
	Length int
}

// End returns the offset just past the span
func (s Span) End() int {
	return s.Offset + s.Length
}

// Node returns the side table entry for key
func (m *Message) Node(key NodeKey) (NodeInfo, bool) {
	info, ok := m.nodes[key]
	return info, ok
}

// Locate returns the span of the segment's line in Raw. Identical lines of
// the same segment id map to distinct spans, the n-th occurrence to the
// n-th copy of the text.
func (m *Message) Locate(key NodeKey) (Span, bool) {
	info, ok := m.nodes[key]
	if !ok {
		return Span{}, false
	}
	return Span{Offset: info.Offset, Length: len(info.Line)}, true
}

// IndexNth returns the byte index of the n-th (1-based) non-overlapping
// occurrence of needle in haystack, or -1
func IndexNth(haystack, needle string, n int) int {
	return stringx.IndexNth(haystack, needle, n)
}

// Search finds the first case-insensitive occurrence of keyword in Raw
func (m *Message) Search(keyword string) (Span, bool) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return Span{}, false
	}
	n := len(keyword)
	for i := 0; i+n <= len(m.Raw); i++ {
		if strings.EqualFold(m.Raw[i:i+n], keyword) {
			return Span{Offset: i, Length: n}, true
		}
	}
	return Span{}, false
}

// SegmentAt returns the segment whose line contains the byte offset
func (m *Message) SegmentAt(offset int) (*Segment, bool) {
	for _, seg := range m.Segments {
		info := m.nodes[NodeKey{SegmentID: seg.ID, Occurrence: seg.Occurrence}]
		if offset >= info.Offset && offset < info.Offset+len(info.Line) {
			return seg, true
		}
	}
	return nil, false
}
