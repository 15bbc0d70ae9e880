package message

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mdwerror "github.com/msto63/hl7view/foundation/core/error"
)

const sampleRDE = "MSH|^~\\&|PHARM|GOODHEALTH|RX|DEST|20230615120000||RDE^O11|CTRL123|P|2.5\r" +
	"PID|1||DCTIPU\\F\\1872||Doe^John^Q||19700101|M||||||||||ACC42\r" +
	"PV1|1|I|4E^401^B|||||||MED\r" +
	"ORC|NW|ORD1|||||||20230615000000||1095^Verifier|77^Smith^Ann\r" +
	"RXE|1^BID^^20230615|TAB|11917001338^NICOTINE DIS 21MG/24H||||A1P TD QD|||5|1|2|MG"

func TestDecode_Segments(t *testing.T) {
	m, err := Decode(sampleRDE)
	require.NoError(t, err)

	assert.Equal(t, []string{"MSH", "PID", "PV1", "ORC", "RXE"}, m.Names())
	require.Len(t, m.Segments, 5)

	for _, seg := range m.Segments {
		assert.Equal(t, seg.Raw[:3], seg.ID)
		assert.Equal(t, strings.Count(seg.Raw, "|")+1, len(seg.Fields), "segment %s", seg.ID)
		assert.Equal(t, seg.ID, seg.Fields[0].Value)
	}

	pid, ok := m.Segment("PID", 1)
	require.True(t, ok)
	assert.Equal(t, "Doe^John^Q", pid.Fields[5].Value)
	assert.Equal(t, "John", pid.Fields[5].Component(2))
	assert.Equal(t, "ACC42", pid.Value(18))
}

func TestDecode_FieldWithoutComponentsHasOneComponent(t *testing.T) {
	m, err := Decode("PV1|1|I")
	require.NoError(t, err)

	f := m.Segments[0].Fields[2]
	require.Len(t, f.Components, 1)
	assert.Equal(t, "I", f.Components[0].Value)
	assert.Nil(t, f.Components[0].Subcomponents)
}

func TestDecode_Subcomponents(t *testing.T) {
	m, err := Decode("ZZ1|a&b^c")
	require.NoError(t, err)

	f := m.Segments[0].Fields[1]
	require.Len(t, f.Components, 2)
	assert.Equal(t, []string{"a", "b"}, f.Components[0].Subcomponents)
	assert.Nil(t, f.Components[1].Subcomponents)
	assert.Equal(t, "b", f.Components[0].Subcomponent(2))
	assert.Equal(t, "c", f.Components[1].Subcomponent(1))
	assert.Equal(t, "", f.Components[1].Subcomponent(2))
}

func TestDecode_MSHEncodingCharactersNotDecomposed(t *testing.T) {
	m, err := Decode(sampleRDE)
	require.NoError(t, err)

	msh := m.Segments[0]
	assert.Equal(t, `^~\&`, msh.Fields[1].Value)
	require.Len(t, msh.Fields[1].Components, 1)
	assert.Nil(t, msh.Fields[1].Components[0].Subcomponents)
}

func TestDecode_LineEndings(t *testing.T) {
	for name, sep := range map[string]string{"CR": "\r", "LF": "\n", "CRLF": "\r\n"} {
		t.Run(name, func(t *testing.T) {
			m, err := Decode("MSH|^~\\&|A" + sep + "PID|1" + sep + sep + "PV1|1" + sep)
			require.NoError(t, err)
			assert.Equal(t, []string{"MSH", "PID", "PV1"}, m.Names())
			assert.NotContains(t, m.Raw, "\n")
		})
	}
}

func TestDecode_MalformedLinesSkipped(t *testing.T) {
	m, err := Decode("garbage\rPI\rPID|1\rABCD|x\rPID^2")
	require.NoError(t, err)

	require.Len(t, m.Segments, 1)
	assert.Equal(t, "PID", m.Segments[0].ID)
	assert.Equal(t, 4, m.Skipped)
}

func TestDecode_MalformedHeaderKeepsDelimiters(t *testing.T) {
	m, err := Decode("MSH abcd\rPID|1|X")
	require.NoError(t, err)

	assert.Equal(t, DefaultDelimiters, m.Delimiters)
	assert.Equal(t, []string{"PID"}, m.Names())
	assert.Equal(t, 1, m.Skipped)
	assert.Equal(t, "X", m.Segments[0].Value(2))

	for _, header := range []string{"MSH1^~\\&|A", "MSHx^~\\&|A", "MSH\t^~\\&|A"} {
		m, err = Decode(header + "\rPID|1|X")
		require.NoError(t, err)
		assert.Equal(t, byte('|'), m.Delimiters.Field, "header %q", header)
		assert.Equal(t, []string{"PID"}, m.Names(), "header %q", header)
	}
}

func TestDecode_SegmentIDCountsCharacters(t *testing.T) {
	m, err := Decode("ÄBC|x\rÄB|y\rPI€|z")
	require.NoError(t, err)

	assert.Equal(t, []string{"ÄBC", "PI€"}, m.Names())
	assert.Equal(t, 1, m.Skipped)
	assert.Equal(t, "x", m.Segments[0].Value(1))
	assert.Equal(t, "z", m.Segments[1].Value(1))
}

func TestDecode_NonBlankGarbageStillDecodes(t *testing.T) {
	m, err := Decode("not a message at all")
	require.NoError(t, err)
	assert.Empty(t, m.Segments)
	assert.Empty(t, m.Names())
}

func TestDecode_EmptyInput(t *testing.T) {
	for _, in := range []string{"", "   ", "\r\n\t", "\x0b\x1c\r"} {
		_, err := Decode(in)
		require.Error(t, err, "input %q", in)
		assert.True(t, mdwerror.HasCode(err, mdwerror.CodeEmptyMessage), "input %q", in)
	}
}

func TestDecode_Occurrences(t *testing.T) {
	m, err := Decode("MSH|^~\\&\rOBX|1|A\rNTE|1\rOBX|2|B\rOBX|3|C")
	require.NoError(t, err)

	obx := m.All("OBX")
	require.Len(t, obx, 3)
	for i, seg := range obx {
		assert.Equal(t, i+1, seg.Occurrence)
	}
	assert.Equal(t, 3, m.Count("OBX"))
	assert.Equal(t, 0, m.Count("ZZZ"))

	_, ok := m.Segment("OBX", 4)
	assert.False(t, ok)
	_, ok = m.Segment("OBX", 0)
	assert.False(t, ok)
}

func TestDecode_AllReturnsCopy(t *testing.T) {
	m, err := Decode("PID|1\rPID|2")
	require.NoError(t, err)

	all := m.All("PID")
	all[0] = nil
	assert.NotNil(t, m.All("PID")[0])
}

func TestDecode_DetectsDelimiters(t *testing.T) {
	m, err := Decode("MSH#:*%@#APP#FAC\rPID#1##Doe:John@x")
	require.NoError(t, err)

	assert.Equal(t, Delimiters{Field: '#', Component: ':', Repetition: '*', Escape: '%', Subcomponent: '@'}, m.Delimiters)
	pid := m.Segments[1]
	assert.Equal(t, "Doe:John@x", pid.Fields[3].Value)
	assert.Equal(t, []string{"John", "x"}, pid.Fields[3].Components[1].Subcomponents)
}

func TestDecode_DetectionDisabled(t *testing.T) {
	dec := NewDecoder(Options{Delimiters: DefaultDelimiters})
	m, err := dec.Decode("MSH#^~\\&#APP\rPID|1")
	require.NoError(t, err)

	assert.Equal(t, DefaultDelimiters, m.Delimiters)
	assert.Equal(t, []string{"PID"}, m.Names())
}

func TestDecode_MLLP(t *testing.T) {
	m, err := Decode("\x0bMSH|^~\\&|A\rPID|1\x1c\r")
	require.NoError(t, err)
	assert.Equal(t, []string{"MSH", "PID"}, m.Names())
	assert.Equal(t, "1", m.Segments[1].Value(1))

	raw := NewDecoder(Options{Delimiters: DefaultDelimiters})
	m, err = raw.Decode("\x0bMSH|^~\\&|A")
	require.NoError(t, err)
	assert.Empty(t, m.Segments, "framed header line is not a segment without stripping")
}

func TestNewDecoder_InvalidDelimitersFallBack(t *testing.T) {
	dec := NewDecoder(Options{Delimiters: Delimiters{Field: '|'}})
	assert.Equal(t, DefaultDelimiters, dec.Options().Delimiters)
}

func TestStripMLLP(t *testing.T) {
	tests := map[string]string{
		"\x0bABC\x1c\r": "ABC",
		"\x0bABC\x1c":   "ABC",
		"ABC":           "ABC",
		"\x0b":          "",
		"":              "",
	}
	for in, want := range tests {
		assert.Equal(t, want, StripMLLP(in), "input %q", in)
	}
}

func TestDelimiters(t *testing.T) {
	assert.Equal(t, `^~\&`, DefaultDelimiters.EncodingCharacters())
	assert.NoError(t, DefaultDelimiters.Validate())
	assert.Error(t, Delimiters{'|', '^', '^', '\\', '&'}.Validate())

	d := FromStrings("#", "", "**", ":", "@")
	assert.Equal(t, Delimiters{Field: '#', Component: '^', Repetition: '~', Escape: ':', Subcomponent: '@'}, d)
}

func TestLocate(t *testing.T) {
	raw := "MSH|^~\\&\rOBX|1\rNTE|x\rOBX|1"
	m, err := Decode(raw)
	require.NoError(t, err)

	span, ok := m.Locate(NodeKey{SegmentID: "OBX", Occurrence: 1})
	require.True(t, ok)
	assert.Equal(t, Span{Offset: 9, Length: 5}, span)

	span, ok = m.Locate(NodeKey{SegmentID: "OBX", Occurrence: 2})
	require.True(t, ok)
	assert.Equal(t, "OBX|1", m.Raw[span.Offset:span.End()])
	assert.Equal(t, 21, span.Offset)

	_, ok = m.Locate(NodeKey{SegmentID: "OBX", Occurrence: 3})
	assert.False(t, ok)

	info, ok := m.Node(NodeKey{SegmentID: "NTE", Occurrence: 1})
	require.True(t, ok)
	assert.Equal(t, "NTE|x", info.Line)
	assert.Equal(t, 2, info.Position)
	assert.Equal(t, 15, info.Offset)
}

func TestLocate_DistinctRepeats(t *testing.T) {
	m, err := Decode("MSH|^~\\&|A\rOBX|1|NM|A\rOBX|2|NM|B")
	require.NoError(t, err)

	span, ok := m.Locate(NodeKey{SegmentID: "OBX", Occurrence: 2})
	require.True(t, ok)
	assert.Equal(t, "OBX|2|NM|B", m.Raw[span.Offset:span.End()])
	assert.Equal(t, 22, span.Offset)

	span, ok = m.Locate(NodeKey{SegmentID: "OBX", Occurrence: 1})
	require.True(t, ok)
	assert.Equal(t, "OBX|1|NM|A", m.Raw[span.Offset:span.End()])
}

func TestIndexNth(t *testing.T) {
	assert.Equal(t, 0, IndexNth("abab", "ab", 1))
	assert.Equal(t, 2, IndexNth("abab", "ab", 2))
	assert.Equal(t, -1, IndexNth("abab", "ab", 3))
	assert.Equal(t, -1, IndexNth("abab", "", 1))
	assert.Equal(t, -1, IndexNth("abab", "ab", 0))
}

func TestSearch(t *testing.T) {
	m, err := Decode(sampleRDE)
	require.NoError(t, err)

	span, ok := m.Search("nicotine")
	require.True(t, ok)
	assert.Equal(t, "NICOTINE", m.Raw[span.Offset:span.End()])

	seg, ok := m.SegmentAt(span.Offset)
	require.True(t, ok)
	assert.Equal(t, "RXE", seg.ID)

	_, ok = m.Search("  ")
	assert.False(t, ok)
	_, ok = m.Search("absent-value")
	assert.False(t, ok)
}

func TestPreview(t *testing.T) {
	m, err := Decode(sampleRDE)
	require.NoError(t, err)

	tests := map[string]string{
		"MSH": "RDE^O11 | CTRL123 | P | 2.5",
		"PID": "DCTIPU\\F\\1872 | Doe^John^Q | ACC42",
		"PV1": "I | 4E^401^B | ",
		"ORC": "NW | 20230615000000 | 77^Smith^Ann",
		"RXE": "11917001338^NICOTINE DIS 21MG/24H | Qty=5 | A1P TD QD",
	}
	for id, want := range tests {
		seg, ok := m.Segment(id, 1)
		require.True(t, ok)
		assert.Equal(t, want, Preview(seg), "segment %s", id)
	}

	other, err := Decode("ZZ1|a|b|c|d\rZZ2|only")
	require.NoError(t, err)
	assert.Equal(t, "a | b | c", Preview(other.Segments[0]))
	assert.Equal(t, "only", Preview(other.Segments[1]))
}

func TestBuildTree(t *testing.T) {
	m, err := Decode("MSH|^~\\&|APP\rPID|1||a&b^c")
	require.NoError(t, err)

	mshKey := NodeKey{SegmentID: "MSH", Occurrence: 1}
	pidKey := NodeKey{SegmentID: "PID", Occurrence: 1}
	want := &Node{
		Label: RootLabel,
		Children: []*Node{
			{
				Label: "MSH[1] — " + Preview(m.Segments[0]),
				Key:   &mshKey,
				Children: []*Node{
					{Label: "MSH-1: |"},
					{Label: "MSH-2: ^~\\&"},
					{Label: "MSH-3: APP"},
				},
			},
			{
				Label: "PID[1] — a&b^c |  | ",
				Key:   &pidKey,
				Children: []*Node{
					{Label: "PID-1: 1"},
					{Label: "PID-2: "},
					{
						Label: "PID-3: a&b^c",
						Children: []*Node{
							{
								Label: "PID-3-1: a&b",
								Children: []*Node{
									{Label: "PID-3-1-1: a"},
									{Label: "PID-3-1-2: b"},
								},
							},
							{Label: "PID-3-2: c"},
						},
					},
				},
			},
		},
	}

	if diff := cmp.Diff(want, BuildTree(m)); diff != "" {
		t.Errorf("BuildTree() mismatch (-want +got):\n%s", diff)
	}
}

func TestNodeWalk(t *testing.T) {
	m, err := Decode("PID|1|x")
	require.NoError(t, err)

	var labels []string
	var maxDepth int
	BuildTree(m).Walk(func(n *Node, depth int) {
		labels = append(labels, n.Label)
		if depth > maxDepth {
			maxDepth = depth
		}
	})
	assert.Equal(t, []string{RootLabel, "PID[1] —  |  | ", "PID-1: 1", "PID-2: x"}, labels)
	assert.Equal(t, 2, maxDepth)
}
