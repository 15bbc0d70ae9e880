package export

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/msto63/hl7view/internal/hl7/message"
)

// XMLNamespace is the namespace of the v2 XML encoding
const XMLNamespace = "urn:hl7-org:v2xml"

// XML writes a structural XML document: the root is named after the
// message structure ("RDE_O11"), segments contain SEG.n field elements,
// repetitions repeat the element, and components and subcomponents nest
// as SEG.n.c and SEG.n.c.s. Empty values are omitted. No data types are
// applied.
func XML(m *message.Message) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	root := xml.StartElement{
		Name: xml.Name{Local: rootName(m)},
		Attr: []xml.Attr{{Name: xml.Name{Local: "xmlns"}, Value: XMLNamespace}},
	}
	if err := enc.EncodeToken(root); err != nil {
		return nil, wrap(err, "xml")
	}

	for _, seg := range m.Segments {
		if err := encodeSegment(enc, m.Delimiters, seg); err != nil {
			return nil, wrap(err, "xml")
		}
	}

	if err := enc.EncodeToken(root.End()); err != nil {
		return nil, wrap(err, "xml")
	}
	if err := enc.Flush(); err != nil {
		return nil, wrap(err, "xml")
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func encodeSegment(enc *xml.Encoder, d message.Delimiters, seg *message.Segment) error {
	start := xml.StartElement{Name: xml.Name{Local: seg.ID}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}

	offset := 0
	if seg.ID == "MSH" {
		if err := leaf(enc, "MSH.1", string(d.Field)); err != nil {
			return err
		}
		if err := leaf(enc, "MSH.2", seg.Value(1)); err != nil {
			return err
		}
		offset = 1
	}

	for slot := 1 + offset; slot < len(seg.Fields); slot++ {
		name := fmt.Sprintf("%s.%d", seg.ID, slot+offset)
		for _, rep := range strings.Split(seg.Fields[slot].Value, string(d.Repetition)) {
			if err := encodeField(enc, d, name, rep); err != nil {
				return err
			}
		}
	}

	return enc.EncodeToken(start.End())
}

func encodeField(enc *xml.Encoder, d message.Delimiters, name, value string) error {
	if value == "" {
		return nil
	}
	components := strings.Split(value, string(d.Component))
	if len(components) == 1 && !strings.ContainsRune(value, rune(d.Subcomponent)) {
		return leaf(enc, name, value)
	}

	start := xml.StartElement{Name: xml.Name{Local: name}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for c, comp := range components {
		if comp == "" {
			continue
		}
		compName := fmt.Sprintf("%s.%d", name, c+1)
		subs := strings.Split(comp, string(d.Subcomponent))
		if len(subs) == 1 {
			if err := leaf(enc, compName, comp); err != nil {
				return err
			}
			continue
		}

		compStart := xml.StartElement{Name: xml.Name{Local: compName}}
		if err := enc.EncodeToken(compStart); err != nil {
			return err
		}
		for s, sub := range subs {
			if err := leaf(enc, fmt.Sprintf("%s.%d", compName, s+1), sub); err != nil {
				return err
			}
		}
		if err := enc.EncodeToken(compStart.End()); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

func leaf(enc *xml.Encoder, name, value string) error {
	if value == "" {
		return nil
	}
	return enc.EncodeElement(value, xml.StartElement{Name: xml.Name{Local: name}})
}

// rootName derives the structure name from MSH-9, "HL7Message" without one
func rootName(m *message.Message) string {
	msh, ok := m.Segment("MSH", 1)
	if !ok {
		return "HL7Message"
	}
	f, ok := msh.Field(8)
	if !ok || f.Value == "" {
		return "HL7Message"
	}
	if s := f.Component(3); validXMLName(s) {
		return s
	}
	code, event := f.Component(1), f.Component(2)
	name := code
	if event != "" {
		name += "_" + event
	}
	if !validXMLName(name) {
		return "HL7Message"
	}
	return name
}

func validXMLName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r == '_':
		case i > 0 && (r >= '0' && r <= '9' || r == '.' || r == '-'):
		default:
			return false
		}
	}
	return true
}
