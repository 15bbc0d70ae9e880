package message

import (
	"fmt"
	"strings"
)

// RootLabel is the label of the tree root
const RootLabel = "HL7 Message"

// Node is one entry of the display tree. Segment nodes carry a Key.
type Node struct {
	Label    string   `json:"label" yaml:"label"`
	Key      *NodeKey `json:"key,omitempty" yaml:"key,omitempty"`
	Children []*Node  `json:"children,omitempty" yaml:"children,omitempty"`
}

func (n *Node) add(label string) *Node {
	child := &Node{Label: label}
	n.Children = append(n.Children, child)
	return child
}

// Walk visits n and its descendants depth first with their depth
func (n *Node) Walk(fn func(node *Node, depth int)) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int), depth int) {
	fn(n, depth)
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// BuildTree builds the display tree: one node per segment labelled
// "SEG[n] — preview", field nodes "SEG-f: value" and component and
// subcomponent nodes only where a value splits into more than one part.
// Field numbers follow HL7, so MSH-1 is the field separator.
func BuildTree(m *Message) *Node {
	root := &Node{Label: RootLabel}

	for _, seg := range m.Segments {
		key := NodeKey{SegmentID: seg.ID, Occurrence: seg.Occurrence}
		segNode := root.add(fmt.Sprintf("%s — %s", key, Preview(seg)))
		segNode.Key = &key

		offset := 0
		if seg.ID == "MSH" {
			segNode.add(fmt.Sprintf("MSH-1: %c", m.Delimiters.Field))
			offset = 1
		}

		for slot := 1; slot < len(seg.Fields); slot++ {
			field := seg.Fields[slot]
			num := slot + offset
			fieldNode := segNode.add(fmt.Sprintf("%s-%d: %s", seg.ID, num, field.Value))
			if len(field.Components) < 2 {
				continue
			}
			for c, comp := range field.Components {
				compNode := fieldNode.add(fmt.Sprintf("%s-%d-%d: %s", seg.ID, num, c+1, comp.Value))
				for s, sub := range comp.Subcomponents {
					compNode.add(fmt.Sprintf("%s-%d-%d-%d: %s", seg.ID, num, c+1, s+1, sub))
				}
			}
		}
	}

	return root
}

// Preview summarizes the fields that identify a segment, joined by " | ".
// MSH values are read from raw slots, so slot 8 is MSH-9.
func Preview(seg *Segment) string {
	v := seg.Value
	switch seg.ID {
	case "MSH":
		return join(v(8), v(9), v(10), v(11))
	case "PID":
		// identifier list, name, account number
		return join(v(3), v(5), v(18))
	case "PV1":
		// class, location, admit date
		return join(v(2), v(3), v(44))
	case "ORC":
		return join(v(1), v(9), v(12))
	case "RXE":
		return join(v(3), "Qty="+v(10), v(7))
	case "RXO":
		return v(2)
	default:
		n := len(seg.Fields) - 1
		if n > 3 {
			n = 3
		}
		parts := make([]string, 0, n)
		for i := 1; i <= n; i++ {
			parts = append(parts, v(i))
		}
		return join(parts...)
	}
}

func join(parts ...string) string {
	return strings.Join(parts, " | ")
}
