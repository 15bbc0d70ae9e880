// ============================================================================
// hl7view - HL7 v2 Message Inspector
// ============================================================================
//
// Package:     export
// Description: Renders decoded messages as pipe text, XML, YAML, JSON or
//              an indented tree
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package export

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/hl7view/foundation/core/error"
	"github.com/msto63/hl7view/internal/hl7/mapping"
	"github.com/msto63/hl7view/internal/hl7/message"
)

// Format names an output encoding
type Format string

const (
	FormatTree Format = "tree"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
	FormatPipe Format = "pipe"
)

// Formats lists every supported format
var Formats = []Format{FormatTree, FormatYAML, FormatJSON, FormatXML, FormatPipe}

// ParseFormat resolves a format name, ignoring case
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", mdwerror.Newf("unknown format %q", s).
		WithCode(mdwerror.CodeInvalidInput).
		WithOperation("export.ParseFormat").
		WithDetail("supported", Formats)
}

// Encode renders m in format f
func Encode(m *message.Message, f Format) ([]byte, error) {
	switch f {
	case FormatTree:
		return []byte(Tree(m)), nil
	case FormatYAML:
		return YAML(m)
	case FormatJSON:
		return JSON(m)
	case FormatXML:
		return XML(m)
	case FormatPipe:
		return []byte(Pipe(m)), nil
	default:
		return nil, mdwerror.Newf("unknown format %q", string(f)).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("export.Encode")
	}
}

// Pipe re-encodes the accepted segments, each terminated by "\r". Skipped
// lines are not part of the output.
func Pipe(m *message.Message) string {
	var b strings.Builder
	for _, seg := range m.Segments {
		b.WriteString(seg.Raw)
		b.WriteString(message.SegmentSeparator)
	}
	return b.String()
}

// Tree renders the display tree with two spaces of indentation per level
func Tree(m *message.Message) string {
	var b strings.Builder
	message.BuildTree(m).Walk(func(n *message.Node, depth int) {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(n.Label)
		b.WriteByte('\n')
	})
	return b.String()
}

// YAML dumps the display tree
func YAML(m *message.Message) ([]byte, error) {
	data, err := yaml.Marshal(message.BuildTree(m))
	if err != nil {
		return nil, wrap(err, "yaml")
	}
	return data, nil
}

// JSON dumps the display tree, indented
func JSON(m *message.Message) ([]byte, error) {
	data, err := json.MarshalIndent(message.BuildTree(m), "", "  ")
	if err != nil {
		return nil, wrap(err, "json")
	}
	return append(data, '\n'), nil
}

// mappingFile is the serialized form of a mapping table
type mappingFile struct {
	Count    int             `json:"count" yaml:"count"`
	Mappings []mapping.Entry `json:"mappings" yaml:"mappings"`
}

// Mapping renders a learned table as YAML or JSON
func Mapping(t *mapping.Table, f Format) ([]byte, error) {
	doc := mappingFile{Count: t.Len(), Mappings: t.Entries()}
	if doc.Mappings == nil {
		doc.Mappings = []mapping.Entry{}
	}

	switch f {
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, wrap(err, "json")
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, wrap(err, "yaml")
		}
		return data, nil
	default:
		return nil, mdwerror.New(fmt.Sprintf("mapping tables cannot be rendered as %s", f)).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("export.Mapping")
	}
}

func wrap(err error, format string) error {
	return mdwerror.Wrap(err, "failed to encode "+format).
		WithCode(mdwerror.CodeInternal).
		WithOperation("export.Encode").
		WithDetail("format", format)
}
