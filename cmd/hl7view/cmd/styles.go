package cmd

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/hl7view/foundation/utils/stringx"
	"github.com/msto63/hl7view/internal/hl7/message"
)

// Colors
var (
	colorPrimary   = lipgloss.Color("#7C3AED")
	colorSecondary = lipgloss.Color("#10B981")
	colorAccent    = lipgloss.Color("#F59E0B")
	colorError     = lipgloss.Color("#EF4444")
	colorMuted     = lipgloss.Color("#6B7280")
)

// Styles
var (
	rootStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	segmentStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSecondary)

	fieldStyle = lipgloss.NewStyle()

	componentStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	highlightStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	feedbackStyle = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Italic(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)
)

func styled() bool {
	return !noColor && stdoutIsTerminal()
}

func render(s lipgloss.Style, text string) string {
	if !styled() {
		return text
	}
	return s.Render(text)
}

func styleError(text string) string {
	if noColor {
		return text
	}
	return errorStyle.Render(text)
}

// renderTree prints the display tree, two spaces per level, segments and
// components in their own colors. Labels longer than width are cut.
func renderTree(m *message.Message, width int) string {
	var b strings.Builder
	message.BuildTree(m).Walk(func(n *message.Node, depth int) {
		style := fieldStyle
		switch {
		case depth == 0:
			style = rootStyle
		case depth == 1:
			style = segmentStyle
		case depth > 2:
			style = componentStyle
		}
		b.WriteString(strings.Repeat("  ", depth))
		label := n.Label
		if width > 0 {
			label = stringx.Truncate(label, width, "...")
		}
		b.WriteString(render(style, label))
		b.WriteByte('\n')
	})
	return b.String()
}

// renderSpan prints the text around a span with the span highlighted
func renderSpan(raw string, span message.Span) string {
	start := strings.LastIndex(raw[:span.Offset], message.SegmentSeparator) + 1
	end := strings.Index(raw[span.End():], message.SegmentSeparator)
	if end < 0 {
		end = len(raw)
	} else {
		end += span.End()
	}
	return raw[start:span.Offset] + render(highlightStyle, raw[span.Offset:span.End()]) + raw[span.End():end]
}
