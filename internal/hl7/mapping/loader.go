package mapping

import (
	"os"
	"strings"

	mdwerror "github.com/msto63/hl7view/foundation/core/error"
	"github.com/msto63/hl7view/foundation/utils/stringx"
	"github.com/msto63/hl7view/internal/hl7/coerce"
)

// DefaultSection is the block whose bindings are always accepted
const DefaultSection = "Mapping"

// Loader learns tables from mapping text
type Loader struct {
	// Section names the block header, without brackets. Empty means
	// DefaultSection.
	Section string
}

// Learn parses text with the default section
func Learn(text string) *Table {
	return Loader{}.Learn(text)
}

// Learn builds a fresh table from text. Inside the mapping block every
// "key = value" line is a binding; outside it only lines whose value looks
// like a path are. Any other bracketed header ends the block. Learn never
// fails: lines it cannot use are ignored.
func (l Loader) Learn(text string) *Table {
	t := Empty()
	if stringx.IsBlank(text) {
		return t
	}

	header := "[" + l.section() + "]"
	inBlock := false

	for n, raw := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			inBlock = strings.EqualFold(line, header)
			continue
		}

		eq := strings.IndexByte(line, '=')
		if eq <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:eq])
		value := strings.TrimSpace(line[eq+1:])

		if !inBlock && !LooksLikePath(value) {
			continue
		}
		t.set(Entry{Name: key, Path: coerce.StripQuotePair(value), Line: n + 1})
	}

	return t
}

func (l Loader) section() string {
	if l.Section == "" {
		return DefaultSection
	}
	return l.Section
}

// LooksLikePath reports whether v starts with "/" and has a "-" after its
// second character, as in "/MSH-3" or "/PID-5-1"
func LooksLikePath(v string) bool {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "/") || len(v) < 2 {
		return false
	}
	return strings.IndexByte(v[1:], '-') > 0
}

// LoadFile reads and learns a mapping file
func (l Loader) LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to read mapping file").
			WithCode(mdwerror.CodeMappingRead).
			WithOperation("mapping.LoadFile").
			WithDetail("file", path)
	}
	return l.Learn(string(data)), nil
}

// LoadFile reads a mapping file with the default section
func LoadFile(path string) (*Table, error) {
	return Loader{}.LoadFile(path)
}
