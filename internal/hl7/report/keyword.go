package report

import (
	"strings"
)

// keywordSegments are checked in this order
var keywordSegments = []string{"RXO", "RXE", "PID", "PV1", "ORC", "MSH"}

// ExtractKeyword picks the text to search for from a tree label or report
// line: the value after the first ':' or '=', else the first well-known
// segment id the line contains, else the trimmed line
func ExtractKeyword(line string) string {
	if i := strings.IndexAny(line, ":="); i >= 0 {
		if v := strings.TrimSpace(line[i+1:]); v != "" {
			// report lines quote their values
			if unquoted := strings.Trim(v, "'"); strings.TrimSpace(unquoted) != "" {
				return unquoted
			}
			return v
		}
	}

	for _, id := range keywordSegments {
		if strings.Contains(line, id) {
			return id
		}
	}

	return strings.TrimSpace(line)
}
