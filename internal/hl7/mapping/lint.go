package mapping

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/msto63/hl7view/internal/hl7/terser"
)

// IssueKind classifies a lint finding
type IssueKind string

const (
	// IssueUnknownName marks a binding no consumer asks for
	IssueUnknownName IssueKind = "unknown_name"
	// IssueBadPath marks a binding whose path does not parse
	IssueBadPath IssueKind = "bad_path"
)

// Issue is one lint finding for a binding
type Issue struct {
	Kind  IssueKind `json:"kind" yaml:"kind"`
	Entry Entry     `json:"entry" yaml:"entry"`
	// Suggestion is the closest known name for IssueUnknownName
	Suggestion string `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
	Reason     string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Lint checks every binding of t against the names a consumer knows and
// against the path syntax
func Lint(t *Table, known []string) []Issue {
	knownSet := make(map[string]bool, len(known))
	for _, k := range known {
		knownSet[strings.ToLower(k)] = true
	}

	var issues []Issue
	for _, e := range t.Entries() {
		if _, err := terser.Parse(e.Path); err != nil {
			issues = append(issues, Issue{Kind: IssueBadPath, Entry: e, Reason: err.Error()})
		}
		if len(known) > 0 && !knownSet[strings.ToLower(e.Name)] {
			issues = append(issues, Issue{Kind: IssueUnknownName, Entry: e, Suggestion: Suggest(e.Name, known)})
		}
	}
	return issues
}

// Suggest returns the known name closest to name, or ""
func Suggest(name string, known []string) string {
	if len(known) == 0 || name == "" {
		return ""
	}

	ranks := fuzzy.RankFindFold(name, known)
	if len(ranks) == 0 {
		// a misspelling is rarely a subsequence; retry with the shorter
		// side as the pattern
		for _, k := range known {
			if fuzzy.MatchFold(k, name) {
				ranks = append(ranks, fuzzy.Rank{Source: k, Target: k, Distance: len(name) - len(k)})
			}
		}
	}
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}
