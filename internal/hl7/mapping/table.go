// ============================================================================
// hl7view - HL7 v2 Message Inspector
// ============================================================================
//
// Package:     mapping
// Description: Symbolic name to path tables learned from mapping files,
//              with an atomic store and a hot-reloading file watcher
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package mapping

import (
	"strings"
)

// Entry binds a symbolic name to a path expression
type Entry struct {
	Name string `json:"name" yaml:"name"`
	Path string `json:"path" yaml:"path"`
	// Line is the 1-based line of the binding that won
	Line int `json:"line" yaml:"line"`
}

// Table is an immutable, case-insensitive name to path table. The zero
// value and a nil *Table are empty tables.
type Table struct {
	entries []Entry
	index   map[string]int
}

// Empty returns a table without entries
func Empty() *Table {
	return &Table{index: map[string]int{}}
}

// NewTable builds a table from entries; later duplicates replace earlier
// ones but keep the first position
func NewTable(entries ...Entry) *Table {
	t := Empty()
	for _, e := range entries {
		t.set(e)
	}
	return t
}

func (t *Table) set(e Entry) {
	key := strings.ToLower(e.Name)
	if i, ok := t.index[key]; ok {
		t.entries[i] = e
		return
	}
	t.index[key] = len(t.entries)
	t.entries = append(t.entries, e)
}

// Lookup returns the path bound to name, ignoring case
func (t *Table) Lookup(name string) (string, bool) {
	e, ok := t.Entry(name)
	return e.Path, ok
}

// Entry returns the full binding for name, ignoring case
func (t *Table) Entry(name string) (Entry, bool) {
	if t == nil || name == "" {
		return Entry{}, false
	}
	i, ok := t.index[strings.ToLower(name)]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

// Len returns the number of bindings
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entries returns the bindings in order of first appearance
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Names returns the bound names as written in the source
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, len(t.entries))
	for i, e := range t.entries {
		names[i] = e.Name
	}
	return names
}
