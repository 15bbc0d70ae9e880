package mapping

import (
	"sync/atomic"
)

// Snapshot is a table together with the generation it was stored under
type Snapshot struct {
	Table      *Table
	Generation uint64
}

// Store holds the current table. Readers always see a complete table;
// writers replace it wholesale.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// NewStore creates a store holding an empty table at generation 0
func NewStore() *Store {
	s := &Store{}
	s.current.Store(&Snapshot{Table: Empty()})
	return s
}

// Load returns the current table, never nil
func (s *Store) Load() *Table {
	return s.Snapshot().Table
}

// Snapshot returns the current table and its generation
func (s *Store) Snapshot() Snapshot {
	if snap := s.current.Load(); snap != nil {
		return *snap
	}
	return Snapshot{Table: Empty()}
}

// Generation returns how many times the table was replaced
func (s *Store) Generation() uint64 {
	return s.Snapshot().Generation
}

// Swap installs t and returns its generation. A nil table is stored as
// an empty one.
func (s *Store) Swap(t *Table) uint64 {
	if t == nil {
		t = Empty()
	}
	for {
		old := s.current.Load()
		var gen uint64 = 1
		if old != nil {
			gen = old.Generation + 1
		}
		if s.current.CompareAndSwap(old, &Snapshot{Table: t, Generation: gen}) {
			return gen
		}
	}
}

// Reset installs an empty table
func (s *Store) Reset() uint64 {
	return s.Swap(nil)
}
