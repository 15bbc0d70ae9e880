// Package resolve answers "what is the value of this symbolic name" for a
// decoded message: a mapped path wins when it yields a value, otherwise
// the caller's fallback path is used.
package resolve

import (
	"github.com/msto63/hl7view/internal/hl7/mapping"
	"github.com/msto63/hl7view/internal/hl7/message"
	"github.com/msto63/hl7view/internal/hl7/terser"
	"github.com/msto63/hl7view/pkg/core/logging"
)

// Source tells which path produced a traced value
type Source string

const (
	SourceMapped   Source = "mapped"
	SourceFallback Source = "fallback"
	SourceNone     Source = "none"
)

// Trace records how a name was resolved
type Trace struct {
	Name       string        `json:"name" yaml:"name"`
	MappedPath string        `json:"mapped_path,omitempty" yaml:"mapped_path,omitempty"`
	Mapped     terser.Result `json:"-" yaml:"-"`
	Fallback   string        `json:"fallback" yaml:"fallback"`
	Result     terser.Result `json:"-" yaml:"-"`
	Source     Source        `json:"source" yaml:"source"`
	Value      string        `json:"value" yaml:"value"`
}

// Resolver resolves names against one message and one table
type Resolver struct {
	msg    *message.Message
	table  *mapping.Table
	logger *logging.Logger
}

// New creates a resolver. A nil table means no mappings.
func New(msg *message.Message, table *mapping.Table) *Resolver {
	return &Resolver{msg: msg, table: table, logger: logging.NewNop()}
}

// WithLogger sets a logger that traces malformed paths
func (r *Resolver) WithLogger(l *logging.Logger) *Resolver {
	if l != nil {
		r.logger = l
	}
	return r
}

// Resolve is New(msg, table).Mapped(name, fallback)
func Resolve(name, fallback string, msg *message.Message, table *mapping.Table) string {
	return New(msg, table).Mapped(name, fallback)
}

// Get reads a path directly, "" when absent or malformed
func (r *Resolver) Get(path string) string {
	res := terser.Get(r.msg, path)
	r.logMalformed("", path, res)
	return res.Value
}

// Mapped returns the value of the path mapped to name when that value is
// non-empty, otherwise the value of fallback
func (r *Resolver) Mapped(name, fallback string) string {
	return r.Trace(name, fallback).Value
}

// Trace resolves like Mapped and reports which path was used
func (r *Resolver) Trace(name, fallback string) Trace {
	tr := Trace{Name: name, Fallback: fallback, Source: SourceNone}

	if path, ok := r.table.Lookup(name); ok {
		tr.MappedPath = path
		tr.Mapped = terser.Get(r.msg, path)
		r.logMalformed(name, path, tr.Mapped)
		if tr.Mapped.Found() {
			tr.Source, tr.Value = SourceMapped, tr.Mapped.Value
			return tr
		}
	}

	tr.Result = terser.Get(r.msg, fallback)
	r.logMalformed(name, fallback, tr.Result)
	if tr.Result.Found() {
		tr.Source, tr.Value = SourceFallback, tr.Result.Value
	}
	return tr
}

func (r *Resolver) logMalformed(name, path string, res terser.Result) {
	if res.Outcome != terser.Malformed {
		return
	}
	r.logger.Debug("path could not be parsed", "name", name, "path", path, "error", res.Err)
}
