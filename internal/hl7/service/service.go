// ============================================================================
// hl7view - HL7 v2 Message Inspector
// ============================================================================
//
// Package:     service
// Description: Inspection session combining decoder, mapping store and
//              report formatter
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	mdwerror "github.com/msto63/hl7view/foundation/core/error"
	"github.com/msto63/hl7view/foundation/core/i18n"
	"github.com/msto63/hl7view/internal/hl7/locales"
	"github.com/msto63/hl7view/internal/hl7/mapping"
	"github.com/msto63/hl7view/internal/hl7/message"
	"github.com/msto63/hl7view/internal/hl7/report"
	"github.com/msto63/hl7view/internal/hl7/resolve"
	"github.com/msto63/hl7view/internal/hl7/terser"
	"github.com/msto63/hl7view/pkg/core/logging"
)

// Feedback describes the outcome of a mapping load
type Feedback struct {
	Count      int    `json:"count" yaml:"count"`
	Generation uint64 `json:"generation" yaml:"generation"`
	Message    string `json:"message" yaml:"message"`
}

// Service is one inspection session. The last decoded message and the
// mapping table survive until replaced or reset.
type Service struct {
	id        string
	logger    *logging.Logger
	decoder   *message.Decoder
	loader    mapping.Loader
	debounce  time.Duration
	store     *mapping.Store
	formatter *report.Formatter
	texts     *i18n.Manager

	mu      sync.RWMutex
	last    *message.Message
	watcher *mapping.Watcher
}

// New creates a session
func New(cfg Config) (*Service, error) {
	texts, err := locales.New(cfg.Locale)
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	logger := cfg.Logger
	if logger == nil {
		logger = logging.New("hl7")
	}
	logger = logger.WithSession(id)

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = mapping.DefaultDebounce
	}

	opts := cfg.Report
	opts.Translator = texts

	s := &Service{
		id:        id,
		logger:    logger,
		decoder:   message.NewDecoder(cfg.Decoder),
		loader:    cfg.Loader,
		debounce:  debounce,
		store:     mapping.NewStore(),
		formatter: report.NewFormatter(cfg.Schema, opts).WithLogger(logger.Named("report")),
		texts:     texts,
	}

	logger.Debug("session started", "locale", texts.GetCurrentLocale())
	return s, nil
}

// SessionID returns the session id
func (s *Service) SessionID() string {
	return s.id
}

// Texts returns the localized text bundle
func (s *Service) Texts() *i18n.Manager {
	return s.texts
}

// Store returns the mapping store
func (s *Service) Store() *mapping.Store {
	return s.store
}

// Decode parses text and keeps it as the current message. A failed decode
// leaves the previous message in place.
func (s *Service) Decode(text string) (*message.Message, error) {
	timer := s.logger.StartTimer("decode")
	m, err := s.decoder.Decode(text)
	if err != nil {
		timer.StopWithError(err)
		return nil, err
	}
	timer.WithField("bytes", len(text)).Stop()

	s.mu.Lock()
	s.last = m
	s.mu.Unlock()

	s.logger.Info("message decoded",
		"segments", len(m.Segments),
		"skipped", m.Skipped,
		"names", strings.Join(m.Names(), ","))
	return m, nil
}

// Message returns the current message
func (s *Service) Message() (*message.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.last == nil {
		return nil, mdwerror.New("no message decoded").
			WithCode(mdwerror.CodeNotFound).
			WithOperation("service.Message")
	}
	return s.last, nil
}

// Mapping returns the current mapping table
func (s *Service) Mapping() *mapping.Table {
	return s.store.Load()
}

// Report formats the current message
func (s *Service) Report() (string, error) {
	m, err := s.Message()
	if err != nil {
		return "", err
	}
	return s.formatter.Format(m, s.store.Load()), nil
}

// Values evaluates the report rows of the current message
func (s *Service) Values() ([]report.Value, error) {
	m, err := s.Message()
	if err != nil {
		return nil, err
	}
	return s.formatter.Values(m, s.store.Load()), nil
}

// LoadMapping learns text and replaces the current table. Learning never
// fails.
func (s *Service) LoadMapping(text string) Feedback {
	t := s.loader.Learn(text)
	gen := s.store.Swap(t)
	s.logger.Info("mapping loaded", "mappings", t.Len(), "generation", gen)
	return Feedback{Count: t.Len(), Generation: gen, Message: locales.MappingFeedback(s.texts, t.Len())}
}

// LoadMappingFile learns a mapping file. On a read failure the current
// table stays and the feedback carries the localized failure text.
func (s *Service) LoadMappingFile(path string) (Feedback, error) {
	t, err := s.loader.LoadFile(path)
	if err != nil {
		s.logger.Warn("mapping load failed", "file", path, "error", err)
		return Feedback{
			Count:      s.store.Load().Len(),
			Generation: s.store.Generation(),
			Message:    locales.MappingFailure(s.texts, err),
		}, err
	}

	gen := s.store.Swap(t)
	s.logger.Info("mapping loaded", "file", path, "mappings", t.Len(), "generation", gen)
	return Feedback{Count: t.Len(), Generation: gen, Message: locales.MappingFeedback(s.texts, t.Len())}, nil
}

// Get reads a path from the current message
func (s *Service) Get(path string) (terser.Result, error) {
	m, err := s.Message()
	if err != nil {
		return terser.Result{}, err
	}
	return terser.Get(m, path), nil
}

// Resolve resolves a symbolic name against the current message and table
func (s *Service) Resolve(name, fallback string) (string, error) {
	tr, err := s.Trace(name, fallback)
	return tr.Value, err
}

// Trace resolves a symbolic name and reports which path was used
func (s *Service) Trace(name, fallback string) (resolve.Trace, error) {
	m, err := s.Message()
	if err != nil {
		return resolve.Trace{}, err
	}
	r := resolve.New(m, s.store.Load()).WithLogger(s.logger.Named("resolve"))
	return r.Trace(name, fallback), nil
}

// Locate returns the span of the n-th segment with the given id in the
// current message text
func (s *Service) Locate(id string, occurrence int) (message.Span, error) {
	m, err := s.Message()
	if err != nil {
		return message.Span{}, err
	}
	key := message.NodeKey{SegmentID: strings.ToUpper(id), Occurrence: occurrence}
	span, ok := m.Locate(key)
	if !ok {
		return message.Span{}, mdwerror.New(s.texts.T(locales.LocateNotFound, map[string]interface{}{"Key": key.String()})).
			WithCode(mdwerror.CodeNotFound).
			WithOperation("service.Locate").
			WithDetail("segment", key.String())
	}
	return span, nil
}

// Search extracts the keyword from line and finds it in the current message
// text. It returns the keyword searched for.
func (s *Service) Search(line string) (string, message.Span, error) {
	m, err := s.Message()
	if err != nil {
		return "", message.Span{}, err
	}
	keyword := report.ExtractKeyword(line)
	span, ok := m.Search(keyword)
	if !ok {
		return keyword, message.Span{}, mdwerror.New(s.texts.T(locales.FindNotFound, map[string]interface{}{"Keyword": keyword})).
			WithCode(mdwerror.CodeNotFound).
			WithOperation("service.Search").
			WithDetail("keyword", keyword)
	}
	return keyword, span, nil
}

// Lint checks the current table against the names the report asks for
func (s *Service) Lint() []mapping.Issue {
	return mapping.Lint(s.store.Load(), s.formatter.Schema().Keys())
}

// LintMessages renders lint issues as localized lines
func (s *Service) LintMessages(issues []mapping.Issue) []string {
	if len(issues) == 0 {
		return []string{s.texts.T(locales.LintClean)}
	}

	lines := make([]string, 0, len(issues))
	for _, is := range issues {
		data := map[string]interface{}{
			"Line":       is.Entry.Line,
			"Name":       is.Entry.Name,
			"Path":       is.Entry.Path,
			"Suggestion": is.Suggestion,
		}
		switch is.Kind {
		case mapping.IssueBadPath:
			lines = append(lines, s.texts.T(locales.LintBadPath, data))
		default:
			line := s.texts.T(locales.LintUnknownName, data)
			if is.Suggestion != "" {
				line += " " + s.texts.T(locales.LintSuggestion, data)
			}
			lines = append(lines, line)
		}
	}
	return lines
}

// WatchMapping loads path now and re-learns it whenever it changes, until
// ctx is cancelled or StopWatching is called. A previous watch is stopped.
func (s *Service) WatchMapping(ctx context.Context, path string, onReload func(Feedback)) (Feedback, error) {
	fb, err := s.LoadMappingFile(path)
	if err != nil {
		return fb, err
	}

	w := mapping.NewWatcher(path, s.store,
		mapping.WithLoader(s.loader),
		mapping.WithDebounce(s.debounce),
		mapping.WithLogger(s.logger.Named("mapping")),
		mapping.OnReload(func(t *mapping.Table, gen uint64) {
			if onReload != nil {
				onReload(Feedback{
					Count:      t.Len(),
					Generation: gen,
					Message:    s.texts.T(locales.MappingReloaded, map[string]interface{}{"Generation": gen}),
				})
			}
		}),
	)
	if err := w.Start(ctx); err != nil {
		return fb, err
	}

	s.mu.Lock()
	prev := s.watcher
	s.watcher = w
	s.mu.Unlock()

	if prev != nil {
		prev.Stop()
	}
	return fb, nil
}

// StopWatching stops the mapping watch, if any
func (s *Service) StopWatching() {
	s.mu.Lock()
	w := s.watcher
	s.watcher = nil
	s.mu.Unlock()

	if w != nil {
		w.Stop()
	}
}

// Reset drops the mapping table so that default paths apply again
func (s *Service) Reset() {
	s.StopWatching()
	gen := s.store.Reset()
	s.logger.Info("mapping reset", "generation", gen)
}

// Close releases the session
func (s *Service) Close() error {
	s.StopWatching()
	return nil
}
