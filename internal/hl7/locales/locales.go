// Package locales embeds the user-facing texts of hl7view
package locales

import (
	"embed"

	"github.com/msto63/hl7view/foundation/core/i18n"
)

//go:embed en.toml de.yaml
var files embed.FS

// Default is the locale used when none is requested
const Default = "en"

// Translation keys
const (
	MappingLearned  = "mapping.learned"
	MappingNone     = "mapping.none"
	MappingFailed   = "mapping.failed"
	MappingReloaded = "mapping.reloaded"

	LintUnknownName = "lint.unknown_name"
	LintSuggestion  = "lint.suggestion"
	LintBadPath     = "lint.bad_path"
	LintClean       = "lint.clean"

	LocateNotFound = "locate.not_found"
	LocateFound    = "locate.found"
	FindNotFound   = "find.not_found"
	FindFound      = "find.found"
	GetSource      = "get.source"
)

// New loads the embedded bundles and switches to locale. An empty locale
// keeps Default; a tag such as "de_DE.UTF-8" is matched to its language.
func New(locale string) (*i18n.Manager, error) {
	m, err := i18n.New(i18n.Options{DefaultLocale: Default, FS: files, Dir: "."})
	if err != nil {
		return nil, err
	}
	if locale == "" {
		return m, nil
	}
	matched := m.MatchLocale(locale)
	want, _ := i18n.SplitLocale(i18n.NormalizeLocale(locale))
	if got, _ := i18n.SplitLocale(matched); got != want {
		// MatchLocale falls back to the default; an explicit request must not
		matched = locale
	}
	if err := m.SetLocale(matched); err != nil {
		return nil, err
	}
	return m, nil
}

// MappingFeedback is the message shown after a mapping load
func MappingFeedback(m *i18n.Manager, count int) string {
	if count == 0 {
		return m.T(MappingNone)
	}
	return m.Plural(MappingLearned, count, map[string]interface{}{"Count": count})
}

// MappingFailure is the message shown when a mapping cannot be loaded
func MappingFailure(m *i18n.Manager, err error) string {
	return m.T(MappingFailed, map[string]interface{}{"Error": err.Error()})
}
