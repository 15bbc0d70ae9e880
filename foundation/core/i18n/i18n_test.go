// File: i18n_test.go
// Title: Internationalization Module Tests
// Description: Tests for TOML/YAML loading, translation templates,
//              pluralization, fallback and locale detection.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2025-10-02
//
// Change History:
// - 2025-01-25 v0.1.0: Initial test implementation
// - 2025-10-02 v0.2.0: fstest based fixtures

package i18n

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	mdwerror "github.com/msto63/hl7view/foundation/core/error"
)

const enTOML = `
[messages]
welcome = "Welcome"
greeting = "Hello {{.Name}}"
english_only = "Only in English"

[mapping]
learned = ["Learned {{.Count}} mapping.", "Learned {{.Count}} mappings."]
`

const deYAML = `
messages:
  welcome: Willkommen
  greeting: "Hallo {{.Name}}"
mapping:
  learned:
    - "{{.Count}} Zuordnung gelernt."
    - "{{.Count}} Zuordnungen gelernt."
`

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"locales/en.toml":  {Data: []byte(enTOML)},
		"locales/de.yaml":  {Data: []byte(deYAML)},
		"locales/notes.md": {Data: []byte("ignored")},
	}
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := New(Options{DefaultLocale: "en", FS: testFS(), Dir: "locales"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return m
}

func TestNew(t *testing.T) {
	m := newTestManager(t)

	if got := m.GetDefaultLocale(); got != "en" {
		t.Errorf("GetDefaultLocale() = %q, want en", got)
	}
	if got := m.GetCurrentLocale(); got != "en" {
		t.Errorf("GetCurrentLocale() = %q, want en", got)
	}

	locales := m.GetAvailableLocales()
	if len(locales) != 2 || locales[0] != "de" || locales[1] != "en" {
		t.Errorf("GetAvailableLocales() = %v, want [de en]", locales)
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name    string
		options Options
		code    mdwerror.Code
	}{
		{"blank default locale", Options{FS: testFS(), Dir: "locales"}, mdwerror.CodeInvalidInput},
		{"missing directory", Options{DefaultLocale: "en", FS: testFS(), Dir: "nope"}, mdwerror.CodeNotFound},
		{"default locale missing", Options{DefaultLocale: "fr", FS: testFS(), Dir: "locales"}, mdwerror.CodeUnknownLocale},
		{"broken file", Options{DefaultLocale: "en", FS: fstest.MapFS{"l/en.toml": {Data: []byte("[[[")}}, Dir: "l"}, mdwerror.CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.options)
			if err == nil {
				t.Fatal("New() expected error")
			}
			if !mdwerror.HasCode(err, tt.code) {
				t.Errorf("New() error code = %v, want %v", mdwerror.GetCode(err), tt.code)
			}
		})
	}
}

func TestNewFromDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "en.toml"), []byte(enTOML), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	m, err := New(Options{DefaultLocale: "en", Dir: dir, Format: FormatTOML})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := m.T("messages.welcome"); got != "Welcome" {
		t.Errorf("T() = %q, want Welcome", got)
	}
}

func TestFormatFilter(t *testing.T) {
	_, err := New(Options{DefaultLocale: "de", FS: testFS(), Dir: "locales", Format: FormatTOML})
	if !mdwerror.HasCode(err, mdwerror.CodeUnknownLocale) {
		t.Errorf("TOML-only manager should not load de.yaml, error = %v", err)
	}
}

func TestT(t *testing.T) {
	m := newTestManager(t)

	tests := []struct {
		locale string
		key    string
		data   map[string]interface{}
		want   string
	}{
		{"en", "messages.welcome", nil, "Welcome"},
		{"en", "messages.greeting", map[string]interface{}{"Name": "Ada"}, "Hello Ada"},
		{"de", "messages.welcome", nil, "Willkommen"},
		{"de", "messages.greeting", map[string]interface{}{"Name": "Ada"}, "Hallo Ada"},
		{"de", "messages.english_only", nil, "Only in English"},
		{"en", "messages.missing", nil, "[messages.missing]"},
		{"en", "messages", nil, "[messages]"},
	}

	for _, tt := range tests {
		t.Run(tt.locale+"/"+tt.key, func(t *testing.T) {
			if err := m.SetLocale(tt.locale); err != nil {
				t.Fatalf("SetLocale(%q) error = %v", tt.locale, err)
			}
			if got := m.T(tt.key, tt.data); got != tt.want {
				t.Errorf("T(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestNoFallback(t *testing.T) {
	m, err := New(Options{DefaultLocale: "en", FS: testFS(), Dir: "locales", NoFallback: true})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	_ = m.SetLocale("de")
	if m.HasTranslation("messages.english_only") {
		t.Error("HasTranslation() should not fall back when disabled")
	}
}

func TestTWithFallback(t *testing.T) {
	m := newTestManager(t)

	if got := m.TWithFallback("messages.welcome", "fallback"); got != "Welcome" {
		t.Errorf("TWithFallback(existing) = %q", got)
	}
	got := m.TWithFallback("messages.none", "Hi {{.Name}}", map[string]interface{}{"Name": "Bo"})
	if got != "Hi Bo" {
		t.Errorf("TWithFallback(missing) = %q, want Hi Bo", got)
	}
}

func TestPlural(t *testing.T) {
	m := newTestManager(t)

	tests := []struct {
		locale string
		count  int
		want   string
	}{
		{"en", 1, "Learned 1 mapping."},
		{"en", 3, "Learned 3 mappings."},
		{"en", 0, "Learned 0 mappings."},
		{"de", 1, "1 Zuordnung gelernt."},
		{"de", 2, "2 Zuordnungen gelernt."},
	}

	for _, tt := range tests {
		_ = m.SetLocale(tt.locale)
		got := m.Plural("mapping.learned", tt.count, map[string]interface{}{"Count": tt.count})
		if got != tt.want {
			t.Errorf("Plural(%s, %d) = %q, want %q", tt.locale, tt.count, got, tt.want)
		}
	}

	if got := m.Plural("mapping.none", 2, nil); got != "[mapping.none]" {
		t.Errorf("Plural(missing) = %q", got)
	}
}

func TestSetLocaleUnknown(t *testing.T) {
	m := newTestManager(t)
	err := m.SetLocale("fr")
	if !mdwerror.HasCode(err, mdwerror.CodeUnknownLocale) {
		t.Errorf("SetLocale(fr) error = %v, want %s", err, mdwerror.CodeUnknownLocale)
	}
	if m.GetCurrentLocale() != "en" {
		t.Error("failed SetLocale should keep the current locale")
	}
}

func TestGetTranslationKeys(t *testing.T) {
	m := newTestManager(t)
	keys := m.GetTranslationKeys()
	want := []string{"mapping.learned", "messages.english_only", "messages.greeting", "messages.welcome"}
	if len(keys) != len(want) {
		t.Fatalf("GetTranslationKeys() = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestMatchLocale(t *testing.T) {
	m := newTestManager(t)

	tests := []struct {
		tag  string
		want string
	}{
		{"de_DE.UTF-8", "de"},
		{"de-AT", "de"},
		{"EN", "en"},
		{"fr_FR", "en"},
		{"", "en"},
	}

	for _, tt := range tests {
		if got := m.MatchLocale(tt.tag); got != tt.want {
			t.Errorf("MatchLocale(%q) = %q, want %q", tt.tag, got, tt.want)
		}
	}
}

func TestSystemLocale(t *testing.T) {
	env := map[string]string{"LC_ALL": "C", "LANG": "de_DE.UTF-8"}
	got := systemLocale(func(k string) string { return env[k] })
	if got != "de_DE.UTF-8" {
		t.Errorf("systemLocale() = %q, want de_DE.UTF-8", got)
	}

	if got := systemLocale(func(string) string { return "" }); got != "" {
		t.Errorf("systemLocale(empty) = %q", got)
	}
}

func TestNormalizeLocale(t *testing.T) {
	tests := map[string]string{
		"de_DE.UTF-8":  "de-DE",
		"en-us":        "en-US",
		"DE":           "de",
		"sr_RS@latin":  "sr-RS",
		" en_GB.utf8 ": "en-GB",
	}
	for in, want := range tests {
		if got := NormalizeLocale(in); got != want {
			t.Errorf("NormalizeLocale(%q) = %q, want %q", in, got, want)
		}
	}
}
