// File: i18n.go
// Title: Core Internationalization Implementation
// Description: Implements the i18n Manager: loading TOML and YAML language
//              files from an fs.FS, template interpolation, pluralization
//              and locale switching.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2025-10-02
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation with TOML/YAML support
// - 2025-07-26 v0.1.1: Fixed template cache collision issue in pluralization
// - 2025-10-02 v0.2.0: Load from fs.FS, removed polling watcher and tracing ids

package i18n

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"text/template"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/hl7view/foundation/core/error"
	mdwstringx "github.com/msto63/hl7view/foundation/utils/stringx"
)

// Format represents the language file format
type Format int

const (
	// FormatAuto accepts TOML and YAML files
	FormatAuto Format = iota

	// FormatTOML accepts only .toml files
	FormatTOML

	// FormatYAML accepts only .yaml and .yml files
	FormatYAML
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	case FormatAuto:
		return "auto"
	default:
		return "unknown"
	}
}

func (f Format) extensions() []string {
	switch f {
	case FormatTOML:
		return []string{".toml"}
	case FormatYAML:
		return []string{".yaml", ".yml"}
	default:
		return []string{".toml", ".yaml", ".yml"}
	}
}

// Options defines configuration options for the i18n manager
type Options struct {
	DefaultLocale string // Default locale (e.g., "en")
	FS            fs.FS  // Source of language files; os.DirFS(Dir) when nil
	Dir           string // Directory within FS containing language files
	Format        Format // Accepted file formats
	NoFallback    bool   // Disable fallback to the default locale
}

// TranslationData represents the structure of a translation file
type TranslationData map[string]interface{}

// Manager manages translations for an application
type Manager struct {
	mu            sync.RWMutex
	defaultLocale string
	currentLocale string
	fallback      bool
	translations  map[string]TranslationData
	templates     map[string]*template.Template
}

// New creates a new i18n manager and loads every language file found
func New(options Options) (*Manager, error) {
	if mdwstringx.IsBlank(options.DefaultLocale) {
		return nil, mdwerror.New("default locale cannot be empty").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("i18n.New")
	}

	fsys := options.FS
	dir := options.Dir
	if fsys == nil {
		if mdwstringx.IsBlank(dir) {
			dir = "./locales"
		}
		fsys = os.DirFS(dir)
		dir = "."
	}
	if mdwstringx.IsBlank(dir) {
		dir = "."
	}

	m := &Manager{
		defaultLocale: options.DefaultLocale,
		currentLocale: options.DefaultLocale,
		fallback:      !options.NoFallback,
		translations:  make(map[string]TranslationData),
		templates:     make(map[string]*template.Template),
	}

	if err := m.loadAll(fsys, dir, options.Format); err != nil {
		return nil, err
	}

	return m, nil
}

// loadAll loads all locale files of the accepted formats in dir
func (m *Manager) loadAll(fsys fs.FS, dir string, format Format) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return mdwerror.Wrap(err, "failed to read locales directory").
			WithCode(mdwerror.CodeNotFound).
			WithOperation("i18n.loadAll").
			WithDetail("directory", dir)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(path.Ext(name))
		if !hasExtension(format.extensions(), ext) {
			continue
		}
		locale := strings.TrimSuffix(name, path.Ext(name))
		if mdwstringx.IsBlank(locale) {
			continue
		}

		data, err := parseFile(fsys, path.Join(dir, name), ext)
		if err != nil {
			return err
		}
		m.translations[locale] = data
	}

	if _, ok := m.translations[m.defaultLocale]; !ok {
		return mdwerror.New("default locale not found").
			WithCode(mdwerror.CodeUnknownLocale).
			WithOperation("i18n.loadAll").
			WithDetail("locale", m.defaultLocale)
	}
	return nil
}

func hasExtension(accepted []string, ext string) bool {
	for _, a := range accepted {
		if a == ext {
			return true
		}
	}
	return false
}

func parseFile(fsys fs.FS, name, ext string) (TranslationData, error) {
	content, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to read locale file").
			WithCode(mdwerror.CodeIOError).
			WithOperation("i18n.parseFile").
			WithDetail("file", name)
	}

	data := make(TranslationData)
	if ext == ".toml" {
		err = toml.Unmarshal(content, &data)
	} else {
		err = yaml.Unmarshal(content, &data)
	}
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to parse locale file").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("i18n.parseFile").
			WithDetail("file", name)
	}
	return data, nil
}

// T translates a key with optional template data. Unknown keys come back
// as "[key]".
func (m *Manager) T(key string, data ...map[string]interface{}) string {
	translation, err := m.TryT(key, data...)
	if err != nil && translation == "" {
		return "[" + key + "]"
	}
	return translation
}

// TryT translates a key and returns an error if translation fails
func (m *Manager) TryT(key string, data ...map[string]interface{}) (string, error) {
	m.mu.RLock()
	translation := m.getTranslation(key, m.currentLocale)
	m.mu.RUnlock()

	if translation == "" {
		return "", mdwerror.New("translation not found").
			WithCode(mdwerror.CodeNotFound).
			WithOperation("i18n.TryT").
			WithDetail("key", key)
	}

	if len(data) > 0 && data[0] != nil {
		rendered, err := m.renderTemplate(key, translation, data[0])
		if err != nil {
			return translation, mdwerror.Wrap(err, "template rendering failed").
				WithCode(mdwerror.CodeInvalidInput).
				WithOperation("i18n.renderTemplate")
		}
		return rendered, nil
	}

	return translation, nil
}

// TWithFallback translates a key with fallback to a default message
func (m *Manager) TWithFallback(key string, fallbackMsg string, data ...map[string]interface{}) string {
	if translation, err := m.TryT(key, data...); err == nil {
		return translation
	}

	if len(data) > 0 && data[0] != nil {
		if rendered, err := m.renderTemplate(key+"_fallback", fallbackMsg, data[0]); err == nil {
			return rendered
		}
	}

	return fallbackMsg
}

// Plural returns the plural form for count, rendered with data
func (m *Manager) Plural(key string, count int, data map[string]interface{}) string {
	m.mu.RLock()
	locale := m.currentLocale
	rawValue := m.getRawValue(key, locale)
	if rawValue == nil && m.fallback {
		locale = m.defaultLocale
		rawValue = m.getRawValue(key, locale)
	}
	m.mu.RUnlock()

	if rawValue == nil {
		return "[" + key + "]"
	}

	forms := parsePluralForms(rawValue)
	index := pluralFormIndex(count, locale)
	if index >= len(forms) {
		index = len(forms) - 1
	}
	selected := forms[index]

	if data != nil {
		if rendered, err := m.renderTemplate(fmt.Sprintf("%s_plural_%d", key, index), selected, data); err == nil {
			return rendered
		}
	}

	return selected
}

// getTranslation retrieves a translation with fallback; caller holds the lock
func (m *Manager) getTranslation(key, locale string) string {
	if value := m.getValue(key, locale); value != "" {
		return value
	}
	if m.fallback && locale != m.defaultLocale {
		return m.getValue(key, m.defaultLocale)
	}
	return ""
}

func (m *Manager) getValue(key, locale string) string {
	raw := m.getRawValue(key, locale)
	if raw == nil {
		return ""
	}
	if arr, ok := raw.([]interface{}); ok {
		if len(arr) > 0 {
			return fmt.Sprintf("%v", arr[0])
		}
		return ""
	}
	if _, ok := asMap(raw); ok {
		return ""
	}
	return fmt.Sprintf("%v", raw)
}

// getRawValue walks dot separated keys; caller holds the lock
func (m *Manager) getRawValue(key, locale string) interface{} {
	current, ok := m.translations[locale]
	if !ok {
		return nil
	}

	keys := strings.Split(key, ".")
	for i, k := range keys {
		value, ok := current[k]
		if !ok {
			return nil
		}
		if i == len(keys)-1 {
			return value
		}
		next, ok := asMap(value)
		if !ok {
			return nil
		}
		current = next
	}
	return nil
}

func asMap(value interface{}) (TranslationData, bool) {
	switch v := value.(type) {
	case map[string]interface{}:
		return v, true
	case TranslationData:
		return v, true
	default:
		return nil, false
	}
}

// renderTemplate renders a translation template with data
func (m *Manager) renderTemplate(key, text string, data map[string]interface{}) (string, error) {
	// Locales share keys, so the text is part of the cache key.
	cacheKey := key + "\x00" + text

	m.mu.Lock()
	tmpl, ok := m.templates[cacheKey]
	if !ok {
		var err error
		tmpl, err = template.New(key).Parse(text)
		if err != nil {
			m.mu.Unlock()
			return text, fmt.Errorf("template compilation failed: %w", err)
		}
		m.templates[cacheKey] = tmpl
	}
	m.mu.Unlock()

	var result strings.Builder
	if err := tmpl.Execute(&result, data); err != nil {
		return text, fmt.Errorf("template execution failed: %w", err)
	}
	return result.String(), nil
}

func parsePluralForms(value interface{}) []string {
	if arr, ok := value.([]interface{}); ok && len(arr) > 0 {
		forms := make([]string, len(arr))
		for i, v := range arr {
			forms[i] = fmt.Sprintf("%v", v)
		}
		return forms
	}
	return []string{fmt.Sprintf("%v", value)}
}

// pluralFormIndex returns the plural form index for a count and locale
func pluralFormIndex(count int, locale string) int {
	switch {
	case strings.HasPrefix(locale, "fr"):
		if count <= 1 {
			return 0
		}
		return 1
	default:
		if count == 1 {
			return 0
		}
		return 1
	}
}

// SetLocale changes the current locale
func (m *Manager) SetLocale(locale string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.translations[locale]; !exists {
		return mdwerror.New("locale not available").
			WithCode(mdwerror.CodeUnknownLocale).
			WithOperation("i18n.SetLocale").
			WithDetail("locale", locale)
	}

	m.currentLocale = locale
	return nil
}

// GetCurrentLocale returns the current active locale
func (m *Manager) GetCurrentLocale() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentLocale
}

// GetDefaultLocale returns the default locale
func (m *Manager) GetDefaultLocale() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultLocale
}

// GetAvailableLocales returns a sorted list of all loaded locales
func (m *Manager) GetAvailableLocales() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	locales := make([]string, 0, len(m.translations))
	for locale := range m.translations {
		locales = append(locales, locale)
	}
	sort.Strings(locales)
	return locales
}

// HasLocale checks if a locale is available
func (m *Manager) HasLocale(locale string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.translations[locale]
	return exists
}

// HasTranslation checks if a key resolves in the current locale or its fallback
func (m *Manager) HasTranslation(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getTranslation(key, m.currentLocale) != ""
}

// GetTranslationKeys returns all leaf keys of the current locale, sorted
func (m *Manager) GetTranslationKeys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	translations := m.translations[m.currentLocale]
	if translations == nil {
		return nil
	}
	keys := collectKeys(translations, "")
	sort.Strings(keys)
	return keys
}

func collectKeys(data TranslationData, prefix string) []string {
	var keys []string
	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}
		if nested, ok := asMap(value); ok {
			keys = append(keys, collectKeys(nested, fullKey)...)
		} else {
			keys = append(keys, fullKey)
		}
	}
	return keys
}

// String provides a readable representation of the manager
func (m *Manager) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fmt.Sprintf("i18n.Manager{defaultLocale: %s, currentLocale: %s, fallback: %t, locales: %d}",
		m.defaultLocale, m.currentLocale, m.fallback, len(m.translations))
}
