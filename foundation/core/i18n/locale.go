// File: locale.go
// Title: Locale Detection
// Description: Detects the user's locale from POSIX environment variables
//              and matches it against the loaded locales.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2025-10-02
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation of locale detection
// - 2025-10-02 v0.2.0: Environment based detection replaces Accept-Language

package i18n

import (
	"os"
	"strings"

	"github.com/msto63/hl7view/foundation/utils/stringx"
)

// localeEnvVars are consulted in POSIX precedence order
var localeEnvVars = []string{"LC_ALL", "LC_MESSAGES", "LANG"}

// DetectLocale returns the loaded locale that best matches the environment,
// or the default locale when nothing matches.
func (m *Manager) DetectLocale() string {
	return m.MatchLocale(systemLocale(os.Getenv))
}

// MatchLocale returns the loaded locale matching the given tag. An exact
// match wins over a language-only match ("de-AT" matches "de").
func (m *Manager) MatchLocale(tag string) string {
	if stringx.IsBlank(tag) {
		return m.GetDefaultLocale()
	}

	normalized := NormalizeLocale(tag)
	available := m.GetAvailableLocales()

	for _, locale := range available {
		if NormalizeLocale(locale) == normalized {
			return locale
		}
	}

	language, _ := SplitLocale(normalized)
	for _, locale := range available {
		if l, _ := SplitLocale(NormalizeLocale(locale)); l == language {
			return locale
		}
	}

	return m.GetDefaultLocale()
}

// systemLocale returns the first usable locale from the environment
func systemLocale(getenv func(string) string) string {
	for _, name := range localeEnvVars {
		value := getenv(name)
		if stringx.IsBlank(value) || value == "C" || value == "POSIX" {
			continue
		}
		return value
	}
	return ""
}

// NormalizeLocale converts "de_DE.UTF-8" style values to "de-DE"
func NormalizeLocale(locale string) string {
	locale = strings.TrimSpace(locale)
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	locale = strings.ReplaceAll(locale, "_", "-")

	language, country := SplitLocale(locale)
	if country == "" {
		return strings.ToLower(language)
	}
	return strings.ToLower(language) + "-" + strings.ToUpper(country)
}

// SplitLocale splits a locale into language and country parts
func SplitLocale(locale string) (language, country string) {
	parts := strings.SplitN(strings.ReplaceAll(locale, "_", "-"), "-", 2)
	language = parts[0]
	if len(parts) > 1 {
		country = parts[1]
	}
	return language, country
}
