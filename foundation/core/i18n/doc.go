// File: doc.go
// Title: Internationalization Package Documentation
// Description: Package documentation for the i18n module.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2025-10-02
//
// Change History:
// - 2025-01-25 v0.1.0: Initial documentation
// - 2025-10-02 v0.2.0: fs.FS based loading, system locale detection

/*
Package i18n provides translation lookup for user-facing text.

Language files are TOML or YAML documents named after their locale
("en.toml", "de.yaml"). They are read from any fs.FS, so locales can be
embedded into the binary or loaded from a directory on disk:

	//go:embed locales
	var files embed.FS

	mgr, err := i18n.New(i18n.Options{
		DefaultLocale: "en",
		FS:            files,
		Dir:           "locales",
	})

Keys use dot notation for nested tables. Values may contain text/template
placeholders:

	mgr.T("mapping.loaded", map[string]interface{}{"Count": 3})

A value given as a list holds plural forms, selected by Plural:

	[mapping]
	learned = ["Learned {{.Count}} mapping.", "Learned {{.Count}} mappings."]

Lookups fall back to the default locale when the current locale does not
define a key. T returns the bracketed key when neither does, TWithFallback
returns a caller supplied text instead.

DetectLocale derives a locale from the LC_ALL, LC_MESSAGES and LANG
environment variables and matches it against the loaded locales.
*/
package i18n
