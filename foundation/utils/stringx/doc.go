// File: doc.go
// Title: String Utilities Package Documentation
// Description: Package documentation for stringx.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-10-02
//
// Change History:
// - 2025-01-24 v0.1.0: Initial documentation
// - 2025-10-02 v0.2.0: Trimmed to the helpers still in use

/*
Package stringx provides small string helpers on top of the strings package.

All functions are Unicode aware where lengths are concerned (Truncate and
PadRight count runes) and never panic on empty input.

	stringx.IsBlank("  \t")                  // true
	stringx.IndexNth("PID|a|b", "|", 2)      // 5
	stringx.NormalizeLineEndings(s, "\r")    // HL7 segment separators
	stringx.Truncate("long text", 6, "...")  // "lon..."
*/
package stringx
