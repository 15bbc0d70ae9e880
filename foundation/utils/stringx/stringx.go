// File: stringx.go
// Title: Core String Utility Functions
// Description: String helpers shared by the parser, the mapping loader and
//              the command line front end: blank checks, line handling,
//              occurrence search, truncation and padding.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-10-02
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core utilities
// - 2025-10-02 v0.2.0: Added IndexNth, NormalizeLineEndings; removed
//                       interning, case conversion and random helpers

package stringx

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsBlank returns true if the string is empty or contains only whitespace.
func IsBlank(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// IsNotBlank is the inverse of IsBlank
func IsNotBlank(s string) bool {
	return !IsBlank(s)
}

// Truncate shortens s to maxLen runes, ending in ellipsis when cut.
// Multi-byte characters are never split.
func Truncate(s string, maxLen int, ellipsis string) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}

	ellipsisLen := utf8.RuneCountInString(ellipsis)
	if ellipsisLen >= maxLen {
		return string([]rune(s)[:maxLen])
	}
	return string([]rune(s)[:maxLen-ellipsisLen]) + ellipsis
}

// PadRight pads s with pad runes up to width runes
func PadRight(s string, width int, pad rune) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(string(pad), width-n)
}

// NormalizeLineEndings converts "\r\n" and "\n" line breaks to target.
// A lone "\r" is kept as a break and also converted.
func NormalizeLineEndings(s, target string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if target == "\n" {
		return s
	}
	return strings.ReplaceAll(s, "\n", target)
}

// IndexNth returns the byte index of the n-th (1-based) occurrence of
// substr in s, or -1. Occurrences do not overlap.
func IndexNth(s, substr string, n int) int {
	if n < 1 || substr == "" {
		return -1
	}
	offset := 0
	for i := 1; ; i++ {
		idx := strings.Index(s[offset:], substr)
		if idx < 0 {
			return -1
		}
		if i == n {
			return offset + idx
		}
		offset += idx + len(substr)
	}
}

// FirstNonBlank returns the first string that is not blank
func FirstNonBlank(values ...string) string {
	for _, s := range values {
		if IsNotBlank(s) {
			return s
		}
	}
	return ""
}
