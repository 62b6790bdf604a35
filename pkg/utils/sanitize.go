package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,30}$`)

// EscapeSQLWildcards escapes LIKE wildcard characters in user input
func EscapeSQLWildcards(input string) string {
	input = strings.ReplaceAll(input, "\\", "\\\\")
	input = strings.ReplaceAll(input, "%", "\\%")
	input = strings.ReplaceAll(input, "_", "\\_")
	return input
}

// SanitizeSearchQuery lowercases and wraps a search term for
// `LOWER(col) LIKE ?` matching, which behaves the same on postgres and sqlite.
func SanitizeSearchQuery(input string) string {
	input = strings.ToLower(strings.TrimSpace(input))
	input = TruncateString(input, 100)
	return "%" + EscapeSQLWildcards(input) + "%"
}

func ValidateUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

// TruncateString cuts s to at most maxLen bytes without splitting a rune.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 0 {
		return ""
	}
	for maxLen > 0 && !utf8.RuneStart(s[maxLen]) {
		maxLen--
	}
	return s[:maxLen]
}
