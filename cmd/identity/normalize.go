package identity

import "strings"

// NormalizeEmail performs case-insensitive canonicalization.
// Uniqueness is defined over the normalized form; documents store the
// normalized value so the unique index enforces the same rule.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeUsername performs case-insensitive canonicalization.
func NormalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
