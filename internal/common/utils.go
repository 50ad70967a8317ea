package common

import "strings"

// HasAnyPrefix returns the first of prefixes that s starts with, if any.
func HasAnyPrefix(s string, prefixes ...string) (string, bool) {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(s, p) {
			return p, true
		}
	}
	return "", false
}

// TrimAnyPrefix removes the first matching prefix from s.
func TrimAnyPrefix(s string, prefixes ...string) string {
	if p, ok := HasAnyPrefix(s, prefixes...); ok {
		return s[len(p):]
	}
	return s
}

// CutAt returns s up to (not including) the first sep.
func CutAt(s, sep string) string {
	before, _, _ := strings.Cut(s, sep)
	return before
}

// FirstNonEmpty returns the first non-empty value.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
