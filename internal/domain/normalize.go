package domain

import (
	"strings"
)

// MaxTaskNameLen keeps "<name>_staging" within PostgreSQL's 63-byte identifier limit.
const MaxTaskNameLen = 55

// SanitizeTaskName reduces a caller-supplied task identifier to the form used
// for table names and registry ids: ASCII letters only, lowercased.
// Everything else (digits, spaces, punctuation, non-ASCII letters) is dropped.
func SanitizeTaskName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
			b.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c + ('a' - 'A'))
		}
	}
	return b.String()
}

// ParseTaskName sanitizes name and rejects results that cannot name a task type.
func ParseTaskName(name string) (string, error) {
	s := SanitizeTaskName(name)
	if s == "" {
		return "", NewValidationError("task", "must contain at least one letter")
	}
	if len(s) > MaxTaskNameLen {
		return "", NewValidationError("task", "max 55 letters")
	}
	return s, nil
}
