// Package util provides small shared helpers: id generation and
// log-sanitization of user supplied values.
package util

import (
	"strings"

	"github.com/google/uuid"
)

// NewID generates a unique identifier (UUID string) for sessions and turns.
func NewID() string { return uuid.NewString() }

// Excerpt truncates a message for log output. User messages are untrusted
// and potentially long; logs carry at most max runes plus an ellipsis.
func Excerpt(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// MaskIdentity hides most of an identity string in logs, keeping a short
// prefix for correlation.
func MaskIdentity(identity string) string {
	runes := []rune(identity)
	if len(runes) <= 4 {
		return "****"
	}
	return string(runes[:4]) + "****"
}
