package guardrail

import (
	"strings"
	"unicode/utf8"

	"github.com/convodesk/convodesk/core"
)

// DefaultMaxLength is the default message length ceiling in runes.
const DefaultMaxLength = 2000

// repeatRunLimit is how many identical consecutive runes count as spam.
const repeatRunLimit = 10

// defaultTopics drives the off-topic advisory. Long messages mentioning
// none of these are flagged (but still allowed).
var defaultTopics = []string{
	"payment", "pix", "transfer", "card", "account", "transaction",
	"fee", "limit", "invoice", "refund", "terminal", "tap to pay",
	"help", "support", "status", "blocked", "failed",
}

// defaultRules returns the built-in rule set. Order here is not load
// bearing; the Gate sorts highest severity first at construction.
func defaultRules(maxLength int) []Rule {
	return []Rule{
		{
			ID:       "denylist_topics",
			Category: CategoryDenylist,
			Severity: core.SeverityCritical,
			Reason:   "message contains a disallowed topic",
			Substrings: []string{
				"hack", "fraud", "scam", "steal", "bomb",
				"weapon", "terrorism", "launder", "counterfeit",
			},
		},
		{
			ID:       "instruction_override",
			Category: CategoryOverride,
			Severity: core.SeverityHigh,
			Reason:   "message attempts to override instructions",
			Substrings: []string{
				"ignore previous", "ignore all", "disregard the above",
				"forget everything", "new instructions",
			},
		},
		{
			ID:       "role_reassignment",
			Category: CategoryRole,
			Severity: core.SeverityHigh,
			Reason:   "message attempts to reassign the assistant's role",
			Substrings: []string{
				"you are now", "act as if", "pretend you are", "roleplay as",
			},
		},
		{
			ID:       "context_reset",
			Category: CategoryReset,
			Severity: core.SeverityMedium,
			Reason:   "message attempts to reset or expose the conversation context",
			Substrings: []string{
				"system prompt", "reset the conversation",
				"clear your memory", "start a new persona",
			},
		},
		{
			ID:       "max_length",
			Category: CategoryStructural,
			Severity: core.SeverityMedium,
			Reason:   "message exceeds the length ceiling",
			Match: func(message string) bool {
				return utf8.RuneCountInString(message) > maxLength
			},
		},
		{
			ID:       "char_repetition",
			Category: CategoryStructural,
			Severity: core.SeverityMedium,
			Reason:   "message contains excessive character repetition",
			Match:    hasRepeatedRun,
		},
	}
}

// hasRepeatedRun reports whether any rune repeats repeatRunLimit times in a
// row. Whitespace runs are common in pasted text and do not count.
func hasRepeatedRun(message string) bool {
	var prev rune
	run := 0
	for _, r := range message {
		if r == prev && !isSpace(r) {
			run++
			if run >= repeatRunLimit {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}

func isSpace(r rune) bool {
	return strings.ContainsRune(" \t\r\n", r)
}
