// Package guardrail implements the deterministic input pre-screen that runs
// before any model call. Screening is pure pattern matching over the raw
// message; no delegated capability is involved.
package guardrail

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/convodesk/convodesk/core"
	"github.com/convodesk/convodesk/internal/util"
	"github.com/convodesk/convodesk/logging"
)

// Category groups rules by the kind of input they reject.
type Category string

const (
	// CategoryOverride covers instruction-override attempts.
	CategoryOverride Category = "instruction_override"
	// CategoryRole covers role-reassignment attempts.
	CategoryRole Category = "role_reassignment"
	// CategoryReset covers context-reset attempts.
	CategoryReset Category = "context_reset"
	// CategoryDenylist covers disallowed topics.
	CategoryDenylist Category = "denylist"
	// CategoryStructural covers length and repetition heuristics.
	CategoryStructural Category = "structural"
)

// Rule is one ordered pattern check. A rule matches when any of its
// substrings occurs in the lowercased message, or when Match reports true.
type Rule struct {
	ID         string
	Category   Category
	Severity   core.Severity
	Reason     string
	Substrings []string
	Match      func(message string) bool
}

func (r Rule) matches(lower, original string) bool {
	for _, s := range r.Substrings {
		if strings.Contains(lower, s) {
			return true
		}
	}
	if r.Match != nil {
		return r.Match(original)
	}
	return false
}

// Result is the gate's verdict for one message.
type Result struct {
	Allowed  bool
	Reason   string
	RuleID   string
	Severity core.Severity
}

// Options configure a Gate.
type Options struct {
	// MaxLength is the message length ceiling in runes.
	MaxLength int
	// ExtraRules are appended to the default rule set before ordering.
	ExtraRules []Rule
	// Topics, when non-empty, drives the off-topic advisory: long messages
	// mentioning none of these are allowed but flagged at low severity.
	Topics []string
	// Logger records blocks; nil disables logging.
	Logger logging.Logger
}

// Gate applies an ordered set of pattern rules plus structural heuristics.
// It holds no mutable state and is safe for concurrent use.
//
// Rules are ordered highest severity first at construction and order is
// stable within a severity, so the first matching rule is also the most
// severe match. The gate never returns an error and never panics: any
// internal evaluation failure degrades to "block" (fail closed).
type Gate struct {
	rules     []Rule
	maxLength int
	topics    []string
	logger    logging.Logger
}

// New constructs a Gate with the default rule set plus any overrides.
func New(optFns ...func(o *Options)) *Gate {
	opts := Options{
		MaxLength: DefaultMaxLength,
		Topics:    defaultTopics,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	rules := defaultRules(opts.MaxLength)
	rules = append(rules, opts.ExtraRules...)
	sort.SliceStable(rules, func(i, j int) bool {
		return severityRank(rules[i].Severity) > severityRank(rules[j].Severity)
	})

	return &Gate{
		rules:     rules,
		maxLength: opts.MaxLength,
		topics:    opts.Topics,
		logger:    logging.OrNoOp(opts.Logger),
	}
}

// Check screens a raw message. The first matching rule determines the
// result; no match yields an allowed result with severity none.
func (g *Gate) Check(message string) (res Result) {
	// Fail closed: a panicking rule must block, never allow.
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("guardrail rule evaluation panic: %v", r)
			res = Result{Allowed: false, Reason: "input could not be screened", RuleID: "internal_error", Severity: core.SeverityHigh}
		}
	}()

	if strings.TrimSpace(message) == "" || !utf8.ValidString(message) {
		res = Result{Allowed: false, Reason: "message is empty or not valid text", RuleID: "malformed_input", Severity: core.SeverityHigh}
		g.logBlock(res, message)
		return res
	}

	lower := strings.ToLower(message)
	for _, rule := range g.rules {
		if rule.matches(lower, message) {
			res = Result{Allowed: false, Reason: rule.Reason, RuleID: rule.ID, Severity: rule.Severity}
			g.logBlock(res, message)
			return res
		}
	}

	if advisory := g.offTopic(lower); advisory != "" {
		return Result{Allowed: true, Reason: advisory, Severity: core.SeverityLow}
	}

	return Result{Allowed: true, Severity: core.SeverityNone}
}

// offTopic returns an advisory reason for long messages that mention no
// configured topic. Advisory only: the message still passes.
func (g *Gate) offTopic(lower string) string {
	if len(g.topics) == 0 || utf8.RuneCountInString(lower) <= 100 {
		return ""
	}
	for _, topic := range g.topics {
		if strings.Contains(lower, topic) {
			return ""
		}
	}
	return "message is off-topic but allowed"
}

func (g *Gate) logBlock(res Result, message string) {
	if dl, ok := g.logger.(*logging.DeskLogger); ok {
		dl.LogGuardrailBlock(res.RuleID, string(res.Severity), util.Excerpt(message, 50))
		return
	}
	g.logger.Warn("guardrail blocked message rule_id=%s severity=%s excerpt=%q",
		res.RuleID, res.Severity, util.Excerpt(message, 50))
}

func severityRank(s core.Severity) int {
	switch s {
	case core.SeverityCritical:
		return 4
	case core.SeverityHigh:
		return 3
	case core.SeverityMedium:
		return 2
	case core.SeverityLow:
		return 1
	default:
		return 0
	}
}
