package core

import "strings"

// Route identifies the responder a message is dispatched to. The set is
// closed: unknown labels resolve to RouteFallback.
type Route string

const (
	// RouteKnowledge handles product / general information questions.
	RouteKnowledge Route = "knowledge"
	// RouteSupport handles account issues and troubleshooting.
	RouteSupport Route = "support"
	// RouteFallback handles everything else, including degraded classification.
	RouteFallback Route = "fallback"
)

// ParseRoute maps a classification label onto the closed route set. The
// second return reports whether the label was recognized.
func ParseRoute(label string) (Route, bool) {
	switch Route(strings.ToLower(strings.TrimSpace(label))) {
	case RouteKnowledge:
		return RouteKnowledge, true
	case RouteSupport:
		return RouteSupport, true
	case RouteFallback:
		return RouteFallback, true
	default:
		return RouteFallback, false
	}
}

// Decision is the routing result for one message: a target responder plus a
// confidence in [0, 1]. Produced fresh per message, never persisted.
type Decision struct {
	Target     Route   `json:"target"`
	Confidence float64 `json:"confidence"`
}

// FallbackDecision is the zero-confidence decision the router degrades to
// when classification errors, times out or is not confident enough.
func FallbackDecision() Decision {
	return Decision{Target: RouteFallback, Confidence: 0}
}
