package responder

import "github.com/convodesk/convodesk/core"

// Set is a fixed mapping from routing target to responder. Dispatch is a
// plain lookup; unknown targets resolve to the fallback responder so a
// decision always dispatches somewhere.
type Set struct {
	byRoute  map[core.Route]core.Responder
	fallback core.Responder
}

// NewSet builds the responder set. fallback doubles as the RouteFallback
// binding and the resolution for unknown targets.
func NewSet(knowledge, support, fallback core.Responder) *Set {
	return &Set{
		byRoute: map[core.Route]core.Responder{
			core.RouteKnowledge: knowledge,
			core.RouteSupport:   support,
			core.RouteFallback:  fallback,
		},
		fallback: fallback,
	}
}

// Lookup returns the responder bound to the routing target.
func (s *Set) Lookup(target core.Route) core.Responder {
	if r, ok := s.byRoute[target]; ok && r != nil {
		return r
	}
	return s.fallback
}
