package core

import "context"

// Request carries everything a responder may need to answer one message.
type Request struct {
	Message   string
	Identity  string
	SessionID string
	Route     Decision
	History   ContextBundle

	// FailedResponder is set only on the escalation path: the name of the
	// responder whose failure triggered the escalation.
	FailedResponder string
}

// Result is a responder's final answer plus optional diagnostic metadata.
type Result struct {
	Text     string
	Metadata map[string]any
}

// Responder is a named unit implementing the uniform respond contract for
// one intent category. Implementations must respect ctx cancellation and
// translate delegated-capability failures into an error return; the
// orchestrator converts any error into the escalation path.
type Responder interface {
	Name() string
	Respond(ctx context.Context, req Request) (Result, error)
}
