// Package responder implements the named units behind each routing target
// (knowledge, support, fallback) plus the escalation responder invoked when
// a selected responder fails. All implement core.Responder; the Set maps
// routing targets onto them.
//
// Responders delegate retrieval and generation to opaque capabilities
// (core.Retriever, model.Completer, AccountAPI) and translate their
// failures into plain error returns; the orchestrator converts those into
// the escalation path.
package responder
