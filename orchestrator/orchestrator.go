// Package orchestrator sequences the fixed pipeline for one inbound chat
// message: guardrail screen, session resolution, history load, intent
// classification, responder dispatch, turn recording. It owns no business
// logic of its own; it decides only ordering, timeouts and how collaborator
// failures map onto outcomes.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/convodesk/convodesk/core"
	"github.com/convodesk/convodesk/guardrail"
	"github.com/convodesk/convodesk/history"
	"github.com/convodesk/convodesk/internal/util"
	"github.com/convodesk/convodesk/logging"
	"github.com/convodesk/convodesk/router"
	"github.com/convodesk/convodesk/session"
)

// DefaultResponderTimeout bounds one responder dispatch before the
// orchestrator gives up and escalates.
const DefaultResponderTimeout = 30 * time.Second

// Gate screens raw input before any other processing happens.
type Gate interface {
	Check(message string) guardrail.Result
}

// Sessions resolves and maintains the conversation session for an identity.
type Sessions interface {
	GetOrCreate(ctx context.Context, identity string) (*core.Session, error)
	Touch(ctx context.Context, sessionID string) (bool, error)
}

// History loads the recent-context bundle and records completed turns.
type History interface {
	Recent(ctx context.Context, sessionID string, pairs int) (core.ContextBundle, error)
	Record(ctx context.Context, identity, sessionID, message, response, responderName string) (*core.Turn, error)
}

// Classifier picks the responder target for a message.
type Classifier interface {
	Classify(ctx context.Context, message string, bundle core.ContextBundle) core.Decision
}

// Responders resolves a routing target to a concrete responder.
type Responders interface {
	Lookup(target core.Route) core.Responder
}

var (
	_ Gate       = (*guardrail.Gate)(nil)
	_ Sessions   = (*session.Manager)(nil)
	_ History    = (*history.Service)(nil)
	_ Classifier = (*router.Router)(nil)
)

// Options configure an Orchestrator.
type Options struct {
	// HistoryPairs is how many recent turn pairs to load per message;
	// zero uses the history service default.
	HistoryPairs int
	// ResponderTimeout bounds one responder dispatch.
	ResponderTimeout time.Duration
	// Logger; nil disables logging.
	Logger logging.Logger
}

// Orchestrator drives the per-message pipeline. It is stateless between
// calls and safe for concurrent use when its collaborators are.
type Orchestrator struct {
	gate       Gate
	sessions   Sessions
	history    History
	classifier Classifier
	responders Responders
	escalator  core.Responder
	pairs      int
	timeout    time.Duration
	logger     logging.Logger
}

// New wires an Orchestrator from its collaborators.
func New(gate Gate, sessions Sessions, hist History, classifier Classifier, responders Responders, escalator core.Responder, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{ResponderTimeout: DefaultResponderTimeout}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Orchestrator{
		gate:       gate,
		sessions:   sessions,
		history:    hist,
		classifier: classifier,
		responders: responders,
		escalator:  escalator,
		pairs:      opts.HistoryPairs,
		timeout:    opts.ResponderTimeout,
		logger:     logging.OrNoOp(opts.Logger),
	}
}

// Handle processes one inbound message end to end and returns exactly one
// outcome. A guardrail rejection returns Blocked before any session or
// history state is touched. A responder failure or timeout is converted
// into an escalation answer, never an error. The error return is reserved
// for infrastructure failures (store errors wrap core.ErrInfrastructure)
// and caller cancellation; no partial turn is recorded on either.
func (o *Orchestrator) Handle(ctx context.Context, message, identity string) (core.Outcome, error) {
	check := o.gate.Check(message)
	if !check.Allowed {
		return core.Blocked{Reason: check.Reason, Severity: check.Severity}, nil
	}

	sess, err := o.sessions.GetOrCreate(ctx, identity)
	if err != nil {
		return nil, err
	}

	bundle, err := o.history.Recent(ctx, sess.ID, o.pairs)
	if err != nil {
		return nil, err
	}

	decision := o.classifier.Classify(ctx, message, bundle)

	req := core.Request{
		Message:   message,
		Identity:  identity,
		SessionID: sess.ID,
		Route:     decision,
		History:   bundle,
	}
	result, responderName, err := o.dispatch(ctx, o.responders.Lookup(decision.Target), req)
	if err != nil {
		return nil, err
	}

	// A turn the caller abandoned mid-flight is dropped, not recorded.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := o.history.Record(ctx, identity, sess.ID, message, result.Text, responderName); err != nil {
		return nil, err
	}
	if touched, err := o.sessions.Touch(ctx, sess.ID); err != nil {
		o.logger.Warn("session touch failed after recording turn session=%s: %v", sess.ID, err)
	} else if !touched {
		o.logger.Warn("session %s no longer active after recording turn", sess.ID)
	}

	o.logger.Info("handled message identity=%s session=%s route=%s responder=%s",
		util.MaskIdentity(identity), sess.ID, decision.Target, responderName)

	return core.Answered{
		Response:   result.Text,
		Responder:  responderName,
		SessionID:  sess.ID,
		Confidence: decision.Confidence,
	}, nil
}

// dispatch runs the selected responder and, on any failure, the escalator
// in its place. The escalator is locally templated and must not fail; if it
// somehow does, the request is an infrastructure failure.
func (o *Orchestrator) dispatch(ctx context.Context, r core.Responder, req core.Request) (core.Result, string, error) {
	result, err := o.respond(ctx, r, req)
	if err == nil {
		return result, r.Name(), nil
	}

	o.logger.Warn("responder %s failed, escalating: %v", r.Name(), err)
	req.FailedResponder = r.Name()
	result, err = o.respond(ctx, o.escalator, req)
	if err != nil {
		return core.Result{}, "", fmt.Errorf("%w: escalation after %s failure: %v", core.ErrInfrastructure, req.FailedResponder, err)
	}
	if dl, ok := o.logger.(*logging.DeskLogger); ok {
		ticketID, _ := result.Metadata["ticket_id"].(string)
		reason, _ := result.Metadata["reason"].(string)
		dl.LogEscalation(ticketID, reason, req.FailedResponder)
	}
	return result, o.escalator.Name(), nil
}

// respond runs one responder under the dispatch timeout. A panic inside a
// responder is contained and reported as its failure.
func (o *Orchestrator) respond(ctx context.Context, r core.Responder, req core.Request) (result core.Result, err error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("responder %s panic: %v", r.Name(), rec)
		}
	}()
	return r.Respond(ctx, req)
}
