package responder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/convodesk/convodesk/core"
	"github.com/convodesk/convodesk/internal/util"
	"github.com/convodesk/convodesk/logging"
)

// EscalationName is the responder name recorded when the escalator answers
// in place of a failed responder.
const EscalationName = "escalation"

// escalationReasons maps machine reasons to the human descriptions attached
// to a ticket.
var escalationReasons = map[string]string{
	"technical_failure": "Technical failure in automated systems",
	"complex_issue":     "Issue requires human expertise",
	"blocked_account":   "Account blocked - requires manual review",
}

// EscalatorOptions configure an Escalator.
type EscalatorOptions struct {
	// Logger; nil disables logging.
	Logger logging.Logger
	// Now injects the clock for tests. Defaults to time.Now.
	Now func() time.Time
}

// Escalator produces the acknowledgment returned when a responder fails or
// times out. The ticket text is generated locally from a template; no
// model call is involved, so an escalation can never itself fail on a
// delegated capability.
type Escalator struct {
	logger logging.Logger
	now    func() time.Time
}

var _ core.Responder = (*Escalator)(nil)

// NewEscalator constructs an Escalator.
func NewEscalator(optFns ...func(o *EscalatorOptions)) *Escalator {
	opts := EscalatorOptions{Now: time.Now}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Escalator{logger: logging.OrNoOp(opts.Logger), now: opts.Now}
}

// Name implements core.Responder.
func (e *Escalator) Name() string { return EscalationName }

// Respond implements core.Responder. req.FailedResponder names the unit
// whose failure triggered the escalation.
func (e *Escalator) Respond(_ context.Context, req core.Request) (core.Result, error) {
	reason := "technical_failure"
	ticketID := e.ticketID(req.Identity)

	e.logger.Warn("escalation to human support ticket=%s identity=%s failed_responder=%s message=%q",
		ticketID, util.MaskIdentity(req.Identity), req.FailedResponder, util.Excerpt(req.Message, 100))

	text := fmt.Sprintf(`I understand your request. To make sure you get the best help, I'm forwarding your case to our specialized support team.

Ticket number: %s
Estimated response time: 1-2 hours

Our team will contact you shortly. Thank you for your patience!`, ticketID)

	return core.Result{
		Text: text,
		Metadata: map[string]any{
			"escalated":        true,
			"ticket_id":        ticketID,
			"reason":           reason,
			"reason_detail":    escalationReasons[reason],
			"failed_responder": req.FailedResponder,
		},
	}, nil
}

// ticketID builds a ticket reference from the timestamp and a short
// identity prefix.
func (e *Escalator) ticketID(identity string) string {
	prefix := identity
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	if prefix == "" {
		prefix = strings.Split(util.NewID(), "-")[0]
	}
	return fmt.Sprintf("SUP-%s-%s", e.now().Format("20060102150405"), prefix)
}
