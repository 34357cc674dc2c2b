// Package convodesk provides a high-level façade over the orchestration and
// session services powering a customer-support chat pipeline. Most
// applications interact with this package by:
//  1. Creating a Desk via New() (optionally overriding default in-memory
//     stores and the model completer)
//  2. Calling Handle for each inbound message
//  3. Calling Close on shutdown to stop background session reaping
//
// The façade delegates per-message sequencing to orchestrator.Orchestrator
// while keeping setup ergonomics concise. All defaults are safe for local
// development and testing; production deployments typically supply durable
// store implementations, a real model completer and a structured logger.
package convodesk

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/convodesk/convodesk/config"
	"github.com/convodesk/convodesk/core"
	"github.com/convodesk/convodesk/guardrail"
	"github.com/convodesk/convodesk/history"
	"github.com/convodesk/convodesk/logging"
	"github.com/convodesk/convodesk/model"
	anthropicmodel "github.com/convodesk/convodesk/model/anthropic"
	openaimodel "github.com/convodesk/convodesk/model/openai"
	"github.com/convodesk/convodesk/orchestrator"
	"github.com/convodesk/convodesk/responder"
	"github.com/convodesk/convodesk/retrieval"
	"github.com/convodesk/convodesk/router"
	"github.com/convodesk/convodesk/session"
)

// Options configures a Desk instance.
type Options struct {
	// Config tunes timeouts, limits and thresholds. Nil uses config.Default().
	Config *config.Config

	// Completer is the delegated model capability shared by the router and
	// responders. Nil selects a provider from Config.Model ("mock" or an
	// empty provider yields a model.Mock).
	Completer model.Completer

	// Stores (default to in-memory implementations if not provided).
	SessionStore core.SessionStore
	TurnStore    core.TurnStore

	// KnowledgeBase feeds the knowledge responder; WebRetriever is its
	// optional secondary source. Nil KnowledgeBase yields an empty
	// in-memory retriever.
	KnowledgeBase core.Retriever
	WebRetriever  core.Retriever

	// Accounts backs the support responder. Nil uses the static fixture set.
	Accounts responder.AccountAPI

	// ExtraGuardrailRules extend the built-in screen.
	ExtraGuardrailRules []guardrail.Rule

	// Logger. Nil builds a logging.DeskLogger from Config.Logging; pass
	// logging.NoOpLogger{} to disable logging entirely.
	Logger logging.Logger
}

// Desk is the high-level façade aggregating the orchestrator and its
// supporting services.
type Desk struct {
	opts     Options
	orch     *orchestrator.Orchestrator
	sessions *session.Manager
	reaper   *session.Reaper
}

// New creates a Desk with optional overrides. Any unset service is
// initialized with an in-memory implementation.
func New(optFns ...func(o *Options)) *Desk {
	opts := Options{
		Config:       config.Default(),
		SessionStore: session.NewInMemoryStore(),
		TurnStore:    history.NewInMemoryTurnStore(),
		Accounts:     responder.NewStaticAccounts(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Completer == nil {
		opts.Completer = completerFor(opts.Config.Model)
	}
	if opts.KnowledgeBase == nil {
		opts.KnowledgeBase = retrieval.NewInMemory()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewLogger(&logging.LoggerConfig{
			Level:     logging.ParseLevel(opts.Config.Logging.Level),
			Format:    opts.Config.Logging.Format,
			Component: "convodesk",
		})
	}

	cfg := opts.Config
	logger := opts.Logger

	svc := history.NewService(opts.TurnStore, func(o *history.Options) {
		o.Pairs = cfg.History.Pairs
		o.Logger = logger
	})
	manager := session.NewManager(opts.SessionStore, func(o *session.Options) {
		o.Timeout = cfg.Session.Timeout.Std()
		o.Archiver = svc
		o.Logger = logger
	})
	reaper := session.NewReaper(manager, func(o *session.ReaperOptions) {
		o.Interval = cfg.Session.ReapInterval.Std()
		o.Logger = logger
	})

	gate := guardrail.New(func(o *guardrail.Options) {
		o.MaxLength = cfg.Guardrail.MaxLength
		o.ExtraRules = opts.ExtraGuardrailRules
		o.Logger = logger
	})
	classifier := router.New(opts.Completer, func(o *router.Options) {
		o.ConfidenceFloor = cfg.Router.ConfidenceFloor
		o.Timeout = cfg.Router.Timeout.Std()
		o.Logger = logger
	})

	responders := responder.NewSet(
		responder.NewKnowledge(opts.KnowledgeBase, opts.Completer, func(o *responder.KnowledgeOptions) {
			o.Web = opts.WebRetriever
			o.Logger = logger
		}),
		responder.NewSupport(opts.Accounts, opts.Completer, func(o *responder.SupportOptions) {
			o.Logger = logger
		}),
		responder.NewFallback(opts.Completer, func(o *responder.FallbackOptions) {
			o.Logger = logger
		}),
	)
	escalator := responder.NewEscalator(func(o *responder.EscalatorOptions) {
		o.Logger = logger
	})

	orch := orchestrator.New(gate, manager, svc, classifier, responders, escalator, func(o *orchestrator.Options) {
		o.HistoryPairs = cfg.History.Pairs
		o.ResponderTimeout = cfg.Responder.Timeout.Std()
		o.Logger = logger
	})

	return &Desk{opts: opts, orch: orch, sessions: manager, reaper: reaper}
}

// completerFor selects a model adapter from provider configuration.
func completerFor(mc config.ModelConfig) model.Completer {
	switch mc.Provider {
	case "anthropic":
		return anthropicmodel.New(func(o *anthropicmodel.Options) {
			if mc.APIKey != "" {
				o.APIKey = mc.APIKey
			}
			if mc.Model != "" {
				o.Model = anthropic.Model(mc.Model)
			}
		})
	case "openai":
		return openaimodel.New(func(o *openaimodel.Options) {
			if mc.Model != "" {
				o.Model = mc.Model
			}
		})
	default:
		return model.NewMock()
	}
}

// Handle processes one inbound message and returns exactly one outcome.
// See orchestrator.Orchestrator.Handle for the outcome contract.
func (d *Desk) Handle(ctx context.Context, message, identity string) (core.Outcome, error) {
	return d.orch.Handle(ctx, message, identity)
}

// EndSession explicitly closes a session, archiving its turns. Ending an
// already-ended or unknown session is a no-op.
func (d *Desk) EndSession(ctx context.Context, sessionID string) error {
	return d.sessions.End(ctx, sessionID)
}

// Reap runs one expiry sweep immediately, independent of the background
// cadence. It returns how many sessions were expired.
func (d *Desk) Reap(ctx context.Context) (int, error) {
	return d.sessions.Reap(ctx)
}

// Start launches the background session reaper.
func (d *Desk) Start(ctx context.Context) { d.reaper.Start(ctx) }

// Close stops the background reaper and waits for it to exit.
func (d *Desk) Close() { d.reaper.Stop() }
