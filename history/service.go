package history

import (
	"context"
	"fmt"
	"time"

	"github.com/convodesk/convodesk/core"
	"github.com/convodesk/convodesk/internal/util"
	"github.com/convodesk/convodesk/logging"
)

// DefaultPairs is the default number of message/response pairs retained per
// request.
const DefaultPairs = 5

// Options configure a Service.
type Options struct {
	// Pairs is the default bundle size in message/response pairs.
	Pairs int
	// Logger; nil disables logging.
	Logger logging.Logger
	// Now injects the clock for tests. Defaults to time.Now.
	Now func() time.Time
}

// Service reads and writes turns against a core.TurnStore. Stateless apart
// from its configuration; safe for concurrent use.
type Service struct {
	store  core.TurnStore
	pairs  int
	logger logging.Logger
	now    func() time.Time
}

// NewService constructs a Service over the given store.
func NewService(store core.TurnStore, optFns ...func(o *Options)) *Service {
	opts := Options{
		Pairs: DefaultPairs,
		Now:   time.Now,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Service{
		store:  store,
		pairs:  opts.Pairs,
		logger: logging.OrNoOp(opts.Logger),
		now:    opts.Now,
	}
}

// Recent returns up to pairs most recent non-archived turns for the
// session as a context bundle, oldest first. pairs <= 0 selects the
// configured default.
func (s *Service) Recent(ctx context.Context, sessionID string, pairs int) (core.ContextBundle, error) {
	if pairs <= 0 {
		pairs = s.pairs
	}
	turns, err := s.store.RecentBySession(ctx, sessionID, pairs)
	if err != nil {
		return core.ContextBundle{}, fmt.Errorf("%w: recent turns: %v", core.ErrInfrastructure, err)
	}

	entries := make([]core.BundleEntry, 0, len(turns)*2)
	for _, t := range turns {
		entries = append(entries,
			core.BundleEntry{Role: "user", Text: t.Message},
			core.BundleEntry{Role: "assistant", Text: t.Response},
		)
	}
	s.logger.Debug("built context bundle session=%s pairs=%d", sessionID, len(turns))
	return core.ContextBundle{Entries: entries}, nil
}

// Record appends a new turn. Called only after a responder has produced a
// final response (including escalation responses); blocked messages are
// never recorded.
func (s *Service) Record(ctx context.Context, identity, sessionID, message, response, responderName string) (*core.Turn, error) {
	turn := &core.Turn{
		ID:        util.NewID(),
		Identity:  identity,
		SessionID: sessionID,
		Message:   message,
		Response:  response,
		Responder: responderName,
		Created:   s.now(),
	}
	if err := s.store.Append(ctx, turn); err != nil {
		return nil, fmt.Errorf("%w: append turn: %v", core.ErrInfrastructure, err)
	}
	s.logger.Debug("recorded turn session=%s responder=%s", sessionID, responderName)
	return turn, nil
}

// Archive marks all turns of the session archived. Invoked when a session
// ends; implements session.Archiver.
func (s *Service) Archive(ctx context.Context, sessionID string) (int, error) {
	count, err := s.store.ArchiveSession(ctx, sessionID)
	if err != nil {
		return 0, fmt.Errorf("%w: archive turns: %v", core.ErrInfrastructure, err)
	}
	return count, nil
}
