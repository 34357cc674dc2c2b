package testutil

import (
	"time"

	"github.com/convodesk/convodesk/core"
)

// SessionBuilder helps construct sessions with fluent chaining for tests.
// Example:
//
//	sess := NewSessionBuilder("sess-1", "user-1").CreatedAt(now).Ended().Build()
type SessionBuilder struct {
	id       string
	identity string
	created  time.Time
	timeout  time.Duration
	ended    bool
}

// NewSessionBuilder creates a builder for a session with the given id and
// identity. Use chainable methods then call Build.
func NewSessionBuilder(id, identity string) *SessionBuilder {
	return &SessionBuilder{
		id:       id,
		identity: identity,
		created:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		timeout:  5 * time.Minute,
	}
}

// CreatedAt sets the creation instant (chainable).
func (b *SessionBuilder) CreatedAt(t time.Time) *SessionBuilder {
	b.created = t
	return b
}

// Timeout sets the inactivity window (chainable).
func (b *SessionBuilder) Timeout(d time.Duration) *SessionBuilder {
	b.timeout = d
	return b
}

// Ended marks the resulting session inactive (chainable).
func (b *SessionBuilder) Ended() *SessionBuilder {
	b.ended = true
	return b
}

// Build returns the configured *core.Session.
func (b *SessionBuilder) Build() *core.Session {
	s := core.NewSession(b.id, b.identity, b.created, b.timeout)
	if b.ended {
		s.End()
	}
	return s
}

// TurnBuilder helps construct completed turns for seeding turn stores.
type TurnBuilder struct {
	turn core.Turn
}

// NewTurnBuilder creates a builder for a turn within the given session.
func NewTurnBuilder(id, sessionID string) *TurnBuilder {
	return &TurnBuilder{turn: core.Turn{
		ID:        id,
		SessionID: sessionID,
		Responder: "knowledge",
		Created:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}}
}

// Identity sets the owning identity (chainable).
func (b *TurnBuilder) Identity(identity string) *TurnBuilder {
	b.turn.Identity = identity
	return b
}

// Exchange sets the message/response pair (chainable).
func (b *TurnBuilder) Exchange(message, response string) *TurnBuilder {
	b.turn.Message = message
	b.turn.Response = response
	return b
}

// Responder sets the answering responder name (chainable).
func (b *TurnBuilder) Responder(name string) *TurnBuilder {
	b.turn.Responder = name
	return b
}

// Archived marks the turn archived (chainable).
func (b *TurnBuilder) Archived() *TurnBuilder {
	b.turn.Archived = true
	return b
}

// Build returns the configured *core.Turn.
func (b *TurnBuilder) Build() *core.Turn {
	t := b.turn
	return &t
}
