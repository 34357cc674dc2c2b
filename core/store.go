package core

import (
	"context"
	"errors"
	"time"
)

// ErrSessionNotFound is returned by stores when no session matches.
var ErrSessionNotFound = errors.New("session not found")

// ErrInfrastructure marks durable-store (or session subsystem) failures.
// The orchestrator surfaces these to the caller instead of converting them
// to escalation, since no session or history state can be trusted.
var ErrInfrastructure = errors.New("infrastructure unavailable")

// SessionStore persists sessions. Find-then-create is not required to be
// atomic at the store level; session.Manager serializes it per identity.
type SessionStore interface {
	// Create persists a new session.
	Create(ctx context.Context, s *Session) error
	// Get returns the session with the given id or ErrSessionNotFound.
	Get(ctx context.Context, sessionID string) (*Session, error)
	// FindActive returns the session whose active flag is set for identity,
	// or ErrSessionNotFound. Expiry is deliberately not checked here: the
	// caller applies its own expiry check so that an unreaped expired
	// session is still treated as expired.
	FindActive(ctx context.Context, identity string) (*Session, error)
	// Update replaces the stored session (touch, end).
	Update(ctx context.Context, s *Session) error
	// ExpiredBefore returns active-flagged sessions whose expiry is at or
	// before now.
	ExpiredBefore(ctx context.Context, now time.Time) ([]*Session, error)
}

// TurnStore persists conversation turns.
type TurnStore interface {
	// Append adds a new turn.
	Append(ctx context.Context, t *Turn) error
	// RecentBySession returns up to limit most recent non-archived turns for
	// the session, oldest first.
	RecentBySession(ctx context.Context, sessionID string, limit int) ([]*Turn, error)
	// ArchiveSession marks every turn of the session archived and returns
	// how many were affected.
	ArchiveSession(ctx context.Context, sessionID string) (int, error)
}
