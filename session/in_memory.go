package session

import (
	"context"
	"sync"
	"time"

	"github.com/convodesk/convodesk/core"
)

// InMemoryStore is a volatile core.SessionStore keeping sessions in a
// process local map. Safe for concurrent access; best suited for tests and
// ephemeral demo deployments. Returned sessions are clones so callers can
// never mutate internal state; all mutation flows through Update.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*core.Session // session id -> session
	active   map[string]string        // identity -> active-flagged session id
}

var _ core.SessionStore = (*InMemoryStore)(nil)

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[string]*core.Session),
		active:   make(map[string]string),
	}
}

// Create persists a new session and indexes it as the identity's active one.
func (s *InMemoryStore) Create(_ context.Context, sess *core.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess.Clone()
	if sess.Active {
		s.active[sess.Identity] = sess.ID
	}
	return nil
}

// Get returns a clone of the session with the given id.
func (s *InMemoryStore) Get(_ context.Context, sessionID string) (*core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	return sess.Clone(), nil
}

// FindActive returns the active-flagged session for identity, expired or
// not; the expiry check belongs to the Manager.
func (s *InMemoryStore) FindActive(_ context.Context, identity string) (*core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.active[identity]
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	sess, ok := s.sessions[id]
	if !ok || !sess.Active {
		return nil, core.ErrSessionNotFound
	}
	return sess.Clone(), nil
}

// Update replaces the stored session and maintains the active index.
func (s *InMemoryStore) Update(_ context.Context, sess *core.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sess.ID]; !ok {
		return core.ErrSessionNotFound
	}
	s.sessions[sess.ID] = sess.Clone()
	if sess.Active {
		s.active[sess.Identity] = sess.ID
	} else if s.active[sess.Identity] == sess.ID {
		delete(s.active, sess.Identity)
	}
	return nil
}

// ExpiredBefore returns clones of active-flagged sessions whose expiry has
// passed.
func (s *InMemoryStore) ExpiredBefore(_ context.Context, now time.Time) ([]*core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var expired []*core.Session
	for _, sess := range s.sessions {
		if sess.Active && sess.ExpiredAt(now) {
			expired = append(expired, sess.Clone())
		}
	}
	return expired, nil
}
