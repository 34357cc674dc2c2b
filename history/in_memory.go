package history

import (
	"context"
	"sync"

	"github.com/convodesk/convodesk/core"
)

// InMemoryTurnStore is a volatile core.TurnStore keeping turns in a process
// local map, ordered by recording order per session. Safe for concurrent
// access. Returned turns are copies.
type InMemoryTurnStore struct {
	mu    sync.RWMutex
	turns map[string][]*core.Turn // session id -> turns, recording order
}

var _ core.TurnStore = (*InMemoryTurnStore)(nil)

// NewInMemoryTurnStore constructs an empty in-memory turn store.
func NewInMemoryTurnStore() *InMemoryTurnStore {
	return &InMemoryTurnStore{turns: make(map[string][]*core.Turn)}
}

// Append adds a turn at the end of its session's sequence.
func (s *InMemoryTurnStore) Append(_ context.Context, t *core.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *t
	s.turns[t.SessionID] = append(s.turns[t.SessionID], &clone)
	return nil
}

// RecentBySession returns copies of up to limit most recent non-archived
// turns, oldest first.
func (s *InMemoryTurnStore) RecentBySession(_ context.Context, sessionID string, limit int) ([]*core.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var live []*core.Turn
	for _, t := range s.turns[sessionID] {
		if !t.Archived {
			live = append(live, t)
		}
	}
	if limit > 0 && len(live) > limit {
		live = live[len(live)-limit:]
	}

	out := make([]*core.Turn, len(live))
	for i, t := range live {
		clone := *t
		out[i] = &clone
	}
	return out, nil
}

// ArchiveSession marks every turn of the session archived.
func (s *InMemoryTurnStore) ArchiveSession(_ context.Context, sessionID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, t := range s.turns[sessionID] {
		if !t.Archived {
			t.Archived = true
			count++
		}
	}
	return count, nil
}
