// Package retrieval houses concrete implementations of core.Retriever, the
// delegated retrieval capability consumed by the knowledge responder.
package retrieval

import (
	"context"
	"strings"
	"sync"

	"github.com/convodesk/convodesk/core"
	"github.com/convodesk/convodesk/internal/util"
)

// InMemory is a naive process-local Retriever over a fixed set of passages.
//
// Search: linear scan with case-insensitive substring matching assigning a
// constant score of 1.0 to every hit, in insertion order. Suitable for
// tests and demos; swap for a vector index or external search API for
// production retrieval.
type InMemory struct {
	mu       sync.RWMutex
	passages []core.Passage
}

var _ core.Retriever = (*InMemory)(nil)

// NewInMemory creates an empty in-memory retriever.
func NewInMemory() *InMemory {
	return &InMemory{}
}

// Add stores a passage.
func (r *InMemory) Add(content string, metadata map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.passages = append(r.passages, core.Passage{
		ID:       util.NewID(),
		Content:  content,
		Score:    1.0,
		Metadata: metadata,
	})
}

// Search implements core.Retriever with substring matching.
func (r *InMemory) Search(ctx context.Context, query string, limit int) ([]core.Passage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	lower := strings.ToLower(query)
	words := strings.Fields(lower)

	results := make([]core.Passage, 0, limit)
	for _, p := range r.passages {
		if limit > 0 && len(results) >= limit {
			break
		}
		if matches(strings.ToLower(p.Content), lower, words) {
			results = append(results, p)
		}
	}
	return results, nil
}

// matches accepts a passage containing the full query or any query word of
// at least four runes (cheap relevance heuristic).
func matches(content, query string, words []string) bool {
	if query == "" || strings.Contains(content, query) {
		return true
	}
	for _, w := range words {
		if len([]rune(w)) >= 4 && strings.Contains(content, w) {
			return true
		}
	}
	return false
}
