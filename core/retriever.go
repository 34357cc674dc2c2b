package core

import "context"

// Passage is a retrieved knowledge snippet with a relevance score and
// arbitrary metadata.
type Passage struct {
	ID       string
	Content  string
	Score    float64
	Metadata map[string]any
}

// Retriever abstracts the delegated retrieval capability consumed by the
// knowledge responder. Implementations can back Search with embeddings,
// keywords, an external search API or any heuristic.
type Retriever interface {
	Search(ctx context.Context, query string, limit int) ([]Passage, error)
}
