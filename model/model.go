// Package model defines the delegated text-understanding capability consumed
// by the router and the responders: a single bounded Complete call. Concrete
// adapters live in sub-packages (anthropic, openai); swapping the backing
// implementation never touches the orchestrator, router or responders.
package model

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Message is one role-tagged input line for a completion request.
type Message struct {
	Role string `json:"role"` // "user" or "assistant"
	Text string `json:"text"`
}

// Request captures the normalized capability input.
type Request struct {
	Instructions string    `json:"instructions"` // System instructions
	Messages     []Message `json:"messages"`     // Conversation, oldest first
	MaxTokens    int64     `json:"max_tokens,omitempty"`
}

// Response is the final completion text.
type Response struct {
	Text  string `json:"text"`
	Model string `json:"model,omitempty"`
}

// Info contains metadata about a capability implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", etc.
}

// Completer is the minimal interface required to drive classification and
// generation. Implementations must honor ctx cancellation and deadlines;
// callers bound every Complete with a timeout.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the capability implementation.
	Info() Info
}

// Mock is a lightweight in-memory Completer useful for tests and demos.
// Responses are keyed by the last user message; unmatched prompts receive
// the default response. An injected error or delay simulates failing or
// slow backends.
type Mock struct {
	info      Info
	responses map[string]string
	fallback  string
	err       error
	delay     time.Duration
}

// NewMock constructs a Mock completer.
func NewMock() *Mock {
	return &Mock{
		info:      Info{Name: "mock", Provider: "mock"},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for a prompt.
func (m *Mock) AddResponse(prompt, response string) { m.responses[prompt] = response }

// SetDefault sets the response returned for unmatched prompts.
func (m *Mock) SetDefault(response string) { m.fallback = response }

// FailWith makes every Complete call return err.
func (m *Mock) FailWith(err error) { m.err = err }

// SetDelay makes every Complete call block for d (or until ctx is done).
func (m *Mock) SetDelay(d time.Duration) { m.delay = d }

// Complete implements Completer.
func (m *Mock) Complete(ctx context.Context, req Request) (*Response, error) {
	if m.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.delay):
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	var last string
	for _, msg := range req.Messages {
		if msg.Role == "user" {
			last = msg.Text
		}
	}
	if resp, ok := m.responses[last]; ok {
		return &Response{Text: resp, Model: m.info.Name}, nil
	}
	if m.fallback != "" {
		return &Response{Text: m.fallback, Model: m.info.Name}, nil
	}
	return &Response{Text: fmt.Sprintf("Mock response to: %s", strings.TrimSpace(last)), Model: m.info.Name}, nil
}

// Info implements Completer.
func (m *Mock) Info() Info { return m.info }
