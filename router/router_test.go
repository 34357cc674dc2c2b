package router

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/convodesk/convodesk/core"
	"github.com/convodesk/convodesk/model"
	"github.com/stretchr/testify/assert"
)

func TestRouter_ClassifiesKnownLabels(t *testing.T) {
	m := model.NewMock()
	m.AddResponse("What are the fees?", "knowledge 0.92")
	m.AddResponse("My transfer failed", "support 0.88")
	r := New(m)

	d := r.Classify(context.Background(), "What are the fees?", core.ContextBundle{})
	assert.Equal(t, core.RouteKnowledge, d.Target)
	assert.InDelta(t, 0.92, d.Confidence, 1e-9)

	d = r.Classify(context.Background(), "My transfer failed", core.ContextBundle{})
	assert.Equal(t, core.RouteSupport, d.Target)
}

func TestRouter_LabelWithoutConfidenceIsFullyConfident(t *testing.T) {
	m := model.NewMock()
	m.SetDefault("SUPPORT")
	r := New(m)

	d := r.Classify(context.Background(), "help me", core.ContextBundle{})
	assert.Equal(t, core.RouteSupport, d.Target)
	assert.Equal(t, 1.0, d.Confidence)
}

func TestRouter_DegradesOnError(t *testing.T) {
	m := model.NewMock()
	m.FailWith(errors.New("backend down"))
	r := New(m)

	d := r.Classify(context.Background(), "anything", core.ContextBundle{})
	assert.Equal(t, core.FallbackDecision(), d)
}

func TestRouter_DegradesOnTimeout(t *testing.T) {
	m := model.NewMock()
	m.SetDelay(time.Second)
	r := New(m, func(o *Options) { o.Timeout = 10 * time.Millisecond })

	start := time.Now()
	d := r.Classify(context.Background(), "anything", core.ContextBundle{})
	assert.Equal(t, core.FallbackDecision(), d)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestRouter_DegradesOnUnparseableLabel(t *testing.T) {
	m := model.NewMock()
	m.SetDefault("I think this is probably a support question?")
	r := New(m)

	d := r.Classify(context.Background(), "anything", core.ContextBundle{})
	assert.Equal(t, core.FallbackDecision(), d)
}

func TestRouter_DegradesBelowConfidenceFloor(t *testing.T) {
	m := model.NewMock()
	m.SetDefault("knowledge 0.3")
	r := New(m, func(o *Options) { o.ConfidenceFloor = 0.5 })

	d := r.Classify(context.Background(), "anything", core.ContextBundle{})
	assert.Equal(t, core.FallbackDecision(), d)
}

func TestRouter_PassesBundleToCapability(t *testing.T) {
	m := model.NewMock()
	// The mock keys on the last user message, so a correct build keeps the
	// current message last even with history present.
	m.AddResponse("And for large amounts?", "knowledge 0.8")
	r := New(m)

	bundle := core.ContextBundle{Entries: []core.BundleEntry{
		{Role: "user", Text: "What are the fees?"},
		{Role: "assistant", Text: "Fees depend on the plan."},
	}}
	d := r.Classify(context.Background(), "And for large amounts?", bundle)
	assert.Equal(t, core.RouteKnowledge, d.Target)
}

func TestParseDecision(t *testing.T) {
	cases := []struct {
		reply string
		want  core.Decision
		ok    bool
	}{
		{"knowledge 0.9", core.Decision{Target: core.RouteKnowledge, Confidence: 0.9}, true},
		{"  Support  ", core.Decision{Target: core.RouteSupport, Confidence: 1.0}, true},
		{"fallback.", core.Decision{Target: core.RouteFallback, Confidence: 1.0}, true},
		{"knowledge 1.7", core.Decision{}, false},
		{"knowledge abc", core.Decision{}, false},
		{"", core.Decision{}, false},
		{"weather", core.Decision{}, false},
	}
	for _, tc := range cases {
		got, ok := parseDecision(tc.reply)
		assert.Equal(t, tc.ok, ok, "reply=%q", tc.reply)
		if tc.ok {
			assert.Equal(t, tc.want, got, "reply=%q", tc.reply)
		}
	}
}
