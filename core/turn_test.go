package core

import (
	"strings"
	"testing"
)

func TestContextBundle_RenderEmpty(t *testing.T) {
	var b ContextBundle
	if got := b.Render(); got != "" {
		t.Fatalf("empty bundle should render to empty string, got %q", got)
	}
}

func TestContextBundle_Render(t *testing.T) {
	b := ContextBundle{Entries: []BundleEntry{
		{Role: "user", Text: "What are the fees?"},
		{Role: "assistant", Text: "Fees depend on the plan."},
	}}
	out := b.Render()

	if !strings.HasPrefix(out, bundlePreamble) {
		t.Errorf("missing preamble: %q", out)
	}
	if !strings.HasSuffix(out, bundleEnd) {
		t.Errorf("missing end marker: %q", out)
	}
	if !strings.Contains(out, "User: What are the fees?") {
		t.Errorf("missing user line: %q", out)
	}
	if !strings.Contains(out, "Assistant: Fees depend on the plan.") {
		t.Errorf("missing assistant line: %q", out)
	}
	if b.Pairs() != 1 {
		t.Errorf("expected 1 pair, got %d", b.Pairs())
	}
}
