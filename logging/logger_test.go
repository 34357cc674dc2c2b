package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LogLevelDebug, ParseLevel("debug"))
	assert.Equal(t, LogLevelWarn, ParseLevel("WARN"))
	assert.Equal(t, LogLevelError, ParseLevel("error"))
	assert.Equal(t, LogLevelInfo, ParseLevel("info"))
	assert.Equal(t, LogLevelInfo, ParseLevel("nonsense"))
}

func TestLogLevel_String(t *testing.T) {
	assert.Equal(t, "DEBUG", LogLevelDebug.String())
	assert.Equal(t, "ERROR", LogLevelError.String())
	assert.Equal(t, "UNKNOWN", LogLevel(99).String())
}

func TestOrNoOp(t *testing.T) {
	assert.IsType(t, NoOpLogger{}, OrNoOp(nil))
	l := NewDefaultSlogLogger()
	assert.Equal(t, l, OrNoOp(l))
}

func TestDeskLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "json", Output: &buf})

	l.Debug("hidden")
	l.Info("visible %d", 42)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "visible 42", entries[0]["msg"])
}

func TestDeskLogger_ContextualAttrs(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelDebug, Format: "json", Output: &buf, Component: "router"})

	l.WithSession("s1").WithContext("identity", "u***").Info("handled")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "router", entries[0]["component"])
	assert.Equal(t, "s1", entries[0]["session_id"])
	assert.Equal(t, "u***", entries[0]["identity"])
}

func TestDeskLogger_WithMethodsDoNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelDebug, Format: "json", Output: &buf})

	l.WithComponent("child").Info("from child")
	l.Info("from parent")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "child", entries[0]["component"])
	assert.NotContains(t, entries[1], "component")
}

func TestDeskLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "text", Output: &buf})

	l.Warn("disk almost full")
	assert.Contains(t, buf.String(), "disk almost full")
	assert.Contains(t, buf.String(), "WARN")
}

func TestDeskLogger_DomainHelpers(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelDebug, Format: "json", Output: &buf})

	l.LogGuardrailBlock("denylist_topics", "critical", "how do i ...")
	l.LogModelCall("mock", 5*time.Millisecond, false, errors.New("boom"))
	l.LogEscalation("SUP-20250601123000-user_tes", "technical_failure", "support")
	l.LogReap(3, time.Second)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 4)

	assert.Equal(t, "denylist_topics", entries[0]["rule_id"])
	assert.Equal(t, "critical", entries[0]["severity"])

	assert.Equal(t, "ERROR", entries[1]["level"])
	assert.Equal(t, "boom", entries[1]["error"])
	assert.Equal(t, "mock", entries[1]["model"])

	assert.Equal(t, "SUP-20250601123000-user_tes", entries[2]["ticket_id"])
	assert.Equal(t, "support", entries[2]["failed_responder"])

	assert.Equal(t, float64(3), entries[3]["reaped"])
}

func TestDeskLogger_ModelCallSuccessIsInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelDebug, Format: "json", Output: &buf})

	l.LogModelCall("mock", time.Millisecond, true, nil)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "INFO", entries[0]["level"])
	assert.NotContains(t, entries[0], "error")
}

func TestNoOpLogger_DiscardsEverything(t *testing.T) {
	var l Logger = NoOpLogger{}
	l.Debug("a")
	l.Info("b %d", 1)
	l.Warn("c")
	l.Error("d")
}
