package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 5*time.Minute, cfg.Session.Timeout.Std())
	assert.Equal(t, 30*time.Minute, cfg.Session.ReapInterval.Std())
	assert.Equal(t, 5, cfg.History.Pairs)
	assert.Equal(t, 0.5, cfg.Router.ConfidenceFloor)
	assert.Equal(t, 2000, cfg.Guardrail.MaxLength)
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Session.Timeout, cfg.Session.Timeout)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
session:
  timeout: 10m
history:
  pairs: 3
logging:
  level: debug
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, cfg.Session.Timeout.Std())
	assert.Equal(t, 3, cfg.History.Pairs)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Untouched fields keep their defaults.
	assert.Equal(t, 30*time.Minute, cfg.Session.ReapInterval.Std())
}

func TestLoad_MalformedFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("session: [not a mapping"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_InvalidValuesRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("history:\n  pairs: -1\n"), 0644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "history.pairs")
}

func TestValidate_ConfidenceFloorRange(t *testing.T) {
	cfg := Default()
	cfg.Router.ConfidenceFloor = 1.5
	assert.ErrorContains(t, cfg.Validate(), "confidence_floor")
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.History.Pairs = 7
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, loaded.History.Pairs)
}
