package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, 20.0, cfg.API.RateLimit)
	assert.Equal(t, 10, cfg.API.Burst)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, "X-Account-ID", cfg.API.AccountHeader)
	assert.Equal(t, ".hxdash/state.db", cfg.State.Path)
	assert.Equal(t, 12*time.Hour, cfg.Session.Lifetime)
	assert.ErrorIs(t, cfg.Validate(), ErrNoBaseURL)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hxdash.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen: ":9000"
api:
  base_url: https://api.example.test
  timeout: 3s
log:
  level: debug
`), 0o644))

	t.Setenv("HXDASH_API_RATE_LIMIT", "5")
	t.Setenv("HXDASH_SECRET", "s3cret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Listen)
	assert.Equal(t, "https://api.example.test", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, 5.0, cfg.API.RateLimit)
	assert.Equal(t, "s3cret", cfg.Secret)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())
	assert.NoError(t, cfg.Validate())
}

func TestLoadSearchesWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hxdash.yaml"), []byte("listen: \":7000\"\n"), 0o644))
	t.Chdir(dir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Listen)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"chatty", slog.LevelInfo},
	}
	for _, tt := range tests {
		c := Config{Log: LogConfig{Level: tt.in}}
		assert.Equal(t, tt.want, c.LogLevel(), tt.in)
	}
}
