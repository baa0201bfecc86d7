package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", cfg.ListenAddress())
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 3000, cfg.Game.RevealDelayMs)
	assert.Equal(t, 4000, cfg.Game.TransitionDelayMs)
	assert.False(t, cfg.Nats.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFromFile(t *testing.T) {
	content := `
server {
  address   = "0.0.0.0"
  port      = 9090
  log_level = "debug"
}

game {
  reveal_delay_ms     = 500
  transition_delay_ms = 750
  seed                = 1234
}

nats {
  enabled        = true
  url            = "nats://broker:4222"
  subject_prefix = "games.rooms"
}
`
	path := filepath.Join(t.TempDir(), "server.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddress())
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.True(t, cfg.Nats.Enabled)
	assert.Equal(t, "games.rooms", cfg.Nats.SubjectPrefix)

	gameCfg := cfg.GameConfig()
	assert.Equal(t, 500*time.Millisecond, gameCfg.RevealDelay)
	assert.Equal(t, 750*time.Millisecond, gameCfg.TransitionDelay)
	assert.Equal(t, int64(1234), gameCfg.Seed)
}

func TestLoadConfigPartialFileFillsDefaults(t *testing.T) {
	content := `
server {
  port = 3000
}

game {}

nats {}
`
	path := filepath.Join(t.TempDir(), "partial.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "localhost:3000", cfg.ListenAddress())
	assert.Equal(t, 3000, cfg.Game.RevealDelayMs)
	assert.Equal(t, "templegold.rooms", cfg.Nats.SubjectPrefix)
}

func TestLoadConfigRejectsBadHCL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.hcl")
	require.NoError(t, os.WriteFile(path, []byte("server {"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())

	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Game.RevealDelayMs = -1
	assert.Error(t, cfg.Validate())
}
