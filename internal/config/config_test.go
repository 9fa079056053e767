package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValidConfig(t *testing.T) {
	t.Parallel()

	content := `
server:
  host: "127.0.0.1"
  port: 8080
  max_connections: 5000

redis:
  addr: "redis:6379"
  password: "secret"
  db: 1

game:
  deck_size: 52
  max_players: 6
  max_attacks_per_round: 6
  throw_in_enabled: true
  attack_timeout: 45
  defend_timeout: 20
  between_timeout: 10
  reconnect_grace: 60
  room_timeout: 15

security:
  conn_per_ip_per_minute: 10
  msg_per_second: 5
  allowed_origins:
    - "http://localhost:3000"
    - "https://example.com"

metrics:
  enabled: true
  addr: ":9100"
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	err := os.WriteFile(configPath, []byte(content), 0o600)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5000, cfg.Server.MaxConnections)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "secret", cfg.Redis.Password)
	assert.Equal(t, 1, cfg.Redis.DB)
	assert.Equal(t, 52, cfg.Game.DeckSize)
	assert.Equal(t, 6, cfg.Game.MaxPlayers)
	assert.True(t, cfg.Game.ThrowInEnabled)
	assert.Equal(t, 45*time.Second, cfg.Game.AttackTimeoutDuration())
	assert.Equal(t, 20*time.Second, cfg.Game.DefendTimeoutDuration())
	assert.Equal(t, 10*time.Second, cfg.Game.BetweenTimeoutDuration())
	assert.Equal(t, 60*time.Second, cfg.Game.ReconnectGraceDuration())
	assert.Equal(t, 15*time.Minute, cfg.Game.RoomTimeoutDuration())
	assert.Len(t, cfg.Security.AllowedOrigins, 2)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":9100", cfg.Metrics.Addr)
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()

	cfg, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")
	err := os.WriteFile(configPath, []byte("invalid: yaml: :::"), 0o600)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Parallel()

	content := `{}`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "empty.yaml")
	err := os.WriteFile(configPath, []byte(content), 0o600)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 1790, cfg.Server.Port)
	assert.Equal(t, 1000, cfg.Server.MaxConnections)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 36, cfg.Game.DeckSize)
	assert.Equal(t, 4, cfg.Game.MaxPlayers)
	assert.Equal(t, 6, cfg.Game.MaxAttacksPerRound)
	assert.Equal(t, 30, cfg.Game.AttackTimeout)
	assert.Equal(t, 5, cfg.Game.BetweenTimeout)
	assert.Equal(t, 30, cfg.Game.ReconnectGrace)
	assert.Equal(t, 30, cfg.Security.ConnPerIPPerMinute)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NotNil(t, cfg)
	assert.Equal(t, 1790, cfg.Server.Port)
	assert.Equal(t, 36, cfg.Game.DeckSize)
	assert.Equal(t, 30*time.Second, cfg.Game.ReconnectGraceDuration())
}
