package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Redis    RedisConfig    `yaml:"redis"`
	Game     GameConfig     `yaml:"game"`
	Security SecurityConfig `yaml:"security"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// ServerConfig holds the WebSocket listener settings.
type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	MaxConnections int    `yaml:"max_connections"`
}

// RedisConfig holds the Redis connection settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GameConfig holds the default rules for new rooms and the shared
// session timing knobs.
type GameConfig struct {
	DeckSize           int  `yaml:"deck_size"`   // 36 or 52
	MaxPlayers         int  `yaml:"max_players"` // default seats per room, 2..6
	MaxAttacksPerRound int  `yaml:"max_attacks_per_round"`
	ThrowInEnabled     bool `yaml:"throw_in_enabled"`
	AttackTimeout      int  `yaml:"attack_timeout"`  // seconds, 0 disables
	DefendTimeout      int  `yaml:"defend_timeout"`  // seconds, 0 disables
	BetweenTimeout     int  `yaml:"between_timeout"` // seconds, breather before a new round
	ReconnectGrace     int  `yaml:"reconnect_grace"` // seconds
	RoomTimeout        int  `yaml:"room_timeout"`    // idle lobby eviction, minutes
}

// AttackTimeoutDuration returns the attack-phase timer length.
func (c *GameConfig) AttackTimeoutDuration() time.Duration {
	return time.Duration(c.AttackTimeout) * time.Second
}

// DefendTimeoutDuration returns the defend-phase timer length.
func (c *GameConfig) DefendTimeoutDuration() time.Duration {
	return time.Duration(c.DefendTimeout) * time.Second
}

// BetweenTimeoutDuration returns the pause granted between rounds. It is
// folded into the first attack clock of the new round.
func (c *GameConfig) BetweenTimeoutDuration() time.Duration {
	return time.Duration(c.BetweenTimeout) * time.Second
}

// ReconnectGraceDuration returns how long a dropped player keeps a seat.
func (c *GameConfig) ReconnectGraceDuration() time.Duration {
	return time.Duration(c.ReconnectGrace) * time.Second
}

// RoomTimeoutDuration returns the idle lobby eviction deadline.
func (c *GameConfig) RoomTimeoutDuration() time.Duration {
	return time.Duration(c.RoomTimeout) * time.Minute
}

// SecurityConfig holds abuse limits for the gateway.
type SecurityConfig struct {
	ConnPerIPPerMinute int      `yaml:"conn_per_ip_per_minute"`
	MsgPerSecond       int      `yaml:"msg_per_second"`
	AllowedOrigins     []string `yaml:"allowed_origins"`
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Load reads a config file and fills defaults for unset fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.fillDefaults()
	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	// bool zero value is indistinguishable from "unset" in fillDefaults
	cfg.Game.ThrowInEnabled = true
	cfg.fillDefaults()
	return cfg
}

func (cfg *Config) fillDefaults() {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 1790
	}
	if cfg.Server.MaxConnections == 0 {
		cfg.Server.MaxConnections = 1000
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Game.DeckSize == 0 {
		cfg.Game.DeckSize = 36
	}
	if cfg.Game.MaxPlayers == 0 {
		cfg.Game.MaxPlayers = 4
	}
	if cfg.Game.MaxAttacksPerRound == 0 {
		cfg.Game.MaxAttacksPerRound = 6
	}
	if cfg.Game.AttackTimeout == 0 {
		cfg.Game.AttackTimeout = 30
	}
	if cfg.Game.DefendTimeout == 0 {
		cfg.Game.DefendTimeout = 30
	}
	if cfg.Game.BetweenTimeout == 0 {
		cfg.Game.BetweenTimeout = 5
	}
	if cfg.Game.ReconnectGrace == 0 {
		cfg.Game.ReconnectGrace = 30
	}
	if cfg.Game.RoomTimeout == 0 {
		cfg.Game.RoomTimeout = 10
	}
	if cfg.Security.ConnPerIPPerMinute == 0 {
		cfg.Security.ConnPerIPPerMinute = 30
	}
	if cfg.Security.MsgPerSecond == 0 {
		cfg.Security.MsgPerSecond = 20
	}
	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = ":9090"
	}
}
