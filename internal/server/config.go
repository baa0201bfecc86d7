package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/templegold/server/internal/game"
)

// Config is the complete server configuration, loaded from HCL.
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Game   GameSettings   `hcl:"game,block"`
	Nats   NatsSettings   `hcl:"nats,block"`
}

// ServerSettings contains listener-level configuration.
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// GameSettings tunes the engine.
type GameSettings struct {
	RevealDelayMs     int   `hcl:"reveal_delay_ms,optional"`
	TransitionDelayMs int   `hcl:"transition_delay_ms,optional"`
	Seed              int64 `hcl:"seed,optional"`
}

// NatsSettings configures the optional NATS snapshot publisher.
type NatsSettings struct {
	Enabled       bool   `hcl:"enabled,optional"`
	URL           string `hcl:"url,optional"`
	SubjectPrefix string `hcl:"subject_prefix,optional"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Game: GameSettings{
			RevealDelayMs:     int(game.DefaultRevealDelay / time.Millisecond),
			TransitionDelayMs: int(game.DefaultTransitionDelay / time.Millisecond),
		},
		Nats: NatsSettings{
			URL:           "nats://127.0.0.1:4222",
			SubjectPrefix: "templegold.rooms",
		},
	}
}

// LoadConfig reads HCL configuration from filename, falling back to defaults
// when the file does not exist.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	defaults := DefaultConfig()
	if config.Server.Address == "" {
		config.Server.Address = defaults.Server.Address
	}
	if config.Server.Port == 0 {
		config.Server.Port = defaults.Server.Port
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = defaults.Server.LogLevel
	}
	if config.Game.RevealDelayMs == 0 {
		config.Game.RevealDelayMs = defaults.Game.RevealDelayMs
	}
	if config.Game.TransitionDelayMs == 0 {
		config.Game.TransitionDelayMs = defaults.Game.TransitionDelayMs
	}
	if config.Nats.URL == "" {
		config.Nats.URL = defaults.Nats.URL
	}
	if config.Nats.SubjectPrefix == "" {
		config.Nats.SubjectPrefix = defaults.Nats.SubjectPrefix
	}

	return &config, nil
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Game.RevealDelayMs < 0 {
		return fmt.Errorf("reveal delay must not be negative: %d", c.Game.RevealDelayMs)
	}
	if c.Game.TransitionDelayMs < 0 {
		return fmt.Errorf("transition delay must not be negative: %d", c.Game.TransitionDelayMs)
	}
	if c.Nats.Enabled && c.Nats.URL == "" {
		return fmt.Errorf("nats enabled but no url configured")
	}
	return nil
}

// ListenAddress returns the host:port the HTTP server binds to.
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// GameConfig converts the game block into engine configuration.
func (c *Config) GameConfig() game.Config {
	return game.Config{
		RevealDelay:     time.Duration(c.Game.RevealDelayMs) * time.Millisecond,
		TransitionDelay: time.Duration(c.Game.TransitionDelayMs) * time.Millisecond,
		Seed:            c.Game.Seed,
	}
}
