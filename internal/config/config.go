package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ZOMBIES_"

// Config holds all client configuration
type Config struct {
	Server ServerConfig `yaml:"server"`
	Auth   AuthConfig   `yaml:"auth"`
	Board  BoardConfig  `yaml:"board"`
	Relay  RelayConfig  `yaml:"relay"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig holds the game server endpoint
type ServerConfig struct {
	URL                     string `yaml:"url"`
	HandshakeTimeoutSeconds int    `yaml:"handshake_timeout_seconds"`
	Mode                    string `yaml:"mode"` // expected CONFIG mode, empty accepts any
}

// HandshakeTimeout returns the configured handshake timeout.
func (s ServerConfig) HandshakeTimeout() time.Duration {
	return time.Duration(s.HandshakeTimeoutSeconds) * time.Second
}

// AuthConfig holds the access token offered when dialing
type AuthConfig struct {
	Token string `yaml:"token"`
}

// BoardConfig holds board geometry, in pixels
type BoardConfig struct {
	TileRadius float64 `yaml:"tile_radius"`
	ViewWidth  float64 `yaml:"view_width"`
	ViewHeight float64 `yaml:"view_height"`
	HudWidth   float64 `yaml:"hud_width"` // reserve panel on each side
}

// Center returns the pixel the board is centered on.
func (b BoardConfig) Center() (float64, float64) {
	return b.ViewWidth / 2, b.ViewHeight / 2
}

// RelayConfig holds Redis spectator relay settings
type RelayConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Address       string `yaml:"address"`
	Password      string `yaml:"password"`
	DB            int    `yaml:"db"`
	ChannelPrefix string `yaml:"channel_prefix"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Load reads configuration from a YAML file. An empty path skips the file.
// Values from a .env file and ZOMBIES_* environment variables override the
// file.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	cfg.setDefaults()
	return &cfg, nil
}

func (cfg *Config) setDefaults() {
	if cfg.Server.URL == "" {
		cfg.Server.URL = "ws://localhost:8500/"
	}
	if cfg.Server.HandshakeTimeoutSeconds == 0 {
		cfg.Server.HandshakeTimeoutSeconds = 10
	}
	if cfg.Board.TileRadius == 0 {
		cfg.Board.TileRadius = 20
	}
	if cfg.Board.ViewWidth == 0 {
		cfg.Board.ViewWidth = 1280
	}
	if cfg.Board.ViewHeight == 0 {
		cfg.Board.ViewHeight = 880
	}
	if cfg.Board.HudWidth == 0 {
		cfg.Board.HudWidth = 320
	}
	if cfg.Relay.Address == "" {
		cfg.Relay.Address = "localhost:6379"
	}
	if cfg.Relay.ChannelPrefix == "" {
		cfg.Relay.ChannelPrefix = "zombies"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

func (cfg *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"SERVER_URL":           &cfg.Server.URL,
		"SERVER_MODE":          &cfg.Server.Mode,
		"AUTH_TOKEN":           &cfg.Auth.Token,
		"RELAY_ADDRESS":        &cfg.Relay.Address,
		"RELAY_PASSWORD":       &cfg.Relay.Password,
		"RELAY_CHANNEL_PREFIX": &cfg.Relay.ChannelPrefix,
		"LOG_LEVEL":            &cfg.Log.Level,
	}
	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}

	if v, ok := lookup(EnvPrefix + "RELAY_ENABLED"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sRELAY_ENABLED: %w", EnvPrefix, err)
		}
		cfg.Relay.Enabled = enabled
	}
	if v, ok := lookup(EnvPrefix + "RELAY_DB"); ok {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sRELAY_DB: %w", EnvPrefix, err)
		}
		cfg.Relay.DB = db
	}
	return nil
}
