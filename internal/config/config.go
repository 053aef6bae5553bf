package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Port            int
	LogLevel        string
	LogFormat       string
	DatabaseURL     string
	BridgeURL       string
	PlayerCube      string
	EnemyCubes      []string
	AudioEnabled    bool
	PositionTTL     time.Duration
	RefreshInterval time.Duration
}

// fileConfig mirrors Config for CONFIG_FILE. Only keys present in the file
// override the environment.
type fileConfig struct {
	Port            *int     `toml:"port"`
	LogLevel        *string  `toml:"log_level"`
	LogFormat       *string  `toml:"log_format"`
	DatabaseURL     *string  `toml:"database_url"`
	BridgeURL       *string  `toml:"bridge_url"`
	PlayerCube      *string  `toml:"player_cube"`
	EnemyCubes      []string `toml:"enemy_cubes"`
	AudioEnabled    *bool    `toml:"audio"`
	PositionTTL     *string  `toml:"position_ttl"`
	RefreshInterval *string  `toml:"refresh_interval"`
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnvInt("PORT", 8080),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		BridgeURL:       getEnv("BRIDGE_URL", "ws://localhost:8765/bridge"),
		PlayerCube:      getEnv("PLAYER_CUBE", "player"),
		EnemyCubes:      getEnvList("ENEMY_CUBES", []string{"enemy-1"}),
		AudioEnabled:    getEnvBool("AUDIO", true),
		PositionTTL:     getEnvDuration("POSITION_TTL", 500*time.Millisecond),
		RefreshInterval: getEnvDuration("REFRESH_INTERVAL", 100*time.Millisecond),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.overlay(path); err != nil {
			return nil, err
		}
	}

	if len(cfg.EnemyCubes) == 0 {
		return nil, fmt.Errorf("config: at least one enemy cube is required")
	}
	if cfg.RefreshInterval <= 0 {
		return nil, fmt.Errorf("config: refresh interval must be positive, got %s", cfg.RefreshInterval)
	}
	return cfg, nil
}

func (c *Config) overlay(path string) error {
	var f fileConfig
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	if f.Port != nil {
		c.Port = *f.Port
	}
	if f.LogLevel != nil {
		c.LogLevel = *f.LogLevel
	}
	if f.LogFormat != nil {
		c.LogFormat = *f.LogFormat
	}
	if f.DatabaseURL != nil {
		c.DatabaseURL = *f.DatabaseURL
	}
	if f.BridgeURL != nil {
		c.BridgeURL = *f.BridgeURL
	}
	if f.PlayerCube != nil {
		c.PlayerCube = *f.PlayerCube
	}
	if f.EnemyCubes != nil {
		c.EnemyCubes = f.EnemyCubes
	}
	if f.AudioEnabled != nil {
		c.AudioEnabled = *f.AudioEnabled
	}
	if f.PositionTTL != nil {
		d, err := time.ParseDuration(*f.PositionTTL)
		if err != nil {
			return fmt.Errorf("config: position_ttl: %w", err)
		}
		c.PositionTTL = d
	}
	if f.RefreshInterval != nil {
		d, err := time.ParseDuration(*f.RefreshInterval)
		if err != nil {
			return fmt.Errorf("config: refresh_interval: %w", err)
		}
		c.RefreshInterval = d
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
