package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces the service's environment variables, e.g.
// WORLD_PORT=9000, WORLD_MAX_DAYS=180.
const envPrefix = "WORLD_"

type Config struct {
	Port              string `koanf:"port"`
	Seed              int64  `koanf:"seed"`
	Players           int    `koanf:"players"`
	MaxDays           int    `koanf:"max_days"`
	SessionTTLMinutes int    `koanf:"session_ttl_minutes"`
	LogLevel          string `koanf:"log_level"`
}

func Default() Config {
	return Config{
		Port:              "8080",
		Seed:              42,
		Players:           120,
		MaxDays:           365,
		SessionTTLMinutes: 60,
		LogLevel:          "info",
	}
}

// Load layers configuration: defaults, then an optional YAML file, then
// environment variables. A missing config file is only an error when the
// path was given explicitly.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	// WORLD_SESSION_TTL_MINUTES -> session_ttl_minutes
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Players <= 0 {
		return fmt.Errorf("players must be positive, got %d", c.Players)
	}
	if c.MaxDays <= 0 {
		return fmt.Errorf("max_days must be positive, got %d", c.MaxDays)
	}
	if c.SessionTTLMinutes <= 0 {
		return fmt.Errorf("session_ttl_minutes must be positive, got %d", c.SessionTTLMinutes)
	}
	return nil
}

// Path returns the config file path from WORLD_CONFIG, or "" for none.
func Path() string {
	return os.Getenv(envPrefix + "CONFIG")
}
