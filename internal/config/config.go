// Package config loads process configuration from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"

	EnvProduction = "production"
)

// Config is shared by the web server and the Discord bot
type Config struct {
	Env     string `env:"ENV" envDefault:"development"`
	GinMode string `env:"GIN_MODE" envDefault:"debug"`
	Port    int    `env:"PORT" envDefault:"8080"`

	// Storage selects the repositories: memory or redis
	Storage       string        `env:"STORAGE" envDefault:"memory"`
	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	GameTTL       time.Duration `env:"GAME_TTL" envDefault:"24h"`

	// SessionTimeout is how long an in-memory game may sit idle
	SessionTimeout time.Duration `env:"SESSION_TIMEOUT" envDefault:"2h"`
	PruneInterval  time.Duration `env:"PRUNE_INTERVAL" envDefault:"10m"`

	CookieMaxAge   time.Duration `env:"COOKIE_MAX_AGE" envDefault:"2h"`
	StaticCacheAge time.Duration `env:"STATIC_CACHE_AGE" envDefault:"5m"`
	RateLimitRPS   float64       `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst int           `env:"RATE_LIMIT_BURST" envDefault:"10"`

	// DiceSeed fixes the dice sequence when non-zero
	DiceSeed int64 `env:"DICE_SEED" envDefault:"0"`

	DiscordToken  string `env:"DISCORD_TOKEN"`
	ApplicationID string `env:"APPLICATION_ID"`
	GuildID       string `env:"GUILD_ID"`
}

// Load reads .env when present, then the environment
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	return parse(env.Options{})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values the tags cannot express
func (c *Config) Validate() error {
	if c.Storage != StorageMemory && c.Storage != StorageRedis {
		return fmt.Errorf("invalid STORAGE %q: must be %s or %s", c.Storage, StorageMemory, StorageRedis)
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}

	if c.RateLimitRPS <= 0 || c.RateLimitBurst < 1 {
		return errors.New("rate limit must allow at least one request")
	}

	if c.SessionTimeout <= 0 || c.PruneInterval <= 0 {
		return errors.New("session timeout and prune interval must be positive")
	}

	return nil
}

// ValidateBot checks the settings the Discord bot cannot run without
func (c *Config) ValidateBot() error {
	if c.DiscordToken == "" {
		return errors.New("DISCORD_TOKEN environment variable is required")
	}
	return nil
}

// IsProduction reports whether ENV is production
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Addr is the listen address for the web server
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
