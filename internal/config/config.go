package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config contains server configuration parameters. Values come from
// environment variables, optionally overlaid by a YAML file pointed at by
// CONFIG_FILE.
type Config struct {
	HTTPAddr    string        `env:"HTTP_ADDR" envDefault:":8080" yaml:"http_addr"`
	DatabaseURL string        `env:"DATABASE_URL" yaml:"database_url"`
	JWTSecret   string        `env:"JWT_SECRET" yaml:"jwt_secret"`
	TokenTTL    time.Duration `env:"TOKEN_TTL" envDefault:"168h" yaml:"token_ttl"`
	BcryptCost  int           `env:"BCRYPT_COST" envDefault:"10" yaml:"bcrypt_cost"`
	Migrate     bool          `env:"MIGRATE_ON_START" envDefault:"true" yaml:"migrate_on_start"`
}

// Load parses configuration from the environment and the optional config file.
func Load() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required parameters.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("config: DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("config: JWT_SECRET must be at least 32 characters")
	}
	if c.TokenTTL <= 0 {
		return errors.New("config: TOKEN_TTL must be positive")
	}
	return nil
}
