package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// Storage drivers understood by the server.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port          string   `env:"PORT" env-default:"8080"`
	DatabaseURL   string   `env:"DATABASE_URL"`
	StorageDriver string   `env:"STORAGE_DRIVER" env-default:"postgres"`
	AutoMigrate   bool     `env:"AUTO_MIGRATE" env-default:"true"`
	JWTSecret     string   `env:"JWT_SECRET"`
	JWTIssuer     string   `env:"JWT_ISSUER" env-default:"blog-backend"`
	CORSOrigins   []string `env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"*"`
	LogFormat     string   `env:"LOG_FORMAT" env-default:"json"`
	LogLevel      string   `env:"LOG_LEVEL" env-default:"info"`
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type databaseOnly struct {
	DatabaseURL string `env:"DATABASE_URL" env-required:"true"`
}

// LoadDatabaseURL reads just DATABASE_URL, for commands that only touch the schema.
func LoadDatabaseURL() (string, error) {
	var cfg databaseOnly
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return "", fmt.Errorf("read env: %w", err)
	}
	url := strings.TrimSpace(cfg.DatabaseURL)
	if url == "" {
		return "", errors.New("DATABASE_URL is required")
	}
	return url, nil
}

// Validate reports the first missing or inconsistent setting.
func (c Config) Validate() error {
	switch c.StorageDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	return nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func (c *Config) normalize() {
	c.DatabaseURL = strings.TrimSpace(c.DatabaseURL)
	c.JWTSecret = strings.TrimSpace(c.JWTSecret)
	c.StorageDriver = strings.ToLower(strings.TrimSpace(c.StorageDriver))
	c.CORSOrigins = trimOrigins(c.CORSOrigins)
}

func trimOrigins(input []string) []string {
	var out []string
	for _, part := range input {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
