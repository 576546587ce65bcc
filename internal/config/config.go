package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

var knownWeakSecrets = []string{
	"superSecret", "change-me", "changeme", "secret", "admin", "password",
}

type Config struct {
	Port              int           `env:"PORT" envDefault:"3000"`
	SQLitePath        string        `env:"SQLITE_PATH" envDefault:"./data/serialcheck.sqlite"`
	DatabaseURL       string        `env:"DATABASE_URL"`
	RedisURL          string        `env:"REDIS_URL"`
	AdminUser         string        `env:"ADMIN_USER" envDefault:"admin"`
	AdminPass         string        `env:"ADMIN_PASS" envDefault:"changeme"`
	AdminPasswordHash string        `env:"ADMIN_PASSWORD_HASH"`
	JWTSecret         string        `env:"JWT_SECRET" envDefault:"superSecret"`
	JWTExpiresIn      time.Duration `env:"JWT_EXPIRES_IN" envDefault:"1h"`
	RateLimitMax      int           `env:"RATE_LIMIT_MAX" envDefault:"10"`
	RateLimitWindowMS int64         `env:"RATE_LIMIT_WINDOW" envDefault:"3600000"`
	CORSOrigins       []string      `env:"CORS_ORIGIN" envSeparator:","`
	JSONLimitBytes    int64         `env:"JSON_LIMIT_BYTES" envDefault:"1048576"`
	StaticDir         string        `env:"STATIC_DIR"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	Environment       string        `env:"APP_ENV" envDefault:"development"`
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowMS) * time.Millisecond
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// DatabaseDriver picks postgres when DATABASE_URL is set and the local
// sqlite file otherwise.
func (c *Config) DatabaseDriver() (driver, dsn string) {
	if c.DatabaseURL != "" {
		return "postgres", c.DatabaseURL
	}
	return "sqlite3", c.SQLitePath
}

func (c *Config) Validate() error {
	if c.AdminPasswordHash != "" {
		if !strings.HasPrefix(c.AdminPasswordHash, "$2a$") &&
			!strings.HasPrefix(c.AdminPasswordHash, "$2b$") &&
			!strings.HasPrefix(c.AdminPasswordHash, "$2y$") {
			return fmt.Errorf("ADMIN_PASSWORD_HASH must be a bcrypt hash (generate with: go run scripts/hash-password.go)")
		}
	}
	if c.AdminUser == "" {
		return fmt.Errorf("ADMIN_USER must not be empty")
	}
	if c.JWTExpiresIn <= 0 {
		return fmt.Errorf("JWT_EXPIRES_IN must be a positive duration")
	}
	if c.RateLimitMax <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX must be positive")
	}
	if c.RateLimitWindowMS <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be a positive number of milliseconds")
	}

	if c.IsProduction() {
		if err := validateSecret("JWT_SECRET", c.JWTSecret); err != nil {
			return err
		}
		if c.AdminPasswordHash == "" && c.AdminPass == "changeme" {
			return fmt.Errorf("ADMIN_PASS is the default; set ADMIN_PASS or ADMIN_PASSWORD_HASH in production")
		}
		if strings.HasPrefix(c.RedisURL, "redis://") {
			log.Warn().Msg("REDIS_URL uses redis:// (not TLS) in production: consider using rediss://")
		}
	} else if isWeak(c.JWTSecret) {
		log.Warn().Msg("JWT_SECRET is a known weak default: set a strong secret before deploying")
	}

	return nil
}

func validateSecret(name, value string) error {
	if len(value) < 32 {
		return fmt.Errorf("%s must be at least 32 characters in production (generate with: openssl rand -base64 32)", name)
	}
	if isWeak(value) {
		return fmt.Errorf("%s is a known weak default; set a strong secret in production", name)
	}
	return nil
}

func isWeak(value string) bool {
	for _, weak := range knownWeakSecrets {
		if value == weak {
			return true
		}
	}
	return false
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{FuncMap: parserFuncs()}); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
