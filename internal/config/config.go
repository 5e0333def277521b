package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Config struct {
	Env            string        `mapstructure:"SA_ENV"`
	HTTPAddr       string        `mapstructure:"SA_HTTP_ADDR"`
	RequestTimeout time.Duration `mapstructure:"SA_REQUEST_TIMEOUT"`
	DefaultFormat  string        `mapstructure:"SA_DEFAULT_FORMAT"`

	Database DBConfig       `mapstructure:",squash"`
	Cache    CacheConfig    `mapstructure:",squash"`
	Security SecurityConfig `mapstructure:",squash"`
}

type DBConfig struct {
	// URL keeps the historical variable name so existing .env files work unchanged.
	URL            string        `mapstructure:"DATABASE_URL"`
	Type           string        `mapstructure:"SA_DB_TYPE"`
	MaxConns       int           `mapstructure:"SA_DB_MAX_CONNS"`
	ConnectTimeout time.Duration `mapstructure:"SA_DB_CONNECT_TIMEOUT"`
}

type CacheConfig struct {
	RedisAddr string        `mapstructure:"SA_REDIS_ADDR"` // empty disables the result cache
	TTL       time.Duration `mapstructure:"SA_CACHE_TTL"`
}

type SecurityConfig struct {
	RateLimitRPM       int      `mapstructure:"SA_RATE_LIMIT_RPM"`
	CORSAllowedOrigins []string `mapstructure:"SA_CORS_ALLOWED_ORIGINS"`
}

func loadDotEnvFiles() {
	candidates := []string{
		".env",
		filepath.Join("..", ".env"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			_ = gotenv.Load(path) // variables already set in the environment win
		}
	}
}

func Load() (*Config, error) {
	loadDotEnvFiles()

	v := viper.New()
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("SA_ENV", "dev")
	v.SetDefault("SA_HTTP_ADDR", "127.0.0.1:8080")
	v.SetDefault("SA_REQUEST_TIMEOUT", "0s")
	v.SetDefault("SA_DEFAULT_FORMAT", "text")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("SA_DB_TYPE", "postgres")
	v.SetDefault("SA_DB_MAX_CONNS", 4)
	v.SetDefault("SA_DB_CONNECT_TIMEOUT", "5s")
	v.SetDefault("SA_REDIS_ADDR", "")
	v.SetDefault("SA_CACHE_TTL", "30s")
	v.SetDefault("SA_RATE_LIMIT_RPM", 0)
	v.SetDefault("SA_CORS_ALLOWED_ORIGINS", "")

	// Handle array parsing for comma-separated values
	if origins := v.GetString("SA_CORS_ALLOWED_ORIGINS"); origins != "" {
		v.Set("SA_CORS_ALLOWED_ORIGINS", splitList(origins))
	} else {
		v.Set("SA_CORS_ALLOWED_ORIGINS", []string{})
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.normalize()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) normalize() {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.DefaultFormat = strings.ToLower(strings.TrimSpace(c.DefaultFormat))
	c.Database.Type = strings.ToLower(strings.TrimSpace(c.Database.Type))
	c.Database.URL = strings.TrimSpace(c.Database.URL)
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	switch c.Database.Type {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("invalid SA_DB_TYPE %q (must be postgres or sqlite)", c.Database.Type)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("SA_DB_MAX_CONNS must be at least 1, got %d", c.Database.MaxConns)
	}
	switch c.DefaultFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid SA_DEFAULT_FORMAT %q (must be text or json)", c.DefaultFormat)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("SA_REQUEST_TIMEOUT must not be negative")
	}
	if c.Security.RateLimitRPM < 0 {
		return fmt.Errorf("SA_RATE_LIMIT_RPM must not be negative")
	}
	if c.Cache.RedisAddr != "" && c.Cache.TTL <= 0 {
		return fmt.Errorf("SA_CACHE_TTL must be positive when SA_REDIS_ADDR is set")
	}
	return nil
}

// CacheEnabled reports whether a Redis address was configured.
func (c *Config) CacheEnabled() bool {
	return c.Cache.RedisAddr != ""
}
