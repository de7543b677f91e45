package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type Config struct {
	Port        string
	GinMode     string
	LogLevel    string
	LogFormat   string
	StoreDriver string
	DatabaseURL string
	SQLitePath  string
	RedisURL    string
	CacheTTL    time.Duration
	CORSOrigins []string
	RateLimit   RateLimitConfig
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// LoadEnv loads a .env file from the working directory. A missing file is
// fine since deployed environments set variables directly.
func LoadEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Load reads configuration from the environment, applying defaults for
// anything unset.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("STORE_DRIVER", DriverPostgres)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("SQLITE_PATH", "franchises.db")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")

	cfg := &Config{
		Port:        v.GetString("PORT"),
		GinMode:     v.GetString("GIN_MODE"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		LogFormat:   v.GetString("LOG_FORMAT"),
		StoreDriver: strings.ToLower(v.GetString("STORE_DRIVER")),
		DatabaseURL: v.GetString("DATABASE_URL"),
		SQLitePath:  v.GetString("SQLITE_PATH"),
		RedisURL:    v.GetString("REDIS_URL"),
		CacheTTL:    v.GetDuration("CACHE_TTL"),
		CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   v.GetDuration("RATE_LIMIT_WINDOW"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the settings needed by the selected store are present.
func (c *Config) Validate() error {
	var problems []string

	switch c.StoreDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			problems = append(problems, "DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			problems = append(problems, "SQLITE_PATH is required when STORE_DRIVER=sqlite")
		}
	case DriverMemory:
	default:
		problems = append(problems, fmt.Sprintf("unknown STORE_DRIVER %q", c.StoreDriver))
	}

	if c.RateLimit.Requests < 1 {
		problems = append(problems, "RATE_LIMIT_REQUESTS must be positive")
	}
	if c.RateLimit.Window <= 0 {
		problems = append(problems, "RATE_LIMIT_WINDOW must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
