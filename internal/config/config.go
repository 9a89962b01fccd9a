package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type Config struct {
	App struct {
		Port string
	}
	Postgres PostgresConfig
	Auth     struct {
		JWTSecret string
		TokenTTL  time.Duration
	}
	Reaper struct {
		Interval time.Duration
		MaxAge   time.Duration
	}
	MigrationsPath string
}

// Load reads configuration from the environment, optionally seeded from a
// .env file. Database credentials and the signing secret are required;
// everything else has a default.
func Load(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	cfg := &Config{}
	cfg.App.Port = getenv("APP_PORT", "3000")

	cfg.Postgres.Host = os.Getenv("DB_HOST")
	cfg.Postgres.Port = getenv("DB_PORT", "5432")
	cfg.Postgres.User = os.Getenv("DB_USER")
	cfg.Postgres.Password = os.Getenv("DB_PASSWORD")
	cfg.Postgres.DBName = os.Getenv("DB_NAME")
	cfg.Postgres.SSLMode = getenv("DB_SSLMODE", "disable")
	for _, req := range []struct{ key, val string }{
		{"DB_HOST", cfg.Postgres.Host},
		{"DB_USER", cfg.Postgres.User},
		{"DB_PASSWORD", cfg.Postgres.Password},
		{"DB_NAME", cfg.Postgres.DBName},
	} {
		if req.val == "" {
			return nil, fmt.Errorf("%s is required", req.key)
		}
	}

	cfg.Auth.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	var err error
	if cfg.Auth.TokenTTL, err = getduration("JWT_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.Reaper.Interval, err = getduration("REAPER_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.Reaper.MaxAge, err = getduration("REAPER_MAX_AGE", time.Hour); err != nil {
		return nil, err
	}

	cfg.MigrationsPath = getenv("MIGRATIONS_PATH", "migrations")

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
