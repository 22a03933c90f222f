// Package config loads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"registration_backend/internal/platform/db"
	"registration_backend/internal/platform/redis"
)

// Config is the complete server configuration.
type Config struct {
	HTTPAddr    string
	LogLevel    slog.Level
	CORSEnabled bool

	DB    db.Config
	Redis redis.Config

	// UserListCacheTTL bounds how long a cached listing may be served.
	UserListCacheTTL time.Duration

	// BcryptCost of 0 keeps bcrypt.DefaultCost.
	BcryptCost int
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		HTTPAddr: ":8080",
		LogLevel: slog.LevelInfo,
		DB: db.Config{
			Driver: db.DriverSQLite,
			Path:   "./database/users.db",
		},
		UserListCacheTTL: time.Minute,
	}
}

// Load reads envFile (if present) into the process environment and then resolves
// every setting from environment variables, falling back to Defaults.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("failed to read %s: %w", envFile, err)
			}
			slog.Info("env file not found; using system environment variables", "path", envFile)
		}
	}

	d := Defaults()
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("HTTP_ADDR", d.HTTPAddr)
	v.SetDefault("LOG_LEVEL", d.LogLevel.String())
	v.SetDefault("CORS_ENABLED", false)
	v.SetDefault("DB_DRIVER", d.DB.Driver)
	v.SetDefault("DB_PATH", d.DB.Path)
	v.SetDefault("DB_DSN", "")
	v.SetDefault("REDIS_HOST", "")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("USER_LIST_CACHE_TTL", d.UserListCacheTTL.String())
	v.SetDefault("BCRYPT_COST", 0)

	var level slog.Level
	if err := level.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		return Config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	driver := strings.ToLower(v.GetString("DB_DRIVER"))
	if driver != db.DriverSQLite && driver != db.DriverPostgres {
		return Config{}, fmt.Errorf("invalid DB_DRIVER %q", driver)
	}

	ttl, err := time.ParseDuration(v.GetString("USER_LIST_CACHE_TTL"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid USER_LIST_CACHE_TTL: %w", err)
	}

	return Config{
		HTTPAddr:    v.GetString("HTTP_ADDR"),
		LogLevel:    level,
		CORSEnabled: v.GetBool("CORS_ENABLED"),
		DB: db.Config{
			Driver: driver,
			Path:   v.GetString("DB_PATH"),
			DSN:    v.GetString("DB_DSN"),
		},
		Redis: redis.Config{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		UserListCacheTTL: ttl,
		BcryptCost:       v.GetInt("BCRYPT_COST"),
	}, nil
}
