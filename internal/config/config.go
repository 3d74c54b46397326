// Package config loads the application settings from the environment, an optional
// .env file and command line flags.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

type Config struct {
	// DatabaseURL selects the PostgreSQL store; empty means in-memory.
	DatabaseURL string
	Redis       RedisConfig
	Gemini      GeminiConfig
	LogLevel    string
}

type RedisConfig struct {
	// Addr selects the Redis session store; empty means in-memory.
	Addr       string
	Password   string
	DB         int
	SessionTTL time.Duration
}

type GeminiConfig struct {
	// APIKey enables remote generation; without it only the fallback bank is used.
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Load reads the settings from environment variables or uses defaults.
func Load() *Config {
	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		Redis: RedisConfig{
			Addr:       getEnv("REDIS_ADDR", ""),
			Password:   getEnv("REDIS_PASSWORD", ""),
			DB:         getEnvInt("REDIS_DB", 0),
			SessionTTL: getEnvDuration("SESSION_TTL", 24*time.Hour),
		},
		Gemini: GeminiConfig{
			APIKey:  getEnv("GEMINI_API_KEY", ""),
			Model:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			BaseURL: getEnv("GEMINI_BASE_URL", ""),
			Timeout: getEnvDuration("GENERATION_TIMEOUT", 60*time.Second),
		},
		LogLevel: getEnv("QUIZ_LOG_LEVEL", "info"),
	}
}

// LoadDotEnv loads variables from the given files, .env by default, without
// overriding variables already set. Missing files are ignored.
func LoadDotEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}

	for _, name := range filenames {
		if err := godotenv.Load(name); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}

	return nil
}

// BindFlags registers flags that override the loaded values.
func BindFlags(flags *pflag.FlagSet, cfg *Config) {
	flags.StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "PostgreSQL connection string, in-memory store when empty")
	flags.StringVar(&cfg.Redis.Addr, "redis-addr", cfg.Redis.Addr, "Redis address for game sessions, in-memory when empty")
	flags.IntVar(&cfg.Redis.DB, "redis-db", cfg.Redis.DB, "Redis database number")
	flags.DurationVar(&cfg.Redis.SessionTTL, "session-ttl", cfg.Redis.SessionTTL, "lifetime of an idle game session")
	flags.StringVar(&cfg.Gemini.Model, "model", cfg.Gemini.Model, "Gemini model used for question generation")
	flags.DurationVar(&cfg.Gemini.Timeout, "generation-timeout", cfg.Gemini.Timeout, "upper bound of one remote generation, retries included")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
