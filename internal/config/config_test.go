package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"DATABASE_URL", "REDIS_ADDR", "REDIS_DB", "SESSION_TTL",
		"GEMINI_API_KEY", "GEMINI_MODEL", "GENERATION_TIMEOUT", "QUIZ_LOG_LEVEL",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg := Load()

	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.Gemini.APIKey)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 60*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.Redis.SessionTTL)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("GENERATION_TIMEOUT", "not a duration")

	cfg := Load()

	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 2*time.Hour, cfg.Redis.SessionTTL)
	assert.Equal(t, 60*time.Second, cfg.Gemini.Timeout)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GEMINI_MODEL=gemini-test\n"), 0o600))

	t.Setenv("GEMINI_MODEL", "")
	require.NoError(t, os.Unsetenv("GEMINI_MODEL"))

	require.NoError(t, LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")))
	assert.Equal(t, "gemini-test", Load().Gemini.Model)
}

func TestBindFlags(t *testing.T) {
	t.Setenv("QUIZ_LOG_LEVEL", "warn")
	cfg := Load()

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(flags, cfg)
	require.NoError(t, flags.Parse([]string{"--log-level", "debug", "--session-ttl", "30m"}))

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 30*time.Minute, cfg.Redis.SessionTTL)
}
