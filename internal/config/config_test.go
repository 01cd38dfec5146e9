package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"STORAGE_BACKEND", "STORAGE_SQLITE_PATH", "STORAGE_POSTGRES_DSN", "STORAGE_REDIS_URL", "STORAGE_BADGER_PATH",
		"DICTIONARY_BASE_URL", "DICTIONARY_TIMEOUT",
		"AUTH_PROVIDER", "AUTH_GOOGLE_CLIENT_ID", "AUTH_GOOGLE_CLIENT_SECRET", "AUTH_GOOGLE_REDIRECT_URL",
		"AUTH_TOKEN_SECRET", "AUTH_TOKEN_TTL",
		"OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL",
		"TELEGRAM_BOT_TOKEN", "TELEGRAM_DEBUG",
		"DIGEST_ENABLED", "DIGEST_TIME", "METRICS_ADDR", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "data/wordwise.db", cfg.Storage.SQLitePath)
	assert.Equal(t, 10*time.Second, cfg.Dictionary.Timeout)
	assert.Equal(t, "mock", cfg.Auth.Provider)
	assert.Equal(t, 720*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "09:00", cfg.Digest.Time)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.False(t, cfg.OpenAIEnabled())
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("STORAGE_BACKEND=badger\nOPENAI_API_KEY=sk-test\nDIGEST_TIME=07:30\n"), 0o600))
	t.Setenv("DIGEST_TIME", "21:15")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "badger", cfg.Storage.Backend)
	assert.True(t, cfg.OpenAIEnabled())
	assert.Equal(t, "21:15", cfg.Digest.Time, "environment wins over the file")
}

func TestLoadMissingEnvFileIsIgnored(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown backend", map[string]string{"STORAGE_BACKEND": "etcd"}},
		{"postgres without dsn", map[string]string{"STORAGE_BACKEND": "postgres"}},
		{"redis without url", map[string]string{"STORAGE_BACKEND": "redis"}},
		{"google without credentials", map[string]string{"AUTH_PROVIDER": "google"}},
		{"unknown provider", map[string]string{"AUTH_PROVIDER": "github"}},
		{"short secret", map[string]string{"AUTH_TOKEN_SECRET": "short"}},
		{"bad digest time", map[string]string{"DIGEST_TIME": "9am"}},
		{"bad log format", map[string]string{"LOG_FORMAT": "xml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestDigestClock(t *testing.T) {
	clock, err := DigestConfig{Time: "07:45"}.Clock()
	require.NoError(t, err)
	assert.Equal(t, 7, clock.Hour())
	assert.Equal(t, 45, clock.Minute())
}

func TestNewLogger(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: "info", Format: "json"}, &buf)
	logger.Debug("hidden")
	logger.Info("shown", slog.String("k", "v"))

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"k":"v"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelInfo, parseLevel("info"))
	assert.Equal(t, slog.LevelError, parseLevel(" error "))
	assert.Equal(t, slog.LevelWarn, parseLevel(""))
}
