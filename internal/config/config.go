// Package config loads application settings from the environment.
package config

import "time"

// Config is the root application configuration.
type Config struct {
	Storage    StorageConfig
	Dictionary DictionaryConfig
	Auth       AuthConfig
	OpenAI     OpenAIConfig
	Telegram   TelegramConfig
	Digest     DigestConfig
	Metrics    MetricsConfig
	Log        LogConfig
}

// StorageConfig selects the key-value backend.
type StorageConfig struct {
	Backend     string `env:"STORAGE_BACKEND"      env-default:"sqlite"`
	SQLitePath  string `env:"STORAGE_SQLITE_PATH"  env-default:"data/wordwise.db"`
	PostgresDSN string `env:"STORAGE_POSTGRES_DSN"`
	RedisURL    string `env:"STORAGE_REDIS_URL"`
	BadgerPath  string `env:"STORAGE_BADGER_PATH"  env-default:"data/badger"`
}

// DictionaryConfig configures the lookup client.
type DictionaryConfig struct {
	BaseURL string        `env:"DICTIONARY_BASE_URL" env-default:"https://api.dictionaryapi.dev/api/v2/entries/en"`
	Timeout time.Duration `env:"DICTIONARY_TIMEOUT"  env-default:"10s"`
}

// AuthConfig selects the sign-in provider and signs session tokens.
type AuthConfig struct {
	Provider           string        `env:"AUTH_PROVIDER"             env-default:"mock"`
	GoogleClientID     string        `env:"AUTH_GOOGLE_CLIENT_ID"`
	GoogleClientSecret string        `env:"AUTH_GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string        `env:"AUTH_GOOGLE_REDIRECT_URL"  env-default:"http://127.0.0.1:8085/callback"`
	TokenSecret        string        `env:"AUTH_TOKEN_SECRET"         env-default:"wordwise-local-development-secret"`
	TokenTTL           time.Duration `env:"AUTH_TOKEN_TTL"            env-default:"720h"`
}

// OpenAIConfig enables example-sentence generation when APIKey is set.
type OpenAIConfig struct {
	APIKey  string `env:"OPENAI_API_KEY"`
	Model   string `env:"OPENAI_MODEL"    env-default:"gpt-4o-mini"`
	BaseURL string `env:"OPENAI_BASE_URL"`
}

// TelegramConfig configures the bot front end.
type TelegramConfig struct {
	Token string `env:"TELEGRAM_BOT_TOKEN"`
	Debug bool   `env:"TELEGRAM_DEBUG" env-default:"false"`
}

// DigestConfig schedules the daily digest sent by the bot.
type DigestConfig struct {
	Enabled bool   `env:"DIGEST_ENABLED" env-default:"true"`
	Time    string `env:"DIGEST_TIME"    env-default:"09:00"`
}

// MetricsConfig exposes prometheus metrics when Addr is set.
type MetricsConfig struct {
	Addr string `env:"METRICS_ADDR"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL"  env-default:"warn"`
	Format string `env:"LOG_FORMAT" env-default:"text"`
}

// OpenAIEnabled reports whether example generation is configured.
func (c *Config) OpenAIEnabled() bool {
	return c.OpenAI.APIKey != ""
}
