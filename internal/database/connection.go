package database

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Backend names accepted by Open.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendBadger   = "badger"
)

// Config selects and configures the storage backend.
type Config struct {
	Backend     string
	SQLitePath  string
	PostgresDSN string
	RedisURL    string
	BadgerPath  string
	// InMemory opens sqlite and badger without touching disk.
	InMemory bool
}

// Open connects to the configured backend and prepares it for use.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", BackendSQLite:
		path := cfg.SQLitePath
		if cfg.InMemory {
			path = ":memory:"
		}
		db, err := ConnectSQLite(path)
		if err != nil {
			return nil, err
		}
		logger.Info("storage opened", slog.String("backend", BackendSQLite), slog.String("path", path))
		return NewSQLStore(db), nil
	case BackendPostgres:
		db, err := ConnectPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		logger.Info("storage opened", slog.String("backend", BackendPostgres))
		return NewSQLStore(db), nil
	case BackendRedis:
		store, err := NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		logger.Info("storage opened", slog.String("backend", BackendRedis))
		return store, nil
	case BackendBadger:
		store, err := OpenBadger(BadgerConfig{Path: cfg.BadgerPath, InMemory: cfg.InMemory, Logger: logger})
		if err != nil {
			return nil, err
		}
		logger.Info("storage opened", slog.String("backend", BackendBadger), slog.String("path", cfg.BadgerPath))
		return store, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}

// ConnectSQLite opens (and creates if needed) a sqlite database file.
func ConnectSQLite(path string) (*sqlx.DB, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite doesn't support multiple writers, and each :memory: connection is its own database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// ConnectPostgres opens a postgres connection pool.
func ConnectPostgres(ctx context.Context, dsn string) (*sqlx.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is empty")
	}
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// initializeSchema creates the document table if it doesn't exist
func initializeSchema(db *sqlx.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS kv_entries (
			scope TEXT NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (scope, key)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create kv_entries table: %w", err)
	}
	return nil
}
