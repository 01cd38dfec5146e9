package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// SQLStore keeps documents in the kv_entries table.
type SQLStore struct {
	db *sqlx.DB
}

// NewSQLStore wraps an open connection whose schema has been initialized.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Get retrieves a document
func (s *SQLStore) Get(ctx context.Context, scope, key string) ([]byte, error) {
	query := s.db.Rebind(`SELECT value FROM kv_entries WHERE scope = ? AND key = ?`)

	var value string
	err := s.db.GetContext(ctx, &value, query, scope, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s/%s: %w", scope, key, err)
	}
	return []byte(value), nil
}

// Set inserts or replaces a document
func (s *SQLStore) Set(ctx context.Context, scope, key string, value []byte) error {
	query := s.db.Rebind(`
		INSERT INTO kv_entries (scope, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (scope, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`)

	if _, err := s.db.ExecContext(ctx, query, scope, key, string(value), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to set %s/%s: %w", scope, key, err)
	}
	return nil
}

// Delete removes a document. Deleting a missing key is not an error.
func (s *SQLStore) Delete(ctx context.Context, scope, key string) error {
	query := s.db.Rebind(`DELETE FROM kv_entries WHERE scope = ? AND key = ?`)
	if _, err := s.db.ExecContext(ctx, query, scope, key); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", scope, key, err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	return s.db.Close()
}
