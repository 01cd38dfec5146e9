// Package database persists per-user documents in a scoped key-value store backed by
// sqlite, postgres, redis or badger.
package database

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ErrKeyNotFound is returned by Get when nothing is stored under the key.
var ErrKeyNotFound = errors.New("key not found")

// Store is a scoped byte-value store. Values are opaque to the store.
type Store interface {
	Get(ctx context.Context, scope, key string) ([]byte, error)
	Set(ctx context.Context, scope, key string, value []byte) error
	Delete(ctx context.Context, scope, key string) error
	Close() error
}

// GlobalScope holds documents that do not belong to one user.
const GlobalScope = "global"

// ScopeFor derives the stable storage scope of a user from their email.
func ScopeFor(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	return "u" + strconv.FormatUint(xxhash.Sum64String(normalized), 16)
}
