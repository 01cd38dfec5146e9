package database

import (
	"context"
	"fmt"

	"github.com/example/wordwise/pkg/models"
)

const keySession = "session"

// SessionRepository remembers who is signed in on this machine.
type SessionRepository struct {
	store Store
}

// NewSessionRepository stores the signed-in identity in the global scope of store.
func NewSessionRepository(store Store) *SessionRepository {
	return &SessionRepository{store: store}
}

// Save stores the signed-in identity.
func (r *SessionRepository) Save(ctx context.Context, id models.Identity) error {
	return saveJSON(ctx, r.store, GlobalScope, keySession, id)
}

// Current returns the signed-in identity, or ErrUnauthenticated when nobody is.
func (r *SessionRepository) Current(ctx context.Context) (models.Identity, error) {
	var id models.Identity
	found, err := loadJSON(ctx, r.store, GlobalScope, keySession, &id)
	if err != nil {
		return models.Identity{}, err
	}
	if !found || id.Email == "" {
		return models.Identity{}, models.ErrUnauthenticated
	}
	return id, nil
}

// Clear forgets the signed-in identity.
func (r *SessionRepository) Clear(ctx context.Context) error {
	if err := r.store.Delete(ctx, GlobalScope, keySession); err != nil {
		return fmt.Errorf("%w: %w", models.ErrPersistence, err)
	}
	return nil
}
