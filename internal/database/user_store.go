package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/example/wordwise/pkg/models"
)

// Document keys stored in every user scope.
const (
	KeyWords      = "words"
	KeyCategories = "categories"
	KeySettings   = "settings"
)

// UserStore reads and writes the documents of one user. It satisfies the collection
// persister.
type UserStore struct {
	store Store
	scope string
}

// NewUserStore scopes store to the user identified by email.
func NewUserStore(store Store, email string) *UserStore {
	return &UserStore{store: store, scope: ScopeFor(email)}
}

// Scope returns the hashed scope of the user.
func (u *UserStore) Scope() string {
	return u.scope
}

// LoadWords returns the saved collection, or nil when the user has none yet.
func (u *UserStore) LoadWords(ctx context.Context) ([]models.WordEntry, error) {
	var words []models.WordEntry
	if _, err := u.load(ctx, KeyWords, &words); err != nil {
		return nil, err
	}
	return words, nil
}

func (u *UserStore) SaveWords(ctx context.Context, words []models.WordEntry) error {
	if words == nil {
		words = []models.WordEntry{}
	}
	return u.save(ctx, KeyWords, words)
}

// LoadCategories returns the stored category index, or nil when none is stored.
func (u *UserStore) LoadCategories(ctx context.Context) (models.CategoryIndex, error) {
	var index models.CategoryIndex
	if _, err := u.load(ctx, KeyCategories, &index); err != nil {
		return nil, err
	}
	return index, nil
}

func (u *UserStore) SaveCategories(ctx context.Context, index models.CategoryIndex) error {
	return u.save(ctx, KeyCategories, index)
}

// LoadSettings returns the stored settings. Missing fields keep their defaults.
func (u *UserStore) LoadSettings(ctx context.Context) (models.Settings, error) {
	settings := models.DefaultSettings()
	if _, err := u.load(ctx, KeySettings, &settings); err != nil {
		return models.DefaultSettings(), err
	}
	return settings, nil
}

func (u *UserStore) SaveSettings(ctx context.Context, settings models.Settings) error {
	return u.save(ctx, KeySettings, settings)
}

// Clear deletes every document of the user.
func (u *UserStore) Clear(ctx context.Context) error {
	var errs []error
	for _, key := range []string{KeyWords, KeyCategories, KeySettings} {
		if err := u.store.Delete(ctx, u.scope, key); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: clear user data: %w", models.ErrPersistence, err)
	}
	return nil
}

func (u *UserStore) load(ctx context.Context, key string, dst any) (bool, error) {
	return loadJSON(ctx, u.store, u.scope, key, dst)
}

func (u *UserStore) save(ctx context.Context, key string, value any) error {
	return saveJSON(ctx, u.store, u.scope, key, value)
}

// loadJSON decodes the document into dst. A missing document leaves dst untouched and
// reports false.
func loadJSON(ctx context.Context, store Store, scope, key string, dst any) (bool, error) {
	raw, err := store.Get(ctx, scope, key)
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %w", models.ErrPersistence, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("%w: decode %s: %w", models.ErrPersistence, key, err)
	}
	return true, nil
}

func saveJSON(ctx context.Context, store Store, scope, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", models.ErrPersistence, key, err)
	}
	if err := store.Set(ctx, scope, key, raw); err != nil {
		return fmt.Errorf("%w: %w", models.ErrPersistence, err)
	}
	return nil
}
