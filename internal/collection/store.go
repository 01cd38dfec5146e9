// Package collection owns a user's saved words and the derived category index.
package collection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/wordwise/internal/categorizer"
	"github.com/example/wordwise/pkg/models"
)

// Persister writes the collection documents to durable storage.
type Persister interface {
	SaveWords(ctx context.Context, words []models.WordEntry) error
	SaveCategories(ctx context.Context, index models.CategoryIndex) error
}

// CategorizeFunc labels a word from its text and definition.
type CategorizeFunc func(word, definition string) models.Categories

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides how entry ids are produced.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithCategorizer overrides the categorizer used on save.
func WithCategorizer(fn CategorizeFunc) Option {
	return func(s *Store) { s.categorize = fn }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.log = logger.With("component", "collection") }
}

// Store is the in-memory collection of one user. It is not safe for concurrent use;
// callers serialize access.
type Store struct {
	words  []models.WordEntry
	byWord map[string]int
	byID   map[string]int
	index  models.CategoryIndex

	persister  Persister
	categorize CategorizeFunc
	now        func() time.Time
	newID      func() string
	log        *slog.Logger

	// unsynced is set when the last write to the persister failed.
	unsynced bool
}

// New builds a Store from previously persisted documents. An index that does not match
// the entries is rebuilt from them.
func New(words []models.WordEntry, index models.CategoryIndex, persister Persister, opts ...Option) *Store {
	s := &Store{
		persister:  persister,
		categorize: categorizer.Categorize,
		now:        time.Now,
		newID:      newID,
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	repaired := s.load(words)
	if index == nil || repaired > 0 || !index.Consistent(len(s.words)) {
		if index != nil {
			s.log.Warn("category index out of sync, rebuilding",
				slog.Int("words", len(s.words)))
		}
		index = models.BuildCategoryIndex(s.words)
	}
	s.index = index.Clone()
	return s
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func wordKey(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// load replaces the entries, dropping duplicates and repairing values outside the
// allowed ranges. It returns how many entries were repaired.
func (s *Store) load(words []models.WordEntry) int {
	repaired := 0
	s.words = make([]models.WordEntry, 0, len(words))
	s.byWord = make(map[string]int, len(words))
	s.byID = make(map[string]int, len(words))
	for _, w := range words {
		key := wordKey(w.Word)
		if _, dup := s.byWord[key]; dup || key == "" {
			s.log.Warn("dropping duplicate or empty entry", slog.String("word", w.Word))
			continue
		}
		if w.ID == "" {
			w.ID = s.newID()
		}
		if _, dup := s.byID[w.ID]; dup {
			w.ID = s.newID()
		}
		if s.repair(&w) {
			repaired++
		}
		s.byWord[key] = len(s.words)
		s.byID[w.ID] = len(s.words)
		s.words = append(s.words, clone(w))
	}
	return repaired
}

// repair clamps the review counters and recategorizes an entry whose labels fall
// outside the facet value sets.
func (s *Store) repair(w *models.WordEntry) bool {
	changed := false
	if mastery := clampMastery(w.Difficulty); mastery != w.Difficulty {
		w.Difficulty = mastery
		changed = true
	}
	if w.ReviewCount < 0 {
		w.ReviewCount = 0
		changed = true
	}
	for _, f := range models.Facets {
		if models.ValidateCategory(f, w.Categories.Value(f)) != nil {
			w.Categories = s.categorize(w.Word, w.Definition)
			changed = true
			break
		}
	}
	if changed {
		s.log.Warn("repaired invalid entry", slog.String("word", w.Word))
	}
	return changed
}

func clampMastery(v int) int {
	return max(0, min(models.MaxMastery, v))
}

// AddWord snapshots the first meaning of a lookup result, categorizes it and appends it.
// The word keeps its case but surrounding whitespace is trimmed.
// A word already present (compared case-insensitively) fails with ErrDuplicate and
// nothing changes. When only the write to the persister fails, the entry is kept and
// returned together with an error wrapping ErrPersistence.
func (s *Store) AddWord(ctx context.Context, result models.LookupResult) (models.WordEntry, error) {
	word := strings.TrimSpace(result.Word)
	if result.Missing || word == "" {
		return models.WordEntry{}, fmt.Errorf("%w: no dictionary entry for %q", models.ErrNotFound, result.Word)
	}
	meaning, def, ok := result.Primary()
	if !ok {
		return models.WordEntry{}, fmt.Errorf("%w: %q has no definitions", models.ErrNotFound, word)
	}
	key := wordKey(word)
	if _, exists := s.byWord[key]; exists {
		return models.WordEntry{}, fmt.Errorf("%w: %q", models.ErrDuplicate, word)
	}

	now := s.now()
	entry := models.WordEntry{
		ID:           s.newID(),
		Word:         word,
		Phonetic:     result.Phonetic,
		Definition:   def.Definition,
		Example:      def.Example,
		PartOfSpeech: meaning.PartOfSpeech,
		Categories:   s.categorize(word, def.Definition),
		DateAdded:    now,
		NextReview:   now,
	}

	s.byWord[key] = len(s.words)
	s.byID[entry.ID] = len(s.words)
	s.words = append(s.words, entry)
	s.index.Add(entry.Categories)

	s.log.Debug("word added",
		slog.String("word", entry.Word),
		slog.String("difficulty", string(entry.Categories.Difficulty)),
		slog.String("topic", string(entry.Categories.Topic)),
		slog.String("word_type", string(entry.Categories.WordType)),
	)

	return clone(entry), s.persistAll(ctx)
}

// RecordAnswer applies one answered review question to the entry with the given id.
func (s *Store) RecordAnswer(ctx context.Context, id string, correct bool) (models.WordEntry, error) {
	i, ok := s.byID[id]
	if !ok {
		return models.WordEntry{}, fmt.Errorf("%w: word id %s", models.ErrNotFound, id)
	}

	now := s.now()
	w := &s.words[i]
	w.ReviewCount++
	w.LastReviewed = &now
	if correct {
		w.Difficulty = min(w.Difficulty+1, models.MaxMastery)
	} else {
		w.Difficulty = max(w.Difficulty-1, 0)
	}

	return clone(*w), s.persistWords(ctx)
}

// FilterByCategory returns every entry whose label for facet equals value, in
// collection order. An empty result is not an error.
func (s *Store) FilterByCategory(facet models.Facet, value string) []models.WordEntry {
	var out []models.WordEntry
	for _, w := range s.words {
		if w.Categories.Value(facet) == value {
			out = append(out, clone(w))
		}
	}
	return out
}

// Get returns the entry with the given id.
func (s *Store) Get(id string) (models.WordEntry, bool) {
	i, ok := s.byID[id]
	if !ok {
		return models.WordEntry{}, false
	}
	return clone(s.words[i]), true
}

// Contains reports whether word is already saved, ignoring case.
func (s *Store) Contains(word string) bool {
	_, ok := s.byWord[wordKey(word)]
	return ok
}

// Words returns a copy of every entry in insertion order.
func (s *Store) Words() []models.WordEntry {
	out := make([]models.WordEntry, len(s.words))
	for i, w := range s.words {
		out[i] = clone(w)
	}
	return out
}

// Index returns a copy of the category index.
func (s *Store) Index() models.CategoryIndex {
	return s.index.Clone()
}

// Len returns the collection size.
func (s *Store) Len() int {
	return len(s.words)
}

// Unsynced reports whether the last write to the persister failed.
func (s *Store) Unsynced() bool {
	return s.unsynced
}

// Replace swaps the whole collection, e.g. when restoring a backup. Duplicates are
// dropped, mastery scores are clamped to [0, MaxMastery], negative review counts reset
// to 0, entries with unknown category values are recategorized, and the category index
// is rebuilt from the result.
func (s *Store) Replace(ctx context.Context, words []models.WordEntry) error {
	s.load(words)
	s.index = models.BuildCategoryIndex(s.words)
	s.log.Info("collection replaced", slog.Int("words", len(s.words)))
	return s.persistAll(ctx)
}

// Flush writes the current state again, typically after a persistence failure.
func (s *Store) Flush(ctx context.Context) error {
	return s.persistAll(ctx)
}

func (s *Store) persistWords(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	if err := s.persister.SaveWords(ctx, s.Words()); err != nil {
		return s.failed("words", err)
	}
	s.unsynced = false
	return nil
}

func (s *Store) persistAll(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	wordsErr := s.persister.SaveWords(ctx, s.Words())
	catErr := s.persister.SaveCategories(ctx, s.Index())
	if err := errors.Join(wordsErr, catErr); err != nil {
		return s.failed("collection", err)
	}
	s.unsynced = false
	return nil
}

func (s *Store) failed(document string, err error) error {
	s.unsynced = true
	s.log.Error("persist collection failed",
		slog.String("document", document),
		slog.String("error", err.Error()),
	)
	if errors.Is(err, models.ErrPersistence) {
		return err
	}
	return fmt.Errorf("%w: save %s: %w", models.ErrPersistence, document, err)
}

func clone(w models.WordEntry) models.WordEntry {
	if w.LastReviewed != nil {
		t := *w.LastReviewed
		w.LastReviewed = &t
	}
	return w
}
