package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"strconv"
	"strings"
	"sync"

	"github.com/example/wordwise/internal/collection"
	"github.com/example/wordwise/internal/database"
	"github.com/example/wordwise/internal/excel"
	"github.com/example/wordwise/internal/export"
	"github.com/example/wordwise/internal/metrics"
	"github.com/example/wordwise/internal/review"
	"github.com/example/wordwise/internal/stats"
	"github.com/example/wordwise/pkg/models"
)

// Workspace is one user's collection, review engine and settings. Its methods are
// safe for concurrent use.
type Workspace struct {
	svc   *Service
	email string
	users *database.UserStore
	log   *slog.Logger
	rng   *rand.Rand

	mu       sync.Mutex
	words    *collection.Store
	engine   *review.Engine
	settings models.Settings
}

// openWorkspace loads the user's documents. Service.mu must be held.
func openWorkspace(ctx context.Context, svc *Service, email string) (*Workspace, error) {
	users := database.NewUserStore(svc.store, email)

	words, err := users.LoadWords(ctx)
	if err != nil {
		return nil, err
	}
	index, err := users.LoadCategories(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := users.LoadSettings(ctx)
	if err != nil {
		return nil, err
	}

	w := &Workspace{
		svc:      svc,
		email:    email,
		users:    users,
		log:      svc.log.With("scope", users.Scope()),
		rng:      rand.New(rand.NewSource(svc.rng.Int63())),
		settings: settings,
	}
	w.reset(words, index)
	return w, nil
}

// reset rebuilds the collection and the review engine. Callers hold mu or own w.
func (w *Workspace) reset(words []models.WordEntry, index models.CategoryIndex) {
	w.words = collection.New(words, index, meteredPersister{w.users},
		collection.WithClock(w.svc.now),
		collection.WithLogger(w.log),
	)
	w.engine = review.NewEngine(w.words,
		review.WithShuffler(w.rng),
		review.WithClock(w.svc.now),
		review.WithLogger(w.log),
	)
}

// Email returns the owner of the workspace.
func (w *Workspace) Email() string {
	return w.email
}

// Save adds a looked up word to the collection, generating an example sentence
// first when the lookup has none.
func (w *Workspace) Save(ctx context.Context, result models.LookupResult) (models.WordEntry, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.words.Contains(result.Word) {
		result = w.svc.enrich(ctx, result)
	}
	entry, err := w.words.AddWord(ctx, result)
	switch {
	case err == nil, errors.Is(err, models.ErrPersistence):
		metrics.ObserveSave(metrics.SaveCreated)
	case errors.Is(err, models.ErrDuplicate):
		metrics.ObserveSave(metrics.SaveDuplicate)
	default:
		metrics.ObserveSave(metrics.SaveRejected)
	}
	return entry, err
}

// ImportWord looks word up and saves it.
func (w *Workspace) ImportWord(ctx context.Context, word string) error {
	result, err := w.svc.Search(ctx, word)
	if err != nil {
		return err
	}
	_, err = w.Save(ctx, result)
	return err
}

// ImportWordList saves every word of a spreadsheet or CSV word list.
func (w *Workspace) ImportWordList(ctx context.Context, cfg excel.ImportConfig) (*excel.ImportResult, error) {
	return excel.ImportWords(ctx, cfg, w)
}

// ImportBackup replaces the collection with the words of a JSON backup. Settings
// are restored too when the backup carries them. Any active review is cancelled.
func (w *Workspace) ImportBackup(ctx context.Context, r io.Reader) (int, error) {
	backup, err := export.ReadBackup(r)
	if err != nil {
		return 0, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.cancelActive()
	if err := w.words.Replace(ctx, backup.Words); err != nil {
		return w.words.Len(), err
	}
	if backup.Settings != nil {
		w.settings = *backup.Settings
		if err := w.users.SaveSettings(ctx, w.settings); err != nil {
			return w.words.Len(), err
		}
	}
	w.log.Info("backup imported", "words", w.words.Len())
	return w.words.Len(), nil
}

// Words returns a copy of the collection.
func (w *Workspace) Words() []models.WordEntry {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.words.Words()
}

// List searches, filters and sorts the collection.
func (w *Workspace) List(opts collection.ListOptions) []models.WordEntry {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.words.List(opts)
}

// Flush retries writing the collection after a persistence failure.
func (w *Workspace) Flush(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.words.Flush(ctx)
}

// StartReview opens a review session over one category value.
func (w *Workspace) StartReview(facet models.Facet, value string) (review.Card, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	card, err := w.engine.Start(facet, value)
	if err == nil {
		metrics.ObserveSession(metrics.SessionStarted)
	}
	return card, err
}

// CurrentCard returns the card being asked.
func (w *Workspace) CurrentCard() (review.Card, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.engine.Current()
}

// Reveal shows the definition of the current card.
func (w *Workspace) Reveal() (review.Card, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.engine.Reveal()
}

// Answer records the self-assessment for the current card.
func (w *Workspace) Answer(ctx context.Context, correct bool) (review.Outcome, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	out, err := w.engine.Answer(ctx, correct)
	if err != nil && !errors.Is(err, models.ErrPersistence) {
		return out, err
	}
	metrics.ObserveAnswer(correct)
	if out.Summary != nil {
		metrics.ObserveSession(metrics.SessionCompleted)
	}
	return out, err
}

// CancelReview abandons the active session.
func (w *Workspace) CancelReview() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.engine.Cancel(); err != nil {
		return err
	}
	metrics.ObserveSession(metrics.SessionCancelled)
	return nil
}

// ReviewState returns the lifecycle stage of the review engine.
func (w *Workspace) ReviewState() review.State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.engine.State()
}

func (w *Workspace) cancelActive() {
	if w.engine.State() == review.Active {
		if err := w.engine.Cancel(); err == nil {
			metrics.ObserveSession(metrics.SessionCancelled)
		}
	}
}

// Stats computes the statistics report.
func (w *Workspace) Stats() stats.Report {
	w.mu.Lock()
	defer w.mu.Unlock()
	return stats.Compute(w.words.Words(), w.words.Index(), w.svc.now())
}

// Progress reports practice progress for a category value, or for the whole
// collection when facet is empty.
func (w *Workspace) Progress(facet models.Facet, value string) (stats.Progress, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if facet == "" {
		return stats.Overview(w.words.Words()), nil
	}
	if err := models.ValidateCategory(facet, value); err != nil {
		return stats.Progress{}, err
	}
	return stats.CategoryProgress(w.words.Words(), facet, value), nil
}

// Settings returns the user's preferences.
func (w *Workspace) Settings() models.Settings {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.settings
}

// UpdateSetting changes one preference by its JSON name and saves the document.
func (w *Workspace) UpdateSetting(ctx context.Context, key, value string) (models.Settings, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	next, err := applySetting(w.settings, key, value)
	if err != nil {
		return w.settings, err
	}
	if err := w.users.SaveSettings(ctx, next); err != nil {
		metrics.ObservePersistenceError(database.KeySettings)
		return w.settings, err
	}
	w.settings = next
	return next, nil
}

func applySetting(s models.Settings, key, value string) (models.Settings, error) {
	value = strings.TrimSpace(value)
	switch strings.ToLower(key) {
	case "theme":
		if value != "light" && value != "dark" {
			return s, fmt.Errorf("theme must be light or dark, got %q", value)
		}
		s.Theme = value
	case "reviewmode", "review_mode":
		if value == "" {
			return s, errors.New("review mode must not be empty")
		}
		s.ReviewMode = value
	case "dailygoal", "daily_goal":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return s, fmt.Errorf("daily goal must be a positive number, got %q", value)
		}
		s.DailyGoal = n
	case "notifications":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return s, fmt.Errorf("notifications must be true or false, got %q", value)
		}
		s.Notifications = b
	case "autoplay", "auto_play":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return s, fmt.Errorf("autoPlay must be true or false, got %q", value)
		}
		s.AutoPlay = b
	default:
		return s, fmt.Errorf("unknown setting %q", key)
	}
	return s, nil
}

// Export writes the collection in the given format. filter only applies to the
// study sheet.
func (w *Workspace) Export(out io.Writer, format export.Format, filter *export.Filter) error {
	w.mu.Lock()
	words := w.words.Words()
	index := w.words.Index()
	settings := w.settings
	w.mu.Unlock()

	now := w.svc.now()
	switch format {
	case export.FormatJSON:
		return export.WriteJSON(out, words, w.email, now)
	case export.FormatBackup:
		return export.WriteUserData(out, words, index, settings, w.email, now)
	case export.FormatCSV:
		return export.WriteCSV(out, words)
	case export.FormatFlashcards:
		return export.WriteFlashcards(out, words)
	case export.FormatStudySheet:
		return export.WriteStudySheet(out, words, filter, now)
	case export.FormatXLSX:
		return excel.WriteWorkbook(out, words, index)
	}
	return fmt.Errorf("unknown export format %q", format)
}

// ClearData drops the user's documents and starts over with an empty collection.
func (w *Workspace) ClearData(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.cancelActive()
	if err := w.users.Clear(ctx); err != nil {
		return err
	}
	w.settings = models.DefaultSettings()
	w.reset(nil, nil)
	w.log.Info("user data cleared")
	return nil
}

// Story asks the writer for a short text using up to five of the most recent words.
func (w *Workspace) Story(ctx context.Context) (string, error) {
	if w.svc.writer == nil {
		return "", fmt.Errorf("%w: text generation is not configured", models.ErrServiceUnavailable)
	}
	words := w.List(collection.ListOptions{SortBy: collection.SortDateAdded})
	if len(words) == 0 {
		return "", fmt.Errorf("%w: the collection is empty", models.ErrNotFound)
	}
	if len(words) > 5 {
		words = words[:5]
	}
	return w.svc.writer.GenerateTextWithWords(ctx, words)
}

// meteredPersister counts failed writes of the user documents.
type meteredPersister struct {
	users *database.UserStore
}

func (p meteredPersister) SaveWords(ctx context.Context, words []models.WordEntry) error {
	err := p.users.SaveWords(ctx, words)
	if err != nil {
		metrics.ObservePersistenceError(database.KeyWords)
	}
	return err
}

func (p meteredPersister) SaveCategories(ctx context.Context, index models.CategoryIndex) error {
	err := p.users.SaveCategories(ctx, index)
	if err != nil {
		metrics.ObservePersistenceError(database.KeyCategories)
	}
	return err
}
