// Package app wires the collaborators to the vocabulary core for the signed-in user.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/example/wordwise/internal/auth"
	"github.com/example/wordwise/internal/database"
	"github.com/example/wordwise/internal/dictionary"
	"github.com/example/wordwise/internal/metrics"
	"github.com/example/wordwise/pkg/models"
)

// Dictionary looks words up. *dictionary.Client satisfies it.
type Dictionary interface {
	Search(ctx context.Context, word string) (models.LookupResult, error)
}

// Writer produces example sentences and practice texts. *ai.ChatGPT satisfies it.
type Writer interface {
	GenerateExample(ctx context.Context, word, partOfSpeech, definition string) (string, error)
	GenerateTextWithWords(ctx context.Context, words []models.WordEntry) (string, error)
}

// Deps are the collaborators of a Service. Writer is optional.
type Deps struct {
	Store      database.Store
	Dictionary Dictionary
	Auth       auth.Provider
	Tokens     *auth.Tokens
	Writer     Writer
	Clock      func() time.Time
	Rand       *rand.Rand
	Logger     *slog.Logger
}

// Service owns the per-user workspaces of one process.
type Service struct {
	store    database.Store
	dict     Dictionary
	provider auth.Provider
	tokens   *auth.Tokens
	writer   Writer
	now      func() time.Time
	rng      *rand.Rand
	log      *slog.Logger
	sessions *database.SessionRepository

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

func New(d Deps) *Service {
	if d.Clock == nil {
		d.Clock = time.Now
	}
	if d.Rand == nil {
		d.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if d.Logger == nil {
		d.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		store:      d.Store,
		dict:       d.Dictionary,
		provider:   d.Auth,
		tokens:     d.Tokens,
		writer:     d.Writer,
		now:        d.Clock,
		rng:        d.Rand,
		log:        d.Logger.With("component", "app"),
		sessions:   database.NewSessionRepository(d.Store),
		workspaces: make(map[string]*Workspace),
	}
}

// Login signs in through the provider, issues a session token and remembers the identity.
func (s *Service) Login(ctx context.Context) (models.Identity, error) {
	id, err := s.provider.Login(ctx)
	if err != nil {
		return models.Identity{}, fmt.Errorf("login: %w", err)
	}
	if id.Email == "" {
		return models.Identity{}, fmt.Errorf("%w: provider returned no email", models.ErrUnauthenticated)
	}

	token, err := s.tokens.Issue(id)
	if err != nil {
		return models.Identity{}, fmt.Errorf("issue token: %w", err)
	}
	id.Token = token

	if err := s.sessions.Save(ctx, id); err != nil {
		return models.Identity{}, err
	}
	s.log.Info("signed in", "email", id.Email)
	return id, nil
}

// Current returns the signed-in identity after checking its token.
func (s *Service) Current(ctx context.Context) (models.Identity, error) {
	id, err := s.sessions.Current(ctx)
	if err != nil {
		return models.Identity{}, err
	}
	claims, err := s.tokens.Validate(id.Token)
	if err != nil {
		return models.Identity{}, err
	}
	if !strings.EqualFold(claims.Email, id.Email) {
		return models.Identity{}, fmt.Errorf("%w: token was issued for another user", models.ErrUnauthenticated)
	}
	return id, nil
}

// Logout forgets the signed-in identity. The user's documents are kept.
func (s *Service) Logout(ctx context.Context) error {
	id, err := s.sessions.Current(ctx)
	if err != nil && !errors.Is(err, models.ErrUnauthenticated) {
		return err
	}
	if err := s.provider.Logout(ctx); err != nil {
		s.log.Warn("provider logout failed", "error", err)
	}
	if err := s.sessions.Clear(ctx); err != nil {
		return err
	}

	if id.Email != "" {
		s.mu.Lock()
		delete(s.workspaces, database.ScopeFor(id.Email))
		s.mu.Unlock()
	}
	return nil
}

// CurrentWorkspace opens the workspace of the signed-in user.
func (s *Service) CurrentWorkspace(ctx context.Context) (*Workspace, error) {
	id, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	return s.Workspace(ctx, id.Email)
}

// Workspace returns the workspace of email, loading its documents on first use.
func (s *Service) Workspace(ctx context.Context, email string) (*Workspace, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: no email", models.ErrUnauthenticated)
	}
	key := database.ScopeFor(email)

	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.workspaces[key]; ok {
		return w, nil
	}
	w, err := openWorkspace(ctx, s, email)
	if err != nil {
		return nil, err
	}
	s.workspaces[key] = w
	return w, nil
}

// Search looks a word up. On failure the synthetic not-found result is returned
// together with the error.
func (s *Service) Search(ctx context.Context, word string) (models.LookupResult, error) {
	start := time.Now()
	result, err := s.dict.Search(ctx, word)

	outcome := metrics.LookupFound
	switch {
	case errors.Is(err, models.ErrNotFound):
		outcome = metrics.LookupNotFound
	case err != nil:
		outcome = metrics.LookupUnavailable
	}
	metrics.ObserveLookup(outcome, time.Since(start))
	return result, err
}

// WordOfTheDay returns today's featured word.
func (s *Service) WordOfTheDay() models.LookupResult {
	return dictionary.WordOfTheDay(s.now())
}

// Now returns the service clock.
func (s *Service) Now() time.Time {
	return s.now()
}

// WritingEnabled reports whether example sentences and stories can be generated.
func (s *Service) WritingEnabled() bool {
	return s.writer != nil
}

// enrich fills in a missing example for the first definition. Failures are logged
// and the result is returned unchanged.
func (s *Service) enrich(ctx context.Context, result models.LookupResult) models.LookupResult {
	if s.writer == nil || result.Missing {
		return result
	}
	meaning, def, ok := result.Primary()
	if !ok || def.Example != "" {
		return result
	}

	example, err := s.writer.GenerateExample(ctx, result.Word, meaning.PartOfSpeech, def.Definition)
	if err != nil {
		s.log.Warn("example generation failed", "word", result.Word, "error", err)
		return result
	}

	meanings := append([]models.Meaning(nil), result.Meanings...)
	defs := append([]models.Definition(nil), meanings[0].Definitions...)
	defs[0].Example = example
	meanings[0].Definitions = defs
	result.Meanings = meanings
	return result
}
