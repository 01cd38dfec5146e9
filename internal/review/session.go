// Package review drives one review pass over the words of a single category.
package review

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/example/wordwise/pkg/models"
)

// State is the lifecycle stage of the engine's session.
type State int

const (
	Idle State = iota
	Active
	Complete
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case Complete:
		return "complete"
	case Cancelled:
		return "cancelled"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Source supplies the words of a category.
type Source interface {
	FilterByCategory(facet models.Facet, value string) []models.WordEntry
}

// Recorder writes back the outcome of one answered question.
type Recorder interface {
	RecordAnswer(ctx context.Context, id string, correct bool) (models.WordEntry, error)
}

// Collection is both a Source and a Recorder; *collection.Store satisfies it.
type Collection interface {
	Source
	Recorder
}

// Shuffler permutes n elements in place. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Card is the word currently asked.
type Card struct {
	Position int
	Total    int
	Word     models.WordEntry
	Revealed bool
}

// Summary is produced when the last word of a session is answered.
type Summary struct {
	Facet      models.Facet
	Value      string
	Correct    int
	Total      int
	Percentage int
	Duration   time.Duration
}

// Outcome is returned by Answer.
type Outcome struct {
	Word    models.WordEntry
	Correct bool
	// Summary is set once the session completes.
	Summary *Summary
}

type session struct {
	facet     models.Facet
	value     string
	words     []models.WordEntry
	current   int
	revealed  bool
	correct   int
	total     int
	startTime time.Time
}

// Engine owns at most one session at a time. Starting a session while another one is
// active is rejected with ErrSessionActive.
type Engine struct {
	words    Collection
	shuffler Shuffler
	now      func() time.Time
	log      *slog.Logger

	state   State
	session *session
	summary *Summary
}

// Option configures an Engine.
type Option func(*Engine)

// WithShuffler sets the random source used to order a session.
func WithShuffler(s Shuffler) Option {
	return func(e *Engine) { e.shuffler = s }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.log = logger.With("component", "review") }
}

// NewEngine returns an idle Engine over the given collection.
func NewEngine(words Collection, opts ...Option) *Engine {
	e := &Engine{
		words:    words,
		shuffler: rand.New(rand.NewSource(time.Now().UnixNano())),
		now:      time.Now,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the current lifecycle stage.
func (e *Engine) State() State {
	return e.state
}

// Start opens a session over every word labelled value for facet, in uniformly random
// order.
func (e *Engine) Start(facet models.Facet, value string) (Card, error) {
	if e.state == Active {
		return Card{}, models.ErrSessionActive
	}
	if err := models.ValidateCategory(facet, value); err != nil {
		return Card{}, err
	}

	words := e.words.FilterByCategory(facet, value)
	if len(words) == 0 {
		return Card{}, fmt.Errorf("%w: %s=%s", models.ErrEmptyCategory, facet, value)
	}
	e.shuffler.Shuffle(len(words), func(i, j int) {
		words[i], words[j] = words[j], words[i]
	})

	e.session = &session{
		facet:     facet,
		value:     value,
		words:     words,
		startTime: e.now(),
	}
	e.summary = nil
	e.state = Active

	e.log.Info("review started",
		slog.String("facet", string(facet)),
		slog.String("value", value),
		slog.Int("words", len(words)),
	)
	return e.card(), nil
}

// Current returns the card being asked.
func (e *Engine) Current() (Card, error) {
	if err := e.requireActive(); err != nil {
		return Card{}, err
	}
	return e.card(), nil
}

// Reveal shows the definition of the current card. Revealing twice is a no-op.
func (e *Engine) Reveal() (Card, error) {
	if err := e.requireActive(); err != nil {
		return Card{}, err
	}
	e.session.revealed = true
	return e.card(), nil
}

// Answer records the user's self-assessment for the current card and moves on. The
// card must be revealed first. If only persisting the answer fails, the session still
// advances and the error wrapping ErrPersistence is returned with the outcome.
func (e *Engine) Answer(ctx context.Context, correct bool) (Outcome, error) {
	if err := e.requireActive(); err != nil {
		return Outcome{}, err
	}
	s := e.session
	if !s.revealed {
		return Outcome{}, models.ErrNotRevealed
	}

	word := s.words[s.current]
	updated, err := e.words.RecordAnswer(ctx, word.ID, correct)
	if err != nil && !errors.Is(err, models.ErrPersistence) {
		return Outcome{}, fmt.Errorf("record answer for %q: %w", word.Word, err)
	}
	s.words[s.current] = updated

	s.total++
	if correct {
		s.correct++
	}
	out := Outcome{Word: updated, Correct: correct}

	if s.current == len(s.words)-1 {
		summary := e.finish()
		out.Summary = &summary
		return out, err
	}
	s.current++
	s.revealed = false
	return out, err
}

// Cancel abandons the active session without touching the collection.
func (e *Engine) Cancel() error {
	if err := e.requireActive(); err != nil {
		return err
	}
	e.log.Info("review cancelled",
		slog.Int("answered", e.session.total),
		slog.Int("words", len(e.session.words)),
	)
	e.state = Cancelled
	e.session = nil
	return nil
}

// Summary returns the result of the last completed session.
func (e *Engine) Summary() (Summary, bool) {
	if e.summary == nil {
		return Summary{}, false
	}
	return *e.summary, true
}

func (e *Engine) finish() Summary {
	s := e.session
	summary := Summary{
		Facet:      s.facet,
		Value:      s.value,
		Correct:    s.correct,
		Total:      s.total,
		Percentage: Percentage(s.correct, s.total),
		Duration:   e.now().Sub(s.startTime),
	}
	e.log.Info("review complete",
		slog.Int("correct", summary.Correct),
		slog.Int("total", summary.Total),
		slog.Duration("duration", summary.Duration),
	)
	e.state = Complete
	e.session = nil
	e.summary = &summary
	return summary
}

func (e *Engine) card() Card {
	s := e.session
	return Card{
		Position: s.current,
		Total:    len(s.words),
		Word:     s.words[s.current],
		Revealed: s.revealed,
	}
}

func (e *Engine) requireActive() error {
	switch e.state {
	case Active:
		return nil
	case Idle:
		return models.ErrNoSession
	default:
		return fmt.Errorf("%w: session is %s", models.ErrSessionClosed, e.state)
	}
}

// Percentage returns round(part/total*100), or 0 when total is 0.
func Percentage(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
