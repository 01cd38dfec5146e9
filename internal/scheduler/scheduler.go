package scheduler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/wordwise/internal/database"
	"github.com/example/wordwise/internal/dictionary"
	"github.com/example/wordwise/internal/stats"
	"github.com/example/wordwise/pkg/models"
)

// Digest is the daily message sent to one subscriber.
type Digest struct {
	Email       string
	Word        models.LookupResult
	Total       int
	NeedsReview int
}

// Subscribers lists the chats that receive the digest.
type Subscribers interface {
	List(ctx context.Context) ([]database.Subscriber, error)
}

// Notifier interface for sending notifications
type Notifier interface {
	SendDigest(chatID int64, digest Digest) error
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler   *gocron.Scheduler
	store       database.Store
	subscribers Subscribers
	notifier    Notifier
	now         func() time.Time
	log         *slog.Logger
}

// New creates a new scheduler instance. Jobs run on UTC wall clock time.
func New(store database.Store, subscribers Subscribers, notifier Notifier, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Scheduler{
		scheduler:   gocron.NewScheduler(time.UTC),
		store:       store,
		subscribers: subscribers,
		notifier:    notifier,
		now:         time.Now,
		log:         logger.With("component", "scheduler"),
	}
}

// Start schedules the daily digest at the given HH:MM and runs the scheduler
// in a non-blocking manner.
func (s *Scheduler) Start(at string) error {
	_, err := s.scheduler.Every(1).Day().At(at).Do(func() {
		sent, err := s.SendDigests(context.Background())
		if err != nil {
			s.log.Error("daily digest failed", "sent", sent, "error", err)
			return
		}
		s.log.Info("daily digest sent", "sent", sent)
	})
	if err != nil {
		return fmt.Errorf("schedule digest at %q: %w", at, err)
	}
	s.scheduler.StartAsync()
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// SendDigests sends the digest to every subscriber that has notifications on.
// Failures for one subscriber are logged and do not stop the others.
func (s *Scheduler) SendDigests(ctx context.Context) (int, error) {
	subs, err := s.subscribers.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list subscribers: %w", err)
	}

	sent := 0
	var errs []error
	for _, sub := range subs {
		ok, err := s.SendDigest(ctx, sub)
		if err != nil {
			s.log.Warn("digest not delivered", "chat_id", sub.ChatID, "error", err)
			errs = append(errs, err)
			continue
		}
		if ok {
			sent++
		}
	}
	return sent, errors.Join(errs...)
}

// SendDigest builds and sends the digest for one subscriber. It reports false
// when the subscriber turned notifications off.
func (s *Scheduler) SendDigest(ctx context.Context, sub database.Subscriber) (bool, error) {
	digest, enabled, err := s.BuildDigest(ctx, sub.Email)
	if err != nil {
		return false, err
	}
	if !enabled {
		return false, nil
	}
	if err := s.notifier.SendDigest(sub.ChatID, digest); err != nil {
		return false, fmt.Errorf("send digest to %d: %w", sub.ChatID, err)
	}
	return true, nil
}

// BuildDigest reads the user's documents and assembles the digest. The second
// result is the user's notifications setting.
func (s *Scheduler) BuildDigest(ctx context.Context, email string) (Digest, bool, error) {
	users := database.NewUserStore(s.store, email)

	settings, err := users.LoadSettings(ctx)
	if err != nil {
		return Digest{}, false, err
	}
	words, err := users.LoadWords(ctx)
	if err != nil {
		return Digest{}, false, err
	}

	progress := stats.Overview(words)
	return Digest{
		Email:       email,
		Word:        dictionary.WordOfTheDay(s.now()),
		Total:       progress.Total,
		NeedsReview: progress.NeedsReview,
	}, settings.Notifications, nil
}
