package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/wordwise/internal/database"
	"github.com/example/wordwise/pkg/models"
)

type recordingNotifier struct {
	sent map[int64]Digest
	fail map[int64]bool
}

func (n *recordingNotifier) SendDigest(chatID int64, d Digest) error {
	if n.fail[chatID] {
		return errors.New("chat blocked the bot")
	}
	n.sent[chatID] = d
	return nil
}

func newTestScheduler(t *testing.T) (*Scheduler, database.Store, *recordingNotifier) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := database.Open(context.Background(), database.Config{Backend: database.BackendSQLite, InMemory: true}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	notifier := &recordingNotifier{sent: map[int64]Digest{}, fail: map[int64]bool{}}
	s := New(store, database.NewSubscriptionRepository(store), notifier, logger)
	s.now = func() time.Time { return time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC) }
	return s, store, notifier
}

func TestSendDigests(t *testing.T) {
	s, store, notifier := newTestScheduler(t)
	ctx := context.Background()
	subs := database.NewSubscriptionRepository(store)

	alice := database.NewUserStore(store, "alice@example.com")
	require.NoError(t, alice.SaveWords(ctx, []models.WordEntry{
		{ID: "1", Word: "alpha", ReviewCount: 3, Difficulty: 3},
		{ID: "2", Word: "beta"},
		{ID: "3", Word: "gamma", ReviewCount: 1, Difficulty: 1},
	}))

	quiet := database.NewUserStore(store, "quiet@example.com")
	settings := models.DefaultSettings()
	settings.Notifications = false
	require.NoError(t, quiet.SaveSettings(ctx, settings))

	require.NoError(t, subs.Add(ctx, database.Subscriber{ChatID: 1, Email: "alice@example.com"}))
	require.NoError(t, subs.Add(ctx, database.Subscriber{ChatID: 2, Email: "quiet@example.com"}))
	require.NoError(t, subs.Add(ctx, database.Subscriber{ChatID: 3, Email: "new@example.com"}))

	sent, err := s.SendDigests(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	require.Contains(t, notifier.sent, int64(1))
	d := notifier.sent[1]
	assert.Equal(t, 3, d.Total)
	assert.Equal(t, 2, d.NeedsReview)
	assert.Equal(t, "ephemeral", d.Word.Word)

	assert.NotContains(t, notifier.sent, int64(2), "notifications off")
	assert.Equal(t, 0, notifier.sent[3].Total)
}

func TestSendDigestsContinuesAfterFailure(t *testing.T) {
	s, store, notifier := newTestScheduler(t)
	ctx := context.Background()
	subs := database.NewSubscriptionRepository(store)
	require.NoError(t, subs.Add(ctx, database.Subscriber{ChatID: 1, Email: "a@example.com"}))
	require.NoError(t, subs.Add(ctx, database.Subscriber{ChatID: 2, Email: "b@example.com"}))
	notifier.fail[1] = true

	sent, err := s.SendDigests(ctx)
	assert.Error(t, err)
	assert.Equal(t, 1, sent)
	assert.Contains(t, notifier.sent, int64(2))
}

func TestStartRejectsBadTime(t *testing.T) {
	s, _, _ := newTestScheduler(t)
	assert.Error(t, s.Start("25:99"))
}

func TestStartAndStop(t *testing.T) {
	s, _, _ := newTestScheduler(t)
	require.NoError(t, s.Start("09:00"))
	s.Stop()
}
