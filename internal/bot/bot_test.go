package bot

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/wordwise/internal/app"
	"github.com/example/wordwise/internal/database"
	"github.com/example/wordwise/internal/review"
	"github.com/example/wordwise/internal/scheduler"
	"github.com/example/wordwise/internal/stats"
	"github.com/example/wordwise/pkg/models"
)

type fakeSender struct {
	sent     []tgbotapi.Chattable
	requests int
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests++
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) last(t *testing.T) tgbotapi.MessageConfig {
	t.Helper()
	require.NotEmpty(t, f.sent)
	msg, ok := f.sent[len(f.sent)-1].(tgbotapi.MessageConfig)
	require.True(t, ok, "last sent item is %T", f.sent[len(f.sent)-1])
	return msg
}

func callbacks(t *testing.T, msg tgbotapi.MessageConfig) []string {
	t.Helper()
	markup, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	var out []string
	for _, row := range markup.InlineKeyboard {
		for _, button := range row {
			out = append(out, *button.CallbackData)
		}
	}
	return out
}

type dictionaryStub map[string]models.LookupResult

func (d dictionaryStub) Search(_ context.Context, word string) (models.LookupResult, error) {
	if r, ok := d[word]; ok {
		return r, nil
	}
	return models.NotFoundResult(word), models.ErrNotFound
}

const chatID = int64(42)

func newTestBot(t *testing.T) (*Bot, *fakeSender, database.Store) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := database.Open(context.Background(), database.Config{Backend: database.BackendSQLite, InMemory: true}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	dict := dictionaryStub{
		"cat": {
			Word:     "cat",
			Phonetic: "/kæt/",
			Meanings: []models.Meaning{{PartOfSpeech: "noun", Definitions: []models.Definition{{Definition: "A small pet.", Example: "The cat sleeps."}}}},
		},
	}
	svc := app.New(app.Deps{
		Store:      store,
		Dictionary: dict,
		Clock:      func() time.Time { return time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC) },
		Rand:       rand.New(rand.NewSource(1)),
		Logger:     logger,
	})
	sender := &fakeSender{}
	return newBot(sender, svc, database.NewSubscriptionRepository(store), logger), sender, store
}

func command(text string) tgbotapi.Update {
	name, _, _ := strings.Cut(text, " ")
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: chatID},
		From:     &tgbotapi.User{ID: chatID},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}}
}

func text(s string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text: s,
		Chat: &tgbotapi.Chat{ID: chatID},
		From: &tgbotapi.User{ID: chatID},
	}}
}

func press(data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: chatID},
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}},
		Data:    data,
	}}
}

func TestStartSubscribes(t *testing.T) {
	b, sender, store := newTestBot(t)
	ctx := context.Background()

	b.handleUpdate(ctx, command("/start"))
	assert.Contains(t, sender.last(t).Text, "Welcome to WordWise")

	subs, err := database.NewSubscriptionRepository(store).List(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "tg-42@telegram.local", subs[0].Email)

	b.handleUpdate(ctx, command("/unsubscribe"))
	subs, err = database.NewSubscriptionRepository(store).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestSearchSaveAndReview(t *testing.T) {
	b, sender, _ := newTestBot(t)
	ctx := context.Background()

	b.handleUpdate(ctx, text("cat"))
	msg := sender.last(t)
	assert.Contains(t, msg.Text, "A small pet.")
	assert.Equal(t, []string{callbackSave}, callbacks(t, msg))

	b.handleUpdate(ctx, press(callbackSave))
	assert.Contains(t, sender.last(t).Text, `Saved "cat"`)
	assert.Equal(t, 1, sender.requests)

	b.handleUpdate(ctx, command("/search cat"))
	b.handleUpdate(ctx, press(callbackSave))
	assert.Contains(t, sender.last(t).Text, "already in your collection")

	b.handleUpdate(ctx, command("/learn"))
	msg = sender.last(t)
	assert.Contains(t, callbacks(t, msg), "learn:topic:daily_life")

	b.handleUpdate(ctx, press("learn:topic:daily_life"))
	msg = sender.last(t)
	assert.Contains(t, msg.Text, "Word 1 of 1")
	assert.NotContains(t, msg.Text, "A small pet.")

	b.handleUpdate(ctx, press(callbackKnew))
	assert.Contains(t, sender.last(t).Text, "Show the definition first")

	b.handleUpdate(ctx, press(callbackReveal))
	msg = sender.last(t)
	assert.Contains(t, msg.Text, "A small pet.")
	assert.Equal(t, []string{callbackKnew, callbackMissed, callbackStop}, callbacks(t, msg))

	b.handleUpdate(ctx, press(callbackKnew))
	assert.Contains(t, sender.last(t).Text, "Correct: 1 of 1 (100%)")

	b.handleUpdate(ctx, command("/cancel"))
	assert.Contains(t, sender.last(t).Text, "no review running")
}

func TestSearchNotFound(t *testing.T) {
	b, sender, _ := newTestBot(t)
	ctx := context.Background()

	b.handleUpdate(ctx, command("/search qwzx"))
	msg := sender.last(t)
	assert.Contains(t, msg.Text, "Could not find definition")
	assert.Nil(t, msg.ReplyMarkup)

	b.handleUpdate(ctx, press(callbackSave))
	assert.Contains(t, sender.last(t).Text, "Look a word up first")
}

func TestExportSendsDocument(t *testing.T) {
	b, sender, _ := newTestBot(t)
	ctx := context.Background()

	b.handleUpdate(ctx, text("cat"))
	b.handleUpdate(ctx, press(callbackSave))
	b.handleUpdate(ctx, command("/export"))

	doc, ok := sender.sent[len(sender.sent)-1].(tgbotapi.DocumentConfig)
	require.True(t, ok)
	file, ok := doc.File.(tgbotapi.FileBytes)
	require.True(t, ok)
	assert.Equal(t, "wordwise-words-2024-01-01.csv", file.Name)
	assert.Contains(t, string(file.Bytes), "cat")
}

func TestStatsAndStory(t *testing.T) {
	b, sender, _ := newTestBot(t)
	ctx := context.Background()

	b.handleUpdate(ctx, command("/stats"))
	assert.Contains(t, sender.last(t).Text, "Words: 0")

	b.handleUpdate(ctx, command("/story"))
	assert.Contains(t, sender.last(t).Text, "not available")
}

func TestSendDigest(t *testing.T) {
	b, sender, _ := newTestBot(t)
	require.NoError(t, b.SendDigest(7, scheduler.Digest{
		Word:        models.LookupResult{Word: "ephemeral", Meanings: []models.Meaning{{PartOfSpeech: "adjective", Definitions: []models.Definition{{Definition: "Short-lived."}}}}},
		Total:       4,
		NeedsReview: 3,
	}))
	msg := sender.last(t)
	assert.Equal(t, int64(7), msg.ChatID)
	assert.Contains(t, msg.Text, "ephemeral")
	assert.Contains(t, msg.Text, "3 of your 4 words need review")
}

func TestParseLearnCallback(t *testing.T) {
	facet, value, err := parseLearnCallback("learn:word_type:academic")
	require.NoError(t, err)
	assert.Equal(t, models.FacetWordType, facet)
	assert.Equal(t, "academic", value)

	for _, bad := range []string{"learn", "learn:topic", "learn:colour:red", "learn:topic:sports", "save"} {
		_, _, err := parseLearnCallback(bad)
		assert.ErrorIs(t, err, models.ErrInvalidCategory, bad)
	}
}

func TestCategoryButtonsSkipEmptyValues(t *testing.T) {
	rows := categoryButtons(func(f models.Facet, v string) stats.Progress {
		if f == models.FacetDifficulty && v == "beginner" {
			return stats.Progress{Total: 3, NeedsReview: 2}
		}
		return stats.Progress{}
	})
	require.Len(t, rows, 1)
	require.Len(t, rows[0], 1)
	assert.Equal(t, "Beginner (2/3)", rows[0][0].Text)
	assert.Equal(t, "learn:difficulty:beginner", rows[0][0].CallbackData)
}

func TestFormatCard(t *testing.T) {
	card := review.Card{Position: 1, Total: 3, Word: models.WordEntry{Word: "owl", Definition: "A night bird.", PartOfSpeech: "noun"}}
	assert.NotContains(t, formatCard(card), "night bird")
	card.Revealed = true
	assert.Contains(t, formatCard(card), "Word 2 of 3")
	assert.Contains(t, formatCard(card), "(noun) A night bird.")
}

func TestFormatLookupLimitsDefinitions(t *testing.T) {
	r := models.LookupResult{Word: "set", Meanings: []models.Meaning{
		{PartOfSpeech: "verb", Definitions: []models.Definition{{Definition: "one"}, {Definition: "two"}}},
		{PartOfSpeech: "noun", Definitions: []models.Definition{{Definition: "three"}, {Definition: "four"}}},
	}}
	out := formatLookup(r)
	assert.Contains(t, out, "3. (noun) three")
	assert.NotContains(t, out, "four")
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("é", telegramMaxText)
	out := truncate(long)
	assert.LessOrEqual(t, len(out), telegramMaxText)
	assert.True(t, strings.HasSuffix(out, "…"))
	assert.Equal(t, "short", truncate("short"))
}
