package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/wordwise/internal/database"
	"github.com/example/wordwise/internal/export"
	"github.com/example/wordwise/internal/review"
	"github.com/example/wordwise/internal/stats"
	"github.com/example/wordwise/pkg/models"
)

const welcomeText = `Welcome to WordWise! 🎓

Send me any English word to look it up.

Available commands:
/search <word> - Look up a word
/wotd - Word of the day
/learn - Review a category
/stats - Show your statistics
/export - Download your words as CSV
/story - A short text with your newest words
/cancel - Stop the current review
/unsubscribe - Stop the daily digest`

// handleUpdate handles incoming updates from Telegram
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	var err error
	switch {
	case update.Message != nil && update.Message.From != nil && update.Message.Chat != nil:
		err = b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil && update.CallbackQuery.From != nil:
		err = b.handleCallback(ctx, update.CallbackQuery)
	default:
		return
	}
	if err != nil {
		b.log.Error("update failed", "update_id", update.UpdateID, "error", err)
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	userID := message.From.ID

	if !message.IsCommand() {
		word := strings.TrimSpace(message.Text)
		if word == "" || strings.ContainsAny(word, " \n\t") {
			b.send(chatID, "Send a single word, or use /help to see the commands.", nil)
			return nil
		}
		return b.handleSearch(ctx, chatID, word)
	}

	switch message.Command() {
	case "start":
		return b.handleStart(ctx, chatID, userID)
	case "help":
		b.send(chatID, welcomeText, mainMenuButtons())
		return nil
	case "search":
		word := strings.TrimSpace(message.CommandArguments())
		if word == "" {
			b.send(chatID, "Usage: /search <word>", nil)
			return nil
		}
		return b.handleSearch(ctx, chatID, word)
	case "wotd":
		return b.handleWordOfTheDay(chatID)
	case "learn":
		return b.handleLearn(ctx, chatID, userID)
	case "stats":
		return b.handleStats(ctx, chatID, userID)
	case "export":
		return b.handleExport(ctx, chatID, userID)
	case "story":
		return b.handleStory(ctx, chatID, userID)
	case "cancel":
		return b.handleCancel(ctx, chatID, userID)
	case "unsubscribe":
		if err := b.subs.Remove(ctx, chatID); err != nil {
			return err
		}
		b.send(chatID, "You will no longer receive the daily digest. Use /start to subscribe again.", nil)
		return nil
	default:
		b.send(chatID, "Unknown command. Use /help to see the commands.", mainMenuButtons())
		return nil
	}
}

func (b *Bot) handleStart(ctx context.Context, chatID, userID int64) error {
	if err := b.subs.Add(ctx, database.Subscriber{ChatID: chatID, Email: emailFor(userID)}); err != nil {
		b.log.Warn("subscribe failed", "chat_id", chatID, "error", err)
	}
	b.send(chatID, welcomeText, mainMenuButtons())
	return nil
}

func (b *Bot) handleSearch(ctx context.Context, chatID int64, word string) error {
	result, err := b.svc.Search(ctx, word)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			b.send(chatID, formatLookup(result), nil)
		default:
			b.send(chatID, "⚠️ The dictionary is not available right now. Please try again later.", nil)
		}
		delete(b.pending, chatID)
		return nil
	}
	b.pending[chatID] = result
	b.send(chatID, formatLookup(result), [][]MenuButton{{{Text: "💾 Save", CallbackData: callbackSave}}})
	return nil
}

func (b *Bot) handleWordOfTheDay(chatID int64) error {
	result := b.svc.WordOfTheDay()
	b.pending[chatID] = result
	b.send(chatID, "☀️ Word of the day\n\n"+formatLookup(result), [][]MenuButton{{{Text: "💾 Save", CallbackData: callbackSave}}})
	return nil
}

func (b *Bot) handleSave(ctx context.Context, chatID, userID int64) error {
	result, ok := b.pending[chatID]
	if !ok {
		b.send(chatID, "Look a word up first.", nil)
		return nil
	}
	ws, err := b.workspace(ctx, userID)
	if err != nil {
		return err
	}

	entry, err := ws.Save(ctx, result)
	switch {
	case err == nil:
		delete(b.pending, chatID)
		b.send(chatID, fmt.Sprintf("✅ Saved %q (%s, %s).", entry.Word,
			models.DisplayValue(string(entry.Categories.Difficulty)), models.DisplayValue(string(entry.Categories.Topic))), nil)
	case errors.Is(err, models.ErrDuplicate):
		delete(b.pending, chatID)
		b.send(chatID, fmt.Sprintf("%q is already in your collection.", result.Word), nil)
	case errors.Is(err, models.ErrPersistence):
		b.send(chatID, fmt.Sprintf("⚠️ Saved %q, but it could not be written to storage yet.", entry.Word), nil)
		return err
	default:
		b.send(chatID, "❌ This word cannot be saved.", nil)
	}
	return nil
}

func (b *Bot) handleLearn(ctx context.Context, chatID, userID int64) error {
	ws, err := b.workspace(ctx, userID)
	if err != nil {
		return err
	}
	buttons := categoryButtons(func(f models.Facet, v string) stats.Progress {
		p, _ := ws.Progress(f, v)
		return p
	})
	if len(buttons) == 0 {
		b.send(chatID, "Your collection is empty. Send me a word to get started.", nil)
		return nil
	}
	overall, _ := ws.Progress("", "")
	b.send(chatID, fmt.Sprintf("Choose a category to review.\n%d of %d words need review (%d%% reviewed).",
		overall.NeedsReview, overall.Total, overall.Percent()), buttons)
	return nil
}

func (b *Bot) startReview(ctx context.Context, chatID, userID int64, data string) error {
	facet, value, err := parseLearnCallback(data)
	if err != nil {
		return err
	}
	ws, err := b.workspace(ctx, userID)
	if err != nil {
		return err
	}

	card, err := ws.StartReview(facet, value)
	switch {
	case errors.Is(err, models.ErrSessionActive):
		b.send(chatID, "A review is already running. Finish it or use /cancel.", nil)
		return nil
	case errors.Is(err, models.ErrEmptyCategory):
		b.send(chatID, "There are no words in this category yet.", nil)
		return nil
	case err != nil:
		return err
	}
	b.sendCard(chatID, card)
	return nil
}

func (b *Bot) sendCard(chatID int64, card review.Card) {
	b.send(chatID, formatCard(card), cardButtons(card))
}

func (b *Bot) handleReveal(ctx context.Context, chatID, userID int64) error {
	ws, err := b.workspace(ctx, userID)
	if err != nil {
		return err
	}
	card, err := ws.Reveal()
	if err != nil {
		b.noSession(chatID, err)
		return nil
	}
	b.sendCard(chatID, card)
	return nil
}

func (b *Bot) handleAnswer(ctx context.Context, chatID, userID int64, correct bool) error {
	ws, err := b.workspace(ctx, userID)
	if err != nil {
		return err
	}

	out, err := ws.Answer(ctx, correct)
	switch {
	case errors.Is(err, models.ErrNotRevealed):
		b.send(chatID, "Show the definition first.", nil)
		return nil
	case errors.Is(err, models.ErrNoSession), errors.Is(err, models.ErrSessionClosed):
		b.noSession(chatID, err)
		return nil
	case err != nil && !errors.Is(err, models.ErrPersistence):
		return err
	case err != nil:
		b.log.Warn("answer not saved", "user_id", userID, "error", err)
	}

	if out.Summary != nil {
		b.send(chatID, formatSummary(*out.Summary), mainMenuButtons())
		return nil
	}
	card, err := ws.CurrentCard()
	if err != nil {
		return err
	}
	b.sendCard(chatID, card)
	return nil
}

func (b *Bot) handleCancel(ctx context.Context, chatID, userID int64) error {
	ws, err := b.workspace(ctx, userID)
	if err != nil {
		return err
	}
	if err := ws.CancelReview(); err != nil {
		b.noSession(chatID, err)
		return nil
	}
	b.send(chatID, "Review stopped. Your answers so far are saved.", mainMenuButtons())
	return nil
}

func (b *Bot) noSession(chatID int64, err error) {
	b.log.Debug("no active review", "chat_id", chatID, "error", err)
	b.send(chatID, "There is no review running. Use /learn to start one.", nil)
}

func (b *Bot) handleStats(ctx context.Context, chatID, userID int64) error {
	ws, err := b.workspace(ctx, userID)
	if err != nil {
		return err
	}
	report := ws.Stats()
	b.send(chatID, formatStats(report, stats.Insights(report)), mainMenuButtons())
	return nil
}

func (b *Bot) handleExport(ctx context.Context, chatID, userID int64) error {
	ws, err := b.workspace(ctx, userID)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := ws.Export(&buf, export.FormatCSV, nil); err != nil {
		return err
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  export.Filename(export.FormatCSV, b.svc.Now()),
		Bytes: buf.Bytes(),
	})
	if _, err := b.api.Send(doc); err != nil {
		return fmt.Errorf("send export: %w", err)
	}
	return nil
}

func (b *Bot) handleStory(ctx context.Context, chatID, userID int64) error {
	ws, err := b.workspace(ctx, userID)
	if err != nil {
		return err
	}
	story, err := ws.Story(ctx)
	switch {
	case errors.Is(err, models.ErrServiceUnavailable):
		b.send(chatID, "Stories are not available on this bot.", nil)
		return nil
	case errors.Is(err, models.ErrNotFound):
		b.send(chatID, "Save a few words first.", nil)
		return nil
	case err != nil:
		b.send(chatID, "⚠️ Could not write a story right now.", nil)
		return err
	}
	b.send(chatID, truncate(story), nil)
	return nil
}

// handleCallback handles callback queries from buttons
func (b *Bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) error {
	// Always answer the callback query to remove the loading state
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		b.log.Warn("answer callback failed", "error", err)
	}

	chatID := callback.Message.Chat.ID
	userID := callback.From.ID

	switch data := callback.Data; {
	case data == callbackSave:
		return b.handleSave(ctx, chatID, userID)
	case data == callbackLearn:
		return b.handleLearn(ctx, chatID, userID)
	case strings.HasPrefix(data, learnPrefix):
		return b.startReview(ctx, chatID, userID, data)
	case data == callbackReveal:
		return b.handleReveal(ctx, chatID, userID)
	case data == callbackKnew:
		return b.handleAnswer(ctx, chatID, userID, true)
	case data == callbackMissed:
		return b.handleAnswer(ctx, chatID, userID, false)
	case data == callbackStop:
		return b.handleCancel(ctx, chatID, userID)
	case data == callbackStats:
		return b.handleStats(ctx, chatID, userID)
	case data == callbackMenu:
		b.send(chatID, "Main Menu - choose an option:", mainMenuButtons())
		return nil
	default:
		b.send(chatID, "⚠️ Unknown action", nil)
		return nil
	}
}
