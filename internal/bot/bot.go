// Package bot is the Telegram front end: search, save, review, statistics and export.
package bot

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/wordwise/internal/app"
	"github.com/example/wordwise/internal/database"
	"github.com/example/wordwise/internal/scheduler"
	"github.com/example/wordwise/pkg/models"
)

// sender is the part of *tgbotapi.BotAPI the handlers use.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Subscriptions stores the chats that receive the daily digest.
type Subscriptions interface {
	Add(ctx context.Context, sub database.Subscriber) error
	Remove(ctx context.Context, chatID int64) error
}

// Bot represents the Telegram bot application
type Bot struct {
	client *tgbotapi.BotAPI
	api    sender
	svc    *app.Service
	subs   Subscriptions
	log    *slog.Logger

	// pending holds the last looked up word per chat for the Save button.
	pending map[int64]models.LookupResult
}

// New authorizes against the Telegram API.
func New(token string, debug bool, svc *app.Service, subs Subscriptions, logger *slog.Logger) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token is not set")
	}
	client, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot: %w", err)
	}
	client.Debug = debug

	b := newBot(client, svc, subs, logger)
	b.client = client
	b.log.Info("authorized", "account", client.Self.UserName)
	return b, nil
}

func newBot(api sender, svc *app.Service, subs Subscriptions, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Bot{
		api:     api,
		svc:     svc,
		subs:    subs,
		log:     logger.With("component", "bot"),
		pending: make(map[int64]models.LookupResult),
	}
}

// Run handles updates one at a time until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60

	updates := b.client.GetUpdatesChan(updateConfig)
	defer b.client.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			b.log.Info("bot stopped")
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

// SendDigest implements scheduler.Notifier.
func (b *Bot) SendDigest(chatID int64, digest scheduler.Digest) error {
	msg := tgbotapi.NewMessage(chatID, formatDigest(digest))
	msg.ReplyMarkup = createKeyboard([][]MenuButton{{{Text: "🎯 Learn", CallbackData: callbackLearn}}})
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	return nil
}

// emailFor maps a Telegram user to the identity its collection is stored under.
func emailFor(userID int64) string {
	return fmt.Sprintf("tg-%d@telegram.local", userID)
}

func (b *Bot) workspace(ctx context.Context, userID int64) (*app.Workspace, error) {
	return b.svc.Workspace(ctx, emailFor(userID))
}

func (b *Bot) send(chatID int64, text string, buttons [][]MenuButton) {
	msg := tgbotapi.NewMessage(chatID, text)
	if len(buttons) > 0 {
		msg.ReplyMarkup = createKeyboard(buttons)
	}
	if _, err := b.api.Send(msg); err != nil {
		b.log.Warn("send failed", "chat_id", chatID, "error", err)
	}
}
