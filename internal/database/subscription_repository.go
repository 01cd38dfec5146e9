package database

import (
	"context"
	"sort"
	"strconv"
)

const keySubscribers = "digest_subscribers"

// Subscriber is a chat that receives the daily digest.
type Subscriber struct {
	ChatID int64  `json:"chatId"`
	Email  string `json:"email"`
}

// SubscriptionRepository stores digest subscribers in the global scope.
type SubscriptionRepository struct {
	store Store
}

// NewSubscriptionRepository keeps digest subscribers in the global scope of store.
func NewSubscriptionRepository(store Store) *SubscriptionRepository {
	return &SubscriptionRepository{store: store}
}

// Add subscribes a chat, replacing any previous entry for it.
func (r *SubscriptionRepository) Add(ctx context.Context, sub Subscriber) error {
	subs, err := r.load(ctx)
	if err != nil {
		return err
	}
	subs[strconv.FormatInt(sub.ChatID, 10)] = sub
	return saveJSON(ctx, r.store, GlobalScope, keySubscribers, subs)
}

// Remove unsubscribes a chat.
func (r *SubscriptionRepository) Remove(ctx context.Context, chatID int64) error {
	subs, err := r.load(ctx)
	if err != nil {
		return err
	}
	delete(subs, strconv.FormatInt(chatID, 10))
	return saveJSON(ctx, r.store, GlobalScope, keySubscribers, subs)
}

// List returns every subscriber ordered by chat id.
func (r *SubscriptionRepository) List(ctx context.Context) ([]Subscriber, error) {
	subs, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Subscriber, 0, len(subs))
	for _, s := range subs {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChatID < out[j].ChatID })
	return out, nil
}

func (r *SubscriptionRepository) load(ctx context.Context) (map[string]Subscriber, error) {
	subs := map[string]Subscriber{}
	if _, err := loadJSON(ctx, r.store, GlobalScope, keySubscribers, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}
