// Package ai asks an OpenAI chat model for example sentences and short practice texts.
package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/example/wordwise/pkg/models"
)

const (
	DefaultModel = "gpt-4o-mini"

	systemPrompt = "You are an English vocabulary tutor. You write short, natural examples that help learners remember words."
)

// ChatGPT is a client for the OpenAI chat completion API.
type ChatGPT struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	log         *slog.Logger
}

// New creates a client. baseURL may be empty to use the public API.
func New(apiKey, model, baseURL string, logger *slog.Logger) (*ChatGPT, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key is not set")
	}
	if model == "" {
		model = DefaultModel
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &ChatGPT{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		maxTokens:   100,
		temperature: 0.7,
		log:         logger.With("adapter", "openai"),
	}, nil
}

// GenerateExample writes one example sentence for the given sense of a word.
func (c *ChatGPT) GenerateExample(ctx context.Context, word, partOfSpeech, definition string) (string, error) {
	prompt := fmt.Sprintf(
		"Write one short, practical English sentence that naturally uses the %s %q in the sense %q. Return only the sentence.",
		partOfSpeech, word, definition,
	)
	return c.complete(ctx, prompt, c.maxTokens, c.temperature)
}

// GenerateTextWithWords writes a two or three sentence story using up to five of the words.
func (c *ChatGPT) GenerateTextWithWords(ctx context.Context, words []models.WordEntry) (string, error) {
	if len(words) == 0 {
		return "", errors.New("no words to write about")
	}
	list := make([]string, 0, 5)
	for i := 0; i < len(words) && i < 5; i++ {
		list = append(list, words[i].Word)
	}

	prompt := fmt.Sprintf(
		"Write a short, engaging English text (2-3 sentences) that uses the following words: %s. "+
			"Keep it simple enough for a learner. Return only the text.",
		strings.Join(list, ", "),
	)
	// Higher temperature for more creativity
	return c.complete(ctx, prompt, 150, 0.8)
}

func (c *ChatGPT) complete(ctx context.Context, prompt string, maxTokens int, temperature float32) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		c.log.ErrorContext(ctx, "openai call failed", slog.String("error", err.Error()))
		return "", fmt.Errorf("openai call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	text = strings.Trim(text, "\"")
	if text == "" {
		return "", errors.New("openai returned empty content")
	}
	return text, nil
}
