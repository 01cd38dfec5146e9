package ai

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/wordwise/pkg/models"
)

func newTestServer(t *testing.T, content string, gotPrompt *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 2)
		if gotPrompt != nil {
			*gotPrompt = req.Messages[1].Content
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"choices": []map[string]any{{"index": 0, "message": map[string]string{"role": "assistant", "content": content}}},
		})
	}))
}

func newTestClient(t *testing.T, url string) *ChatGPT {
	t.Helper()
	c, err := New("key", "test-model", url+"/v1", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return c
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New("", "", "", slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}

func TestGenerateExample(t *testing.T) {
	var prompt string
	srv := newTestServer(t, "  \"The cat slept on the warm windowsill.\"\n", &prompt)
	defer srv.Close()

	got, err := newTestClient(t, srv.URL).GenerateExample(context.Background(), "cat", "noun", "A small domesticated feline.")
	require.NoError(t, err)
	assert.Equal(t, "The cat slept on the warm windowsill.", got)
	assert.Contains(t, prompt, `"cat"`)
	assert.Contains(t, prompt, "A small domesticated feline.")
}

func TestGenerateExampleEmptyContent(t *testing.T) {
	srv := newTestServer(t, "   ", nil)
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).GenerateExample(context.Background(), "cat", "noun", "feline")
	assert.Error(t, err)
}

func TestGenerateTextWithWordsUsesFiveWords(t *testing.T) {
	var prompt string
	srv := newTestServer(t, "A short story.", &prompt)
	defer srv.Close()

	words := make([]models.WordEntry, 7)
	for i, w := range []string{"a1", "b2", "c3", "d4", "e5", "f6", "g7"} {
		words[i].Word = w
	}
	got, err := newTestClient(t, srv.URL).GenerateTextWithWords(context.Background(), words)
	require.NoError(t, err)
	assert.Equal(t, "A short story.", got)
	assert.Contains(t, prompt, "a1, b2, c3, d4, e5.")
	assert.NotContains(t, prompt, "f6")

	_, err = newTestClient(t, srv.URL).GenerateTextWithWords(context.Background(), nil)
	assert.Error(t, err)
}
