// Package dictionary looks words up in the Free Dictionary API.
package dictionary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/example/wordwise/pkg/models"
)

// DefaultBaseURL is the public Free Dictionary endpoint.
const DefaultBaseURL = "https://api.dictionaryapi.dev/api/v2/entries/en"

// Client fetches word entries over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retryDelay time.Duration
	log        *slog.Logger
}

// NewClient creates a Client. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		retryDelay: 500 * time.Millisecond,
		log:        logger.With("adapter", "dictionary"),
	}
}

// Lookup returns the first entry for word. It fails with ErrNotFound when the API has no
// entry and with ErrServiceUnavailable for any other failure.
func (c *Client) Lookup(ctx context.Context, word string) (models.LookupResult, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return models.LookupResult{}, fmt.Errorf("%w: empty word", models.ErrNotFound)
	}
	reqURL := c.baseURL + "/" + url.PathEscape(strings.ToLower(word))

	c.log.DebugContext(ctx, "dictionary request", slog.String("word", word))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return models.LookupResult{}, fmt.Errorf("%w: create request: %w", models.ErrServiceUnavailable, err)
	}

	resp, err := c.doWithRetry(ctx, req, word)
	if err != nil {
		c.log.ErrorContext(ctx, "dictionary request failed", slog.String("word", word), slog.String("error", err.Error()))
		return models.LookupResult{}, fmt.Errorf("%w: %w", models.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return models.LookupResult{}, fmt.Errorf("%w: no definition found for %q", models.ErrNotFound, word)
	}
	if resp.StatusCode != http.StatusOK {
		return models.LookupResult{}, fmt.Errorf("%w: unexpected status %d", models.ErrServiceUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.LookupResult{}, fmt.Errorf("%w: read body: %w", models.ErrServiceUnavailable, err)
	}

	var entries []apiEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return models.LookupResult{}, fmt.Errorf("%w: decode json: %w", models.ErrServiceUnavailable, err)
	}
	if len(entries) == 0 {
		return models.LookupResult{}, fmt.Errorf("%w: no definition found for %q", models.ErrNotFound, word)
	}

	result := mapEntry(entries[0], word)

	c.log.DebugContext(ctx, "dictionary response",
		slog.String("word", word),
		slog.Int("meanings", len(result.Meanings)),
	)
	return result, nil
}

// doWithRetry executes the request with a single retry on 5xx or network errors.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request, word string) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry {
		return resp, err
	}
	if ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	c.log.WarnContext(ctx, "dictionary retry", slog.String("word", word), slog.String("reason", reason))

	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(c.retryDelay):
	}

	return c.httpClient.Do(req)
}

// mapEntry converts one API entry. The phonetic falls back to the first phonetics text and
// then to the word itself between slashes.
func mapEntry(e apiEntry, searched string) models.LookupResult {
	result := models.LookupResult{
		Word:     e.Word,
		Phonetic: e.Phonetic,
		Meanings: make([]models.Meaning, 0, len(e.Meanings)),
	}
	if result.Word == "" {
		result.Word = searched
	}
	if result.Phonetic == "" && len(e.Phonetics) > 0 {
		result.Phonetic = e.Phonetics[0].Text
	}
	if result.Phonetic == "" {
		result.Phonetic = "/" + searched + "/"
	}

	for _, m := range e.Meanings {
		meaning := models.Meaning{
			PartOfSpeech: m.PartOfSpeech,
			Definitions:  make([]models.Definition, 0, len(m.Definitions)),
		}
		for _, d := range m.Definitions {
			meaning.Definitions = append(meaning.Definitions, models.Definition{
				Definition: d.Definition,
				Example:    d.Example,
			})
		}
		result.Meanings = append(result.Meanings, meaning)
	}
	return result
}

// Search looks word up and never fails: any error is turned into the synthetic
// not-found result, which is returned together with the cause.
func (c *Client) Search(ctx context.Context, word string) (models.LookupResult, error) {
	result, err := c.Lookup(ctx, word)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) && !errors.Is(err, models.ErrServiceUnavailable) {
			err = fmt.Errorf("%w: %w", models.ErrServiceUnavailable, err)
		}
		return models.NotFoundResult(strings.TrimSpace(word)), err
	}
	return result, nil
}
