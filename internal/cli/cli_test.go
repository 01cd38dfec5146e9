package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/wordwise/internal/app"
	"github.com/example/wordwise/internal/auth"
	"github.com/example/wordwise/internal/config"
	"github.com/example/wordwise/internal/database"
	"github.com/example/wordwise/pkg/models"
)

type dictionaryStub map[string]models.LookupResult

func (d dictionaryStub) Search(_ context.Context, word string) (models.LookupResult, error) {
	if r, ok := d[strings.ToLower(word)]; ok {
		return r, nil
	}
	return models.NotFoundResult(word), models.ErrNotFound
}

// keepOpen lets several command runs share one in-memory store.
type keepOpen struct {
	database.Store
}

func (keepOpen) Close() error { return nil }

func testBuilder(t *testing.T) Builder {
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
	rng := rand.New(rand.NewSource(3))

	return func(_ context.Context, cfg *config.Config, _ *slog.Logger) (*Runtime, error) {
		shared := keepOpen{store}
		return &Runtime{
			Config: cfg,
			Logger: logger,
			Store:  shared,
			Service: app.New(app.Deps{
				Store:      shared,
				Dictionary: dict,
				Auth:       auth.NewMockProvider(rng),
				Tokens:     auth.NewTokens("cli-test-secret-value", time.Hour),
				Clock:      func() time.Time { return time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC) },
				Rand:       rng,
				Logger:     logger,
			}),
		}, nil
	}
}

func run(t *testing.T, build Builder, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(build)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--env-file", ""}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommandsRequireLogin(t *testing.T) {
	build := testBuilder(t)

	_, err := run(t, build, "", "list")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)

	out, err := run(t, build, "", "search", "cat")
	require.NoError(t, err, "searching does not need an account")
	assert.Contains(t, out, "A small pet.")
}

func TestWorkflow(t *testing.T) {
	build := testBuilder(t)

	out, err := run(t, build, "", "login")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as")

	out, err = run(t, build, "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "@gmail.com")

	out, err = run(t, build, "", "search", "cat", "--save")
	require.NoError(t, err)
	assert.Contains(t, out, `Saved "cat" as Beginner / Daily life / Common`)

	out, err = run(t, build, "", "search", "qwzx")
	require.NoError(t, err)
	assert.Contains(t, out, "Could not find definition")

	out, err = run(t, build, "", "list", "--facet", "topic", "--value", "daily_life")
	require.NoError(t, err)
	assert.Contains(t, out, "cat")

	out, err = run(t, build, "\ny\n", "review", "topic", "daily_life")
	require.NoError(t, err)
	assert.Contains(t, out, "A small pet.")
	assert.Contains(t, out, "Correct: 1 of 1 (100%)")

	out, err = run(t, build, "", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Total words:     1")
	assert.Contains(t, out, "Total reviews:   1")

	out, err = run(t, build, "", "progress", "topic")
	require.NoError(t, err)
	assert.Contains(t, out, "Overall: 1 words, 1 reviewed (100%)")

	out, err = run(t, build, "", "export", "--format", "csv", "--out", "-")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Word,Phonetic,Part of Speech"))

	_, err = run(t, build, "", "settings", "set", "dailyGoal", "5")
	require.NoError(t, err)
	out, err = run(t, build, "", "settings")
	require.NoError(t, err)
	assert.Contains(t, out, "dailyGoal:     5")

	out, err = run(t, build, "no\n", "clear-data")
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted")

	_, err = run(t, build, "", "clear-data", "--yes")
	require.NoError(t, err)
	out, err = run(t, build, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No words found.")

	_, err = run(t, build, "", "logout")
	require.NoError(t, err)
	_, err = run(t, build, "", "whoami")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestReviewQuitCancels(t *testing.T) {
	build := testBuilder(t)
	_, err := run(t, build, "", "login")
	require.NoError(t, err)
	_, err = run(t, build, "", "search", "cat", "-s")
	require.NoError(t, err)

	out, err := run(t, build, "q\n", "review", "topic", "daily_life")
	require.NoError(t, err)
	assert.Contains(t, out, "Review stopped")

	_, err = run(t, build, "", "review", "topic", "business")
	assert.ErrorIs(t, err, models.ErrEmptyCategory)

	_, err = run(t, build, "", "review", "colour", "red")
	assert.ErrorIs(t, err, models.ErrInvalidCategory)
}

func TestExportAndImportBackupFile(t *testing.T) {
	build := testBuilder(t)
	_, err := run(t, build, "", "login")
	require.NoError(t, err)
	_, err = run(t, build, "", "search", "cat", "--save")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "backup.json")
	out, err := run(t, build, "", "export", "--format", "json", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported to")

	_, err = run(t, build, "", "clear-data", "-y")
	require.NoError(t, err)

	out, err = run(t, build, "", "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Restored 1 words")

	list := filepath.Join(t.TempDir(), "words.csv")
	require.NoError(t, os.WriteFile(list, []byte("word\ncat\nqwzx\n"), 0o644))
	out, err = run(t, build, "", "import", list)
	require.NoError(t, err)
	assert.Contains(t, out, "Processed 2 words: 0 saved, 1 already saved, 1 not found")

	_, err = run(t, build, "", "import", "words.txt")
	assert.Error(t, err)
}
