// Package cli is the wordwise command tree.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/wordwise/internal/ai"
	"github.com/example/wordwise/internal/app"
	"github.com/example/wordwise/internal/auth"
	"github.com/example/wordwise/internal/config"
	"github.com/example/wordwise/internal/database"
	"github.com/example/wordwise/internal/dictionary"
)

// Runtime holds what the commands need once configuration is loaded.
type Runtime struct {
	Config  *config.Config
	Logger  *slog.Logger
	Store   database.Store
	Service *app.Service
}

// Builder constructs the Runtime. Tests substitute their own.
type Builder func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Runtime, error)

type cli struct {
	envFile string
	build   Builder
	rt      *Runtime
}

// Execute runs the command tree with the default Builder and exits non-zero on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd(Build).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// NewRootCmd assembles the command tree.
func NewRootCmd(build Builder) *cobra.Command {
	c := &cli{build: build}

	root := &cobra.Command{
		Use:           "wordwise",
		Short:         "A personal English vocabulary manager",
		Long:          "WordWise looks words up, saves them with automatic categories, runs flashcard reviews and tracks your progress.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.envFile)
			if err != nil {
				return err
			}
			logger := config.NewLogger(cfg.Log, cmd.ErrOrStderr())
			rt, err := c.build(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			c.rt = rt
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.rt == nil || c.rt.Store == nil {
				return nil
			}
			return c.rt.Store.Close()
		},
	}
	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "Path to an optional .env file")

	root.AddCommand(
		c.loginCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.searchCmd(),
		c.wotdCmd(),
		c.listCmd(),
		c.reviewCmd(),
		c.statsCmd(),
		c.progressCmd(),
		c.exportCmd(),
		c.importCmd(),
		c.settingsCmd(),
		c.clearDataCmd(),
		c.storyCmd(),
		c.botCmd(),
	)
	return root
}

// workspace opens the collection of the signed-in user.
func (c *cli) workspace(cmd *cobra.Command) (*app.Workspace, error) {
	ws, err := c.rt.Service.CurrentWorkspace(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("%w (run `wordwise login` first)", err)
	}
	return ws, nil
}

// Build is the production Builder.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	store, err := database.Open(ctx, database.Config{
		Backend:     cfg.Storage.Backend,
		SQLitePath:  cfg.Storage.SQLitePath,
		PostgresDSN: cfg.Storage.PostgresDSN,
		RedisURL:    cfg.Storage.RedisURL,
		BadgerPath:  cfg.Storage.BadgerPath,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	var provider auth.Provider
	switch strings.ToLower(cfg.Auth.Provider) {
	case "google":
		provider = auth.NewGoogleProvider(auth.GoogleConfig{
			ClientID:     cfg.Auth.GoogleClientID,
			ClientSecret: cfg.Auth.GoogleClientSecret,
			RedirectURL:  cfg.Auth.GoogleRedirectURL,
		}, func(url string) {
			fmt.Fprintf(os.Stderr, "Open this URL in your browser to sign in:\n\n  %s\n\n", url)
		}, logger)
	default:
		provider = auth.NewMockProvider(nil)
	}

	deps := app.Deps{
		Store:      store,
		Dictionary: dictionary.NewClient(cfg.Dictionary.BaseURL, cfg.Dictionary.Timeout, logger),
		Auth:       provider,
		Tokens:     auth.NewTokens(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL),
		Clock:      time.Now,
		Rand:       rand.New(rand.NewSource(time.Now().UnixNano())),
		Logger:     logger,
	}
	if cfg.OpenAIEnabled() {
		writer, err := ai.New(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL, logger)
		if err != nil {
			logger.Warn("example generation disabled", "error", err)
		} else {
			deps.Writer = writer
		}
	}

	return &Runtime{
		Config:  cfg,
		Logger:  logger,
		Store:   store,
		Service: app.New(deps),
	}, nil
}
