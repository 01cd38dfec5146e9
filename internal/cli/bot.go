package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/example/wordwise/internal/bot"
	"github.com/example/wordwise/internal/database"
	"github.com/example/wordwise/internal/metrics"
	"github.com/example/wordwise/internal/scheduler"
)

func (c *cli) botCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot with the daily digest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.rt.Config
			logger := c.rt.Logger
			subs := database.NewSubscriptionRepository(c.rt.Store)

			b, err := bot.New(cfg.Telegram.Token, cfg.Telegram.Debug, c.rt.Service, subs, logger)
			if err != nil {
				return err
			}

			if cfg.Metrics.Addr != "" {
				go func() {
					if err := metrics.Serve(ctx, cfg.Metrics.Addr, logger); err != nil {
						logger.Error("metrics server failed", "error", err)
					}
				}()
			}

			if cfg.Digest.Enabled {
				sched := scheduler.New(c.rt.Store, subs, b, logger)
				if err := sched.Start(cfg.Digest.Time); err != nil {
					return err
				}
				defer sched.Stop()
			}

			if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}
