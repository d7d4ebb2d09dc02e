// Package bot wires the long-running components of jokebot together and
// manages their lifecycle.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Poller receives Telegram updates until ctx is cancelled.
type Poller interface {
	Start(ctx context.Context)
}

// JobRunner is the cron and interval job scheduler.
type JobRunner interface {
	Start()
	Stop() error
}

// TimerRegistry owns the per-chat joke timers.
type TimerRegistry interface {
	StopAll()
}

// HTTPServer is an optional side server such as the metrics endpoint.
type HTTPServer interface {
	Run(ctx context.Context) error
}

// Bot represents the main bot application and manages its components' lifecycle.
type Bot struct {
	logger    *slog.Logger
	poller    Poller
	scheduler JobRunner
	autoPost  TimerRegistry
	metrics   HTTPServer
}

// NewBot creates the orchestrator. metrics may be nil.
func NewBot(logger *slog.Logger, poller Poller, scheduler JobRunner, autoPost TimerRegistry, metrics HTTPServer) *Bot {
	return &Bot{
		logger:    logger.With("component", "bot_orchestrator"),
		poller:    poller,
		scheduler: scheduler,
		autoPost:  autoPost,
		metrics:   metrics,
	}
}

// Run starts every component and blocks until ctx is cancelled or one of them fails.
// On the way out all chat timers are cancelled before the scheduler stops.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting bot orchestrator...")

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b.logger.Info("Starting Telegram bot listener...")
		b.poller.Start(gCtx)
		b.logger.Info("Telegram bot listener stopped.")

		if gCtx.Err() == nil {
			b.logger.Warn("Telegram bot listener stopped unexpectedly without context cancellation.")
			return errors.New("telegram listener stopped unexpectedly")
		}
		return nil
	})

	g.Go(func() error {
		b.logger.Info("Starting scheduler...")
		b.scheduler.Start()

		<-gCtx.Done()
		b.logger.Info("Shutdown signal received, stopping scheduler...")

		b.autoPost.StopAll()
		if err := b.scheduler.Stop(); err != nil {
			b.logger.Error("Error stopping scheduler", "error", err)
		}
		return nil
	})

	if b.metrics != nil {
		g.Go(func() error {
			if err := b.metrics.Run(gCtx); err != nil {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
	}

	b.logger.Info("Bot orchestrator running. Waiting for shutdown signal or error...")
	err := g.Wait()

	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot orchestrator stopped gracefully.")
	return nil
}
