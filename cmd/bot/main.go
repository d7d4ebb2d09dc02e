// Package main contains the entrypoint for the jokebot Telegram bot.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/edgard/jokebot/internal/autopost"
	"github.com/edgard/jokebot/internal/bot"
	"github.com/edgard/jokebot/internal/bot/handlers"
	"github.com/edgard/jokebot/internal/bot/tasks"
	"github.com/edgard/jokebot/internal/config"
	"github.com/edgard/jokebot/internal/database"
	"github.com/edgard/jokebot/internal/errs"
	"github.com/edgard/jokebot/internal/events"
	"github.com/edgard/jokebot/internal/jokes"
	"github.com/edgard/jokebot/internal/logger"
	"github.com/edgard/jokebot/internal/metrics"
	"github.com/edgard/jokebot/internal/rank"
	"github.com/edgard/jokebot/internal/reactions"
	"github.com/edgard/jokebot/internal/scheduler"
	"github.com/edgard/jokebot/internal/settings"
	"github.com/edgard/jokebot/internal/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes every component, blocks until shutdown and returns the exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	if err := database.Seed(ctx, store, log); err != nil {
		log.Error("Failed to seed database", "error", err)
		return 1
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.MustRegister(registry)

	dispatcher := events.NewDispatcher(log)
	settingsSvc := settings.NewService(store, log)
	jokeSvc := jokes.NewService(store, dispatcher, log)
	catalog := rank.NewCatalog(store, cfg.Ranks.Category)
	assigner := rank.NewAssigner(catalog, store, dispatcher, log)

	sched, err := scheduler.New(log)
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	// The default handler needs deps that need the bot, so it is bound after creation.
	var defaultHandler tgbot.HandlerFunc
	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithDefaultHandler(func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			defaultHandler(ctx, b, update)
		}),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	me, err := tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1
	}
	cfg.Telegram.BotUsername = me.Username
	log.Info("Retrieved bot info", "bot_id", me.ID, "bot_username", me.Username)

	sender := telegram.NewSender(tg, log, cfg.Telegram.SendRatePerSec)
	var notifier errs.Notifier
	if cfg.Telegram.ReportErrorsToAdmin {
		notifier = telegram.NewAdminNotifier(sender, cfg.Telegram.AdminUserID)
	}
	reporter := errs.NewLogReporter(log, notifier)

	autoPost := autopost.New(sched, settingsSvc, jokeSvc, reporter, dispatcher, log, autopost.Options{
		IntervalUnit: cfg.AutoPost.IntervalUnit,
		TickTimeout:  cfg.AutoPost.TickTimeout,
	})

	bot.NewDelivery(sender, store, cfg.Messages, log).Subscribe(dispatcher)

	var reactor handlers.Reactor
	if cfg.Reactions.Enabled {
		reactor = reactions.NewService(store, sender, log, reactions.Options{RandomChance: cfg.Reactions.RandomChance})
	}

	hDeps := handlers.HandlerDeps{
		Logger:   log,
		Config:   cfg,
		Store:    store,
		Sender:   sender,
		Settings: settingsSvc,
		Jokes:    jokeSvc,
		Catalog:  catalog,
		Ranks:    assigner,
		AutoPost: autoPost,
		Reactor:  reactor,
		Events:   dispatcher,
		Reporter: reporter,
	}
	defaultHandler = handlers.NewMessageHandler(hDeps)

	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(hDeps)); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	scheduled := sched.ScheduleTasks(cfg.Scheduler, tasks.RegisterAllTasks(tasks.TaskDeps{Logger: log, Store: store}))
	log.Info("Maintenance tasks scheduled", "count", scheduled)

	var metricsServer bot.HTTPServer
	if cfg.Metrics.Addr != "" {
		metricsServer = metrics.NewServer(log, cfg.Metrics.Addr, registry, store)
	}

	app := bot.NewBot(log, tg, sched, autoPost, metricsServer)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	time.Sleep(time.Second)
	return 0
}
