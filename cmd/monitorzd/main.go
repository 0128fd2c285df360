package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/joho/godotenv"

	"github.com/makxca/monitorzd/internal/config"
	"github.com/makxca/monitorzd/internal/logging"
	"github.com/makxca/monitorzd/internal/rzd"
	"github.com/makxca/monitorzd/internal/store"
	"github.com/makxca/monitorzd/internal/telegram"
	"github.com/makxca/monitorzd/internal/watch"
	"github.com/makxca/monitorzd/internal/wizard"
)

func main() {
	_ = godotenv.Load()

	logger := logging.New()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("bad configuration", "err", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// the store connection is the only fatal dependency
	st, err := store.Open(cfg.BadgerPath)
	if err != nil {
		logger.Error("open store failed", "path", cfg.BadgerPath, "err", err)
		os.Exit(1)
	}
	defer st.Close()

	client := rzd.NewClient(cfg.HTTPTimeout)
	if cfg.RZDBaseURL != "" {
		client.BaseURL = cfg.RZDBaseURL
	}

	sessions := wizard.NewSessions()
	wiz := &wizard.Wizard{Resolver: client, Store: st, Logger: logger}

	svc := telegram.NewService(sessions, wiz, st, logger)

	b, err := bot.New(cfg.BotToken, svc.Options()...)
	if err != nil {
		logger.Error("create bot failed", "err", err)
		os.Exit(1)
	}
	svc.Register(b)
	svc.SetCommands(ctx, b)

	scheduler := watch.NewScheduler(
		st,
		client,
		telegram.NewNotifier(b),
		logger,
		cfg.PollInterval,
		cfg.JitterPct,
		cfg.NotifyPolicy,
	)
	svc.Checker = scheduler

	go scheduler.Run(ctx)

	logger.Info("bot started")
	b.Start(ctx)
	logger.Info("bot stopped")
}
