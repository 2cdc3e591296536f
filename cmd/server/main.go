package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"derrclan.com/daily-seed/internal/config"
	"derrclan.com/daily-seed/internal/dailyseed"
	"derrclan.com/daily-seed/internal/host"
	"derrclan.com/daily-seed/internal/notify"
	"derrclan.com/daily-seed/internal/options"
	"derrclan.com/daily-seed/internal/scripture"
	"derrclan.com/daily-seed/internal/server"
	"derrclan.com/daily-seed/internal/settings"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	store, err := options.OpenSQLite(ctx, cfg.DBPath)
	if err != nil {
		slog.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	var notifier notify.Notifier = notify.Nop{}
	if cfg.Mailgun.Enabled() {
		mg, err := notify.NewMailgun(cfg.Mailgun)
		if err != nil {
			slog.Error("failed to set up mailgun", "error", err)
			os.Exit(1)
		}
		notifier = mg
	}

	opts := settings.New(store)
	registry := host.NewRegistry()
	renderer := dailyseed.New(opts, scripture.NewClient(), dailyseed.WithNotifier(notifier))
	if err := renderer.Register(registry, opts.Schema()); err != nil {
		slog.Error("failed to register daily seed", "error", err)
		os.Exit(1)
	}

	if cfg.AdminPasswordHash == "" {
		slog.Warn("DAILY_SEED_ADMIN_PASSWORD_HASH not set, admin pages disabled")
	}
	s, err := server.New(registry, server.Config{
		Title:             cfg.Title,
		Content:           cfg.PageContent,
		AdminUser:         cfg.AdminUser,
		AdminPasswordHash: cfg.AdminPasswordHash,
	})
	if err != nil {
		slog.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	srv := http.Server{
		Addr:    cfg.Addr,
		Handler: s.Muxer(),
	}

	idleConns := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("error shutting down http server", "error", err)
		}
		close(idleConns)
	}()

	slog.Info("listening", "addr", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("http server died", "error", err)
	}
	<-idleConns
}
