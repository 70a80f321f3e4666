package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"covidstats/api"
	"covidstats/internal/bootstrap"
	"covidstats/internal/config"
	sharedinfra "covidstats/internal/shared/infrastructure"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "covidstats:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}

	logger, err := sharedinfra.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	app, err := bootstrap.New(cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := app.Reload(ctx); err != nil {
		return err
	}

	// SIGHUP recharge les données; en cas d'échec le snapshot courant reste servi
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				if _, err := app.Reload(ctx); err != nil {
					logger.Error("reload failed", zap.Error(err))
				}
			}
		}
	}()

	handlers := api.NewHandlers(app.Store, app.Views, app.Exports, logger)
	return api.Serve(ctx, cfg.HTTPAddr, handlers.Routes(), logger)
}
