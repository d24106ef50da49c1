// Command server runs the roleplay session server: the client websocket
// gateway and the admin API on one listener.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/rpserver-go/internal/api"
	"github.com/mcoot/rpserver-go/internal/config"
	"github.com/mcoot/rpserver-go/internal/factory"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return 1
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := factory.New(ctx, factory.ConfigFromServer(cfg, logger))
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		return 1
	}

	// The loop outlives ctx so players can still be disconnected cleanly
	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()
	go app.Loop.Run(loopCtx)

	ln, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		logger.Error("listen failed", slog.String("addr", cfg.HTTPAddr), slog.String("error", err.Error()))
		_ = app.Close()
		return 1
	}
	server := api.NewServer(app.Router(), api.DefaultServerConfig(cfg.HTTPAddr), logger)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Serve(ln) }()

	code := 0
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			code = 1
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			code = 1
		}
	}

	if err := app.Close(); err != nil {
		logger.Error("close error", slog.String("error", err.Error()))
		code = 1
	}
	logger.Info("server stopped", slog.Int("exit_code", code))
	return code
}
