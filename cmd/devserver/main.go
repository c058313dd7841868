// devserver exposes the download and transcribe handlers over plain HTTP for
// local testing without Lambda. AWS credentials come from the usual chain.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go_yt2text/internal/app"
	"github.com/anatolykoptev/go_yt2text/internal/engine"
	"github.com/anatolykoptev/go_yt2text/internal/handler"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	addr := env.Str("HTTP_ADDR", ":8080")
	cfg := engine.ConfigFromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	awsCfg, err := app.LoadAWS(ctx)
	if err != nil {
		logger.Error("aws init failed", slog.Any("error", err))
		os.Exit(1)
	}
	cors := handler.CORSFor(cfg.CORSAllowOrigins)
	gw := handler.Gateway(
		handler.NewDownload(app.NewDownloader(ctx, cfg, awsCfg), cors),
		handler.NewTranscribe(app.NewTranscriber(cfg, awsCfg), cors),
		15*time.Minute,
	)

	srv := &http.Server{
		Addr:              addr,
		Handler:           gw,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      16 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("devserver started", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutdown signal received")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		_ = srv.Close()
	}
	logger.Info("devserver stopped")
}
