// Command server serves the Tic-Tac-Toe web UI and JSON API.
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

	"github.com/jaminalder/tictactoe-ai/internal/ai"
	"github.com/jaminalder/tictactoe-ai/internal/app"
	"github.com/jaminalder/tictactoe-ai/internal/config"
	"github.com/jaminalder/tictactoe-ai/internal/web"
)

func main() {
	cfg, err := config.LoadServerConfig(os.Getenv)
	if err != nil {
		slog.Error("Cannot load configuration", "err", err)
		os.Exit(1)
	}
	logger := config.SetLogLevel(os.Stderr, cfg.LogLevel)

	var rng ai.Rand = ai.DefaultRand()
	if cfg.Seed != nil {
		// a seeded *rand.Rand is not safe for concurrent use
		rng = ai.Locked(ai.NewRand(*cfg.Seed))
		logger.Info("using seeded computer player", "seed", *cfg.Seed)
	}

	svc := app.NewService(app.WithRand(rng), app.WithLogger(logger))
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           web.NewServer(svc, web.Options{Logger: logger, Heartbeat: cfg.Heartbeat, Rand: rng}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go pruneSessions(ctx, svc, cfg.SessionTTL)

	go func() {
		logger.Info("listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
		os.Exit(1)
	}
}

func pruneSessions(ctx context.Context, svc *app.Service, ttl time.Duration) {
	ticker := time.NewTicker(max(ttl/4, time.Second))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			svc.Prune(ttl)
		}
	}
}
