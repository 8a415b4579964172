package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"skipgram-query/internal/app"
	"skipgram-query/internal/httputil"
	"skipgram-query/internal/queue"
)

func main() {
	deps, err := app.BuildWorker()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	deps.Log.Info("prediction worker starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Serve prediction requests over NATS request-reply
	responder := queue.NewResponder(deps.Log, deps.NC, deps.Eval, deps.Config.DefaultTopK)
	g.Go(func() error {
		return responder.Listen(ctx, deps.Config.PredictSubject)
	})

	// Run health check server
	g.Go(func() error {
		return httputil.ServeHealth(deps.Log, deps.Config.Port, "worker")
	})

	// Wait for either to fail
	if err := g.Wait(); err != nil {
		deps.Log.Error("worker stopped", "err", err)
	}
}
