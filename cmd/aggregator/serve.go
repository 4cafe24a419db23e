package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"jobpilot/aggregator/internal/api"
	"jobpilot/aggregator/internal/grpcserver"
	"jobpilot/aggregator/internal/logger"
	"jobpilot/aggregator/internal/scheduler"
)

func newServeCommand() *cobra.Command {
	var noWarmup bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and gRPC servers with the weekly refresh scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), noWarmup)
		},
	}
	cmd.Flags().BoolVar(&noWarmup, "no-warmup", false, "skip the refresh on startup")
	return cmd
}

func serve(ctx context.Context, noWarmup bool) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, cleanup, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer cleanup()
	log := a.Log
	cfg := a.Config

	// ── Scheduler ───────────────────────────────────────────────────────────
	sched := scheduler.New(a.Cache, cfg.RefreshSchedule, time.Local, log)
	if noWarmup {
		sched.WithoutWarmup()
	}
	if err := sched.Start(ctx); err != nil {
		return err
	}
	defer sched.Stop()

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	var letters api.LetterWriter
	if a.Letters != nil {
		letters = a.Letters
	}
	api.NewHandler(a.Cache, letters, a.Weights(), a.Metrics.Handler(), log).RegisterRoutes(mux)

	srv := &http.Server{
		Addr:        ":" + cfg.HTTPPort,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		// A cold /jobs request waits for every source.
		WriteTimeout: 5 * time.Minute,
	}

	// ── gRPC server ──────────────────────────────────────────────────────────
	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}
	gs := grpcserver.NewGRPCServer(grpcserver.NewServer(a.Cache, a.Weights(), log))

	errCh := make(chan error, 2)
	go func() {
		log.Info("HTTP listening", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		log.Info("gRPC listening", logger.String("addr", lis.Addr().String()))
		if err := gs.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	select {
	case <-ctx.Done():
	case err = <-errCh:
		log.Error("Server failed", logger.Error(err))
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if serr := srv.Shutdown(shutdownCtx); serr != nil {
		log.Error("HTTP shutdown error", logger.Error(serr))
	}
	stopGRPC(shutdownCtx, gs.GracefulStop, gs.Stop)
	log.Info("Stopped")
	return err
}

// stopGRPC waits for in-flight RPCs until ctx expires, then forces a stop.
func stopGRPC(ctx context.Context, graceful, force func()) {
	done := make(chan struct{})
	go func() {
		graceful()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		force()
	}
}
