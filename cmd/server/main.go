package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agent-runner/internal/adapter/httpapi"
	"agent-runner/internal/di"
	"agent-runner/internal/infrastructure/config"
	"agent-runner/internal/infrastructure/env"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(env.NewEnvService())
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	container, err := di.NewContainer(ctx, cfg, "server")
	if err != nil {
		log.Fatalf("initialization failed: %v", err)
	}
	defer container.Close()

	handler := httpapi.NewHandler(container.Runner, container.Tools, container.Memory, container.Logger)
	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: httpapi.NewRouter(handler, httpapi.RouterOptions{
			ServiceName: "agent-runner",
			AccessLog:   true,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		container.Logger.Info("HTTP server listening", "addr", cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			container.Logger.Error("HTTP server failed", "error", err)
		}
		return
	case <-ctx.Done():
	}

	container.Logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		container.Logger.Error("Graceful shutdown failed", "error", err)
	}
}
