package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"cashflow/internal/cache"
	apphttp "cashflow/internal/http"
	"cashflow/internal/log"
)

func serveCmd(e *env) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard JSON API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := e.app.Config
			if port == "" {
				port = cfg.Port
			}
			return runServe(cmd.Context(), e, ":"+port)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (default: PORT)")
	return cmd
}

func runServe(ctx context.Context, e *env, addr string) error {
	logger := e.app.Logger.WithComponent(log.ComponentApp)

	caches := cache.NewManager(e.app.Logger)
	srv := apphttp.NewServer(addr, e.tracker,
		apphttp.WithLogger(e.app.Logger),
		apphttp.WithRateLimit(e.app.Config.RateLimitPerMinute),
		apphttp.WithCacheManager(caches),
	)
	srv.MaxHeaderBytes = 1 << 16

	cacheCtx, stopCaches := context.WithCancel(ctx)
	defer stopCaches()
	go caches.Run(cacheCtx, 10*time.Minute)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting cashflow server",
			"addr", addr,
			log.FieldBackend, e.app.Config.DataBackend,
			log.FieldOperation, log.OpStartup)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("Server error", log.FieldError, err, "addr", addr)
			return err
		}
		return nil
	case <-ctx.Done():
		logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", log.FieldError, err)
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}
