// Package cli holds the start-up steps shared by cmd/cashflow and
// cmd/cashflow-worker.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"cashflow/internal/backend"
	"cashflow/internal/config"
	"cashflow/internal/ledger"
	"cashflow/internal/log"
	"cashflow/internal/snapshot"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile(paths ...string) {
	_ = godotenv.Load(paths...)
}

// LoadConfig reads and validates the environment configuration.
func LoadConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// App bundles what every command needs once the backend is open.
type App struct {
	Config  *config.Config
	Logger  *log.Logger
	Backend *backend.BackendResult
	Repo    *snapshot.Repository
}

// Open creates the backend selected by cfg.
func Open(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("open backend: %w", err)
	}
	return &App{
		Config:  cfg,
		Logger:  logger,
		Backend: res,
		Repo:    snapshot.NewRepository(res.Store),
	}, nil
}

// Tracker restores the ledger from the backend, publishing to AMQP when a
// client is available.
func (a *App) Tracker(ctx context.Context) (*ledger.Tracker, error) {
	opts := []ledger.Option{ledger.WithLogger(a.Logger)}
	if a.Backend.AMQP != nil {
		opts = append(opts, ledger.WithNotifier(a.Backend.AMQP))
	}
	return ledger.NewTracker(ctx, a.Repo, opts...)
}

// Close releases the backend.
func (a *App) Close() {
	if a.Backend == nil || a.Backend.Cleanup == nil {
		return
	}
	if err := a.Backend.Cleanup(); err != nil {
		a.Logger.Error("Cleanup failed", log.FieldError, err)
	}
}
