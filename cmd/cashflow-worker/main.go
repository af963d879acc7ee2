package main

import (
	"context"
	"os"

	"cashflow/internal/backend"
	"cashflow/internal/cli"
	"cashflow/internal/config"
	"cashflow/internal/log"
	gsheet "cashflow/internal/sheets/google"
	"cashflow/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	cfg := config.Load()
	logger := log.Setup(cfg.LogLevel).WithComponent(log.ComponentWorker)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Worker stopped with error", log.FieldError, err)
		stop()
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully", log.FieldOperation, log.OpShutdown)
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	logger.Info("Starting cashflow-worker",
		log.FieldBackend, cfg.DataBackend,
		"backup_dir", cfg.BackupDir,
		"interval", cfg.BackupInterval.String(),
		log.FieldOperation, log.OpStartup)

	app, err := cli.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	opts := []worker.Option{worker.WithLogger(logger)}
	if cfg.SheetsEnabled() {
		mirror, err := gsheet.New(ctx, gsheet.Options{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsJSON: cfg.GoogleServiceAccountJSON,
			CredentialsFile: cfg.GoogleServiceAccountFile,
		})
		if err != nil {
			return err
		}
		opts = append(opts, worker.WithMirror(mirror))
		logger.Info("Google Sheets mirror enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets mirror disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	var consume worker.ConsumeFunc
	if app.Backend.AMQP != nil {
		consume = app.Backend.AMQP.ConsumeSnapshotSaved
	} else {
		logger.Info("AMQP disabled - backing up on the interval only")
	}

	if !backend.BackendType(cfg.DataBackend).Persistent() {
		logger.Warn("Memory backend is not shared with the API process; backups only see this process's data")
	}

	w := worker.NewBackupWorker(app.Repo, cfg.BackupDir, opts...)
	return w.Run(ctx, consume, cfg.BackupInterval)
}
