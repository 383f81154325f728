package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"compras/internal/amqp"
	"compras/internal/config"
	applog "compras/internal/log"
	"compras/internal/sheets/google"
	"compras/internal/storage"
	"compras/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentWorker)
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.GoogleSpreadsheetID == "" {
		logger.Error("GOOGLE_SPREADSHEET_ID is required for the ledger worker")
		os.Exit(1)
	}

	// The worker reads sync state from SQLite directly; the memory backend
	// has nothing to catch up on.
	db, err := storage.Open(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open database", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ledger, err := google.NewFromEnv(ctx)
	if err != nil {
		logger.Error("Failed to create Google Sheets client", "error", err)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", "error", err, "url", cfg.AMQPURL)
		os.Exit(1)
	}
	defer amqpClient.Close()

	w := worker.NewLedgerWorker(db.Items(), db.Profiles(), ledger, cfg.SyncBatchSize)

	logger.Info("Starting ledger worker",
		"queue", cfg.AMQPQueue,
		"batch_size", cfg.SyncBatchSize,
		"sync_interval", cfg.SyncInterval.String())

	if err := w.StartupSyncCheck(ctx); err != nil {
		logger.Error("Startup sync check failed", "error", err)
	}

	consumeErr := make(chan error, 1)
	go func() {
		consumeErr <- consumeLoop(ctx, amqpClient, w, logger)
	}()

	ticker := time.NewTicker(cfg.SyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutdown signal received")
			logger.Info("Worker stopped gracefully")
			return
		case err := <-consumeErr:
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Consumer stopped", "error", err)
				os.Exit(1)
			}
			return
		case <-ticker.C:
			if err := w.ProcessPendingSync(ctx); err != nil {
				logger.Error("Catch-up scan failed", "error", err)
			}
		}
	}
}

// consumeLoop consumes until the context ends, reconnecting when the
// broker drops the connection.
func consumeLoop(ctx context.Context, client *amqp.Client, w *worker.LedgerWorker, logger *applog.Logger) error {
	for {
		err := client.ConsumeItemSync(ctx, func(msg *amqp.ItemSyncMessage) error {
			return w.HandleSyncMessage(ctx, msg)
		})
		if err == nil || errors.Is(err, context.Canceled) {
			return err
		}

		logger.Warn("Consumer lost connection, reconnecting", "error", err)
		if err := client.Reconnect(ctx); err != nil {
			return err
		}
	}
}
