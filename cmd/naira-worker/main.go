package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JamesHardey/NairaStudent/internal/amqp"
	"github.com/JamesHardey/NairaStudent/internal/cli"
	gsheet "github.com/JamesHardey/NairaStudent/internal/sheets/google"
	"github.com/JamesHardey/NairaStudent/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting naira-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	// The worker reads pending rows straight from SQLite regardless of the
	// backend the interactive CLI uses.
	sqliteRepo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer sqliteRepo.Close()

	// Google Sheets client for the export (optional)
	var sheetsClient *gsheet.Client
	if cfg.GoogleSpreadsheetID != "" {
		var err error
		sheetsClient, err = gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPSyncQueue, cfg.AMQPAlertQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	var syncWorker *worker.SyncWorker
	if sheetsClient != nil {
		syncWorker = worker.NewSyncWorker(sqliteRepo, sheetsClient, sheetsClient, cfg.SyncBatchSize)

		// Drain anything missed while the worker was down
		logger.Info("Performing startup sync check...")
		if err := syncWorker.StartupSyncCheck(ctx); err != nil {
			logger.Error("Failed startup sync check", "error", err)
			// Don't exit - continue with normal operation
		}
	} else {
		logger.Info("Skipping sheet export - no Google Sheets client available")
	}

	g, gctx := errgroup.WithContext(ctx)

	if syncWorker != nil {
		g.Go(func() error {
			return amqpClient.Consume(gctx, amqpClient.SyncQueue(), func(body []byte) error {
				return syncWorker.HandleQueueMessage(gctx, body)
			})
		})

		g.Go(func() error {
			ticker := time.NewTicker(cfg.SyncInterval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return gctx.Err()
				case <-ticker.C:
					if err := syncWorker.ProcessPendingExpenses(gctx); err != nil {
						logger.Error("Periodic sync failed", "error", err)
					}
				}
			}
		})
	}

	// Alerts land here until a push delivery channel exists.
	g.Go(func() error {
		return amqpClient.Consume(gctx, amqpClient.AlertQueue(), func(body []byte) error {
			msg, err := amqp.AlertMessageFromJSON(body)
			if err != nil {
				return err
			}
			slog.InfoContext(gctx, "Budget alert",
				"type", msg.Type,
				"level", msg.Level,
				"title", msg.Title,
				"body", msg.Body)
			return nil
		})
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker shutdown complete")
}
