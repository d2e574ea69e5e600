package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farmpilot/internal/cli"
	"farmpilot/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting maintenance-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	sqliteRepo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer sqliteRepo.Close()

	processor := services.NewMaintenanceProcessor(sqliteRepo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interval := cfg.MaintenanceInterval
	logger.Info("Maintenance scheduler configured",
		"interval", interval,
		"sqlite_db", cfg.SQLiteDBPath)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run initial processing on startup
	logger.Info("Running initial maintenance check...")
	if count, err := processor.ProcessDueMaintenance(ctx, time.Now()); err != nil {
		logger.Error("Initial processing failed", "error", err)
	} else {
		logger.Info("Initial processing complete", "tasks_created", count)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				logger.Info("Checking for due equipment maintenance...")
				count, err := processor.ProcessDueMaintenance(ctx, now)
				if err != nil {
					logger.Error("Periodic processing failed", "error", err)
				} else {
					logger.Info("Periodic processing complete",
						"tasks_created", count,
						"next_check", now.Add(interval).Format("15:04:05"))
				}
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	logger.Info("Shutting down maintenance-worker...")
	cancel()

	select {
	case <-shutdownCtx.Done():
		logger.Warn("Shutdown timeout reached")
	case <-time.After(2 * time.Second):
		logger.Info("Maintenance-worker shutdown complete")
	}
}
