package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"farmpilot/internal/amqp"
	"farmpilot/internal/sheets"
	"farmpilot/internal/storage"
	"farmpilot/internal/store"
)

// SyncWorker mirrors transactions from SQLite to the ledger spreadsheet. It
// consumes queue messages for near real time mirroring; the startup check
// covers rows whose messages were lost while the worker was down.
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	appender  sheets.TransactionAppender
	remover   sheets.TransactionRemover
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, appender sheets.TransactionAppender, remover sheets.TransactionRemover, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		appender:  appender,
		remover:   remover,
		batchSize: batchSize,
	}
}

// HandleMessage processes a single sync message from AMQP.
func (w *SyncWorker) HandleMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"id", msg.ID,
		"version", msg.Version,
		"op", msg.Op)

	switch msg.Op {
	case amqp.OpUpsert:
		return w.handleUpsert(ctx, msg.ID)
	case amqp.OpDelete:
		return w.handleDelete(ctx, msg.ID)
	default:
		return fmt.Errorf("unknown sync operation: %s", msg.Op)
	}
}

func (w *SyncWorker) handleUpsert(ctx context.Context, id int64) error {
	transaction, err := w.storage.GetTransaction(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		// Deleted before we got to it. Nothing to mirror.
		slog.WarnContext(ctx, "Transaction no longer exists, skipping sync", "id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	farmName := unknownFarmName
	if farm, err := w.storage.GetFarm(ctx, transaction.FarmID); err == nil {
		farmName = farm.Name
	}

	ref, err := w.appender.AppendTransaction(ctx, transaction, farmName)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("append to ledger: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", id, "error", err)
		// Don't return an error here - the mirror actually worked.
	}

	slog.InfoContext(ctx, "Successfully mirrored transaction",
		"id", id,
		"ledger_ref", ref,
		"farm", farmName,
		"amount_cents", transaction.Amount.Cents)

	return nil
}

func (w *SyncWorker) handleDelete(ctx context.Context, id int64) error {
	if w.remover == nil {
		slog.WarnContext(ctx, "No ledger remover configured, skipping delete", "id", id)
		return nil
	}

	if err := w.remover.RemoveTransaction(ctx, id); err != nil {
		return fmt.Errorf("remove transaction from ledger: %w", err)
	}

	slog.InfoContext(ctx, "Removed transaction from ledger", "id", id)
	return nil
}

// StartupSyncCheck mirrors any rows still flagged pending. Useful to recover
// from missed AMQP messages or worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.PendingSyncTransactions(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending transactions for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending transactions found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending transactions on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0

	for _, p := range pending {
		if err := w.handleUpsert(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to sync transaction during startup",
				"id", p.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)

	return nil
}

const unknownFarmName = "Unknown Farm"
