package worker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"farmpilot/internal/amqp"
	"farmpilot/internal/core"
	"farmpilot/internal/storage"
)

type fakeLedger struct {
	appended []int64
	removed  []int64
	failNext bool
}

func (f *fakeLedger) AppendTransaction(_ context.Context, t core.Transaction, _ string) (string, error) {
	if f.failNext {
		f.failNext = false
		return "", errors.New("ledger unavailable")
	}
	f.appended = append(f.appended, t.ID)
	return "Ledger!A2", nil
}

func (f *fakeLedger) RemoveTransaction(_ context.Context, id int64) error {
	f.removed = append(f.removed, id)
	return nil
}

func newWorkerFixture(t *testing.T) (*SyncWorker, *storage.SQLiteRepository, *fakeLedger) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	ledger := &fakeLedger{}
	return NewSyncWorker(repo, ledger, ledger, 10), repo, ledger
}

func seedPending(t *testing.T, repo *storage.SQLiteRepository) core.Transaction {
	t.Helper()
	ctx := context.Background()
	farm, err := repo.CreateFarm(ctx, core.Farm{Name: "Green Acres", Size: 120, SizeUnit: "acres"})
	if err != nil {
		t.Fatalf("CreateFarm: %v", err)
	}
	tx, err := repo.CreateTransaction(ctx, core.Transaction{
		Type:     core.Expense,
		Category: "Seeds",
		Amount:   core.Money{Cents: 45000},
		Date:     core.NewDate(2024, 4, 2),
		FarmID:   farm.ID,
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	return tx
}

func TestHandleMessageUpsert(t *testing.T) {
	w, repo, ledger := newWorkerFixture(t)
	ctx := context.Background()
	tx := seedPending(t, repo)

	msg := &amqp.TransactionSyncMessage{ID: tx.ID, Version: 1, Op: amqp.OpUpsert}
	if err := w.HandleMessage(ctx, msg); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}

	if len(ledger.appended) != 1 || ledger.appended[0] != tx.ID {
		t.Errorf("appended = %v, want [%d]", ledger.appended, tx.ID)
	}

	pending, err := repo.PendingSyncTransactions(ctx, 10)
	if err != nil {
		t.Fatalf("PendingSyncTransactions: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("still pending after sync: %v", pending)
	}
}

func TestHandleMessageUpsertMissingRow(t *testing.T) {
	w, _, ledger := newWorkerFixture(t)

	msg := &amqp.TransactionSyncMessage{ID: 999, Version: 1, Op: amqp.OpUpsert}
	if err := w.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleMessage should skip missing rows, got %v", err)
	}
	if len(ledger.appended) != 0 {
		t.Errorf("nothing should be appended for a missing row, got %v", ledger.appended)
	}
}

func TestHandleMessageDelete(t *testing.T) {
	w, _, ledger := newWorkerFixture(t)

	msg := &amqp.TransactionSyncMessage{ID: 7, Op: amqp.OpDelete}
	if err := w.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if len(ledger.removed) != 1 || ledger.removed[0] != 7 {
		t.Errorf("removed = %v, want [7]", ledger.removed)
	}
}

func TestHandleMessageUnknownOp(t *testing.T) {
	w, _, _ := newWorkerFixture(t)

	msg := &amqp.TransactionSyncMessage{ID: 1, Op: "compact"}
	if err := w.HandleMessage(context.Background(), msg); err == nil {
		t.Error("expected error for unknown operation")
	}
}

func TestUpsertFailureMarksError(t *testing.T) {
	w, repo, ledger := newWorkerFixture(t)
	ctx := context.Background()
	tx := seedPending(t, repo)
	ledger.failNext = true

	msg := &amqp.TransactionSyncMessage{ID: tx.ID, Version: 1, Op: amqp.OpUpsert}
	if err := w.HandleMessage(ctx, msg); err == nil {
		t.Fatal("expected error when ledger append fails")
	}

	// Errored rows come back after a retry reset.
	if err := repo.RetryFailedSyncs(ctx); err != nil {
		t.Fatalf("RetryFailedSyncs: %v", err)
	}
	pending, err := repo.PendingSyncTransactions(ctx, 10)
	if err != nil {
		t.Fatalf("PendingSyncTransactions: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != tx.ID {
		t.Errorf("pending after retry reset = %v, want row %d", pending, tx.ID)
	}
}

func TestStartupSyncCheck(t *testing.T) {
	w, repo, ledger := newWorkerFixture(t)
	ctx := context.Background()
	tx := seedPending(t, repo)

	if err := w.StartupSyncCheck(ctx); err != nil {
		t.Fatalf("StartupSyncCheck: %v", err)
	}
	if len(ledger.appended) != 1 || ledger.appended[0] != tx.ID {
		t.Errorf("appended = %v, want [%d]", ledger.appended, tx.ID)
	}

	// A second pass finds nothing to do.
	if err := w.StartupSyncCheck(ctx); err != nil {
		t.Fatalf("StartupSyncCheck second pass: %v", err)
	}
	if len(ledger.appended) != 1 {
		t.Errorf("second pass re-synced rows: %v", ledger.appended)
	}
}
