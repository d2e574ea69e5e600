package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"farmpilot/internal/sheets"
	"farmpilot/internal/storage"
)

// SyncProcessorConfig tunes the catch-up poller.
type SyncProcessorConfig struct {
	// PollInterval is how often to check for pending rows.
	PollInterval time.Duration

	// BatchSize caps how many rows one poll cycle mirrors.
	BatchSize int
}

// DefaultSyncProcessorConfig polls every 10 seconds, 10 rows at a time.
func DefaultSyncProcessorConfig() SyncProcessorConfig {
	return SyncProcessorConfig{
		PollInterval: 10 * time.Second,
		BatchSize:    10,
	}
}

// SyncProcessor is the catch-up path for the ledger mirror: it polls the
// database for transactions still flagged pending (messages lost while the
// queue was down, or publishes that failed) and mirrors them directly.
type SyncProcessor struct {
	storage *storage.SQLiteRepository
	sheets  sheets.TransactionAppender
	config  SyncProcessorConfig

	// Lifecycle management
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewSyncProcessor wires the poller to its database and ledger sink.
func NewSyncProcessor(
	storage *storage.SQLiteRepository,
	appender sheets.TransactionAppender,
	config SyncProcessorConfig,
) *SyncProcessor {
	return &SyncProcessor{
		storage: storage,
		sheets:  appender,
		config:  config,
	}
}

// Start launches the poll loop. A processor can only run once at a time.
func (p *SyncProcessor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("sync processor is already running")
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	p.mu.Unlock()

	go p.runLoop(ctx)

	slog.InfoContext(ctx, "Sync processor started",
		"poll_interval", p.config.PollInterval,
		"batch_size", p.config.BatchSize)

	return nil
}

// Stop halts the loop and waits for the in-flight batch, bounded by ctx.
func (p *SyncProcessor) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	close(p.stopCh)

	select {
	case <-p.doneCh:
		slog.InfoContext(ctx, "Sync processor stopped gracefully")
	case <-ctx.Done():
		slog.WarnContext(ctx, "Sync processor stop timed out")
		return ctx.Err()
	}

	p.mu.Lock()
	p.running = false
	p.mu.Unlock()

	return nil
}

// IsRunning reports whether the poll loop is active.
func (p *SyncProcessor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *SyncProcessor) runLoop(ctx context.Context) {
	defer close(p.doneCh)

	pollTicker := time.NewTicker(p.config.PollInterval)
	defer pollTicker.Stop()

	// First pass right away so a backlog does not wait out a full interval.
	p.processBatch(ctx)

	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case <-pollTicker.C:
			p.processBatch(ctx)
		}
	}
}

// processBatch mirrors one batch of pending rows, oldest first.
func (p *SyncProcessor) processBatch(ctx context.Context) {
	pending, err := p.storage.PendingSyncTransactions(ctx, p.config.BatchSize)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to fetch pending transactions", "error", err)
		return
	}

	if len(pending) == 0 {
		return
	}

	slog.DebugContext(ctx, "Processing sync batch", "count", len(pending))

	for _, item := range pending {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		default:
		}

		if err := p.mirrorTransaction(ctx, item.ID); err != nil {
			slog.WarnContext(ctx, "Sync processing failed",
				"id", item.ID,
				"version", item.Version,
				"error", err)
			if err := p.storage.MarkSyncError(ctx, item.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error",
					"id", item.ID, "error", err)
			}
			continue
		}

		if err := p.storage.MarkSynced(ctx, item.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to mark transaction synced",
				"id", item.ID, "error", err)
		}
	}
}

// mirrorTransaction appends one transaction to the ledger spreadsheet.
func (p *SyncProcessor) mirrorTransaction(ctx context.Context, id int64) error {
	transaction, err := p.storage.GetTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("get transaction %d: %w", id, err)
	}

	farmName := unknownFarmName
	if farm, err := p.storage.GetFarm(ctx, transaction.FarmID); err == nil {
		farmName = farm.Name
	}

	ref, err := p.sheets.AppendTransaction(ctx, transaction, farmName)
	if err != nil {
		return fmt.Errorf("append to ledger: %w", err)
	}

	slog.InfoContext(ctx, "Mirrored transaction to ledger",
		"transaction_id", id,
		"ledger_ref", ref)

	return nil
}

// RetryFailed resets all errored rows for another pass.
func (p *SyncProcessor) RetryFailed(ctx context.Context) error {
	return p.storage.RetryFailedSyncs(ctx)
}

const unknownFarmName = "Unknown Farm"
