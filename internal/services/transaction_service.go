package services

import (
	"context"
	"fmt"
	"log/slog"

	"farmpilot/internal/amqp"
	"farmpilot/internal/core"
	"farmpilot/internal/storage"
)

// TransactionService orchestrates transaction writes across SQLite and AMQP.
// The database is the source of truth; ledger-mirror messages are best effort
// and never fail the request.
type TransactionService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewTransactionService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *TransactionService {
	return &TransactionService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// CreateTransaction saves a transaction locally and publishes a sync message.
func (s *TransactionService) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	created, err := s.storage.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	if err := s.publishSyncMessage(ctx, created.ID, 1); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", created.ID, "error", err)
		// The row is saved and flagged pending; the poller will catch it.
	}

	return created, nil
}

// UpdateTransaction updates a transaction locally and re-queues it for sync.
func (s *TransactionService) UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	updated, err := s.storage.UpdateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}

	if err := s.publishSyncMessage(ctx, updated.ID, 0); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", updated.ID, "error", err)
	}

	return updated, nil
}

// DeleteTransactions deletes rows locally and publishes delete messages.
func (s *TransactionService) DeleteTransactions(ctx context.Context, ids []int64) error {
	if err := s.storage.DeleteTransactions(ctx, ids); err != nil {
		return fmt.Errorf("delete transactions: %w", err)
	}

	for _, id := range ids {
		if err := s.publishDeleteMessage(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to publish delete message",
				"id", id, "error", err)
		}
	}

	return nil
}

func (s *TransactionService) publishSyncMessage(ctx context.Context, id, version int64) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return nil
	}

	return s.amqpClient.PublishTransactionSync(ctx, id, version)
}

func (s *TransactionService) publishDeleteMessage(ctx context.Context, id int64) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping delete message")
		return nil
	}

	return s.amqpClient.PublishTransactionDelete(ctx, id)
}

// Close closes both storage and AMQP connections
func (s *TransactionService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close transaction service: %v", errs)
	}

	return nil
}
