// Package adapters bridges concrete backends to the store ports.
package adapters

import (
	"context"

	"farmpilot/internal/core"
	"farmpilot/internal/services"
	"farmpilot/internal/storage"
	"farmpilot/internal/store"
)

var _ store.RecordStore = (*SQLiteAdapter)(nil)

// SQLiteAdapter exposes the SQLite repository as a record store while routing
// transaction writes through the service so every change is queued for the
// ledger mirror. All other entities pass straight through to the repository.
type SQLiteAdapter struct {
	*storage.SQLiteRepository
	service *services.TransactionService
}

func NewSQLiteAdapter(repo *storage.SQLiteRepository, service *services.TransactionService) *SQLiteAdapter {
	return &SQLiteAdapter{
		SQLiteRepository: repo,
		service:          service,
	}
}

func (a *SQLiteAdapter) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	return a.service.CreateTransaction(ctx, t)
}

func (a *SQLiteAdapter) UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	return a.service.UpdateTransaction(ctx, t)
}

func (a *SQLiteAdapter) DeleteTransactions(ctx context.Context, ids []int64) error {
	return a.service.DeleteTransactions(ctx, ids)
}
