package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"farmpilot/internal/core"
	"farmpilot/internal/store"
)

const transactionColumns = "id, type, category, amount_cents, date, description, farm_id"

func scanTransaction(row interface{ Scan(...any) error }) (core.Transaction, error) {
	var (
		t      core.Transaction
		typ    string
		date   string
		amount int64
	)
	if err := row.Scan(&t.ID, &typ, &t.Category, &amount, &date, &t.Description, &t.FarmID); err != nil {
		return core.Transaction{}, err
	}
	t.Type = core.TransactionType(typ)
	t.Amount = core.Money{Cents: amount}
	t.Date = scanDate(date)
	return t, nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions ORDER BY date DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ?", id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, store.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return t, nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (type, category, amount_cents, date, description, farm_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		string(t.Type), t.Category, t.Amount.Cents, t.Date.ISO(), t.Description, t.FarmID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	t.ID, err = res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("read transaction id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", t.ID,
		"type", t.Type,
		"category", t.Category,
		"amount_cents", t.Amount.Cents,
		"farm_id", t.FarmID)

	return t, nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	// Updated rows go back in the sync queue with a bumped version so the
	// mirror worker re-sends them.
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions
		 SET type = ?, category = ?, amount_cents = ?, date = ?, description = ?, farm_id = ?,
		     sync_status = 'pending', version = version + 1
		 WHERE id = ?`,
		string(t.Type), t.Category, t.Amount.Cents, t.Date.ISO(), t.Description, t.FarmID, t.ID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction %d: %w", t.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Transaction{}, store.ErrNotFound
	}
	return t, nil
}

func (r *SQLiteRepository) DeleteTransactions(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query, args := inClause("DELETE FROM transactions WHERE id IN", ids)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete transactions: %w", err)
	}
	return nil
}

// PendingSyncTransaction is the minimal row the sync queue publishes.
type PendingSyncTransaction struct {
	ID        int64
	Version   int64
	CreatedAt time.Time
}

// PendingSyncTransactions returns transactions waiting to be mirrored to the
// ledger spreadsheet, oldest first.
func (r *SQLiteRepository) PendingSyncTransactions(ctx context.Context, limit int) ([]PendingSyncTransaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, version, created_at FROM transactions
		 WHERE sync_status = 'pending'
		 ORDER BY created_at ASC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync transactions: %w", err)
	}
	defer rows.Close()

	var out []PendingSyncTransaction
	for rows.Next() {
		var (
			p       PendingSyncTransaction
			created string
		)
		if err := rows.Scan(&p.ID, &p.Version, &created); err != nil {
			return nil, fmt.Errorf("scan pending transaction: %w", err)
		}
		p.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", created)
		out = append(out, p)
	}
	return out, rows.Err()
}

// MarkSynced records a successful mirror of the transaction.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE transactions SET sync_status = 'synced' WHERE id = ?", id); err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}
	slog.InfoContext(ctx, "Transaction marked as synced", "id", id)
	return nil
}

// MarkSyncError flags the transaction so the queue retries it later.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE transactions SET sync_status = 'error' WHERE id = ?", id); err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}
	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id)
	return nil
}

// RetryFailedSyncs puts all errored rows back in the sync queue.
func (r *SQLiteRepository) RetryFailedSyncs(ctx context.Context) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE transactions SET sync_status = 'pending' WHERE sync_status = 'error'")
	if err != nil {
		return fmt.Errorf("retry failed syncs: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		slog.InfoContext(ctx, "Re-queued errored transactions for sync", "count", n)
	}
	return nil
}

// inClause builds "prefix (?, ?, ...)" plus its args.
func inClause(prefix string, ids []int64) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	return prefix + " (" + strings.Join(placeholders, ", ") + ")", args
}
