package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"farmpilot/internal/core"
	"farmpilot/internal/store"
)

const farmColumns = "id, name, size, size_unit, location, created_at"

func scanFarm(row interface{ Scan(...any) error }) (core.Farm, error) {
	var (
		f       core.Farm
		created string
	)
	if err := row.Scan(&f.ID, &f.Name, &f.Size, &f.SizeUnit, &f.Location, &created); err != nil {
		return core.Farm{}, err
	}
	f.CreatedAt = scanDate(created)
	return f, nil
}

func (r *SQLiteRepository) ListFarms(ctx context.Context) ([]core.Farm, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+farmColumns+" FROM farms ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("list farms: %w", err)
	}
	defer rows.Close()

	var out []core.Farm
	for rows.Next() {
		f, err := scanFarm(rows)
		if err != nil {
			return nil, fmt.Errorf("scan farm: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetFarm(ctx context.Context, id int64) (core.Farm, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+farmColumns+" FROM farms WHERE id = ?", id)
	f, err := scanFarm(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Farm{}, store.ErrNotFound
	}
	if err != nil {
		return core.Farm{}, fmt.Errorf("get farm %d: %w", id, err)
	}
	return f, nil
}

func (r *SQLiteRepository) CreateFarm(ctx context.Context, f core.Farm) (core.Farm, error) {
	if err := f.Validate(); err != nil {
		return core.Farm{}, err
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = core.Date{Time: time.Now().UTC()}
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO farms (name, size, size_unit, location, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		f.Name, f.Size, f.SizeUnit, f.Location, f.CreatedAt.ISO())
	if err != nil {
		return core.Farm{}, fmt.Errorf("create farm: %w", err)
	}

	f.ID, err = res.LastInsertId()
	if err != nil {
		return core.Farm{}, fmt.Errorf("read farm id: %w", err)
	}

	slog.InfoContext(ctx, "Farm saved to SQLite", "id", f.ID, "name", f.Name)
	return f, nil
}

func (r *SQLiteRepository) UpdateFarm(ctx context.Context, f core.Farm) (core.Farm, error) {
	if err := f.Validate(); err != nil {
		return core.Farm{}, err
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE farms SET name = ?, size = ?, size_unit = ?, location = ? WHERE id = ?`,
		f.Name, f.Size, f.SizeUnit, f.Location, f.ID)
	if err != nil {
		return core.Farm{}, fmt.Errorf("update farm %d: %w", f.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Farm{}, store.ErrNotFound
	}

	return r.GetFarm(ctx, f.ID)
}

func (r *SQLiteRepository) DeleteFarms(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query, args := inClause("DELETE FROM farms WHERE id IN", ids)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete farms: %w", err)
	}
	return nil
}
