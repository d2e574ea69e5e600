package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"farmpilot/internal/core"
	"farmpilot/internal/store"
)

const activityColumns = "id, type, description, date, farm_id, crop_id, equipment_id"

func scanActivity(row interface{ Scan(...any) error }) (core.Activity, error) {
	var (
		a       core.Activity
		date    string
		cropID  sql.NullInt64
		equipID sql.NullInt64
	)
	if err := row.Scan(&a.ID, &a.Type, &a.Description, &date, &a.FarmID, &cropID, &equipID); err != nil {
		return core.Activity{}, err
	}
	a.Date = scanDate(date)
	a.CropID = cropID.Int64
	a.EquipmentID = equipID.Int64
	return a, nil
}

func (r *SQLiteRepository) ListActivities(ctx context.Context) ([]core.Activity, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+activityColumns+" FROM activities ORDER BY date DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var out []core.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetActivity(ctx context.Context, id int64) (core.Activity, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+activityColumns+" FROM activities WHERE id = ?", id)
	a, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Activity{}, store.ErrNotFound
	}
	if err != nil {
		return core.Activity{}, fmt.Errorf("get activity %d: %w", id, err)
	}
	return a, nil
}

func (r *SQLiteRepository) CreateActivity(ctx context.Context, a core.Activity) (core.Activity, error) {
	if err := a.Validate(); err != nil {
		return core.Activity{}, err
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO activities (type, description, date, farm_id, crop_id, equipment_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.Type, a.Description, a.Date.ISO(), a.FarmID, optionalID(a.CropID), optionalID(a.EquipmentID))
	if err != nil {
		return core.Activity{}, fmt.Errorf("create activity: %w", err)
	}

	a.ID, err = res.LastInsertId()
	if err != nil {
		return core.Activity{}, fmt.Errorf("read activity id: %w", err)
	}
	return a, nil
}

func (r *SQLiteRepository) UpdateActivity(ctx context.Context, a core.Activity) (core.Activity, error) {
	if err := a.Validate(); err != nil {
		return core.Activity{}, err
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE activities
		 SET type = ?, description = ?, date = ?, farm_id = ?, crop_id = ?, equipment_id = ?
		 WHERE id = ?`,
		a.Type, a.Description, a.Date.ISO(), a.FarmID, optionalID(a.CropID), optionalID(a.EquipmentID), a.ID)
	if err != nil {
		return core.Activity{}, fmt.Errorf("update activity %d: %w", a.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Activity{}, store.ErrNotFound
	}
	return a, nil
}

func (r *SQLiteRepository) DeleteActivities(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query, args := inClause("DELETE FROM activities WHERE id IN", ids)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete activities: %w", err)
	}
	return nil
}
