package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"farmpilot/internal/core"
	"farmpilot/internal/store"
)

const cropColumns = "id, crop_type, field, planting_date, expected_harvest, status, notes, farm_id"

func scanCrop(row interface{ Scan(...any) error }) (core.Crop, error) {
	var (
		c        core.Crop
		planting string
		harvest  string
	)
	if err := row.Scan(&c.ID, &c.CropType, &c.Field, &planting, &harvest, &c.Status, &c.Notes, &c.FarmID); err != nil {
		return core.Crop{}, err
	}
	c.PlantingDate = scanDate(planting)
	c.ExpectedHarvest = scanDate(harvest)
	return c, nil
}

func (r *SQLiteRepository) ListCrops(ctx context.Context) ([]core.Crop, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+cropColumns+" FROM crops ORDER BY planting_date DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("list crops: %w", err)
	}
	defer rows.Close()

	var out []core.Crop
	for rows.Next() {
		c, err := scanCrop(rows)
		if err != nil {
			return nil, fmt.Errorf("scan crop: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetCrop(ctx context.Context, id int64) (core.Crop, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+cropColumns+" FROM crops WHERE id = ?", id)
	c, err := scanCrop(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Crop{}, store.ErrNotFound
	}
	if err != nil {
		return core.Crop{}, fmt.Errorf("get crop %d: %w", id, err)
	}
	return c, nil
}

func (r *SQLiteRepository) CreateCrop(ctx context.Context, c core.Crop) (core.Crop, error) {
	if err := c.Validate(); err != nil {
		return core.Crop{}, err
	}
	if c.Status == "" {
		c.Status = core.CropPlanted
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO crops (crop_type, field, planting_date, expected_harvest, status, notes, farm_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.CropType, c.Field, c.PlantingDate.ISO(), dateColumn(c.ExpectedHarvest), c.Status, c.Notes, c.FarmID)
	if err != nil {
		return core.Crop{}, fmt.Errorf("create crop: %w", err)
	}

	c.ID, err = res.LastInsertId()
	if err != nil {
		return core.Crop{}, fmt.Errorf("read crop id: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) UpdateCrop(ctx context.Context, c core.Crop) (core.Crop, error) {
	if err := c.Validate(); err != nil {
		return core.Crop{}, err
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE crops
		 SET crop_type = ?, field = ?, planting_date = ?, expected_harvest = ?, status = ?, notes = ?, farm_id = ?
		 WHERE id = ?`,
		c.CropType, c.Field, c.PlantingDate.ISO(), dateColumn(c.ExpectedHarvest), c.Status, c.Notes, c.FarmID, c.ID)
	if err != nil {
		return core.Crop{}, fmt.Errorf("update crop %d: %w", c.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Crop{}, store.ErrNotFound
	}
	return c, nil
}

func (r *SQLiteRepository) DeleteCrops(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query, args := inClause("DELETE FROM crops WHERE id IN", ids)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete crops: %w", err)
	}
	return nil
}
