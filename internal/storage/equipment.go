package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"farmpilot/internal/core"
	"farmpilot/internal/store"
)

const equipmentColumns = `id, name, type, brand, model, year, status, fuel_type,
	purchase_price_cents, current_value_cents, operating_hours,
	maintenance_schedule, last_maintenance, next_maintenance, farm_id, created_at`

func scanEquipment(row interface{ Scan(...any) error }) (core.Equipment, error) {
	var (
		e        core.Equipment
		purchase int64
		current  int64
		last     string
		next     string
		created  string
	)
	err := row.Scan(&e.ID, &e.Name, &e.Type, &e.Brand, &e.Model, &e.Year, &e.Status, &e.FuelType,
		&purchase, &current, &e.OperatingHours,
		&e.MaintenanceSchedule, &last, &next, &e.FarmID, &created)
	if err != nil {
		return core.Equipment{}, err
	}
	e.PurchasePrice = core.Money{Cents: purchase}
	e.CurrentValue = core.Money{Cents: current}
	e.LastMaintenance = scanDate(last)
	e.NextMaintenance = scanDate(next)
	e.CreatedAt = scanDate(created)
	return e, nil
}

func (r *SQLiteRepository) ListEquipment(ctx context.Context) ([]core.Equipment, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+equipmentColumns+" FROM equipment ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("list equipment: %w", err)
	}
	defer rows.Close()

	var out []core.Equipment
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan equipment: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetEquipment(ctx context.Context, id int64) (core.Equipment, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+equipmentColumns+" FROM equipment WHERE id = ?", id)
	e, err := scanEquipment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Equipment{}, store.ErrNotFound
	}
	if err != nil {
		return core.Equipment{}, fmt.Errorf("get equipment %d: %w", id, err)
	}
	return e, nil
}

func (r *SQLiteRepository) CreateEquipment(ctx context.Context, e core.Equipment) (core.Equipment, error) {
	if err := e.Validate(); err != nil {
		return core.Equipment{}, err
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = core.Date{Time: time.Now().UTC()}
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO equipment (name, type, brand, model, year, status, fuel_type,
		  purchase_price_cents, current_value_cents, operating_hours,
		  maintenance_schedule, last_maintenance, next_maintenance, farm_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Name, e.Type, e.Brand, e.Model, e.Year, e.Status, e.FuelType,
		e.PurchasePrice.Cents, e.CurrentValue.Cents, e.OperatingHours,
		e.MaintenanceSchedule, dateColumn(e.LastMaintenance), dateColumn(e.NextMaintenance),
		e.FarmID, e.CreatedAt.ISO())
	if err != nil {
		return core.Equipment{}, fmt.Errorf("create equipment: %w", err)
	}

	e.ID, err = res.LastInsertId()
	if err != nil {
		return core.Equipment{}, fmt.Errorf("read equipment id: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) UpdateEquipment(ctx context.Context, e core.Equipment) (core.Equipment, error) {
	if err := e.Validate(); err != nil {
		return core.Equipment{}, err
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE equipment
		 SET name = ?, type = ?, brand = ?, model = ?, year = ?, status = ?, fuel_type = ?,
		     purchase_price_cents = ?, current_value_cents = ?, operating_hours = ?,
		     maintenance_schedule = ?, last_maintenance = ?, next_maintenance = ?, farm_id = ?
		 WHERE id = ?`,
		e.Name, e.Type, e.Brand, e.Model, e.Year, e.Status, e.FuelType,
		e.PurchasePrice.Cents, e.CurrentValue.Cents, e.OperatingHours,
		e.MaintenanceSchedule, dateColumn(e.LastMaintenance), dateColumn(e.NextMaintenance),
		e.FarmID, e.ID)
	if err != nil {
		return core.Equipment{}, fmt.Errorf("update equipment %d: %w", e.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Equipment{}, store.ErrNotFound
	}
	return r.GetEquipment(ctx, e.ID)
}

func (r *SQLiteRepository) DeleteEquipment(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query, args := inClause("DELETE FROM equipment WHERE id IN", ids)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete equipment: %w", err)
	}
	return nil
}

// DueForMaintenance returns equipment whose next maintenance date falls on or
// before the given day. Rows without a schedule are skipped.
func (r *SQLiteRepository) DueForMaintenance(ctx context.Context, day core.Date) ([]core.Equipment, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+equipmentColumns+` FROM equipment
		 WHERE next_maintenance != '' AND next_maintenance <= ?
		 ORDER BY next_maintenance ASC`, day.ISO())
	if err != nil {
		return nil, fmt.Errorf("equipment due for maintenance: %w", err)
	}
	defer rows.Close()

	var out []core.Equipment
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan equipment: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
