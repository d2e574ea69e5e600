package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"farmpilot/internal/core"
	"farmpilot/internal/store"
)

const taskColumns = "id, title, type, priority, due_date, completed, completed_date, farm_id, crop_id"

func scanTask(row interface{ Scan(...any) error }) (core.Task, error) {
	var (
		t         core.Task
		due       string
		completed string
		cropID    sql.NullInt64
	)
	if err := row.Scan(&t.ID, &t.Title, &t.Type, &t.Priority, &due, &t.Completed, &completed, &t.FarmID, &cropID); err != nil {
		return core.Task{}, err
	}
	t.DueDate = scanDate(due)
	t.CompletedDate = scanDate(completed)
	t.CropID = cropID.Int64
	return t, nil
}

func (r *SQLiteRepository) ListTasks(ctx context.Context) ([]core.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+taskColumns+" FROM tasks ORDER BY due_date ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var out []core.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetTask(ctx context.Context, id int64) (core.Task, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Task{}, store.ErrNotFound
	}
	if err != nil {
		return core.Task{}, fmt.Errorf("get task %d: %w", id, err)
	}
	return t, nil
}

func (r *SQLiteRepository) CreateTask(ctx context.Context, t core.Task) (core.Task, error) {
	if err := t.Validate(); err != nil {
		return core.Task{}, err
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (title, type, priority, due_date, completed, completed_date, farm_id, crop_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Title, t.Type, t.Priority, t.DueDate.ISO(), t.Completed, dateColumn(t.CompletedDate), t.FarmID, optionalID(t.CropID))
	if err != nil {
		return core.Task{}, fmt.Errorf("create task: %w", err)
	}

	t.ID, err = res.LastInsertId()
	if err != nil {
		return core.Task{}, fmt.Errorf("read task id: %w", err)
	}
	return t, nil
}

func (r *SQLiteRepository) UpdateTask(ctx context.Context, t core.Task) (core.Task, error) {
	if err := t.Validate(); err != nil {
		return core.Task{}, err
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks
		 SET title = ?, type = ?, priority = ?, due_date = ?, completed = ?, completed_date = ?, farm_id = ?, crop_id = ?
		 WHERE id = ?`,
		t.Title, t.Type, t.Priority, t.DueDate.ISO(), t.Completed, dateColumn(t.CompletedDate), t.FarmID, optionalID(t.CropID), t.ID)
	if err != nil {
		return core.Task{}, fmt.Errorf("update task %d: %w", t.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Task{}, store.ErrNotFound
	}
	return t, nil
}

func (r *SQLiteRepository) DeleteTasks(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query, args := inClause("DELETE FROM tasks WHERE id IN", ids)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete tasks: %w", err)
	}
	return nil
}
