package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"farmpilot/internal/core"
	"farmpilot/internal/storage"
)

// MaintenanceProcessor turns overdue equipment service schedules into tasks.
// For every piece of equipment whose next service date has passed it creates
// a high priority maintenance task and advances the schedule.
type MaintenanceProcessor struct {
	storage *storage.SQLiteRepository
}

// NewMaintenanceProcessor creates a new maintenance processor
func NewMaintenanceProcessor(storage *storage.SQLiteRepository) *MaintenanceProcessor {
	return &MaintenanceProcessor{storage: storage}
}

// ProcessDueMaintenance processes all equipment due for service on the given
// day and returns how many tasks it created.
func (p *MaintenanceProcessor) ProcessDueMaintenance(ctx context.Context, now time.Time) (int, error) {
	if p.storage == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	today := core.Date{Time: now}
	due, err := p.storage.DueForMaintenance(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("failed to get equipment due for maintenance: %w", err)
	}

	slog.InfoContext(ctx, "Processing equipment maintenance",
		"total_due", len(due),
		"processing_date", now.Format("2006-01-02"))

	processedCount := 0

	for _, eq := range due {
		checker, err := GetDuenessChecker(core.MaintenanceInterval(eq.MaintenanceSchedule))
		if err != nil {
			slog.WarnContext(ctx, "Skipping equipment with unknown schedule",
				"equipment_id", eq.ID,
				"schedule", eq.MaintenanceSchedule)
			continue
		}

		task := core.Task{
			Title:    fmt.Sprintf("Service %s", eq.Name),
			Type:     "maintenance",
			Priority: "high",
			DueDate:  eq.NextMaintenance,
			FarmID:   eq.FarmID,
		}
		if _, err := p.storage.CreateTask(ctx, task); err != nil {
			slog.ErrorContext(ctx, "Failed to create maintenance task",
				"equipment_id", eq.ID,
				"name", eq.Name,
				"error", err)
			continue
		}

		// Advance the schedule so the next run doesn't duplicate the task.
		eq.NextMaintenance = core.Date{Time: checker.NextDue(now)}
		if _, err := p.storage.UpdateEquipment(ctx, eq); err != nil {
			slog.ErrorContext(ctx, "Failed to advance maintenance schedule",
				"equipment_id", eq.ID,
				"error", err)
			// Continue anyway - the task was created successfully.
		}

		processedCount++
		slog.InfoContext(ctx, "Created maintenance task",
			"equipment_id", eq.ID,
			"name", eq.Name,
			"schedule", eq.MaintenanceSchedule,
			"next_maintenance", eq.NextMaintenance.ISO())
	}

	slog.InfoContext(ctx, "Equipment maintenance processing complete",
		"processed", processedCount,
		"total_checked", len(due))

	return processedCount, nil
}
