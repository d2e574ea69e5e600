package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"farmpilot/internal/core"
	"farmpilot/internal/store"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedFarm(t *testing.T, repo *SQLiteRepository) core.Farm {
	t.Helper()
	f, err := repo.CreateFarm(context.Background(), core.Farm{
		Name:     "Green Acres",
		Size:     120,
		SizeUnit: "acres",
		Location: "Iowa",
	})
	if err != nil {
		t.Fatalf("CreateFarm: %v", err)
	}
	return f
}

func TestTransactionRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	farm := seedFarm(t, repo)

	created, err := repo.CreateTransaction(ctx, core.Transaction{
		Type:        core.Income,
		Category:    "Harvest Sale",
		Amount:      core.Money{Cents: 123450},
		Date:        core.NewDate(2024, 1, 5),
		Description: "winter wheat",
		FarmID:      farm.ID,
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected assigned id")
	}

	got, err := repo.GetTransaction(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if got.Amount.Cents != 123450 || got.Category != "Harvest Sale" || got.Date.ISO() != "2024-01-05" {
		t.Errorf("round trip mismatch: %+v", got)
	}

	got.Description = "updated"
	if _, err := repo.UpdateTransaction(ctx, got); err != nil {
		t.Fatalf("UpdateTransaction: %v", err)
	}

	if err := repo.DeleteTransactions(ctx, []int64{created.ID}); err != nil {
		t.Fatalf("DeleteTransactions: %v", err)
	}
	if _, err := repo.GetTransaction(ctx, created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestCreateTransactionRejectsInvalid(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.CreateTransaction(context.Background(), core.Transaction{
		Type:     "refund",
		Category: "Fuel",
		Amount:   core.Money{Cents: 100},
		Date:     core.NewDate(2024, 1, 5),
		FarmID:   1,
	})
	if !errors.Is(err, core.ErrInvalidType) {
		t.Errorf("expected ErrInvalidType, got %v", err)
	}
}

func TestListTransactionsNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	farm := seedFarm(t, repo)

	for _, day := range []int{3, 20, 11} {
		_, err := repo.CreateTransaction(ctx, core.Transaction{
			Type:     core.Expense,
			Category: "Fuel",
			Amount:   core.Money{Cents: 5000},
			Date:     core.NewDate(2024, 1, day),
			FarmID:   farm.ID,
		})
		if err != nil {
			t.Fatalf("CreateTransaction: %v", err)
		}
	}

	list, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i].Date.After(list[i-1].Date.Time) {
			t.Errorf("transactions out of order at %d: %s after %s", i, list[i].Date.ISO(), list[i-1].Date.ISO())
		}
	}
}

func TestPendingSyncLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	farm := seedFarm(t, repo)

	created, err := repo.CreateTransaction(ctx, core.Transaction{
		Type:     core.Expense,
		Category: "Seeds",
		Amount:   core.Money{Cents: 8000},
		Date:     core.NewDate(2024, 2, 1),
		FarmID:   farm.ID,
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	pending, err := repo.PendingSyncTransactions(ctx, 10)
	if err != nil {
		t.Fatalf("PendingSyncTransactions: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != created.ID || pending[0].Version != 1 {
		t.Fatalf("unexpected pending set: %+v", pending)
	}

	if err := repo.MarkSynced(ctx, created.ID); err != nil {
		t.Fatalf("MarkSynced: %v", err)
	}
	pending, err = repo.PendingSyncTransactions(ctx, 10)
	if err != nil {
		t.Fatalf("PendingSyncTransactions: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected empty pending set after sync, got %+v", pending)
	}

	// An update puts the row back in the queue with a bumped version.
	created.Description = "hybrid corn seed"
	if _, err := repo.UpdateTransaction(ctx, created); err != nil {
		t.Fatalf("UpdateTransaction: %v", err)
	}
	pending, err = repo.PendingSyncTransactions(ctx, 10)
	if err != nil {
		t.Fatalf("PendingSyncTransactions: %v", err)
	}
	if len(pending) != 1 || pending[0].Version != 2 {
		t.Fatalf("expected re-queued row with version 2, got %+v", pending)
	}
}

func TestFarmRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	farm := seedFarm(t, repo)
	if farm.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be stamped")
	}

	farm.Location = "Nebraska"
	updated, err := repo.UpdateFarm(ctx, farm)
	if err != nil {
		t.Fatalf("UpdateFarm: %v", err)
	}
	if updated.Location != "Nebraska" {
		t.Errorf("Location = %q, want Nebraska", updated.Location)
	}
	if updated.CreatedAt.ISO() != farm.CreatedAt.ISO() {
		t.Errorf("CreatedAt changed on update: %s != %s", updated.CreatedAt.ISO(), farm.CreatedAt.ISO())
	}

	if err := repo.DeleteFarms(ctx, []int64{farm.ID}); err != nil {
		t.Fatalf("DeleteFarms: %v", err)
	}
	if _, err := repo.GetFarm(ctx, farm.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestTaskOptionalCrop(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	farm := seedFarm(t, repo)

	created, err := repo.CreateTask(ctx, core.Task{
		Title:    "Check irrigation lines",
		Type:     "maintenance",
		Priority: "high",
		DueDate:  core.NewDate(2024, 3, 15),
		FarmID:   farm.ID,
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	got, err := repo.GetTask(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if got.CropID != 0 {
		t.Errorf("CropID = %d, want 0 for unlinked task", got.CropID)
	}
	if got.Completed {
		t.Error("new task should not be completed")
	}
}

func TestWeatherSeeded(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	current, err := repo.CurrentWeather(ctx)
	if err != nil {
		t.Fatalf("CurrentWeather: %v", err)
	}
	if current.Condition == "" {
		t.Error("expected seeded condition")
	}

	forecast, err := repo.WeatherForecast(ctx, 5)
	if err != nil {
		t.Fatalf("WeatherForecast: %v", err)
	}
	if len(forecast) != 5 {
		t.Errorf("forecast length = %d, want 5", len(forecast))
	}
	for i := 1; i < len(forecast); i++ {
		if forecast[i].Date.Before(forecast[i-1].Date.Time) {
			t.Errorf("forecast out of order at %d", i)
		}
	}
}

func TestDueForMaintenance(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	farm := seedFarm(t, repo)

	due, err := repo.CreateEquipment(ctx, core.Equipment{
		Name:                "John Deere 8R",
		Type:                "tractor",
		MaintenanceSchedule: "monthly",
		NextMaintenance:     core.NewDate(2024, 1, 10),
		FarmID:              farm.ID,
	})
	if err != nil {
		t.Fatalf("CreateEquipment: %v", err)
	}
	_, err = repo.CreateEquipment(ctx, core.Equipment{
		Name:                "Case IH Combine",
		Type:                "combine",
		MaintenanceSchedule: "quarterly",
		NextMaintenance:     core.NewDate(2024, 6, 1),
		FarmID:              farm.ID,
	})
	if err != nil {
		t.Fatalf("CreateEquipment: %v", err)
	}

	got, err := repo.DueForMaintenance(ctx, core.NewDate(2024, 2, 1))
	if err != nil {
		t.Fatalf("DueForMaintenance: %v", err)
	}
	if len(got) != 1 || got[0].ID != due.ID {
		t.Fatalf("expected only the overdue tractor, got %+v", got)
	}
}
