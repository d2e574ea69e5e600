package memory

import (
	"context"
	"errors"
	"testing"

	"farmpilot/internal/core"
	"farmpilot/internal/store"
)

func TestTransactionCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	created, err := s.CreateTransaction(ctx, core.Transaction{
		Type:     core.Income,
		Category: "Harvest Sale",
		Amount:   core.Money{Cents: 100000},
		Date:     core.NewDate(2024, 1, 5),
		FarmID:   1,
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if created.ID == 0 {
		t.Error("created transaction must get an id")
	}

	got, err := s.GetTransaction(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if got.Category != "Harvest Sale" {
		t.Errorf("Category = %q", got.Category)
	}

	got.Amount.Cents = 120000
	if _, err := s.UpdateTransaction(ctx, got); err != nil {
		t.Fatalf("UpdateTransaction: %v", err)
	}
	updated, _ := s.GetTransaction(ctx, created.ID)
	if updated.Amount.Cents != 120000 {
		t.Errorf("Amount after update = %d", updated.Amount.Cents)
	}

	if err := s.DeleteTransactions(ctx, []int64{created.ID}); err != nil {
		t.Fatalf("DeleteTransactions: %v", err)
	}
	if _, err := s.GetTransaction(ctx, created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("after delete got %v, want ErrNotFound", err)
	}
}

func TestCreateTransactionValidates(t *testing.T) {
	s := New()
	_, err := s.CreateTransaction(context.Background(), core.Transaction{
		Type:     "refund",
		Category: "x",
		Date:     core.NewDate(2024, 1, 1),
	})
	if err == nil {
		t.Error("invalid transaction must be rejected")
	}
	list, _ := s.ListTransactions(context.Background())
	if len(list) != 0 {
		t.Error("rejected transaction must not be stored")
	}
}

func TestFarmCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	f, err := s.CreateFarm(ctx, core.Farm{Name: "Green Acres", Size: 120, SizeUnit: "acres"})
	if err != nil {
		t.Fatalf("CreateFarm: %v", err)
	}
	if f.CreatedAt.IsZero() {
		t.Error("CreateFarm must stamp CreatedAt")
	}

	f.Location = "Valley Road"
	if _, err := s.UpdateFarm(ctx, f); err != nil {
		t.Fatalf("UpdateFarm: %v", err)
	}
	got, _ := s.GetFarm(ctx, f.ID)
	if got.Location != "Valley Road" {
		t.Errorf("Location = %q", got.Location)
	}

	if _, err := s.UpdateFarm(ctx, core.Farm{ID: 999, Name: "Ghost"}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("update of missing farm got %v, want ErrNotFound", err)
	}
}

func TestDeleteAcceptsMultipleIDs(t *testing.T) {
	ctx := context.Background()
	s := New()
	var ids []int64
	for i := 0; i < 3; i++ {
		tk, err := s.CreateTask(ctx, core.Task{
			Title:    "Task",
			Priority: "low",
			DueDate:  core.NewDate(2024, 3, 1+i),
			FarmID:   1,
		})
		if err != nil {
			t.Fatalf("CreateTask: %v", err)
		}
		ids = append(ids, tk.ID)
	}

	if err := s.DeleteTasks(ctx, ids[:2]); err != nil {
		t.Fatalf("DeleteTasks: %v", err)
	}
	left, _ := s.ListTasks(ctx)
	if len(left) != 1 || left[0].ID != ids[2] {
		t.Errorf("remaining tasks = %+v", left)
	}
}

func TestWeatherIsReadOnlySample(t *testing.T) {
	ctx := context.Background()
	s := New()

	current, err := s.CurrentWeather(ctx)
	if err != nil {
		t.Fatalf("CurrentWeather: %v", err)
	}
	if current.Condition == "" {
		t.Error("current weather must carry a condition")
	}

	forecast, err := s.WeatherForecast(ctx, 3)
	if err != nil {
		t.Fatalf("WeatherForecast: %v", err)
	}
	if len(forecast) != 3 {
		t.Errorf("forecast length = %d, want 3", len(forecast))
	}
}

func TestListsReturnCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	if _, err := s.CreateFarm(ctx, core.Farm{Name: "A"}); err != nil {
		t.Fatal(err)
	}

	list, _ := s.ListFarms(ctx)
	list[0].Name = "mutated"

	again, _ := s.ListFarms(ctx)
	if again[0].Name != "A" {
		t.Error("ListFarms must return a copy")
	}
}
