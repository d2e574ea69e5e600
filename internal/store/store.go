// Package store defines the record-store ports the rest of the application
// depends on. Each entity kind gets a narrow interface with the same five
// operations the hosted platform exposes: list, get one, create, update,
// delete by ids. Concrete backends live in internal/storage (SQLite) and
// internal/store/memory; callers never touch a backend type directly.
package store

import (
	"context"
	"errors"

	"farmpilot/internal/core"
)

// ErrNotFound is returned by GetX methods when no record matches the id.
var ErrNotFound = errors.New("record not found")

type (
	TransactionStore interface {
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
		GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
		CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		DeleteTransactions(ctx context.Context, ids []int64) error
	}

	FarmStore interface {
		ListFarms(ctx context.Context) ([]core.Farm, error)
		GetFarm(ctx context.Context, id int64) (core.Farm, error)
		CreateFarm(ctx context.Context, f core.Farm) (core.Farm, error)
		UpdateFarm(ctx context.Context, f core.Farm) (core.Farm, error)
		DeleteFarms(ctx context.Context, ids []int64) error
	}

	CropStore interface {
		ListCrops(ctx context.Context) ([]core.Crop, error)
		GetCrop(ctx context.Context, id int64) (core.Crop, error)
		CreateCrop(ctx context.Context, c core.Crop) (core.Crop, error)
		UpdateCrop(ctx context.Context, c core.Crop) (core.Crop, error)
		DeleteCrops(ctx context.Context, ids []int64) error
	}

	EquipmentStore interface {
		ListEquipment(ctx context.Context) ([]core.Equipment, error)
		GetEquipment(ctx context.Context, id int64) (core.Equipment, error)
		CreateEquipment(ctx context.Context, e core.Equipment) (core.Equipment, error)
		UpdateEquipment(ctx context.Context, e core.Equipment) (core.Equipment, error)
		DeleteEquipment(ctx context.Context, ids []int64) error
	}

	ActivityStore interface {
		ListActivities(ctx context.Context) ([]core.Activity, error)
		GetActivity(ctx context.Context, id int64) (core.Activity, error)
		CreateActivity(ctx context.Context, a core.Activity) (core.Activity, error)
		UpdateActivity(ctx context.Context, a core.Activity) (core.Activity, error)
		DeleteActivities(ctx context.Context, ids []int64) error
	}

	TaskStore interface {
		ListTasks(ctx context.Context) ([]core.Task, error)
		GetTask(ctx context.Context, id int64) (core.Task, error)
		CreateTask(ctx context.Context, t core.Task) (core.Task, error)
		UpdateTask(ctx context.Context, t core.Task) (core.Task, error)
		DeleteTasks(ctx context.Context, ids []int64) error
	}

	// WeatherStore is read-only: observations come from the weather feed.
	WeatherStore interface {
		CurrentWeather(ctx context.Context) (core.WeatherObservation, error)
		WeatherForecast(ctx context.Context, days int) ([]core.WeatherObservation, error)
	}
)

// RecordStore is the composite backend the server is wired with.
type RecordStore interface {
	TransactionStore
	FarmStore
	CropStore
	EquipmentStore
	ActivityStore
	TaskStore
	WeatherStore
}
