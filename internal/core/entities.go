package core

import (
	"errors"
	"strings"
)

// Crop statuses follow the lifecycle used by the planning screens.
const (
	CropPlanned   = "Planned"
	CropPlanted   = "Planted"
	CropGrowing   = "Growing"
	CropHarvested = "Harvested"
)

// MaintenanceInterval is how often a piece of equipment gets serviced.
type MaintenanceInterval string

const (
	Daily     MaintenanceInterval = "daily"
	Weekly    MaintenanceInterval = "weekly"
	Monthly   MaintenanceInterval = "monthly"
	Quarterly MaintenanceInterval = "quarterly"
	Yearly    MaintenanceInterval = "yearly"
)

type (
	Crop struct {
		ID              int64
		CropType        string
		Field           string
		PlantingDate    Date
		ExpectedHarvest Date
		Status          string
		Notes           string
		FarmID          int64
	}

	Equipment struct {
		ID                  int64
		Name                string
		Type                string
		Brand               string
		Model               string
		Year                int
		Status              string
		FuelType            string
		PurchasePrice       Money
		CurrentValue        Money
		OperatingHours      float64
		MaintenanceSchedule string // e.g. "monthly", "quarterly", "yearly"
		LastMaintenance     Date
		NextMaintenance     Date
		FarmID              int64
		CreatedAt           Date
	}

	Activity struct {
		ID          int64
		Type        string
		Description string
		Date        Date
		FarmID      int64
		CropID      int64 // optional
		EquipmentID int64 // optional
	}

	Task struct {
		ID            int64
		Title         string
		Type          string
		Priority      string // "low", "medium", "high"
		DueDate       Date
		Completed     bool
		CompletedDate Date
		FarmID        int64
		CropID        int64 // optional
	}

	// WeatherObservation is read-only data; rows come straight from the
	// weather feed and are never written by this service.
	WeatherObservation struct {
		Date          Date
		Temperature   int
		Condition     string
		Humidity      int
		Wind          int
		Precipitation int
		UVIndex       string
	}
)

func (c Crop) Validate() error {
	if strings.TrimSpace(c.CropType) == "" {
		return errors.New("empty crop type")
	}
	if c.FarmID <= 0 {
		return errors.New("crop requires a farm")
	}
	if err := c.PlantingDate.Validate(); err != nil {
		return err
	}
	return nil
}

func (e Equipment) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyName
	}
	if e.FarmID <= 0 {
		return errors.New("equipment requires a farm")
	}
	if err := e.PurchasePrice.Validate(); err != nil {
		return err
	}
	if err := e.CurrentValue.Validate(); err != nil {
		return err
	}
	return nil
}

func (a Activity) Validate() error {
	if strings.TrimSpace(a.Type) == "" {
		return errors.New("empty activity type")
	}
	if a.FarmID <= 0 {
		return errors.New("activity requires a farm")
	}
	if err := a.Date.Validate(); err != nil {
		return err
	}
	return nil
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if t.FarmID <= 0 {
		return errors.New("task requires a farm")
	}
	if err := t.DueDate.Validate(); err != nil {
		return err
	}
	switch t.Priority {
	case "low", "medium", "high":
	default:
		return errors.New("invalid task priority")
	}
	return nil
}
