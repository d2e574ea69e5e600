package services

import (
	"testing"
	"time"

	"farmpilot/internal/core"
)

func TestDailyChecker_IsDue(t *testing.T) {
	checker := DailyChecker{}
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name            string
		lastMaintenance time.Time
		want            bool
	}{
		{
			name:            "never serviced - is due",
			lastMaintenance: time.Time{},
			want:            true,
		},
		{
			name:            "serviced today - not due",
			lastMaintenance: time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC),
			want:            false,
		},
		{
			name:            "serviced yesterday - is due",
			lastMaintenance: time.Date(2024, 1, 14, 12, 0, 0, 0, time.UTC),
			want:            true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checker.IsDue(tt.lastMaintenance, now)
			if got != tt.want {
				t.Errorf("DailyChecker.IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeeklyChecker_IsDue(t *testing.T) {
	checker := WeeklyChecker{}
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name            string
		lastMaintenance time.Time
		want            bool
	}{
		{
			name:            "never serviced - is due",
			lastMaintenance: time.Time{},
			want:            true,
		},
		{
			name:            "serviced 3 days ago - not due",
			lastMaintenance: time.Date(2024, 1, 12, 12, 0, 0, 0, time.UTC),
			want:            false,
		},
		{
			name:            "serviced 7 days ago - is due",
			lastMaintenance: time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC),
			want:            true,
		},
		{
			name:            "serviced 10 days ago - is due",
			lastMaintenance: time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC),
			want:            true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checker.IsDue(tt.lastMaintenance, now)
			if got != tt.want {
				t.Errorf("WeeklyChecker.IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMonthlyChecker_IsDue(t *testing.T) {
	checker := MonthlyChecker{}

	tests := []struct {
		name            string
		lastMaintenance time.Time
		now             time.Time
		want            bool
	}{
		{
			name:            "never serviced - is due",
			lastMaintenance: time.Time{},
			now:             time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
			want:            true,
		},
		{
			name:            "serviced this month - not due",
			lastMaintenance: time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC),
			now:             time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
			want:            false,
		},
		{
			name:            "new month but before target day - not due",
			lastMaintenance: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
			now:             time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC),
			want:            false,
		},
		{
			name:            "new month and on target day - is due",
			lastMaintenance: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
			now:             time.Date(2024, 2, 15, 12, 0, 0, 0, time.UTC),
			want:            true,
		},
		{
			name:            "target day 31 in February - adjusts to 28/29",
			lastMaintenance: time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC),
			now:             time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC), // 2024 is a leap year
			want:            true,
		},
		{
			name:            "several months overdue - is due",
			lastMaintenance: time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC),
			now:             time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
			want:            true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checker.IsDue(tt.lastMaintenance, tt.now)
			if got != tt.want {
				t.Errorf("MonthlyChecker.IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQuarterlyChecker_IsDue(t *testing.T) {
	checker := QuarterlyChecker{}

	tests := []struct {
		name            string
		lastMaintenance time.Time
		now             time.Time
		want            bool
	}{
		{
			name:            "serviced 2 months ago - not due",
			lastMaintenance: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
			now:             time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
			want:            false,
		},
		{
			name:            "serviced 3 months ago - is due",
			lastMaintenance: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
			now:             time.Date(2024, 4, 15, 12, 0, 0, 0, time.UTC),
			want:            true,
		},
		{
			name:            "3 months but before target day - not due",
			lastMaintenance: time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC),
			now:             time.Date(2024, 4, 15, 12, 0, 0, 0, time.UTC),
			want:            false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checker.IsDue(tt.lastMaintenance, tt.now)
			if got != tt.want {
				t.Errorf("QuarterlyChecker.IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestYearlyChecker_IsDue(t *testing.T) {
	checker := YearlyChecker{}

	tests := []struct {
		name            string
		lastMaintenance time.Time
		now             time.Time
		want            bool
	}{
		{
			name:            "never serviced - is due",
			lastMaintenance: time.Time{},
			now:             time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
			want:            true,
		},
		{
			name:            "serviced this year - not due",
			lastMaintenance: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
			now:             time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
			want:            false,
		},
		{
			name:            "new year but before anniversary - not due",
			lastMaintenance: time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
			now:             time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC),
			want:            false,
		},
		{
			name:            "new year past anniversary - is due",
			lastMaintenance: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
			now:             time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
			want:            true,
		},
		{
			name:            "anniversary month before target day - not due",
			lastMaintenance: time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
			now:             time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC),
			want:            false,
		},
		{
			name:            "anniversary month on target day - is due",
			lastMaintenance: time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
			now:             time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
			want:            true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checker.IsDue(tt.lastMaintenance, tt.now)
			if got != tt.want {
				t.Errorf("YearlyChecker.IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextDue(t *testing.T) {
	from := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		checker DuenessChecker
		want    time.Time
	}{
		{"daily", DailyChecker{}, time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)},
		{"weekly", WeeklyChecker{}, time.Date(2024, 1, 22, 0, 0, 0, 0, time.UTC)},
		{"monthly", MonthlyChecker{}, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)},
		{"quarterly", QuarterlyChecker{}, time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)},
		{"yearly", YearlyChecker{}, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.checker.NextDue(from)
			if !got.Equal(tt.want) {
				t.Errorf("NextDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetDuenessChecker(t *testing.T) {
	tests := []struct {
		name     string
		interval core.MaintenanceInterval
		wantErr  bool
	}{
		{"daily", core.Daily, false},
		{"weekly", core.Weekly, false},
		{"monthly", core.Monthly, false},
		{"quarterly", core.Quarterly, false},
		{"yearly", core.Yearly, false},
		{"unknown", core.MaintenanceInterval("biweekly"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker, err := GetDuenessChecker(tt.interval)
			if (err != nil) != tt.wantErr {
				t.Errorf("GetDuenessChecker() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && checker == nil {
				t.Error("GetDuenessChecker() returned nil checker")
			}
		})
	}
}

func TestRegisterDuenessChecker(t *testing.T) {
	customChecker := DailyChecker{}
	customInterval := core.MaintenanceInterval("biweekly")

	RegisterDuenessChecker(customInterval, customChecker)

	checker, err := GetDuenessChecker(customInterval)
	if err != nil {
		t.Errorf("GetDuenessChecker() after register error = %v", err)
	}
	if checker == nil {
		t.Error("GetDuenessChecker() returned nil after registration")
	}

	// Cleanup so other tests see the default registry.
	delete(duenessStrategies, customInterval)
}
