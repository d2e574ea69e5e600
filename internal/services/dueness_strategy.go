// Package services provides business logic and orchestration services.
//
// This file implements the Strategy Pattern for maintenance dueness checking.
// Each service interval (daily, weekly, monthly, quarterly, yearly) has its
// own strategy that decides whether a piece of equipment needs attention.

package services

import (
	"fmt"
	"time"

	"farmpilot/internal/core"
)

// DuenessChecker is the strategy interface for maintenance interval checks.
type DuenessChecker interface {
	// IsDue returns true if maintenance should be scheduled given the last
	// service time and the current time.
	IsDue(lastMaintenance, now time.Time) bool

	// NextDue returns the next service date after the given one.
	NextDue(from time.Time) time.Time
}

// DailyChecker implements DuenessChecker for daily service intervals.
type DailyChecker struct{}

// IsDue returns true if the last service was before today.
func (DailyChecker) IsDue(lastMaintenance, now time.Time) bool {
	if lastMaintenance.IsZero() {
		return true
	}
	return lastMaintenance.Format("2006-01-02") != now.Format("2006-01-02")
}

func (DailyChecker) NextDue(from time.Time) time.Time {
	return from.AddDate(0, 0, 1)
}

// WeeklyChecker implements DuenessChecker for weekly service intervals.
type WeeklyChecker struct{}

// IsDue returns true if 7 or more days have passed since the last service.
func (WeeklyChecker) IsDue(lastMaintenance, now time.Time) bool {
	if lastMaintenance.IsZero() {
		return true
	}
	daysSince := now.Sub(lastMaintenance).Hours() / 24
	return daysSince >= 7
}

func (WeeklyChecker) NextDue(from time.Time) time.Time {
	return from.AddDate(0, 0, 7)
}

// MonthlyChecker implements DuenessChecker for monthly service intervals.
type MonthlyChecker struct{}

// IsDue returns true once a calendar month has passed since the last service.
// Short months clamp the target day (a Jan 31 service comes due Feb 28/29).
func (MonthlyChecker) IsDue(lastMaintenance, now time.Time) bool {
	return monthsElapsed(lastMaintenance, now, 1)
}

func (MonthlyChecker) NextDue(from time.Time) time.Time {
	return from.AddDate(0, 1, 0)
}

// QuarterlyChecker implements DuenessChecker for quarterly service intervals.
type QuarterlyChecker struct{}

func (QuarterlyChecker) IsDue(lastMaintenance, now time.Time) bool {
	return monthsElapsed(lastMaintenance, now, 3)
}

func (QuarterlyChecker) NextDue(from time.Time) time.Time {
	return from.AddDate(0, 3, 0)
}

// YearlyChecker implements DuenessChecker for yearly service intervals.
type YearlyChecker struct{}

func (YearlyChecker) IsDue(lastMaintenance, now time.Time) bool {
	return monthsElapsed(lastMaintenance, now, 12)
}

func (YearlyChecker) NextDue(from time.Time) time.Time {
	return from.AddDate(1, 0, 0)
}

// monthsElapsed reports whether at least n calendar months separate last from
// now, clamping the target day into months that are too short.
func monthsElapsed(last, now time.Time, n int) bool {
	if last.IsZero() {
		return true
	}

	monthsSince := (now.Year()-last.Year())*12 + int(now.Month()) - int(last.Month())
	if monthsSince < n {
		return false
	}
	if monthsSince > n {
		return true
	}

	targetDay := last.Day()
	lastDayOfMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if targetDay > lastDayOfMonth {
		targetDay = lastDayOfMonth
	}
	return now.Day() >= targetDay
}

// duenessStrategies maps maintenance intervals to their corresponding
// checkers. This registry enables O(1) lookup and easy extension.
var duenessStrategies = map[core.MaintenanceInterval]DuenessChecker{
	core.Daily:     DailyChecker{},
	core.Weekly:    WeeklyChecker{},
	core.Monthly:   MonthlyChecker{},
	core.Quarterly: QuarterlyChecker{},
	core.Yearly:    YearlyChecker{},
}

// GetDuenessChecker returns the checker for a maintenance interval.
// Returns an error if the interval is not supported.
func GetDuenessChecker(interval core.MaintenanceInterval) (DuenessChecker, error) {
	checker, ok := duenessStrategies[interval]
	if !ok {
		return nil, fmt.Errorf("unknown maintenance interval: %s", interval)
	}
	return checker, nil
}

// RegisterDuenessChecker allows registering custom checkers for new
// intervals without modifying this package.
func RegisterDuenessChecker(interval core.MaintenanceInterval, checker DuenessChecker) {
	duenessStrategies[interval] = checker
}
