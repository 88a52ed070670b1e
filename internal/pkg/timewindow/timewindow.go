// Package timewindow implements the recurring compliance cycle used for
// participation summaries. A cycle is bounded by a fixed local time-of-day on
// a fixed weekday, e.g. Mondays at 09:00, rather than a calendar week.
package timewindow

import (
	"fmt"
	"strings"
	"time"
)

// Cycle is the half-open interval [Start, End) between two consecutive
// boundaries. An instant exactly at a boundary belongs to the cycle starting
// at that instant.
type Cycle struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the cycle.
func (c Cycle) Contains(t time.Time) bool {
	return !t.Before(c.Start) && t.Before(c.End)
}

// CycleAt returns the cycle containing now for a boundary at the given
// weekday and time-of-day in loc.
func CycleAt(now time.Time, weekday time.Weekday, hour, minute int, loc *time.Location) Cycle {
	local := now.In(loc)

	daysBack := (int(local.Weekday()) - int(weekday) + 7) % 7
	start := time.Date(local.Year(), local.Month(), local.Day()-daysBack, hour, minute, 0, 0, loc)
	if start.After(local) {
		start = start.AddDate(0, 0, -7)
	}

	return Cycle{Start: start, End: start.AddDate(0, 0, 7)}
}

// MonthStart returns midnight on the first day of now's month in loc.
func MonthStart(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
}

// ParseWeekday parses a weekday name such as "MONDAY".
func ParseWeekday(name string) (time.Weekday, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "SUNDAY":
		return time.Sunday, nil
	case "MONDAY":
		return time.Monday, nil
	case "TUESDAY":
		return time.Tuesday, nil
	case "WEDNESDAY":
		return time.Wednesday, nil
	case "THURSDAY":
		return time.Thursday, nil
	case "FRIDAY":
		return time.Friday, nil
	case "SATURDAY":
		return time.Saturday, nil
	}
	return time.Sunday, fmt.Errorf("unknown weekday: %q", name)
}

// ParseBoundary parses a "HH:MM" boundary time-of-day.
func ParseBoundary(value string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(value))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid boundary time %q: %w", value, err)
	}
	return t.Hour(), t.Minute(), nil
}
