package models

import (
	"fmt"
	"time"
)

// DayFormat is the ISO-8601 calendar day layout used everywhere a day is
// stored or exchanged
const DayFormat = "2006-01-02"

// StreakStatus records how a single day was resolved
type StreakStatus string

const (
	StreakCompleted StreakStatus = "completed"
	StreakSkipped   StreakStatus = "skipped"
)

// ParseStreakStatus validates a raw streak status value
func ParseStreakStatus(value string) (StreakStatus, error) {
	switch StreakStatus(value) {
	case StreakCompleted, StreakSkipped:
		return StreakStatus(value), nil
	}
	return "", fmt.Errorf("unknown streak status %q", value)
}

// Streak is one calendar day's record for a loop. It references its loop
// by id only; at most one streak exists per (loop, day).
type Streak struct {
	ID        string
	LoopID    string
	Date      time.Time
	Status    StreakStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Day normalizes a timestamp to its pure calendar day at UTC midnight
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay parses an ISO-8601 calendar day
func ParseDay(value string) (time.Time, error) {
	return time.Parse(DayFormat, value)
}

// DaysBetween returns the whole number of days from a to b. Both inputs
// are expected to be normalized days, so the division is exact.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
