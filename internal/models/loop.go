package models

import (
	"fmt"
	"time"
)

// Frequency describes how often a loop is expected to be completed
type Frequency string

const (
	FrequencyDaily          Frequency = "daily"
	FrequencyThreeTimesWeek Frequency = "three_times_week"
	FrequencyWeekdays       Frequency = "weekdays"
	FrequencyCustom         Frequency = "custom"
)

// ParseFrequency validates a raw frequency value
func ParseFrequency(value string) (Frequency, error) {
	switch Frequency(value) {
	case FrequencyDaily, FrequencyThreeTimesWeek, FrequencyWeekdays, FrequencyCustom:
		return Frequency(value), nil
	}
	return "", fmt.Errorf("unknown frequency %q", value)
}

// Visibility controls who can see a loop
type Visibility string

const (
	VisibilityPrivate     Visibility = "private"
	VisibilityPublic      Visibility = "public"
	VisibilityFriendsOnly Visibility = "friends_only"
)

// ParseVisibility validates a raw visibility value
func ParseVisibility(value string) (Visibility, error) {
	switch Visibility(value) {
	case VisibilityPrivate, VisibilityPublic, VisibilityFriendsOnly:
		return Visibility(value), nil
	}
	return "", fmt.Errorf("unknown visibility %q", value)
}

// LoopState is the stored lifecycle state of a loop
type LoopState string

const (
	LoopStateActive    LoopState = "active"
	LoopStateBroken    LoopState = "broken"
	LoopStateCompleted LoopState = "completed"
)

// Loop represents a recurring habit and its denormalized streak aggregates.
// The counter fields are derived from the loop's streak history and are
// rewritten wholesale on every mark; they are never edited directly.
type Loop struct {
	ID               string
	OwnerID          string
	Title            string
	Frequency        Frequency
	Visibility       Visibility
	State            LoopState
	StartDate        time.Time
	EndDate          *time.Time
	Emoji            string
	CoverImage       string
	CurrentStreak    int
	LongestStreak    int
	CompletionRate   float64
	TotalCompletions int
	TotalDays        int
	CloneCount       int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
