package service

import (
	"looptracker/internal/models"
)

// recomputeAggregates replays a loop's full streak history and returns the
// loop with its derived counters rewritten. History must be in ascending
// day order, one record per day.
//
// Replay rules per record: completed increments the running streak, tracks
// the longest, and counts a completion; skipped resets the running streak.
// Days with no record do not break the running streak. Deriving every
// counter from history keeps the denormalized columns consistent even when
// an already-marked day has its status overwritten.
func recomputeAggregates(loop models.Loop, history []models.Streak) models.Loop {
	loop.CurrentStreak = 0
	loop.LongestStreak = 0
	loop.TotalCompletions = 0

	for _, streak := range history {
		switch streak.Status {
		case models.StreakCompleted:
			loop.CurrentStreak++
			if loop.CurrentStreak > loop.LongestStreak {
				loop.LongestStreak = loop.CurrentStreak
			}
			loop.TotalCompletions++
		case models.StreakSkipped:
			loop.CurrentStreak = 0
		}
	}

	if len(history) == 0 {
		loop.TotalDays = 0
		loop.CompletionRate = 0
		loop.State = models.LoopStateActive
		return loop
	}

	lastDay := models.Day(history[len(history)-1].Date)

	// Elapsed days since the start, floored at 1 so the rate is defined
	// even when the first mark lands on the start date itself
	totalDays := models.DaysBetween(models.Day(loop.StartDate), lastDay)
	if totalDays < 1 {
		totalDays = 1
	}
	loop.TotalDays = totalDays
	loop.CompletionRate = float64(loop.TotalCompletions) / float64(loop.TotalDays) * 100

	if loop.EndDate != nil && lastDay.After(models.Day(*loop.EndDate)) {
		loop.State = models.LoopStateCompleted
	} else {
		loop.State = models.LoopStateActive
	}

	return loop
}
