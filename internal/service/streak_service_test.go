package service

import (
	"context"
	"errors"
	"testing"

	"looptracker/internal/models"
)

func TestMarkStreakScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	loop := env.createLoop(t, "user-1", nil)

	// Mark 2024-01-02 completed
	updated, err := env.streaks.MarkStreak(ctx, loop.ID, "user-1", MarkStreakInput{Date: "2024-01-02", Status: "completed"})
	if err != nil {
		t.Fatalf("MarkStreak failed: %v", err)
	}

	if updated.CurrentStreak != 1 || updated.LongestStreak != 1 {
		t.Errorf("After completed mark: currentStreak=%d longestStreak=%d, want 1/1", updated.CurrentStreak, updated.LongestStreak)
	}
	if updated.TotalDays != 1 || updated.TotalCompletions != 1 {
		t.Errorf("After completed mark: totalDays=%d totalCompletions=%d, want 1/1", updated.TotalDays, updated.TotalCompletions)
	}
	if updated.CompletionRate != 100 {
		t.Errorf("After completed mark: completionRate=%v, want 100", updated.CompletionRate)
	}

	// Mark 2024-01-03 skipped
	updated, err = env.streaks.MarkStreak(ctx, loop.ID, "user-1", MarkStreakInput{Date: "2024-01-03", Status: "skipped"})
	if err != nil {
		t.Fatalf("MarkStreak failed: %v", err)
	}

	if updated.CurrentStreak != 0 {
		t.Errorf("Skip did not reset currentStreak: got %d", updated.CurrentStreak)
	}
	if updated.LongestStreak != 1 {
		t.Errorf("Skip changed longestStreak: got %d, want 1", updated.LongestStreak)
	}
	if updated.TotalDays != 2 || updated.TotalCompletions != 1 {
		t.Errorf("After skip: totalDays=%d totalCompletions=%d, want 2/1", updated.TotalDays, updated.TotalCompletions)
	}
	if updated.CompletionRate != 50 {
		t.Errorf("After skip: completionRate=%v, want 50", updated.CompletionRate)
	}

	// Stats queried on 2024-01-05: last record two days back, daily cadence is broken
	env.setNow(t, "2024-01-05")
	stats, err := env.streaks.GetStreakStats(ctx, loop.ID, "user-1")
	if err != nil {
		t.Fatalf("GetStreakStats failed: %v", err)
	}
	if stats.Status != StatusBroken {
		t.Errorf("Status = %v, want BROKEN", stats.Status)
	}
	if stats.LastStreakDate == nil || *stats.LastStreakDate != "2024-01-03" {
		t.Errorf("LastStreakDate = %v, want 2024-01-03", stats.LastStreakDate)
	}
}

func TestMarkStreakConsecutiveGrowth(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	loop := env.createLoop(t, "user-1", nil)

	days := []string{"2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05", "2024-01-06"}
	for i, day := range days {
		updated, err := env.streaks.MarkStreak(ctx, loop.ID, "user-1", MarkStreakInput{Date: day})
		if err != nil {
			t.Fatalf("MarkStreak(%s) failed: %v", day, err)
		}
		if updated.CurrentStreak != i+1 {
			t.Errorf("After %s: currentStreak=%d, want %d", day, updated.CurrentStreak, i+1)
		}
		if updated.LongestStreak != i+1 {
			t.Errorf("After %s: longestStreak=%d, want %d", day, updated.LongestStreak, i+1)
		}
		if updated.CompletionRate < 0 || updated.CompletionRate > 100 {
			t.Errorf("After %s: completionRate=%v out of bounds", day, updated.CompletionRate)
		}
	}

	// A skip resets the running streak but the longest stays
	updated, err := env.streaks.MarkStreak(ctx, loop.ID, "user-1", MarkStreakInput{Date: "2024-01-07", Status: "skipped"})
	if err != nil {
		t.Fatalf("MarkStreak failed: %v", err)
	}
	if updated.CurrentStreak != 0 {
		t.Errorf("currentStreak=%d after skip, want 0", updated.CurrentStreak)
	}
	if updated.LongestStreak != 5 {
		t.Errorf("longestStreak=%d after skip, want 5", updated.LongestStreak)
	}
}

func TestMarkStreakRemarkRecomputesAggregates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	loop := env.createLoop(t, "user-1", nil)

	if _, err := env.streaks.MarkStreak(ctx, loop.ID, "user-1", MarkStreakInput{Date: "2024-01-02"}); err != nil {
		t.Fatalf("MarkStreak failed: %v", err)
	}
	updated, err := env.streaks.MarkStreak(ctx, loop.ID, "user-1", MarkStreakInput{Date: "2024-01-03", Status: "skipped"})
	if err != nil {
		t.Fatalf("MarkStreak failed: %v", err)
	}
	if updated.CurrentStreak != 0 || updated.CompletionRate != 50 {
		t.Fatalf("Precondition: currentStreak=%d completionRate=%v", updated.CurrentStreak, updated.CompletionRate)
	}

	// Flip the skipped day to completed: aggregates must match a replay of
	// the corrected history, not keep the stale values
	updated, err = env.streaks.MarkStreak(ctx, loop.ID, "user-1", MarkStreakInput{Date: "2024-01-03", Status: "completed"})
	if err != nil {
		t.Fatalf("Re-mark failed: %v", err)
	}

	if updated.CurrentStreak != 2 {
		t.Errorf("currentStreak=%d after re-mark, want 2", updated.CurrentStreak)
	}
	if updated.LongestStreak != 2 {
		t.Errorf("longestStreak=%d after re-mark, want 2", updated.LongestStreak)
	}
	if updated.TotalCompletions != 2 {
		t.Errorf("totalCompletions=%d after re-mark, want 2", updated.TotalCompletions)
	}
	if updated.CompletionRate != 100 {
		t.Errorf("completionRate=%v after re-mark, want 100", updated.CompletionRate)
	}
}

func TestMarkStreakDefaultsToToday(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	loop := env.createLoop(t, "user-1", nil)
	env.setNow(t, "2024-01-02")

	updated, err := env.streaks.MarkStreak(ctx, loop.ID, "user-1", MarkStreakInput{})
	if err != nil {
		t.Fatalf("MarkStreak failed: %v", err)
	}
	if updated.TotalCompletions != 1 || updated.CurrentStreak != 1 {
		t.Errorf("Default mark not recorded as completed today: %+v", updated)
	}

	stats, err := env.streaks.GetStreakStats(ctx, loop.ID, "user-1")
	if err != nil {
		t.Fatalf("GetStreakStats failed: %v", err)
	}
	if stats.LastStreakDate == nil || *stats.LastStreakDate != "2024-01-02" {
		t.Errorf("LastStreakDate = %v, want 2024-01-02", stats.LastStreakDate)
	}
}

func TestMarkStreakCompletesPastEndDate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	loop := env.createLoop(t, "user-1", func(input *CreateLoopInput) {
		input.EndDate = "2024-01-05"
	})

	updated, err := env.streaks.MarkStreak(ctx, loop.ID, "user-1", MarkStreakInput{Date: "2024-01-06"})
	if err != nil {
		t.Fatalf("MarkStreak failed: %v", err)
	}
	if updated.State != models.LoopStateCompleted {
		t.Errorf("State = %v after marking past endDate, want completed", updated.State)
	}
}

func TestMarkStreakErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	loop := env.createLoop(t, "user-1", nil)

	tests := []struct {
		name    string
		loopID  string
		actorID string
		input   MarkStreakInput
		wantErr error
	}{
		{
			name:    "unknown loop",
			loopID:  "no-such-loop",
			actorID: "user-1",
			wantErr: ErrLoopNotFound,
		},
		{
			name:    "not the owner",
			loopID:  loop.ID,
			actorID: "user-2",
			wantErr: ErrNotOwner,
		},
		{
			name:    "bad date",
			loopID:  loop.ID,
			actorID: "user-1",
			input:   MarkStreakInput{Date: "January 2nd"},
			wantErr: ErrInvalidDate,
		},
		{
			name:    "bad status",
			loopID:  loop.ID,
			actorID: "user-1",
			input:   MarkStreakInput{Date: "2024-01-02", Status: "missed"},
			wantErr: ErrInvalidStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.streaks.MarkStreak(ctx, tt.loopID, tt.actorID, tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("MarkStreak error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDeriveStatusByFrequency(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		frequency string
		lastMark  string
		today     string
		want      StreakStatus
	}{
		{name: "daily marked yesterday", frequency: "daily", lastMark: "2024-01-04", today: "2024-01-05", want: StatusActive},
		{name: "daily marked today", frequency: "daily", lastMark: "2024-01-05", today: "2024-01-05", want: StatusActive},
		{name: "daily two days back", frequency: "daily", lastMark: "2024-01-03", today: "2024-01-05", want: StatusBroken},
		{name: "three times week within window", frequency: "three_times_week", lastMark: "2024-01-03", today: "2024-01-05", want: StatusActive},
		{name: "three times week past window", frequency: "three_times_week", lastMark: "2024-01-02", today: "2024-01-05", want: StatusBroken},
		// 2024-01-08 is a Monday
		{name: "weekdays gap on a weekday", frequency: "weekdays", lastMark: "2024-01-04", today: "2024-01-08", want: StatusBroken},
		{name: "weekdays checked on a weekend", frequency: "weekdays", lastMark: "2024-01-04", today: "2024-01-07", want: StatusActive},
		{name: "weekdays marked yesterday", frequency: "weekdays", lastMark: "2024-01-08", today: "2024-01-09", want: StatusActive},
		{name: "custom within a week", frequency: "custom", lastMark: "2024-01-01", today: "2024-01-08", want: StatusActive},
		{name: "custom past a week", frequency: "custom", lastMark: "2024-01-01", today: "2024-01-09", want: StatusBroken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loop := env.createLoop(t, "user-1", func(input *CreateLoopInput) {
				input.Frequency = tt.frequency
			})

			if _, err := env.streaks.MarkStreak(ctx, loop.ID, "user-1", MarkStreakInput{Date: tt.lastMark}); err != nil {
				t.Fatalf("MarkStreak failed: %v", err)
			}

			env.setNow(t, tt.today)
			stats, err := env.streaks.GetStreakStats(ctx, loop.ID, "user-1")
			if err != nil {
				t.Fatalf("GetStreakStats failed: %v", err)
			}
			if stats.Status != tt.want {
				t.Errorf("Status = %v, want %v", stats.Status, tt.want)
			}
		})
	}
}

func TestGetStreakStatsNoHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	loop := env.createLoop(t, "user-1", nil)
	env.setNow(t, "2024-06-01")

	stats, err := env.streaks.GetStreakStats(ctx, loop.ID, "user-1")
	if err != nil {
		t.Fatalf("GetStreakStats failed: %v", err)
	}
	if stats.Status != StatusActive {
		t.Errorf("Status = %v with no history, want ACTIVE", stats.Status)
	}
	if stats.LastStreakDate != nil {
		t.Errorf("LastStreakDate = %v, want nil", *stats.LastStreakDate)
	}
	if stats.CompletionRate != 0 || stats.TotalDays != 0 {
		t.Errorf("Fresh loop stats not zeroed: %+v", stats)
	}
}

func TestGetStreakStatsEndDateElapsed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	loop := env.createLoop(t, "user-1", func(input *CreateLoopInput) {
		input.EndDate = "2024-01-10"
	})
	if _, err := env.streaks.MarkStreak(ctx, loop.ID, "user-1", MarkStreakInput{Date: "2024-01-02"}); err != nil {
		t.Fatalf("MarkStreak failed: %v", err)
	}

	// The elapsed end date wins over the broken-cadence rule
	env.setNow(t, "2024-02-01")
	stats, err := env.streaks.GetStreakStats(ctx, loop.ID, "user-1")
	if err != nil {
		t.Fatalf("GetStreakStats failed: %v", err)
	}
	if stats.Status != StatusCompleted {
		t.Errorf("Status = %v past endDate, want COMPLETED", stats.Status)
	}
}

func TestHeatmap(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	loop := env.createLoop(t, "user-1", nil)

	marks := map[string]string{
		"2024-01-02": "completed",
		"2024-02-29": "completed",
		"2024-03-01": "skipped",
	}
	for day, status := range marks {
		if _, err := env.streaks.MarkStreak(ctx, loop.ID, "user-1", MarkStreakInput{Date: day, Status: status}); err != nil {
			t.Fatalf("MarkStreak(%s) failed: %v", day, err)
		}
	}

	days, err := env.streaks.Heatmap(ctx, loop.ID, "user-1", 2024)
	if err != nil {
		t.Fatalf("Heatmap failed: %v", err)
	}

	var grid []HeatmapDay
	for day := range days {
		grid = append(grid, day)
	}

	// 2024 is a leap year
	if len(grid) != 366 {
		t.Fatalf("Heatmap length = %d, want 366", len(grid))
	}
	if grid[0].Day != "2024-01-01" || grid[365].Day != "2024-12-31" {
		t.Errorf("Heatmap bounds = %s .. %s", grid[0].Day, grid[365].Day)
	}
	for i := 1; i < len(grid); i++ {
		if grid[i].Day <= grid[i-1].Day {
			t.Fatalf("Heatmap not ascending at index %d: %s after %s", i, grid[i].Day, grid[i-1].Day)
		}
	}

	values := make(map[string]int, len(grid))
	for _, day := range grid {
		values[day.Day] = day.Value
	}
	if values["2024-01-02"] != 1 || values["2024-02-29"] != 1 {
		t.Errorf("Completed days not set to 1: %d, %d", values["2024-01-02"], values["2024-02-29"])
	}
	// Skipped days and unmarked days both render as 0
	if values["2024-03-01"] != 0 {
		t.Errorf("Skipped day value = %d, want 0", values["2024-03-01"])
	}
	if values["2024-07-15"] != 0 {
		t.Errorf("Unmarked day value = %d, want 0", values["2024-07-15"])
	}

	// The sequence is restartable
	count := 0
	for range days {
		count++
	}
	if count != 366 {
		t.Errorf("Second iteration yielded %d entries, want 366", count)
	}
}

func TestHeatmapNonLeapYear(t *testing.T) {
	env := newTestEnv(t)

	loop := env.createLoop(t, "user-1", nil)

	days, err := env.streaks.Heatmap(context.Background(), loop.ID, "user-1", 2023)
	if err != nil {
		t.Fatalf("Heatmap failed: %v", err)
	}

	count := 0
	for range days {
		count++
	}
	if count != 365 {
		t.Errorf("Heatmap length = %d for 2023, want 365", count)
	}
}

func TestHeatmapOwnership(t *testing.T) {
	env := newTestEnv(t)

	loop := env.createLoop(t, "user-1", nil)

	if _, err := env.streaks.Heatmap(context.Background(), loop.ID, "user-2", 2024); !errors.Is(err, ErrNotOwner) {
		t.Errorf("Heatmap error = %v, want %v", err, ErrNotOwner)
	}
}
