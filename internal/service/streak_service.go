package service

import (
	"context"
	"iter"
	"time"

	"github.com/google/uuid"

	"looptracker/internal/database"
	"looptracker/internal/models"
	"looptracker/internal/repository"
)

// StreakStatus is the derived point-in-time health of a loop
type StreakStatus string

const (
	StatusActive    StreakStatus = "ACTIVE"
	StatusBroken    StreakStatus = "BROKEN"
	StatusCompleted StreakStatus = "COMPLETED"
)

// StreakStats is the point-in-time statistics snapshot for a loop
type StreakStats struct {
	CurrentStreak    int          `json:"currentStreak"`
	LongestStreak    int          `json:"longestStreak"`
	CompletionRate   float64      `json:"completionRate"`
	TotalCompletions int          `json:"totalCompletions"`
	TotalDays        int          `json:"totalDays"`
	Status           StreakStatus `json:"status"`
	LastStreakDate   *string      `json:"lastStreakDate"`
}

// HeatmapDay is one calendar day's cell in a year heatmap
type HeatmapDay struct {
	Day   string `json:"day"`
	Value int    `json:"value"`
}

// MarkStreakInput carries the optional parameters of a mark-streak call
type MarkStreakInput struct {
	// Date is an ISO-8601 calendar day; empty means today
	Date string
	// Status is "completed" or "skipped"; empty means completed
	Status string
}

// StreakService implements streak marking and the derived read models
// (stats, heatmap). It holds no state between calls.
type StreakService struct {
	db      *database.DB
	loops   *repository.LoopRepository
	streaks *repository.StreakRepository
	now     func() time.Time
}

// NewStreakService creates a new streak service
func NewStreakService(db *database.DB, loops *repository.LoopRepository, streaks *repository.StreakRepository) *StreakService {
	return &StreakService{
		db:      db,
		loops:   loops,
		streaks: streaks,
		now:     time.Now,
	}
}

// MarkStreak records a completed or skipped day for a loop and rewrites the
// loop's aggregates from its full history. The write runs in one
// transaction with the loop row locked, so concurrent marks on the same
// loop serialize at the database and cannot lose counter updates.
func (s *StreakService) MarkStreak(ctx context.Context, loopID, actorID string, input MarkStreakInput) (*models.Loop, error) {
	day := models.Day(s.now())
	if input.Date != "" {
		parsed, err := models.ParseDay(input.Date)
		if err != nil {
			return nil, ErrInvalidDate
		}
		day = parsed
	}

	status := models.StreakCompleted
	if input.Status != "" {
		parsed, err := models.ParseStreakStatus(input.Status)
		if err != nil {
			return nil, ErrInvalidStatus
		}
		status = parsed
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	loops := s.loops.WithTx(tx)
	streaks := s.streaks.WithTx(tx)

	loop, err := loops.GetByIDForUpdate(ctx, loopID)
	if err != nil {
		return nil, err
	}
	if loop == nil {
		return nil, ErrLoopNotFound
	}
	if loop.OwnerID != actorID {
		return nil, ErrNotOwner
	}

	streak := &models.Streak{
		ID:     uuid.NewString(),
		LoopID: loop.ID,
		Date:   day,
		Status: status,
	}
	if err := streaks.Upsert(ctx, streak); err != nil {
		return nil, err
	}

	history, err := streaks.ListByLoop(ctx, loop.ID)
	if err != nil {
		return nil, err
	}

	updated := recomputeAggregates(*loop, history)
	if err := loops.UpdateAggregates(ctx, &updated); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &updated, nil
}

// GetStreakStats derives a loop's current statistics and health status
func (s *StreakService) GetStreakStats(ctx context.Context, loopID, actorID string) (*StreakStats, error) {
	loop, err := s.ownedLoop(ctx, loopID, actorID)
	if err != nil {
		return nil, err
	}

	last, err := s.streaks.LatestByLoop(ctx, loopID)
	if err != nil {
		return nil, err
	}

	today := models.Day(s.now())

	stats := &StreakStats{
		CurrentStreak:    loop.CurrentStreak,
		LongestStreak:    loop.LongestStreak,
		CompletionRate:   loop.CompletionRate,
		TotalCompletions: loop.TotalCompletions,
		TotalDays:        loop.TotalDays,
		Status:           s.deriveStatus(loop, last, today),
	}
	if last != nil {
		day := last.Date.Format(models.DayFormat)
		stats.LastStreakDate = &day
	}

	return stats, nil
}

// deriveStatus applies the frequency policy to the latest record. The
// checks are ordered: an elapsed end date always wins, an empty history is
// never broken, and only then does the cadence rule fire.
func (s *StreakService) deriveStatus(loop *models.Loop, last *models.Streak, today time.Time) StreakStatus {
	if loop.EndDate != nil && models.Day(*loop.EndDate).Before(today) {
		return StatusCompleted
	}
	if last == nil {
		return StatusActive
	}

	lastDay := models.Day(last.Date)
	yesterday := today.AddDate(0, 0, -1)
	daysSinceLast := models.DaysBetween(lastDay, today)

	var broken bool
	switch loop.Frequency {
	case models.FrequencyDaily:
		broken = lastDay.Before(yesterday)
	case models.FrequencyThreeTimesWeek:
		broken = daysSinceLast > 2
	case models.FrequencyWeekdays:
		weekday := today.Weekday()
		broken = weekday >= time.Monday && weekday <= time.Friday && daysSinceLast > 1
	case models.FrequencyCustom:
		broken = daysSinceLast > 7
	}

	if broken {
		return StatusBroken
	}
	return StatusActive
}

// Heatmap returns every calendar day of a year with 1 for completed days
// and 0 otherwise, in ascending day order. The returned sequence is lazy
// and can be iterated any number of times; the store is only hit once.
func (s *StreakService) Heatmap(ctx context.Context, loopID, actorID string, year int) (iter.Seq[HeatmapDay], error) {
	if _, err := s.ownedLoop(ctx, loopID, actorID); err != nil {
		return nil, err
	}

	if year <= 0 {
		year = s.now().Year()
	}
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	streaks, err := s.streaks.ListByLoopInRange(ctx, loopID, from, to)
	if err != nil {
		return nil, err
	}

	completed := make(map[string]struct{}, len(streaks))
	for _, streak := range streaks {
		if streak.Status == models.StreakCompleted {
			completed[streak.Date.Format(models.DayFormat)] = struct{}{}
		}
	}

	return func(yield func(HeatmapDay) bool) {
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			day := d.Format(models.DayFormat)
			value := 0
			if _, ok := completed[day]; ok {
				value = 1
			}
			if !yield(HeatmapDay{Day: day, Value: value}) {
				return
			}
		}
	}, nil
}

// ownedLoop fetches a loop and enforces ownership
func (s *StreakService) ownedLoop(ctx context.Context, loopID, actorID string) (*models.Loop, error) {
	loop, err := s.loops.GetByID(ctx, loopID)
	if err != nil {
		return nil, err
	}
	if loop == nil {
		return nil, ErrLoopNotFound
	}
	if loop.OwnerID != actorID {
		return nil, ErrNotOwner
	}
	return loop, nil
}
