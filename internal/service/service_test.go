package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"looptracker/internal/database"
	"looptracker/internal/models"
	"looptracker/internal/repository"
)

// testEnv bundles the services wired against one migrated SQLite database
type testEnv struct {
	db        *database.DB
	loops     *LoopService
	streaks   *StreakService
	reactions *ReactionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "service_test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	loopRepo := repository.NewLoopRepository(db)
	streakRepo := repository.NewStreakRepository(db)
	reactionRepo := repository.NewReactionRepository(db)

	return &testEnv{
		db:        db,
		loops:     NewLoopService(loopRepo),
		streaks:   NewStreakService(db, loopRepo, streakRepo),
		reactions: NewReactionService(reactionRepo, loopRepo),
	}
}

// setNow pins both clocks to a fixed day
func (env *testEnv) setNow(t *testing.T, day string) {
	t.Helper()
	fixed := mustDay(t, day)
	env.loops.now = func() time.Time { return fixed }
	env.streaks.now = func() time.Time { return fixed }
}

func mustDay(t *testing.T, value string) time.Time {
	t.Helper()
	day, err := models.ParseDay(value)
	if err != nil {
		t.Fatalf("ParseDay(%q): %v", value, err)
	}
	return day
}

// createLoop inserts a loop through the service with sane defaults
func (env *testEnv) createLoop(t *testing.T, ownerID string, mutate func(*CreateLoopInput)) *models.Loop {
	t.Helper()

	input := CreateLoopInput{
		Title:      "Read 10 pages",
		Frequency:  "daily",
		Visibility: "private",
		StartDate:  "2024-01-01",
	}
	if mutate != nil {
		mutate(&input)
	}

	loop, err := env.loops.Create(context.Background(), ownerID, input)
	if err != nil {
		t.Fatalf("Failed to create loop: %v", err)
	}
	return loop
}
