package repository

import (
	"context"
	"database/sql"
	"time"

	"looptracker/internal/database"
	"looptracker/internal/models"
)

// streakColumns is the column list shared by every streak SELECT
const streakColumns = "id, loop_id, date, status, created_at, updated_at"

// StreakRepository handles per-day streak database operations
type StreakRepository struct {
	db database.DBTX
}

// NewStreakRepository creates a new streak repository
func NewStreakRepository(db database.DBTX) *StreakRepository {
	return &StreakRepository{db: db}
}

// WithTx returns the repository rebound to a transaction
func (r *StreakRepository) WithTx(tx *database.Tx) *StreakRepository {
	return &StreakRepository{db: tx}
}

// Upsert writes a streak row for (loop, day), overwriting the status when
// the day is already marked. The UNIQUE(loop_id, date) constraint keeps the
// history at one row per day.
func (r *StreakRepository) Upsert(ctx context.Context, streak *models.Streak) error {
	query := r.db.GetDialect().UpsertStreakQuery()
	_, err := r.db.ExecContext(ctx, query,
		streak.ID,
		streak.LoopID,
		streak.Date.Format(models.DayFormat),
		string(streak.Status),
	)
	return err
}

// GetByLoopAndDate retrieves the streak for one day; returns (nil, nil) when absent
func (r *StreakRepository) GetByLoopAndDate(ctx context.Context, loopID string, day time.Time) (*models.Streak, error) {
	query := "SELECT " + streakColumns + " FROM streaks WHERE loop_id = ? AND date = ?"
	return scanStreak(r.db.QueryRowContext(ctx, query, loopID, day.Format(models.DayFormat)))
}

// LatestByLoop retrieves the streak with the maximum date for a loop;
// returns (nil, nil) when the loop has no history
func (r *StreakRepository) LatestByLoop(ctx context.Context, loopID string) (*models.Streak, error) {
	query := "SELECT " + streakColumns + " FROM streaks WHERE loop_id = ? ORDER BY date DESC LIMIT 1"
	return scanStreak(r.db.QueryRowContext(ctx, query, loopID))
}

// ListByLoop retrieves a loop's full history in ascending day order
func (r *StreakRepository) ListByLoop(ctx context.Context, loopID string) ([]models.Streak, error) {
	query := "SELECT " + streakColumns + " FROM streaks WHERE loop_id = ? ORDER BY date ASC"
	return r.queryStreaks(ctx, query, loopID)
}

// ListByLoopInRange retrieves a loop's streaks with from <= day <= to,
// ascending. ISO-8601 days compare correctly as text.
func (r *StreakRepository) ListByLoopInRange(ctx context.Context, loopID string, from, to time.Time) ([]models.Streak, error) {
	query := "SELECT " + streakColumns + " FROM streaks WHERE loop_id = ? AND date >= ? AND date <= ? ORDER BY date ASC"
	return r.queryStreaks(ctx, query, loopID, from.Format(models.DayFormat), to.Format(models.DayFormat))
}

func (r *StreakRepository) queryStreaks(ctx context.Context, query string, args ...interface{}) ([]models.Streak, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var streaks []models.Streak
	for rows.Next() {
		streak, err := scanStreak(rows)
		if err != nil {
			return nil, err
		}
		streaks = append(streaks, *streak)
	}

	return streaks, rows.Err()
}

func scanStreak(row rowScanner) (*models.Streak, error) {
	streak := &models.Streak{}
	var day string

	err := row.Scan(
		&streak.ID,
		&streak.LoopID,
		&day,
		&streak.Status,
		&streak.CreatedAt,
		&streak.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if streak.Date, err = models.ParseDay(day); err != nil {
		return nil, err
	}

	return streak, nil
}
