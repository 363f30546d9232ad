package repository

import (
	"context"
	"database/sql"
	"time"

	"looptracker/internal/database"
	"looptracker/internal/models"
)

// loopColumns is the column list shared by every loop SELECT
const loopColumns = `id, owner_id, title, frequency, visibility, state,
       start_date, end_date, emoji, cover_image,
       current_streak, longest_streak, completion_rate,
       total_completions, total_days, clone_count,
       created_at, updated_at`

// LoopRepository handles loop database operations
type LoopRepository struct {
	db database.DBTX
}

// NewLoopRepository creates a new loop repository
func NewLoopRepository(db database.DBTX) *LoopRepository {
	return &LoopRepository{db: db}
}

// WithTx returns the repository rebound to a transaction
func (r *LoopRepository) WithTx(tx *database.Tx) *LoopRepository {
	return &LoopRepository{db: tx}
}

// Create inserts a new loop row
func (r *LoopRepository) Create(ctx context.Context, loop *models.Loop) error {
	query := `
		INSERT INTO loops (id, owner_id, title, frequency, visibility, state,
		                   start_date, end_date, emoji, cover_image,
		                   current_streak, longest_streak, completion_rate,
		                   total_completions, total_days, clone_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		loop.ID,
		loop.OwnerID,
		loop.Title,
		string(loop.Frequency),
		string(loop.Visibility),
		string(loop.State),
		loop.StartDate.Format(models.DayFormat),
		dayOrNull(loop.EndDate),
		loop.Emoji,
		loop.CoverImage,
		loop.CurrentStreak,
		loop.LongestStreak,
		loop.CompletionRate,
		loop.TotalCompletions,
		loop.TotalDays,
		loop.CloneCount,
	)
	return err
}

// GetByID retrieves a loop by id; returns (nil, nil) when absent
func (r *LoopRepository) GetByID(ctx context.Context, id string) (*models.Loop, error) {
	query := "SELECT " + loopColumns + " FROM loops WHERE id = ?"
	return scanLoop(r.db.QueryRowContext(ctx, query, id))
}

// GetByIDForUpdate retrieves a loop by id and locks its row for the
// enclosing transaction where the dialect supports row locks. Mark-streak
// calls on the same loop serialize on this lock.
func (r *LoopRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Loop, error) {
	query := "SELECT " + loopColumns + " FROM loops WHERE id = ?" + r.db.GetDialect().RowLockClause()
	return scanLoop(r.db.QueryRowContext(ctx, query, id))
}

// ListByOwner retrieves all loops belonging to an owner
func (r *LoopRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Loop, error) {
	query := "SELECT " + loopColumns + " FROM loops WHERE owner_id = ? ORDER BY created_at DESC"
	return r.queryLoops(ctx, query, ownerID)
}

// ListByOwnerAndVisibility retrieves an owner's loops with one visibility
func (r *LoopRepository) ListByOwnerAndVisibility(ctx context.Context, ownerID string, visibility models.Visibility) ([]models.Loop, error) {
	query := "SELECT " + loopColumns + " FROM loops WHERE owner_id = ? AND visibility = ? ORDER BY created_at DESC"
	return r.queryLoops(ctx, query, ownerID, string(visibility))
}

// ListByVisibility retrieves every loop with the given visibility
func (r *LoopRepository) ListByVisibility(ctx context.Context, visibility models.Visibility) ([]models.Loop, error) {
	query := "SELECT " + loopColumns + " FROM loops WHERE visibility = ? ORDER BY created_at DESC"
	return r.queryLoops(ctx, query, string(visibility))
}

// ListPublicByTrending retrieves public loops ordered by clone count, ties
// broken by the most recent reaction. Loops without reactions sort after
// reacted loops within the same clone count.
func (r *LoopRepository) ListPublicByTrending(ctx context.Context, limit int) ([]models.Loop, error) {
	query := `
		SELECT ` + loopColumns + `
		FROM loops l
		LEFT JOIN (
			SELECT loop_id, MAX(created_at) AS last_reaction_at
			FROM reactions
			GROUP BY loop_id
		) r ON r.loop_id = l.id
		WHERE l.visibility = ?
		ORDER BY l.clone_count DESC, (r.last_reaction_at IS NULL), r.last_reaction_at DESC
		LIMIT ?
	`
	return r.queryLoops(ctx, query, string(models.VisibilityPublic), limit)
}

// UpdateAggregates rewrites the derived counters and state of a loop
func (r *LoopRepository) UpdateAggregates(ctx context.Context, loop *models.Loop) error {
	query := `
		UPDATE loops
		SET current_streak = ?, longest_streak = ?, completion_rate = ?,
		    total_completions = ?, total_days = ?, state = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := r.db.ExecContext(ctx, query,
		loop.CurrentStreak,
		loop.LongestStreak,
		loop.CompletionRate,
		loop.TotalCompletions,
		loop.TotalDays,
		string(loop.State),
		loop.ID,
	)
	return err
}

// Update persists the editable definition fields of a loop
func (r *LoopRepository) Update(ctx context.Context, loop *models.Loop) error {
	query := `
		UPDATE loops
		SET title = ?, frequency = ?, visibility = ?, end_date = ?,
		    emoji = ?, cover_image = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := r.db.ExecContext(ctx, query,
		loop.Title,
		string(loop.Frequency),
		string(loop.Visibility),
		dayOrNull(loop.EndDate),
		loop.Emoji,
		loop.CoverImage,
		loop.ID,
	)
	return err
}

// IncrementCloneCount bumps a loop's clone counter by one
func (r *LoopRepository) IncrementCloneCount(ctx context.Context, id string) error {
	query := "UPDATE loops SET clone_count = clone_count + 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// Delete removes a loop; streaks and reactions cascade at the schema level.
// Returns the number of rows removed.
func (r *LoopRepository) Delete(ctx context.Context, id string) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM loops WHERE id = ?", id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *LoopRepository) queryLoops(ctx context.Context, query string, args ...interface{}) ([]models.Loop, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loops []models.Loop
	for rows.Next() {
		loop, err := scanLoop(rows)
		if err != nil {
			return nil, err
		}
		loops = append(loops, *loop)
	}

	return loops, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLoop(row rowScanner) (*models.Loop, error) {
	loop := &models.Loop{}
	var startDate string
	var endDate sql.NullString

	err := row.Scan(
		&loop.ID,
		&loop.OwnerID,
		&loop.Title,
		&loop.Frequency,
		&loop.Visibility,
		&loop.State,
		&startDate,
		&endDate,
		&loop.Emoji,
		&loop.CoverImage,
		&loop.CurrentStreak,
		&loop.LongestStreak,
		&loop.CompletionRate,
		&loop.TotalCompletions,
		&loop.TotalDays,
		&loop.CloneCount,
		&loop.CreatedAt,
		&loop.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if loop.StartDate, err = models.ParseDay(startDate); err != nil {
		return nil, err
	}
	if endDate.Valid {
		day, err := models.ParseDay(endDate.String)
		if err != nil {
			return nil, err
		}
		loop.EndDate = &day
	}

	return loop, nil
}

// dayOrNull renders an optional day as a nullable ISO-8601 string
func dayOrNull(day *time.Time) sql.NullString {
	if day == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: day.Format(models.DayFormat), Valid: true}
}
