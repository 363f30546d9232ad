package repository

import (
	"context"
	"database/sql"

	"looptracker/internal/database"
	"looptracker/internal/models"
)

const reactionColumns = "id, loop_id, user_id, emoji, created_at, updated_at"

// ReactionRepository handles reaction database operations
type ReactionRepository struct {
	db database.DBTX
}

// NewReactionRepository creates a new reaction repository
func NewReactionRepository(db database.DBTX) *ReactionRepository {
	return &ReactionRepository{db: db}
}

// Create inserts a new reaction row
func (r *ReactionRepository) Create(ctx context.Context, reaction *models.Reaction) error {
	query := "INSERT INTO reactions (id, loop_id, user_id, emoji) VALUES (?, ?, ?, ?)"
	_, err := r.db.ExecContext(ctx, query,
		reaction.ID,
		reaction.LoopID,
		reaction.UserID,
		reaction.Emoji,
	)
	return err
}

// GetByUserAndLoop retrieves one user's reaction to a loop; (nil, nil) when absent
func (r *ReactionRepository) GetByUserAndLoop(ctx context.Context, userID, loopID string) (*models.Reaction, error) {
	query := "SELECT " + reactionColumns + " FROM reactions WHERE user_id = ? AND loop_id = ?"
	return scanReaction(r.db.QueryRowContext(ctx, query, userID, loopID))
}

// UpdateEmoji overwrites the emoji of an existing reaction
func (r *ReactionRepository) UpdateEmoji(ctx context.Context, id, emoji string) error {
	query := "UPDATE reactions SET emoji = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	_, err := r.db.ExecContext(ctx, query, emoji, id)
	return err
}

// Delete removes a user's reaction to a loop; returns the rows removed
func (r *ReactionRepository) Delete(ctx context.Context, userID, loopID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM reactions WHERE user_id = ? AND loop_id = ?", userID, loopID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// ListByLoop retrieves all reactions to a loop, newest first
func (r *ReactionRepository) ListByLoop(ctx context.Context, loopID string) ([]models.Reaction, error) {
	query := "SELECT " + reactionColumns + " FROM reactions WHERE loop_id = ? ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, loopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reactions []models.Reaction
	for rows.Next() {
		reaction, err := scanReaction(rows)
		if err != nil {
			return nil, err
		}
		reactions = append(reactions, *reaction)
	}

	return reactions, rows.Err()
}

func scanReaction(row rowScanner) (*models.Reaction, error) {
	reaction := &models.Reaction{}

	err := row.Scan(
		&reaction.ID,
		&reaction.LoopID,
		&reaction.UserID,
		&reaction.Emoji,
		&reaction.CreatedAt,
		&reaction.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return reaction, nil
}
