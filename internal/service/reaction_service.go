package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"looptracker/internal/models"
	"looptracker/internal/repository"
)

// ReactionService handles emoji reactions to loops. Reaction timestamps
// feed the trending tie-break.
type ReactionService struct {
	reactions *repository.ReactionRepository
	loops     *repository.LoopRepository
}

// NewReactionService creates a new reaction service
func NewReactionService(reactions *repository.ReactionRepository, loops *repository.LoopRepository) *ReactionService {
	return &ReactionService{
		reactions: reactions,
		loops:     loops,
	}
}

// React adds or replaces the actor's reaction to a loop. Each user holds
// at most one reaction per loop; reacting again swaps the emoji.
func (s *ReactionService) React(ctx context.Context, loopID, actorID, emoji string) (*models.Reaction, error) {
	emoji = strings.TrimSpace(emoji)
	if emoji == "" {
		return nil, ErrEmojiRequired
	}

	loop, err := s.loops.GetByID(ctx, loopID)
	if err != nil {
		return nil, err
	}
	if loop == nil {
		return nil, ErrLoopNotFound
	}

	existing, err := s.reactions.GetByUserAndLoop(ctx, actorID, loopID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if err := s.reactions.UpdateEmoji(ctx, existing.ID, emoji); err != nil {
			return nil, err
		}
		existing.Emoji = emoji
		return existing, nil
	}

	reaction := &models.Reaction{
		ID:     uuid.NewString(),
		LoopID: loopID,
		UserID: actorID,
		Emoji:  emoji,
	}
	if err := s.reactions.Create(ctx, reaction); err != nil {
		return nil, err
	}

	return s.reactions.GetByUserAndLoop(ctx, actorID, loopID)
}

// Unreact removes the actor's reaction to a loop
func (s *ReactionService) Unreact(ctx context.Context, loopID, actorID string) error {
	affected, err := s.reactions.Delete(ctx, actorID, loopID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrReactionNotFound
	}
	return nil
}

// Reactions lists a loop's reactions, newest first
func (s *ReactionService) Reactions(ctx context.Context, loopID string) ([]models.Reaction, error) {
	loop, err := s.loops.GetByID(ctx, loopID)
	if err != nil {
		return nil, err
	}
	if loop == nil {
		return nil, ErrLoopNotFound
	}
	return s.reactions.ListByLoop(ctx, loopID)
}
