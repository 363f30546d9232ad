package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"looptracker/internal/models"
	"looptracker/internal/repository"
)

// trendingLimit caps the trending feed
const trendingLimit = 10

// CreateLoopInput carries the fields for creating a loop
type CreateLoopInput struct {
	Title      string
	Frequency  string
	Visibility string
	StartDate  string
	EndDate    string
	Emoji      string
	CoverImage string
}

// UpdateLoopInput carries the editable loop fields; nil means unchanged
type UpdateLoopInput struct {
	Title      *string
	Frequency  *string
	Visibility *string
	EndDate    *string
	Emoji      *string
	CoverImage *string
}

// LoopService handles loop definitions: CRUD, the trending feed, and cloning
type LoopService struct {
	loops *repository.LoopRepository
	now   func() time.Time
}

// NewLoopService creates a new loop service
func NewLoopService(loops *repository.LoopRepository) *LoopService {
	return &LoopService{
		loops: loops,
		now:   time.Now,
	}
}

// Create validates the input and inserts a loop with zeroed aggregates
func (s *LoopService) Create(ctx context.Context, actorID string, input CreateLoopInput) (*models.Loop, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	frequency, err := models.ParseFrequency(input.Frequency)
	if err != nil {
		return nil, ErrInvalidFrequency
	}

	visibility, err := models.ParseVisibility(input.Visibility)
	if err != nil {
		return nil, ErrInvalidVisibility
	}

	startDate, err := models.ParseDay(input.StartDate)
	if err != nil {
		return nil, ErrInvalidDate
	}

	var endDate *time.Time
	if input.EndDate != "" {
		parsed, err := models.ParseDay(input.EndDate)
		if err != nil {
			return nil, ErrInvalidDate
		}
		endDate = &parsed
	}

	loop := &models.Loop{
		ID:         uuid.NewString(),
		OwnerID:    actorID,
		Title:      title,
		Frequency:  frequency,
		Visibility: visibility,
		State:      models.LoopStateActive,
		StartDate:  startDate,
		EndDate:    endDate,
		Emoji:      input.Emoji,
		CoverImage: input.CoverImage,
	}

	if err := s.loops.Create(ctx, loop); err != nil {
		return nil, err
	}

	return s.loops.GetByID(ctx, loop.ID)
}

// List returns loops for an actor. Without a visibility filter it returns
// the actor's own loops. A private filter stays scoped to the actor;
// public and friends_only list everyone's loops with that visibility.
func (s *LoopService) List(ctx context.Context, actorID, visibility string) ([]models.Loop, error) {
	if visibility == "" {
		return s.loops.ListByOwner(ctx, actorID)
	}

	parsed, err := models.ParseVisibility(visibility)
	if err != nil {
		return nil, ErrInvalidVisibility
	}

	if parsed == models.VisibilityPrivate {
		return s.loops.ListByOwnerAndVisibility(ctx, actorID, parsed)
	}
	return s.loops.ListByVisibility(ctx, parsed)
}

// Get retrieves a loop owned by the actor
func (s *LoopService) Get(ctx context.Context, loopID, actorID string) (*models.Loop, error) {
	return s.ownedLoop(ctx, loopID, actorID)
}

// Update edits a loop's definition fields; aggregates are untouched
func (s *LoopService) Update(ctx context.Context, loopID, actorID string, input UpdateLoopInput) (*models.Loop, error) {
	loop, err := s.ownedLoop(ctx, loopID, actorID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		loop.Title = title
	}
	if input.Frequency != nil {
		frequency, err := models.ParseFrequency(*input.Frequency)
		if err != nil {
			return nil, ErrInvalidFrequency
		}
		loop.Frequency = frequency
	}
	if input.Visibility != nil {
		visibility, err := models.ParseVisibility(*input.Visibility)
		if err != nil {
			return nil, ErrInvalidVisibility
		}
		loop.Visibility = visibility
	}
	if input.EndDate != nil {
		if *input.EndDate == "" {
			loop.EndDate = nil
		} else {
			parsed, err := models.ParseDay(*input.EndDate)
			if err != nil {
				return nil, ErrInvalidDate
			}
			loop.EndDate = &parsed
		}
	}
	if input.Emoji != nil {
		loop.Emoji = *input.Emoji
	}
	if input.CoverImage != nil {
		loop.CoverImage = *input.CoverImage
	}

	if err := s.loops.Update(ctx, loop); err != nil {
		return nil, err
	}

	return loop, nil
}

// Delete removes a loop owned by the actor; its streaks and reactions
// cascade away with it
func (s *LoopService) Delete(ctx context.Context, loopID, actorID string) error {
	if _, err := s.ownedLoop(ctx, loopID, actorID); err != nil {
		return err
	}

	affected, err := s.loops.Delete(ctx, loopID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrLoopNotFound
	}
	return nil
}

// Trending returns up to ten public loops ranked by clone count, ties
// broken by most recent reaction
func (s *LoopService) Trending(ctx context.Context) ([]models.Loop, error) {
	return s.loops.ListPublicByTrending(ctx, trendingLimit)
}

// Clone duplicates a non-private loop for the actor. The copy starts today
// with fresh aggregates; the source's clone counter is incremented first.
func (s *LoopService) Clone(ctx context.Context, sourceID, actorID string) (*models.Loop, error) {
	source, err := s.loops.GetByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	// A private source is reported as absent, not as forbidden
	if source == nil || source.Visibility == models.VisibilityPrivate {
		return nil, ErrLoopNotFound
	}

	if err := s.loops.IncrementCloneCount(ctx, source.ID); err != nil {
		return nil, err
	}

	clone := &models.Loop{
		ID:         uuid.NewString(),
		OwnerID:    actorID,
		Title:      source.Title,
		Frequency:  source.Frequency,
		Visibility: source.Visibility,
		State:      models.LoopStateActive,
		StartDate:  models.Day(s.now()),
		Emoji:      source.Emoji,
		CoverImage: source.CoverImage,
	}

	if err := s.loops.Create(ctx, clone); err != nil {
		return nil, err
	}

	return s.loops.GetByID(ctx, clone.ID)
}

// ownedLoop fetches a loop and enforces ownership
func (s *LoopService) ownedLoop(ctx context.Context, loopID, actorID string) (*models.Loop, error) {
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
