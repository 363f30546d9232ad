package handlers

import (
	"time"

	"looptracker/internal/models"
)

// LoopResponse is the JSON shape of a loop
type LoopResponse struct {
	ID               string  `json:"id"`
	OwnerID          string  `json:"ownerId"`
	Title            string  `json:"title"`
	Frequency        string  `json:"frequency"`
	Visibility       string  `json:"visibility"`
	State            string  `json:"state"`
	StartDate        string  `json:"startDate"`
	EndDate          *string `json:"endDate"`
	Emoji            string  `json:"emoji,omitempty"`
	CoverImage       string  `json:"coverImage,omitempty"`
	CurrentStreak    int     `json:"currentStreak"`
	LongestStreak    int     `json:"longestStreak"`
	CompletionRate   float64 `json:"completionRate"`
	TotalCompletions int     `json:"totalCompletions"`
	TotalDays        int     `json:"totalDays"`
	CloneCount       int     `json:"cloneCount"`
}

// NewLoopResponse maps a loop model to its JSON shape
func NewLoopResponse(loop *models.Loop) LoopResponse {
	resp := LoopResponse{
		ID:               loop.ID,
		OwnerID:          loop.OwnerID,
		Title:            loop.Title,
		Frequency:        string(loop.Frequency),
		Visibility:       string(loop.Visibility),
		State:            string(loop.State),
		StartDate:        loop.StartDate.Format(models.DayFormat),
		Emoji:            loop.Emoji,
		CoverImage:       loop.CoverImage,
		CurrentStreak:    loop.CurrentStreak,
		LongestStreak:    loop.LongestStreak,
		CompletionRate:   loop.CompletionRate,
		TotalCompletions: loop.TotalCompletions,
		TotalDays:        loop.TotalDays,
		CloneCount:       loop.CloneCount,
	}
	if loop.EndDate != nil {
		endDate := loop.EndDate.Format(models.DayFormat)
		resp.EndDate = &endDate
	}
	return resp
}

// NewLoopResponses maps a slice of loops
func NewLoopResponses(loops []models.Loop) []LoopResponse {
	responses := make([]LoopResponse, len(loops))
	for i := range loops {
		responses[i] = NewLoopResponse(&loops[i])
	}
	return responses
}

// ReactionResponse is the JSON shape of a reaction
type ReactionResponse struct {
	ID        string `json:"id"`
	LoopID    string `json:"loopId"`
	UserID    string `json:"userId"`
	Emoji     string `json:"emoji"`
	CreatedAt string `json:"createdAt"`
}

// NewReactionResponse maps a reaction model to its JSON shape
func NewReactionResponse(reaction *models.Reaction) ReactionResponse {
	return ReactionResponse{
		ID:        reaction.ID,
		LoopID:    reaction.LoopID,
		UserID:    reaction.UserID,
		Emoji:     reaction.Emoji,
		CreatedAt: reaction.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// NewReactionResponses maps a slice of reactions
func NewReactionResponses(reactions []models.Reaction) []ReactionResponse {
	responses := make([]ReactionResponse, len(reactions))
	for i := range reactions {
		responses[i] = NewReactionResponse(&reactions[i])
	}
	return responses
}
