package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"looptracker/internal/service"
)

// StreakHandler handles streak marking and derived read models
type StreakHandler struct {
	streakService *service.StreakService
}

// NewStreakHandler creates a new streak handler
func NewStreakHandler(streakService *service.StreakService) *StreakHandler {
	return &StreakHandler{streakService: streakService}
}

type markStreakRequest struct {
	Date   string `json:"date"`
	Status string `json:"status"`
}

// Mark handles POST /api/loops/{id}/streak
func (h *StreakHandler) Mark(w http.ResponseWriter, r *http.Request) {
	actorID := ActorFromContext(r.Context())

	// Both fields are optional: date defaults to today, status to completed
	var req markStreakRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
			return
		}
	}

	loop, err := h.streakService.MarkStreak(r.Context(), r.PathValue("id"), actorID, service.MarkStreakInput{
		Date:   req.Date,
		Status: req.Status,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, NewLoopResponse(loop))
}

// Stats handles GET /api/loops/{id}/stats
func (h *StreakHandler) Stats(w http.ResponseWriter, r *http.Request) {
	actorID := ActorFromContext(r.Context())

	stats, err := h.streakService.GetStreakStats(r.Context(), r.PathValue("id"), actorID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// Heatmap handles GET /api/loops/{id}/heatmap with an optional year
func (h *StreakHandler) Heatmap(w http.ResponseWriter, r *http.Request) {
	actorID := ActorFromContext(r.Context())

	year := 0
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, errorBody("invalid year"))
			return
		}
		year = parsed
	}

	days, err := h.streakService.Heatmap(r.Context(), r.PathValue("id"), actorID, year)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	// Materialize the sequence for the JSON body: 365 or 366 entries
	grid := make([]service.HeatmapDay, 0, 366)
	for day := range days {
		grid = append(grid, day)
	}

	respondJSON(w, http.StatusOK, grid)
}
