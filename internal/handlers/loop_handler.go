package handlers

import (
	"encoding/json"
	"net/http"

	"looptracker/internal/service"
)

// LoopHandler handles loop HTTP requests
type LoopHandler struct {
	loopService *service.LoopService
}

// NewLoopHandler creates a new loop handler
func NewLoopHandler(loopService *service.LoopService) *LoopHandler {
	return &LoopHandler{loopService: loopService}
}

type createLoopRequest struct {
	Title      string `json:"title"`
	Frequency  string `json:"frequency"`
	Visibility string `json:"visibility"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Emoji      string `json:"emoji"`
	CoverImage string `json:"coverImage"`
}

// Create handles POST /api/loops
func (h *LoopHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID := ActorFromContext(r.Context())

	var req createLoopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}

	loop, err := h.loopService.Create(r.Context(), actorID, service.CreateLoopInput{
		Title:      req.Title,
		Frequency:  req.Frequency,
		Visibility: req.Visibility,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Emoji:      req.Emoji,
		CoverImage: req.CoverImage,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, NewLoopResponse(loop))
}

// List handles GET /api/loops with an optional visibility filter
func (h *LoopHandler) List(w http.ResponseWriter, r *http.Request) {
	actorID := ActorFromContext(r.Context())

	loops, err := h.loopService.List(r.Context(), actorID, r.URL.Query().Get("visibility"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, NewLoopResponses(loops))
}

// Get handles GET /api/loops/{id}
func (h *LoopHandler) Get(w http.ResponseWriter, r *http.Request) {
	actorID := ActorFromContext(r.Context())

	loop, err := h.loopService.Get(r.Context(), r.PathValue("id"), actorID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, NewLoopResponse(loop))
}

type updateLoopRequest struct {
	Title      *string `json:"title"`
	Frequency  *string `json:"frequency"`
	Visibility *string `json:"visibility"`
	EndDate    *string `json:"endDate"`
	Emoji      *string `json:"emoji"`
	CoverImage *string `json:"coverImage"`
}

// Update handles PATCH /api/loops/{id}
func (h *LoopHandler) Update(w http.ResponseWriter, r *http.Request) {
	actorID := ActorFromContext(r.Context())

	var req updateLoopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}

	loop, err := h.loopService.Update(r.Context(), r.PathValue("id"), actorID, service.UpdateLoopInput{
		Title:      req.Title,
		Frequency:  req.Frequency,
		Visibility: req.Visibility,
		EndDate:    req.EndDate,
		Emoji:      req.Emoji,
		CoverImage: req.CoverImage,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, NewLoopResponse(loop))
}

// Delete handles DELETE /api/loops/{id}
func (h *LoopHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID := ActorFromContext(r.Context())

	if err := h.loopService.Delete(r.Context(), r.PathValue("id"), actorID); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Trending handles GET /api/loops/trending
func (h *LoopHandler) Trending(w http.ResponseWriter, r *http.Request) {
	loops, err := h.loopService.Trending(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, NewLoopResponses(loops))
}

// Clone handles POST /api/loops/{id}/clone
func (h *LoopHandler) Clone(w http.ResponseWriter, r *http.Request) {
	actorID := ActorFromContext(r.Context())

	loop, err := h.loopService.Clone(r.Context(), r.PathValue("id"), actorID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, NewLoopResponse(loop))
}
