package handlers

import (
	"encoding/json"
	"net/http"

	"looptracker/internal/service"
)

// ReactionHandler handles reaction HTTP requests
type ReactionHandler struct {
	reactionService *service.ReactionService
}

// NewReactionHandler creates a new reaction handler
func NewReactionHandler(reactionService *service.ReactionService) *ReactionHandler {
	return &ReactionHandler{reactionService: reactionService}
}

type reactRequest struct {
	Emoji string `json:"emoji"`
}

// React handles POST /api/loops/{id}/reactions
func (h *ReactionHandler) React(w http.ResponseWriter, r *http.Request) {
	actorID := ActorFromContext(r.Context())

	var req reactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}

	reaction, err := h.reactionService.React(r.Context(), r.PathValue("id"), actorID, req.Emoji)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, NewReactionResponse(reaction))
}

// Unreact handles DELETE /api/loops/{id}/reactions
func (h *ReactionHandler) Unreact(w http.ResponseWriter, r *http.Request) {
	actorID := ActorFromContext(r.Context())

	if err := h.reactionService.Unreact(r.Context(), r.PathValue("id"), actorID); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /api/loops/{id}/reactions
func (h *ReactionHandler) List(w http.ResponseWriter, r *http.Request) {
	reactions, err := h.reactionService.Reactions(r.Context(), r.PathValue("id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, NewReactionResponses(reactions))
}
