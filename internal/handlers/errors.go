package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"looptracker/internal/service"
)

// respondJSON writes a JSON response body with the given status
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Printf("Error encoding response: %v", err)
		}
	}
}

func errorBody(message string) map[string]string {
	return map[string]string{"error": message}
}

// respondServiceError maps service errors onto HTTP statuses
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrLoopNotFound),
		errors.Is(err, service.ErrReactionNotFound):
		respondJSON(w, http.StatusNotFound, errorBody(err.Error()))
	case errors.Is(err, service.ErrNotOwner):
		respondJSON(w, http.StatusForbidden, errorBody(err.Error()))
	case errors.Is(err, service.ErrTitleRequired),
		errors.Is(err, service.ErrEmojiRequired),
		errors.Is(err, service.ErrInvalidFrequency),
		errors.Is(err, service.ErrInvalidVisibility),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidDate):
		respondJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	default:
		log.Printf("Internal error: %v", err)
		respondJSON(w, http.StatusInternalServerError, errorBody("internal server error"))
	}
}
