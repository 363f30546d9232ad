package handlers

import (
	"context"
	"log"
	"net/http"
	"time"
)

// ActorHeader carries the authenticated user id. It is set by the upstream
// identity gateway; this service never issues or verifies credentials.
const ActorHeader = "X-Actor-ID"

type contextKey string

const actorContextKey contextKey = "actor"

// RequireActor rejects requests without an authenticated actor id and
// stores the id on the request context for handlers
func RequireActor(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID := r.Header.Get(ActorHeader)
		if actorID == "" {
			respondJSON(w, http.StatusUnauthorized, errorBody("missing actor identity"))
			return
		}

		ctx := context.WithValue(r.Context(), actorContextKey, actorID)
		next(w, r.WithContext(ctx))
	}
}

// ActorFromContext retrieves the actor id from the request context
func ActorFromContext(ctx context.Context) string {
	actorID, _ := ctx.Value(actorContextKey).(string)
	return actorID
}

// Logging wraps a handler with request logging
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
