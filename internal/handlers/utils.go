package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/eventms/appserver/internal/session"
	"github.com/go-chi/chi/v5"
)

type contextKey string

const contextSessionKey contextKey = "session"

// ErrorResponse is a simple error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is a simple success payload.
type MessageResponse struct {
	Message string `json:"message"`
}

func withSession(ctx context.Context, sess session.Session) context.Context {
	return context.WithValue(ctx, contextSessionKey, sess)
}

func sessionFromContext(ctx context.Context) (session.Session, bool) {
	sess, ok := ctx.Value(contextSessionKey).(session.Session)
	return sess, ok
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// storageError logs the underlying error and returns a generic 500. The raw
// error text never reaches the client.
func storageError(w http.ResponseWriter, err error) {
	slog.Error("storage error", "error", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func parseEventID(r *http.Request, param string) (int, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, errors.New("invalid event id")
	}
	return id, nil
}

// Healthz reports process liveness.
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, MessageResponse{Message: "ok"})
}

// RequireAPISession rejects unauthenticated API requests with a 401 and
// injects the session into the request context otherwise.
func RequireAPISession(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := sessions.Lookup(r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Login required")
				return
			}
			next.ServeHTTP(w, r.WithContext(withSession(r.Context(), sess)))
		})
	}
}
