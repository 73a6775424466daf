package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/eventms/appserver/internal/services"
	"github.com/eventms/appserver/internal/session"
	"github.com/go-chi/chi/v5"
)

// APIHandler provides the JSON surface. It is authenticated by the same
// session cookie as the page surface; there is no separate token scheme.
type APIHandler struct {
	users    *services.UserService
	events   *services.EventService
	regs     *services.RegistrationService
	sessions *session.Manager
}

// NewAPIHandler constructs an APIHandler with the provided dependencies.
func NewAPIHandler(
	users *services.UserService,
	events *services.EventService,
	regs *services.RegistrationService,
	sessions *session.Manager,
) *APIHandler {
	return &APIHandler{users: users, events: events, regs: regs, sessions: sessions}
}

// APIRouter registers the JSON routes on the given router.
func APIRouter(
	r chi.Router,
	users *services.UserService,
	events *services.EventService,
	regs *services.RegistrationService,
	sessions *session.Manager,
) {
	h := NewAPIHandler(users, events, regs, sessions)

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Get("/events", h.ListEvents)

	r.Group(func(r chi.Router) {
		r.Use(RequireAPISession(sessions))
		r.Post("/register_event/{eventID}", h.RegisterEvent)
		r.Get("/my", h.MyRegistrations)
		r.Delete("/cancel_registration/{eventID}", h.CancelRegistration)
		r.Put("/update_registration/{eventID}", h.UpdateRegistration)
	})
}

type registerRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Confirm  string `json:"confirm"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateRegistrationRequest struct {
	NewEventID int `json:"new_event_id"`
}

// Register creates a new account. Registration does not log the user in.
func (h *APIHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)
	if req.FullName == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Please fill in all fields.")
		return
	}
	if req.Password != req.Confirm {
		writeError(w, http.StatusBadRequest, "Passwords do not match.")
		return
	}

	if _, err := h.users.Register(r.Context(), req.FullName, req.Email, req.Password); err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "Email already registered.")
			return
		}
		storageError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, MessageResponse{Message: "Registration successful."})
}

// Login verifies credentials and establishes the session cookie.
func (h *APIHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Incorrect email or password.")
			return
		}
		storageError(w, err)
		return
	}

	if err := h.sessions.Issue(w, user); err != nil {
		storageError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: fmt.Sprintf("Welcome, %s!", user.FullName)})
}

func (h *APIHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.List(r.Context())
	if err != nil {
		storageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *APIHandler) RegisterEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseEventID(r, "eventID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, _ := sessionFromContext(r.Context())
	if err := h.regs.Register(r.Context(), sess.UserID, eventID); err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			writeError(w, http.StatusNotFound, "Event not found")
			return
		}
		storageError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, MessageResponse{Message: "You are registered for the event!"})
}

func (h *APIHandler) MyRegistrations(w http.ResponseWriter, r *http.Request) {
	sess, _ := sessionFromContext(r.Context())
	regs, err := h.regs.ListForUser(r.Context(), sess.UserID)
	if err != nil {
		storageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, regs)
}

func (h *APIHandler) CancelRegistration(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseEventID(r, "eventID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, _ := sessionFromContext(r.Context())
	if err := h.regs.Cancel(r.Context(), sess.UserID, eventID); err != nil {
		if errors.Is(err, services.ErrRegistrationNotFound) {
			writeError(w, http.StatusNotFound, "No registration found for this event")
			return
		}
		storageError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Registration cancelled successfully."})
}

func (h *APIHandler) UpdateRegistration(w http.ResponseWriter, r *http.Request) {
	currentEventID, err := parseEventID(r, "eventID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req updateRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.NewEventID == 0 {
		writeError(w, http.StatusBadRequest, "New event_id is required")
		return
	}

	sess, _ := sessionFromContext(r.Context())
	err = h.regs.Switch(r.Context(), sess.UserID, currentEventID, req.NewEventID)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, MessageResponse{Message: "Registration updated successfully."})
	case errors.Is(err, services.ErrEventNotFound):
		writeError(w, http.StatusNotFound, "New event not found")
	case errors.Is(err, services.ErrAlreadyRegistered):
		writeError(w, http.StatusConflict, "You are already registered for this event")
	case errors.Is(err, services.ErrRegistrationNotFound):
		writeError(w, http.StatusNotFound, "No existing registration found")
	default:
		storageError(w, err)
	}
}
