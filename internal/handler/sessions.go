package handler

import (
	"log/slog"
	"net/http"

	"lumina/internal/httputil"
	"lumina/internal/service/session"
	"lumina/internal/service/simulate"
)

// SessionHandler creates and tears down page sessions
type SessionHandler struct {
	registry *session.Registry
	logger   *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(registry *session.Registry, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		registry: registry,
		logger:   logger,
	}
}

// sessionResponse is returned when a session is created
type sessionResponse struct {
	ID      string            `json:"id"`
	Actions []simulate.Status `json:"actions"`
}

// CreateSession opens a new page session
// POST /api/sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	s := h.registry.Create()
	w.Header().Set(httputil.SessionHeader, s.ID())
	httputil.RespondJSON(w, http.StatusCreated, sessionResponse{ID: s.ID(), Actions: s.Actions()})
}

// GetSession returns the action slots of a session
// GET /api/sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Session ID")
	if !ok {
		return
	}

	s, err := h.registry.Get(id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, sessionResponse{ID: s.ID(), Actions: s.Actions()})
}

// DeleteSession cancels everything the session scheduled and forgets it
// DELETE /api/sessions/{id}
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Session ID")
	if !ok {
		return
	}

	if err := h.registry.Delete(id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
