package handler

import (
	"log/slog"
	"net/http"

	"lumina/internal/domain/models/mesh"
	"lumina/internal/httputil"
	"lumina/internal/service/session"
)

// AskHandler serves the Ask-AI page
type AskHandler struct {
	registry *session.Registry
	logger   *slog.Logger
}

// NewAskHandler creates a new ask handler
func NewAskHandler(registry *session.Registry, logger *slog.Logger) *AskHandler {
	return &AskHandler{
		registry: registry,
		logger:   logger,
	}
}

// GetMessages returns the transcript. A ?q= deep link asks once when the
// conversation has not started yet.
// GET /api/ask/messages?q=
func (h *AskHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r, h.registry)
	if !ok {
		return
	}

	transcript, err := s.AskIfFresh(r.URL.Query().Get("q"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, transcript)
}

type askRequest struct {
	Message string `json:"message"`
}

// SendMessage appends the user's message and schedules the reply
// POST /api/ask/messages
func (h *AskHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r, h.registry)
	if !ok {
		return
	}

	var req askRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	transcript, err := s.Ask(req.Message)
	if err != nil {
		handleError(w, err)
		return
	}

	status := http.StatusAccepted
	if transcript.Ignored {
		status = http.StatusOK
	}
	httputil.RespondJSON(w, status, transcript)
}

// ClearMessages empties the transcript
// DELETE /api/ask/messages
func (h *AskHandler) ClearMessages(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r, h.registry)
	if !ok {
		return
	}

	transcript, err := s.ClearChat()
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, transcript)
}

// GetStatus returns the reply action slot
// GET /api/ask/status
func (h *AskHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r, h.registry)
	if !ok {
		return
	}

	tr, err := s.Tracker(mesh.KindAskReply)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tr.Status())
}
