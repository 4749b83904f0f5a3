package handler

import (
	"log/slog"
	"net/http"

	"lumina/internal/handler/ws"
	"lumina/internal/httputil"
	"lumina/internal/service/session"
)

// ActionHandler exposes the per-session simulated action slots
type ActionHandler struct {
	registry *session.Registry
	streamer *ws.Streamer
	logger   *slog.Logger
}

// NewActionHandler creates a new action handler
func NewActionHandler(registry *session.Registry, streamer *ws.Streamer, logger *slog.Logger) *ActionHandler {
	return &ActionHandler{
		registry: registry,
		streamer: streamer,
		logger:   logger,
	}
}

// ListActions returns a snapshot of every slot
// GET /api/actions
func (h *ActionHandler) ListActions(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r, h.registry)
	if !ok {
		return
	}

	httputil.RespondJSON(w, http.StatusOK, s.Actions())
}

// GetAction returns one slot
// GET /api/actions/{kind}
func (h *ActionHandler) GetAction(w http.ResponseWriter, r *http.Request) {
	kind, ok := PathParam(w, r, "kind", "Action kind")
	if !ok {
		return
	}
	s, ok := sessionFrom(w, r, h.registry)
	if !ok {
		return
	}

	tr, err := s.Tracker(kind)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tr.Status())
}

// CancelAction abandons the pending run of a slot, if any
// DELETE /api/actions/{kind}
func (h *ActionHandler) CancelAction(w http.ResponseWriter, r *http.Request) {
	kind, ok := PathParam(w, r, "kind", "Action kind")
	if !ok {
		return
	}
	s, ok := sessionFrom(w, r, h.registry)
	if !ok {
		return
	}

	status, err := s.CancelAction(kind)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, status)
}

// StreamAction pushes every status change of a slot over a WebSocket,
// starting with the current status
// GET /api/actions/{kind}/ws
func (h *ActionHandler) StreamAction(w http.ResponseWriter, r *http.Request) {
	kind, ok := PathParam(w, r, "kind", "Action kind")
	if !ok {
		return
	}
	s, ok := sessionFrom(w, r, h.registry)
	if !ok {
		return
	}

	tr, err := s.Tracker(kind)
	if err != nil {
		handleError(w, err)
		return
	}

	updates, unsubscribe := tr.Subscribe()
	defer unsubscribe()

	ctx, cancel := sessionContext(r, s)
	defer cancel()

	if err := ws.Stream(ctx, h.streamer, w, r, updates); err != nil {
		h.logger.Debug("action websocket ended", "session_id", s.ID(), "kind", kind, "error", err)
	}
}
