package handler

import (
	"log/slog"
	"net/http"

	"lumina/internal/handler/sse"
	"lumina/internal/handler/ws"
	"lumina/internal/httputil"
	"lumina/internal/service/session"
)

// HistoryHandler serves the audit timeline and its live feed
type HistoryHandler struct {
	registry *session.Registry
	sse      *sse.Config
	streamer *ws.Streamer
	logger   *slog.Logger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(registry *session.Registry, sseConfig *sse.Config, streamer *ws.Streamer, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{
		registry: registry,
		sse:      sseConfig,
		streamer: streamer,
		logger:   logger,
	}
}

// ListHistory returns the session's events filtered by ?q= and ?type=
// GET /api/history?q=&type=all
func (h *HistoryHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r, h.registry)
	if !ok {
		return
	}

	q := r.URL.Query()
	page, err := s.History(r.Context(), q.Get("q"), q.Get("type"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, page)
}

type liveResponse struct {
	Live    bool `json:"live"`
	Changed bool `json:"changed"`
}

// StartLive turns the live feed on
// POST /api/history/live
func (h *HistoryHandler) StartLive(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r, h.registry)
	if !ok {
		return
	}

	changed, err := s.StartLive()
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, liveResponse{Live: s.LiveRunning(), Changed: changed})
}

// StopLive turns the live feed off
// DELETE /api/history/live
func (h *HistoryHandler) StopLive(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r, h.registry)
	if !ok {
		return
	}

	changed, err := s.StopLive()
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, liveResponse{Live: s.LiveRunning(), Changed: changed})
}

// StreamLive pushes live feed events as Server-Sent Events ("history" events
// carrying a HistoryEvent). The stream ends when the client disconnects or
// the session is torn down.
// GET /api/history/live/stream
func (h *HistoryHandler) StreamLive(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r, h.registry)
	if !ok {
		return
	}

	events, unsubscribe, err := s.SubscribeLive()
	if err != nil {
		handleError(w, err)
		return
	}
	defer unsubscribe()

	writer, err := sse.NewWriter(w, s.ID())
	if err != nil {
		httputil.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger := h.logger.With("session_id", writer.SessionID())
	logger.Debug("history stream opened")
	defer logger.Debug("history stream closed")

	if err := writer.WriteEvent("live", "", liveResponse{Live: s.LiveRunning()}); err != nil {
		return
	}

	keepAlive := sse.NewTickerKeepAlive(h.sse.KeepAliveInterval)
	keepAliveDone := keepAlive.Start(writer, logger)
	defer keepAlive.Stop()

	ctx, cancel := sessionContext(r, s)
	defer cancel()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := writer.WriteEvent("history", ev.ID, ev); err != nil {
				logger.Debug("history stream write failed", "error", err)
				return
			}
		case <-keepAliveDone:
			return
		case <-ctx.Done():
			return
		}
	}
}

// StreamLiveWS pushes live feed events over a WebSocket
// GET /api/history/live/ws
func (h *HistoryHandler) StreamLiveWS(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r, h.registry)
	if !ok {
		return
	}

	events, unsubscribe, err := s.SubscribeLive()
	if err != nil {
		handleError(w, err)
		return
	}
	defer unsubscribe()

	ctx, cancel := sessionContext(r, s)
	defer cancel()

	if err := ws.Stream(ctx, h.streamer, w, r, events); err != nil {
		h.logger.Debug("history websocket ended", "session_id", s.ID(), "error", err)
	}
}

// Rollback schedules a simulated rollback of one event
// POST /api/history/{id}/rollback
func (h *HistoryHandler) Rollback(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Event ID")
	if !ok {
		return
	}
	s, ok := sessionFrom(w, r, h.registry)
	if !ok {
		return
	}

	status, err := s.Rollback(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	accepted(w, status)
}

// Verify starts the integrity verification ramp
// POST /api/history/verify
func (h *HistoryHandler) Verify(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r, h.registry)
	if !ok {
		return
	}

	status, err := s.Verify()
	if err != nil {
		handleError(w, err)
		return
	}

	accepted(w, status)
}

// GetVerify returns the verification overlay at its current progress
// GET /api/history/verify
func (h *HistoryHandler) GetVerify(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r, h.registry)
	if !ok {
		return
	}

	report, _, err := s.VerifyState()
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, report)
}
