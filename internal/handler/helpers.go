package handler

import (
	"context"
	"errors"
	"net/http"

	"lumina/internal/domain"
	"lumina/internal/httputil"
	"lumina/internal/service/session"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var conflictErr *domain.ConflictError

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &conflictErr):
		httputil.RespondError(w, http.StatusConflict, conflictErr.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// PathParam reads a required path wildcard. A 400 is written and false
// returned when it is empty.
func PathParam(w http.ResponseWriter, r *http.Request, name, label string) (string, bool) {
	value := r.PathValue(name)
	if value == "" {
		httputil.RespondError(w, http.StatusBadRequest, label+" is required")
		return "", false
	}
	return value, true
}

// sessionFrom returns the session resolved by middleware.Session
func sessionFrom(w http.ResponseWriter, r *http.Request, registry *session.Registry) (*session.Session, bool) {
	s, err := registry.Get(httputil.GetSessionID(r))
	if err != nil {
		handleError(w, err)
		return nil, false
	}
	return s, true
}

// sessionContext is cancelled when either the request ends or the session is
// torn down
func sessionContext(r *http.Request, s *session.Session) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(r.Context())
	go func() {
		select {
		case <-s.Done():
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// Page actions a deep link may open as a modal
const (
	modalCreate = "create"
	modalUpload = "upload"
	modalInvite = "invite"
)

// openModal echoes the ?action= query parameter when it names the page's modal
func openModal(r *http.Request, valid string) string {
	if r.URL.Query().Get("action") == valid {
		return valid
	}
	return ""
}

// accepted answers an action start with its pending status
func accepted(w http.ResponseWriter, status interface{}) {
	httputil.RespondJSON(w, http.StatusAccepted, status)
}
