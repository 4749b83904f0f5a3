package middleware

import (
	"errors"
	"net/http"

	"lumina/internal/domain"
	"lumina/internal/httputil"
	"lumina/internal/service/session"
)

// Session resolves the page session named by the X-Session-ID header (or the
// "session" query parameter) and stores its id in the request context.
// Missing or unknown sessions are rejected before the handler runs.
func Session(registry *session.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := httputil.SessionIDFromRequest(r)
			if id == "" {
				httputil.RespondError(w, http.StatusBadRequest, "X-Session-ID header is required")
				return
			}

			if _, err := registry.Get(id); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					httputil.RespondError(w, http.StatusNotFound, err.Error())
					return
				}
				httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			next.ServeHTTP(w, httputil.WithSessionID(r, id))
		})
	}
}
