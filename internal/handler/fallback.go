package handler

import (
	"net/http"
	"strings"

	"lumina/internal/httputil"
)

// Fallback answers GET requests no other route matched: "/" is the launcher,
// unknown API paths are 404 and every other page path redirects to "/"
func Fallback(home http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/":
			home(w, r)
		case strings.HasPrefix(r.URL.Path, "/api/"):
			httputil.RespondError(w, http.StatusNotFound, "no route for "+r.URL.Path)
		default:
			http.Redirect(w, r, "/", http.StatusFound)
		}
	}
}
