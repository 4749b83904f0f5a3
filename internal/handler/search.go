package handler

import (
	"log/slog"
	"net/http"

	"lumina/internal/domain/models/mesh"
	meshSvc "lumina/internal/domain/services/mesh"
	"lumina/internal/httputil"
	"lumina/internal/service/search"
	"lumina/internal/service/session"
	"lumina/internal/service/simulate"
)

// SearchHandler serves the search page
type SearchHandler struct {
	search   meshSvc.SearchService
	registry *session.Registry
	logger   *slog.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(search meshSvc.SearchService, registry *session.Registry, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		search:   search,
		registry: registry,
		logger:   logger,
	}
}

// Search filters documents by free text and facets
// GET /api/search?q=&type=PDF,SHEET&time=Past week
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := &mesh.SearchOptions{
		Query: q.Get("q"),
		Facets: mesh.Facets{
			Types: search.ParseTypes(q.Get("type")),
			Time:  mesh.TimeBucket(q.Get("time")),
		},
	}

	results, err := h.search.Search(r.Context(), opts)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, results)
}

type scanRequest struct {
	Query string          `json:"query"`
	Types []mesh.DocType  `json:"types"`
	Time  mesh.TimeBucket `json:"time"`
}

type scanResponse struct {
	*mesh.SearchResults
	Scan simulate.Status `json:"scan"`
}

// Scan runs a search and starts the scanning indicator
// POST /api/search/scan
func (h *SearchHandler) Scan(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r, h.registry)
	if !ok {
		return
	}

	var req scanRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	results, status, err := s.Scan(r.Context(), &mesh.SearchOptions{
		Query:  req.Query,
		Facets: mesh.Facets{Types: req.Types, Time: req.Time},
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusAccepted, scanResponse{SearchResults: results, Scan: status})
}
