package handler

import (
	"log/slog"
	"net/http"

	"lumina/internal/domain/models/mesh"
	meshSvc "lumina/internal/domain/services/mesh"
	"lumina/internal/httputil"
	"lumina/internal/service/assistant"
	"lumina/internal/service/insights"
	"lumina/internal/service/session"
)

// DocumentHandler serves the document reader
type DocumentHandler struct {
	catalog  meshSvc.CatalogService
	insights meshSvc.InsightsService
	registry *session.Registry
	logger   *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(
	catalog meshSvc.CatalogService,
	insights meshSvc.InsightsService,
	registry *session.Registry,
	logger *slog.Logger,
) *DocumentHandler {
	return &DocumentHandler{
		catalog:  catalog,
		insights: insights,
		registry: registry,
		logger:   logger,
	}
}

// readerView is the reader page: the document body split into passages, or
// the parsing placeholder when there is nothing to show yet
type readerView struct {
	Document    *mesh.Document `json:"document"`
	Passages    []string       `json:"passages"`
	Placeholder string         `json:"placeholder,omitempty"`
	Welcome     string         `json:"welcome"`
}

// GetDocument returns the reader view. Unknown ids show the first document.
// GET /api/documents/{id}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Document ID")
	if !ok {
		return
	}

	doc, err := h.catalog.GetDocument(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	view := readerView{
		Document: doc,
		Passages: assistant.Passages(doc),
		Welcome:  assistant.ReaderWelcome(),
	}
	if len(view.Passages) == 0 {
		view.Passages = []string{}
		view.Placeholder = insights.ParsingPlaceholder
	}

	httputil.RespondJSON(w, http.StatusOK, view)
}

// GetInsights returns the summary, key points and key terms panel
// GET /api/documents/{id}/insights
func (h *DocumentHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Document ID")
	if !ok {
		return
	}

	doc, err := h.catalog.GetDocument(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	panel, err := h.insights.Analyze(r.Context(), doc)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, panel)
}

type queryRequest struct {
	Question string `json:"question"`
}

// Query asks the reader assistant about this document. The answer arrives on
// the reader.query action slot.
// POST /api/documents/{id}/query
func (h *DocumentHandler) Query(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Document ID")
	if !ok {
		return
	}
	s, ok := sessionFrom(w, r, h.registry)
	if !ok {
		return
	}

	var req queryRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.AskDocument(r.Context(), id, req.Question)
	if err != nil {
		handleError(w, err)
		return
	}

	if result.Ignored {
		httputil.RespondJSON(w, http.StatusOK, result)
		return
	}
	httputil.RespondJSON(w, http.StatusAccepted, result)
}
