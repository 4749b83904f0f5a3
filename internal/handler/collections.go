package handler

import (
	"log/slog"
	"net/http"

	"lumina/internal/domain/models/mesh"
	meshSvc "lumina/internal/domain/services/mesh"
	"lumina/internal/httputil"
	"lumina/internal/service/session"
)

// CollectionHandler serves the collection list and detail pages
type CollectionHandler struct {
	catalog  meshSvc.CatalogService
	registry *session.Registry
	logger   *slog.Logger
}

// NewCollectionHandler creates a new collection handler
func NewCollectionHandler(catalog meshSvc.CatalogService, registry *session.Registry, logger *slog.Logger) *CollectionHandler {
	return &CollectionHandler{
		catalog:  catalog,
		registry: registry,
		logger:   logger,
	}
}

type collectionsPage struct {
	Collections []mesh.Collection `json:"collections"`
	OpenModal   string            `json:"open_modal,omitempty"`
}

// ListCollections returns every collection
// GET /api/collections?action=create
func (h *CollectionHandler) ListCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := h.catalog.ListCollections(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, collectionsPage{
		Collections: collections,
		OpenModal:   openModal(r, modalCreate),
	})
}

// GetCollection returns a collection with its documents. Unknown ids show the
// master library.
// GET /api/collections/{id}?action=upload
func (h *CollectionHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Collection ID")
	if !ok {
		return
	}

	detail, err := h.catalog.GetCollection(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	detail.OpenModal = openModal(r, modalUpload)

	httputil.RespondJSON(w, http.StatusOK, detail)
}

// Synthesize starts a cross-document synthesis of the collection
// POST /api/collections/{id}/synthesize
func (h *CollectionHandler) Synthesize(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Collection ID")
	if !ok {
		return
	}
	s, ok := sessionFrom(w, r, h.registry)
	if !ok {
		return
	}

	status, err := s.Synthesize(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	accepted(w, status)
}

// Upload starts the upload progress ramp
// POST /api/collections/{id}/upload
func (h *CollectionHandler) Upload(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Collection ID")
	if !ok {
		return
	}
	s, ok := sessionFrom(w, r, h.registry)
	if !ok {
		return
	}

	var req mesh.UploadRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	status, err := s.Upload(id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	accepted(w, status)
}

// Provision starts provisioning a new collection node
// POST /api/collections/provision
func (h *CollectionHandler) Provision(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r, h.registry)
	if !ok {
		return
	}

	var req mesh.ProvisionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	status, err := s.Provision(&req)
	if err != nil {
		handleError(w, err)
		return
	}

	accepted(w, status)
}
