package handler

import (
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"lumina/internal/config"
	"lumina/internal/domain/models/mesh"
	meshSvc "lumina/internal/domain/services/mesh"
	"lumina/internal/httputil"
	"lumina/internal/service/session"
)

// CollaboratorHandler serves the collaborators page
type CollaboratorHandler struct {
	catalog  meshSvc.CatalogService
	registry *session.Registry
	logger   *slog.Logger
}

// NewCollaboratorHandler creates a new collaborator handler
func NewCollaboratorHandler(catalog meshSvc.CatalogService, registry *session.Registry, logger *slog.Logger) *CollaboratorHandler {
	return &CollaboratorHandler{
		catalog:  catalog,
		registry: registry,
		logger:   logger,
	}
}

type collaboratorsPage struct {
	Query     string              `json:"query"`
	Members   []mesh.Collaborator `json:"members"`
	Total     int                 `json:"total"`
	OpenModal string              `json:"open_modal,omitempty"`
}

// ListCollaborators returns members whose name or email contain ?q=
// GET /api/collaborators?q=&action=invite
func (h *CollaboratorHandler) ListCollaborators(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if err := validation.Validate(query, validation.Length(0, config.MaxQueryLength)); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "q: "+err.Error())
		return
	}

	members, err := h.catalog.ListCollaborators(r.Context(), query)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, collaboratorsPage{
		Query:     query,
		Members:   members,
		Total:     len(members),
		OpenModal: openModal(r, modalInvite),
	})
}

// Invite sends a simulated invitation
// POST /api/collaborators/invite
func (h *CollaboratorHandler) Invite(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r, h.registry)
	if !ok {
		return
	}

	var req mesh.InviteRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	status, err := s.Invite(&req)
	if err != nil {
		handleError(w, err)
		return
	}

	accepted(w, status)
}

// ChangeRole requests a role change. The member list is not modified.
// POST /api/collaborators/{id}/role
func (h *CollaboratorHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Collaborator ID")
	if !ok {
		return
	}
	s, ok := sessionFrom(w, r, h.registry)
	if !ok {
		return
	}

	var req mesh.RoleChangeRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	status, err := s.ChangeRole(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	accepted(w, status)
}
