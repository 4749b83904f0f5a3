package handler

import (
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"lumina/internal/config"
	"lumina/internal/domain/models/mesh"
	meshSvc "lumina/internal/domain/services/mesh"
	"lumina/internal/httputil"
	"lumina/internal/service/catalog"
)

// HomeHandler serves the launcher
type HomeHandler struct {
	catalog meshSvc.CatalogService
	logger  *slog.Logger
}

// NewHomeHandler creates a new home handler
func NewHomeHandler(catalog meshSvc.CatalogService, logger *slog.Logger) *HomeHandler {
	return &HomeHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// Home returns the launcher summary
// GET /api/home
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	summary, err := h.catalog.Home(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, summary)
}

type consoleRequest struct {
	Query string           `json:"query"`
	Mode  mesh.ConsoleMode `json:"mode"`
}

type consoleResponse struct {
	Target   string `json:"target,omitempty"`
	Navigate bool   `json:"navigate"`
}

// Console resolves a search console submission to the page it opens.
// Blank queries answer navigate=false.
// POST /api/console
func (h *HomeHandler) Console(w http.ResponseWriter, r *http.Request) {
	var req consoleRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Mode == "" {
		req.Mode = mesh.ConsoleSearch
	}

	if err := validation.ValidateStruct(&req,
		validation.Field(&req.Query, validation.Length(0, config.MaxQueryLength)),
		validation.Field(&req.Mode, validation.In(mesh.ConsoleSearch, mesh.ConsoleAsk)),
	); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	target, ok := catalog.ConsoleTarget(req.Query, req.Mode)
	httputil.RespondJSON(w, http.StatusOK, consoleResponse{Target: target, Navigate: ok})
}

// HealthCheck reports liveness
// GET /health
func (h *HomeHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
