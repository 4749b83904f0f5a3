package handler

import (
	"log/slog"
	"net/http"

	meshSvc "lumina/internal/domain/services/mesh"
	"lumina/internal/handler/sse"
	"lumina/internal/handler/ws"
	"lumina/internal/middleware"
	"lumina/internal/service/session"
)

// Services are the collaborators the HTTP layer talks to
type Services struct {
	Catalog  meshSvc.CatalogService
	Search   meshSvc.SearchService
	Insights meshSvc.InsightsService
	Sessions *session.Registry
}

// RouterConfig holds the transport tunables
type RouterConfig struct {
	SSE         *sse.Config
	CORSOrigins []string
}

// NewRouter registers every route on a ServeMux (Go 1.22+ patterns) and wraps
// it with request logging and panic recovery. CORS is applied by the caller.
func NewRouter(svc *Services, cfg RouterConfig, logger *slog.Logger) http.Handler {
	streamer := ws.NewStreamer(cfg.CORSOrigins, logger)

	homeHandler := NewHomeHandler(svc.Catalog, logger)
	sessionHandler := NewSessionHandler(svc.Sessions, logger)
	searchHandler := NewSearchHandler(svc.Search, svc.Sessions, logger)
	askHandler := NewAskHandler(svc.Sessions, logger)
	collectionHandler := NewCollectionHandler(svc.Catalog, svc.Sessions, logger)
	documentHandler := NewDocumentHandler(svc.Catalog, svc.Insights, svc.Sessions, logger)
	historyHandler := NewHistoryHandler(svc.Sessions, cfg.SSE, streamer, logger)
	collaboratorHandler := NewCollaboratorHandler(svc.Catalog, svc.Sessions, logger)
	actionHandler := NewActionHandler(svc.Sessions, streamer, logger)

	withSession := middleware.Session(svc.Sessions)
	scoped := func(h http.HandlerFunc) http.Handler { return withSession(h) }

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", homeHandler.HealthCheck)

	// Launcher
	mux.HandleFunc("GET /api/home", homeHandler.Home)
	mux.HandleFunc("POST /api/console", homeHandler.Console)

	// Page sessions
	mux.HandleFunc("POST /api/sessions", sessionHandler.CreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", sessionHandler.GetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", sessionHandler.DeleteSession)

	// Search
	mux.HandleFunc("GET /api/search", searchHandler.Search)
	mux.Handle("POST /api/search/scan", scoped(searchHandler.Scan))

	// Ask-AI
	mux.Handle("GET /api/ask/messages", scoped(askHandler.GetMessages))
	mux.Handle("POST /api/ask/messages", scoped(askHandler.SendMessage))
	mux.Handle("DELETE /api/ask/messages", scoped(askHandler.ClearMessages))
	mux.Handle("GET /api/ask/status", scoped(askHandler.GetStatus))

	// Collections
	mux.HandleFunc("GET /api/collections", collectionHandler.ListCollections)
	mux.Handle("POST /api/collections/provision", scoped(collectionHandler.Provision))
	mux.HandleFunc("GET /api/collections/{id}", collectionHandler.GetCollection)
	mux.Handle("POST /api/collections/{id}/synthesize", scoped(collectionHandler.Synthesize))
	mux.Handle("POST /api/collections/{id}/upload", scoped(collectionHandler.Upload))

	// Document reader
	mux.HandleFunc("GET /api/documents/{id}", documentHandler.GetDocument)
	mux.HandleFunc("GET /api/documents/{id}/insights", documentHandler.GetInsights)
	mux.Handle("POST /api/documents/{id}/query", scoped(documentHandler.Query))

	// History
	mux.Handle("GET /api/history", scoped(historyHandler.ListHistory))
	mux.Handle("POST /api/history/live", scoped(historyHandler.StartLive))
	mux.Handle("DELETE /api/history/live", scoped(historyHandler.StopLive))
	mux.Handle("GET /api/history/live/stream", scoped(historyHandler.StreamLive)) // SSE
	mux.Handle("GET /api/history/live/ws", scoped(historyHandler.StreamLiveWS))
	mux.Handle("POST /api/history/verify", scoped(historyHandler.Verify))
	mux.Handle("GET /api/history/verify", scoped(historyHandler.GetVerify))
	mux.Handle("POST /api/history/{id}/rollback", scoped(historyHandler.Rollback))

	// Collaborators
	mux.HandleFunc("GET /api/collaborators", collaboratorHandler.ListCollaborators)
	mux.Handle("POST /api/collaborators/invite", scoped(collaboratorHandler.Invite))
	mux.Handle("POST /api/collaborators/{id}/role", scoped(collaboratorHandler.ChangeRole))

	// Action slots
	mux.Handle("GET /api/actions", scoped(actionHandler.ListActions))
	mux.Handle("GET /api/actions/{kind}", scoped(actionHandler.GetAction))
	mux.Handle("DELETE /api/actions/{kind}", scoped(actionHandler.CancelAction))
	mux.Handle("GET /api/actions/{kind}/ws", scoped(actionHandler.StreamAction))

	// Everything else: "/" is the launcher, other pages redirect there
	mux.HandleFunc("GET /", Fallback(homeHandler.Home))

	// Apply middleware in reverse order (they wrap each other)
	var h http.Handler = mux
	h = middleware.RequestLogger(logger)(h)
	h = middleware.Recovery(logger)(h)
	return h
}
