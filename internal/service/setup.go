// Package service wires the mesh services together for the server and the CLI.
package service

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"lumina/internal/config"
	meshSvc "lumina/internal/domain/services/mesh"
	"lumina/internal/fixtures"
	"lumina/internal/repository/memory"
	"lumina/internal/service/assistant"
	"lumina/internal/service/catalog"
	"lumina/internal/service/insights"
	"lumina/internal/service/search"
	"lumina/internal/service/session"
	"lumina/internal/service/simulate"
	"lumina/internal/service/synthesis"
)

// Services holds every mesh service plus the session registry
type Services struct {
	Catalog   meshSvc.CatalogService
	Search    meshSvc.SearchService
	Assistant meshSvc.AssistantService
	Insights  meshSvc.InsightsService
	Sessions  *session.Registry
}

// SetupServices builds the in-memory stores from the fixture set and the
// services on top of them
func SetupServices(cfg *config.Config, set *fixtures.Set, clock simulate.Clock, logger *slog.Logger) (*Services, error) {
	docs := memory.NewDocumentStore(set.Documents)
	collections := memory.NewCollectionStore(set.Collections)
	collaborators := memory.NewCollaboratorStore(set.Collaborators)

	asst, err := assistant.NewService(docs, logger)
	if err != nil {
		return nil, fmt.Errorf("assistant setup failed: %w", err)
	}

	catalogSvc := catalog.NewService(docs, collections, collaborators, clock, logger)
	searchSvc := search.NewService(docs, logger)

	deps := &session.Deps{
		Clock:     clock,
		Timings:   cfg.Actions,
		Feed:      cfg.Feed,
		Fixtures:  set,
		Search:    searchSvc,
		Assistant: asst,
		Catalog:   catalogSvc,
		Synth:     synthesis.NewGenerator(),
		NewRand: func() simulate.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
		NewID:  uuid.NewString,
		Logger: logger,
	}

	logger.Info("services initialized",
		"documents", len(set.Documents),
		"collections", len(set.Collections),
		"collaborators", len(set.Collaborators),
	)

	return &Services{
		Catalog:   catalogSvc,
		Search:    searchSvc,
		Assistant: asst,
		Insights:  insights.NewAnalyzer(logger),
		Sessions:  session.NewRegistry(deps, cfg.SessionTTL),
	}, nil
}
