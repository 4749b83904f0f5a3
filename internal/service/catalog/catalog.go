// Package catalog serves the read-only pages of the mesh. Unknown ids never
// fail: collections fall back to the master library and documents to the first
// document in the corpus.
package catalog

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"

	"lumina/internal/domain"
	"lumina/internal/domain/models/mesh"
	meshRepo "lumina/internal/domain/repositories/mesh"
	meshSvc "lumina/internal/domain/services/mesh"
	"lumina/internal/service/search"
	"lumina/internal/service/simulate"
)

// RecentLimit caps the launcher's recent documents list
const RecentLimit = 5

// service implements the CatalogService interface
type service struct {
	docs          meshRepo.DocumentRepository
	collections   meshRepo.CollectionRepository
	collaborators meshRepo.CollaboratorRepository
	clock         simulate.Clock
	logger        *slog.Logger
}

// NewService creates a new catalog service
func NewService(
	docs meshRepo.DocumentRepository,
	collections meshRepo.CollectionRepository,
	collaborators meshRepo.CollaboratorRepository,
	clock simulate.Clock,
	logger *slog.Logger,
) meshSvc.CatalogService {
	return &service{
		docs:          docs,
		collections:   collections,
		collaborators: collaborators,
		clock:         clock,
		logger:        logger,
	}
}

// Home returns the launcher summary
func (s *service) Home(ctx context.Context) (*mesh.HomeSummary, error) {
	docs, err := s.docs.List(ctx)
	if err != nil {
		return nil, err
	}
	cols, err := s.collections.List(ctx)
	if err != nil {
		return nil, err
	}

	recent := search.Filter(docs, "", mesh.Facets{Time: mesh.TimePast24h})
	if len(recent) > RecentLimit {
		recent = recent[:RecentLimit]
	}

	now := s.clock.Now()
	return &mesh.HomeSummary{
		Clock:           now.Format("15:04"),
		Date:            FormatLauncherDate(now.Format("Monday, January 2, 2006")),
		Placeholders:    append([]string(nil), mesh.ConsolePlaceholders...),
		QuickActions:    append([]mesh.QuickAction(nil), mesh.QuickActions...),
		RecentDocuments: recent,
		Collections:     cols,
	}, nil
}

// FormatLauncherDate upper-cases a long date and swaps its first comma for " //"
func FormatLauncherDate(long string) string {
	return strings.Replace(strings.ToUpper(long), ",", " //", 1)
}

// ListCollections returns every collection in fixture order
func (s *service) ListCollections(ctx context.Context) ([]mesh.Collection, error) {
	return s.collections.List(ctx)
}

// GetCollection returns the collection with its documents.
// Every collection currently lists the whole corpus.
func (s *service) GetCollection(ctx context.Context, id string) (*mesh.CollectionDetail, error) {
	col, err := s.collections.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		master := mesh.MasterLibrary()
		col = &master
		if id != mesh.MasterCollectionID {
			s.logger.Debug("unknown collection, showing master library", "id", id)
		}
	}

	docs, err := s.docs.List(ctx)
	if err != nil {
		return nil, err
	}

	return &mesh.CollectionDetail{
		Collection: *col,
		IsMaster:   id == mesh.MasterCollectionID,
		Documents:  docs,
	}, nil
}

// GetDocument returns the document, or the first document for unknown ids
func (s *service) GetDocument(ctx context.Context, id string) (*mesh.Document, error) {
	doc, err := s.docs.GetByID(ctx, id)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	docs, err := s.docs.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, &domain.NotFoundError{Message: "document corpus is empty"}
	}

	s.logger.Debug("unknown document, showing first document", "id", id, "fallback", docs[0].ID)
	return &docs[0], nil
}

// ListCollaborators returns the members whose name or email contains query
func (s *service) ListCollaborators(ctx context.Context, query string) ([]mesh.Collaborator, error) {
	members, err := s.collaborators.List(ctx)
	if err != nil {
		return nil, err
	}
	return search.FilterCollaborators(members, query), nil
}

// GetCollaborator retrieves a single member
func (s *service) GetCollaborator(ctx context.Context, id string) (*mesh.Collaborator, error) {
	return s.collaborators.GetByID(ctx, id)
}

// ConsoleTarget resolves a search console submission to a page path.
// Blank queries do not navigate.
func ConsoleTarget(query string, mode mesh.ConsoleMode) (string, bool) {
	if strings.TrimSpace(query) == "" {
		return "", false
	}
	page := "/search"
	if mode == mesh.ConsoleAsk {
		page = "/ask"
	}
	return page + "?q=" + url.QueryEscape(query), true
}
