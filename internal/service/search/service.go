package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"lumina/internal/config"
	"lumina/internal/domain"
	"lumina/internal/domain/models/mesh"
	meshRepo "lumina/internal/domain/repositories/mesh"
	meshSvc "lumina/internal/domain/services/mesh"
)

// service implements the SearchService interface
type service struct {
	docs   meshRepo.DocumentRepository
	logger *slog.Logger
}

// NewService creates a new search service
func NewService(docs meshRepo.DocumentRepository, logger *slog.Logger) meshSvc.SearchService {
	return &service{
		docs:   docs,
		logger: logger,
	}
}

// Search filters the document corpus by query and facets
func (s *service) Search(ctx context.Context, opts *mesh.SearchOptions) (*mesh.SearchResults, error) {
	opts.ApplyDefaults()

	if err := validation.Validate(opts.Query, validation.Length(0, config.MaxQueryLength)); err != nil {
		return nil, fmt.Errorf("%w: query %v", domain.ErrValidation, err)
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	docs, err := s.docs.List(ctx)
	if err != nil {
		return nil, err
	}

	results := Filter(docs, opts.Query, opts.Facets)

	s.logger.Debug("search executed",
		"query", opts.Query,
		"types", opts.Facets.Types,
		"time", opts.Facets.Time,
		"results", len(results),
	)

	return &mesh.SearchResults{
		Query:   opts.Query,
		Facets:  opts.Facets,
		Results: results,
		Total:   len(results),
		Reset:   len(results) == 0,
	}, nil
}

// ParseTypes reads a comma separated type facet ("PDF,SHEET"), ignoring blanks
func ParseTypes(raw string) []mesh.DocType {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []mesh.DocType
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToUpper(strings.TrimSpace(part))
		if part != "" {
			out = append(out, mesh.DocType(part))
		}
	}
	return out
}
