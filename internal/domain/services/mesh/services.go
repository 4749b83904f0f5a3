package mesh

import (
	"context"

	"lumina/internal/domain/models/mesh"
)

// SearchService runs faceted document searches
type SearchService interface {
	// Search filters the corpus. An empty result is not an error.
	Search(ctx context.Context, opts *mesh.SearchOptions) (*mesh.SearchResults, error)
}

// AssistantService produces the canned Ask-AI answers
type AssistantService interface {
	// Respond answers a question against the whole mesh
	Respond(ctx context.Context, query string) (*mesh.Reply, error)

	// RespondForDocument answers a question scoped to one document
	RespondForDocument(ctx context.Context, doc *mesh.Document, query string) (*mesh.Reply, error)
}

// InsightsService builds the reader's side panel
type InsightsService interface {
	Analyze(ctx context.Context, doc *mesh.Document) (*mesh.DocumentInsights, error)
}

// CatalogService serves the read-only pages: home, collections, documents, collaborators
type CatalogService interface {
	Home(ctx context.Context) (*mesh.HomeSummary, error)
	ListCollections(ctx context.Context) ([]mesh.Collection, error)

	// GetCollection never fails on an unknown id; it falls back to the master library
	GetCollection(ctx context.Context, id string) (*mesh.CollectionDetail, error)

	// GetDocument never fails on an unknown id; it falls back to the first document
	GetDocument(ctx context.Context, id string) (*mesh.Document, error)

	ListCollaborators(ctx context.Context, query string) ([]mesh.Collaborator, error)
	GetCollaborator(ctx context.Context, id string) (*mesh.Collaborator, error)
}
