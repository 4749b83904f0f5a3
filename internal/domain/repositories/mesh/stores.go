package mesh

import (
	"context"

	"lumina/internal/domain/models/mesh"
)

// DocumentRepository reads the fixed document corpus
type DocumentRepository interface {
	// List returns every document in fixture order
	List(ctx context.Context) ([]mesh.Document, error)

	// GetByID retrieves a document by ID (domain.ErrNotFound if absent)
	GetByID(ctx context.Context, id string) (*mesh.Document, error)
}

// CollectionRepository reads the fixed collection list
type CollectionRepository interface {
	List(ctx context.Context) ([]mesh.Collection, error)
	GetByID(ctx context.Context, id string) (*mesh.Collection, error)
}

// CollaboratorRepository reads the fixed collaborator list
type CollaboratorRepository interface {
	List(ctx context.Context) ([]mesh.Collaborator, error)
	GetByID(ctx context.Context, id string) (*mesh.Collaborator, error)
}

// HistoryRepository is the one mutable store: a bounded, newest-first event list
type HistoryRepository interface {
	// List returns a snapshot of the events, newest first
	List(ctx context.Context) ([]mesh.HistoryEvent, error)

	// GetByID retrieves an event by ID (domain.ErrNotFound if absent)
	GetByID(ctx context.Context, id string) (*mesh.HistoryEvent, error)

	// Prepend inserts an event at index 0 and truncates to the capacity in one step
	Prepend(ctx context.Context, event mesh.HistoryEvent) error
}
