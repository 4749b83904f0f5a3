package memory

import (
	"context"
	"fmt"

	"lumina/internal/domain"
	"lumina/internal/domain/models/mesh"
)

// CollectionStore is the read-only collection list
type CollectionStore struct {
	cols []mesh.Collection
}

// NewCollectionStore copies cols into a new store
func NewCollectionStore(cols []mesh.Collection) *CollectionStore {
	return &CollectionStore{cols: append([]mesh.Collection(nil), cols...)}
}

func (s *CollectionStore) List(ctx context.Context) ([]mesh.Collection, error) {
	return append([]mesh.Collection(nil), s.cols...), nil
}

func (s *CollectionStore) GetByID(ctx context.Context, id string) (*mesh.Collection, error) {
	for _, c := range s.cols {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, &domain.NotFoundError{Message: fmt.Sprintf("collection %q not found", id)}
}

// CollaboratorStore is the read-only collaborator list
type CollaboratorStore struct {
	members []mesh.Collaborator
}

// NewCollaboratorStore copies members into a new store
func NewCollaboratorStore(members []mesh.Collaborator) *CollaboratorStore {
	return &CollaboratorStore{members: append([]mesh.Collaborator(nil), members...)}
}

func (s *CollaboratorStore) List(ctx context.Context) ([]mesh.Collaborator, error) {
	return append([]mesh.Collaborator(nil), s.members...), nil
}

func (s *CollaboratorStore) GetByID(ctx context.Context, id string) (*mesh.Collaborator, error) {
	for _, m := range s.members {
		if m.ID == id {
			m := m
			return &m, nil
		}
	}
	return nil, &domain.NotFoundError{Message: fmt.Sprintf("collaborator %q not found", id)}
}
