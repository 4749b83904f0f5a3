// Package memory implements the mesh repositories over in-memory fixture slices.
package memory

import (
	"context"
	"fmt"

	"lumina/internal/domain"
	"lumina/internal/domain/models/mesh"
)

// DocumentStore is the read-only document corpus.
// The backing slice is never mutated after construction, so no lock is needed.
type DocumentStore struct {
	docs  []mesh.Document
	index map[string]int
}

// NewDocumentStore copies docs into a new store, keeping their order
func NewDocumentStore(docs []mesh.Document) *DocumentStore {
	s := &DocumentStore{
		docs:  cloneDocuments(docs),
		index: make(map[string]int, len(docs)),
	}
	for i, d := range s.docs {
		s.index[d.ID] = i
	}
	return s
}

// List returns every document in fixture order
func (s *DocumentStore) List(ctx context.Context) ([]mesh.Document, error) {
	return cloneDocuments(s.docs), nil
}

// GetByID retrieves a document by ID
func (s *DocumentStore) GetByID(ctx context.Context, id string) (*mesh.Document, error) {
	i, ok := s.index[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("document %q not found", id)}
	}
	doc := cloneDocument(s.docs[i])
	return &doc, nil
}

// First returns the first fixture document, used as the reader's fallback
func (s *DocumentStore) First() (mesh.Document, bool) {
	if len(s.docs) == 0 {
		return mesh.Document{}, false
	}
	return cloneDocument(s.docs[0]), true
}

func cloneDocuments(docs []mesh.Document) []mesh.Document {
	out := make([]mesh.Document, len(docs))
	for i, d := range docs {
		out[i] = cloneDocument(d)
	}
	return out
}

func cloneDocument(d mesh.Document) mesh.Document {
	d.Tags = append([]string(nil), d.Tags...)
	if d.CollectionID != nil {
		id := *d.CollectionID
		d.CollectionID = &id
	}
	return d
}
