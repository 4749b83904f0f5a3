package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumina/internal/domain"
	"lumina/internal/domain/models/mesh"
)

func TestDocumentStore_ListIsACopy(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore([]mesh.Document{
		{ID: "1", Title: "One", Tags: []string{"a"}},
		{ID: "2", Title: "Two"},
	})

	docs, err := store.List(ctx)
	require.NoError(t, err)
	docs[0].Title = "changed"
	docs[0].Tags[0] = "changed"

	again, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "One", again[0].Title)
	assert.Equal(t, []string{"a"}, again[0].Tags)
}

func TestDocumentStore_GetByID(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore([]mesh.Document{{ID: "1", Title: "One"}})

	doc, err := store.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "One", doc.Title)

	_, err = store.GetByID(ctx, "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCollectionStore_GetByID(t *testing.T) {
	ctx := context.Background()
	store := NewCollectionStore([]mesh.Collection{{ID: "c1", Name: "Marketing"}})

	col, err := store.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Marketing", col.Name)

	_, err = store.GetByID(ctx, "c9")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHistoryStore_PrependBounded(t *testing.T) {
	ctx := context.Background()
	seed := []mesh.HistoryEvent{{ID: "h1"}, {ID: "h2"}, {ID: "h3"}}
	store := NewHistoryStore(seed, 4)

	for i := 0; i < 10; i++ {
		require.NoError(t, store.Prepend(ctx, mesh.HistoryEvent{ID: fmt.Sprintf("live-%d", i)}))
		assert.LessOrEqual(t, store.Len(), 4)

		events, err := store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("live-%d", i), events[0].ID)
	}

	events, _ := store.List(ctx)
	assert.Equal(t, []string{"live-9", "live-8", "live-7", "live-6"}, ids(events))
}

func TestHistoryStore_SeedUntouchedByPrepend(t *testing.T) {
	ctx := context.Background()
	seed := []mesh.HistoryEvent{{ID: "h1"}}
	store := NewHistoryStore(seed, 16)

	require.NoError(t, store.Prepend(ctx, mesh.HistoryEvent{ID: "live"}))
	assert.Equal(t, "h1", seed[0].ID)

	events, _ := store.List(ctx)
	assert.Equal(t, []string{"live", "h1"}, ids(events))
}

func ids(events []mesh.HistoryEvent) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}
