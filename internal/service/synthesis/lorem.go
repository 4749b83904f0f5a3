// Package synthesis generates the filler text a collection "synthesis" settles
// with. There is no analysis behind it.
package synthesis

import (
	"fmt"
	"strings"
	"sync"

	loremgen "github.com/bozaro/golorem"

	"lumina/internal/domain/models/mesh"
)

// PatternCount is how many "patterns" a synthesis reports
const PatternCount = 3

// Generator produces lorem ipsum syntheses. The text for a collection is drawn
// once and reused, so repeated syntheses of it settle with the same payload.
// golorem keeps its own random state, so calls are serialized.
type Generator struct {
	mu        sync.Mutex
	generator *loremgen.Lorem
	drawn     map[string]text
}

type text struct {
	patterns []string
	body     string
}

// NewGenerator creates a new lorem generator
func NewGenerator() *Generator {
	return &Generator{
		generator: loremgen.New(),
		drawn:     make(map[string]text),
	}
}

// Synthesize builds the payload for a collection holding nodeCount documents
func (g *Generator) Synthesize(col mesh.Collection, nodeCount int) mesh.Synthesis {
	t := g.textFor(col.ID)

	return mesh.Synthesis{
		CollectionID: col.ID,
		NodeCount:    nodeCount,
		Summary:      fmt.Sprintf("Cross-referenced %d nodes in %s. %s", nodeCount, col.Name, t.body),
		Patterns:     append([]string(nil), t.patterns...),
	}
}

func (g *Generator) textFor(collectionID string) text {
	g.mu.Lock()
	defer g.mu.Unlock()

	if t, ok := g.drawn[collectionID]; ok {
		return t
	}

	t := text{patterns: make([]string, PatternCount)}
	for i := range t.patterns {
		t.patterns[i] = g.generator.Sentence(5, 10)
	}
	t.body = strings.TrimSpace(g.generator.Paragraph(2, 4))
	g.drawn[collectionID] = t
	return t
}
