// Package assistant produces the canned Ask-AI answers. There is no model
// behind it: replies are templated from whichever documents mention the query.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/coregx/ahocorasick"

	"lumina/internal/domain/models/mesh"
	meshRepo "lumina/internal/domain/repositories/mesh"
	meshSvc "lumina/internal/domain/services/mesh"
	"lumina/internal/service/search"
)

// MaxSources is how many matching documents a reply cites
const MaxSources = 2

const (
	greetingReply = "Hello. I am the Lumina Intelligence Operator. I have access to your entire knowledge mesh. What specific node or report shall we analyze today?"

	matchReply    = `I've synthesized information from the "%s" node. %s Based on my analysis, this correlates directly with your query about %s. Would you like me to extract more specific metrics?`
	tagsFallback  = "This intelligence node contains cross-departmental data regarding %s."
	noMatchReply  = `I've performed a deep scan of the knowledge mesh for "%s". While I found no direct matches in the primary silos, I can infer from general organizational patterns that this may relate to upcoming strategic initiatives. Should I initiate a broader temporal scan?`
	passageReply  = `Within the "%s" node I located a relevant passage: "%s" Would you like me to cross-reference it with related silos?`
	noPassage     = `The "%s" node contains no direct reference to "%s". I can widen the scan to the rest of the knowledge mesh if needed.`
	readerWelcome = "I've analyzed this document. Ask me anything about the contents or related market data."
)

// GreetingKeywords trigger the canned greeting when no document matches.
// Matching is by substring, so "this" counts as a greeting.
var GreetingKeywords = []string{"hi", "hello"}

// ReaderWelcome is the first line of the reader's agent tab
func ReaderWelcome() string { return readerWelcome }

// service implements the AssistantService interface
type service struct {
	docs     meshRepo.DocumentRepository
	greeting *ahocorasick.Automaton
	logger   *slog.Logger
}

// NewService creates the assistant, compiling the greeting matcher
func NewService(docs meshRepo.DocumentRepository, logger *slog.Logger) (meshSvc.AssistantService, error) {
	automaton, err := ahocorasick.NewBuilder().
		AddStrings(GreetingKeywords).
		SetMatchKind(ahocorasick.LeftmostLongest).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build greeting matcher: %w", err)
	}

	return &service{
		docs:     docs,
		greeting: automaton,
		logger:   logger,
	}, nil
}

// Respond answers query against the whole corpus.
// Callers are expected to drop blank queries before asking.
func (s *service) Respond(ctx context.Context, query string) (*mesh.Reply, error) {
	docs, err := s.docs.List(ctx)
	if err != nil {
		return nil, err
	}

	relevant := RelevantDocuments(docs, query)
	if len(relevant) > 0 {
		top := relevant[0]
		detail := top.Snippet
		if detail == "" {
			detail = fmt.Sprintf(tagsFallback, strings.Join(top.Tags, ", "))
		}
		if len(relevant) > MaxSources {
			relevant = relevant[:MaxSources]
		}

		s.logger.Debug("assistant matched documents", "query", query, "top", top.ID, "sources", len(relevant))
		return &mesh.Reply{
			Content: fmt.Sprintf(matchReply, top.Title, detail, query),
			Sources: relevant,
		}, nil
	}

	if s.isGreeting(query) {
		return &mesh.Reply{Content: greetingReply, Sources: []mesh.Document{}}, nil
	}

	s.logger.Debug("assistant found no match", "query", query)
	return &mesh.Reply{
		Content: fmt.Sprintf(noMatchReply, query),
		Sources: []mesh.Document{},
	}, nil
}

// RespondForDocument answers a question about a single document by quoting the
// first content line that mentions the query
func (s *service) RespondForDocument(ctx context.Context, doc *mesh.Document, query string) (*mesh.Reply, error) {
	q := search.Fold(strings.TrimSpace(query))
	sources := []mesh.Document{*doc}

	if q != "" {
		for _, line := range Passages(doc) {
			if strings.Contains(search.Fold(line), q) {
				return &mesh.Reply{
					Content: fmt.Sprintf(passageReply, doc.Title, line),
					Sources: sources,
				}, nil
			}
		}
	}

	return &mesh.Reply{
		Content: fmt.Sprintf(noPassage, doc.Title, strings.TrimSpace(query)),
		Sources: sources,
	}, nil
}

// RelevantDocuments returns the documents whose title, tags or snippet contain
// the query, in store order. Content is not scanned.
func RelevantDocuments(docs []mesh.Document, query string) []mesh.Document {
	q := search.Fold(query)
	out := make([]mesh.Document, 0)
	for _, d := range docs {
		if mentions(d, q) {
			out = append(out, d)
		}
	}
	return out
}

func mentions(d mesh.Document, q string) bool {
	if strings.Contains(search.Fold(d.Title), q) || strings.Contains(search.Fold(d.Snippet), q) {
		return true
	}
	for _, tag := range d.Tags {
		if strings.Contains(search.Fold(tag), q) {
			return true
		}
	}
	return false
}

func (s *service) isGreeting(query string) bool {
	return len(s.greeting.FindAllOverlapping([]byte(search.Fold(query)))) > 0
}

// Passages splits a document body into its non-empty trimmed lines.
// Documents without content fall back to their snippet.
func Passages(doc *mesh.Document) []string {
	body := doc.Content
	if strings.TrimSpace(body) == "" {
		body = doc.Snippet
	}

	var out []string
	for _, line := range strings.Split(body, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
