// Package insights builds the reader's side panel from a document body.
package insights

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"github.com/orsinium-labs/stopwords"

	"lumina/internal/domain/models/mesh"
	meshSvc "lumina/internal/domain/services/mesh"
	"lumina/internal/service/assistant"
	"lumina/internal/service/search"
)

const (
	// MaxKeyPoints is the number of extraction points shown
	MaxKeyPoints = 4
	// MaxKeyTerms is the number of key terms shown
	MaxKeyTerms = 8

	minTermLength = 3
)

// ParsingPlaceholder stands in for documents without a body
const ParsingPlaceholder = "The system is currently parsing this document for deep synthesis. Content will be available shortly."

// analyzer implements the InsightsService interface
type analyzer struct {
	stop   *stopwords.Stopwords
	logger *slog.Logger
}

// NewAnalyzer creates an analyzer using the English stop word list
func NewAnalyzer(logger *slog.Logger) meshSvc.InsightsService {
	return &analyzer{
		stop:   stopwords.MustGet("en"),
		logger: logger,
	}
}

// Analyze derives summary, key points and key terms from a document
func (a *analyzer) Analyze(ctx context.Context, doc *mesh.Document) (*mesh.DocumentInsights, error) {
	summary := doc.Snippet
	if summary == "" {
		summary = ParsingPlaceholder
	}

	words := CountWords(body(doc))
	insights := &mesh.DocumentInsights{
		DocumentID:     doc.ID,
		Summary:        summary,
		KeyPoints:      KeyPoints(doc),
		KeyTerms:       a.keyTerms(doc),
		WordCount:      words,
		ReadingMinutes: ReadingMinutes(words),
	}

	a.logger.Debug("insights computed",
		"document_id", doc.ID,
		"key_points", len(insights.KeyPoints),
		"key_terms", len(insights.KeyTerms),
	)
	return insights, nil
}

// KeyPoints returns up to MaxKeyPoints body lines, skipping all-caps headings
// and stripping list markers ("- ", "1. ").
func KeyPoints(doc *mesh.Document) []string {
	out := make([]string, 0, MaxKeyPoints)
	for _, line := range assistant.Passages(doc) {
		if isHeading(line) {
			continue
		}
		out = append(out, stripMarker(line))
		if len(out) == MaxKeyPoints {
			break
		}
	}
	return out
}

// keyTerms ranks body words by frequency, ties alphabetical
func (a *analyzer) keyTerms(doc *mesh.Document) []string {
	counts := make(map[string]int)
	for _, word := range tokenize(body(doc)) {
		if len([]rune(word)) < minTermLength || a.stop.Contains(word) || isNumber(word) {
			continue
		}
		counts[word]++
	}

	terms := make([]string, 0, len(counts))
	for w := range counts {
		terms = append(terms, w)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})

	if len(terms) > MaxKeyTerms {
		terms = terms[:MaxKeyTerms]
	}
	return terms
}

// body is the content, or the snippet for documents without one
func body(doc *mesh.Document) string {
	if strings.TrimSpace(doc.Content) == "" {
		return doc.Snippet
	}
	return doc.Content
}

func tokenize(s string) []string {
	return strings.FieldsFunc(search.Fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func isNumber(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func isHeading(line string) bool {
	hasLetter := false
	for _, r := range line {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

func stripMarker(line string) string {
	if rest, ok := strings.CutPrefix(line, "- "); ok {
		return rest
	}
	// "1. " / "12. "
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && strings.HasPrefix(line[i:], ". ") {
		return line[i+2:]
	}
	return line
}
