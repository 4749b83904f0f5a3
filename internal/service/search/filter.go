// Package search holds the pure filter predicates used by the search, history
// and collaborator pages. Matching is plain case-insensitive substring testing;
// there is no ranking and results keep store order.
package search

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"lumina/internal/domain/models/mesh"
)

// Fold lower-cases s for comparison.
// A Caser is stateful, so one is created per call.
func Fold(s string) string {
	return cases.Lower(language.Und).String(s)
}

// containsFolded reports whether folded needle occurs in haystack after folding
func containsFolded(haystack, needle string) bool {
	return strings.Contains(Fold(haystack), needle)
}

// MatchesQuery reports whether the query occurs in the document's title,
// snippet, content or any tag. The empty query matches every document.
func MatchesQuery(doc mesh.Document, query string) bool {
	q := Fold(query)
	if q == "" {
		return true
	}

	if containsFolded(doc.Title, q) || containsFolded(doc.Snippet, q) || containsFolded(doc.Content, q) {
		return true
	}
	for _, tag := range doc.Tags {
		if containsFolded(tag, q) {
			return true
		}
	}
	return false
}

// MatchesTypes reports whether the document's type is in types.
// An empty set places no restriction.
func MatchesTypes(doc mesh.Document, types []mesh.DocType) bool {
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		if doc.Type == t {
			return true
		}
	}
	return false
}

// MatchesTime applies the recency heuristic to a display string such as
// "2 hours ago" or "Just now". The checks are case-sensitive substring tests,
// so "Just now" passes "Past 24 hours" through "now" rather than "hour".
func MatchesTime(updatedAt string, bucket mesh.TimeBucket) bool {
	switch bucket {
	case mesh.TimePast24h:
		return strings.Contains(updatedAt, "hour") || strings.Contains(updatedAt, "now")
	case mesh.TimePastWeek:
		return !strings.Contains(updatedAt, "month") && !strings.Contains(updatedAt, "year")
	case mesh.TimePastMonth:
		return !strings.Contains(updatedAt, "year")
	default:
		return true
	}
}

// Filter returns the documents matching the query and every facet, in input order
func Filter(docs []mesh.Document, query string, facets mesh.Facets) []mesh.Document {
	out := make([]mesh.Document, 0, len(docs))
	for _, doc := range docs {
		if MatchesQuery(doc, query) && MatchesTypes(doc, facets.Types) && MatchesTime(doc.UpdatedAt, facets.Time) {
			out = append(out, doc)
		}
	}
	return out
}

// HistoryFilterAll disables the event type filter
const HistoryFilterAll = "all"

// FilterHistory keeps events of the given type ("all" or "" for any) whose
// user, target or description contains the query
func FilterHistory(events []mesh.HistoryEvent, query string, eventType string) []mesh.HistoryEvent {
	q := Fold(query)
	out := make([]mesh.HistoryEvent, 0, len(events))
	for _, e := range events {
		if eventType != "" && eventType != HistoryFilterAll && string(e.Type) != eventType {
			continue
		}
		if containsFolded(e.User, q) || containsFolded(e.Target, q) || containsFolded(e.Description, q) {
			out = append(out, e)
		}
	}
	return out
}

// FilterCollaborators keeps members whose name or email contains the query
func FilterCollaborators(members []mesh.Collaborator, query string) []mesh.Collaborator {
	q := Fold(query)
	out := make([]mesh.Collaborator, 0, len(members))
	for _, m := range members {
		if containsFolded(m.Name, q) || containsFolded(m.Email, q) {
			out = append(out, m)
		}
	}
	return out
}
