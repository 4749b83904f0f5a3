package mesh

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// TimeBucket is the recency facet offered on the search page
type TimeBucket string

const (
	TimeAny       TimeBucket = "Any time"
	TimePast24h   TimeBucket = "Past 24 hours"
	TimePastWeek  TimeBucket = "Past week"
	TimePastMonth TimeBucket = "Past month"
)

// AllTimeBuckets lists the buckets in display order
var AllTimeBuckets = []TimeBucket{TimeAny, TimePast24h, TimePastWeek, TimePastMonth}

// Facets narrows a free-text query.
// An empty Types set and TimeAny (or "") both mean "no restriction".
type Facets struct {
	Types []DocType  `json:"types,omitempty"`
	Time  TimeBucket `json:"time,omitempty"`
}

// SearchOptions configures a document search
type SearchOptions struct {
	// Query is matched as a case-insensitive substring; empty matches everything
	Query  string
	Facets Facets
}

// ApplyDefaults fills in default values for unset fields
func (opts *SearchOptions) ApplyDefaults() {
	if opts.Facets.Time == "" {
		opts.Facets.Time = TimeAny
	}
}

// Validate checks that facet values are known
func (opts *SearchOptions) Validate() error {
	types := make([]interface{}, len(AllDocTypes))
	for i, t := range AllDocTypes {
		types[i] = t
	}
	buckets := make([]interface{}, len(AllTimeBuckets))
	for i, b := range AllTimeBuckets {
		buckets[i] = b
	}

	return validation.ValidateStruct(&opts.Facets,
		validation.Field(&opts.Facets.Types, validation.Each(validation.In(types...))),
		validation.Field(&opts.Facets.Time, validation.In(buckets...)),
	)
}

// SearchResults is the search page payload
type SearchResults struct {
	Query   string     `json:"query"`
	Facets  Facets     `json:"facets"`
	Results []Document `json:"results"`
	Total   int        `json:"total"`
	Reset   bool       `json:"reset"` // true when the empty state should offer "clear filters"
}
