package config

const (
	// MaxQueryLength bounds search, history and collaborator queries.
	MaxQueryLength = 256

	// MaxMessageLength bounds a single Ask-AI or reader question.
	MaxMessageLength = 4000

	// MaxCollectionNameLength is the maximum length for a provisioned node name.
	MaxCollectionNameLength = 255

	// MaxFileNameLength is the maximum length for an uploaded file name.
	MaxFileNameLength = 255

	// MaxEmailLength is the RFC 5321 limit for an invitation address.
	MaxEmailLength = 254

	// DefaultFeedCapacity is how many events a history list keeps once the
	// live feed starts prepending.
	DefaultFeedCapacity = 16
)
