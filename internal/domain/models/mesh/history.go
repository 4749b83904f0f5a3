package mesh

// EventType classifies an audit history entry
type EventType string

const (
	EventEdit      EventType = "edit"
	EventAccess    EventType = "access"
	EventProvision EventType = "provision"
	EventRollback  EventType = "rollback"
)

// AllEventTypes lists every history event type
var AllEventTypes = []EventType{EventEdit, EventAccess, EventProvision, EventRollback}

// HistoryEvent is one entry on the audit timeline
type HistoryEvent struct {
	ID          string    `json:"id" yaml:"id"`
	Type        EventType `json:"type" yaml:"type"`
	User        string    `json:"user" yaml:"user"`
	Target      string    `json:"target" yaml:"target"`
	Timestamp   string    `json:"timestamp" yaml:"timestamp"`
	Description string    `json:"description" yaml:"description"`
}
