package mesh

// ChatRole identifies the author of a chat message
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage is one entry in an Ask-AI transcript.
// SourceIDs is only used by the fixture file; Sources is resolved at load time.
type ChatMessage struct {
	ID        string     `json:"id" yaml:"id"`
	Role      ChatRole   `json:"role" yaml:"role"`
	Content   string     `json:"content" yaml:"content"`
	Sources   []Document `json:"sources,omitempty" yaml:"-"`
	SourceIDs []string   `json:"-" yaml:"source_ids"`
	Timestamp string     `json:"timestamp" yaml:"timestamp"`
}

// Reply is the payload an assistant action settles with
type Reply struct {
	Content string     `json:"content"`
	Sources []Document `json:"sources"`
}
