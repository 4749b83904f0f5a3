package mesh

// QuickAction is a launcher shortcut that deep-links into a page with a modal open
type QuickAction struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Path  string `json:"path"`
}

// QuickActions are the launcher shortcuts in display order
var QuickActions = []QuickAction{
	{ID: "upload", Label: "Upload Document", Path: "/collections/all?action=upload"},
	{ID: "collection", Label: "Create Collection", Path: "/collections?action=create"},
	{ID: "invite", Label: "Invite Operator", Path: "/collaborators?action=invite"},
}

// ConsolePlaceholders rotate in the search console
var ConsolePlaceholders = []string{
	"Search for 'Q3 Financial Reports'...",
	"Ask 'What is the project timeline?'...",
	"Find 'Marketing Strategy 2024'...",
	"Summarize 'Engineering Guidelines'...",
}

// ConsoleMode selects where the search console submits to
type ConsoleMode string

const (
	ConsoleSearch ConsoleMode = "search"
	ConsoleAsk    ConsoleMode = "ask"
)

// HomeSummary is the launcher payload
type HomeSummary struct {
	Clock           string        `json:"clock"` // 24h "15:04"
	Date            string        `json:"date"`  // "FRIDAY // NOVEMBER 1, 2024"
	Placeholders    []string      `json:"placeholders"`
	QuickActions    []QuickAction `json:"quick_actions"`
	RecentDocuments []Document    `json:"recent_documents"`
	Collections     []Collection  `json:"collections"`
}
