package mesh

// DocType is the file family of a document node
type DocType string

const (
	DocTypePDF   DocType = "PDF"
	DocTypeDOCX  DocType = "DOCX"
	DocTypeSheet DocType = "SHEET"
	DocTypeSlide DocType = "SLIDE"
	DocTypeText  DocType = "TEXT"
	DocTypeImage DocType = "IMAGE"
)

// AllDocTypes lists every document type in display order
var AllDocTypes = []DocType{
	DocTypePDF,
	DocTypeDOCX,
	DocTypeSheet,
	DocTypeSlide,
	DocTypeText,
	DocTypeImage,
}

// DocStatus is a display label only; there is no indexing pipeline behind it
type DocStatus string

const (
	DocStatusIndexed    DocStatus = "indexed"
	DocStatusProcessing DocStatus = "processing"
	DocStatusError      DocStatus = "error"
)

// Document is a single knowledge node.
// UpdatedAt is a display string ("2 hours ago"), not a timestamp.
type Document struct {
	ID           string    `json:"id" yaml:"id"`
	Title        string    `json:"title" yaml:"title"`
	Type         DocType   `json:"type" yaml:"type"`
	Size         string    `json:"size" yaml:"size"`
	UpdatedAt    string    `json:"updated_at" yaml:"updated_at"`
	Author       string    `json:"author" yaml:"author"`
	Snippet      string    `json:"snippet,omitempty" yaml:"snippet"`
	Content      string    `json:"content,omitempty" yaml:"content"`
	Tags         []string  `json:"tags" yaml:"tags"`
	Status       DocStatus `json:"status" yaml:"status"`
	CollectionID *string   `json:"collection_id,omitempty" yaml:"collection_id"`
}

// DocumentInsights is the reader's side panel for a document
type DocumentInsights struct {
	DocumentID     string   `json:"document_id"`
	Summary        string   `json:"summary"`
	KeyPoints      []string `json:"key_points"`
	KeyTerms       []string `json:"key_terms"`
	WordCount      int      `json:"word_count"`
	ReadingMinutes int      `json:"reading_minutes"`
}
