package mesh

// Visibility controls who can see a collection
type Visibility string

const (
	VisibilityPrivate Visibility = "Private"
	VisibilityTeam    Visibility = "Team"
	VisibilityPublic  Visibility = "Public"
)

// MasterCollectionID addresses the system-wide library
const MasterCollectionID = "all"

// Collection groups documents into a silo
type Collection struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description" yaml:"description"`
	CoverImage  string     `json:"cover_image" yaml:"cover_image"`
	Author      string     `json:"author" yaml:"author"`
	ItemCount   int        `json:"item_count" yaml:"item_count"`
	Visibility  Visibility `json:"visibility" yaml:"visibility"`
	UpdatedAt   string     `json:"updated_at" yaml:"updated_at"`
}

// MasterLibrary is the placeholder returned for unknown collection ids
func MasterLibrary() Collection {
	return Collection{
		ID:          MasterCollectionID,
		Name:        "Master Library",
		Description: "System-wide knowledge assets.",
		Visibility:  VisibilityTeam,
	}
}

// CollectionDetail is a collection together with the documents shown inside it
type CollectionDetail struct {
	Collection Collection `json:"collection"`
	IsMaster   bool       `json:"is_master"`
	Documents  []Document `json:"documents"`
	OpenModal  string     `json:"open_modal,omitempty"`
}
