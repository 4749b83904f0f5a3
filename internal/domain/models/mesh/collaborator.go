package mesh

// Role is a collaborator's access level
type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleEditor Role = "Editor"
	RoleViewer Role = "Viewer"
)

// AllRoles lists every collaborator role
var AllRoles = []Role{RoleAdmin, RoleEditor, RoleViewer}

// Collaborator is a member of the workspace
type Collaborator struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Email    string `json:"email" yaml:"email"`
	Role     Role   `json:"role" yaml:"role"`
	Avatar   string `json:"avatar,omitempty" yaml:"avatar"`
	JoinedAt string `json:"joined_at" yaml:"joined_at"`
}
