package mesh

// Action kinds. Each page session holds at most one pending action per kind.
const (
	KindSearchScan  = "search.scan"
	KindAskReply    = "ask.reply"
	KindReaderQuery = "reader.query"
	KindSynthesize  = "collection.synthesize"
	KindProvision   = "collection.provision"
	KindUpload      = "document.upload"
	KindInvite      = "collaborator.invite"
	KindRoleChange  = "collaborator.role"
	KindRollback    = "history.rollback"
	KindVerify      = "history.verify"
)

// AllActionKinds lists every simulated action
var AllActionKinds = []string{
	KindSearchScan,
	KindAskReply,
	KindReaderQuery,
	KindSynthesize,
	KindProvision,
	KindUpload,
	KindInvite,
	KindRoleChange,
	KindRollback,
	KindVerify,
}

// ScanResult settles the search page's scanning indicator
type ScanResult struct {
	Query string `json:"query"`
	Total int    `json:"total"`
}

// ReaderAnswer is the reply to a question asked from the document reader
type ReaderAnswer struct {
	DocumentID string `json:"document_id"`
	Question   string `json:"question"`
	Reply      Reply  `json:"reply"`
}

// Synthesis is the outcome of "synthesize" on a collection
type Synthesis struct {
	CollectionID string   `json:"collection_id"`
	NodeCount    int      `json:"node_count"`
	Summary      string   `json:"summary"`
	Patterns     []string `json:"patterns"`
}

// ProvisionRequest asks for a new collection node
type ProvisionRequest struct {
	Name       string     `json:"name"`
	Visibility Visibility `json:"visibility"`
}

// ProvisionReceipt is returned once a node is "provisioned". Nothing is stored.
type ProvisionReceipt struct {
	Name       string     `json:"name"`
	Visibility Visibility `json:"visibility"`
	Signature  string     `json:"signature"`
}

// UploadRequest describes a document to "upload" into a collection
type UploadRequest struct {
	FileName string `json:"file_name"`
	Size     string `json:"size,omitempty"`
}

// UploadReceipt is returned when the upload ramp reaches 100
type UploadReceipt struct {
	CollectionID string    `json:"collection_id"`
	FileName     string    `json:"file_name"`
	Status       DocStatus `json:"status"`
}

// InviteRequest invites an operator by email
type InviteRequest struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// InviteReceipt acknowledges an invitation. No collaborator is created.
type InviteReceipt struct {
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Status string `json:"status"`
}

// RoleChangeRequest asks to change a collaborator's role
type RoleChangeRequest struct {
	Role Role `json:"role"`
}

// RoleChangeAck acknowledges a role change without applying it
type RoleChangeAck struct {
	CollaboratorID string `json:"collaborator_id"`
	Requested      Role   `json:"requested"`
	Current        Role   `json:"current"`
	Applied        bool   `json:"applied"`
}

// RollbackReceipt acknowledges a rollback. The history list is not changed.
type RollbackReceipt struct {
	EventID string `json:"event_id"`
	Target  string `json:"target"`
	Status  string `json:"status"`
}

// CheckItem is one line of the integrity verification checklist
type CheckItem struct {
	Node      string `json:"node"`
	Threshold int    `json:"threshold"`
	Passed    bool   `json:"passed"`
}

// VerifyReport is the verification overlay state
type VerifyReport struct {
	Progress  int         `json:"progress"`
	Checklist []CheckItem `json:"checklist"`
	Verified  bool        `json:"verified"`
}
