package session

import (
	"context"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"lumina/internal/config"
	"lumina/internal/domain"
	"lumina/internal/domain/models/mesh"
	"lumina/internal/service/simulate"
)

// provisionSerial is the node number on the first signature a session issues
const provisionSerial = 842

// Scan runs a search and starts the scanning indicator, which settles with the
// result count
func (s *Session) Scan(ctx context.Context, opts *mesh.SearchOptions) (*mesh.SearchResults, simulate.Status, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, simulate.Status{}, err
	}

	results, err := s.deps.Search.Search(ctx, opts)
	if err != nil {
		return nil, simulate.Status{}, err
	}

	scan := mesh.ScanResult{Query: results.Query, Total: results.Total}
	if err := s.whileOpen(func() {
		s.scan.Start(func() mesh.ScanResult { return scan })
	}); err != nil {
		return nil, simulate.Status{}, err
	}

	return results, s.scan.Status(), nil
}

// ReaderQuery is the outcome of asking a question from the reader
type ReaderQuery struct {
	Status  simulate.Status `json:"status"`
	Ignored bool            `json:"ignored,omitempty"`
}

// AskDocument schedules a document-scoped answer. Blank questions are ignored.
func (s *Session) AskDocument(ctx context.Context, docID, question string) (*ReaderQuery, error) {
	if err := validation.Validate(question, validation.Length(0, config.MaxMessageLength)); err != nil {
		return nil, fmt.Errorf("%w: question %v", domain.ErrValidation, err)
	}
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(question) == "" {
		return &ReaderQuery{Status: s.reader.Status(), Ignored: true}, nil
	}

	doc, err := s.deps.Catalog.GetDocument(ctx, docID)
	if err != nil {
		return nil, err
	}

	compute := func() mesh.ReaderAnswer {
		reply, err := s.deps.Assistant.RespondForDocument(context.Background(), doc, question)
		if err != nil {
			s.logger.Error("reader assistant failed", "document_id", doc.ID, "error", err)
			reply = &mesh.Reply{Content: replyUnavailable, Sources: []mesh.Document{}}
		}
		return mesh.ReaderAnswer{DocumentID: doc.ID, Question: question, Reply: *reply}
	}
	if err := s.whileOpen(func() { s.reader.Start(compute) }); err != nil {
		return nil, err
	}

	return &ReaderQuery{Status: s.reader.Status()}, nil
}

// Synthesize starts a synthesis of the collection (unknown ids use the master library)
func (s *Session) Synthesize(ctx context.Context, collectionID string) (simulate.Status, error) {
	if err := s.ensureOpen(); err != nil {
		return simulate.Status{}, err
	}

	detail, err := s.deps.Catalog.GetCollection(ctx, collectionID)
	if err != nil {
		return simulate.Status{}, err
	}

	col, count := detail.Collection, len(detail.Documents)
	if err := s.whileOpen(func() {
		s.synthesize.Start(func() mesh.Synthesis {
			return s.deps.Synth.Synthesize(col, count)
		})
	}); err != nil {
		return simulate.Status{}, err
	}

	s.logger.Info("synthesis started", "collection_id", col.ID, "nodes", count)
	return s.synthesize.Status(), nil
}

// Provision starts provisioning a new node. Nothing is added to the collection list.
func (s *Session) Provision(req *mesh.ProvisionRequest) (simulate.Status, error) {
	if req.Visibility == "" {
		req.Visibility = mesh.VisibilityPrivate
	}
	req.Name = strings.TrimSpace(req.Name)

	if err := validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxCollectionNameLength)),
		validation.Field(&req.Visibility, validation.In(
			mesh.VisibilityPrivate, mesh.VisibilityTeam, mesh.VisibilityPublic,
		)),
	); err != nil {
		return simulate.Status{}, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	s.mu.Lock()
	if err := s.checkOpen(); err != nil {
		s.mu.Unlock()
		return simulate.Status{}, err
	}
	serial := provisionSerial + s.provisions
	s.provisions++

	receipt := mesh.ProvisionReceipt{
		Name:       req.Name,
		Visibility: req.Visibility,
		Signature:  fmt.Sprintf("lumina_node_%dx_signed", serial),
	}
	s.provision.Start(func() mesh.ProvisionReceipt { return receipt })
	s.mu.Unlock()

	s.logger.Info("provisioning started", "name", req.Name, "signature", receipt.Signature)
	return s.provision.Status(), nil
}

// Upload starts the upload progress ramp for a file into a collection
func (s *Session) Upload(collectionID string, req *mesh.UploadRequest) (simulate.Status, error) {
	req.FileName = strings.TrimSpace(req.FileName)
	if err := validation.ValidateStruct(req,
		validation.Field(&req.FileName, validation.Required, validation.Length(1, config.MaxFileNameLength)),
	); err != nil {
		return simulate.Status{}, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := s.ensureOpen(); err != nil {
		return simulate.Status{}, err
	}

	receipt := mesh.UploadReceipt{
		CollectionID: collectionID,
		FileName:     req.FileName,
		Status:       mesh.DocStatusProcessing,
	}
	if err := s.whileOpen(func() {
		s.upload.Start(func() mesh.UploadReceipt { return receipt })
	}); err != nil {
		return simulate.Status{}, err
	}

	s.logger.Info("upload started", "collection_id", collectionID, "file", req.FileName)
	return s.upload.Status(), nil
}

// Invite starts an invitation. No collaborator is created.
func (s *Session) Invite(req *mesh.InviteRequest) (simulate.Status, error) {
	if req.Role == "" {
		req.Role = mesh.RoleViewer
	}
	req.Email = strings.TrimSpace(req.Email)

	if err := validation.ValidateStruct(req,
		validation.Field(&req.Email, validation.Required, validation.Length(1, config.MaxEmailLength), is.EmailFormat),
		validation.Field(&req.Role, validation.In(mesh.RoleAdmin, mesh.RoleEditor, mesh.RoleViewer)),
	); err != nil {
		return simulate.Status{}, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := s.ensureOpen(); err != nil {
		return simulate.Status{}, err
	}

	receipt := mesh.InviteReceipt{Email: req.Email, Role: req.Role, Status: "sent"}
	if err := s.whileOpen(func() {
		s.invite.Start(func() mesh.InviteReceipt { return receipt })
	}); err != nil {
		return simulate.Status{}, err
	}

	return s.invite.Status(), nil
}

// ChangeRole starts a simulated role change. The collaborator keeps its role.
func (s *Session) ChangeRole(ctx context.Context, collaboratorID string, req *mesh.RoleChangeRequest) (simulate.Status, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Role, validation.Required, validation.In(mesh.RoleAdmin, mesh.RoleEditor, mesh.RoleViewer)),
	); err != nil {
		return simulate.Status{}, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := s.ensureOpen(); err != nil {
		return simulate.Status{}, err
	}

	member, err := s.deps.Catalog.GetCollaborator(ctx, collaboratorID)
	if err != nil {
		return simulate.Status{}, err
	}

	ack := mesh.RoleChangeAck{
		CollaboratorID: member.ID,
		Requested:      req.Role,
		Current:        member.Role,
		Applied:        false,
	}
	if err := s.whileOpen(func() {
		s.role.Start(func() mesh.RoleChangeAck { return ack })
	}); err != nil {
		return simulate.Status{}, err
	}

	return s.role.Status(), nil
}
