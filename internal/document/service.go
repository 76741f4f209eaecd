package document

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/abhay-gupta-199/kmrl-backend/internal"
	"github.com/abhay-gupta-199/kmrl-backend/internal/core/events"
	"github.com/abhay-gupta-199/kmrl-backend/internal/user"
)

// Repository defines the data access methods for documents.
type Repository interface {
	Create(d *Document) error
	GetByID(id int64) (*Document, error)
	ListVisible(f Filter) ([]*Document, error)
	UpdateDecision(id int64, status ApprovalStatus, approvedBy int64) error
	UpdateStatus(id int64, status Status) error
}

// IdentityResolver batch-loads user identities for listing enrichment.
type IdentityResolver interface {
	GetByIDs(ids []int64) (map[int64]*user.User, error)
}

// FileStore persists uploaded payloads. The write happens before the metadata
// row is created; a failed write aborts the upload.
type FileStore interface {
	Save(fileName string, src io.Reader) (path string, size int64, err error)
}

// EventPublisher is satisfied by the in-process event bus.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// UploadInput abstracts the multipart payload so the service stays testable
// without HTTP machinery.
type UploadInput struct {
	FileName    string
	ContentType string
	Content     io.Reader
}

type Service struct {
	repo   Repository
	users  IdentityResolver
	store  FileStore
	bus    EventPublisher
	logger *slog.Logger
}

func NewService(repo Repository, users IdentityResolver, store FileStore, bus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		users:  users,
		store:  store,
		bus:    bus,
		logger: logger,
	}
}

// Upload stores the payload and creates the document record. Documents
// flagged as requiring approval start pending; everything else is approved
// immediately. The record is auto-tagged with the uploader's department.
func (s *Service) Upload(ctx context.Context, actor *user.User, input UploadInput, dto UploadDTO) (*Document, error) {
	if input.Content == nil || input.FileName == "" {
		return nil, ErrMissingFile
	}
	if strings.TrimSpace(dto.Audience) == "" {
		return nil, ErrMissingAudience
	}

	audience, ok := ParseAudience(dto.Audience)
	if !ok {
		return nil, ErrInvalidAudience
	}

	fileType, err := classifyFileType(input.ContentType)
	if err != nil {
		return nil, err
	}

	path, size, err := s.store.Save(input.FileName, input.Content)
	if err != nil {
		s.logger.Error("failed to store uploaded file", "error", err, "file_name", input.FileName)
		return nil, internal.NewInternalError("failed to store uploaded file", err)
	}

	approvalStatus := ApprovalApproved
	requiresApproval := dto.RequiresApprovalFlag()
	if requiresApproval {
		approvalStatus = ApprovalPending
	}

	doc := &Document{
		FileName:         input.FileName,
		FileType:         fileType,
		FilePath:         path,
		SizeBytes:        size,
		ContentHash:      "",
		UploadedBy:       actor.ID,
		Audience:         audience,
		TargetDepartment: user.Department(strings.TrimSpace(dto.TargetDepartment)),
		TargetEmployee:   dto.TargetEmployeeID(),
		RequiresApproval: requiresApproval,
		ApprovalStatus:   approvalStatus,
		Department:       actor.Department,
		Category:         strings.TrimSpace(dto.Category),
		Tags:             SplitTags(dto.Tags),
		Status:           StatusActive,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := s.repo.Create(doc); err != nil {
		s.logger.Error("failed to create document", "error", err, "uploaded_by", actor.ID)
		return nil, internal.NewInternalError("failed to create document", err)
	}

	s.logger.Info("document uploaded",
		"document_id", doc.ID,
		"uploaded_by", actor.ID,
		"audience", doc.Audience,
		"approval_status", doc.ApprovalStatus)

	if s.bus != nil {
		_ = s.bus.Publish(ctx, events.NewDocumentUploaded(doc.ID, actor.ID, string(doc.Audience), requiresApproval))
	}

	return doc, nil
}

// List returns the documents visible to the actor, enriched with uploader and
// approver identity summaries.
func (s *Service) List(actor *user.User) ([]*View, error) {
	filter := ResolveFilter(Requester{
		ID:         actor.ID,
		Role:       actor.Role,
		Department: actor.Department,
	})

	docs, err := s.repo.ListVisible(filter)
	if err != nil {
		s.logger.Error("failed to list documents", "error", err, "user_id", actor.ID)
		return nil, internal.NewInternalError("failed to list documents", err)
	}

	return s.enrich(docs)
}

// Decide applies an approval decision. Re-deciding an already-decided
// document silently overwrites the prior decision and approver; last write
// wins.
func (s *Service) Decide(ctx context.Context, actor *user.User, docID int64, action string) (*Document, error) {
	decision := ApprovalStatus(strings.ToLower(strings.TrimSpace(action)))
	if decision != ApprovalApproved && decision != ApprovalRejected {
		return nil, ErrInvalidAction
	}

	if !actor.Role.CanApprove() {
		s.logger.Warn("decision denied: actor lacks approval authority",
			"document_id", docID,
			"actor_id", actor.ID,
			"role", actor.Role)
		return nil, ErrNotApprover
	}

	doc, err := s.repo.GetByID(docID)
	if err != nil {
		return nil, ErrDocumentNotFound
	}

	if !doc.RequiresApproval {
		return nil, ErrNoApprovalNeeded
	}

	if err := s.repo.UpdateDecision(docID, decision, actor.ID); err != nil {
		s.logger.Error("failed to persist decision", "error", err, "document_id", docID)
		return nil, internal.NewInternalError("failed to update document", err)
	}

	doc.ApprovalStatus = decision
	doc.ApprovedBy = &actor.ID
	doc.UpdatedAt = time.Now()

	s.logger.Info("document decision recorded",
		"document_id", docID,
		"decision", decision,
		"decided_by", actor.ID)

	if s.bus != nil {
		_ = s.bus.Publish(ctx, events.NewDocumentDecided(docID, actor.ID, string(decision)))
	}

	return doc, nil
}

// SetStatus moves a document between active, archived and deleted. Soft
// marker only; the stored file is untouched.
func (s *Service) SetStatus(actor *user.User, docID int64, rawStatus string) (*Document, error) {
	status, ok := ParseStatus(rawStatus)
	if !ok {
		return nil, ErrInvalidStatus
	}

	doc, err := s.repo.GetByID(docID)
	if err != nil {
		return nil, ErrDocumentNotFound
	}

	if doc.UploadedBy != actor.ID && !actor.Role.IsSuperAdmin() {
		s.logger.Warn("status change denied",
			"document_id", docID,
			"actor_id", actor.ID,
			"uploaded_by", doc.UploadedBy)
		return nil, ErrNotUploader
	}

	if err := s.repo.UpdateStatus(docID, status); err != nil {
		s.logger.Error("failed to update document status", "error", err, "document_id", docID)
		return nil, internal.NewInternalError("failed to update document", err)
	}

	doc.Status = status
	doc.UpdatedAt = time.Now()

	s.logger.Info("document status updated",
		"document_id", docID,
		"status", status,
		"actor_id", actor.ID)

	return doc, nil
}

func (s *Service) enrich(docs []*Document) ([]*View, error) {
	idSet := make(map[int64]struct{})
	for _, d := range docs {
		idSet[d.UploadedBy] = struct{}{}
		if d.ApprovedBy != nil {
			idSet[*d.ApprovedBy] = struct{}{}
		}
	}

	ids := make([]int64, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	identities, err := s.users.GetByIDs(ids)
	if err != nil {
		return nil, internal.NewInternalError("failed to load document identities", err)
	}

	views := make([]*View, len(docs))
	for i, d := range docs {
		v := &View{Document: d}
		if u, ok := identities[d.UploadedBy]; ok {
			summary := u.Summary()
			v.Uploader = &summary
		}
		if d.ApprovedBy != nil {
			if u, ok := identities[*d.ApprovedBy]; ok {
				summary := u.Summary()
				v.Approver = &summary
			}
		}
		views[i] = v
	}
	return views, nil
}

// classifyFileType derives the stored file type from the payload's declared
// content type. Anything that is neither a pdf nor a word document is
// rejected outright.
func classifyFileType(contentType string) (FileType, error) {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "pdf"):
		return FileTypePDF, nil
	case strings.Contains(ct, "officedocument.wordprocessingml"),
		strings.Contains(ct, "msword"),
		strings.Contains(ct, "docx"):
		return FileTypeDocx, nil
	default:
		return "", ErrUnsupportedFile
	}
}
