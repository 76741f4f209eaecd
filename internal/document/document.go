package document

import (
	"strings"
	"time"

	"github.com/abhay-gupta-199/kmrl-backend/internal"
	"github.com/abhay-gupta-199/kmrl-backend/internal/user"
)

// Audience classifies which population may see a document.
type Audience string

const (
	AudienceAll            Audience = "all"
	AudienceDepartment     Audience = "department"
	AudienceEmployee       Audience = "employee"
	AudienceDepartmentHead Audience = "departmentHead"
	AudienceDean           Audience = "dean"
)

// ParseAudience canonicalizes an audience value case-insensitively.
func ParseAudience(s string) (Audience, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all":
		return AudienceAll, true
	case "department":
		return AudienceDepartment, true
	case "employee":
		return AudienceEmployee, true
	case "departmenthead":
		return AudienceDepartmentHead, true
	case "dean":
		return AudienceDean, true
	}
	return "", false
}

type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeDocx FileType = "docx"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
	StatusDeleted  Status = "deleted"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusActive:
		return StatusActive, true
	case StatusArchived:
		return StatusArchived, true
	case StatusDeleted:
		return StatusDeleted, true
	}
	return "", false
}

type Document struct {
	ID               int64           `gorm:"primaryKey" json:"id"`
	FileName         string          `gorm:"column:file_name;not null" json:"fileName"`
	FileType         FileType        `gorm:"column:file_type;not null" json:"fileType"`
	FilePath         string          `gorm:"column:file_path;not null" json:"filePath"`
	SizeBytes        int64           `gorm:"column:size_bytes" json:"size"`
	ContentHash      string          `gorm:"column:content_hash" json:"hash"`
	UploadedBy       int64           `gorm:"column:uploaded_by;not null" json:"uploadedBy"`
	Audience         Audience        `gorm:"not null" json:"audience"`
	TargetDepartment user.Department `gorm:"column:target_department" json:"targetDepartment,omitempty"`
	TargetEmployee   *int64          `gorm:"column:target_employee" json:"targetEmployee,omitempty"`
	RequiresApproval bool            `gorm:"column:requires_approval;default:false" json:"requiresApproval"`
	ApprovalStatus   ApprovalStatus  `gorm:"column:approval_status;default:approved" json:"approvalStatus"`
	ApprovedBy       *int64          `gorm:"column:approved_by" json:"approvedBy,omitempty"`
	Department       user.Department `json:"department,omitempty"`
	Category         string          `json:"category,omitempty"`
	Tags             []string        `gorm:"serializer:json" json:"tags"`
	Status           Status          `gorm:"default:active" json:"status"`
	CreatedAt        time.Time       `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt        time.Time       `gorm:"column:updated_at" json:"updatedAt"`
}

func (Document) TableName() string {
	return "documents"
}

// View is a document enriched with uploader/approver identity summaries for
// display. Read-only join, never persisted.
type View struct {
	*Document
	Uploader *user.Summary `json:"uploader,omitempty"`
	Approver *user.Summary `json:"approver,omitempty"`
}

var (
	ErrDocumentNotFound = internal.NewNotFoundError("document not found", internal.ErrCodeDocumentNotFound)
	ErrMissingFile      = internal.NewValidationError("no file uploaded", internal.ErrCodeMissingFile)
	ErrMissingAudience  = internal.NewValidationError("audience field is required", internal.ErrCodeMissingAudience)
	ErrInvalidAudience  = internal.NewValidationError("invalid audience value", internal.ErrCodeMissingAudience)
	ErrUnsupportedFile  = internal.NewValidationError("only pdf and docx files are accepted", internal.ErrCodeUnsupportedFile)
	ErrInvalidAction    = internal.NewValidationError("invalid approval action", internal.ErrCodeInvalidAction)
	ErrInvalidStatus    = internal.NewValidationError("invalid status value", internal.ErrCodeInvalidStatus)
	ErrNotApprover      = internal.NewForbiddenError("only DepartmentHead or Dean can approve documents", internal.ErrCodeNotApprover)
	ErrNotUploader      = internal.NewForbiddenError("not authorized to update this document", internal.ErrCodeNotUploader)
	ErrNoApprovalNeeded = internal.NewInvalidStateError("this document does not require approval", internal.ErrCodeApprovalNotNeeded)
)
