package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	DocumentUploadedEvent = "document.uploaded"
	DocumentDecidedEvent  = "document.decided"
)

// NewDocumentUploaded is emitted after a document's metadata row is created.
func NewDocumentUploaded(docID, uploaderID int64, audience string, requiresApproval bool) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      DocumentUploadedEvent,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"document_id":       docID,
			"uploaded_by":       uploaderID,
			"audience":          audience,
			"requires_approval": requiresApproval,
		},
	}
}

// NewDocumentDecided is emitted after an approval decision is persisted.
func NewDocumentDecided(docID, approverID int64, decision string) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      DocumentDecidedEvent,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"document_id": docID,
			"decided_by":  approverID,
			"decision":    decision,
		},
	}
}
