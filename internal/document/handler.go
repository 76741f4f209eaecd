package document

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/abhay-gupta-199/kmrl-backend/internal/transport"
	"github.com/abhay-gupta-199/kmrl-backend/internal/user"
	"github.com/abhay-gupta-199/kmrl-backend/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Upload(ctx context.Context, actor *user.User, input UploadInput, dto UploadDTO) (*Document, error)
	List(actor *user.User) ([]*View, error)
	Decide(ctx context.Context, actor *user.User, docID int64, action string) (*Document, error)
	SetStatus(actor *user.User, docID int64, status string) (*Document, error)
}

type Handler struct {
	*transport.BaseHandler
	Service        ServiceAPI
	maxUploadBytes int64
}

func NewHandler(svc ServiceAPI, maxUploadBytes int64) *Handler {
	lg := logger.L()
	if lg == nil {
		lg = slog.Default()
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = 25 << 20
	}
	return &Handler{
		BaseHandler:    transport.NewBaseHandler(lg),
		Service:        svc,
		maxUploadBytes: maxUploadBytes,
	}
}

// Upload handles POST /documents/upload: one multipart file field plus the
// audience/targeting/approval form fields.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	actor, ok := user.FromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.Logger.Warn("Upload: failed to parse multipart form", "error", err)
		h.WriteError(w, http.StatusBadRequest, "no file uploaded")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	dto := UploadDTO{
		Audience:         r.FormValue("audience"),
		TargetDepartment: r.FormValue("targetDepartment"),
		TargetEmployee:   r.FormValue("targetEmployee"),
		RequiresApproval: r.FormValue("requiresApproval"),
		Category:         r.FormValue("category"),
		Tags:             r.FormValue("tags"),
	}

	input := UploadInput{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     file,
	}

	doc, err := h.Service.Upload(r.Context(), actor, input, dto)
	if err != nil {
		h.Logger.Warn("Upload: service error", "error", err, "user_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusCreated, doc, "Document uploaded successfully")
}

// GetDocuments handles GET /documents/get-doc: the visibility-filtered,
// identity-enriched listing.
func (h *Handler) GetDocuments(w http.ResponseWriter, r *http.Request) {
	actor, ok := user.FromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	docs, err := h.Service.List(actor)
	if err != nil {
		h.Logger.Error("GetDocuments: service error", "error", err, "user_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, docs, "Fetched documents successfully")
}

// Approve handles POST /documents/{docId}/approve.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	actor, ok := user.FromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	docID, err := h.docIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid document ID")
		return
	}

	var dto DecideDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := h.Service.Decide(r.Context(), actor, docID, dto.Action)
	if err != nil {
		h.Logger.Warn("Approve: service error", "error", err, "document_id", docID, "actor_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, doc, "Document "+string(doc.ApprovalStatus)+" successfully")
}

// UpdateStatus handles PATCH /documents/{docId}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := user.FromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	docID, err := h.docIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid document ID")
		return
	}

	var dto StatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := h.Service.SetStatus(actor, docID, dto.Status)
	if err != nil {
		h.Logger.Warn("UpdateStatus: service error", "error", err, "document_id", docID, "actor_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, doc, "Document status updated successfully")
}

func (h *Handler) docIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "docId"), 10, 64)
}
