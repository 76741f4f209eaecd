package user

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/abhay-gupta-199/kmrl-backend/internal/transport"
	"github.com/abhay-gupta-199/kmrl-backend/pkg/logger"
)

type ServiceAPI interface {
	Create(actor *User, dto CreateUserDTO) (*User, string, error)
	GetByID(id int64) (*User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.L()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// CreateUser handles POST /users/add-user. SuperAdmin only; the response
// carries the generated password exactly once.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := FromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, password, err := h.Service.Create(actor, dto)
	if err != nil {
		h.Logger.Warn("CreateUser: service error", "error", err, "actor_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusCreated, CreatedUserResponse{
		User:              created,
		GeneratedPassword: password,
	}, "User created successfully")
}

// GetCurrentUser handles GET /users/me.
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := FromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	u, err := h.Service.GetByID(actor.ID)
	if err != nil {
		h.Logger.Error("GetCurrentUser: service error", "error", err, "user_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, u, "Fetched current user successfully")
}
