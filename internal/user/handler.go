package user

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/recruitment-management/internal"
	"github.com/frahmantamala/recruitment-management/internal/transport"
	"github.com/frahmantamala/recruitment-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreateAccount(ctx context.Context, actor internal.Actor, dto CreateAccountDTO) (*AccountCreatedResponse, error)
	GetByID(ctx context.Context, actor internal.Actor, id string) (*User, error)
	List(ctx context.Context, actor internal.Actor, filter ListFilter) (*ListResponse, error)
	UpdateProfile(ctx context.Context, actor internal.Actor, id string, dto UpdateProfileDTO) (*User, error)
	SetStatus(ctx context.Context, actor internal.Actor, id string, dto UpdateStatusDTO) (*User, error)
	ResetPassword(ctx context.Context, actor internal.Actor, id string) (*PasswordResetResponse, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// CreateUser handles POST /users
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}

	var dto CreateAccountDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	resp, err := h.Service.CreateAccount(r.Context(), actor, dto)
	if err != nil {
		h.RequestLogger(r).Error("CreateUser: service error", "error", err, "actor_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, resp)
}

// ListUsers handles GET /users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}

	limit, offset := h.Pagination(r)
	filter := ListFilter{
		Role:   r.URL.Query().Get("role"),
		Status: r.URL.Query().Get("status"),
		Limit:  limit,
		Offset: offset,
	}

	resp, err := h.Service.List(r.Context(), actor, filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

// GetCurrentUser handles GET /users/me
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}

	u, err := h.Service.GetByID(r.Context(), actor, actor.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

// GetUser handles GET /users/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}

	u, err := h.Service.GetByID(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

// UpdateUser handles PATCH /users/{id}
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}

	var dto UpdateProfileDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	u, err := h.Service.UpdateProfile(r.Context(), actor, chi.URLParam(r, "id"), dto)
	if err != nil {
		h.RequestLogger(r).Error("UpdateUser: service error", "error", err, "actor_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

// UpdateUserStatus handles PATCH /users/{id}/status
func (h *Handler) UpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}

	var dto UpdateStatusDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	u, err := h.Service.SetStatus(r.Context(), actor, chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

// ResetPassword handles POST /users/{id}/reset-password
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}

	resp, err := h.Service.ResetPassword(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}
