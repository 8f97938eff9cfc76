package position

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
	Create(ctx context.Context, actor internal.Actor, dto CreatePositionDTO) (*Position, error)
	Update(ctx context.Context, actor internal.Actor, id string, dto UpdatePositionDTO) (*Position, error)
	GetPublic(ctx context.Context, id string) (*Position, error)
	ListOpen(ctx context.Context, limit, offset int) (*ListResponse, error)
	ListAll(ctx context.Context, actor internal.Actor, limit, offset int) (*ListResponse, error)
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

// ListOpenPositions handles GET /positions
func (h *Handler) ListOpenPositions(w http.ResponseWriter, r *http.Request) {
	limit, offset := h.Pagination(r)
	resp, err := h.Service.ListOpen(r.Context(), limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// GetPosition handles GET /positions/{id}
func (h *Handler) GetPosition(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.GetPublic(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, p)
}

// ListAllPositions handles GET /positions/all
func (h *Handler) ListAllPositions(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}

	limit, offset := h.Pagination(r)
	resp, err := h.Service.ListAll(r.Context(), actor, limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// CreatePosition handles POST /positions
func (h *Handler) CreatePosition(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}

	var dto CreatePositionDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	p, err := h.Service.Create(r.Context(), actor, dto)
	if err != nil {
		h.RequestLogger(r).Error("CreatePosition: service error", "error", err, "actor_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, p)
}

// UpdatePosition handles PUT /positions/{id}
func (h *Handler) UpdatePosition(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}

	var dto UpdatePositionDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	p, err := h.Service.Update(r.Context(), actor, chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, p)
}
