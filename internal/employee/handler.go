package employee

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
	Create(ctx context.Context, actor internal.Actor, dto CreateEmployeeDTO) (*Employee, error)
	Update(ctx context.Context, actor internal.Actor, id string, dto UpdateEmployeeDTO) (*Employee, error)
	LinkUser(ctx context.Context, actor internal.Actor, id string, dto LinkUserDTO) (*Employee, error)
	Get(ctx context.Context, actor internal.Actor, id string) (*Employee, error)
	GetMine(ctx context.Context, actor internal.Actor) (*Employee, error)
	List(ctx context.Context, actor internal.Actor, limit, offset int) (*ListResponse, error)
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

// CreateEmployee handles POST /employees
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}

	var dto CreateEmployeeDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	e, err := h.Service.Create(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, e)
}

// ListEmployees handles GET /employees
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}

	limit, offset := h.Pagination(r)
	resp, err := h.Service.List(r.Context(), actor, limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

// GetMyEmployee handles GET /employees/me
func (h *Handler) GetMyEmployee(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}

	e, err := h.Service.GetMine(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, e)
}

// GetEmployee handles GET /employees/{id}
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}

	e, err := h.Service.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, e)
}

// UpdateEmployee handles PATCH /employees/{id}
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}

	var dto UpdateEmployeeDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	e, err := h.Service.Update(r.Context(), actor, chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, e)
}

// LinkUser handles PATCH /employees/{id}/user
func (h *Handler) LinkUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}

	var dto LinkUserDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	e, err := h.Service.LinkUser(r.Context(), actor, chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, e)
}
