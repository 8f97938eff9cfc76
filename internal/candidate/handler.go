package candidate

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
	SubmitApplication(ctx context.Context, dto SubmitApplicationDTO) (*Candidate, error)
	Get(ctx context.Context, actor internal.Actor, id string) (*Candidate, error)
	List(ctx context.Context, actor internal.Actor, filter ListFilter) (*ListResponse, error)
	Transition(ctx context.Context, actor internal.Actor, id, target string) (*Candidate, error)
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

// SubmitApplication handles POST /applications
func (h *Handler) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	var dto SubmitApplicationDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	c, err := h.Service.SubmitApplication(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, c)
}

// ListCandidates handles GET /candidates
func (h *Handler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}

	limit, offset := h.Pagination(r)
	filter := ListFilter{
		Status:     r.URL.Query().Get("status"),
		PositionID: r.URL.Query().Get("position_id"),
		Limit:      limit,
		Offset:     offset,
	}

	resp, err := h.Service.List(r.Context(), actor, filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

// GetCandidate handles GET /candidates/{id}
func (h *Handler) GetCandidate(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}

	c, err := h.Service.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

// UpdateCandidateStatus handles PATCH /candidates/{id}/status
func (h *Handler) UpdateCandidateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}

	var dto TransitionDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	c, err := h.Service.Transition(r.Context(), actor, chi.URLParam(r, "id"), dto.Status)
	if err != nil {
		h.RequestLogger(r).Info("UpdateCandidateStatus: transition failed", "error", err, "actor_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}
