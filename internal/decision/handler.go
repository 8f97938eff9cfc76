package decision

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
	RecordDecision(ctx context.Context, actor internal.Actor, dto RecordDecisionDTO) (*DecisionResponse, error)
	ListByCandidate(ctx context.Context, actor internal.Actor, candidateID string) ([]*Decision, error)
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

// RecordDecision handles POST /decisions
func (h *Handler) RecordDecision(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}

	var dto RecordDecisionDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	resp, err := h.Service.RecordDecision(r.Context(), actor, dto)
	if err != nil {
		h.RequestLogger(r).Info("RecordDecision: rejected", "error", err, "actor_id", actor.ID, "candidate_id", dto.CandidateID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, resp)
}

// ListCandidateDecisions handles GET /candidates/{id}/decisions
func (h *Handler) ListCandidateDecisions(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}

	decisions, err := h.Service.ListByCandidate(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ListResponse{Decisions: decisions})
}
