package audit

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/recruitment-management/internal"
	"github.com/frahmantamala/recruitment-management/internal/transport"
	"github.com/frahmantamala/recruitment-management/pkg/logger"
)

type ServiceAPI interface {
	List(ctx context.Context, actor internal.Actor, filter ListFilter) (*ListResponse, error)
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

// ListAuditLogs handles GET /audit-logs
func (h *Handler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}

	limit, offset := h.Pagination(r)
	query := r.URL.Query()
	filter := ListFilter{
		TargetType: query.Get("target_type"),
		TargetID:   query.Get("target_id"),
		ActorID:    query.Get("actor_id"),
		Action:     query.Get("action"),
		Limit:      limit,
		Offset:     offset,
	}

	resp, err := h.Service.List(r.Context(), actor, filter)
	if err != nil {
		h.RequestLogger(r).Error("ListAuditLogs: service error", "error", err, "actor_id", actor.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}
