package interview

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
	CreateSession(ctx context.Context, actor internal.Actor, dto CreateSessionDTO) (*SessionDetail, error)
	GetSession(ctx context.Context, actor internal.Actor, id string) (*SessionDetail, error)
	GetProgress(ctx context.Context, actor internal.Actor, sessionID string) (*Progress, error)
	ListSessions(ctx context.Context, actor internal.Actor, candidateID string) ([]*Session, error)
	ListMyInterviews(ctx context.Context, actor internal.Actor) ([]*Interview, error)
	RecordEvaluation(ctx context.Context, actor internal.Actor, interviewID string, dto EvaluationDTO) (*Interview, error)
	StartSession(ctx context.Context, actor internal.Actor, id string) (*Session, error)
	CloseSession(ctx context.Context, actor internal.Actor, id string) (*Session, error)
	CancelSession(ctx context.Context, actor internal.Actor, id string) (*Session, error)
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

type SessionsResponse struct {
	Sessions []*Session `json:"sessions"`
}

type InterviewsResponse struct {
	Interviews []*Interview `json:"interviews"`
}

// CreateSession handles POST /interview-sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}

	var dto CreateSessionDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	detail, err := h.Service.CreateSession(r.Context(), actor, dto)
	if err != nil {
		h.RequestLogger(r).Info("CreateSession: rejected", "error", err, "actor_id", actor.ID, "candidate_id", dto.CandidateID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, detail)
}

// GetSession handles GET /interview-sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}

	detail, err := h.Service.GetSession(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, detail)
}

// GetProgress handles GET /interview-sessions/{id}/progress
func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}

	progress, err := h.Service.GetProgress(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, progress)
}

// ListCandidateSessions handles GET /candidates/{id}/interview-sessions
func (h *Handler) ListCandidateSessions(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}

	sessions, err := h.Service.ListSessions(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, SessionsResponse{Sessions: sessions})
}

// ListMyInterviews handles GET /interviews/mine
func (h *Handler) ListMyInterviews(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}

	interviews, err := h.Service.ListMyInterviews(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, InterviewsResponse{Interviews: interviews})
}

// RecordEvaluation handles PATCH /interviews/{id}/evaluation
func (h *Handler) RecordEvaluation(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}

	var dto EvaluationDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	result, err := h.Service.RecordEvaluation(r.Context(), actor, chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

// StartSession handles PATCH /interview-sessions/{id}/start
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	h.moveSession(w, r, h.Service.StartSession)
}

// CloseSession handles PATCH /interview-sessions/{id}/close
func (h *Handler) CloseSession(w http.ResponseWriter, r *http.Request) {
	h.moveSession(w, r, h.Service.CloseSession)
}

// CancelSession handles PATCH /interview-sessions/{id}/cancel
func (h *Handler) CancelSession(w http.ResponseWriter, r *http.Request) {
	h.moveSession(w, r, h.Service.CancelSession)
}

func (h *Handler) moveSession(w http.ResponseWriter, r *http.Request, move func(context.Context, internal.Actor, string) (*Session, error)) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}

	session, err := move(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, session)
}
