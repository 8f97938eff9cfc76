package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/frahmantamala/recruitment-management/internal"
	"github.com/frahmantamala/recruitment-management/pkg/logger"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

// RequestLogger returns the request-scoped logger carrying trace and user fields.
func (h *BaseHandler) RequestLogger(r *http.Request) *slog.Logger {
	return logger.FromOr(r.Context(), h.Logger)
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an error response shaped like an AppError
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.Logger.Warn("http error", "status", status, "message", message)

	appErr := &internal.AppError{
		Type:       errorTypeForStatus(status),
		Code:       internal.ErrorCode(strings.ReplaceAll(strings.ToUpper(http.StatusText(status)), " ", "_")),
		Message:    message,
		StatusCode: status,
	}
	h.WriteJSON(w, status, internal.Response{Error: appErr})
}

// HandleServiceError maps service errors onto HTTP responses
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		status, body := appErr.ToHTTPResponse()
		if status >= http.StatusInternalServerError {
			h.Logger.Error("service error", "error", err, "code", appErr.Code)
		}
		h.WriteJSON(w, status, body)
		return
	}

	h.Logger.Error("unhandled service error", "error", err)
	h.WriteJSON(w, http.StatusInternalServerError, internal.Response{
		Error: internal.NewInternalError("internal server error", nil),
	})
}

// DecodeJSON decodes the request body and writes a 400 on failure
func (h *BaseHandler) DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.RequestLogger(r).Warn("invalid request body", "error", err, "path", r.URL.Path)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// RequireActor returns the authenticated actor or writes a 401
func (h *BaseHandler) RequireActor(w http.ResponseWriter, r *http.Request) (internal.Actor, bool) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok || actor.ID == "" {
		h.RequestLogger(r).Warn("actor not found in context", "path", r.URL.Path)
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return internal.Actor{}, false
	}
	return actor, true
}

// Pagination reads limit and offset query parameters
func (h *BaseHandler) Pagination(r *http.Request) (limit, offset int) {
	limit = defaultPageLimit
	offset = 0

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= maxPageLimit {
			limit = l
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	return limit, offset
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ""
	}

	return authHeader[7:]
}

func errorTypeForStatus(status int) internal.ErrorType {
	switch status {
	case http.StatusBadRequest:
		return internal.ErrorTypeValidation
	case http.StatusUnauthorized:
		return internal.ErrorTypeUnauthorized
	case http.StatusForbidden:
		return internal.ErrorTypeForbidden
	case http.StatusNotFound:
		return internal.ErrorTypeNotFound
	case http.StatusConflict:
		return internal.ErrorTypeConflict
	default:
		return internal.ErrorTypeInternal
	}
}
