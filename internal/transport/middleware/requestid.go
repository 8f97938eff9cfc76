package middleware

import (
	"net/http"

	"github.com/frahmantamala/recruitment-management/pkg/logger"
	"github.com/google/uuid"
)

const TraceIDHeader = "X-Trace-ID"

// RequestID propagates the caller's trace id, or mints one, onto the context logger and the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceIDHeader)
		if _, err := uuid.Parse(traceID); err != nil {
			traceID = uuid.NewString()
		}

		ctx := logger.With(r.Context(), "trace_id", traceID)
		w.Header().Set(TraceIDHeader, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
