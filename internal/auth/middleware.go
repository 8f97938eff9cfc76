package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/recruitment-management/internal"
	"github.com/frahmantamala/recruitment-management/internal/transport"
	"github.com/frahmantamala/recruitment-management/pkg/logger"
)

// Middleware authenticates bearer tokens and stores the actor on the request context.
type Middleware struct {
	*transport.BaseHandler
	service *Service
}

func NewMiddleware(service *Service, lg *slog.Logger) *Middleware {
	return &Middleware{
		BaseHandler: transport.NewBaseHandler(lg),
		service:     service,
	}
}

func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := m.ExtractTokenFromHeader(r)
		if token == "" {
			m.HandleServiceError(w, internal.ErrInvalidToken)
			return
		}

		actor, err := m.service.Authenticate(r.Context(), token)
		if err != nil {
			m.HandleServiceError(w, err)
			return
		}

		ctx := internal.ContextWithActor(r.Context(), actor)
		ctx = logger.With(ctx, "user_id", actor.ID, "role", actor.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
