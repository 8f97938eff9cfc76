package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/recruitment-management/internal"
	"github.com/frahmantamala/recruitment-management/internal/transport"
)

// RBACAuthorization gates routes on the actor's role. Services repeat the check.
type RBACAuthorization struct {
	*transport.BaseHandler
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{BaseHandler: transport.NewBaseHandler(logger)}
}

func (ra *RBACAuthorization) Check(next http.HandlerFunc, roles ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ra.RequireActor(w, r)
		if !ok {
			return
		}

		if !actor.HasRole(roles...) {
			ra.RequestLogger(r).Warn("access denied: insufficient role",
				"user_id", actor.ID,
				"role", actor.Role,
				"required_roles", roles)
			ra.HandleServiceError(w, internal.ErrUnauthorizedAccess)
			return
		}

		next.ServeHTTP(w, r)
	}
}

func (ra *RBACAuthorization) RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return ra.Check(next.ServeHTTP, roles...)
	}
}

func (ra *RBACAuthorization) RequireStaff() func(http.Handler) http.Handler {
	return ra.RequireRoles(internal.RoleHR, internal.RoleAdmin)
}

func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return ra.RequireRoles(internal.RoleAdmin)
}
