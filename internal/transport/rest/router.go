package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/recruitment-management/internal/audit"
	"github.com/frahmantamala/recruitment-management/internal/auth"
	"github.com/frahmantamala/recruitment-management/internal/candidate"
	"github.com/frahmantamala/recruitment-management/internal/decision"
	"github.com/frahmantamala/recruitment-management/internal/employee"
	"github.com/frahmantamala/recruitment-management/internal/interview"
	"github.com/frahmantamala/recruitment-management/internal/position"
	"github.com/frahmantamala/recruitment-management/internal/transport/middleware"
	"github.com/frahmantamala/recruitment-management/internal/transport/swagger"
	"github.com/frahmantamala/recruitment-management/internal/user"
	"github.com/go-chi/chi"
)

const APIBasePath = "/api/v1"

type Handlers struct {
	Health    *HealthHandler
	Auth      *auth.Middleware
	RBAC      *auth.RBACAuthorization
	Validator *middleware.RequestValidator
	Position  *position.Handler
	Candidate *candidate.Handler
	Interview *interview.Handler
	Decision  *decision.Handler
	User      *user.Handler
	Employee  *employee.Handler
	Audit     *audit.Handler
}

type RouterOptions struct {
	AllowedOrigins string
	OpenAPIPath    string
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts RouterOptions, logger *slog.Logger) {
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	openAPIPath := opts.OpenAPIPath
	if openAPIPath == "" {
		openAPIPath = "./api/openapi.yml"
	}
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, openAPIPath)
	})
	router.Handle("/swagger/*", swagger.Handler("/openapi.yml"))

	router.Route(APIBasePath, func(r chi.Router) {
		if h.Validator != nil {
			r.Use(h.Validator.Middleware)
		}

		if h.Health != nil {
			r.Get("/health", h.Health.healthCheckHandler)
			r.Get("/ping", h.Health.pingHandler)
		}

		// Public career site
		r.Get("/positions", h.Position.ListOpenPositions)
		r.Get("/positions/{id}", h.Position.GetPosition)
		r.Post("/applications", h.Candidate.SubmitApplication)

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.Authenticate)

			pr.Route("/users", func(ur chi.Router) {
				ur.Get("/me", h.User.GetCurrentUser)
				ur.Get("/{id}", h.User.GetUser)
				ur.Patch("/{id}", h.User.UpdateUser)

				ur.Group(func(sr chi.Router) {
					sr.Use(h.RBAC.RequireStaff())
					sr.Post("/", h.User.CreateUser)
					sr.Get("/", h.User.ListUsers)
				})

				ur.Group(func(ar chi.Router) {
					ar.Use(h.RBAC.RequireAdmin())
					ar.Patch("/{id}/status", h.User.UpdateUserStatus)
					ar.Post("/{id}/reset-password", h.User.ResetPassword)
				})
			})

			pr.Group(func(ar chi.Router) {
				ar.Use(h.RBAC.RequireAdmin())
				ar.Post("/positions", h.Position.CreatePosition)
				ar.Put("/positions/{id}", h.Position.UpdatePosition)
				ar.Get("/audit-logs", h.Audit.ListAuditLogs)
			})

			pr.Group(func(sr chi.Router) {
				sr.Use(h.RBAC.RequireStaff())
				sr.Get("/positions/all", h.Position.ListAllPositions)

				sr.Get("/candidates", h.Candidate.ListCandidates)
				sr.Get("/candidates/{id}", h.Candidate.GetCandidate)
				sr.Patch("/candidates/{id}/status", h.Candidate.UpdateCandidateStatus)
				sr.Get("/candidates/{id}/interview-sessions", h.Interview.ListCandidateSessions)
				sr.Get("/candidates/{id}/decisions", h.Decision.ListCandidateDecisions)

				sr.Post("/interview-sessions", h.Interview.CreateSession)
				sr.Patch("/interview-sessions/{id}/start", h.Interview.StartSession)
				sr.Patch("/interview-sessions/{id}/close", h.Interview.CloseSession)
				sr.Patch("/interview-sessions/{id}/cancel", h.Interview.CancelSession)

				sr.Post("/decisions", h.Decision.RecordDecision)

				sr.Get("/employees", h.Employee.ListEmployees)
				sr.Patch("/employees/{id}/user", h.Employee.LinkUser)
			})

			// Interviewers see their own sessions; the service enforces membership.
			pr.Get("/interview-sessions/{id}", h.Interview.GetSession)
			pr.Get("/interview-sessions/{id}/progress", h.Interview.GetProgress)
			pr.Get("/interviews/mine", h.Interview.ListMyInterviews)
			pr.Patch("/interviews/{id}/evaluation", h.Interview.RecordEvaluation)

			pr.Post("/employees", h.Employee.CreateEmployee)
			pr.Get("/employees/me", h.Employee.GetMyEmployee)
			pr.Get("/employees/{id}", h.Employee.GetEmployee)
			pr.Patch("/employees/{id}", h.Employee.UpdateEmployee)
		})
	})
}
