package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/frahmantamala/recruitment-management/internal"
	"github.com/frahmantamala/recruitment-management/internal/audit"
	"github.com/frahmantamala/recruitment-management/internal/auth"
	"github.com/frahmantamala/recruitment-management/internal/candidate"
	"github.com/frahmantamala/recruitment-management/internal/decision"
	"github.com/frahmantamala/recruitment-management/internal/employee"
	"github.com/frahmantamala/recruitment-management/internal/interview"
	"github.com/frahmantamala/recruitment-management/internal/position"
	"github.com/frahmantamala/recruitment-management/internal/user"
	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const routerSecret = "0123456789abcdef0123456789abcdef"

type fixedUsers map[string]*user.User

func (f fixedUsers) FindActive(_ context.Context, id string) (*user.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, internal.ErrUserNotFound
}

var _ = Describe("Router", func() {
	var (
		router   *chi.Mux
		verifier *auth.JWTVerifier
	)

	BeforeEach(func() {
		gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := gdb.DB()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(sqlDB.Close)

		verifier = auth.NewJWTVerifier(internal.SecurityConfig{JWTSecret: routerSecret})
		users := fixedUsers{
			"emp-1": {ID: "emp-1", Role: internal.RoleEmployee, Status: user.StatusActive},
		}
		authService := auth.NewService(verifier, users, slog.Default())

		// Handlers without services: every request below is answered by middleware.
		router = chi.NewRouter()
		RegisterAllRoutes(router, Handlers{
			Health:    NewHealthHandler(sqlx.NewDb(sqlDB, "sqlite3")),
			Auth:      auth.NewMiddleware(authService, slog.Default()),
			RBAC:      auth.NewRBACAuthorization(slog.Default()),
			Position:  position.NewHandler(nil),
			Candidate: candidate.NewHandler(nil),
			Interview: interview.NewHandler(nil),
			Decision:  decision.NewHandler(nil),
			User:      user.NewHandler(nil),
			Employee:  employee.NewHandler(nil),
			Audit:     audit.NewHandler(nil),
		}, RouterOptions{AllowedOrigins: "*"}, slog.Default())
	})

	serve := func(method, path, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	It("should answer liveness and readiness probes", func() {
		rec := serve(http.MethodGet, "/api/v1/ping", "")
		Expect(rec.Code).To(Equal(http.StatusOK))

		rec = serve(http.MethodGet, "/api/v1/health", "")
		Expect(rec.Code).To(Equal(http.StatusOK))

		var body HealthResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Status).To(Equal(HealthHealthy))
		Expect(body.Components).To(HaveKey("database"))
	})

	It("should stamp a trace id on responses", func() {
		rec := serve(http.MethodGet, "/api/v1/ping", "")
		Expect(rec.Header().Get("X-Trace-ID")).NotTo(BeEmpty())
	})

	DescribeTable("authenticated routes without a token",
		func(method, path string) {
			rec := serve(method, path, "")
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		},
		Entry("candidates", http.MethodGet, "/api/v1/candidates"),
		Entry("candidate status", http.MethodPatch, "/api/v1/candidates/c-1/status"),
		Entry("sessions", http.MethodPost, "/api/v1/interview-sessions"),
		Entry("my interviews", http.MethodGet, "/api/v1/interviews/mine"),
		Entry("decisions", http.MethodPost, "/api/v1/decisions"),
		Entry("current user", http.MethodGet, "/api/v1/users/me"),
		Entry("employees", http.MethodPost, "/api/v1/employees"),
		Entry("audit logs", http.MethodGet, "/api/v1/audit-logs"),
		Entry("all positions", http.MethodGet, "/api/v1/positions/all"),
	)

	DescribeTable("staff routes for an employee",
		func(method, path string) {
			token, err := verifier.Issue("emp-1", "", time.Hour)
			Expect(err).NotTo(HaveOccurred())

			rec := serve(method, path, token)
			Expect(rec.Code).To(Equal(http.StatusForbidden))
		},
		Entry("candidates", http.MethodGet, "/api/v1/candidates"),
		Entry("decisions", http.MethodPost, "/api/v1/decisions"),
		Entry("create session", http.MethodPost, "/api/v1/interview-sessions"),
		Entry("list users", http.MethodGet, "/api/v1/users"),
		Entry("reset password", http.MethodPost, "/api/v1/users/u-1/reset-password"),
		Entry("create position", http.MethodPost, "/api/v1/positions"),
		Entry("audit logs", http.MethodGet, "/api/v1/audit-logs"),
	)
})
