package position_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/recruitment-management/internal"
	positionDatamodel "github.com/frahmantamala/recruitment-management/internal/core/datamodel/position"
	"github.com/frahmantamala/recruitment-management/internal/mocks"
	"github.com/frahmantamala/recruitment-management/internal/position"
	positionPostgres "github.com/frahmantamala/recruitment-management/internal/position/postgres"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Position Handler Integration", func() {
	var (
		ctx     context.Context
		service *position.Service
		router  *chi.Mux
		admin   internal.Actor
		open    *positionDatamodel.Position
		closed  *positionDatamodel.Position
	)

	BeforeEach(func() {
		ctx = context.Background()
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(&positionDatamodel.Position{})).To(Succeed())

		repo := positionPostgres.NewPositionRepository(db)
		service = position.NewService(repo, (&mocks.AuditRecorder{}).Permissive(), slogger)
		handler := position.NewHandler(service)

		open = &positionDatamodel.Position{Title: "Backend Engineer", Department: "Engineering", IsOpen: true}
		closed = &positionDatamodel.Position{Title: "Office Manager", Department: "Operations", IsOpen: true}
		Expect(repo.Create(ctx, open)).To(Succeed())
		Expect(repo.Create(ctx, closed)).To(Succeed())
		closed.IsOpen = false
		Expect(repo.Update(ctx, closed)).To(Succeed())

		admin = internal.Actor{ID: "admin-1", Role: internal.RoleAdmin}

		router = chi.NewRouter()
		router.Get("/positions", handler.ListOpenPositions)
		router.Get("/positions/all", handler.ListAllPositions)
		router.Get("/positions/{id}", handler.GetPosition)
		router.Post("/positions", handler.CreatePosition)
	})

	It("should list only open positions to anonymous callers", func() {
		req := httptest.NewRequest(http.MethodGet, "/positions", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp position.ListResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Total).To(Equal(int64(1)))
		Expect(resp.Positions[0].Title).To(Equal("Backend Engineer"))
	})

	It("should hide closed positions from the public detail route", func() {
		req := httptest.NewRequest(http.MethodGet, "/positions/"+closed.ID, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(w.Body.String()).To(ContainSubstring(string(internal.ErrCodePositionNotFound)))
	})

	It("should list every position for staff", func() {
		req := httptest.NewRequest(http.MethodGet, "/positions/all", nil)
		req = req.WithContext(internal.ContextWithActor(req.Context(), admin))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp position.ListResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Total).To(Equal(int64(2)))
	})

	It("should let admins create positions", func() {
		req := httptest.NewRequest(http.MethodPost, "/positions", strings.NewReader(`{"title":"QA Engineer","department":"Engineering"}`))
		req = req.WithContext(internal.ContextWithActor(req.Context(), admin))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusCreated))
		var p position.Position
		Expect(json.NewDecoder(w.Body).Decode(&p)).To(Succeed())
		Expect(p.IsOpen).To(BeTrue())
	})

	It("should forbid HR from creating positions", func() {
		hr := internal.Actor{ID: "hr-1", Role: internal.RoleHR}
		req := httptest.NewRequest(http.MethodPost, "/positions", strings.NewReader(`{"title":"QA Engineer"}`))
		req = req.WithContext(internal.ContextWithActor(req.Context(), hr))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusForbidden))
	})

	Describe("EnsureOpen", func() {
		It("should distinguish closed and missing positions", func() {
			Expect(service.EnsureOpen(ctx, open.ID)).To(Succeed())
			Expect(service.EnsureOpen(ctx, closed.ID)).To(MatchError(internal.ErrPositionClosed))
			Expect(service.EnsureOpen(ctx, "missing")).To(MatchError(internal.ErrPositionNotFound))
		})

		It("should reopen a position through Update", func() {
			reopen := true
			p, err := service.Update(ctx, admin, closed.ID, position.UpdatePositionDTO{IsOpen: &reopen})
			Expect(err).NotTo(HaveOccurred())
			Expect(p.IsOpen).To(BeTrue())
			Expect(service.EnsureOpen(ctx, closed.ID)).To(Succeed())
		})
	})
})
