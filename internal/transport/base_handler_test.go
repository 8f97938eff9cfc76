package transport_test

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/recruitment-management/internal"
	"github.com/frahmantamala/recruitment-management/internal/transport"
	"github.com/frahmantamala/recruitment-management/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BaseHandler", func() {
	var (
		buf     bytes.Buffer
		handler *transport.BaseHandler
	)

	BeforeEach(func() {
		buf.Reset()
		logger.Setup(logger.Options{Level: "debug", Format: "json", Output: &buf})
		handler = transport.NewBaseHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	It("should log through the request-scoped logger", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
		req = req.WithContext(logger.With(req.Context(), "trace_id", "trace-42"))
		rec := httptest.NewRecorder()

		_, ok := handler.RequireActor(rec, req)
		Expect(ok).To(BeFalse())
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		Expect(buf.String()).To(ContainSubstring(`"trace_id":"trace-42"`))
		Expect(buf.String()).To(ContainSubstring("actor not found in context"))
	})

	It("should fall back to its own logger without context fields", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		Expect(handler.RequestLogger(req)).To(BeIdenticalTo(handler.Logger))
	})

	It("should map app errors onto their status", func() {
		rec := httptest.NewRecorder()
		handler.HandleServiceError(rec, internal.ErrSessionClosed)
		Expect(rec.Code).To(Equal(http.StatusConflict))
		Expect(rec.Body.String()).To(ContainSubstring(string(internal.ErrCodeSessionClosed)))
	})

	DescribeTable("Pagination",
		func(query string, limit, offset int) {
			req := httptest.NewRequest(http.MethodGet, "/candidates"+query, nil)
			l, o := handler.Pagination(req)
			Expect(l).To(Equal(limit))
			Expect(o).To(Equal(offset))
		},
		Entry("defaults", "", 20, 0),
		Entry("explicit", "?limit=5&offset=10", 5, 10),
		Entry("limit above maximum", "?limit=500", 20, 0),
		Entry("negative offset", "?offset=-1", 20, 0),
	)
})
