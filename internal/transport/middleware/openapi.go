package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/frahmantamala/recruitment-management/internal"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	legacyrouter "github.com/getkin/kin-openapi/routers/legacy"
)

// RequestValidator checks requests against the OpenAPI document before they reach handlers.
// Operations missing from the document pass through untouched.
type RequestValidator struct {
	router   routers.Router
	basePath string
	logger   *slog.Logger
}

func NewRequestValidatorFromFile(path, basePath string, logger *slog.Logger) (*RequestValidator, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	return newRequestValidator(loader.Context, doc, basePath, logger)
}

func NewRequestValidatorFromData(data []byte, basePath string, logger *slog.Logger) (*RequestValidator, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	return newRequestValidator(loader.Context, doc, basePath, logger)
}

func newRequestValidator(ctx context.Context, doc *openapi3.T, basePath string, logger *slog.Logger) (*RequestValidator, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}

	// paths are matched after basePath is stripped
	doc.Servers = nil
	router, err := legacyrouter.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}

	return &RequestValidator{
		router:   router,
		basePath: strings.TrimSuffix(basePath, "/"),
		logger:   logger,
	}, nil
}

func (v *RequestValidator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil && r.Body != http.NoBody {
			var err error
			body, err = io.ReadAll(r.Body)
			if err != nil {
				writeAppError(w, internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
		}

		probe := r.Clone(r.Context())
		probe.URL.Path = strings.TrimPrefix(r.URL.Path, v.basePath)
		probe.URL.RawPath = ""
		if body != nil {
			probe.Body = io.NopCloser(bytes.NewReader(body))
		}

		route, pathParams, err := v.router.FindRoute(probe)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		input := &openapi3filter.RequestValidationInput{
			Request:    probe,
			PathParams: pathParams,
			Route:      route,
			Options: &openapi3filter.Options{
				AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
			},
		}
		if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
			v.logger.WarnContext(r.Context(), "request rejected by openapi validation",
				"method", r.Method, "path", r.URL.Path, "error", err)
			writeAppError(w, contractError(err))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func contractError(err error) *internal.AppError {
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		field := "body"
		if reqErr.Parameter != nil {
			field = reqErr.Parameter.Name
		}
		return internal.NewValidationFieldError(field, reqErr.Error(), internal.ErrCodeValidationFailed)
	}
	return internal.NewValidationError("request does not match the API contract", internal.ErrCodeValidationFailed)
}

func writeAppError(w http.ResponseWriter, appErr *internal.AppError) {
	status, body := appErr.ToHTTPResponse()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
