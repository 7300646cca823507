package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/marmos91/vfsmount/internal/logger"
	"github.com/marmos91/vfsmount/internal/telemetry"
	"github.com/marmos91/vfsmount/pkg/api/auth"
	"github.com/marmos91/vfsmount/pkg/api/handlers"
	apimw "github.com/marmos91/vfsmount/pkg/api/middleware"
)

// RouterOption customizes NewRouter.
type RouterOption func(*routerOptions)

type routerOptions struct {
	tokens *auth.TokenService
}

// WithAuth requires a valid bearer token on every /api/v1 route.
// Health and metrics stay open.
func WithAuth(tokens *auth.TokenService) RouterOption {
	return func(o *routerOptions) {
		o.tokens = tokens
	}
}

// NewRouter creates the chi router with all middleware and routes.
//
// Routes:
//   - GET /health - Liveness probe
//   - GET /health/ready - Readiness probe (mount table set up)
//   - GET /api/v1/mounts - All mounts in insertion order
//   - GET /api/v1/mounts/nested?path= - Mounts strictly below path
//   - GET /api/v1/resolve?path= - Mount owning path
//   - GET /api/v1/storages/mounts?id= - Mounts backed by a storage
//   - GET /api/v1/storages/numeric/{numericID}/mounts - Same, by numeric id
//   - GET /api/v1/catalog - Catalogued storages
//   - GET /metrics - Prometheus metrics (only when gatherer is non-nil)
func NewRouter(mh *handlers.MountHandler, gatherer prometheus.Gatherer, opts ...RouterOption) http.Handler {
	var o routerOptions
	for _, opt := range opts {
		opt(&o)
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Route("/health", func(r chi.Router) {
		r.Get("/", mh.Liveness)
		r.Get("/ready", mh.Readiness)
	})

	r.Route("/api/v1", func(r chi.Router) {
		if o.tokens != nil {
			r.Use(apimw.BearerAuth(o.tokens))
		}

		r.Get("/resolve", mh.Resolve)

		r.Route("/mounts", func(r chi.Router) {
			r.Get("/", mh.List)
			r.Get("/nested", mh.Nested)
		})

		r.Route("/storages", func(r chi.Router) {
			// Storage ids contain "/" and "::", so they travel as a query parameter.
			r.Get("/mounts", mh.ByStorageID)
			r.Get("/numeric/{numericID}/mounts", mh.ByNumericID)
		})

		r.Get("/catalog", mh.Catalog)
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	return r
}

// requestLogger logs requests using the internal logger and attaches a
// LogContext so handlers log with the request id.
//
// Health and metrics scrapes are logged at DEBUG to reduce noise.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		ctx, span := telemetry.StartSpan(ctx, telemetry.SpanHTTPRequest,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				telemetry.HTTPMethod(r.Method),
				telemetry.HTTPRoute(r.URL.Path),
			))
		defer span.End()

		requestID := middleware.GetReqID(r.Context())
		lc := logger.NewLogContext(requestID).
			WithCommand(r.Method + " " + r.URL.Path).
			WithTrace(telemetry.TraceID(ctx), telemetry.SpanID(ctx))
		ctx = logger.WithContext(ctx, lc)

		logger.DebugCtx(ctx, "API request started",
			logger.KeyRemoteAddr, r.RemoteAddr)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		span.SetAttributes(telemetry.HTTPStatus(ww.Status()))

		logArgs := []any{
			logger.KeyStatus, ww.Status(),
			logger.KeyBytes, ww.BytesWritten(),
		}

		if isQuietPath(r.URL.Path) {
			logger.DebugCtx(ctx, "API request completed", logArgs...)
		} else {
			logger.InfoCtx(ctx, "API request completed", logArgs...)
		}
	})
}

func isQuietPath(p string) bool {
	return strings.HasPrefix(p, "/health") || p == "/metrics"
}
