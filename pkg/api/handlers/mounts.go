package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"

	"github.com/marmos91/vfsmount/internal/logger"
	"github.com/marmos91/vfsmount/internal/telemetry"
	"github.com/marmos91/vfsmount/pkg/catalog"
	"github.com/marmos91/vfsmount/pkg/mount"
)

// MountHandler serves read-only queries against one mount table.
//
// mount.Manager has no internal locking; every request holds mu while it
// touches the manager.
type MountHandler struct {
	mu      sync.Mutex
	manager *mount.Manager
	catalog catalog.Catalog
}

// NewMountHandler creates a handler for mgr. cat may be nil, in which case
// numeric ids are omitted and the catalog endpoint returns 404.
func NewMountHandler(mgr *mount.Manager, cat catalog.Catalog) *MountHandler {
	return &MountHandler{manager: mgr, catalog: cat}
}

// resolver returns the catalog as a NumericIDResolver, or nil.
func (h *MountHandler) resolver() mount.NumericIDResolver {
	if h.catalog == nil {
		return nil
	}
	return h.catalog
}

// Liveness handles GET /health.
func (h *MountHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Response{Status: "healthy", Timestamp: time.Now().UTC()})
}

// Readiness handles GET /health/ready. The server is ready once the mount
// table has been set up.
func (h *MountHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	err := h.manager.EnsureReady()
	count := h.manager.Count()
	h.mu.Unlock()

	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, Response{
			Status:    "unhealthy",
			Timestamp: time.Now().UTC(),
			Error:     err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Data:      map[string]int{"mounts": count},
	})
}

// List handles GET /api/v1/mounts.
func (h *MountHandler) List(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	err := h.manager.EnsureReady()
	mounts := h.manager.List()
	h.mu.Unlock()

	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NewMountInfos(r.Context(), mounts, h.resolver()))
}

// Nested handles GET /api/v1/mounts/nested?path=.
func (h *MountHandler) Nested(w http.ResponseWriter, r *http.Request) {
	p := r.URL.Query().Get("path")
	if p == "" {
		BadRequest(w, "query parameter 'path' is required")
		return
	}

	ctx, span := telemetry.StartSpan(r.Context(), telemetry.SpanFindIn,
		trace.WithAttributes(telemetry.Path(p)))
	defer span.End()
	r = r.WithContext(ctx)

	h.mu.Lock()
	mounts, err := h.manager.FindIn(p)
	h.mu.Unlock()

	if err != nil {
		h.writeError(w, r, err)
		return
	}
	span.SetAttributes(telemetry.MountCount(len(mounts)))
	writeJSON(w, http.StatusOK, NewMountInfos(r.Context(), mounts, h.resolver()))
}

// Resolve handles GET /api/v1/resolve?path=.
func (h *MountHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	p := r.URL.Query().Get("path")
	if p == "" {
		BadRequest(w, "query parameter 'path' is required")
		return
	}

	ctx, span := telemetry.StartSpan(r.Context(), telemetry.SpanResolve,
		trace.WithAttributes(telemetry.Path(p)))
	defer span.End()
	r = r.WithContext(ctx)

	h.mu.Lock()
	m, err := h.manager.Find(p)
	h.mu.Unlock()

	if err != nil {
		h.writeError(w, r, err)
		return
	}
	span.SetAttributes(
		telemetry.MountPoint(m.MountPoint()),
		telemetry.StorageID(m.StorageID()),
		telemetry.InternalPath(m.InternalPath(p)),
	)

	logger.DebugCtx(r.Context(), "Path resolved",
		logger.KeyPath, p,
		logger.KeyMountPoint, m.MountPoint())

	writeJSON(w, http.StatusOK, Resolution{
		Path:         mount.DefaultNormalizer.Normalize(p),
		InternalPath: m.InternalPath(p),
		Mount:        NewMountInfo(r.Context(), m, h.resolver()),
	})
}

// ByStorageID handles GET /api/v1/storages/mounts?id=.
func (h *MountHandler) ByStorageID(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		BadRequest(w, "query parameter 'id' is required")
		return
	}

	ctx, span := telemetry.StartSpan(r.Context(), telemetry.SpanFindByStorageID,
		trace.WithAttributes(telemetry.StorageID(id)))
	defer span.End()
	r = r.WithContext(ctx)

	h.mu.Lock()
	mounts, err := h.manager.FindByStorageID(id)
	h.mu.Unlock()

	if err != nil {
		h.writeError(w, r, err)
		return
	}
	span.SetAttributes(telemetry.MountCount(len(mounts)))
	writeJSON(w, http.StatusOK, NewMountInfos(r.Context(), mounts, h.resolver()))
}

// ByNumericID handles GET /api/v1/storages/numeric/{numericID}/mounts.
func (h *MountHandler) ByNumericID(w http.ResponseWriter, r *http.Request) {
	numericID, err := strconv.ParseInt(chi.URLParam(r, "numericID"), 10, 64)
	if err != nil {
		BadRequest(w, "numeric id must be an integer")
		return
	}

	ctx, span := telemetry.StartSpan(r.Context(), telemetry.SpanFindByNumericID,
		trace.WithAttributes(telemetry.NumericID(numericID)))
	defer span.End()
	r = r.WithContext(ctx)

	h.mu.Lock()
	mounts, err := h.manager.FindByNumericID(ctx, numericID)
	h.mu.Unlock()

	if err != nil {
		h.writeError(w, r, err)
		return
	}
	span.SetAttributes(telemetry.MountCount(len(mounts)))
	writeJSON(w, http.StatusOK, NewMountInfos(r.Context(), mounts, h.resolver()))
}

// Catalog handles GET /api/v1/catalog.
func (h *MountHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		NotFound(w, "no storage catalog configured")
		return
	}

	entries, err := h.catalog.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *MountHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	telemetry.RecordError(r.Context(), err)

	switch {
	case errors.Is(err, mount.ErrNotFound), errors.Is(err, catalog.ErrStorageNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, mount.ErrNoTranslator):
		ServiceUnavailable(w, err.Error())
	default:
		logger.ErrorCtx(r.Context(), "Mount query failed", logger.KeyError, err)
		InternalServerError(w, err.Error())
	}
}
