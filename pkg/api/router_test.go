package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/marmos91/vfsmount/internal/telemetry"
	"github.com/marmos91/vfsmount/pkg/api/auth"
	"github.com/marmos91/vfsmount/pkg/api/handlers"
	"github.com/marmos91/vfsmount/pkg/backend"
	"github.com/marmos91/vfsmount/pkg/catalog"
	"github.com/marmos91/vfsmount/pkg/catalog/memory"
	"github.com/marmos91/vfsmount/pkg/mount"
)

type fixture struct {
	server   *httptest.Server
	catalog  *memory.Catalog
	registry *prometheus.Registry
}

func newFixture(t *testing.T, bootstrap mount.Bootstrapper) *fixture {
	t.Helper()
	ctx := context.Background()

	cat := memory.New()
	registry := prometheus.NewRegistry()
	mgr := mount.NewManager(
		mount.WithTranslator(cat),
		mount.WithBootstrapper(bootstrap),
		mount.WithMetrics(mount.NewMetrics(registry)),
	)

	for _, spec := range []struct{ path, root string }{
		{"/", "/srv/root"},
		{"/alice", "/srv/alice"},
		{"/alice/archive", "/srv/archive"},
	} {
		storage, err := backend.NewLocal(spec.root)
		require.NoError(t, err)
		_, err = cat.Register(ctx, storage.ID())
		require.NoError(t, err)
		m, err := mount.New(storage, spec.path, map[string]string{"read_only": "false"})
		require.NoError(t, err)
		mgr.AddMount(m)
	}

	srv := httptest.NewServer(NewRouter(handlers.NewMountHandler(mgr, cat), registry))
	t.Cleanup(srv.Close)

	return &fixture{server: srv, catalog: cat, registry: registry}
}

func (f *fixture) get(t *testing.T, path string, out any) int {
	t.Helper()
	resp, err := http.Get(f.server.URL + path)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestResolve(t *testing.T) {
	f := newFixture(t, nil)

	var res handlers.Resolution
	status := f.get(t, "/api/v1/resolve?path="+url.QueryEscape("/alice/archive/2024/q1.pdf"), &res)
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, "/alice/archive/2024/q1.pdf", res.Path)
	assert.Equal(t, "2024/q1.pdf", res.InternalPath)
	assert.Equal(t, "/alice/archive/", res.Mount.MountPoint)
	assert.Equal(t, "local", res.Mount.Backend)
	assert.Equal(t, "local::/srv/archive/", res.Mount.StorageID)
	assert.Equal(t, int64(3), res.Mount.NumericID)
	assert.False(t, res.Mount.ReadOnly)

	assert.Equal(t, http.StatusBadRequest, f.get(t, "/api/v1/resolve", nil))
}

func TestResolveNotFound(t *testing.T) {
	cat := memory.New()
	mgr := mount.NewManager(mount.WithTranslator(cat))
	srv := httptest.NewServer(NewRouter(handlers.NewMountHandler(mgr, nil), nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/resolve?path=/x")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, handlers.ContentTypeProblemJSON, resp.Header.Get("Content-Type"))

	// Catalog endpoint is absent without a catalog, and so is /metrics.
	resp2, err := http.Get(srv.URL + "/api/v1/catalog")
	require.NoError(t, err)
	_ = resp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)

	resp3, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	_ = resp3.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp3.StatusCode)
}

func TestListAndNested(t *testing.T) {
	f := newFixture(t, nil)

	var all []handlers.MountInfo
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/mounts", &all))
	require.Len(t, all, 3)
	assert.Equal(t, "/", all[0].MountPoint)
	assert.Equal(t, map[string]string{"read_only": "false"}, all[0].Options)

	var nested []handlers.MountInfo
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/mounts/nested?path=/alice", &nested))
	require.Len(t, nested, 1)
	assert.Equal(t, "/alice/archive/", nested[0].MountPoint)

	assert.Equal(t, http.StatusBadRequest, f.get(t, "/api/v1/mounts/nested", nil))
}

func TestStorageLookups(t *testing.T) {
	f := newFixture(t, nil)

	var byID []handlers.MountInfo
	require.Equal(t, http.StatusOK,
		f.get(t, "/api/v1/storages/mounts?id="+url.QueryEscape("local::/srv/alice/"), &byID))
	require.Len(t, byID, 1)
	assert.Equal(t, "/alice/", byID[0].MountPoint)

	var byNumeric []handlers.MountInfo
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/storages/numeric/1/mounts", &byNumeric))
	require.Len(t, byNumeric, 1)
	assert.Equal(t, "/", byNumeric[0].MountPoint)

	assert.Equal(t, http.StatusNotFound, f.get(t, "/api/v1/storages/numeric/42/mounts", nil))
	assert.Equal(t, http.StatusBadRequest, f.get(t, "/api/v1/storages/numeric/abc/mounts", nil))
	assert.Equal(t, http.StatusBadRequest, f.get(t, "/api/v1/storages/mounts", nil))

	var entries []catalog.Entry
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/catalog", &entries))
	assert.Len(t, entries, 3)
}

func TestHealth(t *testing.T) {
	f := newFixture(t, nil)
	assert.Equal(t, http.StatusOK, f.get(t, "/health", nil))

	var ready handlers.Response
	require.Equal(t, http.StatusOK, f.get(t, "/health/ready", &ready))
	assert.Equal(t, "healthy", ready.Status)

	failing := newFixture(t, mount.BootstrapFunc(func() error {
		return fmt.Errorf("catalog unreachable")
	}))
	assert.Equal(t, http.StatusServiceUnavailable, failing.get(t, "/health/ready", nil))
	assert.Equal(t, http.StatusInternalServerError, failing.get(t, "/api/v1/resolve?path=/a", nil))
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, nil)
	f.get(t, "/api/v1/resolve?path=/alice/x", nil)

	resp, err := http.Get(f.server.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	text := string(body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, text, "vfsmount_resolver_lookups_total")
	assert.Contains(t, text, "vfsmount_table_mounts 3")
}

func TestRequestTracing(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	telemetry.UseTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		_, _ = telemetry.Init(context.Background(), telemetry.DefaultConfig())
	})

	f := newFixture(t, nil)
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/resolve?path=/alice/notes.txt", nil))
	require.Equal(t, http.StatusNotFound, f.get(t, "/api/v1/storages/numeric/99/mounts", nil))

	byName := map[string][]sdktrace.ReadOnlySpan{}
	for _, span := range sr.Ended() {
		byName[span.Name()] = append(byName[span.Name()], span)
	}

	require.Len(t, byName[telemetry.SpanHTTPRequest], 2)
	require.Len(t, byName[telemetry.SpanResolve], 1)
	require.Len(t, byName[telemetry.SpanFindByNumericID], 1)

	resolve := byName[telemetry.SpanResolve][0]
	assert.Equal(t, byName[telemetry.SpanHTTPRequest][0].SpanContext().SpanID(), resolve.Parent().SpanID())

	attrs := map[string]string{}
	for _, kv := range resolve.Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "/alice/", attrs[telemetry.AttrMountPoint])
	assert.Equal(t, "notes.txt", attrs[telemetry.AttrInternalPath])

	failed := byName[telemetry.SpanFindByNumericID][0]
	assert.Equal(t, "Error", failed.Status().Code.String())
}

func TestAuthRequired(t *testing.T) {
	tokens, err := auth.NewTokenService("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)

	mgr := mount.NewManager()
	storage, err := backend.NewLocal("/srv/root")
	require.NoError(t, err)
	m, err := mount.New(storage, "/", nil)
	require.NoError(t, err)
	mgr.AddMount(m)

	srv := httptest.NewServer(NewRouter(handlers.NewMountHandler(mgr, nil), nil, WithAuth(tokens)))
	defer srv.Close()

	get := func(path, token string) int {
		req, err := http.NewRequest(http.MethodGet, srv.URL+path, nil)
		require.NoError(t, err)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusOK, get("/health", ""))
	assert.Equal(t, http.StatusUnauthorized, get("/api/v1/mounts", ""))

	token, err := tokens.Issue("alice", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, get("/api/v1/mounts", token))
	assert.Equal(t, http.StatusOK, get("/api/v1/resolve?path=/x", token))
}
