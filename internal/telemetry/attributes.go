package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys. Mount table attributes use the "vfs." prefix.
const (
	AttrPath         = "vfs.path"
	AttrMountPoint   = "vfs.mount_point"
	AttrInternalPath = "vfs.internal_path"
	AttrStorageID    = "vfs.storage_id"
	AttrNumericID    = "vfs.numeric_id"
	AttrBackend      = "vfs.backend"
	AttrMountCount   = "vfs.mount_count"

	AttrHTTPMethod = "http.request.method"
	AttrHTTPRoute  = "http.route"
	AttrHTTPStatus = "http.response.status_code"
)

// Span names, formatted <component>.<operation>.
const (
	SpanHTTPRequest     = "http.request"
	SpanResolve         = "mount.resolve"
	SpanFindIn          = "mount.find_in"
	SpanFindByStorageID = "mount.find_by_storage_id"
	SpanFindByNumericID = "mount.find_by_numeric_id"
	SpanBootstrap       = "mount.bootstrap"
	SpanRegister        = "catalog.register"
)

func Path(p string) attribute.KeyValue { return attribute.String(AttrPath, p) }

func MountPoint(p string) attribute.KeyValue { return attribute.String(AttrMountPoint, p) }

func InternalPath(p string) attribute.KeyValue { return attribute.String(AttrInternalPath, p) }

func StorageID(id string) attribute.KeyValue { return attribute.String(AttrStorageID, id) }

func NumericID(id int64) attribute.KeyValue { return attribute.Int64(AttrNumericID, id) }

func Backend(t string) attribute.KeyValue { return attribute.String(AttrBackend, t) }

func MountCount(n int) attribute.KeyValue { return attribute.Int(AttrMountCount, n) }

func HTTPMethod(m string) attribute.KeyValue { return attribute.String(AttrHTTPMethod, m) }

func HTTPRoute(r string) attribute.KeyValue { return attribute.String(AttrHTTPRoute, r) }

func HTTPStatus(code int) attribute.KeyValue { return attribute.Int(AttrHTTPStatus, code) }
