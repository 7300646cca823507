package logger

import "log/slog"

// Standard field keys for structured logging.
// Use these keys consistently so log lines can be aggregated and queried.
const (
	// Tracing
	KeyTraceID = "trace_id"
	KeySpanID  = "span_id"

	// Session
	KeySessionID  = "session_id"
	KeyUser       = "user"
	KeyCommand    = "command"
	KeyDurationMs = "duration_ms"

	// Namespace
	KeyPath         = "path"          // Path being resolved
	KeyMountPoint   = "mount_point"   // Normalized mount point ("/", "/alice/files/")
	KeyInternalPath = "internal_path" // Path relative to the storage root
	KeyOldPath      = "old_path"      // Source mount point of a move
	KeyNewPath      = "new_path"      // Target mount point of a move
	KeyCount        = "count"         // Number of mounts/entries

	// Storage identity
	KeyStorageID = "storage_id" // String storage identity (hashed when long)
	KeyNumericID = "numeric_id" // Catalogued numeric storage id
	KeyBackend   = "backend"    // Backend type: local, s3
	KeyBucket    = "bucket"     // Object store bucket
	KeyRegion    = "region"     // Object store region

	// Catalog
	KeyCatalog = "catalog" // Catalog type: memory, sqlite, postgres, badger
	KeyDSN     = "dsn"     // Catalog location (path or host, never credentials)

	// HTTP
	KeyRequestID  = "request_id"
	KeyMethod     = "method"
	KeyStatus     = "status"
	KeyBytes      = "bytes"
	KeyRemoteAddr = "remote_addr"
	KeyPort       = "port"

	// Errors
	KeyError = "error"
)

// Path returns a slog.Attr for a path being resolved
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// MountPoint returns a slog.Attr for a normalized mount point
func MountPoint(p string) slog.Attr {
	return slog.String(KeyMountPoint, p)
}

// StorageID returns a slog.Attr for a storage identity
func StorageID(id string) slog.Attr {
	return slog.String(KeyStorageID, id)
}

// NumericID returns a slog.Attr for a numeric storage id
func NumericID(id int64) slog.Attr {
	return slog.Int64(KeyNumericID, id)
}

// Backend returns a slog.Attr for a backend type
func Backend(t string) slog.Attr {
	return slog.String(KeyBackend, t)
}

// Count returns a slog.Attr for a count
func Count(n int) slog.Attr {
	return slog.Int(KeyCount, n)
}

// Err returns a slog.Attr for an error; nil errors produce an empty attr.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}
