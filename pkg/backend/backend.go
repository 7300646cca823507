// Package backend provides the storage references attached to mount points.
//
// Backends here only carry identity and connection handles; the mount
// registry never performs I/O through them.
package backend

import "errors"

// Supported backend types, as used in configuration.
const (
	TypeLocal = "local"
	TypeS3    = "s3"
)

// Identity prefixes. A storage id is "<prefix>::<location>".
const (
	prefixLocal = "local::"
	prefixS3    = "amazon::"
)

var (
	// ErrMissingRoot is returned when a local backend has no root directory.
	ErrMissingRoot = errors.New("local backend requires a root directory")

	// ErrMissingBucket is returned when an S3 backend has no bucket.
	ErrMissingBucket = errors.New("s3 backend requires a bucket")
)
