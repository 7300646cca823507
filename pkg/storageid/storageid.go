// Package storageid normalizes backend storage identities for indexing.
//
// Storage identities are free-form strings chosen by each backend
// (e.g. "local::/srv/data/" or "amazon::bucket"). Identities longer than
// MaxLength characters are replaced by their MD5 digest rendered as lowercase
// hex, so indexed ids never exceed MaxLength. The same transform must be applied
// on registration and on lookup.
package storageid

import (
	"crypto/md5"
	"encoding/hex"
)

// MaxLength is the longest identity stored verbatim.
const MaxLength = 64

// Shorten returns id unchanged when it fits in MaxLength, otherwise the
// 32-character hex MD5 digest of id.
func Shorten(id string) string {
	if len(id) <= MaxLength {
		return id
	}
	sum := md5.Sum([]byte(id))
	return hex.EncodeToString(sum[:])
}

// IsHashed reports whether Shorten would replace id with a digest.
func IsHashed(id string) bool {
	return len(id) > MaxLength
}
