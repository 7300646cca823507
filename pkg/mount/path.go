package mount

import (
	"path"
	"strings"
)

// Normalizer canonicalizes a path string into the form used by the mount table.
type Normalizer interface {
	Normalize(p string) string
}

// NormalizerFunc adapts a function to the Normalizer interface.
type NormalizerFunc func(p string) string

// Normalize implements Normalizer.
func (f NormalizerFunc) Normalize(p string) string {
	return f(p)
}

// PathNormalizer is the default Normalizer.
//
// It treats backslashes as separators, collapses repeated separators, resolves
// "." and ".." segments, forces a leading "/" and drops any trailing "/".
// The empty path normalizes to "/".
type PathNormalizer struct{}

// Normalize implements Normalizer.
func (PathNormalizer) Normalize(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

// DefaultNormalizer is used by New and by managers built without WithNormalizer.
var DefaultNormalizer Normalizer = PathNormalizer{}

// FormatMountPoint converts p into a table key: normalized, with a single
// trailing separator unless the result is the root "/".
func FormatMountPoint(n Normalizer, p string) string {
	if n == nil {
		n = DefaultNormalizer
	}
	p = n.Normalize(p)
	if len(p) > 1 {
		p += "/"
	}
	return p
}
