package backend

import (
	"path/filepath"
	"strings"
)

// Local is a directory on the local filesystem.
type Local struct {
	root string
}

// NewLocal creates a local backend rooted at root. The root is cleaned and
// always ends with a separator, so "/srv/data" and "/srv/data/" are the same
// storage.
func NewLocal(root string) (*Local, error) {
	if strings.TrimSpace(root) == "" {
		return nil, ErrMissingRoot
	}

	root = filepath.ToSlash(filepath.Clean(root))
	if !strings.HasSuffix(root, "/") {
		root += "/"
	}
	return &Local{root: root}, nil
}

// Type returns the backend type.
func (l *Local) Type() string {
	return TypeLocal
}

// ID returns "local::<root>/".
func (l *Local) ID() string {
	return prefixLocal + l.root
}

// Root returns the backend root directory, separator-terminated.
func (l *Local) Root() string {
	return l.root
}

// Path maps a mount-internal path onto the local filesystem.
// ".." segments cannot escape the root.
func (l *Local) Path(internalPath string) string {
	clean := filepath.Clean("/" + filepath.FromSlash(internalPath))
	return filepath.Join(filepath.FromSlash(l.root), clean)
}
