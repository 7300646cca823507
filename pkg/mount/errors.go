package mount

import "errors"

var (
	// ErrNotFound is returned when no mount owns the queried path.
	// It is an expected outcome for paths outside every configured mount.
	ErrNotFound = errors.New("no mount found for path")

	// ErrInvalidState is returned by MoveMount when the source mount point
	// has no entry in the table.
	ErrInvalidState = errors.New("mount table in invalid state")

	// ErrNoTranslator is returned by FindByNumericID when the manager was
	// built without a numeric id translator.
	ErrNoTranslator = errors.New("no numeric storage id translator configured")

	// ErrNilStorage is returned when constructing a mount without a backend.
	ErrNilStorage = errors.New("mount storage is nil")
)
