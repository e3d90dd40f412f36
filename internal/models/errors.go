package models

import "errors"

// Error kinds shared by storage, the core and the transport layer.
// Callers wrap them with context using fmt.Errorf("%w: ...") and classify
// with errors.Is.
var (
	// ErrNotFound means the referenced entity does not exist or is out of
	// scope for the given house.
	ErrNotFound = errors.New("not found")

	// ErrConflict means a uniqueness or state violation: duplicate payment,
	// occupied room, duplicate active contact, expense already paid.
	ErrConflict = errors.New("conflict")

	// ErrInvalidRelation means the entity exists but belongs to a different
	// house than expected.
	ErrInvalidRelation = errors.New("invalid relation")

	// ErrInvalidState means preconditions about aggregate state are unmet,
	// e.g. a house with no active members.
	ErrInvalidState = errors.New("invalid state")

	// ErrInvalidArgument means the input itself is malformed.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrPermissionDenied means the caller does not own the house.
	ErrPermissionDenied = errors.New("permission denied")
)
