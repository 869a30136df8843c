package registry

import "errors"

// Sentinel errors for claim and release failures. Callers branch with
// errors.Is; the HTTP layer maps them onto status codes.
var (
	// ErrInvalidArgument covers empty identifiers, unknown resource types,
	// and non-positive TTLs.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotOwner is returned when an agent releases a work unit it does
	// not currently hold.
	ErrNotOwner = errors.New("agent does not own work unit")

	// ErrUnknownWorkUnit is returned for operations on a path no claim has
	// ever touched.
	ErrUnknownWorkUnit = errors.New("unknown work unit")
)
