package body

import "errors"

// Domain errors shared across the simulation core.
var (
	// ErrInvalidParameter indicates a rejected value (non-positive mass,
	// radius or speed, malformed snapshot). The operation is refused and
	// simulation state is left unchanged.
	ErrInvalidParameter = errors.New("astrolab: invalid parameter")

	// ErrNotFound indicates an operation referenced a body id that is no
	// longer live, e.g. a stale handle after a merge or capture.
	ErrNotFound = errors.New("astrolab: body not found")

	// ErrIntegrity indicates a broken internal invariant such as a
	// duplicate id. It is never silently repaired; the engine halts.
	ErrIntegrity = errors.New("astrolab: integrity violation")
)
