package sasa

import "errors"

var (
	// ErrUnknownElement indicates an element symbol missing from the radius table
	// while no default radius is configured.
	ErrUnknownElement = errors.New("sasa: unknown element")
	// ErrDegenerateGeometry indicates an empty atom set, coincident atom centres,
	// or a residue with no reference area to divide by.
	ErrDegenerateGeometry = errors.New("sasa: degenerate geometry")
	// ErrInvalidSelection indicates a malformed residue selection.
	ErrInvalidSelection = errors.New("sasa: invalid residue selection")
	// ErrConfiguration indicates invalid engine parameters.
	ErrConfiguration = errors.New("sasa: invalid configuration")
)
