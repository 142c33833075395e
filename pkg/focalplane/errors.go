package focalplane

import "errors"

var (
	// ErrLengthMismatch indicates the record's per-location arrays differ in length.
	ErrLengthMismatch = errors.New("focalplane: record arrays must have equal length")
	// ErrDuplicateLoc indicates a location id appears more than once.
	ErrDuplicateLoc = errors.New("focalplane: duplicate location id")
	// ErrUnknownState indicates a state bitmask carries unrecognised bits.
	ErrUnknownState = errors.New("focalplane: unknown device state bits")
	// ErrUnknownLoc indicates a location id is not part of the model.
	ErrUnknownLoc = errors.New("focalplane: unknown location id")
	// ErrRadialConverge indicates the radial inverse exhausted its iteration
	// budget, as it does for a radius the mapping never produces.
	ErrRadialConverge = errors.New("focalplane: radial inverse did not converge")
)
