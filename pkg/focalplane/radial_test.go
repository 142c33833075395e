package focalplane_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bxrne/focalplan/pkg/focalplane"
)

// TEST: GIVEN radii across the plate WHEN DistToAng then AngToDist run THEN the round trip closes below 1e-6 mm
func TestRadialRoundTrip(t *testing.T) {
	for r := 0.5; r <= 12.0; r += 0.5 {
		theta, err := focalplane.DistToAng(r)
		require.NoError(t, err, "radius %f", r)

		back := focalplane.AngToDist(theta)
		assert.InDelta(t, r, back, 1e-6, "radius %f", r)
	}
}

// TEST: GIVEN angles across the plate WHEN AngToDist is evaluated THEN the mapping is monotonically increasing
func TestRadialMonotonic(t *testing.T) {
	prev := focalplane.AngToDist(0)
	assert.InDelta(t, 0.0, prev, 1e-12)
	for theta := 0.001; theta <= 0.03; theta += 0.001 {
		cur := focalplane.AngToDist(theta)
		assert.Greater(t, cur, prev, "theta %f", theta)
		prev = cur
	}
}

// TEST: GIVEN a negative radius, which the mapping never produces, WHEN DistToAng is called THEN the iteration budget trips
func TestRadialOffPlate(t *testing.T) {
	_, err := focalplane.DistToAng(-50.0)
	assert.ErrorIs(t, err, focalplane.ErrRadialConverge)
}
