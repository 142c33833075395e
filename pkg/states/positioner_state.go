// Package states defines the per-placement working state produced by the
// collision engine for each positioner in a batch.
package states

import (
	"github.com/EngoEngine/ecs"

	"github.com/bxrne/focalplan/pkg/geom"
)

// PositionerState represents one positioner's placement within a batch
type PositionerState struct {
	// data
	Entity *ecs.BasicEntity
	Loc    int32
	Target geom.Point

	// Resolved joint angles; meaningless when Fail is set.
	Theta float64
	Phi   float64

	// Fail is set when the placement fails: unknown location, device out
	// of service, or a kinematically infeasible target or angle.
	Fail bool

	// Placed exclusion polygons, cloned from the model templates.
	ThetaShape geom.Shape
	PhiShape   geom.Shape
}

// NewPositionerState creates a placement state for one location.
func NewPositionerState(loc int32) *PositionerState {
	entity := ecs.NewBasic()
	return &PositionerState{
		Entity: &entity,
		Loc:    loc,
	}
}
