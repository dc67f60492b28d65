package world

import "errors"

var (
	ErrOutOfBounds     = errors.New("coordinate out of bounds")
	ErrNoNeighbor      = errors.New("no neighbor in direction")
	ErrWaterCell       = errors.New("cell is water")
	ErrRiverExists     = errors.New("river already on edge")
	ErrNoRiver         = errors.New("no river on edge")
	ErrCornerFlow      = errors.New("river flow disagrees at corner")
	ErrRoadNotAllowed  = errors.New("road not allowed across edge")
	ErrFeatureNotValid = errors.New("feature not valid for cell")
)
