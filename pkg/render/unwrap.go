package render

import (
	"math"

	"github.com/vesselworks/graftplan/pkg/graft"
)

// Point is a position on the flat template, in millimeters. X runs along
// the unrolled circumference, Y along the graft axis with the proximal end
// at 0 and Y increasing toward the distal end.
type Point struct {
	X, Y float64
}

// Unwrap maps cylindrical surface coordinates to the flat template plane:
// the circumferential angle unrolls linearly onto X, and the longitudinal
// distance from the proximal end becomes Y unchanged.
//
// The mapping is pure and periodic in the angle: 0 and 360 degrees land on
// the same X. Both render targets call this with identical arguments for a
// given fenestration, which is what guarantees that preview and print
// agree on placement.
func Unwrap(circumferenceMM, clockAngleDeg, distanceMM float64) Point {
	a := math.Mod(clockAngleDeg, 360)
	if a < 0 {
		a += 360
	}
	return Point{
		X: a / 360 * circumferenceMM,
		Y: distanceMM,
	}
}

// MapFenestration returns the template position of a fenestration center.
func MapFenestration(spec graft.Spec, f graft.Fenestration) Point {
	return Unwrap(spec.CircumferenceMM(), f.AngleDeg(), f.DistanceMM)
}
