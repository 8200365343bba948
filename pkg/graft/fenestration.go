package graft

import (
	"fmt"

	"github.com/vesselworks/graftplan/pkg/catalog"
	"github.com/vesselworks/graftplan/pkg/errors"
)

// Fenestration size bounds in millimeters.
const (
	MinFenestrationDiameterMM = 4.0
	MaxFenestrationDiameterMM = 12.0
)

// Fenestration is one planned circular opening in the graft wall.
// Its identity is its position in the registry; there is no separate ID.
type Fenestration struct {
	Vessel     catalog.Vessel // target vessel (label and color come from the catalog)
	DistanceMM float64        // longitudinal distance from the proximal end
	Hour       ClockHour      // circumferential clock position
	DiameterMM float64        // opening diameter
}

// AngleDeg returns the circumferential angle of the fenestration in degrees.
func (f Fenestration) AngleDeg() float64 { return f.Hour.AngleDeg() }

// RadiusMM returns the drawn opening radius.
func (f Fenestration) RadiusMM() float64 { return f.DiameterMM / 2 }

// Annotation returns the text drawn beside the marker,
// e.g. "Ø6.0 @ 50.0 / 12 o'clock".
func (f Fenestration) Annotation() string {
	return fmt.Sprintf("Ø%.1f @ %.1f / %s", f.DiameterMM, f.DistanceMM, f.Hour)
}

// validate checks the fenestration parameters against the graft length.
// It reports the first violation; the caller guarantees no mutation has
// happened yet.
func (f Fenestration) validate(graftLengthMM float64) error {
	if f.Vessel.Key == "" {
		return errors.New(errors.ErrCodeInvalidVessel, "fenestration has no target vessel")
	}
	if !f.Hour.Valid() {
		return errors.New(errors.ErrCodeInvalidClock, "clock hour must be 1-12, got %d", int(f.Hour))
	}
	if f.DistanceMM < 0 || f.DistanceMM > graftLengthMM {
		return errors.New(errors.ErrCodeInvalidDistance,
			"distance %.1f mm outside graft range [0, %.1f]", f.DistanceMM, graftLengthMM)
	}
	if f.DiameterMM < MinFenestrationDiameterMM || f.DiameterMM > MaxFenestrationDiameterMM {
		return errors.New(errors.ErrCodeInvalidDiameter,
			"fenestration diameter %.1f mm outside range [%.1f, %.1f]",
			f.DiameterMM, MinFenestrationDiameterMM, MaxFenestrationDiameterMM)
	}
	return nil
}
