package graft

import (
	"fmt"

	"github.com/vesselworks/graftplan/pkg/errors"
)

// ClockHour is an angular position around the graft expressed as a clock
// face hour. 12 o'clock is anterior and maps to 0 degrees; each hour is a
// 30 degree step clockwise when viewed from the proximal end.
type ClockHour int

// HourFromInt validates n as a clock face hour.
func HourFromInt(n int) (ClockHour, error) {
	h := ClockHour(n)
	if !h.Valid() {
		return 0, errors.New(errors.ErrCodeInvalidClock, "clock hour must be 1-12, got %d", n)
	}
	return h, nil
}

// Valid reports whether h is a real clock face hour.
func (h ClockHour) Valid() bool { return h >= 1 && h <= 12 }

// AngleDeg returns the circumferential angle in degrees, in [0, 360).
func (h ClockHour) AngleDeg() float64 {
	if h == 12 {
		return 0
	}
	return float64(h) * 30
}

// String formats the hour the way clinicians write it.
func (h ClockHour) String() string {
	return fmt.Sprintf("%d o'clock", int(h))
}

// Orientation returns the anatomical direction for the hour, with 12
// anterior, 3 left, 6 posterior, and 9 right.
func (h ClockHour) Orientation() string {
	switch h {
	case 12:
		return "anterior"
	case 3:
		return "left"
	case 6:
		return "posterior"
	case 9:
		return "right"
	case 1, 2:
		return "anterior-left"
	case 4, 5:
		return "posterior-left"
	case 7, 8:
		return "posterior-right"
	case 10, 11:
		return "anterior-right"
	}
	return ""
}
