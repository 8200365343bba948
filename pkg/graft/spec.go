// Package graft holds the planning data model: the immutable graft
// specification, the fenestration records, and the registry that enforces
// the layout rules.
//
// All geometry in this package is expressed in millimeters. The registry is
// the single mutable structure; a Plan ties one registry to one graft
// specification and is the unit of per-session state.
package graft

import (
	"fmt"
	"math"

	"github.com/vesselworks/graftplan/pkg/catalog"
	"github.com/vesselworks/graftplan/pkg/errors"
)

// Spec is the immutable geometry of one graft device. The circumference is
// always derived from the diameter so the two can never drift apart.
type Spec struct {
	name       string
	diameterMM float64
	lengthMM   float64
}

// NewSpec validates the device geometry and returns an immutable Spec.
func NewSpec(name string, diameterMM, lengthMM float64) (Spec, error) {
	if name == "" {
		return Spec{}, errors.New(errors.ErrCodeInvalidDevice, "device name cannot be empty")
	}
	if diameterMM <= 0 {
		return Spec{}, errors.New(errors.ErrCodeInvalidDevice, "device diameter must be positive, got %.1f mm", diameterMM)
	}
	if lengthMM <= 0 {
		return Spec{}, errors.New(errors.ErrCodeInvalidDevice, "device length must be positive, got %.1f mm", lengthMM)
	}
	return Spec{name: name, diameterMM: diameterMM, lengthMM: lengthMM}, nil
}

// SpecFromDevice builds a Spec from a catalog device entry.
func SpecFromDevice(d catalog.Device) (Spec, error) {
	return NewSpec(d.Name, d.DiameterMM, d.LengthMM)
}

// Name returns the device identifier.
func (s Spec) Name() string { return s.name }

// DiameterMM returns the graft diameter in millimeters.
func (s Spec) DiameterMM() float64 { return s.diameterMM }

// LengthMM returns the graft length in millimeters.
func (s Spec) LengthMM() float64 { return s.lengthMM }

// CircumferenceMM returns the unrolled template width. It is recomputed
// from the diameter on every call, never stored.
func (s Spec) CircumferenceMM() float64 { return math.Pi * s.diameterMM }

// Title returns the heading drawn on rendered templates.
func (s Spec) Title() string {
	return fmt.Sprintf("%s (%gmm x %gmm)", s.name, s.diameterMM, s.lengthMM)
}

// Zero reports whether the spec is the zero value (no device selected).
func (s Spec) Zero() bool { return s == Spec{} }
