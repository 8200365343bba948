package graft

import (
	"fmt"
	"math"

	"github.com/vesselworks/graftplan/pkg/errors"
)

// MinSpacingMM is the minimum longitudinal separation between any two
// fenestrations. The rule is deliberately one-dimensional: it compares
// distances along the graft axis only and ignores clock angle, preserving
// the longitudinal structural integrity of the graft even for openings on
// opposite sides.
const MinSpacingMM = 4.0

// ConflictError reports which existing registry entry blocked an add.
type ConflictError struct {
	Index    int          // position of the conflicting entry
	Existing Fenestration // the entry already in the registry
	GapMM    float64      // longitudinal gap that violated the rule
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("%.1f mm from %s at %.1f mm (entry %d), minimum is %.1f mm",
		e.GapMM, e.Existing.Vessel.ShortLabel, e.Existing.DistanceMM, e.Index+1, MinSpacingMM)
}

// Registry is the ordered collection of fenestrations for one graft.
// Insertion order is preserved: display order is anatomical entry order,
// not sorted by position. Mutation is append-only add plus remove-by-index;
// an edit is modeled as remove + add.
type Registry struct {
	graftLengthMM float64
	items         []Fenestration
}

// NewRegistry creates an empty registry bound to the given graft geometry.
func NewRegistry(spec Spec) *Registry {
	return &Registry{graftLengthMM: spec.LengthMM()}
}

// Add validates f and appends it. On any error the registry is unchanged.
// A spacing violation returns a SPACING_CONFLICT error wrapping a
// *ConflictError that identifies the blocking entry.
func (r *Registry) Add(f Fenestration) error {
	if err := f.validate(r.graftLengthMM); err != nil {
		return err
	}
	for i, existing := range r.items {
		gap := math.Abs(f.DistanceMM - existing.DistanceMM)
		if gap < MinSpacingMM {
			conflict := &ConflictError{Index: i, Existing: existing, GapMM: gap}
			return errors.Wrap(errors.ErrCodeSpacingConflict, conflict,
				"fenestration at %.1f mm too close to existing entry", f.DistanceMM)
		}
	}
	r.items = append(r.items, f)
	return nil
}

// Remove deletes the entry at index i, preserving the order of the rest.
// Removal never needs re-validation: it can only relax the spacing rule.
func (r *Registry) Remove(i int) error {
	if i < 0 || i >= len(r.items) {
		return errors.New(errors.ErrCodeInvalidIndex, "no fenestration at index %d (have %d)", i, len(r.items))
	}
	r.items = append(r.items[:i], r.items[i+1:]...)
	return nil
}

// Clear removes all entries.
func (r *Registry) Clear() {
	r.items = nil
}

// Len returns the number of fenestrations.
func (r *Registry) Len() int { return len(r.items) }

// Empty reports whether the registry has no fenestrations.
func (r *Registry) Empty() bool { return len(r.items) == 0 }

// Items returns the fenestrations in insertion order. The returned slice
// is a copy; mutating it does not affect the registry.
func (r *Registry) Items() []Fenestration {
	out := make([]Fenestration, len(r.items))
	copy(out, r.items)
	return out
}

// At returns the fenestration at index i.
func (r *Registry) At(i int) (Fenestration, error) {
	if i < 0 || i >= len(r.items) {
		return Fenestration{}, errors.New(errors.ErrCodeInvalidIndex, "no fenestration at index %d (have %d)", i, len(r.items))
	}
	return r.items[i], nil
}
