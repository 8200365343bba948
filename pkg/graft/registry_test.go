package graft

import (
	stderrors "errors"
	"testing"

	"github.com/vesselworks/graftplan/pkg/catalog"
	"github.com/vesselworks/graftplan/pkg/errors"
)

func testSpec(t *testing.T) Spec {
	t.Helper()
	s, err := NewSpec("Tube graft 24 x 145", 24, 145)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func testVessel(key, label string) catalog.Vessel {
	return catalog.Vessel{Key: key, Name: key, ShortLabel: label, Color: "#dc2626"}
}

func fen(vessel catalog.Vessel, distance float64, hour ClockHour, size float64) Fenestration {
	return Fenestration{Vessel: vessel, DistanceMM: distance, Hour: hour, DiameterMM: size}
}

func TestAddValid(t *testing.T) {
	r := NewRegistry(testSpec(t))
	sma := testVessel("sma", "SMA")

	if err := r.Add(fen(sma, 50, 12, 6)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}
}

func TestAddRejectsInvalidParameters(t *testing.T) {
	sma := testVessel("sma", "SMA")

	tests := []struct {
		name     string
		f        Fenestration
		wantCode errors.Code
	}{
		{
			name:     "distance below zero",
			f:        fen(sma, -0.1, 12, 6),
			wantCode: errors.ErrCodeInvalidDistance,
		},
		{
			name:     "distance beyond length",
			f:        fen(sma, 145.1, 12, 6),
			wantCode: errors.ErrCodeInvalidDistance,
		},
		{
			name:     "diameter below minimum",
			f:        fen(sma, 50, 12, 3.9),
			wantCode: errors.ErrCodeInvalidDiameter,
		},
		{
			name:     "diameter above maximum",
			f:        fen(sma, 50, 12, 12.1),
			wantCode: errors.ErrCodeInvalidDiameter,
		},
		{
			name:     "invalid clock hour",
			f:        fen(sma, 50, 0, 6),
			wantCode: errors.ErrCodeInvalidClock,
		},
		{
			name:     "missing vessel",
			f:        fen(catalog.Vessel{}, 50, 12, 6),
			wantCode: errors.ErrCodeInvalidVessel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry(testSpec(t))
			err := r.Add(tt.f)
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("Add() error = %v, want code %s", err, tt.wantCode)
			}
			if r.Len() != 0 {
				t.Errorf("registry mutated on rejected add: Len() = %d", r.Len())
			}
		})
	}
}

func TestAddBoundaryValues(t *testing.T) {
	sma := testVessel("sma", "SMA")
	rra := testVessel("rra", "RRA")

	r := NewRegistry(testSpec(t))
	// Proximal and distal extremes are both valid, as are the exact
	// diameter bounds.
	if err := r.Add(fen(sma, 0, 12, 4.0)); err != nil {
		t.Errorf("distance=0, size=4.0 should be valid: %v", err)
	}
	if err := r.Add(fen(rra, 145, 3, 12.0)); err != nil {
		t.Errorf("distance=length, size=12.0 should be valid: %v", err)
	}
}

func TestSpacingConflict(t *testing.T) {
	sma := testVessel("sma", "SMA")
	rra := testVessel("rra", "RRA")

	r := NewRegistry(testSpec(t))
	if err := r.Add(fen(sma, 50, 12, 6)); err != nil {
		t.Fatal(err)
	}

	// |53-50| = 3 < 4: rejected even though the clock angles differ.
	err := r.Add(fen(rra, 53, 3, 5))
	if !errors.Is(err, errors.ErrCodeSpacingConflict) {
		t.Fatalf("Add() error = %v, want SPACING_CONFLICT", err)
	}
	if r.Len() != 1 {
		t.Errorf("registry mutated on rejected add: Len() = %d, want 1", r.Len())
	}

	// The conflict names the blocking entry.
	var conflict *ConflictError
	if !stderrors.As(err, &conflict) {
		t.Fatal("spacing error should wrap a *ConflictError")
	}
	if conflict.Index != 0 {
		t.Errorf("conflict.Index = %d, want 0", conflict.Index)
	}
	if conflict.Existing.DistanceMM != 50 {
		t.Errorf("conflict.Existing.DistanceMM = %v, want 50", conflict.Existing.DistanceMM)
	}

	// |54-50| = 4 is exactly the minimum and is allowed.
	if err := r.Add(fen(rra, 54, 3, 5)); err != nil {
		t.Errorf("gap of exactly 4.0 mm should be accepted: %v", err)
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
}

func TestInsertionOrderPreserved(t *testing.T) {
	r := NewRegistry(testSpec(t))
	// Deliberately out of longitudinal order: display order is entry
	// order, not sorted by position.
	entries := []Fenestration{
		fen(testVessel("sma", "SMA"), 100, 12, 6),
		fen(testVessel("celiac", "CA"), 20, 12, 8),
		fen(testVessel("rra", "RRA"), 60, 3, 6),
	}
	for _, f := range entries {
		if err := r.Add(f); err != nil {
			t.Fatal(err)
		}
	}

	items := r.Items()
	for i, f := range entries {
		if items[i].Vessel.Key != f.Vessel.Key {
			t.Errorf("items[%d].Vessel.Key = %q, want %q", i, items[i].Vessel.Key, f.Vessel.Key)
		}
	}
}

func TestRemove(t *testing.T) {
	r := NewRegistry(testSpec(t))
	keys := []string{"celiac", "sma", "rra", "lra"}
	for i, k := range keys {
		if err := r.Add(fen(testVessel(k, k), float64(20+i*20), 12, 6)); err != nil {
			t.Fatal(err)
		}
	}

	if err := r.Remove(1); err != nil {
		t.Fatalf("Remove(1): %v", err)
	}
	if r.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", r.Len())
	}

	want := []string{"celiac", "rra", "lra"}
	for i, k := range want {
		got, err := r.At(i)
		if err != nil {
			t.Fatal(err)
		}
		if got.Vessel.Key != k {
			t.Errorf("At(%d).Vessel.Key = %q, want %q", i, got.Vessel.Key, k)
		}
	}

	if err := r.Remove(7); !errors.Is(err, errors.ErrCodeInvalidIndex) {
		t.Errorf("Remove(7) error = %v, want INVALID_INDEX", err)
	}
	if err := r.Remove(-1); !errors.Is(err, errors.ErrCodeInvalidIndex) {
		t.Errorf("Remove(-1) error = %v, want INVALID_INDEX", err)
	}
}

func TestRemoveThenReAddRelaxesSpacing(t *testing.T) {
	r := NewRegistry(testSpec(t))
	if err := r.Add(fen(testVessel("sma", "SMA"), 50, 12, 6)); err != nil {
		t.Fatal(err)
	}
	if err := r.Add(fen(testVessel("rra", "RRA"), 52, 3, 5)); !errors.Is(err, errors.ErrCodeSpacingConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err := r.Remove(0); err != nil {
		t.Fatal(err)
	}
	if err := r.Add(fen(testVessel("rra", "RRA"), 52, 3, 5)); err != nil {
		t.Errorf("add after removal should succeed: %v", err)
	}
}

func TestClear(t *testing.T) {
	r := NewRegistry(testSpec(t))
	if err := r.Add(fen(testVessel("sma", "SMA"), 50, 12, 6)); err != nil {
		t.Fatal(err)
	}
	r.Clear()
	if !r.Empty() {
		t.Error("Clear() should leave the registry empty")
	}
}
