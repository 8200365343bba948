package graft

import (
	"math"
	"testing"
)

const tol = 1e-9

func TestCircumferenceDerivedFromDiameter(t *testing.T) {
	tests := []struct {
		name       string
		diameterMM float64
	}{
		{name: "20mm", diameterMM: 20},
		{name: "24mm", diameterMM: 24},
		{name: "36mm", diameterMM: 36},
		{name: "fractional", diameterMM: 26.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSpec("test", tt.diameterMM, 120)
			if err != nil {
				t.Fatalf("NewSpec: %v", err)
			}
			want := math.Pi * tt.diameterMM
			if got := s.CircumferenceMM(); math.Abs(got-want) > tol {
				t.Errorf("CircumferenceMM() = %v, want %v", got, want)
			}
		})
	}
}

func TestNewSpecRejectsBadGeometry(t *testing.T) {
	tests := []struct {
		name       string
		deviceName string
		diameterMM float64
		lengthMM   float64
	}{
		{name: "zero diameter", deviceName: "d", diameterMM: 0, lengthMM: 100},
		{name: "negative diameter", deviceName: "d", diameterMM: -24, lengthMM: 100},
		{name: "zero length", deviceName: "d", diameterMM: 24, lengthMM: 0},
		{name: "empty name", deviceName: "", diameterMM: 24, lengthMM: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSpec(tt.deviceName, tt.diameterMM, tt.lengthMM); err == nil {
				t.Error("NewSpec should reject invalid geometry")
			}
		})
	}
}

func TestConcreteScenarioCircumference(t *testing.T) {
	// 24mm diameter gives roughly 75.4mm of unrolled width.
	s, err := NewSpec("Tube graft 24 x 145", 24, 145)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.CircumferenceMM(); math.Abs(got-75.398223686) > 1e-6 {
		t.Errorf("CircumferenceMM() = %v, want ~75.398", got)
	}
}
