package graft

import (
	"github.com/vesselworks/graftplan/pkg/catalog"
)

// Plan ties one graft specification to its fenestration registry. It is
// the unit of per-session state: each interactive session owns exactly one
// Plan and nothing is shared between sessions. All operations are
// synchronous and atomic with respect to rendering; a rejected operation
// leaves the plan untouched.
type Plan struct {
	spec Spec
	reg  *Registry
}

// NewPlan creates a plan for the given device geometry with an empty
// registry.
func NewPlan(spec Spec) *Plan {
	return &Plan{spec: spec, reg: NewRegistry(spec)}
}

// Spec returns the current device geometry.
func (p *Plan) Spec() Spec { return p.spec }

// SelectDevice switches the plan to a new device. The registry is cleared:
// distance and size bounds are device-specific, so an existing layout is
// invalid on a different graft.
func (p *Plan) SelectDevice(spec Spec) {
	p.spec = spec
	p.reg = NewRegistry(spec)
}

// AddFenestration validates and appends a fenestration.
func (p *Plan) AddFenestration(f Fenestration) error {
	return p.reg.Add(f)
}

// RemoveFenestration deletes the fenestration at index i.
func (p *Plan) RemoveFenestration(i int) error {
	return p.reg.Remove(i)
}

// ClearFenestrations removes every fenestration, keeping the device.
func (p *Plan) ClearFenestrations() {
	p.reg.Clear()
}

// Fenestrations returns the current layout in insertion order.
func (p *Plan) Fenestrations() []Fenestration {
	return p.reg.Items()
}

// Empty reports whether the plan has no fenestrations.
func (p *Plan) Empty() bool { return p.reg.Empty() }

// State is the serializable snapshot of a plan, used for plan files and
// session stores.
type State struct {
	Device        string              `json:"device"`
	DiameterMM    float64             `json:"diameter_mm"`
	LengthMM      float64             `json:"length_mm"`
	Fenestrations []FenestrationState `json:"fenestrations"`
}

// FenestrationState is the wire form of one fenestration.
type FenestrationState struct {
	Vessel     catalog.Vessel `json:"vessel"`
	DistanceMM float64        `json:"distance_mm"`
	ClockHour  int            `json:"clock_hour"`
	DiameterMM float64        `json:"diameter_mm"`
}

// State snapshots the plan.
func (p *Plan) State() State {
	items := p.reg.Items()
	st := State{
		Device:        p.spec.Name(),
		DiameterMM:    p.spec.DiameterMM(),
		LengthMM:      p.spec.LengthMM(),
		Fenestrations: make([]FenestrationState, len(items)),
	}
	for i, f := range items {
		st.Fenestrations[i] = FenestrationState{
			Vessel:     f.Vessel,
			DistanceMM: f.DistanceMM,
			ClockHour:  int(f.Hour),
			DiameterMM: f.DiameterMM,
		}
	}
	return st
}

// FromState rebuilds a plan from a snapshot. Every fenestration is re-added
// through the normal validation path, so a tampered or stale snapshot that
// violates the layout rules is rejected rather than silently accepted.
func FromState(st State) (*Plan, error) {
	spec, err := NewSpec(st.Device, st.DiameterMM, st.LengthMM)
	if err != nil {
		return nil, err
	}
	p := NewPlan(spec)
	for _, fs := range st.Fenestrations {
		f := Fenestration{
			Vessel:     fs.Vessel,
			DistanceMM: fs.DistanceMM,
			Hour:       ClockHour(fs.ClockHour),
			DiameterMM: fs.DiameterMM,
		}
		if err := p.AddFenestration(f); err != nil {
			return nil, err
		}
	}
	return p, nil
}
