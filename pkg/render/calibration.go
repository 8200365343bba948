package render

import (
	"fmt"

	"github.com/vesselworks/graftplan/pkg/graft"
)

// Calibration artifact constants, in millimeters.
const (
	// GridStepMM is the interval of the labeled longitudinal grid.
	GridStepMM = 15.0

	// ReferenceBarMM is the length of the printed verification bars. If a
	// printed bar does not measure exactly this length, the template was
	// rescaled and must not be used.
	ReferenceBarMM = 10.0
)

// AlignmentOffsetsMM are the longitudinal positions of the device
// structural landmarks, drawn heavier and gold. Offsets beyond the graft
// length are skipped.
var AlignmentOffsetsMM = []float64{30, 60, 90, 120}

// GridLine is one labeled longitudinal grid line.
type GridLine struct {
	YMM   float64
	Label string
}

// AlignmentLine marks a device structural landmark.
type AlignmentLine struct {
	YMM float64
}

// ReferenceBar is a bar of known physical length for post-print
// verification, placed away from the cut outline.
type ReferenceBar struct {
	From, To Point
	Label    string
}

// EndLabel is the unambiguous text at each end of the template.
type EndLabel struct {
	At   Point
	Text string
}

// MarkerSet is the full set of calibration artifacts for one graft. It is
// deterministic and stateless given a specification; it does not depend on
// the fenestration layout.
type MarkerSet struct {
	GridLines      []GridLine
	AlignmentLines []AlignmentLine
	Bars           []ReferenceBar
	Proximal       EndLabel
	Distal         EndLabel
}

// Calibration builds the marker set for a graft specification.
func Calibration(spec graft.Spec) MarkerSet {
	length := spec.LengthMM()
	circ := spec.CircumferenceMM()

	var m MarkerSet
	for y := 0.0; y <= length; y += GridStepMM {
		m.GridLines = append(m.GridLines, GridLine{YMM: y, Label: fmt.Sprintf("%g", y)})
	}
	for _, y := range AlignmentOffsetsMM {
		if y <= length {
			m.AlignmentLines = append(m.AlignmentLines, AlignmentLine{YMM: y})
		}
	}

	// One horizontal and one vertical bar so both print axes get checked.
	barX := circ + 8
	m.Bars = []ReferenceBar{
		{From: Point{X: barX, Y: 10}, To: Point{X: barX + ReferenceBarMM, Y: 10}, Label: "10 mm"},
		{From: Point{X: barX, Y: 22}, To: Point{X: barX, Y: 22 + ReferenceBarMM}, Label: "10 mm"},
	}

	m.Proximal = EndLabel{
		At:   Point{X: 0, Y: -3},
		Text: "PROXIMAL (0 mm)",
	}
	m.Distal = EndLabel{
		At:   Point{X: 0, Y: length + 7},
		Text: fmt.Sprintf("DISTAL (%g mm)", length),
	}
	return m
}

// Marker drawing styles.
var (
	gridStyle  = LineStyle{Color: "#9ca3af", WidthMM: 0.2}
	alignStyle = LineStyle{Color: "#b8860b", WidthMM: 0.6}
	barStyle   = LineStyle{Color: "#000000", WidthMM: 0.8}

	gridLabelStyle = TextStyle{Color: "#6b7280", SizeMM: 2.8, Anchor: AnchorEnd}
	barLabelStyle  = TextStyle{Color: "#000000", SizeMM: 2.8, Anchor: AnchorStart}
	endLabelStyle  = TextStyle{Color: "#000000", SizeMM: 3.2, Anchor: AnchorStart, Bold: true}
)

// Draw renders every calibration artifact onto the surface. Grid and
// alignment lines span the full unrolled width.
func (m MarkerSet) Draw(s Surface, spec graft.Spec) {
	circ := spec.CircumferenceMM()

	for _, g := range m.GridLines {
		s.DrawLine(Point{X: 0, Y: g.YMM}, Point{X: circ, Y: g.YMM}, gridStyle)
		s.DrawText(Point{X: -2, Y: g.YMM + 1}, g.Label, gridLabelStyle)
	}
	for _, a := range m.AlignmentLines {
		s.DrawLine(Point{X: 0, Y: a.YMM}, Point{X: circ, Y: a.YMM}, alignStyle)
	}
	for _, b := range m.Bars {
		s.DrawLine(b.From, b.To, barStyle)
		// Serif ticks at the bar ends make a ruler check unambiguous.
		if b.From.Y == b.To.Y {
			s.DrawLine(Point{X: b.From.X, Y: b.From.Y - 1.2}, Point{X: b.From.X, Y: b.From.Y + 1.2}, barStyle)
			s.DrawLine(Point{X: b.To.X, Y: b.To.Y - 1.2}, Point{X: b.To.X, Y: b.To.Y + 1.2}, barStyle)
			s.DrawText(Point{X: b.From.X, Y: b.From.Y - 2.5}, b.Label, barLabelStyle)
		} else {
			s.DrawLine(Point{X: b.From.X - 1.2, Y: b.From.Y}, Point{X: b.From.X + 1.2, Y: b.From.Y}, barStyle)
			s.DrawLine(Point{X: b.To.X - 1.2, Y: b.To.Y}, Point{X: b.To.X + 1.2, Y: b.To.Y}, barStyle)
			s.DrawText(Point{X: b.From.X + 2.5, Y: (b.From.Y + b.To.Y) / 2}, b.Label, barLabelStyle)
		}
	}

	s.DrawText(m.Proximal.At, m.Proximal.Text, endLabelStyle)
	s.DrawText(m.Distal.At, m.Distal.Text, endLabelStyle)
}
