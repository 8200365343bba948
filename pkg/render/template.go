package render

import (
	"fmt"

	"github.com/vesselworks/graftplan/pkg/errors"
	"github.com/vesselworks/graftplan/pkg/graft"
)

// Template drawing styles.
var (
	outlineStyle = ShapeStyle{Stroke: "#000000", StrokeWidthMM: 0.5}

	clockLineStyle  = LineStyle{Color: "#2563eb", WidthMM: 0.25, Dashed: true}
	clockLabelStyle = TextStyle{Color: "#2563eb", SizeMM: 2.8, Anchor: AnchorMiddle}

	titleStyle         = TextStyle{Color: "#000000", SizeMM: 4.5, Anchor: AnchorStart, Bold: true}
	fenLabelStyle      = TextStyle{Color: "#000000", SizeMM: 3.2, Anchor: AnchorStart, Bold: true}
	fenAnnotationStyle = TextStyle{Color: "#374151", SizeMM: 2.5, Anchor: AnchorStart}

	instructionHeadStyle = TextStyle{Color: "#000000", SizeMM: 3.5, Anchor: AnchorStart, Bold: true}
	instructionStyle     = TextStyle{Color: "#111827", SizeMM: 3.0, Anchor: AnchorStart}
	disclaimerStyle      = TextStyle{Color: "#6b7280", SizeMM: 2.5, Anchor: AnchorStart}
)

// clockReferenceHours are the hours drawn as dashed reference lines across
// the template.
var clockReferenceHours = []graft.ClockHour{12, 3, 6, 9}

// Template is a fully resolved drawing of one plan: the graft outline, the
// calibration markers, and one marker per fenestration. It is read-only
// with respect to the plan and can be drawn any number of times.
type Template struct {
	spec    graft.Spec
	fens    []graft.Fenestration
	markers MarkerSet
}

// NewTemplate captures the plan for rendering. An empty layout is a
// recognized state, reported as an EMPTY_LAYOUT error so the caller can
// show a placeholder instead of an empty drawing.
func NewTemplate(p *graft.Plan) (*Template, error) {
	if p.Empty() {
		return nil, errors.New(errors.ErrCodeEmptyLayout, "plan has no fenestrations")
	}
	return &Template{
		spec:    p.Spec(),
		fens:    p.Fenestrations(),
		markers: Calibration(p.Spec()),
	}, nil
}

// Spec returns the graft geometry the template was built from.
func (t *Template) Spec() graft.Spec { return t.spec }

// Fenestrations returns the captured layout in insertion order.
func (t *Template) Fenestrations() []graft.Fenestration {
	out := make([]graft.Fenestration, len(t.fens))
	copy(out, t.fens)
	return out
}

// Draw renders the geometric content shared by every target: the title,
// the cut outline of exactly circumference x length, the calibration
// markers, the clock reference lines, and the fenestration markers.
func (t *Template) Draw(s Surface) {
	circ := t.spec.CircumferenceMM()
	length := t.spec.LengthMM()

	s.DrawText(Point{X: 0, Y: -10}, t.spec.Title(), titleStyle)
	s.DrawRect(Point{X: 0, Y: 0}, circ, length, outlineStyle)

	t.markers.Draw(s, t.spec)
	t.drawClockLines(s)

	for i, f := range t.fens {
		t.drawFenestration(s, i, f)
	}
}

// DrawDocument renders the same geometry as Draw plus the printed
// instruction block required on the fixed-scale document.
func (t *Template) DrawDocument(s Surface) {
	t.Draw(s)

	y := t.spec.LengthMM() + marginBottomMM + 4
	s.DrawText(Point{X: 0, Y: y}, "PRINT INSTRUCTIONS", instructionHeadStyle)
	y += 6
	for _, line := range t.Instructions() {
		s.DrawText(Point{X: 0, Y: y}, line, instructionStyle)
		y += 5.5
	}
	y += 2
	s.DrawText(Point{X: 0, Y: y}, Disclaimer, disclaimerStyle)
}

// Instructions returns the numbered print instructions for this template.
func (t *Template) Instructions() []string {
	return []string{
		`1. Print at 100% scale (actual size). Never use "fit to page".`,
		"2. Verify each reference bar measures exactly 10 mm; regenerate the template if it does not.",
		"3. Cut along the outer rectangle.",
		"4. Wrap into a cylinder with 12 o'clock anterior; the left and right edges meet at 12 o'clock.",
		fmt.Sprintf("5. Expected cylinder diameter after wrapping: %.1f mm.", t.spec.DiameterMM()),
		"6. Mark the fenestration circles onto the graft before cutting.",
	}
}

// Disclaimer is printed on every exported document.
const Disclaimer = "Prototype for demonstration purposes only. Not for clinical use without validation and regulatory approval."

func (t *Template) drawClockLines(s Surface) {
	circ := t.spec.CircumferenceMM()
	length := t.spec.LengthMM()

	for _, h := range clockReferenceHours {
		x := Unwrap(circ, h.AngleDeg(), 0).X
		s.DrawLine(Point{X: x, Y: 0}, Point{X: x, Y: length}, clockLineStyle)
		s.DrawText(Point{X: x, Y: length + 12}, fmt.Sprintf("%d", int(h)), clockLabelStyle)
	}
	// After wrapping, the right edge lands on 12 o'clock again.
	s.DrawText(Point{X: circ, Y: length + 12}, "12", clockLabelStyle)
}

func (t *Template) drawFenestration(s Surface, i int, f graft.Fenestration) {
	c := MapFenestration(t.spec, f)

	s.DrawCircle(c, f.RadiusMM(), ShapeStyle{
		Fill:          f.Vessel.Color,
		Opacity:       0.7,
		Stroke:        "#000000",
		StrokeWidthMM: 0.3,
	})

	labelX := c.X + f.RadiusMM() + 2
	s.DrawText(Point{X: labelX, Y: c.Y}, fmt.Sprintf("F%d %s", i+1, f.Vessel.ShortLabel), fenLabelStyle)
	s.DrawText(Point{X: labelX, Y: c.Y + 3.5}, f.Annotation(), fenAnnotationStyle)
}
