package render

import "github.com/vesselworks/graftplan/pkg/graft"

// Surface is the drawing-primitive capability consumed by the template.
// Coordinates and sizes passed to a Surface are always millimeters in
// template space; the implementation owns the affine transform to its
// target (screen pixels, document units) and nothing else.
type Surface interface {
	// DrawLine draws a straight stroke from one point to another.
	DrawLine(from, to Point, style LineStyle)
	// DrawCircle draws a circle around center.
	DrawCircle(center Point, radiusMM float64, style ShapeStyle)
	// DrawRect draws an axis-aligned rectangle from its top-left origin.
	DrawRect(origin Point, widthMM, heightMM float64, style ShapeStyle)
	// DrawText draws a single line of text. The point is the baseline
	// position; horizontal alignment follows the style's anchor.
	DrawText(at Point, text string, style TextStyle)
}

// LineStyle controls stroke appearance.
type LineStyle struct {
	Color   string  // stroke color as #rrggbb
	WidthMM float64 // stroke width
	Dashed  bool
}

// ShapeStyle controls fill and outline of circles and rectangles.
type ShapeStyle struct {
	Fill          string  // fill color as #rrggbb, empty for no fill
	Stroke        string  // stroke color, empty for no stroke
	StrokeWidthMM float64 // stroke width when Stroke is set
	Opacity       float64 // fill opacity in (0, 1]; 0 means fully opaque
}

// Anchor is the horizontal text alignment relative to the draw point.
type Anchor int

// Text anchors.
const (
	AnchorStart Anchor = iota
	AnchorMiddle
	AnchorEnd
)

// TextStyle controls text appearance.
type TextStyle struct {
	Color  string  // text color as #rrggbb
	SizeMM float64 // font size measured in template millimeters
	Anchor Anchor
	Bold   bool
}

// Extent is the bounding box of a full drawing in template millimeters,
// including margins and side artifacts outside the cut outline.
type Extent struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Width returns the horizontal span of the extent.
func (e Extent) Width() float64 { return e.MaxX - e.MinX }

// Height returns the vertical span of the extent.
func (e Extent) Height() float64 { return e.MaxY - e.MinY }

// Margins around the cut outline, in millimeters. The left margin carries
// the grid labels, the right margin the verification bars, the top the
// title and proximal label, the bottom the distal label and clock hours.
const (
	marginLeftMM   = 20.0
	marginRightMM  = 32.0
	marginTopMM    = 16.0
	marginBottomMM = 16.0

	// Height reserved below the template for the printed instruction
	// block on the document target.
	instructionsHeightMM = 52.0
)

// TemplateExtent returns the drawing bounds for the preview target.
func TemplateExtent(spec graft.Spec) Extent {
	return Extent{
		MinX: -marginLeftMM,
		MinY: -marginTopMM,
		MaxX: spec.CircumferenceMM() + marginRightMM,
		MaxY: spec.LengthMM() + marginBottomMM,
	}
}

// DocumentExtent returns the drawing bounds for the fixed-scale document
// target, which appends the instruction block below the template.
func DocumentExtent(spec graft.Spec) Extent {
	e := TemplateExtent(spec)
	e.MaxY += instructionsHeightMM
	return e
}
