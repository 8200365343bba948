package sink

import (
	"bytes"
	"math"
	"strconv"

	"github.com/fogleman/gg"

	"github.com/vesselworks/graftplan/pkg/errors"
	"github.com/vesselworks/graftplan/pkg/graft"
	"github.com/vesselworks/graftplan/pkg/render"
)

// ggSurface rasterizes drawing primitives with fogleman/gg. Text is drawn
// with the context's default face; the raster target is a preview, not the
// dimensionally exact artifact, so font metrics need not track millimeters.
type ggSurface struct {
	dc      *gg.Context
	scale   float64
	offsetX float64
	offsetY float64
}

func (s *ggSurface) x(v float64) float64 { return (v + s.offsetX) * s.scale }
func (s *ggSurface) y(v float64) float64 { return (v + s.offsetY) * s.scale }

// setColor parses a #rrggbb color and applies it with the given alpha.
// Unparseable colors fall back to black.
func (s *ggSurface) setColor(hex string, alpha float64) {
	r, g, b := 0.0, 0.0, 0.0
	if len(hex) == 7 && hex[0] == '#' {
		if v, err := strconv.ParseUint(hex[1:], 16, 32); err == nil {
			r = float64(v>>16&0xff) / 255
			g = float64(v>>8&0xff) / 255
			b = float64(v&0xff) / 255
		}
	}
	if alpha <= 0 || alpha > 1 {
		alpha = 1
	}
	s.dc.SetRGBA(r, g, b, alpha)
}

func (s *ggSurface) DrawLine(from, to render.Point, style render.LineStyle) {
	s.setColor(style.Color, 1)
	s.dc.SetLineWidth(style.WidthMM * s.scale)
	if style.Dashed {
		s.dc.SetDash(3*s.scale, 2*s.scale)
	} else {
		s.dc.SetDash()
	}
	s.dc.DrawLine(s.x(from.X), s.y(from.Y), s.x(to.X), s.y(to.Y))
	s.dc.Stroke()
	s.dc.SetDash()
}

func (s *ggSurface) DrawCircle(center render.Point, radiusMM float64, style render.ShapeStyle) {
	s.dc.DrawCircle(s.x(center.X), s.y(center.Y), radiusMM*s.scale)
	s.fillAndStroke(style)
}

func (s *ggSurface) DrawRect(origin render.Point, widthMM, heightMM float64, style render.ShapeStyle) {
	s.dc.DrawRectangle(s.x(origin.X), s.y(origin.Y), widthMM*s.scale, heightMM*s.scale)
	s.fillAndStroke(style)
}

func (s *ggSurface) fillAndStroke(style render.ShapeStyle) {
	if style.Fill != "" {
		s.setColor(style.Fill, style.Opacity)
		if style.Stroke != "" {
			s.dc.FillPreserve()
		} else {
			s.dc.Fill()
			return
		}
	}
	if style.Stroke != "" {
		s.setColor(style.Stroke, 1)
		s.dc.SetLineWidth(style.StrokeWidthMM * s.scale)
		s.dc.Stroke()
	} else {
		s.dc.ClearPath()
	}
}

func (s *ggSurface) DrawText(at render.Point, text string, style render.TextStyle) {
	s.setColor(style.Color, 1)
	ax := 0.0
	switch style.Anchor {
	case render.AnchorMiddle:
		ax = 0.5
	case render.AnchorEnd:
		ax = 1.0
	}
	s.dc.DrawStringAnchored(text, s.x(at.X), s.y(at.Y), ax, 0)
}

// RenderPreviewPNG rasterizes the preview target at the configured pixels
// per millimeter. An empty plan returns an EMPTY_LAYOUT error.
func RenderPreviewPNG(p *graft.Plan, opts ...PreviewOption) ([]byte, error) {
	t, err := render.NewTemplate(p)
	if err != nil {
		return nil, err
	}
	cfg := newPreviewConfig(opts...)

	ext := render.TemplateExtent(p.Spec())
	w := int(math.Ceil(ext.Width() * cfg.scale))
	h := int(math.Ceil(ext.Height() * cfg.scale))

	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	t.Draw(&ggSurface{dc: dc, scale: cfg.scale, offsetX: -ext.MinX, offsetY: -ext.MinY})

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "encode preview png")
	}
	return buf.Bytes(), nil
}
