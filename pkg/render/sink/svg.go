// Package sink provides the concrete render targets: interactive preview
// SVG/PNG and the fixed-scale printable document.
//
// Every sink drives the same render.Template with the same millimeter
// geometry; the only per-target difference is the affine transform each
// surface applies. The document surface uses exactly one SVG user unit per
// millimeter, which is the system's dimensional-fidelity guarantee.
package sink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/vesselworks/graftplan/pkg/graft"
	"github.com/vesselworks/graftplan/pkg/render"
)

// DocumentUnitsPerMM is the affine constant of the fixed-scale document
// target. It must stay exactly 1: the SVG header declares physical
// millimeter dimensions and the viewBox spans the same numbers, so one
// user unit is one millimeter on a page printed at 100% scale. Any other
// value here invalidates the clinical usability of the output.
const DocumentUnitsPerMM = 1.0

// DefaultPreviewScale is the preview target's pixels per millimeter.
const DefaultPreviewScale = 4.0

// PreviewOption configures the preview sinks.
type PreviewOption func(*previewConfig)

type previewConfig struct {
	scale float64 // pixels per millimeter
}

// WithPreviewScale sets the preview pixels-per-millimeter factor.
func WithPreviewScale(pxPerMM float64) PreviewOption {
	return func(c *previewConfig) { c.scale = pxPerMM }
}

func newPreviewConfig(opts ...PreviewOption) previewConfig {
	c := previewConfig{scale: DefaultPreviewScale}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// svgSurface writes drawing primitives as SVG elements. The affine target
// transform is offset-then-scale; the millimeter geometry passed in is
// never modified.
type svgSurface struct {
	buf     *bytes.Buffer
	scale   float64
	offsetX float64 // mm added before scaling
	offsetY float64
}

func (s *svgSurface) x(v float64) float64 { return (v + s.offsetX) * s.scale }
func (s *svgSurface) y(v float64) float64 { return (v + s.offsetY) * s.scale }

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func (s *svgSurface) DrawLine(from, to render.Point, style render.LineStyle) {
	fmt.Fprintf(s.buf, `  <line x1="%.3f" y1="%.3f" x2="%.3f" y2="%.3f" stroke="%s" stroke-width="%.3f"`,
		s.x(from.X), s.y(from.Y), s.x(to.X), s.y(to.Y), style.Color, style.WidthMM*s.scale)
	if style.Dashed {
		fmt.Fprintf(s.buf, ` stroke-dasharray="%.3f %.3f"`, 3*s.scale, 2*s.scale)
	}
	s.buf.WriteString(" />\n")
}

func (s *svgSurface) DrawCircle(center render.Point, radiusMM float64, style render.ShapeStyle) {
	fill := style.Fill
	if fill == "" {
		fill = "none"
	}
	fmt.Fprintf(s.buf, `  <circle cx="%.3f" cy="%.3f" r="%.3f" fill="%s"`,
		s.x(center.X), s.y(center.Y), radiusMM*s.scale, fill)
	if style.Opacity > 0 && style.Opacity < 1 {
		fmt.Fprintf(s.buf, ` fill-opacity="%.2f"`, style.Opacity)
	}
	if style.Stroke != "" {
		fmt.Fprintf(s.buf, ` stroke="%s" stroke-width="%.3f"`, style.Stroke, style.StrokeWidthMM*s.scale)
	}
	s.buf.WriteString(" />\n")
}

func (s *svgSurface) DrawRect(origin render.Point, widthMM, heightMM float64, style render.ShapeStyle) {
	fill := style.Fill
	if fill == "" {
		fill = "none"
	}
	fmt.Fprintf(s.buf, `  <rect x="%.3f" y="%.3f" width="%.3f" height="%.3f" fill="%s"`,
		s.x(origin.X), s.y(origin.Y), widthMM*s.scale, heightMM*s.scale, fill)
	if style.Opacity > 0 && style.Opacity < 1 {
		fmt.Fprintf(s.buf, ` fill-opacity="%.2f"`, style.Opacity)
	}
	if style.Stroke != "" {
		fmt.Fprintf(s.buf, ` stroke="%s" stroke-width="%.3f"`, style.Stroke, style.StrokeWidthMM*s.scale)
	}
	s.buf.WriteString(" />\n")
}

func (s *svgSurface) DrawText(at render.Point, text string, style render.TextStyle) {
	anchor := "start"
	switch style.Anchor {
	case render.AnchorMiddle:
		anchor = "middle"
	case render.AnchorEnd:
		anchor = "end"
	}
	weight := ""
	if style.Bold {
		weight = ` font-weight="bold"`
	}
	fmt.Fprintf(s.buf,
		`  <text x="%.3f" y="%.3f" font-size="%.3f" fill="%s" text-anchor="%s"%s font-family="Helvetica, Arial, sans-serif">%s</text>`+"\n",
		s.x(at.X), s.y(at.Y), style.SizeMM*s.scale, style.Color, anchor, weight, textEscaper.Replace(text))
}

// RenderPreviewSVG renders the interactive preview target. The viewport is
// sized in pixels at the configured pixels-per-millimeter scale. An empty
// plan returns an EMPTY_LAYOUT error so the caller can show a placeholder.
func RenderPreviewSVG(p *graft.Plan, opts ...PreviewOption) ([]byte, error) {
	t, err := render.NewTemplate(p)
	if err != nil {
		return nil, err
	}
	cfg := newPreviewConfig(opts...)

	ext := render.TemplateExtent(p.Spec())
	w := ext.Width() * cfg.scale
	h := ext.Height() * cfg.scale

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="#ffffff" />`+"\n", w, h)

	t.Draw(&svgSurface{buf: &buf, scale: cfg.scale, offsetX: -ext.MinX, offsetY: -ext.MinY})

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

// RenderDocumentSVG renders the fixed-scale document target. The SVG
// header declares physical millimeter dimensions and a viewBox of the same
// numeric extents, so one user unit corresponds to exactly one millimeter
// on a page printed without scaling.
func RenderDocumentSVG(p *graft.Plan) ([]byte, error) {
	t, err := render.NewTemplate(p)
	if err != nil {
		return nil, err
	}

	ext := render.DocumentExtent(p.Spec())
	w := ext.Width() * DocumentUnitsPerMM
	h := ext.Height() * DocumentUnitsPerMM

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%.3fmm" height="%.3fmm" viewBox="0 0 %.3f %.3f">`+"\n",
		w, h, w, h)
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.3f" height="%.3f" fill="#ffffff" />`+"\n", w, h)

	t.DrawDocument(&svgSurface{buf: &buf, scale: DocumentUnitsPerMM, offsetX: -ext.MinX, offsetY: -ext.MinY})

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}
