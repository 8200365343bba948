package sink

import (
	"fmt"

	"github.com/vesselworks/graftplan/pkg/graft"
	"github.com/vesselworks/graftplan/pkg/render"
)

// RenderPDF renders the fixed-scale document as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
//
// The intermediate SVG declares millimeter dimensions and rsvg-convert
// preserves them, so the resulting PDF page is physically true to scale.
// The renderer performs no disk I/O; the caller owns the bytes.
func RenderPDF(p *graft.Plan) ([]byte, error) {
	svg, err := RenderDocumentSVG(p)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// Filename returns the suggested download name for an exported template,
// e.g. "graft_template_24mm_145mm.pdf".
func Filename(spec graft.Spec) string {
	return fmt.Sprintf("graft_template_%gmm_%gmm.pdf", spec.DiameterMM(), spec.LengthMM())
}
