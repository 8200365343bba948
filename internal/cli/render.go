package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vesselworks/graftplan/pkg/graft"
	"github.com/vesselworks/graftplan/pkg/io"
	"github.com/vesselworks/graftplan/pkg/render/sink"
)

const (
	formatSVG = "svg"
	formatPNG = "png"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string   // output file path (or base path for multiple formats)
	formats []string // output formats: "svg", "png"
	scale   float64  // preview pixels per millimeter
}

// newRenderCmd creates the render command producing screen previews.
// Previews are for checking the layout; the exported PDF from 'export' is
// the only output that is dimensionally true on paper.
func newRenderCmd() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: sink.DefaultPreviewScale}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a plan preview to SVG or PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			if opts.scale <= 0 {
				return fmt.Errorf("invalid scale: %g (must be positive)", opts.scale)
			}
			return runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png (comma-separated)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "preview pixels per millimeter")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{formatSVG}
	}
	return strings.Split(s, ",")
}

// validFormats is the set of supported preview formats.
var validFormats = map[string]bool{formatSVG: true, formatPNG: true}

// validateFormats checks that all requested formats are valid.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return fmt.Errorf("invalid format: %s (must be 'svg' or 'png')", f)
		}
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. If output has a
// format extension (.svg, .png), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if validFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// runRender loads the plan and renders it to the requested preview formats.
func runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", input)

	p, err := io.LoadPlan(input)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded plan: %s, %d fenestrations", p.Spec().Title(), len(p.Fenestrations()))

	if len(opts.formats) == 1 {
		path := opts.output
		if path == "" {
			path = basePath("", input) + "." + opts.formats[0]
		}
		return renderAndWrite(ctx, p, opts.formats[0], path, opts.scale)
	}

	base := basePath(opts.output, input)
	for _, format := range opts.formats {
		if err := renderAndWrite(ctx, p, format, base+"."+format, opts.scale); err != nil {
			return err
		}
	}
	return nil
}

// renderAndWrite renders one preview format and writes it to path.
func renderAndWrite(ctx context.Context, p *graft.Plan, format, path string, scale float64) error {
	logger := loggerFromContext(ctx)

	var data []byte
	var err error
	switch format {
	case formatSVG:
		data, err = sink.RenderPreviewSVG(p, sink.WithPreviewScale(scale))
	case formatPNG:
		data, err = sink.RenderPreviewPNG(p, sink.WithPreviewScale(scale))
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return err
	}
	logger.Debugf("Generated %s: %d bytes", format, len(data))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}

	logger.Infof("Generated %s", path)
	printFile(path)
	return nil
}
