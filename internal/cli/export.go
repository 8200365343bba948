package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vesselworks/graftplan/pkg/io"
	"github.com/vesselworks/graftplan/pkg/render/sink"
)

// newExportCmd creates the export command producing the printable template.
// The PDF page is physically true to scale: printed at 100% it wraps exactly
// around the selected graft. Requires librsvg (rsvg-convert) on PATH.
func newExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export the true-scale printable PDF template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			p, err := io.LoadPlan(args[0])
			if err != nil {
				return err
			}

			prog := newProgress(logger)
			pdf, err := sink.RenderPDF(p)
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				path = filepath.Join(filepath.Dir(args[0]), sink.Filename(p.Spec()))
			}
			if err := os.WriteFile(path, pdf, 0o644); err != nil {
				return err
			}
			prog.done("Exported template")

			printSuccess("Exported %s", p.Spec().Title())
			printDetail("print at 100%% scale, no fit-to-page")
			printFile(path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output PDF path (default: graft_template_<d>mm_<l>mm.pdf next to the plan)")

	return cmd
}
