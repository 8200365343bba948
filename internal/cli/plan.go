package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vesselworks/graftplan/pkg/graft"
	"github.com/vesselworks/graftplan/pkg/io"
)

// newPlanCmd creates the plan command group for working with plan files.
// A plan file holds one device selection plus its fenestration layout; the
// list uses 1-based positions, matching the F1, F2 labels on the template.
func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Create and edit fenestration plan files",
	}

	cmd.AddCommand(newPlanNewCmd())
	cmd.AddCommand(newPlanAddCmd())
	cmd.AddCommand(newPlanRemoveCmd())
	cmd.AddCommand(newPlanListCmd())
	cmd.AddCommand(newPlanClearCmd())

	return cmd
}

func newPlanNewCmd() *cobra.Command {
	var device string
	var flags catalogFlags

	cmd := &cobra.Command{
		Use:   "new [file]",
		Short: "Start a new plan for a catalog device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := flags.load()
			if err != nil {
				return err
			}
			d, err := cat.Device(device)
			if err != nil {
				return err
			}
			spec, err := graft.SpecFromDevice(d)
			if err != nil {
				return err
			}

			p := graft.NewPlan(spec)
			if err := io.SavePlan(p, args[0]); err != nil {
				return err
			}

			printSuccess("Created plan for %s", StyleHighlight.Render(spec.Title()))
			printDetail("circumference %.1f mm, unrolled template %.1f x %g mm",
				spec.CircumferenceMM(), spec.CircumferenceMM(), spec.LengthMM())
			printFile(args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&device, "device", "d", "", "device catalog key, e.g. 24x145 (see 'graftplan devices')")
	_ = cmd.MarkFlagRequired("device")
	flags.register(cmd)

	return cmd
}

func newPlanAddCmd() *cobra.Command {
	var (
		vessel   string
		distance float64
		clock    int
		size     float64
	)
	var flags catalogFlags

	cmd := &cobra.Command{
		Use:   "add [file]",
		Short: "Add a fenestration to a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := flags.load()
			if err != nil {
				return err
			}
			v, err := cat.Vessel(vessel)
			if err != nil {
				return err
			}
			hour, err := graft.HourFromInt(clock)
			if err != nil {
				return err
			}

			p, err := io.LoadPlan(args[0])
			if err != nil {
				return err
			}
			f := graft.Fenestration{Vessel: v, DistanceMM: distance, Hour: hour, DiameterMM: size}
			if err := p.AddFenestration(f); err != nil {
				return err
			}
			if err := io.SavePlan(p, args[0]); err != nil {
				return err
			}

			printSuccess("Added %s fenestration: %s", v.ShortLabel, f.Annotation())
			printDetail("%d fenestration(s) in layout, orientation %s", len(p.Fenestrations()), hour.Orientation())
			return nil
		},
	}

	cmd.Flags().StringVar(&vessel, "vessel", "", "vessel catalog key, e.g. sma (see 'graftplan vessels')")
	cmd.Flags().Float64Var(&distance, "distance", 0, "distance from the proximal edge in mm")
	cmd.Flags().IntVar(&clock, "clock", 12, "clock position 1-12, 12 is anterior")
	cmd.Flags().Float64Var(&size, "size", 6, "fenestration diameter in mm (4-12)")
	_ = cmd.MarkFlagRequired("vessel")
	_ = cmd.MarkFlagRequired("distance")
	flags.register(cmd)

	return cmd
}

func newPlanRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove [file] [position]",
		Short: "Remove the fenestration at a 1-based position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("position must be an integer, got %q", args[1])
			}

			p, err := io.LoadPlan(args[0])
			if err != nil {
				return err
			}
			if err := p.RemoveFenestration(pos - 1); err != nil {
				return err
			}
			if err := io.SavePlan(p, args[0]); err != nil {
				return err
			}

			printSuccess("Removed fenestration F%d", pos)
			printDetail("%d remaining", len(p.Fenestrations()))
			return nil
		},
	}
}

func newPlanListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [file]",
		Short: "Show the plan's device and fenestration layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := io.LoadPlan(args[0])
			if err != nil {
				return err
			}
			printPlan(p)
			return nil
		},
	}
}

func newPlanClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear [file]",
		Short: "Remove all fenestrations, keeping the device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := io.LoadPlan(args[0])
			if err != nil {
				return err
			}
			n := len(p.Fenestrations())
			p.ClearFenestrations()
			if err := io.SavePlan(p, args[0]); err != nil {
				return err
			}

			printSuccess("Cleared %d fenestration(s)", n)
			return nil
		},
	}
}

// printPlan prints the device header and the fenestration table.
func printPlan(p *graft.Plan) {
	spec := p.Spec()
	fmt.Println(StyleTitle.Render(spec.Title()))
	printKeyValue("diameter", fmt.Sprintf("%g mm", spec.DiameterMM()))
	printKeyValue("length", fmt.Sprintf("%g mm", spec.LengthMM()))
	printKeyValue("circumference", fmt.Sprintf("%.1f mm", spec.CircumferenceMM()))
	printNewline()

	fens := p.Fenestrations()
	if len(fens) == 0 {
		printDetail("no fenestrations yet")
		return
	}

	t := catalogTable().Headers("#", "Vessel", "Distance", "Clock", "Orientation", "Size")
	for i, f := range fens {
		t.Row(
			fmt.Sprintf("F%d", i+1),
			f.Vessel.ShortLabel,
			fmt.Sprintf("%g mm", f.DistanceMM),
			f.Hour.String(),
			f.Hour.Orientation(),
			fmt.Sprintf("Ø%g mm", f.DiameterMM),
		)
	}
	fmt.Println(t.Render())
}
