package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/vesselworks/graftplan/pkg/catalog"
	"github.com/vesselworks/graftplan/pkg/graft"
)

// catalogFlags selects catalog overrides shared by the browse commands.
type catalogFlags struct {
	devicesPath string
	vesselsPath string
}

func (f *catalogFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.devicesPath, "devices", "", "device catalog TOML file (default: built-in)")
	cmd.Flags().StringVar(&f.vesselsPath, "vessels", "", "vessel catalog TOML file (default: built-in)")
}

func (f *catalogFlags) load() (*catalog.Catalog, error) {
	if f.devicesPath == "" && f.vesselsPath == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(f.devicesPath, f.vesselsPath)
}

// newDevicesCmd creates the devices command listing available graft geometries.
func newDevicesCmd() *cobra.Command {
	var flags catalogFlags

	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List the available graft devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := flags.load()
			if err != nil {
				return err
			}
			printDeviceTable(cat.Devices())
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// newVesselsCmd creates the vessels command listing the target vessel catalog.
func newVesselsCmd() *cobra.Command {
	var flags catalogFlags

	cmd := &cobra.Command{
		Use:   "vessels",
		Short: "List the target vessels and the clock orientation reference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := flags.load()
			if err != nil {
				return err
			}
			printVesselTable(cat.Vessels())
			printNewline()
			printOrientationReference()
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func catalogTable() *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
}

func printDeviceTable(devices []catalog.Device) {
	fmt.Println(StyleTitle.Render("Graft Devices"))

	t := catalogTable().Headers("Key", "Device", "Diameter", "Length", "Circumference")
	for _, d := range devices {
		spec, err := graft.SpecFromDevice(d)
		if err != nil {
			continue
		}
		t.Row(d.Key, d.Name,
			fmt.Sprintf("%g mm", d.DiameterMM),
			fmt.Sprintf("%g mm", d.LengthMM),
			fmt.Sprintf("%.1f mm", spec.CircumferenceMM()))
	}
	fmt.Println(t.Render())
}

func printVesselTable(vessels []catalog.Vessel) {
	fmt.Println(StyleTitle.Render("Target Vessels"))

	t := catalogTable().Headers("Key", "Vessel", "Label", "Color")
	for _, v := range vessels {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(v.Color)).Render("●") + " " + v.Color
		t.Row(v.Key, v.Name, v.ShortLabel, swatch)
	}
	fmt.Println(t.Render())
}

// printOrientationReference prints the clock face to anatomy mapping used
// when choosing a fenestration position.
func printOrientationReference() {
	fmt.Println(StyleTitle.Render("Clock Orientation"))
	printDetail("viewed from the proximal end of the graft")
	for _, h := range []graft.ClockHour{12, 3, 6, 9} {
		printKeyValue(h.String(), fmt.Sprintf("%s (%.0f°)", h.Orientation(), h.AngleDeg()))
	}
}
