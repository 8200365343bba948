package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/vesselworks/graftplan/pkg/catalog"
	"github.com/vesselworks/graftplan/pkg/graft"
	"github.com/vesselworks/graftplan/pkg/io"
	"github.com/vesselworks/graftplan/pkg/render/sink"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	statusOKStyle     = lipgloss.NewStyle().Foreground(colorGreen)
	statusErrStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

// newTUICmd creates the tui command running the interactive planner.
func newTUICmd() *cobra.Command {
	var flags catalogFlags

	cmd := &cobra.Command{
		Use:   "tui [file]",
		Short: "Edit a plan in the interactive terminal planner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := flags.load()
			if err != nil {
				return err
			}
			p, err := io.LoadPlan(args[0])
			if err != nil {
				return err
			}

			m := NewPlannerModel(args[0], p, cat)
			_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

// plannerMode selects between the layout view and the add form.
type plannerMode int

const (
	modeList plannerMode = iota
	modeAdd
)

// addFields are the add form prompts in input order.
var addFields = [...]string{"vessel key", "distance (mm)", "clock (1-12)", "diameter (mm)"}

// PlannerModel is the bubbletea model for the interactive planner. Every
// accepted mutation is written back to the plan file immediately, so
// quitting at any point never loses work.
type PlannerModel struct {
	Path string
	Plan *graft.Plan
	Cat  *catalog.Catalog

	Cursor int
	Mode   plannerMode

	field  int
	inputs [len(addFields)]string

	status string
	failed bool
}

// NewPlannerModel creates a planner for the given plan file.
func NewPlannerModel(path string, p *graft.Plan, cat *catalog.Catalog) PlannerModel {
	return PlannerModel{Path: path, Plan: p, Cat: cat}
}

func (m PlannerModel) Init() tea.Cmd {
	return nil
}

func (m PlannerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.Mode == modeAdd {
		return m.updateAdd(key), nil
	}
	return m.updateList(key)
}

func (m PlannerModel) updateList(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Plan.Fenestrations())-1 {
			m.Cursor++
		}
	case "a":
		m.Mode = modeAdd
		m.field = 0
		m.inputs = [len(addFields)]string{}
		m.status = ""
	case "d":
		if m.Plan.Empty() {
			break
		}
		if err := m.Plan.RemoveFenestration(m.Cursor); err != nil {
			m = m.fail(err)
			break
		}
		if m.Cursor >= len(m.Plan.Fenestrations()) && m.Cursor > 0 {
			m.Cursor--
		}
		m = m.save("removed fenestration")
	case "c":
		m.Plan.ClearFenestrations()
		m.Cursor = 0
		m = m.save("cleared layout")
	case "e":
		m = m.export()
	}
	return m, nil
}

func (m PlannerModel) updateAdd(key tea.KeyMsg) PlannerModel {
	switch key.String() {
	case "ctrl+c", "esc":
		m.Mode = modeList
		m.status = ""
	case "enter":
		if m.field < len(addFields)-1 {
			m.field++
			break
		}
		m = m.submitAdd()
	case "backspace":
		if s := m.inputs[m.field]; s != "" {
			m.inputs[m.field] = s[:len(s)-1]
		}
	default:
		if key.Type == tea.KeyRunes {
			m.inputs[m.field] += string(key.Runes)
		}
	}
	return m
}

// submitAdd parses the form fields and runs the add through the normal
// validation path. On rejection the form stays open with the error shown.
func (m PlannerModel) submitAdd() PlannerModel {
	vessel, err := m.Cat.Vessel(strings.TrimSpace(m.inputs[0]))
	if err != nil {
		return m.fail(err)
	}
	distance, err := strconv.ParseFloat(strings.TrimSpace(m.inputs[1]), 64)
	if err != nil {
		return m.fail(fmt.Errorf("distance must be a number, got %q", m.inputs[1]))
	}
	clock, err := strconv.Atoi(strings.TrimSpace(m.inputs[2]))
	if err != nil {
		return m.fail(fmt.Errorf("clock must be an integer, got %q", m.inputs[2]))
	}
	hour, err := graft.HourFromInt(clock)
	if err != nil {
		return m.fail(err)
	}
	size, err := strconv.ParseFloat(strings.TrimSpace(m.inputs[3]), 64)
	if err != nil {
		return m.fail(fmt.Errorf("diameter must be a number, got %q", m.inputs[3]))
	}

	f := graft.Fenestration{Vessel: vessel, DistanceMM: distance, Hour: hour, DiameterMM: size}
	if err := m.Plan.AddFenestration(f); err != nil {
		return m.fail(err)
	}

	m.Mode = modeList
	m.Cursor = len(m.Plan.Fenestrations()) - 1
	return m.save("added " + vessel.ShortLabel)
}

// save writes the plan back to its file and sets the status line.
func (m PlannerModel) save(what string) PlannerModel {
	if err := io.SavePlan(m.Plan, m.Path); err != nil {
		return m.fail(err)
	}
	m.status = what
	m.failed = false
	return m
}

// export writes the true-scale PDF next to the plan file.
func (m PlannerModel) export() PlannerModel {
	pdf, err := sink.RenderPDF(m.Plan)
	if err != nil {
		return m.fail(err)
	}
	path := filepath.Join(filepath.Dir(m.Path), sink.Filename(m.Plan.Spec()))
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return m.fail(err)
	}
	m.status = "exported " + path
	m.failed = false
	return m
}

func (m PlannerModel) fail(err error) PlannerModel {
	m.status = err.Error()
	m.failed = true
	return m
}

func (m PlannerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Plan.Spec().Title()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("circumference %.1f mm  ·  %s",
		m.Plan.Spec().CircumferenceMM(), m.Path)))
	b.WriteString("\n\n")

	if m.Mode == modeAdd {
		b.WriteString(m.viewAddForm())
	} else {
		b.WriteString(m.viewLayout())
	}

	if m.status != "" {
		b.WriteString("\n")
		if m.failed {
			b.WriteString(statusErrStyle.Render(iconError + " " + m.status))
		} else {
			b.WriteString(statusOKStyle.Render(iconSuccess + " " + m.status))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m PlannerModel) viewLayout() string {
	var b strings.Builder

	fens := m.Plan.Fenestrations()
	if len(fens) == 0 {
		b.WriteString(listDimStyle.Render("  no fenestrations yet, press a to add one"))
		b.WriteString("\n")
	} else {
		rows := [][]string{}
		for i, f := range fens {
			cursor := "  "
			if i == m.Cursor {
				cursor = "▸ "
			}
			rows = append(rows, []string{
				cursor,
				fmt.Sprintf("F%d", i+1),
				f.Vessel.ShortLabel,
				fmt.Sprintf("%g mm", f.DistanceMM),
				f.Hour.String(),
				fmt.Sprintf("Ø%g mm", f.DiameterMM),
			})
		}

		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
			Headers("", "#", "Vessel", "Distance", "Clock", "Size").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == -1 {
					return styleHeader
				}
				if row == m.Cursor {
					return listSelectedStyle
				}
				return lipgloss.NewStyle().Foreground(colorWhite)
			})
		b.WriteString(t.Render())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  a add  d delete  c clear  e export PDF  q quit"))
	return b.String()
}

func (m PlannerModel) viewAddForm() string {
	var b strings.Builder

	b.WriteString(StyleHighlight.Render("Add fenestration"))
	b.WriteString("\n\n")

	for i, label := range addFields {
		marker := "  "
		value := m.inputs[i]
		if i == m.field {
			marker = "▸ "
			value += "▌"
		}
		line := fmt.Sprintf("%s%-16s %s", marker, label, value)
		if i == m.field {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("⏎ next/confirm  esc cancel"))
	return b.String()
}
