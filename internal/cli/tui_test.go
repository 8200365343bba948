package cli

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vesselworks/graftplan/pkg/catalog"
	"github.com/vesselworks/graftplan/pkg/graft"
	"github.com/vesselworks/graftplan/pkg/io"
)

func testPlanner(t *testing.T) PlannerModel {
	t.Helper()
	spec, err := graft.NewSpec("Tube graft 24 x 145", 24, 145)
	if err != nil {
		t.Fatal(err)
	}
	p := graft.NewPlan(spec)
	path := filepath.Join(t.TempDir(), "plan.json")
	if err := io.SavePlan(p, path); err != nil {
		t.Fatal(err)
	}
	return NewPlannerModel(path, p, catalog.Default())
}

func typeString(m PlannerModel, s string) PlannerModel {
	for _, r := range s {
		m = m.updateAdd(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func enter(m PlannerModel) PlannerModel {
	return m.updateAdd(tea.KeyMsg{Type: tea.KeyEnter})
}

func addViaForm(m PlannerModel, vessel, distance, clock, size string) PlannerModel {
	m.Mode = modeAdd
	m.field = 0
	m.inputs = [len(addFields)]string{}
	m = enter(typeString(m, vessel))
	m = enter(typeString(m, distance))
	m = enter(typeString(m, clock))
	m = enter(typeString(m, size))
	return m
}

func TestPlannerAddForm(t *testing.T) {
	m := addViaForm(testPlanner(t), "sma", "50", "12", "6")

	if m.failed {
		t.Fatalf("add failed: %s", m.status)
	}
	if m.Mode != modeList {
		t.Error("planner should return to the layout view after a successful add")
	}
	if len(m.Plan.Fenestrations()) != 1 {
		t.Fatalf("plan has %d fenestrations, want 1", len(m.Plan.Fenestrations()))
	}

	// The mutation is persisted immediately.
	saved, err := io.LoadPlan(m.Path)
	if err != nil {
		t.Fatal(err)
	}
	if len(saved.Fenestrations()) != 1 {
		t.Errorf("saved plan has %d fenestrations, want 1", len(saved.Fenestrations()))
	}
}

func TestPlannerAddFormRejection(t *testing.T) {
	m := addViaForm(testPlanner(t), "sma", "50", "12", "6")
	m = addViaForm(m, "rra", "52", "3", "6") // 2 mm gap, below the floor

	if !m.failed {
		t.Fatal("conflicting add should set the error status")
	}
	if m.Mode != modeAdd {
		t.Error("rejected add should keep the form open")
	}
	if len(m.Plan.Fenestrations()) != 1 {
		t.Errorf("plan has %d fenestrations after rejected add, want 1", len(m.Plan.Fenestrations()))
	}
}

func TestPlannerAddFormUnknownVessel(t *testing.T) {
	m := addViaForm(testPlanner(t), "aorta", "50", "12", "6")
	if !m.failed {
		t.Error("unknown vessel should set the error status")
	}
}

func TestPlannerDelete(t *testing.T) {
	m := addViaForm(testPlanner(t), "celiac", "30", "12", "8")
	m = addViaForm(m, "sma", "50", "12", "6")

	model, _ := m.updateList(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	m = model.(PlannerModel)

	if len(m.Plan.Fenestrations()) != 1 {
		t.Fatalf("plan has %d fenestrations after delete, want 1", len(m.Plan.Fenestrations()))
	}
	// The cursor follows the most recent add, so the SMA entry is removed.
	if got := m.Plan.Fenestrations()[0].Vessel.Key; got != "celiac" {
		t.Errorf("remaining fenestration = %s, want celiac", got)
	}
}

func TestPlannerClear(t *testing.T) {
	m := addViaForm(testPlanner(t), "sma", "50", "12", "6")

	model, _ := m.updateList(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	m = model.(PlannerModel)

	if !m.Plan.Empty() {
		t.Error("plan should be empty after clear")
	}
	saved, err := io.LoadPlan(m.Path)
	if err != nil {
		t.Fatal(err)
	}
	if !saved.Empty() {
		t.Error("saved plan should be empty after clear")
	}
}

func TestPlannerViewShowsLayout(t *testing.T) {
	m := addViaForm(testPlanner(t), "sma", "50", "12", "6")

	view := m.View()
	if !strings.Contains(view, "Tube graft 24 x 145") {
		t.Error("view is missing the device title")
	}
	if !strings.Contains(view, "SMA") {
		t.Error("view is missing the vessel label")
	}
	if !strings.Contains(view, "12 o'clock") {
		t.Error("view is missing the clock position")
	}
}
