package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"

	"github.com/dsa110/dsa110-contimg-sub002/internal/config"
	"github.com/dsa110/dsa110-contimg-sub002/internal/pointing"
	"github.com/dsa110/dsa110-contimg-sub002/internal/render"
	"github.com/dsa110/dsa110-contimg-sub002/internal/state"
)

func testRootModel() Model {
	mgr := state.NewManager(state.DefaultConfig())
	player := render.NewPlayer(clockwork.NewFakeClock(), nil)
	return New(mgr, config.Default(), player)
}

func sized(m Model) Model {
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 32})
	return updated.(Model)
}

func TestModelViewBeforeReady(t *testing.T) {
	m := testRootModel()
	if !strings.Contains(m.View(), "Initializing") {
		t.Error("unsized model should show init message")
	}
}

func TestModelTabCycling(t *testing.T) {
	m := sized(testRootModel())

	if m.viewMode != ViewMap {
		t.Fatalf("initial view = %v", m.viewMode)
	}

	updated, _ := m.Update(key("tab"))
	m = updated.(Model)
	if m.viewMode != ViewTable {
		t.Errorf("after tab: %v, want table", m.viewMode)
	}

	updated, _ = m.Update(key("tab"))
	m = updated.(Model)
	updated, _ = m.Update(key("tab"))
	m = updated.(Model)
	if m.viewMode != ViewMap {
		t.Errorf("tab should wrap to map, got %v", m.viewMode)
	}

	updated, _ = m.Update(key("E"))
	m = updated.(Model)
	if m.viewMode != ViewEvents {
		t.Errorf("E should open events, got %v", m.viewMode)
	}
}

func TestModelDataUpdatePropagates(t *testing.T) {
	m := sized(testRootModel())

	snap := testSnapshot(
		pointing.Pointing{ID: "p1", RAdeg: 180, DecDeg: 45, Status: pointing.StatusCompleted},
	)
	updated, _ := m.Update(DataUpdateMsg{Snapshot: snap})
	m = updated.(Model)

	if len(m.mapView.pointings) != 1 {
		t.Error("data update did not reach the map view")
	}
	if len(m.tableView.pointings) != 1 {
		t.Error("data update did not reach the table view")
	}
}

func TestModelViewsRender(t *testing.T) {
	m := sized(testRootModel())
	snap := testSnapshot(
		pointing.Pointing{ID: "p1", RAdeg: 180, DecDeg: 45, Status: pointing.StatusCompleted},
	)
	updated, _ := m.Update(DataUpdateMsg{Snapshot: snap})
	m = updated.(Model)

	for _, mode := range []ViewMode{ViewMap, ViewTable, ViewEvents} {
		m.viewMode = mode
		if m.View() == "" {
			t.Errorf("empty view for mode %v", mode)
		}
	}
}

func TestModelEventsViewShowsTrend(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, 3, d, 12, 0, 0, 0, time.UTC)
	}
	m := sized(testRootModel())
	m.viewMode = ViewEvents
	m.snapshot = state.Snapshot{
		History: []state.CountSample{
			{Timestamp: day(1), Counts: map[pointing.Status]int{pointing.StatusCompleted: 2}},
			{Timestamp: day(2), Counts: map[pointing.Status]int{pointing.StatusCompleted: 4}},
		},
	}

	out := m.View()
	if !strings.Contains(out, "completed trend") {
		t.Error("events view missing the coverage trend line")
	}
	if !strings.Contains(out, "█") {
		t.Error("trend sparkline missing its peak bar")
	}
	if !strings.Contains(out, " 4") {
		t.Error("trend missing the latest completed count")
	}
}

func TestRenderTrend(t *testing.T) {
	if got := renderTrend(nil); got != "" {
		t.Errorf("empty history should render nothing, got %q", got)
	}
	if got := renderTrend([]state.CountSample{{Counts: map[pointing.Status]int{}}}); got != "" {
		t.Errorf("single sample should render nothing, got %q", got)
	}

	// All-zero history renders flat without dividing by zero.
	flat := renderTrend([]state.CountSample{
		{Counts: map[pointing.Status]int{}},
		{Counts: map[pointing.Status]int{}},
	})
	if !strings.Contains(flat, "▁▁") {
		t.Errorf("flat trend = %q, want two floor bars", flat)
	}
}

func TestModelFooterShowsError(t *testing.T) {
	m := sized(testRootModel())
	m.snapshot = state.Snapshot{LastError: errors.New("api unreachable")}

	if !strings.Contains(m.View(), "api unreachable") {
		t.Error("footer should surface the fetch error")
	}
}

func TestModelQuit(t *testing.T) {
	m := sized(testRootModel())
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should produce a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q command is not Quit")
	}
}

func TestGradientColorInRange(t *testing.T) {
	for col := 0; col < 60; col += 7 {
		for row := 0; row < 3; row++ {
			c := gradientColor(col, row, 60, 3)
			if len(c) != 7 || c[0] != '#' {
				t.Errorf("gradientColor(%d,%d) = %q", col, row, c)
			}
		}
	}
}
