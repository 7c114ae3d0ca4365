// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dsa110/dsa110-contimg-sub002/internal/config"
	"github.com/dsa110/dsa110-contimg-sub002/internal/pointing"
	"github.com/dsa110/dsa110-contimg-sub002/internal/render"
	"github.com/dsa110/dsa110-contimg-sub002/internal/state"
	"github.com/dsa110/dsa110-contimg-sub002/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewMap ViewMode = iota
	ViewTable
	ViewEvents
)

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic UI updates.
	TickMsg time.Time

	// DataUpdateMsg signals a new pointing snapshot is available.
	DataUpdateMsg struct {
		Snapshot state.Snapshot
	}

	// ErrorMsg signals a fetch error.
	ErrorMsg struct {
		Error error
	}

	// PlaybackMsg signals the playback timer advanced an epoch.
	PlaybackMsg struct {
		Status render.PlaybackStatus
	}

	// BackgroundMsg carries the fetched background raster; nil Raster
	// means the fetch failed and the map stays rasterless.
	BackgroundMsg struct {
		Raster *render.Raster
	}
)

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	state *state.Manager

	// UI state
	viewMode ViewMode
	width    int
	height   int
	ready    bool
	animTick int

	// Sub-models
	mapView   MapModel
	tableView TableModel

	// Data snapshot (updated on DataUpdateMsg)
	snapshot state.Snapshot
}

// New creates a new root UI model.
func New(stateMgr *state.Manager, cfg config.Config, player *render.Player) Model {
	return Model{
		state:     stateMgr,
		viewMode:  ViewMap,
		mapView:   NewMapModel(cfg, player),
		tableView: NewTableModel(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "m", "f1":
			m.viewMode = ViewMap
		case "T", "f2":
			m.viewMode = ViewTable
		case "E", "f3":
			m.viewMode = ViewEvents

		case "tab":
			m.viewMode = (m.viewMode + 1) % 3

		default:
			cmds = append(cmds, m.updateActiveView(msg))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Logo takes 5 lines, tabs 1, footer 2.
		contentHeight := msg.Height - 8
		m.mapView = m.mapView.SetSize(msg.Width, contentHeight)
		m.tableView = m.tableView.SetSize(msg.Width, contentHeight)

	case TickMsg:
		cmds = append(cmds, tickCmd())
		m.animTick++
		m.snapshot = m.state.Snapshot()

	case DataUpdateMsg:
		m.snapshot = msg.Snapshot
		m.mapView = m.mapView.UpdateData(m.snapshot)
		m.tableView = m.tableView.UpdateData(m.snapshot)

	case PlaybackMsg:
		// The map re-reads player status on render; the message only
		// forces a redraw between data ticks.

	case BackgroundMsg:
		if msg.Raster != nil {
			m.mapView = m.mapView.SetBackground(msg.Raster)
		}

	case ErrorMsg:
		// Shown in the footer via the snapshot's LastError.

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewMap:
		m.mapView, cmd = m.mapView.Update(msg)
	case ViewTable:
		m.tableView, cmd = m.tableView.Update(msg)
	}
	return cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewMap:
		content = m.mapView.View()
	case ViewTable:
		content = m.tableView.View()
	case ViewEvents:
		content = m.renderEvents()
	}

	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	return m.renderLogo() + m.renderTabs() + "\n"
}

func (m Model) renderLogo() string {
	logo := []string{
		`  ▄▄▄▄  ▄▄▄▄  ▄▄▄   ▄  ▄  ▄▄▄    ▄▄▄ ▄ ▄ ▄▄ ▄ ▄▄ ▄▄▄ ▄▄`,
		`  ██  █ ▀▄▄   ▄▄█▄  ▄▄ ▄▄ █ █    ▀▄▄ █▄▀ ▀▄▀ █▄█▄ ▄█▄ █▄▀`,
		`  ██▄▄▀ ▄▄▄▀ █   █  ▄█ ▄█ █▄█ ▀  ▄▄▀ █ █  █  █ ▀█ █ █ █`,
	}

	var b strings.Builder
	b.WriteString("\n")
	for row, line := range logo {
		runes := []rune(line)
		for col, r := range runes {
			color := gradientColor(col, row, len(runes), len(logo))
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(string(r)))
		}
		b.WriteString("\n")
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render(fmt.Sprintf("  DSA-110 Continuum Imaging · Sky Coverage · v%s", version.Version)))
	b.WriteString("\n")
	return b.String()
}

// gradientColor returns a hex color for a position in the logo gradient,
// teal on the left fading through blue to violet on the right, dimmer
// toward the bottom.
func gradientColor(col, row, width, height int) string {
	x := float64(col) / float64(width)
	y := float64(row) / float64(height)

	var r, g, b float64
	if x < 0.5 {
		// Teal (#14B8A6) to blue (#3B82F6)
		t := x / 0.5
		r = 20 + t*(59-20)
		g = 184 + t*(130-184)
		b = 166 + t*(246-166)
	} else {
		// Blue (#3B82F6) to violet (#8B5CF6)
		t := (x - 0.5) / 0.5
		r = 59 + t*(139-59)
		g = 130 + t*(92-130)
		b = 246
	}

	dim := 1.0 - y*0.4
	return fmt.Sprintf("#%02X%02X%02X", clamp8(r*dim), clamp8(g*dim), clamp8(b*dim))
}

func clamp8(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return int(v)
}

func (m Model) renderTabs() string {
	tabs := []string{"[m] Map", "[T] Table", "[E] Events"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("45")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderEvents() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var b strings.Builder
	b.WriteString(titleStyle.Render("Pipeline Events"))
	b.WriteString("\n\n")

	if trend := renderTrend(m.snapshot.History); trend != "" {
		b.WriteString(trend)
		b.WriteString("\n\n")
	}

	events := m.snapshot.Events
	if len(events) == 0 {
		b.WriteString(dimStyle.Render("  No events yet (changes between fetches show up here)"))
		return b.String()
	}

	// Newest last, like a log tail.
	max := m.height - 12
	if max < 1 {
		max = 1
	}
	if len(events) > max {
		events = events[len(events)-max:]
	}
	for _, e := range events {
		ts := dimStyle.Render(e.Timestamp.Format("15:04:05"))
		var line string
		switch e.Type {
		case state.EventStatusChanged:
			line = fmt.Sprintf("%s  %s: %s → %s", ts, e.Pointing, e.OldStatus, e.NewStatus)
		case state.EventNewPointing:
			line = fmt.Sprintf("%s  %s: new (%s)", ts, e.Pointing, e.NewStatus)
		case state.EventPointingGone:
			line = fmt.Sprintf("%s  %s: removed", ts, e.Pointing)
		}
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}

// trendBars maps a normalized count to a block glyph for the sparkline.
var trendBars = []rune("▁▂▃▄▅▆▇█")

// renderTrend draws the completed-pointing count over recent fetches as a
// sparkline. Empty until at least two fetches have landed.
func renderTrend(history []state.CountSample) string {
	if len(history) < 2 {
		return ""
	}

	max := 0
	for _, s := range history {
		if n := s.Counts[pointing.StatusCompleted]; n > max {
			max = n
		}
	}

	var spark strings.Builder
	for _, s := range history {
		idx := 0
		if max > 0 {
			idx = s.Counts[pointing.StatusCompleted] * (len(trendBars) - 1) / max
		}
		spark.WriteRune(trendBars[idx])
	}

	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accent := lipgloss.NewStyle().Foreground(lipgloss.Color("#14B8A6"))
	latest := history[len(history)-1].Counts[pointing.StatusCompleted]
	return "  " + dimStyle.Render("completed trend ") +
		accent.Render(spark.String()) +
		dimStyle.Render(fmt.Sprintf(" %d", latest))
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("45"))

	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]

	var status string
	switch {
	case m.snapshot.LastError != nil:
		status = errorStyle.Render("ERROR: " + m.snapshot.LastError.Error())
	case !m.snapshot.LastFetch.IsZero():
		status = dimStyle.Render(fmt.Sprintf("fetched %s ago (%s) | %d pointings, %d dropped",
			time.Since(m.snapshot.LastFetch).Round(time.Second),
			m.snapshot.FetchDuration.Round(time.Millisecond),
			len(m.snapshot.Pointings), m.snapshot.Dropped))
	default:
		status = accentStyle.Render(spinner) + dimStyle.Render(" waiting for data...")
	}

	var help string
	switch m.viewMode {
	case ViewTable:
		help = dimStyle.Render("↑↓: navigate | /: search | 1-5: status filters | tab: switch view")
	default:
		help = dimStyle.Render("tab: switch view | q: quit")
	}

	return "  " + status + "  " + dimStyle.Render("|") + "  " + help
}

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// SendDataUpdate creates a command that sends a data update message.
func SendDataUpdate(snapshot state.Snapshot) tea.Cmd {
	return func() tea.Msg {
		return DataUpdateMsg{Snapshot: snapshot}
	}
}

// SendError creates a command that sends an error message.
func SendError(err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Error: err}
	}
}
