package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dsa110/dsa110-contimg-sub002/internal/pointing"
	"github.com/dsa110/dsa110-contimg-sub002/internal/state"
)

// statusKeyOrder maps the number keys 1-5 to status filter toggles.
var statusKeyOrder = []pointing.Status{
	pointing.StatusCompleted,
	pointing.StatusScheduled,
	pointing.StatusFailed,
	pointing.StatusQueued,
	pointing.StatusUnknown,
}

// TableModel lists pointings with search-as-you-type and status filters.
type TableModel struct {
	width  int
	height int

	pointings []pointing.Pointing
	counts    map[pointing.Status]int

	// Filtering
	searching bool
	search    string
	hidden    map[pointing.Status]bool

	// Cursor into the filtered list
	cursor int
	offset int
}

// NewTableModel creates an empty table view.
func NewTableModel() TableModel {
	return TableModel{hidden: make(map[pointing.Status]bool)}
}

// SetSize updates the viewport size.
func (m TableModel) SetSize(width, height int) TableModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates with a new data snapshot.
func (m TableModel) UpdateData(snapshot state.Snapshot) TableModel {
	m.pointings = snapshot.Pointings
	m.counts = snapshot.Counts
	if m.cursor >= len(m.filtered()) {
		m.cursor = 0
		m.offset = 0
	}
	return m
}

// Selected returns the pointing under the cursor, nil when the filtered
// list is empty.
func (m TableModel) Selected() *pointing.Pointing {
	rows := m.filtered()
	if len(rows) == 0 || m.cursor >= len(rows) {
		return nil
	}
	p := rows[m.cursor]
	return &p
}

// filter builds the active filter from search text and hidden statuses.
func (m TableModel) filter() pointing.Filter {
	f := pointing.Filter{Search: m.search}
	if len(m.hidden) > 0 {
		visible := make(map[pointing.Status]bool)
		for _, st := range statusKeyOrder {
			if !m.hidden[st] {
				visible[st] = true
			}
		}
		f.Statuses = visible
	}
	return f
}

func (m TableModel) filtered() []pointing.Pointing {
	return pointing.Apply(m.pointings, m.filter())
}

// Update handles messages.
func (m TableModel) Update(msg tea.Msg) (TableModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.searching {
		return m.updateSearch(key), nil
	}

	switch key.String() {
	case "up", "k":
		m.cursor = clampInt(m.cursor-1, 0, len(m.filtered())-1)
	case "down", "j":
		m.cursor = clampInt(m.cursor+1, 0, len(m.filtered())-1)
	case "pgup":
		m.cursor = clampInt(m.cursor-m.rowsVisible(), 0, len(m.filtered())-1)
	case "pgdown":
		m.cursor = clampInt(m.cursor+m.rowsVisible(), 0, len(m.filtered())-1)
	case "home":
		m.cursor = 0
	case "/":
		m.searching = true
	case "esc":
		m.search = ""
		m.cursor = 0
	case "1", "2", "3", "4", "5":
		idx := int(key.String()[0] - '1')
		st := statusKeyOrder[idx]
		m.hidden[st] = !m.hidden[st]
		m.cursor = 0
		m.offset = 0
	}

	m.scrollToCursor()
	return m, nil
}

func (m TableModel) updateSearch(key tea.KeyMsg) TableModel {
	switch key.String() {
	case "enter":
		m.searching = false
	case "esc":
		m.searching = false
		m.search = ""
	case "backspace":
		if len(m.search) > 0 {
			m.search = m.search[:len(m.search)-1]
		}
	default:
		if key.Type == tea.KeyRunes {
			m.search += string(key.Runes)
		}
	}
	m.cursor = 0
	m.offset = 0
	return m
}

func (m TableModel) rowsVisible() int {
	// Header line, column header, rule, filter line.
	rows := m.height - 4
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m *TableModel) scrollToCursor() {
	rows := m.rowsVisible()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}

// View renders the table view.
func (m TableModel) View() string {
	if m.width < 40 || m.height < 8 {
		return "Pointing table requires a larger terminal"
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorDim))
	cursorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorCursor))

	rows := m.filtered()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Pointings"))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %d/%d shown", len(rows), len(m.pointings))))
	b.WriteString("\n")

	b.WriteString(dimStyle.Render(fmt.Sprintf("  %-14s %9s %9s %-10s %-12s %-4s",
		"ID", "RA", "Dec", "Status", "Epoch", "QA")))
	b.WriteString("\n")

	visible := m.rowsVisible()
	end := m.offset + visible
	if end > len(rows) {
		end = len(rows)
	}
	for i := m.offset; i < end; i++ {
		p := rows[i]
		epoch := "-"
		if p.HasEpoch() {
			epoch = p.Epoch.UTC().Format("2006-01-02")
		}
		line := fmt.Sprintf("%-14s %9.3f %+9.3f %-10s %-12s %-4s",
			truncate(p.ID, 14), p.RAdeg, p.DecDeg, p.Status, epoch, truncate(p.QAGrade, 4))

		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> " + line))
		} else {
			b.WriteString(statusStyle(p.Status).Render("  " + line))
		}
		b.WriteString("\n")
	}
	for i := end - m.offset; i < visible; i++ {
		b.WriteString("\n")
	}

	b.WriteString(m.renderFilterLine())
	return b.String()
}

func (m TableModel) renderFilterLine() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorDim))
	accent := lipgloss.NewStyle().Foreground(lipgloss.Color(colorStatus))

	var parts []string
	if m.searching {
		parts = append(parts, accent.Render("search: "+m.search+"▌"))
	} else if m.search != "" {
		parts = append(parts, accent.Render("search: "+m.search))
	}

	for i, st := range statusKeyOrder {
		tag := fmt.Sprintf("[%d]%s:%d", i+1, st, m.counts[st])
		if m.hidden[st] {
			parts = append(parts, dimStyle.Render(tag+" off"))
		} else {
			parts = append(parts, statusStyle(st).Render(tag))
		}
	}

	return strings.Join(parts, "  ")
}

func statusStyle(st pointing.Status) lipgloss.Style {
	var color string
	switch st {
	case pointing.StatusCompleted:
		color = "#14B8A6"
	case pointing.StatusScheduled:
		color = "#3B82F6"
	case pointing.StatusFailed:
		color = "#EF4444"
	case pointing.StatusQueued:
		color = "#FBBF24"
	default:
		color = "#9CA3AF"
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 2 {
		return s[:maxLen]
	}
	return s[:maxLen-2] + ".."
}
