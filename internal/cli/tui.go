package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/critpath/pkg/cpm"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	detailBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
	detailHeadStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
)

// detailLines is the height reserved below the table for the detail pane.
const detailLines = 14

// =============================================================================
// ScheduleModel - Interactive schedule browser
// =============================================================================

// ScheduleModel is the bubbletea model behind `critpath browse`. It lists
// the scheduled tasks and shows the windows, crew and neighbours of the
// task under the cursor.
type ScheduleModel struct {
	Result       *cpm.Result
	Rows         []cpm.EnrichedTask
	Cursor       int
	Offset       int
	Height       int
	CriticalOnly bool

	successors map[string][]string
}

// NewScheduleModel creates a browser over res.
func NewScheduleModel(res *cpm.Result) ScheduleModel {
	succ := make(map[string][]string)
	for _, t := range res.Tasks {
		for _, dep := range t.Task.Dependencies {
			succ[dep] = append(succ[dep], t.Task.Code)
		}
	}
	return ScheduleModel{
		Result:     res,
		Rows:       res.Tasks,
		Height:     15,
		successors: succ,
	}
}

func (m ScheduleModel) Init() tea.Cmd {
	return nil
}

func (m ScheduleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.moveTo(m.Cursor - 1)
		case "down", "j":
			m.moveTo(m.Cursor + 1)
		case "pgup":
			m.moveTo(m.Cursor - m.Height)
		case "pgdown":
			m.moveTo(m.Cursor + m.Height)
		case "home", "g":
			m.moveTo(0)
		case "end", "G":
			m.moveTo(len(m.Rows) - 1)
		case "c":
			m.toggleCritical()
		}
	case tea.WindowSizeMsg:
		// table borders, header, title and help take 6 lines
		m.Height = max(msg.Height-detailLines-6, 5)
		m.moveTo(m.Cursor)
	}
	return m, nil
}

// moveTo places the cursor on row i, clamped, and scrolls it into view.
func (m *ScheduleModel) moveTo(i int) {
	m.Cursor = min(max(i, 0), max(len(m.Rows)-1, 0))
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// toggleCritical switches between all tasks and critical tasks only,
// keeping the selected task under the cursor when it stays visible.
func (m *ScheduleModel) toggleCritical() {
	var current string
	if sel, ok := m.Selected(); ok {
		current = sel.Task.Code
	}

	m.CriticalOnly = !m.CriticalOnly
	m.Rows = m.Result.Tasks
	if m.CriticalOnly {
		m.Rows = make([]cpm.EnrichedTask, 0, len(m.Result.Tasks))
		for _, t := range m.Result.Tasks {
			if t.Critical {
				m.Rows = append(m.Rows, t)
			}
		}
	}

	m.Offset = 0
	m.Cursor = 0
	for i, t := range m.Rows {
		if t.Task.Code == current {
			m.Cursor = i
			break
		}
	}
	m.moveTo(m.Cursor)
}

// Selected returns the task under the cursor.
func (m ScheduleModel) Selected() (cpm.EnrichedTask, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Rows) {
		return cpm.EnrichedTask{}, false
	}
	return m.Rows[m.Cursor], true
}

func (m ScheduleModel) View() string {
	var b strings.Builder

	title := fmt.Sprintf("Schedule · %s · %s", plural(len(m.Result.Tasks), "task"), plural(m.Result.Duration, "day"))
	if m.CriticalOnly {
		title += " · critical only"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  c critical only  g/G first/last  q quit"))
	b.WriteString("\n")

	if len(m.Rows) == 0 {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("  No tasks to show."))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Rows))
	visible := m.Rows[m.Offset:end]
	b.WriteString(scheduleTable(visible, m.Cursor-m.Offset, func(i int) bool { return visible[i].Critical }))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))
	b.WriteString("\n")

	if sel, ok := m.Selected(); ok {
		b.WriteString(detailBoxStyle.Render(m.detail(sel)))
	}
	return b.String()
}

func (m ScheduleModel) detail(t cpm.EnrichedTask) string {
	head := t.Task.Code
	if op := operation(t.Task); op != "" {
		head += "  " + op
	}
	lines := []string{detailHeadStyle.Render(head)}

	status := StyleDim.Render(fmt.Sprintf("%s of float", plural(t.Slack, "day")))
	if t.Critical {
		status = styleCritical.Render("critical")
	}
	lines = append(lines,
		formatKeyValue("Duration", plural(t.Task.Duration, "day")),
		formatKeyValue("Start", fmt.Sprintf("day %d at the earliest, day %d at the latest", t.Start.From, t.Start.To)),
		formatKeyValue("Finish", fmt.Sprintf("day %d at the earliest, day %d at the latest", t.Finish.From, t.Finish.To)),
		formatKeyValue("Slack", status),
		formatKeyValue("Crew", crewLabel(t.Task.Crew)),
	)
	if len(t.Task.Equipment) > 0 {
		items := make([]string, len(t.Task.Equipment))
		for i, e := range t.Task.Equipment {
			items[i] = fmt.Sprintf("%s ×%d", e.Name, e.Quantity)
		}
		lines = append(lines, formatKeyValue("Equipment", strings.Join(items, ", ")))
	}
	lines = append(lines,
		formatKeyValue("After", listOrDash(t.Task.Dependencies)),
		formatKeyValue("Before", listOrDash(m.successors[t.Task.Code])),
	)
	return strings.Join(lines, "\n")
}

func listOrDash(codes []string) string {
	if len(codes) == 0 {
		return "—"
	}
	return strings.Join(codes, ", ")
}
