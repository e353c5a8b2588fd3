package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/critpath/pkg/cpm"
)

// maxChartDays bounds the crew demand chart printed by analyze; longer
// projects are summarized instead.
const maxChartDays = 60

var scheduleHeaders = []string{"", "Code", "Operation", "Days", "Crew", "Start", "Finish", "Slack"}

// printSchedule writes the human-readable schedule report to w.
func printSchedule(w io.Writer, res *cpm.Result) {
	fmt.Fprintln(w, scheduleSummary(res))
	fmt.Fprintln(w)
	fmt.Fprintln(w, scheduleTable(res.Tasks, -1, func(i int) bool { return res.Tasks[i].Critical }))
	fmt.Fprintln(w)
	fmt.Fprintln(w, demandChart(res.Demand, res.PeakDay))
}

func scheduleSummary(res *cpm.Result) string {
	lines := []string{
		StyleTitle.Render("Schedule"),
		formatKeyValue("Duration", plural(res.Duration, "day")),
		formatKeyValue("Critical path", strings.Join(res.CriticalPath, " "+iconArrow+" ")),
		formatKeyValue("Peak crew", fmt.Sprintf("%d on day %d", res.PeakCrew, res.PeakDay)),
		formatKeyValue("Crew window", string(res.Window)),
	}
	if n := len(res.Dropped); n > 0 {
		lines = append(lines, formatKeyValue("Ignored deps", StyleWarning.Render(strconv.Itoa(n))))
	}
	return strings.Join(lines, "\n")
}

// scheduleTable renders tasks as a table. cursor marks one row (-1 for
// none) and critical reports whether row i is highlighted.
func scheduleTable(tasks []cpm.EnrichedTask, cursor int, critical func(i int) bool) string {
	rows := make([][]string, len(tasks))
	for i, t := range tasks {
		rows[i] = taskRow(t, i == cursor)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(scheduleHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == -1 {
				return base.Inherit(styleHeader)
			}
			if row < 0 || row >= len(tasks) {
				return base
			}
			if critical(row) {
				base = base.Inherit(styleCritical)
			} else if col >= 3 {
				base = base.Foreground(colorGray)
			}
			if row == cursor {
				base = base.Bold(true).Underline(true)
			}
			return base
		})
	return t.Render()
}

func taskRow(t cpm.EnrichedTask, selected bool) []string {
	marker := " "
	switch {
	case selected:
		marker = "▸"
	case t.Critical:
		marker = "●"
	}
	return []string{
		marker,
		t.Task.Code,
		operation(t.Task),
		strconv.Itoa(t.Task.Duration),
		crewLabel(t.Task.Crew),
		fmtInterval(t.Start),
		fmtInterval(t.Finish),
		strconv.Itoa(t.Slack),
	}
}

// demandChart draws one bar per day. The last day of the profile is the
// project end, where nobody is on site, so it is not drawn.
func demandChart(p cpm.Profile, peakDay int) string {
	days := len(p) - 1
	if days <= 0 {
		return StyleDim.Render("No crew on site.")
	}
	if days > maxChartDays {
		return StyleDim.Render(fmt.Sprintf("Crew demand spans %d days; use --json for the daily profile.", days))
	}

	width := len(strconv.Itoa(days - 1))
	lines := []string{StyleTitle.Render("Crew on site")}
	for d := 0; d < days; d++ {
		bar := StyleNumber.Render(strings.Repeat(iconBar, p[d]))
		if d == peakDay {
			bar = styleCritical.Render(strings.Repeat(iconBar, p[d]))
		}
		lines = append(lines, fmt.Sprintf("%s %s %s",
			StyleDim.Render(fmt.Sprintf("day %*d", width, d)), bar, StyleValue.Render(strconv.Itoa(p[d]))))
	}
	return strings.Join(lines, "\n")
}

func operation(t cpm.Task) string {
	return strings.TrimSpace(t.OperationName + " " + t.ElementName)
}

func crewLabel(c cpm.Crew) string {
	if c.Name == "" {
		return strconv.Itoa(c.Size)
	}
	return fmt.Sprintf("%s ×%d", c.Name, c.Size)
}

func fmtInterval(iv cpm.Interval) string {
	if iv.From == iv.To {
		return strconv.Itoa(iv.From)
	}
	return fmt.Sprintf("%d–%d", iv.From, iv.To)
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
