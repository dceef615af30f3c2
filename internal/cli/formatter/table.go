package formatter

import (
	"strconv"

	"github.com/alexanderramin/tomo/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const dateLayout = "2006-01-02 15:04"

// RenderTable draws rows under a styled header with a dim rounded border.
func RenderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return StyleHeader.Padding(0, 1)
			}
			return cell
		})
	return t.Render() + "\n"
}

func FormatBacklogs(backlogs []*domain.Backlog) string {
	if len(backlogs) == 0 {
		return Dim("No backlogs.") + "\n"
	}
	rows := make([][]string, 0, len(backlogs))
	for _, b := range backlogs {
		rows = append(rows, []string{b.ID, b.Name, b.CreatedAt.Local().Format(dateLayout)})
	}
	return RenderTable([]string{"ID", "NAME", "CREATED"}, rows)
}

// FormatWorkItems lists items with their state and pomodoro glyphs.
func FormatWorkItems(items []*domain.WorkItem) string {
	if len(items) == 0 {
		return Dim("No work items.") + "\n"
	}
	rows := make([][]string, 0, len(items))
	for i, w := range items {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			w.ID,
			w.Title,
			StateStyle(w).Render(StateLabel(w)),
			PomodoroGlyphs(w.Pomodoros),
		})
	}
	return RenderTable([]string{"#", "ID", "TITLE", "STATE", "POMODOROS"}, rows)
}

func FormatTags(tags []domain.TagCount) string {
	if len(tags) == 0 {
		return Dim("No tags.") + "\n"
	}
	rows := make([][]string, 0, len(tags))
	for _, tc := range tags {
		rows = append(rows, []string{"#" + tc.Name, strconv.Itoa(tc.Count)})
	}
	return RenderTable([]string{"TAG", "ITEMS"}, rows)
}
