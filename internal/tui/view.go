package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ scroll • g/G top/bottom • q quit"))
	return b.String()
}

// renderHeader shows the headline numbers above the scrolling report.
func (m Model) renderHeader() string {
	res := m.result

	title := titleStyle.Render("go-uv-install-trace")
	path := labelStyle.Render(res.Path)

	stages := fmt.Sprintf("%s %s",
		labelStyle.Render("stages:"),
		statStyle.Render(fmt.Sprintf("%d (%s)", len(res.Transitions), res.FinalStage)),
	)

	downloads := fmt.Sprintf("%s %s",
		labelStyle.Render("downloads:"),
		statStyle.Render(fmt.Sprintf("%d", len(res.Downloads))),
	)
	if n := len(res.IncompleteDownloads()); n > 0 {
		downloads += " " + warnStyle.Render(fmt.Sprintf("(%d incomplete)", n))
	} else if len(res.Downloads) > 0 {
		downloads += " " + okStyle.Render("(all complete)")
	}

	concurrency := fmt.Sprintf("%s %s",
		labelStyle.Render("max concurrent:"),
		statStyle.Render(fmt.Sprintf("%d", res.Parallelism.MaxConcurrent)),
	)

	line1 := lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", path)
	line2 := lipgloss.JoinHorizontal(lipgloss.Top, stages, "   ", downloads, "   ", concurrency)

	counters := fmt.Sprintf("%s resolved %d • prepared %d • installed %d",
		labelStyle.Render("packages:"),
		res.Counters.Resolved,
		res.Counters.Prepared,
		res.Counters.Installed,
	)

	return headerStyle.Render(lipgloss.JoinVertical(lipgloss.Left, line1, line2, counters))
}
