package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/hardhatlabs/constructpro/internal/model"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := m.renderHeader()
	body := m.renderBody()
	statusBar := m.renderStatusBar()

	content := lipgloss.JoinVertical(lipgloss.Left, header, body)

	if m.mode == ModeAddSiteTask {
		modal := ModalStyle.Render("New site task\n\n" + m.input.View())
		content = lipgloss.Place(
			m.width, m.height-2,
			lipgloss.Center, lipgloss.Center,
			modal,
			lipgloss.WithWhitespaceChars(" "),
		)
	}

	if m.mode == ModeHelp {
		content = m.renderHelp()
	}

	return lipgloss.JoinVertical(lipgloss.Left, content, statusBar)
}

func (m Model) renderHeader() string {
	title := HeaderStyle.Render("ConstructPro")
	if u := m.st.User(); u != nil {
		title += HelpStyle.Render(fmt.Sprintf(" %s (%s)", u.Username, u.Role))
	} else {
		title += HelpStyle.Render(" signed out")
	}

	var tabs []string
	for i := Tab(0); i < tabCount; i++ {
		label := fmt.Sprintf("%s (%d)", tabNames[i], m.rowCountFor(i))
		if i == m.tab {
			tabs = append(tabs, TabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, TabStyle.Render(label))
		}
	}

	rule := BorderStyle.Render(strings.Repeat("─", max(m.width-2, 0)))
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		rule,
	)
}

// rowCountFor counts entries on a tab other than the focused one. The
// receiver is a copy, so flipping the tab here is invisible to callers.
func (m Model) rowCountFor(t Tab) int {
	m.tab = t
	return m.rowCount()
}

func (m Model) renderBody() string {
	lines := m.rows()
	if len(lines) == 0 {
		return ListStyle.Render(HelpStyle.Render("Nothing here yet."))
	}

	var s strings.Builder
	for i, line := range lines {
		cursor := "  "
		style := ItemStyle
		if i == m.cursor[m.tab] {
			cursor = "❯ "
			style = ItemSelectedStyle
		}
		if m.tab == TabSiteTasks {
			tasks := m.st.SiteTasks().List()
			if i < len(tasks) && tasks[i].Done && i != m.cursor[m.tab] {
				style = ItemDoneStyle
			}
		}
		s.WriteString(style.Render(cursor+line) + "\n")
	}
	return ListStyle.Render(s.String())
}

// rows formats the current tab's entries, one line each.
func (m Model) rows() []string {
	switch m.tab {
	case TabProjects:
		return projectRows(m.st.Projects())
	case TabBin:
		return projectRows(m.st.BinnedProjects())
	case TabPersonnel:
		out := []string{}
		for _, p := range m.st.Personnel().List() {
			out = append(out, fmt.Sprintf("%-24s %-16s %s", truncate(p.Name, 24), p.Role, p.Phone))
		}
		return out
	case TabMaterials:
		out := []string{}
		for _, mat := range m.st.Materials().List() {
			out = append(out, fmt.Sprintf("%-24s %8.1f %-6s %10.2f", truncate(mat.Name, 24), mat.Quantity, mat.Unit, mat.UnitPrice))
		}
		return out
	case TabFinance:
		out := []string{}
		for _, t := range m.st.Transactions().List() {
			out = append(out, fmt.Sprintf("%-8s %12.2f  %s", t.Kind, t.Amount, truncate(t.Note, 40)))
		}
		return out
	case TabLabTests:
		out := []string{}
		for _, l := range m.st.LabTests().List() {
			verdict := "FAIL"
			if l.Passed {
				verdict = "PASS"
			}
			out = append(out, fmt.Sprintf("%-24s %-6s %s", truncate(l.TestType, 24), verdict, l.Result))
		}
		return out
	case TabListings:
		out := []string{}
		for _, l := range m.st.Listings().List() {
			out = append(out, fmt.Sprintf("%-32s %10.2f  %s", truncate(l.Title, 32), l.Price, l.Category))
		}
		return out
	case TabSiteTasks:
		out := []string{}
		for _, t := range m.st.SiteTasks().List() {
			icon := "[ ]"
			if t.Done {
				icon = "[x]"
			}
			out = append(out, fmt.Sprintf("%s %-32s %s", icon, truncate(t.Title, 32), t.DueDate))
		}
		return out
	}
	return nil
}

func projectRows(projects []model.Project) []string {
	out := []string{}
	for _, p := range projects {
		badge := priorityStyle(p.Priority).Render(strings.ToUpper(p.Priority))
		out = append(out, fmt.Sprintf("%-28s %-12s %s %3d%%", truncate(p.Name, 28), p.Status, badge, p.Completion))
	}
	return out
}

func (m Model) renderStatusBar() string {
	left := StatusBarStyle.Render("? help · q quit")
	if m.message == "" {
		return left
	}
	if m.isError {
		return left + ErrorStyle.Render(m.message)
	}
	return left + MessageStyle.Render(m.message)
}

func (m Model) renderHelp() string {
	help := `
  Navigation
    ←/h →/l tab   switch tab
    ↑/k ↓/j       move cursor

  Projects
    d             bin project (Bin tab: purge)
    r             restore from bin
    R             refresh from server

  Local collections
    a             add site task (Site Tasks tab)
    x             toggle task done
    d             delete entry

  ?/esc close · q quit`
	return ListStyle.Render(help)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
