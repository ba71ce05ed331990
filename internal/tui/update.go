package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/hardhatlabs/constructpro/internal/model"
)

// projectOpMsg reports the outcome of a server-side project operation.
type projectOpMsg struct {
	verb string
	err  error
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case projectOpMsg:
		if msg.err != nil {
			m.message = fmt.Sprintf("%s failed: %s", msg.verb, msg.err)
			m.isError = true
		} else {
			m.message = msg.verb + " ok"
			m.isError = false
		}
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeAddSiteTask:
			return m.updateAddSiteTask(msg)
		case ModeHelp:
			if key.Matches(msg, keys.Escape) || key.Matches(msg, keys.Help) || key.Matches(msg, keys.Quit) {
				m.mode = ModeNormal
			}
			return m, nil
		default:
			return m.updateNormal(msg)
		}
	}
	return m, nil
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp

	case key.Matches(msg, keys.Up):
		if m.cursor[m.tab] > 0 {
			m.cursor[m.tab]--
		}

	case key.Matches(msg, keys.Down):
		if m.cursor[m.tab] < m.rowCount()-1 {
			m.cursor[m.tab]++
		}

	case key.Matches(msg, keys.Right), key.Matches(msg, keys.Tab):
		m.tab = (m.tab + 1) % tabCount
		m.message = ""

	case key.Matches(msg, keys.Left):
		m.tab = (m.tab + tabCount - 1) % tabCount
		m.message = ""

	case key.Matches(msg, keys.Refresh):
		return m, m.projectCmd("Refresh", func(ctx context.Context) error {
			return m.st.RefreshProjects(ctx)
		})

	case key.Matches(msg, keys.Add):
		if m.tab == TabSiteTasks {
			m.mode = ModeAddSiteTask
			m.input.SetValue("")
			m.input.Focus()
			return m, textinput.Blink
		}

	case key.Matches(msg, keys.Done):
		if m.tab == TabSiteTasks {
			tasks := m.st.SiteTasks().List()
			if i := m.cursor[m.tab]; i < len(tasks) {
				t := tasks[i]
				t.Done = !t.Done
				m.st.SiteTasks().Update(t.ID, t)
			}
		}

	case key.Matches(msg, keys.Restore):
		if m.tab == TabBin {
			if p, ok := m.selectedProject(); ok {
				return m, m.projectCmd("Restore", func(ctx context.Context) error {
					_, err := m.st.RestoreProject(ctx, p.ID)
					return err
				})
			}
		}

	case key.Matches(msg, keys.Delete):
		return m.deleteSelected()
	}

	m.clampCursor()
	return m, nil
}

// deleteSelected bins an active project, purges a binned one and removes
// entries from local collections outright.
func (m Model) deleteSelected() (tea.Model, tea.Cmd) {
	i := m.cursor[m.tab]
	switch m.tab {
	case TabProjects:
		if p, ok := m.selectedProject(); ok {
			return m, m.projectCmd("Bin", func(ctx context.Context) error {
				_, err := m.st.BinProject(ctx, p.ID)
				return err
			})
		}
	case TabBin:
		if p, ok := m.selectedProject(); ok {
			return m, m.projectCmd("Purge", func(ctx context.Context) error {
				return m.st.PurgeProject(ctx, p.ID)
			})
		}
	case TabPersonnel:
		if items := m.st.Personnel().List(); i < len(items) {
			m.st.Personnel().Delete(items[i].ID)
		}
	case TabMaterials:
		if items := m.st.Materials().List(); i < len(items) {
			m.st.Materials().Delete(items[i].ID)
		}
	case TabFinance:
		if items := m.st.Transactions().List(); i < len(items) {
			m.st.Transactions().Delete(items[i].ID)
		}
	case TabLabTests:
		if items := m.st.LabTests().List(); i < len(items) {
			m.st.LabTests().Delete(items[i].ID)
		}
	case TabListings:
		if items := m.st.Listings().List(); i < len(items) {
			m.st.Listings().Delete(items[i].ID)
		}
	case TabSiteTasks:
		if items := m.st.SiteTasks().List(); i < len(items) {
			m.st.SiteTasks().Delete(items[i].ID)
		}
	}
	m.clampCursor()
	return m, nil
}

func (m Model) updateAddSiteTask(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		m.input.Blur()
		return m, nil

	case key.Matches(msg, keys.Enter):
		title := strings.TrimSpace(m.input.Value())
		if title != "" {
			m.st.SiteTasks().Add(model.SiteTask{Title: title})
		}
		m.mode = ModeNormal
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// selectedProject resolves the cursor on the Projects or Bin tab.
func (m Model) selectedProject() (model.Project, bool) {
	var list []model.Project
	if m.tab == TabBin {
		list = m.st.BinnedProjects()
	} else {
		list = m.st.Projects()
	}
	if i := m.cursor[m.tab]; i < len(list) {
		return list[i], true
	}
	return model.Project{}, false
}

func (m Model) projectCmd(verb string, op func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return projectOpMsg{verb: verb, err: op(context.Background())}
	}
}
