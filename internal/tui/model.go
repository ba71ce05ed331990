package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/hardhatlabs/constructpro/internal/logger"
	"github.com/hardhatlabs/constructpro/internal/store"
)

// Tab identifies which collection the dashboard is showing.
type Tab int

const (
	TabProjects Tab = iota
	TabBin
	TabPersonnel
	TabMaterials
	TabFinance
	TabLabTests
	TabListings
	TabSiteTasks
	tabCount
)

var tabNames = [tabCount]string{
	"Projects", "Bin", "Personnel", "Materials",
	"Finance", "Lab Tests", "Listings", "Site Tasks",
}

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeAddSiteTask
	ModeHelp
)

// Model is the main dashboard model
type Model struct {
	st *store.Store

	// UI state
	width  int
	height int
	tab    Tab
	mode   Mode
	cursor [tabCount]int

	// Input
	input textinput.Model

	message string
	isError bool
}

// NewModel creates the dashboard model over an already-bootstrapped store.
func NewModel(st *store.Store) Model {
	logger.Info("Initializing dashboard model")

	ti := textinput.New()
	ti.Placeholder = "Task title..."
	ti.CharLimit = 256
	ti.Width = 50

	return Model{
		st:    st,
		tab:   TabProjects,
		mode:  ModeNormal,
		input: ti,
	}
}

// rowCount reports how many entries the current tab has.
func (m Model) rowCount() int {
	switch m.tab {
	case TabProjects:
		return len(m.st.Projects())
	case TabBin:
		return len(m.st.BinnedProjects())
	case TabPersonnel:
		return len(m.st.Personnel().List())
	case TabMaterials:
		return len(m.st.Materials().List())
	case TabFinance:
		return len(m.st.Transactions().List())
	case TabLabTests:
		return len(m.st.LabTests().List())
	case TabListings:
		return len(m.st.Listings().List())
	case TabSiteTasks:
		return len(m.st.SiteTasks().List())
	}
	return 0
}

func (m *Model) clampCursor() {
	n := m.rowCount()
	if m.cursor[m.tab] >= n {
		m.cursor[m.tab] = n - 1
	}
	if m.cursor[m.tab] < 0 {
		m.cursor[m.tab] = 0
	}
}
