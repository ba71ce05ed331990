package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	// Priority colors
	PriorityUrgent = lipgloss.Color("#FF6B6B")
	PriorityHigh   = lipgloss.Color("#FFB347")
	PriorityMedium = lipgloss.Color("#FFE66D")
	PriorityLow    = lipgloss.Color("#4ECDC4")

	// Status colors
	StatusDone    = lipgloss.Color("#95E1A3")
	StatusWarning = lipgloss.Color("#FFE66D")
	StatusError   = lipgloss.Color("#FF6B6B")

	// UI colors
	Primary   = lipgloss.Color("#4ECDC4")
	Surface   = lipgloss.Color("#16213e")
	TextMuted = lipgloss.Color("#888888")
	Border    = lipgloss.Color("#333333")
)

// Styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1)

	TabStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1)

	TabActiveStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true).
			Padding(0, 1)

	ListStyle = lipgloss.NewStyle().
			Padding(1, 2)

	ItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	ItemSelectedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(Surface).
				Bold(true)

	ItemDoneStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Strikethrough(true).
			Padding(0, 1)

	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1)

	MessageStyle = lipgloss.NewStyle().
			Foreground(StatusDone).
			Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(StatusError).
			Padding(0, 1)

	ModalStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	BorderStyle = lipgloss.NewStyle().
			Foreground(Border)
)

func priorityStyle(priority string) lipgloss.Style {
	switch priority {
	case "urgent":
		return lipgloss.NewStyle().Foreground(PriorityUrgent).Bold(true)
	case "high":
		return lipgloss.NewStyle().Foreground(PriorityHigh).Bold(true)
	case "medium":
		return lipgloss.NewStyle().Foreground(PriorityMedium)
	default:
		return lipgloss.NewStyle().Foreground(PriorityLow)
	}
}
