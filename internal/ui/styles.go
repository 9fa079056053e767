package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Icon constants
const (
	TrumpIcon    = "🃏"
	AttackerIcon = "⚔️"
	DefenderIcon = "🛡️"
	DurakIcon    = "🤡"
)

// Lipgloss styles shared by every view.
var (
	redStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#CD0000")).Background(lipgloss.Color("#FFFFFF")).Bold(true)
	blackStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("#FFFFFF")).Bold(true)
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true).Render
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
)

func isRedSuit(suit string) bool {
	return suit == "♥" || suit == "♦"
}

func cardStyle(suit string) lipgloss.Style {
	if isRedSuit(suit) {
		return redStyle
	}
	return blackStyle
}
