package theme

import "github.com/charmbracelet/lipgloss"

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Plain  *lipgloss.Style
	Bold   *lipgloss.Style
	Footer *lipgloss.Style
	Error  *lipgloss.Style
}

var defaultStyles = Styles{
	Plain: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	),
	Bold: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true),
	),
	Footer: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
