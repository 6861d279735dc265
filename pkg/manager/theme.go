package manager

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the lipgloss styles used by the TUI. All styles are safe to
// use even when styling is disabled; NoTheme returns pass-through styles.
type Theme struct {
	Header    lipgloss.Style
	Accent    lipgloss.Style
	Selected  lipgloss.Style
	Dim       lipgloss.Style
	Checkbox  lipgloss.Style
	Help      lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
	Warn      lipgloss.Style
	ModalEdge lipgloss.Style
}

// ResolveTheme maps a settings theme name to a palette. Unknown names get
// the dark palette.
func ResolveTheme(name string) Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none", "off", "disabled":
		return NoTheme()
	case "light":
		return LightTheme()
	default:
		return DarkTheme()
	}
}

// NoTheme disables all styling.
func NoTheme() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Header:    plain,
		Accent:    plain,
		Selected:  plain,
		Dim:       plain,
		Checkbox:  plain,
		Help:      plain,
		Error:     plain,
		Success:   plain,
		Warn:      plain,
		ModalEdge: lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1),
	}
}

// DarkTheme is the default palette for dark terminals.
func DarkTheme() Theme {
	return Theme{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("183")),
		Accent:    lipgloss.NewStyle().Foreground(lipgloss.Color("44")),
		Selected:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("216")),
		Dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Checkbox:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		Help:      lipgloss.NewStyle().Foreground(lipgloss.Color("44")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Success:   lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		Warn:      lipgloss.NewStyle().Foreground(lipgloss.Color("215")),
		ModalEdge: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("183")).Padding(0, 1),
	}
}

// LightTheme is a palette for light terminals.
func LightTheme() Theme {
	return Theme{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("55")),
		Accent:    lipgloss.NewStyle().Foreground(lipgloss.Color("25")),
		Selected:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("130")),
		Dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		Checkbox:  lipgloss.NewStyle().Foreground(lipgloss.Color("25")),
		Help:      lipgloss.NewStyle().Foreground(lipgloss.Color("25")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("124")),
		Success:   lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
		Warn:      lipgloss.NewStyle().Foreground(lipgloss.Color("136")),
		ModalEdge: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("55")).Padding(0, 1),
	}
}

// SelectedPrefix returns the " > " marker (or padding) for list rows.
func (t Theme) SelectedPrefix(selected bool) string {
	if !selected {
		return "   "
	}
	return t.Selected.Render(" > ")
}

// CheckboxMark renders a checkbox for the import picker.
func (t Theme) CheckboxMark(on bool) string {
	if on {
		return t.Checkbox.Render("[x]")
	}
	return t.Dim.Render("[ ]")
}
