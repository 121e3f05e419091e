package ui

import "github.com/charmbracelet/lipgloss"

// Styles are the lipgloss styles of the interactive view.
type Styles struct {
	Theme    Theme
	Title    lipgloss.Style
	Tab      lipgloss.Style
	TabOn    lipgloss.Style
	Item     lipgloss.Style
	Pending  lipgloss.Style
	Selected lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Warn     lipgloss.Style
	Help     lipgloss.Style
	Border   lipgloss.Style
	Sidebar  lipgloss.Style
}

func NewStyles(name string) Styles {
	t := Lookup(name)
	s := Styles{
		Theme:    t,
		Title:    lipgloss.NewStyle().Bold(true),
		Tab:      lipgloss.NewStyle().Padding(0, 1),
		Item:     lipgloss.NewStyle(),
		Selected: lipgloss.NewStyle().Bold(true).Reverse(true),
		Help:     lipgloss.NewStyle().Faint(true),
		Muted:    lipgloss.NewStyle().Faint(true),
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1),
		Sidebar: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(lipgloss.Color("8")).
			PaddingRight(1),
	}
	switch t.Name {
	case "mono":
		s.TabOn = s.Tab.Underline(true)
		s.Pending = lipgloss.NewStyle().Italic(true)
		s.Error = lipgloss.NewStyle().Bold(true)
		s.Warn = lipgloss.NewStyle()
		s.Border = s.Border.BorderStyle(lipgloss.NormalBorder()).UnsetBorderForeground()
	case "neon":
		s.Title = s.Title.Foreground(lipgloss.Color("13"))
		s.TabOn = s.Tab.Bold(true).Foreground(lipgloss.Color("14"))
		s.Pending = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Italic(true)
		s.Error = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
		s.Warn = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	default:
		s.TabOn = s.Tab.Bold(true).Foreground(lipgloss.Color("12"))
		s.Pending = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Italic(true)
		s.Error = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
		s.Warn = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	}
	return s
}
