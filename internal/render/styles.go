package render

import "github.com/charmbracelet/lipgloss"

var (
	primary = lipgloss.Color("51")
	muted   = lipgloss.Color("245")
	accent  = lipgloss.Color("214")
)

type styles struct {
	header     lipgloss.Style
	label      lipgloss.Style
	section    lipgloss.Style
	location   lipgloss.Style
	suggestion lipgloss.Style
	dim        lipgloss.Style
}

func newStyles() styles {
	return styles{
		header: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(primary).
			Padding(0, 2).
			MarginBottom(1),
		label: lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(accent).
			Bold(true).
			Padding(0, 1),
		section: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true).
			MarginTop(1).
			BorderBottom(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(primary),
		location: lipgloss.NewStyle().Foreground(accent).Bold(true),
		suggestion: lipgloss.NewStyle().
			PaddingLeft(2).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(muted),
		dim: lipgloss.NewStyle().Foreground(muted).Italic(true),
	}
}
