package tui

import "github.com/charmbracelet/lipgloss"

var (
	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)
	styleFooter = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Padding(0, 1)
	styleKey    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	styleMuted  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleUser   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	styleJarvis = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	styleError  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	styleTool   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleBody   = lipgloss.NewStyle().PaddingLeft(2)
)
