package main

import "github.com/charmbracelet/lipgloss"

// Centralized style definitions for the TUI.
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")) // cyan
	positionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))            // gray
	badgeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))            // magenta

	dimStyle   = lipgloss.NewStyle().Faint(true)
	emptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)

	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")) // red
)
