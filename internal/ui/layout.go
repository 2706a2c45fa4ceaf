package ui

import "github.com/charmbracelet/lipgloss"

// ComposeLayout joins the grid panel with the sensor and audio panels
// stacked on the right, menu bar on top and status bar on bottom.
func ComposeLayout(menuBar, gridPanel, sensorList, channelList, statusBar string) string {
	side := lipgloss.JoinVertical(lipgloss.Left, sensorList, channelList)
	middle := lipgloss.JoinHorizontal(lipgloss.Top, gridPanel, side)
	return lipgloss.JoinVertical(lipgloss.Left, menuBar, middle, statusBar)
}
