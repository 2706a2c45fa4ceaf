package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"echogrid/internal/config"
)

// RenderMenuBar renders the top menu bar.
func RenderMenuBar(width int, mode string, running, demoMode bool) string {
	title := fmt.Sprintf(" %s v%s ", config.AppName, config.AppVersion)

	keys := []struct{ key, label string }{
		{"M", "ode"},
		{"A", "udio"},
		{"X", " stop"},
		{"P", "ause"},
		{"Q", "uit"},
	}

	menu := ""
	for _, k := range keys {
		menu += "  " + StyleMenuKey.Render("["+k.key+"]") + StyleMenuLabel.Render(k.label)
	}

	status := ""
	if running {
		status = StyleStatusRunning.Render("TRACKING")
	} else {
		status = StyleStatusPaused.Render("PAUSED")
	}

	src := "ble"
	if demoMode {
		src = "demo"
	}
	info := StyleMenuLabel.Render(fmt.Sprintf("mode: %s  src: %s", mode, src))

	left := StyleMenuKey.Render(title) + menu
	right := status + "  " + info + " "

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	return StyleMenuBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
