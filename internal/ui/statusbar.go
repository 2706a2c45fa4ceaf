package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, running bool, pos *PositionView, violations int, masterVolume float64, lastErr error) string {
	status := ""
	if running {
		status = StyleStatusRunning.Render("[TRACKING]")
	} else {
		status = StyleStatusPaused.Render("[PAUSED]")
	}

	posInfo := " Pos: --"
	if pos != nil {
		flags := ""
		if pos.Stale {
			flags += " STALE"
		}
		if pos.OutOfBounds {
			flags += " OOB"
		}
		if pos.Fallback {
			flags += " LSQ"
		}
		posInfo = fmt.Sprintf(" Pos: (%.1f, %.1f)  Q: %.2f%s", pos.Point.X, pos.Point.Y, pos.Quality, flags)
	}

	info := fmt.Sprintf("%s  Vol: %.0f%%", posInfo, masterVolume*100)
	content := status + StyleStatusBar.Foreground(ColorGreen).Render(info)

	if violations > 0 {
		content += StyleStatusError.Render(fmt.Sprintf("  LAYOUT: %d violations", violations))
	} else if lastErr != nil {
		content += StyleStatusPaused.Render("  " + lastErr.Error())
	}

	gap := width - lipgloss.Width(content)
	if gap < 0 {
		gap = 0
	}

	return StyleStatusBar.Width(width).Render(content + strings.Repeat(" ", gap))
}
