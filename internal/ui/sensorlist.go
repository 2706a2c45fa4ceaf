package ui

import (
	"fmt"
	"strings"
)

// RenderSensorList renders the sensor panel: one entry per sensor with its
// position and effective detection radius. The selected sensor is
// highlighted.
func RenderSensorList(sensors []SensorView, width, height int) string {
	innerW := width - 4
	if innerW < 10 {
		innerW = 10
	}
	innerH := height - 2
	if innerH < 2 {
		innerH = 2
	}

	lines := []string{
		StylePanelTitle.Render(fmt.Sprintf("SENSORS [%d]", len(sensors))),
		StyleGridCircle.Render(strings.Repeat("-", innerW)),
	}

	if len(sensors) == 0 {
		lines = append(lines, StyleHelp.Render(" No sensors configured"))
	}

	for _, s := range sensors {
		raw1 := fmt.Sprintf(" %s  (%.0f, %.0f)", s.ID, s.Position.X, s.Position.Y)
		raw2 := fmt.Sprintf("     r=%.1f cm", s.Radius)

		if s.Selected {
			lines = append(lines,
				StyleCursorLine.Render(padTo(">"+raw1[1:], innerW)),
				StyleCursorLine.Render(padTo(raw2, innerW)))
		} else {
			lines = append(lines,
				StyleSensorID.Render(raw1),
				StyleSensorDetail.Render(raw2))
		}
		lines = append(lines, "")
	}

	if len(lines) > innerH {
		lines = lines[:innerH]
	}
	for len(lines) < innerH {
		lines = append(lines, "")
	}

	rendered := StylePanelBorder.Width(width - 2).Height(innerH).Render(strings.Join(lines, "\n"))
	return clampHeight(rendered, height)
}

// padTo pads or truncates a raw string to exactly w characters so row
// highlights span the panel.
func padTo(s string, w int) string {
	if len(s) > w {
		return s[:w]
	}
	return s + strings.Repeat(" ", w-len(s))
}
