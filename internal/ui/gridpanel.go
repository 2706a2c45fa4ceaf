package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"echogrid/internal/config"
	"echogrid/internal/geo"
)

// SensorView is the render-side view of a sensor node.
type SensorView struct {
	ID       string
	Position geo.Point
	Radius   float64
	Selected bool
}

// PositionView is the render-side view of the latest estimate.
type PositionView struct {
	Point       geo.Point
	Quality     float64
	OutOfBounds bool
	Stale       bool
	Fallback    bool
}

// GridView bundles everything the grid panel draws.
type GridView struct {
	GridWidth  float64 // cm
	GridHeight float64 // cm
	Sensors    []SensorView
	Estimate   *PositionView
	Trace      []geo.Point
}

// cell priority, low to high: empty, dot, circle, trace, label, sensor, estimate
const (
	cellEmpty = iota
	cellDot
	cellCircle
	cellTrace
	cellLabel
	cellSensor
	cellEstimate
)

type gridCell struct {
	priority int
	rendered string
}

// RenderGridPanel draws the tracking grid inside a bordered panel: sensor
// markers with their detection circles, the estimate trail, and the current
// estimate.
func RenderGridPanel(panelW, panelH, innerW, innerH int, view GridView) string {
	content := renderGrid(innerW, innerH, view)
	title := StylePanelTitle.Render(fmt.Sprintf("GRID %.0fx%.0f cm", view.GridWidth, view.GridHeight))

	body := lipgloss.JoinVertical(lipgloss.Left, title, content)
	rendered := StylePanelBorder.Width(panelW - 2).Height(panelH - 2).Render(body)
	return clampHeight(rendered, panelH)
}

func renderGrid(width, height int, view GridView) string {
	if width < 10 || height < 5 || view.GridWidth <= 0 || view.GridHeight <= 0 {
		return ""
	}

	// cm-to-cell scale. Terminal characters are roughly twice as tall as
	// wide, so the vertical scale carries the aspect correction; the grid
	// is fit to whichever axis binds.
	sx := float64(width-1) / view.GridWidth
	sy := float64(height-1) / view.GridHeight
	if sx*config.AspectRatio < sy {
		sy = sx * config.AspectRatio
	} else {
		sx = sy / config.AspectRatio
	}

	toCell := func(p geo.Point) (int, int) {
		col := int(math.Round(p.X * sx))
		row := int(math.Round((view.GridHeight - p.Y) * sy))
		return col, row
	}

	cells := make([]gridCell, width*height)
	set := func(col, row, priority int, rendered string) {
		if col < 0 || col >= width || row < 0 || row >= height {
			return
		}
		idx := row*width + col
		if cells[idx].priority < priority {
			cells[idx] = gridCell{priority: priority, rendered: rendered}
		}
	}

	// Sparse background dots keep the grid legible without filling it.
	for row := 0; row < height; row += 3 {
		for col := 0; col < width; col += 6 {
			set(col, row, cellDot, StyleGridDot.Render("."))
		}
	}

	// Detection circles, sampled along the perimeter. The sample count
	// scales with radius so large circles stay closed.
	for _, s := range view.Sensors {
		sty := StyleGridCircle
		if s.Selected {
			sty = StyleGridSensorSel
		}
		steps := int(s.Radius * sx * 8)
		if steps < 24 {
			steps = 24
		}
		for i := 0; i < steps; i++ {
			theta := 2 * math.Pi * float64(i) / float64(steps)
			p := geo.Point{
				X: s.Position.X + s.Radius*math.Cos(theta),
				Y: s.Position.Y + s.Radius*math.Sin(theta),
			}
			if p.X < 0 || p.X > view.GridWidth || p.Y < 0 || p.Y > view.GridHeight {
				continue
			}
			col, row := toCell(p)
			set(col, row, cellCircle, sty.Render("·"))
		}
	}

	// Trail, oldest first so newer points overwrite older cells. The older
	// half fades to the dim style.
	for i, p := range view.Trace {
		sty := StyleGridTrace
		if i < len(view.Trace)/2 {
			sty = StyleGridTraceDim
		}
		col, row := toCell(p)
		set(col, row, cellTrace, sty.Render("~"))
	}

	// Sensor markers and ID labels.
	for _, s := range view.Sensors {
		col, row := toCell(s.Position)
		sty := StyleGridSensor
		if s.Selected {
			sty = StyleGridSensorSel
		}
		set(col, row, cellSensor, sty.Render("O"))
		for i, ch := range s.ID {
			set(col+2+i, row, cellLabel, sty.Render(string(ch)))
		}
	}

	// Current estimate on top of everything.
	if view.Estimate != nil {
		col, row := toCell(view.Estimate.Point)
		marker := "@"
		sty := StyleGridEstimate
		if view.Estimate.Stale {
			marker = "?"
			sty = StyleGridStale
		} else if view.Estimate.OutOfBounds {
			marker = "!"
			sty = StyleGridStale
		}
		set(col, row, cellEstimate, sty.Render(marker))
	}

	var sb strings.Builder
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			c := cells[row*width+col]
			if c.rendered == "" {
				sb.WriteByte(' ')
			} else {
				sb.WriteString(c.rendered)
			}
		}
		if row < height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// clampHeight pads or truncates rendered output to exactly height lines.
// lipgloss Height() only sets a minimum; it won't truncate overflow.
func clampHeight(rendered string, height int) string {
	lines := strings.Split(rendered, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
