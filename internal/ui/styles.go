package ui

import "github.com/charmbracelet/lipgloss"

// Matrix color palette
var (
	ColorMatrixGreen  = lipgloss.Color("#00FF41")
	ColorGreen        = lipgloss.Color("#00CC33")
	ColorMidGreen     = lipgloss.Color("#008F11")
	ColorDimGreen     = lipgloss.Color("#004A0A")
	ColorSensor       = lipgloss.Color("#00FFAA")
	ColorEstimate     = lipgloss.Color("#FFCC00")
	ColorTrace        = lipgloss.Color("#33FF66")
	ColorBorderBright = lipgloss.Color("#00FF41")
	ColorBorderNorm   = lipgloss.Color("#00AA22")
	ColorError        = lipgloss.Color("#FF3300")
	ColorWarning      = lipgloss.Color("#FFAA00")
)

// Pre-built styles
var (
	StyleMenuBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#002200")).
			Foreground(ColorMatrixGreen).
			Bold(true).
			Padding(0, 1)

	StyleMenuKey = lipgloss.NewStyle().
			Foreground(ColorMatrixGreen).
			Bold(true)

	StyleMenuLabel = lipgloss.NewStyle().
			Foreground(ColorGreen)

	StyleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#002200")).
			Foreground(ColorGreen).
			Padding(0, 1)

	StyleStatusRunning = lipgloss.NewStyle().
				Foreground(ColorMatrixGreen).
				Bold(true)

	StyleStatusPaused = lipgloss.NewStyle().
				Foreground(ColorWarning).
				Bold(true)

	StyleStatusError = lipgloss.NewStyle().
				Foreground(ColorError).
				Bold(true)

	StylePanelBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorderNorm)

	StylePanelTitle = lipgloss.NewStyle().
			Foreground(ColorMatrixGreen).
			Bold(true).
			Padding(0, 1)

	StyleSensorID = lipgloss.NewStyle().
			Foreground(ColorSensor).
			Bold(true)

	StyleSensorDetail = lipgloss.NewStyle().
				Foreground(ColorGreen)

	StyleGridDot = lipgloss.NewStyle().
			Foreground(ColorDimGreen)

	StyleGridCircle = lipgloss.NewStyle().
			Foreground(ColorMidGreen)

	StyleGridSensor = lipgloss.NewStyle().
			Foreground(ColorSensor).
			Bold(true)

	StyleGridSensorSel = lipgloss.NewStyle().
				Foreground(ColorMatrixGreen).
				Bold(true)

	StyleGridEstimate = lipgloss.NewStyle().
				Foreground(ColorEstimate).
				Bold(true)

	StyleGridStale = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)

	StyleGridTrace = lipgloss.NewStyle().
			Foreground(ColorTrace)

	StyleGridTraceDim = lipgloss.NewStyle().
				Foreground(ColorDimGreen)

	StyleChannelPlaying = lipgloss.NewStyle().
				Foreground(ColorMatrixGreen).
				Bold(true)

	StyleChannelIdle = lipgloss.NewStyle().
				Foreground(ColorMidGreen)

	StyleChannelOff = lipgloss.NewStyle().
			Foreground(ColorDimGreen)

	StyleCursorLine = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(ColorMatrixGreen).
			Bold(true)

	StyleHelp = lipgloss.NewStyle().
			Foreground(ColorDimGreen)
)
