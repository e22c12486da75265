package ui

import "github.com/charmbracelet/lipgloss"

// Monitor color palette
var (
	ColorPulseGreen = lipgloss.Color("#00FF41")
	ColorGreen      = lipgloss.Color("#00CC33")
	ColorMidGreen   = lipgloss.Color("#008F11")
	ColorDimGreen   = lipgloss.Color("#004A0A")
	ColorBorderNorm = lipgloss.Color("#00AA22")
	ColorBand       = lipgloss.Color("#003300")
	ColorError      = lipgloss.Color("#FF3300")
	ColorWarning    = lipgloss.Color("#FFAA00")
	ColorExternal   = lipgloss.Color("#00FFAA")
)

// Pre-built styles
var (
	StyleMenuBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#002200")).
			Foreground(ColorPulseGreen).
			Bold(true).
			Padding(0, 1)

	StyleMenuKey = lipgloss.NewStyle().
			Foreground(ColorPulseGreen).
			Bold(true)

	StyleMenuLabel = lipgloss.NewStyle().
			Foreground(ColorGreen)

	StyleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#002200")).
			Foreground(ColorGreen).
			Padding(0, 1)

	StyleModeSimulating = lipgloss.NewStyle().
				Foreground(ColorPulseGreen).
				Bold(true)

	StyleModePaused = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)

	StyleModeExternal = lipgloss.NewStyle().
				Foreground(ColorExternal).
				Bold(true)

	StyleStatusError = lipgloss.NewStyle().
				Foreground(ColorError).
				Bold(true)

	StylePanelBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorderNorm)

	StylePanelTitle = lipgloss.NewStyle().
			Foreground(ColorPulseGreen).
			Bold(true).
			Padding(0, 1)

	StyleAxis = lipgloss.NewStyle().
			Foreground(ColorMidGreen)

	StyleBand = lipgloss.NewStyle().
			Foreground(ColorBand)

	StyleHelp = lipgloss.NewStyle().
			Foreground(ColorDimGreen)

	StyleCursorLine = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(ColorPulseGreen).
			Bold(true)
)
