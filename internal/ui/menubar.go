package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"rr-monitor.klederson.com/internal/config"
)

// menuKeys are the key hints shown in the menu bar, in display order.
var menuKeys = []struct{ key, label string }{
	{"l", "list"},
	{"c", "chart"},
	{"r", "refresh"},
	{"s", "simulate"},
	{"p", "pause"},
	{"q", "quit"},
}

// RenderMenuBar renders the top menu bar: title and key hints on the left,
// current view and source on the right.
func RenderMenuBar(width int, source string, view string) string {
	var left strings.Builder
	left.WriteString(StyleMenuKey.Render(fmt.Sprintf(" %s v%s ", config.AppName, config.AppVersion)))
	for _, k := range menuKeys {
		left.WriteString("  " + StyleMenuKey.Render(k.key) + " " + StyleMenuLabel.Render(k.label))
	}

	right := StyleMenuLabel.Render(fmt.Sprintf("View: %s  Source: %s", view, source)) + " "

	gap := max(width-StyleMenuBar.GetHorizontalFrameSize()-lipgloss.Width(left.String())-lipgloss.Width(right), 0)
	return StyleMenuBar.Width(width).Render(left.String() + strings.Repeat(" ", gap) + right)
}
