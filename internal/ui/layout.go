package ui

import "github.com/charmbracelet/lipgloss"

// ComposeLayout stacks the menu bar, the active view panel and the status bar.
func ComposeLayout(menuBar, panel, statusBar string) string {
	return lipgloss.JoinVertical(lipgloss.Left, menuBar, panel, statusBar)
}

// RenderPanel wraps content with a titled border sized to width x height.
func RenderPanel(width, height int, title, content string) string {
	body := StylePanelTitle.Render(title) + "\n" + content
	return StylePanelBorder.Width(width - 2).Height(height - 2).Render(body)
}
