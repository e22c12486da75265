package chart

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"rr-monitor.klederson.com/internal/config"
	"rr-monitor.klederson.com/internal/rr"
	"rr-monitor.klederson.com/internal/ui"
)

const (
	axisWidth = 6 // "1.40 |"
	barChar   = "█"
	topChar   = "▀"
	bandChar  = "·"
)

// Render draws the window as a bar chart of width x height cells. Each column
// is one sample, newest on the right; bars rise from ChartMin.
func Render(width, height int, w rr.Window) string {
	if width <= axisWidth || height < 2 {
		return ""
	}
	plotW := width - axisWidth
	points := VisiblePoints(w.Points, plotW)
	labels := axisLabels(height)

	var b strings.Builder
	for row := 0; row < height; row++ {
		b.WriteString(ui.StyleAxis.Render(labels[row]))
		for col := 0; col < plotW; col++ {
			b.WriteString(renderCell(col, row, height, points))
		}
		if row < height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func renderCell(col, row, height int, points []rr.Point) string {
	if col < len(points) {
		p := points[col]
		top := ValueToRow(p.Value, height)
		switch {
		case row == top:
			return ui.HealthStyle(p).Render(topChar)
		case row > top:
			return ui.HealthStyle(p).Render(barChar)
		}
	}
	if InHealthyBand(row, height) {
		return ui.StyleBand.Render(bandChar)
	}
	return " "
}

// axisLabels returns the y-axis gutter for every row. Only rows closest to the
// range bounds and healthy limits are labelled.
func axisLabels(height int) []string {
	labels := make([]string, height)
	marked := map[int]float64{}
	for _, v := range []float64{config.ChartMax, config.HealthyMax, config.HealthyMin, config.ChartMin} {
		marked[ValueToRow(v, height)] = v
	}
	for row := range labels {
		if v, ok := marked[row]; ok {
			labels[row] = fmt.Sprintf("%4.2f |", v)
		} else {
			labels[row] = "     |"
		}
	}
	return labels
}

// RenderLegend produces the chart legend line.
func RenderLegend(width int) string {
	legend := "   " +
		lipgloss.NewStyle().Foreground(ui.HealthColor(1)).Render(barChar+" healthy") +
		"  " +
		lipgloss.NewStyle().Foreground(ui.HealthColor(0)).Render(barChar+" out of range") +
		"  " +
		ui.StyleBand.Render(bandChar+" "+fmt.Sprintf("%.1f-%.1fs", config.HealthyMin, config.HealthyMax))

	pad := (width - lipgloss.Width(legend)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + legend
}

// RenderPanel wraps the chart and legend in a bordered panel.
func RenderPanel(width, height int, w rr.Window) string {
	innerW := width - 4
	innerH := height - 4 // border, title, legend
	if innerW < axisWidth+1 {
		innerW = axisWidth + 1
	}
	if innerH < 2 {
		innerH = 2
	}
	content := Render(innerW, innerH, w) + "\n" + RenderLegend(innerW)
	title := fmt.Sprintf("CHART [%d/%d]", len(w.Points), w.Capacity)
	return ui.RenderPanel(width, height, title, content)
}
