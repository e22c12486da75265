package chart

import (
	"math"

	"rr-monitor.klederson.com/internal/config"
	"rr-monitor.klederson.com/internal/rr"
)

// ValueToRow maps an interval to a plot row, 0 being the top (ChartMax) and
// height-1 the bottom (ChartMin). Values outside the range are pinned to the
// nearest edge.
func ValueToRow(v float64, height int) int {
	if height <= 1 {
		return 0
	}
	frac := (v - config.ChartMin) / (config.ChartMax - config.ChartMin)
	if math.IsNaN(frac) || frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return height - 1 - int(math.Round(frac*float64(height-1)))
}

// RowValue is the interval a row represents; the inverse of ValueToRow.
func RowValue(row, height int) float64 {
	if height <= 1 {
		return config.ChartMax
	}
	frac := float64(height-1-row) / float64(height-1)
	return config.ChartMin + frac*(config.ChartMax-config.ChartMin)
}

// InHealthyBand reports whether a row lies within the healthy range.
func InHealthyBand(row, height int) bool {
	top := ValueToRow(config.HealthyMax, height)
	bottom := ValueToRow(config.HealthyMin, height)
	return row >= top && row <= bottom
}

// VisiblePoints returns the most recent points that fit in width columns,
// oldest first.
func VisiblePoints(points []rr.Point, width int) []rr.Point {
	if width <= 0 {
		return nil
	}
	if len(points) > width {
		return points[len(points)-width:]
	}
	return points
}
