package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"rr-monitor.klederson.com/internal/rr"
)

var (
	unhealthy = colorful.Color{R: 1, G: 0.2, B: 0}      // #FF3300
	healthy   = colorful.Color{R: 0, G: 1, B: 0.254902} // #00FF41
)

// HealthColor blends from red at score 0 to green at score 1. Scores outside
// [0, 1] are clamped.
func HealthColor(score float64) lipgloss.Color {
	if score <= 0 {
		return lipgloss.Color(unhealthy.Hex())
	}
	if score >= 1 {
		return lipgloss.Color(healthy.Hex())
	}
	return lipgloss.Color(unhealthy.BlendHcl(healthy, score).Clamped().Hex())
}

// HealthStyle returns a foreground style for a point.
func HealthStyle(p rr.Point) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(HealthColor(p.Score))
}

// ClassTag is the short bracketed label for a classification.
func ClassTag(c rr.Classification) string {
	switch c {
	case rr.BelowRange:
		return "[LOW]"
	case rr.AboveRange:
		return "[HIGH]"
	default:
		return "[OK]"
	}
}
