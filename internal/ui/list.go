package ui

import (
	"fmt"
	"strings"

	"rr-monitor.klederson.com/internal/rr"
)

// RenderList renders the window as a scrollable list, newest first. cursor
// indexes the newest-first order.
func RenderList(w rr.Window, width, height int, cursor int) string {
	innerW := width - 4
	if innerW < 10 {
		innerW = 10
	}

	// Title + header + separator
	header := truncRaw("  TIME       INTERVAL    BPM  RANGE", innerW)
	headerLines := []string{StyleAxis.Render(header), StyleAxis.Render(strings.Repeat("-", innerW))}

	innerH := height - 3 // border + title
	if innerH < len(headerLines)+1 {
		innerH = len(headerLines) + 1
	}
	rowSpace := innerH - len(headerLines)

	var rows []string
	n := len(w.Points)
	if n == 0 {
		rows = append(rows, "", StyleHelp.Render(" No intervals yet..."))
	} else {
		if cursor < 0 {
			cursor = 0
		}
		if cursor > n-1 {
			cursor = n - 1
		}
		viewStart := 0
		if cursor >= rowSpace {
			viewStart = cursor - rowSpace + 1
		}
		for i := viewStart; i < n && len(rows) < rowSpace; i++ {
			p := w.Points[n-1-i]
			rows = append(rows, renderRow(p, innerW, i == cursor))
		}
	}

	for len(rows) < rowSpace {
		rows = append(rows, "")
	}
	if len(rows) > rowSpace {
		rows = rows[:rowSpace]
	}

	content := strings.Join(append(headerLines, rows...), "\n")
	title := fmt.Sprintf("INTERVALS [%d]", n)
	return clampLines(RenderPanel(width, height, title, content), height)
}

func renderRow(p rr.Point, maxW int, isCursor bool) string {
	raw := fmt.Sprintf("%s %s  %6.3f s  %4.0f  %s",
		cursorMark(isCursor), p.Timestamp.Format("15:04:05"), p.Value, p.BPM(), ClassTag(p.Class))
	raw = truncRaw(raw, maxW)
	if isCursor {
		return StyleCursorLine.Render(raw)
	}
	return HealthStyle(p).Render(raw)
}

func cursorMark(on bool) string {
	if on {
		return ">"
	}
	return " "
}

// truncRaw pads or truncates a raw string to exactly w characters.
func truncRaw(s string, w int) string {
	if len(s) > w {
		return s[:w]
	}
	if len(s) < w {
		return s + strings.Repeat(" ", w-len(s))
	}
	return s
}

// clampLines forces rendered output to exactly height lines. lipgloss
// Height() only sets a minimum.
func clampLines(rendered string, height int) string {
	lines := strings.Split(rendered, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
