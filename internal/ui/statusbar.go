package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"rr-monitor.klederson.com/internal/rr"
)

// Mode is what currently feeds the window.
type Mode int

const (
	ModeSimulating Mode = iota
	ModePaused
	ModeExternal
)

func (m Mode) String() string {
	switch m {
	case ModePaused:
		return "PAUSED"
	case ModeExternal:
		return "EXTERNAL"
	default:
		return "SIMULATING"
	}
}

// Status is the data shown in the bottom bar.
type Status struct {
	Mode     Mode
	Window   rr.Window
	Message  string // last fetch outcome
	IsError  bool
	Fetching bool
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, st Status) string {
	var mode string
	switch st.Mode {
	case ModePaused:
		mode = StyleModePaused.Render("[" + st.Mode.String() + "]")
	case ModeExternal:
		mode = StyleModeExternal.Render("[" + st.Mode.String() + "]")
	default:
		mode = StyleModeSimulating.Render("[" + st.Mode.String() + "]")
	}

	latest := " Latest: --"
	if p, ok := st.Window.Latest(); ok {
		latest = " Latest: " + HealthStyle(p).Render(
			fmt.Sprintf("%.3fs %3.0fbpm %s", p.Value, p.BPM(), ClassTag(p.Class)))
	}

	info := StyleMenuLabel.Render(fmt.Sprintf("  Samples: %d/%d", len(st.Window.Points), st.Window.Capacity))

	msg := ""
	switch {
	case st.Fetching:
		msg = "  " + StyleHelp.Render("fetching...")
	case st.IsError:
		msg = "  " + StyleStatusError.Render(st.Message)
	case st.Message != "":
		msg = "  " + StyleHelp.Render(st.Message)
	}

	content := mode + latest + info + msg

	gap := max(width-StyleStatusBar.GetHorizontalFrameSize()-lipgloss.Width(content), 0)
	return StyleStatusBar.Width(width).Render(content + strings.Repeat(" ", gap))
}
