package app

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"rr-monitor.klederson.com/internal/chart"
	"rr-monitor.klederson.com/internal/config"
	"rr-monitor.klederson.com/internal/health"
	"rr-monitor.klederson.com/internal/metrics"
	"rr-monitor.klederson.com/internal/rr"
	"rr-monitor.klederson.com/internal/ui"
)

// shared holds state shared between the Bubble Tea model copies and main.go.
// Because Bubble Tea uses value receivers, pointer fields ensure all copies
// see the same underlying data.
type shared struct {
	ctx      context.Context
	series   *rr.RollingSeries
	source   *rr.Source
	driver   *rr.Driver
	fetcher  health.Fetcher
	recorder *metrics.Recorder
	log      logrus.FieldLogger
}

// Options wires the model to the pipeline and its collaborators. Fetcher and
// Recorder may be nil.
type Options struct {
	Series       *rr.RollingSeries
	Source       *rr.Source
	Driver       *rr.Driver
	Fetcher      health.Fetcher
	Recorder     *metrics.Recorder
	Logger       logrus.FieldLogger
	SourceName   string
	View         string
	FetchTimeout time.Duration
}

// AppModel is the root Bubble Tea model for RR Monitor.
type AppModel struct {
	width  int
	height int

	view         string
	sourceName   string
	mode         ui.Mode
	cursor       int
	fetching     bool
	message      string
	isError      bool
	fetchTimeout time.Duration

	shared *shared

	// Cached snapshot
	window rr.Window
}

// New creates a new AppModel.
func New(ctx context.Context, opts Options) AppModel {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.View == "" {
		opts.View = config.ViewList
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = config.FetchTimeout
	}
	return AppModel{
		view:         opts.View,
		sourceName:   opts.SourceName,
		mode:         ui.ModePaused,
		fetching:     opts.Fetcher != nil, // Init fetches once at start-up
		fetchTimeout: opts.FetchTimeout,
		shared: &shared{
			ctx:      ctx,
			series:   opts.Series,
			source:   opts.Source,
			driver:   opts.Driver,
			fetcher:  opts.Fetcher,
			recorder: opts.Recorder,
			log:      opts.Logger.WithField("component", "app"),
		},
		window: opts.Series.Snapshot(),
	}
}

func (m AppModel) Init() tea.Cmd {
	if m.shared.fetcher == nil {
		return tickCmd()
	}
	return tea.Batch(tickCmd(), m.fetchCmd())
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		m = m.refresh()
		return m, tickCmd()

	case FetchResultMsg:
		return m.handleFetch(msg), nil
	}

	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		m.StopSimulation()
		return m, tea.Quit

	case "l", "L":
		m.view = config.ViewList

	case "c", "C":
		m.view = config.ViewChart

	case "tab":
		if m.view == config.ViewList {
			m.view = config.ViewChart
		} else {
			m.view = config.ViewList
		}

	case "r", "R":
		if m.shared.fetcher == nil {
			m.message = "no health source configured"
			m.isError = false
			return m, nil
		}
		if !m.fetching {
			m.fetching = true
			return m, m.fetchCmd()
		}

	case "s", "S":
		m.StartSimulation()
		m.message = ""
		m.isError = false

	case "p", "P":
		m.StopSimulation()
		m.mode = ui.ModePaused

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.window.Points)-1 {
			m.cursor++
		}

	case "home":
		m.cursor = 0

	case "end":
		if len(m.window.Points) > 0 {
			m.cursor = len(m.window.Points) - 1
		}
	}

	return m, nil
}

// handleFetch applies an external batch. Empty batches leave the window and
// the simulation untouched.
func (m AppModel) handleFetch(msg FetchResultMsg) AppModel {
	m.fetching = false
	log := m.shared.log.WithField("duration", msg.Duration)

	if msg.Err != nil {
		log.WithError(msg.Err).Error("health data fetch failed")
		m.observeFetch(metrics.FetchError, msg.Duration)
		m.message = "fetch failed: " + msg.Err.Error()
		m.isError = true
		return m
	}

	samples, ok := m.shared.source.IngestExternal(msg.Values)
	if !ok {
		m.observeFetch(metrics.FetchNoData, msg.Duration)
		m.message = "no external data"
		m.isError = false
		if m.mode != ui.ModeExternal {
			log.Info("no external health data, keeping simulated data")
			return m
		}
		// The stale external batch gives way to simulated data.
		log.Info("no external health data, falling back to simulation")
		m.shared.series.ReplaceAll(m.shared.source.SimulatedSeed(m.shared.series.Cap()))
		m.StartSimulation()
		if m.mode == ui.ModeExternal {
			m.mode = ui.ModePaused
		}
		m.cursor = 0
		return m.refresh()
	}

	// External data supersedes the simulation.
	m.StopSimulation()
	m.shared.series.ReplaceAll(samples)
	m.mode = ui.ModeExternal
	m.cursor = 0
	m.message = fmt.Sprintf("loaded %d intervals", len(samples))
	m.isError = false
	log.WithField("count", len(samples)).Info("replaced window with external data")
	m.observeFetch(metrics.FetchOK, msg.Duration)
	return m.refresh()
}

func (m AppModel) observeFetch(result string, d time.Duration) {
	if m.shared.recorder != nil {
		m.shared.recorder.ObserveFetch(result, d)
	}
}

// refresh pulls a new snapshot when the series changed.
func (m AppModel) refresh() AppModel {
	if m.shared.series == nil {
		return m
	}
	snap := m.shared.series.Snapshot()
	if snap.Version == m.window.Version {
		return m
	}
	m.window = snap
	if m.cursor > len(snap.Points)-1 {
		m.cursor = max(len(snap.Points)-1, 0)
	}
	if m.shared.recorder != nil {
		m.shared.recorder.ObserveWindow(snap)
	}
	return m
}

func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing RR Monitor..."
	}

	menuH := 1
	statusH := 1
	bodyH := m.height - menuH - statusH
	if bodyH < 6 {
		bodyH = 6
	}
	bodyW := m.width
	if bodyW < 30 {
		bodyW = 30
	}

	menuBar := ui.RenderMenuBar(m.width, m.sourceName, m.view)

	var panel string
	if m.view == config.ViewChart {
		panel = chart.RenderPanel(bodyW, bodyH, m.window)
	} else {
		panel = ui.RenderList(m.window, bodyW, bodyH, m.cursor)
	}

	statusBar := ui.RenderStatusBar(m.width, ui.Status{
		Mode:     m.mode,
		Window:   m.window,
		Message:  m.message,
		IsError:  m.isError,
		Fetching: m.fetching,
	})

	return ui.ComposeLayout(menuBar, panel, statusBar)
}

// StartSimulation starts the periodic driver. Must be called before p.Run()
// for the initial mode to show SIMULATING.
func (m *AppModel) StartSimulation() {
	if m.shared.driver == nil {
		return
	}
	m.shared.driver.Start(m.shared.ctx)
	m.mode = ui.ModeSimulating
}

// StopSimulation stops the driver and waits for any in-flight append.
func (m *AppModel) StopSimulation() {
	if m.shared.driver != nil {
		m.shared.driver.Stop()
	}
}

func (m AppModel) fetchCmd() tea.Cmd {
	return fetchCmd(m.shared.ctx, m.shared.fetcher, m.fetchTimeout)
}

func fetchCmd(ctx context.Context, f health.Fetcher, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		values, err := f.FetchLatestIntervals(ctx)
		return FetchResultMsg{Values: values, Err: err, Duration: time.Since(start)}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(config.TargetFPS), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
