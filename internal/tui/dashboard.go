// Package tui renders the demo telemetry store as a terminal dashboard.
// Each panel is an independent store observer with its own selector set,
// so a traffic tick only re-renders the panels whose selections changed.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/purview-dev/purview/internal/demo"
	"github.com/purview-dev/purview/pkg/purview"
)

// Options configures the dashboard.
type Options struct {
	Store    *purview.Store[demo.Telemetry]
	Seed     int64
	Interval time.Duration
}

// Model is the root Bubble Tea model.
type Model struct {
	store    *purview.Store[demo.Telemetry]
	sim      *demo.Simulator
	interval time.Duration

	keys   keyMap
	styles Styles
	panels []*panel

	width    int
	height   int
	paused   bool
	showHelp bool
}

// New creates the dashboard model. Panels attach to the store here; they
// detach when the user quits.
func New(opts Options) Model {
	interval := opts.Interval
	if interval == 0 {
		interval = 250 * time.Millisecond
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	styles := defaultStyles()
	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(24))

	m := Model{
		store:    opts.Store,
		sim:      demo.NewSimulator(seed),
		interval: interval,
		keys:     defaultKeyMap(),
		styles:   styles,
	}
	m.panels = []*panel{
		trafficPanel(opts.Store, styles),
		latencyPanel(opts.Store, styles),
		healthPanel(opts.Store, styles, bar),
	}
	return m
}

type tickMsg time.Time

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tick(m.interval)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.refreshAll()
		return m, nil

	case tickMsg:
		if !m.paused {
			// The write notifies every panel observer; changed panels
			// mark themselves dirty through their wake callbacks.
			m.store.Update(m.sim.Step)
		}
		m.refreshDirty()
		return m, tick(m.interval)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			for _, p := range m.panels {
				p.detach()
			}
			return m, tea.Quit

		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
			return m, nil

		case key.Matches(msg, m.keys.Reset):
			m.store.SetState(demo.Telemetry{LatencyMS: 20})
			m.refreshDirty()
			return m, nil

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		}
	}
	return m, nil
}

func (m *Model) refreshAll() {
	for _, p := range m.panels {
		p.refresh()
	}
}

func (m *Model) refreshDirty() {
	for _, p := range m.panels {
		if p.dirty {
			p.refresh()
		}
	}
}

func (m Model) View() string {
	views := make([]string, len(m.panels))
	for i, p := range m.panels {
		views[i] = p.view()
	}

	title := m.styles.Title.Render("purview demo")
	if m.paused {
		title += m.styles.Warning.Render(" [paused]")
	}

	footer := m.styles.Footer.Render("q quit")
	if m.showHelp {
		footer = m.styles.Footer.Render(
			"q quit · p pause traffic · r reset counters · h toggle help")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		lipgloss.JoinHorizontal(lipgloss.Top, views...),
		footer,
	)
}

// Run starts the dashboard and blocks until the user quits.
func Run(opts Options) error {
	_, err := tea.NewProgram(New(opts), tea.WithAltScreen()).Run()
	return err
}
