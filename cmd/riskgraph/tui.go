package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-riskgraph/pkg/logging"
	"github.com/dd0wney/cluso-riskgraph/pkg/model"
	"github.com/dd0wney/cluso-riskgraph/pkg/session"
	"github.com/dd0wney/cluso-riskgraph/pkg/surface"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3b82f6")).
			MarginLeft(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ca3af")).
			MarginLeft(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ef4444")).
			Bold(true).
			MarginLeft(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6b7280")).
			MarginLeft(1)
)

// chromeRows is the number of rows used by title, status and help.
const chromeRows = 4

type keyMap struct {
	ZoomIn  key.Binding
	ZoomOut key.Binding
	Reset   key.Binding
	Switch  key.Binding
	Pause   key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	ZoomIn: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "zoom in"),
	),
	ZoomOut: key.NewBinding(
		key.WithKeys("-", "_"),
		key.WithHelp("-", "zoom out"),
	),
	Reset: key.NewBinding(
		key.WithKeys("0"),
		key.WithHelp("0", "reset"),
	),
	Switch: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next diagram"),
	),
	Pause: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "pause"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ZoomIn, k.ZoomOut, k.Reset, k.Switch, k.Pause, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

type frameMsg time.Time

type tuiModel struct {
	app      *app
	graphs   []model.GraphModel
	current  int
	sess     *session.Session
	term     *surface.Terminal
	logger   logging.Logger
	help     help.Model
	keys     keyMap
	interval time.Duration
	paused   bool
	err      error
}

func (a *app) tuiCmd() *cobra.Command {
	var (
		gf      graphFlags
		logFile string
	)

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Explore diagrams interactively in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var graphs []model.GraphModel
			if gf.input != "" {
				g, err := gf.load()
				if err != nil {
					return err
				}
				graphs = append(graphs, g)
			} else {
				for _, kind := range []model.Kind{model.KindCluster, model.KindFlow} {
					g, err := sampleGraph(kind, gf.seed, gf.size)
					if err != nil {
						return err
					}
					graphs = append(graphs, g)
				}
			}

			// The screen belongs to the TUI; logs go to a file or nowhere.
			logger := logging.NewNopLogger()
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return err
				}
				defer f.Close()
				logger = logging.NewJSONLogger(f, a.cfg.Level())
			}

			m, err := newTUIModel(a, graphs, logger)
			if err != nil {
				return err
			}
			final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
			if fm, ok := final.(*tuiModel); ok && fm.sess != nil {
				_ = fm.sess.Close()
			}
			return err
		},
	}

	gf.register(cmd)
	cmd.Flags().StringVar(&logFile, "log-file", "", "append JSON logs to this file")
	return cmd
}

func newTUIModel(a *app, graphs []model.GraphModel, logger logging.Logger) (*tuiModel, error) {
	m := &tuiModel{
		app:      a,
		graphs:   graphs,
		term:     surface.NewTerminal(80, 24-chromeRows),
		logger:   logger,
		help:     help.New(),
		keys:     keys,
		interval: a.cfg.Animation.Interval,
	}
	if err := m.open(0); err != nil {
		return nil, err
	}
	return m, nil
}

// open replaces the session with one for graphs[i].
func (m *tuiModel) open(i int) error {
	if m.sess != nil {
		_ = m.sess.Close()
	}
	g := m.graphs[i]
	sess, err := session.New(g, m.term, m.app.sessionOptions(g.Kind(), session.WithLogger(m.logger))...)
	if err != nil {
		return err
	}
	m.current = i
	m.sess = sess
	return sess.RenderOnce()
}

func (m *tuiModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m *tuiModel) Init() tea.Cmd {
	return m.tick()
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.term.Resize(msg.Width, max(msg.Height-chromeRows, 1))
		m.err = m.sess.RenderOnce()

	case frameMsg:
		if !m.paused && m.sess.Animated() {
			_, m.err = m.sess.Step()
		}
		return m, m.tick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.ZoomIn):
			_, m.err = m.sess.ZoomIn()
		case key.Matches(msg, m.keys.ZoomOut):
			_, m.err = m.sess.ZoomOut()
		case key.Matches(msg, m.keys.Reset):
			_, m.err = m.sess.Reset()
		case key.Matches(msg, m.keys.Switch):
			m.err = m.open((m.current + 1) % len(m.graphs))
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
		}
	}
	return m, nil
}

func (m *tuiModel) View() string {
	title := titleStyle.Render(fmt.Sprintf("riskgraph · %s", m.sess.Kind()))

	state := "running"
	if m.paused {
		state = "paused"
	}
	if !m.sess.Animated() {
		state = "static"
	}
	pg := m.sess.Layout()
	status := statusStyle.Render(fmt.Sprintf("scale %.1fx  phase %.2f  nodes %d  frames %d  %s",
		m.sess.Scale(), m.sess.Phase(), len(pg.Nodes), m.sess.Frames(), state))
	if m.err != nil {
		status = errorStyle.Render(m.err.Error())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.term.View(),
		status,
		helpStyle.Render(m.help.View(m.keys)),
	)
}
