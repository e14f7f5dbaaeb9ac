package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/forecast"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/viz"
)

const (
	canvasWidth     = 60
	canvasHeight    = 24
	frameInterval   = time.Second / 60
	maxFrameDelta   = 0.25
	historyCapacity = 300
	forecastEvery   = 15
	forecastPoints  = 400
	tableRows       = 8
	mergeLogSize    = 4
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).
			Width(64)
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// mergeLog keeps the most recent merges reported by the driver.
type mergeLog struct {
	events []sim.MergeEvent
}

func (l *mergeLog) OnStep(int, float64, *body.Registry) {}

func (l *mergeLog) OnMerge(ev sim.MergeEvent) {
	l.events = append(l.events, ev)
	if len(l.events) > mergeLogSize {
		l.events = l.events[len(l.events)-mergeLogSize:]
	}
}

// Live advances a scene in real time. Every frame the wall-clock delta is
// handed to the driver, which runs as many fixed steps as it covers.
type Live struct {
	cfg        *config.Config
	exp        *experiment.Experiment
	forecaster *forecast.Forecaster
	merges     *mergeLog

	canvas *viz.Canvas
	view   viz.Viewport
	follow bool

	paused       bool
	showForecast bool
	paths        map[uint64]*forecast.Trajectory
	frames       int

	energy []float64
	last   time.Time
	fps    float64
}

func NewLive(cfg *config.Config) (*Live, error) {
	m := &Live{
		cfg:    cfg,
		canvas: viz.NewCanvas(canvasWidth, canvasHeight),
		follow: true,
	}
	if err := m.reset(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Live) reset() error {
	exp, err := experiment.New(m.cfg.Clone())
	if err != nil {
		return err
	}

	m.exp = exp
	m.merges = &mergeLog{}
	exp.Driver().AddObserver(m.merges)

	m.forecaster = exp.Forecaster()
	m.forecaster.Points = min(m.forecaster.Points, forecastPoints)

	m.paths = nil
	m.energy = make([]float64, 0, historyCapacity)
	m.last = time.Time{}
	m.view = viz.FitViewport(m.canvas, exp.Bodies(), 0.15)
	return nil
}

func (m *Live) Init() tea.Cmd { return tick() }

func (m *Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "n":
			if m.paused {
				m.exp.Driver().Step(m.exp.Bodies())
			}
		case "r":
			if err := m.reset(); err != nil {
				return m, tea.Quit
			}
		case "f":
			m.showForecast = !m.showForecast
			m.paths = nil
		case "[":
			m.exp.Driver().Speed /= 2
		case "]":
			m.exp.Driver().Speed *= 2
		case "+", "=":
			m.follow = false
			m.view = m.view.Zoom(1.25)
		case "-", "_":
			m.follow = false
			m.view = m.view.Zoom(0.8)
		case "0":
			m.follow = true
		}
	case tickMsg:
		m.advance(time.Time(msg))
		return m, tick()
	}
	return m, nil
}

func (m *Live) advance(now time.Time) {
	dt := 0.0
	if !m.last.IsZero() {
		dt = now.Sub(m.last).Seconds()
	}
	m.last = now
	dt = sim.ClampDelta(dt, maxFrameDelta)
	if dt > 0 {
		m.fps = 0.9*m.fps + 0.1/dt
	}

	reg := m.exp.Bodies()
	if !m.paused {
		m.exp.Driver().Tick(reg, dt)
	}

	m.energy = append(m.energy, physics.TotalEnergy(reg, m.exp.Engine().G))
	if len(m.energy) > historyCapacity {
		m.energy = m.energy[len(m.energy)-historyCapacity:]
	}

	if m.follow {
		m.view = viz.FitViewport(m.canvas, reg, 0.15)
	}

	if m.showForecast && (m.paths == nil || m.frames%forecastEvery == 0) {
		paths, err := m.forecaster.ForecastAll(context.Background(), reg)
		if err == nil {
			m.paths = paths
		}
	}
	m.frames++
}

func (m *Live) draw() {
	m.canvas.Clear()
	if m.showForecast {
		for _, traj := range m.paths {
			m.canvas.DrawPath(m.view, traj.Points)
			if last, ok := traj.Last(); ok && traj.Ended {
				m.canvas.MarkCollision(m.view, last)
			}
		}
	}
	m.canvas.DrawBodies(m.view, m.exp.Bodies())
}

func (m *Live) View() string {
	m.draw()

	reg := m.exp.Bodies()
	driver := m.exp.Driver()

	var s strings.Builder
	s.WriteString(viz.Title.Render(strings.ToUpper(m.cfg.Scene)) + "\n")
	if m.paused {
		s.WriteString(viz.StatusPaused.Render("PAUSED") + "\n\n")
	} else {
		s.WriteString(viz.StatusRunning.Render("RUNNING") + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(viz.MetricLabel.Render(label) + viz.MetricValue.Render(value) + "\n")
	}
	row("time", fmt.Sprintf("%.2fs", driver.Elapsed()))
	row("steps", fmt.Sprintf("%d", driver.StepsTaken()))
	row("speed", fmt.Sprintf("%gx", driver.Speed))
	row("bodies", fmt.Sprintf("%d", reg.Len()))
	row("fps", fmt.Sprintf("%.0f", m.fps))
	if len(m.energy) > 0 {
		row("energy", fmt.Sprintf("%.4g", m.energy[len(m.energy)-1]))
		s.WriteString(viz.Sparkline(m.energy, 40) + "\n")
	}

	if len(m.merges.events) > 0 {
		s.WriteString("\n" + viz.Subtle.Render("MERGES") + "\n")
		for _, ev := range m.merges.events {
			fmt.Fprintf(&s, "t=%.2f  %d + %d -> %d  (m=%.3g)\n", ev.Time, ev.A, ev.B, ev.Result, ev.Mass)
		}
	}

	bodies := reg.Bodies()
	if len(bodies) > tableRows {
		bodies = bodies[:tableRows]
	}
	s.WriteString("\n" + viz.BodyTable(bodies))

	s.WriteString("\n" + viz.Separator(40) + "\n")
	s.WriteString(viz.KeyHint.Render("SP:Pause N:Step R:Reset F:Forecast\n[ ]:Speed +/-:Zoom 0:Fit Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(m.canvas.String()),
		statsStyle.Render(s.String()),
	)
}

// RunLive opens the live view for one scene.
func RunLive(cfg *config.Config) error {
	m, err := NewLive(cfg)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
