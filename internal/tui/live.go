package tui

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pglowack/astrolab/internal/body"
	"github.com/pglowack/astrolab/internal/config"
	"github.com/pglowack/astrolab/internal/engine"
	"github.com/pglowack/astrolab/internal/storage"
	"github.com/pglowack/astrolab/internal/vec"
)

const quicksave = "quicksave"

var speedPresets = []float64{0.5, 1.0, 2.0, 5.0}

type model struct {
	eng   *engine.Engine
	store *storage.Store
	rng   *rand.Rand

	spawnRadius float64
	status      string

	lastFrame time.Time
	fps       float64

	width  int
	height int
}

func newModel(eng *engine.Engine, store *storage.Store, cfg *config.Config) *model {
	spawn := cfg.BlackHole.SpawnRadius
	if spawn <= 0 {
		spawn = config.DefaultSpawnRadius
	}
	return &model{
		eng:         eng,
		store:       store,
		rng:         rand.New(rand.NewSource(cfg.Seed)),
		spawnRadius: spawn,
		width:       80,
		height:      24,
	}
}

func (m model) Init() tea.Cmd { return tick() }

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		now := time.Now()
		elapsed := 0.033
		if !m.lastFrame.IsZero() {
			d := now.Sub(m.lastFrame).Seconds()
			if d > 0 {
				m.fps = 1.0 / d
			}
			if d > 0 && d < 0.1 {
				elapsed = d
			}
		}
		m.lastFrame = now

		if !m.eng.Halted() {
			if err := m.eng.Step(elapsed); err != nil {
				m.status = red.Render(fmt.Sprintf("step failed: %v", err))
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ", "p":
		if m.eng.Paused() {
			m.eng.Resume()
			m.status = ""
		} else {
			m.eng.Pause()
		}
	case "1", "2", "3", "4":
		idx := int(msg.String()[0] - '1')
		if err := m.eng.SetSpeedMultiplier(speedPresets[idx]); err == nil {
			m.status = dim.Render(fmt.Sprintf("speed %gx", speedPresets[idx]))
		}
	case "+", "=":
		m.spawnRadius = math.Min(m.spawnRadius+5, config.MaxSpawnRadius)
	case "-", "_":
		m.spawnRadius = math.Max(m.spawnRadius-5, config.MinSpawnRadius)
	case "b":
		m.spawnHole()
	case "s":
		if err := m.store.SaveSnapshot(quicksave, m.eng.Snapshot()); err != nil {
			m.status = red.Render(fmt.Sprintf("save failed: %v", err))
		} else {
			m.status = green.Render("state saved")
		}
	case "l":
		snap, err := m.store.LoadSnapshot(quicksave)
		if err != nil {
			m.status = red.Render(fmt.Sprintf("load failed: %v", err))
			break
		}
		if err := m.eng.Load(snap); err != nil {
			m.status = red.Render(fmt.Sprintf("load failed: %v", err))
		} else {
			m.status = green.Render("state loaded")
		}
	case "r":
		if err := m.eng.Reset(); err != nil {
			m.status = red.Render(fmt.Sprintf("reset failed: %v", err))
		} else {
			m.status = green.Render("reset to initial state")
		}
	}
	return m, nil
}

// spawnHole drops a black hole at a random point inside the bulk of
// the current body distribution.
func (m *model) spawnHole() {
	extent := m.worldExtent()
	angle := m.rng.Float64() * 2 * math.Pi
	dist := m.rng.Float64() * extent * 0.6
	pos := vec.Vec2{X: dist * math.Cos(angle), Y: dist * math.Sin(angle)}

	if _, err := m.eng.SpawnBlackHole(pos, m.spawnRadius); err != nil {
		m.status = red.Render(fmt.Sprintf("spawn failed: %v", err))
		return
	}
	m.status = magenta.Render(fmt.Sprintf("black hole spawned (r=%.0f)", m.spawnRadius))
}

// worldExtent computes the radius of the smallest origin-centered
// square containing every body, with a floor so an empty or tightly
// packed scene still renders at sane zoom.
func (m model) worldExtent() float64 {
	extent := 100.0
	for _, b := range m.eng.View().Bodies {
		r := math.Max(math.Abs(b.Pos.X), math.Abs(b.Pos.Y)) + b.Radius
		if r > extent {
			extent = r
		}
	}
	return extent
}

func (m model) View() string {
	view := m.eng.View()

	cw := m.width - 4
	ch := m.height - 7
	if cw < 40 {
		cw = 40
	}
	if ch < 10 {
		ch = 10
	}

	canvas := NewCanvas(cw, ch)
	subW := float64(cw * 2)
	subH := float64(ch * 4)
	extent := m.worldExtent()
	scale := math.Min(subW, subH) / (2 * extent)

	for _, b := range view.Bodies {
		x := int(subW/2 + b.Pos.X*scale)
		y := int(subH/2 - b.Pos.Y*scale)
		r := int(b.Radius * scale)

		if b.Kind == body.BlackHole {
			canvas.FillCircle(x, y, int(b.EventHorizon*scale))
			canvas.DrawCircle(x, y, r)
		} else {
			canvas.FillCircle(x, y, r)
		}
	}

	var sb strings.Builder

	statusIcon := green.Render("●")
	statusText := green.Render("running")
	if m.eng.Halted() {
		statusIcon = red.Render("✕")
		statusText = red.Render("halted")
	} else if m.eng.Paused() {
		statusIcon = yellow.Render("○")
		statusText = yellow.Render("paused")
	}
	sb.WriteString(fmt.Sprintf("\n  %s %s  %s  %s  %s  %s\n",
		statusIcon, cyan.Render("astrolab"), statusText,
		dim.Render(fmt.Sprintf("t=%.1fs", view.SimTime)),
		dim.Render(fmt.Sprintf("%gx", view.Speed)),
		dim.Render(fmt.Sprintf("%d bodies  %.0ffps", view.BodyCount, m.fps))))

	for _, row := range canvas.Grid {
		sb.WriteString("  " + white.Render(string(row)) + "\n")
	}

	sb.WriteString(fmt.Sprintf("  %s %s\n",
		dim.Render(fmt.Sprintf("spawn radius %.0f", m.spawnRadius)),
		m.status))
	sb.WriteString(dim.Render("  space pause  1-4 speed  b spawn hole  +/- radius  s save  l load  r reset  q quit") + "\n")

	return sb.String()
}

// Run drives a live interactive session.
func Run(eng *engine.Engine, store *storage.Store, cfg *config.Config) error {
	p := tea.NewProgram(newModel(eng, store, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
