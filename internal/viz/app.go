package viz

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/coinburst/internal/burst"
	"github.com/san-kum/coinburst/internal/scene"
	"github.com/san-kum/coinburst/internal/toggle"
)

const (
	historyCapacity = 240
	sparkWidth      = 24
	chromeRows      = 2
	gravityStep     = 1.25
)

type TickMsg time.Time

// Player plays a sound when the switch turns on.
type Player interface {
	Play()
}

type Options struct {
	Params burst.Params
	Seed   int64
	FPS    int
	Title  string
	Theme  string
	Chime  Player
}

// App is the terminal front-end: a braille scene above a status line holding
// the switch. It implements tea.Model.
type App struct {
	opts    Options
	queue   *scene.FrameQueue
	surface *CanvasSurface
	host    *scene.Host
	sw      *toggle.Switch
	theme   Theme

	cols, rows int
	history    []float64
	bursts     int
	err        error
}

func NewApp(opts Options) *App {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	a := &App{
		opts:    opts,
		queue:   scene.NewFrameQueue(),
		surface: NewCanvasSurface(),
		sw:      toggle.New(toggle.Rect{}),
		theme:   GetTheme(opts.Theme),
		history: make([]float64, 0, historyCapacity),
	}
	if opts.Chime != nil {
		a.sw.OnActivate(func(x, y float64) { opts.Chime.Play() })
	}
	toggle.Bind(a.sw, a)
	return a
}

// Burst forwards to the scene host once it exists.
func (a *App) Burst(x, y float64) (mgl64.Vec3, bool) {
	if a.host == nil {
		return mgl64.Vec3{}, false
	}
	origin, ok := a.host.Burst(x, y)
	if ok {
		a.bursts++
	}
	return origin, ok
}

func (a *App) Switch() *toggle.Switch { return a.sw }
func (a *App) Host() *scene.Host      { return a.host }

// Bursts counts bursts that reached the scene.
func (a *App) Bursts() int { return a.bursts }

func (a *App) Init() tea.Cmd { return a.tick() }

func (a *App) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(a.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			a.Shutdown()
			return a, tea.Quit
		case " ", "enter":
			a.sw.Toggle()
		case "up", "k":
			a.tuneGravity(gravityStep)
		case "down", "j":
			a.tuneGravity(1 / gravityStep)
		case "t":
			a.theme = NextTheme(a.theme)
		}
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			a.sw.Click(float64(msg.X*2+1), float64(msg.Y*4+2))
		}
	case TickMsg:
		a.queue.Pump()
		if a.host != nil {
			a.record(float64(a.host.Live()))
		}
		return a, a.tick()
	}
	return a, nil
}

func (a *App) resize(w, h int) {
	a.cols, a.rows = max(w, 1), max(h-chromeRows, 1)
	vp := CellViewport(a.cols, a.rows)
	a.sw.SetBounds(toggle.Rect{
		X: float64((a.cols - switchCells) / 2 * 2),
		Y: float64(a.rows * 4),
		W: switchCells * 2,
		H: 4,
	})

	if a.host != nil {
		a.host.Resize(vp)
		return
	}
	var rng burst.Rand
	if a.opts.Seed != 0 {
		rng = rand.New(rand.NewSource(a.opts.Seed))
	}
	host, err := scene.Initialize(vp, a.surface, a.queue, a.opts.Params, rng)
	if err != nil {
		log.Printf("viz: scene unavailable: %v", err)
		a.err = err
		return
	}
	a.host, a.err = host, nil
}

func (a *App) tuneGravity(factor float64) {
	if a.host == nil {
		return
	}
	a.host.Tune(func(p *burst.Params) { p.Gravity *= factor })
}

func (a *App) record(live float64) {
	if len(a.history) == historyCapacity {
		copy(a.history, a.history[1:])
		a.history = a.history[:historyCapacity-1]
	}
	a.history = append(a.history, live)
}

// Shutdown tears the scene down. Safe to call more than once.
func (a *App) Shutdown() {
	if a.host == nil || !a.host.Alive() {
		return
	}
	if err := a.host.Teardown(); err != nil {
		log.Printf("viz: teardown: %v", err)
	}
}

func (a *App) View() string {
	var b strings.Builder
	b.WriteString(a.surface.Canvas().Render())

	pad := max((a.cols-switchCells)/2, 0)
	b.WriteString(strings.Repeat(" ", pad))
	b.WriteString(SwitchLabel(a.sw.On(), a.theme))

	live, gravity := 0, a.opts.Params.Gravity
	if a.host != nil {
		live, gravity = a.host.Live(), a.host.Params().Gravity
	}
	b.WriteString("  " + MetricLabel.Render("coins ") + MetricValue.Render(fmt.Sprintf("%3d", live)))
	b.WriteString("  " + SparklineChart(a.history, 2*burst.BurstCount, sparkWidth))
	b.WriteString("  " + MetricLabel.Render("g ") + MetricValue.Render(fmt.Sprintf("%.4f", gravity)))
	b.WriteString("\n")

	if a.err != nil {
		b.WriteString(Subtle.Render("effect unavailable: " + a.err.Error()))
	} else {
		title := lipgloss.NewStyle().Bold(true).Foreground(a.theme.Title).Render(a.opts.Title)
		b.WriteString(title + "  " + KeyHint.Render("space toggle · ↑/↓ gravity · t theme · q quit"))
	}
	return b.String()
}

// Run starts the terminal front-end and blocks until it exits.
func Run(opts Options) error {
	app := NewApp(opts)
	defer app.Shutdown()
	_, err := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
