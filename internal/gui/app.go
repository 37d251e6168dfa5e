package gui

import (
	"errors"
	"fmt"
	"log"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/coinburst/internal/burst"
	"github.com/san-kum/coinburst/internal/config"
	"github.com/san-kum/coinburst/internal/scene"
	"github.com/san-kum/coinburst/internal/toggle"
)

var (
	ColBg      = rl.NewColor(16, 16, 20, 255)
	ColTrackOn = rl.NewColor(255, 200, 40, 255)
	ColTrack   = rl.NewColor(60, 60, 68, 255)
	ColKnob    = rl.NewColor(240, 240, 240, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(70, 70, 70, 255)
)

const (
	switchWidth  = 120
	switchHeight = 56
	gravityStep  = 1.25
	knobSpeed    = 12
)

var ErrNoWindow = errors.New("window could not be created")

// Player plays a sound when the switch turns on.
type Player interface {
	Play()
}

type Options struct {
	Window config.WindowConfig
	Params burst.Params
	Seed   int64
	Chime  Player
}

type App struct {
	opts     Options
	queue    *scene.FrameQueue
	surface  *raylibSurface
	host     *scene.Host
	sw       *toggle.Switch
	knob     float32
	sceneErr error
}

func initWindow(w config.WindowConfig) error {
	rl.SetTraceLogLevel(rl.LogWarning)
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(w.Width), int32(w.Height), w.Title)
	if !rl.IsWindowReady() {
		return ErrNoWindow
	}
	rl.SetTargetFPS(int32(w.FPS))
	return nil
}

func NewApp(opts Options) *App {
	a := &App{
		opts:    opts,
		queue:   scene.NewFrameQueue(),
		surface: &raylibSurface{},
		sw:      toggle.New(toggle.Rect{}),
	}
	if opts.Chime != nil {
		a.sw.OnActivate(func(x, y float64) { opts.Chime.Play() })
	}
	toggle.Bind(a.sw, a)
	a.layout(rl.GetScreenWidth(), rl.GetScreenHeight())
	return a
}

// Run opens the window and blocks until it is closed.
func Run(opts Options) error {
	if err := initWindow(opts.Window); err != nil {
		return err
	}
	defer rl.CloseWindow()

	app := NewApp(opts)
	defer app.Shutdown()
	app.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyQ) {
			return
		}
		a.Update()
		a.Draw()
	}
}

// Burst forwards to the scene host while one is mounted.
func (a *App) Burst(x, y float64) (mgl64.Vec3, bool) {
	if a.host == nil {
		return mgl64.Vec3{}, false
	}
	return a.host.Burst(x, y)
}

func (a *App) layout(w, h int) {
	vp := scene.Viewport{Width: w, Height: h}
	a.sw.SetBounds(toggle.Rect{
		X: float64(w-switchWidth) / 2,
		Y: float64(h-switchHeight) / 2,
		W: switchWidth,
		H: switchHeight,
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
		if a.sceneErr == nil {
			log.Printf("gui: scene unavailable: %v", err)
		}
		a.sceneErr = err
		return
	}
	a.host, a.sceneErr = host, nil
}

func (a *App) Update() {
	if rl.IsWindowResized() {
		a.layout(rl.GetScreenWidth(), rl.GetScreenHeight())
	}

	if rl.IsKeyPressed(rl.KeySpace) || rl.IsKeyPressed(rl.KeyEnter) {
		a.sw.Toggle()
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		m := rl.GetMousePosition()
		a.sw.Click(float64(m.X), float64(m.Y))
	}
	if a.host != nil {
		if rl.IsKeyPressed(rl.KeyUp) {
			a.host.Tune(func(p *burst.Params) { p.Gravity *= gravityStep })
		}
		if rl.IsKeyPressed(rl.KeyDown) {
			a.host.Tune(func(p *burst.Params) { p.Gravity /= gravityStep })
		}
	}

	target := float32(0)
	if a.sw.On() {
		target = 1
	}
	a.knob += (target - a.knob) * min(1, knobSpeed*rl.GetFrameTime())
}

// Draw paints the switch, then pumps one scene frame over it, then the HUD.
func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.drawSwitch()

	if a.host != nil {
		applyClipPlanes(a.host.Camera())
		rl.BeginMode3D(raylibCamera(a.host.Camera()))
		a.queue.Pump()
		rl.EndMode3D()
	}

	a.drawHUD()
	rl.EndDrawing()
}

func (a *App) drawSwitch() {
	b := a.sw.Bounds
	track := rl.NewRectangle(float32(b.X), float32(b.Y), float32(b.W), float32(b.H))
	col := ColTrack
	if a.sw.On() {
		col = ColTrackOn
	}
	rl.DrawRectangleRounded(track, 1, 16, col)

	r := float32(b.H)/2 - 6
	x0 := float32(b.X) + float32(b.H)/2
	x1 := float32(b.X+b.W) - float32(b.H)/2
	cx := x0 + (x1-x0)*a.knob
	rl.DrawCircleV(rl.NewVector2(cx, float32(b.Y+b.H/2)), r, ColKnob)
}

func (a *App) drawHUD() {
	rl.DrawText(a.opts.Window.Title, 24, 20, 24, ColText)

	h := int32(rl.GetScreenHeight())
	if a.host == nil {
		rl.DrawText("effect unavailable", 24, h-40, 16, ColTextDim)
		return
	}
	p := a.host.Params()
	stats := fmt.Sprintf("coins %3d   gravity %.4f   %d fps", a.host.Live(), p.Gravity, rl.GetFPS())
	rl.DrawText(stats, 24, h-40, 16, ColText)
	rl.DrawText("[SPACE] TOGGLE  [UP/DOWN] GRAVITY  [Q] QUIT", 24, h-64, 14, ColTextDim)
}

// Shutdown tears the scene down. Safe to call more than once.
func (a *App) Shutdown() {
	if a.host == nil || !a.host.Alive() {
		return
	}
	if err := a.host.Teardown(); err != nil {
		log.Printf("gui: teardown: %v", err)
	}
}
