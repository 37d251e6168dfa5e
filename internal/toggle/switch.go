package toggle

import (
	"log"

	"github.com/go-gl/mathgl/mgl64"
)

// Rect is a screen rectangle in pixels, origin top-left.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Switch is an on/off widget. State changes commit before listeners run, and
// a failing listener never blocks the transition.
type Switch struct {
	Bounds Rect

	on         bool
	onChange   []func(on bool)
	onActivate []func(x, y float64)
}

func New(bounds Rect) *Switch {
	return &Switch{Bounds: bounds}
}

func (s *Switch) On() bool { return s.on }

func (s *Switch) SetBounds(r Rect) { s.Bounds = r }

// OnChange registers a listener for every state change.
func (s *Switch) OnChange(fn func(on bool)) { s.onChange = append(s.onChange, fn) }

// OnActivate registers a listener for off->on transitions. It receives the
// switch centre at the moment of activation.
func (s *Switch) OnActivate(fn func(x, y float64)) { s.onActivate = append(s.onActivate, fn) }

// Toggle flips the state and notifies listeners.
func (s *Switch) Toggle() {
	s.on = !s.on
	for _, fn := range s.onChange {
		notify(func() { fn(s.on) })
	}
	if !s.on {
		return
	}
	x, y := s.Bounds.Center()
	for _, fn := range s.onActivate {
		notify(func() { fn(x, y) })
	}
}

// Click toggles the switch if (x, y) falls inside its bounds.
func (s *Switch) Click(x, y float64) bool {
	if !s.Bounds.Contains(x, y) {
		return false
	}
	s.Toggle()
	return true
}

func notify(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("toggle: listener failed: %v", r)
		}
	}()
	fn()
}

// Burster receives activation points.
type Burster interface {
	Burst(x, y float64) (mgl64.Vec3, bool)
}

// Bind bursts sink at the switch centre on every activation. A nil sink
// leaves the switch working without the effect.
func Bind(s *Switch, sink Burster) {
	if sink == nil {
		return
	}
	s.OnActivate(func(x, y float64) {
		if _, ok := sink.Burst(x, y); !ok {
			log.Printf("toggle: burst at (%.0f, %.0f) dropped", x, y)
		}
	})
}
