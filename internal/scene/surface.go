package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/coinburst/internal/burst"
)

// CoinRadius is the world-space radius of a coin.
const CoinRadius = 0.25

// Instance is one coin ready to draw.
type Instance struct {
	Position    mgl64.Vec3
	Rotation    mgl64.Vec3
	Normal      mgl64.Vec3
	Tint        burst.RGB
	Opacity     float64
	Transparent bool
}

// Frame is everything a surface needs to draw one frame. It is reused
// between frames; surfaces and observers must not retain it.
type Frame struct {
	Index     uint64
	Viewport  Viewport
	Camera    *Camera
	Lights    []Light
	Params    burst.Params
	Instances []Instance // back to front
	Particles []burst.Particle
}

// Surface draws frames.
type Surface interface {
	Resize(vp Viewport)
	Render(f *Frame)
	Release() error
}

// FrameObserver is notified after each rendered frame.
type FrameObserver interface {
	OnFrame(f *Frame)
}

// Headless is a Surface that draws nothing and counts what it was asked to do.
type Headless struct {
	Viewport Viewport
	Frames   int
	Drawn    int
	Released bool
}

func (h *Headless) Resize(vp Viewport) { h.Viewport = vp }

func (h *Headless) Render(f *Frame) {
	h.Frames++
	h.Drawn += len(f.Instances)
}

func (h *Headless) Release() error {
	h.Released = true
	return nil
}
