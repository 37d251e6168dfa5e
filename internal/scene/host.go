package scene

import (
	"fmt"
	"log"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/coinburst/internal/burst"
)

// Host owns the simulation, camera and surface for one mount, and drives the
// per-frame advance/render callback until Teardown.
type Host struct {
	params    burst.Params
	sim       *burst.Simulation
	camera    *Camera
	lights    []Light
	surface   Surface
	scheduler Scheduler
	viewport  Viewport

	pending   FrameHandle
	live      bool
	frames    uint64
	frame     Frame
	instances []Instance
	observers []FrameObserver
}

// Initialize sizes the surface, sets up camera and lights and requests the
// first frame. rng may be nil.
func Initialize(vp Viewport, surface Surface, scheduler Scheduler, params burst.Params, rng burst.Rand) (*Host, error) {
	if surface == nil {
		return nil, ErrNoSurface
	}
	if scheduler == nil {
		return nil, ErrNoScheduler
	}
	if vp.Empty() {
		return nil, fmt.Errorf("initialize %dx%d: %w", vp.Width, vp.Height, ErrEmptyViewport)
	}

	h := &Host{
		params:    params,
		camera:    NewCamera(vp.Aspect()),
		lights:    DefaultLights(),
		surface:   surface,
		scheduler: scheduler,
		viewport:  vp,
		live:      true,
	}
	h.sim = burst.New(&h.params, rng)

	surface.Resize(vp)
	h.pending = scheduler.RequestFrame(h.tick)
	log.Printf("scene: initialized %dx%d", vp.Width, vp.Height)
	return h, nil
}

func (h *Host) tick() {
	if !h.live {
		return
	}
	h.pending = 0

	h.sim.Advance()
	h.frames++
	f := h.buildFrame()
	h.surface.Render(f)
	for _, o := range h.observers {
		o.OnFrame(f)
	}

	if h.live {
		h.pending = h.scheduler.RequestFrame(h.tick)
	}
}

func (h *Host) buildFrame() *Frame {
	eye := h.camera.Position
	mat := MaterialFrom(h.params)

	h.instances = h.instances[:0]
	for _, p := range h.sim.Particles() {
		n := CoinNormal(p.Rotation)
		h.instances = append(h.instances, Instance{
			Position:    p.Position,
			Rotation:    p.Rotation,
			Normal:      n,
			Tint:        Shade(mat, n, p.Position, eye, h.lights),
			Opacity:     p.Opacity,
			Transparent: p.Transparent,
		})
	}
	sort.Slice(h.instances, func(i, j int) bool {
		return h.instances[i].Position.Sub(eye).LenSqr() > h.instances[j].Position.Sub(eye).LenSqr()
	})

	h.frame = Frame{
		Index:     h.frames,
		Viewport:  h.viewport,
		Camera:    h.camera,
		Lights:    h.lights,
		Params:    h.params,
		Instances: h.instances,
		Particles: h.sim.Particles(),
	}
	return &h.frame
}

// Resize keeps camera aspect and surface size in sync with the viewport.
// Live particles are untouched.
func (h *Host) Resize(vp Viewport) {
	if !h.live || vp.Empty() || vp == h.viewport {
		return
	}
	h.viewport = vp
	h.camera.Aspect = vp.Aspect()
	h.surface.Resize(vp)
}

// Burst spawns a batch where the ray through the pixel (x, y) meets the z=0
// plane. It returns the spawn point, or false if nothing was spawned.
func (h *Host) Burst(x, y float64) (mgl64.Vec3, bool) {
	if !h.live {
		return mgl64.Vec3{}, false
	}
	origin, ok := h.camera.ScreenToPlane(x, y, h.viewport)
	if !ok {
		return mgl64.Vec3{}, false
	}
	h.sim.SpawnBurst(origin, burst.BurstCount)
	return origin, true
}

// Teardown cancels the frame callback, drops live particles and releases the
// surface. It must be called once; later calls return ErrTornDown.
func (h *Host) Teardown() error {
	if !h.live {
		return ErrTornDown
	}
	h.live = false
	if h.pending != 0 {
		h.scheduler.CancelFrame(h.pending)
		h.pending = 0
	}
	h.sim.Clear()
	h.observers = nil
	if err := h.surface.Release(); err != nil {
		return fmt.Errorf("release surface: %w", err)
	}
	log.Printf("scene: torn down after %d frames", h.frames)
	return nil
}

// Tune edits the shared burst parameters in place. Changes reach every live
// particle on the next frame.
func (h *Host) Tune(fn func(p *burst.Params)) {
	fn(&h.params)
}

func (h *Host) AddObserver(o FrameObserver) { h.observers = append(h.observers, o) }

func (h *Host) Params() burst.Params { return h.params }
func (h *Host) Camera() *Camera      { return h.camera }
func (h *Host) Lights() []Light      { return h.lights }
func (h *Host) Viewport() Viewport   { return h.viewport }
func (h *Host) Frames() uint64       { return h.frames }
func (h *Host) Live() int            { return h.sim.Len() }
func (h *Host) Alive() bool          { return h.live }
