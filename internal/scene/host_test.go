package scene

import (
	"errors"
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/coinburst/internal/burst"
)

type recordingSurface struct {
	Headless
	resizes    []Viewport
	lastCounts []int
	releaseErr error
	onRender   func(f *Frame)
}

func (s *recordingSurface) Resize(vp Viewport) {
	s.Headless.Resize(vp)
	s.resizes = append(s.resizes, vp)
}

func (s *recordingSurface) Render(f *Frame) {
	s.Headless.Render(f)
	s.lastCounts = append(s.lastCounts, len(f.Instances))
	if s.onRender != nil {
		s.onRender(f)
	}
}

func (s *recordingSurface) Release() error {
	s.Headless.Release()
	return s.releaseErr
}

type countingObserver struct {
	frames int
	live   []int
}

func (o *countingObserver) OnFrame(f *Frame) {
	o.frames++
	o.live = append(o.live, len(f.Particles))
}

var _ = Describe("Host", func() {
	var (
		vp      Viewport
		surface *recordingSurface
		queue   *FrameQueue
		host    *Host
	)

	BeforeEach(func() {
		vp = Viewport{Width: 800, Height: 600}
		surface = &recordingSurface{}
		queue = NewFrameQueue()
		var err error
		host, err = Initialize(vp, surface, queue, burst.DefaultParams(), rand.New(rand.NewSource(11)))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if host.Alive() {
			Expect(host.Teardown()).To(Succeed())
		}
	})

	Describe("Initialize", func() {
		It("sizes the surface and requests the first frame", func() {
			Expect(surface.resizes).To(Equal([]Viewport{vp}))
			Expect(queue.Pending()).To(Equal(1))
		})

		It("sets up the reference camera", func() {
			cam := host.Camera()
			Expect(cam.Position).To(Equal(mgl64.Vec3{0, 0, 10}))
			Expect(cam.FOV).To(Equal(75.0))
			Expect(cam.Near).To(Equal(0.1))
			Expect(cam.Far).To(Equal(1000.0))
			Expect(cam.Aspect).To(BeNumerically("~", 800.0/600.0, 1e-12))
		})

		It("adds ambient and directed lights", func() {
			kinds := map[LightKind]int{}
			for _, l := range host.Lights() {
				kinds[l.Kind]++
			}
			Expect(kinds[LightAmbient]).To(Equal(1))
			Expect(kinds[LightPoint] + kinds[LightDirectional]).To(BeNumerically(">=", 2))
		})

		It("rejects missing collaborators", func() {
			_, err := Initialize(vp, nil, queue, burst.DefaultParams(), nil)
			Expect(err).To(MatchError(ErrNoSurface))

			_, err = Initialize(vp, &Headless{}, nil, burst.DefaultParams(), nil)
			Expect(err).To(MatchError(ErrNoScheduler))

			_, err = Initialize(Viewport{}, &Headless{}, queue, burst.DefaultParams(), nil)
			Expect(errors.Is(err, ErrEmptyViewport)).To(BeTrue())
		})
	})

	Describe("the frame loop", func() {
		It("advances and renders once per pump, indefinitely", func() {
			for range 500 {
				Expect(queue.Pump()).To(Equal(1))
			}
			Expect(surface.Frames).To(Equal(500))
			Expect(host.Frames()).To(Equal(uint64(500)))
			Expect(queue.Pending()).To(Equal(1))
		})

		It("notifies observers after rendering", func() {
			obs := &countingObserver{}
			host.AddObserver(obs)
			host.Burst(400, 300)
			queue.Pump()
			queue.Pump()
			Expect(obs.frames).To(Equal(2))
			Expect(obs.live).To(Equal([]int{50, 50}))
		})

		It("hands surfaces back-to-front shaded instances", func() {
			host.Burst(100, 100)
			for range 30 {
				queue.Pump()
			}
			var frame *Frame
			surface.onRender = func(f *Frame) { frame = f }
			queue.Pump()

			Expect(frame.Instances).To(HaveLen(50))
			eye := host.Camera().Position
			for i := 1; i < len(frame.Instances); i++ {
				prev := frame.Instances[i-1].Position.Sub(eye).Len()
				cur := frame.Instances[i].Position.Sub(eye).Len()
				Expect(prev).To(BeNumerically(">=", cur))
			}
		})
	})

	Describe("Burst", func() {
		It("spawns 50 coins on the z=0 plane under the pointer", func() {
			origin, ok := host.Burst(400, 300)
			Expect(ok).To(BeTrue())
			Expect(origin.X()).To(BeNumerically("~", 0, 1e-9))
			Expect(origin.Y()).To(BeNumerically("~", 0, 1e-9))
			Expect(origin.Z()).To(BeNumerically("~", 0, 1e-9))
			Expect(host.Live()).To(Equal(50))
		})

		It("adds overlapping bursts", func() {
			host.Burst(200, 200)
			queue.Pump()
			host.Burst(600, 400)
			Expect(host.Live()).To(Equal(100))
		})

		It("lets a burst decay completely within 300 frames", func() {
			host.Burst(400, 300)
			for range 300 {
				queue.Pump()
			}
			Expect(host.Live()).To(BeZero())
			Expect(surface.lastCounts[len(surface.lastCounts)-1]).To(BeZero())
		})
	})

	Describe("Resize", func() {
		It("updates the camera and surface without touching particles", func() {
			host.Burst(400, 300)
			host.Resize(Viewport{Width: 1000, Height: 500})

			Expect(host.Camera().Aspect).To(BeNumerically("~", 2.0, 1e-12))
			Expect(surface.Viewport).To(Equal(Viewport{Width: 1000, Height: 500}))
			Expect(host.Live()).To(Equal(50))

			origin, ok := host.Burst(500, 250)
			Expect(ok).To(BeTrue())
			Expect(origin.Len()).To(BeNumerically("<", 1e-9))
		})

		It("ignores empty viewports", func() {
			host.Resize(Viewport{})
			Expect(host.Viewport()).To(Equal(vp))
			Expect(surface.resizes).To(HaveLen(1))
		})
	})

	Describe("Tune", func() {
		It("applies gravity changes to live particles on the next frame", func() {
			host.Burst(400, 300)
			queue.Pump()
			var before, after []float64
			surface.onRender = func(f *Frame) {
				for _, p := range f.Particles {
					after = append(after, p.Velocity.Y())
				}
			}
			for _, p := range currentParticles(host) {
				before = append(before, p.Velocity.Y())
			}

			host.Tune(func(p *burst.Params) { p.Gravity = 0.5 })
			queue.Pump()

			Expect(host.Params().Gravity).To(Equal(0.5))
			Expect(after).To(HaveLen(len(before)))
			for i := range before {
				Expect(math.Abs(before[i] - after[i] - 0.5)).To(BeNumerically("<", 1e-9))
			}
		})
	})

	Describe("Teardown", func() {
		It("leaves no frame callbacks pending", func() {
			queue.Pump()
			Expect(host.Teardown()).To(Succeed())
			Expect(queue.Pending()).To(BeZero())
			Expect(surface.Released).To(BeTrue())

			frames := surface.Frames
			Expect(queue.Pump()).To(BeZero())
			Expect(surface.Frames).To(Equal(frames))
		})

		It("drops bursts requested afterwards", func() {
			Expect(host.Teardown()).To(Succeed())
			_, ok := host.Burst(400, 300)
			Expect(ok).To(BeFalse())
			Expect(host.Live()).To(BeZero())
		})

		It("runs only once", func() {
			Expect(host.Teardown()).To(Succeed())
			Expect(host.Teardown()).To(MatchError(ErrTornDown))
		})

		It("stops the loop when called from inside a frame", func() {
			surface.onRender = func(*Frame) { Expect(host.Teardown()).To(Succeed()) }
			Expect(queue.Pump()).To(Equal(1))
			Expect(queue.Pending()).To(BeZero())
		})

		It("reports surface release failures", func() {
			surface.releaseErr = errors.New("context lost")
			err := host.Teardown()
			Expect(err).To(MatchError(ContainSubstring("context lost")))
			Expect(queue.Pending()).To(BeZero())
		})

		It("allows a fresh mount afterwards", func() {
			Expect(host.Teardown()).To(Succeed())
			second, err := Initialize(vp, &Headless{}, queue, burst.DefaultParams(), nil)
			Expect(err).NotTo(HaveOccurred())
			second.Burst(400, 300)
			queue.Pump()
			Expect(second.Live()).To(Equal(50))
			Expect(second.Teardown()).To(Succeed())
			Expect(queue.Pending()).To(BeZero())
		})
	})
})

func currentParticles(h *Host) []burst.Particle {
	return h.sim.Particles()
}
