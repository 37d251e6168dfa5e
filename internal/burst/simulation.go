package burst

import (
	"math"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Rand is the random source used for spawning. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

type Simulation struct {
	params     *Params
	rng        Rand
	integrator Integrator
	particles  []Particle
}

// New returns a simulation reading its parameters through params. A nil rng
// selects a time-seeded source.
func New(params *Params, rng Rand) *Simulation {
	if params == nil {
		p := DefaultParams()
		params = &p
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Simulation{
		params:     params,
		rng:        rng,
		integrator: NewEuler(),
		particles:  make([]Particle, 0, BurstCount),
	}
}

// SpawnBurst appends count particles at origin. Existing particles are kept.
func (s *Simulation) SpawnBurst(origin mgl64.Vec3, count int) {
	power := s.params.BurstPower
	for range count {
		p := Particle{Position: origin, Opacity: 1}
		p.Rotation = mgl64.Vec3{
			s.rng.Float64() * math.Pi,
			s.rng.Float64() * math.Pi,
			s.rng.Float64() * math.Pi,
		}
		p.Velocity = mgl64.Vec3{
			(s.rng.Float64() - 0.5) * power,
			s.rng.Float64()*power*1.25 + power*0.5,
			(s.rng.Float64() - 0.5) * power * 0.5,
		}
		p.AngularVelocity = mgl64.Vec3{
			s.rng.Float64() * MaxAngularVelocity,
			s.rng.Float64() * MaxAngularVelocity,
			s.rng.Float64() * MaxAngularVelocity,
		}
		p.Life = MinLife + s.rng.Float64()*LifeSpread
		s.particles = append(s.particles, p)
	}
}

// Advance steps every live particle by one frame and culls expired ones.
func (s *Simulation) Advance() {
	if len(s.particles) == 0 {
		return
	}
	gravity := s.params.Gravity
	alive := s.particles[:0]
	for i := range s.particles {
		p := &s.particles[i]
		s.integrator.Step(p, gravity)
		p.Life -= LifeStep
		if p.Fading() {
			p.Opacity = FadeOpacity(p.Life)
			p.Transparent = true
		}
		if p.Expired() {
			continue
		}
		alive = append(alive, *p)
	}
	clear(s.particles[len(alive):])
	s.particles = alive
}

// Particles returns the live set. The slice is only valid until the next
// SpawnBurst, Advance or Clear and must not be modified.
func (s *Simulation) Particles() []Particle { return s.particles }

func (s *Simulation) Len() int { return len(s.particles) }

func (s *Simulation) Clear() {
	clear(s.particles)
	s.particles = s.particles[:0]
}

func (s *Simulation) Params() Params { return *s.params }
