package burst

import "github.com/go-gl/mathgl/mgl64"

const (
	BurstCount = 50

	MinLife    = 2.0
	LifeSpread = 1.0
	LifeStep   = 0.01
	FadeLife   = 0.5

	MaxAngularVelocity = 0.2

	// lifeEpsilon absorbs the drift of repeated LifeStep subtractions so a
	// particle born at exactly N steps of life dies on step N.
	lifeEpsilon = 1e-9
)

// Particle is a single coin. Velocity and AngularVelocity are per frame.
type Particle struct {
	Position        mgl64.Vec3
	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3
	Rotation        mgl64.Vec3 // Euler angles, radians

	Life        float64
	Opacity     float64
	Transparent bool // set once the fade has started
}

// Fading reports whether the particle is in its fade-out window.
func (p *Particle) Fading() bool { return p.Life < FadeLife }

// Expired reports whether the particle's life has run out. Life within 1e-9
// of zero counts as zero, so a particle can be removed while its stored life
// is still a hair above it.
func (p *Particle) Expired() bool { return p.Life <= lifeEpsilon }

// FadeOpacity is the opacity law for the fade window.
func FadeOpacity(life float64) float64 {
	a := life * 2
	if a < 0 {
		return 0
	}
	if a > 1 {
		return 1
	}
	return a
}
