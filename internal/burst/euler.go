package burst

// Integrator steps a particle's motion by one frame.
type Integrator interface {
	Step(p *Particle, gravity float64)
}

// Euler is explicit Euler with a one-frame step: position uses the velocity
// from the start of the frame, then gravity is applied.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(p *Particle, gravity float64) {
	p.Position = p.Position.Add(p.Velocity)
	p.Velocity[1] -= gravity
	p.Rotation = p.Rotation.Add(p.AngularVelocity)
}
