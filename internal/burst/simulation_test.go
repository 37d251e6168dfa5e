package burst

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

type seqRand struct {
	vals []float64
	i    int
}

func (r *seqRand) Float64() float64 {
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v
}

func newTestSim(seed int64) (*Simulation, *Params) {
	params := DefaultParams()
	return New(&params, rand.New(rand.NewSource(seed))), &params
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestSpawnBurstCountAndLife(t *testing.T) {
	s, _ := newTestSim(1)
	s.SpawnBurst(mgl64.Vec3{1, 2, 0}, BurstCount)

	if s.Len() != 50 {
		t.Fatalf("expected 50 particles, got %d", s.Len())
	}
	for i, p := range s.Particles() {
		if p.Life < 2.0 || p.Life >= 3.0 {
			t.Errorf("particle %d: life %.4f outside [2,3)", i, p.Life)
		}
		if p.Position != (mgl64.Vec3{1, 2, 0}) {
			t.Errorf("particle %d: expected spawn at origin, got %v", i, p.Position)
		}
		if p.Opacity != 1 || p.Transparent {
			t.Errorf("particle %d: expected opaque at spawn", i)
		}
	}
}

func TestSpawnBurstExactVectors(t *testing.T) {
	params := DefaultParams()
	rng := &seqRand{vals: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 0.0}}
	s := New(&params, rng)
	s.SpawnBurst(mgl64.Vec3{}, 1)

	p := s.Particles()[0]
	wantRot := mgl64.Vec3{0.1 * math.Pi, 0.2 * math.Pi, 0.3 * math.Pi}
	wantVel := mgl64.Vec3{-0.04, 0.45, 0.02}
	wantAng := mgl64.Vec3{0.14, 0.16, 0.18}

	for i := 0; i < 3; i++ {
		if !near(p.Rotation[i], wantRot[i]) {
			t.Errorf("rotation[%d]: got %.6f, expected %.6f", i, p.Rotation[i], wantRot[i])
		}
		if !near(p.Velocity[i], wantVel[i]) {
			t.Errorf("velocity[%d]: got %.6f, expected %.6f", i, p.Velocity[i], wantVel[i])
		}
		if !near(p.AngularVelocity[i], wantAng[i]) {
			t.Errorf("angular[%d]: got %.6f, expected %.6f", i, p.AngularVelocity[i], wantAng[i])
		}
	}
	if p.Life != 2.0 {
		t.Errorf("expected life 2.0, got %.6f", p.Life)
	}
}

func TestSpawnVelocityUpwardBiased(t *testing.T) {
	for _, power := range []float64{0.1, 0.4, 2.0} {
		params := DefaultParams()
		params.BurstPower = power
		s := New(&params, rand.New(rand.NewSource(7)))
		for range 20 {
			s.SpawnBurst(mgl64.Vec3{}, BurstCount)
		}
		for _, p := range s.Particles() {
			if p.Velocity[1] < power*0.5 {
				t.Fatalf("power %.2f: vertical velocity %.4f below %.4f", power, p.Velocity[1], power*0.5)
			}
			if math.Abs(p.Velocity[0]) > power*0.5 || math.Abs(p.Velocity[2]) > power*0.25 {
				t.Fatalf("power %.2f: horizontal spread out of range: %v", power, p.Velocity)
			}
			for i := 0; i < 3; i++ {
				if p.AngularVelocity[i] < 0 || p.AngularVelocity[i] >= MaxAngularVelocity {
					t.Fatalf("angular velocity out of range: %v", p.AngularVelocity)
				}
			}
		}
	}
}

func TestAdvanceDecrementsLife(t *testing.T) {
	s, _ := newTestSim(3)
	s.SpawnBurst(mgl64.Vec3{}, BurstCount)

	before := make([]float64, s.Len())
	for i, p := range s.Particles() {
		before[i] = p.Life
	}
	s.Advance()

	if s.Len() != len(before) {
		t.Fatalf("no particle should expire on the first frame, got %d", s.Len())
	}
	for i, p := range s.Particles() {
		if !near(before[i]-p.Life, LifeStep) {
			t.Errorf("particle %d: life dropped by %.6f", i, before[i]-p.Life)
		}
	}
}

func TestAdvanceIntegratesMotion(t *testing.T) {
	params := DefaultParams()
	s := New(&params, &seqRand{vals: []float64{0.5}})
	s.SpawnBurst(mgl64.Vec3{1, 1, 1}, 1)
	p0 := s.Particles()[0]

	s.Advance()
	p := s.Particles()[0]

	if !p.Position.ApproxEqual(p0.Position.Add(p0.Velocity)) {
		t.Errorf("position: got %v, expected %v", p.Position, p0.Position.Add(p0.Velocity))
	}
	if !near(p.Velocity[1], p0.Velocity[1]-params.Gravity) {
		t.Errorf("vertical velocity: got %.6f, expected %.6f", p.Velocity[1], p0.Velocity[1]-params.Gravity)
	}
	if !p.Rotation.ApproxEqual(p0.Rotation.Add(p0.AngularVelocity)) {
		t.Errorf("rotation: got %v", p.Rotation)
	}
}

func TestGravityIsReadLive(t *testing.T) {
	params := DefaultParams()
	s := New(&params, &seqRand{vals: []float64{0.5}})
	s.SpawnBurst(mgl64.Vec3{}, 1)
	vy := s.Particles()[0].Velocity[1]

	params.Gravity = 0.1
	s.Advance()

	if got := s.Particles()[0].Velocity[1]; !near(got, vy-0.1) {
		t.Errorf("expected updated gravity to apply, vy %.4f -> %.4f", vy, got)
	}
}

func TestFadeOpacityLaw(t *testing.T) {
	params := DefaultParams()
	s := New(&params, &seqRand{vals: []float64{0}})
	s.SpawnBurst(mgl64.Vec3{}, 1)

	for s.Len() > 0 {
		s.Advance()
		if s.Len() == 0 {
			break
		}
		p := s.Particles()[0]
		if p.Life < FadeLife {
			if !near(p.Opacity, FadeOpacity(p.Life)) {
				t.Fatalf("life %.4f: opacity %.4f, expected %.4f", p.Life, p.Opacity, FadeOpacity(p.Life))
			}
			if !p.Transparent {
				t.Fatalf("life %.4f: expected transparent", p.Life)
			}
		} else if p.Opacity != 1 {
			t.Fatalf("life %.4f: expected opaque, got %.4f", p.Life, p.Opacity)
		}
	}
}

func TestParticleRemovedWhenLifeRunsOut(t *testing.T) {
	params := DefaultParams()
	s := New(&params, &seqRand{vals: []float64{0}})
	s.SpawnBurst(mgl64.Vec3{}, 1)

	for range 199 {
		s.Advance()
	}
	if s.Len() != 1 {
		t.Fatalf("expected particle alive after 199 frames, got %d", s.Len())
	}
	s.Advance()
	if s.Len() != 0 {
		t.Errorf("expected particle removed after 200 frames, life %.6f", s.Particles()[0].Life)
	}
}

func TestAdvanceClearsBurstWithin300Frames(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		s, _ := newTestSim(seed)
		s.SpawnBurst(mgl64.Vec3{}, BurstCount)
		for range 300 {
			s.Advance()
		}
		if s.Len() != 0 {
			t.Errorf("seed %d: %d particles left after 300 frames", seed, s.Len())
		}
	}
}

func TestBurstsAreAdditive(t *testing.T) {
	s, _ := newTestSim(4)
	s.SpawnBurst(mgl64.Vec3{}, BurstCount)
	s.Advance()
	s.SpawnBurst(mgl64.Vec3{2, 0, 0}, BurstCount)

	if s.Len() != 100 {
		t.Errorf("expected 100 particles, got %d", s.Len())
	}
}

func TestAdvanceEmpty(t *testing.T) {
	s, _ := newTestSim(5)
	for range 10 {
		s.Advance()
	}
	if s.Len() != 0 {
		t.Errorf("expected empty set, got %d", s.Len())
	}
}

func TestClear(t *testing.T) {
	s, _ := newTestSim(6)
	s.SpawnBurst(mgl64.Vec3{}, BurstCount)
	s.Clear()
	if s.Len() != 0 {
		t.Errorf("expected empty set after clear, got %d", s.Len())
	}
}

func TestFadeOpacity(t *testing.T) {
	tests := []struct {
		life, want float64
	}{
		{1.0, 1},
		{0.5, 1},
		{0.25, 0.5},
		{0.0, 0},
		{-0.3, 0},
	}
	for _, tt := range tests {
		if got := FadeOpacity(tt.life); !near(got, tt.want) {
			t.Errorf("FadeOpacity(%.2f) = %.4f, expected %.4f", tt.life, got, tt.want)
		}
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#ffd700")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if c != Gold {
		t.Errorf("expected gold, got %+v", c)
	}
	if c.Hex() != "#ffd700" {
		t.Errorf("round trip: got %s", c.Hex())
	}

	for _, bad := range []string{"", "#fff", "#gggggg", "12345678"} {
		if _, err := ParseHex(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestSetParam(t *testing.T) {
	p := DefaultParams()
	for i, name := range ParamNames {
		if err := p.SetParam(name, float64(i+1)); err != nil {
			t.Fatalf("SetParam(%q): %v", name, err)
		}
	}
	want := Params{Thickness: 1, Color: Gold, Metalness: 2, Roughness: 3, BurstPower: 4, Gravity: 5}
	if p != want {
		t.Errorf("got %+v, expected %+v", p, want)
	}
	if err := p.SetParam("spin", 1); err == nil {
		t.Error("expected error for unknown parameter")
	}
}

func TestExpiredTolerance(t *testing.T) {
	tests := []struct {
		life    float64
		expired bool
	}{
		{0, true},
		{-0.01, true},
		{5e-10, true},
		{1e-6, false},
		{LifeStep, false},
	}
	for _, tt := range tests {
		p := Particle{Life: tt.life}
		if got := p.Expired(); got != tt.expired {
			t.Errorf("Expired() with life %g = %v, expected %v", tt.life, got, tt.expired)
		}
	}
}
