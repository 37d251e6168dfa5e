package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestScreenCenterMapsToOrigin(t *testing.T) {
	for _, vp := range []Viewport{{800, 600}, {1280, 720}, {375, 812}, {1, 1}} {
		cam := NewCamera(vp.Aspect())
		cx, cy := vp.Center()
		p, ok := cam.ScreenToPlane(cx, cy, vp)
		if !ok {
			t.Fatalf("%dx%d: expected hit", vp.Width, vp.Height)
		}
		if math.Abs(p.X()) > 1e-9 || math.Abs(p.Y()) > 1e-9 || math.Abs(p.Z()) > 1e-9 {
			t.Errorf("%dx%d: expected origin, got %v", vp.Width, vp.Height, p)
		}
	}
}

func TestScreenToPlaneEdges(t *testing.T) {
	vp := Viewport{800, 600}
	cam := NewCamera(vp.Aspect())
	halfH := DefaultCameraZ * math.Tan(mgl64.DegToRad(DefaultFOV)/2)
	halfW := halfH * vp.Aspect()

	tests := []struct {
		name   string
		x, y   float64
		wx, wy float64
	}{
		{"top center", 400, 0, 0, halfH},
		{"bottom center", 400, 600, 0, -halfH},
		{"left center", 0, 300, -halfW, 0},
		{"right center", 800, 300, halfW, 0},
		{"top left", 0, 0, -halfW, halfH},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := cam.ScreenToPlane(tt.x, tt.y, vp)
			if !ok {
				t.Fatal("expected hit")
			}
			if math.Abs(p.X()-tt.wx) > 1e-6 || math.Abs(p.Y()-tt.wy) > 1e-6 {
				t.Errorf("got (%.4f, %.4f), expected (%.4f, %.4f)", p.X(), p.Y(), tt.wx, tt.wy)
			}
			if math.Abs(p.Z()) > 1e-9 {
				t.Errorf("expected z=0, got %.6f", p.Z())
			}
		})
	}
}

func TestProjectRoundTrip(t *testing.T) {
	vp := Viewport{1024, 768}
	cam := NewCamera(vp.Aspect())

	for _, pt := range [][2]float64{{100, 50}, {512, 384}, {900, 700}} {
		w, ok := cam.ScreenToPlane(pt[0], pt[1], vp)
		if !ok {
			t.Fatalf("expected hit for %v", pt)
		}
		x, y, _, visible := cam.Project(w, vp)
		if !visible {
			t.Errorf("%v: expected visible", pt)
		}
		if math.Abs(x-pt[0]) > 1e-6 || math.Abs(y-pt[1]) > 1e-6 {
			t.Errorf("round trip %v -> %v -> (%.4f, %.4f)", pt, w, x, y)
		}
	}
}

func TestProjectBehindCamera(t *testing.T) {
	vp := Viewport{800, 600}
	cam := NewCamera(vp.Aspect())
	if _, _, _, visible := cam.Project(mgl64.Vec3{0, 0, 20}, vp); visible {
		t.Error("point behind camera should not be visible")
	}
}

func TestScreenToPlaneEmptyViewport(t *testing.T) {
	cam := NewCamera(1)
	if _, ok := cam.ScreenToPlane(0, 0, Viewport{}); ok {
		t.Error("expected no hit for empty viewport")
	}
}

func TestScreenToPlaneParallelRay(t *testing.T) {
	cam := NewCamera(1)
	cam.Position = mgl64.Vec3{0, 10, 0}
	cam.Target = mgl64.Vec3{0, 10, -1}
	// Camera sits in the z=0 plane looking along it.
	if _, ok := cam.ScreenToPlane(50, 50, Viewport{100, 100}); ok {
		t.Error("expected no hit when the camera lies in the plane")
	}
}

func TestScreenToNDC(t *testing.T) {
	vp := Viewport{200, 100}
	tests := []struct {
		x, y, nx, ny float64
	}{
		{0, 0, -1, 1},
		{200, 100, 1, -1},
		{100, 50, 0, 0},
	}
	for _, tt := range tests {
		nx, ny := ScreenToNDC(tt.x, tt.y, vp)
		if nx != tt.nx || ny != tt.ny {
			t.Errorf("(%v, %v): got (%v, %v), expected (%v, %v)", tt.x, tt.y, nx, ny, tt.nx, tt.ny)
		}
	}
}

func TestViewportAspect(t *testing.T) {
	if a := (Viewport{1600, 800}).Aspect(); a != 2 {
		t.Errorf("expected aspect 2, got %v", a)
	}
	if a := (Viewport{}).Aspect(); a != 1 {
		t.Errorf("expected aspect 1 for empty viewport, got %v", a)
	}
}

func TestCameraClipPlanes(t *testing.T) {
	cam := NewCamera(4.0 / 3.0)
	vp := cam.ViewProjection()

	depth := func(dist float64) float64 {
		clip := vp.Mul4x1(mgl64.Vec4{0, 0, cam.Position.Z() - dist, 1})
		return clip.Z() / clip.W()
	}
	if d := depth(cam.Near); math.Abs(d+1) > 1e-6 {
		t.Errorf("near plane maps to depth %v, expected -1", d)
	}
	if d := depth(cam.Far); math.Abs(d-1) > 1e-6 {
		t.Errorf("far plane maps to depth %v, expected 1", d)
	}
}
