package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	DefaultFOV       = 75.0
	DefaultNear      = 0.1
	DefaultFar       = 1000.0
	DefaultCameraZ   = 10.0
	unprojectDepthNC = 0.5
)

// Viewport is a surface size in pixels.
type Viewport struct {
	Width, Height int
}

func (v Viewport) Empty() bool { return v.Width <= 0 || v.Height <= 0 }

func (v Viewport) Aspect() float64 {
	if v.Empty() {
		return 1
	}
	return float64(v.Width) / float64(v.Height)
}

func (v Viewport) Center() (float64, float64) {
	return float64(v.Width) / 2, float64(v.Height) / 2
}

// Camera is a perspective camera. FOV is vertical, in degrees.
type Camera struct {
	Position, Target, Up mgl64.Vec3
	FOV, Aspect          float64
	Near, Far            float64
}

func NewCamera(aspect float64) *Camera {
	return &Camera{
		Position: mgl64.Vec3{0, 0, DefaultCameraZ},
		Up:       mgl64.Vec3{0, 1, 0},
		FOV:      DefaultFOV,
		Aspect:   aspect,
		Near:     DefaultNear,
		Far:      DefaultFar,
	}
}

func (c *Camera) Projection() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

func (c *Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position, c.Target, c.Up)
}

// ViewProjection is projection * view.
func (c *Camera) ViewProjection() mgl64.Mat4 {
	return c.Projection().Mul4(c.View())
}

// Unproject maps a normalized device coordinate back to world space.
func (c *Camera) Unproject(ndc mgl64.Vec3) mgl64.Vec3 {
	v := c.ViewProjection().Inv().Mul4x1(ndc.Vec4(1))
	if v.W() == 0 {
		return v.Vec3()
	}
	return v.Vec3().Mul(1 / v.W())
}

// ScreenToNDC converts pixel coordinates (origin top-left, y down) to clip
// space, flipping y.
func ScreenToNDC(x, y float64, vp Viewport) (float64, float64) {
	w, h := float64(vp.Width), float64(vp.Height)
	return x/w*2 - 1, -(y/h*2 - 1)
}

// ScreenToPlane casts a ray from the camera through the pixel (x, y) and
// intersects it with the world plane z=0. It reports false when the ray is
// parallel to the plane or the plane is behind the camera.
func (c *Camera) ScreenToPlane(x, y float64, vp Viewport) (mgl64.Vec3, bool) {
	if vp.Empty() {
		return mgl64.Vec3{}, false
	}
	nx, ny := ScreenToNDC(x, y, vp)
	p := c.Unproject(mgl64.Vec3{nx, ny, unprojectDepthNC})
	dir := p.Sub(c.Position)
	if dir.Len() == 0 {
		return mgl64.Vec3{}, false
	}
	dir = dir.Normalize()
	if math.Abs(dir.Z()) < 1e-12 {
		return mgl64.Vec3{}, false
	}
	t := -c.Position.Z() / dir.Z()
	if t <= 0 {
		return mgl64.Vec3{}, false
	}
	return c.Position.Add(dir.Mul(t)), true
}

// Project converts a world point to pixel coordinates. Returns x, y, depth
// (NDC z) and whether the point lies inside the view frustum.
func (c *Camera) Project(p mgl64.Vec3, vp Viewport) (float64, float64, float64, bool) {
	clip := c.ViewProjection().Mul4x1(p.Vec4(1))
	if clip.W() <= 0 {
		return 0, 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	sx := (ndc.X() + 1) / 2 * float64(vp.Width)
	sy := (1 - ndc.Y()) / 2 * float64(vp.Height)
	visible := ndc.X() >= -1 && ndc.X() <= 1 && ndc.Y() >= -1 && ndc.Y() <= 1 && ndc.Z() >= -1 && ndc.Z() <= 1
	return sx, sy, ndc.Z(), visible
}
