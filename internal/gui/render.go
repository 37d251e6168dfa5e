package gui

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/coinburst/internal/burst"
	"github.com/san-kum/coinburst/internal/scene"
)

const coinSlices = 24

// raylibSurface draws coins immediately; Render must run between
// BeginMode3D and EndMode3D.
type raylibSurface struct {
	vp       scene.Viewport
	released bool
	drawn    int
}

func (s *raylibSurface) Resize(vp scene.Viewport) { s.vp = vp }

func (s *raylibSurface) Render(f *scene.Frame) {
	s.drawn = 0
	if s.released {
		return
	}
	thickness := float32(f.Params.Thickness)
	for _, inst := range f.Instances {
		if inst.Opacity <= 0 {
			continue
		}
		drawCoin(inst, thickness)
		s.drawn++
	}
}

func (s *raylibSurface) Release() error {
	s.released = true
	return nil
}

// drawCoin draws a cylinder centred on the particle, rotated X then Y then Z
// so its axis matches scene.CoinNormal.
func drawCoin(inst scene.Instance, thickness float32) {
	rot := inst.Rotation
	rl.PushMatrix()
	rl.Translatef(float32(inst.Position.X()), float32(inst.Position.Y()), float32(inst.Position.Z()))
	rl.Rotatef(float32(mgl64.RadToDeg(rot.X())), 1, 0, 0)
	rl.Rotatef(float32(mgl64.RadToDeg(rot.Y())), 0, 1, 0)
	rl.Rotatef(float32(mgl64.RadToDeg(rot.Z())), 0, 0, 1)

	col := coinColor(inst.Tint, inst.Opacity)
	base := rl.NewVector3(0, -thickness/2, 0)
	rl.DrawCylinder(base, scene.CoinRadius, scene.CoinRadius, thickness, coinSlices, col)
	rl.DrawCylinderWires(base, scene.CoinRadius, scene.CoinRadius, thickness, coinSlices, rl.ColorAlpha(shadeEdge(inst.Tint), float32(inst.Opacity)))
	rl.PopMatrix()
}

func coinColor(c burst.RGB, opacity float64) color.RGBA {
	return rl.ColorAlpha(rl.NewColor(c.R, c.G, c.B, 255), float32(opacity))
}

func shadeEdge(c burst.RGB) color.RGBA {
	return rl.NewColor(c.R/4*3, c.G/4*3, c.B/4*3, 255)
}

func vec3(v mgl64.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X()), float32(v.Y()), float32(v.Z()))
}

// raylibCamera mirrors the scene camera. Clip planes are global rlgl state,
// set by applyClipPlanes.
func raylibCamera(c *scene.Camera) rl.Camera3D {
	return rl.NewCamera3D(vec3(c.Position), vec3(c.Target), vec3(c.Up), float32(c.FOV), rl.CameraPerspective)
}

// applyClipPlanes makes BeginMode3D project with the scene camera's near and
// far planes, the ones ScreenToPlane unprojects through.
func applyClipPlanes(c *scene.Camera) {
	rl.SetClipPlanes(c.Near, c.Far)
}
