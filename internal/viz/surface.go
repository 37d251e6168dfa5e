package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/coinburst/internal/scene"
)

// minOpacity below which coins are not rasterized at all
const minOpacity = 0.02

// CellViewport is the dot viewport of a cols x rows braille canvas.
func CellViewport(cols, rows int) scene.Viewport {
	return scene.Viewport{Width: cols * 2, Height: rows * 4}
}

// CanvasSurface rasterizes scene frames into a braille Canvas. Viewport units
// are canvas dots.
type CanvasSurface struct {
	canvas   *Canvas
	vp       scene.Viewport
	drawn    int
	released bool
}

func NewCanvasSurface() *CanvasSurface {
	return &CanvasSurface{canvas: NewCanvas(0, 0)}
}

func (s *CanvasSurface) Canvas() *Canvas { return s.canvas }

// Drawn is the number of coins rasterized by the last Render.
func (s *CanvasSurface) Drawn() int { return s.drawn }

func (s *CanvasSurface) Released() bool { return s.released }

func (s *CanvasSurface) Resize(vp scene.Viewport) {
	s.vp = vp
	s.canvas.Resize((vp.Width+1)/2, (vp.Height+3)/4)
}

func (s *CanvasSurface) Render(f *scene.Frame) {
	s.canvas.Clear()
	s.drawn = 0
	if s.released {
		return
	}
	cam := f.Camera
	focal := float64(f.Viewport.Height) / 2 / math.Tan(mgl64.DegToRad(cam.FOV)/2)

	for _, inst := range f.Instances {
		if inst.Opacity < minOpacity {
			continue
		}
		x, y, _, visible := cam.Project(inst.Position, f.Viewport)
		if !visible {
			continue
		}
		toEye := cam.Position.Sub(inst.Position)
		dist := toEye.Len()
		if dist == 0 {
			continue
		}
		r := scene.CoinRadius * focal / dist
		squash := inst.Normal.Dot(toEye.Mul(1 / dist))
		s.canvas.FillCoin(x, y, r, inst.Normal.X(), -inst.Normal.Y(), squash, inst.Tint, inst.Opacity)
		s.drawn++
	}
}

func (s *CanvasSurface) Release() error {
	s.released = true
	s.canvas.Clear()
	return nil
}
