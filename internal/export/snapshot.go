package export

import (
	"fmt"
	"os"

	"github.com/san-kum/coinburst/internal/scene"
	"github.com/san-kum/coinburst/internal/viz"
)

// Snapshot is a scene.FrameObserver that rasterizes one frame of a run into
// a braille canvas. Frame 0 keeps the latest frame instead.
type Snapshot struct {
	Frame uint64

	surface  *viz.CanvasSurface
	vp       scene.Viewport
	resizes  int
	captured uint64
	coins    int
}

func NewSnapshot(frame uint64) *Snapshot {
	return &Snapshot{Frame: frame, surface: viz.NewCanvasSurface()}
}

func (s *Snapshot) OnFrame(f *scene.Frame) {
	if s.Frame != 0 && f.Index != s.Frame {
		return
	}
	if f.Viewport != s.vp {
		s.vp = f.Viewport
		s.surface.Resize(f.Viewport)
		s.resizes++
	}
	s.surface.Render(f)
	s.captured = f.Index
	s.coins = s.surface.Drawn()
}

// Captured is the index of the rasterized frame, 0 when none was seen.
func (s *Snapshot) Captured() uint64 { return s.captured }

// Coins is the number of coins drawn into the captured frame.
func (s *Snapshot) Coins() int { return s.coins }

func (s *Snapshot) Canvas() *viz.Canvas { return s.surface.Canvas() }

func (s *Snapshot) SVG(scale float64) string {
	return CanvasToSVG(s.surface.Canvas(), scale)
}

// WriteSVG writes the captured frame to path.
func (s *Snapshot) WriteSVG(path string, scale float64) error {
	if s.captured == 0 {
		return fmt.Errorf("snapshot: frame %d was never rendered", s.Frame)
	}
	if err := os.WriteFile(path, []byte(s.SVG(scale)), 0644); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	return nil
}
