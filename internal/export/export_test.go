package export

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/coinburst/internal/burst"
	"github.com/san-kum/coinburst/internal/scene"
	"github.com/san-kum/coinburst/internal/sim"
	"github.com/san-kum/coinburst/internal/viz"
)

func TestCanvasToSVG(t *testing.T) {
	if CanvasToSVG(nil, 1) != "" {
		t.Error("nil canvas should produce no output")
	}

	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.SetTinted(3, 3, burst.RGB{R: 0xb8, G: 0x73, B: 0x33}, 1)

	svg := CanvasToSVG(c, 2)
	if !strings.Contains(svg, `width="8" height="8"`) {
		t.Errorf("unexpected dimensions in %q", svg)
	}
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected 2 dots, got %d", n)
	}
	if !strings.Contains(svg, `fill="#b87333"`) {
		t.Error("tinted dot should carry its cell colour")
	}
	if !strings.Contains(svg, `fill="`+untinted+`"`) {
		t.Error("plain dot should use the default colour")
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("svg not closed")
	}
}

func TestSnapshotCapturesFrame(t *testing.T) {
	vp := scene.Viewport{Width: 160, Height: 120}
	snap := NewSnapshot(3)

	s := sim.New(nil)
	s.AddObserver(snap)
	_, err := s.Run(context.Background(), sim.Config{
		Viewport: vp,
		Frames:   10,
		Bursts:   sim.CenterBursts(vp, 0),
		Seed:     7,
		Params:   burst.DefaultParams(),
	})
	if err != nil {
		t.Fatal(err)
	}

	if snap.Captured() != 3 {
		t.Fatalf("expected frame 3, got %d", snap.Captured())
	}
	if snap.Coins() == 0 {
		t.Error("expected coins in the captured frame")
	}
	if snap.Canvas().Width != 80 || snap.Canvas().Height != 30 {
		t.Errorf("canvas %dx%d does not match viewport", snap.Canvas().Width, snap.Canvas().Height)
	}

	path := filepath.Join(t.TempDir(), "frame.svg")
	if err := snap.WriteSVG(path, 1); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<circle") {
		t.Error("snapshot has no dots")
	}
}

func TestSnapshotNeverRendered(t *testing.T) {
	snap := NewSnapshot(50)
	if err := snap.WriteSVG(filepath.Join(t.TempDir(), "x.svg"), 1); err == nil {
		t.Error("expected error for a frame that never rendered")
	}
}

func TestSnapshotLastFrameResizesOnce(t *testing.T) {
	vp := scene.Viewport{Width: 80, Height: 60}
	snap := NewSnapshot(0)

	s := sim.New(nil)
	s.AddObserver(snap)
	if _, err := s.Run(context.Background(), sim.Config{
		Viewport: vp,
		Frames:   12,
		Bursts:   sim.CenterBursts(vp, 0),
		Seed:     2,
		Params:   burst.DefaultParams(),
	}); err != nil {
		t.Fatal(err)
	}

	if snap.Captured() != 12 {
		t.Errorf("expected last frame 12, got %d", snap.Captured())
	}
	if snap.resizes != 1 {
		t.Errorf("expected one canvas resize for a fixed viewport, got %d", snap.resizes)
	}
}
