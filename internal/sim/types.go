package sim

import (
	"github.com/san-kum/coinburst/internal/burst"
	"github.com/san-kum/coinburst/internal/scene"
	"github.com/san-kum/coinburst/internal/trace"
)

// ScheduledBurst fires a burst at pixel (X, Y) just before frame Frame is
// rendered. Frames count from zero.
type ScheduledBurst struct {
	Frame int
	X, Y  float64
}

type Config struct {
	Viewport scene.Viewport
	Frames   int
	Bursts   []ScheduledBurst
	Seed     int64
	Params   burst.Params
}

type Result struct {
	Seed      int64
	FramesRun int
	Fired     int
	Dropped   int
	FinalLive int
	Samples   []trace.Sample
	Metrics   map[string]float64
}

// LiveSeries returns the live count per frame.
func (r *Result) LiveSeries() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = float64(s.Live)
	}
	return out
}

// CenterBursts schedules one burst at the viewport centre on each given frame.
func CenterBursts(vp scene.Viewport, frames ...int) []ScheduledBurst {
	x, y := vp.Center()
	out := make([]ScheduledBurst, len(frames))
	for i, f := range frames {
		out[i] = ScheduledBurst{Frame: f, X: x, Y: y}
	}
	return out
}
