package trace

import (
	"math"

	"github.com/san-kum/coinburst/internal/scene"
)

// Sample summarises the live set after one frame.
type Sample struct {
	Frame       uint64  `json:"frame"`
	Live        int     `json:"live"`
	Fading      int     `json:"fading"`
	MeanOpacity float64 `json:"mean_opacity"`
	MinLife     float64 `json:"min_life"`
	MeanHeight  float64 `json:"mean_height"`
}

// Recorder collects one Sample per frame and feeds its metrics.
type Recorder struct {
	samples []Sample
	metrics []Metric
}

func NewRecorder(metrics ...Metric) *Recorder {
	return &Recorder{metrics: metrics}
}

func (r *Recorder) AddMetric(m Metric) { r.metrics = append(r.metrics, m) }

func (r *Recorder) OnFrame(f *scene.Frame) {
	s := Sample{Frame: f.Index, Live: len(f.Particles)}
	if s.Live > 0 {
		s.MinLife = math.Inf(1)
		var opacity, height float64
		for _, p := range f.Particles {
			opacity += p.Opacity
			height += p.Position.Y()
			if p.Transparent {
				s.Fading++
			}
			if p.Life < s.MinLife {
				s.MinLife = p.Life
			}
		}
		s.MeanOpacity = opacity / float64(s.Live)
		s.MeanHeight = height / float64(s.Live)
	}

	r.samples = append(r.samples, s)
	for _, m := range r.metrics {
		m.Observe(s)
	}
}

func (r *Recorder) Samples() []Sample { return r.samples }

// Metrics returns the current value of every metric by name.
func (r *Recorder) Metrics() map[string]float64 {
	out := make(map[string]float64, len(r.metrics))
	for _, m := range r.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

// LiveSeries returns the live count per frame, for plotting.
func (r *Recorder) LiveSeries() []float64 {
	out := make([]float64, len(r.samples))
	for i, s := range r.samples {
		out[i] = float64(s.Live)
	}
	return out
}

func (r *Recorder) Reset() {
	r.samples = r.samples[:0]
	for _, m := range r.metrics {
		m.Reset()
	}
}
