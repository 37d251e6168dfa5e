package trace

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

// DefaultMetrics returns the metrics recorded by the run command.
func DefaultMetrics() []Metric {
	return []Metric{NewPeakLive(), NewMeanLive(), NewFadingFrames(), NewDrop()}
}

type PeakLive struct {
	peak int
}

func NewPeakLive() *PeakLive { return &PeakLive{} }

func (m *PeakLive) Name() string { return "peak_live" }

func (m *PeakLive) Observe(s Sample) {
	if s.Live > m.peak {
		m.peak = s.Live
	}
}

func (m *PeakLive) Value() float64 { return float64(m.peak) }
func (m *PeakLive) Reset()         { m.peak = 0 }

type MeanLive struct {
	total   int
	samples int
}

func NewMeanLive() *MeanLive { return &MeanLive{} }

func (m *MeanLive) Name() string { return "mean_live" }

func (m *MeanLive) Observe(s Sample) {
	m.total += s.Live
	m.samples++
}

func (m *MeanLive) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return float64(m.total) / float64(m.samples)
}

func (m *MeanLive) Reset() {
	m.total = 0
	m.samples = 0
}

// FadingFrames counts frames in which at least one coin was fading.
type FadingFrames struct {
	frames int
}

func NewFadingFrames() *FadingFrames { return &FadingFrames{} }

func (m *FadingFrames) Name() string { return "fading_frames" }

func (m *FadingFrames) Observe(s Sample) {
	if s.Fading > 0 {
		m.frames++
	}
}

func (m *FadingFrames) Value() float64 { return float64(m.frames) }
func (m *FadingFrames) Reset()         { m.frames = 0 }

// Drop is the largest fall of the mean coin height below its first
// observed value.
type Drop struct {
	start   float64
	lowest  float64
	started bool
}

func NewDrop() *Drop { return &Drop{} }

func (m *Drop) Name() string { return "max_drop" }

func (m *Drop) Observe(s Sample) {
	if s.Live == 0 {
		return
	}
	if !m.started {
		m.start, m.lowest, m.started = s.MeanHeight, s.MeanHeight, true
		return
	}
	if s.MeanHeight < m.lowest {
		m.lowest = s.MeanHeight
	}
}

func (m *Drop) Value() float64 {
	if !m.started {
		return 0
	}
	return m.start - m.lowest
}

func (m *Drop) Reset() { *m = Drop{} }
