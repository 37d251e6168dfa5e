package sim

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sort"

	"github.com/san-kum/coinburst/internal/scene"
	"github.com/san-kum/coinburst/internal/trace"
)

// Simulator drives a scene host against a headless surface for a fixed number
// of frames, firing scripted bursts between frames.
type Simulator struct {
	metrics   func() []trace.Metric
	observers []scene.FrameObserver
}

// New returns a Simulator. metrics builds a fresh metric set per run; nil
// selects trace.DefaultMetrics.
func New(metrics func() []trace.Metric) *Simulator {
	if metrics == nil {
		metrics = trace.DefaultMetrics
	}
	return &Simulator{
		metrics:   metrics,
		observers: make([]scene.FrameObserver, 0),
	}
}

func (s *Simulator) AddObserver(o scene.FrameObserver) { s.observers = append(s.observers, o) }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	bursts := make([]ScheduledBurst, len(cfg.Bursts))
	copy(bursts, cfg.Bursts)
	sort.SliceStable(bursts, func(i, j int) bool { return bursts[i].Frame < bursts[j].Frame })

	queue := scene.NewFrameQueue()
	surface := &scene.Headless{}
	host, err := scene.Initialize(cfg.Viewport, surface, queue, cfg.Params, rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		return nil, fmt.Errorf("start host: %w", err)
	}

	rec := trace.NewRecorder(s.metrics()...)
	host.AddObserver(rec)
	for _, o := range s.observers {
		host.AddObserver(o)
	}

	result := &Result{Seed: cfg.Seed}
	next := 0
	for frame := 0; frame < cfg.Frames; frame++ {
		select {
		case <-ctx.Done():
			s.finish(host, rec, result)
			return result, ctx.Err()
		default:
		}

		for next < len(bursts) && bursts[next].Frame == frame {
			b := bursts[next]
			if _, ok := host.Burst(b.X, b.Y); ok {
				result.Fired++
			} else {
				result.Dropped++
			}
			next++
		}

		queue.Pump()
		result.FramesRun++
	}

	if err := s.finish(host, rec, result); err != nil {
		return result, err
	}
	return result, nil
}

func (s *Simulator) finish(host *scene.Host, rec *trace.Recorder, result *Result) error {
	result.FinalLive = host.Live()
	result.Samples = rec.Samples()
	result.Metrics = rec.Metrics()
	if err := host.Teardown(); err != nil {
		log.Printf("sim: teardown: %v", err)
		return err
	}
	return nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Viewport.Empty() {
		return fmt.Errorf("viewport must be non-empty, got %dx%d", cfg.Viewport.Width, cfg.Viewport.Height)
	}
	if cfg.Frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", cfg.Frames)
	}
	if cfg.Params.BurstPower < 0 {
		return fmt.Errorf("burst power must be non-negative, got %f", cfg.Params.BurstPower)
	}
	for _, b := range cfg.Bursts {
		if b.Frame < 0 || b.Frame >= cfg.Frames {
			return fmt.Errorf("burst frame %d outside [0, %d)", b.Frame, cfg.Frames)
		}
	}
	return nil
}
