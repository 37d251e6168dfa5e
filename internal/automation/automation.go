package automation

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/san-kum/coinburst/internal/burst"
	"github.com/san-kum/coinburst/internal/config"
	"github.com/san-kum/coinburst/internal/scene"
	"github.com/san-kum/coinburst/internal/sim"
	"github.com/san-kum/coinburst/internal/trace"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted sequence of headless runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Width       int            `yaml:"width"`
	Height      int            `yaml:"height"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run in a scenario.
type ScenarioStep struct {
	Preset string             `yaml:"preset"`
	Frames int                `yaml:"frames"`
	Seed   int64              `yaml:"seed"`
	Bursts []BurstSpec        `yaml:"bursts"`
	Params map[string]float64 `yaml:"params"`
	SaveAs string             `yaml:"save_as"`
}

// BurstSpec fires at (X, Y) on Frame. Missing coordinates mean the viewport
// centre.
type BurstSpec struct {
	Frame int      `yaml:"frame"`
	X     *float64 `yaml:"x"`
	Y     *float64 `yaml:"y"`
}

// StepResult pairs a step's run with the id it was saved under, if any.
type StepResult struct {
	Result *sim.Result
	RunID  string
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%s: scenario has no steps", path)
	}

	return &scenario, nil
}

func (s *Scenario) viewport() scene.Viewport {
	vp := scene.Viewport{Width: s.Width, Height: s.Height}
	if vp.Width <= 0 {
		vp.Width = config.DefaultWidth
	}
	if vp.Height <= 0 {
		vp.Height = config.DefaultHeight
	}
	return vp
}

// Config builds the simulator config for one step.
func (st ScenarioStep) Config(vp scene.Viewport) (sim.Config, error) {
	params, err := presetParams(st.Preset)
	if err != nil {
		return sim.Config{}, err
	}
	for name, v := range st.Params {
		if err := params.SetParam(name, v); err != nil {
			return sim.Config{}, err
		}
	}

	cx, cy := vp.Center()
	bursts := make([]sim.ScheduledBurst, len(st.Bursts))
	for i, b := range st.Bursts {
		sb := sim.ScheduledBurst{Frame: b.Frame, X: cx, Y: cy}
		if b.X != nil {
			sb.X = *b.X
		}
		if b.Y != nil {
			sb.Y = *b.Y
		}
		bursts[i] = sb
	}

	return sim.Config{
		Viewport: vp,
		Frames:   st.Frames,
		Bursts:   bursts,
		Seed:     st.Seed,
		Params:   params,
	}, nil
}

func presetParams(name string) (burst.Params, error) {
	if name == "" {
		return burst.DefaultParams(), nil
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return burst.Params{}, fmt.Errorf("unknown preset %q", name)
	}
	return cfg.Params()
}

// RunScenario executes all steps in order. Steps with save_as are written to
// store when it is non-nil.
func RunScenario(ctx context.Context, scenario *Scenario, store *trace.Store) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))
	vp := scenario.viewport()

	for i, step := range scenario.Steps {
		log.Printf("automation: step %d/%d preset=%q frames=%d", i+1, len(scenario.Steps), step.Preset, step.Frames)

		cfg, err := step.Config(vp)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		result, err := sim.New(nil).Run(ctx, cfg)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Result: result}
		if step.SaveAs != "" && store != nil {
			id, err := store.Save(&trace.Run{
				Label:   step.SaveAs,
				Preset:  step.Preset,
				Seed:    cfg.Seed,
				Width:   vp.Width,
				Height:  vp.Height,
				Bursts:  result.Fired,
				Params:  cfg.Params,
				Samples: result.Samples,
				Metrics: result.Metrics,
			})
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			sr.RunID = id
		}
		results = append(results, sr)
	}

	return results, nil
}

// ParameterSweep runs the same burst across a range of one parameter.
type ParameterSweep struct {
	Preset    string
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Frames    int
	Seed      int64
	Viewport  scene.Viewport
}

// SweepResult holds one point of a parameter sweep.
type SweepResult struct {
	ParamValue float64
	Metrics    map[string]float64
	FinalLive  int
}

// RunSweep executes a parameter sweep, one centre burst on frame 0 per point.
func RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}
	base, err := presetParams(sweep.Preset)
	if err != nil {
		return nil, err
	}
	if err := base.SetParam(sweep.ParamName, sweep.ParamMin); err != nil {
		return nil, err
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	paramStep := (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep
		params := base
		if err := params.SetParam(sweep.ParamName, paramVal); err != nil {
			return results, err
		}

		result, err := sim.New(nil).Run(ctx, sim.Config{
			Viewport: sweep.Viewport,
			Frames:   sweep.Frames,
			Bursts:   sim.CenterBursts(sweep.Viewport, 0),
			Seed:     sweep.Seed,
			Params:   params,
		})
		if err != nil {
			return results, fmt.Errorf("sweep %s=%g: %w", sweep.ParamName, paramVal, err)
		}

		results = append(results, SweepResult{
			ParamValue: paramVal,
			Metrics:    result.Metrics,
			FinalLive:  result.FinalLive,
		})
		log.Printf("automation: sweep %d/%d %s=%.4f", i+1, sweep.NumSteps, sweep.ParamName, paramVal)
	}

	return results, nil
}
