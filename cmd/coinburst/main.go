package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/coinburst/internal/audio"
	"github.com/san-kum/coinburst/internal/automation"
	"github.com/san-kum/coinburst/internal/burst"
	"github.com/san-kum/coinburst/internal/config"
	"github.com/san-kum/coinburst/internal/export"
	"github.com/san-kum/coinburst/internal/gui"
	"github.com/san-kum/coinburst/internal/scene"
	"github.com/san-kum/coinburst/internal/sim"
	"github.com/san-kum/coinburst/internal/trace"
	"github.com/san-kum/coinburst/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	seed       int64
	frames     int
	bursts     []string
	width      int
	height     int
	save       bool
	runs       int
	theme      string
	mute       bool
	playChime  bool
	svgPath    string
	svgFrame   uint64
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	exportOut  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "coinburst",
		Short:        "coin burst toggle",
		SilenceUsage: true,
		RunE:         runGUI,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".coinburst", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "burst preset")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	rootCmd.PersistentFlags().BoolVar(&mute, "mute", false, "disable the chime")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open the switch in a window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "open the switch in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}
	tuiCmd.Flags().StringVar(&theme, "theme", "gold", "status line theme")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run scripted bursts headless and report",
		Args:  cobra.NoArgs,
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&frames, "frames", 300, "frames to simulate")
	runCmd.Flags().StringArrayVar(&bursts, "burst", []string{"0"}, "burst as frame or frame:x,y (repeatable)")
	runCmd.Flags().IntVar(&width, "width", 0, "viewport width (default from config)")
	runCmd.Flags().IntVar(&height, "height", 0, "viewport height (default from config)")
	runCmd.Flags().BoolVar(&save, "save", false, "save the trace to the data directory")
	runCmd.Flags().IntVar(&runs, "runs", 1, "repeat over consecutive seeds and average")
	runCmd.Flags().StringVar(&svgPath, "svg", "", "write a frame of the run as svg")
	runCmd.Flags().Uint64Var(&svgFrame, "snapshot", 0, "frame for --svg (default last)")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml burst scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one burst parameter",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "gravity", fmt.Sprintf("parameter %v", burst.ParamNames))
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.005, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.03, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 6, "number of values")
	sweepCmd.Flags().IntVar(&frames, "frames", 300, "frames per run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a saved run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list burst presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCOLOR\tPOWER\tGRAVITY\tTHICKNESS")
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				fmt.Fprintf(w, "%s\t%s\t%.2f\t%.4f\t%.2f\n", name, p.Color, p.BurstPower, p.Gravity, p.Thickness)
			}
			return w.Flush()
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a config file with the current settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}
	configCmd.AddCommand(configInitCmd)

	chimeCmd := &cobra.Command{
		Use:   "chime",
		Short: "render the burst chime and show its envelope",
		Args:  cobra.NoArgs,
		RunE:  runChime,
	}
	chimeCmd.Flags().BoolVar(&playChime, "play", false, "also play it")

	rootCmd.AddCommand(guiCmd, tuiCmd, runCmd, listCmd, plotCmd, exportCmd, presetsCmd, configCmd, chimeCmd, scenarioCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig layers defaults, the config file, the preset and --seed.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg.Burst = p.Burst
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	return cfg, nil
}

func startChime(cfg *config.Config) *audio.Chime {
	if mute {
		return nil
	}
	chime := audio.NewChime(cfg.Seed)
	if err := chime.Start(); err != nil {
		log.Printf("audio: %v; continuing without sound", err)
		return nil
	}
	return chime
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	params, err := cfg.Params()
	if err != nil {
		return err
	}

	opts := gui.Options{Window: cfg.Window, Params: params, Seed: cfg.Seed}
	if chime := startChime(cfg); chime != nil {
		defer chime.Stop()
		opts.Chime = chime
	}
	return gui.Run(opts)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	params, err := cfg.Params()
	if err != nil {
		return err
	}

	opts := viz.Options{
		Params: params,
		Seed:   cfg.Seed,
		FPS:    cfg.Window.FPS,
		Title:  cfg.Window.Title,
		Theme:  theme,
	}
	if chime := startChime(cfg); chime != nil {
		defer chime.Stop()
		opts.Chime = chime
	}
	return viz.Run(opts)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	params, err := cfg.Params()
	if err != nil {
		return err
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	vp := scene.Viewport{Width: cfg.Window.Width, Height: cfg.Window.Height}
	if width > 0 {
		vp.Width = width
	}
	if height > 0 {
		vp.Height = height
	}

	schedule := make([]sim.ScheduledBurst, 0, len(bursts))
	for _, s := range bursts {
		b, err := parseBurst(s, vp)
		if err != nil {
			return err
		}
		schedule = append(schedule, b)
	}

	simCfg := sim.Config{
		Viewport: vp,
		Frames:   frames,
		Bursts:   schedule,
		Seed:     cfg.Seed,
		Params:   params,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if runs > 1 {
		return runEnsemble(ctx, simCfg)
	}

	fmt.Printf("running %d frames, %d bursts...\n", frames, len(schedule))
	start := time.Now()
	simulator := sim.New(nil)
	var snap *export.Snapshot
	if svgPath != "" {
		snap = export.NewSnapshot(svgFrame)
		simulator.AddObserver(snap)
	}
	result, err := simulator.Run(ctx, simCfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("seed: %d\n", result.Seed)
	fmt.Printf("bursts: %d fired, %d dropped\n", result.Fired, result.Dropped)
	fmt.Printf("live at end: %d\n\n", result.FinalLive)

	if series := result.LiveSeries(); len(series) > 1 {
		fmt.Println(asciigraph.Plot(series,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("live coins per frame"),
		))
		fmt.Println()
	}
	printMetrics(result.Metrics)

	if snap != nil {
		if err := snap.WriteSVG(svgPath, 1); err != nil {
			return err
		}
		fmt.Printf("\nframe %d (%d coins) written to %s\n", snap.Captured(), snap.Coins(), svgPath)
	}

	if save {
		st := trace.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(&trace.Run{
			Preset:  preset,
			Seed:    result.Seed,
			Width:   vp.Width,
			Height:  vp.Height,
			Bursts:  result.Fired,
			Params:  params,
			Samples: result.Samples,
			Metrics: result.Metrics,
		})
		if err != nil {
			return err
		}
		fmt.Printf("\nrun id: %s\n", runID)
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st := trace.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("scenario %s: %s\n", sc.Name, sc.Description)
	results, err := automation.RunScenario(ctx, sc, st)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tPRESET\tFIRED\tPEAK\tEND\tRUN")
	for i, r := range results {
		name := sc.Steps[i].Preset
		if name == "" {
			name = "-"
		}
		id := r.RunID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%.0f\t%d\t%s\n", i+1, name, r.Result.Fired, r.Result.Metrics["peak_live"], r.Result.FinalLive, id)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Preset:    preset,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
		Frames:    frames,
		Seed:      cfg.Seed,
		Viewport:  scene.Viewport{Width: cfg.Window.Width, Height: cfg.Window.Height},
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tPEAK\tFADING\tMAX_DROP\tEND\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%.0f\t%.0f\t%.3f\t%d\n", r.ParamValue, r.Metrics["peak_live"], r.Metrics["fading_frames"], r.Metrics["max_drop"], r.FinalLive)
	}
	return w.Flush()
}

func runEnsemble(ctx context.Context, cfg sim.Config) error {
	fmt.Printf("running %d seeds from %d...\n", runs, cfg.Seed)
	start := time.Now()
	results, err := sim.NewEnsemble(sim.New(nil), runs, cfg.Seed).Run(ctx, cfg)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\nmean over %d runs:\n", time.Since(start), len(results))
	printMetrics(sim.MeanMetrics(results))
	return nil
}

func printMetrics(metrics map[string]float64) {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("metrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.4f\n", name, metrics[name])
	}
}

// parseBurst reads "frame" (burst at the viewport centre) or "frame:x,y".
func parseBurst(s string, vp scene.Viewport) (sim.ScheduledBurst, error) {
	frameStr, point, hasPoint := strings.Cut(s, ":")
	frame, err := strconv.Atoi(strings.TrimSpace(frameStr))
	if err != nil {
		return sim.ScheduledBurst{}, fmt.Errorf("burst %q: bad frame: %w", s, err)
	}
	x, y := vp.Center()
	if hasPoint {
		xs, ys, ok := strings.Cut(point, ",")
		if !ok {
			return sim.ScheduledBurst{}, fmt.Errorf("burst %q: want frame:x,y", s)
		}
		if x, err = strconv.ParseFloat(strings.TrimSpace(xs), 64); err != nil {
			return sim.ScheduledBurst{}, fmt.Errorf("burst %q: bad x: %w", s, err)
		}
		if y, err = strconv.ParseFloat(strings.TrimSpace(ys), 64); err != nil {
			return sim.ScheduledBurst{}, fmt.Errorf("burst %q: bad y: %w", s, err)
		}
	}
	return sim.ScheduledBurst{Frame: frame, X: x, Y: y}, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := trace.New(dataDir)
	saved, err := st.List()
	if err != nil {
		return err
	}

	if len(saved) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLABEL\tPRESET\tTIME\tFRAMES\tBURSTS\tGRAVITY\tPEAK")

	for _, run := range saved {
		label, name := run.Label, run.Preset
		if label == "" {
			label = "-"
		}
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%.4f\t%.0f\n",
			run.ID,
			label,
			name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Bursts,
			run.Gravity,
			run.Metrics["peak_live"],
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := trace.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("frames: %d\n\n", len(samples))

	series := []struct {
		caption string
		value   func(trace.Sample) float64
	}{
		{"live coins", func(s trace.Sample) float64 { return float64(s.Live) }},
		{"mean opacity", func(s trace.Sample) float64 { return s.MeanOpacity }},
		{"mean height", func(s trace.Sample) float64 { return s.MeanHeight }},
	}
	for _, sr := range series {
		data := make([]float64, len(samples))
		for i, s := range samples {
			data[i] = sr.value(s)
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(sr.caption),
		))
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	data, err := trace.New(dataDir).Export(args[0])
	if err != nil {
		return err
	}
	if exportOut == "" {
		return data.WriteJSON(os.Stdout)
	}
	if err := trace.ExportJSON(exportOut, data); err != nil {
		return err
	}
	fmt.Printf("exported %d frames to %s\n", len(data.Samples), exportOut)
	return nil
}

func runChime(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	samples := audio.Render(cfg.Seed, 1.0)
	peak := audio.PeakFrequency(samples[:4096], audio.SampleRate)

	fmt.Printf("peak frequency: %.1f Hz\n\n", peak)
	fmt.Println(asciigraph.Plot(audio.Envelope(samples, audio.SampleRate/50),
		asciigraph.Height(8),
		asciigraph.Width(50),
		asciigraph.Caption("envelope (20 ms blocks)"),
	))

	if !playChime {
		return nil
	}
	chime := audio.NewChime(cfg.Seed)
	if err := chime.Start(); err != nil {
		return err
	}
	defer chime.Stop()
	chime.Play()
	time.Sleep(1500 * time.Millisecond)
	return nil
}
