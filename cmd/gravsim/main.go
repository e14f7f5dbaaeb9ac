package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/export"
	"github.com/san-kum/gravsim/internal/forecast"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/tui"
	"github.com/san-kum/gravsim/internal/viz"
)

var (
	dataDir string
	verbose bool

	gConst      float64
	timestep    float64
	duration    float64
	speed       float64
	seed        int64
	sampleEvery int

	points      int
	stride      int
	maxDistance float64
	bodyID      uint64
	showPlot    bool

	withFrames bool
	outPath    string
	svgPath    string
	ensemble   int
	metricList []string

	perturbation float64
	sweep        bool
	sweepMin     float64
	sweepMax     float64
	sweepSteps   int
)

// main registers the gravsim commands and runs the root command. With no
// subcommand the interactive scene picker opens.
func main() {
	registry := experiment.NewRegistry()

	rootCmd := &cobra.Command{
		Use:           "gravsim",
		Short:         "n-body gravity sandbox",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.RunInteractive(registry)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log diagnostics to stderr")

	runCmd := &cobra.Command{
		Use:   "run [scene|file.yaml]",
		Short: "run a scene and store the result",
		Args:  cobra.ExactArgs(1),
		RunE:  func(cmd *cobra.Command, args []string) error { return runScene(cmd, registry, args[0]) },
	}
	sceneFlags(runCmd)
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "simulated duration")
	runCmd.Flags().IntVar(&sampleEvery, "sample", config.DefaultSampleEvery, "record a frame every n steps")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "generator seed")
	runCmd.Flags().IntVar(&ensemble, "ensemble", 0, "run n seeds in parallel and summarize instead of storing")
	runCmd.Flags().StringSliceVar(&metricList, "metrics", nil, "metrics to record ("+strings.Join(metrics.Names(), ", ")+")")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot body count, energy or a body's track",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().Uint64Var(&bodyID, "body", 0, "plot the coordinates of this body")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().BoolVar(&withFrames, "frames", false, "include recorded frames")
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "write to file instead of stdout")

	forecastCmd := &cobra.Command{
		Use:   "forecast [scene|file.yaml]",
		Short: "predict body paths and collisions",
		Args:  cobra.ExactArgs(1),
		RunE:  func(cmd *cobra.Command, args []string) error { return forecastScene(cmd, registry, args[0]) },
	}
	sceneFlags(forecastCmd)
	forecastFlags(forecastCmd)
	forecastCmd.Flags().Uint64Var(&bodyID, "body", 0, "forecast only this body")
	forecastCmd.Flags().BoolVar(&showPlot, "plot", true, "draw the forecast paths")
	forecastCmd.Flags().StringVar(&svgPath, "svg", "", "also write the scene and paths as SVG")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [scene|file.yaml]",
		Short: "orbital period, apsides and divergence of a body",
		Args:  cobra.ExactArgs(1),
		RunE:  func(cmd *cobra.Command, args []string) error { return analyzeScene(cmd, registry, args[0]) },
	}
	sceneFlags(analyzeCmd)
	forecastFlags(analyzeCmd)
	analyzeCmd.Flags().Uint64Var(&bodyID, "body", 0, "body to analyze (default: last body)")
	analyzeCmd.Flags().Float64Var(&perturbation, "perturb", 1e-6, "initial offset for the divergence estimate")
	analyzeCmd.Flags().BoolVar(&sweep, "sweep", false, "sweep launch speeds instead")
	analyzeCmd.Flags().Float64Var(&sweepMin, "sweep-min", 0.5, "lowest swept speed")
	analyzeCmd.Flags().Float64Var(&sweepMax, "sweep-max", 10, "highest swept speed")
	analyzeCmd.Flags().IntVar(&sweepSteps, "sweep-steps", 12, "number of swept speeds")

	benchCmd := &cobra.Command{
		Use:   "bench [scene|file.yaml]",
		Short: "benchmark stepping and forecasting",
		Args:  cobra.ExactArgs(1),
		RunE:  func(cmd *cobra.Command, args []string) error { return benchScene(cmd, registry, args[0]) },
	}
	sceneFlags(benchCmd)

	liveCmd := &cobra.Command{
		Use:   "live [scene|file.yaml]",
		Short: "run a scene in real time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadScene(cmd, registry, args[0])
			if err != nil {
				return err
			}
			return tui.RunLive(cfg)
		},
	}
	sceneFlags(liveCmd)
	forecastFlags(liveCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "list scenes, or print one as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				cfg, err := registry.GetScene(args[0])
				if err != nil {
					return err
				}
				return yaml.NewEncoder(os.Stdout).Encode(cfg)
			}
			for _, name := range registry.ListScenes() {
				fmt.Printf("  %s\n", name)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, forecastCmd, analyzeCmd, benchCmd, liveCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func setupLogging() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func sceneFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&gConst, "g", config.DefaultG, "gravitational constant")
	cmd.Flags().Float64Var(&timestep, "dt", config.DefaultTimestep, "fixed timestep")
	cmd.Flags().Float64Var(&speed, "speed", config.DefaultSimSpeed, "simulated seconds per real second")
}

func forecastFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&points, "points", config.DefaultPoints, "forecast points per body")
	cmd.Flags().IntVar(&stride, "stride", config.DefaultStride, "steps between forecast points")
	cmd.Flags().Float64Var(&maxDistance, "max-distance", config.DefaultMaxDistance, "stop a forecast this far from its start")
}

// loadScene resolves a scene name or YAML file and applies the flags the
// user actually set on top of it.
func loadScene(cmd *cobra.Command, registry *experiment.Registry, name string) (*config.Config, error) {
	cfg, err := registry.GetScene(name)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("g") {
		cfg.G = gConst
	}
	if flags.Changed("dt") {
		cfg.Timestep = timestep
	}
	if flags.Changed("speed") {
		cfg.SimSpeed = speed
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("sample") {
		cfg.SampleEvery = sampleEvery
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("points") {
		cfg.Forecast.Points = points
	}
	if flags.Changed("stride") {
		cfg.Forecast.Stride = stride
	}
	if flags.Changed("max-distance") {
		cfg.Forecast.MaxDistance = maxDistance
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// mergeLogger reports merges at debug level.
type mergeLogger struct{}

func (mergeLogger) OnStep(int, float64, *body.Registry) {}

func (mergeLogger) OnMerge(ev sim.MergeEvent) {
	slog.Debug("merge", "step", ev.Step, "time", ev.Time, "a", ev.A, "b", ev.B, "result", ev.Result, "mass", ev.Mass)
}

func runScene(cmd *cobra.Command, registry *experiment.Registry, name string) error {
	cfg, err := loadScene(cmd, registry, name)
	if err != nil {
		return err
	}
	if ensemble > 0 {
		return runEnsemble(cfg, registry)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}
	ms, err := selectMetrics(registry, cfg.G)
	if err != nil {
		return err
	}
	exp.Setup(ms)
	exp.Driver().AddObserver(mergeLogger{})

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s (%d bodies)...\n", cfg.Scene, exp.Bodies().Len())
	slog.Debug("run start", "scene", cfg.Scene, "g", cfg.G, "timestep", cfg.Timestep, "duration", cfg.Duration, "seed", cfg.Seed)
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	for _, e := range result.Errors {
		slog.Warn("run stopped early", "err", e)
	}

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}
	slog.Debug("run stored", "id", runID, "dir", dataDir)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("merges: %d\n", len(result.Merges))
	fmt.Printf("bodies left: %d\n", exp.Bodies().Len())
	fmt.Println("\nmetrics:")
	fmt.Print(viz.MetricsTable(result.Metrics))

	return nil
}

// selectMetrics builds the metrics named by --metrics, or the defaults.
func selectMetrics(registry *experiment.Registry, g float64) ([]sim.Metric, error) {
	if len(metricList) == 0 {
		return registry.DefaultMetrics(g), nil
	}
	out := make([]sim.Metric, 0, len(metricList))
	for _, name := range metricList {
		m, err := metrics.New(name, g)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func runEnsemble(cfg *config.Config, registry *experiment.Registry) error {
	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s x%d (seeds %d..%d)...\n", cfg.Scene, ensemble, cfg.Seed, cfg.Seed+int64(ensemble)-1)
	start := time.Now()
	runs, err := experiment.RunEnsemble(ctx, cfg, ensemble, registry.DefaultMetrics)
	if err != nil {
		return err
	}
	slog.Debug("ensemble done", "scene", cfg.Scene, "runs", len(runs), "elapsed", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tSTEPS\tMERGES\tBODIES\tBOUND\tENERGY_DRIFT")
	bound := 0
	for _, r := range runs {
		if r.Bound {
			bound++
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%t\t%.2e\n",
			r.Seed, r.Result.StepsTaken, len(r.Result.Merges), r.Bodies, r.Bound, r.Result.Metrics["energy_drift"])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	for _, name := range []string{"energy_drift", "momentum_drift", "body_count"} {
		mean, std := experiment.EnsembleStats(runs, name)
		fmt.Printf("%-16s mean %.4g  std %.4g\n", name, mean, std)
	}
	fmt.Printf("bound: %d/%d\n", bound, len(runs))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tDURATION\tDT\tBODIES\tMERGES\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\t%.2e\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Timestep,
			run.Bodies,
			len(run.Merges),
			run.EnergyDrift,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	fmt.Print(viz.RunSummary(meta))
	fmt.Println()

	if bodyID != 0 {
		times, track, err := st.LoadTrack(runID, bodyID)
		if err != nil {
			return err
		}
		if len(track) == 0 {
			return fmt.Errorf("body %d not recorded in %s", bodyID, runID)
		}

		xs, ys, zs := make([]float64, len(track)), make([]float64, len(track)), make([]float64, len(track))
		for i, p := range track {
			xs[i], ys[i], zs[i] = p[0], p[1], p[2]
		}
		caption := fmt.Sprintf("body %d x/y/z, t=%.2f..%.2f", bodyID, times[0], times[len(times)-1])
		fmt.Println(viz.PlotMany([][]float64{xs, ys, zs}, caption, 12, 80))
		fmt.Println()
		fmt.Println(analysis.OrbitToASCII([]analysis.Track{{Points: track}}, 60, 20))
		return nil
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	counts := make([]float64, len(frames))
	energy := make([]float64, len(frames))
	for i, f := range frames {
		counts[i] = float64(len(f.Bodies))
		energy[i] = physics.TotalEnergy(registryOf(f.Bodies), meta.G)
	}

	fmt.Println(viz.Plot(counts, "body count", 8, 80))
	fmt.Println()
	fmt.Println(viz.Plot(energy, "total energy", 10, 80))

	return nil
}

func registryOf(bodies []body.Body) *body.Registry {
	reg := body.NewRegistry()
	for _, b := range bodies {
		reg.Insert(b)
	}
	return reg
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	var frames []sim.Frame
	if withFrames {
		if frames, err = st.LoadFrames(runID); err != nil {
			return err
		}
	}

	if outPath != "" {
		return storage.ExportJSON(outPath, meta, frames)
	}
	return storage.WriteJSON(os.Stdout, meta, frames)
}

func forecastScene(cmd *cobra.Command, registry *experiment.Registry, name string) error {
	cfg, err := loadScene(cmd, registry, name)
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	reg := exp.Bodies()
	f := exp.Forecaster()

	start := time.Now()
	var trajs map[uint64]*forecast.Trajectory
	if bodyID != 0 {
		b, ok := reg.Get(bodyID)
		if !ok {
			return fmt.Errorf("body %d not in scene %s", bodyID, cfg.Scene)
		}
		traj, err := f.Forecast(ctx, *b, reg)
		if err != nil {
			return err
		}
		trajs = map[uint64]*forecast.Trajectory{bodyID: traj}
	} else {
		if trajs, err = f.ForecastAll(ctx, reg); err != nil {
			return err
		}
	}
	slog.Debug("forecast done", "scene", cfg.Scene, "bodies", len(trajs), "elapsed", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPOINTS\tPATH\tEND\tOUTCOME")

	tracks := make([]analysis.Track, 0, len(trajs))
	paths := make([]export.Path, 0, len(trajs))
	for _, id := range reg.IDs() {
		traj, ok := trajs[id]
		if !ok {
			continue
		}
		outcome := "bound"
		switch {
		case traj.Ended:
			outcome = "merges"
		case traj.Escaped:
			outcome = "escapes"
		}
		end := "-"
		if last, ok := traj.Last(); ok {
			end = fmt.Sprintf("(%.1f, %.1f, %.1f)", last[0], last[1], last[2])
		}
		fmt.Fprintf(w, "%d\t%d\t%.1f\t%s\t%s\n", id, traj.Len(), traj.Length(), end, outcome)
		tracks = append(tracks, analysis.Track{Points: traj.Points, Ended: traj.Ended})
		paths = append(paths, export.Path{ID: id, Points: traj.Points, Ended: traj.Ended})
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if svgPath != "" {
		if err := writeSVG(svgPath, reg.Bodies(), paths); err != nil {
			return err
		}
		slog.Debug("svg written", "path", svgPath)
	}

	if showPlot {
		fmt.Println()
		fmt.Print(analysis.OrbitToASCII(tracks, 70, 24))
	}
	return nil
}

func writeSVG(path string, bodies []body.Body, paths []export.Path) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.SceneSVG(out, bodies, paths, 800, 800); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func analyzeScene(cmd *cobra.Command, registry *experiment.Registry, name string) error {
	cfg, err := loadScene(cmd, registry, name)
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}

	reg := exp.Bodies()
	if reg.Len() == 0 {
		return fmt.Errorf("scene %s has no bodies", cfg.Scene)
	}

	id := bodyID
	if id == 0 {
		ids := reg.IDs()
		id = ids[len(ids)-1]
	}
	tracked, ok := reg.Get(id)
	if !ok {
		return fmt.Errorf("body %d not in scene %s", id, cfg.Scene)
	}
	center := primary(reg, id)

	ctx, cancel := signalContext()
	defer cancel()
	f := exp.Forecaster()

	if sweep {
		results, err := analysis.SpeedSweep(ctx, f, reg, *tracked, center, sweepMin, sweepMax, sweepSteps)
		if err != nil {
			return err
		}
		fmt.Printf("speed sweep for body %d around (%.1f, %.1f, %.1f)\n\n", id, center[0], center[1], center[2])
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SPEED\tPERI\tAPO\tECC\tOUTCOME")
		for _, r := range results {
			fmt.Fprintf(w, "%.3f\t%.2f\t%.2f\t%.3f\t%s\n", r.Speed, r.Peri, r.Apo, analysis.Eccentricity(r.Peri, r.Apo), r.Outcome)
		}
		return w.Flush()
	}

	traj, err := f.Forecast(ctx, *tracked, reg)
	if err != nil {
		return err
	}
	if traj.Len() == 0 {
		return fmt.Errorf("forecast for body %d is empty", id)
	}

	dt := f.SampleInterval()
	offsets := make([]float64, traj.Len())
	for i, p := range traj.Points {
		offsets[i] = p[0] - center[0]
	}
	ps := analysis.PowerSpectrum(offsets)

	fmt.Printf("orbit analysis: body %d in %s\n\n", id, cfg.Scene)
	if len(ps) > 1 {
		fmt.Println(viz.Plot(ps[:max(len(ps)/4, 2)], "power spectrum (x offset)", 12, 80))
		fmt.Println()
	}

	peri, apo := analysis.Apsides(traj.Points, center)
	fmt.Printf("samples: %d (every %.3fs)\n", traj.Len(), dt)
	fmt.Printf("periapsis: %.3f\n", peri)
	fmt.Printf("apoapsis: %.3f\n", apo)
	fmt.Printf("eccentricity: %.3f\n", analysis.Eccentricity(peri, apo))
	if period, ok := analysis.OrbitalPeriod(traj.Points, center, dt); ok {
		fmt.Printf("period: %.3f s\n", period)
	} else {
		fmt.Println("period: not found")
	}
	switch {
	case traj.Ended:
		fmt.Println("outcome: merges within the horizon")
	case traj.Escaped:
		fmt.Println("outcome: escapes")
	}

	lambda, err := analysis.Divergence(ctx, f, reg, id, perturbation)
	if err != nil {
		return err
	}
	fmt.Printf("divergence exponent: %.4f\n", lambda)
	return nil
}

// primary returns the position of the heaviest body other than id, or the
// origin when there is none.
func primary(reg *body.Registry, id uint64) mgl64.Vec3 {
	var center mgl64.Vec3
	heaviest := -1.0
	for b := range reg.All() {
		if b.ID != id && b.Mass > heaviest {
			heaviest = b.Mass
			center = b.Position
		}
	}
	return center
}

func benchScene(cmd *cobra.Command, registry *experiment.Registry, name string) error {
	cfg, err := loadScene(cmd, registry, name)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("benchmarking %s\n\n", cfg.Scene)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODE\tPOINTS\tSTRIDE\tSTEPS\tTIME\tSTEPS/SEC")

	for _, n := range []int{1000, 5000, 10000} {
		for _, s := range []int{1, 2} {
			exp, err := experiment.New(cfg.Clone())
			if err != nil {
				return err
			}
			f := forecast.New(exp.Engine(), n, s)

			start := time.Now()
			if _, err := f.ForecastAll(ctx, exp.Bodies()); err != nil {
				return err
			}
			elapsed := time.Since(start)

			steps := n * s
			fmt.Fprintf(w, "forecast\t%d\t%d\t%d\t%v\t%.0f\n", n, s, steps, elapsed, float64(steps)/elapsed.Seconds())
		}
	}

	for _, steps := range []int{1000, 10000} {
		exp, err := experiment.New(cfg.Clone())
		if err != nil {
			return err
		}

		start := time.Now()
		exp.Engine().Steps(exp.Bodies(), steps)
		elapsed := time.Since(start)

		fmt.Fprintf(w, "step\t-\t-\t%d\t%v\t%.0f\n", steps, elapsed, float64(steps)/elapsed.Seconds())
	}

	return w.Flush()
}
