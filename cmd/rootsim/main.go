package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/san-kum/rootsim/internal/config"
	"github.com/san-kum/rootsim/internal/experiment"
	"github.com/san-kum/rootsim/internal/export"
	"github.com/san-kum/rootsim/internal/expr"
	"github.com/san-kum/rootsim/internal/kepler"
	"github.com/san-kum/rootsim/internal/optim"
	"github.com/san-kum/rootsim/internal/report"
	"github.com/san-kum/rootsim/internal/rootfind"
	"github.com/san-kum/rootsim/internal/storage"
)

var (
	dataDir string
	verbose bool
	logger  = zap.NewNop()

	// Solver flags
	bisectAccuracy  float64
	newtonAccuracy  float64
	bracketAccuracy float64
	maxIter         int
	step            float64
	lowEnd          float64
	highEnd         float64
	x0              float64
	trace           bool
	// Bracket search
	searchStart  float64
	searchGrowth float64
	// Orbit flags
	configFile    string
	preset        string
	semiMajor     float64
	eccentricity  float64
	dt            float64
	steps         int
	solver        string
	start         string
	analytic      bool
	save          bool
	plot          bool
	orbitAccuracy float64
	orbitMaxIter  int
	// Sweep
	eccentricities string
	// Tune
	tuneMetric string
	// SVG export
	svgOut    string
	svgWidth  int
	svgHeight int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "rootsim",
		Short:         "root finding and kepler orbit propagation",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := zap.NewProductionConfig()
			cfg.Encoding = "console"
			cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
			if verbose {
				cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			l, err := cfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".rootsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	bisectCmd := &cobra.Command{
		Use:   "bisect [expr]",
		Short: "find a root of f(x) by bisection on [a, b]",
		Args:  cobra.ExactArgs(1),
		RunE:  runBisect,
	}
	bisectCmd.Flags().Float64Var(&lowEnd, "a", 0, "first bracket endpoint")
	bisectCmd.Flags().Float64Var(&highEnd, "b", 1, "second bracket endpoint")
	bisectCmd.Flags().Float64Var(&bisectAccuracy, "accuracy", rootfind.DefaultBisectAccuracy, "residual threshold")
	bisectCmd.Flags().IntVar(&maxIter, "max-iter", rootfind.DefaultMaxIterations, "iteration budget")
	bisectCmd.Flags().BoolVar(&trace, "trace", false, "print every iteration")

	newtonCmd := &cobra.Command{
		Use:   "newton [expr]",
		Short: "find a root of f(x) by newton-raphson from x0",
		Args:  cobra.ExactArgs(1),
		RunE:  runNewton,
	}
	newtonCmd.Flags().Float64Var(&x0, "x0", 0, "initial estimate")
	newtonCmd.Flags().Float64Var(&newtonAccuracy, "accuracy", rootfind.DefaultNewtonAccuracy, "residual threshold")
	newtonCmd.Flags().IntVar(&maxIter, "max-iter", rootfind.DefaultMaxIterations, "iteration budget")
	newtonCmd.Flags().Float64Var(&step, "step", rootfind.DefaultStep, "finite-difference step")
	newtonCmd.Flags().BoolVar(&trace, "trace", false, "print every iteration")

	bracketCmd := &cobra.Command{
		Use:   "bracket [expr]",
		Short: "search for a sign-changing bracket, then bisect it",
		Args:  cobra.ExactArgs(1),
		RunE:  runBracket,
	}
	bracketCmd.Flags().Float64Var(&searchStart, "start", rootfind.DefaultSearchStart, "initial half width")
	bracketCmd.Flags().Float64Var(&searchGrowth, "growth", rootfind.DefaultSearchGrowth, "half width increment")
	bracketCmd.Flags().Float64Var(&bracketAccuracy, "accuracy", rootfind.DefaultBisectAccuracy, "residual threshold")
	bracketCmd.Flags().IntVar(&maxIter, "max-iter", rootfind.DefaultMaxIterations, "iteration budget")

	orbitCmd := &cobra.Command{
		Use:   "orbit",
		Short: "propagate a kepler orbit",
		RunE:  runOrbit,
	}
	addOrbitFlags(orbitCmd)
	orbitCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	orbitCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	orbitCmd.Flags().Float64Var(&semiMajor, "a", config.DefaultSemiMajorAxis, "semi-major axis (au)")
	orbitCmd.Flags().Float64Var(&eccentricity, "e", config.DefaultEccentricity, "eccentricity")
	orbitCmd.Flags().BoolVar(&save, "save", true, "store the run")
	orbitCmd.Flags().BoolVar(&plot, "plot", false, "print x(t), y(t) previews")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "propagate several eccentricities concurrently",
		RunE:  runSweep,
	}
	addOrbitFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&semiMajor, "a", config.DefaultSemiMajorAxis, "semi-major axis (au)")
	sweepCmd.Flags().StringVar(&eccentricities, "e", "0,0.25,0.5,0.75,0.9", "comma separated eccentricities")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search solver, start strategy and derivative for an orbit",
		RunE:  runTune,
	}
	tuneCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	tuneCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	tuneCmd.Flags().Float64Var(&semiMajor, "a", config.DefaultSemiMajorAxis, "semi-major axis (au)")
	tuneCmd.Flags().Float64Var(&eccentricity, "e", config.DefaultEccentricity, "eccentricity")
	tuneCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "time step (years)")
	tuneCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of samples")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "mean_iterations", "metric to minimize")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(cmd.OutOrStdout(), args[0])
		},
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the orbit path as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 600, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 600, "image height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available orbit presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(out, "  %-10s a=%-6g e=%-6g steps=%-5d solver=%s\n",
					name, p.Orbit.SemiMajorAxis, p.Orbit.Eccentricity, p.Propagation.Steps, p.Solver.Method)
			}
			return nil
		},
	}

	rootCmd.AddCommand(bisectCmd, newtonCmd, bracketCmd, orbitCmd, sweepCmd, tuneCmd, listCmd, plotCmd, exportJSONCmd, exportSVGCmd, presetsCmd)
	return rootCmd
}

func addOrbitFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "time step (years)")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of samples")
	cmd.Flags().StringVar(&solver, "solver", kepler.SolverNewton, "newton or bisection")
	cmd.Flags().StringVar(&start, "start", kepler.StartMean, "initial guess: mean, warm or constant")
	cmd.Flags().Float64Var(&orbitAccuracy, "accuracy", config.DefaultAccuracy, "residual threshold")
	cmd.Flags().IntVar(&orbitMaxIter, "max-iter", config.DefaultMaxIterations, "iteration budget per sample")
	cmd.Flags().BoolVar(&analytic, "analytic", false, "use the analytic derivative 1 - e*cos(E)")
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func solverOptions(acc float64, iters *[]rootfind.Iteration) []rootfind.Option {
	opts := []rootfind.Option{
		rootfind.WithAccuracy(acc),
		rootfind.WithMaxIterations(maxIter),
		rootfind.WithLogger(logger),
	}
	if trace {
		opts = append(opts, rootfind.WithObserver(func(it rootfind.Iteration) error {
			*iters = append(*iters, it)
			return nil
		}))
	}
	return opts
}

func printResult(cmd *cobra.Command, res rootfind.Result, iters []rootfind.Iteration) {
	out := cmd.OutOrStdout()
	if len(iters) > 0 {
		report.Trace(out, iters)
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out, report.KV("root", strconv.FormatFloat(res.Root, 'g', 15, 64)))
	fmt.Fprintln(out, report.KV("residual", fmt.Sprintf("%.3e", res.Residual)))
	fmt.Fprintln(out, report.KV("iterations", res.Iterations))
	fmt.Fprintln(out, report.KV("status", report.Status(res.Converged)))
}

func runBisect(cmd *cobra.Command, args []string) error {
	f, err := expr.Compile(args[0])
	if err != nil {
		return err
	}

	var iters []rootfind.Iteration
	res, err := rootfind.BisectResult(f, lowEnd, highEnd, solverOptions(bisectAccuracy, &iters)...)
	if err != nil {
		return err
	}
	printResult(cmd, res, iters)
	return nil
}

func runNewton(cmd *cobra.Command, args []string) error {
	f, err := expr.Compile(args[0])
	if err != nil {
		return err
	}

	var iters []rootfind.Iteration
	opts := append(solverOptions(newtonAccuracy, &iters), rootfind.WithStep(step))
	res, err := rootfind.NewtonResult(f, x0, opts...)
	if err != nil {
		return err
	}
	printResult(cmd, res, iters)
	return nil
}

func runBracket(cmd *cobra.Command, args []string) error {
	f, err := expr.Compile(args[0])
	if err != nil {
		return err
	}

	br, err := rootfind.FindBracket(f, rootfind.WithStart(searchStart), rootfind.WithGrowth(searchGrowth))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, report.KV("bracket", fmt.Sprintf("[%g, %g]", br.Neg, br.Pos)))

	var iters []rootfind.Iteration
	res, err := rootfind.BisectResult(f, br.Pos, br.Neg, solverOptions(bracketAccuracy, &iters)...)
	if err != nil {
		return err
	}
	printResult(cmd, res, iters)
	return nil
}

// loadOrbitConfig resolves preset, then config file, then explicit flags.
func loadOrbitConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	fromFile := false

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		fromFile = true
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		fromFile = true
	}

	flags := cmd.Flags()
	override := func(name string) bool {
		f := flags.Lookup(name)
		return f != nil && (!fromFile || f.Changed)
	}

	if override("a") {
		cfg.Orbit.SemiMajorAxis = semiMajor
	}
	if override("e") {
		cfg.Orbit.Eccentricity = eccentricity
	}
	if override("dt") {
		cfg.Propagation.Dt = dt
	}
	if override("steps") {
		cfg.Propagation.Steps = steps
	}
	if override("start") {
		cfg.Propagation.Start = start
	}
	if override("solver") {
		cfg.Solver.Method = solver
	}
	if override("accuracy") {
		cfg.Solver.Accuracy = orbitAccuracy
	}
	if override("max-iter") {
		cfg.Solver.MaxIterations = orbitMaxIter
	}
	if override("analytic") {
		cfg.Solver.Analytic = analytic
	}
	if !fromFile {
		cfg.Name = "orbit"
	}

	return cfg, cfg.Validate()
}

func runOrbit(cmd *cobra.Command, args []string) error {
	cfg, err := loadOrbitConfig(cmd)
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg, logger)
	if err != nil {
		return err
	}
	if save {
		exp.WithStore(storage.New(dataDir))
	}

	ctx, cancel := signalContext()
	defer cancel()

	outcome, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	res := outcome.Result
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, report.Title.Render(fmt.Sprintf("orbit a=%g e=%g", cfg.Orbit.SemiMajorAxis, cfg.Orbit.Eccentricity)))
	if outcome.RunID != "" {
		fmt.Fprintln(out, report.KV("run id", outcome.RunID))
	}
	fmt.Fprintln(out, report.KV("completed in", outcome.Elapsed))
	fmt.Fprintln(out, report.KV("samples", len(res.Anomalies)))
	fmt.Fprintln(out, report.KV("total iterations", res.TotalIterations))
	fmt.Fprintln(out, report.KV("exhausted samples", res.Exhausted))
	fmt.Fprintln(out, report.Separator(52))
	for _, name := range []string{"mean_iterations", "max_residual", "r_min", "r_max", "areal_drift"} {
		fmt.Fprintln(out, report.KV("  "+name, fmt.Sprintf("%.6g", res.Metrics[name])))
	}

	iters := make([]float64, len(res.Iterations))
	for i, n := range res.Iterations {
		iters[i] = float64(n)
	}
	fmt.Fprintln(out, report.KV("iterations/sample", report.Sparkline(iters, 60)))

	if plot {
		xs := make([]float64, len(res.Positions))
		ys := make([]float64, len(res.Positions))
		for i, p := range res.Positions {
			xs[i], ys[i] = p.X, p.Y
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, report.PlotXY(xs, ys))
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	var orbits []kepler.Orbit
	for _, field := range strings.Split(eccentricities, ",") {
		e, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return fmt.Errorf("invalid eccentricity %q: %w", field, err)
		}
		orbits = append(orbits, kepler.Orbit{SemiMajorAxis: semiMajor, Eccentricity: e})
	}

	kcfg := kepler.Config{
		Dt:            dt,
		Steps:         steps,
		Solver:        solver,
		Start:         start,
		Accuracy:      orbitAccuracy,
		MaxIterations: orbitMaxIter,
		Analytic:      analytic,
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := kepler.Sweep(ctx, orbits, kcfg, kepler.WithLogger(logger))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n\n", report.Title.Render(fmt.Sprintf("sweep a=%g solver=%s start=%s", semiMajor, solver, start)))
	report.Sweep(out, orbits, results)
	return nil
}

func runTune(cmd *cobra.Command, args []string) error {
	base, err := loadOrbitConfig(cmd)
	if err != nil {
		return err
	}

	grid := optim.NewGridSearch(
		optim.Axis{Name: "solver", Values: []string{kepler.SolverNewton, kepler.SolverBisection}},
		optim.Axis{Name: "start", Values: []string{kepler.StartMean, kepler.StartWarm}},
		optim.Axis{Name: "analytic", Values: []string{"false", "true"}},
	)

	build := func(params map[string]string) (*experiment.Experiment, error) {
		cfg := *base
		cfg.Solver.Method = params["solver"]
		cfg.Propagation.Start = params["start"]
		cfg.Solver.Analytic = params["analytic"] == "true"
		return experiment.New(&cfg, logger)
	}

	ctx, cancel := signalContext()
	defer cancel()

	best, trials, err := grid.Search(ctx, build, tuneMetric)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n\n", report.Title.Render(fmt.Sprintf("tune a=%g e=%g", base.Orbit.SemiMajorAxis, base.Orbit.Eccentricity)))
	report.Trials(out, tuneMetric, trials)
	fmt.Fprintln(out)
	for _, name := range optim.Names(best.Params) {
		fmt.Fprintln(out, report.KV(name, best.Params[name]))
	}
	fmt.Fprintln(out, report.KV(tuneMetric, fmt.Sprintf("%.6g", best.Value)))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no runs found")
		return nil
	}
	report.Runs(cmd.OutOrStdout(), runs)
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
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

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, report.KV("run", meta.ID))
	fmt.Fprintln(out, report.KV("orbit", fmt.Sprintf("a=%g e=%g", meta.Orbit.SemiMajorAxis, meta.Orbit.Eccentricity)))
	fmt.Fprintf(out, "%s\n\n", report.KV("samples", len(samples)))

	xs, ys, anomalies, iters := report.Series(samples)
	fmt.Fprintln(out, report.PlotXY(xs, ys))
	fmt.Fprintln(out)
	fmt.Fprintln(out, report.Plot(anomalies, "eccentric anomaly E(t)"))
	fmt.Fprintln(out)
	fmt.Fprintln(out, report.Plot(iters, "solver iterations per sample"))
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	samples, err := storage.New(dataDir).LoadSamples(runID)
	if err != nil {
		return err
	}

	points := make([]kepler.Point, len(samples))
	for i, s := range samples {
		points[i] = kepler.Point{X: s.X, Y: s.Y}
	}

	svg := export.OrbitToSVG(points, svgWidth, svgHeight, "#00ff88")
	if svg == "" {
		return fmt.Errorf("not enough samples to draw run %s", runID)
	}

	path := svgOut
	if path == "" {
		path = runID + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	logger.Info("svg written", zap.String("path", path), zap.Int("points", len(points)))
	return nil
}
