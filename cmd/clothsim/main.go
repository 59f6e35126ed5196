package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/clothsim/internal/analysis"
	"github.com/san-kum/clothsim/internal/automation"
	"github.com/san-kum/clothsim/internal/config"
	"github.com/san-kum/clothsim/internal/export"
	"github.com/san-kum/clothsim/internal/gui"
	"github.com/san-kum/clothsim/internal/optim"
	"github.com/san-kum/clothsim/internal/render"
	"github.com/san-kum/clothsim/internal/sim"
	"github.com/san-kum/clothsim/internal/storage"
	"github.com/san-kum/clothsim/internal/tui"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	seed       int64
	theme      string
	frameRate  int
	logFile    string
	// gui
	scale int
	// run
	builtin  string
	frames   int
	dt       float64
	ensemble int
	plot     bool
	svgFile  string
	save     bool
	// sweep
	sweepParams  []string
	sweepBuiltin string
	metric       string
	// config
	configOut string
	// plot
	plotSVG string
	// snapshot
	snapFrames int
	snapScale  int
	outFile    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clothsim",
		Short: "mass-spring cloth in the terminal",
		RunE:  runLive,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".clothsim", "data directory for saved runs")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", config.DefaultSeed, "layout and gust seed")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", config.DefaultTheme, "color theme")
	addLiveFlags(rootCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive cloth in the terminal (mouse or space to grab)",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addLiveFlags(liveCmd)

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "interactive cloth in a window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	guiCmd.Flags().IntVar(&scale, "scale", gui.DefaultScale, "cell width in pixels")

	runCmd := &cobra.Command{
		Use:   "run [scenario.yaml]",
		Short: "run a scripted scenario headless",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().StringVar(&builtin, "builtin", "settle", "builtin scenario ("+strings.Join(automation.BuiltinNames(), ", ")+")")
	runCmd.Flags().IntVar(&frames, "frames", 0, "override the scenario frame count")
	runCmd.Flags().Float64Var(&dt, "dt", 0, "override the scenario timestep")
	runCmd.Flags().IntVar(&ensemble, "ensemble", 1, "number of runs with consecutive seeds")
	runCmd.Flags().BoolVar(&plot, "plot", false, "plot stress and energy")
	runCmd.Flags().StringVar(&svgFile, "svg", "", "write the last frame as SVG")
	runCmd.Flags().BoolVar(&save, "save", false, "save reports to the data directory")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "simulate a few frames and print the cloth as SVG",
		Args:  cobra.NoArgs,
		RunE:  runSnapshot,
	}
	snapshotCmd.Flags().IntVar(&snapFrames, "frames", 120, "frames to simulate first")
	snapshotCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")
	snapshotCmd.Flags().IntVar(&snapScale, "scale", 8, "cell width in SVG units")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tGRID\tSTIFFNESS\tDAMPING\tWIND\tGUST")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%dx%d\t%.1f\t%.2f\t%.1f\t%.1f\n", name,
					p.Cloth.Width, p.Cloth.Height, p.Cloth.Stiffness, p.Cloth.Damping,
					p.Physics.WindAmplitude, p.Physics.GustAmplitude)
			}
			return w.Flush()
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration as yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if configOut != "" {
				return config.Save(configOut, cfg)
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}

	configCmd.Flags().StringVarP(&configOut, "output", "o", "", "write to this file instead of stdout")

	runsCmd := &cobra.Command{
		Use:   "runs",
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
	plotCmd.Flags().StringVar(&plotSVG, "svg", "", "also write the mean stress series as SVG")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search cloth parameters over a builtin scenario",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepBuiltin, "builtin", "drag", "builtin scenario")
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", []string{"stiffness=200,437.243,600", "damping=2,4.97,8"}, "name=v1,v2,... (repeatable)")
	sweepCmd.Flags().StringVar(&metric, "metric", "peak_stress", "metric to minimize")

	rootCmd.AddCommand(liveCmd, guiCmd, runCmd, snapshotCmd, presetsCmd, configCmd, runsCmd, plotCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addLiveFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	cmd.Flags().StringVar(&logFile, "log", "", "write diagnostics to this file")
}

// loadConfig applies, in order: defaults, preset, config file, then flags
// given on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("theme") {
		cfg.Render.Theme = theme
	}
	if flags.Changed("fps") {
		cfg.Render.FPS = frameRate
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return tui.Run(tui.Options{
		Params: cfg.Params(),
		FPS:    cfg.Render.FPS,
		Theme:  cfg.Render.Theme,
	}, logFile)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return gui.Run(gui.Options{
		Params: cfg.Params(),
		Theme:  cfg.Render.Theme,
		Scale:  scale,
	})
}

func loadScenario(args []string) (*automation.Scenario, error) {
	var (
		sc  *automation.Scenario
		err error
	)
	if len(args) == 1 {
		sc, err = automation.LoadScenario(args[0])
	} else {
		sc, err = automation.Builtin(builtin)
	}
	if err != nil {
		return nil, err
	}

	if frames > 0 {
		sc.Frames = frames
	}
	if dt > 0 {
		sc.Dt = dt
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := loadScenario(args)
	if err != nil {
		return err
	}
	if ensemble < 1 {
		return fmt.Errorf("ensemble must be at least 1, got %d", ensemble)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s: %d frames at dt=%.4f, %d member(s)\n", sc.Name, sc.Frames, sc.Dt, ensemble)
	reports, runErr := automation.RunEnsemble(ctx, sc, cfg.Params(), ensemble)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tFRAMES\tHELD\tMEAN STRESS\tPEAK STRESS\tENERGY\tMAX STRAIN\tSTABILITY")
	for _, r := range reports {
		if r == nil {
			continue
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%.4f\t%.4f\t%.2f\t%.4f\t%.3f\n",
			r.Seed, r.Frames, r.HeldFrames,
			r.Metrics["mean_stress"], r.Metrics["peak_stress"], r.Metrics["energy"],
			r.Metrics["max_strain"], r.Metrics["stability"])
	}
	w.Flush()

	if len(reports) > 1 {
		fmt.Printf("\nensemble mean stress %.4f, stability %.3f\n",
			automation.Summary(reports, "mean_stress"), automation.Summary(reports, "stability"))
	}

	first := reports[0]
	if first != nil {
		fmt.Printf("dominant stress frequency %.3f Hz\n", analysis.DominantFrequency(first.MeanStress, sc.Dt))
	}
	if plot && first != nil && len(first.MeanStress) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(first.MeanStress, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("mean stress")))
		fmt.Println()
		fmt.Println(asciigraph.Plot(first.Energy, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("energy")))
	}

	if svgFile != "" && first != nil && len(first.LastFrame) > 0 {
		svg := export.FrameToSVG(first.LastFrame, sc.Screen.Width, sc.Screen.Height, 8, render.GetTheme(cfg.Render.Theme))
		if err := os.WriteFile(svgFile, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgFile)
	}

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		for _, r := range reports {
			if r == nil {
				continue
			}
			id, err := st.Save(sc, r, runErr)
			if err != nil {
				return err
			}
			fmt.Printf("saved %s\n", id)
		}
	}

	return runErr
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if snapFrames < 1 {
		return fmt.Errorf("frames must be at least 1, got %d", snapFrames)
	}

	w, h := automation.DefaultScreenWidth, automation.DefaultScreenHeight
	ctrl := sim.New(cfg.Params(), w, h)
	for i := 1; i < snapFrames; i++ {
		ctrl.Update(automation.DefaultDt, sim.Input{}, nil)
	}

	svg := export.NewSVG(w, h, float64(snapScale), render.GetTheme(cfg.Render.Theme))
	ctrl.Update(automation.DefaultDt, sim.Input{}, svg)

	if outFile == "" {
		_, err = svg.WriteTo(os.Stdout)
		return err
	}
	return os.WriteFile(outFile, []byte(svg.String()), 0644)
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no saved runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tSEED\tFRAMES\tPEAK STRESS\tSTATUS")
	for _, run := range runs {
		status := "ok"
		if run.Error != "" {
			status = run.Error
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.4f\t%s\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Seed,
			run.Frames,
			run.Metrics["peak_stress"],
			status,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if len(series.Times) < 2 {
		return fmt.Errorf("run %s has too few frames to plot", meta.ID)
	}

	fmt.Printf("%s (seed %d, %d frames, dominant %.3f Hz)\n\n", meta.Scenario, meta.Seed, meta.Frames,
		analysis.DominantFrequency(series.MeanStress, meta.Dt))
	fmt.Println(asciigraph.PlotMany([][]float64{series.MeanStress, series.PeakStress},
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red),
		asciigraph.Caption("mean (blue) and peak (red) stress")))

	if plotSVG != "" {
		accent := string(render.GetTheme(cfg.Render.Theme).Accent)
		if err := os.WriteFile(plotSVG, []byte(export.SeriesToSVG(series.MeanStress, 800, 200, accent)), 0644); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s\n", plotSVG)
	}
	return nil
}

func parseSweepParam(spec string) (string, []float64, error) {
	name, list, ok := strings.Cut(spec, "=")
	if !ok || list == "" {
		return "", nil, fmt.Errorf("bad --param %q, want name=v1,v2", spec)
	}
	var values []float64
	for _, field := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return "", nil, fmt.Errorf("bad --param %q: %w", spec, err)
		}
		values = append(values, v)
	}
	return name, values, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := automation.Builtin(sweepBuiltin)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(sweepParams))
	ranges := make([][]float64, 0, len(sweepParams))
	for _, spec := range sweepParams {
		name, values, err := parseSweepParam(spec)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	g, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	points, best, err := g.Search(ctx, sc, cfg.Params(), metric)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(names, "\t"))+"\t"+strings.ToUpper(metric))
	for i, p := range points {
		cols := make([]string, 0, len(names)+1)
		for _, name := range names {
			cols = append(cols, strconv.FormatFloat(p.Params[name], 'g', -1, 64))
		}
		switch {
		case p.Err != nil:
			cols = append(cols, "diverged")
		case i == best:
			cols = append(cols, fmt.Sprintf("%.4f *", p.Value))
		default:
			cols = append(cols, fmt.Sprintf("%.4f", p.Value))
		}
		fmt.Fprintln(w, strings.Join(cols, "\t"))
	}
	return w.Flush()
}
