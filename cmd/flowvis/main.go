package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/flowvis/internal/advect"
	"github.com/san-kum/flowvis/internal/analysis"
	"github.com/san-kum/flowvis/internal/automation"
	"github.com/san-kum/flowvis/internal/config"
	"github.com/san-kum/flowvis/internal/export"
	"github.com/san-kum/flowvis/internal/field"
	"github.com/san-kum/flowvis/internal/gui"
	"github.com/san-kum/flowvis/internal/integrators"
	"github.com/san-kum/flowvis/internal/logging"
	"github.com/san-kum/flowvis/internal/metrics"
	"github.com/san-kum/flowvis/internal/raster"
	"github.com/san-kum/flowvis/internal/seed"
	"github.com/san-kum/flowvis/internal/storage"
	"github.com/san-kum/flowvis/internal/tui"
)

var (
	configFile string
	preset     string
	dataDir    string
	logLevel   string
	logFile    string
	logOut     *os.File
	fieldPath  string
	synthetic  bool
	seedName   string

	frames       int
	every        int
	width        int
	height       int
	scenarioFile string
	live         bool
	runName      string

	outPath    string
	probes     int
	steps      int
	lines      int
	sweepParam string
	sweepVals  string
	svgPath    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "flowvis",
		Short:         "flow-field texture advection viewer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return closeLogging()
		},
		RunE: runTUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "start from a preset configuration")
	pf.StringVar(&dataDir, "data", "", "run directory (overrides output.dir)")
	pf.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")
	pf.StringVar(&fieldPath, "field", "", "vector field file (overrides field.path)")
	pf.BoolVar(&synthetic, "synthetic", false, "use the built-in cylinder wake instead of a file")
	pf.StringVar(&seedName, "seed", "", "initial seed pattern")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive terminal viewer",
		RunE:  runTUI,
	}

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "interactive window",
		RunE:  runGUI,
	}

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "headless run that records frames and metrics",
		RunE:  runRender,
	}
	renderCmd.Flags().IntVar(&frames, "frames", 0, "frames to render (overrides output.frames)")
	renderCmd.Flags().IntVar(&every, "every", -1, "save a PNG every n frames, 0 for final only")
	renderCmd.Flags().IntVar(&width, "width", 0, "target width")
	renderCmd.Flags().IntVar(&height, "height", 0, "target height")
	renderCmd.Flags().StringVar(&scenarioFile, "scenario", "", "scripted controls (yaml)")
	renderCmd.Flags().BoolVar(&live, "live", false, "show frames in the terminal while rendering")
	renderCmd.Flags().StringVar(&runName, "name", "render", "run name")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "render once per value of one setting",
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "density", "density, step_size or reinject_alpha")
	sweepCmd.Flags().StringVar(&sweepVals, "values", "5,10,20,40", "comma separated values")
	sweepCmd.Flags().IntVar(&frames, "frames", 60, "frames per value")
	sweepCmd.Flags().IntVar(&width, "width", 320, "target width")
	sweepCmd.Flags().IntVar(&height, "height", 240, "target height")

	genCmd := &cobra.Command{
		Use:   "gen-field",
		Short: "write the synthetic cylinder wake as a raw field file",
		RunE:  genField,
	}
	genCmd.Flags().StringVar(&outPath, "out", "flow.raw", "output path")

	inspectCmd := &cobra.Command{
		Use:   "inspect",
		Short: "print field statistics",
		RunE:  inspectField,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "vortex shedding frequency along the wake centreline",
		RunE:  analyzeField,
	}
	analyzeCmd.Flags().IntVar(&probes, "probes", 8, "probe count")

	streamCmd := &cobra.Command{
		Use:   "streamlines [slice]",
		Short: "plot streamlines of one slice",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotStreamlines,
	}
	streamCmd.Flags().IntVar(&lines, "lines", 12, "seed points along the inflow")
	streamCmd.Flags().IntVar(&steps, "steps", 400, "integration steps per line")
	streamCmd.Flags().StringVar(&svgPath, "svg", "", "also write the lines as SVG")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "plot the metrics of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			return st.ExportJSON(args[0], os.Stdout)
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "print the effective configuration, or write it to path",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				return config.Save(args[0], cfg)
			}
			return yaml.NewEncoder(os.Stdout).Encode(cfg)
		},
	}

	rootCmd.AddCommand(tuiCmd, guiCmd, renderCmd, sweepCmd, genCmd, inspectCmd, analyzeCmd,
		streamCmd, listCmd, showCmd, exportCmd, presetsCmd, configCmd)

	err := rootCmd.Execute()
	if cerr := closeLogging(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// setupLogging installs a text handler. Interactive commands stay silent
// unless a log file is given, since stderr shares the terminal.
func setupLogging(cmd *cobra.Command) error {
	var out io.Writer = os.Stderr
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		logOut = f
		out = f
	} else if cmd.Name() == "flowvis" || cmd.Name() == "tui" {
		return nil
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: logging.ParseLevel(logLevel)})))
	return nil
}

// closeLogging closes the --log-file handle, if one was opened.
func closeLogging() error {
	if logOut == nil {
		return nil
	}
	logging.SetLogger(nil)
	err := logOut.Close()
	logOut = nil
	return err
}

// loadConfig layers defaults, the preset, the config file and flags.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		if err := config.Overlay(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if fieldPath != "" {
		cfg.Field.Path = fieldPath
	}
	if synthetic {
		cfg.Field.Synthetic = true
	}
	if seedName != "" {
		cfg.Advection.Seed = seedName
	}
	if dataDir != "" {
		cfg.Output.Dir = dataDir
	}
	return cfg, cfg.Validate()
}

// setup builds the field, the seed table and a pipeline on a fresh device.
func setup(cfg *config.Config) (*advect.Pipeline, *field.Field, error) {
	f, err := cfg.LoadField()
	if err != nil {
		return nil, nil, err
	}
	seeds, err := seed.Table(f, cfg.SeedOptions())
	if err != nil {
		return nil, nil, err
	}
	s, err := cfg.Settings()
	if err != nil {
		return nil, nil, err
	}
	p, err := advect.New(raster.NewDevice(), f, seeds, s)
	if err != nil {
		return nil, nil, err
	}
	p.View().SetMaxLength(cfg.View.MaxLength)
	p.View().SetOverlay(cfg.View.Overlay)
	return p, f, nil
}

func openStore() (*storage.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return storage.New(cfg.Output.Dir), nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p, _, err := setup(cfg)
	if err != nil {
		return err
	}
	defer p.Close()
	return tui.RunInteractive(p, cfg.Screen.FPS)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p, _, err := setup(cfg)
	if err != nil {
		return err
	}
	defer p.Close()
	return gui.Run(p, cfg.Screen.Width, cfg.Screen.Height, cfg.Screen.FPS)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if frames > 0 {
		cfg.Output.Frames = frames
	}
	if every >= 0 {
		cfg.Output.Every = every
	}
	if width > 0 {
		cfg.Screen.Width = width
	}
	if height > 0 {
		cfg.Screen.Height = height
	}

	sc := &automation.Scenario{Name: runName, Frames: cfg.Output.Frames, Width: cfg.Screen.Width, Height: cfg.Screen.Height}
	if scenarioFile != "" {
		if sc, err = automation.LoadScenario(scenarioFile); err != nil {
			return err
		}
	}

	p, _, err := setup(cfg)
	if err != nil {
		return err
	}
	defer p.Close()

	rec := metrics.NewRecorder(0)
	p.Observe(rec)

	st := storage.New(cfg.Output.Dir)
	if err := st.Init(); err != nil {
		return err
	}
	id, err := st.Create(sc.Name)
	if err != nil {
		return err
	}

	var images []string
	var renderer *tui.LiveRenderer
	if live {
		renderer = tui.NewLiveRenderer(os.Stdout, p, rec, 80, 20, cfg.Screen.FPS)
		renderer.Start()
		defer renderer.Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	last := sc.Frames - 1
	_, err = automation.RunScenario(ctx, sc, p, func(frame int, r advect.Report) error {
		if renderer != nil {
			if err := renderer.OnFrame(frame, r); err != nil {
				return err
			}
		}
		if frame == last || (cfg.Output.Every > 0 && frame%cfg.Output.Every == 0) {
			rel, err := st.SaveFrame(id, frame, p.Device(), p.Screen())
			if err != nil {
				return err
			}
			images = append(images, rel)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s := p.Settings()
	meta := storage.RunMetadata{
		ID:         id,
		Name:       sc.Name,
		FieldPath:  cfg.Field.Path,
		Spec:       cfg.Spec(),
		Integrator: s.Integrator,
		Seed:       p.Seeds()[s.Seed].Name,
		Density:    s.Density,
		StepSize:   s.StepSize,
		Reinject:   s.Reinject,
		Width:      sc.Width,
		Height:     sc.Height,
		Frames:     sc.Frames,
		Iterations: p.Iterations(),
		Images:     images,
		Metrics:    rec.Summary(),
	}
	if cfg.Field.Synthetic {
		meta.FieldPath = "synthetic"
	}
	if err := st.Finish(meta, rec.Rows()); err != nil {
		return err
	}

	fmt.Printf("run: %s\n", id)
	fmt.Printf("frames: %d  iterations: %d  images: %d\n", sc.Frames, p.Iterations(), len(images))
	fmt.Printf("saved to: %s\n", filepath.Join(cfg.Output.Dir, id))
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	var values []float64
	for _, s := range strings.Split(sweepVals, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("bad sweep value %q: %w", s, err)
		}
		values = append(values, v)
	}

	f, err := cfg.LoadField()
	if err != nil {
		return err
	}
	seeds, err := seed.Table(f, cfg.SeedOptions())
	if err != nil {
		return err
	}
	base, err := cfg.Settings()
	if err != nil {
		return err
	}
	dev := raster.NewDevice()
	build := func(s advect.Settings) (*advect.Pipeline, error) {
		return advect.New(dev, f, seeds, s)
	}

	sw := &automation.Sweep{Param: sweepParam, Values: values, Frames: frames, Width: width, Height: height}
	results, err := automation.RunSweep(cmd.Context(), sw, base, build)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tITER\tLUMA\tCOVER\tCHANGE\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		fmt.Fprintf(w, "%g\t%d\t%.4f\t%.4f\t%.4f\n", r.Value, r.Iterations, r.Luminance, r.Coverage, r.Change)
	}
	return w.Flush()
}

func genField(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	f := field.Synthesize(cfg.Spec(), field.DefaultSynthParams())
	if err := f.Save(outPath); err != nil {
		return err
	}
	spec := cfg.Spec()
	fmt.Printf("wrote %s: %dx%dx%d cells\n", outPath, spec.XCells, spec.YCells, spec.TCells)
	return nil
}

func inspectField(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	f, err := cfg.LoadField()
	if err != nil {
		return err
	}
	spec := f.Spec()
	s := f.Stats()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "grid\t%d x %d x %d\n", spec.XCells, spec.YCells, spec.TCells)
	fmt.Fprintf(w, "x\t[%g, %g]\tstep %.4f\n", spec.XStart, spec.XEnd, spec.XStep())
	fmt.Fprintf(w, "y\t[%g, %g]\tstep %.4f\n", spec.YStart, spec.YEnd, spec.YStep())
	fmt.Fprintf(w, "t\t[%g, %g]\tstep %.4f\n", spec.TStart, spec.TEnd, spec.TStep())
	fmt.Fprintf(w, "max |v|\t%.4f\n", s.MaxLength)
	fmt.Fprintf(w, "mean |v|\t%.4f\n", s.MeanLength)
	fmt.Fprintf(w, "critical cells\t%d (%.2f%%)\n", s.Critical, 100*float64(s.Critical)/float64(max(s.Cells, 1)))
	return w.Flush()
}

func analyzeField(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	f, err := cfg.LoadField()
	if err != nil {
		return err
	}
	spec := f.Spec()
	if probes < 1 {
		probes = 1
	}

	// Probes sit along the wake centreline, downstream of the origin.
	pts := make([]r2.Vec, probes)
	span := spec.XEnd - max(spec.XStart, 0)
	for i := range pts {
		pts[i] = r2.Vec{X: max(spec.XStart, 0) + span*float64(i+1)/float64(probes+1), Y: 0}
	}
	results, err := analysis.Sweep(cmd.Context(), f, pts)
	if err != nil {
		return err
	}

	series := analysis.ProbeSeries(f, pts[0].X, pts[0].Y, analysis.ComponentY)
	if _, amps, err := analysis.Spectrum(series, spec.TStep()); err == nil && len(amps) > 2 {
		fmt.Println(asciigraph.Plot(amps[1:], asciigraph.Height(12), asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("spectrum of v at x=%.2f", pts[0].X))))
		fmt.Println()
	}

	diameter := 2 * field.DefaultSynthParams().Radius
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "X\tY\tFREQ\tPERIOD\tAMPL\tSTROUHAL")
	for _, r := range results {
		period := 0.0
		if r.Frequency > 0 {
			period = 1 / r.Frequency
		}
		fmt.Fprintf(w, "%.3f\t%.3f\t%.4f\t%.3f\t%.4f\t%.4f\n", r.Position.X, r.Position.Y,
			r.Frequency, period, r.Amplitude, analysis.Strouhal(r.Frequency, diameter, field.DefaultSynthParams().Stream))
	}
	return w.Flush()
}

func plotStreamlines(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	f, err := cfg.LoadField()
	if err != nil {
		return err
	}
	t := 0
	if len(args) == 1 {
		if t, err = strconv.Atoi(args[0]); err != nil {
			return fmt.Errorf("bad slice %q: %w", args[0], err)
		}
	}
	stepper, err := integrators.New(cfg.Advection.Integrator)
	if err != nil {
		return err
	}

	spec := f.Spec()
	var out []analysis.Streamline
	for i := 0; i < lines; i++ {
		y := float64(spec.YCells-1) * (float64(i) + 0.5) / float64(lines)
		out = append(out, analysis.TraceStreamline(f, stepper, t, r2.Vec{X: 0, Y: y}, cfg.Advection.StepSize, steps))
	}
	fmt.Print(analysis.StreamlinesToASCII(out, spec, 100, 24))
	if svgPath != "" {
		svg := export.StreamlinesToSVG(out, spec, 1200, max(1200*spec.YCells/spec.XCells, 40))
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
	}
	total := 0.0
	for _, l := range out {
		total += l.Length()
	}
	fmt.Printf("slice %d  lines %d  mean length %.1f cells\n", t, len(out), total/float64(max(len(out), 1)))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSEED\tDENSITY\tSTEP\tFRAMES\tITER\tLUMA")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\t%d\t%d\t%.4f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Seed,
			run.Density,
			run.StepSize,
			run.Frames,
			run.Iterations,
			run.Metrics["luminance"],
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	rows, err := st.LoadRows(args[0])
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("run: %s  seed: %s  density: %d  step: %.2f\n\n", meta.ID, meta.Seed, meta.Density, meta.StepSize)
	for _, name := range []string{"luminance", "coverage", "change"} {
		data := make([]float64, len(rows))
		for i, r := range rows {
			switch name {
			case "luminance":
				data[i] = r.Luminance
			case "coverage":
				data[i] = r.Coverage
			case "change":
				data[i] = r.Change
			}
		}
		fmt.Println(asciigraph.Plot(data, asciigraph.Height(8), asciigraph.Width(80), asciigraph.Caption(name)))
		fmt.Println()
	}
	for _, img := range meta.Images {
		fmt.Printf("  %s\n", img)
	}
	return nil
}
