package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/san-kum/orrery/internal/automation"
	"github.com/san-kum/orrery/internal/celestial"
	"github.com/san-kum/orrery/internal/config"
	"github.com/san-kum/orrery/internal/export"
	"github.com/san-kum/orrery/internal/focus"
	"github.com/san-kum/orrery/internal/logging"
	"github.com/san-kum/orrery/internal/orbit"
	"github.com/san-kum/orrery/internal/orrery"
	"github.com/san-kum/orrery/internal/server"
	"github.com/san-kum/orrery/internal/storage"
	"github.com/san-kum/orrery/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	logFile    string
	theme      string
	scenario   string
	every      int
	addr       string
	format     string
	outFile    string
	ticks      int
)

// main registers the orrery commands and runs the live view when no
// subcommand is given.
func main() {
	rootCmd := &cobra.Command{
		Use:          "orrery",
		Short:        "solar system orrery with an orbiting camera",
		SilenceUsage: true,
		RunE:         runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".orrery", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides config)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive terminal view",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&theme, "theme", viz.Themes[0].Name, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	liveCmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file while the view is open")

	bodiesCmd := &cobra.Command{
		Use:   "bodies",
		Short: "list the bodies and their orbits",
		RunE:  listBodies,
	}

	pathCmd := &cobra.Command{
		Use:   "path [body]",
		Short: "plot orbital radius against angle",
		Args:  cobra.ExactArgs(1),
		RunE:  plotPath,
	}

	recordCmd := &cobra.Command{
		Use:   "record [scenario]",
		Short: "run a scenario headless and store its frames",
		Args:  cobra.MaximumNArgs(1),
		RunE:  recordScenario,
	}
	recordCmd.Flags().StringVar(&scenario, "file", "", "scenario file (yaml) instead of a built-in")
	recordCmd.Flags().IntVar(&every, "every", 1, "record one frame every n ticks")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list recordings",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "plot camera distance over a recording",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a recording as metadata, full json or an svg plot",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&format, "format", "meta", "output format (meta, json, svg)")
	exportCmd.Flags().StringVar(&outFile, "out", "", "output file (default stdout)")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "render the scene after a number of ticks to svg",
		RunE:  snapshot,
	}
	snapshotCmd.Flags().IntVar(&ticks, "ticks", 0, "ticks to run before rendering")
	snapshotCmd.Flags().StringVar(&outFile, "out", "", "output file (default stdout)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream frames over websocket",
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list configuration presets and built-in scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			fmt.Println("scenarios:")
			for _, name := range automation.ListBuiltin() {
				s, err := automation.Builtin(name)
				if err != nil {
					return err
				}
				fmt.Printf("  %-10s %s\n", name, s.Description)
			}
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "configuration helpers",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the effective configuration to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
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

	rootCmd.AddCommand(liveCmd, bodiesCmd, pathCmd, recordCmd, runsCmd, showCmd, exportCmd, snapshotCmd, serveCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig applies the preset, then the config file, then ORRERY_*
// environment variables.
func loadConfig() (*config.Config, error) {
	base := config.DefaultConfig()
	if preset != "" {
		base = config.GetPreset(preset)
		if base == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	cfg, err := config.LoadFrom(base, configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}

func newEngine(cfg *config.Config, log zerolog.Logger) (*orrery.Engine, error) {
	return orrery.New(orrery.OptionsFromConfig(cfg, logging.Component(log, "engine")))
}

// newHeadlessEngine builds an engine whose flights and click guard follow
// simulated time, for runs that tick faster than the wall clock.
func newHeadlessEngine(cfg *config.Config, log zerolog.Logger) (*orrery.Engine, error) {
	opts := orrery.OptionsFromConfig(cfg, logging.Component(log, "engine"))
	opts.Focus.Clock = focus.NewSimClock(time.Unix(0, 0))
	return orrery.New(opts)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var out io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	log := logging.New(out, cfg.LogLevel)

	engine, err := newEngine(cfg, log)
	if err != nil {
		return err
	}

	m := viz.NewModel(engine, cfg.Dt, cfg.TickRate)
	m.SetTheme(theme)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func listBodies(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tPARENT\tRADIUS\tA\tE\tINC\tPERI\tAPO\tPERIOD")

	for _, b := range celestial.Catalog() {
		el := b.Elements
		parent := b.Parent
		if parent == "" {
			parent = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.1f\t%.3f\t%.1f°\t%.1f\t%.1f\t%s\n",
			b.ID,
			b.Kind,
			parent,
			b.Radius,
			el.SemiMajorAxis,
			el.Eccentricity,
			el.Inclination,
			orbit.Periapsis(el),
			orbit.Apoapsis(el),
			b.Info.Period,
		)
	}

	return w.Flush()
}

func findBody(id string) (celestial.Body, error) {
	for _, b := range celestial.Catalog() {
		if b.ID == id {
			return b, nil
		}
	}
	return celestial.Body{}, fmt.Errorf("unknown body: %s", id)
}

func plotPath(cmd *cobra.Command, args []string) error {
	b, err := findBody(args[0])
	if err != nil {
		return err
	}
	el := b.Elements
	if el.SemiMajorAxis == 0 {
		return fmt.Errorf("%s does not orbit anything", b.ID)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	n := cfg.PathSegments
	radii := make([]float64, n)
	for k := range radii {
		radii[k] = orbit.Radius(el, orbit.SampleAngle(k, n))
	}

	fmt.Printf("body: %s (%s)\n", b.Name, b.Kind)
	fmt.Printf("periapsis: %.3f\n", orbit.Periapsis(el))
	fmt.Printf("apoapsis: %.3f\n", orbit.Apoapsis(el))
	fmt.Printf("samples: %d\n\n", n)

	graph := asciigraph.Plot(radii,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("r(θ), θ from 0 to 2π"),
	)
	fmt.Println(graph)
	return nil
}

func recordScenario(cmd *cobra.Command, args []string) error {
	var (
		s   *automation.Scenario
		err error
	)
	switch {
	case scenario != "":
		s, err = automation.LoadScenario(scenario)
	case len(args) == 1:
		s, err = automation.Builtin(args[0])
	default:
		err = fmt.Errorf("need a scenario name (%s) or --file", strings.Join(automation.ListBuiltin(), ", "))
	}
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	log := logging.New(os.Stderr, cfg.LogLevel)

	engine, err := newHeadlessEngine(cfg, log)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	rec := storage.NewRecorder(engine.Snapshot, every)

	fmt.Printf("recording %s (%.1fs)...\n", s.Name, s.Duration)
	start := time.Now()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, runner, err := automation.RunScenario(ctx, engine, s, cfg.Dt, logging.Component(log, "automation"), rec)
	if err != nil {
		return err
	}

	meta := storage.Metadata{
		Scenario: s.Name,
		Seed:     cfg.Seed,
		Dt:       cfg.Dt,
		Duration: result.Time,
		Metrics:  result.Metrics,
	}
	meta.Metrics["actions"] = float64(runner.Applied())
	meta.Metrics["failed_actions"] = float64(runner.Failed())

	runID, err := st.Save(meta, rec.Frames())
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d\n", result.Ticks)
	fmt.Printf("frames: %d\n", len(rec.Frames()))
	fmt.Println("\nmetrics:")
	for name, val := range meta.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}
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
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDURATION\tDT\tFRAMES\tSEED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Frames,
			run.Seed,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("frames: %d\n\n", len(frames))

	distance := make([]float64, len(frames))
	focused := make(map[string]int)
	for i, f := range frames {
		distance[i] = f.Camera.Sub(f.Target).Len()
		if f.Focused != "" {
			focused[f.Focused]++
		}
	}

	graph := asciigraph.Plot(distance,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("camera distance to target"),
	)
	fmt.Println(graph)

	if len(focused) > 0 {
		fmt.Println("\nframes focused:")
		for id, n := range focused {
			fmt.Printf("  %s: %d\n", id, n)
		}
	}
	return nil
}

func output() (io.Writer, func() error, error) {
	if outFile == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	w, done, err := output()
	if err != nil {
		return err
	}
	defer done()

	switch format {
	case "meta":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	case "json", "svg":
		frames, err := st.LoadFrames(runID)
		if err != nil {
			return err
		}
		if format == "json" {
			return storage.ExportJSON(w, *meta, frames)
		}
		_, err = io.WriteString(w, export.TracksToSVG(export.TracksFromFrames(frames), 800, 800))
		return err
	}
	return fmt.Errorf("unknown format: %s", format)
}

func snapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	engine, err := newHeadlessEngine(cfg, logging.New(os.Stderr, cfg.LogLevel))
	if err != nil {
		return err
	}
	for i := 0; i < ticks; i++ {
		engine.Tick(cfg.Dt)
	}

	canvas := viz.NewCanvas(120, 40)
	engine.Camera().Aspect = float64(canvas.PixelWidth()) / float64(canvas.PixelHeight())
	viz.Render(canvas, engine)

	w, done, err := output()
	if err != nil {
		return err
	}
	defer done()

	_, err = io.WriteString(w, export.CanvasToSVG(canvas, 4))
	return err
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	log := logging.New(os.Stderr, cfg.LogLevel)

	engine, err := newEngine(cfg, log)
	if err != nil {
		return err
	}

	srv, err := server.New(engine, server.OptionsFromConfig(cfg, logging.Component(log, "server")))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.ListenAndServe(ctx)
}
