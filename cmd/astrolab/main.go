package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/pglowack/astrolab/internal/config"
	"github.com/pglowack/astrolab/internal/engine"
	"github.com/pglowack/astrolab/internal/metrics"
	"github.com/pglowack/astrolab/internal/scenario"
	"github.com/pglowack/astrolab/internal/sim"
	"github.com/pglowack/astrolab/internal/storage"
	"github.com/pglowack/astrolab/internal/tui"
)

var (
	dataDir    string
	configFile string
	preset     string
	dt         float64
	duration   float64
	speed      float64
	gravity    float64
	seed       int64
	numBodies  int
	workers    int
	// Plot axes
	plotBody   uint64
	plotColumn string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "astrolab",
		Short: "interactive gravitational n-body lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to the live view of the solar scenario
			return runLive(cmd, []string{"solar"})
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".astrolab", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a headless simulation and record it",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	addScenarioFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "run a scenario with live interactive visualization",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list scenarios and their presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range scenario.Names() {
				fmt.Println(name)
				for _, p := range config.ListPresets(name) {
					fmt.Printf("  %s\n", p)
				}
			}
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a body track from a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().Uint64Var(&plotBody, "body", 1, "body id to plot")
	plotCmd.Flags().StringVar(&plotColumn, "column", "x", "column to plot (x, y, vx, vy, mass, radius)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [scenario]",
		Short: "benchmark the solver on a scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  benchScenario,
	}
	benchCmd.Flags().IntVar(&numBodies, "bodies", config.DefaultBodies, "number of bodies (cluster, collapse)")
	benchCmd.Flags().IntVar(&workers, "workers", 0, "solver worker count (0 = GOMAXPROCS)")

	rootCmd.AddCommand(runCmd, liveCmd, scenariosCmd, listCmd, plotCmd, exportCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Float64Var(&speed, "speed", config.DefaultSpeed, "speed multiplier")
	cmd.Flags().Float64Var(&gravity, "g", config.DefaultG, "gravitational constant")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().IntVar(&numBodies, "bodies", config.DefaultBodies, "number of bodies (cluster, collapse)")
	cmd.Flags().IntVar(&workers, "workers", 0, "solver worker count (0 = GOMAXPROCS)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// resolveConfig layers preset, config file, and CLI flags, with flags
// winning over the file and the file winning over the preset.
func resolveConfig(cmd *cobra.Command, scenarioName string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(scenarioName, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(scenarioName))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	cfg.Scenario = scenarioName
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("speed") {
		cfg.Speed = speed
	}
	if cmd.Flags().Changed("g") {
		cfg.G = gravity
	}
	if cmd.Flags().Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("bodies") {
		cfg.Bodies = numBodies
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}

	return cfg, nil
}

func buildEngine(cfg *config.Config) (*engine.Engine, error) {
	params, err := cfg.EngineParams()
	if err != nil {
		return nil, err
	}

	bodies, err := scenario.Build(cfg)
	if err != nil {
		return nil, err
	}

	return engine.New(params, bodies)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	runner := sim.New(eng)
	runner.AddMetric(metrics.NewTotalEnergy())
	runner.AddMetric(metrics.NewMomentumDrift())
	runner.AddMetric(metrics.NewBodyCount())

	fmt.Printf("running %s scenario...\n", cfg.Scenario)
	start := time.Now()

	result, err := runner.Run(context.Background(), sim.Config{Dt: cfg.Dt, Duration: cfg.Duration})
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.SaveRun(cfg.Scenario, cfg.Dt, cfg.Duration, cfg.Speed, cfg.G, cfg.Seed, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	return tui.Run(eng, st, cfg)
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
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDURATION\tDT\tSPEED\tSEED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%.1fx\t%d\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Speed,
			run.Seed,
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

	times, values, err := st.LoadSeries(runID, plotBody, plotColumn)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return fmt.Errorf("no data for body %d", plotBody)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(values))

	graph := asciigraph.Plot(values,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s of body %d vs time", plotColumn, plotBody)),
	)
	fmt.Println(graph)

	_ = times

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func benchScenario(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}

	durations := []float64{1.0, 5.0, 10.0}
	dts := []float64{0.001, 0.01, 0.1}

	fmt.Printf("benchmarking %s\n\n", cfg.Scenario)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tDT\tSTEPS\tBODIES\tTIME\tSTEPS/SEC")

	for _, dur := range durations {
		for _, step := range dts {
			eng, err := buildEngine(cfg)
			if err != nil {
				return err
			}

			runner := sim.New(eng)

			start := time.Now()
			result, err := runner.Run(context.Background(), sim.Config{Dt: step, Duration: dur})
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			stepsPerSec := float64(result.StepsTaken) / elapsed.Seconds()

			fmt.Fprintf(w, "%.1fs\t%.4fs\t%d\t%s\t%v\t%.0f\n",
				dur, step, result.StepsTaken,
				strconv.Itoa(eng.BodyCount()),
				elapsed, stepsPerSec)
		}
	}

	return w.Flush()
}
