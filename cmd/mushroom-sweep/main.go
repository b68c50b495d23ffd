package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"text/tabwriter"

	"gonum.org/v1/gonum/stat"

	"mycelium-ca/internal/app"
	"mycelium-ca/internal/experiment"
	"mycelium-ca/internal/sims/mushroom"
	"mycelium-ca/internal/telemetry"
)

type options struct {
	configPath string
	runs       int
	steps      int
	workers    int
	seed       int64
	outputDir  string
	overrides  app.KVList
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "path to a YAML config (empty = defaults)")
	flag.IntVar(&opts.runs, "runs", 10, "number of independently seeded runs")
	flag.IntVar(&opts.steps, "steps", 0, "steps per run (0 = use config)")
	flag.IntVar(&opts.workers, "workers", runtime.NumCPU(), "number of worker goroutines")
	flag.Int64Var(&opts.seed, "seed", 0, "sweep seed the run seeds derive from (0 = use config)")
	flag.StringVar(&opts.outputDir, "output-dir", "", "directory for summary.csv, config.yaml and mushrooms.png")
	flag.Var(&opts.overrides, "set", "parameter override in key=value form (repeatable)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := run(opts); err != nil {
		slog.Error("sweep failed", "error", err)
		os.Exit(1)
	}
}

func run(opts options) (err error) {
	cfg := mushroom.DefaultConfig()
	if opts.configPath != "" {
		if cfg, err = mushroom.LoadConfig(opts.configPath); err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}
	if err := cfg.ApplyOverrides(opts.overrides.Map()); err != nil {
		return fmt.Errorf("applying overrides: %w", err)
	}
	if opts.seed != 0 {
		cfg.Seed = opts.seed
	}
	if opts.steps > 0 {
		cfg.Steps = opts.steps
	}

	sweep := experiment.SweepOptions{Runs: opts.runs, Steps: cfg.Steps, Workers: opts.workers, Seed: cfg.Seed}
	fmt.Printf("Sweeping %d runs (%d workers, %d steps, %dx%d grid)\n",
		sweep.Runs, sweep.PoolSize(), sweep.Steps, cfg.Rows, cfg.Cols)

	results, err := experiment.Sweep(cfg, sweep)
	if err != nil {
		return err
	}
	for _, r := range results {
		slog.Debug("run complete", "result", r)
	}

	summary, err := experiment.Summarize(results)
	if err != nil {
		return fmt.Errorf("aggregating runs: %w", err)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "step\tmean\tstddev\tmin\tmax\t")
	for _, row := range summary {
		fmt.Fprintf(tw, "%d\t%.2f\t%.2f\t%.0f\t%.0f\t\n", row.Step, row.Mean, row.StdDev, row.Min, row.Max)
	}
	tw.Flush()

	decay := make([]float64, 0, len(results))
	for _, r := range results {
		if r.DecayMean > 0 {
			decay = append(decay, r.DecayMean)
		}
	}
	if len(decay) > 0 {
		fmt.Printf("mean decay period: %.2f steps over %d runs\n", stat.Mean(decay, nil), len(decay))
	}

	out, err := telemetry.NewOutputManager(opts.outputDir)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing output: %w", cerr)
		}
	}()
	if err := out.WriteConfig(cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := out.WriteSummary(summary); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	if len(summary) >= 2 {
		spread := make([]float64, len(summary))
		for i, row := range summary {
			spread[i] = row.StdDev
		}
		plot := telemetry.PlotOptions{
			Title:  fmt.Sprintf("Mean mushrooms per step over %d runs", sweep.Runs),
			Spread: spread,
		}
		if err := out.WritePlot(telemetry.MeanSeries(summary), plot); err != nil {
			return fmt.Errorf("writing plot: %w", err)
		}
	}
	return nil
}
