package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"mycelium-ca/internal/app"
	"mycelium-ca/internal/experiment"
	"mycelium-ca/internal/sims/mushroom"
	"mycelium-ca/internal/telemetry"
)

type options struct {
	configPath string
	steps      int
	seed       int64
	outputDir  string
	logStats   bool
	printGrid  bool
	overrides  app.KVList
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "path to a YAML config (empty = defaults)")
	flag.IntVar(&opts.steps, "steps", 0, "steps to run (0 = use config)")
	flag.Int64Var(&opts.seed, "seed", 0, "run seed (0 = use config)")
	flag.StringVar(&opts.outputDir, "output-dir", "", "directory for steps.csv, config.yaml and mushrooms.png")
	flag.BoolVar(&opts.logStats, "log-stats", false, "log every step")
	flag.BoolVar(&opts.printGrid, "print", false, "print the final grid")
	flag.Var(&opts.overrides, "set", "parameter override in key=value form (repeatable)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(opts); err != nil {
		slog.Error("run failed", "error", err)
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

	slog.Info("starting run", "rows", cfg.Rows, "cols", cfg.Cols, "seed", cfg.Seed, "steps", cfg.Steps)

	var observers []mushroom.Observer
	if out != nil {
		observers = append(observers, out)
	}
	if opts.logStats {
		observers = append(observers, mushroom.ObserverFunc(func(f mushroom.Frame) error {
			slog.Info("step", "stats", telemetry.RecordFromMetrics(f.Metrics))
			return nil
		}))
	}

	res := experiment.Run(cfg, cfg.Seed, cfg.Steps, observers...)
	if res.Err != nil {
		return res.Err
	}
	slog.Info("run complete", "result", res)

	if len(res.Records) >= 2 {
		plot := telemetry.PlotOptions{Title: fmt.Sprintf("Mushrooms per step (seed %d)", cfg.Seed)}
		if err := out.WritePlot(res.Counts(), plot); err != nil {
			return fmt.Errorf("writing plot: %w", err)
		}
	}
	if opts.printGrid {
		fmt.Println(res.Final)
	}
	return nil
}
