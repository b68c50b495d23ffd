// Package experiment runs the mushroom automaton headless, either once or as
// a batch of independently seeded runs whose counts are averaged.
package experiment

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"mycelium-ca/internal/sims/mushroom"
	"mycelium-ca/internal/telemetry"
	pcore "mycelium-ca/pkg/core"
)

// Result is the outcome of one run.
type Result struct {
	Index     int
	Seed      int64
	Records   []telemetry.StepRecord
	Final     *mushroom.Grid
	DecayMean float64
	Err       error
}

// Counts returns the per-step mushroom counts of the run.
func (r Result) Counts() []float64 {
	rec := telemetry.Recorder{Records: r.Records}
	return rec.MushroomSeries()
}

// LogValue implements slog.LogValuer.
func (r Result) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("run", r.Index),
		slog.Int64("seed", r.Seed),
		slog.Float64("decay_mean", r.DecayMean),
	}
	if n := len(r.Records); n > 0 {
		attrs = append(attrs, slog.Any("final", r.Records[n-1]))
	}
	if r.Err != nil {
		attrs = append(attrs, slog.String("err", r.Err.Error()))
	}
	return slog.GroupValue(attrs...)
}

// Run executes steps updates of cfg with the given seed. Extra observers see
// every committed frame after the built-in recorders.
func Run(cfg mushroom.Config, seed int64, steps int, observers ...mushroom.Observer) Result {
	res := Result{Seed: seed}
	cfg.Seed = seed
	sim, err := mushroom.New(cfg)
	if err != nil {
		res.Err = err
		return res
	}
	rec := &telemetry.Recorder{}
	decay := &telemetry.DecayTracker{}
	all := append([]mushroom.Observer{rec, decay}, observers...)
	res.Err = sim.Engine().Run(steps, all...)
	res.Records = rec.Records
	res.Final = sim.Engine().CurrentGrid()
	res.DecayMean = decay.Mean()
	return res
}

// SweepOptions configures a batch of runs.
type SweepOptions struct {
	Runs    int
	Steps   int
	Workers int
	// Seed derives the per-run seeds, so a sweep is reproducible as a whole.
	Seed int64
}

// Seeds derives one run seed per run from the sweep seed.
func (o SweepOptions) Seeds() []int64 {
	rng := pcore.NewRNG(o.Seed)
	seeds := make([]int64, o.Runs)
	for i := range seeds {
		seeds[i] = rng.Int64()
	}
	return seeds
}

// PoolSize is the number of workers Sweep starts: Workers, defaulting to the
// CPU count, and never more than Runs.
func (o SweepOptions) PoolSize() int {
	workers := o.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return max(1, min(workers, o.Runs))
}

// Sweep runs cfg Runs times on a worker pool and returns the results in run
// order. The engine of each run is kept single-threaded; parallelism comes
// from running whole simulations side by side.
func Sweep(cfg mushroom.Config, opts SweepOptions) ([]Result, error) {
	if opts.Runs <= 0 {
		return nil, fmt.Errorf("runs must be positive, got %d", opts.Runs)
	}
	workers := opts.PoolSize()
	cfg.Workers = 1

	type job struct {
		index int
		seed  int64
	}
	jobs := make(chan job)
	results := make(chan Result)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				res := Run(cfg, j.seed, opts.Steps)
				res.Index = j.index
				results <- res
			}
		}()
	}

	go func() {
		for i, seed := range opts.Seeds() {
			jobs <- job{index: i, seed: seed}
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]Result, opts.Runs)
	for res := range results {
		out[res.Index] = res
	}
	for _, res := range out {
		if res.Err != nil {
			return out, fmt.Errorf("run %d (seed %d): %w", res.Index, res.Seed, res.Err)
		}
	}
	return out, nil
}

// Summarize aggregates the per-step mushroom counts of results.
func Summarize(results []Result) ([]telemetry.SummaryRow, error) {
	runs := make([][]float64, len(results))
	for i, r := range results {
		runs[i] = r.Counts()
	}
	return telemetry.Aggregate(runs)
}
