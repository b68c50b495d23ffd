package mushroom

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"mycelium-ca/internal/core"
	pcore "mycelium-ca/pkg/core"
)

// parallelThreshold is the minimum cell count that is split across workers.
// Below this the goroutine overhead outweighs the per-cell work.
const parallelThreshold = 64 * 64

var errMissingPolicy = errors.New("engine has no boundary or spawn policy")

type scanOrder uint8

const (
	scanRowMajor scanOrder = iota
	scanReverse
	scanColumnMajor
)

// Metrics are the derived values recomputed after every committed step.
type Metrics struct {
	Step          int
	MushroomCount int
	// SporeChance is the global pSpore that the next step will use. It is
	// zero under the local density policy, which has no single value.
	SporeChance float64
	Census      Census
	// History holds the mushroom count after each step, oldest first. It is
	// only filled when history recording is enabled.
	History []int
}

func (m Metrics) clone() Metrics {
	m.History = append([]int(nil), m.History...)
	return m
}

// Frame is what observers receive after each committed step.
type Frame struct {
	Grid    *Grid
	Metrics Metrics
}

// Observer consumes committed frames. Observers never write back into the
// engine.
type Observer interface {
	Observe(f Frame) error
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(f Frame) error

// Observe calls fn(f).
func (fn ObserverFunc) Observe(f Frame) error { return fn(f) }

// Engine owns the growth grid and advances it one synchronous step at a time.
// Step and Reset are serialized; concurrent callers wait their turn.
type Engine struct {
	mu sync.Mutex

	ext     core.Extent
	seed    int64
	workers int
	history bool

	rule  Rule
	spawn SpawnPolicy

	grid    *Grid
	scratch *Grid
	clock   int
	metrics Metrics

	order       scanOrder
	parallelMin int
}

// NewEngine validates cfg and builds an engine for it. The engine has no
// grid until Reset is called.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	boundary, err := ParseBoundary(cfg.Params.Boundary)
	if err != nil {
		return nil, err
	}
	adjacency, err := ParseAdjacency(cfg.Params.SpreadNeighborhood)
	if err != nil {
		return nil, err
	}
	spawn, err := NewSpawnPolicy(cfg.Params.SporePolicy, cfg.Params.InitialSporeChance, boundary)
	if err != nil {
		return nil, err
	}
	workers := cfg.Workers
	if workers < 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers == 0 {
		workers = 1
	}
	return &Engine{
		ext:     core.Extent{Rows: cfg.Rows, Cols: cfg.Cols},
		seed:    cfg.Seed,
		workers: workers,
		history: cfg.RecordHistory,
		rule: Rule{
			PSporeToHyphae: cfg.Params.PSporeToHyphae,
			PMushroom:      cfg.Params.PMushroom,
			PSpread:        cfg.Params.PSpread,
			Spread:         NewSampler(boundary, adjacency),
			Spawn:          spawn,
		},
		spawn:       spawn,
		parallelMin: parallelThreshold,
	}, nil
}

// Extent returns the configured grid shape.
func (e *Engine) Extent() core.Extent { return e.ext }

// Reset replaces the grid with a copy of initial and rewinds the clock and
// metrics. The run seed is kept.
func (e *Engine) Reset(initial *Grid) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resetLocked(initial, e.seed)
}

// ResetWithSeed is Reset for a new run seed.
func (e *Engine) ResetWithSeed(initial *Grid, seed int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resetLocked(initial, seed)
}

func (e *Engine) resetLocked(initial *Grid, seed int64) error {
	if initial == nil {
		return configErrorf("grid", "initial grid is nil")
	}
	if initial.ext != e.ext {
		return &DimensionMismatchError{Want: e.ext, Got: initial.ext}
	}
	if idx := initial.firstInvalid(); idx >= 0 {
		r, c := e.ext.Coords(idx)
		return configErrorf("grid", "cell (%d,%d) holds invalid state %v", r, c, initial.cells[idx])
	}
	e.grid = initial.Clone()
	e.scratch = &Grid{ext: e.ext, cells: make([]CellState, e.ext.Len())}
	e.seed = seed
	e.clock = 0
	e.spawn.Reset()
	e.metrics = e.measure(nil)
	return nil
}

// Step advances the grid by one synchronous update. On failure the grid,
// clock, metrics and spawn policy are left exactly as they were.
func (e *Engine) Step() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stepLocked()
}

func (e *Engine) stepLocked() error {
	next := e.clock + 1
	if e.grid == nil {
		return stepFailure(next, ErrNotReset)
	}
	if e.spawn == nil || e.rule.Spawn == nil || e.rule.Spread.boundary == nil {
		return stepFailure(next, errMissingPolicy)
	}

	e.scratch.Fill(unset)
	if err := e.evaluate(next); err != nil {
		return err
	}
	if idx := e.scratch.firstInvalid(); idx >= 0 {
		r, c := e.ext.Coords(idx)
		return &StepFailure{Step: next, Row: r, Col: c, Err: ErrUnassignedCell}
	}

	e.grid, e.scratch = e.scratch, e.grid
	e.clock = next
	history := e.metrics.History
	e.metrics = e.measure(history)
	e.spawn.Observe(e.metrics.Census)
	if sp, ok := e.spawn.(ScalarPolicy); ok {
		e.metrics.SporeChance = sp.Scalar()
	}
	if e.history {
		e.metrics.History = append(e.metrics.History, e.metrics.MushroomCount)
	}
	return nil
}

func (e *Engine) measure(history []int) Metrics {
	census := e.grid.Census()
	m := Metrics{
		Step:          e.clock,
		MushroomCount: census.Of(Mushroom),
		Census:        census,
		History:       history,
	}
	if sp, ok := e.spawn.(ScalarPolicy); ok {
		m.SporeChance = sp.Scalar()
	}
	return m
}

// evaluate fills the scratch grid from the committed grid.
func (e *Engine) evaluate(step int) error {
	rows := e.ext.Rows
	if e.workers <= 1 || e.ext.Len() < e.parallelMin || rows < 2 {
		return e.evaluateRows(step, 0, rows)
	}

	var eg errgroup.Group
	workers := min(e.workers, rows)
	band := (rows + workers - 1) / workers
	for start := 0; start < rows; start += band {
		end := min(start+band, rows)
		eg.Go(func() error {
			return e.evaluateRows(step, start, end)
		})
	}
	return eg.Wait()
}

// evaluateRows computes next states for rows [r0, r1). Every cell draws from
// its own sub-stream, so the visiting order does not affect the result.
func (e *Engine) evaluateRows(step, r0, r1 int) error {
	cols := e.ext.Cols
	visit := func(r, c int) error {
		idx := e.ext.Index(r, c)
		draws := pcore.NewStream(e.seed, uint64(step), idx)
		s := e.rule.Next(e.grid, r, c, &draws)
		if !s.Valid() {
			return &StepFailure{Step: step, Row: r, Col: c,
				Err: fmt.Errorf("%w: state %v has no transition", ErrUnassignedCell, e.grid.At(r, c))}
		}
		e.scratch.cells[idx] = s
		return nil
	}

	switch e.order {
	case scanReverse:
		for r := r1 - 1; r >= r0; r-- {
			for c := cols - 1; c >= 0; c-- {
				if err := visit(r, c); err != nil {
					return err
				}
			}
		}
	case scanColumnMajor:
		for c := 0; c < cols; c++ {
			for r := r0; r < r1; r++ {
				if err := visit(r, c); err != nil {
					return err
				}
			}
		}
	default:
		for r := r0; r < r1; r++ {
			for c := 0; c < cols; c++ {
				if err := visit(r, c); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Run advances the engine steps times, handing every committed frame to the
// observers in order. It stops at the first step or observer error.
func (e *Engine) Run(steps int, observers ...Observer) error {
	for i := 0; i < steps; i++ {
		e.mu.Lock()
		err := e.stepLocked()
		var frame Frame
		if err == nil {
			frame = Frame{Grid: e.grid.Clone(), Metrics: e.metrics.clone()}
		}
		e.mu.Unlock()
		if err != nil {
			return err
		}
		for _, o := range observers {
			if err := o.Observe(frame); err != nil {
				return fmt.Errorf("observer at step %d: %w", frame.Metrics.Step, err)
			}
		}
	}
	return nil
}

// CurrentGrid returns a copy of the committed grid, or nil before Reset.
func (e *Engine) CurrentGrid() *Grid {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.grid == nil {
		return nil
	}
	return e.grid.Clone()
}

// Metrics returns a copy of the metrics for the committed grid.
func (e *Engine) Metrics() Metrics {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.metrics.clone()
}

// Clock returns the number of committed steps since the last Reset.
func (e *Engine) Clock() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clock
}

// Seed returns the seed of the current run.
func (e *Engine) Seed() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seed
}

// copyCells writes the committed states into dst as raw bytes for renderers.
func (e *Engine) copyCells(dst []uint8) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.grid == nil {
		return
	}
	for i, s := range e.grid.cells {
		if i < len(dst) {
			dst[i] = uint8(s)
		}
	}
}
