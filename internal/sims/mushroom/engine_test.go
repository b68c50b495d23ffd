package mushroom

import (
	"errors"
	"slices"
	"sync"
	"testing"

	pcore "mycelium-ca/pkg/core"
)

func testConfig(rows, cols int) Config {
	cfg := DefaultConfig()
	cfg.Rows = rows
	cfg.Cols = cols
	return cfg
}

func mustEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	e, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func mustReset(t *testing.T, e *Engine, g *Grid) {
	t.Helper()
	if err := e.Reset(g); err != nil {
		t.Fatalf("Reset: %v", err)
	}
}

func mustStep(t *testing.T, e *Engine) {
	t.Helper()
	if err := e.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
}

func TestSinglePointFirstStep(t *testing.T) {
	cfg := testConfig(5, 5)
	cfg.Init.Kind = "single"
	cfg.Params.PSporeToHyphae = 1

	e := mustEngine(t, cfg)
	initial, err := cfg.Init.Generate(5, 5, pcore.NewRNG(cfg.Seed))
	if err != nil {
		t.Fatal(err)
	}
	mustReset(t, e, initial)
	mustStep(t, e)

	g := e.CurrentGrid()
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			want := Empty
			if r == 2 && c == 2 {
				want = Young
			}
			if got := g.At(r, c); got != want {
				t.Fatalf("cell (%d,%d) = %v, want %v\n%s", r, c, got, want, g)
			}
		}
	}
	if clock := e.Clock(); clock != 1 {
		t.Fatalf("clock = %d after one step", clock)
	}
}

func TestLifecycleFromSingleSpore(t *testing.T) {
	cfg := testConfig(3, 3)
	cfg.Params.PSporeToHyphae = 1
	cfg.Params.PMushroom = 1
	cfg.Params.PSpread = 0
	e := mustEngine(t, cfg)
	mustReset(t, e, mustParseGrid(t, `
...
.s.
...`))

	want := []CellState{Young, Maturing, Mushroom, Decaying, Dead1, Dead2, Empty}
	for i, w := range want {
		mustStep(t, e)
		g := e.CurrentGrid()
		if got := g.At(1, 1); got != w {
			t.Fatalf("step %d: center = %v, want %v", i+1, got, w)
		}
		// Spores may fall once the mushroom fruits, so only the first steps
		// are guaranteed to leave the neighbors alone.
		if i < 3 && g.Count(Empty) != 8 {
			t.Fatalf("step %d: neighbors changed without spread or spores\n%s", i+1, g)
		}
	}
}

func TestInertIsFixedPoint(t *testing.T) {
	cfg := testConfig(16, 16)
	cfg.Params.SporePolicy = "local"
	cfg.Params.Boundary = "periodic"
	cfg.Params.PSporeToHyphae = 0.7
	cfg.Params.PSpread = 0.9
	cfg.Init.Kind = "random"
	cfg.Init.ProbSpore = 0.4

	initial, err := cfg.Init.Generate(16, 16, pcore.NewRNG(5))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 16; i++ {
		initial.Set(i, 7, Inert)
		initial.Set(7, i, Inert)
	}
	e := mustEngine(t, cfg)
	mustReset(t, e, initial)
	for step := 0; step < 60; step++ {
		mustStep(t, e)
		g := e.CurrentGrid()
		for i := 0; i < 16; i++ {
			if g.At(i, 7) != Inert || g.At(7, i) != Inert {
				t.Fatalf("step %d: inert wall changed\n%s", step+1, g)
			}
		}
		if n := g.Count(Inert); n != 31 {
			t.Fatalf("step %d: inert count %d, want 31", step+1, n)
		}
	}
}

func TestGlobalCoverageTracksMushroomCount(t *testing.T) {
	cfg := testConfig(24, 24)
	cfg.Init.Kind = "random"
	cfg.Init.ProbSpore = 0.3
	cfg.Params.SporePolicy = "global"
	cfg.Params.Boundary = "periodic"

	s, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	e := s.Engine()
	if m := e.Metrics(); m.SporeChance != 0 {
		t.Fatalf("pSpore must start at 0, got %v", m.SporeChance)
	}
	sawMushrooms := false
	for step := 0; step < 40; step++ {
		mustStep(t, e)
		m := e.Metrics()
		g := e.CurrentGrid()
		count := g.Count(Mushroom)
		if m.MushroomCount != count {
			t.Fatalf("step %d: metrics report %d mushrooms, grid has %d", m.Step, m.MushroomCount, count)
		}
		want := float64(count) / float64(24*24)
		if m.SporeChance != want {
			t.Fatalf("step %d: pSpore = %v, want %v", m.Step, m.SporeChance, want)
		}
		if m.SporeChance < 0 || m.SporeChance > 1 {
			t.Fatalf("step %d: pSpore out of range: %v", m.Step, m.SporeChance)
		}
		if count > 0 {
			sawMushrooms = true
		}
	}
	if !sawMushrooms {
		t.Fatal("expected at least one mushroom to fruit")
	}
}

func TestOrderIndependence(t *testing.T) {
	for _, policy := range []string{"global", "local"} {
		t.Run(policy, func(t *testing.T) {
			cfg := testConfig(40, 40)
			cfg.Init.Kind = "random"
			cfg.Init.ProbSpore = 0.25
			cfg.Params.SporePolicy = policy
			cfg.Params.Boundary = "reflecting"

			initial, err := cfg.Init.Generate(40, 40, pcore.NewRNG(77))
			if err != nil {
				t.Fatal(err)
			}

			build := func(order scanOrder, workers int) *Engine {
				e := mustEngine(t, cfg)
				e.order = order
				e.workers = workers
				e.parallelMin = 0
				mustReset(t, e, initial)
				return e
			}
			engines := []*Engine{
				build(scanRowMajor, 1),
				build(scanReverse, 1),
				build(scanColumnMajor, 1),
				build(scanRowMajor, 4),
				build(scanReverse, 7),
			}
			for step := 1; step <= 25; step++ {
				for _, e := range engines {
					mustStep(t, e)
				}
				ref := engines[0].CurrentGrid()
				for i, e := range engines[1:] {
					if !ref.Equal(e.CurrentGrid()) {
						t.Fatalf("step %d: engine %d diverged from row-major evaluation", step, i+1)
					}
				}
			}
		})
	}
}

func TestSeedReproducibility(t *testing.T) {
	cfg := testConfig(20, 20)
	cfg.Init.Kind = "random"
	run := func(seed int64) []int {
		cfg.Seed = seed
		s, err := New(cfg)
		if err != nil {
			t.Fatal(err)
		}
		if err := s.Engine().Run(30); err != nil {
			t.Fatal(err)
		}
		return s.Metrics().History
	}
	a, b := run(3), run(3)
	if !slices.Equal(a, b) {
		t.Fatalf("same seed produced different histories: %v vs %v", a, b)
	}
	if len(a) != 30 {
		t.Fatalf("expected 30 history entries, got %d", len(a))
	}
}

func TestResetDimensionMismatch(t *testing.T) {
	e := mustEngine(t, testConfig(4, 4))
	g, err := NewGrid(4, 5)
	if err != nil {
		t.Fatal(err)
	}
	err = e.Reset(g)
	var mismatch *DimensionMismatchError
	if !errors.As(err, &mismatch) || !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected DimensionMismatchError, got %v", err)
	}
	if mismatch.Got.Cols != 5 || mismatch.Want.Cols != 4 {
		t.Fatalf("unexpected mismatch details: %+v", mismatch)
	}
	if err := e.Reset(nil); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected nil grid to be a config error, got %v", err)
	}
}

func TestStepBeforeReset(t *testing.T) {
	e := mustEngine(t, testConfig(4, 4))
	err := e.Step()
	if !errors.Is(err, ErrStep) || !errors.Is(err, ErrNotReset) {
		t.Fatalf("expected StepFailure wrapping ErrNotReset, got %v", err)
	}
	if e.Clock() != 0 {
		t.Fatal("failed step must not advance the clock")
	}
}

func TestFailedStepKeepsPreviousState(t *testing.T) {
	cfg := testConfig(4, 4)
	cfg.Params.PSporeToHyphae = 1
	e := mustEngine(t, cfg)
	mustReset(t, e, mustParseGrid(t, `
s...
.Y..
..M.
...I`))
	mustStep(t, e)

	before := e.CurrentGrid()
	metricsBefore := e.Metrics()

	// Corrupt the committed grid from inside the package to simulate an
	// internal fault.
	e.grid.cells[5] = CellState(77)
	corrupted := e.CurrentGrid()

	err := e.Step()
	var failure *StepFailure
	if !errors.As(err, &failure) {
		t.Fatalf("expected StepFailure, got %v", err)
	}
	if !errors.Is(err, ErrUnassignedCell) {
		t.Fatalf("expected unassigned cell cause, got %v", err)
	}
	if failure.Row != 1 || failure.Col != 1 || failure.Step != 2 {
		t.Fatalf("unexpected failure location %+v", failure)
	}
	if e.Clock() != 1 {
		t.Fatalf("clock advanced to %d on failure", e.Clock())
	}
	if !corrupted.Equal(e.CurrentGrid()) {
		t.Fatal("grid changed on failure")
	}
	after := e.Metrics()
	if after.MushroomCount != metricsBefore.MushroomCount || after.Step != metricsBefore.Step ||
		!slices.Equal(after.History, metricsBefore.History) {
		t.Fatalf("metrics changed on failure: %+v vs %+v", after, metricsBefore)
	}
	if before.At(1, 1) != Maturing {
		t.Fatalf("sanity: expected maturing hyphae at (1,1), got %v", before.At(1, 1))
	}
}

func TestParallelStepFailure(t *testing.T) {
	cfg := testConfig(32, 32)
	e := mustEngine(t, cfg)
	e.workers = 4
	e.parallelMin = 0
	g, _ := NewGrid(32, 32)
	mustReset(t, e, g)
	e.grid.cells[len(e.grid.cells)-1] = CellState(99)
	if err := e.Step(); !errors.Is(err, ErrStep) {
		t.Fatalf("expected parallel step to report failure, got %v", err)
	}
	if e.Clock() != 0 {
		t.Fatal("clock advanced on parallel failure")
	}
}

func TestResetRejectsInvalidCells(t *testing.T) {
	e := mustEngine(t, testConfig(2, 2))
	g, _ := NewGrid(2, 2)
	g.cells[3] = CellState(12)
	if err := e.Reset(g); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected config error for invalid initial state, got %v", err)
	}
}

func TestSnapshotsAreCopies(t *testing.T) {
	cfg := testConfig(3, 3)
	e := mustEngine(t, cfg)
	initial := mustParseGrid(t, `
...
.s.
...`)
	mustReset(t, e, initial)

	initial.Set(0, 0, Mushroom)
	g := e.CurrentGrid()
	if g.At(0, 0) != Empty {
		t.Fatal("engine must not alias the grid passed to Reset")
	}
	g.Set(1, 1, Inert)
	if e.CurrentGrid().At(1, 1) != Spore {
		t.Fatal("CurrentGrid must return a copy")
	}

	mustStep(t, e)
	m := e.Metrics()
	m.History = append(m.History[:0], 1234)
	if h := e.Metrics().History; len(h) != 1 || h[0] == 1234 {
		t.Fatalf("Metrics must return a copy of the history, got %v", h)
	}
}

func TestResetRewindsClockAndMetrics(t *testing.T) {
	cfg := testConfig(10, 10)
	cfg.Init.Kind = "random"
	s, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		if err := s.Step(); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Reset(0); err != nil {
		t.Fatal(err)
	}
	m := s.Metrics()
	if m.Step != 0 || len(m.History) != 0 || m.SporeChance != cfg.Params.InitialSporeChance {
		t.Fatalf("unexpected metrics after reset: %+v", m)
	}
	if s.Engine().Clock() != 0 {
		t.Fatal("clock not rewound")
	}
}

func TestConcurrentStepsAreSerialized(t *testing.T) {
	cfg := testConfig(12, 12)
	cfg.Init.Kind = "random"
	s, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	e := s.Engine()
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				if err := e.Step(); err != nil {
					t.Error(err)
					return
				}
				_ = e.Metrics()
				_ = e.CurrentGrid()
			}
		}()
	}
	wg.Wait()
	if got := e.Clock(); got != 100 {
		t.Fatalf("expected 100 committed steps, got %d", got)
	}
	if got := len(e.Metrics().History); got != 100 {
		t.Fatalf("expected 100 history entries, got %d", got)
	}
}

func TestRunNotifiesObservers(t *testing.T) {
	cfg := testConfig(6, 6)
	s, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	var steps []int
	obs := ObserverFunc(func(f Frame) error {
		steps = append(steps, f.Metrics.Step)
		if f.Grid.Count(Mushroom) != f.Metrics.MushroomCount {
			t.Errorf("frame grid and metrics disagree at step %d", f.Metrics.Step)
		}
		f.Grid.Fill(Inert)
		return nil
	})
	if err := s.Engine().Run(4, obs); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(steps, []int{1, 2, 3, 4}) {
		t.Fatalf("observer saw steps %v", steps)
	}
	if s.Engine().CurrentGrid().Count(Inert) == 36 {
		t.Fatal("observer writes must not reach the engine grid")
	}

	stop := errors.New("stop")
	err = s.Engine().Run(3, ObserverFunc(func(Frame) error { return stop }))
	if !errors.Is(err, stop) {
		t.Fatalf("expected observer error to propagate, got %v", err)
	}
}
