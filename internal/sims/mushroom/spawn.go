package mushroom

import "strings"

// SpawnPolicy computes the chance that an empty cell spontaneously receives
// a spore during the next step.
type SpawnPolicy interface {
	// Name returns the configuration selector for the policy.
	Name() string
	// Probability returns pSpore for the cell at (row, col) given the
	// previous snapshot. It must be safe to call from several goroutines.
	Probability(prev *Grid, row, col int) float64
	// Observe is called once after every committed step with the census of
	// the new grid.
	Observe(c Census)
	// Reset restores the policy to its run-start value.
	Reset()
}

// ScalarPolicy is implemented by policies that apply one probability to
// every cell, so it can be reported alongside the step metrics.
type ScalarPolicy interface {
	SpawnPolicy
	Scalar() float64
}

// GlobalCoverage applies mushroom coverage of the whole grid, measured after
// the previous step, uniformly to every empty cell.
type GlobalCoverage struct {
	initial float64
	p       float64
}

// NewGlobalCoverage returns a policy starting at the given probability.
func NewGlobalCoverage(initial float64) *GlobalCoverage {
	return &GlobalCoverage{initial: initial, p: initial}
}

func (g *GlobalCoverage) Name() string { return "global" }

func (g *GlobalCoverage) Probability(*Grid, int, int) float64 { return g.p }

// Observe sets pSpore to the fraction of cells that are mushrooms.
func (g *GlobalCoverage) Observe(c Census) {
	total := c.Total()
	if total == 0 {
		g.p = 0
		return
	}
	g.p = float64(c.Of(Mushroom)) / float64(total)
}

func (g *GlobalCoverage) Reset() { g.p = g.initial }

// Scalar returns the probability that will be used for the next step.
func (g *GlobalCoverage) Scalar() float64 { return g.p }

// LocalDensity derives pSpore per cell from the share of its Moore
// neighborhood that holds mushrooms. Nothing is carried between steps.
type LocalDensity struct {
	moore Sampler
}

// NewLocalDensity samples mushroom neighbors through the run's boundary.
func NewLocalDensity(b Boundary) *LocalDensity {
	return &LocalDensity{moore: NewSampler(b, Moore)}
}

func (l *LocalDensity) Name() string { return "local" }

func (l *LocalDensity) Probability(prev *Grid, row, col int) float64 {
	if prev.At(row, col) == Mushroom {
		return 0
	}
	return float64(l.moore.Count(prev, row, col, Mushroom)) / float64(Moore.Size())
}

func (l *LocalDensity) Observe(Census) {}

func (l *LocalDensity) Reset() {}

// NewSpawnPolicy builds the policy named by selector.
func NewSpawnPolicy(selector string, initial float64, b Boundary) (SpawnPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(selector)) {
	case "global", "global_coverage":
		return NewGlobalCoverage(initial), nil
	case "local", "local_density":
		return NewLocalDensity(b), nil
	}
	return nil, configErrorf("spore_policy", "unknown spore spawn policy %q (want global or local)", selector)
}
