package mushroom

import (
	"math"
	"testing"
)

func TestGlobalCoverageObserve(t *testing.T) {
	g := mustParseGrid(t, `
MM..
..M.
....`)
	p := NewGlobalCoverage(0.25)
	if got := p.Probability(g, 0, 0); got != 0.25 {
		t.Fatalf("expected configured start value, got %v", got)
	}
	p.Observe(g.Census())
	if got, want := p.Scalar(), 3.0/12.0; got != want {
		t.Fatalf("pSpore = %v, want %v", got, want)
	}
	if got := p.Probability(g, 2, 3); got != 3.0/12.0 {
		t.Fatalf("global probability must be uniform, got %v", got)
	}
	p.Reset()
	if got := p.Scalar(); got != 0.25 {
		t.Fatalf("Reset should restore the start value, got %v", got)
	}
}

func TestLocalDensity(t *testing.T) {
	g := mustParseGrid(t, `
MMM
M.M
MMM`)
	p := NewLocalDensity(Absorbing{})
	if got := p.Probability(g, 1, 1); got != 1 {
		t.Fatalf("fully surrounded cell should have pSpore 1, got %v", got)
	}
	if got := p.Probability(g, 0, 0); got != 0 {
		t.Fatalf("mushroom cells never receive spores, got %v", got)
	}

	g = mustParseGrid(t, `
M..
.s.
..M`)
	if got := p.Probability(g, 1, 1); math.Abs(got-0.25) > 1e-12 {
		t.Fatalf("two of eight neighbors are mushrooms, got %v", got)
	}
	if got := p.Probability(g, 0, 1); math.Abs(got-0.125) > 1e-12 {
		t.Fatalf("edge cell with one mushroom neighbor and an absorbing wall, got %v", got)
	}
	periodic := NewLocalDensity(Periodic{})
	if got := periodic.Probability(g, 0, 1); math.Abs(got-0.25) > 1e-12 {
		t.Fatalf("periodic wrap should add the far corner mushroom, got %v", got)
	}
}

func TestNewSpawnPolicy(t *testing.T) {
	if p, err := NewSpawnPolicy("global", 0.1, Absorbing{}); err != nil || p.Name() != "global" {
		t.Fatalf("global policy: %v, %v", p, err)
	}
	if p, err := NewSpawnPolicy("local", 0, Periodic{}); err != nil || p.Name() != "local" {
		t.Fatalf("local policy: %v, %v", p, err)
	}
	if _, err := NewSpawnPolicy("wind", 0, Absorbing{}); err == nil {
		t.Fatal("expected unknown spawn policy to fail")
	}
}
