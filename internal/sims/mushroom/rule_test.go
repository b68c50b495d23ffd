package mushroom

import (
	"testing"

	pcore "mycelium-ca/pkg/core"
)

// seqDraws replays a fixed list of draws, cycling when exhausted.
type seqDraws struct {
	vals []float64
	i    int
}

func (s *seqDraws) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

func halfRule() *Rule {
	return &Rule{PSporeToHyphae: 0.5, PMushroom: 0.5, PSpread: 0.5}
}

func TestTransitionClosure(t *testing.T) {
	rule := halfRule()
	inputs := []Inputs{
		{},
		{SporeChance: 1},
		{YoungNeighbor: true},
		{SporeChance: 0.3, YoungNeighbor: true},
	}
	for seed := int64(0); seed < 50; seed++ {
		for s := 0; s < NumStates; s++ {
			for _, in := range inputs {
				draws := pcore.NewStream(seed, 1, s)
				next := rule.Transition(CellState(s), in, &draws)
				if !next.Valid() {
					t.Fatalf("Transition(%v, %+v) produced invalid state %v", CellState(s), in, next)
				}
			}
		}
	}
}

func TestTransitionRejectsUnknownState(t *testing.T) {
	draws := &seqDraws{vals: []float64{0}}
	if got := halfRule().Transition(CellState(200), Inputs{}, draws); got.Valid() {
		t.Fatalf("expected an unknown state to yield no transition, got %v", got)
	}
}

func TestDeterministicAgingChain(t *testing.T) {
	want := map[CellState]CellState{
		Young:    Maturing,
		Mushroom: Decaying,
		Older:    Decaying,
		Decaying: Dead1,
		Dead1:    Dead2,
		Dead2:    Empty,
		Inert:    Inert,
	}
	rule := halfRule()
	in := Inputs{SporeChance: 1, YoungNeighbor: true}
	for trial := 0; trial < 5000; trial++ {
		for from, to := range want {
			draws := pcore.NewStream(99, uint64(trial), int(from))
			if got := rule.Transition(from, in, &draws); got != to {
				t.Fatalf("trial %d: %v -> %v, want %v", trial, from, got, to)
			}
		}
	}
}

func TestStochasticTransitions(t *testing.T) {
	rule := halfRule()
	cases := []struct {
		name  string
		from  CellState
		in    Inputs
		draws []float64
		want  CellState
	}{
		{"spore germinates", Spore, Inputs{}, []float64{0.1}, Young},
		{"spore waits", Spore, Inputs{}, []float64{0.9}, Spore},
		{"maturing fruits", Maturing, Inputs{}, []float64{0.2}, Mushroom},
		{"maturing ages", Maturing, Inputs{}, []float64{0.7}, Older},
		{"spore fall", Empty, Inputs{SporeChance: 0.5}, []float64{0.4}, Spore},
		{"spore fall beats growth", Empty, Inputs{SporeChance: 0.5, YoungNeighbor: true}, []float64{0.4, 0.0}, Spore},
		{"growth from young neighbor", Empty, Inputs{SporeChance: 0.1, YoungNeighbor: true}, []float64{0.4, 0.3}, Young},
		{"growth fails", Empty, Inputs{YoungNeighbor: true}, []float64{0.4, 0.6}, Empty},
		{"no young neighbor", Empty, Inputs{}, []float64{0.9, 0.0}, Empty},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := rule.Transition(tc.from, tc.in, &seqDraws{vals: tc.draws})
			if got != tc.want {
				t.Fatalf("%v -> %v, want %v", tc.from, got, tc.want)
			}
		})
	}
}

func TestTransitionProbabilityExtremes(t *testing.T) {
	never := &Rule{}
	always := &Rule{PSporeToHyphae: 1, PMushroom: 1, PSpread: 1}
	for i := 0; i < 1000; i++ {
		d := pcore.NewStream(7, uint64(i), 0)
		if got := never.Transition(Spore, Inputs{}, &d); got != Spore {
			t.Fatalf("pSporeToHyphae=0 germinated a spore")
		}
		d = pcore.NewStream(7, uint64(i), 1)
		if got := always.Transition(Maturing, Inputs{}, &d); got != Mushroom {
			t.Fatalf("pMushroom=1 produced %v", got)
		}
		d = pcore.NewStream(7, uint64(i), 2)
		if got := always.Transition(Empty, Inputs{YoungNeighbor: true}, &d); got != Young {
			t.Fatalf("pSpread=1 next to young hyphae produced %v", got)
		}
	}
}

func TestGerminationRate(t *testing.T) {
	rule := &Rule{PSporeToHyphae: 0.3}
	const trials = 20000
	young := 0
	for i := 0; i < trials; i++ {
		d := pcore.NewStream(11, 1, i)
		if rule.Transition(Spore, Inputs{}, &d) == Young {
			young++
		}
	}
	if rate := float64(young) / trials; rate < 0.28 || rate > 0.32 {
		t.Fatalf("germination rate %.3f far from 0.3", rate)
	}
}

func TestRuleNextReadsNeighbors(t *testing.T) {
	prev := mustParseGrid(t, `
...
.Y.
...`)
	rule := &Rule{PSpread: 1, Spread: NewSampler(Absorbing{}, VonNeumann), Spawn: NewGlobalCoverage(0)}
	draws := &seqDraws{vals: []float64{0.5}}
	if got := rule.Next(prev, 0, 1, draws); got != Young {
		t.Fatalf("orthogonal neighbor of young hyphae should grow, got %v", got)
	}
	if got := rule.Next(prev, 0, 0, draws); got != Empty {
		t.Fatalf("diagonal cell must not grow under von neumann adjacency, got %v", got)
	}
	rule.Spread = NewSampler(Absorbing{}, Moore)
	if got := rule.Next(prev, 0, 0, draws); got != Young {
		t.Fatalf("diagonal cell should grow under moore adjacency, got %v", got)
	}
	if got := rule.Next(prev, 1, 1, draws); got != Maturing {
		t.Fatalf("young hyphae should mature, got %v", got)
	}
}

func mustParseGrid(t *testing.T, layout string) *Grid {
	t.Helper()
	g, err := ParseGrid(layout)
	if err != nil {
		t.Fatalf("ParseGrid: %v", err)
	}
	return g
}
