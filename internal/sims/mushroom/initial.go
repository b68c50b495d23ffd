package mushroom

import (
	"strings"

	pcore "mycelium-ca/pkg/core"
)

// InitKind selects a starting layout.
type InitKind uint8

const (
	// InitRandom makes each cell a spore with probability ProbSpore.
	InitRandom InitKind = iota
	// InitSingle places one spore at the grid center.
	InitSingle
	// InitDual places two spores on the middle column, a quarter of the way
	// in from the top and bottom edges.
	InitDual
	// InitBarrier places a center spore inside an inert ring.
	InitBarrier
	// InitPoints places spores at explicit coordinates.
	InitPoints
)

var initKindNames = map[InitKind]string{
	InitRandom:  "random",
	InitSingle:  "single",
	InitDual:    "dual",
	InitBarrier: "barrier",
	InitPoints:  "points",
}

func (k InitKind) String() string {
	if name, ok := initKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseInitKind resolves an initial condition selector.
func ParseInitKind(name string) (InitKind, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case "single_point", "singlepoint":
		key = "single"
	case "dual_point", "dualpoint", "double":
		key = "dual"
	case "boundary":
		key = "barrier"
	}
	for k, n := range initKindNames {
		if n == key {
			return k, nil
		}
	}
	return InitRandom, configErrorf("init", "unknown initial condition %q (want random, single, dual, barrier or points)", name)
}

// Seeds returns the spore coordinates the layout requests for a grid of the
// given shape. The random layout requests none up front.
func (c InitConfig) Seeds(rows, cols int) ([]Point, error) {
	kind, err := ParseInitKind(c.Kind)
	if err != nil {
		return nil, err
	}
	center := Point{Row: rows / 2, Col: cols / 2}
	switch kind {
	case InitSingle, InitBarrier:
		return []Point{center}, nil
	case InitDual:
		a := Point{Row: rows / 4, Col: cols / 2}
		b := Point{Row: rows - 1 - rows/4, Col: cols / 2}
		if a == b {
			return nil, configErrorf("init", "grid %dx%d is too small for two distinct seeds", rows, cols)
		}
		return []Point{a, b}, nil
	case InitPoints:
		if len(c.Points) == 0 {
			return nil, configErrorf("points", "points layout needs at least one seed")
		}
		return append([]Point(nil), c.Points...), nil
	}
	return nil, nil
}

// Generate builds the starting grid described by c. rng is only consumed by
// the random layout.
func (c InitConfig) Generate(rows, cols int, rng *pcore.RNG) (*Grid, error) {
	g, err := NewGrid(rows, cols)
	if err != nil {
		return nil, err
	}
	kind, err := ParseInitKind(c.Kind)
	if err != nil {
		return nil, err
	}
	if kind == InitRandom {
		if !(c.ProbSpore >= 0 && c.ProbSpore <= 1) {
			return nil, configErrorf("prob_spore", "probability must be in [0,1], got %v", c.ProbSpore)
		}
		for i := range g.cells {
			if rng.Chance(c.ProbSpore) {
				g.cells[i] = Spore
			}
		}
		return g, nil
	}

	seeds, err := c.Seeds(rows, cols)
	if err != nil {
		return nil, err
	}
	seeded := make(map[Point]bool, len(seeds))
	for _, p := range seeds {
		if !g.ext.Contains(p.Row, p.Col) {
			return nil, configErrorf("points", "seed (%d,%d) lies outside the %dx%d grid", p.Row, p.Col, rows, cols)
		}
		if seeded[p] {
			return nil, configErrorf("points", "seed (%d,%d) requested twice", p.Row, p.Col)
		}
		seeded[p] = true
		g.Set(p.Row, p.Col, Spore)
	}
	if kind == InitBarrier {
		if c.BarrierRadius < 0 {
			return nil, configErrorf("barrier_radius", "must not be negative, got %d", c.BarrierRadius)
		}
		if err := checkBarrier(rows, cols, seeds[0], c.BarrierRadius); err != nil {
			return nil, err
		}
		placeBarrier(g, seeds[0], c.BarrierRadius, seeded)
	}
	return g, nil
}

// placeBarrier marks an inert ring. Radius 0 walls off the grid perimeter;
// a positive radius draws a square ring that far from center, clipped to the
// grid. Seed cells are never overwritten.
func placeBarrier(g *Grid, center Point, radius int, seeded map[Point]bool) {
	onRing := func(r, c int) bool {
		if radius == 0 {
			return r == 0 || c == 0 || r == g.ext.Rows-1 || c == g.ext.Cols-1
		}
		dr, dc := abs(r-center.Row), abs(c-center.Col)
		return max(dr, dc) == radius
	}
	for r := 0; r < g.ext.Rows; r++ {
		for c := 0; c < g.ext.Cols; c++ {
			if onRing(r, c) && !seeded[Point{Row: r, Col: c}] {
				g.Set(r, c, Inert)
			}
		}
	}
}

// checkBarrier rejects a ring with no cell inside the grid other than the
// center seed.
func checkBarrier(rows, cols int, center Point, radius int) error {
	if radius == 0 {
		if rows*cols == 1 {
			return configErrorf("barrier_radius", "a 1x1 grid has no perimeter around its seed")
		}
		return nil
	}
	if max(center.Row, rows-1-center.Row, center.Col, cols-1-center.Col) < radius {
		return configErrorf("barrier_radius", "ring of radius %d around (%d,%d) lies outside the %dx%d grid",
			radius, center.Row, center.Col, rows, cols)
	}
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
