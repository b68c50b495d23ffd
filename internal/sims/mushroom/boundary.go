package mushroom

import "strings"

// Boundary decides what a neighbor lookup sees when it falls off the grid.
type Boundary interface {
	// Name returns the configuration selector for the policy.
	Name() string
	// Resolve maps (row, col) onto an in-grid coordinate. inside is false
	// when the coordinate has no in-grid counterpart and reads as Inert.
	Resolve(g *Grid, row, col int) (r, c int, inside bool)
}

// Absorbing treats everything outside the grid as an inert wall.
type Absorbing struct{}

// Periodic wraps coordinates around the grid edges like a torus.
type Periodic struct{}

// Reflecting mirrors coordinates back across the edge so the border row or
// column sees its own value.
type Reflecting struct{}

func (Absorbing) Name() string  { return "absorbing" }
func (Periodic) Name() string   { return "periodic" }
func (Reflecting) Name() string { return "reflecting" }

func (Absorbing) Resolve(g *Grid, row, col int) (int, int, bool) {
	return row, col, g.ext.Contains(row, col)
}

func (Periodic) Resolve(g *Grid, row, col int) (int, int, bool) {
	r, c := g.ext.Wrap(row, col)
	return r, c, true
}

func (Reflecting) Resolve(g *Grid, row, col int) (int, int, bool) {
	r, c := g.ext.Reflect(row, col)
	return r, c, true
}

// Lookup reads the state the boundary policy reports for (row, col).
func Lookup(b Boundary, g *Grid, row, col int) CellState {
	if g.ext.Contains(row, col) {
		return g.At(row, col)
	}
	r, c, inside := b.Resolve(g, row, col)
	if !inside {
		return Inert
	}
	return g.At(r, c)
}

// ParseBoundary resolves a boundary selector.
func ParseBoundary(name string) (Boundary, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "absorbing":
		return Absorbing{}, nil
	case "periodic":
		return Periodic{}, nil
	case "reflecting":
		return Reflecting{}, nil
	}
	return nil, configErrorf("boundary", "unknown boundary policy %q (want absorbing, periodic or reflecting)", name)
}
