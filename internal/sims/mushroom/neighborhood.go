package mushroom

import "strings"

// Adjacency selects which surrounding cells count as neighbors.
type Adjacency uint8

const (
	// Moore is the 8 orthogonal and diagonal neighbors.
	Moore Adjacency = iota
	// VonNeumann is the 4 orthogonal neighbors.
	VonNeumann
)

type offset struct{ dr, dc int }

var (
	mooreOffsets = []offset{
		{-1, -1}, {-1, 0}, {-1, 1},
		{0, -1}, {0, 1},
		{1, -1}, {1, 0}, {1, 1},
	}
	vonNeumannOffsets = []offset{{-1, 0}, {0, -1}, {0, 1}, {1, 0}}
)

func (a Adjacency) offsets() []offset {
	if a == VonNeumann {
		return vonNeumannOffsets
	}
	return mooreOffsets
}

// Size returns the number of neighbors the adjacency samples.
func (a Adjacency) Size() int { return len(a.offsets()) }

func (a Adjacency) String() string {
	if a == VonNeumann {
		return "von_neumann"
	}
	return "moore"
}

// ParseAdjacency resolves an adjacency selector.
func ParseAdjacency(name string) (Adjacency, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "moore", "":
		return Moore, nil
	case "von_neumann", "vonneumann", "von-neumann":
		return VonNeumann, nil
	}
	return Moore, configErrorf("spread_neighborhood", "unknown adjacency %q (want moore or von_neumann)", name)
}

// Sampler reads neighbor states through a fixed boundary policy. It never
// mutates the grid it samples.
type Sampler struct {
	boundary  Boundary
	adjacency Adjacency
}

// NewSampler binds a boundary policy and adjacency for the lifetime of a run.
func NewSampler(b Boundary, a Adjacency) Sampler {
	return Sampler{boundary: b, adjacency: a}
}

// Boundary returns the bound policy.
func (s Sampler) Boundary() Boundary { return s.boundary }

// Adjacency returns the bound adjacency.
func (s Sampler) Adjacency() Adjacency { return s.adjacency }

// Neighbors appends the neighbor states of (row, col) to buf and returns it.
func (s Sampler) Neighbors(g *Grid, row, col int, buf []CellState) []CellState {
	for _, o := range s.adjacency.offsets() {
		buf = append(buf, Lookup(s.boundary, g, row+o.dr, col+o.dc))
	}
	return buf
}

// Count returns how many neighbors of (row, col) are in state want.
func (s Sampler) Count(g *Grid, row, col int, want CellState) int {
	n := 0
	for _, o := range s.adjacency.offsets() {
		if Lookup(s.boundary, g, row+o.dr, col+o.dc) == want {
			n++
		}
	}
	return n
}

// Any reports whether at least one neighbor of (row, col) is in state want.
func (s Sampler) Any(g *Grid, row, col int, want CellState) bool {
	for _, o := range s.adjacency.offsets() {
		if Lookup(s.boundary, g, row+o.dr, col+o.dc) == want {
			return true
		}
	}
	return false
}
