package mushroom

import (
	"strings"

	"mycelium-ca/internal/core"
)

// Grid stores a rows x cols array of cell states in row-major order. Its
// shape never changes after construction.
type Grid struct {
	ext   core.Extent
	cells []CellState
}

// NewGrid allocates an all-empty grid. Non-positive dimensions are a
// configuration error.
func NewGrid(rows, cols int) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, configErrorf("dimensions", "grid must be at least 1x1, got %dx%d", rows, cols)
	}
	return &Grid{ext: core.Extent{Rows: rows, Cols: cols}, cells: make([]CellState, rows*cols)}, nil
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.ext.Rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.ext.Cols }

// Extent returns the grid shape.
func (g *Grid) Extent() core.Extent { return g.ext }

// At returns the state at (row, col). The coordinates must be in range.
func (g *Grid) At(row, col int) CellState { return g.cells[g.ext.Index(row, col)] }

// Set stores a state at (row, col). The coordinates must be in range.
func (g *Grid) Set(row, col int, s CellState) { g.cells[g.ext.Index(row, col)] = s }

// Cells exposes the backing slice in row-major order.
func (g *Grid) Cells() []CellState { return g.cells }

// Fill sets every cell to s.
func (g *Grid) Fill(s CellState) {
	for i := range g.cells {
		g.cells[i] = s
	}
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	return &Grid{ext: g.ext, cells: append([]CellState(nil), g.cells...)}
}

// SameShape reports whether both grids have identical dimensions.
func (g *Grid) SameShape(o *Grid) bool { return o != nil && g.ext == o.ext }

// Equal reports whether both grids have the same shape and contents.
func (g *Grid) Equal(o *Grid) bool {
	if !g.SameShape(o) {
		return false
	}
	for i, s := range g.cells {
		if o.cells[i] != s {
			return false
		}
	}
	return true
}

// Count returns how many cells hold state s.
func (g *Grid) Count(s CellState) int {
	n := 0
	for _, c := range g.cells {
		if c == s {
			n++
		}
	}
	return n
}

// Census tallies every state in one pass.
func (g *Grid) Census() Census {
	var c Census
	for _, s := range g.cells {
		if s.Valid() {
			c[s]++
		}
	}
	return c
}

// firstInvalid returns the index of the first cell outside the enumeration,
// or -1 if every cell is valid.
func (g *Grid) firstInvalid() int {
	for i, s := range g.cells {
		if !s.Valid() {
			return i
		}
	}
	return -1
}

// String renders the grid one row per line using single-letter state codes.
func (g *Grid) String() string {
	var b strings.Builder
	for r := 0; r < g.ext.Rows; r++ {
		for c := 0; c < g.ext.Cols; c++ {
			b.WriteByte(stateGlyph(g.At(r, c)))
		}
		if r < g.ext.Rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

const glyphs = ".sYmMoxdDI"

func stateGlyph(s CellState) byte {
	if !s.Valid() {
		return '?'
	}
	return glyphs[s]
}

// ParseGrid builds a grid from the glyph layout produced by String. Rows are
// separated by newlines and must all have the same width.
func ParseGrid(layout string) (*Grid, error) {
	lines := strings.Split(strings.TrimSpace(layout), "\n")
	rows := len(lines)
	cols := len(strings.TrimSpace(lines[0]))
	g, err := NewGrid(rows, cols)
	if err != nil {
		return nil, err
	}
	for r, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) != cols {
			return nil, configErrorf("grid", "row %d has width %d, want %d", r, len(line), cols)
		}
		for c := 0; c < cols; c++ {
			idx := strings.IndexByte(glyphs, line[c])
			if idx < 0 {
				return nil, configErrorf("grid", "unknown glyph %q at (%d,%d)", line[c], r, c)
			}
			g.Set(r, c, CellState(idx))
		}
	}
	return g, nil
}

// Census counts cells per state.
type Census [NumStates]int

// Of returns the number of cells in state s.
func (c Census) Of(s CellState) int {
	if !s.Valid() {
		return 0
	}
	return c[s]
}

// Total returns the number of cells counted.
func (c Census) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}
