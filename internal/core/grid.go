package core

// Extent describes a rows x cols grid stored in row-major order.
type Extent struct {
	Rows, Cols int
}

// Len returns the number of cells covered by the extent.
func (e Extent) Len() int { return e.Rows * e.Cols }

// Index returns the linear slice index for coordinates (row, col).
func (e Extent) Index(row, col int) int { return row*e.Cols + col }

// Coords converts a linear index back to (row, col).
func (e Extent) Coords(idx int) (int, int) { return idx / e.Cols, idx % e.Cols }

// Contains reports whether (row, col) lies inside the extent.
func (e Extent) Contains(row, col int) bool {
	return row >= 0 && row < e.Rows && col >= 0 && col < e.Cols
}

// Wrap applies toroidal wrapping to the provided coordinates.
func (e Extent) Wrap(row, col int) (int, int) {
	row = (row%e.Rows + e.Rows) % e.Rows
	col = (col%e.Cols + e.Cols) % e.Cols
	return row, col
}

// Reflect mirrors out-of-range coordinates back across the edge so that -1
// maps to 0 and Rows maps to Rows-1.
func (e Extent) Reflect(row, col int) (int, int) {
	return reflectAxis(row, e.Rows), reflectAxis(col, e.Cols)
}

func reflectAxis(v, n int) int {
	if n <= 0 {
		return 0
	}
	for v < 0 || v >= n {
		if v < 0 {
			v = -v - 1
		} else {
			v = 2*n - v - 1
		}
	}
	return v
}
