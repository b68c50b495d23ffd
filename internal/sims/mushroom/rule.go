package mushroom

// Draws supplies uniform random values in [0, 1). *core.Stream implements it.
type Draws interface {
	Float64() float64
}

// Inputs carries the neighborhood facts an empty cell's transition needs.
type Inputs struct {
	// SporeChance is pSpore for this cell on this step.
	SporeChance float64
	// YoungNeighbor is true when a spread neighbor was Young in the
	// previous snapshot.
	YoungNeighbor bool
}

// Rule is the per-cell state machine. Its fields are fixed for a run.
type Rule struct {
	PSporeToHyphae float64
	PMushroom      float64
	PSpread        float64

	// Spread samples neighbors for the young-neighbor check.
	Spread Sampler
	// Spawn yields pSpore for empty cells.
	Spawn SpawnPolicy
}

// Next computes the state of (row, col) for the step after prev. It only
// reads prev.
func (r *Rule) Next(prev *Grid, row, col int, draws Draws) CellState {
	cur := prev.At(row, col)
	var in Inputs
	if cur == Empty {
		in.SporeChance = r.Spawn.Probability(prev, row, col)
		in.YoungNeighbor = r.Spread.Any(prev, row, col, Young)
	}
	return r.Transition(cur, in, draws)
}

// Transition applies the lifecycle table to a single cell. Invalid input
// states yield unset so the engine can report the fault.
func (r *Rule) Transition(cur CellState, in Inputs, draws Draws) CellState {
	if next, ok := cur.Successor(); ok {
		return next
	}
	switch cur {
	case Spore:
		if draws.Float64() < r.PSporeToHyphae {
			return Young
		}
		return Spore
	case Maturing:
		if draws.Float64() < r.PMushroom {
			return Mushroom
		}
		return Older
	case Empty:
		// Spore fall takes precedence over hyphal growth.
		if draws.Float64() < in.SporeChance {
			return Spore
		}
		if in.YoungNeighbor && draws.Float64() < r.PSpread {
			return Young
		}
		return Empty
	}
	return unset
}
