package mushroom

import "fmt"

// CellState enumerates the lifecycle stages a grid cell can be in.
type CellState uint8

const (
	Empty CellState = iota
	Spore
	Young
	Maturing
	Mushroom
	Older
	Decaying
	Dead1
	Dead2
	Inert

	// NumStates is the number of valid cell states.
	NumStates = int(Inert) + 1
)

// unset marks a scratch cell that has not been assigned a next state yet. It
// never appears in a committed grid.
const unset CellState = 0xff

var stateNames = [NumStates]string{
	Empty:    "empty",
	Spore:    "spore",
	Young:    "young",
	Maturing: "maturing",
	Mushroom: "mushroom",
	Older:    "older",
	Decaying: "decaying",
	Dead1:    "dead1",
	Dead2:    "dead2",
	Inert:    "inert",
}

// String returns the lowercase state name.
func (s CellState) String() string {
	if s.Valid() {
		return stateNames[s]
	}
	return fmt.Sprintf("CellState(%d)", uint8(s))
}

// Valid reports whether s is one of the enumerated states.
func (s CellState) Valid() bool { return int(s) < NumStates }

// Fruiting reports whether the cell is a post-maturation body (a mushroom or
// aged hyphae that did not fruit). Both decay on the next step.
func (s CellState) Fruiting() bool { return s == Mushroom || s == Older }

// DeadOrDecaying reports whether the cell is on its way back to empty ground.
func (s CellState) DeadOrDecaying() bool {
	return s == Decaying || s == Dead1 || s == Dead2
}

// Living reports whether the cell holds a spore or hyphae of any age.
func (s CellState) Living() bool {
	return s == Spore || s == Young || s == Maturing || s.Fruiting()
}

// agingChain holds the deterministic successor of every state whose next
// value does not depend on chance or neighbors. Stochastic states map to unset.
var agingChain = [NumStates]CellState{
	Empty:    unset,
	Spore:    unset,
	Maturing: unset,
	Young:    Maturing,
	Mushroom: Decaying,
	Older:    Decaying,
	Decaying: Dead1,
	Dead1:    Dead2,
	Dead2:    Empty,
	Inert:    Inert,
}

// Successor returns the deterministic next state for aging states. ok is
// false for Empty, Spore and Maturing, whose transitions are stochastic.
func (s CellState) Successor() (next CellState, ok bool) {
	if !s.Valid() {
		return unset, false
	}
	next = agingChain[s]
	return next, next != unset
}
