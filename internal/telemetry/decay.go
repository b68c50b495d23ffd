package telemetry

import (
	"gonum.org/v1/gonum/stat"

	"mycelium-ca/internal/sims/mushroom"
)

// DecayTracker measures how many consecutive steps cells spend decaying or
// dead before returning to empty ground.
type DecayTracker struct {
	run       []int
	durations []float64
}

// Observe implements mushroom.Observer.
func (d *DecayTracker) Observe(f mushroom.Frame) error {
	cells := f.Grid.Cells()
	if d.run == nil {
		d.run = make([]int, len(cells))
	}
	for i, s := range cells {
		switch {
		case s.DeadOrDecaying():
			d.run[i]++
		case d.run[i] > 0:
			if s == mushroom.Empty {
				d.durations = append(d.durations, float64(d.run[i]))
			}
			d.run[i] = 0
		}
	}
	return nil
}

// Completed returns the number of finished decay periods observed.
func (d *DecayTracker) Completed() int { return len(d.durations) }

// Mean returns the average length of a completed decay period, or 0 when none
// has completed yet.
func (d *DecayTracker) Mean() float64 {
	if len(d.durations) == 0 {
		return 0
	}
	return stat.Mean(d.durations, nil)
}
