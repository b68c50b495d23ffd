package telemetry

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SummaryRow aggregates the mushroom count of one step across many runs.
type SummaryRow struct {
	Step   int     `csv:"step"`
	Runs   int     `csv:"runs"`
	Mean   float64 `csv:"mean"`
	StdDev float64 `csv:"stddev"`
	Min    float64 `csv:"min"`
	Max    float64 `csv:"max"`
}

// Aggregate averages per-step mushroom counts over several runs. Every run
// must cover the same number of steps; step numbers start at 1.
func Aggregate(runs [][]float64) ([]SummaryRow, error) {
	if len(runs) == 0 {
		return nil, nil
	}
	steps := len(runs[0])
	for i, r := range runs {
		if len(r) != steps {
			return nil, fmt.Errorf("run %d has %d steps, want %d", i, len(r), steps)
		}
	}

	rows := make([]SummaryRow, steps)
	column := make([]float64, len(runs))
	for s := 0; s < steps; s++ {
		for i, r := range runs {
			column[i] = r[s]
		}
		row := SummaryRow{
			Step: s + 1,
			Runs: len(runs),
			Min:  floats.Min(column),
			Max:  floats.Max(column),
		}
		if len(column) > 1 {
			row.Mean, row.StdDev = stat.MeanStdDev(column, nil)
		} else {
			row.Mean = column[0]
		}
		rows[s] = row
	}
	return rows, nil
}

// MeanSeries extracts the per-step means.
func MeanSeries(rows []SummaryRow) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.Mean
	}
	return out
}
