package telemetry

import (
	"errors"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrTooFewPoints is returned when a series is too short to chart.
var ErrTooFewPoints = errors.New("need at least two steps to plot")

// PlotOptions controls the count chart.
type PlotOptions struct {
	Title  string
	Width  int
	Height int
	// Spread, when set, is drawn as a dashed band of one standard deviation
	// around the series.
	Spread []float64
}

// PlotCounts renders mushroom count per step as a PNG line chart.
func PlotCounts(w io.Writer, counts []float64, opts PlotOptions) error {
	if len(counts) < 2 {
		return ErrTooFewPoints
	}
	if opts.Spread != nil && len(opts.Spread) != len(counts) {
		return fmt.Errorf("spread has %d values, want %d", len(opts.Spread), len(counts))
	}
	if opts.Width <= 0 {
		opts.Width = 640
	}
	if opts.Height <= 0 {
		opts.Height = 320
	}

	steps := make([]float64, len(counts))
	top := 1.0
	for i, v := range counts {
		steps[i] = float64(i + 1)
		hi := v
		if opts.Spread != nil {
			hi += opts.Spread[i]
		}
		top = max(top, hi)
	}

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "Mushrooms",
			XValues: steps,
			YValues: counts,
			Style:   chart.Style{StrokeColor: drawing.Color{R: 120, G: 72, B: 32, A: 255}, StrokeWidth: 3.0},
		},
	}
	if opts.Spread != nil {
		upper := make([]float64, len(counts))
		lower := make([]float64, len(counts))
		for i, v := range counts {
			upper[i] = v + opts.Spread[i]
			lower[i] = max(0, v-opts.Spread[i])
		}
		band := chart.Style{StrokeColor: drawing.Color{R: 140, G: 140, B: 140, A: 255}, StrokeWidth: 1.5, StrokeDashArray: []float64{5.0, 5.0}}
		series = append(series,
			chart.ContinuousSeries{Name: "+1 sd", XValues: steps, YValues: upper, Style: band},
			chart.ContinuousSeries{Name: "-1 sd", XValues: steps, YValues: lower, Style: band},
		)
	}

	graph := chart.Chart{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		XAxis: chart.XAxis{
			Name:  "Time step",
			Style: chart.Style{FontSize: 10.0},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		YAxis: chart.YAxis{
			Name:  "Number of mushrooms",
			Style: chart.Style{FontSize: 10.0},
			// A fixed range keeps an all-zero series renderable.
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	return nil
}
