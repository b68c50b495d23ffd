// Package telemetry records per-step growth metrics and writes them out as
// CSV tables and charts.
package telemetry

import (
	"log/slog"

	"mycelium-ca/internal/sims/mushroom"
)

// StepRecord is one row of the per-step telemetry table.
type StepRecord struct {
	Step        int     `csv:"step"`
	Mushrooms   int     `csv:"mushrooms"`
	Coverage    float64 `csv:"coverage"`
	SporeChance float64 `csv:"spore_chance"`

	Empty    int `csv:"empty"`
	Spore    int `csv:"spore"`
	Young    int `csv:"young"`
	Maturing int `csv:"maturing"`
	Older    int `csv:"older"`
	Decaying int `csv:"decaying"`
	Dead1    int `csv:"dead1"`
	Dead2    int `csv:"dead2"`
	Inert    int `csv:"inert"`
}

// RecordFromMetrics flattens engine metrics into a table row.
func RecordFromMetrics(m mushroom.Metrics) StepRecord {
	c := m.Census
	rec := StepRecord{
		Step:        m.Step,
		Mushrooms:   m.MushroomCount,
		SporeChance: m.SporeChance,
		Empty:       c.Of(mushroom.Empty),
		Spore:       c.Of(mushroom.Spore),
		Young:       c.Of(mushroom.Young),
		Maturing:    c.Of(mushroom.Maturing),
		Older:       c.Of(mushroom.Older),
		Decaying:    c.Of(mushroom.Decaying),
		Dead1:       c.Of(mushroom.Dead1),
		Dead2:       c.Of(mushroom.Dead2),
		Inert:       c.Of(mushroom.Inert),
	}
	if total := c.Total(); total > 0 {
		rec.Coverage = float64(m.MushroomCount) / float64(total)
	}
	return rec
}

// LogValue implements slog.LogValuer for structured logging.
func (r StepRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("step", r.Step),
		slog.Int("mushrooms", r.Mushrooms),
		slog.Float64("coverage", r.Coverage),
		slog.Float64("spore_chance", r.SporeChance),
		slog.Int("spore", r.Spore),
		slog.Int("young", r.Young),
		slog.Int("maturing", r.Maturing),
		slog.Int("older", r.Older),
		slog.Int("dead", r.Decaying+r.Dead1+r.Dead2),
	)
}

// Recorder collects one StepRecord per committed frame.
type Recorder struct {
	Records []StepRecord
}

// Observe implements mushroom.Observer.
func (r *Recorder) Observe(f mushroom.Frame) error {
	r.Records = append(r.Records, RecordFromMetrics(f.Metrics))
	return nil
}

// MushroomSeries returns the mushroom count of every recorded step.
func (r *Recorder) MushroomSeries() []float64 {
	out := make([]float64, len(r.Records))
	for i, rec := range r.Records {
		out[i] = float64(rec.Mushrooms)
	}
	return out
}
