package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"mycelium-ca/internal/sims/mushroom"
)

// OutputManager writes run artifacts into a single directory.
type OutputManager struct {
	dir       string
	stepsFile *os.File

	stepsHeaderWritten bool
}

// NewOutputManager creates the output directory. steps.csv is opened on the
// first WriteStep. Returns nil if dir is empty (output disabled); all methods
// accept a nil receiver.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &OutputManager{dir: dir}, nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// WriteConfig saves the run configuration as YAML.
func (om *OutputManager) WriteConfig(cfg mushroom.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteStep appends one record to steps.csv.
func (om *OutputManager) WriteStep(rec StepRecord) error {
	if om == nil {
		return nil
	}
	if om.stepsFile == nil {
		f, err := os.Create(filepath.Join(om.dir, "steps.csv"))
		if err != nil {
			return fmt.Errorf("creating steps.csv: %w", err)
		}
		om.stepsFile = f
	}
	records := []StepRecord{rec}
	if !om.stepsHeaderWritten {
		if err := gocsv.Marshal(records, om.stepsFile); err != nil {
			return fmt.Errorf("writing steps: %w", err)
		}
		om.stepsHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.stepsFile); err != nil {
		return fmt.Errorf("writing steps: %w", err)
	}
	return nil
}

// Observe implements mushroom.Observer by appending each frame to steps.csv.
func (om *OutputManager) Observe(f mushroom.Frame) error {
	return om.WriteStep(RecordFromMetrics(f.Metrics))
}

// WriteSummary saves the multi-run aggregate as summary.csv.
func (om *OutputManager) WriteSummary(rows []SummaryRow) error {
	if om == nil {
		return nil
	}
	f, err := os.Create(filepath.Join(om.dir, "summary.csv"))
	if err != nil {
		return fmt.Errorf("creating summary.csv: %w", err)
	}
	defer f.Close()
	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}

// WritePlot renders the count chart to mushrooms.png.
func (om *OutputManager) WritePlot(counts []float64, opts PlotOptions) error {
	if om == nil {
		return nil
	}
	f, err := os.Create(filepath.Join(om.dir, "mushrooms.png"))
	if err != nil {
		return fmt.Errorf("creating mushrooms.png: %w", err)
	}
	if err := PlotCounts(f, counts, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Close flushes and closes the open files.
func (om *OutputManager) Close() error {
	if om == nil || om.stepsFile == nil {
		return nil
	}
	return om.stepsFile.Close()
}
