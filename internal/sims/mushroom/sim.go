package mushroom

import (
	"mycelium-ca/internal/core"
	pcore "mycelium-ca/pkg/core"
)

// Sim adapts an Engine to the core.Sim contract used by the front ends. Each
// Reset regenerates the configured initial condition.
type Sim struct {
	cfg     Config
	engine  *Engine
	display []uint8
}

// New returns a Sim for the validated configuration.
func New(cfg Config) (*Sim, error) {
	engine, err := NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	s := &Sim{cfg: cfg, engine: engine, display: make([]uint8, cfg.Rows*cfg.Cols)}
	if err := s.Reset(cfg.Seed); err != nil {
		return nil, err
	}
	return s, nil
}

// Name returns the simulation identifier.
func (s *Sim) Name() string { return "mushroom" }

// Size reports the grid dimensions with columns along x.
func (s *Sim) Size() core.Size { return core.Size{W: s.cfg.Cols, H: s.cfg.Rows} }

// Cells exposes the display buffer holding one CellState byte per cell.
func (s *Sim) Cells() []uint8 { return s.display }

// Engine exposes the underlying engine for metrics and grid snapshots.
func (s *Sim) Engine() *Engine { return s.engine }

// Config returns the run configuration.
func (s *Sim) Config() Config { return s.cfg }

// Reset builds a fresh initial grid for the given seed and rewinds the
// engine. A zero seed falls back to the configured one.
func (s *Sim) Reset(seed int64) error {
	if seed == 0 {
		seed = s.cfg.Seed
	}
	initial, err := s.cfg.Init.Generate(s.cfg.Rows, s.cfg.Cols, pcore.NewRNG(seed))
	if err != nil {
		return err
	}
	if err := s.engine.ResetWithSeed(initial, seed); err != nil {
		return err
	}
	s.engine.copyCells(s.display)
	return nil
}

// Step advances the engine and refreshes the display buffer.
func (s *Sim) Step() error {
	if err := s.engine.Step(); err != nil {
		return err
	}
	s.engine.copyCells(s.display)
	return nil
}

// Metrics returns the engine metrics.
func (s *Sim) Metrics() Metrics { return s.engine.Metrics() }

func init() {
	core.Register("mushroom", func(cfg map[string]string) (core.Sim, error) {
		c, err := FromMap(cfg)
		if err != nil {
			return nil, err
		}
		sim, err := New(c)
		if err != nil {
			return nil, err
		}
		return sim, nil
	})
}
