package mushroom

import (
	"errors"
	"fmt"

	"mycelium-ca/internal/core"
)

var (
	// ErrConfig matches every *ConfigError via errors.Is.
	ErrConfig = errors.New("invalid configuration")
	// ErrDimensionMismatch matches every *DimensionMismatchError via errors.Is.
	ErrDimensionMismatch = errors.New("grid dimension mismatch")
	// ErrStep matches every *StepFailure via errors.Is.
	ErrStep = errors.New("step failed")

	// ErrNotReset is the cause reported when Step runs before any Reset.
	ErrNotReset = errors.New("engine has no grid; call Reset first")
	// ErrUnassignedCell is the cause reported when a cell ends a step
	// without a valid next state.
	ErrUnassignedCell = errors.New("cell left without a next state")
)

// ConfigError reports an invalid configuration value. It is only raised at
// construction or reset time, never in the middle of a step.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrConfig) hold for any ConfigError.
func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

func configErrorf(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// DimensionMismatchError reports a Reset with a grid of the wrong shape.
type DimensionMismatchError struct {
	Want core.Extent
	Got  core.Extent
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("grid is %dx%d, engine is configured for %dx%d",
		e.Got.Rows, e.Got.Cols, e.Want.Rows, e.Want.Cols)
}

// Is makes errors.Is(err, ErrDimensionMismatch) hold.
func (e *DimensionMismatchError) Is(target error) bool { return target == ErrDimensionMismatch }

// StepFailure reports an invariant violation detected while computing a step.
// The engine keeps its previous grid, clock and metrics when this is returned.
type StepFailure struct {
	Step int
	Row  int
	Col  int
	Err  error
}

func (e *StepFailure) Error() string {
	if e.Row >= 0 && e.Col >= 0 {
		return fmt.Sprintf("step %d: cell (%d,%d): %v", e.Step, e.Row, e.Col, e.Err)
	}
	return fmt.Sprintf("step %d: %v", e.Step, e.Err)
}

// Is makes errors.Is(err, ErrStep) hold.
func (e *StepFailure) Is(target error) bool { return target == ErrStep }

// Unwrap exposes the underlying cause.
func (e *StepFailure) Unwrap() error { return e.Err }

func stepFailure(step int, err error) *StepFailure {
	return &StepFailure{Step: step, Row: -1, Col: -1, Err: err}
}
