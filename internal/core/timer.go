package core

import "time"

// FixedStep paces simulation steps at a steady rate that is independent of
// the render frame rate.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
}

// NewFixedStep constructs a FixedStep controller targeting the given steps per second.
func NewFixedStep(sps int) *FixedStep {
	fs := &FixedStep{}
	fs.SetRate(sps)
	fs.accumulator = fs.step
	return fs
}

// SetRate changes the step rate. Non-positive rates fall back to 10 steps per
// second, which is slow enough to follow individual colonies by eye.
func (f *FixedStep) SetRate(sps int) {
	if sps <= 0 {
		sps = 10
	}
	f.step = time.Second / time.Duration(sps)
}

// Due reports how many steps have become due at time now. At most max steps
// are reported so a stalled frame does not trigger a long catch-up burst.
func (f *FixedStep) Due(now time.Time, max int) int {
	if f.last.IsZero() {
		f.last = now
	}
	f.accumulator += now.Sub(f.last)
	f.last = now
	n := 0
	for f.accumulator >= f.step && n < max {
		f.accumulator -= f.step
		n++
	}
	if f.accumulator >= f.step {
		f.accumulator = 0
	}
	return n
}
