package clock

import "time"

// Clock is a read only time source
type Clock interface {
	Now() time.Time
}

// Live reads the wall clock. It is only used for measuring setup and run
// durations, never for simulated time
type Live struct{}

// Now returns the current wall clock time in UTC
func (l Live) Now() time.Time {
	return time.Now().UTC()
}

// Test is a controllable time source representing "now" inside a backtest.
// The backtest engine owns one shared instance which only its run loop may
// write to. Each strategy holds its own independent instance
type Test struct {
	current time.Time
}

// NewTest returns a controllable clock seeded with t
func NewTest(t time.Time) *Test {
	return &Test{current: t}
}

// Now returns the simulated time
func (c *Test) Now() time.Time {
	return c.current
}

// SetTime moves the simulated time to t
func (c *Test) SetTime(t time.Time) {
	c.current = t
}

// AdvanceTime moves the simulated time forward by d and returns the new time
func (c *Test) AdvanceTime(d time.Duration) time.Time {
	c.current = c.current.Add(d)
	return c.current
}
