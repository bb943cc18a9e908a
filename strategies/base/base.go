package base

import (
	"github.com/thrasher-corp/backsim/clock"
	"github.com/thrasher-corp/backsim/log"
)

// SetClock assigns the strategy its own simulated clock
func (s *Strategy) SetClock(clk *clock.Test) {
	s.clk = clk
}

// Clock returns the strategy's simulated clock
func (s *Strategy) Clock() *clock.Test {
	return s.clk
}

// SetLogger assigns the sub logger the strategy reports through
func (s *Strategy) SetLogger(sl *log.SubLogger) {
	s.logger = sl
}

// Logger returns the strategy's sub logger, defaulting to the shared
// strategy sub logger when none has been assigned
func (s *Strategy) Logger() *log.SubLogger {
	if s.logger == nil {
		return log.StrategyLog
	}
	return s.logger
}

// OnStart is called once before the run loop begins. The base implementation
// does nothing
func (s *Strategy) OnStart(_ *Context) error {
	return nil
}

// OnStop is called once after the run loop completes. The base implementation
// does nothing
func (s *Strategy) OnStop(_ *Context) error {
	return nil
}

// Reset returns the strategy plumbing to its pre-run state
func (s *Strategy) Reset() {
	s.clk = nil
}
