package trader

import (
	"fmt"
	"time"

	"github.com/thrasher-corp/backsim/log"
	"github.com/thrasher-corp/backsim/strategies"
	"github.com/thrasher-corp/backsim/strategies/base"
)

// New returns a trader over the supplied context and strategies. An empty
// strategy set is valid, the trader simply has nothing to do each step
func New(ctx *base.Context, strats []strategies.Handler) (*Trader, error) {
	if ctx == nil {
		return nil, base.ErrNilContext
	}
	for i := range strats {
		if strats[i] == nil {
			return nil, fmt.Errorf("%w at index %v", ErrNilStrategy, i)
		}
	}
	return &Trader{
		strategies: strats,
		ctx:        ctx,
	}, nil
}

// Start notifies every strategy the run is beginning
func (t *Trader) Start() error {
	if t.disposed {
		return ErrDisposed
	}
	if t.running {
		return errAlreadyRunning
	}
	for i := range t.strategies {
		if err := t.strategies[i].OnStart(t.ctx); err != nil {
			return fmt.Errorf("strategy %v start: %w", t.strategies[i].Name(), err)
		}
	}
	t.running = true
	return nil
}

// Step advances every strategy's clock to now then delivers the step
// callback, in registration order so runs are reproducible
func (t *Trader) Step(now time.Time) error {
	if t.disposed {
		return ErrDisposed
	}
	if !t.running {
		return errNotRunning
	}
	for i := range t.strategies {
		clk := t.strategies[i].Clock()
		if clk == nil {
			return fmt.Errorf("%w: strategy %v", errMissingClock, t.strategies[i].Name())
		}
		clk.SetTime(now)
		if err := t.strategies[i].OnStep(now, t.ctx); err != nil {
			return fmt.Errorf("strategy %v step: %w", t.strategies[i].Name(), err)
		}
	}
	return nil
}

// Stop notifies every strategy the run has completed
func (t *Trader) Stop() error {
	if t.disposed {
		return ErrDisposed
	}
	if !t.running {
		return errNotRunning
	}
	for i := range t.strategies {
		if err := t.strategies[i].OnStop(t.ctx); err != nil {
			return fmt.Errorf("strategy %v stop: %w", t.strategies[i].Name(), err)
		}
	}
	t.running = false
	return nil
}

// Reset returns the trader and every strategy to the pre-run state
func (t *Trader) Reset() error {
	if t.disposed {
		return ErrDisposed
	}
	for i := range t.strategies {
		t.strategies[i].Reset()
	}
	t.running = false
	return nil
}

// ChangeStrategies swaps the strategy set. Rejected while a run is in
// progress
func (t *Trader) ChangeStrategies(strats []strategies.Handler) error {
	if t.disposed {
		return ErrDisposed
	}
	if t.running {
		return errAlreadyRunning
	}
	for i := range strats {
		if strats[i] == nil {
			return fmt.Errorf("%w at index %v", ErrNilStrategy, i)
		}
	}
	t.strategies = strats
	return nil
}

// Strategies returns the current strategy set
func (t *Trader) Strategies() []strategies.Handler {
	resp := make([]strategies.Handler, len(t.strategies))
	copy(resp, t.strategies)
	return resp
}

// Running reports whether a run is in progress
func (t *Trader) Running() bool {
	return t.running
}

// Dispose permanently retires the trader. Every subsequent operation
// returns ErrDisposed
func (t *Trader) Dispose() {
	if t.disposed {
		return
	}
	t.running = false
	t.disposed = true
	t.strategies = nil
	log.Debug(log.TraderLog, "trader disposed")
}

// Disposed reports whether the trader has been disposed
func (t *Trader) Disposed() bool {
	return t.disposed
}
