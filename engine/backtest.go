package engine

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/backsim/clock"
	"github.com/thrasher-corp/backsim/data"
	"github.com/thrasher-corp/backsim/log"
	"github.com/thrasher-corp/backsim/statistics"
	"github.com/thrasher-corp/backsim/strategies"
)

// Run replays the data between start and stop inclusive, advancing the
// shared clock by step each iteration. Each iteration processes the market,
// advances both collaborator cursors, then delivers the step callback to
// every strategy in stable order. Preconditions fail with ErrInvalidArgument
// before any state is mutated
func (bt *BackTest) Run(start, stop time.Time, step time.Duration) error {
	if bt.disposed {
		return ErrDisposed
	}
	if step <= 0 {
		return fmt.Errorf("%w: step %v must be positive", ErrInvalidArgument, step)
	}
	if !start.Before(stop) {
		return fmt.Errorf("%w: start %v must precede stop %v", ErrInvalidArgument, start, stop)
	}
	if start.Before(bt.index[0]) {
		return fmt.Errorf("%w: start %v precedes first data timestamp %v", ErrInvalidArgument, start, bt.index[0])
	}
	if stop.After(bt.index[len(bt.index)-1]) {
		return fmt.Errorf("%w: stop %v exceeds last data timestamp %v", ErrInvalidArgument, stop, bt.index[len(bt.index)-1])
	}

	live := clock.Live{}
	runStart := live.Now()
	bt.lastStep = step

	bt.clk.SetTime(start)
	substituteStrategyPlumbing(bt.trader.Strategies(), bt.clk)

	if err := bt.trader.Start(); err != nil {
		return err
	}

	if err := bt.data.SetInitialIteration(start, step); err != nil {
		return bt.abortRun(err)
	}
	if err := bt.exchange.SetInitialIteration(start, step); err != nil {
		return bt.abortRun(err)
	}
	if !bt.data.TimeNow().Equal(start) || !bt.exchange.TimeNow().Equal(start) ||
		bt.data.Iteration() != bt.exchange.Iteration() {
		return bt.abortRun(fmt.Errorf("%w: collaborators disagree after cursor initialisation", data.ErrDataInconsistency))
	}

	for now := start; !now.After(stop); now = now.Add(step) {
		bt.clk.SetTime(now)
		if err := bt.exchange.ProcessMarket(); err != nil {
			return bt.abortRun(err)
		}
		if _, err := bt.data.Iterate(); err != nil {
			return bt.abortRun(err)
		}
		if _, err := bt.exchange.Iterate(); err != nil {
			return bt.abortRun(err)
		}
		if err := bt.trader.Step(now); err != nil {
			return bt.abortRun(err)
		}
	}

	if err := bt.trader.Stop(); err != nil {
		return err
	}

	log.Infof(log.EngineLog,
		"backtest %v complete: setup %v, run %v, iterations %v, balance %v -> %v %v, commissions %v",
		bt.runID, bt.setupDuration, live.Now().Sub(runStart), bt.exchange.Iteration(),
		bt.account.StartingBalance(), bt.account.Balance(), bt.account.Currency(),
		bt.exchange.TotalCommissions())
	return nil
}

// abortRun stops the coordinator after a mid-run failure so a later Run is
// not rejected by a coordinator still marked running
func (bt *BackTest) abortRun(err error) error {
	if stopErr := bt.trader.Stop(); stopErr != nil {
		return fmt.Errorf("%w, additionally failed to stop coordinator: %v", err, stopErr)
	}
	return err
}

// ChangeStrategies swaps the strategy set, re-applying the clock and logger
// substitution. A fresh Run is needed for the change to affect simulated
// state
func (bt *BackTest) ChangeStrategies(strats []strategies.Handler) error {
	if bt.disposed {
		return ErrDisposed
	}
	for i := range strats {
		if strats[i] == nil {
			return fmt.Errorf("%w at index %v", ErrNilStrategy, i)
		}
	}
	substituteStrategyPlumbing(strats, bt.clk)
	return bt.trader.ChangeStrategies(strats)
}

// Reset returns the backtest to a state equivalent to post construction,
// retaining configuration, data and wiring. Collaborators are reset in
// data, execution, coordinator order
func (bt *BackTest) Reset() error {
	if bt.disposed {
		return ErrDisposed
	}
	bt.data.Reset()
	bt.exchange.Reset()
	if err := bt.trader.Reset(); err != nil {
		return err
	}
	bt.lastStep = 0
	return nil
}

// Dispose permanently retires the backtest. Terminal, every subsequent
// operation returns ErrDisposed
func (bt *BackTest) Dispose() {
	if bt.disposed {
		return
	}
	bt.trader.Dispose()
	bt.disposed = true
	log.Debugf(log.EngineLog, "backtest %v disposed", bt.runID)
}

// PerformanceStats returns the named performance metrics for the most
// recent run
func (bt *BackTest) PerformanceStats() (map[string]float64, error) {
	if bt.disposed {
		return nil, ErrDisposed
	}
	if bt.lastStep == 0 {
		return nil, errNoRunYet
	}
	analyzer, err := statistics.New(bt.pf, bt.lastStep, 0)
	if err != nil {
		return nil, err
	}
	return analyzer.PerformanceStats()
}

// RunID identifies this backtest instance in diagnostics
func (bt *BackTest) RunID() uuid.UUID {
	return bt.runID
}

// SetupDuration reports how long construction took
func (bt *BackTest) SetupDuration() time.Duration {
	return bt.setupDuration
}

// Balance returns the account's current cash balance
func (bt *BackTest) Balance() decimal.Decimal {
	return bt.account.Balance()
}

// TotalCommissions returns the execution collaborator's running commission
// total
func (bt *BackTest) TotalCommissions() decimal.Decimal {
	return bt.exchange.TotalCommissions()
}

// Iteration returns the execution collaborator's iteration count
func (bt *BackTest) Iteration() int64 {
	return bt.exchange.Iteration()
}

// Strategies returns the coordinator's active strategy set
func (bt *BackTest) Strategies() []strategies.Handler {
	return bt.trader.Strategies()
}
