package engine

import (
	"errors"
	"time"

	"github.com/gofrs/uuid"
	"github.com/thrasher-corp/backsim/clock"
	"github.com/thrasher-corp/backsim/config"
	"github.com/thrasher-corp/backsim/data"
	"github.com/thrasher-corp/backsim/exchange"
	"github.com/thrasher-corp/backsim/portfolio"
	"github.com/thrasher-corp/backsim/strategies/base"
	"github.com/thrasher-corp/backsim/trader"
)

var (
	// ErrInvalidArgument is returned when a run is requested with arguments
	// failing the preconditions. No state is mutated on this error
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrDisposed is returned by every operation after Dispose
	ErrDisposed = errors.New("backtest has been disposed")
	// ErrNilStrategy is returned when a strategy collection contains a nil
	// entry
	ErrNilStrategy = errors.New("received nil strategy")
	// ErrInvalidInstrument is returned when an instrument fails validation
	ErrInvalidInstrument = errors.New("invalid instrument")

	errNilSettings = errors.New("received nil settings")
	errNoRunYet    = errors.New("no run has been performed")
)

// BackTest composes the data, execution and strategy collaborators under a
// single shared simulated clock. Only the run loop writes to that clock
type BackTest struct {
	runID    uuid.UUID
	settings *config.Settings

	clk      *clock.Test
	data     *data.Client
	exchange *exchange.Simulated
	account  *portfolio.Account
	pf       *portfolio.Portfolio
	trader   *trader.Trader
	ctx      *base.Context

	index []time.Time

	setupDuration time.Duration
	lastStep      time.Duration
	disposed      bool
}
