package trader

import (
	"errors"

	"github.com/thrasher-corp/backsim/strategies"
	"github.com/thrasher-corp/backsim/strategies/base"
)

var (
	// ErrDisposed is returned when any operation is attempted on a disposed
	// trader
	ErrDisposed = errors.New("trader has been disposed")
	// ErrNilStrategy is returned when a nil strategy is supplied
	ErrNilStrategy = errors.New("received nil strategy")

	errNotRunning     = errors.New("trader is not running")
	errAlreadyRunning = errors.New("trader is already running")
	errMissingClock   = errors.New("strategy has no clock assigned")
)

// Trader coordinates strategy callbacks over the run loop. It owns no market
// state of its own, every strategy acts through the shared context
type Trader struct {
	strategies []strategies.Handler
	ctx        *base.Context
	running    bool
	disposed   bool
}
