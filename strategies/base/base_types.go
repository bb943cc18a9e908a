package base

import (
	"errors"

	"github.com/thrasher-corp/backsim/clock"
	"github.com/thrasher-corp/backsim/data"
	"github.com/thrasher-corp/backsim/exchange"
	"github.com/thrasher-corp/backsim/log"
	"github.com/thrasher-corp/backsim/portfolio"
)

var (
	// ErrStrategyNotFound is returned when a strategy cannot be located by
	// name
	ErrStrategyNotFound = errors.New("strategy not found")
	// ErrNilContext is returned when a strategy callback receives no context
	ErrNilContext = errors.New("received nil strategy context")
)

// Context carries the collaborators a strategy may consult and act through
// during its callbacks
type Context struct {
	Instruments []data.Instrument
	Data        *data.Client
	Exchange    *exchange.Simulated
	Account     *portfolio.Account
	Portfolio   *portfolio.Portfolio
}

// Strategy holds the plumbing common to all strategies. Each strategy owns
// its own clock instance which the run loop keeps in step with the engine's
type Strategy struct {
	clk    *clock.Test
	logger *log.SubLogger
}
