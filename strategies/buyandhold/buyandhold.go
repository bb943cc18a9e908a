package buyandhold

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/backsim/exchange"
	"github.com/thrasher-corp/backsim/log"
	"github.com/thrasher-corp/backsim/strategies/base"
)

const (
	// Name is the strategy name
	Name        = "buyandhold"
	description = `Buys every instrument once at the first opportunity and holds to the end of the run`
)

// Strategy is an implementation of the strategies.Handler interface
type Strategy struct {
	base.Strategy
	quantity decimal.Decimal
	bought   map[string]bool
}

// New returns the strategy with a default order size
func New() *Strategy {
	return NewWithQuantity(decimal.NewFromInt(100))
}

// NewWithQuantity returns the strategy buying quantity units of each
// instrument
func NewWithQuantity(quantity decimal.Decimal) *Strategy {
	return &Strategy{
		quantity: quantity,
		bought:   make(map[string]bool),
	}
}

// Name returns the name of the strategy
func (s *Strategy) Name() string {
	return Name
}

// Description provides a nice overview of the strategy
func (s *Strategy) Description() string {
	return description
}

// OnStart clears any record of prior purchases
func (s *Strategy) OnStart(_ *base.Context) error {
	s.bought = make(map[string]bool)
	return nil
}

// OnStep submits one market buy per instrument the first time it is seen
func (s *Strategy) OnStep(_ time.Time, ctx *base.Context) error {
	if ctx == nil {
		return base.ErrNilContext
	}
	for i := range ctx.Instruments {
		symbol := ctx.Instruments[i].Symbol
		if s.bought[symbol] {
			continue
		}
		if _, err := ctx.Exchange.SubmitOrder(symbol, exchange.Buy, exchange.Market, s.quantity, decimal.Zero); err != nil {
			return err
		}
		s.bought[symbol] = true
		log.Debugf(s.Logger(), "%v bought %v %v", Name, s.quantity, symbol)
	}
	return nil
}

// Reset returns the strategy to its pre-run state
func (s *Strategy) Reset() {
	s.bought = make(map[string]bool)
	s.Strategy.Reset()
}
