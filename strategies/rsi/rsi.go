package rsi

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/backsim/exchange"
	"github.com/thrasher-corp/backsim/log"
	"github.com/thrasher-corp/backsim/strategies/base"
	"github.com/thrasher-corp/gct-ta/indicators"
)

const (
	// Name is the strategy name
	Name        = "rsi"
	description = `The relative strength index is a technical indicator used in the analysis of financial markets. It is intended to chart the current and historical strength or weakness of a stock or market based on the closing prices of a recent trading period`
)

// Strategy is an implementation of the strategies.Handler interface
type Strategy struct {
	base.Strategy
	rsiPeriod int
	rsiLow    decimal.Decimal
	rsiHigh   decimal.Decimal
	quantity  decimal.Decimal
}

// New returns the strategy with the conventional period and thresholds
func New() *Strategy {
	return NewWithSettings(14, decimal.NewFromInt(30), decimal.NewFromInt(70), decimal.NewFromInt(100))
}

// NewWithSettings returns the strategy with a custom period, thresholds and
// order size
func NewWithSettings(period int, low, high, quantity decimal.Decimal) *Strategy {
	return &Strategy{
		rsiPeriod: period,
		rsiLow:    low,
		rsiHigh:   high,
		quantity:  quantity,
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

// OnStep buys when the indicator falls to the low threshold and exits any
// long position when it rises to the high threshold. Mid prices are used so
// the signal is not biased to either side of the book
func (s *Strategy) OnStep(_ time.Time, ctx *base.Context) error {
	if ctx == nil {
		return base.ErrNilContext
	}
	for i := range ctx.Instruments {
		symbol := ctx.Instruments[i].Symbol
		closes, err := ctx.Data.StreamMidClose(symbol)
		if err != nil {
			return err
		}
		if len(closes) <= s.rsiPeriod {
			continue
		}
		values := indicators.RSI(closes, s.rsiPeriod)
		latest := decimal.NewFromFloat(values[len(values)-1])
		pos, _ := ctx.Portfolio.Position(symbol)
		switch {
		case latest.GreaterThanOrEqual(s.rsiHigh) && pos.Quantity.IsPositive():
			if _, err := ctx.Exchange.SubmitOrder(symbol, exchange.Sell, exchange.Market, pos.Quantity, decimal.Zero); err != nil {
				return err
			}
			log.Debugf(s.Logger(), "%v selling %v, RSI at %v", Name, symbol, latest)
		case latest.LessThanOrEqual(s.rsiLow) && !pos.Quantity.IsPositive():
			if _, err := ctx.Exchange.SubmitOrder(symbol, exchange.Buy, exchange.Market, s.quantity, decimal.Zero); err != nil {
				return err
			}
			log.Debugf(s.Logger(), "%v buying %v, RSI at %v", Name, symbol, latest)
		}
	}
	return nil
}
