package script

import (
	"errors"
	"fmt"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/backsim/exchange"
	"github.com/thrasher-corp/backsim/log"
	"github.com/thrasher-corp/backsim/strategies/base"
)

const (
	// Name is the strategy name
	Name        = "script"
	description = `Delegates the trading decision to a user supplied script, evaluated once per instrument per step`

	signalBuy  = "BUY"
	signalSell = "SELL"
)

var (
	// ErrNoSource is returned when the strategy is built without script
	// source
	ErrNoSource = errors.New("no script source provided")

	errNotCompiled = errors.New("script has not been compiled")
)

// Strategy evaluates a Tengo script each step. The script receives the
// variables symbol, mid, position and quantity and communicates its decision
// by assigning signal to "BUY" or "SELL"
type Strategy struct {
	base.Strategy
	scriptName string
	source     []byte
	quantity   decimal.Decimal
	compiled   *tengo.Compiled
}

// New returns the strategy wrapping the supplied script source
func New(scriptName string, source []byte, quantity decimal.Decimal) (*Strategy, error) {
	if len(source) == 0 {
		return nil, ErrNoSource
	}
	return &Strategy{
		scriptName: scriptName,
		source:     source,
		quantity:   quantity,
	}, nil
}

// Name returns the name of the strategy
func (s *Strategy) Name() string {
	return Name
}

// Description provides a nice overview of the strategy
func (s *Strategy) Description() string {
	return description
}

// OnStart compiles the script once so each step only re-runs it with fresh
// inputs
func (s *Strategy) OnStart(_ *base.Context) error {
	script := tengo.NewScript(s.source)
	for name, v := range map[string]interface{}{
		"symbol":   "",
		"mid":      0.0,
		"position": 0.0,
		"quantity": 0.0,
		"signal":   "",
	} {
		if err := script.Add(name, v); err != nil {
			return fmt.Errorf("script %v: %w", s.scriptName, err)
		}
	}
	compiled, err := script.Compile()
	if err != nil {
		return fmt.Errorf("script %v: %w", s.scriptName, err)
	}
	s.compiled = compiled
	return nil
}

// OnStep runs the script per instrument and translates its signal into a
// market order
func (s *Strategy) OnStep(_ time.Time, ctx *base.Context) error {
	if ctx == nil {
		return base.ErrNilContext
	}
	if s.compiled == nil {
		return errNotCompiled
	}
	for i := range ctx.Instruments {
		symbol := ctx.Instruments[i].Symbol
		closes, err := ctx.Data.StreamMidClose(symbol)
		if err != nil {
			return err
		}
		if len(closes) == 0 {
			continue
		}
		pos, _ := ctx.Portfolio.Position(symbol)
		posQty, _ := pos.Quantity.Float64()
		orderQty, _ := s.quantity.Float64()

		run := s.compiled.Clone()
		for name, v := range map[string]interface{}{
			"symbol":   symbol,
			"mid":      closes[len(closes)-1],
			"position": posQty,
			"quantity": orderQty,
			"signal":   "",
		} {
			if err := run.Set(name, v); err != nil {
				return fmt.Errorf("script %v: %w", s.scriptName, err)
			}
		}
		if err := run.Run(); err != nil {
			return fmt.Errorf("script %v: %w", s.scriptName, err)
		}

		switch run.Get("signal").String() {
		case signalBuy:
			if _, err := ctx.Exchange.SubmitOrder(symbol, exchange.Buy, exchange.Market, s.quantity, decimal.Zero); err != nil {
				return err
			}
			log.Debugf(s.Logger(), "script %v buying %v %v", s.scriptName, s.quantity, symbol)
		case signalSell:
			if !pos.Quantity.IsPositive() {
				continue
			}
			if _, err := ctx.Exchange.SubmitOrder(symbol, exchange.Sell, exchange.Market, pos.Quantity, decimal.Zero); err != nil {
				return err
			}
			log.Debugf(s.Logger(), "script %v selling %v %v", s.scriptName, pos.Quantity, symbol)
		}
	}
	return nil
}

// Reset discards the compiled script so the next start recompiles it
func (s *Strategy) Reset() {
	s.compiled = nil
	s.Strategy.Reset()
}
