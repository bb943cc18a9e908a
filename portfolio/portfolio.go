package portfolio

import (
	"time"

	"github.com/shopspring/decimal"
)

// NewPortfolio returns an empty portfolio
func NewPortfolio() *Portfolio {
	return &Portfolio{
		positions: make(map[string]*Position),
	}
}

// OnFill applies a fill to the net position for symbol. quantity is signed,
// positive for buys, negative for sells. Position reducing fills realise
// PNL against the average entry price and record a Trade
func (p *Portfolio) OnFill(symbol string, quantity, price decimal.Decimal, t time.Time) error {
	if quantity.IsZero() {
		return errZeroQuantity
	}
	pos, ok := p.positions[symbol]
	if !ok {
		pos = &Position{Symbol: symbol}
		p.positions[symbol] = pos
	}

	if pos.Quantity.IsZero() || pos.Quantity.Sign() == quantity.Sign() {
		// opening or increasing, weighted average entry
		totalQty := pos.Quantity.Abs().Add(quantity.Abs())
		pos.AveragePrice = pos.AveragePrice.Mul(pos.Quantity.Abs()).
			Add(price.Mul(quantity.Abs())).
			Div(totalQty)
		pos.Quantity = pos.Quantity.Add(quantity)
		return nil
	}

	// reducing, closing or flipping
	closed := decimal.Min(quantity.Abs(), pos.Quantity.Abs())
	direction := decimal.NewFromInt(int64(pos.Quantity.Sign()))
	realized := price.Sub(pos.AveragePrice).Mul(closed).Mul(direction)
	pos.RealizedPNL = pos.RealizedPNL.Add(realized)
	p.trades = append(p.trades, Trade{
		Symbol:   symbol,
		Time:     t,
		Quantity: closed,
		Price:    price,
		Realized: realized,
	})

	remainder := pos.Quantity.Add(quantity)
	if remainder.Sign() != 0 && remainder.Sign() != pos.Quantity.Sign() {
		// position flipped, remainder opens at the fill price
		pos.AveragePrice = price
	} else if remainder.IsZero() {
		pos.AveragePrice = decimal.Zero
	}
	pos.Quantity = remainder
	return nil
}

// Position returns a copy of the open position for symbol
func (p *Portfolio) Position(symbol string) (Position, bool) {
	pos, ok := p.positions[symbol]
	if !ok {
		return Position{}, false
	}
	return *pos, true
}

// Positions returns copies of every open position
func (p *Portfolio) Positions() []Position {
	resp := make([]Position, 0, len(p.positions))
	for _, pos := range p.positions {
		resp = append(resp, *pos)
	}
	return resp
}

// Trades returns every realised trade in execution order
func (p *Portfolio) Trades() []Trade {
	return p.trades
}

// UpdateEquity appends an equity snapshot and the matching market benchmark
// value at simulated time t
func (p *Portfolio) UpdateEquity(t time.Time, equity, benchmark decimal.Decimal) {
	p.equity = append(p.equity, ValueAtTime{Time: t, Value: equity})
	p.market = append(p.market, ValueAtTime{Time: t, Value: benchmark})
}

// EquityCurve returns the recorded equity snapshots, oldest first
func (p *Portfolio) EquityCurve() []ValueAtTime {
	return p.equity
}

// MarketCurve returns the recorded market benchmark values, oldest first
func (p *Portfolio) MarketCurve() []ValueAtTime {
	return p.market
}

// UnrealizedValue marks every open position against the supplied mid prices
func (p *Portfolio) UnrealizedValue(prices map[string]decimal.Decimal) decimal.Decimal {
	var total decimal.Decimal
	for symbol, pos := range p.positions {
		mid, ok := prices[symbol]
		if !ok {
			continue
		}
		total = total.Add(pos.Quantity.Mul(mid))
	}
	return total
}

// Reset clears all positions, trades and curves
func (p *Portfolio) Reset() {
	p.positions = make(map[string]*Position)
	p.trades = nil
	p.equity = nil
	p.market = nil
}
