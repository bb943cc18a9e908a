package commission

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrNegativeRate is returned when a commission model is built with a
	// negative rate
	ErrNegativeRate = errors.New("commission rate cannot be negative")

	errNegativeMinimum = errors.New("minimum commission cannot be negative")

	basisPointDivisor = decimal.NewFromInt(10000)
)

// Generic charges a flat basis point rate against filled notional value,
// optionally floored at a minimum charge per fill
type Generic struct {
	rateBps decimal.Decimal
	minimum decimal.Decimal
}

// NewGeneric returns a commission model charging rateBps basis points of
// filled notional
func NewGeneric(rateBps decimal.Decimal) (*Generic, error) {
	return NewGenericWithMinimum(rateBps, decimal.Zero)
}

// NewGenericWithMinimum returns a commission model charging rateBps basis
// points of filled notional with a minimum charge per fill
func NewGenericWithMinimum(rateBps, minimum decimal.Decimal) (*Generic, error) {
	if rateBps.IsNegative() {
		return nil, fmt.Errorf("%w, received %v", ErrNegativeRate, rateBps)
	}
	if minimum.IsNegative() {
		return nil, fmt.Errorf("%w, received %v", errNegativeMinimum, minimum)
	}
	return &Generic{rateBps: rateBps, minimum: minimum}, nil
}

// RateBps returns the configured basis point rate
func (g *Generic) RateBps() decimal.Decimal {
	return g.rateBps
}

// Calculate returns the commission for a fill of quantity at price
func (g *Generic) Calculate(quantity, price decimal.Decimal) decimal.Decimal {
	return g.CalculateForNotional(quantity.Abs().Mul(price))
}

// CalculateForNotional returns the commission for a filled notional value
func (g *Generic) CalculateForNotional(notional decimal.Decimal) decimal.Decimal {
	c := notional.Abs().Mul(g.rateBps).Div(basisPointDivisor)
	if c.LessThan(g.minimum) {
		return g.minimum
	}
	return c
}
