package portfolio

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNoPosition is returned when closing activity references a symbol
	// with no open position
	ErrNoPosition = errors.New("no open position")

	errZeroQuantity = errors.New("fill quantity cannot be zero")
)

// Account is a simple cash ledger in a single denomination currency.
// Only the simulated exchange credits and debits it
type Account struct {
	currency string
	starting decimal.Decimal
	balance  decimal.Decimal
}

// Position is the open net position for one instrument. Quantity is
// signed, negative meaning short
type Position struct {
	Symbol       string
	Quantity     decimal.Decimal
	AveragePrice decimal.Decimal
	RealizedPNL  decimal.Decimal
}

// Trade records the realised result of position reducing activity
type Trade struct {
	Symbol   string
	Time     time.Time
	Quantity decimal.Decimal
	Price    decimal.Decimal
	Realized decimal.Decimal
}

// ValueAtTime is a snapshot of a value at a simulated instant
type ValueAtTime struct {
	Time  time.Time
	Value decimal.Decimal
}

// Portfolio tracks open positions, realised trades and the equity curve
// across a backtest run
type Portfolio struct {
	positions map[string]*Position
	trades    []Trade
	equity    []ValueAtTime
	market    []ValueAtTime
}
