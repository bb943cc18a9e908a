package exchange

import (
	"errors"
	"math/rand"
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/backsim/clock"
	"github.com/thrasher-corp/backsim/config"
	"github.com/thrasher-corp/backsim/data"
	"github.com/thrasher-corp/backsim/exchange/commission"
	"github.com/thrasher-corp/backsim/portfolio"
)

// Side dictates the direction of an order
type Side string

// OrderType dictates how an order resolves against market data
type OrderType string

const (
	// Buy side
	Buy Side = "BUY"
	// Sell side
	Sell Side = "SELL"

	// Market orders fill on the next processed market step at the far touch
	Market OrderType = "MARKET"
	// Limit orders rest at a price and fill per the market model
	Limit OrderType = "LIMIT"
	// Stop orders trigger once their price is crossed, then fill per the
	// market model
	Stop OrderType = "STOP"
)

var (
	// ErrInvalidOrder is returned when a submitted order fails validation
	ErrInvalidOrder = errors.New("invalid order")
	// ErrOrderNotFound is returned when cancelling an unknown order
	ErrOrderNotFound = errors.New("order not found")

	errNotIterating = errors.New("initial iteration has not been set")
	errNilArgument  = errors.New("received nil argument")
)

// Order is a working simulated order
type Order struct {
	ID          uuid.UUID
	Symbol      string
	Side        Side
	Type        OrderType
	Quantity    decimal.Decimal
	Price       decimal.Decimal
	SubmittedAt time.Time
}

// Fill records the resolution of a simulated order into an executed trade
type Fill struct {
	OrderID    uuid.UUID
	Symbol     string
	Side       Side
	Quantity   decimal.Decimal
	Price      decimal.Decimal
	Commission decimal.Decimal
	Time       time.Time
}

// Simulated resolves orders against historical bid/ask data under a
// probabilistic market model. It owns the only pseudo-random source in a
// backtest, seeded explicitly so runs are reproducible
type Simulated struct {
	clk           *clock.Test
	model         *config.MarketModel
	com           *commission.Generic
	account       *portfolio.Account
	pf            *portfolio.Portfolio
	instruments   map[string]data.Instrument
	symbols       []string
	bars          map[string]data.BidAskBars
	index         []time.Time
	slippageTicks int64
	seed          int64
	rng           *rand.Rand

	step      time.Duration
	current   time.Time
	iteration int64
	iterating bool

	working          []*Order
	fills            []Fill
	totalCommissions decimal.Decimal
}
