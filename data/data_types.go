package data

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/thrasher-corp/backsim/clock"
)

var (
	// ErrDataInconsistency is returned when supplied historical data
	// violates its ordering or alignment invariants, or when collaborator
	// minute indices disagree
	ErrDataInconsistency = errors.New("historical data inconsistency")
	// ErrUnknownSymbol is returned when data is requested for a symbol
	// outside the loaded universe
	ErrUnknownSymbol = errors.New("unknown symbol")
	// ErrNoData is returned when a lookup has no bar at or before the
	// current simulated time
	ErrNoData = errors.New("no data available")

	errNilClock         = errors.New("clock is nil")
	errNoInstruments    = errors.New("no instruments supplied")
	errNotIterating     = errors.New("initial iteration has not been set")
	errInvalidStep      = errors.New("step must be positive")
	errStartOutOfBounds = errors.New("start outside the data minute index")
)

// Instrument identifies a tradable instrument and its price increment
type Instrument struct {
	Symbol   string
	TickSize decimal.Decimal
}

// Bar is a single OHLCV bar for one side of the book
type Bar struct {
	Time   time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume decimal.Decimal
}

// Tick is a single top of book quote
type Tick struct {
	Time time.Time
	Bid  decimal.Decimal
	Ask  decimal.Decimal
}

// BidAskBars holds aligned bid and ask bar series for one instrument at
// minute resolution
type BidAskBars struct {
	Bid []Bar
	Ask []Bar
}

// Client replays pre-loaded historical data against a stepwise iteration
// cursor. It never performs I/O during iteration. Lookups serving strategy
// callbacks are bounded by the shared simulated clock rather than the
// iteration cursor, as the cursor is advanced ahead of callbacks within a
// step
type Client struct {
	clk       *clock.Test
	symbols   []string
	bars      map[string]BidAskBars
	ticks     map[string][]Tick
	index     []time.Time
	step      time.Duration
	current   time.Time
	offset    int
	iteration int64
	iterating bool
}
