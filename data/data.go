package data

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/thrasher-corp/backsim/clock"
)

// Symbols returns the symbols of the supplied instruments in order
func Symbols(instruments []Instrument) []string {
	symbols := make([]string, len(instruments))
	for i := range instruments {
		symbols[i] = instruments[i].Symbol
	}
	return symbols
}

// NewClient validates the supplied historical data and builds the data
// minute index, the sorted set of minute timestamps common to every
// instrument. All data must be pre-loaded, iteration never touches I/O.
// clk is the shared simulated clock bounding what lookups may see
func NewClient(clk *clock.Test, instruments []Instrument, bars map[string]BidAskBars, ticks map[string][]Tick) (*Client, error) {
	if clk == nil {
		return nil, errNilClock
	}
	if len(instruments) == 0 {
		return nil, errNoInstruments
	}
	symbols := Symbols(instruments)
	for _, s := range symbols {
		series, ok := bars[s]
		if !ok || len(series.Bid) == 0 {
			return nil, fmt.Errorf("%w: no bar data for %v", ErrDataInconsistency, s)
		}
		if err := validateAligned(s, series); err != nil {
			return nil, err
		}
		if err := validateTicksSorted(s, ticks[s]); err != nil {
			return nil, err
		}
	}

	index := BuildMinuteIndex(symbols, bars)
	if len(index) == 0 {
		return nil, fmt.Errorf("%w: instruments share no common timestamps", ErrDataInconsistency)
	}

	return &Client{
		clk:     clk,
		symbols: symbols,
		bars:    bars,
		ticks:   ticks,
		index:   index,
	}, nil
}

func validateAligned(symbol string, series BidAskBars) error {
	if len(series.Bid) != len(series.Ask) {
		return fmt.Errorf("%w: %v bid/ask bar counts differ", ErrDataInconsistency, symbol)
	}
	for i := range series.Bid {
		if !series.Bid[i].Time.Equal(series.Ask[i].Time) {
			return fmt.Errorf("%w: %v bid/ask timestamps differ at %v", ErrDataInconsistency, symbol, i)
		}
		if i == 0 {
			continue
		}
		if !series.Bid[i].Time.After(series.Bid[i-1].Time) {
			return fmt.Errorf("%w: %v bars out of order at %v", ErrDataInconsistency, symbol, series.Bid[i].Time)
		}
	}
	return nil
}

func validateTicksSorted(symbol string, ticks []Tick) error {
	for i := 1; i < len(ticks); i++ {
		if ticks[i].Time.Before(ticks[i-1].Time) {
			return fmt.Errorf("%w: %v ticks out of order at %v", ErrDataInconsistency, symbol, ticks[i].Time)
		}
	}
	return nil
}

// BuildMinuteIndex derives the ordered set of minute timestamps present in
// every supplied instrument's bar series
func BuildMinuteIndex(symbols []string, bars map[string]BidAskBars) []time.Time {
	counts := make(map[time.Time]int)
	for _, s := range symbols {
		for i := range bars[s].Bid {
			counts[bars[s].Bid[i].Time] = counts[bars[s].Bid[i].Time] + 1
		}
	}
	index := make([]time.Time, 0, len(counts))
	for t, c := range counts {
		if c == len(symbols) {
			index = append(index, t)
		}
	}
	sort.Slice(index, func(i, j int) bool { return index[i].Before(index[j]) })
	return index
}

// MinuteIndex returns the ordered set of minute timestamps at which replay
// steps occur
func (c *Client) MinuteIndex() []time.Time {
	return c.index
}

// SetInitialIteration moves the iteration cursor to start with the supplied
// step size and resets the iteration counter. It forces the client's
// simulated time view to start
func (c *Client) SetInitialIteration(start time.Time, step time.Duration) error {
	if step <= 0 {
		return fmt.Errorf("%w, received %v", errInvalidStep, step)
	}
	if start.Before(c.index[0]) || start.After(c.index[len(c.index)-1]) {
		return fmt.Errorf("%w: %v", errStartOutOfBounds, start)
	}
	c.step = step
	c.current = start
	c.offset = c.countVisible(start)
	c.iteration = 0
	c.iterating = true
	return nil
}

// Iterate advances the cursor one step, returning the new simulated time
// view. The caller drives iteration, one call per engine step
func (c *Client) Iterate() (time.Time, error) {
	if !c.iterating {
		return time.Time{}, errNotIterating
	}
	c.current = c.current.Add(c.step)
	c.offset = c.countVisible(c.current)
	c.iteration++
	return c.current, nil
}

// TimeNow returns the client's view of the current simulated time
func (c *Client) TimeNow() time.Time {
	return c.current
}

// Iteration returns the running iteration count since the last
// SetInitialIteration
func (c *Client) Iteration() int64 {
	return c.iteration
}

// Offset returns how many minute index entries are visible at the current
// simulated time
func (c *Client) Offset() int {
	return c.offset
}

// Reset returns the client to its post construction state, retaining the
// loaded data and minute index
func (c *Client) Reset() {
	c.step = 0
	c.current = time.Time{}
	c.offset = 0
	c.iteration = 0
	c.iterating = false
}

// countVisible returns the number of index entries at or before t
func (c *Client) countVisible(t time.Time) int {
	return sort.Search(len(c.index), func(i int) bool {
		return c.index[i].After(t)
	})
}

// LatestBidBar returns the latest bid bar at or before the shared
// simulated time for symbol
func (c *Client) LatestBidBar(symbol string) (Bar, error) {
	series, ok := c.bars[symbol]
	if !ok {
		return Bar{}, fmt.Errorf("%w %v", ErrUnknownSymbol, symbol)
	}
	return LatestBarAt(series.Bid, c.clk.Now())
}

// LatestAskBar returns the latest ask bar at or before the shared
// simulated time for symbol
func (c *Client) LatestAskBar(symbol string) (Bar, error) {
	series, ok := c.bars[symbol]
	if !ok {
		return Bar{}, fmt.Errorf("%w %v", ErrUnknownSymbol, symbol)
	}
	return LatestBarAt(series.Ask, c.clk.Now())
}

// LatestBarAt returns the latest bar at or before t from a sorted series
func LatestBarAt(bars []Bar, t time.Time) (Bar, error) {
	i := sort.Search(len(bars), func(i int) bool {
		return bars[i].Time.After(t)
	})
	if i == 0 {
		return Bar{}, ErrNoData
	}
	return bars[i-1], nil
}

// StreamMidClose returns the mid close price of every bar visible at the
// shared simulated time for symbol, oldest first. Useful as indicator input
func (c *Client) StreamMidClose(symbol string) ([]float64, error) {
	series, ok := c.bars[symbol]
	if !ok {
		return nil, fmt.Errorf("%w %v", ErrUnknownSymbol, symbol)
	}
	now := c.clk.Now()
	visible := sort.Search(len(series.Bid), func(i int) bool {
		return series.Bid[i].Time.After(now)
	})
	two := decimal.NewFromInt(2)
	closes := make([]float64, visible)
	for i := 0; i < visible; i++ {
		mid := series.Bid[i].Close.Add(series.Ask[i].Close).Div(two)
		closes[i] = mid.InexactFloat64()
	}
	return closes, nil
}

// Ticks returns the tick series for symbol up to and including the shared
// simulated time, which may be empty
func (c *Client) Ticks(symbol string) []Tick {
	ticks := c.ticks[symbol]
	now := c.clk.Now()
	visible := sort.Search(len(ticks), func(i int) bool {
		return ticks[i].Time.After(now)
	})
	return ticks[:visible]
}
