package data

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thrasher-corp/backsim/clock"
)

var testStart = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

func makeBars(start time.Time, count int, base float64) []Bar {
	bars := make([]Bar, count)
	for i := 0; i < count; i++ {
		price := decimal.NewFromFloat(base + float64(i)*0.01)
		bars[i] = Bar{
			Time:   start.Add(time.Duration(i) * time.Minute),
			Open:   price,
			High:   price.Add(decimal.NewFromFloat(0.02)),
			Low:    price.Sub(decimal.NewFromFloat(0.02)),
			Close:  price,
			Volume: decimal.NewFromInt(100),
		}
	}
	return bars
}

func makeBidAsk(start time.Time, count int, base, spread float64) BidAskBars {
	return BidAskBars{
		Bid: makeBars(start, count, base),
		Ask: makeBars(start, count, base+spread),
	}
}

func testInstruments() []Instrument {
	return []Instrument{{Symbol: "AUD/USD", TickSize: decimal.NewFromFloat(0.00001)}}
}

func TestSymbols(t *testing.T) {
	t.Parallel()
	assert.Empty(t, Symbols(nil))
	assert.Equal(t, []string{"AUD/USD"}, Symbols(testInstruments()))
}

func TestNewClient(t *testing.T) {
	t.Parallel()
	_, err := NewClient(nil, testInstruments(), nil, nil)
	assert.ErrorIs(t, err, errNilClock)

	clk := clock.NewTest(testStart)
	_, err = NewClient(clk, nil, nil, nil)
	assert.ErrorIs(t, err, errNoInstruments)

	_, err = NewClient(clk, testInstruments(), nil, nil)
	assert.ErrorIs(t, err, ErrDataInconsistency)

	bars := map[string]BidAskBars{"AUD/USD": makeBidAsk(testStart, 10, 0.80, 0.0001)}
	c, err := NewClient(clk, testInstruments(), bars, nil)
	require.NoError(t, err)
	assert.Len(t, c.MinuteIndex(), 10)
}

func TestNewClientMisaligned(t *testing.T) {
	t.Parallel()
	clk := clock.NewTest(testStart)
	series := makeBidAsk(testStart, 10, 0.80, 0.0001)
	series.Ask = series.Ask[:9]
	_, err := NewClient(clk, testInstruments(), map[string]BidAskBars{"AUD/USD": series}, nil)
	assert.ErrorIs(t, err, ErrDataInconsistency)

	series = makeBidAsk(testStart, 10, 0.80, 0.0001)
	series.Bid[5].Time = series.Bid[4].Time
	series.Ask[5].Time = series.Ask[4].Time
	_, err = NewClient(clk, testInstruments(), map[string]BidAskBars{"AUD/USD": series}, nil)
	assert.ErrorIs(t, err, ErrDataInconsistency, "out of order bars should fail")
}

func TestNewClientUnsortedTicks(t *testing.T) {
	t.Parallel()
	bars := map[string]BidAskBars{"AUD/USD": makeBidAsk(testStart, 5, 0.80, 0.0001)}
	ticks := map[string][]Tick{"AUD/USD": {
		{Time: testStart.Add(time.Second)},
		{Time: testStart},
	}}
	_, err := NewClient(clock.NewTest(testStart), testInstruments(), bars, ticks)
	assert.ErrorIs(t, err, ErrDataInconsistency)
}

func TestMinuteIndexIntersection(t *testing.T) {
	t.Parallel()
	instruments := []Instrument{
		{Symbol: "AUD/USD", TickSize: decimal.NewFromFloat(0.00001)},
		{Symbol: "GBP/USD", TickSize: decimal.NewFromFloat(0.00001)},
	}
	bars := map[string]BidAskBars{
		"AUD/USD": makeBidAsk(testStart, 10, 0.80, 0.0001),
		// second instrument starts five minutes later
		"GBP/USD": makeBidAsk(testStart.Add(5*time.Minute), 10, 1.60, 0.0001),
	}
	c, err := NewClient(clock.NewTest(testStart), instruments, bars, nil)
	require.NoError(t, err)
	index := c.MinuteIndex()
	require.Len(t, index, 5)
	assert.Equal(t, testStart.Add(5*time.Minute), index[0])
}

func TestSetInitialIteration(t *testing.T) {
	t.Parallel()
	bars := map[string]BidAskBars{"AUD/USD": makeBidAsk(testStart, 10, 0.80, 0.0001)}
	c, err := NewClient(clock.NewTest(testStart), testInstruments(), bars, nil)
	require.NoError(t, err)

	err = c.SetInitialIteration(testStart, 0)
	assert.ErrorIs(t, err, errInvalidStep)

	err = c.SetInitialIteration(testStart.Add(-time.Minute), time.Minute)
	assert.ErrorIs(t, err, errStartOutOfBounds)

	err = c.SetInitialIteration(testStart.Add(20*time.Minute), time.Minute)
	assert.ErrorIs(t, err, errStartOutOfBounds)

	require.NoError(t, c.SetInitialIteration(testStart, time.Minute))
	assert.Equal(t, testStart, c.TimeNow())
	assert.Zero(t, c.Iteration())
	assert.Equal(t, 1, c.Offset())
}

func TestIterate(t *testing.T) {
	t.Parallel()
	bars := map[string]BidAskBars{"AUD/USD": makeBidAsk(testStart, 10, 0.80, 0.0001)}
	c, err := NewClient(clock.NewTest(testStart), testInstruments(), bars, nil)
	require.NoError(t, err)

	_, err = c.Iterate()
	assert.ErrorIs(t, err, errNotIterating)

	require.NoError(t, c.SetInitialIteration(testStart, time.Minute))
	now, err := c.Iterate()
	require.NoError(t, err)
	assert.Equal(t, testStart.Add(time.Minute), now)
	assert.Equal(t, int64(1), c.Iteration())
	assert.Equal(t, 2, c.Offset())

	for i := 0; i < 5; i++ {
		_, err = c.Iterate()
		require.NoError(t, err)
	}
	assert.Equal(t, int64(6), c.Iteration())
	assert.Equal(t, testStart.Add(6*time.Minute), c.TimeNow())
}

func TestLatestBars(t *testing.T) {
	t.Parallel()
	bars := map[string]BidAskBars{"AUD/USD": makeBidAsk(testStart, 10, 0.80, 0.0001)}
	clk := clock.NewTest(testStart.Add(-time.Minute))
	c, err := NewClient(clk, testInstruments(), bars, nil)
	require.NoError(t, err)

	_, err = c.LatestBidBar("USD/JPY")
	assert.ErrorIs(t, err, ErrUnknownSymbol)

	// nothing precedes the clock yet
	_, err = c.LatestBidBar("AUD/USD")
	assert.ErrorIs(t, err, ErrNoData)

	clk.SetTime(testStart.Add(3 * time.Minute))
	bid, err := c.LatestBidBar("AUD/USD")
	require.NoError(t, err)
	assert.Equal(t, testStart.Add(3*time.Minute), bid.Time)

	ask, err := c.LatestAskBar("AUD/USD")
	require.NoError(t, err)
	assert.True(t, ask.Close.GreaterThan(bid.Close), "ask should sit above bid")
}

// The iteration cursor runs one step ahead of strategy callbacks within an
// engine step, so lookups must answer from the shared clock, never the
// cursor
func TestLatestBarsBoundedByClock(t *testing.T) {
	t.Parallel()
	bars := map[string]BidAskBars{"AUD/USD": makeBidAsk(testStart, 10, 0.80, 0.0001)}
	clk := clock.NewTest(testStart.Add(3 * time.Minute))
	c, err := NewClient(clk, testInstruments(), bars, nil)
	require.NoError(t, err)

	require.NoError(t, c.SetInitialIteration(testStart.Add(3*time.Minute), time.Minute))
	_, err = c.Iterate()
	require.NoError(t, err)
	require.Equal(t, testStart.Add(4*time.Minute), c.TimeNow())

	bid, err := c.LatestBidBar("AUD/USD")
	require.NoError(t, err)
	assert.Equal(t, testStart.Add(3*time.Minute), bid.Time,
		"advancing the cursor must not expose bars past the clock")

	closes, err := c.StreamMidClose("AUD/USD")
	require.NoError(t, err)
	assert.Len(t, closes, 4)
}

func TestStreamMidClose(t *testing.T) {
	t.Parallel()
	bars := map[string]BidAskBars{"AUD/USD": makeBidAsk(testStart, 10, 0.80, 0.0002)}
	c, err := NewClient(clock.NewTest(testStart.Add(4*time.Minute)), testInstruments(), bars, nil)
	require.NoError(t, err)

	_, err = c.StreamMidClose("USD/JPY")
	assert.ErrorIs(t, err, ErrUnknownSymbol)

	closes, err := c.StreamMidClose("AUD/USD")
	require.NoError(t, err)
	require.Len(t, closes, 5)
	assert.InDelta(t, 0.8001, closes[0], 1e-9)
}

func TestTicksBoundedByClock(t *testing.T) {
	t.Parallel()
	bars := map[string]BidAskBars{"AUD/USD": makeBidAsk(testStart, 5, 0.80, 0.0001)}
	ticks := map[string][]Tick{"AUD/USD": {
		{Time: testStart},
		{Time: testStart.Add(30 * time.Second)},
		{Time: testStart.Add(2 * time.Minute)},
	}}
	clk := clock.NewTest(testStart.Add(time.Minute))
	c, err := NewClient(clk, testInstruments(), bars, ticks)
	require.NoError(t, err)

	assert.Empty(t, c.Ticks("USD/JPY"))
	assert.Len(t, c.Ticks("AUD/USD"), 2)

	clk.SetTime(testStart.Add(2 * time.Minute))
	assert.Len(t, c.Ticks("AUD/USD"), 3)
}

func TestReset(t *testing.T) {
	t.Parallel()
	bars := map[string]BidAskBars{"AUD/USD": makeBidAsk(testStart, 10, 0.80, 0.0001)}
	c, err := NewClient(clock.NewTest(testStart), testInstruments(), bars, nil)
	require.NoError(t, err)
	require.NoError(t, c.SetInitialIteration(testStart, time.Minute))
	_, err = c.Iterate()
	require.NoError(t, err)

	c.Reset()
	assert.Zero(t, c.Iteration())
	assert.True(t, c.TimeNow().IsZero())
	assert.Len(t, c.MinuteIndex(), 10, "loaded data should survive a reset")
	_, err = c.Iterate()
	assert.ErrorIs(t, err, errNotIterating)
}
