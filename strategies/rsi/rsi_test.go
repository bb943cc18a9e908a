package rsi

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thrasher-corp/backsim/clock"
	"github.com/thrasher-corp/backsim/config"
	"github.com/thrasher-corp/backsim/data"
	"github.com/thrasher-corp/backsim/exchange"
	"github.com/thrasher-corp/backsim/exchange/commission"
	"github.com/thrasher-corp/backsim/portfolio"
	"github.com/thrasher-corp/backsim/strategies/base"
)

var testStart = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// makeContext builds a context over count bars trending by increment per bar
func makeContext(t *testing.T, count int, increment float64) *base.Context {
	t.Helper()
	instruments := []data.Instrument{{Symbol: "AUD/USD", TickSize: decimal.NewFromFloat(0.0001)}}
	bid := make([]data.Bar, count)
	ask := make([]data.Bar, count)
	for i := 0; i < count; i++ {
		price := decimal.NewFromFloat(1.0 + float64(i)*increment)
		at := testStart.Add(time.Duration(i) * time.Minute)
		bid[i] = data.Bar{Time: at, Open: price, High: price, Low: price, Close: price, Volume: decimal.NewFromInt(1)}
		askPrice := price.Add(decimal.NewFromFloat(0.0002))
		ask[i] = data.Bar{Time: at, Open: askPrice, High: askPrice, Low: askPrice, Close: askPrice, Volume: decimal.NewFromInt(1)}
	}
	bars := map[string]data.BidAskBars{"AUD/USD": {Bid: bid, Ask: ask}}

	last := testStart.Add(time.Duration(count-1) * time.Minute)
	clk := clock.NewTest(last)
	client, err := data.NewClient(clk, instruments, bars, nil)
	require.NoError(t, err)
	require.NoError(t, client.SetInitialIteration(last, time.Minute))

	account := portfolio.NewAccount("USD", decimal.NewFromInt(100000))
	pf := portfolio.NewPortfolio()
	com, err := commission.NewGeneric(decimal.Zero)
	require.NoError(t, err)
	exch, err := exchange.New(clk, instruments, bars,
		config.DefaultMarketModel(), com, 0, 1, account, pf)
	require.NoError(t, err)
	require.NoError(t, exch.SetInitialIteration(last, time.Minute))

	return &base.Context{
		Instruments: instruments,
		Data:        client,
		Exchange:    exch,
		Account:     account,
		Portfolio:   pf,
	}
}

func TestName(t *testing.T) {
	t.Parallel()
	s := New()
	assert.Equal(t, Name, s.Name())
	assert.NotEmpty(t, s.Description())
}

func TestOnStepNilContext(t *testing.T) {
	t.Parallel()
	s := New()
	assert.ErrorIs(t, s.OnStep(testStart, nil), base.ErrNilContext)
}

func TestOnStepInsufficientData(t *testing.T) {
	t.Parallel()
	ctx := makeContext(t, 5, 0.001)
	s := New()
	require.NoError(t, s.OnStep(testStart, ctx))
	assert.Empty(t, ctx.Exchange.WorkingOrders(), "five bars cannot feed a fourteen period indicator")
}

func TestOnStepOversoldBuys(t *testing.T) {
	t.Parallel()
	// a relentless decline pins the indicator to the floor
	ctx := makeContext(t, 40, -0.001)
	s := New()
	require.NoError(t, s.OnStep(testStart, ctx))
	orders := ctx.Exchange.WorkingOrders()
	require.Len(t, orders, 1)
	assert.Equal(t, exchange.Buy, orders[0].Side)
}

func TestOnStepOverboughtSellsLong(t *testing.T) {
	t.Parallel()
	// a relentless rally pins the indicator to the ceiling
	ctx := makeContext(t, 40, 0.001)
	s := New()

	// flat with no position, an overbought signal does nothing
	require.NoError(t, s.OnStep(testStart, ctx))
	assert.Empty(t, ctx.Exchange.WorkingOrders())

	// holding a long, the same signal exits it
	require.NoError(t, ctx.Portfolio.OnFill("AUD/USD", decimal.NewFromInt(100), decimal.NewFromInt(1), testStart))
	require.NoError(t, s.OnStep(testStart, ctx))
	orders := ctx.Exchange.WorkingOrders()
	require.Len(t, orders, 1)
	assert.Equal(t, exchange.Sell, orders[0].Side)
	assert.True(t, orders[0].Quantity.Equal(decimal.NewFromInt(100)))
}
