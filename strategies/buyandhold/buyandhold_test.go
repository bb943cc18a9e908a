package buyandhold

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

func makeContext(t *testing.T) *base.Context {
	t.Helper()
	instruments := []data.Instrument{
		{Symbol: "AUD/USD", TickSize: decimal.NewFromFloat(0.0001)},
		{Symbol: "EUR/USD", TickSize: decimal.NewFromFloat(0.0001)},
	}
	bars := make(map[string]data.BidAskBars, len(instruments))
	for _, inst := range instruments {
		bid := make([]data.Bar, 30)
		ask := make([]data.Bar, 30)
		for i := 0; i < 30; i++ {
			price := decimal.NewFromFloat(1.0 + float64(i)*0.001)
			at := testStart.Add(time.Duration(i) * time.Minute)
			bid[i] = data.Bar{Time: at, Open: price, High: price, Low: price, Close: price, Volume: decimal.NewFromInt(1)}
			askPrice := price.Add(decimal.NewFromFloat(0.0002))
			ask[i] = data.Bar{Time: at, Open: askPrice, High: askPrice, Low: askPrice, Close: askPrice, Volume: decimal.NewFromInt(1)}
		}
		bars[inst.Symbol] = data.BidAskBars{Bid: bid, Ask: ask}
	}

	clk := clock.NewTest(testStart)
	client, err := data.NewClient(clk, instruments, bars, nil)
	require.NoError(t, err)
	require.NoError(t, client.SetInitialIteration(testStart, time.Minute))

	account := portfolio.NewAccount("USD", decimal.NewFromInt(100000))
	pf := portfolio.NewPortfolio()
	com, err := commission.NewGeneric(decimal.Zero)
	require.NoError(t, err)
	exch, err := exchange.New(clk, instruments, bars,
		config.DefaultMarketModel(), com, 0, 1, account, pf)
	require.NoError(t, err)
	require.NoError(t, exch.SetInitialIteration(testStart, time.Minute))

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

func TestOnStep(t *testing.T) {
	t.Parallel()
	ctx := makeContext(t)
	s := New()
	require.NoError(t, s.OnStart(ctx))

	assert.ErrorIs(t, s.OnStep(testStart, nil), base.ErrNilContext)

	require.NoError(t, s.OnStep(testStart, ctx))
	assert.Len(t, ctx.Exchange.WorkingOrders(), 2, "one buy per instrument")

	// a second step must not buy again
	require.NoError(t, s.OnStep(testStart.Add(time.Minute), ctx))
	assert.Len(t, ctx.Exchange.WorkingOrders(), 2)

	require.NoError(t, ctx.Exchange.ProcessMarket())
	pos, ok := ctx.Portfolio.Position("AUD/USD")
	require.True(t, ok)
	assert.True(t, pos.Quantity.Equal(decimal.NewFromInt(100)))
}

func TestReset(t *testing.T) {
	t.Parallel()
	ctx := makeContext(t)
	s := New()
	require.NoError(t, s.OnStart(ctx))
	require.NoError(t, s.OnStep(testStart, ctx))

	s.Reset()
	require.NoError(t, s.OnStep(testStart, ctx))
	assert.Len(t, ctx.Exchange.WorkingOrders(), 4, "reset forgets prior purchases")
}
