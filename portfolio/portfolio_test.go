package portfolio

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fillTime = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

func TestAccount(t *testing.T) {
	t.Parallel()
	a := NewAccount("USD", decimal.NewFromInt(1000000))
	assert.Equal(t, "USD", a.Currency())
	assert.True(t, a.Balance().Equal(decimal.NewFromInt(1000000)))
	assert.True(t, a.StartingBalance().Equal(decimal.NewFromInt(1000000)))

	a.Debit(decimal.NewFromInt(400))
	a.Credit(decimal.NewFromInt(100))
	assert.True(t, a.Balance().Equal(decimal.NewFromInt(999700)))

	a.Reset()
	assert.True(t, a.Balance().Equal(decimal.NewFromInt(1000000)))
}

func TestOnFillOpenIncrease(t *testing.T) {
	t.Parallel()
	p := NewPortfolio()
	err := p.OnFill("AUD/USD", decimal.Zero, decimal.NewFromInt(1), fillTime)
	assert.ErrorIs(t, err, errZeroQuantity)

	require.NoError(t, p.OnFill("AUD/USD", decimal.NewFromInt(100), decimal.NewFromFloat(0.80), fillTime))
	require.NoError(t, p.OnFill("AUD/USD", decimal.NewFromInt(100), decimal.NewFromFloat(0.90), fillTime))

	pos, ok := p.Position("AUD/USD")
	require.True(t, ok)
	assert.True(t, pos.Quantity.Equal(decimal.NewFromInt(200)))
	assert.True(t, pos.AveragePrice.Equal(decimal.NewFromFloat(0.85)))
	assert.Empty(t, p.Trades(), "increasing fills should not realise trades")
}

func TestOnFillReduceClose(t *testing.T) {
	t.Parallel()
	p := NewPortfolio()
	require.NoError(t, p.OnFill("AUD/USD", decimal.NewFromInt(200), decimal.NewFromFloat(0.80), fillTime))
	require.NoError(t, p.OnFill("AUD/USD", decimal.NewFromInt(-100), decimal.NewFromFloat(0.90), fillTime))

	pos, _ := p.Position("AUD/USD")
	assert.True(t, pos.Quantity.Equal(decimal.NewFromInt(100)))
	assert.True(t, pos.RealizedPNL.Equal(decimal.NewFromInt(10)), "expected (0.90-0.80)*100")
	require.Len(t, p.Trades(), 1)
	assert.True(t, p.Trades()[0].Realized.Equal(decimal.NewFromInt(10)))

	require.NoError(t, p.OnFill("AUD/USD", decimal.NewFromInt(-100), decimal.NewFromFloat(0.70), fillTime))
	pos, _ = p.Position("AUD/USD")
	assert.True(t, pos.Quantity.IsZero())
	assert.True(t, pos.AveragePrice.IsZero())
	assert.True(t, pos.RealizedPNL.Equal(decimal.Zero), "second trade loses what the first made")
}

func TestOnFillFlip(t *testing.T) {
	t.Parallel()
	p := NewPortfolio()
	require.NoError(t, p.OnFill("AUD/USD", decimal.NewFromInt(100), decimal.NewFromFloat(0.80), fillTime))
	require.NoError(t, p.OnFill("AUD/USD", decimal.NewFromInt(-150), decimal.NewFromFloat(0.90), fillTime))

	pos, _ := p.Position("AUD/USD")
	assert.True(t, pos.Quantity.Equal(decimal.NewFromInt(-50)), "should now be short 50")
	assert.True(t, pos.AveragePrice.Equal(decimal.NewFromFloat(0.90)), "remainder opens at fill price")
	assert.True(t, pos.RealizedPNL.Equal(decimal.NewFromInt(10)))
}

func TestOnFillShortSide(t *testing.T) {
	t.Parallel()
	p := NewPortfolio()
	require.NoError(t, p.OnFill("AUD/USD", decimal.NewFromInt(-100), decimal.NewFromFloat(0.90), fillTime))
	require.NoError(t, p.OnFill("AUD/USD", decimal.NewFromInt(100), decimal.NewFromFloat(0.80), fillTime))

	pos, _ := p.Position("AUD/USD")
	assert.True(t, pos.Quantity.IsZero())
	assert.True(t, pos.RealizedPNL.Equal(decimal.NewFromInt(10)), "short profits when price falls")
}

func TestEquityCurve(t *testing.T) {
	t.Parallel()
	p := NewPortfolio()
	p.UpdateEquity(fillTime, decimal.NewFromInt(100), decimal.NewFromInt(50))
	p.UpdateEquity(fillTime.Add(time.Minute), decimal.NewFromInt(110), decimal.NewFromInt(55))

	require.Len(t, p.EquityCurve(), 2)
	require.Len(t, p.MarketCurve(), 2)
	assert.True(t, p.EquityCurve()[1].Value.Equal(decimal.NewFromInt(110)))
	assert.True(t, p.MarketCurve()[0].Value.Equal(decimal.NewFromInt(50)))
}

func TestUnrealizedValue(t *testing.T) {
	t.Parallel()
	p := NewPortfolio()
	require.NoError(t, p.OnFill("AUD/USD", decimal.NewFromInt(100), decimal.NewFromFloat(0.80), fillTime))
	require.NoError(t, p.OnFill("GBP/USD", decimal.NewFromInt(-50), decimal.NewFromFloat(1.60), fillTime))

	prices := map[string]decimal.Decimal{
		"AUD/USD": decimal.NewFromFloat(0.85),
		"GBP/USD": decimal.NewFromFloat(1.50),
	}
	// 100*0.85 - 50*1.50
	assert.True(t, p.UnrealizedValue(prices).Equal(decimal.NewFromInt(10)))
}

func TestPortfolioReset(t *testing.T) {
	t.Parallel()
	p := NewPortfolio()
	require.NoError(t, p.OnFill("AUD/USD", decimal.NewFromInt(100), decimal.NewFromFloat(0.80), fillTime))
	require.NoError(t, p.OnFill("AUD/USD", decimal.NewFromInt(-100), decimal.NewFromFloat(0.90), fillTime))
	p.UpdateEquity(fillTime, decimal.NewFromInt(100), decimal.NewFromInt(50))

	p.Reset()
	assert.Empty(t, p.Positions())
	assert.Empty(t, p.Trades())
	assert.Empty(t, p.EquityCurve())
	assert.Empty(t, p.MarketCurve())
}
