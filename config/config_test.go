package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSettings() *Settings {
	return &Settings{
		StartingCapital:   decimal.NewFromInt(1000000),
		Currency:          "USD",
		SlippageTicks:     0,
		CommissionRateBps: decimal.NewFromFloat(0.20),
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	assert.NoError(t, validSettings().Validate())

	var nilSettings *Settings
	assert.ErrorIs(t, nilSettings.Validate(), ErrInvalidConfiguration)

	s := validSettings()
	s.StartingCapital = decimal.Zero
	assert.ErrorIs(t, s.Validate(), ErrInvalidConfiguration)

	s = validSettings()
	s.StartingCapital = decimal.NewFromInt(-1)
	assert.ErrorIs(t, s.Validate(), ErrInvalidConfiguration)

	s = validSettings()
	s.Currency = ""
	assert.ErrorIs(t, s.Validate(), ErrInvalidConfiguration)

	s = validSettings()
	s.SlippageTicks = -1
	assert.ErrorIs(t, s.Validate(), ErrInvalidConfiguration)

	s = validSettings()
	s.CommissionRateBps = decimal.NewFromFloat(-0.01)
	assert.ErrorIs(t, s.Validate(), ErrInvalidConfiguration)
}

func TestLoadSettings(t *testing.T) {
	t.Parallel()
	_, err := LoadSettings([]byte(`{`))
	assert.Error(t, err)

	_, err = LoadSettings([]byte(`{"starting-capital":"0","currency":"USD"}`))
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	s, err := LoadSettings([]byte(`{
		"starting-capital": "1000000",
		"currency": "USD",
		"slippage-ticks": 2,
		"commission-rate-bps": "0.2",
		"random-seed": 42,
		"fill-model": {"prob-fill-limit-at-best": 1, "prob-fill-stop": 1},
		"log": {"level": "INFO|WARN|ERROR"}
	}`))
	require.NoError(t, err)
	assert.Equal(t, int64(2), s.SlippageTicks)
	assert.Equal(t, int64(42), s.RandomSeed)
	assert.True(t, s.CommissionRateBps.Equal(decimal.NewFromFloat(0.2)))
	assert.Equal(t, 1.0, s.FillModel.ProbFillLimitAtBest)
}

func TestNewMarketModel(t *testing.T) {
	t.Parallel()
	m, err := NewMarketModel(0.25, 0.5, 0.75, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.25, m.ProbFillLimitAtBest())
	assert.Equal(t, 0.5, m.ProbFillLimitAtMid())
	assert.Equal(t, 0.75, m.ProbFillLimitAtCross())
	assert.Equal(t, 1.0, m.ProbFillStop())
	assert.Equal(t, 0.0, m.ProbSlippage())

	// boundary values succeed
	_, err = NewMarketModel(0, 0, 0, 0, 0)
	assert.NoError(t, err)
	_, err = NewMarketModel(1, 1, 1, 1, 1)
	assert.NoError(t, err)
}

func TestNewMarketModelOutOfRange(t *testing.T) {
	t.Parallel()
	for i := 0; i < 5; i++ {
		probs := []float64{0.5, 0.5, 0.5, 0.5, 0.5}
		probs[i] = -0.01
		_, err := NewMarketModel(probs[0], probs[1], probs[2], probs[3], probs[4])
		assert.ErrorIs(t, err, ErrInvalidConfiguration, "negative probability %v should fail", i)

		probs[i] = 1.01
		_, err = NewMarketModel(probs[0], probs[1], probs[2], probs[3], probs[4])
		assert.ErrorIs(t, err, ErrInvalidConfiguration, "probability %v above one should fail", i)
	}
}

func TestDefaultMarketModel(t *testing.T) {
	t.Parallel()
	m := DefaultMarketModel()
	assert.Equal(t, 1.0, m.ProbFillLimitAtBest())
	assert.Equal(t, 1.0, m.ProbFillStop())
	assert.Zero(t, m.ProbSlippage())
}

func TestNewMarketModelFromSettings(t *testing.T) {
	t.Parallel()
	m, err := NewMarketModelFromSettings(FillModelSettings{
		ProbFillLimitAtBest: 0.9,
		ProbFillStop:        0.8,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.9, m.ProbFillLimitAtBest())

	_, err = NewMarketModelFromSettings(FillModelSettings{ProbSlippage: 2})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}
