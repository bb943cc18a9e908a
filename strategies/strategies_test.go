package strategies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thrasher-corp/backsim/strategies/base"
)

func TestGetStrategies(t *testing.T) {
	t.Parallel()
	resp := GetStrategies()
	require.NotEmpty(t, resp)
	seen := make(map[string]bool)
	for i := range resp {
		name := resp[i].Name()
		assert.NotEmpty(t, name)
		assert.False(t, seen[name], "duplicate strategy name %v", name)
		seen[name] = true
	}
}

func TestLoadStrategyByName(t *testing.T) {
	t.Parallel()
	h, err := LoadStrategyByName("rsi")
	require.NoError(t, err)
	assert.Equal(t, "rsi", h.Name())

	h, err = LoadStrategyByName("BuyAndHold")
	require.NoError(t, err)
	assert.Equal(t, "buyandhold", h.Name())

	_, err = LoadStrategyByName("totally not real")
	assert.ErrorIs(t, err, base.ErrStrategyNotFound)
}
