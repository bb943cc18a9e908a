package strategies

import (
	"fmt"
	"strings"

	"github.com/thrasher-corp/backsim/strategies/base"
	"github.com/thrasher-corp/backsim/strategies/buyandhold"
	"github.com/thrasher-corp/backsim/strategies/rsi"
)

// GetStrategies returns a new instance of every strategy loadable by name.
// Script-backed strategies need source and are constructed directly instead
func GetStrategies() []Handler {
	return []Handler{
		buyandhold.New(),
		rsi.New(),
	}
}

// LoadStrategyByName returns the strategy matching name, case insensitively
func LoadStrategyByName(name string) (Handler, error) {
	strats := GetStrategies()
	for i := range strats {
		if strings.EqualFold(name, strats[i].Name()) {
			return strats[i], nil
		}
	}
	return nil, fmt.Errorf("strategy '%v' %w", name, base.ErrStrategyNotFound)
}
