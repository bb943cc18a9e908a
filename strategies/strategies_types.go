package strategies

import (
	"time"

	"github.com/thrasher-corp/backsim/clock"
	"github.com/thrasher-corp/backsim/log"
	"github.com/thrasher-corp/backsim/strategies/base"
)

// Handler defines all functions required to run strategies against a
// backtest. Each strategy holds its own clock which the run loop keeps in
// step with the engine's shared clock
type Handler interface {
	Name() string
	Description() string
	SetClock(*clock.Test)
	Clock() *clock.Test
	SetLogger(*log.SubLogger)
	OnStart(*base.Context) error
	OnStep(time.Time, *base.Context) error
	OnStop(*base.Context) error
	Reset()
}
