package exchange

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/backsim/clock"
	"github.com/thrasher-corp/backsim/config"
	"github.com/thrasher-corp/backsim/data"
	"github.com/thrasher-corp/backsim/exchange/commission"
	"github.com/thrasher-corp/backsim/log"
	"github.com/thrasher-corp/backsim/portfolio"
)

var two = decimal.NewFromInt(2)

// New returns a simulated exchange over the supplied bid/ask bar series.
// The exchange derives its own minute index from the data so the engine can
// verify all collaborators agree on which timestamps exist to replay
func New(clk *clock.Test, instruments []data.Instrument, bars map[string]data.BidAskBars, model *config.MarketModel, com *commission.Generic, slippageTicks, seed int64, account *portfolio.Account, pf *portfolio.Portfolio) (*Simulated, error) {
	if clk == nil || model == nil || com == nil || account == nil || pf == nil {
		return nil, errNilArgument
	}
	instrumentMap := make(map[string]data.Instrument, len(instruments))
	symbols := make([]string, 0, len(instruments))
	for i := range instruments {
		instrumentMap[instruments[i].Symbol] = instruments[i]
		symbols = append(symbols, instruments[i].Symbol)
	}
	index := data.BuildMinuteIndex(symbols, bars)
	if len(index) == 0 {
		return nil, fmt.Errorf("%w: no common timestamps across instruments", data.ErrDataInconsistency)
	}
	return &Simulated{
		clk:           clk,
		model:         model,
		com:           com,
		account:       account,
		pf:            pf,
		instruments:   instrumentMap,
		symbols:       symbols,
		bars:          bars,
		index:         index,
		slippageTicks: slippageTicks,
		seed:          seed,
		rng:           rand.New(rand.NewSource(seed)),
	}, nil
}

// MinuteIndex returns the exchange's own derivation of the replay timestamps
func (s *Simulated) MinuteIndex() []time.Time {
	return s.index
}

// SetInitialIteration moves the iteration cursor to start with the supplied
// step size, resets the iteration counter and reseeds the random source so
// repeated runs draw an identical sequence
func (s *Simulated) SetInitialIteration(start time.Time, step time.Duration) error {
	if step <= 0 {
		return fmt.Errorf("%w: step %v", ErrInvalidOrder, step)
	}
	if start.Before(s.index[0]) || start.After(s.index[len(s.index)-1]) {
		return fmt.Errorf("%w: start %v outside data range", data.ErrDataInconsistency, start)
	}
	s.step = step
	s.current = start
	s.iteration = 0
	s.iterating = true
	s.rng = rand.New(rand.NewSource(s.seed))
	return nil
}

// Iterate advances the cursor one step, returning the new simulated time view
func (s *Simulated) Iterate() (time.Time, error) {
	if !s.iterating {
		return time.Time{}, errNotIterating
	}
	s.current = s.current.Add(s.step)
	s.iteration++
	return s.current, nil
}

// TimeNow returns the exchange's view of the current simulated time
func (s *Simulated) TimeNow() time.Time {
	return s.current
}

// Iteration returns the running iteration count since the last
// SetInitialIteration
func (s *Simulated) Iteration() int64 {
	return s.iteration
}

// TotalCommissions returns the running sum of commissions charged
func (s *Simulated) TotalCommissions() decimal.Decimal {
	return s.totalCommissions
}

// Fills returns every fill generated since the last reset
func (s *Simulated) Fills() []Fill {
	return s.fills
}

// SubmitOrder accepts a new working order. Market orders resolve on the
// next ProcessMarket call, limit and stop orders rest until the market
// model fills them or they are cancelled
func (s *Simulated) SubmitOrder(symbol string, side Side, orderType OrderType, quantity, price decimal.Decimal) (uuid.UUID, error) {
	if _, ok := s.instruments[symbol]; !ok {
		return uuid.Nil, fmt.Errorf("%w %v", data.ErrUnknownSymbol, symbol)
	}
	if side != Buy && side != Sell {
		return uuid.Nil, fmt.Errorf("%w: side %v", ErrInvalidOrder, side)
	}
	if !quantity.IsPositive() {
		return uuid.Nil, fmt.Errorf("%w: quantity %v must be positive", ErrInvalidOrder, quantity)
	}
	if orderType != Market && !price.IsPositive() {
		return uuid.Nil, fmt.Errorf("%w: %v orders require a positive price", ErrInvalidOrder, orderType)
	}
	if orderType != Market && orderType != Limit && orderType != Stop {
		return uuid.Nil, fmt.Errorf("%w: type %v", ErrInvalidOrder, orderType)
	}
	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, err
	}
	s.working = append(s.working, &Order{
		ID:          id,
		Symbol:      symbol,
		Side:        side,
		Type:        orderType,
		Quantity:    quantity,
		Price:       price,
		SubmittedAt: s.clk.Now(),
	})
	log.Debugf(log.ExchangeLog, "accepted %v %v %v %v @ %v", side, orderType, quantity, symbol, price)
	return id, nil
}

// CancelOrder removes a working order
func (s *Simulated) CancelOrder(id uuid.UUID) error {
	for i := range s.working {
		if s.working[i].ID != id {
			continue
		}
		s.working = append(s.working[:i], s.working[i+1:]...)
		return nil
	}
	return fmt.Errorf("%w %v", ErrOrderNotFound, id)
}

// WorkingOrders returns copies of every order still resting
func (s *Simulated) WorkingOrders() []Order {
	resp := make([]Order, len(s.working))
	for i := range s.working {
		resp[i] = *s.working[i]
	}
	return resp
}

// ProcessMarket resolves working orders against the prices visible at the
// shared simulated clock's current time, then marks the portfolio to market.
// Orders are assessed in submission order so runs are reproducible
func (s *Simulated) ProcessMarket() error {
	if !s.iterating {
		return errNotIterating
	}
	now := s.clk.Now()

	remaining := s.working[:0]
	for _, o := range s.working {
		filled, err := s.tryFill(o, now)
		if err != nil {
			return err
		}
		if !filled {
			remaining = append(remaining, o)
		}
	}
	s.working = remaining

	s.markToMarket(now)
	return nil
}

func (s *Simulated) tryFill(o *Order, now time.Time) (bool, error) {
	series := s.bars[o.Symbol]
	bid, err := data.LatestBarAt(series.Bid, now)
	if err != nil {
		// no prices visible yet, order keeps resting
		return false, nil
	}
	ask, err := data.LatestBarAt(series.Ask, now)
	if err != nil {
		return false, nil
	}

	price, ok := s.resolvePrice(o, bid, ask)
	if !ok {
		return false, nil
	}
	price = s.applySlippage(o, price)

	c := s.com.Calculate(o.Quantity, price)
	s.totalCommissions = s.totalCommissions.Add(c)

	signedQty := o.Quantity
	if o.Side == Sell {
		signedQty = signedQty.Neg()
	}
	notional := o.Quantity.Mul(price)
	if o.Side == Buy {
		s.account.Debit(notional.Add(c))
	} else {
		s.account.Credit(notional.Sub(c))
	}
	if err := s.pf.OnFill(o.Symbol, signedQty, price, now); err != nil {
		return false, err
	}
	s.fills = append(s.fills, Fill{
		OrderID:    o.ID,
		Symbol:     o.Symbol,
		Side:       o.Side,
		Quantity:   o.Quantity,
		Price:      price,
		Commission: c,
		Time:       now,
	})
	log.Debugf(log.ExchangeLog, "filled %v %v %v @ %v commission %v", o.Side, o.Quantity, o.Symbol, price, c)
	return true, nil
}

// resolvePrice determines whether the order fills this step and at what
// price, per the market model's price selection semantics
func (s *Simulated) resolvePrice(o *Order, bid, ask data.Bar) (decimal.Decimal, bool) {
	switch o.Type {
	case Market:
		// immediate fill at the far touch
		if o.Side == Buy {
			return ask.Close, true
		}
		return bid.Close, true
	case Limit:
		return s.resolveLimit(o, bid, ask)
	case Stop:
		return s.resolveStop(o, bid, ask)
	}
	return decimal.Zero, false
}

func (s *Simulated) resolveLimit(o *Order, bid, ask data.Bar) (decimal.Decimal, bool) {
	mid := bid.Close.Add(ask.Close).Div(two)
	var candidates []struct {
		price decimal.Decimal
		prob  float64
	}
	if o.Side == Buy {
		// a buy limit is not competitive until the market has traded at
		// or below its price
		if bid.Low.GreaterThan(o.Price) {
			return decimal.Zero, false
		}
		candidates = []struct {
			price decimal.Decimal
			prob  float64
		}{
			{bid.Close, s.model.ProbFillLimitAtBest()},
			{mid, s.model.ProbFillLimitAtMid()},
			{ask.Close, s.model.ProbFillLimitAtCross()},
		}
		for _, c := range candidates {
			if c.price.GreaterThan(o.Price) {
				// a buy limit can never pay above its price
				continue
			}
			if s.rng.Float64() < c.prob {
				return c.price, true
			}
		}
		return decimal.Zero, false
	}

	if ask.High.LessThan(o.Price) {
		return decimal.Zero, false
	}
	candidates = []struct {
		price decimal.Decimal
		prob  float64
	}{
		{ask.Close, s.model.ProbFillLimitAtBest()},
		{mid, s.model.ProbFillLimitAtMid()},
		{bid.Close, s.model.ProbFillLimitAtCross()},
	}
	for _, c := range candidates {
		if c.price.LessThan(o.Price) {
			continue
		}
		if s.rng.Float64() < c.prob {
			return c.price, true
		}
	}
	return decimal.Zero, false
}

func (s *Simulated) resolveStop(o *Order, bid, ask data.Bar) (decimal.Decimal, bool) {
	triggered := false
	if o.Side == Buy {
		triggered = ask.High.GreaterThanOrEqual(o.Price)
	} else {
		triggered = bid.Low.LessThanOrEqual(o.Price)
	}
	if !triggered {
		return decimal.Zero, false
	}
	if s.rng.Float64() >= s.model.ProbFillStop() {
		return decimal.Zero, false
	}
	return o.Price, true
}

// applySlippage adversely moves the fill price by the configured tick count
// when the slippage probability hits
func (s *Simulated) applySlippage(o *Order, price decimal.Decimal) decimal.Decimal {
	inst := s.instruments[o.Symbol]
	if inst.TickSize.IsZero() || s.slippageTicks == 0 {
		return price
	}
	if s.model.ProbSlippage() <= 0 {
		return price
	}
	if s.rng.Float64() >= s.model.ProbSlippage() {
		return price
	}
	adjustment := inst.TickSize.Mul(decimal.NewFromInt(s.slippageTicks))
	if o.Side == Buy {
		return price.Add(adjustment)
	}
	return price.Sub(adjustment)
}

func (s *Simulated) markToMarket(now time.Time) {
	prices := make(map[string]decimal.Decimal, len(s.symbols))
	var sum decimal.Decimal
	for _, symbol := range s.symbols {
		series := s.bars[symbol]
		bid, err := data.LatestBarAt(series.Bid, now)
		if err != nil {
			continue
		}
		ask, err := data.LatestBarAt(series.Ask, now)
		if err != nil {
			continue
		}
		mid := bid.Close.Add(ask.Close).Div(two)
		prices[symbol] = mid
		sum = sum.Add(mid)
	}
	if len(prices) == 0 {
		return
	}
	equity := s.account.Balance().Add(s.pf.UnrealizedValue(prices))
	benchmark := sum.Div(decimal.NewFromInt(int64(len(prices))))
	s.pf.UpdateEquity(now, equity, benchmark)
}

// Reset returns the exchange, its account and its portfolio to their post
// construction state, retaining the loaded data, model and seed
func (s *Simulated) Reset() {
	s.step = 0
	s.current = time.Time{}
	s.iteration = 0
	s.iterating = false
	s.working = nil
	s.fills = nil
	s.totalCommissions = decimal.Zero
	s.rng = rand.New(rand.NewSource(s.seed))
	s.account.Reset()
	s.pf.Reset()
}
