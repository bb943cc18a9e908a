package engine

import (
	"fmt"
	"os"

	"github.com/gofrs/uuid"
	"github.com/thrasher-corp/backsim/clock"
	"github.com/thrasher-corp/backsim/common"
	"github.com/thrasher-corp/backsim/config"
	"github.com/thrasher-corp/backsim/data"
	"github.com/thrasher-corp/backsim/exchange"
	"github.com/thrasher-corp/backsim/exchange/commission"
	"github.com/thrasher-corp/backsim/log"
	"github.com/thrasher-corp/backsim/portfolio"
	"github.com/thrasher-corp/backsim/strategies"
	"github.com/thrasher-corp/backsim/strategies/base"
	"github.com/thrasher-corp/backsim/trader"
)

// New wires a backtest from validated settings, an instrument universe with
// its bid/ask bar data and optional tick data, and an initial strategy set.
// An empty strategy set is a valid, degenerate run. Supplied strategies are
// mutated in place: their clock and logger bindings are replaced
func New(settings *config.Settings, instruments []data.Instrument, bars map[string]data.BidAskBars, ticks map[string][]data.Tick, strats []strategies.Handler) (*BackTest, error) {
	if settings == nil {
		return nil, errNilSettings
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if err := validateInstruments(instruments); err != nil {
		return nil, err
	}
	for i := range strats {
		if strats[i] == nil {
			return nil, fmt.Errorf("%w at index %v", ErrNilStrategy, i)
		}
	}

	live := clock.Live{}
	setupStart := live.Now()

	if err := applyLogSettings(settings.Log); err != nil {
		return nil, err
	}

	model, err := marketModelFromSettings(settings)
	if err != nil {
		return nil, err
	}

	account := portfolio.NewAccount(settings.Currency, settings.StartingCapital)
	pf := portfolio.NewPortfolio()

	// seeded to wall clock purely so the clock has a defined value before
	// the first run overwrites it
	clk := clock.NewTest(live.Now())

	dataClient, err := data.NewClient(clk, instruments, bars, ticks)
	if err != nil {
		return nil, err
	}

	com, err := commission.NewGeneric(settings.CommissionRateBps)
	if err != nil {
		return nil, err
	}

	exch, err := exchange.New(clk, instruments, bars, model, com,
		settings.SlippageTicks, settings.RandomSeed, account, pf)
	if err != nil {
		return nil, err
	}

	index := data.BuildMinuteIndex(data.Symbols(instruments), bars)
	if !common.TimesEqual(index, dataClient.MinuteIndex()) ||
		!common.TimesEqual(index, exch.MinuteIndex()) {
		return nil, fmt.Errorf("%w: collaborators disagree on the minute index", data.ErrDataInconsistency)
	}

	ctx := &base.Context{
		Instruments: instruments,
		Data:        dataClient,
		Exchange:    exch,
		Account:     account,
		Portfolio:   pf,
	}

	substituteStrategyPlumbing(strats, clk)

	coordinator, err := trader.New(ctx, strats)
	if err != nil {
		return nil, err
	}

	runID, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	bt := &BackTest{
		runID:         runID,
		settings:      settings,
		clk:           clk,
		data:          dataClient,
		exchange:      exch,
		account:       account,
		pf:            pf,
		trader:        coordinator,
		ctx:           ctx,
		index:         index,
		setupDuration: live.Now().Sub(setupStart),
	}
	log.Debugf(log.EngineLog, "backtest %v constructed in %v with %v instruments, %v strategies",
		bt.runID, bt.setupDuration, len(instruments), len(strats))
	return bt, nil
}

func validateInstruments(instruments []data.Instrument) error {
	if len(instruments) == 0 {
		return fmt.Errorf("%w: no instruments supplied", ErrInvalidInstrument)
	}
	seen := make(map[string]bool, len(instruments))
	for i := range instruments {
		if instruments[i].Symbol == "" {
			return fmt.Errorf("%w: empty symbol at index %v", ErrInvalidInstrument, i)
		}
		if instruments[i].TickSize.IsNegative() {
			return fmt.Errorf("%w: %v has negative tick size", ErrInvalidInstrument, instruments[i].Symbol)
		}
		if seen[instruments[i].Symbol] {
			return fmt.Errorf("%w: duplicate symbol %v", ErrInvalidInstrument, instruments[i].Symbol)
		}
		seen[instruments[i].Symbol] = true
	}
	return nil
}

// marketModelFromSettings builds the fill model, treating an entirely zero
// fill-model section as unset and applying the conservative default
func marketModelFromSettings(settings *config.Settings) (*config.MarketModel, error) {
	if settings.FillModel == (config.FillModelSettings{}) {
		return config.DefaultMarketModel(), nil
	}
	return config.NewMarketModelFromSettings(settings.FillModel)
}

func applyLogSettings(ls config.LogSettings) error {
	if ls.Level != "" {
		log.SetGlobalLogLevel(ls.Level)
	}
	switch ls.Output {
	case "", "stdout":
	case "stderr":
		log.SetGlobalLogOutput(os.Stderr)
	default:
		f, err := os.OpenFile(ls.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		log.SetGlobalLogOutput(f)
	}
	return nil
}

// substituteStrategyPlumbing gives every strategy its own simulated clock
// seeded to the engine clock's reading and the engine's strategy sub logger.
// Idempotent, re-applied at every run and strategy change
func substituteStrategyPlumbing(strats []strategies.Handler, clk *clock.Test) {
	for i := range strats {
		strats[i].SetClock(clock.NewTest(clk.Now()))
		strats[i].SetLogger(log.StrategyLog)
	}
}
