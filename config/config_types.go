package config

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidConfiguration is returned when a Settings or MarketModel
	// field fails validation at construction
	ErrInvalidConfiguration = errors.New("invalid configuration")

	errProbabilityOutOfRange = errors.New("probability must be within 0-1")
)

// Settings holds the validated, immutable simulation parameters for a
// backtest run
type Settings struct {
	// StartingCapital is the account opening balance, must be positive
	StartingCapital decimal.Decimal `json:"starting-capital"`
	// Currency is the account denomination currency code
	Currency string `json:"currency"`
	// SlippageTicks is the adverse price movement applied to a fill when
	// the market model's slippage probability hits, in price ticks
	SlippageTicks int64 `json:"slippage-ticks"`
	// CommissionRateBps is the commission charged per fill against filled
	// notional value, in basis points
	CommissionRateBps decimal.Decimal `json:"commission-rate-bps"`
	// RandomSeed seeds the execution pseudo-random source. The same seed
	// with the same data and strategies reproduces identical fills
	RandomSeed int64 `json:"random-seed"`
	// FillModel holds the market model probabilities when loading from file
	FillModel FillModelSettings `json:"fill-model"`
	// Log controls verbosity and destination of backtest logging
	Log LogSettings `json:"log"`
}

// FillModelSettings is the file readable form of a MarketModel
type FillModelSettings struct {
	ProbFillLimitAtBest  float64 `json:"prob-fill-limit-at-best"`
	ProbFillLimitAtMid   float64 `json:"prob-fill-limit-at-mid"`
	ProbFillLimitAtCross float64 `json:"prob-fill-limit-at-cross"`
	ProbFillStop         float64 `json:"prob-fill-stop"`
	ProbSlippage         float64 `json:"prob-slippage"`
}

// LogSettings controls logging verbosity and destination
type LogSettings struct {
	// Level is a pipe delimited set of enabled levels eg "INFO|WARN|ERROR".
	// An empty level leaves the logger defaults untouched
	Level string `json:"level"`
	// Output is "stdout", "stderr" or a file path. Empty means stdout
	Output string `json:"output"`
}

// MarketModel holds the validated, immutable probabilities governing how
// simulated orders fill.
//
// Price selection semantics for limit orders: a BUY limit's "best" price is
// the bid, "mid" is the bid/ask midpoint and "cross" is the ask. A SELL
// limit mirrors this, best=ask, mid=mid, cross=bid. The probabilities are
// evaluated in best, mid, cross order by the simulated exchange
type MarketModel struct {
	probFillLimitAtBest  float64
	probFillLimitAtMid   float64
	probFillLimitAtCross float64
	probFillStop         float64
	probSlippage         float64
}
