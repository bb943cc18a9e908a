package statistics

import (
	"errors"
	"time"

	"github.com/thrasher-corp/backsim/portfolio"
)

var (
	// ErrNoEquityData is returned when performance statistics are requested
	// before any equity snapshots exist
	ErrNoEquityData = errors.New("no equity data to analyse")

	errNilPortfolio = errors.New("received nil portfolio")
	errInvalidStep  = errors.New("step must be positive")
)

// Statistic keys reported by the analyzer
const (
	KeyPNL             = "PNL"
	KeyPNLPercent      = "PNL%"
	KeyMaxWinner       = "MaxWinner"
	KeyAvgWinner       = "AvgWinner"
	KeyMinWinner       = "MinWinner"
	KeyMinLoser        = "MinLoser"
	KeyAvgLoser        = "AvgLoser"
	KeyMaxLoser        = "MaxLoser"
	KeyWinRate         = "WinRate"
	KeyExpectancy      = "Expectancy"
	KeyTotalTrades     = "TotalTrades"
	KeyAnnualReturn    = "AnnualReturn"
	KeyCumReturn       = "CumReturn"
	KeyMaxDrawdown     = "MaxDrawdown"
	KeyAnnualVol       = "AnnualVol"
	KeySharpeRatio     = "SharpeRatio"
	KeyCalmarRatio     = "CalmarRatio"
	KeySortinoRatio    = "SortinoRatio"
	KeyOmegaRatio      = "OmegaRatio"
	KeyReturnsMean     = "ReturnsMean"
	KeyReturnsVariance = "ReturnsVariance"
	KeyReturnsSkew     = "ReturnsSkew"
	KeyReturnsKurtosis = "ReturnsKurtosis"
	KeyTailRatio       = "TailRatio"
	KeyAlpha           = "Alpha"
	KeyBeta            = "Beta"
)

// Analyzer computes portfolio performance statistics over the equity and
// benchmark curves accumulated during a run
type Analyzer struct {
	pf               *portfolio.Portfolio
	step             time.Duration
	riskFreeRate     float64
	intervalsPerYear float64
}
