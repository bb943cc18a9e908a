package statistics

import (
	"fmt"
	"math"
	"time"

	"github.com/thrasher-corp/backsim/common"
	gctmath "github.com/thrasher-corp/backsim/common/math"
	"github.com/thrasher-corp/backsim/portfolio"
)

// New returns an analyzer over the supplied portfolio. step is the
// iteration interval of the run and is used to annualise returns
func New(pf *portfolio.Portfolio, step time.Duration, riskFreeRate float64) (*Analyzer, error) {
	if pf == nil {
		return nil, errNilPortfolio
	}
	if step <= 0 {
		return nil, fmt.Errorf("%w, received %v", errInvalidStep, step)
	}
	return &Analyzer{
		pf:               pf,
		step:             step,
		riskFreeRate:     riskFreeRate,
		intervalsPerYear: common.MinutesPerYear / step.Minutes(),
	}, nil
}

// PerformanceStats returns a flat map of statistics describing the run's
// equity curve, per-trade results and risk-adjusted ratios
func (a *Analyzer) PerformanceStats() (map[string]float64, error) {
	curve := a.pf.EquityCurve()
	if len(curve) == 0 {
		return nil, ErrNoEquityData
	}

	equity := valuesOf(curve)
	benchmark := valuesOf(a.pf.MarketCurve())
	returns := intervalReturns(equity)
	benchmarkReturns := intervalReturns(benchmark)

	stats := make(map[string]float64, 26)

	first := equity[0]
	last := equity[len(equity)-1]
	stats[KeyPNL] = last - first
	stats[KeyPNLPercent] = gctmath.CalculatePercentageGainOrLoss(last, first)
	stats[KeyCumReturn] = (last / first) - 1
	stats[KeyAnnualReturn] = gctmath.CalculateCompoundAnnualGrowthRate(
		first, last, a.intervalsPerYear, float64(len(equity))) / 100
	stats[KeyMaxDrawdown] = gctmath.CalculateMaxDrawdown(equity)

	mean := gctmath.ArithmeticAverage(returns)
	stats[KeyReturnsMean] = mean
	stats[KeyReturnsVariance] = gctmath.SampleVariance(returns)
	stats[KeyReturnsSkew] = gctmath.Skewness(returns)
	stats[KeyReturnsKurtosis] = gctmath.ExcessKurtosis(returns)
	stats[KeyAnnualVol] = gctmath.SampleStandardDeviation(returns) * math.Sqrt(a.intervalsPerYear)
	stats[KeyTailRatio] = gctmath.TailRatio(returns)

	intervalRiskFree := a.riskFreeRate / a.intervalsPerYear
	stats[KeySharpeRatio] = gctmath.CalculateSharpeRatio(returns, intervalRiskFree, mean)
	stats[KeySortinoRatio] = gctmath.CalculateSortinoRatio(returns, intervalRiskFree, mean)
	stats[KeyOmegaRatio] = gctmath.CalculateOmegaRatio(returns, intervalRiskFree)
	stats[KeyCalmarRatio] = gctmath.CalculateCalmarRatio(maxOf(equity), minOf(equity), mean)
	stats[KeyAlpha] = gctmath.CalculateAlpha(returns, benchmarkReturns, intervalRiskFree)
	stats[KeyBeta] = gctmath.CalculateBeta(returns, benchmarkReturns)

	a.tradeStats(stats)
	return stats, nil
}

// tradeStats fills in the per-trade result statistics from realised trades
func (a *Analyzer) tradeStats(stats map[string]float64) {
	trades := a.pf.Trades()
	var winners, losers []float64
	for i := range trades {
		realized, _ := trades[i].Realized.Float64()
		if realized >= 0 {
			winners = append(winners, realized)
		} else {
			losers = append(losers, realized)
		}
	}
	stats[KeyTotalTrades] = float64(len(trades))
	stats[KeyMaxWinner] = maxOf(winners)
	stats[KeyAvgWinner] = gctmath.ArithmeticAverage(winners)
	stats[KeyMinWinner] = minOf(winners)
	stats[KeyMinLoser] = maxOf(losers)
	stats[KeyAvgLoser] = gctmath.ArithmeticAverage(losers)
	stats[KeyMaxLoser] = minOf(losers)

	if len(trades) == 0 {
		stats[KeyWinRate] = 0
		stats[KeyExpectancy] = 0
		return
	}
	winRate := float64(len(winners)) / float64(len(trades))
	stats[KeyWinRate] = winRate
	stats[KeyExpectancy] = winRate*stats[KeyAvgWinner] + (1-winRate)*stats[KeyAvgLoser]
}

func valuesOf(curve []portfolio.ValueAtTime) []float64 {
	resp := make([]float64, len(curve))
	for i := range curve {
		resp[i], _ = curve[i].Value.Float64()
	}
	return resp
}

// intervalReturns converts a value curve into per-interval simple returns
func intervalReturns(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	resp := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] == 0 {
			resp = append(resp, 0)
			continue
		}
		resp = append(resp, values[i]/values[i-1]-1)
	}
	return resp
}

func maxOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	resp := values[0]
	for _, v := range values[1:] {
		if v > resp {
			resp = v
		}
	}
	return resp
}

func minOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	resp := values[0]
	for _, v := range values[1:] {
		if v < resp {
			resp = v
		}
	}
	return resp
}
