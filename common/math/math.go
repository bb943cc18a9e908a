package math

import (
	"math"
	"sort"
)

// ArithmeticAverage is the basic form of calculating an average.
// Divide the sum of all values by the length of values
func ArithmeticAverage(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sumOfValues float64
	for x := range values {
		sumOfValues += values[x]
	}
	return sumOfValues / float64(len(values))
}

// SampleVariance measures the dispersion of a dataset relative to its mean
// using Bessel's correction
func SampleVariance(values []float64) float64 {
	if len(values) <= 1 {
		return 0
	}
	mean := ArithmeticAverage(values)
	var combined float64
	for i := range values {
		combined += math.Pow(values[i]-mean, 2)
	}
	return combined / (float64(len(values)) - 1)
}

// SampleStandardDeviation is the square root of the sample variance
func SampleStandardDeviation(values []float64) float64 {
	return math.Sqrt(SampleVariance(values))
}

// PopulationStandardDeviation calculates standard deviation using population
// based calculation
func PopulationStandardDeviation(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	avg := ArithmeticAverage(values)
	diffs := make([]float64, len(values))
	for x := range values {
		diffs[x] = math.Pow(values[x]-avg, 2)
	}
	return math.Sqrt(ArithmeticAverage(diffs))
}

// CalculatePercentageGainOrLoss returns the percentage rise over a certain
// period
func CalculatePercentageGainOrLoss(priceNow, priceThen float64) float64 {
	if priceThen == 0 {
		return 0
	}
	return (priceNow - priceThen) / priceThen * 100
}

// CalculateCompoundAnnualGrowthRate calculates CAGR.
// Using years, intervals per year would be 1 and number of intervals would
// be the number of years. Using minutes, intervals per year would be 525960
// and the number of intervals the number of minutes in the range
func CalculateCompoundAnnualGrowthRate(openValue, closeValue, intervalsPerYear, numberOfIntervals float64) float64 {
	if openValue <= 0 || numberOfIntervals == 0 {
		return 0
	}
	k := math.Pow(closeValue/openValue, intervalsPerYear/numberOfIntervals) - 1
	return k * 100
}

// CalculateSharpeRatio returns sharpe ratio of backtest returns compared to
// risk-free
func CalculateSharpeRatio(movementPerInterval []float64, riskFreeRate, average float64) float64 {
	if len(movementPerInterval) <= 1 {
		return 0
	}
	excessReturns := make([]float64, len(movementPerInterval))
	for i := range movementPerInterval {
		excessReturns[i] = movementPerInterval[i] - riskFreeRate
	}
	standardDeviation := SampleStandardDeviation(excessReturns)
	if standardDeviation == 0 {
		return 0
	}
	return (average - riskFreeRate) / standardDeviation
}

// CalculateSortinoRatio returns sortino ratio of backtest returns compared to
// risk-free, penalising only downside deviation
func CalculateSortinoRatio(movementPerInterval []float64, riskFreeRate, average float64) float64 {
	if len(movementPerInterval) == 0 {
		return 0
	}
	totalNegativeResultsSquared := 0.0
	for x := range movementPerInterval {
		if movementPerInterval[x]-riskFreeRate < 0 {
			totalNegativeResultsSquared += math.Pow(movementPerInterval[x]-riskFreeRate, 2)
		}
	}
	averageDownsideDeviation := math.Sqrt(totalNegativeResultsSquared / float64(len(movementPerInterval)))
	if averageDownsideDeviation == 0 {
		return 0
	}
	return (average - riskFreeRate) / averageDownsideDeviation
}

// CalculateCalmarRatio is a function of the average compounded annual rate of
// return versus its maximum drawdown
func CalculateCalmarRatio(highestValue, lowestValue, average float64) float64 {
	if highestValue == 0 {
		return 0
	}
	drawdownDiff := (highestValue - lowestValue) / highestValue
	if drawdownDiff == 0 {
		return 0
	}
	return average / drawdownDiff
}

// CalculateOmegaRatio is the probability weighted ratio of gains versus
// losses against a threshold return target
func CalculateOmegaRatio(movementPerInterval []float64, threshold float64) float64 {
	var gains, losses float64
	for i := range movementPerInterval {
		diff := movementPerInterval[i] - threshold
		if diff >= 0 {
			gains += diff
		} else {
			losses -= diff
		}
	}
	if losses == 0 {
		return 0
	}
	return gains / losses
}

// CalculateMaxDrawdown returns the biggest peak to trough decline across the
// supplied value curve as a positive percentage
func CalculateMaxDrawdown(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	peak := values[0]
	var maxDrawdown float64
	for i := range values {
		if values[i] > peak {
			peak = values[i]
		}
		if peak == 0 {
			continue
		}
		drawdown := (peak - values[i]) / peak * 100
		if drawdown > maxDrawdown {
			maxDrawdown = drawdown
		}
	}
	return maxDrawdown
}

// Skewness measures the asymmetry of the distribution of values about its
// mean using the adjusted Fisher-Pearson coefficient
func Skewness(values []float64) float64 {
	n := float64(len(values))
	if n < 3 {
		return 0
	}
	mean := ArithmeticAverage(values)
	stdDev := SampleStandardDeviation(values)
	if stdDev == 0 {
		return 0
	}
	var cubed float64
	for i := range values {
		cubed += math.Pow((values[i]-mean)/stdDev, 3)
	}
	return n / ((n - 1) * (n - 2)) * cubed
}

// ExcessKurtosis measures the tailedness of the distribution of values
// relative to a normal distribution
func ExcessKurtosis(values []float64) float64 {
	n := float64(len(values))
	if n < 4 {
		return 0
	}
	mean := ArithmeticAverage(values)
	stdDev := SampleStandardDeviation(values)
	if stdDev == 0 {
		return 0
	}
	var quartic float64
	for i := range values {
		quartic += math.Pow((values[i]-mean)/stdDev, 4)
	}
	adjustment := 3 * (n - 1) * (n - 1) / ((n - 2) * (n - 3))
	return n * (n + 1) / ((n - 1) * (n - 2) * (n - 3)) * quartic - adjustment
}

// Percentile returns the linearly interpolated value at percentile p of a
// sorted copy of values. p must lie within [0, 100]
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 || p < 0 || p > 100 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lower := math.Floor(rank)
	upper := math.Ceil(rank)
	if lower == upper {
		return sorted[int(rank)]
	}
	return sorted[int(lower)]*(upper-rank) + sorted[int(upper)]*(rank-lower)
}

// TailRatio compares the magnitude of the right tail against the left tail
// of the distribution, using the 95th and 5th percentiles
func TailRatio(values []float64) float64 {
	left := math.Abs(Percentile(values, 5))
	if left == 0 {
		return 0
	}
	return math.Abs(Percentile(values, 95)) / left
}

// Covariance measures the joint variability of two equal length datasets
func Covariance(a, b []float64) float64 {
	if len(a) != len(b) || len(a) <= 1 {
		return 0
	}
	meanA := ArithmeticAverage(a)
	meanB := ArithmeticAverage(b)
	var combined float64
	for i := range a {
		combined += (a[i] - meanA) * (b[i] - meanB)
	}
	return combined / (float64(len(a)) - 1)
}

// CalculateBeta measures the volatility of returns relative to benchmark
// returns
func CalculateBeta(returns, benchmark []float64) float64 {
	benchmarkVariance := SampleVariance(benchmark)
	if benchmarkVariance == 0 {
		return 0
	}
	return Covariance(returns, benchmark) / benchmarkVariance
}

// CalculateAlpha measures the excess return of returns against the
// benchmark-explained expectation at the supplied risk-free rate
func CalculateAlpha(returns, benchmark []float64, riskFreeRate float64) float64 {
	if len(returns) == 0 || len(returns) != len(benchmark) {
		return 0
	}
	beta := CalculateBeta(returns, benchmark)
	averageReturn := ArithmeticAverage(returns)
	averageBenchmark := ArithmeticAverage(benchmark)
	return averageReturn - riskFreeRate - beta*(averageBenchmark-riskFreeRate)
}
