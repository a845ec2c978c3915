// Package performance derives return and risk figures from daily returns, positions
// and the simulated equity curve.
package performance

import (
	"math"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/internal/types"
)

// TradingDaysPerYear annualizes daily volatility.
const TradingDaysPerYear = 252

// Report groups the figures computed for one run.
type Report struct {
	StrategyReturns      types.Series
	CumulativeStrategy   types.Series
	CumulativeMarket     types.Series
	AnnualizedVolatility optional.Option[float64]
	MaxDrawdown          float64
	Trades               types.TradeResult
}

// AnnualizedVolatility is the sample standard deviation of the defined returns
// times sqrt(252). It is undefined with fewer than two defined returns.
func AnnualizedVolatility(returns types.Series) optional.Option[float64] {
	values := returns.DefinedValues()
	if len(values) < 2 {
		return optional.None[float64]()
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}

	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}

	variance /= float64(len(values) - 1)

	return optional.Some(math.Sqrt(variance) * math.Sqrt(TradingDaysPerYear))
}

// StrategyReturns returns returns[t] * positions[t-1]: the position decided at the
// close of t-1 earns the return realized over t. Bar 0 is undefined.
func StrategyReturns(returns types.Series, positions []types.PositionState) types.Series {
	out := types.UndefinedSeries(len(returns))

	for t := 1; t < len(returns) && t <= len(positions); t++ {
		r, ok := returns.At(t)
		if !ok {
			continue
		}

		out[t] = optional.Some(r * float64(positions[t-1]))
	}

	return out
}

// CumulativeReturns compounds returns: c[t] = (1+c[t-1])*(1+r[t]) - 1, starting from
// a product of 1. Undefined returns give undefined outputs and do not move the
// product.
func CumulativeReturns(returns types.Series) types.Series {
	out := types.UndefinedSeries(len(returns))
	product := 1.0

	for t, r := range returns {
		if r.IsNone() {
			continue
		}

		product *= 1 + r.Unwrap()
		out[t] = optional.Some(product - 1)
	}

	return out
}

// TotalReturnPercent is (final - initial) / initial * 100, or 0 for a zero initial
// balance.
func TotalReturnPercent(initial, final float64) float64 {
	if initial == 0 {
		return 0
	}

	return (final - initial) / initial * 100
}

// MaxDrawdown is the largest drop from a running equity peak, as a fraction of that
// peak.
func MaxDrawdown(equity []types.EquityPoint) float64 {
	peak := 0.0
	maxDrawdown := 0.0

	for _, point := range equity {
		if point.Equity > peak {
			peak = point.Equity
		}

		if peak > 0 {
			maxDrawdown = math.Max(maxDrawdown, (peak-point.Equity)/peak)
		}
	}

	return maxDrawdown
}

// TradeSummary counts fills and closed round trips. A round trip is a SELL; its pnl
// decides whether it won.
func TradeSummary(trades []types.Trade) types.TradeResult {
	result := types.TradeResult{NumberOfTrades: len(trades)}

	for _, trade := range trades {
		if trade.Action != types.TradeActionSell {
			continue
		}

		result.NumberOfRoundTrips++
		result.RealizedPnL += trade.PnL

		switch {
		case trade.PnL > 0:
			result.NumberOfWinningTrades++
		case trade.PnL < 0:
			result.NumberOfLosingTrades++
		}
	}

	if result.NumberOfRoundTrips > 0 {
		result.WinRate = float64(result.NumberOfWinningTrades) / float64(result.NumberOfRoundTrips)
	}

	return result
}

// Analyze computes every figure of Report. The return curves cover the bars from
// definedFrom on, the first bar where both moving averages are defined: the market
// curve compounds returns from that bar and the strategy curve from the next one,
// since the first defined position has no predecessor. Volatility uses every
// defined return of the series.
func Analyze(returns types.Series, positions []types.PositionState, definedFrom int, equity []types.EquityPoint, trades []types.Trade) Report {
	strategy := StrategyReturns(returns.Since(definedFrom+1), positions)
	summary := TradeSummary(trades)
	summary.MaxDrawdown = MaxDrawdown(equity)

	return Report{
		StrategyReturns:      strategy,
		CumulativeStrategy:   CumulativeReturns(strategy),
		CumulativeMarket:     CumulativeReturns(returns.Since(definedFrom)),
		AnnualizedVolatility: AnnualizedVolatility(returns),
		MaxDrawdown:          summary.MaxDrawdown,
		Trades:               summary,
	}
}
