// Package strategy wires the indicator, signal, simulation and performance stages into
// the moving-average crossover backtest for one symbol.
package strategy

import (
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/internal/backtest/simulator"
	"github.com/rxtech-lab/argo-crossover/internal/indicator"
	"github.com/rxtech-lab/argo-crossover/internal/performance"
	"github.com/rxtech-lab/argo-crossover/internal/signal"
	"github.com/rxtech-lab/argo-crossover/internal/types"
)

type Config struct {
	Indicators     indicator.Params
	InitialBalance float64
}

// DefaultConfig returns MA 50/200, RSI 14, MACD 12/26/9 and a 10000 balance.
func DefaultConfig() Config {
	return Config{
		Indicators:     indicator.DefaultParams(),
		InitialBalance: simulator.DefaultInitialBalance,
	}
}

// Result holds every stage's output for one series.
type Result struct {
	Symbol      string
	Indicators  types.IndicatorSet
	Positions   []types.PositionState
	Events      []types.PositionEvent
	Simulation  simulator.Result
	Performance performance.Report
}

// SimpleMovingAverageCrossover goes long when the short MA is above the long MA and
// flat otherwise.
type SimpleMovingAverageCrossover struct {
	config Config
}

func NewSimpleMovingAverageCrossover(config Config) *SimpleMovingAverageCrossover {
	return &SimpleMovingAverageCrossover{config: config}
}

// Name returns e.g. "SMA_Cross_50_200".
func (s *SimpleMovingAverageCrossover) Name() string {
	return fmt.Sprintf("SMA_Cross_%d_%d", s.config.Indicators.ShortWindow, s.config.Indicators.LongWindow)
}

// Run executes the full pipeline. It only fails on invalid configuration; any
// well-formed series, including an empty one, produces a result.
func (s *SimpleMovingAverageCrossover) Run(series types.PriceSeries) (Result, error) {
	if err := s.config.Indicators.Validate(); err != nil {
		return Result{}, err
	}

	set := indicator.Compute(series, s.config.Indicators)
	positions, events := signal.Generate(set)

	simulation, err := simulator.Run(series, events, s.config.InitialBalance)
	if err != nil {
		return Result{}, fmt.Errorf("failed to simulate %s: %w", series.Symbol(), err)
	}

	definedFrom := signal.DefinedFrom(set.MAShort, set.MALong)
	report := performance.Analyze(set.DailyReturn, positions, definedFrom, simulation.Equity, simulation.Trades)

	return Result{
		Symbol:      series.Symbol(),
		Indicators:  set,
		Positions:   positions,
		Events:      events,
		Simulation:  simulation,
		Performance: report,
	}, nil
}

// Stats returns the scalar report of the result. Run metadata (id, timestamp, file
// paths) is left for the caller.
func (r Result) Stats() types.RunStats {
	stats := types.RunStats{
		Symbol:                   r.Symbol,
		NumberOfBars:             r.Indicators.Len(),
		NumberOfInvalidBars:      len(r.Indicators.InvalidBars),
		InitialBalance:           r.Simulation.InitialBalance,
		FinalBalance:             r.Simulation.FinalBalance,
		TotalReturn:              r.Simulation.TotalReturn,
		AnnualizedVolatility:     optionalPointer(r.Performance.AnnualizedVolatility),
		StrategyCumulativeReturn: optionalPointer(r.Performance.CumulativeStrategy.Last()),
		MarketCumulativeReturn:   optionalPointer(r.Performance.CumulativeMarket.Last()),
		TradeResult:              r.Performance.Trades,
	}

	if n := r.Indicators.Len(); n > 0 {
		stats.FirstBarTime = r.Indicators.Times[0]
		stats.LastBarTime = r.Indicators.Times[n-1]
	}

	return stats
}

func optionalPointer[T any](o optional.Option[T]) *T {
	if !o.IsSome() {
		return nil
	}

	v := o.Unwrap()

	return &v
}
