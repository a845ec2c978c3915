package simulator

import (
	"testing"

	"github.com/rxtech-lab/argo-crossover/internal/indicator"
	"github.com/rxtech-lab/argo-crossover/internal/signal"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/mocks"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type SimulatorTestSuite struct {
	suite.Suite
}

func TestSimulatorSuite(t *testing.T) {
	suite.Run(t, new(SimulatorTestSuite))
}

func event(series types.PriceSeries, index int, kind types.EventKind) types.PositionEvent {
	return types.PositionEvent{Index: index, Time: series.Bar(index).Time, Kind: kind}
}

func (suite *SimulatorTestSuite) TestBuyThenSell() {
	series := mocks.SeriesFromCloses("AAPL", 10, 12)
	events := []types.PositionEvent{
		event(series, 0, types.EventEnter),
		event(series, 1, types.EventExit),
	}

	result, err := Run(series, events, 100)
	suite.Require().NoError(err)

	suite.Require().Len(result.Trades, 2)
	suite.Equal(types.Trade{Action: types.TradeActionBuy, Time: series.Bar(0).Time, Price: 10, Shares: 10}, result.Trades[0])
	suite.Equal(types.Trade{Action: types.TradeActionSell, Time: series.Bar(1).Time, Price: 12, Shares: 10, PnL: 20}, result.Trades[1])

	suite.Equal(120.0, result.FinalBalance)
	suite.InDelta(20.0, result.TotalReturn, 1e-9)
	suite.Equal(int64(0), result.Portfolio.Shares)

	suite.Require().Len(result.Equity, 2)
	suite.Equal(0.0, result.Equity[0].Cash)
	suite.Equal(int64(10), result.Equity[0].Shares)
	suite.Equal(100.0, result.Equity[0].Equity)
	suite.Equal(120.0, result.Equity[1].Cash)
}

func (suite *SimulatorTestSuite) TestInsufficientCashForOneShare() {
	series := mocks.SeriesFromCloses("AAPL", 10, 11)

	sim, err := NewSimulator(5)
	suite.Require().NoError(err)

	_, traded := sim.Apply(series.Bar(0), types.EventEnter)
	suite.False(traded)
	suite.Equal(StateFlat, sim.State())
	suite.Equal(int64(0), sim.Portfolio().Shares)
	suite.Empty(sim.Trades())

	result, err := Run(series, []types.PositionEvent{event(series, 0, types.EventEnter)}, 5)
	suite.Require().NoError(err)
	suite.Empty(result.Trades)
	suite.Equal(5.0, result.FinalBalance)
	suite.Equal(0.0, result.TotalReturn)
}

func (suite *SimulatorTestSuite) TestNoOpTransitions() {
	series := mocks.SeriesFromCloses("AAPL", 10, 11, 12, 13)

	sim, err := NewSimulator(100)
	suite.Require().NoError(err)

	// EXIT while flat
	_, traded := sim.Apply(series.Bar(0), types.EventExit)
	suite.False(traded)

	_, traded = sim.Apply(series.Bar(1), types.EventEnter)
	suite.True(traded)
	suite.Equal(StateLong, sim.State())

	// ENTER while long
	_, traded = sim.Apply(series.Bar(2), types.EventEnter)
	suite.False(traded)

	_, traded = sim.Apply(series.Bar(3), types.EventExit)
	suite.True(traded)
	suite.Equal(StateFlat, sim.State())

	suite.Len(sim.Trades(), 2)
}

func (suite *SimulatorTestSuite) TestOpenPositionIsMarkedToMarket() {
	series := mocks.SeriesFromCloses("AAPL", 30, 25, 40)

	result, err := Run(series, []types.PositionEvent{event(series, 0, types.EventEnter)}, 100)
	suite.Require().NoError(err)

	// 3 shares at 30, 10 cash left, valued at 40
	suite.Equal(int64(3), result.Portfolio.Shares)
	suite.Equal(130.0, result.FinalBalance)
	suite.InDelta(30.0, result.TotalReturn, 1e-9)
	suite.Len(result.Trades, 1)
}

func (suite *SimulatorTestSuite) TestEmptySeries() {
	series := mocks.SeriesFromCloses("AAPL")

	result, err := Run(series, nil, 10000)
	suite.Require().NoError(err)
	suite.Empty(result.Trades)
	suite.Empty(result.Equity)
	suite.Equal(10000.0, result.FinalBalance)
	suite.Equal(0.0, result.TotalReturn)
}

func (suite *SimulatorTestSuite) TestSingleBar() {
	result, err := Run(mocks.SeriesFromCloses("AAPL", 42), nil, DefaultInitialBalance)
	suite.Require().NoError(err)
	suite.Equal(DefaultInitialBalance, result.FinalBalance)
	suite.Len(result.Equity, 1)
}

func (suite *SimulatorTestSuite) TestZeroPriceEnterIsSkipped() {
	series := mocks.SeriesFromCloses("AAPL", 0, 10)

	result, err := Run(series, []types.PositionEvent{event(series, 0, types.EventEnter)}, 100)
	suite.Require().NoError(err)
	suite.Empty(result.Trades)
}

func (suite *SimulatorTestSuite) TestFractionalCashStaysNonNegative() {
	series := mocks.SeriesFromCloses("AAPL", 0.3, 0.7)

	result, err := Run(series, []types.PositionEvent{
		event(series, 0, types.EventEnter),
		event(series, 1, types.EventExit),
	}, 1)
	suite.Require().NoError(err)

	suite.Equal(int64(3), result.Trades[0].Shares)
	suite.InDelta(0.1, result.Equity[0].Cash, 1e-12)
	suite.InDelta(2.2, result.FinalBalance, 1e-12)
}

func (suite *SimulatorTestSuite) TestRejectsBadInput() {
	series := mocks.SeriesFromCloses("AAPL", 10, 11)

	_, err := NewSimulator(-1)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))

	_, err = Run(series, []types.PositionEvent{{Index: 5, Kind: types.EventEnter}}, 100)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))

	_, err = Run(series, []types.PositionEvent{
		event(series, 1, types.EventEnter),
		event(series, 0, types.EventExit),
	}, 100)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}

func (suite *SimulatorTestSuite) TestInvariantsOnGeneratedData() {
	for seed := int64(1); seed <= 5; seed++ {
		series := mocks.GenerateSeries("TEST", seed, 500)
		params := indicator.DefaultParams()
		params.ShortWindow, params.LongWindow = 10, 30

		_, events := signal.Generate(indicator.Compute(series, params))

		result, err := Run(series, events, DefaultInitialBalance)
		suite.Require().NoError(err)
		suite.Len(result.Equity, series.Len())

		for _, point := range result.Equity {
			suite.GreaterOrEqual(point.Cash, 0.0)
			suite.GreaterOrEqual(point.Shares, int64(0))
			suite.GreaterOrEqual(float64(point.Shares)*point.Close+point.Cash, 0.0)
		}

		// trades alternate BUY/SELL starting with BUY
		for i, trade := range result.Trades {
			if i%2 == 0 {
				suite.Equal(types.TradeActionBuy, trade.Action)
			} else {
				suite.Equal(types.TradeActionSell, trade.Action)
				suite.Equal(result.Trades[i-1].Shares, trade.Shares)
			}
		}
	}
}

func (suite *SimulatorTestSuite) TestIdempotent() {
	series := mocks.GenerateSeries("TEST", 11, 400)
	params := indicator.DefaultParams()
	params.ShortWindow, params.LongWindow = 5, 20
	_, events := signal.Generate(indicator.Compute(series, params))

	first, err := Run(series, events, DefaultInitialBalance)
	suite.Require().NoError(err)

	second, err := Run(series, events, DefaultInitialBalance)
	suite.Require().NoError(err)

	suite.Equal(first.Trades, second.Trades)
	suite.Equal(first.FinalBalance, second.FinalBalance)
}
